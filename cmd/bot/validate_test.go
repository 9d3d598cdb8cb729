package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

func clearBotEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PRACTICUM_TOKEN", "TELEGRAM_TOKEN", "TELEGRAM_CHAT_ID", "PRACTICUM_ENDPOINT",
		"RETRY_TIME", "POLL_CRON_SPEC", "REQUEST_TIMEOUT", "HEALTH_ADDR", "ENABLE_COMMANDS",
	} {
		t.Setenv(key, "")
	}
}

func TestValidate_ValidConfigFile(t *testing.T) {
	clearBotEnv(t)
	configPath := filepath.Join(t.TempDir(), "bot.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
practicum_token: p
telegram_token: t
telegram_chat_id: 42
retry_time: 10m
health_addr: ":8081"
`), 0o644))

	output, err := executeCmd(t, "validate", "-c", configPath)
	require.NoError(t, err)

	assert.Contains(t, output, "Config is valid!")
	assert.Contains(t, output, "Poll interval:   10m0s")
	assert.Contains(t, output, "Chat ID:         42")
	assert.Contains(t, output, ":8081/healthz")
	assert.NotContains(t, output, "telegram_token")
}

func TestValidate_MissingTokens(t *testing.T) {
	clearBotEnv(t)
	configPath := filepath.Join(t.TempDir(), "bot.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("telegram_chat_id: 42\n"), 0o644))

	output, err := executeCmd(t, "validate", "-c", configPath)
	require.Error(t, err)
	assert.Contains(t, output, "PRACTICUM_TOKEN, TELEGRAM_TOKEN not set")
}

func TestValidate_BadCronSpec(t *testing.T) {
	clearBotEnv(t)
	t.Setenv("PRACTICUM_TOKEN", "p")
	t.Setenv("TELEGRAM_TOKEN", "t")
	t.Setenv("TELEGRAM_CHAT_ID", "42")
	t.Setenv("POLL_CRON_SPEC", "whenever")

	_, err := executeCmd(t, "validate", "--config=")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	output, err := executeCmd(t, "version")
	require.NoError(t, err)
	assert.Contains(t, output, "bot dev")
}

package practicum

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"homework_status_bot/internal/domain/homework"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Fetch_SendsCursorAndToken(t *testing.T) {
	var gotAuth, gotFromDate string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotFromDate = r.URL.Query().Get("from_date")
		_, _ = w.Write([]byte(`{"homeworks": [], "current_date": 1700000100}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", time.Second)
	raw, err := client.Fetch(context.Background(), 1700000000)
	require.NoError(t, err)

	assert.Equal(t, "OAuth secret", gotAuth)
	assert.Equal(t, "1700000000", gotFromDate)

	resp, err := homework.Validate(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(1700000100), resp.CurrentDate)
}

func TestClient_Fetch_ZeroCursorUsesNow(t *testing.T) {
	var gotFromDate string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotFromDate = r.URL.Query().Get("from_date")
		_, _ = w.Write([]byte(`{"homeworks": [], "current_date": 1}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", time.Second)
	client.now = func() time.Time { return time.Unix(1650000000, 0) }

	_, err := client.Fetch(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "1650000000", gotFromDate)
}

func TestClient_Fetch_NonOKIsRemoteUnavailable(t *testing.T) {
	for _, code := range []int{http.StatusNoContent, http.StatusUnauthorized, http.StatusNotFound, http.StatusBadGateway} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		}))

		_, err := NewClient(server.URL, "secret", time.Second).Fetch(context.Background(), 1)
		server.Close()

		var remote *homework.RemoteUnavailableError
		require.ErrorAs(t, err, &remote)
		assert.Equal(t, code, remote.StatusCode)
	}
}

func TestClient_Fetch_ConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	_, err := NewClient(addr, "secret", time.Second).Fetch(context.Background(), 1)
	assert.Equal(t, homework.KindConnection, homework.Classify(err))
}

func TestClient_Fetch_TimeoutIsConnectionFailure(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	_, err := NewClient(server.URL, "secret", 50*time.Millisecond).Fetch(context.Background(), 1)
	assert.Equal(t, homework.KindConnection, homework.Classify(err))
}

func TestClient_Fetch_InvalidJSONIsShapeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "secret", time.Second).Fetch(context.Background(), 1)
	assert.Equal(t, homework.KindShape, homework.Classify(err))
}

func TestClient_Fetch_ReturnsBodyUninterpreted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`["not", "an", "object"]`))
	}))
	defer server.Close()

	raw, err := NewClient(server.URL, "secret", time.Second).Fetch(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []any{"not", "an", "object"}, raw)
}

func TestClient_Close_NilClient(t *testing.T) {
	var client *Client
	client.Close()
	NewClient("", "t", time.Second).Close()
}

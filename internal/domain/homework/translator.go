// internal/domain/homework/translator.go
package homework

import (
	"fmt"
	"strings"
)

const (
	fieldName    = "homework_name"
	fieldStatus  = "status"
	fieldComment = "reviewer_comment"
)

// Parse builds a Homework from a raw API entry.
func Parse(entry any) (Homework, error) {
	fields, ok := entry.(map[string]any)
	if !ok {
		return Homework{}, &ShapeError{Reason: fmt.Sprintf("homework entry is %T, not an object", entry)}
	}

	for _, key := range []string{fieldName, fieldStatus, fieldComment} {
		if _, ok := fields[key]; !ok {
			return Homework{}, &MissingFieldError{Field: key}
		}
	}

	rawName, ok := fields[fieldName].(string)
	if !ok {
		return Homework{}, &ShapeError{Reason: fmt.Sprintf("%q is not a string", fieldName)}
	}
	rawStatus, ok := fields[fieldStatus].(string)
	if !ok {
		return Homework{}, &ShapeError{Reason: fmt.Sprintf("%q is not a string", fieldStatus)}
	}

	var comment string
	switch c := fields[fieldComment].(type) {
	case nil:
	case string:
		comment = c
	default:
		return Homework{}, &ShapeError{Reason: fmt.Sprintf("%q is not a string", fieldComment)}
	}

	return Homework{
		Name:    displayName(rawName),
		Status:  Status(rawStatus),
		Comment: comment,
	}, nil
}

// Translate turns a raw API entry into the chat message.
func Translate(entry any) (string, error) {
	hw, err := Parse(entry)
	if err != nil {
		return "", err
	}
	return Format(hw)
}

// Format renders a parsed homework. Reviewing homeworks carry no comment yet.
func Format(hw Homework) (string, error) {
	verdict, ok := Verdict(hw.Status)
	if !ok {
		return "", &UnknownStatusError{Status: string(hw.Status)}
	}

	msg := fmt.Sprintf("Changed review status of \"%s\". %s", hw.Name, verdict)
	if hw.Status != StatusReviewing && strings.TrimSpace(hw.Comment) != "" {
		msg += " Comment from reviewer: " + hw.Comment
	}
	return msg, nil
}

// displayName cuts the uploaded file name at the first dot: "task1.zip" -> "task1".
// Names like "v1.2_final.zip" become "v1" as well; that matches what users have always seen.
func displayName(raw string) string {
	name, _, _ := strings.Cut(raw, ".")
	return name
}

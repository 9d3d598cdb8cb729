// internal/domain/homework/validator.go
package homework

import (
	"encoding/json"
	"fmt"
	"math"
)

const (
	keyHomeworks   = "homeworks"
	keyCurrentDate = "current_date"
)

// Validate checks the structure of a decoded API answer.
// An empty homework list is valid and means nothing changed since the cursor.
func Validate(raw any) (Response, error) {
	body, ok := raw.(map[string]any)
	if !ok {
		return Response{}, &ShapeError{Reason: fmt.Sprintf("expected an object, got %T", raw)}
	}

	rawItems, ok := body[keyHomeworks]
	if !ok {
		return Response{}, &ShapeError{Reason: fmt.Sprintf("missing %q key", keyHomeworks)}
	}
	rawDate, ok := body[keyCurrentDate]
	if !ok {
		return Response{}, &ShapeError{Reason: fmt.Sprintf("missing %q key", keyCurrentDate)}
	}

	items, ok := rawItems.([]any)
	if !ok {
		return Response{}, &ShapeError{Reason: fmt.Sprintf("%q is %T, not a list", keyHomeworks, rawItems)}
	}

	currentDate, err := toUnix(rawDate)
	if err != nil {
		return Response{}, &ShapeError{Reason: fmt.Sprintf("%q: %v", keyCurrentDate, err)}
	}

	return Response{Items: items, CurrentDate: currentDate}, nil
}

// toUnix accepts the numeric forms produced by encoding/json.
func toUnix(v any) (int64, error) {
	switch n := v.(type) {
	case json.Number:
		ts, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("%s is not an integer timestamp", n)
		}
		return ts, nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%v is not an integer timestamp", n)
		}
		return int64(n), nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("expected an integer timestamp, got %T", v)
	}
}

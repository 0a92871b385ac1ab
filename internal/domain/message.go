package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	apperrors "datalake/internal/errors"
)

// errorMessageKeys lists the keys holding an error message, highest priority first.
var errorMessageKeys = []string{"msg", "message", "messages"} //nolint:gochecknoglobals // fixed lookup order

// ErrorMessage extracts the server's error message from a failed response body.
// It returns a MalformedErrorResponseError when none of the known keys is present.
func (r *Response) ErrorMessage() (string, error) {
	var body map[string]any
	if err := json.Unmarshal(r.Body, &body); err != nil {
		return "", apperrors.NewMalformedErrorResponseError(r.StatusCode, string(r.Body))
	}

	for _, key := range errorMessageKeys {
		value, ok := body[key]
		if !ok || value == nil {
			continue
		}
		return messageText(value), nil
	}

	return "", apperrors.NewMalformedErrorResponseError(r.StatusCode, string(r.Body))
}

func messageText(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, messageText(item))
		}
		return strings.Join(parts, "; ")
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(encoded)
	}
}

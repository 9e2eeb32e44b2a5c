// Package strictjson decodes request bodies into typed partials, rejecting
// keys the target does not declare.
package strictjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/ignite/newsletter-api/internal/domain"
)

// Decode unmarshals data into dst. Unknown keys, type mismatches and
// trailing data are returned as validation errors with client-safe messages.
func Decode(data []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return translate(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return domain.Validation("Request body must be a single JSON object")
	}
	return nil
}

func translate(err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return de
	}
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) {
		if ute.Field == "" {
			return domain.Validation("Request body must be a JSON object")
		}
		return domain.Validation("Invalid value for %s", ute.Field)
	}
	// encoding/json reports unknown keys as: json: unknown field "name"
	if msg := err.Error(); strings.HasPrefix(msg, `json: unknown field "`) {
		key := strings.TrimSuffix(strings.TrimPrefix(msg, `json: unknown field "`), `"`)
		return domain.Validation("Unknown property: %s", key)
	}
	return domain.Validation("Request body must be a JSON object")
}

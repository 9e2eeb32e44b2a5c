package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"john.doe@example.com", "jo***@example.com"},
		{"ab@example.com", "***@example.com"},
		{"not-an-email", "***@***"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RedactEmail(tt.in))
	}
}

func TestInfoWritesJSONWithRedaction(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stderr) })

	Info("test send dispatched",
		"recipient", "jane.smith@example.com",
		"email_id", "3f2b1c7e-9d4a-4c1e-8f0b-2a6d5e7c9b10",
		"recipients", 2,
		"error", "rejected jane.smith@example.com",
		"count", 2)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "test send dispatched", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "ja***@example.com", entry["recipient"])
	assert.Equal(t, "3f2b1c7e-9d4a-4c1e-8f0b-2a6d5e7c9b10", entry["email_id"])
	assert.Equal(t, "2", entry["recipients"])
	assert.Equal(t, "rejected ja***@example.com", entry["error"])
	assert.Equal(t, "2", entry["count"])
}

func TestSetLevel(t *testing.T) {
	require.NoError(t, SetLevel("warn"))
	t.Cleanup(func() { _ = SetLevel("info") })

	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stderr) })

	Info("dropped")
	assert.Zero(t, buf.Len())

	assert.Error(t, SetLevel("loud"))
}

func TestSetRedactPIIDisabled(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetRedactPII(false)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetRedactPII(true)
	})

	Info("user logged in", "email", "jane.smith@example.com")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "jane.smith@example.com", entry["email"])
}

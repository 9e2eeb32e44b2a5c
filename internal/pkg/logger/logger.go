package logger

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	base      = newBase()
	redactPII = true
)

func newBase() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	return l
}

// SetLevel parses a level name ("debug", "info", "warn", "error") and applies
// it. Unknown names leave the level unchanged and return an error.
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level %q: %w", level, err)
	}
	base.SetLevel(lvl)
	return nil
}

// SetOutput redirects log output.
func SetOutput(w io.Writer) { base.SetOutput(w) }

// SetRedactPII enables or disables PII redaction.
func SetRedactPII(r bool) { redactPII = r }

// Debug emits a DEBUG-level structured log entry.
func Debug(msg string, fields ...interface{}) { entry(fields).Debug(msg) }

// Info emits an INFO-level structured log entry.
func Info(msg string, fields ...interface{}) { entry(fields).Info(msg) }

// Warn emits a WARN-level structured log entry.
func Warn(msg string, fields ...interface{}) { entry(fields).Warn(msg) }

// Error emits an ERROR-level structured log entry.
func Error(msg string, fields ...interface{}) { entry(fields).Error(msg) }

// entry turns alternating key/value pairs into logrus fields.
func entry(fields []interface{}) *logrus.Entry {
	f := logrus.Fields{}
	for i := 0; i < len(fields)-1; i += 2 {
		key := fmt.Sprintf("%v", fields[i])
		val := fmt.Sprintf("%v", fields[i+1])
		if redactPII {
			val = redactPIIValue(key, val)
		}
		f[key] = val
	}
	return base.WithFields(f)
}

var emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// addressKeys hold a single email address and are always masked.
var addressKeys = map[string]bool{
	"email":     true,
	"recipient": true,
	"identity":  true,
}

func redactPIIValue(key, val string) string {
	if addressKeys[strings.ToLower(key)] {
		return RedactEmail(val)
	}
	// Redact any embedded emails in generic fields
	return emailRegex.ReplaceAllStringFunc(val, RedactEmail)
}

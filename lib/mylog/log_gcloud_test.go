package mylog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntry(t *testing.T) {
	e := entry{
		Component: "payment",
		Labels:    map[string]string{"session": "sess_1"},
		Trace:     "projects/zap-prod/traces/abc",
		Severity:  string(SeverityWarn),
		Message:   "payment:Error verifying token",
	}

	got := map[string]any{}
	err := json.Unmarshal([]byte(e.String()), &got)
	assert.NoError(t, err)
	assert.Equal(t, "WARN", got["severity"])
	assert.Equal(t, "projects/zap-prod/traces/abc", got["logging.googleapis.com/trace"])
	assert.Equal(t, map[string]any{"session": "sess_1"}, got["logging.googleapis.com/labels"])
	assert.Equal(t, "payment:Error verifying token", got["message"])
}

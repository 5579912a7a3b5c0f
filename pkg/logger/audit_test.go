package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionLogger_Log(t *testing.T) {
	var buf bytes.Buffer
	sl := NewSubmissionLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	sl.Log(context.Background(), SubmissionEvent{
		Form:      "pricing",
		Outcome:   OutcomeAccepted,
		ClientID:  "203.0.113.9",
		Email:     "jane@example.com",
		Reference: "ORD-1-ABCDEFGHI",
	})

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "INFO", record["level"])
	assert.Equal(t, "pricing", record["form"])
	assert.Equal(t, "j***@e******.com", record["email"])
	assert.Equal(t, "ORD-1-ABCDEFGHI", record["reference"])
	assert.NotContains(t, record, "error_count")
}

func TestSubmissionLogger_Levels(t *testing.T) {
	tests := []struct {
		outcome string
		level   string
	}{
		{OutcomeRateLimited, "WARN"},
		{OutcomeInvalidCSRF, "WARN"},
		{OutcomeInvalidInput, "WARN"},
		{OutcomeDispatchFail, "ERROR"},
		{OutcomeError, "ERROR"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		sl := NewSubmissionLogger(slog.New(slog.NewJSONHandler(&buf, nil)))
		sl.Log(context.Background(), SubmissionEvent{Form: "contact", Outcome: tt.outcome, ClientID: "unknown"})

		var record map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, tt.level, record["level"], tt.outcome)
	}
}

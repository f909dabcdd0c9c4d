package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func contextLogger(buf *bytes.Buffer) context.Context {
	logger := slog.New(slog.NewTextHandler(buf, nil))
	return WithLogger(context.Background(), logger)
}

func TestL_CarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithRequestID(contextLogger(&buf), "req_123")

	L(ctx).Info("hello")
	if !strings.Contains(buf.String(), "request_id=req_123") {
		t.Errorf("log line missing request id: %s", buf.String())
	}
}

func TestL_NoRequestID(t *testing.T) {
	var buf bytes.Buffer
	L(contextLogger(&buf)).Info("hello")
	if strings.Contains(buf.String(), "request_id") {
		t.Errorf("log line should not carry a request id: %s", buf.String())
	}
}

func TestForLead(t *testing.T) {
	var buf bytes.Buffer
	ForLead(contextLogger(&buf), "lead_42").Info("lead matched")
	if !strings.Contains(buf.String(), "lead_id=lead_42") {
		t.Errorf("log line missing lead id: %s", buf.String())
	}
}

func TestNew_Levels(t *testing.T) {
	ctx := context.Background()

	logger := New("warn", "text")
	if logger.Enabled(ctx, slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !logger.Enabled(ctx, slog.LevelWarn) {
		t.Error("warn should be enabled at warn level")
	}

	// Unknown levels fall back to info.
	logger = New("verbose", "text")
	if !logger.Enabled(ctx, slog.LevelInfo) {
		t.Error("unknown level should default to info")
	}
}

package logging

import (
	"bytes"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/felixgeelhaar/bolt/v3"

	"github.com/zwp88/goapflow/domain/event"
)

// testLogger creates a logger that writes to a buffer for testing.
func testLogger() (*bolt.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	handler := bolt.NewJSONHandler(buf)
	logger := bolt.New(handler).SetLevel(bolt.TRACE)
	return logger, buf
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	config := DefaultConfig()

	if config.Level != "info" {
		t.Errorf("Level = %s, want info", config.Level)
	}
	if config.Format != "console" {
		t.Errorf("Format = %s, want console", config.Format)
	}
	if config.Output != os.Stdout {
		t.Errorf("Output = %v, want os.Stdout", config.Output)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected bolt.Level
	}{
		{"trace", bolt.TRACE},
		{"debug", bolt.DEBUG},
		{"info", bolt.INFO},
		{"warn", bolt.WARN},
		{"error", bolt.ERROR},
		{"unknown", bolt.INFO},
		{"", bolt.INFO},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			result := parseLevel(tt.input)
			if result != tt.expected {
				t.Errorf("parseLevel(%s) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		field Field
		want  string
	}{
		{"ProcessID", ProcessID("p-1"), `"process_id":"p-1"`},
		{"AgentName", AgentName("billing"), `"agent":"billing"`},
		{"ActionName", ActionName("fetch"), `"action":"fetch"`},
		{"GoalName", GoalName("billed"), `"goal":"billed"`},
		{"Status", Status("RUNNING"), `"status":"RUNNING"`},
		{"FromStatus", FromStatus("NOT_STARTED"), `"from_status":"NOT_STARTED"`},
		{"ToStatus", ToStatus("RUNNING"), `"to_status":"RUNNING"`},
		{"EventType", EventType("process.plan"), `"event_type":"process.plan"`},
		{"Duration", Duration(100 * time.Millisecond), `"duration_ms":100`},
		{"Reason", Reason("budget"), `"reason":"budget"`},
		{"Component", Component("engine"), `"component":"engine"`},
		{"Str", Str("custom_key", "custom_value"), `"custom_key":"custom_value"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, buf := testLogger()
			tt.field(logger.Info()).Msg("test")

			if !bytes.Contains(buf.Bytes(), []byte(tt.want)) {
				t.Errorf("expected %s in output: %s", tt.want, buf.String())
			}
		})
	}
}

func TestErrorField(t *testing.T) {
	t.Parallel()

	t.Run("with error", func(t *testing.T) {
		t.Parallel()

		logger, buf := testLogger()
		ErrorField(errors.New("test error"))(logger.Info()).Msg("test")

		if !bytes.Contains(buf.Bytes(), []byte(`"error":"test error"`)) {
			t.Errorf("expected error field in output: %s", buf.String())
		}
	})

	t.Run("with nil error", func(t *testing.T) {
		t.Parallel()

		logger, buf := testLogger()
		ErrorField(nil)(logger.Info()).Msg("test")

		if bytes.Contains(buf.Bytes(), []byte(`"error"`)) {
			t.Errorf("unexpected error field in output: %s", buf.String())
		}
	})
}

func TestLogEvent_AddChainsFields(t *testing.T) {
	logger, buf := testLogger()

	e := &LogEvent{event: logger.Info()}
	e.Add(ProcessID("p-1")).Add(Status("RUNNING")).Msg("test")

	if !bytes.Contains(buf.Bytes(), []byte(`"process_id":"p-1"`)) {
		t.Errorf("expected process_id field in output: %s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"status":"RUNNING"`)) {
		t.Errorf("expected status field in output: %s", buf.String())
	}
}

func TestListener_DoesNotPanic(t *testing.T) {
	l := Listener()

	e, err := event.New("p-1", event.TypeStatusChanged, event.StatusChangedPayload{
		From: "NOT_STARTED",
		To:   "RUNNING",
	})
	if err != nil {
		t.Fatalf("event.New() error = %v", err)
	}
	l.OnEvent(e)

	e, _ = event.New("p-1", event.TypeActionResult, event.ActionResultPayload{
		Action: "fetch",
		Status: "SUCCEEDED",
	})
	l.OnEvent(e)
}

func TestGet(t *testing.T) {
	if Get() == nil {
		t.Fatal("Get() returned nil")
	}
}

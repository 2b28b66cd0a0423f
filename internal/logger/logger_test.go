package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew(t *testing.T) {
	log := New()
	if log.GetLevel() != zerolog.InfoLevel {
		t.Errorf("expected info level, got %s", log.GetLevel())
	}
}

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)

	log.Info().Msg("test message")

	if !strings.Contains(buf.String(), "test message") {
		t.Errorf("expected output to contain 'test message', got: %s", buf.String())
	}
}

func TestConfigure(t *testing.T) {
	tests := []struct {
		level, format string
		wantLevel     zerolog.Level
		wantErr       bool
	}{
		{"debug", "json", zerolog.DebugLevel, false},
		{"INFO", "console", zerolog.InfoLevel, false},
		{"warn", "", zerolog.WarnLevel, false},
		{"error", "json", zerolog.ErrorLevel, false},
		{"loud", "json", zerolog.Disabled, true},
		{"", "json", zerolog.Disabled, true},
		{"info", "xml", zerolog.Disabled, true},
	}

	for _, tt := range tests {
		t.Run(tt.level+"/"+tt.format, func(t *testing.T) {
			log, err := Configure(&bytes.Buffer{}, tt.level, tt.format)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if log.GetLevel() != tt.wantLevel {
				t.Errorf("got level %s, want %s", log.GetLevel(), tt.wantLevel)
			}
		})
	}
}

func TestConfigureFiltersBelowLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	log, err := Configure(buf, "warn", FormatJSON)
	if err != nil {
		t.Fatal(err)
	}

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithContext(context.Background(), NewWithWriter(buf))

	log := FromContext(ctx)
	log.Info().Msg("test")

	if buf.Len() == 0 {
		t.Error("expected log output from retrieved logger")
	}
}

func TestFromContext_DefaultLogger(t *testing.T) {
	log := FromContext(context.Background())
	if log.GetLevel() == zerolog.Disabled {
		t.Error("expected default logger to be enabled")
	}
}

func TestWithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := WithFields(NewWithWriter(buf), map[string]interface{}{
		"user_id": "123",
		"action":  "test",
	})
	log.Info().Msg("test message")

	out := buf.String()
	if !strings.Contains(out, `"user_id":"123"`) || !strings.Contains(out, `"action":"test"`) {
		t.Errorf("expected fields in output, got: %s", out)
	}
}

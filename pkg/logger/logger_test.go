package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	err := Init()
	if err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	logger := Get()
	if logger == nil {
		t.Fatal("logger is nil after initialization")
	}

	if err := InitWithWriter(nil); err == nil {
		t.Fatal("expected error for nil writer")
	}
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithWriter(&buf); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	ctx := context.Background()
	Get().Info(ctx, "analysis computed",
		String("category", "balanced"),
		Int("steps", 5),
		Float64("ratio", 2941.17),
		Bool("complete", true),
		Error(errors.New("boom")),
	)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if entry["message"] != "analysis computed" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["category"] != "balanced" {
		t.Errorf("category = %v", entry["category"])
	}
	if entry["error"] != "boom" {
		t.Errorf("error = %v", entry["error"])
	}
	if src, _ := entry["source"].(string); !strings.Contains(src, "logger_test.go") {
		t.Errorf("source = %v, want caller file", entry["source"])
	}
}

func TestLoggerNamed(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithWriter(&buf); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	namedLogger := Named("providers").Named("talent")
	if namedLogger == nil {
		t.Fatal("named logger is nil")
	}

	namedLogger.Info(context.Background(), "test message")
	if !strings.Contains(buf.String(), `"logger":"providers.talent"`) {
		t.Errorf("missing logger name in %q", buf.String())
	}
}

func TestSetLevelString(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithWriter(&buf); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = SetLevelString("info") }()

	if err := SetLevelString("warn"); err != nil {
		t.Fatalf("SetLevelString(warn): %v", err)
	}
	Get().Info(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Errorf("info written at warn level: %q", buf.String())
	}

	if err := SetLevelString("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNop(t *testing.T) {
	Nop().Named("x").Error(context.Background(), "discarded")
}

package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestCommonFields(t *testing.T) {
	fields := CommonFields("  groq  ", "")
	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}

	if fields[0].Key != FieldProvider || fields[0].String != "groq" {
		t.Fatalf("unexpected provider field: %+v", fields[0])
	}

	if got := CommonFields("  ", "  "); len(got) != 0 {
		t.Fatalf("expected no fields, got %d", len(got))
	}
}

func TestWithCommonFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	enriched := WithCommonFields(logger, "gemini", "gemini-2.5-flash")
	enriched.Info("test log")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx[FieldProvider] != "gemini" {
		t.Fatalf("expected provider field, got %q", ctx[FieldProvider])
	}
	if ctx[FieldModel] != "gemini-2.5-flash" {
		t.Fatalf("expected model field, got %q", ctx[FieldModel])
	}

	if WithCommonFields(nil, "", "") == nil {
		t.Fatal("expected non-nil logger for nil input")
	}
}

func TestTruncateForLog(t *testing.T) {
	if got := TruncateForLog("  hello  ", 10); got != "hello" {
		t.Fatalf("expected trimmed string, got %q", got)
	}

	if got := TruncateForLog("hello world", 5); got != "hello..." {
		t.Fatalf("expected truncated string, got %q", got)
	}

	if got := TruncateForLog("anything", 0); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestGet_NopBeforeInit(t *testing.T) {
	Set(nil)
	if Get() == nil {
		t.Fatalf("expected a usable logger before Init")
	}
	Get().Info("dropped")
}

func TestInit_RejectsUnknownLevel(t *testing.T) {
	if err := Init("chatty", false); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestSet_RoutesThroughGet(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Set(zap.New(core))
	t.Cleanup(func() { Set(nil) })

	Get().Debug("page created", zap.String("id", "page-1"))

	entries := logs.FilterMessage("page created").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["id"]; got != "page-1" {
		t.Fatalf("unexpected id field: %v", got)
	}
}

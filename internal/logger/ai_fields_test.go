package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/resume-matcher/internal/matching"
)

func TestStringFields(t *testing.T) {
	fields := StringFields(
		StringField{Key: "  provider  ", Value: "  Gemini  "},
		StringField{Key: "ignored", Value: "   "},
		StringField{Key: "   ", Value: "empty key"},
	)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}

	if fields[0].Key != "provider" || fields[0].String != "Gemini" {
		t.Fatalf("unexpected provider field: %+v", fields[0])
	}

	if empty := StringFields(); len(empty) != 0 {
		t.Fatalf("expected empty fields, got %d", len(empty))
	}
}

func TestWithFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithFields(zap.New(core), zap.String("foo", "bar")).Info("test log")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if ctx := entries[0].ContextMap(); ctx["foo"] != "bar" {
		t.Fatalf("expected field to be bar, got %q", ctx["foo"])
	}

	fallback := WithFields(nil, zap.String("baz", "qux"))
	if fallback == nil {
		t.Fatalf("expected fallback logger when nil provided")
	}
	fallback.Info("another log")
}

func TestWithProviderFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithProviderFields(zap.New(core), "gemini", "  model-x ").Info("test log")

	ctx := observed.All()[0].ContextMap()
	if ctx[FieldProvider] != "gemini" {
		t.Fatalf("expected provider field to be gemini, got %q", ctx[FieldProvider])
	}
	if ctx[FieldModel] != "model-x" {
		t.Fatalf("expected model field to be model-x, got %q", ctx[FieldModel])
	}

	if empty := ProviderFields("", ""); len(empty) != 0 {
		t.Fatalf("expected empty fields, got %d", len(empty))
	}
}

func TestMatchAndResultFields(t *testing.T) {
	fields := MatchFields(&matching.Candidate{Name: "Ada"}, &matching.Job{Title: "Data Scientist"})
	if len(fields) != 2 || fields[0].String != "Ada" || fields[1].String != "Data Scientist" {
		t.Fatalf("unexpected match fields: %+v", fields)
	}

	if fields := MatchFields(nil, nil); len(fields) != 0 {
		t.Fatalf("expected nil inputs to produce no fields, got %d", len(fields))
	}

	core, observed := observer.New(zapcore.InfoLevel)
	zap.New(core).Info("scored", ResultFields(&matching.Result{
		Score:     0.6,
		Level:     matching.LevelPotentialFit,
		Breakdown: matching.Breakdown{Required: 0.85, Experience: 0.6},
	})...)

	ctx := observed.All()[0].ContextMap()
	if ctx["score"] != 0.6 || ctx["match_level"] != string(matching.LevelPotentialFit) {
		t.Fatalf("unexpected result fields: %v", ctx)
	}
	if ctx[matching.ComponentRequired] != 0.85 {
		t.Fatalf("unexpected required component: %v", ctx[matching.ComponentRequired])
	}

	if ResultFields(nil) != nil {
		t.Fatalf("expected nil result to produce no fields")
	}
}

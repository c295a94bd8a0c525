package filtering

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/resume-matcher/internal/matching"
	"github.com/spigell/resume-matcher/internal/records"
)

func candidates() *records.Candidates {
	return &records.Candidates{Items: []*records.Record{
		{Source: "ada.json", Candidate: &matching.Candidate{Name: "Ada", Email: "ada@x.io", Skills: []string{"python"}, Experience: 4}},
		{Source: "broken.json", Candidate: &matching.Candidate{Experience: -1}},
		{Source: "bob.json", Candidate: &matching.Candidate{Name: "Bob", ResumeID: "r-2", Experience: 2}},
		{Source: "ada-copy.json", Candidate: &matching.Candidate{Name: "Ada L.", Email: "ADA@x.io", Experience: 4}},
		{Source: "cyd.json", Candidate: &matching.Candidate{Name: "Cyd", Experience: 9}},
	}}
}

func TestRunDefaultPipeline(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	excludeFile := filepath.Join(t.TempDir(), "reviewed.json")
	reviewed := &records.ExcludedCandidates{Items: []*records.ExcludedCandidate{{Name: "Someone", ResumeID: "r-2"}}}
	if err := reviewed.ToFile(excludeFile); err != nil {
		t.Fatalf("write exclude file: %v", err)
	}

	left, rejected, err := Run(context.Background(), &Config{ExcludeFile: excludeFile}, Deps{Logger: logger}, Default(), candidates())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names := left.Names()
	if len(names) != 2 || names[0] != "Ada" || names[1] != "Cyd" {
		t.Fatalf("unexpected candidates left: %v", names)
	}

	if len(rejected) != 3 {
		t.Fatalf("expected 3 rejections, got %d", len(rejected))
	}
	wantFilters := []string{"validation", "duplicates", "exclude_file"}
	for i, r := range rejected {
		if r.Filter != wantFilters[i] {
			t.Fatalf("rejection %d: expected filter %s, got %s", i, wantFilters[i], r.Filter)
		}
		if r.Reason == "" {
			t.Fatalf("rejection %d has no reason", i)
		}
	}

	steps := observed.FilterMessage("filter step").All()
	if len(steps) != 3 {
		t.Fatalf("expected 3 step logs, got %d", len(steps))
	}
	if got := steps[0].ContextMap()["dropped"]; got != int64(1) {
		t.Fatalf("expected validation to drop 1, got %v", got)
	}
}

func TestRunSkipsDisabledFilters(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	steps := Default()
	DisableByName(steps, "duplicates", "requested")

	left, rejected, err := Run(context.Background(), &Config{}, Deps{Logger: zap.New(core)}, steps, candidates())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if left.Len() != 4 {
		t.Fatalf("expected 4 candidates left, got %d", left.Len())
	}
	if len(rejected) != 1 {
		t.Fatalf("expected only the validation rejection, got %d", len(rejected))
	}
	if observed.FilterMessage("filter disabled").Len() != 1 {
		t.Fatalf("expected disabled filter to be logged")
	}

	statuses := Describe(steps)
	if statuses[1].Enabled || statuses[1].Reason != "requested" {
		t.Fatalf("unexpected duplicates status: %+v", statuses[1])
	}
}

func TestRunHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := Run(ctx, &Config{}, Deps{}, Default(), candidates()); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestExcludeFileFilterMissingFile(t *testing.T) {
	f := NewExcludeFile()
	if err := f.Validate(&Config{ExcludeFile: filepath.Join(t.TempDir(), "absent.json")}); err != nil {
		t.Fatalf("unexpected validate error: %v", err)
	}

	c := candidates()
	_, step, err := f.Apply(context.Background(), Deps{}, c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if step.Dropped != 0 || step.Left != 5 {
		t.Fatalf("unexpected step: %+v", step)
	}
	if f.(statusProvider).Status().Details["path"] == "" {
		t.Fatalf("expected path in status details")
	}
}

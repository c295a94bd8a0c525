// Package ai defines the text-generation collaborator used for recruiter
// facing summaries and match explanations. Its output never affects scores.
package ai

import (
	"context"

	"github.com/spigell/resume-matcher/internal/matching"
)

// Assistant produces free-text insights about candidates.
type Assistant interface {
	Summarize(ctx context.Context, candidate *matching.Candidate) (string, error)
	Explain(ctx context.Context, candidate *matching.Candidate, job *matching.Job, result *matching.Result, gaps matching.Gaps) (string, error)
}

// Disabled is an Assistant that returns empty text, used when AI is turned off.
type Disabled struct{}

func (Disabled) Summarize(context.Context, *matching.Candidate) (string, error) { return "", nil }

func (Disabled) Explain(context.Context, *matching.Candidate, *matching.Job, *matching.Result, matching.Gaps) (string, error) {
	return "", nil
}

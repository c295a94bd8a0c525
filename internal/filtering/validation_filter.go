package filtering

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/matching"
	"github.com/spigell/resume-matcher/internal/records"
)

type validationFilter struct{}

// NewValidation creates a filter that drops candidates the matcher would refuse.
func NewValidation() Filter {
	return &validationFilter{}
}

func (f *validationFilter) Name() string { return "validation" }

func (f *validationFilter) Disable(string) {}

func (f *validationFilter) IsEnabled() bool { return true }

func (f *validationFilter) Validate(*Config) error { return nil }

func (f *validationFilter) Apply(_ context.Context, deps Deps, c *records.Candidates) (*records.Candidates, Step, error) {
	initial := c.Len()

	var rejected []Rejection
	c.Items = slices.DeleteFunc(c.Items, func(r *records.Record) bool {
		if r.Candidate == nil {
			rejected = append(rejected, Rejection{Filter: f.Name(), Record: r, Reason: "empty record"})
			return true
		}
		err := matching.ValidateCandidate(r.Candidate)
		if err == nil {
			return false
		}
		rejected = append(rejected, Rejection{Filter: f.Name(), Record: r, Reason: err.Error()})
		if deps.Logger != nil {
			deps.Logger.Warn("candidate failed validation. It will be skipped.",
				zap.String("source", r.Source),
				zap.Error(err),
			)
		}
		return true
	})

	return c, Step{Initial: initial, Dropped: len(rejected), Left: c.Len(), Rejected: rejected}, nil
}

func (f *validationFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: true}
}

package filtering

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/records"
)

type duplicatesFilter struct {
	enabled bool
	reason  string
}

// NewDuplicates creates a filter that keeps only the first record per candidate key.
func NewDuplicates() Filter {
	return &duplicatesFilter{enabled: true}
}

func (f *duplicatesFilter) Name() string { return "duplicates" }

func (f *duplicatesFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *duplicatesFilter) IsEnabled() bool { return f.enabled }

func (f *duplicatesFilter) Validate(*Config) error { return nil }

func (f *duplicatesFilter) Apply(_ context.Context, deps Deps, c *records.Candidates) (*records.Candidates, Step, error) {
	initial := c.Len()
	seen := make(map[string]string, initial)

	var removed []*records.Record
	c.Items = slices.DeleteFunc(c.Items, func(r *records.Record) bool {
		key := r.Key()
		if first, ok := seen[key]; ok {
			removed = append(removed, r)
			if deps.Logger != nil {
				deps.Logger.Info("duplicate candidate dropped",
					zap.String("key", key),
					zap.String("source", r.Source),
					zap.String("kept", first),
				)
			}
			return true
		}
		seen[key] = r.Source
		return false
	})

	return c, Step{
		Initial:  initial,
		Dropped:  len(removed),
		Left:     c.Len(),
		Rejected: reject(f.Name(), removed, "duplicate record"),
	}, nil
}

func (f *duplicatesFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.enabled, Reason: f.reason}
}

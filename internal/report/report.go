// Package report collects ranked match results for a job and persists them as
// timestamped snapshots.
package report

import (
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/spigell/resume-matcher/internal/matching"
)

var now = time.Now

// Entry is one ranked candidate. JSON keys are the on-disk contract of
// previously written reports.
type Entry struct {
	CandidateName string             `json:"candidate_name"`
	Score         float64            `json:"score"`
	MatchLevel    matching.Level     `json:"match_level"`
	MissingHard   []string           `json:"missing_hard_required_skills"`
	MissingSoft   []string           `json:"missing_soft_required_skills"`
	YearsExp      int                `json:"years_exp"`
	Explanation   string             `json:"explanation"`
	Breakdown     matching.Breakdown `json:"breakdown"`
}

// Failure records a candidate that produced no ranking entry.
type Failure struct {
	CandidateName string `json:"candidate_name"`
	Stage         string `json:"stage"`
	Reason        string `json:"reason"`
}

// Snapshot is the serialized, read-only form of a report.
type Snapshot struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Job         string    `json:"job"`
	Company     string    `json:"company,omitempty"`
	Rankings    []Entry   `json:"rankings"`
	Failures    []Failure `json:"failures,omitempty"`
}

// JobReport keeps the results for a single job sorted by score, highest
// first. Equal scores keep insertion order.
type JobReport struct {
	mu       sync.Mutex
	job      *matching.Job
	matcher  *matching.Matcher
	runID    string
	entries  []Entry
	failures []Failure
}

// AddOption adjusts how a candidate is recorded.
type AddOption func(*addOptions)

type addOptions struct {
	explanation string
	gaps        *matching.Gaps
}

// WithExplanation attaches externally generated explanation text.
func WithExplanation(text string) AddOption {
	return func(o *addOptions) {
		o.explanation = text
	}
}

// WithMissing overrides the computed missing skill lists.
func WithMissing(hard, soft []string) AddOption {
	return func(o *addOptions) {
		o.gaps = &matching.Gaps{
			MissingHard: slices.Clone(hard),
			MissingSoft: slices.Clone(soft),
		}
	}
}

// New creates an empty report for job.
func New(job *matching.Job, matcher *matching.Matcher, runID string) *JobReport {
	return &JobReport{
		job:     job,
		matcher: matcher,
		runID:   runID,
	}
}

// Job returns the job the report ranks candidates for.
func (r *JobReport) Job() *matching.Job {
	return r.job
}

func (r *JobReport) title() string {
	if r.job == nil {
		return ""
	}
	return r.job.Title
}

func (r *JobReport) company() string {
	if r.job == nil {
		return ""
	}
	return r.job.Company
}

// Add scores the candidate and inserts the result in rank order. A scoring
// error is recorded as a failure and returned.
func (r *JobReport) Add(c *matching.Candidate, opts ...AddOption) error {
	o := &addOptions{}
	for _, opt := range opts {
		opt(o)
	}

	result, err := r.matcher.Match(c, r.job)
	if err != nil {
		name := ""
		if c != nil {
			name = c.Name
		}
		r.RecordFailure(name, "scoring", err)
		return fmt.Errorf("scoring %q for %q: %w", name, r.title(), err)
	}

	gaps := o.gaps
	if gaps == nil {
		computed := r.matcher.Gaps(c, r.job)
		gaps = &computed
	}

	entry := Entry{
		CandidateName: c.Name,
		Score:         result.Score,
		MatchLevel:    result.Level,
		MissingHard:   nonNil(gaps.MissingHard),
		MissingSoft:   nonNil(gaps.MissingSoft),
		YearsExp:      c.Experience,
		Explanation:   o.explanation,
		Breakdown:     result.Breakdown,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, entry)
	sort.SliceStable(r.entries, func(i, j int) bool {
		return r.entries[i].Score > r.entries[j].Score
	})

	return nil
}

// RecordFailure notes a candidate that could not be ranked.
func (r *JobReport) RecordFailure(name, stage string, err error) {
	reason := ""
	if err != nil {
		reason = err.Error()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.failures = append(r.failures, Failure{CandidateName: name, Stage: stage, Reason: reason})
}

// Len returns the number of ranked entries.
func (r *JobReport) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Failures returns a copy of the recorded failures.
func (r *JobReport) Failures() []Failure {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.failures)
}

// Top returns up to n highest ranked entries.
func (r *JobReport) Top(n int) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n < 0 || n > len(r.entries) {
		n = len(r.entries)
	}
	return cloneEntries(r.entries[:n])
}

// Serialize returns a snapshot that shares no memory with the report.
func (r *JobReport) Serialize() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Snapshot{
		RunID:       r.runID,
		GeneratedAt: now().UTC(),
		Job:         r.title(),
		Company:     r.company(),
		Rankings:    cloneEntries(r.entries),
		Failures:    slices.Clone(r.failures),
	}
}

func cloneEntries(in []Entry) []Entry {
	out := make([]Entry, len(in))
	for i, e := range in {
		e.MissingHard = slices.Clone(e.MissingHard)
		e.MissingSoft = slices.Clone(e.MissingSoft)
		out[i] = e
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

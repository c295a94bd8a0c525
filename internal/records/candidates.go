// Package records loads candidate records produced by resume extraction and
// keeps the list of candidates excluded from future runs.
package records

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/resume-matcher/internal/matching"
)

const (
	CandidateNameField     = "Name"
	CandidateResumeIDField = "ResumeID"
	CandidateEmailField    = "Email"
)

// Record is a candidate together with where it was loaded from.
type Record struct {
	Source    string              `json:"source"`
	Candidate *matching.Candidate `json:"candidate"`
}

// Key identifies the record for exclusion and de-duplication. The resume id
// wins, then the email, then the name.
func (r *Record) Key() string {
	return candidateKey(r.Candidate.ResumeID, r.Candidate.Email, r.Candidate.Name)
}

func candidateKey(resumeID, email, name string) string {
	switch {
	case strings.TrimSpace(resumeID) != "":
		return "id:" + strings.TrimSpace(resumeID)
	case strings.TrimSpace(email) != "":
		return "email:" + strings.ToLower(strings.TrimSpace(email))
	default:
		return "name:" + strings.ToLower(strings.TrimSpace(name))
	}
}

// Name returns the candidate name or, when it is missing, the source file.
func (r *Record) Name() string {
	if r.Candidate != nil && strings.TrimSpace(r.Candidate.Name) != "" {
		return r.Candidate.Name
	}
	return filepath.Base(r.Source)
}

// GetStringField returns the named candidate field for exclusion matching.
func (r *Record) GetStringField(name string) string {
	switch name {
	case CandidateNameField:
		return r.Candidate.Name
	case CandidateResumeIDField:
		return r.Candidate.ResumeID
	case CandidateEmailField:
		return r.Candidate.Email
	default:
		return ""
	}
}

// Candidates is an ordered list of loaded records.
type Candidates struct {
	Items []*Record
}

// LoadError describes a candidate file that could not be decoded.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadDir reads every *.json file in dir, in lexical order. Files that fail to
// decode are returned as LoadErrors and do not stop the others.
func LoadDir(dir string) (*Candidates, []*LoadError, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, nil, fmt.Errorf("listing candidates in %s: %w", dir, err)
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, nil, fmt.Errorf("candidates directory: %w", err)
	}
	sort.Strings(paths)

	candidates := &Candidates{Items: make([]*Record, 0, len(paths))}
	var failures []*LoadError

	for _, path := range paths {
		record, err := LoadFile(path)
		if err != nil {
			failures = append(failures, &LoadError{Source: path, Err: err})
			continue
		}
		candidates.Items = append(candidates.Items, record)
	}

	return candidates, failures, nil
}

// LoadFile decodes a single candidate file. Decoding is lenient about types
// since extractors disagree on them: "5" is accepted for experience and a
// number for a year.
func LoadFile(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	candidate, err := DecodeCandidate(raw)
	if err != nil {
		return nil, err
	}

	return &Record{Source: path, Candidate: candidate}, nil
}

// DecodeCandidate converts a generic extractor payload into a candidate.
func DecodeCandidate(raw map[string]any) (*matching.Candidate, error) {
	var candidate matching.Candidate

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &candidate,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode candidate: %w", err)
	}

	return &candidate, nil
}

func (c *Candidates) Len() int {
	return len(c.Items)
}

// Names returns candidate names in list order.
func (c *Candidates) Names() []string {
	names := make([]string, 0, len(c.Items))
	for _, r := range c.Items {
		names = append(names, r.Name())
	}
	return names
}

// FindByName returns the first record whose candidate name matches,
// ignoring case.
func (c *Candidates) FindByName(name string) *Record {
	for _, r := range c.Items {
		if strings.EqualFold(r.Candidate.Name, strings.TrimSpace(name)) {
			return r
		}
	}
	return nil
}

// Exclude removes records whose field matches any of targets and returns the
// removed records. Order of the remaining records is preserved.
func (c *Candidates) Exclude(field string, targets []string) []*Record {
	if len(targets) == 0 {
		return nil
	}

	lookup := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			lookup[t] = struct{}{}
		}
	}

	var removed []*Record
	c.Items = slices.DeleteFunc(c.Items, func(r *Record) bool {
		value := strings.ToLower(strings.TrimSpace(r.GetStringField(field)))
		if _, ok := lookup[value]; ok && value != "" {
			removed = append(removed, r)
			return true
		}
		return false
	})

	return removed
}

// ToExcluded converts the records into exclude-list entries.
func (c *Candidates) ToExcluded() *ExcludedCandidates {
	excluded := &ExcludedCandidates{}
	for _, r := range c.Items {
		excluded.Items = append(excluded.Items, &ExcludedCandidate{
			Name:       r.Candidate.Name,
			ResumeID:   r.Candidate.ResumeID,
			Email:      r.Candidate.Email,
			Source:     r.Source,
			ExcludedAt: time.Now().UTC(),
		})
	}
	return excluded
}

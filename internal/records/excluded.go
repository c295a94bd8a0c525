package records

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"time"
)

// ExcludedCandidates is the on-disk list of candidates already reviewed.
type ExcludedCandidates struct {
	Items []*ExcludedCandidate
}

type ExcludedCandidate struct {
	Name       string
	ResumeID   string `json:",omitempty"`
	Email      string `json:",omitempty"`
	Source     string `json:",omitempty"`
	ExcludedAt time.Time
}

// GetExcludedFromFile reads the exclude list. A missing or empty file is an
// empty list.
func GetExcludedFromFile(path string) (*ExcludedCandidates, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &ExcludedCandidates{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedCandidates{}, nil
	}

	var excluded ExcludedCandidates
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

// Key identifies the entry the same way Record.Key identifies a record.
func (c *ExcludedCandidate) Key() string {
	return candidateKey(c.ResumeID, c.Email, c.Name)
}

// Append adds the entries of s that are not listed yet and returns how many
// were added.
func (e *ExcludedCandidates) Append(s *ExcludedCandidates) int {
	seen := make(map[string]struct{}, len(e.Items))
	for _, c := range e.Items {
		seen[c.Key()] = struct{}{}
	}

	added := 0
	for _, c := range s.Items {
		if _, ok := seen[c.Key()]; ok {
			continue
		}
		seen[c.Key()] = struct{}{}
		e.Items = append(e.Items, c)
		added++
	}
	return added
}

func (e *ExcludedCandidates) Len() int {
	return len(e.Items)
}

// Values returns the non-empty values of one identifying field.
func (e *ExcludedCandidates) Values(field string) []string {
	values := make([]string, 0, len(e.Items))
	for _, c := range e.Items {
		var v string
		switch field {
		case CandidateNameField:
			v = c.Name
		case CandidateResumeIDField:
			v = c.ResumeID
		case CandidateEmailField:
			v = c.Email
		}
		if v != "" {
			values = append(values, v)
		}
	}
	return values
}

// ToFile overwrites path with the list.
func (e *ExcludedCandidates) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

package report

import (
	"encoding/json"
	"os"
	"strings"
)

// Reports is the set of job reports produced by one batch run.
type Reports struct {
	Items []*JobReport
}

func (r *Reports) Len() int {
	return len(r.Items)
}

// FindByTitle returns the report for the job with the given title, ignoring
// case, or nil.
func (r *Reports) FindByTitle(title string) *JobReport {
	for _, report := range r.Items {
		if strings.EqualFold(report.title(), strings.TrimSpace(title)) {
			return report
		}
	}
	return nil
}

// Snapshots serializes every report.
func (r *Reports) Snapshots() []Snapshot {
	out := make([]Snapshot, 0, len(r.Items))
	for _, report := range r.Items {
		out = append(out, report.Serialize())
	}
	return out
}

// DumpToTmpFile writes all snapshots to a temporary JSON file and returns its
// name.
func (r *Reports) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "reports_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r.Snapshots()); err != nil {
		return "", err
	}
	return file.Name(), nil
}

package records

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/spigell/resume-matcher/internal/matching"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDirDecodesLenientlyAndKeepsGoing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.json", `{"name":"Bob","skills":["Go"],"experience":"5","education":[{"degree":"BSc","year":2019}]}`)
	writeFile(t, dir, "a.json", `{"name":"Ada","skills":["Python","SQL"],"experience":4,"unknown":true}`)
	writeFile(t, dir, "c.json", `{not json`)
	writeFile(t, dir, "notes.txt", `ignored`)

	candidates, failures, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := candidates.Names(); len(got) != 2 || got[0] != "Ada" || got[1] != "Bob" {
		t.Fatalf("unexpected names: %v", got)
	}

	bob := candidates.FindByName("bob")
	if bob == nil {
		t.Fatalf("expected to find bob")
	}
	if bob.Candidate.Experience != 5 {
		t.Fatalf("expected experience 5, got %d", bob.Candidate.Experience)
	}
	if len(bob.Candidate.Education) != 1 || bob.Candidate.Education[0].Year != "2019" {
		t.Fatalf("unexpected education: %+v", bob.Candidate.Education)
	}

	if len(failures) != 1 {
		t.Fatalf("expected 1 load failure, got %d", len(failures))
	}
	if filepath.Base(failures[0].Source) != "c.json" {
		t.Fatalf("unexpected failure source: %s", failures[0].Source)
	}
}

func TestLoadDirMissingDirectory(t *testing.T) {
	_, _, err := LoadDir(filepath.Join(t.TempDir(), "absent"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestRecordKeyPriority(t *testing.T) {
	tests := []struct {
		name      string
		candidate matching.Candidate
		want      string
	}{
		{name: "resume id", candidate: matching.Candidate{Name: "Ada", Email: "a@x.io", ResumeID: "r-1"}, want: "id:r-1"},
		{name: "email", candidate: matching.Candidate{Name: "Ada", Email: " A@X.io "}, want: "email:a@x.io"},
		{name: "name", candidate: matching.Candidate{Name: "Ada Lovelace"}, want: "name:ada lovelace"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := &Record{Candidate: &tt.candidate}
			if got := r.Key(); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRecordNameFallsBackToSource(t *testing.T) {
	r := &Record{Source: "/tmp/resumes/unknown.json", Candidate: &matching.Candidate{}}
	if got := r.Name(); got != "unknown.json" {
		t.Fatalf("unexpected name %q", got)
	}
}

func TestCandidatesExcludePreservesOrder(t *testing.T) {
	candidates := &Candidates{Items: []*Record{
		{Candidate: &matching.Candidate{Name: "Ada", Email: "ada@x.io"}},
		{Candidate: &matching.Candidate{Name: "Bob", Email: "bob@x.io"}},
		{Candidate: &matching.Candidate{Name: "Cyd"}},
		{Candidate: &matching.Candidate{Name: "Dee", Email: "dee@x.io"}},
	}}

	removed := candidates.Exclude(CandidateEmailField, []string{"BOB@x.io", "", "dee@x.io"})

	if len(removed) != 2 {
		t.Fatalf("expected 2 removed, got %d", len(removed))
	}
	if got := candidates.Names(); len(got) != 2 || got[0] != "Ada" || got[1] != "Cyd" {
		t.Fatalf("unexpected remaining: %v", got)
	}

	if removed := candidates.Exclude(CandidateNameField, nil); removed != nil {
		t.Fatalf("expected nothing removed for empty targets")
	}
}

func TestExcludedRoundTripAndAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviewed.json")

	empty, err := GetExcludedFromFile(path)
	if err != nil {
		t.Fatalf("missing file should be empty: %v", err)
	}
	if empty.Len() != 0 {
		t.Fatalf("expected empty list")
	}

	candidates := &Candidates{Items: []*Record{
		{Source: "a.json", Candidate: &matching.Candidate{Name: "Ada", ResumeID: "r-1"}},
		{Source: "b.json", Candidate: &matching.Candidate{Name: "Bob", Email: "bob@x.io"}},
	}}

	if added := empty.Append(candidates.ToExcluded()); added != 2 {
		t.Fatalf("expected 2 added, got %d", added)
	}
	if err := empty.ToFile(path); err != nil {
		t.Fatalf("write: %v", err)
	}

	loaded, err := GetExcludedFromFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", loaded.Len())
	}
	if ids := loaded.Values(CandidateResumeIDField); len(ids) != 1 || ids[0] != "r-1" {
		t.Fatalf("unexpected ids: %v", ids)
	}
	if emails := loaded.Values(CandidateEmailField); len(emails) != 1 || emails[0] != "bob@x.io" {
		t.Fatalf("unexpected emails: %v", emails)
	}
	if loaded.Items[0].ExcludedAt.IsZero() {
		t.Fatalf("expected exclusion time to be set")
	}

	// A shorter list must not leave trailing bytes of the old one.
	short := &ExcludedCandidates{Items: loaded.Items[:1]}
	if err := short.ToFile(path); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	reloaded, err := GetExcludedFromFile(path)
	if err != nil {
		t.Fatalf("reread: %v", err)
	}
	if reloaded.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", reloaded.Len())
	}
}

func TestExcludedAppendSkipsListed(t *testing.T) {
	excluded := &ExcludedCandidates{Items: []*ExcludedCandidate{
		{Name: "Ada", ResumeID: "r-1"},
		{Name: "Bob", Email: "bob@x.io"},
	}}

	added := excluded.Append(&ExcludedCandidates{Items: []*ExcludedCandidate{
		{Name: "Ada Lovelace", ResumeID: "r-1"},
		{Name: "Robert", Email: "BOB@x.io"},
		{Name: "Cyd"},
		{Name: "cyd "},
	}})

	if added != 1 {
		t.Fatalf("expected 1 added, got %d", added)
	}
	if excluded.Len() != 3 || excluded.Items[2].Name != "Cyd" {
		t.Fatalf("unexpected entries: %d", excluded.Len())
	}
}

func TestGetExcludedFromEmptyFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "reviewed.json", "")
	excluded, err := GetExcludedFromFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if excluded.Len() != 0 {
		t.Fatalf("expected empty list")
	}
}

func TestSampleJobsAreValid(t *testing.T) {
	jobs := SampleJobs()
	if len(jobs) != 3 {
		t.Fatalf("expected 3 sample jobs, got %d", len(jobs))
	}
	for _, job := range jobs {
		if err := matching.ValidateJob(job); err != nil {
			t.Fatalf("sample job %q invalid: %v", job.Title, err)
		}
	}

	if job := FindJob(jobs, " engineering manager "); job == nil || job.Role() != matching.RoleLeadership {
		t.Fatalf("expected leadership job, got %+v", job)
	}
	if FindJob(jobs, "Chef") != nil {
		t.Fatalf("expected no match")
	}
}

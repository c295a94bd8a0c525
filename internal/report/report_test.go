package report

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/spigell/resume-matcher/internal/matching"
)

func testJob() *matching.Job {
	maxExp := 7
	return &matching.Job{
		Title:              "Machine Learning Engineer",
		Company:            "NeuralNet Labs",
		HardRequiredSkills: []string{"Python"},
		SoftRequiredSkills: []string{"SQL"},
		PreferredSkills:    []string{"Docker"},
		MinExperience:      3,
		MaxExperience:      &maxExp,
		RoleType:           matching.RoleIC,
	}
}

func newTestReport(t *testing.T) *JobReport {
	t.Helper()
	fixed := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = time.Now })

	return New(testJob(), matching.NewMatcher(matching.DefaultConfig(), nil), "3f2a9c1e-0000-4000-8000-000000000000")
}

func TestJobReportAdd_SortedAndStable(t *testing.T) {
	r := newTestReport(t)

	require.NoError(t, r.Add(&matching.Candidate{Name: "first", Skills: []string{"python"}, Experience: 4}))
	require.NoError(t, r.Add(&matching.Candidate{Name: "best", Skills: []string{"python", "sql", "docker"}, Experience: 5}))
	require.NoError(t, r.Add(&matching.Candidate{Name: "second", Skills: []string{"Python"}, Experience: 4}))
	require.NoError(t, r.Add(&matching.Candidate{Name: "worst", Experience: 0}))

	snapshot := r.Serialize()
	names := make([]string, 0, len(snapshot.Rankings))
	for _, e := range snapshot.Rankings {
		names = append(names, e.CandidateName)
	}

	assert.Equal(t, []string{"best", "first", "second", "worst"}, names)
	assert.Equal(t, snapshot.Rankings[1].Score, snapshot.Rankings[2].Score)
	assert.Equal(t, []string{"sql"}, snapshot.Rankings[1].MissingSoft)
	assert.Empty(t, snapshot.Rankings[0].MissingHard)
}

func TestJobReportAdd_Options(t *testing.T) {
	r := newTestReport(t)

	err := r.Add(&matching.Candidate{Name: "Ada", Skills: []string{"python"}, Experience: 4},
		WithExplanation("Strong python background."),
		WithMissing([]string{"custom"}, nil),
	)
	require.NoError(t, err)

	top := r.Top(1)
	require.Len(t, top, 1)
	assert.Equal(t, "Strong python background.", top[0].Explanation)
	assert.Equal(t, []string{"custom"}, top[0].MissingHard)
	assert.NotNil(t, top[0].MissingSoft)
}

func TestJobReportAdd_FailureIsRecorded(t *testing.T) {
	r := newTestReport(t)

	err := r.Add(&matching.Candidate{Experience: 2})
	require.ErrorIs(t, err, matching.ErrInvalidInput)

	require.NoError(t, r.Add(&matching.Candidate{Name: "ok", Skills: []string{"python"}, Experience: 3}))

	assert.Equal(t, 1, r.Len())
	failures := r.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "scoring", failures[0].Stage)
	assert.Contains(t, failures[0].Reason, "Name")
}

func TestJobReportAdd_Concurrent(t *testing.T) {
	r := newTestReport(t)

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			skills := []string{"python"}
			if i%3 == 0 {
				skills = append(skills, "sql", "docker")
			}
			c := &matching.Candidate{Name: fmt.Sprintf("c%02d", i), Skills: skills, Experience: i % 10}
			assert.NoError(t, r.Add(c))
		}()
	}
	wg.Wait()

	require.Equal(t, workers, r.Len())

	rankings := r.Serialize().Rankings
	seen := make(map[string]struct{}, len(rankings))
	for i, e := range rankings {
		seen[e.CandidateName] = struct{}{}
		if i > 0 {
			assert.GreaterOrEqual(t, rankings[i-1].Score, e.Score, "rank %d", i)
		}
	}
	assert.Len(t, seen, workers)
}

func TestJobReportAdd_NilJob(t *testing.T) {
	r := New(nil, matching.NewMatcher(matching.DefaultConfig(), nil), "run")

	err := r.Add(&matching.Candidate{Name: "Ada", Skills: []string{"python"}, Experience: 4})
	require.ErrorIs(t, err, matching.ErrInvalidInput)

	require.Len(t, r.Failures(), 1)
	assert.Empty(t, r.Serialize().Job)
	assert.Nil(t, (&Reports{Items: []*JobReport{r}}).FindByTitle("Machine Learning Engineer"))
}

func TestJobReportSerialize_Contract(t *testing.T) {
	r := newTestReport(t)
	require.NoError(t, r.Add(&matching.Candidate{Name: "Ada", Skills: []string{"python"}, Experience: 4}))

	raw, err := json.Marshal(r.Serialize())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "Machine Learning Engineer", decoded["job"])

	rankings, ok := decoded["rankings"].([]any)
	require.True(t, ok)
	require.Len(t, rankings, 1)

	entry := rankings[0].(map[string]any)
	for _, key := range []string{
		"candidate_name", "score", "match_level", "missing_hard_required_skills",
		"missing_soft_required_skills", "years_exp", "explanation",
	} {
		assert.Contains(t, entry, key)
	}
}

func TestJobReportSerialize_IsSnapshot(t *testing.T) {
	r := newTestReport(t)
	require.NoError(t, r.Add(&matching.Candidate{Name: "Ada", Skills: []string{"python"}, Experience: 4}))

	snapshot := r.Serialize()
	snapshot.Rankings[0].MissingSoft[0] = "mutated"

	require.NoError(t, r.Add(&matching.Candidate{Name: "Bob", Experience: 4}))

	assert.Len(t, snapshot.Rankings, 1)
	assert.Equal(t, "sql", r.Top(1)[0].MissingSoft[0])
}

func TestSnapshotSaveJSON_AtMostOnce(t *testing.T) {
	r := newTestReport(t)
	require.NoError(t, r.Add(&matching.Candidate{Name: "Ada", Skills: []string{"python"}, Experience: 4}))
	snapshot := r.Serialize()
	dir := t.TempDir()

	first, err := snapshot.SaveJSON(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "machine_learning_engineer_20261019_0930.json"), first)

	second, err := snapshot.SaveJSON(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "machine_learning_engineer_20261019_0930_3f2a9c1e.json"), second)

	_, err = snapshot.SaveJSON(dir)
	require.Error(t, err)

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	var decoded Snapshot
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Ada", decoded.Rankings[0].CandidateName)
}

func TestSnapshotSaveJSON_RemovesPartialFile(t *testing.T) {
	dir := t.TempDir()
	snapshot := Snapshot{
		Job:         "Broken Scores",
		GeneratedAt: time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC),
		Rankings:    []Entry{{CandidateName: "Ada", Score: math.NaN()}},
	}

	_, err := snapshot.SaveJSON(dir)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// The name is free again once the bad write is cleaned up.
	snapshot.Rankings[0].Score = 0.5
	path, err := snapshot.SaveJSON(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "broken_scores_20261019_0930.json"), path)
}

func TestSnapshotSaveCSV(t *testing.T) {
	r := newTestReport(t)
	require.NoError(t, r.Add(&matching.Candidate{Name: "Ada", Skills: []string{"python"}, Experience: 4}))

	path, err := r.Serialize().Save(t.TempDir(), FormatCSV)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "candidate_name,score,match_level"))
	assert.True(t, strings.HasPrefix(lines[1], "Ada,"))
}

func TestSnapshotSaveXLSX(t *testing.T) {
	r := newTestReport(t)
	require.NoError(t, r.Add(&matching.Candidate{Name: "Ada", Skills: []string{"python"}, Experience: 4}))
	r.RecordFailure("Broken", "load", assert.AnError)

	path, err := r.Serialize().Save(t.TempDir(), FormatXLSX)
	require.NoError(t, err)

	book, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows("Rankings")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Ada", rows[1][0])

	failures, err := book.GetRows("Failures")
	require.NoError(t, err)
	require.Len(t, failures, 2)
	assert.Equal(t, "load", failures[1][1])
}

func TestSnapshotSave_Errors(t *testing.T) {
	r := newTestReport(t)

	_, err := r.Serialize().Save(t.TempDir(), "pdf")
	require.Error(t, err)

	_, err = r.Serialize().SaveCSV(t.TempDir())
	require.Error(t, err, "empty reports have nothing to export")
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "machine_learning_engineer", Slug("Machine Learning Engineer"))
	assert.Equal(t, "c_developer", Slug("  C++ Developer "))
	assert.Equal(t, "job", Slug("!!!"))
}

func TestReportsFindByTitle(t *testing.T) {
	r := newTestReport(t)
	reports := &Reports{Items: []*JobReport{r}}

	assert.Same(t, r, reports.FindByTitle("machine learning engineer"))
	assert.Nil(t, reports.FindByTitle("Chef"))

	path, err := reports.DumpToTmpFile()
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(path) })

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Machine Learning Engineer")
}

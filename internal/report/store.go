package report

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"
)

const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	timestampLayout = "20060102_1504"
)

var csvHeader = []string{
	"candidate_name",
	"score",
	"match_level",
	"missing_hard_required_skills",
	"missing_soft_required_skills",
	"years_exp",
	"explanation",
}

// Slug turns a job title into a file name stem, e.g. "Machine Learning
// Engineer" becomes "machine_learning_engineer".
func Slug(title string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore && b.Len() > 0 {
			b.WriteRune('_')
			underscore = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "_")
	if slug == "" {
		return "job"
	}
	return slug
}

// Save writes the snapshot in the given format to dir and returns the path.
func (s Snapshot) Save(dir, format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatJSON, "":
		return s.SaveJSON(dir)
	case FormatCSV:
		return s.SaveCSV(dir)
	case FormatXLSX:
		return s.SaveXLSX(dir)
	default:
		return "", fmt.Errorf("unsupported report format: %s", format)
	}
}

// SaveJSON writes the snapshot to dir as <slug>_<timestamp>.json. Existing
// files are never overwritten.
func (s Snapshot) SaveJSON(dir string) (string, error) {
	file, err := s.create(dir, FormatJSON)
	if err != nil {
		return "", err
	}

	return finish(file, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "    ")
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		return nil
	})
}

// SaveCSV writes the rankings as CSV.
func (s Snapshot) SaveCSV(dir string) (string, error) {
	if len(s.Rankings) == 0 {
		return "", errors.New("no rankings to export")
	}

	file, err := s.create(dir, FormatCSV)
	if err != nil {
		return "", err
	}

	return finish(file, func(out io.Writer) error {
		w := csv.NewWriter(out)
		if err := w.Write(csvHeader); err != nil {
			return err
		}
		if err := w.WriteAll(s.rows()); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		return nil
	})
}

// finish runs write against file and closes it. On any failure the file is
// removed so a half-written report never takes the name.
func finish(file *os.File, write func(io.Writer) error) (string, error) {
	path := file.Name()

	err := write(file)
	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("close report: %w", closeErr)
	}
	if err != nil {
		os.Remove(path)
		return "", err
	}

	return path, nil
}

// SaveXLSX writes the rankings to a spreadsheet with a rankings sheet and,
// when present, a failures sheet.
func (s Snapshot) SaveXLSX(dir string) (string, error) {
	if len(s.Rankings) == 0 {
		return "", errors.New("no rankings to export")
	}

	// Reserve the name first so concurrent runs cannot clobber each other.
	file, err := s.create(dir, FormatXLSX)
	if err != nil {
		return "", err
	}
	path := file.Name()
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close report: %w", err)
	}

	if err := s.writeBook(path); err != nil {
		os.Remove(path)
		return "", err
	}

	return path, nil
}

func (s Snapshot) writeBook(path string) error {
	book := excelize.NewFile()
	defer book.Close()

	const rankings = "Rankings"
	if err := book.SetSheetName("Sheet1", rankings); err != nil {
		return err
	}
	if err := writeSheet(book, rankings, csvHeader, s.rows()); err != nil {
		return err
	}

	if len(s.Failures) > 0 {
		const failures = "Failures"
		if _, err := book.NewSheet(failures); err != nil {
			return err
		}
		rows := make([][]string, 0, len(s.Failures))
		for _, f := range s.Failures {
			rows = append(rows, []string{f.CandidateName, f.Stage, f.Reason})
		}
		if err := writeSheet(book, failures, []string{"candidate_name", "stage", "reason"}, rows); err != nil {
			return err
		}
	}

	if err := book.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}

func writeSheet(book *excelize.File, sheet string, header []string, rows [][]string) error {
	all := append([][]string{header}, rows...)
	for r, row := range all {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := book.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s Snapshot) rows() [][]string {
	rows := make([][]string, 0, len(s.Rankings))
	for _, e := range s.Rankings {
		rows = append(rows, []string{
			e.CandidateName,
			strconv.FormatFloat(e.Score, 'f', 3, 64),
			string(e.MatchLevel),
			strings.Join(e.MissingHard, ", "),
			strings.Join(e.MissingSoft, ", "),
			strconv.Itoa(e.YearsExp),
			e.Explanation,
		})
	}
	return rows
}

// create opens a new file for the snapshot with O_EXCL. When the timestamped
// name is taken it retries once with the run id appended.
func (s Snapshot) create(dir, ext string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report directory: %w", err)
	}

	stem := fmt.Sprintf("%s_%s", Slug(s.Job), s.GeneratedAt.Format(timestampLayout))
	names := []string{stem + "." + ext}
	if s.RunID != "" {
		names = append(names, fmt.Sprintf("%s_%s.%s", stem, shortID(s.RunID), ext))
	}

	var lastErr error
	for _, name := range names {
		path := filepath.Join(dir, name)
		file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			return file, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("create report file: %w", err)
		}
		lastErr = err
	}

	return nil, fmt.Errorf("report file already exists: %w", lastErr)
}

func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

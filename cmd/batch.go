package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/resume-matcher/internal/ai"
	"github.com/spigell/resume-matcher/internal/filtering"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/matching"
	"github.com/spigell/resume-matcher/internal/records"
	"github.com/spigell/resume-matcher/internal/report"
)

const (
	PromptSave                = "Save reports"
	PromptShowTop             = "Show top candidates"
	PromptReportsToFile       = "Dump reports to temp file"
	PromptAppendToExcludeFile = "Append all candidates to exclude file"
	PromptExit                = "Exit"

	stageLoad    = "load"
	includeFlag  = "include-reviewed"
	autoApprove  = "auto-approve"
	excludeLabel = "exclude_file"
)

var errExit = errors.New("exit requested")

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Score every candidate against every job and build ranked reports",
	Run: func(cmd *cobra.Command, _ []string) {
		batch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringP("candidates-dir", "c", "", "directory with candidate JSON files")
	batchCmd.Flags().StringP("exclude-file", "e", "", "file with already reviewed candidates. Default is unset.")
	batchCmd.Flags().BoolP(autoApprove, "y", false, "save reports without asking")
	batchCmd.Flags().Bool(includeFlag, false, "do not skip candidates listed in the exclude file")
	batchCmd.Flags().IntP("top-n", "n", 0, "how many top candidates to show per job")
	batchCmd.Flags().IntP("workers", "w", 0, "concurrent AI explanation requests")
	batchCmd.Flags().StringSlice("job", nil, "limit the run to jobs with these titles")

	viper.BindPFlag("candidates-dir", batchCmd.Flags().Lookup("candidates-dir"))
	viper.BindPFlag("exclude-file", batchCmd.Flags().Lookup("exclude-file"))
	viper.BindPFlag("report.top-n", batchCmd.Flags().Lookup("top-n"))
	viper.BindPFlag("workers", batchCmd.Flags().Lookup("workers"))
}

func batch(cmd *cobra.Command) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	runID := uuid.NewString()
	logger = logger.With(zap.String("run_id", runID))
	logger.Info("starting the resume-matcher", zap.String("version", resolveVersion(version, debug.ReadBuildInfo)))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	matcher := newMatcher(config, logger)

	jobs, err := selectJobs(config.Jobs, mustStringSlice(cmd, "job"))
	if err != nil {
		logger.Fatal("selecting jobs", zap.Error(err))
	}

	candidates, loadErrs, err := records.LoadDir(config.CandidatesDir)
	if err != nil {
		logger.Fatal("loading candidates", zap.Error(err))
	}
	for _, e := range loadErrs {
		logger.Warn("candidate file skipped", zap.String("source", e.Source), zap.Error(e.Err))
	}

	logger.Info("candidates loaded", zap.Int("count", candidates.Len()), zap.Int("failed", len(loadErrs)))

	steps := filtering.Default()
	if flagIsSet(cmd, includeFlag) {
		filtering.DisableByName(steps, excludeLabel, "include-reviewed flag is set")
	}

	candidates, rejected, err := filtering.Run(ctx, &filtering.Config{ExcludeFile: config.ExcludeFile}, filtering.Deps{Logger: logger}, steps, candidates)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	assistant := newAssistant(ctx, config.AI, logger)

	reports := &report.Reports{}
	for _, job := range jobs {
		rep := buildReport(ctx, job, matcher, assistant, candidates, config.Workers, runID, logger)
		recordSkipped(rep, loadErrs, rejected)
		reports.Items = append(reports.Items, rep)

		logTop(logger, rep, config.Report.TopN)
	}

	if candidates.Len() == 0 {
		logger.Info("no candidates left after filters")
	}

	action := PromptSave
	for {
		if !flagIsSet(cmd, autoApprove) {
			prompt := promptui.Select{
				Label: "What next?",
				Items: actionItems(config),
			}
			_, action, err = prompt.Run()
			if err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}

		if err := handleAction(action, logger, config, reports, candidates); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}

		if flagIsSet(cmd, autoApprove) {
			return
		}
	}
}

func newMatcher(config *Config, logger *zap.Logger) *matching.Matcher {
	if err := config.Matching.Validate(); err != nil {
		var sumErr *matching.WeightSumError
		if !errors.As(err, &sumErr) {
			logger.Fatal("invalid matching config", zap.Error(err))
		}
		logger.Warn("matching weights do not sum to 1.0", zap.Float64("sum", sumErr.Sum))
	}

	return matching.NewMatcher(config.Matching.Config, config.skillGroups())
}

// buildReport scores every candidate for one job. AI explanations are fetched
// concurrently; entries are then added in input order so ties stay stable.
func buildReport(ctx context.Context, job *matching.Job, matcher *matching.Matcher, assistant ai.Assistant, candidates *records.Candidates, workers int, runID string, log *zap.Logger) *report.JobReport {
	rep := report.New(job, matcher, runID)
	explanations := make([]string, candidates.Len())

	var g errgroup.Group
	g.SetLimit(workers)

	for i, record := range candidates.Items {
		g.Go(func() error {
			result, err := matcher.Match(record.Candidate, job)
			if err != nil {
				// Add records the failure below.
				return nil
			}

			text, err := assistant.Explain(ctx, record.Candidate, job, result, matcher.Gaps(record.Candidate, job))
			if err != nil {
				logger.WithFields(log, logger.MatchFields(record.Candidate, job)...).
					Warn("explanation failed. The candidate is ranked without it.", zap.Error(err))
				return nil
			}
			explanations[i] = text
			return nil
		})
	}

	// Workers never return errors, failures are handled per candidate.
	_ = g.Wait()

	for i, record := range candidates.Items {
		if err := rep.Add(record.Candidate, report.WithExplanation(explanations[i])); err != nil {
			log.Warn("scoring failed", zap.String("source", record.Source), zap.Error(err))
		}
	}

	log.Info("job scored",
		zap.String("job", job.Title),
		zap.Int("ranked", rep.Len()),
		zap.Int("failed", len(rep.Failures())),
	)

	return rep
}

func recordSkipped(rep *report.JobReport, loadErrs []*records.LoadError, rejected []filtering.Rejection) {
	for _, e := range loadErrs {
		rep.RecordFailure(filepath.Base(e.Source), stageLoad, e.Err)
	}
	for _, r := range rejected {
		rep.RecordFailure(r.Record.Name(), r.Filter, errors.New(r.Reason))
	}
}

func logTop(log *zap.Logger, rep *report.JobReport, n int) {
	for i, entry := range rep.Top(n) {
		log.Info("top candidate",
			zap.String("job", rep.Job().Title),
			zap.Int("rank", i+1),
			zap.String("candidate", entry.CandidateName),
			zap.Float64("score", entry.Score),
			zap.String("match_level", string(entry.MatchLevel)),
			zap.Strings("missing_hard", entry.MissingHard),
			zap.Strings("missing_soft", entry.MissingSoft),
		)
	}
}

func actionItems(config *Config) []string {
	items := []string{PromptSave, PromptShowTop, PromptReportsToFile}
	if strings.TrimSpace(config.ExcludeFile) != "" {
		items = append(items, PromptAppendToExcludeFile)
	}
	return append(items, PromptExit)
}

func handleAction(action string, logger *zap.Logger, config *Config, reports *report.Reports, candidates *records.Candidates) error {
	switch action {
	case PromptSave:
		return saveReports(logger, config.Report, reports)
	case PromptShowTop:
		for _, rep := range reports.Items {
			logTop(logger, rep, config.Report.TopN)
		}
		return nil
	case PromptReportsToFile:
		filename, err := reports.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump reports to file: %w", err)
		}
		logger.Info("dumping reports to file", zap.String("filename", filename))
		return nil
	case PromptAppendToExcludeFile:
		return appendToExcludeFile(logger, config.ExcludeFile, candidates)
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func saveReports(logger *zap.Logger, cfg ReportConfig, reports *report.Reports) error {
	for _, snapshot := range reports.Snapshots() {
		if len(snapshot.Rankings) == 0 && len(snapshot.Failures) == 0 {
			continue
		}
		for _, format := range cfg.Formats {
			path, err := snapshot.Save(cfg.Dir, format)
			if err != nil {
				return fmt.Errorf("saving %s report for %q: %w", format, snapshot.Job, err)
			}
			logger.Info("report saved", zap.String("job", snapshot.Job), zap.String("path", path))
		}
	}
	return nil
}

func appendToExcludeFile(logger *zap.Logger, path string, candidates *records.Candidates) error {
	excluded, err := records.GetExcludedFromFile(path)
	if err != nil {
		return err
	}

	added := excluded.Append(candidates.ToExcluded())

	if err := excluded.ToFile(path); err != nil {
		return err
	}

	logger.Info("appended to exclude file",
		zap.String("filename", path),
		zap.Int("added", added),
		zap.Int("already_listed", candidates.Len()-added),
	)
	return nil
}

func selectJobs(jobs []*matching.Job, titles []string) ([]*matching.Job, error) {
	if len(titles) == 0 {
		return jobs, nil
	}

	selected := make([]*matching.Job, 0, len(titles))
	for _, title := range titles {
		job := records.FindJob(jobs, title)
		if job == nil {
			return nil, fmt.Errorf("job %q not found, known jobs: %s", title, strings.Join(records.JobTitles(jobs), ", "))
		}
		selected = append(selected, job)
	}
	return selected, nil
}

func flagIsSet(cmd *cobra.Command, name string) bool {
	flag := cmd.Flag(name)
	return flag != nil && strings.EqualFold(flag.Value.String(), "true")
}

func mustStringSlice(cmd *cobra.Command, name string) []string {
	values, err := cmd.Flags().GetStringSlice(name)
	if err != nil {
		return nil
	}
	return values
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/ai"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/matching"
	"github.com/spigell/resume-matcher/internal/records"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Analyze one candidate against one job",
	Run: func(cmd *cobra.Command, _ []string) {
		match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().String("candidate", "", "candidate JSON file")
	matchCmd.Flags().String("job", "", "job title. Asked interactively when empty.")
	matchCmd.MarkFlagRequired("candidate")
}

func match(cmd *cobra.Command) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	lg, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer lg.Sync()

	config, err := getConfig()
	if err != nil {
		lg.Fatal("getting a config", zap.Error(err))
	}

	path, _ := cmd.Flags().GetString("candidate")
	record, err := records.LoadFile(path)
	if err != nil {
		lg.Fatal("loading candidate", zap.String("path", path), zap.Error(err))
	}

	title, _ := cmd.Flags().GetString("job")
	job, err := chooseJob(config.Jobs, title)
	if err != nil {
		lg.Fatal("choosing a job", zap.Error(err))
	}

	matcher := newMatcher(config, lg)

	result, err := matcher.Match(record.Candidate, job)
	if err != nil {
		lg.Fatal("scoring candidate", zap.Error(err))
	}
	gaps := matcher.Gaps(record.Candidate, job)

	lg.Debug("candidate scored", append(logger.MatchFields(record.Candidate, job), logger.ResultFields(result)...)...)

	assistant := newAssistant(ctx, config.AI, lg)
	summary, explanation := insights(ctx, assistant, record.Candidate, job, result, gaps, lg)

	printAnalysis(cmd.OutOrStdout(), record.Candidate, job, result, gaps, summary, explanation)
}

func chooseJob(jobs []*matching.Job, title string) (*matching.Job, error) {
	if strings.TrimSpace(title) != "" {
		job := records.FindJob(jobs, title)
		if job == nil {
			return nil, fmt.Errorf("job %q not found, known jobs: %s", title, strings.Join(records.JobTitles(jobs), ", "))
		}
		return job, nil
	}

	prompt := promptui.Select{
		Label: "Choose a job and press ENTER",
		Items: records.JobTitles(jobs),
	}

	idx, _, err := prompt.Run()
	if err != nil {
		return nil, err
	}
	return jobs[idx], nil
}

func insights(ctx context.Context, assistant ai.Assistant, c *matching.Candidate, j *matching.Job, result *matching.Result, gaps matching.Gaps, log *zap.Logger) (string, string) {
	summary, err := assistant.Summarize(ctx, c)
	if err != nil {
		log.Warn("summary failed", zap.Error(err))
	}

	explanation, err := assistant.Explain(ctx, c, j, result, gaps)
	if err != nil {
		log.Warn("explanation failed", zap.Error(err))
	}

	return summary, explanation
}

func printAnalysis(w io.Writer, c *matching.Candidate, j *matching.Job, result *matching.Result, gaps matching.Gaps, summary, explanation string) {
	fmt.Fprintf(w, "Candidate: %s (%d years)\n", c.Name, c.Experience)
	fmt.Fprintf(w, "Job: %s", j.Title)
	if j.Company != "" {
		fmt.Fprintf(w, " at %s", j.Company)
	}
	fmt.Fprintf(w, " [%s, %s]\n\n", j.Role(), j.ExperienceRange())

	fmt.Fprintf(w, "Score: %.3f (%s)\n", result.Score, result.Level)

	components := result.Breakdown.Components()
	names := make([]string, 0, len(components))
	for name := range components {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-10s %.3f\n", name, components[name])
	}

	fmt.Fprintf(w, "\nMissing hard skills: %s\n", listOrNone(gaps.MissingHard))
	fmt.Fprintf(w, "Missing soft skills: %s\n", listOrNone(gaps.MissingSoft))

	if summary != "" {
		fmt.Fprintf(w, "\nSummary:\n%s\n", summary)
	}
	if explanation != "" {
		fmt.Fprintf(w, "\nExplanation:\n%s\n", explanation)
	}
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

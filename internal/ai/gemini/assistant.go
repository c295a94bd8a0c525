package gemini

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/matching"
	"github.com/spigell/resume-matcher/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

//go:embed summary.md
var summaryTemplate string

//go:embed explain.md
var explainTemplate string

const (
	defaultMaxLogLength = 200
	defaultMaxRetries   = 3
	defaultRetryDelay   = time.Second
	defaultTimeout      = 30 * time.Second

	maxSummarySkills = 10
	maxExplainSkills = 15
)

// Options configures retries and logging for the Assistant.
type Options struct {
	MaxRetries   int
	RetryDelay   time.Duration
	Timeout      time.Duration
	MaxLogLength int
}

// Assistant implements ai.Assistant on top of a Gemini content generator.
type Assistant struct {
	generator  contentGenerator
	logger     *zap.Logger
	maxRetries int
	retryDelay time.Duration
	timeout    time.Duration
	maxLogLen  int
}

func NewAssistant(generator contentGenerator, log *zap.Logger, opts Options) *Assistant {
	if opts.MaxLogLength <= 0 {
		opts.MaxLogLength = defaultMaxLogLength
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultRetryDelay
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	return &Assistant{
		generator:  generator,
		logger:     logger.WithProviderFields(log, "gemini", generator.Model()),
		maxRetries: opts.MaxRetries,
		retryDelay: opts.RetryDelay,
		timeout:    opts.Timeout,
		maxLogLen:  opts.MaxLogLength,
	}
}

func (a *Assistant) Summarize(ctx context.Context, candidate *matching.Candidate) (string, error) {
	if candidate == nil {
		return "", errors.New("candidate is required")
	}

	prompt := buildSummaryPrompt(candidate)
	return a.generate(ctx, prompt, logger.MatchFields(candidate, nil))
}

func (a *Assistant) Explain(ctx context.Context, candidate *matching.Candidate, job *matching.Job, result *matching.Result, gaps matching.Gaps) (string, error) {
	if candidate == nil {
		return "", errors.New("candidate is required")
	}
	if job == nil {
		return "", errors.New("job is required")
	}
	if result == nil {
		return "", errors.New("match result is required")
	}

	prompt := buildExplainPrompt(candidate, job, result, gaps)
	return a.generate(ctx, prompt, logger.MatchFields(candidate, job))
}

// generate calls the model with exponential backoff. Each attempt gets its
// own timeout; cancellation of ctx stops the retries.
func (a *Assistant) generate(ctx context.Context, prompt string, fields []zap.Field) (string, error) {
	log := logger.WithFields(a.logger, fields...)

	log.Debug("gemini generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, a.maxLogLen)),
	)

	delay := a.retryDelay
	var lastErr error

	for attempt := 1; attempt <= a.maxRetries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, a.timeout)
		raw, err := a.generator.GenerateContent(callCtx, prompt)
		cancel()

		if err == nil {
			log.Debug("gemini generate content response",
				zap.Int("attempt", attempt),
				zap.Int("response_length", utf8.RuneCountInString(raw)),
				zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
			)
			return strings.TrimSpace(raw), nil
		}

		lastErr = err
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		if attempt == a.maxRetries {
			break
		}

		log.Warn("gemini call failed. Retrying.",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		if err := utils.WaitFor(ctx, delay); err != nil {
			return "", err
		}
		delay *= 2
	}

	return "", fmt.Errorf("gemini call failed after %d attempts: %w", a.maxRetries, lastErr)
}

func buildSummaryPrompt(c *matching.Candidate) string {
	r := strings.NewReplacer(
		"{{CANDIDATE_NAME}}", c.Name,
		"{{YEARS}}", strconv.Itoa(c.Experience),
		"{{SKILLS}}", joinLimited(c.Skills, maxSummarySkills),
		"{{EDUCATION}}", degrees(c.Education),
	)
	return r.Replace(summaryTemplate)
}

func buildExplainPrompt(c *matching.Candidate, j *matching.Job, res *matching.Result, gaps matching.Gaps) string {
	r := strings.NewReplacer(
		"{{SCORE}}", formatScore(res.Score),
		"{{LEVEL}}", string(res.Level),
		"{{JOB_TITLE}}", j.Title,
		"{{COMPANY}}", orNone(j.Company),
		"{{ROLE}}", string(j.Role()),
		"{{HARD}}", joinOrNone(j.HardRequiredSkills),
		"{{SOFT}}", joinOrNone(j.SoftRequiredSkills),
		"{{PREFERRED}}", joinOrNone(j.PreferredSkills),
		"{{EXPERIENCE_RANGE}}", j.ExperienceRange(),
		"{{CANDIDATE_NAME}}", c.Name,
		"{{YEARS}}", strconv.Itoa(c.Experience),
		"{{SKILLS}}", joinLimited(c.Skills, maxExplainSkills),
		"{{MISSING_HARD}}", joinOrNone(gaps.MissingHard),
		"{{MISSING_SOFT}}", joinOrNone(gaps.MissingSoft),
		"{{REQUIRED_SCORE}}", formatScore(res.Breakdown.Required),
		"{{PREFERRED_SCORE}}", formatScore(res.Breakdown.Preferred),
		"{{EXPERIENCE_SCORE}}", formatScore(res.Breakdown.Experience),
		"{{EDUCATION_SCORE}}", formatScore(res.Breakdown.Education),
	)
	return r.Replace(explainTemplate)
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func joinLimited(items []string, limit int) string {
	if len(items) == 0 {
		return "None"
	}
	if len(items) <= limit {
		return strings.Join(items, ", ")
	}
	return strings.Join(items[:limit], ", ") + "..."
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "None"
	}
	return s
}

func degrees(education []matching.Education) string {
	out := make([]string, 0, len(education))
	for _, e := range education {
		if d := strings.TrimSpace(e.Degree); d != "" {
			out = append(out, d)
			continue
		}
		out = append(out, "Unknown")
	}
	return joinOrNone(out)
}

package logger

import (
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/matching"
)

const (
	// FieldProvider is the structured log field key for the AI provider name.
	FieldProvider = "ai_provider"
	// FieldModel is the structured log field key for the AI model identifier.
	FieldModel = "ai_model"

	FieldCandidate = "candidate"
	FieldJob       = "job"
	FieldRunID     = "run_id"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// A nil logger becomes a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// ProviderFields describes the AI provider and model. Empty values are skipped.
func ProviderFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

// WithProviderFields attaches the AI provider fields to the logger.
func WithProviderFields(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, ProviderFields(provider, model)...)
}

// MatchFields names the candidate and job a log entry is about.
func MatchFields(candidate *matching.Candidate, job *matching.Job) []zap.Field {
	var name, title string
	if candidate != nil {
		name = candidate.Name
	}
	if job != nil {
		title = job.Title
	}
	return StringFields(
		StringField{Key: FieldCandidate, Value: name},
		StringField{Key: FieldJob, Value: title},
	)
}

// ResultFields flattens a match result into score, level and per-component fields.
func ResultFields(result *matching.Result) []zap.Field {
	if result == nil {
		return nil
	}
	return []zap.Field{
		zap.Float64("score", result.Score),
		zap.String("match_level", string(result.Level)),
		zap.Float64(matching.ComponentRequired, result.Breakdown.Required),
		zap.Float64(matching.ComponentPreferred, result.Breakdown.Preferred),
		zap.Float64(matching.ComponentExperience, result.Breakdown.Experience),
		zap.Float64(matching.ComponentEducation, result.Breakdown.Education),
	}
}

package matching

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidInput matches every *InputError via errors.Is.
var ErrInvalidInput = errors.New("invalid input")

var validate = validator.New()

// FieldError describes one invalid field.
type FieldError struct {
	Field   string
	Message string
}

// InputError is returned when a candidate or job cannot be scored because of
// its shape.
type InputError struct {
	Subject string
	Fields  []FieldError
}

func (e *InputError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return fmt.Sprintf("invalid %s: %s", e.Subject, strings.Join(parts, "; "))
}

func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ValidateCandidate checks that a candidate has the fields scoring needs.
func ValidateCandidate(c *Candidate) error {
	if c == nil {
		return &InputError{Subject: "candidate", Fields: []FieldError{{Field: "candidate", Message: "is required"}}}
	}
	return toInputError("candidate", validate.Struct(c), nil)
}

// ValidateJob checks that a job has the fields scoring needs and that its
// experience bounds are consistent.
func ValidateJob(j *Job) error {
	if j == nil {
		return &InputError{Subject: "job", Fields: []FieldError{{Field: "job", Message: "is required"}}}
	}

	var extra []FieldError
	if j.MaxExperience != nil && *j.MaxExperience < j.MinExperience {
		extra = append(extra, FieldError{
			Field:   "MaxExperience",
			Message: fmt.Sprintf("must be at least min experience (%d), got %d", j.MinExperience, *j.MaxExperience),
		})
	}
	if j.MinSalary != nil && j.MaxSalary != nil && *j.MaxSalary < *j.MinSalary {
		extra = append(extra, FieldError{Field: "MaxSalary", Message: "must be at least min salary"})
	}

	return toInputError("job", validate.Struct(j), extra)
}

func toInputError(subject string, err error, extra []FieldError) error {
	fields := make([]FieldError, 0, len(extra))

	if err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validating %s: %w", subject, err)
		}
		for _, fe := range verrs {
			fields = append(fields, FieldError{Field: fe.Field(), Message: describe(fe)})
		}
	}

	fields = append(fields, extra...)
	if len(fields) == 0 {
		return nil
	}

	return &InputError{Subject: subject, Fields: fields}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be >= %s, got %v", fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %v", fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

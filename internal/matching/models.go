// Package matching implements the deterministic candidate/job scoring engine.
package matching

import (
	"fmt"
	"strings"
)

// RoleType tags a job with its seniority track.
type RoleType string

const (
	RoleIC         RoleType = "IC"
	RoleICSenior   RoleType = "IC_SENIOR"
	RoleLeadership RoleType = "LEADERSHIP"
)

// UnmarshalText accepts role names in any case and with dashes or spaces in
// place of underscores, so configs may say "ic-senior".
func (r *RoleType) UnmarshalText(text []byte) error {
	raw := strings.ToUpper(strings.TrimSpace(string(text)))
	raw = strings.NewReplacer("-", "_", " ", "_").Replace(raw)

	switch RoleType(raw) {
	case "":
		*r = ""
	case RoleIC, RoleICSenior, RoleLeadership:
		*r = RoleType(raw)
	default:
		return fmt.Errorf("unknown role type %q", string(text))
	}
	return nil
}

// Education is a single education entry as produced by resume extraction.
type Education struct {
	Degree string `json:"degree,omitempty" mapstructure:"degree"`
	Raw    string `json:"raw,omitempty" mapstructure:"raw"`
	Year   string `json:"year,omitempty" mapstructure:"year"`
}

// Candidate is the structured record of a parsed resume.
type Candidate struct {
	Name       string      `json:"name" mapstructure:"name" validate:"required"`
	Email      string      `json:"email,omitempty" mapstructure:"email"`
	Phone      string      `json:"phone,omitempty" mapstructure:"phone"`
	Skills     []string    `json:"skills" mapstructure:"skills"`
	Education  []Education `json:"education" mapstructure:"education"`
	Experience int         `json:"experience" mapstructure:"experience" validate:"gte=0"`
	ResumeID   string      `json:"resume_id,omitempty" mapstructure:"resume_id"`
	Summary    string      `json:"summary,omitempty" mapstructure:"summary"`
}

// Job is a job posting with its requirements.
type Job struct {
	Title              string   `json:"title" mapstructure:"title" validate:"required"`
	Company            string   `json:"company,omitempty" mapstructure:"company"`
	Location           string   `json:"location,omitempty" mapstructure:"location"`
	Description        string   `json:"description,omitempty" mapstructure:"description"`
	HardRequiredSkills []string `json:"hard_required_skills" mapstructure:"hard-required-skills"`
	SoftRequiredSkills []string `json:"soft_required_skills" mapstructure:"soft-required-skills"`
	PreferredSkills    []string `json:"preferred_skills" mapstructure:"preferred-skills"`
	MinExperience      int      `json:"min_experience" mapstructure:"min-experience" validate:"gte=0"`
	MaxExperience      *int     `json:"max_experience,omitempty" mapstructure:"max-experience" validate:"omitempty,gte=0"`
	RoleType           RoleType `json:"role_type,omitempty" mapstructure:"role-type" validate:"omitempty,oneof=IC IC_SENIOR LEADERSHIP"`
	MinSalary          *int     `json:"min_salary,omitempty" mapstructure:"min-salary" validate:"omitempty,gte=0"`
	MaxSalary          *int     `json:"max_salary,omitempty" mapstructure:"max-salary" validate:"omitempty,gte=0"`
	EducationKeywords  []string `json:"education_keywords,omitempty" mapstructure:"education-keywords"`
}

// Role returns the role type, defaulting to individual contributor.
func (j *Job) Role() RoleType {
	if j.RoleType == "" {
		return RoleIC
	}
	return j.RoleType
}

// Junior reports whether the job accepts candidates with a year or less.
func (j *Job) Junior() bool {
	return j.MinExperience <= 1
}

// ExperienceRange renders the experience requirement, e.g. "3-7 years".
func (j *Job) ExperienceRange() string {
	if j.MaxExperience == nil {
		return fmt.Sprintf("%d+ years", j.MinExperience)
	}
	return fmt.Sprintf("%d-%d years", j.MinExperience, *j.MaxExperience)
}

// Breakdown holds the per-component scores behind a final score.
type Breakdown struct {
	Required   float64 `json:"required"`
	Preferred  float64 `json:"preferred"`
	Experience float64 `json:"experience"`
	Education  float64 `json:"education"`
}

// Components returns the breakdown keyed by component name.
func (b Breakdown) Components() map[string]float64 {
	return map[string]float64{
		ComponentRequired:   b.Required,
		ComponentPreferred:  b.Preferred,
		ComponentExperience: b.Experience,
		ComponentEducation:  b.Education,
	}
}

const (
	ComponentRequired   = "required"
	ComponentPreferred  = "preferred"
	ComponentExperience = "experience"
	ComponentEducation  = "education"
)

// Result is the outcome of matching one candidate against one job.
type Result struct {
	Score     float64   `json:"score"`
	Level     Level     `json:"level"`
	Breakdown Breakdown `json:"breakdown"`
}

// Gaps lists required skills the candidate does not cover.
type Gaps struct {
	MissingHard []string `json:"missing_hard_required_skills"`
	MissingSoft []string `json:"missing_soft_required_skills"`
}

package matching

import (
	"fmt"
	"math"
)

const (
	// hardFloor keeps a hard-skill score above zero even when every hard
	// skill is missing.
	hardFloor = 0.1

	hardShare = 0.7
	softShare = 0.3

	seniorForgiveness     = 2
	leadershipForgiveness = 3
	juniorForgiveness     = 1

	// seniorYears is the experience at which skill groups are expanded for
	// any role.
	seniorYears = 10

	weightTolerance = 0.001
)

// Config holds the tunable parameters of the scoring curve. It is a value
// type: a Matcher keeps its own copy and never modifies it.
type Config struct {
	RequiredWeight   float64 `mapstructure:"required-weight" json:"required_weight"`
	PreferredWeight  float64 `mapstructure:"preferred-weight" json:"preferred_weight"`
	ExperienceWeight float64 `mapstructure:"experience-weight" json:"experience_weight"`
	EducationWeight  float64 `mapstructure:"education-weight" json:"education_weight"`

	// RequiredDecay is the base of the per-missing-skill penalty.
	RequiredDecay float64 `mapstructure:"required-decay" json:"required_decay"`
	// MinRequiredFloor is the lowest soft-skill score.
	MinRequiredFloor float64 `mapstructure:"min-required-floor" json:"min_required_floor"`

	UnderExpPenalty float64 `mapstructure:"under-exp-penalty" json:"under_exp_penalty"`
	OverExpDecay    float64 `mapstructure:"over-exp-decay" json:"over_exp_decay"`
	OverExpFloor    float64 `mapstructure:"over-exp-floor" json:"over_exp_floor"`

	// JuniorForgivableSkills are soft skills a junior role forgives once.
	JuniorForgivableSkills []string `mapstructure:"junior-forgivable-skills" json:"junior_forgivable_skills"`
}

// DefaultConfig returns the reference scoring curve.
func DefaultConfig() Config {
	return Config{
		RequiredWeight:   0.60,
		PreferredWeight:  0.15,
		ExperienceWeight: 0.15,
		EducationWeight:  0.10,

		RequiredDecay:    0.7,
		MinRequiredFloor: 0.2,

		UnderExpPenalty: 0.3,
		OverExpDecay:    0.15,
		OverExpFloor:    0.6,

		JuniorForgivableSkills: []string{"html", "css", "javascript", "js"},
	}
}

// WeightSum returns the sum of the four component weights.
func (c Config) WeightSum() float64 {
	return c.RequiredWeight + c.PreferredWeight + c.ExperienceWeight + c.EducationWeight
}

// Validate reports parameters that make scores meaningless. Weights that do
// not sum to 1.0 are reported but scoring still works with them.
func (c Config) Validate() error {
	weights := []struct {
		name  string
		value float64
	}{
		{"required-weight", c.RequiredWeight},
		{"preferred-weight", c.PreferredWeight},
		{"experience-weight", c.ExperienceWeight},
		{"education-weight", c.EducationWeight},
	}
	for _, w := range weights {
		if w.value < 0 || math.IsNaN(w.value) {
			return fmt.Errorf("%s must be non-negative, got %v", w.name, w.value)
		}
	}

	if c.RequiredDecay <= 0 || c.RequiredDecay > 1 {
		return fmt.Errorf("required-decay must be in (0, 1], got %v", c.RequiredDecay)
	}
	if c.MinRequiredFloor < 0 || c.MinRequiredFloor > 1 {
		return fmt.Errorf("min-required-floor must be in [0, 1], got %v", c.MinRequiredFloor)
	}
	if c.OverExpFloor < 0 || c.OverExpFloor > 1 {
		return fmt.Errorf("over-exp-floor must be in [0, 1], got %v", c.OverExpFloor)
	}
	if c.UnderExpPenalty < 0 || c.OverExpDecay < 0 {
		return fmt.Errorf("experience penalties must be non-negative")
	}

	if sum := c.WeightSum(); math.Abs(sum-1) > weightTolerance {
		return &WeightSumError{Sum: sum}
	}

	return nil
}

// WeightSumError is returned by Validate when the weights do not sum to 1.0.
type WeightSumError struct {
	Sum float64
}

func (e *WeightSumError) Error() string {
	return fmt.Sprintf("component weights sum to %.3f, expected 1.0", e.Sum)
}

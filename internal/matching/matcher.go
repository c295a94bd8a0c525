package matching

import (
	"math"

	"github.com/spigell/resume-matcher/internal/skills"
)

// Matcher combines the component scorers into a final score. It holds no
// mutable state and is safe for concurrent use.
type Matcher struct {
	config Config
	groups *skills.Groups
}

// NewMatcher returns a matcher using cfg and the given skill groups. A nil
// groups table falls back to skills.Default().
func NewMatcher(cfg Config, groups *skills.Groups) *Matcher {
	if groups == nil {
		groups = skills.Default()
	}

	cfg.JuniorForgivableSkills = append([]string(nil), cfg.JuniorForgivableSkills...)

	return &Matcher{config: cfg, groups: groups}
}

// Config returns a copy of the matcher configuration.
func (m *Matcher) Config() Config {
	cfg := m.config
	cfg.JuniorForgivableSkills = append([]string(nil), m.config.JuniorForgivableSkills...)
	return cfg
}

// Score returns the weighted final score, rounded to three decimals, and the
// breakdown it was computed from.
func (m *Matcher) Score(c *Candidate, j *Job) (float64, Breakdown, error) {
	if err := ValidateCandidate(c); err != nil {
		return 0, Breakdown{}, err
	}
	if err := ValidateJob(j); err != nil {
		return 0, Breakdown{}, err
	}

	candidate := skills.Normalize(c.Skills)
	hard := skills.Normalize(j.HardRequiredSkills)
	soft := skills.Normalize(j.SoftRequiredSkills)
	preferred := skills.Normalize(j.PreferredSkills)

	breakdown := Breakdown{
		Required:   RequiredSkillScore(m.config, m.groups, candidate, hard, soft, c.Experience, j.Role(), j.Junior()),
		Preferred:  PreferredSkillScore(candidate, preferred),
		Experience: ExperienceScore(m.config, c.Experience, j),
		Education:  EducationScore(c.Education, j.EducationKeywords),
	}

	total := m.config.RequiredWeight*breakdown.Required +
		m.config.PreferredWeight*breakdown.Preferred +
		m.config.ExperienceWeight*breakdown.Experience +
		m.config.EducationWeight*breakdown.Education

	return round3(total), breakdown, nil
}

// Match scores the candidate and attaches the level label.
func (m *Matcher) Match(c *Candidate, j *Job) (*Result, error) {
	score, breakdown, err := m.Score(c, j)
	if err != nil {
		return nil, err
	}

	return &Result{
		Score:     score,
		Level:     Classify(score),
		Breakdown: breakdown,
	}, nil
}

// Gaps returns the required skills the candidate misses, using the same
// skill-group expansion as scoring.
func (m *Matcher) Gaps(c *Candidate, j *Job) Gaps {
	candidate := skills.Normalize(c.Skills)
	if c.Experience >= seniorYears || j.Role() == RoleLeadership {
		candidate = m.groups.Expand(candidate)
	}

	return Gaps{
		MissingHard: skills.Normalize(j.HardRequiredSkills).Missing(candidate),
		MissingSoft: skills.Normalize(j.SoftRequiredSkills).Missing(candidate),
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

package matching

import (
	"math"
	"strings"

	"github.com/spigell/resume-matcher/internal/skills"
)

// RequiredSkillScore scores hard and soft required skills. Skill groups are
// expanded for candidates with ten or more years and for leadership roles.
// A job with no required skills scores 1.0.
func RequiredSkillScore(cfg Config, groups *skills.Groups, candidate, hard, soft skills.Set, years int, role RoleType, junior bool) float64 {
	if hard.Len() == 0 && soft.Len() == 0 {
		return 1.0
	}

	if years >= seniorYears || role == RoleLeadership {
		candidate = groups.Expand(candidate)
	}

	var hardScore, softScore float64

	if hard.Len() > 0 {
		matched := hard.Intersect(candidate)
		missing := hard.Len() - matched
		ratio := float64(matched) / float64(hard.Len())
		penalty := math.Pow(cfg.RequiredDecay, float64(2*missing))
		hardScore = math.Max(hardFloor, ratio*penalty)
	}

	if soft.Len() > 0 {
		matched := soft.Intersect(candidate)
		missing := soft.Len() - matched
		ratio := float64(matched) / float64(soft.Len())
		forgiven := forgiveness(cfg, role, junior, soft.Missing(candidate))
		penalty := math.Pow(cfg.RequiredDecay, float64(max(0, missing-forgiven)))
		softScore = math.Max(cfg.MinRequiredFloor, ratio*penalty)
	}

	switch {
	case hard.Len() > 0 && soft.Len() > 0:
		return hardShare*hardScore + softShare*softScore
	case hard.Len() > 0:
		return hardScore
	default:
		return softScore
	}
}

// forgiveness returns how many missing soft skills are not penalized.
func forgiveness(cfg Config, role RoleType, junior bool, missing []string) int {
	forgiven := 0
	switch role {
	case RoleICSenior:
		forgiven = seniorForgiveness
	case RoleLeadership:
		forgiven = leadershipForgiveness
	}

	if junior && forgiven < juniorForgiveness && missesAny(missing, cfg.JuniorForgivableSkills) {
		forgiven = juniorForgiveness
	}

	return forgiven
}

func missesAny(missing, forgivable []string) bool {
	if len(missing) == 0 || len(forgivable) == 0 {
		return false
	}
	set := skills.Normalize(forgivable)
	for _, skill := range missing {
		if set.Has(skill) {
			return true
		}
	}
	return false
}

// PreferredSkillScore returns the share of preferred skills the candidate
// has. Preferred skills are a bonus only, so an empty list scores 0.0.
func PreferredSkillScore(candidate, preferred skills.Set) float64 {
	if preferred.Len() == 0 {
		return 0.0
	}
	return float64(preferred.Intersect(candidate)) / float64(preferred.Len())
}

// ExperienceScore penalizes years below the minimum linearly and years above
// the maximum with a floored exponential decay.
func ExperienceScore(cfg Config, years int, job *Job) float64 {
	minExp := job.MinExperience

	if years < minExp {
		return math.Max(0, 1-cfg.UnderExpPenalty*float64(minExp-years))
	}

	if job.MaxExperience != nil && years > *job.MaxExperience {
		over := float64(years - *job.MaxExperience)
		return math.Max(cfg.OverExpFloor, math.Exp(-cfg.OverExpDecay*over))
	}

	return 1.0
}

// EducationScore returns the share of keywords found as whole words in the
// candidate's education text. No keywords scores 0.0.
func EducationScore(education []Education, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0.0
	}

	parts := make([]string, 0, len(education))
	for _, e := range education {
		parts = append(parts, strings.ToLower(e.Raw))
	}
	text := " " + strings.Join(parts, " ") + " "

	matched := 0
	for _, keyword := range keywords {
		kw := strings.ToLower(strings.TrimSpace(keyword))
		if kw == "" {
			continue
		}
		if strings.Contains(text, " "+kw+" ") {
			matched++
		}
	}

	return float64(matched) / float64(len(keywords))
}

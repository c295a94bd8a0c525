package matching

// Level is the qualitative label for a final score.
type Level string

const (
	LevelTopTalent      Level = "Top Talent"
	LevelStrongMatch    Level = "Strong Match"
	LevelPotentialFit   Level = "Potential Fit"
	LevelLowRelevance   Level = "Low Relevance"
	LevelNotRecommended Level = "Not Recommended"
)

// Classify maps a score to its level. Every band is closed at its lower
// bound except Low Relevance, which needs a score strictly above 0.15.
func Classify(score float64) Level {
	switch {
	case score >= 0.85:
		return LevelTopTalent
	case score >= 0.70:
		return LevelStrongMatch
	case score >= 0.40:
		return LevelPotentialFit
	case score > 0.15:
		return LevelLowRelevance
	default:
		return LevelNotRecommended
	}
}

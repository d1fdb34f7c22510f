package scoring

// Level is the discrete risk bucket derived from a composite score.
type Level string

const (
	LevelLow      Level = "low"      // score < 30
	LevelNeutral  Level = "neutral"  // 30 <= score < 50
	LevelElevated Level = "elevated" // 50 <= score < 70
	LevelHigh     Level = "high"     // score >= 70
)

// LevelForScore maps a composite score to its risk level. Total over
// [0, 100] and deterministic.
func LevelForScore(score float64) Level {
	switch {
	case score < 30:
		return LevelLow
	case score < 50:
		return LevelNeutral
	case score < 70:
		return LevelElevated
	default:
		return LevelHigh
	}
}

package domain

// Rules are the scoring tunables for a quiz cycle. The defaults mirror the
// published content: 6 points per question, a strict >100 gate for the secret
// word (17 correct questions at minimum), and 3 checks per cycle.
type Rules struct {
	PointsPerQuestion   int
	SecretWordThreshold int
	MaxAttemptsPerCycle int
}

// DefaultRules returns the production scoring rules.
func DefaultRules() Rules {
	return Rules{
		PointsPerQuestion:   6,
		SecretWordThreshold: 100,
		MaxAttemptsPerCycle: 3,
	}
}

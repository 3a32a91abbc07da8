package aggregator

// CollisionStrategy defines which value survives when two sources define
// the same key at the same level.
type CollisionStrategy string

const (
	// StrategyAcceptRight keeps the value from the source folded last
	// (registry order). This is the default.
	StrategyAcceptRight CollisionStrategy = "accept-right"
	// StrategyAcceptLeft keeps the value from the source folded first.
	StrategyAcceptLeft CollisionStrategy = "accept-left"
)

// ValidStrategies returns all valid collision strategy strings
func ValidStrategies() []string {
	return []string{
		string(StrategyAcceptRight),
		string(StrategyAcceptLeft),
	}
}

// IsValidStrategy checks if a strategy string is valid
func IsValidStrategy(strategy string) bool {
	switch CollisionStrategy(strategy) {
	case StrategyAcceptRight, StrategyAcceptLeft:
		return true
	default:
		return false
	}
}

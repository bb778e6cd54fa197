package domain

// DifficultySettings controls how turbulent a simulation is: the standard
// deviation of the ambient per-tick price walk and the range the impact of a
// news headline is sampled from.
type DifficultySettings struct {
	PriceStdDev   float64
	MinNewsImpact float64
	MaxNewsImpact float64
}

// Difficulty level bounds.
const (
	MinDifficulty = 1
	MaxDifficulty = 5
)

// difficultyTable maps each difficulty level to its tuning preset. Volatility
// rises with the level while the news impact range widens downward, making
// headline effects less predictable.
var difficultyTable = map[int]DifficultySettings{
	1: {PriceStdDev: 0.5, MinNewsImpact: 2, MaxNewsImpact: 2},
	2: {PriceStdDev: 0.65, MinNewsImpact: 1.5, MaxNewsImpact: 2},
	3: {PriceStdDev: 0.8, MinNewsImpact: 1, MaxNewsImpact: 2},
	4: {PriceStdDev: 1, MinNewsImpact: 0.85, MaxNewsImpact: 2},
	5: {PriceStdDev: 2, MinNewsImpact: 0.8, MaxNewsImpact: 2},
}

// DifficultyFor returns the preset for a level, or false if the level is
// outside [MinDifficulty, MaxDifficulty].
func DifficultyFor(level int) (DifficultySettings, bool) {
	s, ok := difficultyTable[level]
	return s, ok
}

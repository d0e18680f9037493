package models

// Outcome is the submitted result of a single game
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
)

// Valid reports whether the outcome is one of win/loss/draw
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeWin, OutcomeLoss, OutcomeDraw:
		return true
	}
	return false
}

// Experience granted per game outcome. A draw sits halfway between a win
// and a loss; it never advances the campaign level.
const (
	ExperiencePerWin  = 100
	ExperiencePerLoss = 25
	ExperiencePerDraw = 50
)

// GameResult is a validated result submission for one finished game
type GameResult struct {
	Outcome        Outcome
	LevelPlayed    int
	CoinsEarned    int
	DiamondsEarned int
}

// ProgressDelta describes one atomic progression update. Counter fields are
// increments; Coins/Diamonds may be negative and are clamped at zero by the
// store. LevelUpFrom, when non-zero, advances the level by one only if the
// stored level still equals it and is below MaxLevel. HighestLevelFloor,
// when non-zero, raises HighestLevel to at least that value.
type ProgressDelta struct {
	Wins       int
	Losses     int
	Draws      int
	Experience int
	Coins      int
	Diamonds   int

	LevelUpFrom       int
	HighestLevelFloor int
}

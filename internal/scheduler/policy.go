package scheduler

import (
	"github.com/abhisek/recall/internal/card"
	"github.com/abhisek/recall/internal/quality"
)

// The stability model keeps its own 1-10 internal difficulty. The public 0-10
// difficulty shown to learners and used by the quality mapper moves by a
// fixed step per rating instead of being derived from the internal value.
// Revising this table changes no caller.
var ratingDifficultyStep = [quality.NumRatings + 1]float64{
	quality.Again: -2,
	quality.Hard:  0.5,
	quality.Good:  1,
	quality.Easy:  1.5,
}

// publicDifficulty applies the rating step and clamps to [0, 10].
func publicDifficulty(d float64, r quality.Rating) float64 {
	return card.ClampDifficulty(d + ratingDifficultyStep[r])
}

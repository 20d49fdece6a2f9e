package quality

import "time"

// Response-time thresholds that nudge a successful grade.
const (
	FastResponse = 3 * time.Second
	SlowResponse = 10 * time.Second
)

// failureBands picks the failure grade from the current difficulty. Less
// familiar cards fail harder.
var failureBands = []struct {
	below float64
	grade Quality
}{
	{3, Blackout},
	{6, Wrong},
}

// successBands picks the base success grade from the current difficulty.
var successBands = []struct {
	below float64
	grade Quality
}{
	{2, Effortful},
	{4, Adequate},
	{6, Solid},
	{8, Confident},
}

// Map converts a known/unknown answer into a Quality. difficulty is the
// card's public 0-10 difficulty; responseTime of zero means it was not
// measured. Response time never turns a failure into a success or back.
func Map(difficulty float64, known bool, responseTime time.Duration) Quality {
	if !known {
		for _, b := range failureBands {
			if difficulty < b.below {
				return b.grade
			}
		}
		return NearMiss
	}

	q := Fluent
	for _, b := range successBands {
		if difficulty < b.below {
			q = b.grade
			break
		}
	}

	switch {
	case responseTime <= 0:
	case responseTime < FastResponse:
		q = q.Promote()
	case responseTime > SlowResponse:
		q = q.Demote()
	}
	return q
}

// MapRating is Map followed by RatingFor.
func MapRating(difficulty float64, known bool, responseTime time.Duration) Rating {
	return RatingFor(Map(difficulty, known, responseTime))
}

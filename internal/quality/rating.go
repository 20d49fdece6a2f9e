package quality

import (
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
)

// Sentinel errors for the quality package.
var (
	ErrInvalidQuality = errors.New("quality: invalid quality")
	ErrInvalidRating  = errors.New("quality: invalid rating")
)

// Rating is the four-level grade used by the stability scheduler.
type Rating int

const (
	Again Rating = iota + 1 // Forgotten.
	Hard                    // Recalled with serious difficulty.
	Good                    // Recalled after some effort.
	Easy                    // Recalled effortlessly.
)

// NumRatings is the number of valid ratings. Tables keyed by Rating have
// length NumRatings+1 so they can be indexed directly.
const NumRatings = int(Easy)

var ratingNames = [NumRatings + 1]string{Again: "again", Hard: "hard", Good: "good", Easy: "easy"}

// ratingFloor[r] is the lowest quality that maps to rating r.
var ratingFloor = [NumRatings + 1]Quality{
	Again: Blackout,
	Hard:  Struggled,
	Good:  Adequate,
	Easy:  Fluent,
}

var (
	_ fmt.Stringer             = Rating(0)
	_ json.Marshaler           = Rating(0)
	_ json.Unmarshaler         = (*Rating)(nil)
	_ encoding.TextMarshaler   = Rating(0)
	_ encoding.TextUnmarshaler = (*Rating)(nil)
)

// Ratings lists every rating in ascending order.
func Ratings() []Rating {
	return []Rating{Again, Hard, Good, Easy}
}

// RatingFor collapses a quality onto the four-level scale.
func RatingFor(q Quality) Rating {
	switch {
	case q.IsFailure():
		return Again
	case q < ratingFloor[Good]:
		return Hard
	case q < ratingFloor[Easy]:
		return Good
	default:
		return Easy
	}
}

// Quality returns a representative quality for r, used when a caller grades
// directly on the four-level scale.
func (r Rating) Quality() Quality {
	switch r {
	case Again:
		return Wrong
	case Hard:
		return Hesitant
	case Good:
		return Solid
	case Easy:
		return Perfect
	}
	return Blackout
}

// IsValid reports whether r is Again through Easy.
func (r Rating) IsValid() bool {
	return r >= Again && r <= Easy
}

func (r Rating) String() string {
	if r.IsValid() {
		return ratingNames[r]
	}
	return fmt.Sprintf("Rating(%d)", int(r))
}

// MarshalText implements encoding.TextMarshaler.
func (r Rating) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRating, int(r))
	}
	return []byte(ratingNames[r]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rating) UnmarshalText(text []byte) error {
	for _, v := range Ratings() {
		if ratingNames[v] == string(text) {
			*r = v
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidRating, text)
}

// MarshalJSON encodes the rating as its name.
func (r Rating) MarshalJSON() ([]byte, error) {
	text, err := r.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON accepts the rating name.
func (r *Rating) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRating, data)
	}
	return r.UnmarshalText([]byte(s))
}

// Package quality defines the graded outcome scales consumed by the schedulers
// and maps a plain known/unknown answer onto them.
package quality

import (
	"encoding"
	"encoding/json"
	"fmt"
)

// Quality is an 11-point grade for a single review event. Grades below
// Struggled are failures.
type Quality int

const (
	Blackout  Quality = iota // No recall at all.
	Wrong                    // Recalled something, but the wrong thing.
	NearMiss                 // Wrong, but the answer felt familiar once shown.
	Struggled                // Correct after a long struggle.
	Hesitant                 // Correct with clear hesitation.
	Effortful                // Correct with effort.
	Adequate                 // Correct.
	Solid                    // Correct with little effort.
	Confident                // Correct and confident.
	Fluent                   // Correct and fast.
	Perfect                  // Instant, effortless recall.
)

// NumQualities is the size of the Quality scale. Lookup tables keyed by
// Quality are arrays of this length.
const NumQualities = int(Perfect) + 1

// LowestSuccess is the first grade that counts as a successful recall.
const LowestSuccess = Struggled

var qualityNames = [NumQualities]string{
	Blackout:  "blackout",
	Wrong:     "wrong",
	NearMiss:  "near_miss",
	Struggled: "struggled",
	Hesitant:  "hesitant",
	Effortful: "effortful",
	Adequate:  "adequate",
	Solid:     "solid",
	Confident: "confident",
	Fluent:    "fluent",
	Perfect:   "perfect",
}

var (
	_ fmt.Stringer             = Quality(0)
	_ json.Marshaler           = Quality(0)
	_ json.Unmarshaler         = (*Quality)(nil)
	_ encoding.TextMarshaler   = Quality(0)
	_ encoding.TextUnmarshaler = (*Quality)(nil)
)

// IsValid reports whether q is on the scale.
func (q Quality) IsValid() bool {
	return q >= Blackout && q <= Perfect
}

// IsFailure reports whether q is one of the three failure grades.
func (q Quality) IsFailure() bool {
	return q < LowestSuccess
}

// Promote returns the next grade up, saturating at Perfect.
func (q Quality) Promote() Quality {
	if q >= Perfect {
		return Perfect
	}
	return q + 1
}

// Demote returns the next grade down. Successes never demote into a failure.
func (q Quality) Demote() Quality {
	if q <= LowestSuccess {
		if q.IsFailure() {
			return q
		}
		return LowestSuccess
	}
	return q - 1
}

func (q Quality) String() string {
	if q.IsValid() {
		return qualityNames[q]
	}
	return fmt.Sprintf("Quality(%d)", int(q))
}

// MarshalText implements encoding.TextMarshaler.
func (q Quality) MarshalText() ([]byte, error) {
	if !q.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQuality, int(q))
	}
	return []byte(qualityNames[q]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (q *Quality) UnmarshalText(text []byte) error {
	for i, name := range qualityNames {
		if name == string(text) {
			*q = Quality(i)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidQuality, text)
}

// MarshalJSON encodes the quality as its name.
func (q Quality) MarshalJSON() ([]byte, error) {
	text, err := q.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON accepts the quality name.
func (q *Quality) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidQuality, data)
	}
	return q.UnmarshalText([]byte(s))
}

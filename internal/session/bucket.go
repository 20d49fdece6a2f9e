package session

import "fmt"

// Bucket groups cards by public difficulty for the session histogram.
type Bucket string

const (
	BucketNew    Bucket = "new"
	BucketHard   Bucket = "hard"
	BucketMedium Bucket = "medium"
	BucketEasy   Bucket = "easy"
)

// Buckets lists every bucket from least to most mastered.
func Buckets() []Bucket {
	return []Bucket{BucketNew, BucketHard, BucketMedium, BucketEasy}
}

// Upper bounds (exclusive) of the difficulty buckets.
const (
	newBucketMax    = 2.0
	hardBucketMax   = 5.0
	mediumBucketMax = 8.0
)

// BucketFor maps a 0-10 difficulty to its bucket.
func BucketFor(difficulty float64) Bucket {
	switch {
	case difficulty < newBucketMax:
		return BucketNew
	case difficulty < hardBucketMax:
		return BucketHard
	case difficulty < mediumBucketMax:
		return BucketMedium
	default:
		return BucketEasy
	}
}

// IsValid reports whether b is a known bucket.
func (b Bucket) IsValid() bool {
	switch b {
	case BucketNew, BucketHard, BucketMedium, BucketEasy:
		return true
	}
	return false
}

func (b Bucket) validate() error {
	if !b.IsValid() {
		return fmt.Errorf("session: unknown difficulty bucket %q", string(b))
	}
	return nil
}

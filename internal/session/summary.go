package session

import "time"

// Efficiency is a qualitative label for a session's retention rate.
type Efficiency string

const (
	EfficiencyExcellent Efficiency = "excellent"
	EfficiencyGood      Efficiency = "good"
	EfficiencyFair      Efficiency = "fair"
	EfficiencyPoor      Efficiency = "poor"
)

// Retention-rate percentages at which each label starts.
const (
	ExcellentThreshold = 85.0
	GoodThreshold      = 70.0
	FairThreshold      = 50.0
)

// EfficiencyFor labels a retention rate given as a percentage.
func EfficiencyFor(retentionRate float64) Efficiency {
	switch {
	case retentionRate >= ExcellentThreshold:
		return EfficiencyExcellent
	case retentionRate >= GoodThreshold:
		return EfficiencyGood
	case retentionRate >= FairThreshold:
		return EfficiencyFair
	default:
		return EfficiencyPoor
	}
}

// Summary holds the figures shown at the end of a session.
type Summary struct {
	Active    bool          `json:"active"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`

	CardsStudied int `json:"cards_studied"`
	Correct      int `json:"correct"`
	Incorrect    int `json:"incorrect"`

	TotalTimeSpent      time.Duration `json:"total_time_spent"`
	AverageResponseTime time.Duration `json:"average_response_time"`

	// RetentionRate is the percentage of answers that were correct.
	RetentionRate float64        `json:"retention_rate"`
	Efficiency    Efficiency     `json:"efficiency"`
	Buckets       map[Bucket]int `json:"buckets"`
}

// DurationMinutes is the session length in minutes.
func (s Summary) DurationMinutes() float64 {
	return s.Duration.Minutes()
}

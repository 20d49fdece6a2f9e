package analytics

import (
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/abhisek/recall/internal/card"
	"github.com/abhisek/recall/internal/scheduler"
)

// Prediction defaults.
const (
	DefaultBaseReviewSeconds  = 6.0
	DefaultSecondsPerPoint    = 1.5
	DefaultMaxStepsPerCard    = 500
	DefaultMaxTotalSteps      = 200_000
	DefaultPredictSeed        = 1
	minimumSuccessProbability = 0.5
)

// PredictConfig parameterizes a Predictor. Zero values take the defaults.
type PredictConfig struct {
	Stability   scheduler.StabilityParams
	MaxInterval int

	// Seed fixes the simulated outcomes so repeated predictions agree.
	Seed uint64

	// Per-review time estimate: BaseReviewSeconds plus SecondsPerPoint for
	// every point of difficulty below 10.
	BaseReviewSeconds float64
	SecondsPerPoint   float64

	// Hard caps on simulated reviews.
	MaxStepsPerCard int
	MaxTotalSteps   int

	Logger *slog.Logger
}

// Prediction is an advisory estimate of future load. It comes from a
// stochastic simulation and is not a schedule.
type Prediction struct {
	HorizonDays             int     `json:"horizon_days"`
	ExpectedReviews         int     `json:"expected_reviews"`
	ExpectedWorkloadMinutes float64 `json:"expected_workload_minutes"`
	// RetentionPrediction is the mean modelled recall probability at the
	// end of the horizon, as a percentage.
	RetentionPrediction float64 `json:"retention_prediction"`
	// Truncated is set when an iteration cap stopped the simulation early.
	Truncated bool `json:"truncated"`
}

// Predictor forward-simulates cards with the stability scheduler.
type Predictor struct {
	sched  *scheduler.StabilityScheduler
	cfg    PredictConfig
	logger *slog.Logger
}

// NewPredictor builds a predictor. Fuzz is always off in the simulation.
func NewPredictor(cfg PredictConfig) (*Predictor, error) {
	if cfg.Seed == 0 {
		cfg.Seed = DefaultPredictSeed
	}
	if cfg.BaseReviewSeconds <= 0 {
		cfg.BaseReviewSeconds = DefaultBaseReviewSeconds
	}
	if cfg.SecondsPerPoint <= 0 {
		cfg.SecondsPerPoint = DefaultSecondsPerPoint
	}
	if cfg.MaxStepsPerCard <= 0 {
		cfg.MaxStepsPerCard = DefaultMaxStepsPerCard
	}
	if cfg.MaxTotalSteps <= 0 {
		cfg.MaxTotalSteps = DefaultMaxTotalSteps
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sched, err := scheduler.NewStabilityScheduler(scheduler.Config{
		Strategy:    scheduler.StrategyStability,
		MaxInterval: cfg.MaxInterval,
		Stability:   cfg.Stability,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}
	return &Predictor{sched: sched, cfg: cfg, logger: logger}, nil
}

// SuccessProbability is the simulated chance that c is answered correctly.
func SuccessProbability(c card.Card) float64 {
	return math.Max(minimumSuccessProbability, card.ClampDifficulty(c.Difficulty)/card.MaxDifficulty)
}

// Predict simulates every card from now to now+horizonDays. A review is
// counted whenever a simulated due date falls inside the horizon; overdue
// cards are reviewed at now. Identical inputs give identical output.
func (p *Predictor) Predict(cards []card.Card, now time.Time, horizonDays int) Prediction {
	out := Prediction{HorizonDays: max(horizonDays, 0)}
	if horizonDays <= 0 || len(cards) == 0 {
		return out
	}

	rng := rand.New(rand.NewPCG(p.cfg.Seed, p.cfg.Seed^0x9e3779b97f4a7c15))
	end := now.AddDate(0, 0, horizonDays)

	var seconds, retention float64
	total := 0
	for _, c := range cards {
		sim := card.Normalize(c)
		steps := 0
		for {
			due := sim.NextReviewAt
			if due.Before(now) {
				due = now
			}
			if due.After(end) {
				break
			}
			if steps >= p.cfg.MaxStepsPerCard || total >= p.cfg.MaxTotalSteps {
				out.Truncated = true
				break
			}
			seconds += p.cfg.BaseReviewSeconds + p.cfg.SecondsPerPoint*(card.MaxDifficulty-sim.Difficulty)
			known := rng.Float64() < SuccessProbability(sim)
			sim, _ = scheduler.Answer(p.sched, sim, known, 0, due)
			out.ExpectedReviews++
			steps++
			total++
		}

		r, ok := p.sched.Retrievability(sim, end)
		if !ok {
			r = SuccessProbability(sim)
		}
		retention += r
	}

	if out.Truncated {
		p.logger.Warn("prediction truncated by iteration cap",
			"cards", len(cards), "horizon_days", horizonDays, "reviews", out.ExpectedReviews)
	}
	out.ExpectedWorkloadMinutes = seconds / 60
	out.RetentionPrediction = 100 * retention / float64(len(cards))
	return out
}

package scheduler

import (
	"fmt"
	"math"

	"github.com/abhisek/recall/internal/quality"
)

// NumWeights is the length of the stability model's parameter vector.
const NumWeights = 17

// Forgetting curve shape: R(t, S) = (1 + Factor*t/S)^Decay. Factor is chosen
// so that R(S, S) = 0.9.
const (
	Decay  = -0.5
	Factor = 19.0 / 81.0
)

// DefaultDesiredRetention is the recall probability targeted at the due date.
const DefaultDesiredRetention = 0.9

// Internal difficulty and stability bounds.
const (
	minInternalDifficulty = 1.0
	maxInternalDifficulty = 10.0
	minStability          = 0.1
)

// DefaultWeights are the published FSRS-4.5 default parameters.
var DefaultWeights = [NumWeights]float64{
	0.4872, 1.4003, 3.7145, 13.8206,
	5.1618, 1.2298, 0.8975, 0.031,
	1.6474, 0.1367, 1.0461,
	2.1072, 0.0793, 0.3246, 1.587,
	0.2272, 2.8755,
}

// StabilityParams tunes the stability model. Zero values take the defaults.
type StabilityParams struct {
	Weights          []float64 `koanf:"weights" validate:"omitempty,len=17,dive,gte=0"`
	DesiredRetention float64   `koanf:"desired_retention" validate:"omitempty,gt=0,lt=1"`
}

// DefaultStabilityParams returns the stock FSRS-4.5 tuning.
func DefaultStabilityParams() StabilityParams {
	return StabilityParams{
		Weights:          append([]float64(nil), DefaultWeights[:]...),
		DesiredRetention: DefaultDesiredRetention,
	}
}

// algo evaluates the FSRS-4.5 closed-form equations over one weight vector.
type algo struct {
	w         [NumWeights]float64
	retention float64
}

func newAlgo(p StabilityParams) (algo, error) {
	a := algo{w: DefaultWeights, retention: DefaultDesiredRetention}
	if len(p.Weights) > 0 {
		if len(p.Weights) != NumWeights {
			return algo{}, fmt.Errorf("stability weights: want %d values, got %d", NumWeights, len(p.Weights))
		}
		for i, v := range p.Weights {
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				return algo{}, fmt.Errorf("stability weights: w[%d] = %v is not a finite non-negative number", i, v)
			}
		}
		copy(a.w[:], p.Weights)
	}
	if p.DesiredRetention != 0 {
		if p.DesiredRetention <= 0 || p.DesiredRetention >= 1 {
			return algo{}, fmt.Errorf("desired retention must be in (0, 1), got %v", p.DesiredRetention)
		}
		a.retention = p.DesiredRetention
	}
	return a, nil
}

// retrievability is the probability of recall after elapsedDays.
func (a algo) retrievability(elapsedDays, stability float64) float64 {
	return math.Pow(1+Factor*elapsedDays/stability, Decay)
}

// initStability S0(G) = w[G-1].
func (a algo) initStability(r quality.Rating) float64 {
	return clampS(a.w[r-1])
}

// initDifficulty D0(G) = w4 - w5*(G-3).
func (a algo) initDifficulty(r quality.Rating) float64 {
	return clampD(a.w[4] - a.w[5]*float64(r-3))
}

// nextDifficulty D' = w7*D0(Good) + (1-w7)*(D - w6*(G-3)).
func (a algo) nextDifficulty(d float64, r quality.Rating) float64 {
	next := d - a.w[6]*float64(r-3)
	return clampD(a.w[7]*a.w[4] + (1-a.w[7])*next)
}

// nextRecallStability
// S' = S * (1 + e^w8 * (11-D) * S^-w9 * (e^((1-R)*w10) - 1) * hardPenalty * easyBonus)
func (a algo) nextRecallStability(d, s, r float64, rating quality.Rating) float64 {
	hardPenalty := 1.0
	if rating == quality.Hard {
		hardPenalty = a.w[15]
	}
	easyBonus := 1.0
	if rating == quality.Easy {
		easyBonus = a.w[16]
	}
	return clampS(s * (1 + math.Exp(a.w[8])*
		(11-d)*
		math.Pow(s, -a.w[9])*
		(math.Exp((1-r)*a.w[10])-1)*
		hardPenalty*easyBonus))
}

// nextForgetStability
// S' = w11 * D^-w12 * ((S+1)^w13 - 1) * e^((1-R)*w14), never above S.
func (a algo) nextForgetStability(d, s, r float64) float64 {
	next := a.w[11] *
		math.Pow(d, -a.w[12]) *
		(math.Pow(s+1, a.w[13]) - 1) *
		math.Exp((1-r)*a.w[14])
	return clampS(math.Min(next, s))
}

// nextInterval I(S) = round(S/Factor * (retention^(1/Decay) - 1)), unclamped.
func (a algo) nextInterval(s float64) int {
	ivl := s / Factor * (math.Pow(a.retention, 1/Decay) - 1)
	if ivl > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Round(ivl))
}

func clampS(s float64) float64 {
	if math.IsNaN(s) {
		return minStability
	}
	return math.Max(s, minStability)
}

func clampD(d float64) float64 {
	if math.IsNaN(d) {
		return minInternalDifficulty
	}
	return math.Min(math.Max(d, minInternalDifficulty), maxInternalDifficulty)
}

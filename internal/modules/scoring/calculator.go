package scoring

import (
	"fmt"
	"math"

	"github.com/salesrace/pitwall/internal/domain"
	"github.com/salesrace/pitwall/pkg/formulas"
)

// Weights blend the primary (sales) and secondary (apps) achievement rates
// into the overall score.
type Weights struct {
	Primary   float64 `json:"primary"`
	Secondary float64 `json:"secondary"`
}

// DefaultWeights is the standard 70/30 sales/apps blend.
var DefaultWeights = Weights{Primary: 0.7, Secondary: 0.3}

// maxRacingSpeed caps the speed multiplier at 150% of target pace.
const maxRacingSpeed = 1.5

const weightTolerance = 0.01

// Validate checks that both weights are finite, non-negative and sum to 1.
func (w Weights) Validate() error {
	for _, v := range []float64{w.Primary, w.Secondary} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("weights must be finite, got primary=%v secondary=%v", w.Primary, w.Secondary)
		}
	}
	if w.Primary < 0 || w.Secondary < 0 {
		return fmt.Errorf("weights must be non-negative, got primary=%v secondary=%v", w.Primary, w.Secondary)
	}
	if sum := w.Primary + w.Secondary; math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("weights must sum to 1.0, got %v", sum)
	}
	return nil
}

// Calculator scores records with a fixed set of weights.
type Calculator struct {
	weights Weights
}

// NewCalculator creates a calculator using the given weights.
func NewCalculator(weights Weights) *Calculator {
	return &Calculator{weights: weights}
}

// Weights returns the weights in use.
func (c *Calculator) Weights() Weights {
	return c.weights
}

// Calculate derives every per-record metric. It is pure and never yields NaN.
func (c *Calculator) Calculate(r domain.Record) domain.Metrics {
	achievement := formulas.Percent(r.SalesActual, r.SalesTarget)
	secondary := formulas.Percent(r.AppsActual, r.AppsTarget)
	score := formulas.Clamp(c.weights.Primary*achievement+c.weights.Secondary*secondary, -math.MaxFloat64, math.MaxFloat64)

	laps := score / 100
	completed := math.Floor(laps)

	return domain.Metrics{
		Tier:               ClassifyTier(score),
		Vehicle:            AssignVehicle(score),
		Color:              Color(score),
		AchievementRate:    achievement,
		SecondaryRate:      secondary,
		GapToTarget:        r.SalesTarget - r.SalesActual,
		OverallScore:       score,
		RacingSpeed:        formulas.Clamp(laps, 0, maxRacingSpeed),
		LapProgress:        laps,
		CompletedLaps:      completed,
		CurrentLapProgress: laps - completed,
	}
}

// Score builds unranked performers for every record, preserving input order.
func (c *Calculator) Score(records []domain.Record) []domain.Performer {
	out := make([]domain.Performer, len(records))
	for i, r := range records {
		out[i] = domain.Performer{Record: r, Metrics: c.Calculate(r)}
	}
	return out
}

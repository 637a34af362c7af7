// Package scoring ranks assembled tickets. Every ticket gets a
// weighted composite score on a 0-100 scale built from named factors,
// plus the derived reasoning text, risk tags and per-family risk
// heat-map that ship with it. The adaptive publication threshold that
// gates low-scoring tickets lives here too.
package scoring

import (
	"github.com/Vodeneev/ticketbet/internal/pkg/config"
)

// Weights fixes how much each factor contributes to the composite.
// They sum to 1.0, so the composite is a plain weighted average.
type Weights struct {
	Competition   float64
	OddsSweetSpot float64
	Length        float64
	Diversity     float64
	TotalOdds     float64
	Compactness   float64
	TopShare      float64
	WorstLeg      float64
	LegQuality    float64
}

// Constants carries everything the scorer needs beyond the ticket
// itself: the configured odds windows and the factor weights.
type Constants struct {
	SafeOddsMin     float64 // conservative per-leg floor, e.g. 1.10
	SafeOddsMax     float64 // conservative per-leg ceiling, e.g. 1.40
	OptimalOddsLow  float64 // inner "golden zone" of the safe window
	OptimalOddsHigh float64
	IdealLegOdds    float64 // sweet-spot peak for the average leg odds
	IdealTotalOdds  float64 // peak of the total-odds window factor
	Weights         Weights
}

// DefaultConstants returns the tuning the pipeline ships with.
func DefaultConstants() Constants {
	return Constants{
		SafeOddsMin:     1.10,
		SafeOddsMax:     1.40,
		OptimalOddsLow:  1.15,
		OptimalOddsHigh: 1.30,
		IdealLegOdds:    1.22,
		IdealTotalOdds:  2.50,
		Weights: Weights{
			Competition:   0.15,
			OddsSweetSpot: 0.15,
			Length:        0.10,
			Diversity:     0.10,
			TotalOdds:     0.10,
			Compactness:   0.10,
			TopShare:      0.10,
			WorstLeg:      0.10,
			LegQuality:    0.10,
		},
	}
}

// ConstantsFrom merges the configured odds windows over the defaults.
// Zero config values keep the default tuning.
func ConstantsFrom(cfg config.ScoringConfig) Constants {
	c := DefaultConstants()
	if cfg.SafeOddsMin > 0 {
		c.SafeOddsMin = cfg.SafeOddsMin
	}
	if cfg.SafeOddsMax > 0 {
		c.SafeOddsMax = cfg.SafeOddsMax
	}
	if cfg.IdealLegOdds > 0 {
		c.IdealLegOdds = cfg.IdealLegOdds
	}
	if cfg.IdealTotalOdds > 0 {
		c.IdealTotalOdds = cfg.IdealTotalOdds
	}
	return c
}

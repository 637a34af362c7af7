package scoring

import (
	"github.com/Vodeneev/ticketbet/internal/pkg/leagues"
	"github.com/Vodeneev/ticketbet/internal/pkg/markets"
	"github.com/Vodeneev/ticketbet/internal/pkg/models"
)

// Per-family quality offsets. Goals markets settle on one number and
// behave more predictably than match results in lesser leagues; BTTS
// sits in between.
var familyQuality = map[markets.Family]float64{
	markets.FamilyGoals:      8,
	markets.FamilyGoalsUnder: 8,
	markets.FamilyBTTS:       5,
	markets.FamilyResult:     3,
}

// LegQuality rates a single leg 0-100: competition tier, where the
// odds sit relative to the safe and optimal windows, and the market
// family. Assigned once when the leg is built.
func LegQuality(leg models.Leg, c Constants) float64 {
	score := 50.0

	if leagues.IsTop(leg.LeagueID) {
		score += 15
	} else {
		score += 5
	}

	odds := leg.Odds
	switch {
	case odds <= 1.01:
		score -= 20
	case odds >= c.SafeOddsMin && odds <= c.SafeOddsMax:
		score += 20
		if odds >= c.OptimalOddsLow && odds <= c.OptimalOddsHigh {
			score += 15
		} else if odds > c.OptimalOddsHigh {
			score -= 5
		}
	case odds < c.SafeOddsMin:
		score -= 10
	default: // above the safe ceiling
		score -= 25
	}

	score += familyQuality[leg.Family]

	return clamp(score, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

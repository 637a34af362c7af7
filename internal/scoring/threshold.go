package scoring

import (
	"github.com/Vodeneev/ticketbet/internal/pkg/models"
)

// Publication threshold tuning. The clamp range is deliberately
// narrow: on any day the bar stays between "worth publishing" and
// "only the very best".
const (
	thresholdBase = 62.0
	thresholdMin  = 52.0
	thresholdMax  = 75.0
)

// MinScore computes the day's minimum publication score from how much
// material the day offers. Thin days lower the bar so the output does
// not vanish; busy days raise it so only the strongest tickets
// survive. Stateless and monotone non-decreasing in both arguments.
func MinScore(fixturesCount, rawTickets int) float64 {
	score := thresholdBase

	switch {
	case fixturesCount <= 40:
		score -= 6
	case fixturesCount <= 80:
		score -= 3
	case fixturesCount >= 200:
		score += 3
	case fixturesCount >= 120:
		score += 1.5
	}

	switch {
	case rawTickets <= 3:
		score -= 4
	case rawTickets <= 6:
		score -= 2
	case rawTickets >= 15:
		score += 3
	case rawTickets >= 10:
		score += 1.5
	}

	return clamp(score, thresholdMin, thresholdMax)
}

// FilterSets drops tickets scoring below minScore, then drops any set
// left without tickets. Input is not modified.
func FilterSets(sets []models.TicketSet, minScore float64) []models.TicketSet {
	var out []models.TicketSet
	for _, set := range sets {
		var kept []models.Ticket
		for _, t := range set.Tickets {
			if t.Score >= minScore {
				kept = append(kept, t)
			}
		}
		if len(kept) == 0 {
			continue
		}
		filtered := set
		filtered.Tickets = kept
		out = append(out, filtered)
	}
	return out
}

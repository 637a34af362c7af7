package builder

import (
	"sort"

	"github.com/Vodeneev/ticketbet/internal/pkg/leagues"
	"github.com/Vodeneev/ticketbet/internal/pkg/markets"
	"github.com/Vodeneev/ticketbet/internal/pkg/models"
	"github.com/Vodeneev/ticketbet/internal/pkg/oddsmath"
)

// defaultAttemptsPerLeg bounds greedy work per desired-legs level as
// a multiple of the usable pool size.
const defaultAttemptsPerLeg = 4

// Construct builds up to maxTickets tickets from the pool, greedily
// and deterministically. Desired ticket length steps downward from
// LegsMax to LegsMin so richer tickets win when the pool supports
// them. A fixture is consumed at most once across all tickets of one
// call. Committed tickets are ordered by provisional score.
func Construct(pool []models.Leg, cfg SetConfig, maxTickets int) []models.Ticket {
	return construct(pool, cfg, maxTickets, defaultAttemptsPerLeg)
}

func construct(pool []models.Leg, cfg SetConfig, maxTickets, attemptsPerLeg int) []models.Ticket {
	if attemptsPerLeg <= 0 {
		attemptsPerLeg = defaultAttemptsPerLeg
	}
	usable := usableLegs(pool)

	var tickets []models.Ticket
	used := make(map[int]bool, len(usable))

	for desired := cfg.LegsMax; desired >= cfg.LegsMin && len(tickets) < maxTickets; desired-- {
		maxAttempts := attemptsPerLeg*len(usable) + 1
		for attempts := 0; len(tickets) < maxTickets && attempts < maxAttempts; attempts++ {
			candidate := pickCandidate(usable, used, cfg.FamilyCap, desired)
			if len(candidate) < desired {
				break
			}
			if !validTicket(candidate, cfg.TargetMin, cfg.TargetMax, cfg.FamilyCap) {
				// The scan is deterministic, so the same failing
				// combination would come back; shrink instead.
				break
			}
			for _, l := range candidate {
				used[l.FixtureID] = true
			}
			tickets = append(tickets, newTicket(candidate))
		}
	}

	sort.SliceStable(tickets, func(i, j int) bool {
		return provisionalScore(tickets[i]) > provisionalScore(tickets[j])
	})
	return tickets
}

// pickCandidate scans the pool in its given priority order and
// collects up to desired legs honoring fixture exclusivity and the
// per-ticket family cap.
func pickCandidate(pool []models.Leg, used map[int]bool, familyCap, desired int) []models.Leg {
	var candidate []models.Leg
	inTicket := make(map[int]bool, desired)
	families := make(map[markets.Family]int, desired)

	for _, l := range pool {
		if len(candidate) == desired {
			break
		}
		if used[l.FixtureID] || inTicket[l.FixtureID] {
			continue
		}
		if familyCap > 0 && families[l.Family]+1 > familyCap {
			continue
		}
		candidate = append(candidate, l)
		inTicket[l.FixtureID] = true
		families[l.Family]++
	}
	return candidate
}

// usableLegs drops legs whose odds carry no value.
func usableLegs(pool []models.Leg) []models.Leg {
	usable := make([]models.Leg, 0, len(pool))
	for _, l := range pool {
		if l.Odds > 1.0 {
			usable = append(usable, l)
		}
	}
	return usable
}

// validTicket checks a whole candidate: distinct fixtures, family caps
// and the exact total-odds window. The product is compared as a
// decimal so boundary totals are not lost to float drift.
func validTicket(legs []models.Leg, lo, hi float64, familyCap int) bool {
	if len(legs) == 0 {
		return false
	}
	fixtures := make(map[int]bool, len(legs))
	families := make(map[markets.Family]int, len(legs))
	odds := make([]float64, 0, len(legs))
	for _, l := range legs {
		if fixtures[l.FixtureID] {
			return false
		}
		fixtures[l.FixtureID] = true
		families[l.Family]++
		if familyCap > 0 && families[l.Family] > familyCap {
			return false
		}
		odds = append(odds, l.Odds)
	}
	return oddsmath.InRange(oddsmath.Product(odds), lo, hi)
}

// newTicket freezes a validated candidate: legs ordered by kickoff,
// total odds rounded to the published precision.
func newTicket(legs []models.Leg) models.Ticket {
	sorted := make([]models.Leg, len(legs))
	copy(sorted, legs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Kickoff.Before(sorted[j].Kickoff)
	})

	odds := make([]float64, len(sorted))
	for i, l := range sorted {
		odds[i] = l.Odds
	}
	return models.Ticket{
		TotalOdds: oddsmath.RoundedProduct(odds),
		Legs:      sorted,
	}
}

// provisionalScore orders a configuration's tickets before the real
// scoring stage runs: mean leg quality plus a competition-tier bonus.
func provisionalScore(t models.Ticket) float64 {
	if len(t.Legs) == 0 {
		return 0
	}
	var quality, weight float64
	for _, l := range t.Legs {
		quality += l.Quality
		weight += leagues.Weight(l.LeagueID)
	}
	n := float64(len(t.Legs))
	return quality/n + 10*weight/n
}

package pool

import (
	"github.com/Vodeneev/ticketbet/internal/pkg/markets"
	"github.com/Vodeneev/ticketbet/internal/pkg/models"
	"github.com/Vodeneev/ticketbet/internal/scoring"
)

// BuildLeg normalizes one (fixture, market) candidate into a leg.
// It fails closed: a fixture missing identity or team names, already
// started, or quoted at 1.0 or below produces no leg. Quality is
// assigned here so downstream stages never recompute it.
func BuildLeg(fx models.Fixture, odds models.FixtureOdds, spec markets.Spec, c scoring.Constants) (models.Leg, bool) {
	if fx.ID == 0 || fx.LeagueID == 0 {
		return models.Leg{}, false
	}
	if fx.Home == "" || fx.Away == "" {
		return models.Leg{}, false
	}
	if fx.Kickoff.IsZero() {
		return models.Leg{}, false
	}
	if !fx.Playable() {
		return models.Leg{}, false
	}
	odd, ok := odds.Odd(spec.Code)
	if !ok || odd <= 1.0 {
		return models.Leg{}, false
	}

	leg := models.Leg{
		FixtureID:     fx.ID,
		LeagueID:      fx.LeagueID,
		LeagueName:    fx.LeagueName,
		LeagueCountry: fx.LeagueCountry,
		Home:          fx.Home,
		Away:          fx.Away,
		Kickoff:       fx.Kickoff,
		Market:        spec.Code,
		Family:        spec.Family,
		Pick:          spec.PickLabel,
		Odds:          odd,
	}
	leg.Quality = scoring.LegQuality(leg, c)
	return leg, true
}

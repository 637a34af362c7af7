package models

import (
	"github.com/Vodeneev/ticketbet/internal/pkg/markets"
)

// OddsRow represents one flattened bookmaker price for one outcome of
// one fixture. Rows whose (bet name, label) pair maps to a canonical
// market also carry the market code; rows for markets we do not trade
// keep an empty code and are skipped downstream.
type OddsRow struct {
	FixtureID int          `json:"fixture_id"`
	LeagueID  int          `json:"league_id"`
	Bookmaker string       `json:"bookmaker"`
	BetName   string       `json:"bet_name"`
	Label     string       `json:"label"`
	Market    markets.Code `json:"market,omitempty"`
	Odd       float64      `json:"odd"`
}

// FixtureOdds carries one tradable quote per canonical market for one
// fixture: the minimum across bookmakers, so every downstream
// calculation works with the most conservative price on offer.
type FixtureOdds struct {
	FixtureID int                      `json:"fixture_id"`
	LeagueID  int                      `json:"league_id"`
	Markets   map[markets.Code]float64 `json:"markets"`
}

// Odd returns the quote for a market, if one was collected.
func (fo FixtureOdds) Odd(code markets.Code) (float64, bool) {
	odd, ok := fo.Markets[code]
	return odd, ok
}

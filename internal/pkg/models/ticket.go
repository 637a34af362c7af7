package models

import (
	"time"

	"github.com/Vodeneev/ticketbet/internal/pkg/markets"
)

// Leg represents one candidate bet on one market for one fixture.
// Legs are immutable once built and live for a single batch run.
type Leg struct {
	FixtureID     int            `json:"fixture_id"`
	LeagueID      int            `json:"league_id"`
	LeagueName    string         `json:"league_name,omitempty"`
	LeagueCountry string         `json:"league_country,omitempty"`
	Home          string         `json:"home"`
	Away          string         `json:"away"`
	Kickoff       time.Time      `json:"kickoff"`
	Market        markets.Code   `json:"market"`
	Family        markets.Family `json:"market_family"`
	Pick          string         `json:"pick"`
	Odds          float64        `json:"odds"`
	Quality       float64        `json:"quality,omitempty"`  // optional 0-100 confidence signal
	Analysis      []string       `json:"analysis,omitempty"` // enrichment sentences, added post-build
}

// Valid reports whether the leg can enter a pool. Odds at or below 1.0
// carry no value and are rejected.
func (l Leg) Valid() bool {
	return l.FixtureID != 0 && l.LeagueID != 0 && l.Market != "" && l.Odds > 1.0
}

// FamilyRisk is one cell of a ticket's risk heat-map: how many legs a
// market family contributes and the fixed risk weight assigned to it.
type FamilyRisk struct {
	Count int     `json:"count"`
	Risk  float64 `json:"risk"`
}

// Ticket represents an assembled combination of legs from distinct
// fixtures. Score and its derived fields are written once by the
// scoring stage; everything else is fixed at construction.
type Ticket struct {
	ID        string                        `json:"ticket_id"`
	Label     string                        `json:"label"`
	TotalOdds float64                       `json:"total_odds"`
	Score     float64                       `json:"score,omitempty"`
	Reasoning string                        `json:"reasoning,omitempty"`
	RiskTags  []string                      `json:"risk_tags,omitempty"`
	Breakdown map[string]float64            `json:"score_breakdown,omitempty"`
	Heatmap   map[markets.Family]FamilyRisk `json:"risk_heatmap,omitempty"`
	Legs      []Leg                         `json:"legs"`
}

// HasFixture reports whether any leg of the ticket uses the fixture.
func (t Ticket) HasFixture(fixtureID int) bool {
	for _, l := range t.Legs {
		if l.FixtureID == fixtureID {
			return true
		}
	}
	return false
}

// FamilyCounts returns how many legs each market family contributes.
func (t Ticket) FamilyCounts() map[markets.Family]int {
	counts := make(map[markets.Family]int, len(t.Legs))
	for _, l := range t.Legs {
		counts[l.Family]++
	}
	return counts
}

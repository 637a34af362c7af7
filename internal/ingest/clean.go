// Package ingest assembles the daily data snapshot: it pulls fixtures,
// odds, standings, team statistics and head-to-head history from the
// upstream client, normalizes the raw payloads into the pipeline's
// models and writes everything through the day cache. It also
// aggregates the per-fixture context consumed by enrichment and the
// BTTS feed.
package ingest

import (
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/Vodeneev/ticketbet/internal/apifootball"
	"github.com/Vodeneev/ticketbet/internal/pkg/leagues"
	"github.com/Vodeneev/ticketbet/internal/pkg/markets"
	"github.com/Vodeneev/ticketbet/internal/pkg/models"
)

// Statuses that disqualify a fixture from ticket construction: the
// match is already decided or will not be played as scheduled.
var droppedStatuses = map[string]struct{}{
	models.StatusFullTime:  {},
	models.StatusExtraTime: {},
	models.StatusPenalties: {},
	models.StatusCancelled: {},
	models.StatusAbandoned: {},
	models.StatusPostponed: {},
	models.StatusAwarded:   {},
	models.StatusWalkover:  {},
}

// convert maps one raw fixture item to the model, failing closed on
// missing identity or an unparsable kickoff.
func convert(item apifootball.FixtureItem) (models.Fixture, bool) {
	if item.Fixture.ID == 0 || item.League.ID == 0 {
		return models.Fixture{}, false
	}
	if item.Teams.Home.Name == "" || item.Teams.Away.Name == "" {
		return models.Fixture{}, false
	}

	kickoff, err := time.Parse(time.RFC3339, item.Fixture.Date)
	if err != nil {
		return models.Fixture{}, false
	}

	return models.Fixture{
		ID:            item.Fixture.ID,
		LeagueID:      item.League.ID,
		LeagueName:    item.League.Name,
		LeagueCountry: item.League.Country,
		Season:        item.League.Season,
		Home:          item.Teams.Home.Name,
		Away:          item.Teams.Away.Name,
		HomeID:        item.Teams.Home.ID,
		AwayID:        item.Teams.Away.ID,
		Kickoff:       kickoff,
		Status:        item.Fixture.Status.Short,
		GoalsHome:     item.Goals.Home,
		GoalsAway:     item.Goals.Away,
		HalftimeHome:  item.Score.Halftime.Home,
		HalftimeAway:  item.Score.Halftime.Away,
	}, true
}

// CleanFixtures normalizes raw fixture items for ticket construction:
// rows missing a fixture id, league id or either team name are
// dropped, as are matches that are finished, cancelled, postponed or
// otherwise no longer playable.
func CleanFixtures(items []apifootball.FixtureItem) []models.Fixture {
	var out []models.Fixture
	for _, item := range items {
		fx, ok := convert(item)
		if !ok {
			continue
		}
		if _, dropped := droppedStatuses[fx.Status]; dropped {
			continue
		}
		out = append(out, fx)
	}
	return out
}

// CleanResults normalizes raw fixture items for settlement: the same
// identity checks as CleanFixtures, but finished matches are kept so
// their scores survive into the evaluation run.
func CleanResults(items []apifootball.FixtureItem) []models.Fixture {
	var out []models.Fixture
	for _, item := range items {
		fx, ok := convert(item)
		if !ok {
			continue
		}
		out = append(out, fx)
	}
	return out
}

// DropRiskyLeagues removes fixtures from competitions on the risky
// list. Returns the kept fixtures and the number dropped.
func DropRiskyLeagues(fixtures []models.Fixture) ([]models.Fixture, int) {
	kept := fixtures[:0:0]
	dropped := 0
	for _, fx := range fixtures {
		if leagues.IsRisky(fx.LeagueID) {
			dropped++
			continue
		}
		kept = append(kept, fx)
	}
	if dropped > 0 {
		slog.Info("dropped fixtures from risky leagues", "dropped", dropped)
	}
	return kept, dropped
}

// CleanOdds flattens raw odds items into one row per bookmaker price.
// Rows whose (bet name, label) maps to a canonical market carry the
// code; the rest keep an empty code and are ignored by the builders
// but stay in the cache for inspection.
func CleanOdds(items []apifootball.OddsItem) []models.OddsRow {
	var out []models.OddsRow
	for _, item := range items {
		if item.Fixture.ID == 0 || item.League.ID == 0 {
			continue
		}
		for _, bm := range item.Bookmakers {
			for _, bet := range bm.Bets {
				if bet.Name == "" {
					continue
				}
				for _, val := range bet.Values {
					odd, err := strconv.ParseFloat(val.Odd, 64)
					if err != nil {
						continue
					}
					row := models.OddsRow{
						FixtureID: item.Fixture.ID,
						LeagueID:  item.League.ID,
						Bookmaker: bm.Name,
						BetName:   bet.Name,
						Label:     val.Value,
						Odd:       odd,
					}
					if code, ok := markets.FromBetLabel(bet.Name, val.Value); ok {
						row.Market = code
					}
					out = append(out, row)
				}
			}
		}
	}
	return out
}

// CollapseOdds reduces flattened rows to one quote per fixture and
// canonical market, keeping the minimum odd across bookmakers. Rows
// without a canonical code or with a non-positive odd are skipped.
// Output is sorted by fixture id.
func CollapseOdds(rows []models.OddsRow) []models.FixtureOdds {
	byFixture := make(map[int]*models.FixtureOdds)
	for _, row := range rows {
		if row.Market == "" || row.Odd <= 0 {
			continue
		}
		fo, ok := byFixture[row.FixtureID]
		if !ok {
			fo = &models.FixtureOdds{
				FixtureID: row.FixtureID,
				LeagueID:  row.LeagueID,
				Markets:   make(map[markets.Code]float64),
			}
			byFixture[row.FixtureID] = fo
		}
		if cur, exists := fo.Markets[row.Market]; !exists || row.Odd < cur {
			fo.Markets[row.Market] = row.Odd
		}
	}

	out := make([]models.FixtureOdds, 0, len(byFixture))
	for _, fo := range byFixture {
		out = append(out, *fo)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FixtureID < out[j].FixtureID })
	return out
}

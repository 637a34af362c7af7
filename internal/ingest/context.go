package ingest

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/Vodeneev/ticketbet/internal/apifootball"
	"github.com/Vodeneev/ticketbet/internal/pkg/cache"
	"github.com/Vodeneev/ticketbet/internal/pkg/models"
)

// TeamContext summarizes one side's season shape: recent form, goal
// averages and table position. Fields stay zero when the backing
// cache files are missing.
type TeamContext struct {
	Form            string  `json:"form,omitempty"`
	Played          int     `json:"played,omitempty"`
	Wins            int     `json:"wins,omitempty"`
	Draws           int     `json:"draws,omitempty"`
	Loses           int     `json:"loses,omitempty"`
	GoalsForAvg     float64 `json:"goals_for_avg,omitempty"`
	GoalsAgainstAvg float64 `json:"goals_against_avg,omitempty"`
	Rank            int     `json:"rank,omitempty"`
	Points          int     `json:"points,omitempty"`
}

// H2HSummary aggregates the last head-to-head meetings between the
// two sides that ended with a result.
type H2HSummary struct {
	Matches  int     `json:"matches"`
	BTTSRate float64 `json:"btts_rate"`
	AvgGoals float64 `json:"avg_goals"`
}

// Context is everything the pipeline knows about a fixture beyond its
// odds. It feeds leg enrichment and the BTTS stats feed.
type Context struct {
	FixtureID int         `json:"fixture_id"`
	Home      TeamContext `json:"home"`
	Away      TeamContext `json:"away"`
	H2H       H2HSummary  `json:"h2h"`
}

// BuildContexts assembles the per-fixture context from the day's
// cached standings, team statistics and head-to-head files. Missing
// files leave the corresponding fields zero; the aggregation itself
// never fails.
func BuildContexts(store *cache.Store, day time.Time, fixtures []models.Fixture) map[int]Context {
	standingsByLeague := make(map[int][]apifootball.StandingRow)
	statsByTeam := make(map[string]*apifootball.TeamStats)

	loadStandings := func(leagueID int) []apifootball.StandingRow {
		if rows, ok := standingsByLeague[leagueID]; ok {
			return rows
		}
		var rows []apifootball.StandingRow
		if err := store.ReadJSON(standingsName(leagueID), day, &rows); err != nil {
			rows = nil
		}
		standingsByLeague[leagueID] = rows
		return rows
	}

	loadStats := func(leagueID, teamID int) *apifootball.TeamStats {
		key := statsName(leagueID, teamID)
		if stats, ok := statsByTeam[key]; ok {
			return stats
		}
		var stats apifootball.TeamStats
		if err := store.ReadJSON(key, day, &stats); err != nil {
			statsByTeam[key] = nil
			return nil
		}
		statsByTeam[key] = &stats
		return &stats
	}

	out := make(map[int]Context, len(fixtures))
	for _, fx := range fixtures {
		c := Context{FixtureID: fx.ID}

		rows := loadStandings(fx.LeagueID)
		c.Home = teamContext(loadStats(fx.LeagueID, fx.HomeID), findStanding(rows, fx.HomeID))
		c.Away = teamContext(loadStats(fx.LeagueID, fx.AwayID), findStanding(rows, fx.AwayID))

		var matches []apifootball.FixtureItem
		if err := store.ReadJSON(h2hName(fx.ID), day, &matches); err == nil {
			c.H2H = summarizeH2H(matches)
		}

		out[fx.ID] = c
	}

	slog.Debug("fixture contexts built", "date", day.Format(dayLayout), "fixtures", len(out))
	return out
}

func findStanding(rows []apifootball.StandingRow, teamID int) *apifootball.StandingRow {
	if teamID == 0 {
		return nil
	}
	for i := range rows {
		if rows[i].Team.ID == teamID {
			return &rows[i]
		}
	}
	return nil
}

func teamContext(stats *apifootball.TeamStats, standing *apifootball.StandingRow) TeamContext {
	var tc TeamContext
	if stats != nil {
		tc.Form = stats.Form
		tc.Played = stats.Fixtures.Played.Total
		tc.Wins = stats.Fixtures.Wins.Total
		tc.Draws = stats.Fixtures.Draws.Total
		tc.Loses = stats.Fixtures.Loses.Total
		tc.GoalsForAvg = parseAverage(stats.Goals.For.Average.Total)
		tc.GoalsAgainstAvg = parseAverage(stats.Goals.Against.Average.Total)
	}
	if standing != nil {
		tc.Rank = standing.Rank
		tc.Points = standing.Points
		if tc.Form == "" {
			tc.Form = standing.Form
		}
	}
	return tc
}

func parseAverage(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// summarizeH2H reduces head-to-head history to the two signals the
// pipeline uses: how often both teams scored and the average total
// goals. Only meetings with a final result count.
func summarizeH2H(matches []apifootball.FixtureItem) H2HSummary {
	var sum H2HSummary
	btts := 0
	goals := 0

	for _, m := range matches {
		switch m.Fixture.Status.Short {
		case models.StatusFullTime, models.StatusExtraTime, models.StatusPenalties:
		default:
			continue
		}
		if m.Goals.Home == nil || m.Goals.Away == nil {
			continue
		}

		sum.Matches++
		goals += *m.Goals.Home + *m.Goals.Away
		if *m.Goals.Home > 0 && *m.Goals.Away > 0 {
			btts++
		}
	}

	if sum.Matches > 0 {
		sum.BTTSRate = float64(btts) / float64(sum.Matches)
		sum.AvgGoals = float64(goals) / float64(sum.Matches)
	}
	return sum
}

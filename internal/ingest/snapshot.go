package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Vodeneev/ticketbet/internal/apifootball"
	"github.com/Vodeneev/ticketbet/internal/pkg/cache"
	"github.com/Vodeneev/ticketbet/internal/pkg/leagues"
	"github.com/Vodeneev/ticketbet/internal/pkg/models"
)

const dayLayout = "2006-01-02"

// DefaultDaysAhead is how many future days the morning fetch covers in
// addition to today.
const DefaultDaysAhead = 2

// Cache file names within a day directory.
const (
	FixturesFile = "fixtures.json"
	OddsFile     = "odds.json"
	SummaryFile  = "summary.json"
)

func standingsName(leagueID int) string {
	return fmt.Sprintf("standings/%d.json", leagueID)
}

func statsName(leagueID, teamID int) string {
	return fmt.Sprintf("stats/%d_%d.json", leagueID, teamID)
}

func h2hName(fixtureID int) string {
	return fmt.Sprintf("h2h/%d.json", fixtureID)
}

// DayCount pairs a date with how many records it produced.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Summary reports what one snapshot run collected. It is written to
// the day cache so operators can see at a glance what the morning
// fetch brought in.
type Summary struct {
	Today          string     `json:"today"`
	DaysAhead      int        `json:"days_ahead"`
	FixturesTotal  int        `json:"fixtures_total"`
	OddsTotal      int        `json:"odds_total"`
	StandingsTotal int        `json:"standings_total"`
	StatsTotal     int        `json:"stats_total"`
	H2HTotal       int        `json:"h2h_total"`
	FixturesDays   []DayCount `json:"fixtures_days"`
	OddsDays       []DayCount `json:"odds_days"`
}

// Snapshotter fetches the day's raw data and persists the cleaned
// snapshot through the day cache.
type Snapshotter struct {
	client *apifootball.Client
	store  *cache.Store
}

// NewSnapshotter wires the upstream client to the cache store.
func NewSnapshotter(client *apifootball.Client, store *cache.Store) *Snapshotter {
	return &Snapshotter{client: client, store: store}
}

// BuildSnapshot runs the morning fetch: fixtures and odds for today
// plus daysAhead future days, standings for every preferred league
// with a known season, team statistics for both sides of today's
// fixtures and head-to-head history for each of today's matches.
//
// The run is best effort: individual fetch or write failures are
// logged and skipped, and the pipeline decides later whether the day
// ended up with enough data to continue. Only context cancellation
// aborts the run.
func (s *Snapshotter) BuildSnapshot(ctx context.Context, today time.Time, daysAhead int) (*Summary, error) {
	if daysAhead < 0 {
		daysAhead = 0
	}

	summary := &Summary{
		Today:     today.Format(dayLayout),
		DaysAhead: daysAhead,
	}
	slog.Info("snapshot started", "today", summary.Today, "days_ahead", daysAhead)

	var fixturesToday []models.Fixture
	for i := 0; i <= daysAhead; i++ {
		day := today.AddDate(0, 0, i)
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		fixtures := s.fetchFixturesDay(ctx, day)
		summary.FixturesDays = append(summary.FixturesDays, DayCount{Date: day.Format(dayLayout), Count: len(fixtures)})
		summary.FixturesTotal += len(fixtures)
		if i == 0 {
			fixturesToday = fixtures
		}

		odds := s.fetchOddsDay(ctx, day)
		summary.OddsDays = append(summary.OddsDays, DayCount{Date: day.Format(dayLayout), Count: len(odds)})
		summary.OddsTotal += len(odds)
	}

	// A failed fetch still leaves a usable day when an earlier run
	// already cached it.
	if len(fixturesToday) == 0 {
		var cached []models.Fixture
		if err := s.store.ReadJSON(FixturesFile, today, &cached); err == nil && len(cached) > 0 {
			fixturesToday = cached
			slog.Warn("no fresh fixtures for today, using cached snapshot", "date", summary.Today, "count", len(cached))
		}
	}

	if err := s.fetchStandings(ctx, today, summary); err != nil {
		return summary, err
	}
	if err := s.fetchTeamStats(ctx, today, fixturesToday, summary); err != nil {
		return summary, err
	}
	if err := s.fetchHeadToHead(ctx, today, fixturesToday, summary); err != nil {
		return summary, err
	}

	if err := s.store.WriteJSON(SummaryFile, today, summary); err != nil {
		slog.Error("failed to write snapshot summary", "error", err)
	}

	slog.Info("snapshot finished",
		"fixtures_total", summary.FixturesTotal,
		"odds_total", summary.OddsTotal,
		"standings_total", summary.StandingsTotal,
		"stats_total", summary.StatsTotal,
		"h2h_total", summary.H2HTotal)
	return summary, nil
}

func (s *Snapshotter) fetchFixturesDay(ctx context.Context, day time.Time) []models.Fixture {
	ds := day.Format(dayLayout)

	items, err := s.client.FixturesByDate(ctx, day)
	if err != nil {
		slog.Error("failed to fetch fixtures", "date", ds, "error", err)
		return nil
	}

	fixtures := CleanFixtures(items)
	fixtures, _ = DropRiskyLeagues(fixtures)

	if err := s.store.WriteJSON(FixturesFile, day, fixtures); err != nil {
		slog.Error("failed to write fixtures", "date", ds, "error", err)
	}
	slog.Info("fixtures loaded", "date", ds, "raw", len(items), "kept", len(fixtures))
	return fixtures
}

func (s *Snapshotter) fetchOddsDay(ctx context.Context, day time.Time) []models.OddsRow {
	ds := day.Format(dayLayout)

	items, err := s.client.OddsByDate(ctx, day)
	if err != nil {
		slog.Error("failed to fetch odds", "date", ds, "error", err)
		return nil
	}

	rows := CleanOdds(items)
	if err := s.store.WriteJSON(OddsFile, day, rows); err != nil {
		slog.Error("failed to write odds", "date", ds, "error", err)
	}
	slog.Info("odds loaded", "date", ds, "fixtures", len(items), "rows", len(rows))
	return rows
}

func (s *Snapshotter) fetchStandings(ctx context.Context, today time.Time, summary *Summary) error {
	for _, leagueID := range leagues.Preferred() {
		season, ok := leagues.Season(leagueID)
		if !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rows, err := s.client.Standings(ctx, leagueID, season)
		if err != nil {
			slog.Warn("failed to fetch standings", "league_id", leagueID, "season", season, "error", err)
			continue
		}
		if err := s.store.WriteJSON(standingsName(leagueID), today, rows); err != nil {
			slog.Error("failed to write standings", "league_id", leagueID, "error", err)
			continue
		}
		summary.StandingsTotal += len(rows)
		slog.Info("standings loaded", "league_id", leagueID, "season", season, "rows", len(rows))
	}
	return nil
}

func (s *Snapshotter) fetchTeamStats(ctx context.Context, today time.Time, fixtures []models.Fixture, summary *Summary) error {
	seen := make(map[string]struct{})
	for _, fx := range fixtures {
		season, ok := leagues.Season(fx.LeagueID)
		if !ok {
			continue
		}

		for _, teamID := range []int{fx.HomeID, fx.AwayID} {
			if teamID == 0 {
				continue
			}
			key := fmt.Sprintf("%d_%d", fx.LeagueID, teamID)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			if err := ctx.Err(); err != nil {
				return err
			}
			stats, err := s.client.TeamStatistics(ctx, fx.LeagueID, season, teamID)
			if err != nil {
				slog.Warn("failed to fetch team statistics", "league_id", fx.LeagueID, "team_id", teamID, "error", err)
				continue
			}
			if err := s.store.WriteJSON(statsName(fx.LeagueID, teamID), today, stats); err != nil {
				slog.Error("failed to write team statistics", "league_id", fx.LeagueID, "team_id", teamID, "error", err)
				continue
			}
			summary.StatsTotal++
		}
	}
	slog.Info("team statistics loaded", "teams", len(seen), "files", summary.StatsTotal)
	return nil
}

func (s *Snapshotter) fetchHeadToHead(ctx context.Context, today time.Time, fixtures []models.Fixture, summary *Summary) error {
	for _, fx := range fixtures {
		if fx.HomeID == 0 || fx.AwayID == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		matches, err := s.client.HeadToHead(ctx, fx.HomeID, fx.AwayID, 5)
		if err != nil {
			slog.Warn("failed to fetch head to head", "fixture_id", fx.ID, "error", err)
			continue
		}
		if err := s.store.WriteJSON(h2hName(fx.ID), today, matches); err != nil {
			slog.Error("failed to write head to head", "fixture_id", fx.ID, "error", err)
			continue
		}
		summary.H2HTotal++
	}
	slog.Info("head to head loaded", "fixtures", len(fixtures), "files", summary.H2HTotal)
	return nil
}

package ingest

import (
	"testing"
	"time"

	"github.com/Vodeneev/ticketbet/internal/apifootball"
	"github.com/Vodeneev/ticketbet/internal/pkg/markets"
	"github.com/Vodeneev/ticketbet/internal/pkg/models"
)

func fixtureItem(id, leagueID int, home, away, date, status string) apifootball.FixtureItem {
	var it apifootball.FixtureItem
	it.Fixture.ID = id
	it.Fixture.Date = date
	it.Fixture.Status.Short = status
	it.League.ID = leagueID
	it.League.Name = "Premier League"
	it.League.Country = "England"
	it.League.Season = 2024
	it.Teams.Home = apifootball.TeamRef{ID: id*10 + 1, Name: home}
	it.Teams.Away = apifootball.TeamRef{ID: id*10 + 2, Name: away}
	return it
}

func TestCleanFixtures(t *testing.T) {
	valid := fixtureItem(101, 39, "Arsenal", "Chelsea", "2025-11-02T15:00:00+01:00", "NS")

	noHome := fixtureItem(102, 39, "", "Everton", "2025-11-02T15:00:00+01:00", "NS")
	noID := fixtureItem(0, 39, "Fulham", "Brentford", "2025-11-02T15:00:00+01:00", "NS")
	noLeague := fixtureItem(103, 0, "Wolves", "Burnley", "2025-11-02T15:00:00+01:00", "NS")
	badDate := fixtureItem(104, 39, "Villa", "Spurs", "not-a-date", "NS")
	finished := fixtureItem(105, 39, "City", "United", "2025-11-02T12:30:00+01:00", "FT")
	postponed := fixtureItem(106, 39, "Leeds", "Brighton", "2025-11-02T15:00:00+01:00", "PST")

	out := CleanFixtures([]apifootball.FixtureItem{valid, noHome, noID, noLeague, badDate, finished, postponed})
	if len(out) != 1 {
		t.Fatalf("kept %d fixtures, want 1", len(out))
	}

	fx := out[0]
	if fx.ID != 101 || fx.LeagueID != 39 {
		t.Errorf("identity = %d/%d, want 101/39", fx.ID, fx.LeagueID)
	}
	if fx.Home != "Arsenal" || fx.Away != "Chelsea" {
		t.Errorf("teams = %q vs %q", fx.Home, fx.Away)
	}
	if fx.HomeID != 1011 || fx.AwayID != 1012 {
		t.Errorf("team ids = %d/%d", fx.HomeID, fx.AwayID)
	}
	if fx.LeagueName != "Premier League" || fx.LeagueCountry != "England" || fx.Season != 2024 {
		t.Errorf("league block = %q/%q/%d", fx.LeagueName, fx.LeagueCountry, fx.Season)
	}
	want := time.Date(2025, 11, 2, 15, 0, 0, 0, time.FixedZone("", 3600))
	if !fx.Kickoff.Equal(want) {
		t.Errorf("kickoff = %v, want %v", fx.Kickoff, want)
	}
	if !fx.Playable() {
		t.Error("cleaned NS fixture should be playable")
	}
}

func TestCleanResultsKeepsFinished(t *testing.T) {
	finished := fixtureItem(105, 39, "City", "United", "2025-11-01T12:30:00+01:00", "FT")
	home, away := 3, 1
	htHome, htAway := 2, 0
	finished.Goals.Home = &home
	finished.Goals.Away = &away
	finished.Score.Halftime.Home = &htHome
	finished.Score.Halftime.Away = &htAway

	broken := fixtureItem(106, 39, "", "Brighton", "2025-11-01T15:00:00+01:00", "FT")

	out := CleanResults([]apifootball.FixtureItem{finished, broken})
	if len(out) != 1 {
		t.Fatalf("kept %d fixtures, want 1", len(out))
	}

	fx := out[0]
	if !fx.Finished() {
		t.Errorf("status = %q, want finished", fx.Status)
	}
	if fx.GoalsHome == nil || *fx.GoalsHome != 3 || fx.GoalsAway == nil || *fx.GoalsAway != 1 {
		t.Errorf("final score lost: %+v", fx)
	}
	if fx.HalftimeHome == nil || *fx.HalftimeHome != 2 {
		t.Errorf("halftime score lost: %+v", fx)
	}
}

func TestDropRiskyLeagues(t *testing.T) {
	fixtures := []models.Fixture{
		{ID: 1, LeagueID: 39},
		{ID: 2, LeagueID: 291},
		{ID: 3, LeagueID: 299},
		{ID: 4, LeagueID: 140},
	}

	kept, dropped := DropRiskyLeagues(fixtures)
	if dropped != 2 {
		t.Errorf("dropped = %d, want 2", dropped)
	}
	if len(kept) != 2 || kept[0].ID != 1 || kept[1].ID != 4 {
		t.Errorf("kept = %+v", kept)
	}
}

func oddsItem(fixtureID, leagueID int) apifootball.OddsItem {
	var it apifootball.OddsItem
	it.Fixture.ID = fixtureID
	it.League.ID = leagueID
	return it
}

func bet(name string, values ...apifootball.BetValue) apifootball.Bet {
	return apifootball.Bet{Name: name, Values: values}
}

func TestCleanOdds(t *testing.T) {
	item := oddsItem(101, 39)
	item.Bookmakers = []apifootball.Bookmaker{
		{
			Name: "Bet365",
			Bets: []apifootball.Bet{
				bet("Match Winner",
					apifootball.BetValue{Value: "Home", Odd: "1.50"},
					apifootball.BetValue{Value: "Draw", Odd: "4.20"},
				),
				bet("Corners Over Under",
					apifootball.BetValue{Value: "Over 9.5", Odd: "1.85"},
				),
				bet("Goals Over/Under",
					apifootball.BetValue{Value: "Over 2.5", Odd: "bad"},
				),
			},
		},
		{
			Name: "Pinnacle",
			Bets: []apifootball.Bet{
				bet("Match Winner",
					apifootball.BetValue{Value: "1", Odd: "1.45"},
				),
			},
		},
	}
	noIdentity := oddsItem(0, 39)

	rows := CleanOdds([]apifootball.OddsItem{item, noIdentity})
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}

	if rows[0].Market != markets.Home || rows[0].Odd != 1.50 || rows[0].Bookmaker != "Bet365" {
		t.Errorf("first row = %+v", rows[0])
	}
	if rows[1].Market != markets.Draw {
		t.Errorf("draw row market = %q", rows[1].Market)
	}
	// Untraded markets keep their row but no canonical code.
	if rows[2].Market != "" || rows[2].BetName != "Corners Over Under" {
		t.Errorf("corners row = %+v", rows[2])
	}
	if rows[3].Market != markets.Home || rows[3].Odd != 1.45 {
		t.Errorf("pinnacle row = %+v", rows[3])
	}
}

func TestCollapseOddsTakesMinimum(t *testing.T) {
	rows := []models.OddsRow{
		{FixtureID: 2, LeagueID: 140, Market: markets.Over25, Odd: 1.70},
		{FixtureID: 1, LeagueID: 39, Market: markets.Home, Odd: 1.50, Bookmaker: "Bet365"},
		{FixtureID: 1, LeagueID: 39, Market: markets.Home, Odd: 1.45, Bookmaker: "Pinnacle"},
		{FixtureID: 1, LeagueID: 39, Market: markets.Over25, Odd: 2.10},
		{FixtureID: 1, LeagueID: 39, BetName: "Corners", Odd: 1.85}, // no canonical code
		{FixtureID: 1, LeagueID: 39, Market: markets.Draw, Odd: 0},  // unusable quote
	}

	collapsed := CollapseOdds(rows)
	if len(collapsed) != 2 {
		t.Fatalf("got %d fixtures, want 2", len(collapsed))
	}
	if collapsed[0].FixtureID != 1 || collapsed[1].FixtureID != 2 {
		t.Errorf("order = %d, %d, want 1, 2", collapsed[0].FixtureID, collapsed[1].FixtureID)
	}

	fo := collapsed[0]
	if odd, ok := fo.Odd(markets.Home); !ok || odd != 1.45 {
		t.Errorf("home odd = %v, %v, want 1.45", odd, ok)
	}
	if odd, ok := fo.Odd(markets.Over25); !ok || odd != 2.10 {
		t.Errorf("over25 odd = %v, %v", odd, ok)
	}
	if _, ok := fo.Odd(markets.Draw); ok {
		t.Error("zero odd should not be collapsed")
	}
	if len(fo.Markets) != 2 {
		t.Errorf("markets = %v", fo.Markets)
	}
}

package builder

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/Vodeneev/ticketbet/internal/pkg/markets"
	"github.com/Vodeneev/ticketbet/internal/pkg/models"
	"github.com/Vodeneev/ticketbet/internal/pkg/oddsmath"
)

func mkLeg(fixtureID int, code markets.Code, odds float64, kickoff time.Time) models.Leg {
	return models.Leg{
		FixtureID: fixtureID,
		LeagueID:  39,
		Home:      fmt.Sprintf("Home %d", fixtureID),
		Away:      fmt.Sprintf("Away %d", fixtureID),
		Kickoff:   kickoff,
		Market:    code,
		Family:    markets.FamilyOf(code),
		Pick:      string(code),
		Odds:      odds,
		Quality:   70,
	}
}

func singleMarketConfig() SetConfig {
	return SetConfig{
		Code:       "SET_O25",
		Label:      "[OVER 2.5]",
		Markets:    []markets.Code{markets.Over25},
		LegsMin:    3,
		LegsMax:    5,
		TargetMin:  2.0,
		TargetMax:  3.0,
		MaxTickets: 3,
		FamilyCap:  3,
		Strategy:   StrategyGreedy,
	}
}

func TestConstructSingleMarketSet(t *testing.T) {
	// Nine fixtures at 1.30: the family cap blocks 4- and 5-leg
	// candidates, and 1.30^3 = 2.197 sits inside the window.
	day := time.Date(2025, 11, 2, 12, 0, 0, 0, time.UTC)
	var pool []models.Leg
	for i := 1; i <= 9; i++ {
		pool = append(pool, mkLeg(i, markets.Over25, 1.30, day.Add(time.Duration(i)*time.Hour)))
	}

	tickets := Construct(pool, singleMarketConfig(), 3)
	if len(tickets) != 3 {
		t.Fatalf("built %d tickets, want 3", len(tickets))
	}

	seen := make(map[int]bool)
	for _, ticket := range tickets {
		if len(ticket.Legs) != 3 {
			t.Fatalf("ticket %s has %d legs, want 3", ticket.ID, len(ticket.Legs))
		}
		if ticket.TotalOdds != 2.2 {
			t.Errorf("TotalOdds = %v, want 2.2", ticket.TotalOdds)
		}
		for _, l := range ticket.Legs {
			if seen[l.FixtureID] {
				t.Fatalf("fixture %d appears in more than one ticket", l.FixtureID)
			}
			seen[l.FixtureID] = true
		}
		for i := 1; i < len(ticket.Legs); i++ {
			if ticket.Legs[i].Kickoff.Before(ticket.Legs[i-1].Kickoff) {
				t.Errorf("legs not ordered by kickoff: %v after %v",
					ticket.Legs[i].Kickoff, ticket.Legs[i-1].Kickoff)
			}
		}
	}
	if len(seen) != 9 {
		t.Errorf("tickets consumed %d distinct fixtures, want 9", len(seen))
	}
}

func TestConstructPrefersLongerTickets(t *testing.T) {
	// Three families at 1.15 each: a 5-leg candidate passes the cap
	// and 1.15^5 = 2.011 lands just inside the window.
	day := time.Date(2025, 11, 2, 12, 0, 0, 0, time.UTC)
	pool := []models.Leg{
		mkLeg(1, markets.Over15, 1.15, day),
		mkLeg(2, markets.Over25, 1.15, day.Add(time.Hour)),
		mkLeg(3, markets.Under35, 1.15, day.Add(2*time.Hour)),
		mkLeg(4, markets.Under35, 1.15, day.Add(3*time.Hour)),
		mkLeg(5, markets.BTTSYes, 1.15, day.Add(4*time.Hour)),
	}
	cfg := SetConfig{
		Code:       "SET_GOALS_MIX",
		Label:      "[GOALS MIX]",
		LegsMin:    3,
		LegsMax:    5,
		TargetMin:  2.0,
		TargetMax:  3.0,
		MaxTickets: 3,
		FamilyCap:  2,
		Strategy:   StrategyGreedy,
	}

	tickets := Construct(pool, cfg, 3)
	if len(tickets) != 1 {
		t.Fatalf("built %d tickets, want 1", len(tickets))
	}
	if len(tickets[0].Legs) != 5 {
		t.Errorf("ticket has %d legs, want all 5", len(tickets[0].Legs))
	}
	if tickets[0].TotalOdds != 2.01 {
		t.Errorf("TotalOdds = %v, want 2.01", tickets[0].TotalOdds)
	}
}

func TestConstructOneLegPerFixture(t *testing.T) {
	// Fixture 1 is quoted on two markets; only one may enter.
	day := time.Date(2025, 11, 2, 12, 0, 0, 0, time.UTC)
	pool := []models.Leg{
		mkLeg(1, markets.Over15, 1.25, day),
		mkLeg(1, markets.Over25, 1.40, day),
		mkLeg(2, markets.Under35, 1.30, day.Add(time.Hour)),
		mkLeg(3, markets.Over15, 1.28, day.Add(2*time.Hour)),
	}
	cfg := SetConfig{
		Code:      "SET_GOALS_MIX",
		LegsMin:   3,
		LegsMax:   3,
		TargetMin: 2.0,
		TargetMax: 3.0,
		FamilyCap: 2,
		Strategy:  StrategyGreedy,
	}

	tickets := Construct(pool, cfg, 3)
	if len(tickets) != 1 {
		t.Fatalf("built %d tickets, want 1", len(tickets))
	}
	var fixtureOneLegs int
	for _, l := range tickets[0].Legs {
		if l.FixtureID == 1 {
			fixtureOneLegs++
		}
	}
	if fixtureOneLegs != 1 {
		t.Errorf("fixture 1 contributes %d legs, want exactly 1", fixtureOneLegs)
	}
}

func TestConstructRespectsTargetWindow(t *testing.T) {
	day := time.Date(2025, 11, 2, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		odds float64
	}{
		{"total below window", 1.10}, // 1.331
		{"total above window", 1.50}, // 3.375
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var pool []models.Leg
			for i := 1; i <= 6; i++ {
				pool = append(pool, mkLeg(i, markets.Over25, tc.odds, day))
			}
			if tickets := Construct(pool, singleMarketConfig(), 3); len(tickets) != 0 {
				t.Errorf("built %d tickets from an out-of-window pool, want 0", len(tickets))
			}
		})
	}
}

func TestConstructWindowBoundsAreInclusive(t *testing.T) {
	day := time.Date(2025, 11, 2, 12, 0, 0, 0, time.UTC)
	cfg := SetConfig{
		Code:      "SET_GOALS_MIX",
		LegsMin:   3,
		LegsMax:   3,
		TargetMin: 2.0,
		TargetMax: 3.0,
		FamilyCap: 2,
		Strategy:  StrategyGreedy,
	}

	t.Run("lower bound", func(t *testing.T) {
		// 1.25 * 1.25 * 1.28 is exactly 2.00.
		pool := []models.Leg{
			mkLeg(1, markets.Over15, 1.25, day),
			mkLeg(2, markets.Over25, 1.25, day),
			mkLeg(3, markets.Under35, 1.28, day),
		}
		tickets := Construct(pool, cfg, 1)
		if len(tickets) != 1 {
			t.Fatalf("built %d tickets, want 1", len(tickets))
		}
		if tickets[0].TotalOdds != 2.0 {
			t.Errorf("TotalOdds = %v, want exactly 2.0", tickets[0].TotalOdds)
		}
	})

	t.Run("upper bound", func(t *testing.T) {
		// 1.25 * 1.20 * 2.00 is exactly 3.00.
		pool := []models.Leg{
			mkLeg(1, markets.Over15, 1.25, day),
			mkLeg(2, markets.Over25, 1.20, day),
			mkLeg(3, markets.Under35, 2.00, day),
		}
		tickets := Construct(pool, cfg, 1)
		if len(tickets) != 1 {
			t.Fatalf("built %d tickets, want 1", len(tickets))
		}
		if tickets[0].TotalOdds != 3.0 {
			t.Errorf("TotalOdds = %v, want exactly 3.0", tickets[0].TotalOdds)
		}
	})
}

func TestConstructVariedOddsPool(t *testing.T) {
	// Five fixtures at 1.20..1.40: combinations like 1.20*1.25*1.35 =
	// 2.025 sit in the window, so the pool must not come up empty.
	day := time.Date(2025, 11, 2, 12, 0, 0, 0, time.UTC)
	var pool []models.Leg
	for i, o := range []float64{1.20, 1.25, 1.30, 1.35, 1.40} {
		pool = append(pool, mkLeg(i+1, markets.Over25, o, day.Add(time.Duration(i)*time.Hour)))
	}
	cfg := SetConfig{
		Code:      "SET_O25",
		LegsMin:   3,
		LegsMax:   4,
		TargetMin: 2.0,
		TargetMax: 3.0,
		FamilyCap: 4,
		Strategy:  StrategyGreedy,
	}

	tickets := Construct(pool, cfg, 3)
	if len(tickets) == 0 {
		t.Fatal("no ticket built from a pool with in-window combinations")
	}
	for _, ticket := range tickets {
		if n := len(ticket.Legs); n < 3 || n > 4 {
			t.Errorf("ticket %s has %d legs, want 3..4", ticket.ID, n)
		}
		if ticket.TotalOdds < 2.0 || ticket.TotalOdds > 3.0 {
			t.Errorf("ticket %s total %v outside [2, 3]", ticket.ID, ticket.TotalOdds)
		}
	}
}

func TestConstructLowOddsYieldsNothing(t *testing.T) {
	// All legs at 1.05: even three together only reach ~1.16, far
	// short of the window floor. Empty result, no panic.
	day := time.Date(2025, 11, 2, 12, 0, 0, 0, time.UTC)
	var pool []models.Leg
	for i := 1; i <= 6; i++ {
		pool = append(pool, mkLeg(i, markets.Over25, 1.05, day))
	}
	cfg := SetConfig{
		Code:      "SET_O25",
		LegsMin:   2,
		LegsMax:   3,
		TargetMin: 2.0,
		TargetMax: 3.0,
		FamilyCap: 3,
		Strategy:  StrategyGreedy,
	}

	if tickets := Construct(pool, cfg, 3); len(tickets) != 0 {
		t.Errorf("built %d tickets from a short-odds pool, want 0", len(tickets))
	}
}

func TestConstructDropsWorthlessOdds(t *testing.T) {
	day := time.Date(2025, 11, 2, 12, 0, 0, 0, time.UTC)
	pool := []models.Leg{
		mkLeg(1, markets.Over25, 1.0, day),
		mkLeg(2, markets.Over25, 0.95, day),
		mkLeg(3, markets.Over25, 1.30, day),
	}
	if tickets := Construct(pool, singleMarketConfig(), 3); len(tickets) != 0 {
		t.Errorf("built %d tickets from a pool with one usable leg, want 0", len(tickets))
	}
}

func TestConstructDeterministic(t *testing.T) {
	day := time.Date(2025, 11, 2, 12, 0, 0, 0, time.UTC)
	var pool []models.Leg
	for i := 1; i <= 9; i++ {
		pool = append(pool, mkLeg(i, markets.Over25, 1.30, day.Add(time.Duration(i)*time.Hour)))
	}

	first := Construct(pool, singleMarketConfig(), 3)
	second := Construct(pool, singleMarketConfig(), 3)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("Construct is not deterministic for an identical pool")
	}
}

func TestNewTicketTotalsMatchLegs(t *testing.T) {
	day := time.Date(2025, 11, 2, 12, 0, 0, 0, time.UTC)
	legs := []models.Leg{
		mkLeg(2, markets.Over25, 1.35, day.Add(2*time.Hour)),
		mkLeg(1, markets.Over15, 1.22, day),
	}
	ticket := newTicket(legs)

	if ticket.Legs[0].FixtureID != 1 {
		t.Errorf("first leg fixture = %d, want the earlier kickoff (1)", ticket.Legs[0].FixtureID)
	}
	want := oddsmath.RoundedProduct([]float64{1.22, 1.35})
	if ticket.TotalOdds != want {
		t.Errorf("TotalOdds = %v, want %v", ticket.TotalOdds, want)
	}
}

package scoring

import (
	"reflect"
	"testing"
	"time"

	"github.com/Vodeneev/ticketbet/internal/pkg/markets"
	"github.com/Vodeneev/ticketbet/internal/pkg/models"
)

func testLeg(fixtureID, leagueID int, code markets.Code, odds, quality float64, kickoff time.Time) models.Leg {
	return models.Leg{
		FixtureID: fixtureID,
		LeagueID:  leagueID,
		Market:    code,
		Family:    markets.FamilyOf(code),
		Odds:      odds,
		Quality:   quality,
		Kickoff:   kickoff,
	}
}

func TestLegQuality(t *testing.T) {
	c := DefaultConstants()
	cases := []struct {
		name string
		leg  models.Leg
		want float64
	}{
		{"top league optimal odds goals", testLeg(1, 39, markets.Over25, 1.22, 0, time.Time{}), 100},
		{"minor league high odds result", testLeg(1, 999, markets.Home, 1.55, 0, time.Time{}), 33},
		{"near-certain odds carry no value", testLeg(1, 39, markets.BTTSYes, 1.005, 0, time.Time{}), 50},
		{"below safe floor", testLeg(1, 999, markets.DC1X, 1.05, 0, time.Time{}), 45},
		{"safe but above golden zone", testLeg(1, 39, markets.Over15, 1.35, 0, time.Time{}), 88},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := LegQuality(tc.leg, c); got != tc.want {
				t.Errorf("LegQuality = %v, want %v", got, tc.want)
			}
		})
	}
}

func goodTicket() models.Ticket {
	kickoff := time.Date(2025, 11, 2, 15, 0, 0, 0, time.UTC)
	return models.Ticket{Legs: []models.Leg{
		testLeg(1, 39, markets.Over25, 1.30, 70, kickoff),
		testLeg(2, 140, markets.BTTSYes, 1.35, 70, kickoff.Add(30*time.Minute)),
		testLeg(3, 135, markets.DC1X, 1.40, 70, kickoff.Add(time.Hour)),
	}}
}

func badTicket() models.Ticket {
	kickoff := time.Date(2025, 11, 2, 8, 0, 0, 0, time.UTC)
	legs := make([]models.Leg, 6)
	for i := range legs {
		legs[i] = testLeg(10+i, 999, markets.Over25, 1.8, 30, kickoff.Add(time.Duration(i*3)*time.Hour))
	}
	return models.Ticket{Legs: legs}
}

func TestScoreFactors(t *testing.T) {
	c := DefaultConstants()
	r := Score(goodTicket(), c)

	wantBreakdown := map[string]float64{
		FactorCompetition: 100,
		FactorLength:      100,
		FactorDiversity:   100,
		FactorCompactness: 100,
		FactorTopShare:    100,
		FactorWorstLeg:    100,
		FactorLegQuality:  70,
	}
	for factor, want := range wantBreakdown {
		if got := r.Breakdown[factor]; got != want {
			t.Errorf("%s = %v, want %v", factor, got, want)
		}
	}
	// avg odds 1.35 vs ideal 1.22 at slope 200.
	if got := r.Breakdown[FactorOddsSweetSpot]; got != 74 {
		t.Errorf("odds sweet spot = %v, want 74", got)
	}
	// total 2.457 vs ideal 2.50 at slope 60.
	if got := r.Breakdown[FactorTotalOdds]; got != 97.4 {
		t.Errorf("total odds factor = %v, want 97.4", got)
	}

	if r.Score < 85 || r.Score > 100 {
		t.Errorf("composite = %v, want high", r.Score)
	}
	if r.Reasoning == "" {
		t.Error("expected reasoning text")
	}
}

func TestScoreSeparatesGoodFromBad(t *testing.T) {
	c := DefaultConstants()
	good := Score(goodTicket(), c)
	bad := Score(badTicket(), c)

	if bad.Score >= good.Score {
		t.Errorf("bad %v should score below good %v", bad.Score, good.Score)
	}
	if bad.Score > 30 {
		t.Errorf("bad ticket score = %v, want <= 30", bad.Score)
	}
	if good.Score < 0 || good.Score > 100 || bad.Score < 0 || bad.Score > 100 {
		t.Errorf("scores out of range: %v, %v", good.Score, bad.Score)
	}
}

func TestScoreEmptyTicket(t *testing.T) {
	r := Score(models.Ticket{}, DefaultConstants())
	if r.Score != 0 {
		t.Errorf("empty ticket score = %v, want 0", r.Score)
	}
	if r.Reasoning != "" || len(r.RiskTags) != 0 {
		t.Errorf("empty ticket should derive nothing: %+v", r)
	}
}

func TestScoreDeterministic(t *testing.T) {
	c := DefaultConstants()
	ticket := goodTicket()

	first := Score(ticket, c)
	second := Score(ticket, c)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("scoring not reproducible:\n%+v\n%+v", first, second)
	}
}

func TestRiskTags(t *testing.T) {
	c := DefaultConstants()

	good := Score(goodTicket(), c)
	wantGood := []string{TagHighVarianceMarkets, TagSafeDoubleChance}
	if !reflect.DeepEqual(good.RiskTags, wantGood) {
		t.Errorf("good ticket tags = %v, want %v", good.RiskTags, wantGood)
	}

	bad := Score(badTicket(), c)
	wantBad := []string{TagHighOddsLeg, TagLongTicket}
	if !reflect.DeepEqual(bad.RiskTags, wantBad) {
		t.Errorf("bad ticket tags = %v, want %v", bad.RiskTags, wantBad)
	}
}

func TestHeatmap(t *testing.T) {
	r := Score(goodTicket(), DefaultConstants())
	if len(r.Heatmap) != 3 {
		t.Fatalf("heatmap families = %d, want 3", len(r.Heatmap))
	}
	cell := r.Heatmap[markets.FamilyBTTS]
	if cell.Count != 1 || cell.Risk != 0.35 {
		t.Errorf("btts cell = %+v", cell)
	}
	dc := r.Heatmap[markets.FamilyDoubleChance]
	if dc.Risk != 0.15 {
		t.Errorf("double chance risk = %v", dc.Risk)
	}
}

func TestApply(t *testing.T) {
	ticket := goodTicket()
	r := Score(ticket, DefaultConstants())
	Apply(&ticket, r)

	if ticket.Score != r.Score || ticket.Reasoning != r.Reasoning {
		t.Errorf("apply did not annotate: %+v", ticket)
	}
	if !reflect.DeepEqual(ticket.Breakdown, r.Breakdown) {
		t.Error("breakdown not applied")
	}
}

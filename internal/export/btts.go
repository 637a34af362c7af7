package export

import (
	"fmt"
	"sort"
	"time"

	"github.com/Vodeneev/ticketbet/internal/ingest"
	"github.com/Vodeneev/ticketbet/internal/pkg/markets"
	"github.com/Vodeneev/ticketbet/internal/pkg/models"
	"github.com/Vodeneev/ticketbet/internal/pkg/oddsmath"
	"github.com/Vodeneev/ticketbet/internal/pool"
	"github.com/Vodeneev/ticketbet/internal/scoring"
)

// BTTSLeagues is the fixed competition list served by the morning
// feed. Membership is what matters; the order is cosmetic.
var BTTSLeagues = []int{39, 140, 135, 3, 14, 2, 848, 38, 78, 79, 61, 62, 218, 88, 89, 203, 40, 119, 136, 736, 207}

// Feed odds window defaults, used when the config leaves it unset.
const (
	DefaultBTTSOddsMin = 1.20
	DefaultBTTSOddsMax = 1.60
)

// maxFeedLegs caps the candidate list before the odds filter.
const maxFeedLegs = 500

// TeamRef identifies one side of a match card.
type TeamRef struct {
	ID    int    `json:"id,omitempty"`
	Name  string `json:"name"`
	Short string `json:"short"`
}

// LeagueRef identifies the competition of a match card.
type LeagueRef struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Short   string `json:"short"`
}

// MatchCard is one feed row: a single BTTS Yes pick.
type MatchCard struct {
	CardID      string         `json:"card_id"`
	FixtureID   int            `json:"fixture_id"`
	League      LeagueRef      `json:"league"`
	Kickoff     time.Time      `json:"kickoff"`
	Home        TeamRef        `json:"home"`
	Away        TeamRef        `json:"away"`
	Market      markets.Code   `json:"market"`
	Family      markets.Family `json:"market_family"`
	PickLabel   string         `json:"pick_label"`
	Odds        float64        `json:"odds"`
	ImpliedProb float64        `json:"implied_probability"`
}

// BTTSMeta describes the feed as a whole.
type BTTSMeta struct {
	MatchesCount int        `json:"matches_count"`
	LeaguesCount int        `json:"leagues_count"`
	Leagues      []int      `json:"leagues,omitempty"`
	OddsRange    [2]float64 `json:"odds_range"`
}

// BTTSFeed is the envelope of btts_feed.json.
type BTTSFeed struct {
	Date        string      `json:"date"`
	GeneratedAt time.Time   `json:"generated_at"`
	Meta        BTTSMeta    `json:"meta"`
	Matches     []MatchCard `json:"matches"`
}

// TeamStatsBlock carries one side's season numbers in the stats
// document. The context fields flatten into the block.
type TeamStatsBlock struct {
	Name string `json:"name"`
	ingest.TeamContext
}

// FixtureStats is the per-fixture block of btts_stats.json.
type FixtureStats struct {
	FixtureID int               `json:"fixture_id"`
	Kickoff   time.Time         `json:"kickoff"`
	League    LeagueRef         `json:"league"`
	Home      TeamStatsBlock    `json:"home"`
	Away      TeamStatsBlock    `json:"away"`
	H2H       ingest.H2HSummary `json:"h2h"`
}

// BTTSStats is the envelope of btts_stats.json. Fixtures are keyed by
// fixture ID rendered as a string, matching the feed consumer.
type BTTSStats struct {
	Date        string                  `json:"date"`
	GeneratedAt time.Time               `json:"generated_at"`
	Fixtures    map[string]FixtureStats `json:"fixtures"`
}

// BTTSBuilder assembles the feed pair.
type BTTSBuilder struct {
	Constants scoring.Constants
	OddsMin   float64
	OddsMax   float64
}

// NewBTTSBuilder returns a builder with the given odds window.
// Non-positive bounds fall back to the defaults.
func NewBTTSBuilder(c scoring.Constants, oddsMin, oddsMax float64) BTTSBuilder {
	if oddsMin <= 0 {
		oddsMin = DefaultBTTSOddsMin
	}
	if oddsMax <= 0 {
		oddsMax = DefaultBTTSOddsMax
	}
	return BTTSBuilder{Constants: c, OddsMin: oddsMin, OddsMax: oddsMax}
}

// Build assembles the feed and stats documents for day. Only fixtures
// from the served leagues with a BTTS Yes quote inside the window make
// the feed, ordered by kickoff and then by odds ascending. Fixtures
// without cached context still get a card; their stats block just
// stays thin.
func (b BTTSBuilder) Build(day, now time.Time, fixtures []models.Fixture, odds []models.FixtureOdds, contexts map[int]ingest.Context) (BTTSFeed, BTTSStats) {
	feed := BTTSFeed{
		Date:        day.Format("2006-01-02"),
		GeneratedAt: now.UTC(),
		Meta:        BTTSMeta{OddsRange: [2]float64{b.OddsMin, b.OddsMax}},
	}
	stats := BTTSStats{
		Date:        feed.Date,
		GeneratedAt: feed.GeneratedAt,
		Fixtures:    map[string]FixtureStats{},
	}

	served := servedFixtures(fixtures)
	if len(served) == 0 || len(odds) == 0 {
		return feed, stats
	}

	spec, _ := markets.ByCode(markets.BTTSYes)
	candidates := pool.MarketExtractor(spec, b.Constants).Run(served, pool.IndexOdds(odds), maxFeedLegs)

	legs := candidates[:0:0]
	for _, leg := range candidates {
		if leg.Odds >= b.OddsMin && leg.Odds <= b.OddsMax {
			legs = append(legs, leg)
		}
	}
	sort.SliceStable(legs, func(i, j int) bool {
		if !legs[i].Kickoff.Equal(legs[j].Kickoff) {
			return legs[i].Kickoff.Before(legs[j].Kickoff)
		}
		return legs[i].Odds < legs[j].Odds
	})

	byID := make(map[int]models.Fixture, len(served))
	for _, fx := range served {
		byID[fx.ID] = fx
	}

	leagueIDs := map[int]bool{}
	for _, leg := range legs {
		fx := byID[leg.FixtureID]
		feed.Matches = append(feed.Matches, matchCard(leg, fx))
		stats.Fixtures[fmt.Sprintf("%d", leg.FixtureID)] = fixtureStats(leg, fx, contexts[leg.FixtureID])
		leagueIDs[leg.LeagueID] = true
	}

	feed.Meta.MatchesCount = len(feed.Matches)
	feed.Meta.LeaguesCount = len(leagueIDs)
	for id := range leagueIDs {
		feed.Meta.Leagues = append(feed.Meta.Leagues, id)
	}
	sort.Ints(feed.Meta.Leagues)

	return feed, stats
}

func servedFixtures(fixtures []models.Fixture) []models.Fixture {
	member := make(map[int]bool, len(BTTSLeagues))
	for _, id := range BTTSLeagues {
		member[id] = true
	}
	var out []models.Fixture
	for _, fx := range fixtures {
		if member[fx.LeagueID] {
			out = append(out, fx)
		}
	}
	return out
}

func matchCard(leg models.Leg, fx models.Fixture) MatchCard {
	return MatchCard{
		CardID:    fmt.Sprintf("BTTS-%d", leg.FixtureID),
		FixtureID: leg.FixtureID,
		League: LeagueRef{
			ID:      leg.LeagueID,
			Name:    leg.LeagueName,
			Country: leg.LeagueCountry,
			Short:   leg.LeagueName,
		},
		Kickoff:     leg.Kickoff,
		Home:        TeamRef{ID: fx.HomeID, Name: leg.Home, Short: leg.Home},
		Away:        TeamRef{ID: fx.AwayID, Name: leg.Away, Short: leg.Away},
		Market:      leg.Market,
		Family:      leg.Family,
		PickLabel:   leg.Pick,
		Odds:        leg.Odds,
		ImpliedProb: oddsmath.Implied(leg.Odds),
	}
}

func fixtureStats(leg models.Leg, fx models.Fixture, ctx ingest.Context) FixtureStats {
	return FixtureStats{
		FixtureID: leg.FixtureID,
		Kickoff:   leg.Kickoff,
		League: LeagueRef{
			ID:      leg.LeagueID,
			Name:    leg.LeagueName,
			Country: leg.LeagueCountry,
			Short:   leg.LeagueName,
		},
		Home: TeamStatsBlock{Name: leg.Home, TeamContext: ctx.Home},
		Away: TeamStatsBlock{Name: leg.Away, TeamContext: ctx.Away},
		H2H:  ctx.H2H,
	}
}

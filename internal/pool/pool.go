// Package pool turns the day's fixtures and collapsed odds into the
// candidate leg pool a ticket set draws from. Each canonical market
// has an extractor; the pool builder runs the configured extractors,
// deduplicates on (fixture, market) and orders the merged pool so the
// greedy constructor sees the strongest candidates first.
package pool

import (
	"log/slog"
	"sort"

	"github.com/Vodeneev/ticketbet/internal/pkg/leagues"
	"github.com/Vodeneev/ticketbet/internal/pkg/markets"
	"github.com/Vodeneev/ticketbet/internal/pkg/models"
	"github.com/Vodeneev/ticketbet/internal/scoring"
)

// DefaultMaxPerMarket caps how many legs a single market contributes
// before merging.
const DefaultMaxPerMarket = 150

// Extractor produces the candidate legs for one market.
type Extractor struct {
	Market markets.Code
	Run    func(fixtures []models.Fixture, odds map[int]models.FixtureOdds, maxLegs int) []models.Leg
}

// Builder merges extractor output into one prioritized pool.
type Builder struct {
	extractors   []Extractor
	maxPerMarket int
}

// New returns a pool builder running the standard extractor for each
// requested market. Unknown codes are logged and skipped.
func New(c scoring.Constants, codes []markets.Code) *Builder {
	b := &Builder{maxPerMarket: DefaultMaxPerMarket}
	for _, code := range codes {
		spec, ok := markets.ByCode(code)
		if !ok {
			slog.Warn("unknown market in pool config, skipping", "market", code)
			continue
		}
		b.extractors = append(b.extractors, MarketExtractor(spec, c))
	}
	return b
}

// IndexOdds groups collapsed odds by fixture id.
func IndexOdds(odds []models.FixtureOdds) map[int]models.FixtureOdds {
	index := make(map[int]models.FixtureOdds, len(odds))
	for _, fo := range odds {
		index[fo.FixtureID] = fo
	}
	return index
}

// Build runs every extractor over the input and merges the results.
// Duplicate (fixture, market) keys keep the first occurrence. The
// merged pool is sorted by competition weight, then leg quality, then
// kickoff, so greedy consumption spends fixture slots on the
// strongest candidates.
func (b *Builder) Build(fixtures []models.Fixture, odds []models.FixtureOdds) []models.Leg {
	index := IndexOdds(odds)

	type legKey struct {
		fixture int
		market  markets.Code
	}
	seen := make(map[legKey]struct{})
	var pool []models.Leg

	for _, ex := range b.extractors {
		for _, leg := range b.runExtractor(ex, fixtures, index) {
			key := legKey{leg.FixtureID, leg.Market}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			pool = append(pool, leg)
		}
	}

	sort.SliceStable(pool, func(i, j int) bool {
		wi, wj := leagues.Weight(pool[i].LeagueID), leagues.Weight(pool[j].LeagueID)
		if wi != wj {
			return wi > wj
		}
		if pool[i].Quality != pool[j].Quality {
			return pool[i].Quality > pool[j].Quality
		}
		return pool[i].Kickoff.Before(pool[j].Kickoff)
	})
	return pool
}

// runExtractor contains a panicking extractor: one broken market must
// not take down the whole pool.
func (b *Builder) runExtractor(ex Extractor, fixtures []models.Fixture, odds map[int]models.FixtureOdds) (legs []models.Leg) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("market extractor panicked", "market", ex.Market, "panic", r)
			legs = nil
		}
	}()
	return ex.Run(fixtures, odds, b.maxPerMarket)
}

// MarketExtractor returns the standard extractor for one market:
// every playable fixture with a usable quote becomes a leg, sorted by
// kickoff then descending odds, capped at maxLegs.
func MarketExtractor(spec markets.Spec, c scoring.Constants) Extractor {
	return Extractor{
		Market: spec.Code,
		Run: func(fixtures []models.Fixture, odds map[int]models.FixtureOdds, maxLegs int) []models.Leg {
			var legs []models.Leg
			for _, fx := range fixtures {
				leg, ok := BuildLeg(fx, odds[fx.ID], spec, c)
				if !ok {
					continue
				}
				legs = append(legs, leg)
			}

			sort.SliceStable(legs, func(i, j int) bool {
				if !legs[i].Kickoff.Equal(legs[j].Kickoff) {
					return legs[i].Kickoff.Before(legs[j].Kickoff)
				}
				return legs[i].Odds > legs[j].Odds
			})
			if maxLegs > 0 && len(legs) > maxLegs {
				legs = legs[:maxLegs]
			}
			return legs
		},
	}
}

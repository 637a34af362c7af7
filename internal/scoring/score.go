package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Vodeneev/ticketbet/internal/pkg/leagues"
	"github.com/Vodeneev/ticketbet/internal/pkg/markets"
	"github.com/Vodeneev/ticketbet/internal/pkg/models"
	"github.com/Vodeneev/ticketbet/internal/pkg/oddsmath"
)

// Breakdown keys, one per scoring factor.
const (
	FactorCompetition   = "competition"
	FactorOddsSweetSpot = "odds_sweet_spot"
	FactorLength        = "length"
	FactorDiversity     = "diversity"
	FactorTotalOdds     = "total_odds"
	FactorCompactness   = "kickoff_compactness"
	FactorTopShare      = "top_competitions"
	FactorWorstLeg      = "worst_leg"
	FactorLegQuality    = "leg_quality"
)

// factorOrder fixes the canonical factor sequence. Reasoning ties and
// the composite sum both follow it, which keeps output reproducible.
var factorOrder = []string{
	FactorCompetition,
	FactorOddsSweetSpot,
	FactorLength,
	FactorDiversity,
	FactorTotalOdds,
	FactorCompactness,
	FactorTopShare,
	FactorWorstLeg,
	FactorLegQuality,
}

var factorPhrases = map[string]string{
	FactorCompetition:   "solid competition tier",
	FactorOddsSweetSpot: "leg odds in the sweet spot",
	FactorLength:        "favorable ticket length",
	FactorDiversity:     "good market mix",
	FactorTotalOdds:     "total odds on target",
	FactorCompactness:   "compact kickoff schedule",
	FactorTopShare:      "high top-league share",
	FactorWorstLeg:      "no risky single leg",
	FactorLegQuality:    "strong individual legs",
}

// Fixed per-family risk weights for the heat-map. Half-time and BTTS
// markets swing on single events and carry the most variance; double
// chance is the safest pick on the board.
var familyRisk = map[markets.Family]float64{
	markets.FamilyDoubleChance: 0.15,
	markets.FamilyGoals:        0.25,
	markets.FamilyGoalsUnder:   0.25,
	markets.FamilyResult:       0.30,
	markets.FamilyBTTS:         0.35,
	markets.FamilyHalfTime:     0.40,
}

// highVarianceRisk marks the family risk level worth a ticket tag.
const highVarianceRisk = 0.35

// Risk tags attached to scored tickets.
const (
	TagHighVarianceMarkets = "HIGH_VARIANCE_MARKETS"
	TagSafeDoubleChance    = "SAFE_DOUBLE_CHANCE"
	TagHighOddsLeg         = "HIGH_ODDS_LEG"
	TagLongTicket          = "LONG_TICKET"
)

// ScoreResult is everything the scorer derives for one ticket.
type ScoreResult struct {
	Score     float64
	Breakdown map[string]float64
	Reasoning string
	RiskTags  []string
	Heatmap   map[markets.Family]models.FamilyRisk
}

// Score rates a ticket on a 0-100 scale as the weighted average of
// nine named factors, each itself 0-100. The result also carries a
// reasoning line built from the strongest weighted contributions, the
// ticket's risk tags and the per-family risk heat-map. Scoring is
// fully deterministic; an empty ticket scores zero.
func Score(t models.Ticket, c Constants) ScoreResult {
	if len(t.Legs) == 0 {
		return ScoreResult{}
	}

	n := float64(len(t.Legs))
	families := t.FamilyCounts()

	var weightSum, oddsSum, qualitySum, topCount, maxOdds float64
	earliest, latest := t.Legs[0].Kickoff, t.Legs[0].Kickoff
	odds := make([]float64, 0, len(t.Legs))
	for _, leg := range t.Legs {
		weightSum += leagues.Weight(leg.LeagueID)
		oddsSum += leg.Odds
		qualitySum += leg.Quality
		if leagues.IsTop(leg.LeagueID) {
			topCount++
		}
		if leg.Odds > maxOdds {
			maxOdds = leg.Odds
		}
		if leg.Kickoff.Before(earliest) {
			earliest = leg.Kickoff
		}
		if leg.Kickoff.After(latest) {
			latest = leg.Kickoff
		}
		odds = append(odds, leg.Odds)
	}
	total, _ := oddsmath.Product(odds).Float64()

	breakdown := map[string]float64{
		FactorCompetition:   round1(weightSum / n * 100),
		FactorOddsSweetSpot: round1(falloff(oddsSum/n, c.IdealLegOdds, 200)),
		FactorLength:        lengthScore(len(t.Legs)),
		FactorDiversity:     diversityScore(len(families)),
		FactorTotalOdds:     round1(falloff(total, c.IdealTotalOdds, 60)),
		FactorCompactness:   round1(compactnessScore(latest.Sub(earliest).Hours())),
		FactorTopShare:      round1(topCount / n * 100),
		FactorWorstLeg:      round1(worstLegScore(maxOdds, c.SafeOddsMax)),
		FactorLegQuality:    round1(qualitySum / n),
	}

	weights := c.Weights.byName()
	composite := 0.0
	for _, f := range factorOrder {
		composite += weights[f] * breakdown[f]
	}

	return ScoreResult{
		Score:     clamp(round1(composite), 0, 100),
		Breakdown: breakdown,
		Reasoning: reasoning(breakdown, weights),
		RiskTags:  riskTags(t, families, maxOdds, c),
		Heatmap:   heatmap(families),
	}
}

// Apply writes a score result back onto the ticket.
func Apply(t *models.Ticket, r ScoreResult) {
	t.Score = r.Score
	t.Breakdown = r.Breakdown
	t.Reasoning = r.Reasoning
	t.RiskTags = r.RiskTags
	t.Heatmap = r.Heatmap
}

func (w Weights) byName() map[string]float64 {
	return map[string]float64{
		FactorCompetition:   w.Competition,
		FactorOddsSweetSpot: w.OddsSweetSpot,
		FactorLength:        w.Length,
		FactorDiversity:     w.Diversity,
		FactorTotalOdds:     w.TotalOdds,
		FactorCompactness:   w.Compactness,
		FactorTopShare:      w.TopShare,
		FactorWorstLeg:      w.WorstLeg,
		FactorLegQuality:    w.LegQuality,
	}
}

// falloff scores 100 at the ideal value and drops linearly with
// distance at the given slope per unit.
func falloff(v, ideal, slope float64) float64 {
	return clamp(100-math.Abs(v-ideal)*slope, 0, 100)
}

// lengthScore favors three legs: enough combination value without
// stacking failure odds.
func lengthScore(legs int) float64 {
	switch legs {
	case 1:
		return 40
	case 2:
		return 75
	case 3:
		return 100
	case 4:
		return 70
	case 5:
		return 45
	default:
		return 25
	}
}

func diversityScore(families int) float64 {
	switch {
	case families >= 3:
		return 100
	case families == 2:
		return 70
	default:
		return 30
	}
}

// compactnessScore rewards tickets whose matches kick off close
// together. Anything within two hours is ideal; beyond that the score
// decays and a spread over half a day is worthless.
func compactnessScore(spanHours float64) float64 {
	if spanHours <= 2 {
		return 100
	}
	return clamp(100-(spanHours-2)*10, 0, 100)
}

// worstLegScore penalizes the single riskiest pick: one leg above the
// safe ceiling drags the whole ticket no matter how tame the rest is.
func worstLegScore(maxOdds, safeMax float64) float64 {
	if maxOdds <= safeMax {
		return 100
	}
	return clamp(100-(maxOdds-safeMax)*250, 0, 100)
}

// reasoning names the three strongest weighted contributions, in a
// fixed order for equal contributions.
func reasoning(breakdown, weights map[string]float64) string {
	type contribution struct {
		factor   string
		weighted float64
	}
	contribs := make([]contribution, 0, len(factorOrder))
	for _, f := range factorOrder {
		contribs = append(contribs, contribution{factor: f, weighted: weights[f] * breakdown[f]})
	}
	sort.SliceStable(contribs, func(i, j int) bool { return contribs[i].weighted > contribs[j].weighted })

	top := contribs
	if len(top) > 3 {
		top = top[:3]
	}
	parts := make([]string, 0, len(top))
	for _, c := range top {
		parts = append(parts, fmt.Sprintf("%s (%.0f)", factorPhrases[c.factor], breakdown[c.factor]))
	}
	return strings.Join(parts, "; ")
}

func riskTags(t models.Ticket, families map[markets.Family]int, maxOdds float64, c Constants) []string {
	var tags []string

	for family := range families {
		if familyRisk[family] >= highVarianceRisk {
			tags = append(tags, TagHighVarianceMarkets)
			break
		}
	}
	if _, ok := families[markets.FamilyDoubleChance]; ok {
		tags = append(tags, TagSafeDoubleChance)
	}
	if maxOdds > c.SafeOddsMax {
		tags = append(tags, TagHighOddsLeg)
	}
	if len(t.Legs) >= 5 {
		tags = append(tags, TagLongTicket)
	}
	return tags
}

func heatmap(families map[markets.Family]int) map[markets.Family]models.FamilyRisk {
	heat := make(map[markets.Family]models.FamilyRisk, len(families))
	for family, count := range families {
		heat[family] = models.FamilyRisk{Count: count, Risk: familyRisk[family]}
	}
	return heat
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

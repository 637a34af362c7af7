// Package markets defines the canonical betting markets the pipeline works with.
// Upstream odds come in as free-form (bet name, outcome label) pairs per bookmaker;
// everything downstream (pool building, ticket construction, settlement) speaks
// canonical codes, so the mapping from upstream labels lives here and nowhere else.
package markets

import (
	"sort"
	"strconv"
	"strings"
)

// Code identifies one canonical market outcome.
type Code string

const (
	Home     Code = "HOME"
	Draw     Code = "DRAW"
	Away     Code = "AWAY"
	DC1X     Code = "DC_1X"
	DCX2     Code = "DC_X2"
	DC12     Code = "DC_12"
	Over15   Code = "O15"
	Over25   Code = "O25"
	Over35   Code = "O35"
	Under35  Code = "U35"
	HTOver05 Code = "HT_O05"
	BTTSYes  Code = "BTTS_YES"
	BTTSNo   Code = "BTTS_NO"
)

// Family groups markets for the per-ticket diversity caps.
type Family string

const (
	FamilyResult       Family = "RESULT"
	FamilyDoubleChance Family = "DOUBLE_CHANCE"
	FamilyGoals        Family = "GOALS"
	FamilyGoalsUnder   Family = "GOALS_UNDER"
	FamilyHalfTime     Family = "HT_GOALS"
	FamilyBTTS         Family = "BTTS"
)

// Spec describes one canonical market: how it appears in the upstream odds
// feed (bet name + outcome label) and how it is shown to users (pick label).
type Spec struct {
	Code       Code
	Family     Family
	BetName    string // upstream bet name, e.g. "Goals Over/Under"
	ValueLabel string // upstream outcome label, e.g. "Over 2.5"
	PickLabel  string // display label, e.g. "Over 2.5 Goals"
}

var specs = map[Code]Spec{
	Home:     {Home, FamilyResult, "Match Winner", "Home", "Home Win"},
	Draw:     {Draw, FamilyResult, "Match Winner", "Draw", "Draw"},
	Away:     {Away, FamilyResult, "Match Winner", "Away", "Away Win"},
	DC1X:     {DC1X, FamilyDoubleChance, "Double Chance", "Home/Draw", "Double Chance 1X"},
	DCX2:     {DCX2, FamilyDoubleChance, "Double Chance", "Draw/Away", "Double Chance X2"},
	DC12:     {DC12, FamilyDoubleChance, "Double Chance", "Home/Away", "Double Chance 12"},
	Over15:   {Over15, FamilyGoals, "Goals Over/Under", "Over 1.5", "Over 1.5 Goals"},
	Over25:   {Over25, FamilyGoals, "Goals Over/Under", "Over 2.5", "Over 2.5 Goals"},
	Over35:   {Over35, FamilyGoals, "Goals Over/Under", "Over 3.5", "Over 3.5 Goals"},
	Under35:  {Under35, FamilyGoalsUnder, "Goals Over/Under", "Under 3.5", "Under 3.5 Goals"},
	HTOver05: {HTOver05, FamilyHalfTime, "Goals Over/Under 1st Half", "Over 0.5", "HT Over 0.5 Goals"},
	BTTSYes:  {BTTSYes, FamilyBTTS, "Both Teams To Score", "Yes", "Both Teams To Score - Yes"},
	BTTSNo:   {BTTSNo, FamilyBTTS, "Both Teams To Score", "No", "Both Teams To Score - No"},
}

// ByCode returns the spec for a canonical code.
func ByCode(code Code) (Spec, bool) {
	s, ok := specs[code]
	return s, ok
}

// FamilyOf returns the market family for a code, or "" if unknown.
func FamilyOf(code Code) Family {
	if s, ok := specs[code]; ok {
		return s.Family
	}
	return ""
}

// All returns every known spec in stable (code-sorted) order.
func All() []Spec {
	out := make([]Spec, 0, len(specs))
	for _, s := range specs {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Known reports whether code is a canonical market code.
func Known(code Code) bool {
	_, ok := specs[code]
	return ok
}

// FromBetLabel maps an upstream (bet name, outcome label) pair to a canonical
// code. Labels vary per bookmaker ("Home" vs "1", "Home/Draw" vs "1X"), so the
// match is case-insensitive and accepts the variants seen in the wild.
// Returns false for anything outside the canonical set.
func FromBetLabel(betName, label string) (Code, bool) {
	bn := strings.ToLower(strings.TrimSpace(betName))
	lv := strings.ToLower(strings.TrimSpace(label))

	switch {
	case bn == "match winner":
		switch lv {
		case "home", "1":
			return Home, true
		case "draw", "x":
			return Draw, true
		case "away", "2":
			return Away, true
		}
		return "", false

	case bn == "double chance":
		switch lv {
		case "1x", "1 or draw", "home/draw":
			return DC1X, true
		case "x2", "2x", "draw or 2", "draw/away":
			return DCX2, true
		case "12", "1 or 2", "home/away":
			return DC12, true
		}
		return "", false

	case bn == "goals over/under":
		side, line, ok := splitOverUnder(lv)
		if !ok {
			return "", false
		}
		if side == "over" {
			switch {
			case near(line, 1.5):
				return Over15, true
			case near(line, 2.5):
				return Over25, true
			case near(line, 3.5):
				return Over35, true
			}
		}
		if side == "under" && near(line, 3.5) {
			return Under35, true
		}
		return "", false

	case strings.Contains(bn, "1st half"):
		if strings.Contains(lv, "over") && strings.Contains(lv, "0.5") {
			return HTOver05, true
		}
		return "", false

	case strings.Contains(bn, "both teams to score") || strings.Contains(bn, "both teams score") || strings.Contains(bn, "btts"):
		switch lv {
		case "yes", "gg", "goal":
			return BTTSYes, true
		case "no", "ng", "nogoal":
			return BTTSNo, true
		}
		return "", false
	}

	return "", false
}

func splitOverUnder(label string) (side string, line float64, ok bool) {
	parts := strings.Fields(label)
	if len(parts) != 2 {
		return "", 0, false
	}
	v, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", 0, false
	}
	return parts[0], v, true
}

func near(v, target float64) bool {
	d := v - target
	return d > -0.01 && d < 0.01
}

// Package builder assembles the day's tickets. A static table of named
// set configurations drives the whole stage: each configuration scopes
// the leg pool to its markets and hands it to either the deterministic
// greedy constructor or the seeded random mixer, with a fallback
// ladder that trades fleet size for having any output at all on thin
// days.
package builder

import (
	"github.com/Vodeneev/ticketbet/internal/pkg/markets"
)

// Strategy selects how a configuration turns its pool into tickets.
type Strategy string

const (
	// StrategyGreedy consumes the pool in priority order and is fully
	// deterministic for a given pool.
	StrategyGreedy Strategy = "greedy"
	// StrategyMixer samples random combinations from a seeded source.
	StrategyMixer Strategy = "mixer"
)

// SetConfig describes one named ticket-set configuration.
type SetConfig struct {
	Code       string
	Label      string
	Markets    []markets.Code
	LegsMin    int
	LegsMax    int
	TargetMin  float64
	TargetMax  float64
	MaxTickets int
	FamilyCap  int
	Strategy   Strategy
}

// DefaultSets returns the production configuration table: ten classic
// sets built greedily plus three randomized MIX sets. Order is the
// publication order.
func DefaultSets() []SetConfig {
	return []SetConfig{
		{
			Code:       "SET_GOALS_MIX",
			Label:      "[GOALS MIX]",
			Markets:    []markets.Code{markets.Over15, markets.Over25, markets.Under35},
			LegsMin:    3,
			LegsMax:    5,
			TargetMin:  2.0,
			TargetMax:  3.0,
			MaxTickets: 3,
			FamilyCap:  2,
			Strategy:   StrategyGreedy,
		},
		{
			Code:       "SET_O15",
			Label:      "[OVER 1.5]",
			Markets:    []markets.Code{markets.Over15},
			LegsMin:    3,
			LegsMax:    5,
			TargetMin:  2.0,
			TargetMax:  3.0,
			MaxTickets: 3,
			FamilyCap:  3,
			Strategy:   StrategyGreedy,
		},
		{
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
		},
		{
			Code:       "SET_O35",
			Label:      "[OVER 3.5]",
			Markets:    []markets.Code{markets.Over35},
			LegsMin:    3,
			LegsMax:    5,
			TargetMin:  2.0,
			TargetMax:  3.0,
			MaxTickets: 3,
			FamilyCap:  3,
			Strategy:   StrategyGreedy,
		},
		{
			Code:       "SET_UNDER",
			Label:      "[UNDER 3.5]",
			Markets:    []markets.Code{markets.Under35},
			LegsMin:    3,
			LegsMax:    5,
			TargetMin:  2.0,
			TargetMax:  3.0,
			MaxTickets: 3,
			FamilyCap:  3,
			Strategy:   StrategyGreedy,
		},
		{
			Code:       "SET_HOME_DC",
			Label:      "[HOME/DC MIX]",
			Markets:    []markets.Code{markets.Home, markets.DC1X, markets.DCX2},
			LegsMin:    3,
			LegsMax:    5,
			TargetMin:  2.0,
			TargetMax:  3.0,
			MaxTickets: 3,
			FamilyCap:  2,
			Strategy:   StrategyGreedy,
		},
		{
			Code:       "SET_AWAY_DRAW",
			Label:      "[AWAY/DRAW MIX]",
			Markets:    []markets.Code{markets.Away, markets.Draw},
			LegsMin:    3,
			LegsMax:    5,
			TargetMin:  2.0,
			TargetMax:  3.0,
			MaxTickets: 3,
			FamilyCap:  2,
			Strategy:   StrategyGreedy,
		},
		{
			Code:       "SET_BTTS_YES",
			Label:      "[BTTS YES]",
			Markets:    []markets.Code{markets.BTTSYes},
			LegsMin:    3,
			LegsMax:    5,
			TargetMin:  2.0,
			TargetMax:  3.0,
			MaxTickets: 3,
			FamilyCap:  3,
			Strategy:   StrategyGreedy,
		},
		{
			Code:       "SET_BTTS_NO",
			Label:      "[BTTS NO]",
			Markets:    []markets.Code{markets.BTTSNo},
			LegsMin:    3,
			LegsMax:    5,
			TargetMin:  2.0,
			TargetMax:  3.0,
			MaxTickets: 3,
			FamilyCap:  3,
			Strategy:   StrategyGreedy,
		},
		{
			Code:       "SET_HT",
			Label:      "[HT O0.5]",
			Markets:    []markets.Code{markets.HTOver05},
			LegsMin:    3,
			LegsMax:    5,
			TargetMin:  2.0,
			TargetMax:  3.0,
			MaxTickets: 3,
			FamilyCap:  3,
			Strategy:   StrategyGreedy,
		},
		{
			Code:       "SET_MIX_O15_O25",
			Label:      "[MIX] Over 1.5 + Over 2.5",
			Markets:    []markets.Code{markets.Over15, markets.Over25},
			LegsMin:    2,
			LegsMax:    4,
			TargetMin:  2.0,
			TargetMax:  3.2,
			MaxTickets: 3,
			FamilyCap:  2,
			Strategy:   StrategyMixer,
		},
		{
			Code:       "SET_MIX_U35_BTTS",
			Label:      "[MIX] Under 3.5 + BTTS",
			Markets:    []markets.Code{markets.Under35, markets.BTTSYes, markets.BTTSNo},
			LegsMin:    2,
			LegsMax:    4,
			TargetMin:  2.0,
			TargetMax:  3.5,
			MaxTickets: 3,
			FamilyCap:  2,
			Strategy:   StrategyMixer,
		},
		{
			Code:       "SET_MIX_HOME_DC",
			Label:      "[MIX] Home Win + DC",
			Markets:    []markets.Code{markets.Home, markets.DC1X, markets.DCX2},
			LegsMin:    2,
			LegsMax:    4,
			TargetMin:  2.0,
			TargetMax:  3.0,
			MaxTickets: 3,
			FamilyCap:  2,
			Strategy:   StrategyMixer,
		},
	}
}

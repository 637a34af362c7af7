package models

import (
	"time"
)

// Fixture status short codes as reported by the data provider.
const (
	StatusNotStarted = "NS"
	StatusTBD        = "TBD"
	StatusFullTime   = "FT"
	StatusExtraTime  = "AET"
	StatusPenalties  = "PEN"
	StatusCancelled  = "CANC"
	StatusAbandoned  = "ABD"
	StatusPostponed  = "PST"
	StatusAwarded    = "AWD"
	StatusWalkover   = "WO"
)

// Fixture represents one cleaned scheduled match for a batch day.
type Fixture struct {
	ID            int       `json:"fixture_id"`
	LeagueID      int       `json:"league_id"`
	LeagueName    string    `json:"league_name,omitempty"`
	LeagueCountry string    `json:"league_country,omitempty"`
	Season        int       `json:"season,omitempty"`
	Home          string    `json:"home"`
	Away          string    `json:"away"`
	HomeID        int       `json:"home_id,omitempty"`
	AwayID        int       `json:"away_id,omitempty"`
	Kickoff       time.Time `json:"kickoff"`
	Status        string    `json:"status,omitempty"`

	// Final and halftime scores, present only once the match has results.
	GoalsHome    *int `json:"goals_home,omitempty"`
	GoalsAway    *int `json:"goals_away,omitempty"`
	HalftimeHome *int `json:"halftime_home,omitempty"`
	HalftimeAway *int `json:"halftime_away,omitempty"`
}

// Playable reports whether the match has not started yet and can still
// be used for ticket construction.
func (f Fixture) Playable() bool {
	switch f.Status {
	case "", StatusNotStarted, StatusTBD:
		return true
	}
	return false
}

// Finished reports whether the match ended with a usable result.
func (f Fixture) Finished() bool {
	switch f.Status {
	case StatusFullTime, StatusExtraTime, StatusPenalties:
		return true
	}
	return false
}

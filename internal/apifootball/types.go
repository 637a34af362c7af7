package apifootball

import (
	"encoding/json"
	"strings"
)

// Envelope mirrors the provider's uniform response wrapper. Errors is
// kept raw because the provider sends an empty array on success and an
// object keyed by error kind on failure.
type Envelope struct {
	Get      string          `json:"get"`
	Errors   json.RawMessage `json:"errors"`
	Results  int             `json:"results"`
	Paging   Paging          `json:"paging"`
	Response json.RawMessage `json:"response"`
}

type Paging struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// HasErrors reports whether the provider attached any error payload.
func (e *Envelope) HasErrors() bool {
	s := strings.TrimSpace(string(e.Errors))
	switch s {
	case "", "[]", "{}", "null":
		return false
	}
	return true
}

// TeamRef identifies one team inside a fixture or standings row.
type TeamRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// FixtureItem is one entry of /fixtures or /fixtures/headtohead.
type FixtureItem struct {
	Fixture struct {
		ID     int    `json:"id"`
		Date   string `json:"date"`
		Status struct {
			Short string `json:"short"`
		} `json:"status"`
	} `json:"fixture"`
	League struct {
		ID      int    `json:"id"`
		Name    string `json:"name"`
		Country string `json:"country"`
		Season  int    `json:"season"`
	} `json:"league"`
	Teams struct {
		Home TeamRef `json:"home"`
		Away TeamRef `json:"away"`
	} `json:"teams"`
	Goals struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"goals"`
	Score struct {
		Halftime struct {
			Home *int `json:"home"`
			Away *int `json:"away"`
		} `json:"halftime"`
	} `json:"score"`
}

// OddsItem is one entry of /odds: every bookmaker's prices for one
// fixture. Odd values arrive as strings and are parsed downstream.
type OddsItem struct {
	Fixture struct {
		ID int `json:"id"`
	} `json:"fixture"`
	League struct {
		ID     int `json:"id"`
		Season int `json:"season"`
	} `json:"league"`
	Bookmakers []Bookmaker `json:"bookmakers"`
}

type Bookmaker struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Bets []Bet  `json:"bets"`
}

type Bet struct {
	ID     int        `json:"id"`
	Name   string     `json:"name"`
	Values []BetValue `json:"values"`
}

type BetValue struct {
	Value string `json:"value"`
	Odd   string `json:"odd"`
}

// StandingRow is one flattened row of /standings.
type StandingRow struct {
	Rank      int     `json:"rank"`
	Team      TeamRef `json:"team"`
	Points    int     `json:"points"`
	GoalsDiff int     `json:"goalsDiff"`
	Form      string  `json:"form"`
	All       struct {
		Played int `json:"played"`
		Win    int `json:"win"`
		Draw   int `json:"draw"`
		Lose   int `json:"lose"`
		Goals  struct {
			For     int `json:"for"`
			Against int `json:"against"`
		} `json:"goals"`
	} `json:"all"`
}

// standingsEntry is the nested league wrapper around standings groups.
type standingsEntry struct {
	League struct {
		ID        int             `json:"id"`
		Season    int             `json:"season"`
		Standings [][]StandingRow `json:"standings"`
	} `json:"league"`
}

// TeamStats is the subset of /teams/statistics the pipeline consumes.
// Goal averages arrive as strings ("1.8") and are parsed downstream.
type TeamStats struct {
	Form     string `json:"form"`
	Fixtures struct {
		Played struct {
			Total int `json:"total"`
		} `json:"played"`
		Wins struct {
			Total int `json:"total"`
		} `json:"wins"`
		Draws struct {
			Total int `json:"total"`
		} `json:"draws"`
		Loses struct {
			Total int `json:"total"`
		} `json:"loses"`
	} `json:"fixtures"`
	Goals struct {
		For     goalsSide `json:"for"`
		Against goalsSide `json:"against"`
	} `json:"goals"`
}

type goalsSide struct {
	Average struct {
		Total string `json:"total"`
	} `json:"average"`
}

// RateLimit echoes the provider's quota headers.
type RateLimit struct {
	Limit     string `json:"limit"`
	Remaining string `json:"remaining"`
	Reset     string `json:"reset"`
}

// StatusInfo is the result of the /status health probe.
type StatusInfo struct {
	OK        bool            `json:"ok"`
	Account   json.RawMessage `json:"account"`
	RateLimit RateLimit       `json:"rate_limit"`
}

package models

import (
	"testing"
	"time"

	"github.com/Vodeneev/ticketbet/internal/pkg/markets"
)

func TestLegValid(t *testing.T) {
	base := Leg{
		FixtureID: 101,
		LeagueID:  39,
		Home:      "Arsenal",
		Away:      "Chelsea",
		Kickoff:   time.Date(2025, 11, 2, 15, 0, 0, 0, time.UTC),
		Market:    markets.Over15,
		Family:    markets.FamilyGoals,
		Odds:      1.25,
	}

	tests := []struct {
		name   string
		mutate func(*Leg)
		want   bool
	}{
		{"complete leg", func(l *Leg) {}, true},
		{"odds exactly 1.0", func(l *Leg) { l.Odds = 1.0 }, false},
		{"odds below 1.0", func(l *Leg) { l.Odds = 0.95 }, false},
		{"missing fixture id", func(l *Leg) { l.FixtureID = 0 }, false},
		{"missing league id", func(l *Leg) { l.LeagueID = 0 }, false},
		{"missing market", func(l *Leg) { l.Market = "" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leg := base
			tt.mutate(&leg)
			if got := leg.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFixtureStatus(t *testing.T) {
	tests := []struct {
		status   string
		playable bool
		finished bool
	}{
		{"", true, false},
		{StatusNotStarted, true, false},
		{StatusTBD, true, false},
		{StatusFullTime, false, true},
		{StatusExtraTime, false, true},
		{StatusPenalties, false, true},
		{StatusCancelled, false, false},
		{StatusPostponed, false, false},
		{"1H", false, false},
	}
	for _, tt := range tests {
		f := Fixture{Status: tt.status}
		if got := f.Playable(); got != tt.playable {
			t.Errorf("Playable(%q) = %v, want %v", tt.status, got, tt.playable)
		}
		if got := f.Finished(); got != tt.finished {
			t.Errorf("Finished(%q) = %v, want %v", tt.status, got, tt.finished)
		}
	}
}

func TestTicketHelpers(t *testing.T) {
	ticket := Ticket{
		Legs: []Leg{
			{FixtureID: 1, Family: markets.FamilyGoals},
			{FixtureID: 2, Family: markets.FamilyGoals},
			{FixtureID: 3, Family: markets.FamilyBTTS},
		},
	}

	if !ticket.HasFixture(2) {
		t.Error("expected fixture 2 in ticket")
	}
	if ticket.HasFixture(4) {
		t.Error("fixture 4 should not be in ticket")
	}

	counts := ticket.FamilyCounts()
	if counts[markets.FamilyGoals] != 2 {
		t.Errorf("GOALS count = %d, want 2", counts[markets.FamilyGoals])
	}
	if counts[markets.FamilyBTTS] != 1 {
		t.Errorf("BTTS count = %d, want 1", counts[markets.FamilyBTTS])
	}
}

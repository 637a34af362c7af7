package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Vodeneev/ticketbet/internal/ingest"
	"github.com/Vodeneev/ticketbet/internal/pkg/config"
	"github.com/Vodeneev/ticketbet/internal/pkg/markets"
	"github.com/Vodeneev/ticketbet/internal/pkg/models"
)

func enrichLeg(fixtureID int) models.Leg {
	return models.Leg{
		FixtureID:     fixtureID,
		LeagueID:      39,
		LeagueName:    "Premier League",
		LeagueCountry: "England",
		Home:          "Arsenal",
		Away:          "Chelsea",
		Kickoff:       time.Date(2025, 11, 2, 18, 0, 0, 0, time.UTC),
		Market:        markets.Over25,
		Family:        markets.FamilyGoals,
		Pick:          "Over 2.5 Goals",
		Odds:          1.48,
	}
}

func enrichSets(legs ...models.Leg) []models.TicketSet {
	return []models.TicketSet{{
		Code:    "SET_O25",
		Label:   "[OVER 2.5]",
		Status:  models.SetStatusOK,
		Tickets: []models.Ticket{{ID: "SET_O25-1", Legs: legs}},
	}}
}

func completionsServer(t *testing.T, content string, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Model != "gpt-4.1-mini" {
			t.Errorf("model = %q", req.Model)
		}
		if calls != nil {
			calls.Add(1)
		}
		fmt.Fprintf(w, `{"choices":[{"message":{"content":%q}}]}`, content)
	}))
}

func testAnnotator(baseURL string, maxLegs int) *Annotator {
	return New(config.EnrichmentConfig{
		Enabled:   true,
		APIKey:    "test-key",
		BaseURL:   baseURL,
		Model:     "gpt-4.1-mini",
		MaxTokens: 320,
		MaxLegs:   maxLegs,
		Timeout:   2 * time.Second,
	})
}

func TestAnnotateSets(t *testing.T) {
	srv := completionsServer(t, "Prva recenica. Druga recenica. Treca recenica. Cetvrta. Peta.", nil)
	defer srv.Close()

	annotated := models.Leg{FixtureID: 2, Analysis: []string{"existing."}}
	sets := enrichSets(enrichLeg(1), annotated)

	n := testAnnotator(srv.URL, 0).AnnotateSets(context.Background(), sets, nil)
	if n != 1 {
		t.Fatalf("annotated %d legs, want 1", n)
	}

	legs := sets[0].Tickets[0].Legs
	if len(legs[0].Analysis) != 5 {
		t.Fatalf("leg analysis has %d sentences, want 5", len(legs[0].Analysis))
	}
	if legs[0].Analysis[0] != "Prva recenica." {
		t.Errorf("first sentence = %q", legs[0].Analysis[0])
	}
	if len(legs[1].Analysis) != 1 || legs[1].Analysis[0] != "existing." {
		t.Errorf("pre-annotated leg was overwritten: %v", legs[1].Analysis)
	}
}

func TestAnnotateSetsBudget(t *testing.T) {
	var calls atomic.Int32
	srv := completionsServer(t, "Jedna. Dve. Tri. Cetiri. Pet.", &calls)
	defer srv.Close()

	sets := enrichSets(enrichLeg(1), enrichLeg(2), enrichLeg(3))
	n := testAnnotator(srv.URL, 1).AnnotateSets(context.Background(), sets, nil)
	if n != 1 {
		t.Fatalf("annotated %d legs, want 1 (budget)", n)
	}
	if calls.Load() != 1 {
		t.Errorf("upstream called %d times, want 1", calls.Load())
	}
	legs := sets[0].Tickets[0].Legs
	if legs[1].Analysis != nil || legs[2].Analysis != nil {
		t.Error("legs past the budget were annotated")
	}
}

func TestAnnotateSetsUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"overloaded"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	sets := enrichSets(enrichLeg(1))
	n := testAnnotator(srv.URL, 0).AnnotateSets(context.Background(), sets, nil)
	if n != 0 {
		t.Fatalf("annotated %d legs, want 0", n)
	}
	if sets[0].Tickets[0].Legs[0].Analysis != nil {
		t.Error("failed leg carries analysis")
	}
}

func TestAnnotatorDisabledWithoutKey(t *testing.T) {
	a := New(config.EnrichmentConfig{Enabled: true})
	if a.Enabled() {
		t.Fatal("annotator without key reports enabled")
	}
	sets := enrichSets(enrichLeg(1))
	if n := a.AnnotateSets(context.Background(), sets, nil); n != 0 {
		t.Fatalf("disabled annotator annotated %d legs", n)
	}
	if sets[0].Tickets[0].Legs[0].Analysis != nil {
		t.Error("disabled annotator touched a leg")
	}
}

func TestBuildPrompt(t *testing.T) {
	fc := ingest.Context{
		FixtureID: 1,
		Home: ingest.TeamContext{
			Form:            "WWDWL",
			Played:          10,
			Wins:            6,
			Draws:           2,
			Loses:           2,
			GoalsForAvg:     1.8,
			GoalsAgainstAvg: 0.9,
			Rank:            2,
			Points:          20,
		},
		H2H: ingest.H2HSummary{Matches: 4, BTTSRate: 0.5, AvgGoals: 2.8},
	}

	prompt := buildPrompt(enrichLeg(1), fc)
	for _, want := range []string{
		"Arsenal vs Chelsea",
		"Over 2.5 Goals",
		"@ odds 1.48",
		"England",
		"form WWDWL",
		"rank 2 with 20 pts",
		"H2H last 4",
		"both scored in 50%",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPromptWithoutContext(t *testing.T) {
	prompt := buildPrompt(enrichLeg(1), ingest.Context{})
	if strings.Contains(prompt, "Team context") {
		t.Error("prompt has a context block for an uncovered fixture")
	}
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("One.\nTwo two.  Three. ... Four. Five. Six. Seven. Eight. Nine.", 7)
	if len(got) != 7 {
		t.Fatalf("got %d sentences, want 7", len(got))
	}
	if got[0] != "One." || got[1] != "Two two." {
		t.Errorf("unexpected sentences: %v", got[:2])
	}
	if s := splitSentences("   ", 7); s != nil {
		t.Errorf("blank text produced %v", s)
	}
}

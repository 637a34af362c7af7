// Package evaluation settles yesterday's published tickets against
// final scores. Settlement is a pure function over the published
// document and the refreshed fixtures; the caller fetches and writes.
package evaluation

import (
	"time"

	"github.com/Vodeneev/ticketbet/internal/export"
	"github.com/Vodeneev/ticketbet/internal/pkg/markets"
	"github.com/Vodeneev/ticketbet/internal/pkg/models"
)

// LegResult marks one settled leg.
type LegResult string

const (
	LegWin     LegResult = "✅"
	LegLose    LegResult = "❌"
	LegPending LegResult = "⏳"
)

// TicketResult aggregates a ticket's leg results. A single lost leg
// loses the ticket; otherwise any open leg keeps it pending.
type TicketResult string

const (
	TicketWin     TicketResult = "WIN"
	TicketLose    TicketResult = "LOSE"
	TicketPending TicketResult = "PENDING"
)

// SettledLeg is a published leg plus its settlement mark.
type SettledLeg struct {
	models.Leg
	Result LegResult `json:"result"`
}

// SettledTicket is a published ticket with per-leg marks and the
// derived ticket result. The outer Legs shadow the embedded ones.
type SettledTicket struct {
	models.Ticket
	Result TicketResult `json:"result"`
	Legs   []SettledLeg `json:"legs"`
}

// SetReport groups the settled tickets of one published set.
type SetReport struct {
	Code    string          `json:"code"`
	Label   string          `json:"label"`
	Tickets []SettledTicket `json:"tickets"`
}

// Summary counts the day's ticket results.
type Summary struct {
	Date           string `json:"date"`
	TicketsTotal   int    `json:"tickets_total"`
	TicketsWin     int    `json:"tickets_win"`
	TicketsLose    int    `json:"tickets_lose"`
	TicketsPending int    `json:"tickets_pending"`
}

// Document is the envelope of evaluation.json.
type Document struct {
	Date        string      `json:"date"`
	GeneratedAt time.Time   `json:"generated_at"`
	Sets        []SetReport `json:"sets"`
	Summary     Summary     `json:"summary"`
}

// Evaluate settles every ticket of the published document against the
// refreshed fixtures. Fixtures are matched by ID; a missing or
// unfinished fixture leaves its legs pending rather than guessing.
func Evaluate(doc export.TicketsDocument, fixtures []models.Fixture, now time.Time) Document {
	byID := make(map[int]*models.Fixture, len(fixtures))
	for i := range fixtures {
		byID[fixtures[i].ID] = &fixtures[i]
	}

	out := Document{
		Date:        doc.Date,
		GeneratedAt: now.UTC(),
		Summary:     Summary{Date: doc.Date},
	}

	for _, set := range doc.Sets {
		report := SetReport{Code: set.Code, Label: set.Label}
		for _, t := range set.Tickets {
			st := settleTicket(t, byID)
			out.Summary.TicketsTotal++
			switch st.Result {
			case TicketWin:
				out.Summary.TicketsWin++
			case TicketLose:
				out.Summary.TicketsLose++
			default:
				out.Summary.TicketsPending++
			}
			report.Tickets = append(report.Tickets, st)
		}
		out.Sets = append(out.Sets, report)
	}
	return out
}

func settleTicket(t models.Ticket, fixtures map[int]*models.Fixture) SettledTicket {
	st := SettledTicket{Ticket: t, Result: TicketWin}
	pending := false
	for _, leg := range t.Legs {
		res := SettleLeg(leg, fixtures[leg.FixtureID])
		st.Legs = append(st.Legs, SettledLeg{Leg: leg, Result: res})
		switch res {
		case LegLose:
			st.Result = TicketLose
		case LegPending:
			pending = true
		}
	}
	if st.Result != TicketLose && pending {
		st.Result = TicketPending
	}
	return st
}

// SettleLeg marks one leg against its fixture's final score. Unknown
// markets stay pending so a feed change never fakes a settlement.
func SettleLeg(leg models.Leg, fx *models.Fixture) LegResult {
	if fx == nil || !fx.Finished() {
		return LegPending
	}
	if fx.GoalsHome == nil || fx.GoalsAway == nil {
		return LegPending
	}
	home, away := *fx.GoalsHome, *fx.GoalsAway
	total := home + away

	var won bool
	switch leg.Market {
	case markets.Home:
		won = home > away
	case markets.Draw:
		won = home == away
	case markets.Away:
		won = away > home
	case markets.DC1X:
		won = home >= away
	case markets.DCX2:
		won = away >= home
	case markets.DC12:
		won = home != away
	case markets.Over15:
		won = total >= 2
	case markets.Over25:
		won = total >= 3
	case markets.Over35:
		won = total >= 4
	case markets.Under35:
		won = total <= 3
	case markets.HTOver05:
		if fx.HalftimeHome == nil || fx.HalftimeAway == nil {
			return LegPending
		}
		won = *fx.HalftimeHome+*fx.HalftimeAway >= 1
	case markets.BTTSYes:
		won = home > 0 && away > 0
	case markets.BTTSNo:
		won = home == 0 || away == 0
	default:
		return LegPending
	}

	if won {
		return LegWin
	}
	return LegLose
}

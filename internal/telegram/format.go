package telegram

import (
	"fmt"
	"strings"
	"time"

	"github.com/Vodeneev/ticketbet/internal/pkg/models"
)

// Sendable reports whether a set's tickets go to the chat. Degraded
// fallbacks still publish; empty and failed sets stay quiet.
func Sendable(status models.SetStatus) bool {
	switch status {
	case models.SetStatusOK, models.SetStatusFallback2, models.SetStatusFallback1:
		return true
	}
	return false
}

// FormatTicket renders one ticket in the chat layout: a header with
// the set identity, total odds and score, then one block per leg.
func FormatTicket(day time.Time, setCode, setLabel string, t models.Ticket) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎫 %s — Ticket %s\n", setLabel, t.ID)
	fmt.Fprintf(&b, "📅 %s  |  Set: %s\n", day.Format("2006-01-02"), setCode)
	if t.TotalOdds > 0 {
		fmt.Fprintf(&b, "📈 Total odds: %.2f\n", t.TotalOdds)
	}
	fmt.Fprintf(&b, "🤖 AI score: %.1f%%\n\n", t.Score)

	for _, leg := range t.Legs {
		fmt.Fprintf(&b, "🏟 %s — %s\n", leg.LeagueCountry, leg.LeagueName)
		fmt.Fprintf(&b, "⚽ %s vs %s\n", leg.Home, leg.Away)
		fmt.Fprintf(&b, "⏰ %s\n", formatKickoff(leg.Kickoff))
		fmt.Fprintf(&b, "🎯 %s → %s @ %.2f\n\n", leg.Market, leg.Pick, leg.Odds)
	}
	return strings.TrimSpace(b.String())
}

// FormatRecap renders the settlement summary sent after the
// evaluation job. The marks match the per-leg results in the report.
func FormatRecap(date string, total, win, lose, pending int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Ticket results — %s\n\n", date)
	fmt.Fprintf(&b, "🎫 Total: %d\n", total)
	fmt.Fprintf(&b, "✅ Win: %d\n", win)
	fmt.Fprintf(&b, "❌ Lose: %d\n", lose)
	fmt.Fprintf(&b, "⏳ Pending: %d", pending)
	return b.String()
}

func formatKickoff(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.UTC().Format("2006-01-02 15:04 UTC")
}

package enrich

import (
	"fmt"
	"strings"
	"time"

	"github.com/Vodeneev/ticketbet/internal/ingest"
	"github.com/Vodeneev/ticketbet/internal/pkg/models"
)

// buildPrompt assembles the per-leg analyst prompt. The context block
// is included only when the aggregation stage actually produced data
// for the fixture, so the model never sees empty placeholder lines.
func buildPrompt(leg models.Leg, fc ingest.Context) string {
	var b strings.Builder
	b.WriteString("You are a professional football betting analyst.\n\n")
	b.WriteString("Write 5 to 7 short, data-driven sentences (no bullets, plain text, ")
	b.WriteString("max ~900 characters total) explaining why the betting pick might be reasonable or risky.\n\n")
	b.WriteString("Language: Serbian (Latin, casual but professional).\n")
	b.WriteString("Do NOT mention that you are an AI. Do NOT mention that this is not guaranteed. ")
	b.WriteString("Focus on stats and context.\n\n")

	b.WriteString("Basic info:\n")
	fmt.Fprintf(&b, "- League: %s — %s\n", leg.LeagueCountry, leg.LeagueName)
	fmt.Fprintf(&b, "- Match: %s vs %s\n", leg.Home, leg.Away)
	fmt.Fprintf(&b, "- Pick: %s (market code: %s) @ odds %.2f\n", leg.Pick, leg.Market, leg.Odds)
	fmt.Fprintf(&b, "- Kickoff: %s\n", leg.Kickoff.Format(time.RFC3339))

	var lines []string
	if line := teamLine(leg.Home, fc.Home); line != "" {
		lines = append(lines, line)
	}
	if line := teamLine(leg.Away, fc.Away); line != "" {
		lines = append(lines, line)
	}
	if fc.H2H.Matches > 0 {
		lines = append(lines, fmt.Sprintf("- H2H last %d: avg goals %.1f, both scored in %.0f%%",
			fc.H2H.Matches, fc.H2H.AvgGoals, fc.H2H.BTTSRate*100))
	}
	if len(lines) > 0 {
		b.WriteString("\nTeam context (may be incomplete, use only if useful):\n")
		b.WriteString(strings.Join(lines, "\n"))
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

func teamLine(name string, tc ingest.TeamContext) string {
	var parts []string
	if tc.Form != "" {
		parts = append(parts, "form "+tc.Form)
	}
	if tc.Played > 0 {
		parts = append(parts, fmt.Sprintf("%d played, %d-%d-%d", tc.Played, tc.Wins, tc.Draws, tc.Loses))
	}
	if tc.GoalsForAvg > 0 || tc.GoalsAgainstAvg > 0 {
		parts = append(parts, fmt.Sprintf("avg goals %.1f for / %.1f against", tc.GoalsForAvg, tc.GoalsAgainstAvg))
	}
	if tc.Rank > 0 {
		parts = append(parts, fmt.Sprintf("rank %d with %d pts", tc.Rank, tc.Points))
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("- %s: %s", name, strings.Join(parts, ", "))
}

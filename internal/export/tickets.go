package export

import (
	"time"

	"github.com/Vodeneev/ticketbet/internal/pkg/models"
)

// Meta records how the batch that produced the document ran.
type Meta struct {
	RunID           string  `json:"run_id"`
	FixturesCount   int     `json:"fixtures_count"`
	OddsCount       int     `json:"odds_count"`
	MinScore        float64 `json:"min_score"`
	RawSetsTotal    int     `json:"raw_sets_total"`
	RawTicketsTotal int     `json:"raw_tickets_total"`
}

// Summary counts what was actually published after filtering.
type Summary struct {
	SetsTotal    int `json:"sets_total"`
	TicketsTotal int `json:"tickets_total"`
}

// TicketsDocument is the envelope of tickets.json.
type TicketsDocument struct {
	Date        string             `json:"date"`
	GeneratedAt time.Time          `json:"generated_at"`
	Meta        Meta               `json:"meta"`
	Summary     Summary            `json:"summary"`
	Sets        []models.TicketSet `json:"sets"`
}

// NewTicketsDocument wraps the published sets for the given day. The
// summary is derived from the sets as passed in, so callers filter
// before building the document.
func NewTicketsDocument(day, now time.Time, meta Meta, sets []models.TicketSet) TicketsDocument {
	tickets := 0
	for _, s := range sets {
		tickets += len(s.Tickets)
	}
	return TicketsDocument{
		Date:        day.Format("2006-01-02"),
		GeneratedAt: now.UTC(),
		Meta:        meta,
		Summary:     Summary{SetsTotal: len(sets), TicketsTotal: tickets},
		Sets:        sets,
	}
}

package models

// SetStatus describes how well one configuration run went: the full
// request, a degraded fallback, nothing buildable, or a caught failure.
type SetStatus string

const (
	SetStatusOK        SetStatus = "OK"
	SetStatusFallback2 SetStatus = "FALLBACK_2"
	SetStatusFallback1 SetStatus = "FALLBACK_1"
	SetStatusNoData    SetStatus = "NO_DATA"
	SetStatusError     SetStatus = "ERROR"
)

// String returns string representation
func (s SetStatus) String() string {
	return string(s)
}

// TicketSet represents the result of running one named configuration
// against the day's leg pool.
type TicketSet struct {
	Code             string    `json:"code"`
	Label            string    `json:"label"`
	Status           SetStatus `json:"status"`
	RequestedTickets int       `json:"requested_max_tickets"`
	EffectiveTickets int       `json:"effective_max_tickets"`
	PoolSize         int       `json:"legs_pool_size"`
	Tickets          []Ticket  `json:"tickets"`
}

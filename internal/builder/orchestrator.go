package builder

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Vodeneev/ticketbet/internal/pkg/models"
	"github.com/Vodeneev/ticketbet/internal/pool"
	"github.com/Vodeneev/ticketbet/internal/scoring"
)

// Orchestrator runs the configuration table against one day's input.
type Orchestrator struct {
	sets      []SetConfig
	constants scoring.Constants
	attempts  int   // greedy attempts multiplier, 0 keeps the default
	seed      int64 // fixed mixer seed, 0 derives one per day and set
}

// NewOrchestrator wires the configurations and scoring constants.
func NewOrchestrator(sets []SetConfig, c scoring.Constants) *Orchestrator {
	return &Orchestrator{sets: sets, constants: c}
}

// WithTuning overrides the greedy attempts multiplier and pins the
// mixer seed, mainly for replaying a batch. Zero values keep the
// defaults.
func (o *Orchestrator) WithTuning(attemptsPerLeg int, mixerSeed int64) *Orchestrator {
	o.attempts = attemptsPerLeg
	o.seed = mixerSeed
	return o
}

// BuildAll processes every configuration strictly sequentially.
// Fixture exclusivity is scoped per configuration, so later sets may
// reuse fixtures consumed by earlier ones.
func (o *Orchestrator) BuildAll(day time.Time, fixtures []models.Fixture, odds []models.FixtureOdds) []models.TicketSet {
	out := make([]models.TicketSet, 0, len(o.sets))
	for _, cfg := range o.sets {
		set := o.buildSet(day, cfg, fixtures, odds)
		slog.Info("ticket set built",
			"set", set.Code,
			"status", set.Status,
			"tickets", len(set.Tickets),
			"pool_size", set.PoolSize)
		out = append(out, set)
	}
	return out
}

// buildSet runs one configuration: scope the pool, walk the fallback
// ladder, score what came out. A panic anywhere inside is contained
// into an ERROR result so one bad configuration cannot abort the
// batch.
func (o *Orchestrator) buildSet(day time.Time, cfg SetConfig, fixtures []models.Fixture, odds []models.FixtureOdds) (result models.TicketSet) {
	result = models.TicketSet{
		Code:             cfg.Code,
		Label:            cfg.Label,
		RequestedTickets: cfg.MaxTickets,
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Error("ticket set build panicked", "set", cfg.Code, "panic", r)
			result = models.TicketSet{
				Code:             cfg.Code,
				Label:            cfg.Label,
				Status:           models.SetStatusError,
				RequestedTickets: cfg.MaxTickets,
			}
		}
	}()

	legs := pool.New(o.constants, cfg.Markets).Build(fixtures, odds)
	result.PoolSize = len(legs)

	// One mixer per set run: its stream advances across ladder steps,
	// so a retry at a smaller fleet size sees fresh combinations.
	var mixer *Mixer
	if cfg.Strategy == StrategyMixer {
		seed := o.seed
		if seed == 0 {
			seed = MixSeed(day, cfg.Code)
		}
		mixer = NewMixer(seed)
	}

	var tickets []models.Ticket
	effective := cfg.MaxTickets
	for _, n := range ladder(cfg.MaxTickets) {
		effective = n
		if mixer != nil {
			tickets = mixer.Mix(legs, cfg, n)
		} else {
			tickets = construct(legs, cfg, n, o.attempts)
		}
		if len(tickets) > 0 {
			break
		}
	}

	result.EffectiveTickets = effective
	result.Tickets = tickets
	result.Status = ladderStatus(cfg.MaxTickets, effective, len(tickets))

	for i := range result.Tickets {
		t := &result.Tickets[i]
		t.ID = fmt.Sprintf("%s-%d", cfg.Code, i+1)
		t.Label = cfg.Label
		scoring.Apply(t, scoring.Score(*t, o.constants))
	}
	return result
}

// ladder lists the ticket counts to try, largest first. A request that
// yields nothing is retried at 2 and then 1 before giving up.
func ladder(maxTickets int) []int {
	steps := []int{maxTickets}
	for _, n := range []int{2, 1} {
		if n < maxTickets {
			steps = append(steps, n)
		}
	}
	return steps
}

func ladderStatus(requested, effective, tickets int) models.SetStatus {
	switch {
	case tickets == 0:
		return models.SetStatusNoData
	case effective == requested:
		return models.SetStatusOK
	case effective == 2:
		return models.SetStatusFallback2
	default:
		return models.SetStatusFallback1
	}
}

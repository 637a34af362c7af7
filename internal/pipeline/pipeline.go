// Package pipeline ties the daily batch together: snapshot, leg
// pools, ticket sets, scoring, enrichment and publication in the
// morning; settlement in the evening.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Vodeneev/ticketbet/internal/apifootball"
	"github.com/Vodeneev/ticketbet/internal/builder"
	"github.com/Vodeneev/ticketbet/internal/enrich"
	"github.com/Vodeneev/ticketbet/internal/evaluation"
	"github.com/Vodeneev/ticketbet/internal/export"
	"github.com/Vodeneev/ticketbet/internal/ingest"
	"github.com/Vodeneev/ticketbet/internal/pkg/cache"
	"github.com/Vodeneev/ticketbet/internal/pkg/config"
	"github.com/Vodeneev/ticketbet/internal/pkg/models"
	"github.com/Vodeneev/ticketbet/internal/pkg/performance"
	"github.com/Vodeneev/ticketbet/internal/scoring"
	"github.com/Vodeneev/ticketbet/internal/telegram"
)

const dayLayout = "2006-01-02"

// Morning runs the daily ticket batch.
type Morning struct {
	cfg   *config.Config
	cache *cache.Store
	pub   *export.Store
}

// NewMorning wires the batch from config.
func NewMorning(cfg *config.Config) *Morning {
	return &Morning{
		cfg:   cfg,
		cache: cache.New(cfg.Cache.Dir),
		pub:   export.NewStore(cfg.Export.PublicDir),
	}
}

// Run executes the morning batch for day. With offline set the
// upstream fetch is skipped and the batch works from the cache alone.
// The run aborts only when neither fixtures nor odds are available;
// every later stage degrades instead of failing the batch.
func (m *Morning) Run(ctx context.Context, day time.Time, offline bool) error {
	runID := uuid.New().String()
	log := slog.With("run_id", runID, "date", day.Format(dayLayout))
	log.Info("morning run started", "offline", offline)

	perf := performance.NewTracker()

	if !offline {
		if err := m.snapshot(ctx, day); err != nil {
			if ctx.Err() != nil {
				return err
			}
			log.Error("snapshot failed, continuing from cache", "error", err)
		}
	}
	perf.Mark("fetch")

	fixtures, rows := m.loadDay(day)
	if len(fixtures) == 0 && len(rows) == 0 {
		return fmt.Errorf("no fixtures and no odds for %s", day.Format(dayLayout))
	}
	odds := ingest.CollapseOdds(rows)
	contexts := ingest.BuildContexts(m.cache, day, fixtures)
	perf.Mark("load")

	constants := scoring.ConstantsFrom(m.cfg.Scoring)
	orch := builder.NewOrchestrator(builder.DefaultSets(), constants).
		WithTuning(m.cfg.Builder.AttemptsPerLeg, m.cfg.Builder.MixerSeed)
	rawSets := orch.BuildAll(day, fixtures, odds)
	perf.Mark("build")

	rawTickets := 0
	for _, s := range rawSets {
		rawTickets += len(s.Tickets)
	}

	minScore := scoring.MinScore(len(fixtures), rawTickets)
	published := scoring.FilterSets(rawSets, minScore)
	log.Info("publication filter applied",
		"min_score", minScore,
		"raw_tickets", rawTickets,
		"sets_kept", len(published))
	perf.Mark("filter")

	if ann := enrich.New(m.cfg.Enrichment); ann.Enabled() {
		annotated := ann.AnnotateSets(ctx, published, contexts)
		log.Info("legs enriched", "annotated", annotated)
	}
	perf.Mark("enrich")

	doc := export.NewTicketsDocument(day, time.Now(), export.Meta{
		RunID:           runID,
		FixturesCount:   len(fixtures),
		OddsCount:       len(odds),
		MinScore:        minScore,
		RawSetsTotal:    len(rawSets),
		RawTicketsTotal: rawTickets,
	}, published)
	if err := m.pub.WriteTickets(doc); err != nil {
		log.Error("failed to write tickets document", "error", err)
	}

	feed, stats := export.NewBTTSBuilder(constants, m.cfg.Export.BTTSOddsMin, m.cfg.Export.BTTSOddsMax).
		Build(day, time.Now(), fixtures, odds, contexts)
	if err := m.pub.WriteBTTS(feed, stats); err != nil {
		log.Error("failed to write btts feed", "error", err)
	}
	perf.Mark("export")

	m.notify(ctx, day, published)
	perf.Mark("notify")

	perf.LogSummary(log)
	log.Info("morning run finished",
		"sets", doc.Summary.SetsTotal,
		"tickets", doc.Summary.TicketsTotal,
		"btts_matches", feed.Meta.MatchesCount)
	return nil
}

// FetchReport is what the fetch-day tool prints: the snapshot summary
// plus what the day's cache holds afterwards.
type FetchReport struct {
	Snapshot *ingest.Summary `json:"snapshot"`
	Cache    cache.Status    `json:"cache"`
}

// FetchDay rebuilds one day's cache by hand: probe the provider's
// quota, fetch the snapshot, then report what the day directory
// holds. The fetch-day command prints the report.
func (m *Morning) FetchDay(ctx context.Context, day time.Time) (*FetchReport, error) {
	client, err := newClient(m.cfg.API)
	if err != nil {
		return nil, err
	}
	if st, err := client.Status(ctx); err != nil {
		slog.Warn("provider status probe failed", "error", err)
	} else {
		slog.Info("provider status",
			"ok", st.OK,
			"requests_limit", st.RateLimit.Limit,
			"requests_remaining", st.RateLimit.Remaining)
	}

	summary, err := ingest.NewSnapshotter(client, m.cache).BuildSnapshot(ctx, day, ingest.DefaultDaysAhead)
	if err != nil {
		return nil, err
	}
	return &FetchReport{Snapshot: summary, Cache: m.cache.DayStatus(day)}, nil
}

func (m *Morning) snapshot(ctx context.Context, day time.Time) error {
	client, err := newClient(m.cfg.API)
	if err != nil {
		return err
	}
	_, err = ingest.NewSnapshotter(client, m.cache).BuildSnapshot(ctx, day, ingest.DefaultDaysAhead)
	return err
}

// loadDay reads the day's snapshot, falling back over recent days
// when this morning's fetch came up empty.
func (m *Morning) loadDay(day time.Time) ([]models.Fixture, []models.OddsRow) {
	fallback := m.cfg.Cache.FallbackDays

	var fixtures []models.Fixture
	if from, err := m.cache.ReadOrFallback(ingest.FixturesFile, day, fallback, &fixtures); err != nil {
		slog.Warn("no fixtures snapshot available", "error", err)
	} else if !from.Equal(day) {
		slog.Warn("using fallback fixtures snapshot", "from", from.Format(dayLayout))
	}

	var rows []models.OddsRow
	if from, err := m.cache.ReadOrFallback(ingest.OddsFile, day, fallback, &rows); err != nil {
		slog.Warn("no odds snapshot available", "error", err)
	} else if !from.Equal(day) {
		slog.Warn("using fallback odds snapshot", "from", from.Format(dayLayout))
	}
	return fixtures, rows
}

func (m *Morning) notify(ctx context.Context, day time.Time, sets []models.TicketSet) {
	tg := m.cfg.Telegram
	if !tg.Enabled || tg.BotToken == "" || tg.ChatID == 0 {
		slog.Info("telegram disabled, skipping ticket messages")
		return
	}
	n := telegram.New(tg.BotToken, tg.ChatID)
	if n == nil {
		return
	}
	defer n.Stop()
	queued := n.SendSets(ctx, day, sets)
	slog.Info("ticket messages queued", "count", queued)
}

// Evaluation settles the published tickets document against final
// scores and writes the report next to it.
type Evaluation struct {
	cfg   *config.Config
	cache *cache.Store
	pub   *export.Store
}

// NewEvaluation wires the settlement job from config.
func NewEvaluation(cfg *config.Config) *Evaluation {
	return &Evaluation{
		cfg:   cfg,
		cache: cache.New(cfg.Cache.Dir),
		pub:   export.NewStore(cfg.Export.PublicDir),
	}
}

// Run settles whatever tickets document is currently published. The
// day comes from the document itself since the public directory holds
// exactly one. With offline set, results come from the cached
// snapshot instead of a fresh fetch, which usually leaves legs
// pending.
func (e *Evaluation) Run(ctx context.Context, offline bool) error {
	doc, err := e.pub.ReadTickets()
	if err != nil {
		return fmt.Errorf("read tickets document: %w", err)
	}
	day, err := time.Parse(dayLayout, doc.Date)
	if err != nil {
		return fmt.Errorf("tickets document has bad date %q: %w", doc.Date, err)
	}
	log := slog.With("date", doc.Date)
	log.Info("evaluation started", "offline", offline, "sets", len(doc.Sets))

	var results []models.Fixture
	if offline {
		if _, err := e.cache.ReadOrFallback(ingest.FixturesFile, day, e.cfg.Cache.FallbackDays, &results); err != nil {
			log.Warn("no cached fixtures for evaluation", "error", err)
		}
	} else {
		results, err = e.fetchResults(ctx, day)
		if err != nil {
			return err
		}
	}

	report := evaluation.Evaluate(doc, results, time.Now())
	if err := e.pub.WriteEvaluation(report); err != nil {
		return fmt.Errorf("write evaluation: %w", err)
	}
	e.recap(ctx, report.Summary)

	log.Info("evaluation written",
		"tickets_total", report.Summary.TicketsTotal,
		"win", report.Summary.TicketsWin,
		"lose", report.Summary.TicketsLose,
		"pending", report.Summary.TicketsPending)
	return nil
}

func (e *Evaluation) recap(ctx context.Context, s evaluation.Summary) {
	tg := e.cfg.Telegram
	if !tg.Enabled || tg.BotToken == "" || tg.ChatID == 0 {
		return
	}
	n := telegram.New(tg.BotToken, tg.ChatID)
	if n == nil {
		return
	}
	defer n.Stop()
	text := telegram.FormatRecap(s.Date, s.TicketsTotal, s.TicketsWin, s.TicketsLose, s.TicketsPending)
	if err := n.Send(ctx, text); err != nil {
		slog.Warn("recap message not sent", "error", err)
	}
}

func (e *Evaluation) fetchResults(ctx context.Context, day time.Time) ([]models.Fixture, error) {
	client, err := newClient(e.cfg.API)
	if err != nil {
		return nil, err
	}
	items, err := client.FixturesByDate(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("fetch results: %w", err)
	}
	return ingest.CleanResults(items), nil
}

func newClient(api config.APIConfig) (*apifootball.Client, error) {
	opts := []apifootball.ClientOption{
		apifootball.WithTimezone(api.Timezone),
		apifootball.WithMinInterval(api.MinInterval),
		apifootball.WithRetries(api.MaxRetries, api.BackoffBase),
	}
	if api.BaseURL != "" {
		opts = append(opts, apifootball.WithBaseURL(api.BaseURL))
	}
	if api.Timeout > 0 {
		opts = append(opts, apifootball.WithHTTPClient(&http.Client{Timeout: api.Timeout}))
	}
	return apifootball.NewClient(api.Key, opts...)
}

// Package enrich attaches short written analysis to published legs.
// The upstream is any OpenAI-compatible chat completions endpoint;
// without an API key the whole stage is a silent no-op, and a failed
// call costs one leg its annotation, never the batch.
package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Vodeneev/ticketbet/internal/ingest"
	"github.com/Vodeneev/ticketbet/internal/pkg/config"
	"github.com/Vodeneev/ticketbet/internal/pkg/models"
)

const (
	defaultBaseURL   = "https://api.openai.com/v1"
	defaultModel     = "gpt-4.1-mini"
	defaultMaxTokens = 320
	defaultTimeout   = 60 * time.Second

	maxSentences = 7
)

// Annotator writes per-leg analysis via the completions endpoint.
type Annotator struct {
	apiKey    string
	baseURL   string
	model     string
	maxTokens int
	maxLegs   int
	client    *http.Client
}

// New builds an annotator from config. A missing API key or a
// disabled flag yields a working but inert annotator.
func New(cfg config.EnrichmentConfig) *Annotator {
	a := &Annotator{
		baseURL:   cfg.BaseURL,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		maxLegs:   cfg.MaxLegs,
	}
	if a.baseURL == "" {
		a.baseURL = defaultBaseURL
	}
	if a.model == "" {
		a.model = defaultModel
	}
	if a.maxTokens == 0 {
		a.maxTokens = defaultMaxTokens
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	a.client = &http.Client{Timeout: timeout}

	if cfg.Enabled {
		if cfg.APIKey == "" {
			slog.Warn("enrichment enabled but no API key set, analysis will be skipped")
		} else {
			a.apiKey = cfg.APIKey
		}
	}
	return a
}

// Enabled reports whether the annotator will actually call out.
func (a *Annotator) Enabled() bool {
	return a != nil && a.apiKey != ""
}

// AnnotateSets walks every leg of every published ticket and fills its
// Analysis in place. Legs that already carry analysis are skipped, as
// are all legs past the per-run budget. Returns how many legs were
// annotated.
func (a *Annotator) AnnotateSets(ctx context.Context, sets []models.TicketSet, contexts map[int]ingest.Context) int {
	if !a.Enabled() {
		return 0
	}

	var attempted, annotated int
	for si := range sets {
		for ti := range sets[si].Tickets {
			legs := sets[si].Tickets[ti].Legs
			for li := range legs {
				if len(legs[li].Analysis) > 0 {
					continue
				}
				if a.maxLegs > 0 && attempted >= a.maxLegs {
					slog.Info("enrichment budget reached", "max_legs", a.maxLegs, "annotated", annotated)
					return annotated
				}
				if ctx.Err() != nil {
					return annotated
				}
				attempted++

				sentences, err := a.annotateLeg(ctx, legs[li], contexts[legs[li].FixtureID])
				if err != nil {
					slog.Warn("leg analysis failed",
						"fixture_id", legs[li].FixtureID,
						"market", legs[li].Market,
						"error", err)
					continue
				}
				legs[li].Analysis = sentences
				annotated++
			}
		}
	}
	return annotated
}

func (a *Annotator) annotateLeg(ctx context.Context, leg models.Leg, fc ingest.Context) ([]string, error) {
	text, err := a.complete(ctx, buildPrompt(leg, fc))
	if err != nil {
		return nil, err
	}
	sentences := splitSentences(text, maxSentences)
	if len(sentences) == 0 {
		return nil, errors.New("empty analysis text")
	}
	return sentences, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (a *Annotator) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:     a.model,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens: a.maxTokens,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("completions API error %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", errors.New("no choices in response")
	}
	return out.Choices[0].Message.Content, nil
}

// splitSentences turns free text into trimmed sentences, capped at max.
func splitSentences(text string, max int) []string {
	text = strings.ReplaceAll(text, "\n", " ")
	var out []string
	for _, part := range strings.Split(text, ".") {
		s := strings.TrimSpace(part)
		if s == "" {
			continue
		}
		out = append(out, s+".")
		if len(out) == max {
			break
		}
	}
	return out
}

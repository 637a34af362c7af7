package apifootball

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"
)

const dateLayout = "2006-01-02"

// FixturesByDate fetches all fixtures scheduled on the given day in
// the client's timezone.
func (c *Client) FixturesByDate(ctx context.Context, day time.Time) ([]FixtureItem, error) {
	params := url.Values{}
	params.Set("date", day.Format(dateLayout))
	params.Set("timezone", c.timezone)

	env, _, err := c.get(ctx, "/fixtures", params)
	if err != nil {
		return nil, err
	}

	var items []FixtureItem
	if err := json.Unmarshal(env.Response, &items); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}

	slog.Debug("fixtures fetched",
		"date", day.Format(dateLayout),
		"results", env.Results,
		"items", len(items),
		"has_errors", env.HasErrors())
	return items, nil
}

// OddsByDate fetches all bookmaker odds for the given day, following
// the provider's paging until the last page.
func (c *Client) OddsByDate(ctx context.Context, day time.Time) ([]OddsItem, error) {
	var all []OddsItem

	page := 1
	for {
		params := url.Values{}
		params.Set("date", day.Format(dateLayout))
		params.Set("timezone", c.timezone)
		params.Set("page", strconv.Itoa(page))

		env, _, err := c.get(ctx, "/odds", params)
		if err != nil {
			return nil, err
		}

		var items []OddsItem
		if err := json.Unmarshal(env.Response, &items); err != nil {
			return nil, fmt.Errorf("parse odds page %d: %w", page, err)
		}
		all = append(all, items...)

		if env.Paging.Total <= env.Paging.Current {
			slog.Debug("odds fetched",
				"date", day.Format(dateLayout),
				"pages", env.Paging.Current,
				"items", len(all))
			return all, nil
		}
		page = env.Paging.Current + 1
	}
}

// Standings fetches the league table for one competition and season,
// flattening the provider's group nesting into plain rows.
func (c *Client) Standings(ctx context.Context, leagueID, season int) ([]StandingRow, error) {
	params := url.Values{}
	params.Set("league", strconv.Itoa(leagueID))
	params.Set("season", strconv.Itoa(season))

	env, _, err := c.get(ctx, "/standings", params)
	if err != nil {
		return nil, err
	}

	var entries []standingsEntry
	if err := json.Unmarshal(env.Response, &entries); err != nil {
		return nil, fmt.Errorf("parse standings: %w", err)
	}

	var rows []StandingRow
	for _, e := range entries {
		for _, group := range e.League.Standings {
			rows = append(rows, group...)
		}
	}
	return rows, nil
}

// TeamStatistics fetches one team's season statistics in a league.
func (c *Client) TeamStatistics(ctx context.Context, leagueID, season, teamID int) (*TeamStats, error) {
	params := url.Values{}
	params.Set("league", strconv.Itoa(leagueID))
	params.Set("season", strconv.Itoa(season))
	params.Set("team", strconv.Itoa(teamID))

	env, _, err := c.get(ctx, "/teams/statistics", params)
	if err != nil {
		return nil, err
	}

	// This endpoint returns a single object, not a list.
	var stats TeamStats
	if err := json.Unmarshal(env.Response, &stats); err != nil {
		return nil, fmt.Errorf("parse team statistics: %w", err)
	}
	return &stats, nil
}

// HeadToHead fetches the last N meetings between two teams.
func (c *Client) HeadToHead(ctx context.Context, homeID, awayID, last int) ([]FixtureItem, error) {
	if last <= 0 {
		last = 5
	}
	params := url.Values{}
	params.Set("h2h", fmt.Sprintf("%d-%d", homeID, awayID))
	params.Set("last", strconv.Itoa(last))

	env, _, err := c.get(ctx, "/fixtures/headtohead", params)
	if err != nil {
		return nil, err
	}

	var items []FixtureItem
	if err := json.Unmarshal(env.Response, &items); err != nil {
		return nil, fmt.Errorf("parse head to head: %w", err)
	}
	return items, nil
}

// Status probes /status and echoes the provider's quota headers. The
// fetch tool logs them before spending the day's budget.
func (c *Client) Status(ctx context.Context) (*StatusInfo, error) {
	env, header, err := c.get(ctx, "/status", nil)
	if err != nil {
		return nil, err
	}

	return &StatusInfo{
		OK:      !env.HasErrors() && len(env.Response) > 0,
		Account: env.Response,
		RateLimit: RateLimit{
			Limit:     header.Get("x-ratelimit-requests-limit"),
			Remaining: header.Get("x-ratelimit-requests-remaining"),
			Reset:     header.Get("x-ratelimit-requests-reset"),
		},
	}, nil
}

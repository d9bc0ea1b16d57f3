// Package polymarket implements the REST client for the Polymarket Gamma API
// and the conversion of its loosely typed payloads into domain records.
package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultGammaHost is the public Gamma API root.
const DefaultGammaHost = "https://gamma-api.polymarket.com"

// PageSize is the fixed number of events requested per page.
const PageSize = 100

// GammaClient is the REST client for the Gamma API /events endpoint.
type GammaClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewGammaClient creates a new Gamma API client.
//
// baseURL is the Gamma API root, e.g. "https://gamma-api.polymarket.com".
func NewGammaClient(baseURL string, logger *slog.Logger) *GammaClient {
	if baseURL == "" {
		baseURL = DefaultGammaHost
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GammaClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.With(slog.String("component", "gamma")),
	}
}

// EventsQuery holds the query parameters for one /events page.
type EventsQuery struct {
	Closed    bool
	Order     string // ordering field, e.g. "id"
	Ascending bool
	Limit     int
	Offset    int
}

// GetEvents fetches one page of events. Any non-2xx response or transport
// failure is returned as an error; callers treat it as a soft
// end-of-pagination rather than a fatal condition.
func (g *GammaClient) GetEvents(ctx context.Context, q EventsQuery) ([]APIEvent, error) {
	params := url.Values{}
	params.Set("closed", strconv.FormatBool(q.Closed))
	params.Set("order", q.Order)
	params.Set("ascending", strconv.FormatBool(q.Ascending))
	params.Set("limit", strconv.Itoa(q.Limit))
	params.Set("offset", strconv.Itoa(q.Offset))

	body, err := g.doGet(ctx, "/events?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("polymarket/gamma: get events: %w", err)
	}

	var events []APIEvent
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("polymarket/gamma: decode events: %w", err)
	}

	return events, nil
}

// FetchAllEvents pages through all open events, ordered by id descending like
// the public site, until a page comes back short. maxEvents > 0 truncates the
// result to exactly that many records. A failed page is logged and ends
// pagination early with whatever was accumulated; there is no retry or
// backoff, the next sync cycle simply starts over.
func (g *GammaClient) FetchAllEvents(ctx context.Context, maxEvents int) []APIEvent {
	var all []APIEvent
	offset := 0

	for {
		events, err := g.GetEvents(ctx, EventsQuery{
			Closed:    false,
			Order:     "id",
			Ascending: false,
			Limit:     PageSize,
			Offset:    offset,
		})
		if err != nil {
			g.logger.Error("fetch page failed, stopping pagination",
				slog.Int("offset", offset),
				slog.Int("accumulated", len(all)),
				slog.String("error", err.Error()),
			)
			break
		}

		if len(events) == 0 {
			break
		}

		all = append(all, events...)
		g.logger.Debug("fetched events page",
			slog.Int("batch_size", len(events)),
			slog.Int("total", len(all)),
			slog.Int("offset", offset),
		)

		if maxEvents > 0 && len(all) >= maxEvents {
			all = all[:maxEvents]
			break
		}
		if len(events) < PageSize {
			break
		}

		offset += PageSize
	}

	return all
}

// doGet sends an unauthenticated GET request to the Gamma API.
func (g *GammaClient) doGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(body, 200))
	}

	return body, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

// Package report renders read-only database reports to a console writer.
package report

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/polysync/polysync/internal/domain"
)

const maxTagListing = 30

// Reporter renders query results as console tables.
type Reporter struct {
	events  domain.EventQuerier
	markets domain.MarketQuerier
	w       io.Writer
}

// New creates a Reporter writing to w.
func New(events domain.EventQuerier, markets domain.MarketQuerier, w io.Writer) *Reporter {
	return &Reporter{events: events, markets: markets, w: w}
}

// Overview prints row counts for the whole store.
func (r *Reporter) Overview(ctx context.Context) error {
	totalEvents, err := r.events.CountEvents(ctx)
	if err != nil {
		return fmt.Errorf("report: overview: %w", err)
	}
	totalMarkets, err := r.markets.CountMarkets(ctx)
	if err != nil {
		return fmt.Errorf("report: overview: %w", err)
	}
	futureEvents, err := r.events.CountFutureEvents(ctx)
	if err != nil {
		return fmt.Errorf("report: overview: %w", err)
	}

	fmt.Fprintln(r.w, "Database stats:")
	table := tablewriter.NewTable(r.w)
	table.Header([]string{"Metric", "Count"})
	table.Bulk([][]string{
		{"Events", strconv.FormatInt(totalEvents, 10)},
		{"Markets", strconv.FormatInt(totalMarkets, 10)},
		{"Future events", strconv.FormatInt(futureEvents, 10)},
	})
	table.Render()
	return nil
}

// Tags prints the distinct tag labels, truncated to a readable count.
func (r *Reporter) Tags(ctx context.Context) error {
	tags, err := r.events.AllUniqueTags(ctx)
	if err != nil {
		return fmt.Errorf("report: tags: %w", err)
	}

	fmt.Fprintf(r.w, "Available tags (%d):\n", len(tags))
	for i, tag := range tags {
		if i >= maxTagListing {
			fmt.Fprintf(r.w, "  ... and %d more\n", len(tags)-maxTagListing)
			break
		}
		fmt.Fprintf(r.w, "  - %s\n", tag)
	}
	return nil
}

// TagSearch prints future+active events matching the tag keyword.
func (r *Reporter) TagSearch(ctx context.Context, keyword string, limit int) error {
	events, err := r.events.EventsByTag(ctx, keyword, limit)
	if err != nil {
		return fmt.Errorf("report: tag search %q: %w", keyword, err)
	}

	fmt.Fprintf(r.w, "Events tagged %q (%d):\n", keyword, len(events))
	if len(events) == 0 {
		return nil
	}

	rows := make([][]string, 0, len(events))
	for i := range events {
		ev := &events[i]
		rows = append(rows, []string{
			ev.Title,
			ev.Slug,
			fmtDate(ev.EndDate),
			strconv.Itoa(len(ev.Markets)),
			fmtTags(ev.Tags),
		})
	}

	table := tablewriter.NewTable(r.w)
	table.Header([]string{"Title", "Slug", "End date", "Markets", "Tags"})
	table.Bulk(rows)
	table.Render()
	return nil
}

// KeywordSearch prints future+active markets whose question or description
// matches the keyword.
func (r *Reporter) KeywordSearch(ctx context.Context, keyword string, limit int) error {
	markets, err := r.markets.MarketsByKeyword(ctx, keyword, limit)
	if err != nil {
		return fmt.Errorf("report: keyword search %q: %w", keyword, err)
	}

	fmt.Fprintf(r.w, "Markets matching %q (%d):\n", keyword, len(markets))
	if len(markets) == 0 {
		return nil
	}

	rows := make([][]string, 0, len(markets))
	for i := range markets {
		m := &markets[i]
		rows = append(rows, []string{
			m.Question,
			fmtDate(m.EndDate),
			fmt.Sprintf("%.3f", m.BestBid),
			fmt.Sprintf("%.3f", m.BestAsk),
			fmt.Sprintf("%.0f", m.Volume24hr),
			strconv.FormatBool(m.AcceptingOrders),
		})
	}

	table := tablewriter.NewTable(r.w)
	table.Header([]string{"Question", "End date", "Bid", "Ask", "Vol 24h", "Accepting"})
	table.Bulk(rows)
	table.Render()
	return nil
}

// FutureEvents prints the next events to end.
func (r *Reporter) FutureEvents(ctx context.Context, limit int) error {
	events, err := r.events.FutureEvents(ctx, limit)
	if err != nil {
		return fmt.Errorf("report: future events: %w", err)
	}

	fmt.Fprintf(r.w, "Future events ending soonest (%d):\n", len(events))
	if len(events) == 0 {
		return nil
	}

	rows := make([][]string, 0, len(events))
	for i := range events {
		ev := &events[i]
		rows = append(rows, []string{
			ev.Title,
			fmtDate(ev.EndDate),
			strconv.Itoa(len(ev.Markets)),
			fmt.Sprintf("%.0f", ev.Volume24hr),
			fmtTags(ev.Tags),
		})
	}

	table := tablewriter.NewTable(r.w)
	table.Header([]string{"Title", "End date", "Markets", "Vol 24h", "Tags"})
	table.Bulk(rows)
	table.Render()
	return nil
}

// RecentEvents prints the most recently created active events.
func (r *Reporter) RecentEvents(ctx context.Context, limit int) error {
	events, err := r.events.RecentActiveEvents(ctx, limit)
	if err != nil {
		return fmt.Errorf("report: recent events: %w", err)
	}

	fmt.Fprintf(r.w, "Recently created active events (%d):\n", len(events))
	if len(events) == 0 {
		return nil
	}

	rows := make([][]string, 0, len(events))
	for i := range events {
		ev := &events[i]
		rows = append(rows, []string{
			ev.Title,
			fmtDate(ev.CreatedAt),
			fmtDate(ev.EndDate),
			strconv.Itoa(len(ev.Markets)),
		})
	}

	table := tablewriter.NewTable(r.w)
	table.Header([]string{"Title", "Created", "End date", "Markets"})
	table.Bulk(rows)
	table.Render()
	return nil
}

// MultiMarketEvents prints active events owning more than one market.
func (r *Reporter) MultiMarketEvents(ctx context.Context, limit int) error {
	events, err := r.events.MultiMarketEvents(ctx, limit)
	if err != nil {
		return fmt.Errorf("report: multi-market events: %w", err)
	}

	fmt.Fprintf(r.w, "Multi-market events (%d):\n", len(events))
	if len(events) == 0 {
		return nil
	}

	rows := make([][]string, 0, len(events))
	for i := range events {
		ev := &events[i]
		rows = append(rows, []string{
			ev.Title,
			strconv.Itoa(len(ev.Markets)),
			fmtDate(ev.EndDate),
			fmtTags(ev.Tags),
		})
	}

	table := tablewriter.NewTable(r.w)
	table.Header([]string{"Title", "Markets", "End date", "Tags"})
	table.Bulk(rows)
	table.Render()
	return nil
}

// AcceptingMarkets prints markets currently accepting orders.
func (r *Reporter) AcceptingMarkets(ctx context.Context, limit int) error {
	markets, err := r.markets.AcceptingOrderMarkets(ctx, limit)
	if err != nil {
		return fmt.Errorf("report: accepting markets: %w", err)
	}

	fmt.Fprintf(r.w, "Markets accepting orders (%d):\n", len(markets))
	if len(markets) == 0 {
		return nil
	}

	rows := make([][]string, 0, len(markets))
	for i := range markets {
		m := &markets[i]
		rows = append(rows, []string{
			m.Question,
			fmt.Sprintf("%.3f", m.BestBid),
			fmt.Sprintf("%.3f", m.BestAsk),
			fmt.Sprintf("%.3f", m.Spread),
			fmtDate(m.EndDate),
		})
	}

	table := tablewriter.NewTable(r.w)
	table.Header([]string{"Question", "Bid", "Ask", "Spread", "End date"})
	table.Bulk(rows)
	table.Render()
	return nil
}

func fmtDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

func fmtTags(tags []domain.TagRef) string {
	if len(tags) == 0 {
		return "-"
	}
	labels := make([]string, 0, len(tags))
	for _, t := range tags {
		labels = append(labels, t.Label)
	}
	return strings.Join(labels, ", ")
}

package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

// pageServer serves /events pages from a fixed pool of events, honoring limit
// and offset, and counts the requests it saw.
func pageServer(t *testing.T, total int, failAtOffset int) (*httptest.Server, *int) {
	t.Helper()
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Path != "/events" {
			http.NotFound(w, r)
			return
		}
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if failAtOffset >= 0 && offset >= failAtOffset {
			http.Error(w, "upstream unavailable", http.StatusBadGateway)
			return
		}
		var page []APIEvent
		for i := offset; i < total && i < offset+limit; i++ {
			page = append(page, APIEvent{
				ID:   flexString(fmt.Sprintf("%d", i+1)),
				Slug: fmt.Sprintf("event-%d", i+1),
			})
		}
		if page == nil {
			page = []APIEvent{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(page)
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func TestGetEvents(t *testing.T) {
	t.Run("query parameters", func(t *testing.T) {
		var gotQuery map[string]string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = map[string]string{
				"closed":    r.URL.Query().Get("closed"),
				"order":     r.URL.Query().Get("order"),
				"ascending": r.URL.Query().Get("ascending"),
				"limit":     r.URL.Query().Get("limit"),
				"offset":    r.URL.Query().Get("offset"),
			}
			w.Write([]byte(`[]`))
		}))
		defer srv.Close()

		client := NewGammaClient(srv.URL, nil)
		_, err := client.GetEvents(context.Background(), EventsQuery{
			Closed:    false,
			Order:     "id",
			Ascending: false,
			Limit:     100,
			Offset:    200,
		})
		if err != nil {
			t.Fatalf("GetEvents error: %v", err)
		}

		want := map[string]string{
			"closed": "false", "order": "id", "ascending": "false",
			"limit": "100", "offset": "200",
		}
		for k, v := range want {
			if gotQuery[k] != v {
				t.Errorf("query %s = %q, want %q", k, gotQuery[k], v)
			}
		}
	})

	t.Run("non-200 is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		client := NewGammaClient(srv.URL, nil)
		_, err := client.GetEvents(context.Background(), EventsQuery{Limit: 100})
		if err == nil {
			t.Fatal("GetEvents returned nil error for 429 response")
		}
	})

	t.Run("bad json is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"not":"an array"}`))
		}))
		defer srv.Close()

		client := NewGammaClient(srv.URL, nil)
		_, err := client.GetEvents(context.Background(), EventsQuery{Limit: 100})
		if err == nil {
			t.Fatal("GetEvents returned nil error for non-array body")
		}
	})
}

func TestFetchAllEvents(t *testing.T) {
	t.Run("stops on short page", func(t *testing.T) {
		srv, requests := pageServer(t, 250, -1)
		client := NewGammaClient(srv.URL, nil)

		events := client.FetchAllEvents(context.Background(), 0)
		if len(events) != 250 {
			t.Errorf("len(events) = %d, want 250", len(events))
		}
		// Pages of 100, 100, 50; the short third page ends pagination.
		if *requests != 3 {
			t.Errorf("requests = %d, want 3", *requests)
		}
	})

	t.Run("full last page needs one extra empty page", func(t *testing.T) {
		srv, requests := pageServer(t, 200, -1)
		client := NewGammaClient(srv.URL, nil)

		events := client.FetchAllEvents(context.Background(), 0)
		if len(events) != 200 {
			t.Errorf("len(events) = %d, want 200", len(events))
		}
		if *requests != 3 {
			t.Errorf("requests = %d, want 3", *requests)
		}
	})

	t.Run("max events truncates exactly", func(t *testing.T) {
		srv, _ := pageServer(t, 500, -1)
		client := NewGammaClient(srv.URL, nil)

		events := client.FetchAllEvents(context.Background(), 150)
		if len(events) != 150 {
			t.Errorf("len(events) = %d, want 150", len(events))
		}
		if events[149].Slug != "event-150" {
			t.Errorf("last event = %q, want event-150", events[149].Slug)
		}
	})

	t.Run("max events truncates a short final page", func(t *testing.T) {
		// 180 events arrive as one full page and one short page of 80; the
		// cap must still cut to exactly 150, not the page boundary.
		srv, _ := pageServer(t, 180, -1)
		client := NewGammaClient(srv.URL, nil)

		events := client.FetchAllEvents(context.Background(), 150)
		if len(events) != 150 {
			t.Errorf("len(events) = %d, want 150", len(events))
		}
		if events[149].Slug != "event-150" {
			t.Errorf("last event = %q, want event-150", events[149].Slug)
		}
	})

	t.Run("failed page keeps accumulated prefix", func(t *testing.T) {
		srv, _ := pageServer(t, 500, 200)
		client := NewGammaClient(srv.URL, nil)

		events := client.FetchAllEvents(context.Background(), 0)
		if len(events) != 200 {
			t.Errorf("len(events) = %d, want the 200 fetched before the failure", len(events))
		}
	})

	t.Run("empty feed", func(t *testing.T) {
		srv, requests := pageServer(t, 0, -1)
		client := NewGammaClient(srv.URL, nil)

		events := client.FetchAllEvents(context.Background(), 0)
		if len(events) != 0 {
			t.Errorf("len(events) = %d, want 0", len(events))
		}
		if *requests != 1 {
			t.Errorf("requests = %d, want 1", *requests)
		}
	})
}

package pipeline

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/polysync/polysync/internal/domain"
	"github.com/polysync/polysync/internal/platform/polymarket"
)

// fakeFetcher returns a fixed page of raw events and records the maxEvents it
// was asked for.
type fakeFetcher struct {
	events []polymarket.APIEvent
	calls  atomic.Int64
	gotMax int
}

func (f *fakeFetcher) FetchAllEvents(ctx context.Context, maxEvents int) []polymarket.APIEvent {
	f.calls.Add(1)
	f.gotMax = maxEvents
	return f.events
}

// fakeReconciler captures the batches it receives.
type fakeReconciler struct {
	batches [][]domain.Event
	stats   domain.SyncStats
	err     error
}

func (r *fakeReconciler) ReconcileEvents(ctx context.Context, events []domain.Event) (domain.SyncStats, error) {
	r.batches = append(r.batches, events)
	if r.err != nil {
		return domain.SyncStats{}, r.err
	}
	return r.stats, nil
}

func TestSyncerRun(t *testing.T) {
	t.Run("maps and reconciles", func(t *testing.T) {
		fetcher := &fakeFetcher{events: []polymarket.APIEvent{
			{ID: "1", Slug: "one"},
			{ID: "2", Slug: "two"},
		}}
		reconciler := &fakeReconciler{stats: domain.SyncStats{EventsAdded: 2}}
		syncer := NewSyncer(reconciler, fetcher, 500, nil)

		stats, err := syncer.Run(context.Background())
		if err != nil {
			t.Fatalf("Run error: %v", err)
		}
		if stats.EventsAdded != 2 {
			t.Errorf("EventsAdded = %d, want 2", stats.EventsAdded)
		}
		if fetcher.gotMax != 500 {
			t.Errorf("fetcher maxEvents = %d, want 500", fetcher.gotMax)
		}
		if len(reconciler.batches) != 1 {
			t.Fatalf("reconcile batches = %d, want 1", len(reconciler.batches))
		}
		batch := reconciler.batches[0]
		if len(batch) != 2 || batch[0].ID != "1" || batch[1].Slug != "two" {
			t.Errorf("batch = %+v, want the two mapped events", batch)
		}
	})

	t.Run("empty fetch is a no-op", func(t *testing.T) {
		fetcher := &fakeFetcher{}
		reconciler := &fakeReconciler{}
		syncer := NewSyncer(reconciler, fetcher, 0, nil)

		stats, err := syncer.Run(context.Background())
		if err != nil {
			t.Fatalf("Run error: %v", err)
		}
		if stats.Total() != 0 {
			t.Errorf("stats.Total() = %d, want 0", stats.Total())
		}
		if len(reconciler.batches) != 0 {
			t.Errorf("reconcile batches = %d, want 0", len(reconciler.batches))
		}
	})

	t.Run("reconcile failure propagates", func(t *testing.T) {
		fetcher := &fakeFetcher{events: []polymarket.APIEvent{{ID: "1"}}}
		reconciler := &fakeReconciler{err: errors.New("constraint violation")}
		syncer := NewSyncer(reconciler, fetcher, 0, nil)

		if _, err := syncer.Run(context.Background()); err == nil {
			t.Fatal("Run returned nil error for failed reconcile")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		fetcher := &fakeFetcher{events: []polymarket.APIEvent{{ID: "1"}}}
		syncer := NewSyncer(&fakeReconciler{}, fetcher, 0, nil)

		if _, err := syncer.Run(ctx); !errors.Is(err, context.Canceled) {
			t.Errorf("Run error = %v, want context.Canceled", err)
		}
		if fetcher.calls.Load() != 0 {
			t.Errorf("fetcher calls = %d, want 0 after cancellation", fetcher.calls.Load())
		}
	})
}

func TestSyncerRunLoop(t *testing.T) {
	t.Run("runs immediately then on ticks", func(t *testing.T) {
		fetcher := &fakeFetcher{events: []polymarket.APIEvent{{ID: "1", Slug: "one"}}}
		reconciler := &fakeReconciler{}
		syncer := NewSyncer(reconciler, fetcher, 0, nil)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- syncer.RunLoop(ctx, 10*time.Millisecond)
		}()

		deadline := time.After(2 * time.Second)
		for fetcher.calls.Load() < 3 {
			select {
			case <-deadline:
				t.Fatalf("fetcher calls = %d, want at least 3 before deadline", fetcher.calls.Load())
			case <-time.After(5 * time.Millisecond):
			}
		}
		cancel()

		if err := <-done; !errors.Is(err, context.Canceled) {
			t.Errorf("RunLoop error = %v, want context.Canceled", err)
		}
	})

	t.Run("failed cycle keeps looping", func(t *testing.T) {
		fetcher := &fakeFetcher{events: []polymarket.APIEvent{{ID: "1"}}}
		reconciler := &fakeReconciler{err: errors.New("transient")}
		syncer := NewSyncer(reconciler, fetcher, 0, nil)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- syncer.RunLoop(ctx, 10*time.Millisecond)
		}()

		deadline := time.After(2 * time.Second)
		for fetcher.calls.Load() < 2 {
			select {
			case <-deadline:
				t.Fatalf("fetcher calls = %d, want at least 2 before deadline", fetcher.calls.Load())
			case <-time.After(5 * time.Millisecond):
			}
		}
		cancel()

		if err := <-done; !errors.Is(err, context.Canceled) {
			t.Errorf("RunLoop error = %v, want context.Canceled", err)
		}
	})
}

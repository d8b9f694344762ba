package dalil

import (
	"context"
	"sync"
	"testing"
	"time"
)

// fakeSearcher records calls and optionally blocks via gate.
type fakeSearcher struct {
	mu    sync.Mutex
	calls []Params
	gate  func(p Params)
}

func (f *fakeSearcher) ListBusinesses(_ context.Context, p Params) (*ListResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, p)
	f.mu.Unlock()
	if f.gate != nil {
		f.gate(p)
	}
	return &ListResult{Meta: Meta{Total: 1}}, nil
}

func (f *fakeSearcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeSearcher) lastCall() Params {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func collectResults() (func(Params, *ListResult), chan Params) {
	ch := make(chan Params, 16)
	return func(p Params, _ *ListResult) { ch <- p }, ch
}

func waitResult(t *testing.T, ch chan Params) Params {
	t.Helper()
	select {
	case p := <-ch:
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a result")
		return Params{}
	}
}

func assertNoResult(t *testing.T, ch chan Params, d time.Duration) {
	t.Helper()
	select {
	case p := <-ch:
		t.Fatalf("unexpected result delivered: %+v", p)
	case <-time.After(d):
	}
}

func TestLiveQuery_DebounceCoalescesKeystrokes(t *testing.T) {
	fs := &fakeSearcher{}
	onResult, results := collectResults()
	q := newLiveQuery(fs, onResult, WithDebounce(40*time.Millisecond))
	defer q.Close()

	q.SetSearch("p")
	q.SetSearch("pu")
	q.SetSearch("pumps")

	got := waitResult(t, results)
	if got.Search != "pumps" {
		t.Errorf("delivered search = %q, want final keystroke only", got.Search)
	}
	if n := fs.callCount(); n != 1 {
		t.Errorf("search calls = %d, want 1 (keystrokes coalesced)", n)
	}
	assertNoResult(t, results, 100*time.Millisecond)
}

func TestLiveQuery_UpdateDispatchesImmediately(t *testing.T) {
	fs := &fakeSearcher{}
	onResult, results := collectResults()
	q := newLiveQuery(fs, onResult, WithDebounce(time.Hour))
	defer q.Close()

	q.Update(func(p *Params) { p.Category = "electronics" })

	got := waitResult(t, results)
	if got.Category != "electronics" {
		t.Errorf("delivered category = %q", got.Category)
	}
}

func TestLiveQuery_UpdateCancelsPendingDebounce(t *testing.T) {
	fs := &fakeSearcher{}
	onResult, results := collectResults()
	q := newLiveQuery(fs, onResult, WithDebounce(50*time.Millisecond))
	defer q.Close()

	q.SetSearch("pumps")
	q.Update(func(p *Params) { p.Verified = true })

	got := waitResult(t, results)
	if got.Search != "pumps" || !got.Verified {
		t.Errorf("delivered state = %+v, want full state with typed text", got)
	}

	// The pending timer was cancelled, so exactly one dispatch happened.
	assertNoResult(t, results, 150*time.Millisecond)
	if n := fs.callCount(); n != 1 {
		t.Errorf("search calls = %d, want 1", n)
	}
}

func TestLiveQuery_StaleResponseDropped(t *testing.T) {
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	fs := &fakeSearcher{gate: func(p Params) {
		if p.Search == "slow" {
			entered <- struct{}{}
			<-release
		}
	}}
	onResult, results := collectResults()
	q := newLiveQuery(fs, onResult, WithDebounce(time.Hour))
	defer q.Close()

	q.Update(func(p *Params) { p.Search = "slow" })
	<-entered

	q.Update(func(p *Params) { p.Search = "fast" })

	got := waitResult(t, results)
	if got.Search != "fast" {
		t.Errorf("delivered search = %q, want newest", got.Search)
	}

	// The slow response finishes after the newer one was delivered and
	// must be discarded.
	close(release)
	assertNoResult(t, results, 150*time.Millisecond)
}

func TestLiveQuery_FlushDispatchesPendingEdit(t *testing.T) {
	fs := &fakeSearcher{}
	onResult, results := collectResults()
	q := newLiveQuery(fs, onResult, WithDebounce(time.Hour))
	defer q.Close()

	q.SetSearch("pumps")
	q.Flush()

	got := waitResult(t, results)
	if got.Search != "pumps" {
		t.Errorf("delivered search = %q", got.Search)
	}
}

func TestLiveQuery_FlushWithoutPendingIsNoop(t *testing.T) {
	fs := &fakeSearcher{}
	onResult, results := collectResults()
	q := newLiveQuery(fs, onResult)
	defer q.Close()

	q.Flush()
	assertNoResult(t, results, 50*time.Millisecond)
	if n := fs.callCount(); n != 0 {
		t.Errorf("search calls = %d, want 0", n)
	}
}

func TestLiveQuery_CloseDiscardsInFlight(t *testing.T) {
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	fs := &fakeSearcher{gate: func(_ Params) {
		entered <- struct{}{}
		<-release
	}}
	onResult, results := collectResults()
	q := newLiveQuery(fs, onResult, WithDebounce(time.Hour))

	q.Update(func(p *Params) { p.Search = "pumps" })
	<-entered

	q.Close()
	close(release)

	assertNoResult(t, results, 150*time.Millisecond)
}

func TestLiveQuery_ErrorHandlerReceivesFailures(t *testing.T) {
	fs := &failingSearcher{}
	errs := make(chan error, 1)
	onResult, results := collectResults()
	q := newLiveQuery(fs, onResult,
		WithDebounce(time.Hour),
		WithErrorHandler(func(_ Params, err error) { errs <- err }))
	defer q.Close()

	q.Update(func(p *Params) { p.Search = "pumps" })

	select {
	case err := <-errs:
		if err == nil {
			t.Error("expected non-nil error")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for error")
	}
	assertNoResult(t, results, 50*time.Millisecond)
}

type failingSearcher struct{}

func (failingSearcher) ListBusinesses(_ context.Context, _ Params) (*ListResult, error) {
	return nil, ErrUpstreamUnavailable
}

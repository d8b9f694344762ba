package dalil

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounce is the delay applied to free-text edits before a search
// is dispatched.
const DefaultDebounce = 500 * time.Millisecond

// LiveOption configures a LiveQuery.
type LiveOption func(*LiveQuery)

// WithDebounce overrides the free-text debounce interval.
func WithDebounce(d time.Duration) LiveOption {
	return func(q *LiveQuery) {
		if d > 0 {
			q.debounce = d
		}
	}
}

// WithErrorHandler sets a callback for failed searches. Errors from
// superseded requests are never delivered.
func WithErrorHandler(fn func(Params, error)) LiveOption {
	return func(q *LiveQuery) {
		q.onError = fn
	}
}

// WithLiveContext sets the context used for dispatched searches.
func WithLiveContext(ctx context.Context) LiveOption {
	return func(q *LiveQuery) {
		q.ctx = ctx
	}
}

// searcher is the LiveQuery view of the client.
type searcher interface {
	ListBusinesses(ctx context.Context, p Params) (*ListResult, error)
}

// LiveQuery drives an interactive search session. Free-text edits are
// debounced; discrete facet changes dispatch immediately with the full
// current state. Every dispatch gets a monotonically increasing sequence
// number and a response is delivered only while it is still the newest,
// so a slow early response can never overwrite a later one.
type LiveQuery struct {
	client   searcher
	onResult func(Params, *ListResult)
	onError  func(Params, error)
	debounce time.Duration
	ctx      context.Context

	mu        sync.Mutex
	params    Params
	timer     *time.Timer
	seq       uint64
	delivered uint64
	closed    bool
}

// NewLiveQuery creates a live search session. onResult receives each
// surviving result together with the state that produced it.
func NewLiveQuery(c *Client, onResult func(Params, *ListResult), opts ...LiveOption) *LiveQuery {
	return newLiveQuery(c, onResult, opts...)
}

func newLiveQuery(c searcher, onResult func(Params, *ListResult), opts ...LiveOption) *LiveQuery {
	q := &LiveQuery{
		client:   c,
		onResult: onResult,
		debounce: DefaultDebounce,
		ctx:      context.Background(),
	}
	for _, o := range opts {
		o(q)
	}
	return q
}

// Params returns a snapshot of the current state.
func (q *LiveQuery) Params() Params {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.params
}

// SetSearch updates the free-text keyword filter. Debounced.
func (q *LiveQuery) SetSearch(text string) {
	q.setDebounced(func(p *Params) { p.Search = text })
}

// SetAddress updates the address filter. Debounced.
func (q *LiveQuery) SetAddress(text string) {
	q.setDebounced(func(p *Params) { p.Address = text })
}

// SetAIText updates the natural-language query. Debounced.
func (q *LiveQuery) SetAIText(text string) {
	q.setDebounced(func(p *Params) { p.AIText = text })
}

// Update applies a change to the state and dispatches immediately. Use it
// for discrete controls: category, type, rating, flags, sort, page.
func (q *LiveQuery) Update(fn func(*Params)) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	fn(&q.params)
	q.stopTimerLocked()
	seq, p := q.nextLocked()
	q.mu.Unlock()

	go q.run(seq, p)
}

// Flush dispatches any pending debounced edit immediately.
func (q *LiveQuery) Flush() {
	q.mu.Lock()
	if q.closed || q.timer == nil {
		q.mu.Unlock()
		return
	}
	q.stopTimerLocked()
	seq, p := q.nextLocked()
	q.mu.Unlock()

	go q.run(seq, p)
}

// Close cancels pending work. In-flight responses are discarded.
func (q *LiveQuery) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.stopTimerLocked()
}

func (q *LiveQuery) setDebounced(fn func(*Params)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	fn(&q.params)
	q.stopTimerLocked()
	q.timer = time.AfterFunc(q.debounce, q.fireTimer)
}

// fireTimer dispatches after the debounce interval elapses.
func (q *LiveQuery) fireTimer() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.timer = nil
	seq, p := q.nextLocked()
	q.mu.Unlock()

	q.run(seq, p)
}

func (q *LiveQuery) nextLocked() (uint64, Params) {
	q.seq++
	return q.seq, q.params
}

func (q *LiveQuery) stopTimerLocked() {
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
}

// run executes the search and delivers the result if it is still the newest.
func (q *LiveQuery) run(seq uint64, p Params) {
	res, err := q.client.ListBusinesses(q.ctx, p)

	q.mu.Lock()
	if q.closed || seq < q.seq || seq <= q.delivered {
		q.mu.Unlock()
		return
	}
	q.delivered = seq
	q.mu.Unlock()

	if err != nil {
		if q.onError != nil {
			q.onError(p, err)
		}
		return
	}
	q.onResult(p, res)
}

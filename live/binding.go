// Package live keeps the quotes of a changing set of tickers up to date.
//
// A Binding owns one refresh cycle at a time. Each time the set of visible
// tickers changes it cancels the cycle in flight and starts a new one; the
// latest requested set always wins and a superseded cycle can never publish
// its result. There is no polling: a cycle runs once per ticker set.
package live

import (
	"context"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/etnz/folio/metrics"
	"github.com/etnz/folio/quote"
	"github.com/rs/zerolog"
)

// State is the phase of the current refresh cycle.
type State uint8

const (
	Idle     State = iota // nothing requested yet
	Loading               // a fetch is in flight
	Settled               // the last fetch succeeded
	Degraded              // the last fetch failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Settled:
		return "settled"
	case Degraded:
		return "degraded"
	}
	return "unknown"
}

// Snapshot is an immutable view of the binding. Its fields, and the Quotes
// map in particular, must not be modified.
type Snapshot struct {
	Key       string   // identity of the ticker set
	Tickers   []string // sorted and de-duplicated
	State     State
	Quotes    map[string]quote.Quote // only visible tickers
	Err       error                  // why the cycle degraded
	UpdatedAt time.Time
}

// Quote returns the quote of ticker, if any.
func (s *Snapshot) Quote(ticker string) (quote.Quote, bool) {
	q, ok := s.Quotes[ticker]
	return q, ok
}

// Unavailable returns the visible tickers without a price.
func (s *Snapshot) Unavailable() []string {
	var res []string
	for _, t := range s.Tickers {
		if q, ok := s.Quotes[t]; !ok || !q.Available() {
			res = append(res, t)
		}
	}
	return res
}

// Key returns the identity of a ticker set: its sorted, de-duplicated
// tickers joined by commas. Empty tickers are ignored.
func Key(tickers []string) (string, []string) {
	list := make([]string, 0, len(tickers))
	for _, t := range tickers {
		if t = strings.TrimSpace(t); t != "" {
			list = append(list, t)
		}
	}
	slices.Sort(list)
	list = slices.Compact(list)
	return strings.Join(list, ","), list
}

type cycle struct {
	key     string
	tickers []string
	cancel  context.CancelFunc
	done    chan struct{}
}

// Binding refreshes quotes for the latest requested ticker set.
type Binding struct {
	svc      quote.Service
	log      zerolog.Logger
	onChange func(*Snapshot)
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	key    string
	cycle  *cycle                 // in flight, nil when none
	last   map[string]quote.Quote // quotes of the last settled cycle
	closed bool

	snap atomic.Pointer[Snapshot]
}

// Option configures a Binding.
type Option func(*Binding)

// WithLogger sets the logger of the refresh cycles.
func WithLogger(log zerolog.Logger) Option {
	return func(b *Binding) { b.log = log.With().Str("component", "live_quotes").Logger() }
}

// OnChange registers f to be called with every published snapshot. f is
// called with the binding locked: it must return quickly and must not call
// SetTickers or Close.
func OnChange(f func(*Snapshot)) Option { return func(b *Binding) { b.onChange = f } }

// New returns an idle binding fetching from svc.
func New(svc quote.Service, opts ...Option) *Binding {
	b := &Binding{
		svc:  svc,
		log:  zerolog.Nop(),
		now:  time.Now,
		last: map[string]quote.Quote{},
	}
	for _, opt := range opts {
		opt(b)
	}
	b.ctx, b.cancel = context.WithCancel(context.Background())
	b.snap.Store(&Snapshot{State: Idle, Quotes: map[string]quote.Quote{}, UpdatedAt: b.now()})
	return b
}

// Snapshot returns the latest published snapshot.
func (b *Binding) Snapshot() *Snapshot { return b.snap.Load() }

// SetTickers makes tickers the visible set. It returns false, and does
// nothing, when the set has the same identity as the current one or the
// binding is closed.
//
// Otherwise the cycle in flight is cancelled and a new one is started. An
// empty set settles at once with no quote and no fetch.
func (b *Binding) SetTickers(tickers []string) bool {
	key, list := Key(tickers)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || key == b.key {
		return false
	}
	b.key = key
	if c := b.cycle; c != nil {
		b.log.Debug().Str("key", c.key).Msg("quote refresh superseded")
		c.cancel()
		b.cycle = nil
	}

	if key == "" {
		b.last = map[string]quote.Quote{}
		b.publish(&Snapshot{State: Settled, Quotes: b.last, UpdatedAt: b.now()})
		return true
	}

	ctx, cancel := context.WithCancel(b.ctx)
	c := &cycle{key: key, tickers: list, cancel: cancel, done: make(chan struct{})}
	b.cycle = c
	b.publish(&Snapshot{Key: key, Tickers: list, State: Loading, Quotes: visible(b.last, list), UpdatedAt: b.now()})
	b.log.Debug().Str("key", key).Msg("quote refresh started")

	b.wg.Add(1)
	go b.run(ctx, c)
	return true
}

func (b *Binding) run(ctx context.Context, c *cycle) {
	defer b.wg.Done()
	defer close(c.done)
	defer c.cancel()

	start := b.now()
	quotes, err := b.svc.Quotes(ctx, c.tickers)
	elapsed := b.now().Sub(start)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cycle != c {
		// superseded or closed: whatever came back is stale.
		b.log.Debug().Str("key", c.key).Msg("quote refresh discarded")
		metrics.RecordRefresh(metrics.Cancelled, elapsed)
		return
	}
	b.cycle = nil

	var s *Snapshot
	if err != nil {
		b.log.Warn().Err(err).Str("key", c.key).Msg("quote refresh failed, keeping previous quotes")
		metrics.RecordRefresh(metrics.Degraded, elapsed)
		s = &Snapshot{Key: c.key, Tickers: c.tickers, State: Degraded, Quotes: visible(b.last, c.tickers), Err: err, UpdatedAt: b.now()}
	} else {
		metrics.RecordRefresh(metrics.Settled, elapsed)
		b.last = visible(quotes, c.tickers)
		s = &Snapshot{Key: c.key, Tickers: c.tickers, State: Settled, Quotes: b.last, UpdatedAt: b.now()}
		b.log.Debug().Str("key", c.key).Int("quotes", len(s.Quotes)).Dur("elapsed", elapsed).Msg("quote refresh settled")
	}
	metrics.SetUnavailable(len(s.Unavailable()))
	b.publish(s)
}

// publish must be called with b.mu held.
func (b *Binding) publish(s *Snapshot) {
	b.snap.Store(s)
	if b.onChange != nil {
		b.onChange(s)
	}
}

// Await blocks until no cycle is in flight, or ctx is done.
func (b *Binding) Await(ctx context.Context) error {
	for {
		b.mu.Lock()
		c := b.cycle
		b.mu.Unlock()
		if c == nil {
			return nil
		}
		select {
		case <-c.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close cancels the cycle in flight and waits for it to return. The last
// snapshot stays readable. Close is idempotent.
func (b *Binding) Close() {
	b.mu.Lock()
	b.closed = true
	b.cycle = nil
	b.mu.Unlock()

	b.cancel()
	b.wg.Wait()
}

// visible returns the quotes of tickers found in quotes.
func visible(quotes map[string]quote.Quote, tickers []string) map[string]quote.Quote {
	res := make(map[string]quote.Quote, len(tickers))
	for _, t := range tickers {
		if q, ok := quotes[t]; ok {
			res[t] = q
		}
	}
	return res
}

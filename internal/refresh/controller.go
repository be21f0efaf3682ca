package refresh

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"survey-insights-go/internal/logger"
	"survey-insights-go/internal/types"
)

// ErrStale is reported to subscribers when a cycle finished after a newer one
// had already published.
var ErrStale = errors.New("refresh: stale cycle discarded")

// RunFunc computes one aggregate from fresh upstream data.
type RunFunc func(ctx context.Context) (types.AggregateResult, error)

// Event describes a finished cycle.
type Event struct {
	CycleID   string
	Seq       uint64
	Published bool
	Err       error
	At        time.Time
}

// State is what the rendering layer reads. Result is nil until the first
// successful cycle and must be treated as read-only.
type State struct {
	Result     *types.AggregateResult `json:"result"`
	CycleID    string                 `json:"cycle_id,omitempty"`
	LastError  string                 `json:"last_error,omitempty"`
	Loading    bool                   `json:"loading"`
	LastUpdate time.Time              `json:"last_update"`
	NextUpdate time.Time              `json:"next_update"`
}

type Controller struct {
	run      RunFunc
	interval time.Duration
	log      *logger.Logger

	mu        sync.Mutex
	seq       uint64
	published uint64
	inflight  int
	state     State
	subs      []func(Event)

	base   context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func New(run RunFunc, interval time.Duration, log *logger.Logger) *Controller {
	return &Controller{
		run:      run,
		interval: interval,
		log:      log.Component("refresh"),
	}
}

// Subscribe registers fn to be called after every cycle, outside the lock.
func (c *Controller) Subscribe(fn func(Event)) {
	c.mu.Lock()
	c.subs = append(c.subs, fn)
	c.mu.Unlock()
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start runs a cycle immediately and then every interval until ctx is done
// or Stop is called. Calling Start twice is a no-op.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	if c.done != nil {
		c.mu.Unlock()
		return
	}
	c.base, c.cancel = context.WithCancel(ctx)
	c.done = make(chan struct{})
	base, done := c.base, c.done
	c.mu.Unlock()

	go func() {
		defer close(done)
		c.cycle(base)

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			c.mu.Lock()
			c.state.NextUpdate = time.Now().Add(c.interval)
			c.mu.Unlock()

			select {
			case <-base.Done():
				return
			case <-ticker.C:
				c.cycle(base)
			}
		}
	}()
	c.log.WithField("interval", c.interval.String()).Info("refresh loop started")
}

// Stop cancels the timer and any in-flight cycle, then waits for the loop to exit.
func (c *Controller) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
	c.log.Info("refresh loop stopped")
}

// RefreshNow runs one cycle synchronously. The cycle is also cancelled by Stop.
func (c *Controller) RefreshNow(ctx context.Context) (types.AggregateResult, error) {
	c.mu.Lock()
	base := c.base
	c.mu.Unlock()

	if base != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(ctx)
		defer cancel()
		stop := context.AfterFunc(base, cancel)
		defer stop()
	}
	ev, res := c.cycle(ctx)
	return res, ev.Err
}

func (c *Controller) cycle(ctx context.Context) (Event, types.AggregateResult) {
	c.mu.Lock()
	c.seq++
	ev := Event{CycleID: uuid.NewString(), Seq: c.seq}
	c.inflight++
	c.state.Loading = true
	c.mu.Unlock()

	log := c.log.WithField("cycle_id", ev.CycleID).WithField("seq", ev.Seq)
	log.Debug("cycle started")
	res, err := c.run(ctx)

	c.mu.Lock()
	c.inflight--
	c.state.Loading = c.inflight > 0
	ev.At = time.Now()
	stale := ev.Seq <= c.published
	switch {
	case stale:
		if err == nil {
			err = ErrStale
		}
	case err != nil:
		c.state.LastError = err.Error()
	default:
		c.published = ev.Seq
		c.state.Result = &res
		c.state.CycleID = ev.CycleID
		c.state.LastError = ""
		c.state.LastUpdate = ev.At
		ev.Published = true
	}
	ev.Err = err
	subs := append(([]func(Event))(nil), c.subs...)
	c.mu.Unlock()

	switch {
	case ev.Published:
		log.Info("cycle published")
	case stale:
		log.WithField("error", err.Error()).Warn("cycle discarded")
	default:
		log.WithField("error", err.Error()).Error("cycle failed; keeping last result")
	}
	for _, fn := range subs {
		fn(ev)
	}
	return ev, res
}

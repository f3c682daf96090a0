// Package health keeps a best-effort realtime feed of backend health: a
// WebSocket subscription while it lasts, bounded exponential-backoff
// reconnects when it drops, and periodic REST polling of the same data once
// the reconnect budget is spent.
package health

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/tooloo/tooloo-go/pkg/chat"
)

// Phase is the monitor's connection state.
type Phase int

const (
	PhaseConnected Phase = iota
	PhaseReconnecting
	PhasePollingFallback
)

func (p Phase) String() string {
	switch p {
	case PhaseConnected:
		return "connected"
	case PhaseReconnecting:
		return "reconnecting"
	case PhasePollingFallback:
		return "polling-fallback"
	}
	return "unknown"
}

// State is a phase plus the reconnect attempt that produced it.
type State struct {
	Phase   Phase
	Attempt int
}

// Source tells consumers whether an update arrived over the socket or from a
// poll.
type Source string

const (
	SourceSocket Source = "socket"
	SourcePoll   Source = "poll"
)

// Update is one health document delivered to the consumer.
type Update struct {
	Snapshot chat.HealthSnapshot
	Source   Source
}

// Conn is the read side of a health socket.
type Conn interface {
	ReadJSON(v any) error
	Close() error
}

// Dialer opens health sockets. The default wraps gorilla/websocket; tests
// substitute scripted fakes.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

type wsDialer struct{}

func (wsDialer) Dial(ctx context.Context, url string) (Conn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// PollFunc fetches a health snapshot over REST; chat.Client.Health satisfies
// it.
type PollFunc func(ctx context.Context) (chat.HealthSnapshot, error)

// Monitor drives the Connected / Reconnecting / PollingFallback state
// machine. Construct with NewMonitor, then Run on a goroutine; OnUpdate and
// OnState callbacks fire on the monitor's goroutine.
type Monitor struct {
	url          string
	poll         PollFunc
	dialer       Dialer
	maxAttempts  int
	baseDelay    time.Duration
	maxDelay     time.Duration
	pollInterval time.Duration
	onUpdate     func(Update)
	onState      func(State)
	log          zerolog.Logger
}

// MonitorOption configures a Monitor.
type MonitorOption func(*Monitor)

// WithDialer substitutes the socket dialer.
func WithDialer(d Dialer) MonitorOption {
	return func(m *Monitor) { m.dialer = d }
}

// WithReconnectPolicy bounds reconnection: at most maxAttempts dials after a
// drop, with delays growing from base up to max.
func WithReconnectPolicy(maxAttempts int, base, max time.Duration) MonitorOption {
	return func(m *Monitor) {
		m.maxAttempts = maxAttempts
		m.baseDelay = base
		m.maxDelay = max
	}
}

// WithPollInterval sets the fallback polling cadence.
func WithPollInterval(d time.Duration) MonitorOption {
	return func(m *Monitor) { m.pollInterval = d }
}

// OnUpdate registers the update callback.
func OnUpdate(fn func(Update)) MonitorOption {
	return func(m *Monitor) { m.onUpdate = fn }
}

// OnState registers the state-change callback.
func OnState(fn func(State)) MonitorOption {
	return func(m *Monitor) { m.onState = fn }
}

// WithLogger attaches a logger; default is a no-op logger.
func WithLogger(log zerolog.Logger) MonitorOption {
	return func(m *Monitor) { m.log = log }
}

// NewMonitor builds a monitor for the given socket url, polling with poll
// once the reconnect budget is exhausted.
func NewMonitor(url string, poll PollFunc, opts ...MonitorOption) *Monitor {
	m := &Monitor{
		url:          url,
		poll:         poll,
		dialer:       wsDialer{},
		maxAttempts:  5,
		baseDelay:    500 * time.Millisecond,
		maxDelay:     15 * time.Second,
		pollInterval: 30 * time.Second,
		log:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run blocks until ctx is done. It returns ctx.Err() on cancellation; it
// never gives up on its own — past the reconnect cap it degrades to polling
// rather than stopping.
func (m *Monitor) Run(ctx context.Context) error {
	attempt := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		conn, err := m.dialer.Dial(ctx, m.url)
		if err == nil {
			attempt = 0
			m.setState(State{Phase: PhaseConnected})
			m.readLoop(ctx, conn)
			if err := ctx.Err(); err != nil {
				return err
			}
			// Socket dropped: fall through into reconnection.
		} else {
			m.log.Warn().Err(err).Int("attempt", attempt).Msg("health socket dial failed")
		}

		attempt++
		if attempt > m.maxAttempts {
			m.log.Info().Int("attempts", m.maxAttempts).Msg("reconnect budget spent, degrading to polling")
			m.setState(State{Phase: PhasePollingFallback})
			return m.pollLoop(ctx)
		}

		m.setState(State{Phase: PhaseReconnecting, Attempt: attempt})
		if err := sleepCtx(ctx, backoffDelay(attempt, m.baseDelay, m.maxDelay)); err != nil {
			return err
		}
	}
}

func (m *Monitor) readLoop(ctx context.Context, conn Conn) {
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		var snap chat.HealthSnapshot
		if err := conn.ReadJSON(&snap); err != nil {
			if ctx.Err() == nil {
				m.log.Warn().Err(err).Msg("health socket read failed")
			}
			return
		}
		m.deliver(Update{Snapshot: snap, Source: SourceSocket})
	}
}

func (m *Monitor) pollLoop(ctx context.Context) error {
	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	// One immediate poll so the consumer is not blind for a full interval.
	m.pollOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.pollOnce(ctx)
		}
	}
}

func (m *Monitor) pollOnce(ctx context.Context) {
	snap, err := m.poll(ctx)
	if err != nil {
		if ctx.Err() == nil {
			m.log.Warn().Err(err).Msg("health poll failed")
		}
		return
	}
	m.deliver(Update{Snapshot: snap, Source: SourcePoll})
}

func (m *Monitor) deliver(u Update) {
	if m.onUpdate != nil {
		m.onUpdate(u)
	}
}

func (m *Monitor) setState(s State) {
	if m.onState != nil {
		m.onState(s)
	}
}

// backoffDelay doubles from base per attempt, capped at max.
func backoffDelay(attempt int, base, max time.Duration) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := base << uint(attempt-1)
	if d > max || d <= 0 {
		d = max
	}
	return d
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("health: reconnect wait aborted: %w", ctx.Err())
	case <-t.C:
		return nil
	}
}

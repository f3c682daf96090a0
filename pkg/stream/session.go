package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// State is the lifecycle of one streaming session.
type State int32

const (
	StatePending State = iota
	StateStreaming
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateStreaming:
		return "streaming"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Session owns one streaming request's full lifecycle: issue the POST, drive
// the decode/interpret loop, accumulate content, and surface a terminal
// Result or error. A Session is single-use; each request needs a fresh one,
// and sessions never share state with each other.
type Session struct {
	client      *http.Client
	url         string
	headers     map[string]string
	idleTimeout time.Duration

	state atomic.Int32

	mu     sync.Mutex
	cancel context.CancelFunc
}

// Option configures a Session.
type Option func(*Session)

// WithIdleTimeout fails the session if no line arrives within d. The wire
// protocol specifies no timeout, so a hung server would otherwise leave the
// session streaming forever. Zero disables the guard.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Session) { s.idleTimeout = d }
}

// WithHeader adds a request header (e.g. Authorization).
func WithHeader(key, value string) Option {
	return func(s *Session) { s.headers[key] = value }
}

// NewSession prepares a session against url. client should be SSE-friendly
// (no transparent compression, no global timeout); see pkg/httpx.
func NewSession(client *http.Client, url string, opts ...Option) *Session {
	s := &Session{
		client:  client,
		url:     url,
		headers: map[string]string{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the session's current lifecycle state.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Cancel releases the active reader and stops callback delivery. Safe to call
// from another goroutine and more than once.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

// Start issues the request and drives the stream until a terminal record or
// failure. Callbacks fire in record arrival order, synchronously on the
// calling goroutine. The returned Result is only valid when err is nil; on
// any failure path partial content is not exposed as a result.
func (s *Session) Start(ctx context.Context, payload any, cb Callbacks) (Result, error) {
	interp := NewInterpreter(cb)

	body, err := json.Marshal(payload)
	if err != nil {
		werr := fmt.Errorf("stream: marshal request payload: %w", err)
		s.fail(interp, werr)
		return Result{}, werr
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		werr := fmt.Errorf("stream: build request: %w", err)
		s.fail(interp, werr)
		return Result{}, werr
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		terr := &TransportError{Err: err}
		s.fail(interp, terr)
		return Result{}, terr
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		terr := &TransportError{StatusCode: resp.StatusCode}
		s.fail(interp, terr)
		return Result{}, terr
	}
	if resp.Body == nil {
		s.fail(interp, ErrNoBody)
		return Result{}, ErrNoBody
	}

	s.state.Store(int32(StateStreaming))

	var timedOut atomic.Bool
	var idle *time.Timer
	if s.idleTimeout > 0 {
		idle = time.AfterFunc(s.idleTimeout, func() {
			timedOut.Store(true)
			cancel()
		})
		defer idle.Stop()
	}

	dec := NewDecoder(resp.Body)
	for {
		ev, err := dec.Next()
		if idle != nil {
			idle.Reset(s.idleTimeout)
		}
		if err == io.EOF {
			if timedOut.Load() {
				s.fail(interp, ErrIdleTimeout)
				return Result{}, ErrIdleTimeout
			}
			if cerr := ctx.Err(); cerr != nil {
				werr := fmt.Errorf("stream: read aborted: %w", cerr)
				s.fail(interp, werr)
				return Result{}, werr
			}
			// The server closed the body without ever sending done or
			// error: silent truncation, an explicit failure.
			s.fail(interp, ErrTruncated)
			return Result{}, ErrTruncated
		}
		if err != nil {
			var werr error
			switch {
			case timedOut.Load():
				werr = ErrIdleTimeout
			case ctx.Err() != nil:
				werr = fmt.Errorf("stream: read aborted: %w", ctx.Err())
			default:
				werr = &TransportError{Err: err}
			}
			s.fail(interp, werr)
			return Result{}, werr
		}

		terminal, perr := interp.Apply(ev)
		if perr != nil {
			s.state.Store(int32(StateFailed))
			return Result{}, perr
		}
		if terminal {
			// Stop reading here: anything the server sends after the done
			// record is ignored and no further callback fires.
			s.state.Store(int32(StateCompleted))
			return Result{
				Content: interp.Content(),
				Metadata: Metadata{
					Provider:  ev.Provider,
					Model:     ev.Model,
					CostUSD:   ev.CostUSD,
					Reasoning: ev.Reasoning,
				},
			}, nil
		}
	}
}

func (s *Session) fail(interp *Interpreter, err error) {
	s.state.Store(int32(StateFailed))
	interp.fail(err)
}

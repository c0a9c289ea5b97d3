package conn

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
)

// State describes backend reachability.
type State string

const (
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateDisconnected State = "disconnected"
	StateError        State = "error"
)

// Listener observes state transitions. Listeners run synchronously on the
// transitioning goroutine; a panicking listener does not stop the others.
type Listener func(State)

// Pinger is the probe used to verify backend reachability. *sql.DB
// satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type queuedOp struct {
	ctx   context.Context
	label string
	op    func(context.Context) error
	done  chan error
}

// Manager tracks backend reachability, queues operations issued while not
// connected, and wraps operations in a bounded retry policy. Construct one
// per application; there is no package-level instance.
type Manager struct {
	maxAttempts int
	baseDelay   time.Duration

	mu        sync.Mutex
	state     State
	listeners []Listener
	queue     []*queuedOp
	draining  bool
}

// NewManager builds a Manager in the connecting state. maxAttempts is the
// total number of invocations for a transient failure, baseDelay the unit
// of the linear backoff.
func NewManager(maxAttempts int, baseDelay time.Duration) *Manager {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Manager{
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		state:       StateConnecting,
	}
}

// State returns the current connection state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe registers a listener for all future state transitions.
func (m *Manager) Subscribe(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

// Connect probes the backend and moves to connected, or to error when the
// probe keeps failing. Probing retries with capped exponential backoff
// until maxWait elapses.
func (m *Manager) Connect(ctx context.Context, p Pinger, maxWait time.Duration) error {
	const (
		pingTimeout    = 5 * time.Second
		initialBackoff = 500 * time.Millisecond
		maxBackoff     = 5 * time.Second
	)

	deadline := time.Now().Add(maxWait)
	backoff := initialBackoff
	var lastErr error

	for {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		lastErr = p.PingContext(pingCtx)
		cancel()

		if lastErr == nil {
			m.setState(StateConnected)
			m.drain()
			return nil
		}

		if ctx.Err() != nil || time.Now().After(deadline) {
			break
		}

		time.Sleep(backoff)
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}

	m.setState(StateError)
	return fmt.Errorf("connect: %w", lastErr)
}

// Disconnect marks the backend unreachable. Subsequent Execute calls queue
// until Reconnect succeeds.
func (m *Manager) Disconnect() {
	m.setState(StateDisconnected)
}

// Reconnect probes the backend once and, on success, moves to connected and
// replays queued operations in enqueue order.
func (m *Manager) Reconnect(ctx context.Context, p Pinger) error {
	if err := p.PingContext(ctx); err != nil {
		m.setState(StateError)
		return fmt.Errorf("reconnect: %w", err)
	}
	m.setState(StateConnected)
	m.drain()
	return nil
}

// Execute runs op under the retry policy. When the manager is not
// connected the call queues and resolves once a replay runs it. Transient
// failures are retried up to the attempt bound with linearly increasing
// delay; other errors propagate immediately.
func (m *Manager) Execute(ctx context.Context, label string, op func(context.Context) error) error {
	m.mu.Lock()
	if m.state != StateConnected {
		q := &queuedOp{ctx: ctx, label: label, op: op, done: make(chan error, 1)}
		m.queue = append(m.queue, q)
		m.mu.Unlock()
		log.Debug().Str("op", label).Msg("queued while not connected")

		select {
		case err := <-q.done:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.mu.Unlock()

	return m.runWithRetry(ctx, label, op)
}

func (m *Manager) runWithRetry(ctx context.Context, label string, op func(context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= m.maxAttempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if !IsTransient(lastErr) {
			return lastErr
		}
		if attempt == m.maxAttempts {
			break
		}

		delay := m.baseDelay * time.Duration(attempt)
		log.Warn().
			Str("op", label).
			Int("attempt", attempt).
			Dur("delay", delay).
			Err(lastErr).
			Msg("transient failure, retrying")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("%s: retries exhausted: %w", label, lastErr)
}

// drain replays queued operations one at a time, stopping if the state
// leaves connected mid-drain. Remaining operations stay queued.
func (m *Manager) drain() {
	m.mu.Lock()
	if m.draining {
		m.mu.Unlock()
		return
	}
	m.draining = true
	m.mu.Unlock()

	go func() {
		defer func() {
			m.mu.Lock()
			m.draining = false
			m.mu.Unlock()
		}()

		for {
			m.mu.Lock()
			if m.state != StateConnected || len(m.queue) == 0 {
				m.mu.Unlock()
				return
			}
			q := m.queue[0]
			m.queue = m.queue[1:]
			m.mu.Unlock()

			q.done <- m.runWithRetry(q.ctx, q.label, q.op)
		}
	}()
}

func (m *Manager) setState(next State) {
	m.mu.Lock()
	if m.state == next {
		m.mu.Unlock()
		return
	}
	m.state = next
	listeners := make([]Listener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	for _, l := range listeners {
		notify(l, next)
	}
}

func notify(l Listener, s State) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("connection listener panicked")
		}
	}()
	l(s)
}

// transientTexts is the fixed classification set for transient network
// errors; anything else propagates without retry.
var transientTexts = []string{
	"unavailable",
	"deadline-exceeded",
	"deadline exceeded",
	"cancelled",
	"failed-precondition",
	"offline",
	"network",
	"connection",
}

// IsTransient reports whether err matches the fixed transient-error set.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, driver.ErrBadConn) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08: connection exception. 57P01: admin shutdown.
		// 53300: too many connections.
		if strings.HasPrefix(pgErr.Code, "08") || pgErr.Code == "57P01" || pgErr.Code == "53300" {
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	for _, t := range transientTexts {
		if strings.Contains(msg, t) {
			return true
		}
	}
	return false
}

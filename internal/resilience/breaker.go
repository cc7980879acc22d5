package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrOpen = errors.New("breaker is open")

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

type BreakerConfig struct {
	Name        string
	MaxFailures int
	Cooldown    time.Duration
	// OnStateChange runs synchronously, outside the breaker lock.
	OnStateChange func(name string, from, to State)
}

// Breaker stops calling an operation that keeps failing. After MaxFailures
// consecutive failures it rejects calls for Cooldown, then lets one trial
// call through: success closes it, failure opens it again.
type Breaker struct {
	name          string
	maxFailures   int
	cooldown      time.Duration
	onStateChange func(name string, from, to State)
	now           func() time.Time

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
	trial    bool
}

func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 3
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 30 * time.Second
	}
	return &Breaker{
		name:          cfg.Name,
		maxFailures:   cfg.MaxFailures,
		cooldown:      cfg.Cooldown,
		onStateChange: cfg.OnStateChange,
		now:           time.Now,
		state:         StateClosed,
	}
}

// WithClock replaces the time source.
func (b *Breaker) WithClock(now func() time.Time) *Breaker {
	b.now = now
	return b
}

// Execute runs fn unless the breaker is open. ErrOpen is returned without
// calling fn.
func (b *Breaker) Execute(fn func() error) error {
	if err := b.before(); err != nil {
		return err
	}

	err := fn()
	b.after(err)
	return err
}

func (b *Breaker) before() error {
	b.mu.Lock()
	from := b.state

	switch b.state {
	case StateOpen:
		if b.now().Sub(b.openedAt) < b.cooldown {
			b.mu.Unlock()
			return ErrOpen
		}
		b.state = StateHalfOpen
		b.trial = true
	case StateHalfOpen:
		if b.trial {
			b.mu.Unlock()
			return ErrOpen
		}
		b.trial = true
	}

	to := b.state
	b.mu.Unlock()
	b.notify(from, to)
	return nil
}

func (b *Breaker) after(err error) {
	b.mu.Lock()
	from := b.state

	if err == nil {
		b.failures = 0
		b.state = StateClosed
	} else {
		b.failures++
		if b.state == StateHalfOpen || b.failures >= b.maxFailures {
			b.state = StateOpen
			b.openedAt = b.now()
			b.failures = 0
		}
	}
	b.trial = false

	to := b.state
	b.mu.Unlock()
	b.notify(from, to)
}

func (b *Breaker) notify(from, to State) {
	if from != to && b.onStateChange != nil {
		b.onStateChange(b.name, from, to)
	}
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateClosed
	b.failures = 0
	b.trial = false
}

package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

// trialWindow tracks the trial calls admitted while half-open.
type trialWindow struct {
	limit     int
	inFlight  int
	succeeded int
}

func (p *trialWindow) admit() bool {
	if p.inFlight >= p.limit {
		return false
	}
	p.inFlight++
	return true
}

func (p *trialWindow) settle() (done bool) {
	if p.inFlight > 0 {
		p.inFlight--
	}
	p.succeeded++
	return p.succeeded >= p.limit && p.inFlight == 0
}

func (p *trialWindow) reset() {
	p.inFlight, p.succeeded = 0, 0
}

// CircuitBreaker guards one upstream (FPL or an LLM provider). It opens after
// FailureThreshold consecutive failures, rejects calls for OpenTimeout, then
// admits HalfOpenMaxReq trials before closing again.
type CircuitBreaker struct {
	mu sync.Mutex

	threshold int
	cooldown  time.Duration

	state     CircuitState
	failures  int
	trippedAt time.Time
	trials    trialWindow

	now          func() time.Time
	onTransition func(from, to CircuitState)
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	cfg = NormalizeCircuitBreakerConfig(cfg)
	return &CircuitBreaker{
		threshold: cfg.FailureThreshold,
		cooldown:  cfg.OpenTimeout,
		state:     CircuitStateClosed,
		trials:    trialWindow{limit: cfg.HalfOpenMaxReq},
		now:       time.Now,
	}
}

// OnTransition sets the hook fired on each state change. It runs with the
// breaker locked and must not call back into it.
func (b *CircuitBreaker) OnTransition(fn func(from, to CircuitState)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onTransition = fn
}

// Allow reports whether a call may proceed. Every nil return must be followed
// by RecordSuccess or RecordFailure.
func (b *CircuitBreaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen {
		if !b.cooledDown() {
			return ErrCircuitOpen
		}
		b.moveTo(CircuitStateHalfOpen)
	}
	if b.state == CircuitStateHalfOpen && !b.trials.admit() {
		return ErrCircuitOpen
	}
	return nil
}

func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateHalfOpen {
		if b.trials.settle() {
			b.moveTo(CircuitStateClosed)
		}
		return
	}
	b.failures = 0
}

func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitStateHalfOpen:
		b.moveTo(CircuitStateOpen)
	case CircuitStateOpen:
		// a late failure from a call admitted before tripping extends the cooldown
		b.trippedAt = b.now()
	default:
		if b.failures++; b.failures >= b.threshold {
			b.moveTo(CircuitStateOpen)
		}
	}
}

// State reports half-open once the cooldown has elapsed, even before the next
// Allow performs the transition.
func (b *CircuitBreaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen && b.cooledDown() {
		return CircuitStateHalfOpen
	}
	return b.state
}

func (b *CircuitBreaker) cooledDown() bool {
	return b.now().Sub(b.trippedAt) >= b.cooldown
}

func (b *CircuitBreaker) moveTo(next CircuitState) {
	prev := b.state
	if prev == next {
		return
	}
	b.state = next
	b.trials.reset()

	switch next {
	case CircuitStateOpen:
		b.trippedAt = b.now()
	case CircuitStateClosed:
		b.failures = 0
		b.trippedAt = time.Time{}
	}

	if b.onTransition != nil {
		b.onTransition(prev, next)
	}
}

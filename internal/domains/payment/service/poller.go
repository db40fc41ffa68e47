package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"alojasys/internal/external/cardgateway"
)

// PollTarget identifies one gateway charge being watched for confirmation.
type PollTarget struct {
	SessionID     string
	PaymentID     string
	ReservationID string
	Reference     string
	// ConfirmReservation marks booking payments, whose approval also
	// moves the reservation to confirmed.
	ConfirmReservation bool
	IsDeposit          bool
}

// PauseFunc is consulted on every tick. A paused tick performs no gateway
// call and does not consume an attempt.
type PauseFunc func(ctx context.Context) bool

// FinalizeFunc receives the terminal gateway result for a still-current run.
type FinalizeFunc func(ctx context.Context, target PollTarget, result cardgateway.ChargeResult)

// Poller drives confirmation polling for in-process gateway charges. One run
// per session: starting a new run for a session tears the previous one down,
// and a run whose reference is no longer current never finalizes.
type Poller interface {
	Start(target PollTarget, pause PauseFunc)
	Stop(sessionID string)
	Active(sessionID string) bool
}

type pollRun struct {
	reference string
	cancel    context.CancelFunc
}

type pollerImpl struct {
	gateway     cardgateway.Client
	interval    time.Duration
	maxAttempts int
	finalize    FinalizeFunc

	mu   sync.Mutex
	runs map[string]*pollRun
}

func NewPoller(gateway cardgateway.Client, interval time.Duration, maxAttempts int, finalize FinalizeFunc) Poller {
	return &pollerImpl{
		gateway:     gateway,
		interval:    interval,
		maxAttempts: maxAttempts,
		finalize:    finalize,
		runs:        map[string]*pollRun{},
	}
}

func (p *pollerImpl) Start(target PollTarget, pause PauseFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	p.mu.Lock()
	if run, ok := p.runs[target.SessionID]; ok {
		run.cancel()
	}

	p.runs[target.SessionID] = &pollRun{reference: target.Reference, cancel: cancel}
	p.mu.Unlock()

	go p.loop(ctx, target, pause)
}

func (p *pollerImpl) Stop(sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if run, ok := p.runs[sessionID]; ok {
		run.cancel()
		delete(p.runs, sessionID)
	}
}

func (p *pollerImpl) Active(sessionID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, ok := p.runs[sessionID]

	return ok
}

func (p *pollerImpl) loop(ctx context.Context, target PollTarget, pause PauseFunc) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	attempts := 0

	for attempts < p.maxAttempts {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if pause != nil && pause(ctx) {
			continue
		}

		attempts++

		result, err := p.gateway.PreferenceStatus(ctx, target.Reference)
		if err != nil {
			log.Warn().Err(err).Str("reference", target.Reference).Msg("confirmation poll failed")

			continue
		}

		if result.Status == cardgateway.StatusInProcess {
			continue
		}

		if p.claim(target) {
			p.finalize(ctx, target, result)
		}

		return
	}

	// Attempts exhausted: the charge stays in-process and the operator
	// decides what to do next. No error surfaces.
	log.Debug().Str("reference", target.Reference).Msg("confirmation polling exhausted")
	p.release(target)
}

// claim atomically retires the run, but only if it is still the current one
// for its session. A run superseded by a method change or reopen loses the
// race and its result is dropped.
func (p *pollerImpl) claim(target PollTarget) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	run, ok := p.runs[target.SessionID]
	if !ok || run.reference != target.Reference {
		return false
	}

	delete(p.runs, target.SessionID)

	return true
}

func (p *pollerImpl) release(target PollTarget) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if run, ok := p.runs[target.SessionID]; ok && run.reference == target.Reference {
		delete(p.runs, target.SessionID)
	}
}

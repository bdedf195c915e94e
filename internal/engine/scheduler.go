package engine

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tartampluch/go-countdown/internal/config"
)

// Surface is the display the Scheduler writes derived state to.
// Implementations must tolerate repeated identical calls and skip any element
// they do not have.
type Surface interface {
	SetCountdown(r Remaining)
	SetCardLocked(step int, locked bool)
	SetUrgent(urgent bool)
	RevealFinale()
}

// Scheduler owns a Schedule and keeps a Surface consistent with wall-clock time.
type Scheduler struct {
	Schedule  Schedule
	Cards     []Card
	Surface   Surface
	Clock     Clock      // Interface for time mocking.
	NewTicker TickerFunc // Ticker factory for the repeating cycles.

	// Celebrate runs the cosmetic side-show once, right after the finale reveal.
	Celebrate func()

	finaleFired atomic.Bool
}

// NewScheduler builds a Scheduler with one card per step, the real clock and real tickers.
func NewScheduler(s Schedule, surface Surface) *Scheduler {
	return &Scheduler{
		Schedule:  s,
		Cards:     NewCards(s.TotalSteps),
		Surface:   surface,
		Clock:     RealClock{},
		NewTicker: NewRealTicker,
	}
}

// State derives the current display state.
func (s *Scheduler) State() State {
	return Derive(s.Clock.Now(), s.Schedule)
}

// Apply writes a full state to the surface. Applying the same state twice is a no-op
// on the surface, and the finale is only ever revealed once.
func (s *Scheduler) Apply(st State) {
	s.applyCountdown(st)
	s.applyCards(st)
	s.applyUrgency(st)
}

// RefreshCountdown is the body of the countdown cycle.
func (s *Scheduler) RefreshCountdown() { s.applyCountdown(s.State()) }

// RefreshCards is the body of the card cycle.
func (s *Scheduler) RefreshCards() { s.applyCards(s.State()) }

// RefreshUrgency is the body of the urgency cycle.
func (s *Scheduler) RefreshUrgency() { s.applyUrgency(s.State()) }

// FinaleFired reports whether the one-shot reveal already happened.
func (s *Scheduler) FinaleFired() bool {
	return s.finaleFired.Load()
}

// Run applies the current state, then re-evaluates it on three independent
// cycles until ctx is cancelled. It must only be called once the surface exists.
func (s *Scheduler) Run(ctx context.Context) {
	log := slog.With(config.LogKeyComponent, config.CompScheduler)

	s.Apply(s.State())

	cycles := []struct {
		name  string
		every time.Duration
		fn    func()
	}{
		{config.CycleCountdown, config.CountdownInterval, s.RefreshCountdown},
		{config.CycleCards, config.CardsInterval, s.RefreshCards},
		{config.CycleUrgency, config.UrgencyInterval, s.RefreshUrgency},
	}

	log.Info(config.MsgSchedulerStart,
		config.LogKeyStep, CurrentStep(s.Clock.Now(), s.Schedule),
		config.LogKeySteps, s.Schedule.TotalSteps,
		config.LogKeyUnlockAll, s.Schedule.UnlockAll)

	var wg sync.WaitGroup
	for _, c := range cycles {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.repeat(ctx, c.name, c.every, c.fn)
		}()
	}
	wg.Wait()

	log.Info(config.MsgSchedulerStop)
}

// repeat runs fn on every beat of a fresh ticker until ctx is done.
func (s *Scheduler) repeat(ctx context.Context, name string, every time.Duration, fn func()) {
	t := s.NewTicker(every)
	defer t.Stop()

	slog.Debug(config.MsgCycleStart,
		config.LogKeyComponent, config.CompScheduler,
		config.LogKeyCycle, name,
		config.LogKeyInterval, every)

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C():
			fn()
		}
	}
}

func (s *Scheduler) applyCountdown(st State) {
	if s.Surface == nil {
		return
	}
	s.Surface.SetCountdown(st.Remaining)
	if st.FinaleReached || st.AnniversaryReached {
		s.fireFinale()
	}
}

func (s *Scheduler) applyCards(st State) {
	if s.Surface == nil {
		return
	}
	for _, c := range s.Cards {
		s.Surface.SetCardLocked(c.Step, !c.Unlocked(st.CurrentStep))
	}
}

func (s *Scheduler) applyUrgency(st State) {
	if s.Surface == nil {
		return
	}
	s.Surface.SetUrgent(st.Urgent)
}

// fireFinale reveals the surprise exactly once per Scheduler.
func (s *Scheduler) fireFinale() {
	if !s.finaleFired.CompareAndSwap(false, true) {
		return
	}

	slog.Info(config.MsgFinaleRevealed, config.LogKeyComponent, config.CompScheduler)
	s.Surface.RevealFinale()
	if s.Celebrate != nil {
		s.Celebrate()
	}
}

package engine_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-countdown/internal/config"
	"github.com/tartampluch/go-countdown/internal/engine"
	"go.uber.org/goleak"
)

// -----------------------------------------------------------------------------
// Mocks
// -----------------------------------------------------------------------------

// MockSurface records surface writes using `testify/mock`.
type MockSurface struct {
	mock.Mock
}

func (m *MockSurface) SetCountdown(r engine.Remaining)     { m.Called(r) }
func (m *MockSurface) SetCardLocked(step int, locked bool) { m.Called(step, locked) }
func (m *MockSurface) SetUrgent(urgent bool)               { m.Called(urgent) }
func (m *MockSurface) RevealFinale()                       { m.Called() }

// MockClock controls time for deterministic testing.
// It is safe for use from the scheduler goroutines.
type MockClock struct {
	mu          sync.Mutex
	CurrentTime time.Time
}

func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CurrentTime
}

func (m *MockClock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CurrentTime = t
}

// fakeTicker is fired manually by the test.
type fakeTicker struct {
	c       chan time.Time
	stopped chan struct{}
	once    sync.Once
}

func (f *fakeTicker) C() <-chan time.Time { return f.c }
func (f *fakeTicker) Stop()               { f.once.Do(func() { close(f.stopped) }) }

// tickerSet hands out one fakeTicker per interval.
type tickerSet struct {
	mu      sync.Mutex
	tickers map[time.Duration]*fakeTicker
}

func newTickerSet() *tickerSet {
	return &tickerSet{tickers: make(map[time.Duration]*fakeTicker)}
}

func (ts *tickerSet) New(d time.Duration) engine.Ticker {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	t := &fakeTicker{c: make(chan time.Time), stopped: make(chan struct{})}
	ts.tickers[d] = t
	return t
}

func (ts *tickerSet) get(d time.Duration) *fakeTicker {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.tickers[d]
}

func (ts *tickerSet) count() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return len(ts.tickers)
}

// recordingSurface keeps the last value written to each element.
type recordingSurface struct {
	mu        sync.Mutex
	remaining engine.Remaining
	locked    map[int]bool
	urgent    bool
	finales   int
	writes    int
}

func newRecordingSurface() *recordingSurface {
	return &recordingSurface{locked: make(map[int]bool)}
}

func (r *recordingSurface) SetCountdown(rem engine.Remaining) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remaining = rem
	r.writes++
}

func (r *recordingSurface) SetCardLocked(step int, locked bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locked[step] = locked
}

func (r *recordingSurface) SetUrgent(urgent bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.urgent = urgent
}

func (r *recordingSurface) RevealFinale() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finales++
}

func (r *recordingSurface) snapshot() (engine.Remaining, map[int]bool, bool, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	locked := make(map[int]bool, len(r.locked))
	for k, v := range r.locked {
		locked[k] = v
	}
	return r.remaining, locked, r.urgent, r.finales
}

// -----------------------------------------------------------------------------
// Test Cases
// -----------------------------------------------------------------------------

func valentine() engine.Schedule {
	return engine.Schedule{
		Start:       time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC),
		End:         time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC),
		Anniversary: time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC),
		TotalSteps:  12,
	}
}

func newTestScheduler(s engine.Schedule, surface engine.Surface, now time.Time) (*engine.Scheduler, *MockClock) {
	clock := &MockClock{CurrentTime: now}
	sched := engine.NewScheduler(s, surface)
	sched.Clock = clock
	return sched, clock
}

func TestNewScheduler_Defaults(t *testing.T) {
	sched := engine.NewScheduler(valentine(), nil)

	assert.Len(t, sched.Cards, 12)
	assert.IsType(t, engine.RealClock{}, sched.Clock)
	assert.NotNil(t, sched.NewTicker)
	assert.False(t, sched.FinaleFired())
}

func TestApply_UnlocksCardsUpToCurrentStep(t *testing.T) {
	surface := new(MockSurface)
	now := time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC) // step 4
	sched, _ := newTestScheduler(valentine(), surface, now)

	surface.On("SetCountdown", engine.Remaining{Days: 9}).Once()
	for step := 1; step <= 12; step++ {
		surface.On("SetCardLocked", step, step > 4).Once()
	}
	surface.On("SetUrgent", false).Once()

	sched.Apply(sched.State())

	surface.AssertExpectations(t)
	surface.AssertNotCalled(t, "RevealFinale")
}

// TestApply_FinaleOnce verifies the reveal fires once however often the state is applied.
func TestApply_FinaleOnce(t *testing.T) {
	surface := new(MockSurface)
	surface.On("SetCountdown", mock.Anything)
	surface.On("SetCardLocked", mock.Anything, mock.Anything)
	surface.On("SetUrgent", mock.Anything)
	surface.On("RevealFinale").Once()

	sched, clock := newTestScheduler(valentine(), surface, time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC))

	celebrations := 0
	sched.Celebrate = func() { celebrations++ }

	for i := 0; i < 5; i++ {
		sched.Apply(sched.State())
		sched.RefreshCountdown()
		clock.Set(clock.Now().Add(time.Second))
	}

	surface.AssertNumberOfCalls(t, "RevealFinale", 1)
	assert.Equal(t, 1, celebrations)
	assert.True(t, sched.FinaleFired())
}

func TestRefreshCountdown_AnniversaryTriggersFinale(t *testing.T) {
	surface := newRecordingSurface()
	sched, clock := newTestScheduler(valentine(), surface, time.Date(2026, 2, 10, 23, 59, 59, 0, time.UTC))

	sched.RefreshCountdown()
	_, _, _, finales := surface.snapshot()
	assert.Equal(t, 0, finales, "not yet the anniversary")

	clock.Set(time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC))
	sched.RefreshCountdown()
	sched.RefreshCountdown()

	_, _, _, finales = surface.snapshot()
	assert.Equal(t, 1, finales)
}

func TestRefreshCountdown_OnlyTouchesCountdown(t *testing.T) {
	surface := new(MockSurface)
	surface.On("SetCountdown", engine.Remaining{Days: 3, Hours: 2}).Once()

	sched, _ := newTestScheduler(valentine(), surface, time.Date(2026, 2, 10, 22, 0, 0, 0, time.UTC))
	sched.RefreshCountdown()

	surface.AssertExpectations(t)
	surface.AssertNotCalled(t, "SetCardLocked", mock.Anything, mock.Anything)
	surface.AssertNotCalled(t, "SetUrgent", mock.Anything)
}

func TestRefreshUrgency(t *testing.T) {
	surface := newRecordingSurface()
	sched, clock := newTestScheduler(valentine(), surface, time.Date(2026, 2, 12, 23, 0, 0, 0, time.UTC))

	sched.RefreshUrgency()
	_, _, urgent, _ := surface.snapshot()
	assert.False(t, urgent)

	clock.Set(time.Date(2026, 2, 13, 1, 0, 0, 0, time.UTC))
	sched.RefreshUrgency()
	_, _, urgent, _ = surface.snapshot()
	assert.True(t, urgent)
}

func TestUnlockAll_RevealsEverythingBeforeStart(t *testing.T) {
	s := valentine()
	s.UnlockAll = true
	surface := newRecordingSurface()
	sched, _ := newTestScheduler(s, surface, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	sched.Apply(sched.State())

	_, locked, _, finales := surface.snapshot()
	require.Len(t, locked, 12)
	for step, l := range locked {
		assert.False(t, l, "card %d should be unlocked in preview", step)
	}
	assert.Equal(t, 1, finales)
}

// TestApply_NilSurface degrades gracefully when no surface is attached.
func TestApply_NilSurface(t *testing.T) {
	sched, _ := newTestScheduler(valentine(), nil, time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC))

	assert.NotPanics(t, func() {
		sched.Apply(sched.State())
		sched.RefreshCountdown()
		sched.RefreshCards()
		sched.RefreshUrgency()
	})
	assert.False(t, sched.FinaleFired())
}

// TestRun_CyclesAdvanceWithFakeTime drives the three cycles with fake tickers.
func TestRun_CyclesAdvanceWithFakeTime(t *testing.T) {
	defer goleak.VerifyNone(t)

	surface := newRecordingSurface()
	tickers := newTickerSet()
	sched, clock := newTestScheduler(valentine(), surface, time.Date(2026, 2, 2, 23, 59, 58, 0, time.UTC))
	sched.NewTicker = tickers.New

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sched.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return tickers.count() == 3 }, 2*time.Second, 10*time.Millisecond)

	// Initial pass happens before any tick.
	rem, locked, urgent, _ := surface.snapshot()
	assert.Equal(t, engine.Remaining{Days: 11, Seconds: 2}, rem)
	assert.False(t, locked[1])
	assert.True(t, locked[2])
	assert.False(t, urgent)

	// Two seconds later the second card is due, but only the card cycle may unlock it.
	clock.Set(time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC))
	tickers.get(config.CountdownInterval).c <- clock.Now()
	require.Eventually(t, func() bool {
		rem, _, _, _ := surface.snapshot()
		return rem == engine.Remaining{Days: 11}
	}, 2*time.Second, 10*time.Millisecond)
	_, locked, _, _ = surface.snapshot()
	assert.True(t, locked[2], "countdown cycle must not touch cards")

	tickers.get(config.CardsInterval).c <- clock.Now()
	require.Eventually(t, func() bool {
		_, locked, _, _ := surface.snapshot()
		return !locked[2]
	}, 2*time.Second, 10*time.Millisecond)

	// Jump into the urgency window.
	clock.Set(time.Date(2026, 2, 13, 6, 0, 0, 0, time.UTC))
	tickers.get(config.UrgencyInterval).c <- clock.Now()
	require.Eventually(t, func() bool {
		_, _, urgent, _ := surface.snapshot()
		return urgent
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}

	for _, d := range []time.Duration{config.CountdownInterval, config.CardsInterval, config.UrgencyInterval} {
		select {
		case <-tickers.get(d).stopped:
		default:
			t.Errorf("ticker %s was not stopped", d)
		}
	}
}

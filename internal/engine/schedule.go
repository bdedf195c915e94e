package engine

import (
	"errors"
	"time"

	"github.com/tartampluch/go-countdown/internal/config"
)

// Schedule is the static configuration of a countdown.
// It is set once when a Scheduler is built and never mutated afterwards.
type Schedule struct {
	Start       time.Time // First unlock step begins here.
	End         time.Time // Countdown target.
	Anniversary time.Time // Final surprise reveal date.
	TotalSteps  int       // Number of daily cards, >= 1.

	// UnlockAll pins every step and the anniversary as reached.
	// It is a preview override supplied from the command line or environment.
	UnlockAll bool
}

// Remaining is the time left until the countdown target, split for display.
type Remaining struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// IsZero reports whether the countdown is over.
func (r Remaining) IsZero() bool {
	return r == Remaining{}
}

// State is the display state derived from a Schedule at a given instant.
// A new State is computed on every evaluation; it is never updated in place.
type State struct {
	Remaining          Remaining
	CurrentStep        int
	AnniversaryReached bool
	FinaleReached      bool
	Urgent             bool
}

// DefaultSchedule returns the built-in countdown in the given location.
func DefaultSchedule(loc *time.Location) Schedule {
	// Defaults are compile-time constants covered by config tests.
	start, _ := ParseMoment(config.DefaultStartDate, loc)
	end, _ := ParseMoment(config.DefaultEndDate, loc)
	anniv, _ := ParseMoment(config.DefaultAnniversaryDate, loc)

	return Schedule{
		Start:       start,
		End:         end,
		Anniversary: anniv,
		TotalSteps:  config.DefaultTotalSteps,
	}
}

// ParseMoment parses a stored (RFC3339-like, no zone) or user-entered date in loc.
func ParseMoment(value string, loc *time.Location) (time.Time, error) {
	for _, layout := range []string{config.DateLayoutStored, config.DateLayoutInput} {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New(config.ErrDateParse)
}

// CurrentStep returns how many unlock steps have elapsed at now.
//
// 0 means the window has not started, TotalSteps+1 means every step is past.
// Days are counted as whole config.UnlockStep durations since Start, so a
// step changes exactly at Start + k days regardless of DST.
func CurrentStep(now time.Time, s Schedule) int {
	if s.UnlockAll {
		return s.TotalSteps + 1
	}

	elapsed := now.Sub(s.Start)
	if elapsed < 0 {
		return 0
	}

	days := int(elapsed / config.UnlockStep)
	if days >= s.TotalSteps {
		return s.TotalSteps + 1
	}
	return days + 1
}

// RemainingUntil splits end-now into days, hours, minutes and seconds.
// Once the target has passed, every field is zero and finished is true.
func RemainingUntil(now, end time.Time) (r Remaining, finished bool) {
	diff := end.Sub(now)
	if diff <= 0 {
		return Remaining{}, true
	}

	r.Days = int(diff / (24 * time.Hour))
	diff -= time.Duration(r.Days) * 24 * time.Hour
	r.Hours = int(diff / time.Hour)
	diff -= time.Duration(r.Hours) * time.Hour
	r.Minutes = int(diff / time.Minute)
	diff -= time.Duration(r.Minutes) * time.Minute
	r.Seconds = int(diff / time.Second)
	return r, false
}

// IsUrgent reports whether now is inside the last config.UrgencyWindow before end.
func IsUrgent(now, end time.Time) bool {
	diff := end.Sub(now)
	return diff > 0 && diff <= config.UrgencyWindow
}

// AnniversaryReached reports whether the surprise may be revealed.
func AnniversaryReached(now time.Time, s Schedule) bool {
	if s.UnlockAll {
		return true
	}
	return !now.Before(s.Anniversary)
}

// Derive computes the full display state at now.
func Derive(now time.Time, s Schedule) State {
	remaining, finished := RemainingUntil(now, s.End)
	return State{
		Remaining:          remaining,
		CurrentStep:        CurrentStep(now, s),
		AnniversaryReached: AnniversaryReached(now, s),
		FinaleReached:      finished,
		Urgent:             IsUrgent(now, s.End),
	}
}

// StepDate returns the instant at which the given step unlocks.
func StepDate(s Schedule, step int) time.Time {
	return s.Start.Add(time.Duration(step-1) * config.UnlockStep)
}

package ui_test

import (
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/go-countdown/internal/config"
	"github.com/tartampluch/go-countdown/internal/ui"
)

func newTestCard(t *testing.T) *ui.LoveCard {
	t.Helper()
	test.NewApp()

	card := ui.NewLoveCard(3, "Day 3", "You are wonderful", "Unlocks on Feb 4", "Tap again")
	w := test.NewWindow(card)
	w.Resize(fyne.NewSize(200, 150))
	t.Cleanup(w.Close)
	return card
}

func TestLoveCard_StartsLocked(t *testing.T) {
	card := newTestCard(t)

	assert.Equal(t, 3, card.Step)
	assert.True(t, card.Locked())
	assert.False(t, card.Flipped())
}

func TestLoveCard_TapLockedDoesNothing(t *testing.T) {
	card := newTestCard(t)

	test.Tap(card)
	assert.False(t, card.Flipped())
}

func TestLoveCard_TapTogglesFlip(t *testing.T) {
	card := newTestCard(t)
	card.SetLocked(false)

	test.Tap(card)
	assert.True(t, card.Flipped())

	test.Tap(card)
	assert.False(t, card.Flipped())
}

func TestLoveCard_LockingClearsFlip(t *testing.T) {
	card := newTestCard(t)
	card.SetLocked(false)
	test.Tap(card)

	card.SetLocked(true)

	assert.True(t, card.Locked())
	assert.False(t, card.Flipped())
}

func TestLoveCard_SetLockedIdempotent(t *testing.T) {
	card := newTestCard(t)
	card.SetLocked(false)
	test.Tap(card)

	card.SetLocked(false)

	assert.False(t, card.Locked())
	assert.True(t, card.Flipped(), "re-applying the same state must not reset the card")
}

func TestLoveCard_HoverSparkles(t *testing.T) {
	card := newTestCard(t)

	card.MouseIn(nil)
	assert.Zero(t, card.SparkleCount(), "locked cards never sparkle")

	card.SetLocked(false)
	card.MouseIn(nil)
	assert.Equal(t, config.SparkleCount, card.SparkleCount())

	assert.Eventually(t, func() bool { return card.SparkleCount() == 0 },
		config.SparkleMaxDelay+config.SparkleLifetime+2*time.Second, 20*time.Millisecond,
		"sparkles are removed after their lifetime")
}

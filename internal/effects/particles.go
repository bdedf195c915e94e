// Package effects holds the cosmetic side-show of the countdown: confetti,
// sparkles and the celebration chime. Nothing here feeds back into the
// scheduler's state.
package effects

import (
	"image/color"
	"math/rand/v2"
	"time"

	"github.com/tartampluch/go-countdown/internal/config"
)

// Particle describes one falling piece of confetti.
// X is a fraction of the overlay width in [0, 1).
type Particle struct {
	X        float32
	Color    color.NRGBA
	Delay    time.Duration
	Duration time.Duration
}

// Sparkle is a short-lived glint on a card. X and Y are fractions of the card size.
type Sparkle struct {
	X     float32
	Y     float32
	Delay time.Duration
}

// NewConfetti generates n particles spread across the width, with random
// colors from the palette, start delays and fall durations.
func NewConfetti(n int, rng *rand.Rand) []Particle {
	particles := make([]Particle, 0, max(n, 0))
	for i := 0; i < n; i++ {
		particles = append(particles, Particle{
			X:        rng.Float32(),
			Color:    PaletteColor(rng.IntN(len(config.ConfettiPalette))),
			Delay:    randDuration(rng, config.ConfettiMaxDelay),
			Duration: config.ConfettiMinFall + randDuration(rng, config.ConfettiFallSpread),
		})
	}
	return particles
}

// NewSparkles generates n sparkles scattered over a card.
func NewSparkles(n int, rng *rand.Rand) []Sparkle {
	sparkles := make([]Sparkle, 0, max(n, 0))
	for i := 0; i < n; i++ {
		sparkles = append(sparkles, Sparkle{
			X:     rng.Float32(),
			Y:     rng.Float32(),
			Delay: randDuration(rng, config.SparkleMaxDelay),
		})
	}
	return sparkles
}

// PaletteColor returns the i-th confetti color (wrapping around).
func PaletteColor(i int) color.NRGBA {
	rgb := config.ConfettiPalette[i%len(config.ConfettiPalette)]
	return color.NRGBA{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 0xff}
}

// NewRand returns a time-seeded generator for fire-and-forget effects.
func NewRand() *rand.Rand {
	seed := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(seed, seed>>32|1))
}

func randDuration(rng *rand.Rand, upTo time.Duration) time.Duration {
	if upTo <= 0 {
		return 0
	}
	return time.Duration(rng.Int64N(int64(upTo)))
}

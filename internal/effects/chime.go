package effects

import (
	"bytes"
	"encoding/binary"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/tartampluch/go-countdown/internal/config"
)

// Process-wide audio context: oto allows only one per process.
var (
	audioCtx     *oto.Context
	audioCtxOnce sync.Once
)

// ChimePCM synthesizes a short two-note chime as mono signed 16-bit
// little-endian PCM. Each note decays linearly to silence.
func ChimePCM(sampleRate int) []byte {
	notes := []float64{config.ChimeFirstNoteHz, config.ChimeSecondNoteHz}
	perNote := int(float64(sampleRate) * config.ChimeNoteDuration.Seconds())

	buf := bytes.NewBuffer(make([]byte, 0, perNote*len(notes)*config.ChimeBytesPerSample))
	for _, freq := range notes {
		for i := 0; i < perNote; i++ {
			envelope := 1 - float64(i)/float64(perNote)
			v := config.ChimeAmplitude * envelope * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
			_ = binary.Write(buf, binary.LittleEndian, int16(v*math.MaxInt16))
		}
	}
	return buf.Bytes()
}

// PlayChime plays the celebration chime without blocking the caller.
// Audio failures are logged and otherwise ignored.
func PlayChime() {
	go func() {
		ctx := audioContext()
		if ctx == nil {
			return
		}

		player := ctx.NewPlayer(bytes.NewReader(ChimePCM(config.ChimeSampleRate)))
		player.Play()
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		if err := player.Close(); err != nil {
			slog.Warn(config.ErrAudioClose,
				config.LogKeyComponent, config.CompEffects,
				config.LogKeyError, err)
		}
	}()
}

// audioContext lazily creates the shared context and waits for the device.
func audioContext() *oto.Context {
	audioCtxOnce.Do(func() {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   config.ChimeSampleRate,
			ChannelCount: config.ChimeChannelCount,
			Format:       oto.FormatSignedInt16LE,
		})
		if err != nil {
			slog.Warn(config.ErrAudioContext,
				config.LogKeyComponent, config.CompEffects,
				config.LogKeyError, err)
			return
		}
		<-ready
		audioCtx = ctx
		slog.Debug(config.MsgAudioReady, config.LogKeyComponent, config.CompEffects)
	})
	return audioCtx
}

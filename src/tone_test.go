package ohm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToneGenFrequencyAccuracy(t *testing.T) {
	var rate = 48000.0
	var gen = newToneGen(rate)
	var buf = gen.tone(nil, 1200, 4800, 1.0)

	// Count zero crossings over a tenth of a second: a 1200 Hz tone has
	// 240 of them.
	var crossings = 0
	for i := 1; i < len(buf); i++ {
		if (buf[i-1] < 0) != (buf[i] < 0) {
			crossings++
		}
	}
	assert.InDelta(t, 240, crossings, 2)
}

func TestToneGenPhaseContinuity(t *testing.T) {
	var rate = 48000.0
	var gen = newToneGen(rate)

	// Alternate between two tones; the waveform must never jump more
	// than one sample's worth of slope.
	var buf []float64
	for i := 0; i < 20; i++ {
		var f = 1200.0
		if i%2 == 1 {
			f = 2200.0
		}
		buf = gen.tone(buf, f, 40, 1.0)
	}

	var maxStep = 2 * math.Pi * 2200 / rate * 1.1 // steepest possible slope, with slack
	for i := 1; i < len(buf); i++ {
		assert.LessOrEqual(t, math.Abs(buf[i]-buf[i-1]), maxStep,
			"discontinuity at sample %d", i)
	}
}

func TestToneGenShift(t *testing.T) {
	var plain = newToneGen(48000)
	var shifted = newToneGen(48000)
	shifted.shift(0.5) // 180 degrees

	var step = plain.step(1500)
	for i := 0; i < 64; i++ {
		var a = plain.next(step)
		var b = shifted.next(step)
		assert.InDelta(t, -a, b, 1e-12, "a half cycle shift flips the sign at sample %d", i)
	}
}

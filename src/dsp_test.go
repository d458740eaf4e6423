package ohm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenLowpassUnityGainAtDC(t *testing.T) {
	var kernel = genLowpass(0.1, 65, windowHamming)

	var sum float64
	for _, c := range kernel {
		sum += c
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestGenLowpassAttenuatesStopband(t *testing.T) {
	var kernel = genLowpass(0.05, 129, windowHamming)
	var rate = 48000.0

	// A tone well into the stopband should come out much smaller.
	var gen = newToneGen(rate)
	var in = gen.tone(nil, 8000, 4096, 1.0)
	var out = firApply(in, kernel)

	var inPower = goertzelPower(in, 1024, 2048, 8000, rate)
	var outPower = goertzelPower(out, 1024, 2048, 8000, rate)
	assert.Less(t, outPower, inPower/1000)
}

func TestRRCPulseShape(t *testing.T) {
	var sps = 8.0
	var taps = int(8*sps) | 1
	var pulse = genRRCPulse(taps, 0.35, sps)

	require.Len(t, pulse, taps)
	assert.InDelta(t, 1.0, pulse[taps/2], 1e-9, "unity at the center tap")

	// Symmetric.
	for i := 0; i < taps/2; i++ {
		assert.InDelta(t, pulse[i], pulse[taps-1-i], 1e-9)
	}

	// Decaying tails.
	assert.Less(t, math.Abs(pulse[0]), 0.05)
	assert.Less(t, math.Abs(pulse[taps-1]), 0.05)
}

func TestGoertzelFindsItsTone(t *testing.T) {
	var rate = 48000.0
	var gen = newToneGen(rate)
	var in = gen.tone(nil, 1615, 384, 1.0)

	var at = goertzelPower(in, 0, 384, 1615, rate)
	var off = goertzelPower(in, 0, 384, 1385, rate)

	assert.Greater(t, at, 10*off, "the detector should strongly prefer the tone that is actually there")
}

func TestGoertzelOutOfRangeWindowIsSilence(t *testing.T) {
	var in = []float64{1, 1, 1, 1}
	var p = goertzelPower(in, -100, 4, 1000, 48000)
	var full = goertzelPower(in, 0, 4, 1000, 48000)
	assert.Less(t, p, full)
	assert.NotPanics(t, func() {
		goertzelPower(in, 100, 50, 1000, 48000)
	})
}

func TestQuantizeSaturatesAndRoundsHalfToEven(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want int16
	}{
		{"zero", 0, 0},
		{"positive clip", 2.0, 32767},
		{"negative clip", -2.0, -32768},
		{"full scale", 1.0, 32767},
		{"half to even rounds down", 0.5 / 32767.0, 0},
		{"three halves to even rounds up", 1.5 / 32767.0, 2},
		{"negative half to even", -0.5 / 32767.0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, quantize(tt.in))
		})
	}
}

func TestRaisedCosineRamp(t *testing.T) {
	var buf = make([]float64, 1000)
	for i := range buf {
		buf[i] = 1.0
	}
	raisedCosineRamp(buf, 100)

	assert.InDelta(t, 0.0, buf[0], 1e-9)
	assert.InDelta(t, 1.0, buf[500], 1e-9, "the middle is untouched")
	assert.InDelta(t, 0.0, buf[999], 0.01)
	assert.Less(t, buf[10], buf[90], "monotone fade in")
}

package ohm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTone(t *testing.T) {
	var cfg = DefaultConfig()
	var samples = GenerateTone(1000, 500, cfg)
	require.Len(t, samples, 24000)

	var buf = toFloat(samples)
	var at = goertzelPower(buf, 4800, 4800, 1000, float64(cfg.SampleRate))
	var off = goertzelPower(buf, 4800, 4800, 2000, float64(cfg.SampleRate))
	assert.Greater(t, at, 100*off)
}

func TestGenerateTwoTone(t *testing.T) {
	var cfg = DefaultConfig()
	var samples = GenerateTwoTone(700, 1900, 500, cfg)

	var buf = toFloat(samples)
	var rate = float64(cfg.SampleRate)
	var a = goertzelPower(buf, 4800, 4800, 700, rate)
	var b = goertzelPower(buf, 4800, 4800, 1900, rate)
	var off = goertzelPower(buf, 4800, 4800, 3100, rate)

	assert.Greater(t, a, 50*off)
	assert.Greater(t, b, 50*off)
}

func TestGeneratePinkNoiseClip(t *testing.T) {
	var cfg = DefaultConfig()
	var samples = GeneratePinkNoise(500, cfg)
	require.Len(t, samples, 24000)

	for _, s := range samples {
		require.Greater(t, s, int16(-32768))
		require.Less(t, s, int16(32767))
	}
}

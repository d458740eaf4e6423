package ohm

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// roundTripFrame pushes a payload through frame, modulator, demodulator
// and framer, and requires the exact payload back.
func roundTripFrame(t *testing.T, payload []byte, m Modulation, cfg ModemConfig) {
	t.Helper()

	var frame = BuildFrame(payload)

	var samples, err = Modulate(frame, m, cfg)
	require.NoError(t, err)
	assert.NotEmpty(t, samples)

	bits, err := Demodulate(samples, m, cfg)
	require.NoError(t, err)

	var got, _, ok = FindFrame(bits)
	require.True(t, ok, "no sync after %s round trip", m)
	assert.Equal(t, payload, got)
}

func TestModemRoundTrip(t *testing.T) {
	var payloads = [][]byte{
		{0x00},
		{0xFF},
		[]byte("CQ CQ CQ DE S56SPZ"),
		[]byte("The quick brown fox jumps over the lazy dog 0123456789"),
	}

	for _, m := range []Modulation{ModulationBPSK, ModulationFSK, ModulationAFSK, ModulationOFDM} {
		for i, payload := range payloads {
			t.Run(fmt.Sprintf("%s/payload%d", m, i), func(t *testing.T) {
				roundTripFrame(t, payload, m, DefaultConfig())
			})
		}
	}
}

func TestModemRoundTripProperty(t *testing.T) {
	for _, m := range []Modulation{ModulationBPSK, ModulationFSK, ModulationAFSK, ModulationOFDM} {
		t.Run(m.String(), func(t *testing.T) {
			rapid.Check(t, func(t *rapid.T) {
				var payload = rapid.SliceOfN(rapid.Byte(), 1, 48).Draw(t, "payload")

				var frame = BuildFrame(payload)
				var samples, err = Modulate(frame, m, DefaultConfig())
				if err != nil {
					t.Fatalf("modulate: %v", err)
				}
				bits, err := Demodulate(samples, m, DefaultConfig())
				if err != nil {
					t.Fatalf("demodulate: %v", err)
				}
				var got, _, ok = FindFrame(bits)
				if !ok {
					t.Fatal("no sync")
				}
				if string(got) != string(payload) {
					t.Fatalf("payload mismatch: %x != %x", got, payload)
				}
			})
		})
	}
}

func TestModemRoundTripWithLeadingSilence(t *testing.T) {
	var payload = []byte("QTH JN76 73")

	for _, m := range []Modulation{ModulationBPSK, ModulationFSK, ModulationAFSK, ModulationOFDM} {
		t.Run(m.String(), func(t *testing.T) {
			var cfg = DefaultConfig()
			var samples, err = Modulate(BuildFrame(payload), m, cfg)
			require.NoError(t, err)

			// A second of dead air ahead of the burst.
			var padded = make([]int16, cfg.SampleRate, cfg.SampleRate+len(samples))
			padded = append(padded, samples...)

			bits, err := Demodulate(padded, m, cfg)
			require.NoError(t, err)

			var got, _, ok = FindFrame(bits)
			require.True(t, ok)
			assert.Equal(t, payload, got)
		})
	}
}

func TestModemRoundTripWithInvertedSamples(t *testing.T) {
	var payload = []byte("QSL DE S56SPZ")

	for _, m := range []Modulation{ModulationBPSK, ModulationFSK, ModulationAFSK, ModulationOFDM} {
		t.Run(m.String(), func(t *testing.T) {
			var cfg = DefaultConfig()
			var samples, err = Modulate(BuildFrame(payload), m, cfg)
			require.NoError(t, err)

			for i := range samples {
				if samples[i] == -32768 {
					samples[i] = 32767
				} else {
					samples[i] = -samples[i]
				}
			}

			bits, err := Demodulate(samples, m, cfg)
			require.NoError(t, err)

			var got, _, ok = FindFrame(bits)
			require.True(t, ok)
			assert.Equal(t, payload, got)
		})
	}
}

func TestModulateSampleCountScalesWithBits(t *testing.T) {
	var cfg = DefaultConfig()
	var short, err = Modulate(make(Bits, 100), ModulationFSK, cfg)
	require.NoError(t, err)
	long, err := Modulate(make(Bits, 200), ModulationFSK, cfg)
	require.NoError(t, err)

	var sps = float64(cfg.SampleRate) / cfg.SymbolRate
	var grew = len(long) - len(short)
	assert.InDelta(t, 100*sps, float64(grew), sps, "one hundred more bits should cost one hundred more symbols")
}

func TestAFSKProfiles(t *testing.T) {
	var payload = []byte("BK 73")

	for _, p := range []AFSKProfile{ProfileBell202, ProfileBell103, ProfileVHF, ProfileHF} {
		t.Run(p.String(), func(t *testing.T) {
			var cfg = DefaultConfig()
			cfg.Profile = p
			roundTripFrame(t, payload, ModulationAFSK, cfg)
		})
	}
}

func TestParseModulation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Modulation
		wantErr bool
	}{
		{"bpsk", "bpsk", ModulationBPSK, false},
		{"fsk", "fsk", ModulationFSK, false},
		{"afsk", "afsk", ModulationAFSK, false},
		{"ofdm", "ofdm", ModulationOFDM, false},
		{"case insensitive", "BPSK", ModulationBPSK, false},
		{"invalid", "invalid", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got, err = ParseModulation(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ModemConfig)
		m      Modulation
	}{
		{"zero power", func(c *ModemConfig) { c.PowerScale = 0 }, ModulationBPSK},
		{"power above one", func(c *ModemConfig) { c.PowerScale = 1.5 }, ModulationBPSK},
		{"absurd sample rate", func(c *ModemConfig) { c.SampleRate = 300 }, ModulationFSK},
		{"negative symbol rate", func(c *ModemConfig) { c.SymbolRate = -1 }, ModulationBPSK},
		{"carrier above nyquist", func(c *ModemConfig) { c.CenterFrequency = 30000 }, ModulationBPSK},
		{"tone above nyquist", func(c *ModemConfig) { c.MarkFrequency = 25000 }, ModulationFSK},
		{"wrong subcarrier count", func(c *ModemConfig) { c.SubcarrierCount = 32 }, ModulationOFDM},
		{"zero cyclic prefix", func(c *ModemConfig) { c.CyclicPrefixLen = 0 }, ModulationOFDM},
		{"ofdm at telephone rate", func(c *ModemConfig) { c.SampleRate = 8000 }, ModulationOFDM},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg = DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(tt.m), ErrInvalidConfig)
		})
	}
}

func TestDemodulateNoiseDoesNotPanic(t *testing.T) {
	var g = lcg{seed: 42}
	var noise = make([]int16, 48000)
	for i := range noise {
		noise[i] = int16(g.uniform() * 8000)
	}

	for _, m := range []Modulation{ModulationBPSK, ModulationFSK, ModulationAFSK, ModulationOFDM} {
		t.Run(m.String(), func(t *testing.T) {
			var bits, err = Demodulate(noise, m, DefaultConfig())
			require.NoError(t, err, "demodulators are silent about signal quality")

			var _, _, ok = FindFrame(bits)
			assert.False(t, ok, "white noise should not contain a frame")
		})
	}
}

package ohm

/*------------------------------------------------------------------
 *
 * Purpose:	Modulation selection and shared modem configuration.
 *
 * Description:	The mode set is closed and versioned, so this is a
 *		tagged variant with a dispatch table rather than an
 *		open interface.  Each modem provides two operations:
 *		bits to samples and samples to bits.  Demodulators
 *		never fail on signal quality; they return whatever
 *		bits they could recover and leave judgement to the
 *		framer and codec downstream.
 *
 *----------------------------------------------------------------*/

import (
	"fmt"
	"strings"
)

// Modulation identifies one of the supported schemes.
type Modulation int

const (
	ModulationBPSK Modulation = iota
	ModulationFSK
	ModulationAFSK
	ModulationOFDM
)

func (m Modulation) String() string {
	switch m {
	case ModulationBPSK:
		return "bpsk"
	case ModulationFSK:
		return "fsk"
	case ModulationAFSK:
		return "afsk"
	case ModulationOFDM:
		return "ofdm"
	}
	return "unknown"
}

// ParseModulation maps a modulation name from the command line or a
// config file.
func ParseModulation(name string) (Modulation, error) {
	switch strings.ToLower(name) {
	case "bpsk":
		return ModulationBPSK, nil
	case "fsk":
		return ModulationFSK, nil
	case "afsk":
		return ModulationAFSK, nil
	case "ofdm":
		return ModulationOFDM, nil
	}
	return 0, fmt.Errorf("%w: unknown modulation %q", ErrInvalidConfig, name)
}

// AFSKProfile selects a standard AFSK tone pair and rate.
type AFSKProfile int

const (
	ProfileBell202 AFSKProfile = iota
	ProfileBell103
	ProfileVHF
	ProfileHF
)

func (p AFSKProfile) String() string {
	switch p {
	case ProfileBell202:
		return "bell202"
	case ProfileBell103:
		return "bell103"
	case ProfileVHF:
		return "vhf"
	case ProfileHF:
		return "hf"
	}
	return "unknown"
}

// ParseAFSKProfile maps a profile name.  Empty means the default Bell 202.
func ParseAFSKProfile(name string) (AFSKProfile, error) {
	switch strings.ToLower(name) {
	case "bell202", "":
		return ProfileBell202, nil
	case "bell103":
		return ProfileBell103, nil
	case "vhf":
		return ProfileVHF, nil
	case "hf":
		return ProfileHF, nil
	}
	return 0, fmt.Errorf("%w: unknown AFSK profile %q", ErrInvalidConfig, name)
}

// afskProfileParams holds the tone pair and rate for each profile.
var afskProfileParams = map[AFSKProfile]struct {
	mark, space float64
	baud        float64
}{
	ProfileBell202: {1200, 2200, 1200},
	ProfileBell103: {1070, 1270, 300},
	ProfileVHF:     {1200, 2200, 1200},
	ProfileHF:      {1600, 1800, 300},
}

// ModemConfig carries every tunable the modems recognize.  Only the
// fields relevant to the selected scheme are consulted.
type ModemConfig struct {
	SampleRate      int     // Hz
	CenterFrequency float64 // Hz, BPSK carrier; OFDM uses its own fixed band center
	SymbolRate      float64 // baud, BPSK and FSK
	MarkFrequency   float64 // Hz, FSK
	SpaceFrequency  float64 // Hz, FSK
	Profile         AFSKProfile
	SubcarrierCount int     // OFDM, must be 64
	CyclicPrefixLen int     // OFDM, baseband samples
	PowerScale      float64 // output amplitude, (0, 1]
}

// DefaultConfig returns the standard settings.
func DefaultConfig() ModemConfig {
	return ModemConfig{
		SampleRate:      48000,
		CenterFrequency: 1500,
		SymbolRate:      125,
		MarkFrequency:   1615,
		SpaceFrequency:  1385,
		Profile:         ProfileBell202,
		SubcarrierCount: ofdmSubcarriers,
		CyclicPrefixLen: ofdmCyclicPrefix,
		PowerScale:      0.8,
	}
}

// Validate checks the configuration for the given modulation.
func (c ModemConfig) Validate(m Modulation) error {
	switch {
	case c.SampleRate < 8000 || c.SampleRate > 192000:
		return fmt.Errorf("%w: sample rate %d out of range", ErrInvalidConfig, c.SampleRate)
	case c.PowerScale <= 0 || c.PowerScale > 1:
		return fmt.Errorf("%w: power scale %g out of range (0, 1]", ErrInvalidConfig, c.PowerScale)
	}

	switch m {
	case ModulationBPSK:
		if c.SymbolRate <= 0 || c.SymbolRate > float64(c.SampleRate)/8 {
			return fmt.Errorf("%w: symbol rate %g out of range", ErrInvalidConfig, c.SymbolRate)
		}
		if c.CenterFrequency <= 0 || c.CenterFrequency >= float64(c.SampleRate)/2 {
			return fmt.Errorf("%w: center frequency %g out of range", ErrInvalidConfig, c.CenterFrequency)
		}
	case ModulationFSK:
		if c.SymbolRate <= 0 || c.SymbolRate > float64(c.SampleRate)/8 {
			return fmt.Errorf("%w: symbol rate %g out of range", ErrInvalidConfig, c.SymbolRate)
		}
		if c.MarkFrequency <= 0 || c.MarkFrequency >= float64(c.SampleRate)/2 ||
			c.SpaceFrequency <= 0 || c.SpaceFrequency >= float64(c.SampleRate)/2 {
			return fmt.Errorf("%w: tone frequencies out of range", ErrInvalidConfig)
		}
	case ModulationAFSK:
		if _, ok := afskProfileParams[c.Profile]; !ok {
			return fmt.Errorf("%w: unknown AFSK profile", ErrInvalidConfig)
		}
	case ModulationOFDM:
		if c.SubcarrierCount != ofdmSubcarriers {
			return fmt.Errorf("%w: subcarrier count must be %d", ErrInvalidConfig, ofdmSubcarriers)
		}
		if c.CyclicPrefixLen <= 0 || c.CyclicPrefixLen >= ofdmSubcarriers {
			return fmt.Errorf("%w: cyclic prefix length %d out of range", ErrInvalidConfig, c.CyclicPrefixLen)
		}
		if c.SampleRate < 24000 {
			return fmt.Errorf("%w: OFDM needs a sample rate of 24000 Hz or more", ErrInvalidConfig)
		}
	}
	return nil
}

// Modulate converts a bit stream into PCM samples with the given scheme.
func Modulate(bits Bits, m Modulation, cfg ModemConfig) ([]int16, error) {
	var buf, err = modulateFloat(bits, m, cfg)
	if err != nil {
		return nil, err
	}
	return quantizeBuffer(buf), nil
}

// modulateFloat is the shared implementation, kept on the working scale so
// the orchestrator can splice preamble audio in before quantizing once.
func modulateFloat(bits Bits, m Modulation, cfg ModemConfig) ([]float64, error) {
	if err := cfg.Validate(m); err != nil {
		return nil, err
	}

	switch m {
	case ModulationBPSK:
		return bpskModulate(bits, cfg), nil
	case ModulationFSK:
		return fskModulate(bits, cfg.MarkFrequency, cfg.SpaceFrequency, cfg.SymbolRate, cfg), nil
	case ModulationAFSK:
		var p = afskProfileParams[cfg.Profile]
		return fskModulate(bits, p.mark, p.space, p.baud, cfg), nil
	case ModulationOFDM:
		return ofdmModulate(bits, cfg), nil
	}
	return nil, fmt.Errorf("%w: unknown modulation", ErrInvalidConfig)
}

// Demodulate recovers a bit stream from PCM samples.  The result may
// contain junk bits before and after the frame; the framer sorts that out.
func Demodulate(samples []int16, m Modulation, cfg ModemConfig) (Bits, error) {
	if err := cfg.Validate(m); err != nil {
		return nil, err
	}

	var buf = toFloat(samples)
	switch m {
	case ModulationBPSK:
		return bpskDemodulate(buf, cfg), nil
	case ModulationFSK:
		return fskDemodulate(buf, cfg.MarkFrequency, cfg.SpaceFrequency, cfg.SymbolRate, cfg), nil
	case ModulationAFSK:
		var p = afskProfileParams[cfg.Profile]
		return fskDemodulate(buf, p.mark, p.space, p.baud, cfg), nil
	case ModulationOFDM:
		return ofdmDemodulate(buf, cfg), nil
	}
	return nil, fmt.Errorf("%w: unknown modulation", ErrInvalidConfig)
}

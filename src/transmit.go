package ohm

/*------------------------------------------------------------------
 *
 * Purpose:	Transmit side orchestration: text in, waveform out.
 *
 *----------------------------------------------------------------*/

// TransmitOptions control the optional audio sent ahead of and after the
// modulated frame.
type TransmitOptions struct {
	Codec TextCodec

	// CWID prepends a morse "DE <callsign>" identification.
	CWID       bool
	CWSpeedWPM int // 0 means the default of 20

	// PinkNoiseMs prepends a pink noise burst of this length to open
	// VOX circuits and noise squelches.
	PinkNoiseMs int

	// Silence padding around everything, in milliseconds.
	LeadSilenceMs int
	TailSilenceMs int
}

// preambleGapMs is the pause between preamble elements and the data.
const preambleGapMs = 250

// Transmit encodes text with the selected codec, frames it and modulates
// it, with the optional station identification and squelch trigger audio
// spliced in front.  The result is ready to write to a sound file.
func Transmit(text string, callsign string, m Modulation, cfg ModemConfig, opts TransmitOptions) ([]int16, error) {
	var payload = Encode(text, opts.Codec)
	var frame = BuildFrame(payload)

	var signal, err = modulateFloat(frame, m, cfg)
	if err != nil {
		return nil, err
	}

	var out []float64
	out = append(out, silence(opts.LeadSilenceMs, cfg.SampleRate)...)

	if opts.PinkNoiseMs > 0 {
		out = append(out, pinkNoise(opts.PinkNoiseMs, cfg.SampleRate, 0.5*cfg.PowerScale)...)
		out = append(out, silence(preambleGapMs, cfg.SampleRate)...)
	}

	if opts.CWID {
		var wpm = opts.CWSpeedWPM
		if wpm <= 0 {
			wpm = 20
		}
		out = append(out, morseRender("DE "+callsign, wpm, cfg.SampleRate, 0.7*cfg.PowerScale)...)
		out = append(out, silence(preambleGapMs, cfg.SampleRate)...)
	}

	out = append(out, signal...)
	out = append(out, silence(opts.TailSilenceMs, cfg.SampleRate)...)

	return quantizeBuffer(out), nil
}

package ohm

/*------------------------------------------------------------------
 *
 * Purpose:	Receive side orchestration: waveform in, text out.
 *
 *----------------------------------------------------------------*/

// ReceiveOptions control the receive pipeline.
type ReceiveOptions struct {
	Codec TextCodec
}

// autoDetectOrder is the fixed order auto detection tries the schemes,
// cheapest demodulator first.  Changing it changes observable behavior
// when a signal satisfies two demodulators at once, so it is pinned.
var autoDetectOrder = []Modulation{ModulationBPSK, ModulationFSK, ModulationAFSK, ModulationOFDM}

// Receive demodulates with the named scheme, hunts the frame sync and
// decodes the payload.  A missing sync is ErrNoSync; a payload the codec
// cannot make sense of is ErrCodecFailure.
func Receive(samples []int16, m Modulation, cfg ModemConfig, opts ReceiveOptions) (string, error) {
	var bits, err = Demodulate(samples, m, cfg)
	if err != nil {
		return "", err
	}

	var payload, _, ok = FindFrame(bits)
	if !ok {
		return "", ErrNoSync
	}

	return Decode(payload, opts.Codec)
}

// AutoDetect runs every demodulator in the fixed order and returns the
// first that yields both a valid frame and a clean codec decode.  Not
// finding one is a normal outcome here, reported with found=false rather
// than an error.
func AutoDetect(samples []int16, cfg ModemConfig, opts ReceiveOptions) (m Modulation, text string, found bool) {
	for _, cand := range autoDetectOrder {
		var bits, err = Demodulate(samples, cand, cfg)
		if err != nil {
			continue
		}
		var payload, _, ok = FindFrame(bits)
		if !ok {
			continue
		}
		var decoded, decErr = Decode(payload, opts.Codec)
		if decErr != nil {
			continue
		}
		return cand, decoded, true
	}
	return 0, "", false
}

// ResampleInput converts recorded samples to the modem's configured rate.
// The tools call this when a sound file arrives at some other supported
// rate.
func ResampleInput(samples []int16, fromRate int, toRate int) []int16 {
	if fromRate == toRate {
		return samples
	}
	var buf = resample(toFloat(samples), float64(fromRate), float64(toRate))
	return quantizeBuffer(buf)
}

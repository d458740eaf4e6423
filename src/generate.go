package ohm

/*------------------------------------------------------------------
 *
 * Purpose:	Test signal generation for the generate tool.
 *
 * Description:	Steady tones for level setting, a two tone test for
 *		checking transmitter linearity, and a pink noise
 *		burst.  Handy when pointing a receiver at the output
 *		of somebody else's modem.
 *
 *----------------------------------------------------------------*/

// GenerateTone produces a steady sine at the given frequency.
func GenerateTone(freq float64, ms int, cfg ModemConfig) []int16 {
	var gen = newToneGen(float64(cfg.SampleRate))
	var n = int(float64(ms) * float64(cfg.SampleRate) / 1000.0)
	var out = gen.tone(nil, freq, n, cfg.PowerScale)
	raisedCosineRamp(out, cfg.SampleRate/100)
	return quantizeBuffer(out)
}

// GenerateTwoTone produces the classic two tone linearity test signal.
func GenerateTwoTone(freq1, freq2 float64, ms int, cfg ModemConfig) []int16 {
	var gen1 = newToneGen(float64(cfg.SampleRate))
	var gen2 = newToneGen(float64(cfg.SampleRate))
	var step1 = gen1.step(freq1)
	var step2 = gen2.step(freq2)

	var n = int(float64(ms) * float64(cfg.SampleRate) / 1000.0)
	var out = make([]float64, n)
	for i := range out {
		out[i] = 0.5 * cfg.PowerScale * (gen1.next(step1) + gen2.next(step2))
	}
	raisedCosineRamp(out, cfg.SampleRate/100)
	return quantizeBuffer(out)
}

// GeneratePinkNoise produces a deterministic pink noise burst.
func GeneratePinkNoise(ms int, cfg ModemConfig) []int16 {
	return quantizeBuffer(pinkNoise(ms, cfg.SampleRate, cfg.PowerScale))
}

package ohm

/*------------------------------------------------------------------
 *
 * Purpose:     Direct digital synthesis of audio tones.
 *
 * Description:	A 32 bit phase accumulator steps through a 256 entry
 *		sine table.  Frequency changes only alter the step
 *		size, never the accumulated phase, so the output is
 *		phase continuous across tone changes.  That matters
 *		for FSK: discontinuities would splatter energy across
 *		the band and confuse the tone detectors.
 *
 *----------------------------------------------------------------*/

import "math"

const ticksPerCycle = 256.0 * 256.0 * 256.0 * 256.0

// toneGen is a phase continuous tone generator.
type toneGen struct {
	sampleRate float64
	phase      uint32
	sineTable  [256]float64
}

func newToneGen(sampleRate float64) *toneGen {
	var t = &toneGen{sampleRate: sampleRate}
	for j := 0; j < 256; j++ {
		t.sineTable[j] = math.Sin(float64(j) / 256.0 * 2 * math.Pi)
	}
	return t
}

// step returns the phase accumulator increment per sample for a frequency.
func (t *toneGen) step(freq float64) uint32 {
	return uint32(freq*ticksPerCycle/t.sampleRate + 0.5)
}

// next advances the accumulator by the given step and returns a sample.
func (t *toneGen) next(step uint32) float64 {
	t.phase += step
	return t.sineTable[(t.phase>>24)&0xff]
}

// shift adds a phase offset, in cycles (0.5 is a 180 degree shift).
func (t *toneGen) shift(cycles float64) {
	t.phase += uint32(cycles * ticksPerCycle)
}

// tone appends n samples of a steady tone to out and returns the result.
func (t *toneGen) tone(out []float64, freq float64, n int, amplitude float64) []float64 {
	var step = t.step(freq)
	for i := 0; i < n; i++ {
		out = append(out, amplitude*t.next(step))
	}
	return out
}

package ohm

/*------------------------------------------------------------------
 *
 * Purpose:	FSK modulator and noncoherent demodulator.  AFSK is
 *		the same machinery with profile specific tone pairs,
 *		so both schemes funnel through here.
 *
 * Description:	Transmit uses direct digital synthesis: one phase
 *		accumulator, two step sizes, so the waveform stays
 *		phase continuous across mark/space changes.  Symbol
 *		timing uses a fractional accumulator so any baud rate
 *		divides any sample rate without cumulative drift.
 *
 *		Receive measures the energy at the mark and space
 *		frequencies with a Goertzel detector over each symbol
 *		window and picks the larger, after hunting for the
 *		symbol clock offset that maximizes tone separation.
 *
 *----------------------------------------------------------------*/

import "math"

// Lead-in and lead-out bits around the frame.  The alternating lead-in
// carries the amplitude ramp and gives the receiver's clock hunt something
// to chew on; the framer skips it as leading junk.
const (
	fskLeadInBits  = 8
	fskLeadOutBits = 2
)

func fskModulate(bits Bits, markFreq, spaceFreq, baud float64, cfg ModemConfig) []float64 {
	var gen = newToneGen(float64(cfg.SampleRate))
	var markStep = gen.step(markFreq)
	var spaceStep = gen.step(spaceFreq)
	var sps = float64(cfg.SampleRate) / baud

	var wire = make(Bits, 0, fskLeadInBits+len(bits)+fskLeadOutBits)
	for i := 0; i < fskLeadInBits; i++ {
		wire = append(wire, byte(1-i%2))
	}
	wire = append(wire, bits...)
	for i := 0; i < fskLeadOutBits; i++ {
		wire = append(wire, byte(1-i%2))
	}

	var out = make([]float64, 0, int(float64(len(wire))*sps)+1)
	var boundary float64
	for _, b := range wire {
		boundary += sps
		var step = spaceStep
		if b != 0 {
			step = markStep
		}
		for float64(len(out)) < boundary {
			out = append(out, cfg.PowerScale*gen.next(step))
		}
	}

	raisedCosineRamp(out, int(0.002*float64(cfg.SampleRate)))
	return out
}

func fskDemodulate(buf []float64, markFreq, spaceFreq, baud float64, cfg ModemConfig) Bits {
	var rate = float64(cfg.SampleRate)
	var sps = rate / baud
	var win = int(sps + 0.5)

	if peakAbs(buf) < 1e-5 {
		return nil
	}

	var separation = func(o int, syms int) float64 {
		var total float64
		for k := 0; k < syms; k++ {
			var s = o + int(float64(k)*sps+0.5)
			if s+win > len(buf) {
				break
			}
			var em = goertzelPower(buf, s, win, markFreq, rate)
			var es = goertzelPower(buf, s, win, spaceFreq, rate)
			total += math.Abs(em - es)
		}
		return total
	}

	// Coarse anchor: the first symbol sized window where the tones
	// separate decisively.  Plain envelope detection would anchor on a
	// noise burst or CW identification ahead of the data; tone
	// separation only lights up once keyed mark/space audio starts.
	// The scan steps a quarter symbol: a window straddling a tone
	// change cancels, and with whole symbol steps every window can
	// land on a change when the burst starts half a symbol into the
	// stride.
	var stride = win / 4
	if stride < 1 {
		stride = 1
	}
	var sepMax float64
	for s := 0; s+win <= len(buf); s += stride {
		if m := separation(s, 1); m > sepMax {
			sepMax = m
		}
	}
	if sepMax <= 0 {
		return nil
	}
	var coarse = 0
	for s := 0; s+win <= len(buf); s += stride {
		if separation(s, 1) >= 0.5*sepMax {
			coarse = s
			break
		}
	}
	var o0 = coarse - win
	if o0 < 0 {
		o0 = 0
	}

	// Hunt the symbol clock offset over one symbol period, coarse then
	// fine.
	var best = o0
	var bestMetric = -1.0
	for o := o0; o < o0+win && o < len(buf); o += 2 {
		if m := separation(o, 16); m > bestMetric {
			bestMetric = m
			best = o
		}
	}
	for o := best - 2; o <= best+2; o++ {
		if o < 0 {
			continue
		}
		if m := separation(o, 16); m > bestMetric {
			bestMetric = m
			best = o
		}
	}

	var nsym = int((float64(len(buf)-best) + 0.5) / sps)
	var bits = make(Bits, 0, nsym)
	var mags = make([]float64, 0, nsym)
	for k := 0; k < nsym; k++ {
		var s = best + int(float64(k)*sps+0.5)
		if s+win > len(buf) {
			break
		}
		var em = goertzelPower(buf, s, win, markFreq, rate)
		var es = goertzelPower(buf, s, win, spaceFreq, rate)
		if em > es {
			bits = append(bits, 1)
		} else {
			bits = append(bits, 0)
		}
		mags = append(mags, em+es)
	}

	return gateByEnergy(bits, mags)
}

// gateByEnergy trims leading and trailing symbols whose detector output
// sits far below the strongest symbol.  Those are silence or ramp tails,
// and keeping them would dilute the payload with junk octets.
func gateByEnergy(bits Bits, mags []float64) Bits {
	var max float64
	for _, m := range mags {
		if m > max {
			max = m
		}
	}
	if max <= 0 {
		return nil
	}
	var thr = 0.1 * max
	var first = 0
	for first < len(mags) && mags[first] < thr {
		first++
	}
	var last = len(mags)
	for last > first && mags[last-1] < thr {
		last--
	}
	return bits[first:last]
}

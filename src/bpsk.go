package ohm

/*------------------------------------------------------------------
 *
 * Purpose:	BPSK modulator and coherent demodulator.
 *
 * Description:	Transmit shapes the antipodal symbol train with a
 *		raised cosine pulse (rrc in dsp.go; not its square
 *		root variant) and multiplies it onto the
 *		carrier, so the occupied bandwidth stays close to the
 *		symbol rate.  Receive correlates each symbol window
 *		against the carrier to get a complex symbol, hunts the
 *		clock offset that maximizes correlator magnitude, and
 *		tracks the carrier phase with a decision directed
 *		Costas loop.  The inherent 180 degree ambiguity is
 *		left for the framer's polarity tolerance to resolve.
 *
 *----------------------------------------------------------------*/

import (
	"math"
	"math/cmplx"
)

const (
	bpskLeadInBits  = 8
	bpskLeadOutBits = 2
	bpskRolloff     = 0.35
	bpskPulseSpan   = 8 // symbols
	bpskLoopGain    = 0.2
)

func bpskModulate(bits Bits, cfg ModemConfig) []float64 {
	var rate = float64(cfg.SampleRate)
	var sps = rate / cfg.SymbolRate

	var wire = make(Bits, 0, bpskLeadInBits+len(bits)+bpskLeadOutBits)
	for i := 0; i < bpskLeadInBits; i++ {
		wire = append(wire, byte(1-i%2))
	}
	wire = append(wire, bits...)
	for i := 0; i < bpskLeadOutBits; i++ {
		wire = append(wire, byte(1-i%2))
	}

	var taps = int(bpskPulseSpan*sps) | 1
	var pulse = genRRCPulse(taps, bpskRolloff, sps)

	var total = int(float64(len(wire))*sps+0.5) + taps
	var baseband = make([]float64, total)
	for k, b := range wire {
		var sym = -1.0
		if b != 0 {
			sym = 1.0
		}
		var center = taps/2 + int(float64(k)*sps+0.5)
		for t := 0; t < taps; t++ {
			var n = center - taps/2 + t
			if n >= 0 && n < total {
				baseband[n] += sym * pulse[t]
			}
		}
	}

	var omega = 2 * math.Pi * cfg.CenterFrequency / rate
	var out = make([]float64, total)
	var amp = 0.85 * cfg.PowerScale
	for n := range out {
		out[n] = amp * baseband[n] * math.Cos(omega*float64(n))
	}

	raisedCosineRamp(out, int(0.002*rate))
	return out
}

func bpskDemodulate(buf []float64, cfg ModemConfig) Bits {
	var rate = float64(cfg.SampleRate)
	var sps = rate / cfg.SymbolRate
	var win = int(sps + 0.5)

	if peakAbs(buf) < 1e-5 {
		return nil
	}

	// Local oscillator, precomputed so the correlator phase reference is
	// the same regardless of where a window starts.
	var omega = 2 * math.Pi * cfg.CenterFrequency / rate
	var lo = make([]complex128, len(buf))
	for n := range lo {
		lo[n] = cmplx.Exp(complex(0, -omega*float64(n)))
	}

	var correlate = func(o int, k int) complex128 {
		var s = o + int(float64(k)*sps+0.5)
		if s < 0 || s+win > len(buf) {
			return 0
		}
		var acc complex128
		for n := s; n < s+win; n++ {
			acc += complex(buf[n], 0) * lo[n]
		}
		return acc
	}

	// Coarse anchor: the first symbol sized window with decisive
	// carrier correlation.  Broadband noise or an off-frequency CW
	// identification ahead of the data barely registers here, so the
	// clock hunt anchors on the real burst.  Quarter symbol steps keep
	// a window straddling a phase reversal, where the correlation
	// cancels, from hiding the whole alternating preamble.
	var stride = win / 4
	if stride < 1 {
		stride = 1
	}
	var corrMax float64
	for s := 0; s+win <= len(buf); s += stride {
		if m := cmplx.Abs(correlate(s, 0)); m > corrMax {
			corrMax = m
		}
	}
	if corrMax <= 0 {
		return nil
	}
	var coarse = 0
	for s := 0; s+win <= len(buf); s += stride {
		if cmplx.Abs(correlate(s, 0)) >= 0.5*corrMax {
			coarse = s
			break
		}
	}
	var o0 = coarse - win
	if o0 < 0 {
		o0 = 0
	}

	var metric = func(o int) float64 {
		var total float64
		for k := 0; k < 16; k++ {
			total += cmplx.Abs(correlate(o, k))
		}
		return total
	}

	var best = o0
	var bestMetric = -1.0
	for o := o0; o < o0+win && o < len(buf); o += 4 {
		if m := metric(o); m > bestMetric {
			bestMetric = m
			best = o
		}
	}
	for o := best - 4; o <= best+4; o++ {
		if o < 0 {
			continue
		}
		if m := metric(o); m > bestMetric {
			bestMetric = m
			best = o
		}
	}

	var nsym = int((float64(len(buf)-best) + 0.5) / sps)
	var syms = make([]complex128, 0, nsym)
	var mags = make([]float64, 0, nsym)
	for k := 0; k < nsym; k++ {
		var c = correlate(best, k)
		syms = append(syms, c)
		mags = append(mags, cmplx.Abs(c))
	}

	// Trim silence around the burst the same way the tone detectors do.
	var max float64
	for _, m := range mags {
		if m > max {
			max = m
		}
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
	syms = syms[first:last]

	if len(syms) == 0 {
		return nil
	}

	// Initial carrier phase from the squared symbols, which removes the
	// data modulation.  The result is ambiguous by 180 degrees; that is
	// fine, the framer tries both polarities.
	var sq complex128
	for k := 0; k < len(syms) && k < 16; k++ {
		sq += syms[k] * syms[k]
	}
	var phase = cmplx.Phase(sq) / 2

	var out = make(Bits, 0, len(syms))
	for _, c := range syms {
		var d = c * cmplx.Exp(complex(0, -phase))
		if real(d) > 0 {
			out = append(out, 1)
		} else {
			out = append(out, 0)
		}

		// Decision directed phase update.
		var p = cmplx.Abs(c)
		if p > 1e-12 {
			var err = real(d) * imag(d) / (p * p)
			phase += bpskLoopGain * err
		}
	}
	return out
}

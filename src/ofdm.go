package ohm

/*------------------------------------------------------------------
 *
 * Purpose:	OFDM modulator and demodulator.
 *
 * Description:	64 subcarriers on a 64 point FFT over an 8 kHz complex
 *		baseband, cyclic prefix against multipath, BPSK on
 *		each data subcarrier.  Pilot tones every eighth bin of
 *		the used band carry a known value so the receiver can
 *		equalize away channel gain, carrier phase and residual
 *		timing error in one interpolation pass.  The baseband
 *		is moved to and from the audio passband with the
 *		fractional resampler and a complex mixer.
 *
 *		A reference symbol is sent before and after the data
 *		so the amplitude ramps never touch payload bits.
 *
 *		Symbol timing on receive comes from correlating the
 *		cyclic prefix against the tail of its symbol, folded
 *		across several symbols.
 *
 *----------------------------------------------------------------*/

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	ofdmSubcarriers  = 64
	ofdmCyclicPrefix = 16     // default baseband samples
	ofdmBasebandRate = 8000.0 // Hz, giving 125 Hz subcarrier spacing
	ofdmCenterFreq   = 5000.0 // Hz, audio passband center
)

// ofdmBins lists the used FFT bins in frequency order, low to high.
// Bins next to DC and the band edges stay empty as guards.
func ofdmBins() (used []int, pilots map[int]bool) {
	pilots = make(map[int]bool)
	// Negative frequencies first (FFT indices 35..62), then positive
	// (2..29).
	for b := 35; b <= 62; b++ {
		used = append(used, b)
	}
	for b := 2; b <= 29; b++ {
		used = append(used, b)
	}
	for _, b := range used {
		if b%8 == 0 {
			pilots[b] = true
		}
	}
	return used, pilots
}

// ofdmDataBinCount is the number of payload bits carried per OFDM symbol.
func ofdmDataBinCount() int {
	var used, pilots = ofdmBins()
	return len(used) - len(pilots)
}

// ofdmPadBits is the width of the pad count field in a reference symbol.
// The count can reach the full data bin count when the payload is empty.
const ofdmPadBits = 6

// ofdmRefFill is the fixed alternating pattern on the reference symbol's
// data bins after the pad count field.  It doubles as the signature the
// receiver uses to recognize the reference symbols.
func ofdmRefFill() Bits {
	var fill = make(Bits, ofdmDataBinCount()-ofdmPadBits)
	for i := range fill {
		fill[i] = byte(1 - i%2)
	}
	return fill
}

// ofdmRefSpec is the reference symbol sent before and after the data: the
// usual pilots, a pad count saying how many trailing bits of the last data
// symbol are filler, and the fixed signature pattern.  Without the count
// the receiver could not hand back the exact bit stream it was given, only
// a zero padded one.
func ofdmRefSpec(pad int) []complex128 {
	var used, pilots = ofdmBins()

	var header = make(Bits, 0, ofdmDataBinCount())
	for i := ofdmPadBits - 1; i >= 0; i-- {
		header = append(header, byte(pad>>uint(i))&1)
	}
	header = append(header, ofdmRefFill()...)

	var spec = make([]complex128, ofdmSubcarriers)
	var bit = 0
	for _, b := range used {
		if pilots[b] {
			spec[b] = 1
			continue
		}
		if header[bit] != 0 {
			spec[b] = 1
		} else {
			spec[b] = -1
		}
		bit++
	}
	return spec
}

func ofdmModulate(bits Bits, cfg ModemConfig) []float64 {
	var used, pilots = ofdmBins()
	var nData = len(used) - len(pilots)
	var cp = cfg.CyclicPrefixLen
	var fft = fourier.NewCmplxFFT(ofdmSubcarriers)

	var baseband []complex128
	var appendSymbol = func(spec []complex128) {
		var td = fft.Sequence(nil, spec)
		for i := range td {
			td[i] /= ofdmSubcarriers
		}
		baseband = append(baseband, td[ofdmSubcarriers-cp:]...)
		baseband = append(baseband, td...)
	}

	var nsym = (len(bits) + nData - 1) / nData
	if nsym == 0 {
		nsym = 1
	}
	var pad = nsym*nData - len(bits)

	appendSymbol(ofdmRefSpec(pad))
	for s := 0; s < nsym; s++ {
		var spec = make([]complex128, ofdmSubcarriers)
		var bit = s * nData
		for _, b := range used {
			if pilots[b] {
				spec[b] = 1
				continue
			}
			var v = -1.0
			if bit < len(bits) && bits[bit] != 0 {
				v = 1.0
			}
			spec[b] = complex(v, 0)
			bit++
		}
		appendSymbol(spec)
	}

	appendSymbol(ofdmRefSpec(pad))

	// Move to the audio passband: fractional resample to the output
	// rate, then mix up to the band center.
	var rate = float64(cfg.SampleRate)
	var re = make([]float64, len(baseband))
	var im = make([]float64, len(baseband))
	for i, z := range baseband {
		re[i] = real(z)
		im[i] = imag(z)
	}
	re = resample(re, ofdmBasebandRate, rate)
	im = resample(im, ofdmBasebandRate, rate)

	var omega = 2 * math.Pi * ofdmCenterFreq / rate
	var out = make([]float64, len(re))
	for n := range out {
		var c = math.Cos(omega * float64(n))
		var s = math.Sin(omega * float64(n))
		out[n] = cfg.PowerScale * (re[n]*c - im[n]*s)
	}

	raisedCosineRamp(out, int(0.002*rate))
	return out
}

func ofdmDemodulate(buf []float64, cfg ModemConfig) Bits {
	var used, pilots = ofdmBins()
	var cp = cfg.CyclicPrefixLen
	var symLen = ofdmSubcarriers + cp
	var rate = float64(cfg.SampleRate)
	var fft = fourier.NewCmplxFFT(ofdmSubcarriers)

	// Mix down to complex baseband and low pass away the image.
	var omega = 2 * math.Pi * ofdmCenterFreq / rate
	var re = make([]float64, len(buf))
	var im = make([]float64, len(buf))
	for n, x := range buf {
		var c = math.Cos(omega * float64(n))
		var s = math.Sin(omega * float64(n))
		re[n] = x * c
		im[n] = -x * s
	}
	var kernel = genLowpass(4500.0/rate, 129, windowHamming)
	re = firApply(re, kernel)
	im = firApply(im, kernel)

	re = resample(re, rate, ofdmBasebandRate)
	im = resample(im, rate, ofdmBasebandRate)
	var r = make([]complex128, len(re))
	for i := range re {
		r[i] = complex(re[i], im[i])
	}

	if len(r) < 2*symLen {
		return nil
	}

	var peak float64
	for _, z := range r {
		if a := cmplx.Abs(z); a > peak {
			peak = a
		}
	}
	if peak < 1e-6 {
		return nil
	}

	// Symbol clock from cyclic prefix correlation, folded over a few
	// consecutive symbols.  Noise and preamble audio have no structure
	// at a lag of 64 samples, so the global maximum sits on the real
	// symbol grid.  Every symbol start is congruent modulo the symbol
	// length, so the grid phase from the strongest stretch applies to
	// the whole buffer.
	var cpCorr = func(d int) float64 {
		var total float64
		for s := 0; s < 4; s++ {
			var base = d + s*symLen
			if base+symLen > len(r) {
				break
			}
			var acc complex128
			for i := 0; i < cp; i++ {
				acc += r[base+i] * cmplx.Conj(r[base+i+ofdmSubcarriers])
			}
			total += cmplx.Abs(acc)
		}
		return total
	}

	var bestD = 0
	var bestMetric = -1.0
	for d := 0; d+2*symLen <= len(r); d++ {
		if m := cpCorr(d); m > bestMetric {
			bestMetric = m
			bestD = d
		}
	}
	if bestMetric <= 0 {
		return nil
	}
	// Bias a couple of samples early.  Starting inside the cyclic prefix
	// is a circular shift the equalizer removes; starting late smears
	// the next symbol into the FFT window, which nothing removes.  When the
	// signal starts right at the buffer start the first grid position lies
	// before it; only that symbol's cyclic prefix is missing, and the FFT
	// window never reads the prefix.
	var start = bestD%symLen - 2
	if start+cp < 0 {
		start += symLen
	}

	// Demodulate every complete symbol on the grid.  A grid a few samples
	// late leaves the last FFT window short when the signal runs to the
	// end of the buffer; up to cp/4 missing samples are taken as zeros.
	type symOut struct {
		bits Bits
		mag  float64
	}
	var syms []symOut
	for base := start; base+symLen-cp/4 <= len(r); base += symLen {
		var block = make([]complex128, ofdmSubcarriers)
		copy(block, r[base+cp:])
		var spec = fft.Coefficients(nil, block)

		var h = equalizerEstimate(spec, used, pilots)
		var out symOut
		for _, b := range used {
			if pilots[b] {
				out.mag += cmplx.Abs(spec[b])
				continue
			}
			if real(spec[b]*cmplx.Conj(h[b])) > 0 {
				out.bits = append(out.bits, 1)
			} else {
				out.bits = append(out.bits, 0)
			}
		}
		syms = append(syms, out)
	}

	// Gate out silence.
	var max float64
	for _, s := range syms {
		if s.mag > max {
			max = s.mag
		}
	}
	if max <= 0 {
		return nil
	}
	var thr = 0.1 * max
	var first = 0
	for first < len(syms) && syms[first].mag < thr {
		first++
	}
	var last = len(syms)
	for last > first && syms[last-1].mag < thr {
		last--
	}
	syms = syms[first:last]
	if len(syms) <= 2 {
		return nil
	}

	// Locate the reference symbols by their signature pattern rather
	// than by position; a squelch burst ahead of the signal can survive
	// the energy gate and would otherwise be mistaken for the leading
	// reference.  The data sits strictly between them, and the pad
	// count in the reference says how many trailing bits of the last
	// data symbol are filler.
	var refFirst = -1
	var refLast = -1
	for i, s := range syms {
		if isRefSymbol(s.bits) {
			if refFirst < 0 {
				refFirst = i
			}
			refLast = i
		}
	}
	if refFirst < 0 || refLast <= refFirst+1 {
		return nil
	}
	var pad = 0
	for _, b := range syms[refFirst].bits[:ofdmPadBits] {
		pad = pad<<1 | int(b)
	}

	var bits Bits
	for _, s := range syms[refFirst+1 : refLast] {
		bits = append(bits, s.bits...)
	}
	if pad <= len(bits) {
		bits = bits[:len(bits)-pad]
	}
	return bits
}

// isRefSymbol checks a demodulated symbol's data bits against the fixed
// fill pattern.  A handful of bit errors is tolerated; a data symbol
// matching 80 percent of the signature by chance is beyond unlucky.
func isRefSymbol(bits Bits) bool {
	var fill = ofdmRefFill()
	if len(bits) != ofdmPadBits+len(fill) {
		return false
	}
	var d = hammingDistance(bits[ofdmPadBits:], fill)
	return d <= len(fill)/5
}

// freqIndex maps an FFT bin to its signed frequency position.
func freqIndex(b int) int {
	if b < ofdmSubcarriers/2 {
		return b
	}
	return b - ofdmSubcarriers
}

// equalizerEstimate builds a per bin channel estimate from the pilot
// tones.  A residual timing offset shows up as a phase slope across the
// band; naive interpolation between pilots would alias once that slope
// rotates neighbors past 180 degrees, so the common slope is estimated
// from the pilot pairs first, taken out, interpolated flat, then put
// back per bin.
func equalizerEstimate(spec []complex128, used []int, pilots map[int]bool) map[int]complex128 {
	type pilotPt struct {
		f   int // signed frequency position
		val complex128
	}
	var pts []pilotPt
	for _, b := range used {
		if pilots[b] {
			pts = append(pts, pilotPt{f: freqIndex(b), val: spec[b]})
		}
	}

	// Phase slope per frequency bin, from the pilot pairs a standard
	// spacing apart.  The pair straddling DC is wider and would alias,
	// so it does not vote.
	var acc complex128
	for j := 0; j+1 < len(pts); j++ {
		if pts[j+1].f-pts[j].f == 8 {
			acc += pts[j+1].val * cmplx.Conj(pts[j].val)
		}
	}
	var slope = cmplx.Phase(acc) / 8

	var derot = make([]complex128, len(pts))
	for j, p := range pts {
		derot[j] = p.val * cmplx.Exp(complex(0, -slope*float64(p.f)))
	}

	var h = make(map[int]complex128, len(used))
	for _, b := range used {
		var f = freqIndex(b)
		var flat complex128
		switch {
		case f <= pts[0].f:
			flat = derot[0]
		case f >= pts[len(pts)-1].f:
			flat = derot[len(pts)-1]
		default:
			for j := 0; j+1 < len(pts); j++ {
				if f >= pts[j].f && f <= pts[j+1].f {
					var t = float64(f-pts[j].f) / float64(pts[j+1].f-pts[j].f)
					flat = derot[j]*complex(1-t, 0) + derot[j+1]*complex(t, 0)
					break
				}
			}
		}
		h[b] = flat * cmplx.Exp(complex(0, slope*float64(f)))
	}
	return h
}

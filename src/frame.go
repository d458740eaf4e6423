package ohm

/*------------------------------------------------------------------
 *
 * Purpose:	Frame synchronization and payload delimiting.
 *
 * Description:	A frame is the fixed 8 octet sync pattern followed by
 *		the payload octets; the payload runs to the end of the
 *		signal and delimits itself.  On receive the sync is
 *		hunted with tolerance for arbitrary leading bits, bit
 *		slip, polarity inversion and reversed bit order within
 *		octets, in that order of preference.  Correlation is by
 *		Hamming distance: anything within 4 bits of the 64 bit
 *		pattern counts as a match, and whichever transform
 *		matched applies to the whole payload.
 *
 *----------------------------------------------------------------*/

// SyncPattern is the wire visible frame preamble, transmitted MSB first.
var SyncPattern = []byte{0x55, 0x55, 0x55, 0x55, 0xAA, 0xAA, 0x7E, 0x7E}

// syncMaxDistance is the largest acceptable Hamming distance across the
// 64 sync bits.
const syncMaxDistance = 4

// BitOrder says how the receiver's bit clock grouped bits into octets.
type BitOrder int

const (
	MSBFirst BitOrder = iota
	LSBFirst
)

// Alignment records how a frame was recovered.
type Alignment struct {
	Offset   int // bit position of the sync start in the raw stream
	Inverted bool
	Order    BitOrder
}

// BuildFrame prepends the sync pattern to the payload octets and returns
// the whole frame as a bit stream, MSB first.
func BuildFrame(payload []byte) Bits {
	var octets = make([]byte, 0, len(SyncPattern)+len(payload))
	octets = append(octets, SyncPattern...)
	octets = append(octets, payload...)
	return UnpackMSB(octets)
}

// FindFrame hunts for the sync pattern in a demodulated bit stream and
// returns the payload octets that follow it.  The transform combinations
// are tried in a fixed order: normal MSB first, inverted MSB first, then
// the same pair with the bit order within each octet reversed.  Within a
// combination every bit offset is a candidate, nearest first.  Returns
// ok=false when nothing acceptable is found; that is not an error here,
// the caller decides whether it is.
func FindFrame(stream Bits) (payload []byte, align Alignment, ok bool) {
	var syncMSB = UnpackMSB(SyncPattern)
	var syncLSB = syncMSB.ReverseOctets()

	type attempt struct {
		pattern  Bits
		inverted bool
		order    BitOrder
	}
	var attempts = []attempt{
		{syncMSB, false, MSBFirst},
		{syncMSB.Invert(), true, MSBFirst},
		{syncLSB, false, LSBFirst},
		{syncLSB.Invert(), true, LSBFirst},
	}

	for _, a := range attempts {
		var pos = scanFor(stream, a.pattern)
		if pos < 0 {
			continue
		}

		var bits = make(Bits, len(stream)-pos-len(a.pattern))
		copy(bits, stream[pos+len(a.pattern):])
		if a.inverted {
			bits = bits.Invert()
		}
		if a.order == LSBFirst {
			// The transmitter's octet boundaries start right after
			// the sync, so group reversal anchors there.
			bits = bits.ReverseOctets()
		}

		return PackMSB(bits), Alignment{Offset: pos, Inverted: a.inverted, Order: a.order}, true
	}

	return nil, Alignment{}, false
}

// scanFor returns the first position where the pattern matches within the
// allowed Hamming distance, or -1.
func scanFor(stream Bits, pattern Bits) int {
	for pos := 0; pos+len(pattern) <= len(stream); pos++ {
		if hammingDistance(stream[pos:pos+len(pattern)], pattern) <= syncMaxDistance {
			return pos
		}
	}
	return -1
}

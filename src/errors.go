package ohm

import "errors"

// The error kinds surfaced at the package boundary.  Demodulators and the
// framer stay silent about signal quality; they hand back whatever they
// recovered and leave the verdict to the codec.
var (
	// ErrNoSync means the framer found no acceptable alignment in the
	// demodulated bit stream.
	ErrNoSync = errors.New("no frame sync found")

	// ErrCodecFailure means the Huffman decoder reached an undefined
	// transition or ran out of bits in the middle of a symbol.
	ErrCodecFailure = errors.New("codec failure")

	// ErrNoPayload means auto detection exhausted every modulation
	// without a valid decode.
	ErrNoPayload = errors.New("no payload decoded")

	// ErrInvalidConfig means an unknown modulation or codec name, or an
	// out of range parameter.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInputUnavailable means an input file is missing or unreadable.
	ErrInputUnavailable = errors.New("input unavailable")
)

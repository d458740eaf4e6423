// Package ohm is an offline software modem for amateur radio digital text
// modes.  It turns a short text payload into a mono 16 bit PCM waveform
// suitable for feeding into a transmitter, and recovers the original text,
// byte for byte, from a recording of such a waveform.
//
// The pipeline is text -> bit stream (Huffman or ASCII codec) -> framed bit
// stream (sync pattern prepended) -> modulated PCM, with the exact inverse
// on receive.  Four modulation schemes are supported: BPSK, FSK, AFSK and
// OFDM.  All operations are batch mode and deterministic; nothing here
// touches a sound card or a radio.
package ohm

// ModeID identifies the over-the-air protocol revision: the sync pattern,
// the Huffman table and the token dictionary are all versioned by it.
const ModeID = "ohm.text.v1"

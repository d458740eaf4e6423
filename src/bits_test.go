package ohm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestUnpackPackRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var octets = rapid.SliceOf(rapid.Byte()).Draw(t, "octets")

		var packed = PackMSB(UnpackMSB(octets))

		if len(packed) != len(octets) {
			t.Fatalf("length changed: %d != %d", len(packed), len(octets))
		}
		for i := range octets {
			if packed[i] != octets[i] {
				t.Fatalf("octet %d changed: %02x != %02x", i, packed[i], octets[i])
			}
		}
	})
}

func TestUnpackMSBOrder(t *testing.T) {
	assert.Equal(t, Bits{0, 1, 0, 1, 0, 1, 0, 1}, UnpackMSB([]byte{0x55}))
	assert.Equal(t, Bits{1, 0, 1, 0, 1, 0, 1, 0}, UnpackMSB([]byte{0xAA}))
	assert.Equal(t, Bits{0, 1, 1, 1, 1, 1, 1, 0}, UnpackMSB([]byte{0x7E}))
}

func TestPackMSBDropsPartialOctet(t *testing.T) {
	var bits = Bits{1, 1, 1, 1, 0, 0, 0, 0, 1, 0, 1}
	assert.Equal(t, []byte{0xF0}, PackMSB(bits))
}

func TestInvert(t *testing.T) {
	var bits = Bits{0, 1, 1, 0}
	assert.Equal(t, Bits{1, 0, 0, 1}, bits.Invert())
	assert.Equal(t, bits, bits.Invert().Invert())
}

func TestReverseOctets(t *testing.T) {
	var in = UnpackMSB([]byte{0x7E}) // 01111110, a palindrome
	assert.Equal(t, in, in.ReverseOctets())

	var asym = UnpackMSB([]byte{0x01})
	assert.Equal(t, UnpackMSB([]byte{0x80}), asym.ReverseOctets())

	// A trailing partial group stays put.
	var partial = Bits{1, 0, 0, 0, 0, 0, 0, 0, 1, 1, 0}
	var got = partial.ReverseOctets()
	assert.Equal(t, Bits{1, 1, 0}, got[8:])
}

func TestHammingDistance(t *testing.T) {
	var a = UnpackMSB([]byte{0x55})
	assert.Equal(t, 0, hammingDistance(a, a))
	assert.Equal(t, 8, hammingDistance(a, a.Invert()))
	assert.Equal(t, 2, hammingDistance(Bits{0, 0, 1, 1}, Bits{0, 1, 0, 1}))
}

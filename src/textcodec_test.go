package ohm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestHuffmanRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"single character", "K"},
		{"plain uppercase", "HELLO"},
		{"mixed case sentence", "Hello from OpenHam! This is a test transmission from station S56SPZ using digital modes."},
		{"utf8", "HELLO ŠČĆŽ"},
		{"tokens with callsign", "DE DE BK S56SPZ K"},
		{"qcodes and gridsquare", "QRZ? QRM QSY JN76"},
		{"cq call", "CQ CQ CQ DE S56SPZ S56SPZ K"},
		{"numbers", "73 ES 88 TNX FER QSO"},
		{"sync octets as text", "UUUU\xaa\xaa~~"},
		{"newlines", "LINE ONE\nLINE TWO\n"},
		{"token like words", "DESK KNOT OMELETTE"},
		{"private use area literal", ""},
		{"emoji", "73 \U0001F44D"},
		{"lone utf8 lead byte", "\xc0"},
		{"truncated utf8 sequence", "A\xe2\x82"},
		{"invalid lead byte between text", "OK\xf5OK"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var payload = Encode(tt.text, CodecHuffman)
			var decoded, err = Decode(payload, CodecHuffman)
			require.NoError(t, err)
			assert.Equal(t, tt.text, decoded)
		})
	}
}

func TestHuffmanRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var text = rapid.String().Draw(t, "text")

		var payload = Encode(text, CodecHuffman)
		var decoded, err = Decode(payload, CodecHuffman)

		if err != nil {
			t.Fatalf("decode failed for %q: %v", text, err)
		}
		if decoded != text {
			t.Fatalf("round trip mismatch: %q != %q", decoded, text)
		}
	})
}

func TestHuffmanRoundTripArbitraryBytes(t *testing.T) {
	// Not even valid UTF-8 is allowed to break the round trip.
	rapid.Check(t, func(t *rapid.T) {
		var raw = rapid.SliceOf(rapid.Byte()).Draw(t, "raw")
		var text = string(raw)

		var payload = Encode(text, CodecHuffman)
		var decoded, err = Decode(payload, CodecHuffman)

		if err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if decoded != text {
			t.Fatalf("round trip mismatch for raw bytes %v", raw)
		}
	})
}

func TestHuffmanEmptyMessageStillProducesOctets(t *testing.T) {
	var payload = Encode("", CodecHuffman)
	assert.NotEmpty(t, payload, "even an empty message carries the end of message symbol")

	var decoded, err = Decode(payload, CodecHuffman)
	require.NoError(t, err)
	assert.Equal(t, "", decoded)
}

func TestHuffmanDecodeIgnoresTrailingJunk(t *testing.T) {
	var payload = Encode("CQ DE S56SPZ", CodecHuffman)
	var withJunk = append(append([]byte{}, payload...), 0x00, 0x00, 0xff, 0x13)

	var decoded, err = Decode(withJunk, CodecHuffman)
	require.NoError(t, err)
	assert.Equal(t, "CQ DE S56SPZ", decoded)
}

func TestHuffmanDecodeTruncatedIsCodecFailure(t *testing.T) {
	var payload = Encode("THE QUICK BROWN FOX JUMPS OVER THE LAZY DOG", CodecHuffman)

	var _, err = Decode(payload[:2], CodecHuffman)
	assert.ErrorIs(t, err, ErrCodecFailure)
}

func TestASCIIRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"plain", "HELLO"},
		{"utf8", "HELLO ŠČĆŽ"},
		{"spaces", "  padded  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var payload = Encode(tt.text, CodecASCII)
			assert.Equal(t, []byte(tt.text), payload, "ascii must be the identity")

			var decoded, err = Decode(payload, CodecASCII)
			require.NoError(t, err)
			assert.Equal(t, tt.text, decoded)
		})
	}
}

func TestASCIIDecodeIsIdentity(t *testing.T) {
	// Even NUL octets are payload; the modems deliver whole octets, so
	// the decoder has no padding to second-guess.
	var decoded, err = Decode([]byte("HELLO\x00\x00\x00"), CodecASCII)
	require.NoError(t, err)
	assert.Equal(t, "HELLO\x00\x00\x00", decoded)
}

func TestParseTextCodec(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TextCodec
		wantErr bool
	}{
		{"huffman", "huffman", CodecHuffman, false},
		{"ascii", "ascii", CodecASCII, false},
		{"default", "", CodecHuffman, false},
		{"case insensitive", "ASCII", CodecASCII, false},
		{"unknown", "morse", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got, err = ParseTextCodec(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

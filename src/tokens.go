package ohm

/*------------------------------------------------------------------
 *
 * Purpose:	Ham radio token dictionary for the text codec.
 *
 * Description:	Q codes, procedure abbreviations and callsign or
 *		gridsquare shaped strings are frequent enough in this
 *		traffic to deserve their own Huffman symbols.  Each
 *		dictionary entry is aliased to a code point in the
 *		Unicode Private Use Area so the Huffman alphabet stays
 *		a flat set of scalars.  The PUA assignments are part of
 *		the protocol version and must not be reordered.
 *
 *----------------------------------------------------------------*/

import (
	"regexp"
	"sort"
	"strings"
)

const tokenBase rune = 0xE000

// Marker symbols.  A callsign or gridsquare is not a closed dictionary, so
// those two are followed by a small self delimiting character payload.
const (
	symCallsign rune = 0xE100 // followed by 4 bit length + 6 bit chars
	symGrid     rune = 0xE101 // same payload format
	symEscape   rune = 0xE102 // followed by a 2 bit octet count minus one, then the raw octets of one scalar
	symEOM      rune = 0xE103 // end of message
)

// tokenDictionary is the closed, versioned token list.  Index order is the
// PUA assignment order.
var tokenDictionary = []string{
	"QRB", "QRM", "QRO", "QRP", "QRS", "QRT", "QRZ", "QSB", "QSL", "QSO", "QSY", "QTH",
	"QRB?", "QRM?", "QRO?", "QRP?", "QRS?", "QRT?", "QRZ?", "QSB?", "QSL?", "QSO?", "QSY?", "QTH?",
	"CQ", "DE", "BK", "KN", "K", "AR", "SK", "YL", "OM", "73", "88",
}

// shapeAlphabet is the character set allowed inside callsign and
// gridsquare payloads, indexed by the 6 bit code on the wire.
const shapeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

var (
	// Longest first so the greedy scan naturally prefers QRZ? over QRZ
	// and KN over K.
	tokensByLength []string

	tokenToSymbol = map[string]rune{}
	symbolToToken = map[rune]string{}

	// Amateur callsign shape: one letter, optional second letter or
	// digit, a separating digit, then a one to four letter suffix.
	callsignShape = regexp.MustCompile(`^[A-Z][A-Z0-9]?[0-9][A-Z]{1,4}`)

	// Maidenhead gridsquare, four or six characters, upper case.
	gridShape = regexp.MustCompile(`^[A-R]{2}[0-9]{2}(?:[A-X]{2})?`)

	shapeCharCode [128]int8
)

func init() {
	tokensByLength = append(tokensByLength, tokenDictionary...)
	sort.SliceStable(tokensByLength, func(i, j int) bool {
		return len(tokensByLength[i]) > len(tokensByLength[j])
	})

	for i, tok := range tokenDictionary {
		var sym = tokenBase + rune(i)
		tokenToSymbol[tok] = sym
		symbolToToken[sym] = tok
	}

	for i := range shapeCharCode {
		shapeCharCode[i] = -1
	}
	for i, c := range shapeAlphabet {
		shapeCharCode[c] = int8(i)
	}
}

// codecSymbol is one unit of the Huffman alphabet as produced by the
// tokenizer.  For dictionary tokens and shape matches, tok is set and text
// carries the literal string the symbol stands for.  The flag matters:
// input text may contain the PUA scalars we use as token aliases, and
// those must not be mistaken for tokens.
type codecSymbol struct {
	r    rune
	text string
	tok  bool
}

// tokenize scans the input left to right.  At each position it takes the
// longest match among dictionary tokens and callsign or gridsquare shapes;
// otherwise it consumes one scalar.  Matching is greedy with no
// backtracking, so the symbol sequence for a given input is unique.
func tokenize(s string) []codecSymbol {
	var syms []codecSymbol

	for i := 0; i < len(s); {
		var rest = s[i:]

		var bestLen int
		var bestSym codecSymbol

		for _, tok := range tokensByLength {
			if len(tok) <= bestLen {
				break // list is longest first
			}
			if strings.HasPrefix(rest, tok) {
				bestLen = len(tok)
				bestSym = codecSymbol{r: tokenToSymbol[tok], text: tok, tok: true}
			}
		}

		if m := callsignShape.FindString(rest); m != "" && len(m) > bestLen && shapeBoundary(rest, len(m)) {
			bestLen = len(m)
			bestSym = codecSymbol{r: symCallsign, text: m, tok: true}
		}
		if m := gridShape.FindString(rest); m != "" && len(m) > bestLen && shapeBoundary(rest, len(m)) {
			bestLen = len(m)
			bestSym = codecSymbol{r: symGrid, text: m, tok: true}
		}

		if bestLen > 0 {
			syms = append(syms, bestSym)
			i += bestLen
			continue
		}

		var r, size = decodeScalar(rest)
		syms = append(syms, codecSymbol{r: r, text: rest[:size]})
		i += size
	}

	return syms
}

// shapeBoundary reports whether a shape match of length n is not embedded
// in a longer run of shape characters, which would make it a misleading
// split of an ordinary word.
func shapeBoundary(rest string, n int) bool {
	if n >= len(rest) {
		return true
	}
	var c = rest[n]
	return c >= 128 || shapeCharCode[c] < 0
}

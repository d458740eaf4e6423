package ohm

/*------------------------------------------------------------------
 *
 * Purpose:	Canonical Huffman code over the codec alphabet.
 *
 * Description:	The alphabet is the set of scalars the tokenizer can
 *		produce: common text characters, the ham token
 *		dictionary, and the marker symbols.  Code lengths are
 *		derived from a fixed frequency table shipped below;
 *		the canonical assignment rule then fixes the code
 *		words, so encoder and decoder agree by construction.
 *		The table is part of the ohm.text.v1 protocol and
 *		must not change without a version bump.
 *
 *----------------------------------------------------------------*/

import (
	"sort"
)

type symbolWeight struct {
	r rune
	w int
}

// huffmanWeights is the fixed frequency table, loosely based on English
// letter frequency with a heavy thumb on the scale for the characters and
// tokens that dominate amateur radio traffic.
var huffmanWeights = []symbolWeight{
	{' ', 130},
	{'E', 100}, {'T', 91}, {'A', 82}, {'O', 75}, {'I', 70}, {'N', 67},
	{'S', 63}, {'H', 61}, {'R', 60}, {'D', 43}, {'L', 40}, {'C', 28},
	{'U', 28}, {'M', 24}, {'W', 23}, {'F', 22}, {'G', 20}, {'Y', 20},
	{'P', 19}, {'B', 13}, {'V', 10}, {'K', 8}, {'J', 2}, {'X', 2},
	{'Q', 2}, {'Z', 2},
	{'e', 50}, {'t', 45}, {'a', 41}, {'o', 37}, {'i', 35}, {'n', 33},
	{'s', 31}, {'h', 30}, {'r', 30}, {'d', 21}, {'l', 20}, {'c', 14},
	{'u', 14}, {'m', 12}, {'w', 11}, {'f', 11}, {'g', 10}, {'y', 10},
	{'p', 9}, {'b', 6}, {'v', 5}, {'k', 4}, {'j', 1}, {'x', 1},
	{'q', 1}, {'z', 1},
	{'0', 12}, {'1', 12}, {'2', 12}, {'3', 12}, {'4', 12},
	{'5', 12}, {'6', 12}, {'7', 12}, {'8', 12}, {'9', 12},
	{'.', 10}, {',', 6}, {'?', 8}, {'/', 6}, {'-', 6}, {'!', 4},
	{':', 3}, {';', 2}, {'\'', 3}, {'"', 2}, {'(', 1}, {')', 1},
	{'@', 2}, {'=', 4}, {'+', 2}, {'\n', 4},

	// Dictionary tokens, in PUA assignment order.
	{tokenBase + 0, 6}, {tokenBase + 1, 6}, {tokenBase + 2, 6},
	{tokenBase + 3, 6}, {tokenBase + 4, 6}, {tokenBase + 5, 6},
	{tokenBase + 6, 6}, {tokenBase + 7, 6}, {tokenBase + 8, 6},
	{tokenBase + 9, 6}, {tokenBase + 10, 6}, {tokenBase + 11, 6},
	{tokenBase + 12, 3}, {tokenBase + 13, 3}, {tokenBase + 14, 3},
	{tokenBase + 15, 3}, {tokenBase + 16, 3}, {tokenBase + 17, 3},
	{tokenBase + 18, 3}, {tokenBase + 19, 3}, {tokenBase + 20, 3},
	{tokenBase + 21, 3}, {tokenBase + 22, 3}, {tokenBase + 23, 3},
	{tokenBase + 24, 10}, {tokenBase + 25, 12}, {tokenBase + 26, 6},
	{tokenBase + 27, 6}, {tokenBase + 28, 10}, {tokenBase + 29, 5},
	{tokenBase + 30, 5}, {tokenBase + 31, 3}, {tokenBase + 32, 4},
	{tokenBase + 33, 8}, {tokenBase + 34, 4},

	{symCallsign, 12}, {symGrid, 5}, {symEscape, 8}, {symEOM, 20},
}

const maxCodeLength = 32

type huffmanCode struct {
	bits uint32
	n    int
}

type huffmanTable struct {
	encode map[rune]huffmanCode

	// Canonical decode tables, indexed by code length.
	maxLen    int
	firstCode [maxCodeLength + 1]uint32
	count     [maxCodeLength + 1]int
	symbols   [maxCodeLength + 1][]rune
}

var codeTable = buildHuffmanTable(huffmanWeights)

// buildHuffmanTable derives code lengths with the two queue Huffman
// construction (deterministic, ties resolved by scalar order) and then
// assigns canonical code words.
func buildHuffmanTable(weights []symbolWeight) *huffmanTable {
	var n = len(weights)

	var leaves = make([]symbolWeight, n)
	copy(leaves, weights)
	sort.Slice(leaves, func(i, j int) bool {
		if leaves[i].w != leaves[j].w {
			return leaves[i].w < leaves[j].w
		}
		return leaves[i].r < leaves[j].r
	})

	// Node storage: 0..n-1 leaves, internal nodes appended.
	var weight = make([]int, n, 2*n)
	var left = make([]int, n, 2*n)
	var right = make([]int, n, 2*n)
	for i, lf := range leaves {
		weight[i] = lf.w
		left[i] = -1
		right[i] = -1
	}

	var q1 = make([]int, n) // leaf queue, ascending weight
	for i := range q1 {
		q1[i] = i
	}
	var q2 []int // internal node queue, ascending by construction

	var pop = func() int {
		if len(q1) > 0 && (len(q2) == 0 || weight[q1[0]] <= weight[q2[0]]) {
			var v = q1[0]
			q1 = q1[1:]
			return v
		}
		var v = q2[0]
		q2 = q2[1:]
		return v
	}

	var root = 0
	for len(q1)+len(q2) > 1 {
		var a = pop()
		var b = pop()
		weight = append(weight, weight[a]+weight[b])
		left = append(left, a)
		right = append(right, b)
		root = len(weight) - 1
		q2 = append(q2, root)
	}

	// Depth of every leaf.
	var depth = make([]int, len(weight))
	var stack = []int{root}
	for len(stack) > 0 {
		var v = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if left[v] >= 0 {
			depth[left[v]] = depth[v] + 1
			depth[right[v]] = depth[v] + 1
			stack = append(stack, left[v], right[v])
		}
	}

	type symLen struct {
		r   rune
		len int
	}
	var lens = make([]symLen, n)
	for i, lf := range leaves {
		var d = depth[i]
		if n == 1 {
			d = 1
		}
		if d > maxCodeLength {
			panic("huffman: fixed table produced an over-long code")
		}
		lens[i] = symLen{r: lf.r, len: d}
	}
	sort.Slice(lens, func(i, j int) bool {
		if lens[i].len != lens[j].len {
			return lens[i].len < lens[j].len
		}
		return lens[i].r < lens[j].r
	})

	var t = &huffmanTable{encode: make(map[rune]huffmanCode, n)}

	var blCount [maxCodeLength + 1]int
	for _, sl := range lens {
		blCount[sl.len]++
		if sl.len > t.maxLen {
			t.maxLen = sl.len
		}
	}
	var nextCode [maxCodeLength + 1]uint32
	var code uint32
	for l := 1; l <= t.maxLen; l++ {
		code = (code + uint32(blCount[l-1])) << 1
		nextCode[l] = code
		t.firstCode[l] = code
		t.count[l] = blCount[l]
	}

	for _, sl := range lens {
		t.encode[sl.r] = huffmanCode{bits: nextCode[sl.len], n: sl.len}
		t.symbols[sl.len] = append(t.symbols[sl.len], sl.r)
		nextCode[sl.len]++
	}

	return t
}

// lookup returns the code for a scalar, if it is in the alphabet.
func (t *huffmanTable) lookup(r rune) (huffmanCode, bool) {
	var c, ok = t.encode[r]
	return c, ok
}

// readSymbol consumes one canonical code from the reader.  An undefined
// transition or running out of bits mid code is a codec failure.
func (t *huffmanTable) readSymbol(r *bitReader) (rune, error) {
	var code uint32
	for l := 1; l <= t.maxLen; l++ {
		var b, ok = r.readBit()
		if !ok {
			return 0, ErrCodecFailure
		}
		code = code<<1 | uint32(b)
		if t.count[l] > 0 {
			var offset = int64(code) - int64(t.firstCode[l])
			if offset >= 0 && offset < int64(t.count[l]) {
				return t.symbols[l][offset], nil
			}
		}
	}
	return 0, ErrCodecFailure
}

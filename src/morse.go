package ohm

/*------------------------------------------------------------------
 *
 * Purpose:   	Generate audio for morse code.
 *
 * Description:	Used for the optional CW identification sent ahead of
 *		the data: many jurisdictions want a station ID in a
 *		mode anyone can copy.  Standard timing, dit is one
 *		unit, dah three, one unit between elements, three
 *		between characters, seven between words.
 *
 *----------------------------------------------------------------*/

const morseTone = 800 // Hz

// timeUnitsToMs converts morse time units at a given speed to
// milliseconds.  The 1200 constant is the classic "PARIS" convention.
func timeUnitsToMs(tu int, wpm int) float64 {
	return float64(tu) * 1200.0 / float64(wpm)
}

var morseTable = map[rune]string{
	'A': ".-", 'B': "-...", 'C': "-.-.", 'D': "-..", 'E': ".",
	'F': "..-.", 'G': "--.", 'H': "....", 'I': "..", 'J': ".---",
	'K': "-.-", 'L': ".-..", 'M': "--", 'N': "-.", 'O': "---",
	'P': ".--.", 'Q': "--.-", 'R': ".-.", 'S': "...", 'T': "-",
	'U': "..-", 'V': "...-", 'W': ".--", 'X': "-..-", 'Y': "-.--",
	'Z': "--..",
	'1': ".----", '2': "..---", '3': "...--", '4': "....-", '5': ".....",
	'6': "-....", '7': "--...", '8': "---..", '9': "----.", '0': "-----",
	'.': ".-.-.-", ',': "--..--", '?': "..--..", '/': "-..-.",
	'=': "-...-", '-': "-....-", ':': "---...", ';': "-.-.-.",
	'"': ".-..-.", '\'': ".----.", '!': "-.-.--", '(': "-.--.",
	')': "-.--.-", '&': ".-...", '+': ".-.-.", '_': "..--.-",
	'@': ".--.-.", '$': "...-..-",
}

// morseRender generates the audio for a string at the given speed.
// Unknown characters become a one unit gap; a space is a word gap.
func morseRender(text string, wpm int, sampleRate int, amplitude float64) []float64 {
	var gen = newToneGen(float64(sampleRate))
	var out []float64

	var unitSamples = func(tu int) int {
		return int(timeUnitsToMs(tu, wpm)*float64(sampleRate)/1000.0 + 0.5)
	}
	var quiet = func(tu int) {
		out = append(out, make([]float64, unitSamples(tu))...)
	}
	var key = func(tu int) {
		var n = unitSamples(tu)
		var start = len(out)
		out = gen.tone(out, morseTone, n, amplitude)
		// Soften the keying edges to keep clicks out of the channel.
		var ramp = sampleRate / 200 // 5 ms
		if ramp*2 < n {
			raisedCosineRamp(out[start:], ramp)
		}
	}

	for i, ch := range text {
		if ch == ' ' {
			quiet(7)
			continue
		}
		var enc, ok = morseTable[upperRune(ch)]
		if !ok {
			quiet(1)
			continue
		}
		for j, e := range enc {
			if e == '.' {
				key(1)
			} else {
				key(3)
			}
			if j != len(enc)-1 {
				quiet(1)
			}
		}
		// A following space brings the whole word gap itself.
		if i != len(text)-1 && text[i+1] != ' ' {
			quiet(3)
		}
	}

	return out
}

func upperRune(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 'a' + 'A'
	}
	return r
}

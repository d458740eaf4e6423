package ohm

/*------------------------------------------------------------------
 *
 * Purpose:	.WAV container reading and writing.
 *
 * Description:	The core works on raw sample slices; this is the thin
 *		boundary to the files the rest of the world speaks.
 *		Output is always 16 bit signed PCM mono.  Input must
 *		be 16 bit PCM; a stereo recording is accepted and the
 *		first channel taken.
 *
 *----------------------------------------------------------------*/

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// supportedRates are the sample rates the tools accept.
var supportedRates = []int{8000, 16000, 22050, 44100, 48000, 96000}

// SupportedRate reports whether the rate is one of the recognized ones.
func SupportedRate(rate int) bool {
	for _, r := range supportedRates {
		if r == rate {
			return true
		}
	}
	return false
}

// ReadWAV loads a sound file and returns the samples of its first channel
// plus the sample rate.
func ReadWAV(path string) ([]int16, int, error) {
	var f, err = os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrInputUnavailable, err)
	}
	defer f.Close()

	var dec = wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("%w: %s is not a usable WAV file", ErrInputUnavailable, path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrInputUnavailable, err)
	}
	if dec.BitDepth != 16 {
		return nil, 0, fmt.Errorf("%w: %s has %d bit samples, want 16", ErrInputUnavailable, path, dec.BitDepth)
	}

	var channels = buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}
	var samples = make([]int16, 0, len(buf.Data)/channels)
	for i := 0; i < len(buf.Data); i += channels {
		samples = append(samples, int16(buf.Data[i]))
	}
	return samples, buf.Format.SampleRate, nil
}

// WriteWAV writes samples as a 16 bit mono WAV file.
func WriteWAV(path string, samples []int16, sampleRate int) error {
	var f, err = os.Create(path)
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	var enc = wav.NewEncoder(f, sampleRate, 16, 1, 1)
	var data = make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s)
	}
	var buf = &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

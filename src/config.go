package ohm

/*------------------------------------------------------------------
 *
 * Purpose:	Optional YAML configuration file for the tools.
 *
 * Description:	Station settings people do not want to retype on every
 *		invocation.  Anything present here overrides the built
 *		in defaults; command line flags override both.  Zero
 *		values mean "not set".  The callsign key is read into
 *		FileConfig, but the tools take the station callsign
 *		from the --callsign flag only.
 *
 *----------------------------------------------------------------*/

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig mirrors the recognized option set in YAML form.
type FileConfig struct {
	Callsign           string  `yaml:"callsign"`
	SampleRate         int     `yaml:"sample_rate"`
	CenterFrequency    float64 `yaml:"center_frequency"`
	SymbolRate         float64 `yaml:"symbol_rate"`
	MarkFrequency      float64 `yaml:"mark_frequency"`
	SpaceFrequency     float64 `yaml:"space_frequency"`
	AFSKProfile        string  `yaml:"afsk_profile"`
	SubcarrierCount    int     `yaml:"subcarrier_count"`
	CyclicPrefixLength int     `yaml:"cyclic_prefix_length"`
	PowerScale         float64 `yaml:"power_scale"`
	TextCodec          string  `yaml:"text_codec"`
}

// LoadConfig reads a YAML configuration file.  Unknown keys are an error;
// a typo silently ignored would be worse.
func LoadConfig(path string) (FileConfig, error) {
	var fc FileConfig

	var data, err = os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("%w: %v", ErrInputUnavailable, err)
	}

	var dec = yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && err != io.EOF {
		return fc, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return fc, nil
}

// Apply folds the file settings over a base modem configuration.
func (fc FileConfig) Apply(base ModemConfig) (ModemConfig, error) {
	if fc.SampleRate != 0 {
		base.SampleRate = fc.SampleRate
	}
	if fc.CenterFrequency != 0 {
		base.CenterFrequency = fc.CenterFrequency
	}
	if fc.SymbolRate != 0 {
		base.SymbolRate = fc.SymbolRate
	}
	if fc.MarkFrequency != 0 {
		base.MarkFrequency = fc.MarkFrequency
	}
	if fc.SpaceFrequency != 0 {
		base.SpaceFrequency = fc.SpaceFrequency
	}
	if fc.AFSKProfile != "" {
		var p, err = ParseAFSKProfile(fc.AFSKProfile)
		if err != nil {
			return base, err
		}
		base.Profile = p
	}
	if fc.SubcarrierCount != 0 {
		base.SubcarrierCount = fc.SubcarrierCount
	}
	if fc.CyclicPrefixLength != 0 {
		base.CyclicPrefixLen = fc.CyclicPrefixLength
	}
	if fc.PowerScale != 0 {
		base.PowerScale = fc.PowerScale
	}
	return base, nil
}

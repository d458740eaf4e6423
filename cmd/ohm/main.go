// Command ohm is the command line surface of the text modem: encode text
// into a WAV file, decode a WAV file back into text, generate test
// signals, and print mode information.
package main

import (
	"fmt"
	"math"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"gonum.org/v1/gonum/dsp/fourier"

	ohm "github.com/openham/ohm/src"
)

func main() {
	log.SetReportTimestamp(false)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "tx":
		err = runTx(os.Args[2:])
	case "rx":
		err = runRx(os.Args[2:])
	case "generate":
		err = runGenerate(os.Args[2:])
	case "info":
		err = runInfo(os.Args[2:])
	case "-h", "--help", "help":
		usage()
		return
	default:
		log.Error("unknown command", "command", os.Args[1])
		usage()
		os.Exit(1)
	}

	if err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `ohm %s - amateur radio text modem (%s)

usage:
  ohm tx --text <message> --output <wav> [flags]
  ohm rx --input <wav> --output <txt> [flags]
  ohm generate --kind tone|twotone|noise|message --output <wav> [flags]
  ohm info [wav]

Run a command with --help for its flags.
`, ohm.Version, ohm.ModeID)
}

// commonFlags registers the modem parameters shared by tx and rx and
// returns a loader that resolves config file plus flag overrides.
func commonFlags(fs *pflag.FlagSet) func() (ohm.ModemConfig, ohm.TextCodec, error) {
	var configPath = fs.String("config", "", "YAML configuration file")
	var sampleRate = fs.Int("sample-rate", 0, "sample rate in Hz")
	var centerFreq = fs.Float64("center-frequency", 0, "BPSK carrier frequency in Hz")
	var symbolRate = fs.Float64("symbol-rate", 0, "symbol rate in baud")
	var markFreq = fs.Float64("mark-frequency", 0, "FSK mark frequency in Hz")
	var spaceFreq = fs.Float64("space-frequency", 0, "FSK space frequency in Hz")
	var profile = fs.String("afsk-profile", "", "AFSK profile: bell202, bell103, vhf, hf")
	var power = fs.Float64("power-scale", 0, "output amplitude scale (0, 1]")
	var codecName = fs.String("codec", "", "text codec: huffman or ascii")

	return func() (ohm.ModemConfig, ohm.TextCodec, error) {
		var cfg = ohm.DefaultConfig()
		var codec = ohm.CodecHuffman

		if *configPath != "" {
			var fc, err = ohm.LoadConfig(*configPath)
			if err != nil {
				return cfg, codec, err
			}
			if cfg, err = fc.Apply(cfg); err != nil {
				return cfg, codec, err
			}
			if fc.TextCodec != "" {
				var c, err = ohm.ParseTextCodec(fc.TextCodec)
				if err != nil {
					return cfg, codec, err
				}
				codec = c
			}
		}

		if *sampleRate != 0 {
			if !ohm.SupportedRate(*sampleRate) {
				return cfg, codec, fmt.Errorf("%w: unsupported sample rate %d", ohm.ErrInvalidConfig, *sampleRate)
			}
			cfg.SampleRate = *sampleRate
		}
		if *centerFreq != 0 {
			cfg.CenterFrequency = *centerFreq
		}
		if *symbolRate != 0 {
			cfg.SymbolRate = *symbolRate
		}
		if *markFreq != 0 {
			cfg.MarkFrequency = *markFreq
		}
		if *spaceFreq != 0 {
			cfg.SpaceFrequency = *spaceFreq
		}
		if *profile != "" {
			var p, err = ohm.ParseAFSKProfile(*profile)
			if err != nil {
				return cfg, codec, err
			}
			cfg.Profile = p
		}
		if *power != 0 {
			cfg.PowerScale = *power
		}
		if *codecName != "" {
			var c, err = ohm.ParseTextCodec(*codecName)
			if err != nil {
				return cfg, codec, err
			}
			codec = c
		}
		return cfg, codec, nil
	}
}

func runTx(args []string) error {
	var fs = pflag.NewFlagSet("tx", pflag.ExitOnError)
	var text = fs.String("text", "", "message text to transmit")
	var inFile = fs.String("file", "", "read the message from this file instead")
	var output = fs.String("output", "", "output WAV file (required)")
	var callsign = fs.String("callsign", "NOCALL", "station callsign")
	var modName = fs.String("modulation", "bpsk", "modulation: bpsk, fsk, afsk, ofdm")
	var cwID = fs.Bool("cw-id", false, "prepend a morse station identification")
	var cwWPM = fs.Int("cw-wpm", 20, "morse identification speed")
	var noiseMs = fs.Int("pink-noise-ms", 0, "prepend a pink noise squelch trigger of this length")
	var leadMs = fs.Int("lead-silence-ms", 100, "silence before the signal")
	var tailMs = fs.Int("tail-silence-ms", 100, "silence after the signal")
	var verbose = fs.BoolP("verbose", "v", false, "chatty logging")
	var loadCfg = commonFlags(fs)
	fs.Parse(args)

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	if *output == "" {
		return fmt.Errorf("%w: --output is required", ohm.ErrInvalidConfig)
	}

	var message = *text
	if *inFile != "" {
		var data, err = os.ReadFile(*inFile)
		if err != nil {
			return fmt.Errorf("%w: %v", ohm.ErrInputUnavailable, err)
		}
		message = string(data)
	}

	var cfg, codec, err = loadCfg()
	if err != nil {
		return err
	}
	mod, err := ohm.ParseModulation(*modName)
	if err != nil {
		return err
	}

	var opts = ohm.TransmitOptions{
		Codec:         codec,
		CWID:          *cwID,
		CWSpeedWPM:    *cwWPM,
		PinkNoiseMs:   *noiseMs,
		LeadSilenceMs: *leadMs,
		TailSilenceMs: *tailMs,
	}

	samples, err := ohm.Transmit(message, *callsign, mod, cfg, opts)
	if err != nil {
		return err
	}

	log.Debug("transmit", "modulation", mod, "codec", codec,
		"samples", len(samples), "seconds", float64(len(samples))/float64(cfg.SampleRate))

	return ohm.WriteWAV(*output, samples, cfg.SampleRate)
}

func runRx(args []string) error {
	var fs = pflag.NewFlagSet("rx", pflag.ExitOnError)
	var input = fs.String("input", "", "input WAV file (required)")
	var output = fs.String("output", "", "write decoded text here; stdout when omitted")
	var modName = fs.String("modulation", "auto", "modulation, or auto to try them all")
	var verbose = fs.BoolP("verbose", "v", false, "chatty logging")
	var loadCfg = commonFlags(fs)
	fs.Parse(args)

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	if *input == "" {
		return fmt.Errorf("%w: --input is required", ohm.ErrInvalidConfig)
	}

	var cfg, codec, err = loadCfg()
	if err != nil {
		return err
	}

	samples, rate, err := ohm.ReadWAV(*input)
	if err != nil {
		return err
	}
	if rate != cfg.SampleRate {
		log.Debug("resampling input", "from", rate, "to", cfg.SampleRate)
		samples = ohm.ResampleInput(samples, rate, cfg.SampleRate)
	}

	var opts = ohm.ReceiveOptions{Codec: codec}
	var text string

	if *modName == "auto" {
		var mod, decoded, found = ohm.AutoDetect(samples, cfg, opts)
		if !found {
			return ohm.ErrNoPayload
		}
		log.Debug("auto detected", "modulation", mod)
		text = decoded
	} else {
		mod, err := ohm.ParseModulation(*modName)
		if err != nil {
			return err
		}
		if text, err = ohm.Receive(samples, mod, cfg, opts); err != nil {
			return err
		}
	}

	// Byte exact output, no prefix, no trailing newline, so callers can
	// compare against the transmitted file directly.
	if *output == "" {
		fmt.Print(text)
		return nil
	}
	return os.WriteFile(*output, []byte(text), 0o644)
}

func runGenerate(args []string) error {
	var fs = pflag.NewFlagSet("generate", pflag.ExitOnError)
	var kind = fs.String("kind", "tone", "signal kind: tone, twotone, noise, message")
	var output = fs.String("output", "", "output WAV file (required)")
	var freq = fs.Float64("frequency", 1000, "tone frequency in Hz")
	var freq2 = fs.Float64("frequency2", 2000, "second tone frequency for twotone")
	var lengthMs = fs.Int("length-ms", 2000, "signal length in milliseconds")
	var modName = fs.String("modulation", "bpsk", "modulation for the message kind")
	var loadCfg = commonFlags(fs)
	fs.Parse(args)

	if *output == "" {
		return fmt.Errorf("%w: --output is required", ohm.ErrInvalidConfig)
	}

	var cfg, codec, err = loadCfg()
	if err != nil {
		return err
	}

	var samples []int16
	switch *kind {
	case "tone":
		samples = ohm.GenerateTone(*freq, *lengthMs, cfg)
	case "twotone":
		samples = ohm.GenerateTwoTone(*freq, *freq2, *lengthMs, cfg)
	case "noise":
		samples = ohm.GeneratePinkNoise(*lengthMs, cfg)
	case "message":
		var mod, err = ohm.ParseModulation(*modName)
		if err != nil {
			return err
		}
		samples, err = ohm.Transmit("CQ CQ CQ DE NOCALL NOCALL K", "NOCALL", mod, cfg,
			ohm.TransmitOptions{Codec: codec, LeadSilenceMs: 100, TailSilenceMs: 100})
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unknown signal kind %q", ohm.ErrInvalidConfig, *kind)
	}

	return ohm.WriteWAV(*output, samples, cfg.SampleRate)
}

func runInfo(args []string) error {
	fmt.Printf("mode:            %s\n", ohm.ModeID)
	fmt.Printf("version:         %s\n", ohm.Version)
	fmt.Printf("sync pattern:    % X\n", ohm.SyncPattern)
	fmt.Printf("modulations:     bpsk (1500 Hz carrier, 125 Bd)\n")
	fmt.Printf("                 fsk (1615/1385 Hz, 125 Bd)\n")
	fmt.Printf("                 afsk (bell202, bell103, vhf, hf profiles)\n")
	fmt.Printf("                 ofdm (64 subcarriers, cyclic prefix, pilot tones)\n")
	fmt.Printf("codecs:          huffman (default), ascii\n")

	if len(args) == 0 {
		return nil
	}

	var samples, rate, err = ohm.ReadWAV(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("\nfile:            %s\n", args[0])
	fmt.Printf("sample rate:     %d Hz\n", rate)
	fmt.Printf("samples:         %d (%.2f s)\n", len(samples), float64(len(samples))/float64(rate))
	fmt.Printf("dominant tone:   %.1f Hz\n", dominantTone(samples, rate))
	return nil
}

// dominantTone finds the strongest spectral peak in the first 8192 samples
// of the recording.
func dominantTone(samples []int16, rate int) float64 {
	const size = 8192
	var n = len(samples)
	if n > size {
		n = size
	}
	var buf = make([]float64, size)
	for i := 0; i < n; i++ {
		buf[i] = float64(samples[i])
	}

	var fft = fourier.NewFFT(size)
	var coeffs = fft.Coefficients(nil, buf)

	var bestBin int
	var bestMag float64
	for i := 1; i < len(coeffs); i++ {
		var m = math.Hypot(real(coeffs[i]), imag(coeffs[i]))
		if m > bestMag {
			bestMag = m
			bestBin = i
		}
	}
	return float64(bestBin) * float64(rate) / size
}

package main

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-sfx/audiofile"
	"github.com/cwbudde/algo-sfx/dsp/buffer"
	"github.com/cwbudde/algo-sfx/dsp/core"
	"github.com/cwbudde/algo-sfx/dsp/effectchain"
	"github.com/cwbudde/algo-sfx/dsp/master"
	"github.com/cwbudde/algo-sfx/dsp/spectrum"
	"github.com/cwbudde/algo-sfx/measure/validate"
	stats "github.com/cwbudde/algo-sfx/stats/time"
	"github.com/sirupsen/logrus"
)

func runRender(e *env, args []string) error {
	fs := subcommand(e, "render", "-recipe chain.json [-pcm bits] in out.wav")
	recipePath := fs.String("recipe", "", "JSON effect recipe (required)")
	pcm := fs.Int("pcm", 0, "write integer PCM with this bit depth instead of float")
	files, err := parseArgs(fs, args, 2)
	if err != nil {
		return err
	}
	if *recipePath == "" {
		fs.Usage()
		return errUsage
	}

	data, err := os.ReadFile(*recipePath)
	if err != nil {
		return err
	}
	recipe, err := effectchain.ParseRecipe(data)
	if err != nil {
		return err
	}
	chain, err := effectchain.New(recipe, nil)
	if err != nil {
		return err
	}

	in, err := load(e, files[0])
	if err != nil {
		return err
	}
	e.log.WithField("steps", chain.Effects()).Debug("chain compiled")

	out, err := chain.Process(in)
	if err != nil {
		return err
	}
	return save(e, files[1], out, *pcm)
}

func runMaster(e *env, args []string) error {
	fs := subcommand(e, "master", "[flags] in out.wav")
	ceiling := fs.Float64("ceiling", 0.98, "limiter ceiling and final peak, linear")
	drive := fs.Float64("drive", 6, "saturation drive in dB")
	order := fs.Int("order", 4, "Butterworth order of the band filters")
	zeroPhase := fs.Bool("zero-phase", false, "filter bands forward and backward")
	pcm := fs.Int("pcm", 0, "write integer PCM with this bit depth instead of float")
	files, err := parseArgs(fs, args, 2)
	if err != nil {
		return err
	}

	in, err := load(e, files[0])
	if err != nil {
		return err
	}

	out, err := master.Apply(in,
		master.WithCeiling(*ceiling),
		master.WithDrive(*drive),
		master.WithFilterOrder(*order),
		master.WithZeroPhase(*zeroPhase),
		master.WithLogger(e.log),
	)
	if err != nil {
		return err
	}
	return save(e, files[1], out, *pcm)
}

func runTrim(e *env, args []string) error {
	fs := subcommand(e, "trim", "[-top-db 40] in out.wav")
	topDB := fs.Float64("top-db", buffer.DefaultTrimTopDB, "level below the loudest frame treated as silence, dB")
	pcm := fs.Int("pcm", 0, "write integer PCM with this bit depth instead of float")
	files, err := parseArgs(fs, args, 2)
	if err != nil {
		return err
	}

	in, err := load(e, files[0])
	if err != nil {
		return err
	}
	out, err := buffer.TrimSilence(in, *topDB)
	if err != nil {
		return err
	}
	e.log.WithFields(logrus.Fields{
		"before": in.Frames(),
		"after":  out.Frames(),
	}).Info("trimmed")
	return save(e, files[1], out, *pcm)
}

func runValidate(e *env, args []string) error {
	def := validate.DefaultSpec()
	fs := subcommand(e, "validate", "[flags] file.wav")
	specPath := fs.String("spec", "", "JSON delivery target; flags below override it")
	sr := fs.Int("sr", def.SampleRate, "expected sample rate in Hz")
	duration := fs.Float64("duration", def.Duration, "expected duration in seconds")
	tolerance := fs.Float64("tolerance", def.Tolerance, "allowed duration deviation in seconds")
	peak := fs.Float64("peak", def.PeakCeilingDBFS, "peak ceiling in dBFS")
	channels := fs.Int("channels", def.Channels, "expected channel count")
	files, err := parseArgs(fs, args, 1)
	if err != nil {
		return err
	}

	spec := def
	if *specPath != "" {
		data, err := os.ReadFile(*specPath)
		if err != nil {
			return err
		}
		if spec, err = validate.ParseSpec(data); err != nil {
			return err
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "sr":
			spec.SampleRate = *sr
		case "duration":
			spec.Duration = *duration
		case "tolerance":
			spec.Tolerance = *tolerance
		case "peak":
			spec.PeakCeilingDBFS = *peak
		case "channels":
			spec.Channels = *channels
		}
	})

	err = validate.Validate(files[0], spec, validate.WithLogger(e.log))
	var failure *validate.FailureError
	if errors.As(err, &failure) {
		fmt.Fprintln(e.stdout, failure.Error())
		return err
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "%s: ok\n", files[0])
	return nil
}

func runInfo(e *env, args []string) error {
	fs := subcommand(e, "info", "file...")
	files, err := parseArgs(fs, args, -1)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fs.Usage()
		return errUsage
	}

	tw := tabwriter.NewWriter(e.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "File\tRate\tCh\tFrames\tSeconds\tPeak dBFS\tRMS dBFS\tBand dBFS\tCrest\tClipped")
	for _, path := range files {
		a, err := audiofile.Load(path)
		if err != nil {
			return err
		}
		lv := stats.Measure(a)
		band, err := audibleEnergy(a)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%.0f\t%d\t%d\t%.3f\t%.2f\t%.2f\t%.2f\t%.2f\t%d\n",
			path, a.SampleRate(), a.Channels(), a.Frames(), a.Duration(),
			lv.PeakDBFS, lv.RMSDBFS, core.LinearToDB(math.Sqrt(band)), lv.CrestFactor, lv.ClippedSamples)
	}
	return tw.Flush()
}

// audibleEnergy returns the mean-square energy of the mono mix between
// 20 Hz and 20 kHz, or Nyquist when that is lower.
func audibleEnergy(a *buffer.Audio) (float64, error) {
	sr := a.SampleRate()
	return spectrum.BandEnergy(a.Mono().Channel(0), sr, 20, math.Min(20000, sr/2))
}

func runEffects(e *env, args []string) error {
	fs := subcommand(e, "effects", "")
	if _, err := parseArgs(fs, args, 0); err != nil {
		return err
	}
	for _, name := range effectchain.DefaultRegistry().Names() {
		fmt.Fprintln(e.stdout, name)
	}
	return nil
}

func load(e *env, path string) (*buffer.Audio, error) {
	a, err := audiofile.Load(path)
	if err != nil {
		return nil, err
	}
	e.log.WithFields(logrus.Fields{
		"path":     path,
		"rate":     a.SampleRate(),
		"channels": a.Channels(),
		"frames":   a.Frames(),
	}).Debug("loaded")
	return a, nil
}

func save(e *env, path string, a *buffer.Audio, pcmBits int) error {
	var err error
	if pcmBits > 0 {
		err = audiofile.SavePCM(path, a, pcmBits)
	} else {
		err = audiofile.SaveWAV(path, a)
	}
	if err != nil {
		return err
	}
	e.log.WithFields(logrus.Fields{
		"path":    path,
		"frames":  a.Frames(),
		"peak_db": stats.Measure(a).PeakDBFS,
	}).Info("written")
	return nil
}

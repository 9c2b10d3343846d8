// Command sfxtool renders, masters, trims and validates sound effect files.
//
// Usage:
//
//	sfxtool [-v] <command> [flags] args...
//
// Commands:
//
//	render   -recipe chain.json in.wav out.wav   run a named-effect chain
//	master   [-ceiling 0.98] in.wav out.wav      run the mastering chain
//	trim     [-top-db 40] in.wav out.wav         strip leading/trailing silence
//	validate [-sr -duration -tolerance -peak] file.wav
//	info     file...                             print format and levels
//	effects                                      list registered effect names
//
// Inputs may be WAV, FLAC or MP3. Outputs are 32-bit float WAV unless -pcm
// selects an integer bit depth.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// errUsage marks command-line mistakes; run prints usage and exits 2.
var errUsage = errors.New("usage")

type command struct {
	name    string
	summary string
	run     func(env *env, args []string) error
}

type env struct {
	log    logrus.FieldLogger
	stdout io.Writer
	stderr io.Writer
}

var commands = []command{
	{"render", "run a JSON effect recipe over a file", runRender},
	{"master", "run the mastering chain", runMaster},
	{"trim", "remove leading and trailing silence", runTrim},
	{"validate", "check a WAV file against a delivery target", runValidate},
	{"info", "print format and levels of files", runInfo},
	{"effects", "list effect names usable in recipes", runEffects},
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("sfxtool", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "enable debug logging")
	fs.Usage = func() { usage(stderr) }
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := newLogger(stderr, *verbose)

	rest := fs.Args()
	if len(rest) == 0 {
		usage(stderr)
		return 2
	}

	for _, c := range commands {
		if c.name != rest[0] {
			continue
		}
		e := &env{log: logger.WithField("cmd", c.name), stdout: stdout, stderr: stderr}
		err := c.run(e, rest[1:])
		switch {
		case err == nil:
			return 0
		case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
			return 2
		default:
			e.log.WithError(err).Error("command failed")
			return 1
		}
	}

	fmt.Fprintf(stderr, "error: unknown command %q\n\n", rest[0])
	usage(stderr)
	return 2
}

func newLogger(w io.Writer, verbose bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetLevel(logrus.InfoLevel)
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: sfxtool [-v] <command> [flags] args...\n\n")
	fmt.Fprintf(w, "Commands:\n")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-9s %s\n", c.name, c.summary)
	}
	fmt.Fprintf(w, "\nRun 'sfxtool <command> -h' for command flags.\n")
}

// subcommand returns a flag set that reports errors to e.stderr and shows
// synopsis in its usage line.
func subcommand(e *env, name, synopsis string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	fs.Usage = func() {
		fmt.Fprintf(e.stderr, "Usage: sfxtool %s %s\n\nFlags:\n", name, synopsis)
		fs.PrintDefaults()
	}
	return fs
}

func parseArgs(fs *flag.FlagSet, args []string, want int) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if want >= 0 && fs.NArg() != want {
		fs.Usage()
		return nil, errUsage
	}
	return fs.Args(), nil
}

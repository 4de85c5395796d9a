package main

import (
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// engineFlags holds diagram rendering flags. Zero values defer to the
// config file, then to library defaults.
type engineFlags struct {
	language     string
	theme        string
	timeout      string
	width        int
	height       int
	browserBin   string
	engineScript string
	engineURL    string
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common     commonFlags
	engine     engineFlags
	output     string
	workers    int
	standalone bool
	style      string
	noStyle    bool
}

// diagnoseFlags holds all flags for the diagnose command.
type diagnoseFlags struct {
	common commonFlags
	engine engineFlags
	output string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
}

// addEngineFlags adds rendering flags to a FlagSet.
func addEngineFlags(fs *flag.FlagSet, f *engineFlags) {
	fs.StringVarP(&f.language, "language", "l", "", "fence tag to render (default \"mermaid\")")
	fs.StringVar(&f.theme, "theme", "", "engine theme: default, dark, forest, neutral")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-diagram timeout (e.g., 30s, 2m)")
	fs.IntVar(&f.width, "width", 0, "viewport width in pixels")
	fs.IntVar(&f.height, "height", 0, "viewport height in pixels")
	fs.StringVar(&f.browserBin, "browser-bin", "", "Chrome/Chromium binary")
	fs.StringVar(&f.engineScript, "engine-script", "", "local mermaid bundle")
	fs.StringVar(&f.engineURL, "engine-url", "", "mermaid bundle URL")
}

// newRenderFlagSet builds the render FlagSet bound to f.
func newRenderFlagSet(f *renderFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVarP(&f.standalone, "standalone", "s", false, "write full HTML documents")
	fs.StringVar(&f.style, "style", "", "CSS style name or file path (standalone only)")
	fs.BoolVar(&f.noStyle, "no-style", false, "disable CSS styling")

	addCommonFlags(fs, &f.common)
	addEngineFlags(fs, &f.engine)
	return fs
}

// newDiagnoseFlagSet builds the diagnose FlagSet bound to f.
func newDiagnoseFlagSet(f *diagnoseFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("diagnose", flag.ContinueOnError)

	fs.StringVarP(&f.output, "output", "o", ".", "directory for result.html and result.svg")

	addCommonFlags(fs, &f.common)
	addEngineFlags(fs, &f.engine)
	return fs
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string, env *Environment) (*renderFlags, []string, error) {
	f := &renderFlags{}
	fs := newRenderFlagSet(f)
	fs.SetOutput(env.Stderr)
	fs.Usage = func() { printRenderUsage(env.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, wrapParseError(err)
	}
	return f, fs.Args(), nil
}

// parseDiagnoseFlags parses diagnose command flags.
func parseDiagnoseFlags(args []string, env *Environment) (*diagnoseFlags, []string, error) {
	f := &diagnoseFlags{}
	fs := newDiagnoseFlagSet(f)
	fs.SetOutput(env.Stderr)
	fs.Usage = func() { printDiagnoseUsage(env.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, wrapParseError(err)
	}
	return f, fs.Args(), nil
}

// wrapParseError marks flag errors as usage errors. ErrHelp passes through.
func wrapParseError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrInvalidFlag, err)
}

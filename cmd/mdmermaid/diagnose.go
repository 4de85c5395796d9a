package main

import (
	"context"
	"fmt"
)

// runDiagnose renders the built-in sample diagram and writes result.html and
// result.svg, checking the browser and engine setup end to end.
func runDiagnose(ctx context.Context, args []string, env *Environment) error {
	flags, rest, err := parseDiagnoseFlags(args, env)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("%w: diagnose takes no arguments, got %q", ErrUnexpectedArgs, rest)
	}

	cfg, err := resolveConfig(&flags.common, &flags.engine, loadEnvConfig(env.Getenv))
	if err != nil {
		return err
	}

	logger := newLogger(env.Stderr, flags.common.verbose, flags.common.quiet)
	warnUnknownEnvVars(env.Environ(), logger)

	renderer, err := newRenderer(cfg, logger)
	if err != nil {
		return err
	}

	p := newProgress(logger, env.Now)
	res, err := renderer.Diagnose(ctx, flags.output)
	if err != nil {
		return withHint(err, cfg)
	}
	p.done("sample rendered")

	if res.Result.Failed() {
		logger.Warn("engine reported an error", "error", res.Result.Err)
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", res.HTMLPath)
		fmt.Fprintf(env.Stdout, "Created %s\n", res.SVGPath)
	}
	if res.Result.Failed() {
		return fmt.Errorf("%w: %s", ErrEngineFailed, res.Result.Err)
	}
	return nil
}

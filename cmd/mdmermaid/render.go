package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	mdmermaid "github.com/alnah/go-mdmermaid"
	"github.com/alnah/go-mdmermaid/internal/config"
	"github.com/alnah/go-mdmermaid/internal/fileutil"
	"github.com/alnah/go-mdmermaid/internal/hints"
	"github.com/alnah/go-mdmermaid/internal/pipeline"
)

// Sentinel errors for render operations.
var (
	ErrReadMarkdown = errors.New("failed to read markdown file")
	ErrWriteHTML    = errors.New("failed to write HTML file")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// MarkdownConverter is the interface for the rendering service.
type MarkdownConverter interface {
	ConvertMarkdown(ctx context.Context, markdown []byte) (*mdmermaid.ConvertResult, error)
}

// Compile-time interface implementation check.
var _ MarkdownConverter = (*mdmermaid.Renderer)(nil)

// renderParams groups parameters shared across the batch.
type renderParams struct {
	standalone bool
	css        string
}

// RenderResult holds the outcome of a single file.
type RenderResult struct {
	InputPath  string
	OutputPath string
	Diagrams   int
	Err        error
	Duration   time.Duration
}

// runRender orchestrates the render command.
func runRender(ctx context.Context, args []string, env *Environment) error {
	flags, inputs, err := parseRenderFlags(args, env)
	if err != nil {
		return err
	}

	// Validate worker count early
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	envCfg := loadEnvConfig(env.Getenv)
	cfg, err := resolveConfig(&flags.common, &flags.engine, envCfg)
	if err != nil {
		return err
	}
	if flags.workers == 0 {
		flags.workers = min(envCfg.Workers, MaxWorkers)
	}

	params := &renderParams{standalone: flags.standalone || cfg.Output.Standalone}
	if params.standalone {
		params.css, err = resolveCSSContent(flags.style, flags.noStyle, cfg)
		if err != nil {
			return err
		}
	}

	logger := newLogger(env.Stderr, flags.common.verbose, flags.common.quiet)
	warnUnknownEnvVars(env.Environ(), logger)

	renderer, err := newRenderer(cfg, logger)
	if err != nil {
		return err
	}

	outputDir := flags.output
	if outputDir == "" {
		outputDir = cfg.Output.Dir
	}

	files, err := discoverFiles(inputs, outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no markdown files found in %s", ErrNoInput, strings.Join(inputs, ", "))
	}

	workers := resolveWorkers(flags.workers, len(files))
	logger.Debug("rendering", "files", len(files), "workers", workers)

	p := newProgress(logger, env.Now)
	results := renderBatch(ctx, renderer, files, params, workers)

	failed := printResults(results, flags.common, cfg, env, logger)
	if failed == 0 {
		if len(results) > 1 {
			p.done("batch complete", "files", len(results))
		}
		return nil
	}

	// A single file keeps its own error so the exit code stays specific
	if len(results) == 1 {
		return withHint(results[0].Err, cfg)
	}
	return fmt.Errorf("%d of %d file(s) failed", failed, len(results))
}

// renderBatch processes files concurrently with a fixed number of workers.
// Workers share the converter; each file launches its own browser.
func renderBatch(ctx context.Context, conv MarkdownConverter, files []FileToRender, params *renderParams, workers int) []RenderResult {
	if len(files) == 0 {
		return nil
	}

	workers = max(1, min(workers, len(files)))

	results := make([]RenderResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = RenderResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = renderFile(ctx, conv, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// renderFile processes a single file and returns the result.
func renderFile(ctx context.Context, conv MarkdownConverter, f FileToRender, params *renderParams) RenderResult {
	start := time.Now()
	result := RenderResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrReadMarkdown, err)
		result.Duration = time.Since(start)
		return result
	}

	converted, err := conv.ConvertMarkdown(ctx, content)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}
	if converted.Report != nil {
		result.Diagrams = converted.Report.Rendered
	}

	output := string(converted.HTML)
	if params.standalone {
		title := converted.Title
		if title == "" {
			title = fileutil.ReplaceExt(filepath.Base(f.InputPath), "")
		}
		output = pipeline.WrapDocument(output, title, params.css)
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		result.Err = fmt.Errorf("%w: creating output directory: %v%s", ErrWriteHTML, err, hints.ForOutputDirectory())
		result.Duration = time.Since(start)
		return result
	}

	// #nosec G306 -- HTML files are meant to be readable
	if err := os.WriteFile(f.OutputPath, []byte(output), filePermissions); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrWriteHTML, err)
		result.Duration = time.Since(start)
		return result
	}

	result.Duration = time.Since(start)
	return result
}

// ResultSummary holds the count of succeeded and failed files.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed files.
func countResults(results []RenderResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults reports each file and returns the number of failures.
// Failures are logged; successes go to stdout unless quiet.
func printResults(results []RenderResult, common commonFlags, cfg *config.Config, env *Environment, logger *log.Logger) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			if len(results) > 1 {
				logger.Error("render failed", "file", r.InputPath, "err", withHint(r.Err, cfg))
			}
			continue
		}

		if common.quiet {
			continue
		}

		if common.verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%d diagrams, %v)\n",
				r.InputPath, r.OutputPath, r.Diagrams, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !common.quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}

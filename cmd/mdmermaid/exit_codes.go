package main

import (
	"context"
	"errors"
	"os"

	mdmermaid "github.com/alnah/go-mdmermaid"
	"github.com/alnah/go-mdmermaid/internal/assets"
	"github.com/alnah/go-mdmermaid/internal/config"
)

// Exit codes for mdmermaid CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful render
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome or engine errors
)

// Sentinel errors for command dispatch.
var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalidFlag    = errors.New("invalid flag")
	ErrUnexpectedArgs = errors.New("unexpected arguments")
	ErrEngineFailed   = errors.New("engine could not render the sample diagram")
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, mdmermaid.ErrBrowserConnect) ||
		errors.Is(err, mdmermaid.ErrPageCreate) ||
		errors.Is(err, mdmermaid.ErrPageLoad) ||
		errors.Is(err, mdmermaid.ErrScriptInject) ||
		errors.Is(err, mdmermaid.ErrRenderEval) ||
		errors.Is(err, mdmermaid.ErrEngineScript) ||
		errors.Is(err, ErrEngineFailed) ||
		errors.Is(err, context.DeadlineExceeded) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrWriteHTML) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, mdmermaid.ErrWriteOutput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrInvalidFlag) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrUnexpectedArgs) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidField) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, mdmermaid.ErrEmptyMarkdown) ||
		errors.Is(err, mdmermaid.ErrInvalidLanguage) ||
		errors.Is(err, mdmermaid.ErrInvalidViewport) ||
		errors.Is(err, mdmermaid.ErrInvalidTimeout) {
		return ExitUsage
	}

	return ExitGeneral
}

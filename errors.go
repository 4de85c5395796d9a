package mdmermaid

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown  = errors.New("markdown content cannot be empty")
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrEngineScript   = errors.New("failed to load engine script")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrScriptInject   = errors.New("failed to inject engine script")
	ErrRenderEval     = errors.New("diagram evaluation failed")
	ErrSessionClosed  = errors.New("render session is closed")
	ErrWriteOutput    = errors.New("failed to write output file")

	// Configuration validation errors.
	ErrInvalidLanguage = errors.New("invalid language tag")
	ErrInvalidViewport = errors.New("invalid viewport")
	ErrInvalidTimeout  = errors.New("invalid timeout")
)

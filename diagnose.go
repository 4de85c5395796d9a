package mdmermaid

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alnah/go-mdmermaid/internal/pipeline"
)

// Diagnostic output file names, written into the directory given to Diagnose.
const (
	DiagnoseHTMLFile = "result.html"
	DiagnoseSVGFile  = "result.svg"
)

// diagnoseDefinition is the sample flowchart rendered by Diagnose.
const diagnoseDefinition = `
graph TD
  A[Christmas] -->|Get money| B(Go shopping)
  B --> C{Let me think}
  C -->|One| D[Laptop]
  C -->|Two| E[iPhone]
  C -->|Three| F[fa:fa-car Car]
`

// diagnoseAnnotation supplies the sample image attributes.
const diagnoseAnnotation = "mermaid:width=small&height=large"

// diagnoseViewport is large enough that the sample is never clipped.
var diagnoseViewport = Viewport{Width: 2000, Height: 2000}

// DiagnoseResult describes what Diagnose produced.
type DiagnoseResult struct {
	HTMLPath string
	SVGPath  string
	Result   RenderResult
}

// Diagnose renders a fixed sample diagram end to end and writes the image
// tag to result.html and the raw markup to result.svg inside outDir.
// It checks that a browser can be launched and the engine loaded.
//
// An engine error in the sample is not reported as a Go error; the files hold
// the error text and Result.Failed() is true.
func (r *Renderer) Diagnose(ctx context.Context, outDir string) (res *DiagnoseResult, err error) {
	if outDir == "" {
		outDir = "."
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sess, err := r.backend.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening render session: %w", err)
	}
	defer func() {
		if closeErr := sess.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing render session: %w", closeErr)
		}
	}()

	cfg := r.renderConfig()
	cfg.Viewport = diagnoseViewport

	result, err := sess.Render(ctx, diagnoseDefinition, cfg)
	if err != nil {
		return nil, fmt.Errorf("rendering sample diagram: %w", err)
	}

	opts, _ := pipeline.ParseAnnotation(diagnoseAnnotation, DefaultLanguage)
	res = &DiagnoseResult{
		HTMLPath: filepath.Join(outDir, DiagnoseHTMLFile),
		SVGPath:  filepath.Join(outDir, DiagnoseSVGFile),
		Result:   result,
	}

	if err := writeOutput(res.HTMLPath, pipeline.ImageTag(result.Payload(), opts)); err != nil {
		return nil, err
	}
	if err := writeOutput(res.SVGPath, result.Payload()); err != nil {
		return nil, err
	}

	r.logger.Debug("diagnostic written", "html", res.HTMLPath, "svg", res.SVGPath, "failed", result.Failed())
	return res, nil
}

// writeOutput writes content to path, wrapping failures in ErrWriteOutput.
func writeOutput(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil { // #nosec G306 -- output is meant to be shared
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// Package pipeline implements the document-side stages of diagram rendering.
//
// These stages never touch a browser:
//   - Annotation parsing (language tag plus key=value options)
//   - Fenced code block selection in a Goldmark AST
//   - Image tag encoding (base64 SVG data URI plus option attributes)
//   - Goldmark setup for the surrounding Markdown (GFM, footnotes, chroma)
//   - Standalone HTML document wrapping with optional CSS
//
// Rendering itself is handled by the root mdmermaid package using headless
// Chrome (go-rod). The root package also owns node substitution, because it
// decides which blocks rendered successfully.
package pipeline

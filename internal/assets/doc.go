// Package assets embeds the static files used while rendering diagrams.
//
// Two kinds of assets are shipped:
//
//	harness/harness.html   # page loaded in headless Chrome before the engine script
//	styles/{name}.css      # stylesheets for standalone HTML output
//
// The harness exposes a single #container element. The rendering script
// replaces its content for every diagram, so one harness serves every page.
//
// Style names are validated to prevent path traversal.
package assets

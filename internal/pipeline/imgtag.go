package pipeline

import (
	"encoding/base64"
	"html"
	"sort"
	"strings"
)

// Image tag constants.
const (
	// ImageClass marks rendered diagrams so stylesheets can target them.
	ImageClass = "mermaid"

	svgDataURIPrefix = "data:image/svg+xml;base64,"
	dataAttrPrefix   = "data-"
)

// ImageTag builds a self-contained <img> element embedding markup as a
// base64 SVG data URI. Each option becomes two attributes, the literal key
// and its "data-" twin, both carrying the value.
//
// Keys are emitted in sorted order. Values are attribute-escaped; keys that
// are not valid attribute names are dropped. A "class" option is appended to
// ImageClass in the single class attribute, and a "src" option is kept only
// as data-src, since the element's own class and src come first and HTML
// parsers ignore repeated attributes.
func ImageTag(markup string, opts Options) string {
	keys := make([]string, 0, len(opts))
	class := ImageClass
	for k := range opts {
		if !isValidAttrName(k) {
			continue
		}
		keys = append(keys, k)
		if strings.EqualFold(k, "class") {
			if extra := strings.TrimSpace(opts[k]); extra != "" {
				class += " " + extra
			}
		}
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(`<img class="`)
	sb.WriteString(html.EscapeString(class))
	sb.WriteString(`" src="`)
	sb.WriteString(DataURI(markup))
	sb.WriteString(`"`)

	for _, k := range keys {
		v := html.EscapeString(opts[k])
		if !isReservedAttr(k) {
			sb.WriteString(" ")
			sb.WriteString(k)
			sb.WriteString(`="`)
			sb.WriteString(v)
			sb.WriteString(`"`)
		}
		sb.WriteString(" ")
		sb.WriteString(dataAttrPrefix)
		sb.WriteString(k)
		sb.WriteString(`="`)
		sb.WriteString(v)
		sb.WriteString(`"`)
	}

	sb.WriteString(" />")
	return sb.String()
}

// isReservedAttr reports whether name is one of the attributes ImageTag
// writes itself. Attribute names are case-insensitive in HTML.
func isReservedAttr(name string) bool {
	return strings.EqualFold(name, "class") || strings.EqualFold(name, "src")
}

// DataURI encodes markup as an SVG data URI.
func DataURI(markup string) string {
	return svgDataURIPrefix + base64.StdEncoding.EncodeToString([]byte(markup))
}

// DecodeDataURI reverses DataURI. Returns false if uri is not an SVG data URI
// or its payload is not valid base64.
func DecodeDataURI(uri string) (string, bool) {
	payload, ok := strings.CutPrefix(uri, svgDataURIPrefix)
	if !ok {
		return "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", false
	}
	return string(decoded), true
}

// isValidAttrName rejects names that would break out of the attribute list.
// Follows the HTML attribute-name production: no controls, whitespace,
// quotes, '>', '/', '=' or '<'.
func isValidAttrName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r <= 0x20, r == 0x7f:
			return false
		case strings.ContainsRune("\"'<>/=", r):
			return false
		}
	}
	return true
}

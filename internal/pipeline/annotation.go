package pipeline

import "strings"

// Annotation delimiters.
const (
	optionsSeparator = ":"
	clauseSeparator  = "&"
	valueSeparator   = "="
)

// Options holds per-block rendering options parsed from the annotation.
// Keys and values keep their original case.
type Options map[string]string

// ParseAnnotation reports whether a code block annotated with annotation
// should be rendered as an expected-language diagram, and returns its options.
//
// The grammar is "<lang>[:<key>=<value>[&<key>=<value>...]]". The language
// comparison is case-insensitive. A selected block always gets a non-nil
// Options, empty when no options segment is present.
//
// Clauses without "=" yield the key with an empty value. Empty clauses and
// clauses with an empty key are skipped. Later duplicates win.
func ParseAnnotation(annotation, expected string) (Options, bool) {
	if annotation == "" {
		return nil, false
	}

	language, rest, hasOptions := strings.Cut(annotation, optionsSeparator)
	if strings.ToLower(strings.TrimSpace(language)) != strings.ToLower(strings.TrimSpace(expected)) {
		return nil, false
	}

	opts := Options{}
	if !hasOptions {
		return opts, true
	}

	for _, clause := range strings.Split(rest, clauseSeparator) {
		key, value, _ := strings.Cut(clause, valueSeparator)
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		opts[key] = strings.TrimSpace(value)
	}
	return opts, true
}

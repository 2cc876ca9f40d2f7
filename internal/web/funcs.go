package web

import (
	"errors"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"github.com/folio-cms/folio/internal/content"
)

var emphasisPattern = regexp.MustCompile(`\*([^*\n]+)\*`)

// dict builds the argument map of a nested template call from key value pairs.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, errors.New("dict needs key value pairs")
	}

	out := make(map[string]any, len(pairs)/2)

	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict key %v is not a string", pairs[i])
		}

		out[key] = pairs[i+1]
	}

	return out, nil
}

// field returns m[key] when m is a mapping, nil otherwise.
func field(m any, key string) any {
	if doc, ok := m.(map[string]any); ok {
		return doc[key]
	}

	if doc, ok := m.(content.Document); ok {
		return doc[key]
	}

	return nil
}

// list returns v when it is an array, nil otherwise.
func list(v any) []any {
	arr, _ := v.([]any)

	return arr
}

// text formats a payload value for display. Missing values are empty.
func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// emphasis renders content text: *word* becomes <em>word</em> and line breaks become <br>.
// Everything else is escaped.
func emphasis(v any) template.HTML {
	escaped := template.HTMLEscapeString(text(v))
	escaped = emphasisPattern.ReplaceAllString(escaped, "<em>$1</em>")
	escaped = strings.ReplaceAll(escaped, "\n", "<br>")

	return template.HTML(escaped) //nolint:gosec // input is escaped above
}

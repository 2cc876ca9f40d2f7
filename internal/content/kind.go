package content

import (
	"strings"
	"unicode/utf8"
)

// Kind is the edit widget category of a payload value.
type Kind int

const (
	// KindUnsupported values are carried through but get no widget.
	KindUnsupported Kind = iota
	// KindImage is a string holding an image reference.
	KindImage
	// KindLongText is a string edited in a textarea.
	KindLongText
	// KindShortText is a string edited in a single line input.
	KindShortText
	// KindScalarList is an array of primitive values.
	KindScalarList
	// KindObjectList is an array of mappings.
	KindObjectList
	// KindNested is a mapping.
	KindNested
)

const (
	// longTextThreshold is the character count above which a string becomes long text.
	longTextThreshold = 50

	imageKeyMarker = "image"
)

// imageKeys are field names always treated as image references.
var imageKeys = map[string]struct{}{
	"src":   {},
	"photo": {},
	"logo":  {},
	"url":   {},
}

var kindNames = map[Kind]string{
	KindUnsupported: "unsupported",
	KindImage:       "image",
	KindLongText:    "long-text",
	KindShortText:   "short-text",
	KindScalarList:  "scalar-list",
	KindObjectList:  "object-list",
	KindNested:      "nested-object",
}

// String returns the kind name used in forms and templates.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return kindNames[KindUnsupported]
}

// ParseKind maps a form value back to a Kind.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}

	return KindUnsupported, false
}

// Editable reports whether the kind gets a widget.
func (k Kind) Editable() bool {
	return k != KindUnsupported
}

// Classify returns the widget category for value stored under key.
func Classify(key string, value any) Kind {
	switch v := value.(type) {
	case string:
		return ClassifyText(key, v)
	case []any:
		return classifyArray(v)
	case map[string]any:
		return KindNested
	default: // json.Number, bool, nil
		return KindUnsupported
	}
}

// ClassifyText applies the string rules only.
func ClassifyText(key, value string) Kind {
	switch {
	case IsImageKey(key):
		return KindImage
	case utf8.RuneCountInString(value) > longTextThreshold || strings.Contains(value, "\n"):
		return KindLongText
	default:
		return KindShortText
	}
}

// IsImageKey reports whether key names an image reference.
func IsImageKey(key string) bool {
	if _, ok := imageKeys[key]; ok {
		return true
	}

	return strings.Contains(key, imageKeyMarker)
}

// classifyArray looks at the first element only; arrays are homogeneous in practice.
func classifyArray(v []any) Kind {
	if len(v) == 0 {
		return KindScalarList
	}

	switch v[0].(type) {
	case map[string]any:
		return KindObjectList
	case []any:
		return KindUnsupported
	default:
		return KindScalarList
	}
}

package dashboard

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/folio-cms/folio/internal/apperror"
	"github.com/folio-cms/folio/internal/content"
)

// Form name prefixes of the editor inputs. Parts are joined with sep and
// keys are query escaped, so payload keys may contain any character.
const (
	sep = "|"

	prefixField     = "f"
	prefixItem      = "i"
	prefixItemField = "r"
	prefixNested    = "n"
	prefixNewNested = "nn"
	prefixFile      = "file"

	formOp      = "op"
	formUpload  = "upload"
	formNewName = "new_name"
	formNewKind = "new_kind"
)

// ErrBadTarget is returned for form names or op values the editor did not produce.
var ErrBadTarget = apperror.Validation("unknown editor target")

// FieldName builds an input name from a prefix and its parts. Strings are
// escaped, ints written in decimal.
func FieldName(prefix string, parts ...any) string {
	var b strings.Builder

	b.WriteString(prefix)

	for _, p := range parts {
		b.WriteString(sep)

		switch v := p.(type) {
		case int:
			b.WriteString(strconv.Itoa(v))
		case string:
			b.WriteString(url.QueryEscape(v))
		default:
			b.WriteString(url.QueryEscape(toString(v)))
		}
	}

	return b.String()
}

// FileFieldName is the name of the file input belonging to the image input target.
func FileFieldName(target string) string {
	return prefixFile + sep + target
}

func toString(v any) string {
	if s, ok := v.(interface{ String() string }); ok {
		return s.String()
	}

	return ""
}

// target is a decoded input name.
type target struct {
	prefix string
	key    string
	index  int
	subKey string
}

func parseTarget(name string) (target, error) {
	parts := strings.Split(name, sep)

	unescape := func(i int) (string, error) {
		return url.QueryUnescape(parts[i])
	}

	var (
		t   = target{prefix: parts[0]}
		err error
	)

	switch {
	case (t.prefix == prefixField || t.prefix == prefixNewNested) && len(parts) == 2:
		t.key, err = unescape(1)
	case t.prefix == prefixItem && len(parts) == 3:
		if t.key, err = unescape(1); err == nil {
			t.index, err = strconv.Atoi(parts[2])
		}
	case t.prefix == prefixItemField && len(parts) == 4:
		if t.key, err = unescape(1); err == nil {
			if t.index, err = strconv.Atoi(parts[2]); err == nil {
				t.subKey, err = unescape(3)
			}
		}
	case t.prefix == prefixNested && len(parts) == 3:
		if t.key, err = unescape(1); err == nil {
			t.subKey, err = unescape(2)
		}
	default:
		return target{}, ErrBadTarget
	}

	if err != nil || t.key == "" {
		return target{}, ErrBadTarget
	}

	return t, nil
}

// setOp returns the op writing value to t.
func (t target) setOp(value any) (content.Op, error) {
	switch t.prefix {
	case prefixField:
		return content.Op{Type: content.OpSetField, Key: t.key, Value: value}, nil
	case prefixItem:
		return content.Op{Type: content.OpSetItem, Key: t.key, Index: t.index, Value: value}, nil
	case prefixItemField:
		return content.Op{Type: content.OpSetItemField, Key: t.key, Index: t.index, SubKey: t.subKey, Value: value}, nil
	case prefixNested:
		return content.Op{Type: content.OpSetNested, Key: t.key, SubKey: t.subKey, Value: value}, nil
	default:
		return content.Op{}, ErrBadTarget
	}
}

// currentText returns the string the target currently points at.
func (t target) currentText(sec content.Section) (string, bool) {
	v, ok := sec.Payload[t.key]
	if !ok {
		return "", false
	}

	switch t.prefix {
	case prefixItem, prefixItemField:
		arr, ok := v.([]any)
		if !ok || t.index < 0 || t.index >= len(arr) {
			return "", false
		}

		v = arr[t.index]
		if t.prefix == prefixItem {
			break
		}

		m, ok := v.(map[string]any)
		if !ok {
			return "", false
		}

		v = m[t.subKey]
	case prefixNested:
		m, ok := v.(map[string]any)
		if !ok {
			return "", false
		}

		v = m[t.subKey]
	}

	s, ok := v.(string)

	return s, ok
}

// valueOps turns the posted text inputs into set ops, skipping unchanged values.
func valueOps(sec content.Section, form map[string][]string) ([]content.Op, error) {
	names := make([]string, 0, len(form))

	for name := range form {
		switch strings.SplitN(name, sep, 2)[0] {
		case prefixField, prefixItem, prefixItemField, prefixNested:
			names = append(names, name)
		}
	}

	sort.Strings(names)

	ops := make([]content.Op, 0, len(names))

	for _, name := range names {
		t, err := parseTarget(name)
		if err != nil {
			return nil, err
		}

		value := normalizeNewlines(first(form[name]))
		if cur, ok := t.currentText(sec); ok && cur == value {
			continue
		}

		op, err := t.setOp(value)
		if err != nil {
			return nil, err
		}

		ops = append(ops, op)
	}

	return ops, nil
}

// structuralOp decodes the op button value, e.g. "append_item|gallery".
func structuralOp(form map[string][]string) (content.Op, bool, error) {
	raw := first(form[formOp])
	if raw == "" {
		return content.Op{}, false, nil
	}

	parts := strings.Split(raw, sep)
	op := content.Op{Type: content.OpType(parts[0])}

	arg := func(i int) string {
		if i >= len(parts) {
			return ""
		}

		s, err := url.QueryUnescape(parts[i])
		if err != nil {
			return ""
		}

		return s
	}

	switch op.Type {
	case content.OpAddField:
		kind, ok := content.ParseKind(first(form[formNewKind]))
		if !ok || !kind.Editable() {
			return content.Op{}, true, content.ErrUnknownKind
		}

		op.Key = first(form[formNewName])
		op.Kind = kind
	case content.OpRemoveField, content.OpAppendItem:
		op.Key = arg(1)
	case content.OpRemoveItem:
		op.Key = arg(1)

		idx, err := strconv.Atoi(arg(2))
		if err != nil {
			return content.Op{}, true, ErrBadTarget
		}

		op.Index = idx
	case content.OpAddNested:
		op.Key = arg(1)
		op.SubKey = first(form[FieldName(prefixNewNested, op.Key)])
	case content.OpRemoveNested:
		op.Key = arg(1)
		op.SubKey = arg(2)
	default:
		return content.Op{}, true, content.ErrUnknownOp
	}

	if op.Key == "" && op.Type != content.OpAddField {
		return content.Op{}, true, ErrBadTarget
	}

	return op, true, nil
}

func first(v []string) string {
	if len(v) == 0 {
		return ""
	}

	return v[0]
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

package content

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeFieldName lower-cases name and replaces whitespace runs with "_".
func NormalizeFieldName(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_")
}

// InitialValue returns the empty value for a new field of kind.
func InitialValue(kind Kind) (any, error) {
	switch kind {
	case KindShortText, KindLongText, KindImage:
		return "", nil
	case KindScalarList, KindObjectList:
		return []any{}, nil
	case KindNested:
		return map[string]any{}, nil
	default:
		return nil, ErrUnknownKind
	}
}

// SetField replaces or creates payload[key].
func SetField(sec Section, key string, value any) Section {
	out := sec.Clone()
	out.Payload[key] = CloneValue(value)

	return out
}

// AddField creates a field from a raw name. An existing key is overwritten.
func AddField(sec Section, rawName string, kind Kind) (Section, error) {
	key := NormalizeFieldName(rawName)
	if key == "" {
		return sec, ErrEmptyFieldName
	}

	value, err := InitialValue(kind)
	if err != nil {
		return sec, err
	}

	return SetField(sec, key, value), nil
}

// RemoveField deletes payload[key].
func RemoveField(sec Section, key string) Section {
	out := sec.Clone()
	delete(out.Payload, key)

	return out
}

// SetArrayItem replaces the element at index of the array at key.
func SetArrayItem(sec Section, key string, index int, value any) (Section, error) {
	out := sec.Clone()

	arr, err := arrayAt(out.Payload, key)
	if err != nil {
		return sec, err
	}

	if index < 0 || index >= len(arr) {
		return sec, ErrIndexOutOfRange
	}

	arr[index] = CloneValue(value)
	out.Payload[key] = arr

	return out, nil
}

// SetArrayItemField merges {subKey: value} into the mapping at index.
func SetArrayItemField(sec Section, key string, index int, subKey string, value any) (Section, error) {
	out := sec.Clone()

	arr, err := arrayAt(out.Payload, key)
	if err != nil {
		return sec, err
	}

	if index < 0 || index >= len(arr) {
		return sec, ErrIndexOutOfRange
	}

	item, ok := arr[index].(map[string]any)
	if !ok {
		return sec, ErrItemNotAMapping
	}

	item[subKey] = CloneValue(value)
	out.Payload[key] = arr

	return out, nil
}

// AppendArrayItem appends an element shaped after element zero. When the
// first element is a mapping the new element has the same keys with empty
// string values, otherwise it is an empty string. A missing field is
// treated as an empty array.
func AppendArrayItem(sec Section, key string) (Section, error) {
	out := sec.Clone()

	var arr []any

	if _, exists := out.Payload[key]; exists {
		var err error
		if arr, err = arrayAt(out.Payload, key); err != nil {
			return sec, err
		}
	}

	var next any = ""

	if len(arr) > 0 {
		if first, ok := arr[0].(map[string]any); ok {
			row := make(map[string]any, len(first))
			for k := range first {
				row[k] = ""
			}

			next = row
		}
	}

	out.Payload[key] = append(arr, next)

	return out, nil
}

// RemoveArrayItem removes the element at index, keeping the order of the rest.
func RemoveArrayItem(sec Section, key string, index int) (Section, error) {
	out := sec.Clone()

	arr, err := arrayAt(out.Payload, key)
	if err != nil {
		return sec, err
	}

	if index < 0 || index >= len(arr) {
		return sec, ErrIndexOutOfRange
	}

	next := make([]any, 0, len(arr)-1)
	next = append(next, arr[:index]...)
	next = append(next, arr[index+1:]...)
	out.Payload[key] = next

	return out, nil
}

// SetNestedField merges {subKey: value} into the mapping at key, creating it when missing.
func SetNestedField(sec Section, key, subKey string, value any) (Section, error) {
	out := sec.Clone()

	m, err := mappingAt(out.Payload, key)
	if err != nil {
		return sec, err
	}

	m[subKey] = CloneValue(value)
	out.Payload[key] = m

	return out, nil
}

// AddNestedField adds an empty string sub-field under a normalized name.
func AddNestedField(sec Section, key, rawName string) (Section, error) {
	subKey := NormalizeFieldName(rawName)
	if subKey == "" {
		return sec, ErrEmptyFieldName
	}

	return SetNestedField(sec, key, subKey, "")
}

// RemoveNestedField deletes subKey from the mapping at key.
func RemoveNestedField(sec Section, key, subKey string) (Section, error) {
	out := sec.Clone()

	m, err := mappingAt(out.Payload, key)
	if err != nil {
		return sec, err
	}

	delete(m, subKey)
	out.Payload[key] = m

	return out, nil
}

// arrayAt returns the array at key of an already cloned payload.
func arrayAt(doc Document, key string) ([]any, error) {
	v, ok := doc[key]
	if !ok {
		return nil, ErrNotAnArray
	}

	arr, ok := v.([]any)
	if !ok {
		return nil, ErrNotAnArray
	}

	return arr, nil
}

// mappingAt returns the mapping at key of an already cloned payload.
func mappingAt(doc Document, key string) (map[string]any, error) {
	v, ok := doc[key]
	if !ok || v == nil {
		return map[string]any{}, nil
	}

	m, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotAMapping
	}

	return m, nil
}

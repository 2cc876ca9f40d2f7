package content

import (
	"sort"
)

// Field is a classified payload entry. Kind selects which of the other
// members is populated:
//
//	KindImage, KindLongText, KindShortText  Text
//	KindScalarList                          Items
//	KindObjectList                          Rows
//	KindNested                              Fields
//	KindUnsupported                         Raw
type Field struct {
	Key    string
	Kind   Kind
	Text   string
	Items  []ListItem
	Rows   []Row
	Fields []Field
	Raw    any
}

// ListItem is one element of a scalar list.
type ListItem struct {
	Index int
	Kind  Kind
	Value string
	Raw   any
}

// Row is one element of an object list.
type Row struct {
	Index  int
	Fields []Field
}

// Parse classifies every top level payload entry. Keys are sorted so the
// editor renders fields in a stable order.
func Parse(doc Document) []Field {
	keys := sortedKeys(doc)
	out := make([]Field, 0, len(keys))

	for _, key := range keys {
		out = append(out, parseField(key, doc[key]))
	}

	return out
}

// EditableFields drops the Unsupported entries from fields.
func EditableFields(fields []Field) []Field {
	out := make([]Field, 0, len(fields))

	for _, f := range fields {
		if f.Kind.Editable() {
			out = append(out, f)
		}
	}

	return out
}

func parseField(key string, value any) Field {
	if key == RawKey {
		return Field{Key: key, Kind: KindUnsupported, Raw: value}
	}

	f := Field{Key: key, Kind: Classify(key, value)}

	switch f.Kind {
	case KindImage, KindLongText, KindShortText:
		f.Text, _ = value.(string)
	case KindScalarList:
		arr, _ := value.([]any)
		f.Items = make([]ListItem, 0, len(arr))

		for i, item := range arr {
			li := ListItem{Index: i, Kind: KindUnsupported, Raw: item}
			if s, ok := item.(string); ok {
				li.Kind = ClassifyText(key, s)
				li.Value = s
			}

			f.Items = append(f.Items, li)
		}
	case KindObjectList:
		arr, _ := value.([]any)
		f.Rows = make([]Row, 0, len(arr))

		for i, item := range arr {
			m, _ := item.(map[string]any)
			f.Rows = append(f.Rows, Row{Index: i, Fields: parseSubFields(m)})
		}
	case KindNested:
		m, _ := value.(map[string]any)
		f.Fields = parseSubFields(m)
	default:
		f.Raw = value
	}

	return f
}

// parseSubFields applies the string rules to a mapping one level down.
// Anything that is not a string is carried as Unsupported.
func parseSubFields(m map[string]any) []Field {
	keys := sortedKeys(m)
	out := make([]Field, 0, len(keys))

	for _, key := range keys {
		s, ok := m[key].(string)
		if !ok {
			out = append(out, Field{Key: key, Kind: KindUnsupported, Raw: m[key]})
			continue
		}

		out = append(out, Field{Key: key, Kind: ClassifyText(key, s), Text: s})
	}

	return out
}

func sortedKeys[M ~map[string]any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

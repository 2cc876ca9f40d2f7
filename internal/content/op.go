package content

// OpType names a document edit.
type OpType string

// Edit operations understood by Apply.
const (
	OpSetField     OpType = "set_field"
	OpAddField     OpType = "add_field"
	OpRemoveField  OpType = "remove_field"
	OpSetItem      OpType = "set_item"
	OpSetItemField OpType = "set_item_field"
	OpAppendItem   OpType = "append_item"
	OpRemoveItem   OpType = "remove_item"
	OpSetNested    OpType = "set_nested"
	OpAddNested    OpType = "add_nested"
	OpRemoveNested OpType = "remove_nested"
)

// Op is one edit of a section payload.
type Op struct {
	Type   OpType
	Key    string
	SubKey string
	Index  int
	Kind   Kind
	Value  any
}

// Apply is the reducer: it returns the section produced by op. On error
// the input section is returned unchanged.
func Apply(sec Section, op Op) (Section, error) {
	if sec.Payload.Raw() {
		return sec, ErrRawPayload
	}

	switch op.Type {
	case OpSetField:
		return SetField(sec, op.Key, op.Value), nil
	case OpAddField:
		return AddField(sec, op.Key, op.Kind)
	case OpRemoveField:
		return RemoveField(sec, op.Key), nil
	case OpSetItem:
		return SetArrayItem(sec, op.Key, op.Index, op.Value)
	case OpSetItemField:
		return SetArrayItemField(sec, op.Key, op.Index, op.SubKey, op.Value)
	case OpAppendItem:
		return AppendArrayItem(sec, op.Key)
	case OpRemoveItem:
		return RemoveArrayItem(sec, op.Key, op.Index)
	case OpSetNested:
		return SetNestedField(sec, op.Key, op.SubKey, op.Value)
	case OpAddNested:
		return AddNestedField(sec, op.Key, op.SubKey)
	case OpRemoveNested:
		return RemoveNestedField(sec, op.Key, op.SubKey)
	default:
		return sec, ErrUnknownOp
	}
}

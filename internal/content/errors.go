package content

import (
	"errors"

	"github.com/folio-cms/folio/internal/apperror"
)

var (
	// ErrEmptyFieldName is returned when a new field name normalizes to nothing.
	ErrEmptyFieldName = apperror.Validation("field name cannot be empty")

	// ErrIndexOutOfRange is returned for array indexes outside the current bounds.
	ErrIndexOutOfRange = apperror.Validation("array index out of range")

	// ErrNotAnArray is returned when an array operation targets another shape.
	ErrNotAnArray = apperror.Validation("field is not a list")

	// ErrNotAMapping is returned when a nested operation targets another shape.
	ErrNotAMapping = apperror.Validation("field is not a nested object")

	// ErrItemNotAMapping is returned when an object list item field is edited on a scalar item.
	ErrItemNotAMapping = apperror.Validation("list item is not an object")

	// ErrUnknownKind is returned for field kinds outside the closed set.
	ErrUnknownKind = apperror.Validation("unknown field type")

	// ErrUnknownOp is returned by Apply for unsupported operations.
	ErrUnknownOp = apperror.Validation("unknown edit operation")

	// ErrRawPayload is returned by Apply for documents wrapping a non-object payload.
	ErrRawPayload = apperror.Validation("section content is not a JSON object and cannot be edited here")

	// ErrPayloadNotObject is returned when a payload is not a JSON object.
	ErrPayloadNotObject = errors.New("payload is not a JSON object")

	// ErrTrailingData is returned for payloads with more than one JSON value.
	ErrTrailingData = errors.New("unexpected data after payload")
)

// Package binding synchronizes widget values with model fields: pull
// (model to widget), push (widget to model, gated by validation), a
// memoized validation state machine per binding and an aggregating
// handler with optional auto-commit. The package is generic over any
// Model and any widget satisfying the narrow capability interfaces in
// widget.go; it has no dependency on a concrete GUI toolkit.
package binding

import "reflect"

// Model is the data side of a binding: named fields with values and
// metadata, change notification and optional cross-field validators.
type Model interface {
	// FieldValue returns the current value of the named field.
	FieldValue(field string) interface{}
	// SetFieldValue writes a value into the named field.
	SetFieldValue(field string, value interface{})
	// FieldRequired reports whether the field must be non-empty.
	FieldRequired(field string) bool
	// FieldType returns the target type pushed values must have, or nil
	// when any value is acceptable.
	FieldType(field string) reflect.Type
	// OnModelChanged registers a change listener. The field argument
	// names the changed field; the empty string means "anything".
	OnModelChanged(func(field string))
	// ModelValidators returns the model-level (cross-field) validators.
	ModelValidators() []ModelValidator
}

// ModelValidator checks cross-field consistency of a whole model.
type ModelValidator func(m Model) error

// Validator checks a single converted field value. All validators of a
// binding run to completion; every failure message is surfaced.
type Validator func(value interface{}) error

// Converter turns the raw widget representation into the model type.
type Converter func(raw interface{}) (interface{}, error)

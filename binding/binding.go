package binding

import (
	"fmt"
	"reflect"
)

// ValidState is the memoized validation state of a binding. Validation
// is not re-run on every query; any value change or explicit
// invalidation resets the state to Unvalidated, which forces the next
// IsValid call to run the required/convert/validate pipeline again.
type ValidState int

const (
	Unvalidated ValidState = iota
	Valid
	Invalid
)

var stringType = reflect.TypeOf("")

// FieldBinding synchronizes one widget with one model field. All methods
// must be called from a single logical thread; the pulling/pushing flags
// guard against same-thread re-entrancy, not concurrent use.
type FieldBinding struct {
	model  Model
	field  string
	widget ValueWidget

	converter  Converter
	validators []Validator

	validState ValidState
	errors     []string
	converted  interface{}

	modified bool
	pulling  bool
	pushing  bool
	// holdPull suppresses model-change re-pulls while the owning handler
	// runs a whole-set push; set and cleared by Handler.Push.
	holdPull bool

	// onModified is the handler's hook; set via Handler.Add.
	onModified func()
}

// New wires a binding between the model field and the widget. The
// binding subscribes to both sides immediately; call Pull to establish
// the initial widget value.
func New(model Model, field string, widget ValueWidget) *FieldBinding {
	b := &FieldBinding{model: model, field: field, widget: widget}
	widget.OnWidgetChanged(b.widgetChanged)
	model.OnModelChanged(b.modelChanged)
	return b
}

func (b *FieldBinding) Model() Model        { return b.model }
func (b *FieldBinding) Field() string       { return b.field }
func (b *FieldBinding) Widget() ValueWidget { return b.widget }

// SetConverter installs the widget-to-model conversion and invalidates.
func (b *FieldBinding) SetConverter(c Converter) {
	b.converter = c
	b.Invalidate()
}

// AddValidator appends a field-level validator and invalidates.
func (b *FieldBinding) AddValidator(v Validator) {
	b.validators = append(b.validators, v)
	b.Invalidate()
}

// IsModified reports whether the widget holds an un-pushed user edit.
func (b *FieldBinding) IsModified() bool { return b.modified }

// State returns the memoized validation state.
func (b *FieldBinding) State() ValidState { return b.validState }

// Errors returns the validation messages of the last pipeline run.
func (b *FieldBinding) Errors() []string {
	out := make([]string, len(b.errors))
	copy(out, b.errors)
	return out
}

// Invalidate resets the validation state to Unvalidated and discards the
// cached converted value. Every value-changing operation funnels through
// here so the memoization contract has a single entry point.
func (b *FieldBinding) Invalidate() {
	b.validState = Unvalidated
	b.converted = nil
	b.errors = nil
}

// Pull transfers the model value into the widget, clears the modified
// flag and forces one validation pass so required-field feedback shows
// without waiting for user input. Pull never fails.
func (b *FieldBinding) Pull() bool {
	b.pulling = true
	b.widget.SetWidgetValue(b.model.FieldValue(b.field))
	b.pulling = false
	b.modified = false
	b.Invalidate()
	b.IsValid()
	return true
}

// Push writes the cached converted value into the model if the binding
// validates; otherwise it mutates nothing and returns false. The pushing
// flag keeps the resulting model notification from bouncing back into a
// pull.
func (b *FieldBinding) Push() bool {
	if !b.IsValid() {
		return false
	}
	b.pushing = true
	b.model.SetFieldValue(b.field, b.converted)
	b.pushing = false
	b.modified = false
	return true
}

// IsValid returns the memoized result when the state is already decided.
// Otherwise it runs, in order: the required check, the type conversion,
// and all field validators (collecting every message, no short-circuit).
// The converted value is cached only on overall success.
func (b *FieldBinding) IsValid() bool {
	if b.validState != Unvalidated {
		return b.validState == Valid
	}
	b.errors = nil

	raw := b.widget.WidgetValue()
	if b.model.FieldRequired(b.field) && isEmpty(raw) {
		b.errors = append(b.errors, fmt.Sprintf("%s is required", b.field))
		b.validState = Invalid
		return false
	}

	converted, ok := b.convert(raw)
	if !ok {
		b.validState = Invalid
		return false
	}

	for _, v := range b.validators {
		if err := v(converted); err != nil {
			b.errors = append(b.errors, err.Error())
		}
	}
	if len(b.errors) > 0 {
		b.validState = Invalid
		return false
	}

	b.converted = converted
	b.validState = Valid
	return true
}

// convert maps the raw widget value to the model type: registered
// converter first, identity when the target type is exactly string, else
// a direct assignability check. A converter failure surfaces as a
// generic wrong-type message; the underlying error is deliberately not
// preserved.
func (b *FieldBinding) convert(raw interface{}) (interface{}, bool) {
	if b.converter != nil {
		v, err := b.converter(raw)
		if err != nil {
			b.errors = append(b.errors, fmt.Sprintf("%s has the wrong type", b.field))
			return nil, false
		}
		return v, true
	}
	target := b.model.FieldType(b.field)
	if target == nil || target == stringType {
		return raw, true
	}
	if raw == nil {
		return nil, true
	}
	if reflect.TypeOf(raw).AssignableTo(target) {
		return raw, true
	}
	b.errors = append(b.errors, fmt.Sprintf("%s has the wrong type", b.field))
	return nil, false
}

// widgetChanged marks the binding modified on user edits. Writes caused
// by an in-progress Pull are suppressed so a model-to-widget transfer is
// not misread as a user edit.
func (b *FieldBinding) widgetChanged() {
	if b.pulling {
		return
	}
	b.modified = true
	b.Invalidate()
	if b.onModified != nil {
		b.onModified()
	}
}

// modelChanged re-pulls when the bound field (or the whole model)
// changed, unless this binding caused the change itself or a handler
// push sweep is in progress.
func (b *FieldBinding) modelChanged(field string) {
	if b.pushing || b.pulling || b.holdPull {
		return
	}
	if field == "" || field == b.field {
		b.Pull()
	}
}

func isEmpty(v interface{}) bool {
	return v == nil || v == ""
}

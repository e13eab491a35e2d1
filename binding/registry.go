package binding

import "fmt"

// Capability tags the closed set of widget families bindings can be
// constructed for. Lookup is by explicit tag, never by runtime type
// introspection.
type Capability int

const (
	TextLike Capability = iota
	BoolToggle
	EnumeratedChoice
	SelectionList
	TableGrid
	NumericSpinner
	DatePicker
	ImageDisplay
	HyperlinkLabel
)

func (c Capability) String() string {
	switch c {
	case TextLike:
		return "text"
	case BoolToggle:
		return "toggle"
	case EnumeratedChoice:
		return "choice"
	case SelectionList:
		return "list"
	case TableGrid:
		return "table"
	case NumericSpinner:
		return "spinner"
	case DatePicker:
		return "date"
	case ImageDisplay:
		return "image"
	case HyperlinkLabel:
		return "label"
	}
	return fmt.Sprintf("Capability(%d)", int(c))
}

// Constructor builds a binding for one widget instance. The widget
// argument is whatever concrete object the registering toolkit adapter
// expects for the capability it was registered under.
type Constructor func(m Model, field string, widget interface{}) (*FieldBinding, error)

// Registry maps capability tags to binding constructors. It is built
// explicitly by whatever composes the UI and passed where needed; there
// is no global instance.
type Registry struct {
	ctors map[Capability]Constructor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{ctors: make(map[Capability]Constructor)}
}

// Register installs the constructor for a capability, replacing any
// previous one.
func (r *Registry) Register(c Capability, ctor Constructor) {
	r.ctors[c] = ctor
}

// Bind constructs a binding for the widget under the given capability.
func (r *Registry) Bind(c Capability, m Model, field string, widget interface{}) (*FieldBinding, error) {
	ctor, ok := r.ctors[c]
	if !ok {
		return nil, fmt.Errorf("binding: no constructor registered for capability %s", c)
	}
	return ctor(m, field, widget)
}

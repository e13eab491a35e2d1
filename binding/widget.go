package binding

// ValueWidget is the narrow contract a widget family must satisfy to be
// bindable: read a value, write a value, announce edits. Adapters for
// concrete toolkits live outside this package (see fynebind).
type ValueWidget interface {
	WidgetValue() interface{}
	SetWidgetValue(v interface{})
	OnWidgetChanged(func())
}

// SelectionWidget is the contract for widgets with an index-based
// selection (lists, tables). Indices are in view coordinates; the
// adjusting flag marks intermediate notifications of an in-progress
// selection gesture.
type SelectionWidget interface {
	SelectedIndices() []int
	SetSelectedIndices(indices []int)
	OnSelectionChanged(func(adjusting bool))
}

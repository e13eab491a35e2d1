package binding

// IndexMapper translates between view-coordinate row indices (what the
// widget shows, possibly sorted or filtered) and model-coordinate
// indices (positions in the backing data). Both functions must be pure;
// a function returning a negative index drops that entry.
type IndexMapper struct {
	ViewToModel func(int) int
	ModelToView func(int) int
}

// IndexSelection is the data side of a selection binding: an observable
// set of model-coordinate indices (e.g. a dataset selector).
type IndexSelection interface {
	Indices() []int
	SetIndices(indices []int)
	OnChanged(func())
}

// SelectionBinding keeps a widget's native selection in sync with a data
// selection, bidirectionally, translating through an optional mapper.
// Both directions mutate state that triggers the other direction's
// listener; the changing flag suppresses that recursion.
type SelectionBinding struct {
	widget   SelectionWidget
	data     IndexSelection
	mapper   *IndexMapper
	changing bool
}

// NewSelection wires the two sides together and performs an initial
// data-to-view sync. mapper may be nil for identity translation.
func NewSelection(widget SelectionWidget, data IndexSelection, mapper *IndexMapper) *SelectionBinding {
	sb := &SelectionBinding{widget: widget, data: data, mapper: mapper}
	data.OnChanged(sb.dataChanged)
	widget.OnSelectionChanged(sb.widgetChanged)
	sb.dataChanged()
	return sb
}

// dataChanged recomputes the full view-coordinate index set from the
// data selection and applies it to the widget.
func (sb *SelectionBinding) dataChanged() {
	if sb.changing {
		return
	}
	sb.changing = true
	defer func() { sb.changing = false }()

	model := sb.data.Indices()
	view := make([]int, 0, len(model))
	for _, i := range model {
		v := i
		if sb.mapper != nil && sb.mapper.ModelToView != nil {
			v = sb.mapper.ModelToView(i)
		}
		if v >= 0 {
			view = append(view, v)
		}
	}
	sb.widget.SetSelectedIndices(view)
}

// widgetChanged converts the widget's selected view indices to model
// indices and pushes them into the data selection, ignoring in-progress
// adjustment gestures and re-entrant notifications.
func (sb *SelectionBinding) widgetChanged(adjusting bool) {
	if adjusting || sb.changing {
		return
	}
	sb.changing = true
	defer func() { sb.changing = false }()

	view := sb.widget.SelectedIndices()
	model := make([]int, 0, len(view))
	for _, i := range view {
		m := i
		if sb.mapper != nil && sb.mapper.ViewToModel != nil {
			m = sb.mapper.ViewToModel(i)
		}
		if m >= 0 {
			model = append(model, m)
		}
	}
	sb.data.SetIndices(model)
}

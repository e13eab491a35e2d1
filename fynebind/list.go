package fynebind

import "fyne.io/fyne/v2/widget"

// List adapts *widget.List as a selection widget. Fyne lists select a
// single item at a time, so the index set has at most one element; the
// adjusting flag is always false because Fyne reports only settled
// selections.
type List struct {
	list      *widget.List
	selected  []int
	listeners []func(adjusting bool)
}

func NewList(l *widget.List) *List {
	a := &List{list: l}
	prevSel := l.OnSelected
	l.OnSelected = func(id widget.ListItemID) {
		if prevSel != nil {
			prevSel(id)
		}
		a.selected = []int{int(id)}
		a.fire()
	}
	prevUnsel := l.OnUnselected
	l.OnUnselected = func(id widget.ListItemID) {
		if prevUnsel != nil {
			prevUnsel(id)
		}
		a.selected = nil
	}
	return a
}

func (a *List) fire() {
	for _, l := range a.listeners {
		l(false)
	}
}

func (a *List) SelectedIndices() []int {
	out := make([]int, len(a.selected))
	copy(out, a.selected)
	return out
}

func (a *List) SetSelectedIndices(indices []int) {
	if len(indices) == 0 {
		a.selected = nil
		a.list.UnselectAll()
		return
	}
	a.selected = []int{indices[0]}
	a.list.Select(widget.ListItemID(indices[0]))
}

func (a *List) OnSelectionChanged(l func(adjusting bool)) {
	a.listeners = append(a.listeners, l)
}

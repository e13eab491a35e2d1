package dsadapter

import "databind/dataset"

// SelectorSelection adapts a dataset.Selector to binding.IndexSelection
// so a selection binding can drive it as its data side.
type SelectorSelection struct {
	sel *dataset.Selector
}

func NewSelectorSelection(sel *dataset.Selector) *SelectorSelection {
	return &SelectorSelection{sel: sel}
}

func (s *SelectorSelection) Indices() []int { return s.sel.Indices() }

func (s *SelectorSelection) SetIndices(indices []int) { s.sel.SetIndices(indices) }

func (s *SelectorSelection) OnChanged(fn func()) {
	s.sel.OnChanged(func(dataset.SelectorEvent) { fn() })
}

// Package fynebind adapts Fyne widgets to the binding package's narrow
// widget capability contracts. The binding engine itself never imports
// Fyne; this package is the only place that knows concrete widget types.
package fynebind

import (
	"fmt"

	"fyne.io/fyne/v2/widget"

	"databind/binding"
)

func toText(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Entry adapts *widget.Entry as a text-like value widget. An OnChanged
// callback already present on the entry keeps working; the adapter
// chains it.
type Entry struct {
	entry     *widget.Entry
	listeners []func()
}

func NewEntry(e *widget.Entry) *Entry {
	a := &Entry{entry: e}
	prev := e.OnChanged
	e.OnChanged = func(s string) {
		if prev != nil {
			prev(s)
		}
		for _, l := range a.listeners {
			l()
		}
	}
	return a
}

func (a *Entry) WidgetValue() interface{} { return a.entry.Text }

func (a *Entry) SetWidgetValue(v interface{}) { a.entry.SetText(toText(v)) }

func (a *Entry) OnWidgetChanged(l func()) { a.listeners = append(a.listeners, l) }

// Check adapts *widget.Check as a boolean toggle.
type Check struct {
	check     *widget.Check
	listeners []func()
}

func NewCheck(c *widget.Check) *Check {
	a := &Check{check: c}
	prev := c.OnChanged
	c.OnChanged = func(b bool) {
		if prev != nil {
			prev(b)
		}
		for _, l := range a.listeners {
			l()
		}
	}
	return a
}

func (a *Check) WidgetValue() interface{} { return a.check.Checked }

func (a *Check) SetWidgetValue(v interface{}) {
	b, _ := v.(bool)
	a.check.SetChecked(b)
}

func (a *Check) OnWidgetChanged(l func()) { a.listeners = append(a.listeners, l) }

// Select adapts *widget.Select as an enumerated choice.
type Select struct {
	sel       *widget.Select
	listeners []func()
}

func NewSelect(s *widget.Select) *Select {
	a := &Select{sel: s}
	prev := s.OnChanged
	s.OnChanged = func(opt string) {
		if prev != nil {
			prev(opt)
		}
		for _, l := range a.listeners {
			l()
		}
	}
	return a
}

func (a *Select) WidgetValue() interface{} { return a.sel.Selected }

func (a *Select) SetWidgetValue(v interface{}) { a.sel.SetSelected(toText(v)) }

func (a *Select) OnWidgetChanged(l func()) { a.listeners = append(a.listeners, l) }

// Label adapts *widget.Label as a read-only display; it never announces
// edits, so bound labels only ever pull.
type Label struct {
	label *widget.Label
}

func NewLabel(l *widget.Label) *Label { return &Label{label: l} }

func (a *Label) WidgetValue() interface{} { return a.label.Text }

func (a *Label) SetWidgetValue(v interface{}) { a.label.SetText(toText(v)) }

func (a *Label) OnWidgetChanged(func()) {}

// NewRegistry builds a binding registry with constructors for the Fyne
// widget families this package adapts.
func NewRegistry() *binding.Registry {
	reg := binding.NewRegistry()
	reg.Register(binding.TextLike, func(m binding.Model, field string, w interface{}) (*binding.FieldBinding, error) {
		e, ok := w.(*widget.Entry)
		if !ok {
			return nil, fmt.Errorf("fynebind: text capability needs *widget.Entry, got %T", w)
		}
		return binding.New(m, field, NewEntry(e)), nil
	})
	reg.Register(binding.BoolToggle, func(m binding.Model, field string, w interface{}) (*binding.FieldBinding, error) {
		c, ok := w.(*widget.Check)
		if !ok {
			return nil, fmt.Errorf("fynebind: toggle capability needs *widget.Check, got %T", w)
		}
		return binding.New(m, field, NewCheck(c)), nil
	})
	reg.Register(binding.EnumeratedChoice, func(m binding.Model, field string, w interface{}) (*binding.FieldBinding, error) {
		s, ok := w.(*widget.Select)
		if !ok {
			return nil, fmt.Errorf("fynebind: choice capability needs *widget.Select, got %T", w)
		}
		return binding.New(m, field, NewSelect(s)), nil
	})
	reg.Register(binding.HyperlinkLabel, func(m binding.Model, field string, w interface{}) (*binding.FieldBinding, error) {
		l, ok := w.(*widget.Label)
		if !ok {
			return nil, fmt.Errorf("fynebind: label capability needs *widget.Label, got %T", w)
		}
		return binding.New(m, field, NewLabel(l)), nil
	})
	return reg
}

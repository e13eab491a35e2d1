// Package ui holds the demo application: a contacts master/detail form
// driven entirely by the dataset and binding engines.
package ui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"databind/binding"
	"databind/binding/dsadapter"
	"databind/dataset"
	"databind/fynebind"
	"databind/internal/dialogs"
)

// App wires the contacts table to the form widgets. The list on the
// left drives the "current" selector; the form on the right binds to
// whichever row that selector points at.
type App struct {
	window fyne.Window

	ds       *dataset.DataSet
	contacts *dataset.Table
	cursor   *dataset.Selector

	model   *dsadapter.RowModel
	handler *binding.Handler
	list    *widget.List

	// save persists the whole dataset (XML file, SQL, ...); the UI does
	// not care which.
	save func() error
}

// NewApp builds the form over the dataset's "contacts" table. The table
// must carry name, city and active columns; a computed status column is
// added here for display.
func NewApp(window fyne.Window, ds *dataset.DataSet, save func() error) (*App, error) {
	contacts := ds.Table("contacts")
	if contacts == nil {
		return nil, fmt.Errorf("ui: dataset has no contacts table")
	}
	a := &App{
		window:   window,
		ds:       ds,
		contacts: contacts,
		cursor:   contacts.Selector(dataset.SelCurrent),
		save:     save,
	}

	if contacts.Column("status") == nil {
		status := contacts.CreateColumn("status", dataset.TypeOf(""))
		status.SetReadOnly(true)
		status.SetExpr(dataset.ExprFunc(func(r *dataset.Row) interface{} {
			return r.Status().String()
		}))
	}

	a.model = dsadapter.NewRowModel(contacts, a.cursor)
	a.model.AddValidator(func(m binding.Model) error {
		active, _ := m.FieldValue("active").(bool)
		city, _ := m.FieldValue("city").(string)
		if active && strings.TrimSpace(city) == "" {
			return fmt.Errorf("active contacts need a city")
		}
		return nil
	})

	a.handler = binding.NewHandler(fyne.Do)
	if err := a.buildForm(); err != nil {
		return nil, err
	}
	return a, nil
}

// buildForm creates the widgets, binds them through the capability
// registry and lays everything out in the window.
func (a *App) buildForm() error {
	reg := fynebind.NewRegistry()

	nameEntry := widget.NewEntry()
	cityEntry := widget.NewEntry()
	activeCheck := widget.NewCheck("Active", nil)
	statusLabel := widget.NewLabel("")

	for _, w := range []struct {
		cap    binding.Capability
		field  string
		widget interface{}
	}{
		{binding.TextLike, "name", nameEntry},
		{binding.TextLike, "city", cityEntry},
		{binding.BoolToggle, "active", activeCheck},
		{binding.HyperlinkLabel, "status", statusLabel},
	} {
		b, err := reg.Bind(w.cap, a.model, w.field, w.widget)
		if err != nil {
			return err
		}
		a.handler.Add(b)
	}

	a.list = widget.NewList(
		func() int { return a.contacts.RowCount() },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			obj.(*widget.Label).SetText(a.rowLabel(int(id)))
		},
	)
	binding.NewSelection(fynebind.NewList(a.list), dsadapter.NewSelectorSelection(a.cursor), nil)

	a.contacts.OnTableChange(func(ev dataset.TableEvent) {
		switch ev.Kind {
		case dataset.TableRowAdded, dataset.TableRowDeleted, dataset.TableRowDiscarded,
			dataset.TableLoadComplete, dataset.TableCleared, dataset.TableSaveComplete:
			fyne.Do(a.list.Refresh)
		}
	})
	a.contacts.OnRowChange(func(dataset.RowEvent) {
		fyne.Do(a.list.Refresh)
	})

	form := widget.NewForm(
		widget.NewFormItem("Name", nameEntry),
		widget.NewFormItem("City", cityEntry),
		widget.NewFormItem("", activeCheck),
		widget.NewFormItem("Status", statusLabel),
	)

	buttons := container.NewHBox(
		widget.NewButton("Add", a.addContact),
		widget.NewButton("Delete", a.deleteContact),
		widget.NewButton("Revert", a.revert),
		widget.NewButton("Save", a.saveAll),
	)

	split := container.NewHSplit(a.list, container.NewVBox(form, buttons))
	split.SetOffset(0.35)
	a.window.SetContent(split)

	a.handler.Pull()
	return nil
}

// rowLabel is the list text for one row.
func (a *App) rowLabel(i int) string {
	if i < 0 || i >= a.contacts.RowCount() {
		return ""
	}
	r := a.contacts.RowAt(i)
	name, _ := r.ValueNamed("name").(string)
	if name == "" {
		name = "(unnamed)"
	}
	if r.Status() == dataset.StatusUnchanged {
		return name
	}
	return name + " *"
}

func (a *App) addContact() {
	r := a.contacts.AppendRow()
	if r == nil {
		return
	}
	a.cursor.SetIndex(r.Index())
	a.handler.Pull()
}

func (a *App) deleteContact() {
	r := a.model.Row()
	if r == nil {
		return
	}
	dialogs.ShowConfirm(a.window, "Delete contact", "Delete the selected contact?", func(ok bool) {
		if !ok {
			return
		}
		a.contacts.DeleteRow(r)
		a.handler.Pull()
	})
}

// revert abandons the form's edits and re-pulls from the row.
func (a *App) revert() {
	a.handler.Pull()
}

// saveAll pushes the form into the dataset (all-or-nothing) and, when
// that succeeds, persists the dataset.
func (a *App) saveAll() {
	if !a.handler.Push() {
		dialogs.ShowErrorText(a.window, "Validation failed", a.validationSummary())
		return
	}
	if a.save == nil {
		return
	}
	if err := a.save(); err != nil {
		dialogs.ShowError(a.window, err)
		return
	}
	dialogs.ShowInfo(a.window, "Saved", "Contacts saved.")
}

// validationSummary flattens binding and model errors into one message.
func (a *App) validationSummary() string {
	var msgs []string
	for _, b := range a.handler.Bindings() {
		if b.State() == binding.Invalid {
			msgs = append(msgs, b.Errors()...)
		}
	}
	msgs = append(msgs, a.handler.Errors()...)
	if len(msgs) == 0 {
		return "invalid input"
	}
	return strings.Join(msgs, "\n")
}

// Handler exposes the binding handler, mainly for tests.
func (a *App) Handler() *binding.Handler { return a.handler }

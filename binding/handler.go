package binding

// Handler aggregates a set of bindings: one modified latch, one validity
// verdict, all-or-nothing push, optional auto-commit.
type Handler struct {
	bindings []*FieldBinding
	modified bool
	errors   []string

	autoCommit bool
	// schedule defers an auto-commit push, conventionally onto the UI
	// event queue (fyne.Do). Nil runs the push inline.
	schedule func(func())
}

// NewHandler creates an empty handler. scheduler may be nil.
func NewHandler(scheduler func(func())) *Handler {
	return &Handler{schedule: scheduler}
}

// Add registers a binding and intercepts its modified notifications.
func (h *Handler) Add(b *FieldBinding) {
	b.onModified = func() { h.bindingModified(b) }
	h.bindings = append(h.bindings, b)
}

// Bindings returns the registered bindings.
func (h *Handler) Bindings() []*FieldBinding {
	out := make([]*FieldBinding, len(h.bindings))
	copy(out, h.bindings)
	return out
}

// RemoveAll drops every binding and clears the modified latch.
func (h *Handler) RemoveAll() {
	for _, b := range h.bindings {
		b.onModified = nil
	}
	h.bindings = nil
	h.modified = false
	h.errors = nil
}

// IsModified reports the aggregate latch: it is set when any binding
// reported modified and only cleared by Pull, Push or RemoveAll, not
// when the last individually-modified binding becomes unmodified. The
// set stays dirty until explicitly saved or reloaded.
func (h *Handler) IsModified() bool { return h.modified }

func (h *Handler) bindingModified(b *FieldBinding) {
	if h.autoCommit {
		h.deferPush(b)
		return
	}
	h.modified = true
}

// deferPush schedules a push of the single modified binding onto the
// configured scheduler, or runs it inline when none is configured. Under
// auto-commit individual edits commit themselves; the all-or-nothing
// gate applies only to explicit whole-set pushes.
func (h *Handler) deferPush(b *FieldBinding) {
	if h.schedule != nil {
		h.schedule(func() { b.Push() })
		return
	}
	b.Push()
}

// AutoCommit reports whether auto-commit is active.
func (h *Handler) AutoCommit() bool { return h.autoCommit }

// SetAutoCommit toggles auto-commit. Enabling it pushes immediately when
// the set is currently modified; thereafter every modified notification
// becomes a deferred push instead of accumulating dirty state.
func (h *Handler) SetAutoCommit(on bool) {
	h.autoCommit = on
	if on && h.modified {
		h.Push()
	}
}

// Errors returns the model-level validation messages collected by the
// last Validate call; field-level messages live on the bindings.
func (h *Handler) Errors() []string {
	out := make([]string, len(h.errors))
	copy(out, h.errors)
	return out
}

// Validate checks every binding and, for the distinct set of models the
// bindings reference, every model-level validator. Both passes run to
// completion so every failing binding contributes its error state.
func (h *Handler) Validate() bool {
	ok := true
	for _, b := range h.bindings {
		if !b.IsValid() {
			ok = false
		}
	}
	h.errors = nil
	for _, m := range h.distinctModels() {
		for _, v := range m.ModelValidators() {
			if err := v(m); err != nil {
				h.errors = append(h.errors, err.Error())
				ok = false
			}
		}
	}
	return ok
}

// Push validates the whole set first; any failure anywhere prevents
// every individual push in this call. On success all bindings push and
// the modified latch clears. One binding's model write can broadcast a
// whole-model change (a row status flip, say); mid-sweep that must not
// re-pull the siblings, or their pending edits would be wiped before
// they push. After the sweep every binding re-pulls so widgets show
// the canonical model state.
func (h *Handler) Push() bool {
	if !h.Validate() {
		return false
	}
	for _, b := range h.bindings {
		b.holdPull = true
	}
	for _, b := range h.bindings {
		b.Push()
	}
	for _, b := range h.bindings {
		b.holdPull = false
		b.Pull()
	}
	h.modified = false
	return true
}

// Pull refreshes every binding from its model and clears the latch.
func (h *Handler) Pull() {
	for _, b := range h.bindings {
		b.Pull()
	}
	h.modified = false
}

func (h *Handler) distinctModels() []Model {
	var out []Model
	for _, b := range h.bindings {
		found := false
		for _, m := range out {
			if m == b.model {
				found = true
				break
			}
		}
		if !found {
			out = append(out, b.model)
		}
	}
	return out
}

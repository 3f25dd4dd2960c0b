package annotation

import "sync"

// historyLimit caps the undo stack; older entries fall off the bottom.
const historyLimit = 50

// action is one reversible property change.
type action struct {
	name   string
	apply  func()
	revert func()
}

// History is a bounded undo/redo stack for shape property changes. Pushing
// a new action discards any redoable tail. Safe for concurrent use; the
// apply and revert callbacks run under the lock.
type History struct {
	mu      sync.Mutex
	actions []action
	index   int // number of applied actions
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{}
}

// Push records an already-applied change. apply re-applies it for redo,
// revert rolls it back for undo.
func (h *History) Push(name string, apply, revert func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.actions = append(h.actions[:h.index], action{name: name, apply: apply, revert: revert})
	if len(h.actions) > historyLimit {
		h.actions = h.actions[len(h.actions)-historyLimit:]
	}
	h.index = len(h.actions)
}

// CanUndo reports whether an applied action remains.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index > 0
}

// CanRedo reports whether an undone action remains.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index < len(h.actions)
}

// Undo rolls back the most recent applied action and returns its name.
func (h *History) Undo() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.index == 0 {
		return "", false
	}
	h.index--
	a := h.actions[h.index]
	a.revert()
	return a.name, true
}

// Redo re-applies the most recently undone action and returns its name.
func (h *History) Redo() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.index >= len(h.actions) {
		return "", false
	}
	a := h.actions[h.index]
	h.index++
	a.apply()
	return a.name, true
}

// Clear drops all recorded actions.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.actions = nil
	h.index = 0
}

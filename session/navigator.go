package session

import (
	"strings"
	"sync"
)

// Key is a keyboard key relevant to result navigation.
type Key int

const (
	KeyUnknown Key = iota
	KeyArrowDown
	KeyArrowUp
	KeyHome
	KeyEnd
	KeyEnter
	KeyEscape
)

var keyNames = map[Key]string{
	KeyArrowDown: "ArrowDown",
	KeyArrowUp:   "ArrowUp",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyEnter:     "Enter",
	KeyEscape:    "Escape",
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "Unknown"
}

// ParseKey maps a key name such as "ArrowDown" or "esc" to a Key.
func ParseKey(name string) Key {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "arrowdown", "down", "j":
		return KeyArrowDown
	case "arrowup", "up", "k":
		return KeyArrowUp
	case "home":
		return KeyHome
	case "end":
		return KeyEnd
	case "enter", "return":
		return KeyEnter
	case "escape", "esc":
		return KeyEscape
	default:
		return KeyUnknown
	}
}

// Navigator tracks the selected index over a list of results and maps key
// presses onto it, wrapping around at both ends.
type Navigator[T any] struct {
	mu       sync.Mutex
	results  []T
	selected int
	onSelect func(T)
	onClose  func()
}

// NewNavigator creates a navigator. Either callback may be nil.
func NewNavigator[T any](onSelect func(T), onClose func()) *Navigator[T] {
	return &Navigator[T]{onSelect: onSelect, onClose: onClose}
}

// SetResults replaces the result list. The selection moves back to the
// first entry when the length changes.
func (n *Navigator[T]) SetResults(results []T) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(results) != len(n.results) {
		n.selected = 0
	}
	n.results = results
}

// Activate moves the selection back to the first entry.
func (n *Navigator[T]) Activate() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.selected = 0
}

// Selected returns the selected index.
func (n *Navigator[T]) Selected() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.selected
}

// Current returns the selected result, if any.
func (n *Navigator[T]) Current() (T, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	var zero T
	if len(n.results) == 0 {
		return zero, false
	}
	return n.results[n.selected], true
}

// HandleKey applies key and reports whether it was handled. Callers should
// suppress the key's default action when it was. On an empty list only
// KeyEscape is handled. Callbacks run without the navigator lock held.
func (n *Navigator[T]) HandleKey(key Key) bool {
	n.mu.Lock()

	if key == KeyEscape {
		n.mu.Unlock()
		if n.onClose != nil {
			n.onClose()
		}
		return true
	}

	count := len(n.results)
	if count == 0 {
		n.mu.Unlock()
		return false
	}

	switch key {
	case KeyArrowDown:
		n.selected = (n.selected + 1) % count
	case KeyArrowUp:
		n.selected = (n.selected - 1 + count) % count
	case KeyHome:
		n.selected = 0
	case KeyEnd:
		n.selected = count - 1
	case KeyEnter:
		item := n.results[n.selected]
		n.mu.Unlock()
		if n.onSelect != nil {
			n.onSelect(item)
		}
		return true
	default:
		n.mu.Unlock()
		return false
	}

	n.mu.Unlock()
	return true
}

package uistate

// History models a browser session history stack. Applying transitions to
// it reproduces what the client does with the same links.
type History struct {
	entries []string
}

// NewHistory starts a history at url.
func NewHistory(url string) *History {
	return &History{entries: []string{url}}
}

// Current returns the URL on top of the stack.
func (h *History) Current() string {
	return h.entries[len(h.entries)-1]
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Back pops the top entry. With a single entry left it reports false and
// leaves the stack unchanged.
func (h *History) Back() bool {
	if len(h.entries) < 2 {
		return false
	}
	h.entries = h.entries[:len(h.entries)-1]
	return true
}

// Apply performs t. A Back with nothing to pop replaces the only entry with
// the fallback URL.
func (h *History) Apply(t Transition) {
	switch t.Mode {
	case Push:
		h.entries = append(h.entries, t.URL)
	case Replace:
		h.entries[len(h.entries)-1] = t.URL
	case Back:
		if !h.Back() {
			h.entries[0] = t.URL
		}
	}
}

// Location parses the current entry. A malformed entry reads as the root.
func (h *History) Location() Location {
	loc, err := ParseLocation(h.Current())
	if err != nil {
		return Location{Path: "/"}
	}
	return loc
}

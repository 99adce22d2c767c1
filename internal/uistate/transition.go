package uistate

import "net/url"

// Mode is how a transition touches the history stack.
type Mode int

const (
	Push Mode = iota
	Replace
	Back
)

func (m Mode) String() string {
	switch m {
	case Push:
		return "push"
	case Replace:
		return "replace"
	case Back:
		return "back"
	default:
		return "unknown"
	}
}

// Location is a path plus its query.
type Location struct {
	Path  string
	Query url.Values
}

// ParseLocation splits a request URI into a Location.
func ParseLocation(raw string) (Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, err
	}
	return Location{Path: u.Path, Query: u.Query()}, nil
}

// URL renders the location as a path with an optional query string.
func (l Location) URL() string {
	path := l.Path
	if path == "" {
		path = "/"
	}
	if enc := l.Query.Encode(); enc != "" {
		return path + "?" + enc
	}
	return path
}

// State decodes the overlay state at l.
func (l Location) State() State {
	return Decode(l.Query)
}

// With returns l with its overlay state replaced.
func (l Location) With(s State) Location {
	return Location{Path: l.Path, Query: s.Apply(l.Query)}
}

// Transition is a navigation the client performs. For Back, URL is the
// fallback used when there is no entry to pop, such as a shared link that
// opened straight into an overlay.
type Transition struct {
	Mode Mode
	URL  string
}

func (l Location) push(s State) Transition {
	return Transition{Mode: Push, URL: l.With(s).URL()}
}

func (l Location) replace(s State) Transition {
	return Transition{Mode: Replace, URL: l.With(s).URL()}
}

// OpenMenu pushes an entry with the menu open.
func (l Location) OpenMenu() Transition {
	s := l.State()
	s.Menu = true
	return l.push(s)
}

// OpenArchive pushes an entry with the archive browser open, optionally
// pre-filtered to group.
func (l Location) OpenArchive(group string) Transition {
	s := l.State()
	s.Menu = false
	s.Archive = true
	s.Group = group
	return l.push(s)
}

// SelectGroup changes the archive filter in place. The "All" filter is
// the absence of a group.
func (l Location) SelectGroup(group string, all string) Transition {
	s := l.State()
	if group == all {
		group = ""
	}
	s.Group = group
	return l.replace(s)
}

// OpenDiagram pushes an entry with the diagram viewer open.
func (l Location) OpenDiagram() Transition {
	s := l.State()
	s.Diagram = true
	return l.push(s)
}

// OpenImage pushes an entry with image i shown in the lightbox.
func (l Location) OpenImage(i int) Transition {
	s := l.State()
	s.Image = i
	return l.push(s)
}

// NextImage replaces the current entry with the following image of n,
// wrapping around.
func (l Location) NextImage(n int) Transition {
	return l.stepImage(n, 1)
}

// PrevImage replaces the current entry with the preceding image of n,
// wrapping around.
func (l Location) PrevImage(n int) Transition {
	return l.stepImage(n, -1)
}

func (l Location) stepImage(n, delta int) Transition {
	s := l.State()
	if n > 0 && s.LightboxOpen() {
		s.Image = Wrap(s.Image+delta, n)
	}
	return l.replace(s)
}

// Close pops the current entry. The fallback URL is l with every overlay
// key removed.
func (l Location) Close() Transition {
	return Transition{Mode: Back, URL: l.With(Closed()).URL()}
}

// Wrap maps i into [0, n) cyclically.
func Wrap(i, n int) int {
	if n <= 0 {
		return 0
	}
	return ((i % n) + n) % n
}

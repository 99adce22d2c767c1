// Package uistate maps overlay state to and from the query string.
//
// Every overlay (menu, archive browser, diagram viewer, image lightbox) is
// open or closed purely as a function of the current URL. Opening pushes a
// history entry, stepping inside an open overlay replaces it, and closing
// pops it.
package uistate

import (
	"net/url"
	"strconv"
	"strings"
)

// Query keys.
const (
	KeyMenu    = "menu"
	KeyArchive = "archive"
	KeyGroup   = "group"
	KeyDiagram = "diagram"
	KeyImage   = "image"
)

// NoImage marks a closed lightbox.
const NoImage = -1

var overlayKeys = []string{KeyMenu, KeyArchive, KeyGroup, KeyDiagram, KeyImage}

// State is the typed form of the overlay query parameters.
type State struct {
	Menu    bool
	Archive bool
	Group   string
	Diagram bool
	Image   int
}

// Closed is the default state: nothing open, no filter.
func Closed() State {
	return State{Image: NoImage}
}

// Decode reads State from query values. Malformed values decode to their
// default rather than an error.
func Decode(q url.Values) State {
	s := Closed()
	s.Menu = q.Get(KeyMenu) == "true"
	s.Archive = q.Get(KeyArchive) == "true"
	s.Group = strings.TrimSpace(q.Get(KeyGroup))
	s.Diagram = q.Get(KeyDiagram) == "true"
	if raw := q.Get(KeyImage); raw != "" {
		if i, err := strconv.Atoi(raw); err == nil && i >= 0 {
			s.Image = i
		}
	}
	return s
}

// Apply returns a copy of q with the overlay keys replaced by s. Keys that
// are not overlay keys are kept. Default values are omitted.
func (s State) Apply(q url.Values) url.Values {
	out := url.Values{}
	for k, v := range q {
		out[k] = append([]string(nil), v...)
	}
	for _, k := range overlayKeys {
		out.Del(k)
	}
	if s.Menu {
		out.Set(KeyMenu, "true")
	}
	if s.Archive {
		out.Set(KeyArchive, "true")
	}
	if s.Group != "" {
		out.Set(KeyGroup, s.Group)
	}
	if s.Diagram {
		out.Set(KeyDiagram, "true")
	}
	if s.Image >= 0 {
		out.Set(KeyImage, strconv.Itoa(s.Image))
	}
	return out
}

// Encode returns only the overlay keys of s.
func (s State) Encode() url.Values {
	return s.Apply(nil)
}

// LightboxOpen reports whether an image is selected.
func (s State) LightboxOpen() bool {
	return s.Image >= 0
}

// AnyOpen reports whether any overlay is open.
func (s State) AnyOpen() bool {
	return s.Menu || s.Archive || s.Diagram || s.LightboxOpen()
}

// ScrollLocked reports whether the page body must not scroll. It depends
// on nothing but the state, so popping the entry that opened an overlay
// always releases the lock.
func (s State) ScrollLocked() bool {
	return s.AnyOpen()
}

// Bounds describes what the current page can actually show.
type Bounds struct {
	Images     int
	HasDiagram bool
	Archive    bool
	ValidGroup func(string) bool
}

// Resolve closes any sub-state that does not resolve against b. It never
// fails: an unknown image, diagram or group simply reads as closed.
func Resolve(s State, b Bounds) State {
	if s.Image >= b.Images {
		s.Image = NoImage
	}
	if !b.HasDiagram {
		s.Diagram = false
	}
	if !b.Archive {
		s.Archive = false
	}
	if s.Group != "" && (b.ValidGroup == nil || !b.ValidGroup(s.Group)) {
		s.Group = ""
	}
	if !s.Archive {
		s.Group = ""
	}
	return s
}

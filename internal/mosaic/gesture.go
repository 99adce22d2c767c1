package mosaic

import "math"

// DragThreshold is the pointer travel, in pixels, below which a drag is
// still a click on the card underneath.
const DragThreshold = 5.0

// ActiveRatio is the visible fraction at which a column becomes active.
const ActiveRatio = 0.5

// Settings are the gesture values the browser strip reads from its data
// attributes.
type Settings struct {
	DragThreshold  float64 `json:"dragThreshold"`
	ActiveRatio    float64 `json:"activeRatio"`
	AutoplayMillis int64   `json:"autoplayInterval"`
}

// DefaultSettings returns the package constants as Settings.
func DefaultSettings() Settings {
	return Settings{
		DragThreshold:  DragThreshold,
		ActiveRatio:    ActiveRatio,
		AutoplayMillis: AutoplayInterval.Milliseconds(),
	}
}

// Drag tracks one pointer drag across the strip.
type Drag struct {
	active      bool
	moved       bool
	startX      float64
	startScroll float64
}

// Start begins a drag at pointer x with the strip scrolled to scroll.
func (d *Drag) Start(x, scroll float64) {
	*d = Drag{active: true, startX: x, startScroll: scroll}
}

// Active reports whether a drag is in progress.
func (d *Drag) Active() bool { return d.active }

// Move returns the scroll position for pointer x. Until the pointer has
// travelled past DragThreshold the strip does not move.
func (d *Drag) Move(x float64) float64 {
	if !d.active {
		return d.startScroll
	}
	delta := x - d.startX
	if math.Abs(delta) > DragThreshold {
		d.moved = true
	}
	if !d.moved {
		return d.startScroll
	}
	return d.startScroll - delta
}

// End finishes the drag and reports whether the click that follows it
// must be suppressed.
func (d *Drag) End() bool {
	suppress := d.active && d.moved
	*d = Drag{}
	return suppress
}

// WheelDelta remaps wheel input to horizontal travel. Vertical scrolling
// drives the strip unless the horizontal component dominates.
func WheelDelta(dx, dy float64) float64 {
	if math.Abs(dy) > math.Abs(dx) {
		return dy
	}
	return dx
}

// ActiveColumn returns the first column whose visible ratio exceeds
// ActiveRatio. When none does, current is kept.
func ActiveColumn(visible []float64, current int) int {
	for i, r := range visible {
		if r > ActiveRatio {
			return i
		}
	}
	return current
}

// CenterScroll returns the scroll offset that centres a column at left
// with the given width in a viewport, clamped to [0, maxScroll].
func CenterScroll(left, width, viewport, maxScroll float64) float64 {
	target := left - (viewport-width)/2
	return math.Max(0, math.Min(target, maxScroll))
}

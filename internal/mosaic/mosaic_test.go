package mosaic

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashjamm/portfolio/internal/content"
)

func projects(n int) []content.Project {
	out := make([]content.Project, n)
	for i := range out {
		out[i] = content.Project{ID: fmt.Sprintf("p%d", i)}
	}
	return out
}

func TestGroupFollowsPattern(t *testing.T) {
	cols := Group(projects(8), nil)

	// 1, 2, 2, 1, 2
	require.Len(t, cols, 5)
	sizes := make([]int, len(cols))
	for i, c := range cols {
		sizes[i] = len(c.Projects)
		assert.Equal(t, i, c.Index)
	}
	assert.Equal(t, []int{1, 2, 2, 1, 2}, sizes)
	assert.Equal(t, Hero, cols[0].Kind)
	assert.Equal(t, Stacked, cols[1].Kind)
	assert.Equal(t, "p7", cols[4].Projects[1].ID)
}

func TestGroupTrailingPartialColumn(t *testing.T) {
	cols := Group(projects(4), []int{1, 2})
	require.Len(t, cols, 3)
	assert.Len(t, cols[2].Projects, 1)
}

func TestGroupKeepsEveryProjectOnce(t *testing.T) {
	in := projects(13)
	var seen []string
	for _, c := range Group(in, DefaultPattern) {
		for _, p := range c.Projects {
			seen = append(seen, p.ID)
		}
	}
	require.Len(t, seen, len(in))
	for i, p := range in {
		assert.Equal(t, p.ID, seen[i])
	}
	assert.Empty(t, Group(nil, nil))
}

func TestGroupInvalidPatternFallsBack(t *testing.T) {
	assert.Equal(t, Group(projects(6), DefaultPattern), Group(projects(6), []int{0, 3}))
}

func TestDragBelowThresholdIsClick(t *testing.T) {
	var d Drag
	d.Start(100, 40)
	assert.Equal(t, 40.0, d.Move(103))
	assert.Equal(t, 40.0, d.Move(95))
	assert.False(t, d.End(), "click passes through")
	assert.False(t, d.Active())
}

func TestDragAboveThresholdPans(t *testing.T) {
	var d Drag
	d.Start(100, 40)
	assert.Equal(t, 70.0, d.Move(70))
	// Coming back under the threshold still pans once the drag has moved.
	assert.Equal(t, 38.0, d.Move(102))
	assert.True(t, d.End(), "click is suppressed")
}

func TestWheelDelta(t *testing.T) {
	assert.Equal(t, 30.0, WheelDelta(2, 30))
	assert.Equal(t, -12.0, WheelDelta(-12, 4))
}

func TestActiveColumn(t *testing.T) {
	assert.Equal(t, 1, ActiveColumn([]float64{0.2, 0.8, 0.1}, 0))
	assert.Equal(t, 2, ActiveColumn([]float64{0.4, 0.5, 0.3}, 2), "exactly half is not a majority")
}

func TestCenterScroll(t *testing.T) {
	assert.Equal(t, 700.0, CenterScroll(1000, 400, 1000, 5000))
	assert.Equal(t, 0.0, CenterScroll(100, 400, 1000, 5000))
	assert.Equal(t, 500.0, CenterScroll(1000, 400, 1000, 500))
}

func TestCounter(t *testing.T) {
	c := NewCounter(3)
	assert.Equal(t, 1, c.Advance())
	assert.Equal(t, 2, c.Advance())
	assert.Equal(t, 0, c.Advance())
	c.Set(-1)
	assert.Equal(t, 2, c.Value())
	assert.Equal(t, "03 / 03", c.Label())

	assert.Equal(t, "01 / 12", NewCounter(12).Label())
	assert.Equal(t, "00 / 00", NewCounter(0).Label())
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, DragThreshold, s.DragThreshold)
	assert.Equal(t, ActiveRatio, s.ActiveRatio)
	assert.EqualValues(t, 4000, s.AutoplayMillis)
}

func TestAutoplayPauseDropsTicks(t *testing.T) {
	var steps atomic.Int64
	a := NewAutoplay(time.Millisecond, func() { steps.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	require.Eventually(t, func() bool { return steps.Load() > 2 }, time.Second, time.Millisecond)

	a.Pause()
	assert.True(t, a.Paused())
	time.Sleep(5 * time.Millisecond) // let an in-flight step finish
	paused := steps.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, paused, steps.Load())

	a.Resume()
	require.Eventually(t, func() bool { return steps.Load() > paused }, time.Second, time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

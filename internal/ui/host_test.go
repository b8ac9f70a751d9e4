package ui

import (
	"image/color"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/anchorswipe/internal/model"
	"github.com/ytget/anchorswipe/internal/swipe"
)

func newTestDrawer(t *testing.T, initial model.StateLabel) (*SideDrawer, *swipe.ManualClock) {
	t.Helper()
	test.NewApp()

	clock := swipe.NewManualClock()
	d, err := NewSideDrawer(widget.NewLabel("content"), widget.NewLabel("pane"), initial,
		swipe.WithClock(clock), swipe.WithLogger(slogt.New(t)))
	require.NoError(t, err)
	t.Cleanup(d.Dispose)

	d.Resize(fyne.NewSize(400, 600))
	return d, clock
}

func newTestSheet(t *testing.T, initial model.StateLabel) (*BottomSheet, *swipe.ManualClock) {
	t.Helper()
	test.NewApp()

	clock := swipe.NewManualClock()
	b, err := NewBottomSheet(widget.NewLabel("content"), widget.NewLabel("sheet"), initial,
		swipe.WithClock(clock), swipe.WithLogger(slogt.New(t)))
	require.NoError(t, err)
	t.Cleanup(b.Dispose)

	b.Resize(fyne.NewSize(400, 600))
	return b, clock
}

func drag(h fyne.Draggable, x, y, dx, dy float32) {
	h.Dragged(&fyne.DragEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x+dx, y+dy)},
		Dragged:    fyne.NewDelta(dx, dy),
	})
}

// runAnimation waits for the pending transition to subscribe and plays it out
func runAnimation(t *testing.T, clock *swipe.ManualClock) {
	t.Helper()
	require.Eventually(t, func() bool { return clock.Subscribers() == 1 },
		time.Second, time.Millisecond, "no animation started")
	clock.Advance(400*time.Millisecond, swipe.DefaultFrameInterval)
}

func waitSettled(t *testing.T, state *swipe.State, label model.StateLabel) {
	t.Helper()
	require.Eventually(t, func() bool {
		snap := state.Snapshot()
		return snap.IsSettled(state.Anchors()) && snap.CurrentValue == label
	}, time.Second, time.Millisecond, "panel did not settle on %s", label)
}

type recordingDraggable struct {
	deltas []fyne.Delta
	ends   int
}

func (r *recordingDraggable) Dragged(ev *fyne.DragEvent) { r.deltas = append(r.deltas, ev.Dragged) }
func (r *recordingDraggable) DragEnd()                   { r.ends++ }

func TestSideDrawer_ResizeReanchors(t *testing.T) {
	d, _ := newTestDrawer(t, model.StateOpen)

	assert.Equal(t, 320.0, d.State().Anchors().Travel(), "capped at the default width")
	assert.Equal(t, -320.0, d.State().Snapshot().Offset)

	d.Resize(fyne.NewSize(200, 600))
	assert.Equal(t, 170.0, d.State().Anchors().Travel())
	waitSettled(t, d.State(), model.StateOpen)
	assert.Equal(t, -170.0, d.State().Snapshot().Offset)
}

func TestSideDrawer_EdgeDragOpens(t *testing.T) {
	d, clock := newTestDrawer(t, model.StateClosed)

	drag(d, 10, 300, 200, 0)
	assert.Equal(t, -200.0, d.State().Snapshot().Offset)

	r := test.WidgetRenderer(d).(*hostRenderer)
	r.Layout(d.Size())
	assert.Equal(t, float32(-120), r.pane.Position().X)
	assert.Equal(t, float32(320), r.pane.Size().Width)
	assert.True(t, d.scrim.Visible())

	d.DragEnd()
	runAnimation(t, clock)
	waitSettled(t, d.State(), model.StateOpen)

	r.Layout(d.Size())
	assert.Equal(t, float32(0), r.pane.Position().X)
}

func TestSideDrawer_ShortDragSnapsBack(t *testing.T) {
	d, clock := newTestDrawer(t, model.StateClosed)

	drag(d, 0, 300, 100, 0)
	d.DragEnd()
	runAnimation(t, clock)
	waitSettled(t, d.State(), model.StateClosed)

	r := test.WidgetRenderer(d).(*hostRenderer)
	r.Layout(d.Size())
	assert.False(t, d.scrim.Visible())
	assert.False(t, r.pane.Visible())
}

func TestSideDrawer_DragAwayFromEdgeIgnored(t *testing.T) {
	d, _ := newTestDrawer(t, model.StateClosed)

	drag(d, 100, 300, 200, 0)
	d.DragEnd()

	assert.Equal(t, 0.0, d.State().Snapshot().Offset)
	assert.False(t, d.State().Snapshot().IsAnimationRunning)
}

func TestSideDrawer_DeclinedDragStaysDeclined(t *testing.T) {
	d, _ := newTestDrawer(t, model.StateClosed)

	// one gesture that starts mid-screen, passes through the edge zone and
	// turns back toward the content
	x := float32(200)
	for _, dx := range []float32{-60, -60, -60, -10, 100, 100} {
		drag(d, x, 300, dx, 0)
		x += dx
		assert.Equal(t, 0.0, d.State().Snapshot().Offset, "pointer at x=%v", x)
	}
	d.DragEnd()
	assert.False(t, d.State().Snapshot().IsAnimationRunning)

	// the next gesture is judged afresh
	drag(d, 5, 300, 100, 0)
	assert.Equal(t, -100.0, d.State().Snapshot().Offset)
}

func TestSideDrawer_DragRightAfterRelease(t *testing.T) {
	d, clock := newTestDrawer(t, model.StateClosed)

	drag(d, 5, 300, 200, 0)
	d.DragEnd()
	drag(d, 205, 300, 30, 0)

	require.Never(t, func() bool { return clock.Subscribers() > 0 },
		50*time.Millisecond, 5*time.Millisecond, "the second gesture is still being dragged")
	snap := d.State().Snapshot()
	assert.Equal(t, -230.0, snap.Offset)
	assert.False(t, snap.IsAnimationRunning)

	d.DragEnd()
	runAnimation(t, clock)
	waitSettled(t, d.State(), model.StateOpen)
}

func TestSideDrawer_VerticalDragIgnoredWhenClosed(t *testing.T) {
	d, _ := newTestDrawer(t, model.StateClosed)

	drag(d, 5, 300, 5, 80)
	d.DragEnd()

	assert.Equal(t, 0.0, d.State().Snapshot().Offset)
}

func TestSideDrawer_FlingOpens(t *testing.T) {
	d, clock := newTestDrawer(t, model.StateClosed)

	fake := &fakeClock{now: time.Unix(1000, 0)}
	d.tracker.now = fake.Now

	drag(d, 5, 300, 20, 0)
	fake.advance(10 * time.Millisecond)
	drag(d, 25, 300, 20, 0)
	fake.advance(10 * time.Millisecond)
	drag(d, 45, 300, 20, 0)

	// 60 of 320 is far below the positional threshold
	assert.Equal(t, -60.0, d.State().Snapshot().Offset)

	d.DragEnd()
	runAnimation(t, clock)
	waitSettled(t, d.State(), model.StateOpen)
}

func TestSideDrawer_DragClosesOpenDrawer(t *testing.T) {
	d, clock := newTestDrawer(t, model.StateOpen)

	// open drawers react to drags anywhere
	drag(d, 300, 300, -250, 0)
	assert.Equal(t, -70.0, d.State().Snapshot().Offset)

	d.DragEnd()
	runAnimation(t, clock)
	waitSettled(t, d.State(), model.StateClosed)
}

func TestSideDrawer_TapOutsideCloses(t *testing.T) {
	d, clock := newTestDrawer(t, model.StateOpen)

	d.Tapped(&fyne.PointEvent{Position: fyne.NewPos(100, 300)})
	require.Never(t, func() bool { return clock.Subscribers() > 0 },
		50*time.Millisecond, 5*time.Millisecond, "a tap on the pane must not close it")

	d.scrim.Tapped(&fyne.PointEvent{Position: fyne.NewPos(380, 300)})
	runAnimation(t, clock)
	waitSettled(t, d.State(), model.StateClosed)
}

func TestSideDrawer_TapWhenClosedIgnored(t *testing.T) {
	d, clock := newTestDrawer(t, model.StateClosed)

	d.Tapped(&fyne.PointEvent{Position: fyne.NewPos(380, 300)})
	require.Never(t, func() bool { return clock.Subscribers() > 0 },
		50*time.Millisecond, 5*time.Millisecond)
	assert.Equal(t, model.StateClosed, d.State().Snapshot().TargetValue)
}

func TestSideDrawer_ScrimAlpha(t *testing.T) {
	d, _ := newTestDrawer(t, model.StateOpen)

	d.SetScrimAlpha(0.5)
	c := d.scrimColor().(color.NRGBA)
	assert.Equal(t, uint8(128), c.A)

	d.SetScrimAlpha(3)
	c = d.scrimColor().(color.NRGBA)
	assert.Equal(t, uint8(255), c.A, "alpha is clamped to 1")
}

func TestSideDrawer_ScrimWithoutDrawerTheme(t *testing.T) {
	d, _ := newTestDrawer(t, model.StateOpen)
	fyne.CurrentApp().Settings().SetTheme(theme.LightTheme())

	d.SetScrimAlpha(1)
	assert.Equal(t, color.NRGBA{A: 255}, d.scrimColor())

	fyne.CurrentApp().Settings().SetTheme(NewDrawerTheme())
	assert.Equal(t, color.NRGBA{A: 255}, d.scrimColor())
}

func TestSideDrawer_ToggleAndSettledCallback(t *testing.T) {
	d, clock := newTestDrawer(t, model.StateClosed)

	settled := make(chan model.StateLabel, 4)
	d.SetOnSettled(func(label model.StateLabel) { settled <- label })

	d.Toggle()
	runAnimation(t, clock)
	waitSettled(t, d.State(), model.StateOpen)
	assert.Equal(t, model.StateOpen, <-settled)

	d.Toggle()
	runAnimation(t, clock)
	waitSettled(t, d.State(), model.StateClosed)
	assert.Equal(t, model.StateClosed, <-settled)
}

func TestSideDrawer_TouchCancelSettles(t *testing.T) {
	d, clock := newTestDrawer(t, model.StateClosed)

	d.TouchDown(&mobile.TouchEvent{})
	drag(d, 0, 300, 220, 0)
	d.TouchCancel(&mobile.TouchEvent{})

	runAnimation(t, clock)
	waitSettled(t, d.State(), model.StateOpen)
}

func TestSideDrawer_ExtentFunc(t *testing.T) {
	d, _ := newTestDrawer(t, model.StateClosed)

	d.SetExtentFunc(func(size fyne.Size) float32 { return size.Width / 2 })
	assert.Equal(t, 200.0, d.State().Anchors().Travel())
}

func TestSideDrawer_InvalidInitialFallsBack(t *testing.T) {
	d, _ := newTestDrawer(t, "Half")
	assert.Equal(t, model.StateClosed, d.State().Saved())
}

func TestBottomSheet_DragUpOpens(t *testing.T) {
	b, clock := newTestSheet(t, model.StateClosed)
	assert.Equal(t, 300.0, b.State().Anchors().Travel())

	drag(b, 200, 590, 0, -200)
	assert.Equal(t, -200.0, b.State().Snapshot().Offset)

	r := test.WidgetRenderer(b).(*hostRenderer)
	r.Layout(b.Size())
	assert.Equal(t, float32(400), r.pane.Position().Y)
	assert.Equal(t, float32(300), r.pane.Size().Height)

	b.DragEnd()
	runAnimation(t, clock)
	waitSettled(t, b.State(), model.StateOpen)
}

func TestBottomSheet_DragDownCloses(t *testing.T) {
	b, clock := newTestSheet(t, model.StateOpen)

	drag(b, 200, 320, 0, 200)
	assert.Equal(t, -100.0, b.State().Snapshot().Offset)

	b.DragEnd()
	runAnimation(t, clock)
	waitSettled(t, b.State(), model.StateClosed)
}

func TestBottomSheet_ForwardsUnclaimedDrags(t *testing.T) {
	b, _ := newTestSheet(t, model.StateClosed)

	rec := &recordingDraggable{}
	b.SetFallback(rec)

	drag(b, 5, 300, 30, 2)
	drag(b, 35, 302, 30, 2)
	b.DragEnd()

	assert.Len(t, rec.deltas, 2)
	assert.Equal(t, 1, rec.ends)
	assert.Equal(t, 0.0, b.State().Snapshot().Offset)

	// the next drag is judged afresh
	drag(b, 200, 595, 0, -50)
	b.DragEnd()
	assert.Len(t, rec.deltas, 2)
}

func TestBottomSheet_DisposeStopsAnimation(t *testing.T) {
	b, clock := newTestSheet(t, model.StateClosed)

	b.Open()
	require.Eventually(t, func() bool { return clock.Subscribers() == 1 }, time.Second, time.Millisecond)
	clock.Step(swipe.DefaultFrameInterval)

	b.Dispose()
	require.Eventually(t, func() bool { return clock.Subscribers() == 0 }, time.Second, time.Millisecond)
	assert.Equal(t, model.StateClosed, b.State().Saved())
}

package ui

import (
	"context"
	"image/color"
	"log/slog"
	"math"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/anchorswipe/internal/config"
	"github.com/ytget/anchorswipe/internal/model"
	"github.com/ytget/anchorswipe/internal/swipe"
)

type axis int

const (
	horizontal axis = iota
	vertical
)

// host is the shared part of SideDrawer and BottomSheet: a content object
// with a panel that slides over it, driven by a swipe.State whose Closed
// anchor hides the panel and whose Open anchor shows it fully.
type host struct {
	widget.BaseWidget

	axis    axis
	content fyne.CanvasObject
	panel   fyne.CanvasObject
	state   *swipe.State
	logger  *slog.Logger
	extent  func(fyne.Size) float32
	scrim   *scrim

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	scrimAlpha float64
	onSettled  func(model.StateLabel)
	settled    model.StateLabel
	fallback   fyne.Draggable

	// drag tracking; fyne delivers pointer events on one goroutine
	tracker    *VelocityTracker
	dragging   bool
	forwarding bool
	ignoring   bool
}

func (h *host) init(ax axis, content, panel fyne.CanvasObject, initial model.StateLabel, travel float32, opts []swipe.Option) error {
	anchors, err := model.NewDrawerAnchors(float64(travel))
	if err != nil {
		return err
	}
	state, err := swipe.Restore(initial, anchors, opts...)
	if err != nil {
		return err
	}

	h.axis = ax
	h.content = content
	h.panel = panel
	h.state = state
	h.logger = slog.Default().With("panel", state.Name())
	h.tracker = NewVelocityTracker()
	h.scrimAlpha = config.DefaultScrimAlpha
	h.settled = state.Snapshot().CurrentValue
	h.ctx, h.cancel = context.WithCancel(context.Background())
	h.scrim = newScrim(h)

	state.SetUpdateCallback(h.onUpdate)
	return nil
}

// State returns the swipe state driving the panel
func (h *host) State() *swipe.State {
	return h.state
}

// Open animates the panel open without blocking the caller
func (h *host) Open() {
	h.animate(model.StateOpen)
}

// Close animates the panel closed without blocking the caller
func (h *host) Close() {
	h.animate(model.StateClosed)
}

// Toggle opens a closed panel and closes an open one
func (h *host) Toggle() {
	if h.state.Snapshot().TargetValue.IsOpen() {
		h.Close()
		return
	}
	h.Open()
}

func (h *host) animate(target model.StateLabel) {
	go func() {
		result, err := h.state.AnimateTo(h.ctx, target)
		if err != nil {
			h.logger.Debug("animation ended", "target", target, "result", result, "error", err)
		}
	}()
}

// SetScrimAlpha sets the scrim opacity used when the panel is fully open
func (h *host) SetScrimAlpha(alpha float64) {
	h.mu.Lock()
	h.scrimAlpha = math.Max(0, math.Min(1, alpha))
	h.mu.Unlock()
	h.Refresh()
}

// SetExtentFunc sets how the panel travel is derived from the widget size
func (h *host) SetExtentFunc(extent func(fyne.Size) float32) {
	h.extent = extent
	if size := h.Size(); !size.IsZero() {
		h.reanchor(size)
	}
}

// SetOnSettled sets the function called when the panel comes to rest on a
// different anchor
func (h *host) SetOnSettled(fn func(model.StateLabel)) {
	h.mu.Lock()
	h.onSettled = fn
	h.mu.Unlock()
}

// SetFallback sets where drags this panel does not claim are forwarded
func (h *host) SetFallback(d fyne.Draggable) {
	h.fallback = d
}

// Dispose cancels pending animations and detaches the swipe state
func (h *host) Dispose() {
	h.cancel()
	h.state.Dispose()
}

// Resize re-anchors the state when the travel changes
func (h *host) Resize(size fyne.Size) {
	h.BaseWidget.Resize(size)
	h.reanchor(size)
}

func (h *host) reanchor(size fyne.Size) {
	if h.extent == nil {
		return
	}
	travel := h.extent(size)
	if travel <= 0 {
		return
	}
	if math.Abs(h.state.Anchors().Travel()-float64(travel)) <= float64(ReanchorTolerance) {
		return
	}

	anchors, err := model.NewDrawerAnchors(float64(travel))
	if err != nil {
		h.logger.Warn("cannot rebuild anchors", "travel", travel, "error", err)
		return
	}
	if err := h.state.Reanchor(anchors); err != nil {
		h.logger.Debug("reanchor skipped", "error", err)
	}
}

func (h *host) onUpdate(snap model.Snapshot) {
	fyne.Do(h.Refresh)

	if snap.IsAnimationRunning || snap.CurrentValue != snap.TargetValue {
		return
	}

	h.mu.Lock()
	changed := snap.CurrentValue != h.settled
	h.settled = snap.CurrentValue
	fn := h.onSettled
	h.mu.Unlock()

	if changed && fn != nil {
		fn(snap.CurrentValue)
	}
}

// travel is the current distance between the anchors
func (h *host) travel() float32 {
	return float32(h.state.Anchors().Travel())
}

// openFraction is 0 when closed and 1 when fully open
func (h *host) openFraction() float64 {
	return h.state.Snapshot().Fraction(h.state.Anchors(), model.StateClosed, model.StateOpen)
}

func (h *host) along(v fyne.Position) float32 {
	if h.axis == horizontal {
		return v.X
	}
	return v.Y
}

// toOffset converts a pointer delta to an offset delta
func (h *host) toOffset(d fyne.Delta) float64 {
	if h.axis == horizontal {
		return float64(-d.DX)
	}
	return float64(d.DY)
}

// velocitySign maps pointer velocity to offset velocity
func (h *host) velocitySign() float64 {
	if h.axis == horizontal {
		return -1
	}
	return 1
}

// claims reports whether a drag starting at start with first delta d moves
// this panel. A closed panel only reacts to edge swipes along its axis.
func (h *host) claims(start fyne.Position, d fyne.Delta) bool {
	snap := h.state.Snapshot()
	if snap.CurrentValue != model.StateClosed || snap.TargetValue != model.StateClosed || snap.Offset != 0 {
		return true
	}

	along, across := math.Abs(float64(d.DX)), math.Abs(float64(d.DY))
	if h.axis == vertical {
		along, across = across, along
	}
	if along < across {
		return false
	}

	if h.axis == horizontal {
		return start.X <= EdgeSwipeWidth
	}
	return start.Y >= h.Size().Height-EdgeSwipeWidth
}

// Dragged implements fyne.Draggable
func (h *host) Dragged(ev *fyne.DragEvent) {
	if h.ignoring {
		return
	}
	if !h.dragging && !h.forwarding {
		start := fyne.NewPos(ev.Position.X-ev.Dragged.DX, ev.Position.Y-ev.Dragged.DY)
		if !h.claims(start, ev.Dragged) {
			if h.fallback == nil {
				h.ignoring = true
				return
			}
			h.forwarding = true
		} else {
			h.dragging = true
			h.tracker.Reset()
			h.state.DragStart()
		}
	}

	if h.forwarding {
		h.fallback.Dragged(ev)
		return
	}

	h.tracker.Add(h.along(ev.Position))
	h.state.Drag(h.toOffset(ev.Dragged))
}

// DragEnd implements fyne.Draggable
func (h *host) DragEnd() {
	h.ignoring = false
	if h.forwarding {
		h.forwarding = false
		h.fallback.DragEnd()
		return
	}
	if !h.dragging {
		return
	}
	h.dragging = false
	h.release(h.velocitySign() * h.tracker.Velocity())
}

// release ends the drag now and waits for the settle in the background, so
// a gesture that starts right after is never ended by this one
func (h *host) release(velocity float64) {
	settle := h.state.BeginRelease(velocity)
	go func() {
		result, err := settle(h.ctx)
		if err != nil {
			h.logger.Debug("release ended", "velocity", velocity, "result", result, "error", err)
		}
	}()
}

// Tapped implements fyne.Tappable; a tap outside an open panel closes it
func (h *host) Tapped(ev *fyne.PointEvent) {
	if h.openFraction() == 0 || h.panelContains(ev.Position) {
		return
	}
	h.Close()
}

// TouchDown implements mobile.Touchable
func (h *host) TouchDown(*mobile.TouchEvent) {
	h.tracker.Reset()
}

// TouchUp implements mobile.Touchable
func (h *host) TouchUp(*mobile.TouchEvent) {}

// TouchCancel implements mobile.Touchable; a cancelled touch settles the
// panel from where it was left
func (h *host) TouchCancel(*mobile.TouchEvent) {
	h.ignoring = false
	if h.dragging {
		h.dragging = false
		h.release(0)
	}
}

// panelRect returns the panel position and size for the given host size
func (h *host) panelRect(size fyne.Size) (fyne.Position, fyne.Size) {
	travel := h.travel()
	offset := float32(h.state.Snapshot().Offset)
	if h.axis == horizontal {
		return fyne.NewPos(-travel-offset, 0), fyne.NewSize(travel, size.Height)
	}
	return fyne.NewPos(0, size.Height+offset), fyne.NewSize(size.Width, travel)
}

func (h *host) panelContains(p fyne.Position) bool {
	pos, size := h.panelRect(h.Size())
	return p.X >= pos.X && p.X < pos.X+size.Width && p.Y >= pos.Y && p.Y < pos.Y+size.Height
}

func (h *host) scrimColor() color.Color {
	h.mu.Lock()
	alpha := h.scrimAlpha
	h.mu.Unlock()

	base := color.NRGBAModel.Convert(scrimBase()).(color.NRGBA)
	base.A = uint8(math.Round(255 * alpha * h.openFraction()))
	return base
}

// CreateRenderer implements fyne.Widget
func (h *host) CreateRenderer() fyne.WidgetRenderer {
	background := canvas.NewRectangle(themeColor(theme.ColorNameOverlayBackground))
	pane := container.NewStack(background, h.panel)

	r := &hostRenderer{
		host:       h,
		background: background,
		pane:       pane,
		objects:    []fyne.CanvasObject{h.content, h.scrim, pane},
	}
	r.Layout(h.Size())
	return r
}

type hostRenderer struct {
	host       *host
	background *canvas.Rectangle
	pane       *fyne.Container
	objects    []fyne.CanvasObject
}

func (r *hostRenderer) Layout(size fyne.Size) {
	r.host.content.Move(fyne.NewPos(0, 0))
	r.host.content.Resize(size)

	r.host.scrim.Move(fyne.NewPos(0, 0))
	r.host.scrim.Resize(size)

	pos, paneSize := r.host.panelRect(size)
	r.pane.Move(pos)
	r.pane.Resize(paneSize)

	if r.host.openFraction() > 0 {
		r.host.scrim.Show()
		r.pane.Show()
	} else {
		r.host.scrim.Hide()
		r.pane.Hide()
	}
}

func (r *hostRenderer) MinSize() fyne.Size {
	return r.host.content.MinSize()
}

func (r *hostRenderer) Refresh() {
	r.background.FillColor = themeColor(theme.ColorNameOverlayBackground)
	r.host.scrim.rect.FillColor = r.host.scrimColor()
	r.Layout(r.host.Size())

	r.background.Refresh()
	r.host.scrim.rect.Refresh()
	canvas.Refresh(r.pane)
}

func (r *hostRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

// Destroy leaves the state alone; fyne may recreate renderers for live widgets
func (r *hostRenderer) Destroy() {}

// scrim dims the content under an open panel and catches taps and drags
// that would otherwise reach it
type scrim struct {
	widget.BaseWidget
	rect *canvas.Rectangle
	host *host
}

func newScrim(h *host) *scrim {
	s := &scrim{rect: canvas.NewRectangle(color.Transparent), host: h}
	s.ExtendBaseWidget(s)
	s.Hide()
	return s
}

func (s *scrim) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(s.rect)
}

func (s *scrim) Tapped(ev *fyne.PointEvent) {
	s.host.Tapped(ev)
}

func (s *scrim) Dragged(ev *fyne.DragEvent) {
	s.host.Dragged(ev)
}

func (s *scrim) DragEnd() {
	s.host.DragEnd()
}

// scrimBase asks the theme for ColorNameScrim only when it is a DrawerTheme;
// other themes do not know the name and log on every lookup
func scrimBase() color.Color {
	if _, ok := fyne.CurrentApp().Settings().Theme().(*DrawerTheme); ok {
		if c := themeColor(ColorNameScrim); c != nil {
			return c
		}
	}
	return color.Black
}

func themeColor(name fyne.ThemeColorName) color.Color {
	settings := fyne.CurrentApp().Settings()
	return settings.Theme().Color(name, settings.ThemeVariant())
}

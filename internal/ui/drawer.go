package ui

import (
	"fyne.io/fyne/v2"

	"github.com/ytget/anchorswipe/internal/model"
	"github.com/ytget/anchorswipe/internal/swipe"
)

// SideDrawer is a navigation drawer that slides in from the leading edge
// over its content. The drawer travel is its width: offset 0 hides the
// pane, offset -width shows it. Dragging right opens it.
type SideDrawer struct {
	host
}

var (
	_ fyne.Draggable = (*SideDrawer)(nil)
	_ fyne.Tappable  = (*SideDrawer)(nil)
)

// NewSideDrawer creates a drawer over content, restored to initial. The
// drawer is DefaultDrawerWidth wide until it is first laid out.
func NewSideDrawer(content, pane fyne.CanvasObject, initial model.StateLabel, opts ...swipe.Option) (*SideDrawer, error) {
	d := &SideDrawer{}
	opts = append([]swipe.Option{swipe.WithName("drawer")}, opts...)
	if err := d.init(horizontal, content, pane, initial, DefaultDrawerWidth, opts); err != nil {
		return nil, err
	}
	d.extent = func(size fyne.Size) float32 {
		return min(DefaultDrawerWidth, size.Width*DrawerWidthFraction)
	}
	d.ExtendBaseWidget(d)
	return d, nil
}

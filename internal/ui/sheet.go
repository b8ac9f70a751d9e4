package ui

import (
	"fyne.io/fyne/v2"

	"github.com/ytget/anchorswipe/internal/config"
	"github.com/ytget/anchorswipe/internal/model"
	"github.com/ytget/anchorswipe/internal/swipe"
)

// BottomSheet is a panel that slides up from the bottom edge. Its travel is
// the sheet height: offset 0 hides it below the content, offset -height
// shows it. Dragging up opens it.
type BottomSheet struct {
	host
}

var (
	_ fyne.Draggable = (*BottomSheet)(nil)
	_ fyne.Tappable  = (*BottomSheet)(nil)
)

// NewBottomSheet creates a sheet over content, restored to initial
func NewBottomSheet(content, sheet fyne.CanvasObject, initial model.StateLabel, opts ...swipe.Option) (*BottomSheet, error) {
	b := &BottomSheet{}
	opts = append([]swipe.Option{swipe.WithName("sheet")}, opts...)
	if err := b.init(vertical, content, sheet, initial, DefaultSheetHeight, opts); err != nil {
		return nil, err
	}
	b.extent = func(size fyne.Size) float32 {
		return size.Height * config.DefaultSheetHeightFraction
	}
	b.ExtendBaseWidget(b)
	return b, nil
}

package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/anchorswipe/internal/config"
)

// MobileUI sizes panels for the current device and orientation
type MobileUI struct {
	settings *config.Settings
	device   fyne.Device
}

// NewMobileUI creates a new mobile UI helper
func NewMobileUI(settings *config.Settings) *MobileUI {
	return &MobileUI{settings: settings, device: fyne.CurrentDevice()}
}

// IsMobileDevice checks if the app is running on a mobile device
func (m *MobileUI) IsMobileDevice() bool {
	return m.device.IsMobile()
}

// IsLandscape returns true if device is in landscape orientation
func (m *MobileUI) IsLandscape() bool {
	orientation := m.device.Orientation()
	return orientation == fyne.OrientationHorizontalLeft || orientation == fyne.OrientationHorizontalRight
}

// DrawerWidth returns the drawer width for a window of the given width.
// Landscape phones get a narrower drawer.
func (m *MobileUI) DrawerWidth(windowWidth float32) float32 {
	fraction := DrawerWidthFraction
	if m.IsMobileDevice() && m.IsLandscape() {
		fraction = LandscapeDrawerRatio
	}
	return min(float32(m.settings.GetDrawerMaxWidth()), windowWidth*fraction)
}

// SheetHeight returns the sheet height for a window of the given height.
// In landscape the sheet takes the full height.
func (m *MobileUI) SheetHeight(windowHeight float32) float32 {
	if m.IsMobileDevice() && m.IsLandscape() {
		return windowHeight
	}
	return windowHeight * float32(m.settings.GetSheetHeightFraction())
}

// CreateMobileButton creates a button optimized for mobile touch
func (m *MobileUI) CreateMobileButton(text string, onTapped func()) *widget.Button {
	btn := widget.NewButton(text, onTapped)

	if m.IsMobileDevice() {
		btn.Resize(fyne.NewSize(MobileButtonWidth, MobileButtonHeight))
	}

	return btn
}

// GetMobileSpacing returns appropriate spacing for mobile devices
func (m *MobileUI) GetMobileSpacing() float32 {
	if m.IsMobileDevice() {
		return 16
	}
	return 8
}

package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconMenu     = "☰"
	IconClose    = "×"
	IconSheet    = "▴"
	IconPin      = "📌"
)

// Drawer and sheet sizing
const (
	DefaultDrawerWidth   float32 = 320
	DefaultSheetHeight   float32 = 320
	DrawerWidthFraction  float32 = 0.85
	LandscapeDrawerRatio float32 = 0.5

	// Drags that start this close to the closed panel's edge open it
	EdgeSwipeWidth float32 = 24

	// Anchors are only rebuilt when the travel changes by more than this
	ReanchorTolerance float32 = 0.5
)

// Touch target minimum sizes (iOS/Android guidelines)
const (
	MobileButtonHeight float32 = 48
	MobileButtonWidth  float32 = 60
)

// Velocity tracking
const (
	VelocityWindow     = 100 * time.Millisecond
	MaxVelocitySamples = 20
)

// Notification behavior
const (
	NotificationAutoHide = 2 * time.Second
)

// Settings keys for persisted swipe states
const (
	DrawerStateKey = "drawer"
	SheetStateKey  = "sheet"
)

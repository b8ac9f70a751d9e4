package ui

// Package ui hosts swipe states in Fyne widgets. SideDrawer and BottomSheet
// turn pointer drags into offset deltas, estimate release velocity with a
// VelocityTracker and redraw from the state's update callback. RootUI is the
// demo screen; all of its strings are localized via Localization.

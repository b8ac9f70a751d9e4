package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// ColorNameScrim is the colour laid over content behind an open panel. Its
// alpha is replaced by the panel's scrim alpha.
const ColorNameScrim fyne.ThemeColorName = "scrim"

// DrawerTheme is the demo theme: default colours with a scrim, a blue
// primary and slightly larger touch padding
type DrawerTheme struct{}

// NewDrawerTheme creates a new drawer theme
func NewDrawerTheme() fyne.Theme {
	return &DrawerTheme{}
}

// Color returns theme colors
func (t *DrawerTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case ColorNameScrim:
		return color.NRGBA{A: 255}
	case theme.ColorNamePrimary:
		return color.RGBA{R: 25, G: 118, B: 210, A: 255}
	case theme.ColorNameOverlayBackground:
		if variant == theme.VariantDark {
			return color.RGBA{R: 33, G: 33, B: 36, A: 255}
		}
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	case theme.ColorNameBackground:
		if variant == theme.VariantDark {
			return color.RGBA{R: 18, G: 18, B: 18, A: 255}
		}
		return color.RGBA{R: 250, G: 250, B: 250, A: 255}
	}

	return theme.DefaultTheme().Color(name, variant)
}

// Font returns theme fonts
func (t *DrawerTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

// Icon returns theme icons
func (t *DrawerTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

// Size returns theme sizes
func (t *DrawerTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 6
	case theme.SizeNameInnerPadding:
		return 10
	case theme.SizeNameHeadingText:
		return 20
	}

	return theme.DefaultTheme().Size(name)
}

package ui

import (
	"image/color"
	"testing"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"github.com/stretchr/testify/assert"

	"github.com/ytget/anchorswipe/internal/config"
)

func TestMobileUI_DesktopSizing(t *testing.T) {
	app := test.NewApp()
	settings := config.NewSettings(app)
	m := NewMobileUI(settings)

	assert.False(t, m.IsMobileDevice())
	assert.Equal(t, float32(320), m.DrawerWidth(800))
	assert.Equal(t, float32(170), m.DrawerWidth(200))
	assert.Equal(t, float32(300), m.SheetHeight(600))

	settings.SetDrawerMaxWidth(500)
	settings.SetSheetHeightFraction(0.75)
	assert.Equal(t, float32(500), m.DrawerWidth(800))
	assert.Equal(t, float32(450), m.SheetHeight(600))
}

func TestMobileUI_Spacing(t *testing.T) {
	test.NewApp()
	m := NewMobileUI(config.NewSettings(test.NewApp()))

	assert.Equal(t, float32(8), m.GetMobileSpacing())
	assert.NotNil(t, m.CreateMobileButton("x", nil))
}

func TestDrawerTheme(t *testing.T) {
	th := NewDrawerTheme()

	assert.Equal(t, color.NRGBA{A: 255}, th.Color(ColorNameScrim, theme.VariantLight))
	assert.Equal(t, color.RGBA{R: 25, G: 118, B: 210, A: 255}, th.Color(theme.ColorNamePrimary, theme.VariantDark))
	assert.NotEqual(t,
		th.Color(theme.ColorNameOverlayBackground, theme.VariantLight),
		th.Color(theme.ColorNameOverlayBackground, theme.VariantDark))
	assert.Equal(t, float32(6), th.Size(theme.SizeNamePadding))
	assert.Equal(t, theme.DefaultTheme().Size(theme.SizeNameText), th.Size(theme.SizeNameText))
}

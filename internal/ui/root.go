package ui

import (
	"fmt"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/atomic"

	"github.com/ytget/anchorswipe/internal/config"
	"github.com/ytget/anchorswipe/internal/model"
	"github.com/ytget/anchorswipe/internal/swipe"
)

// RootUI is the demo screen: a page with a navigation drawer and a details
// sheet. Both panels persist their settled state and the drawer can be
// pinned open, which vetoes every close.
type RootUI struct {
	window       fyne.Window
	settings     *config.Settings
	localization *Localization
	mobile       *MobileUI
	logger       *slog.Logger
	extra        []swipe.Option

	drawer   *SideDrawer
	sheet    *BottomSheet
	keepOpen *atomic.Bool
	page     *atomic.String

	heading     *widget.Label
	statusLabel *widget.Label
	keepOpenChk *widget.Check

	notificationContainer *fyne.Container
	notificationLabel     *widget.Label
	notificationTimer     *time.Timer
}

// NewRootUI builds the demo screen into window. Extra options are passed to
// both swipe states after the stored tuning.
func NewRootUI(window fyne.Window, settings *config.Settings, extra ...swipe.Option) (*RootUI, error) {
	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		window:       window,
		settings:     settings,
		localization: localization,
		mobile:       NewMobileUI(settings),
		logger:       slog.Default().With("component", "root"),
		extra:        extra,
		keepOpen:     atomic.NewBool(false),
		page:         atomic.NewString(KeyHome),
	}

	window.SetTitle(localization.GetText(KeyAppTitle))
	ui.createMenu()
	if err := ui.build(); err != nil {
		return nil, err
	}
	return ui, nil
}

// Drawer returns the navigation drawer
func (ui *RootUI) Drawer() *SideDrawer {
	return ui.drawer
}

// Sheet returns the details sheet
func (ui *RootUI) Sheet() *BottomSheet {
	return ui.sheet
}

func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)

	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))
	for code, name := range ui.localization.GetAvailableLanguages() {
		langCode := code
		langItem := fyne.NewMenuItem(name, func() {
			ui.onLanguageChange(langCode)
		})
		langItem.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), settingsItem),
		languageMenu,
	))
}

// build creates both panels from the stored settings, replacing any
// previous ones
func (ui *RootUI) build() error {
	text := ui.localization.GetText

	ui.heading = widget.NewLabel(text(ui.page.Load()))
	ui.heading.TextStyle = fyne.TextStyle{Bold: true}
	ui.statusLabel = widget.NewLabel("")

	ui.keepOpenChk = widget.NewCheck(IconPin+" "+text(KeyKeepOpen), func(checked bool) {
		ui.keepOpen.Store(checked)
	})
	ui.keepOpenChk.SetChecked(ui.keepOpen.Load())

	ui.notificationLabel = widget.NewLabel("")
	ui.notificationContainer = container.NewPadded(ui.notificationLabel)
	ui.notificationContainer.Hide()

	sheetPanel := container.NewVBox(
		widget.NewLabelWithStyle(text(KeySheetTitle), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel(text(KeySheetBody)),
		widget.NewButton(text(KeyClose), func() { ui.sheet.Close() }),
	)

	drawerPane := container.NewVBox(
		widget.NewLabelWithStyle(text(KeyMenu), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewSeparator(),
		ui.navButton(KeyHome),
		ui.navButton(KeyInbox),
		ui.navButton(KeyArchive),
		widget.NewSeparator(),
		ui.keepOpenChk,
		widget.NewButton(IconClose+" "+text(KeyClose), func() { ui.drawer.Close() }),
	)

	page := container.NewVBox(
		container.NewHBox(
			ui.mobile.CreateMobileButton(IconMenu, func() { ui.drawer.Toggle() }),
			ui.heading,
		),
		ui.statusLabel,
		ui.notificationContainer,
		container.NewHBox(
			ui.mobile.CreateMobileButton(IconSheet+" "+text(KeyShowSheet), func() { ui.sheet.Toggle() }),
			ui.mobile.CreateMobileButton(IconSettings, ui.onShowSettings),
		),
	)

	opts := append(ui.settings.SwipeOptions(), ui.extra...)

	sheet, err := NewBottomSheet(page, sheetPanel,
		ui.settings.RestoreState(SheetStateKey, model.StateClosed), opts...)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	drawerOpts := append(append([]swipe.Option{}, opts...), swipe.WithConfirmStateChange(ui.confirmDrawer))
	drawer, err := NewSideDrawer(sheet, drawerPane,
		ui.settings.RestoreState(DrawerStateKey, model.StateClosed), drawerOpts...)
	if err != nil {
		sheet.Dispose()
		return fmt.Errorf("create drawer: %w", err)
	}

	sheet.SetFallback(drawer)
	sheet.SetExtentFunc(func(size fyne.Size) float32 { return ui.mobile.SheetHeight(size.Height) })
	drawer.SetExtentFunc(func(size fyne.Size) float32 { return ui.mobile.DrawerWidth(size.Width) })

	alpha := ui.settings.GetScrimAlpha()
	sheet.SetScrimAlpha(alpha)
	drawer.SetScrimAlpha(alpha)

	sheet.SetOnSettled(func(label model.StateLabel) { ui.onSettled(SheetStateKey, label) })
	drawer.SetOnSettled(func(label model.StateLabel) { ui.onSettled(DrawerStateKey, label) })

	if ui.drawer != nil {
		ui.drawer.Dispose()
	}
	if ui.sheet != nil {
		ui.sheet.Dispose()
	}
	ui.drawer, ui.sheet = drawer, sheet

	ui.updateStatus()
	ui.window.SetContent(drawer)
	return nil
}

func (ui *RootUI) navButton(key string) *widget.Button {
	btn := widget.NewButton(ui.localization.GetText(key), func() {
		ui.page.Store(key)
		ui.heading.SetText(ui.localization.GetText(key))
		ui.drawer.Close()
	})
	btn.Alignment = widget.ButtonAlignLeading
	return btn
}

// confirmDrawer is the drawer's veto guard
func (ui *RootUI) confirmDrawer(target model.StateLabel) bool {
	if target == model.StateClosed && ui.keepOpen.Load() {
		ui.logger.Info("drawer close vetoed")
		ui.showNotification(ui.localization.GetText(KeyDrawerPinned))
		return false
	}
	return true
}

func (ui *RootUI) onSettled(key string, label model.StateLabel) {
	ui.settings.SaveState(key, label)
	ui.logger.Debug("panel settled", "panel", key, "state", label)
	fyne.Do(ui.updateStatus)
}

func (ui *RootUI) updateStatus() {
	ui.statusLabel.SetText(fmt.Sprintf(ui.localization.GetText(KeyStatus),
		ui.drawer.State().Saved(), ui.sheet.State().Saved()))
}

func (ui *RootUI) showNotification(message string) {
	fyne.Do(func() {
		ui.notificationLabel.SetText(message)
		ui.notificationContainer.Show()

		if ui.notificationTimer != nil {
			ui.notificationTimer.Stop()
		}
		ui.notificationTimer = time.AfterFunc(NotificationAutoHide, ui.hideNotification)
	})
}

func (ui *RootUI) hideNotification() {
	fyne.Do(ui.notificationContainer.Hide)
}

func (ui *RootUI) onShowSettings() {
	NewTuningDialog(ui.settings, ui.localization, ui.window, ui.onSettingsSaved).Show()
}

func (ui *RootUI) onSettingsSaved() {
	ui.localization.SetLanguage(ui.settings.GetLanguage())
	ui.createMenu()
	if err := ui.build(); err != nil {
		dialog.ShowError(err, ui.window)
		return
	}
	ui.showNotification(ui.localization.GetText(KeySettingsSaved))
}

func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)

	ui.window.SetTitle(ui.localization.GetText(KeyAppTitle))
	ui.createMenu()
	if err := ui.build(); err != nil {
		dialog.ShowError(err, ui.window)
	}
}

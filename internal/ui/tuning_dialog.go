package ui

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/anchorswipe/internal/config"
)

var errInvalidNumber = errors.New("invalid number")

// TuningDialog edits the swipe tuning and interface settings
type TuningDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func()

	velocityEntry   *widget.Entry
	animationEntry  *widget.Entry
	thresholdEntry  *widget.Entry
	drawerWidth     *widget.Entry
	sheetHeight     *widget.Entry
	scrimEntry      *widget.Entry
	languageSelect  *widget.Select
	languageByLabel map[string]string
}

// NewTuningDialog creates a new tuning dialog; onSaved runs after the
// settings were written
func NewTuningDialog(settings *config.Settings, localization *Localization, window fyne.Window, onSaved func()) *TuningDialog {
	td := &TuningDialog{
		settings:     settings,
		localization: localization,
		window:       window,
		onSaved:      onSaved,
	}

	td.createUI()
	return td
}

// Show displays the dialog with the stored values
func (td *TuningDialog) Show() {
	td.loadCurrentSettings()
	td.dialog.Show()
}

func (td *TuningDialog) createUI() {
	td.velocityEntry = numberEntry(fmt.Sprintf("%g-%g", config.MinVelocityThreshold, config.MaxVelocityThreshold))
	td.animationEntry = numberEntry(fmt.Sprintf("0-%d", config.MaxAnimationMillis))
	td.thresholdEntry = numberEntry(fmt.Sprintf("%g-%g", config.MinPositionalThreshold, config.MaxPositionalThreshold))
	td.drawerWidth = numberEntry(fmt.Sprintf(">= %g", config.MinDrawerMaxWidth))
	td.sheetHeight = numberEntry(fmt.Sprintf("%g-1", config.MinSheetHeightFraction))
	td.scrimEntry = numberEntry("0-1")

	td.languageByLabel = make(map[string]string)
	var labels []string
	for code, label := range td.settings.GetLanguageOptions() {
		td.languageByLabel[label] = code
		labels = append(labels, label)
	}
	sort.Strings(labels)
	td.languageSelect = widget.NewSelect(labels, nil)

	text := td.localization.GetText
	form := widget.NewForm(
		widget.NewFormItem(text(KeyVelocityThreshold), td.velocityEntry),
		widget.NewFormItem(text(KeyAnimationMillis), td.animationEntry),
		widget.NewFormItem(text(KeyPositionalThreshold), td.thresholdEntry),
		widget.NewFormItem(text(KeyDrawerMaxWidth), td.drawerWidth),
		widget.NewFormItem(text(KeySheetHeight), td.sheetHeight),
		widget.NewFormItem(text(KeyScrimAlpha), td.scrimEntry),
		widget.NewFormItem(text(KeyLanguage), td.languageSelect),
	)

	td.dialog = dialog.NewCustomConfirm(
		text(KeySettings),
		text(KeySave),
		text(KeyCancel),
		form,
		td.onSave,
		td.window,
	)
	td.dialog.Resize(fyne.NewSize(460, 420))
}

func numberEntry(placeholder string) *widget.Entry {
	entry := widget.NewEntry()
	entry.SetPlaceHolder(placeholder)
	entry.Validator = func(s string) error {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		_, err := parseNumber(s)
		return err
	}
	return entry
}

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errInvalidNumber, s)
	}
	return v, nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (td *TuningDialog) loadCurrentSettings() {
	td.velocityEntry.SetText(formatNumber(td.settings.GetVelocityThreshold()))
	td.animationEntry.SetText(strconv.Itoa(int(td.settings.GetAnimationDuration() / time.Millisecond)))
	td.thresholdEntry.SetText(formatNumber(td.settings.GetPositionalThreshold()))
	td.drawerWidth.SetText(formatNumber(td.settings.GetDrawerMaxWidth()))
	td.sheetHeight.SetText(formatNumber(td.settings.GetSheetHeightFraction()))
	td.scrimEntry.SetText(formatNumber(td.settings.GetScrimAlpha()))

	lang := td.settings.GetLanguage()
	td.languageSelect.SetSelected(td.settings.GetLanguageOptions()[lang])
}

func (td *TuningDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	if err := td.apply(); err != nil {
		dialog.ShowError(fmt.Errorf("%s: %w", td.localization.GetText(KeyInvalidNumber), err), td.window)
		return
	}

	if td.onSaved != nil {
		td.onSaved()
	}
}

// apply validates every entry first and only then writes the settings
func (td *TuningDialog) apply() error {
	type field struct {
		entry *widget.Entry
		set   func(float64)
	}
	fields := []field{
		{td.velocityEntry, td.settings.SetVelocityThreshold},
		{td.animationEntry, func(ms float64) {
			td.settings.SetAnimationDuration(time.Duration(ms * float64(time.Millisecond)))
		}},
		{td.thresholdEntry, td.settings.SetPositionalThreshold},
		{td.drawerWidth, td.settings.SetDrawerMaxWidth},
		{td.sheetHeight, td.settings.SetSheetHeightFraction},
		{td.scrimEntry, td.settings.SetScrimAlpha},
	}

	values := make([]float64, len(fields))
	for i, f := range fields {
		if strings.TrimSpace(f.entry.Text) == "" {
			values[i] = -1
			continue
		}
		v, err := parseNumber(f.entry.Text)
		if err != nil {
			return err
		}
		values[i] = v
	}

	for i, f := range fields {
		if values[i] >= 0 {
			f.set(values[i])
		}
	}

	if code, ok := td.languageByLabel[td.languageSelect.Selected]; ok {
		td.settings.SetLanguage(code)
	}
	return nil
}

package config

import (
	"time"

	"fyne.io/fyne/v2"

	"github.com/ytget/anchorswipe/internal/model"
	"github.com/ytget/anchorswipe/internal/swipe"
)

// Settings keys for Fyne preferences
const (
	KeyVelocityThreshold   = "velocity_threshold"
	KeyAnimationMillis     = "animation_ms"
	KeyPositionalThreshold = "positional_threshold"
	KeyDrawerMaxWidth      = "drawer_max_width"
	KeySheetHeightFraction = "sheet_height_fraction"
	KeyScrimAlpha          = "scrim_alpha"
	KeyDensity             = "density"
	KeyLanguage            = "app_language"

	keyStatePrefix = "swipe_state."
)

// Default values
const (
	DefaultVelocityThreshold   = swipe.DefaultVelocityThreshold
	DefaultAnimationMillis     = 256
	DefaultPositionalThreshold = swipe.DefaultPositionalThreshold
	DefaultDrawerMaxWidth      = 320.0
	DefaultSheetHeightFraction = 0.5
	DefaultScrimAlpha          = 0.32
	DefaultDensity             = 1.0
	DefaultLanguage            = "system"
)

// Limits applied by the setters
const (
	MinVelocityThreshold   = 50.0
	MaxVelocityThreshold   = 5000.0
	MaxAnimationMillis     = 2000
	MinPositionalThreshold = 0.05
	MaxPositionalThreshold = 0.95
	MinDrawerMaxWidth      = 120.0
	MinSheetHeightFraction = 0.2
	MinDensity             = 0.5
	MaxDensity             = 4.0
)

// Settings manages swipe tuning and saved swipe states
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetVelocityThreshold returns the fling threshold in dp per second
func (s *Settings) GetVelocityThreshold() float64 {
	return s.app.Preferences().FloatWithFallback(KeyVelocityThreshold, DefaultVelocityThreshold)
}

// SetVelocityThreshold sets the fling threshold in dp per second
func (s *Settings) SetVelocityThreshold(dpPerSecond float64) {
	s.app.Preferences().SetFloat(KeyVelocityThreshold, clamp(dpPerSecond, MinVelocityThreshold, MaxVelocityThreshold))
}

// GetAnimationDuration returns the settle animation duration
func (s *Settings) GetAnimationDuration() time.Duration {
	ms := s.app.Preferences().IntWithFallback(KeyAnimationMillis, DefaultAnimationMillis)
	return time.Duration(ms) * time.Millisecond
}

// SetAnimationDuration sets the settle animation duration
func (s *Settings) SetAnimationDuration(d time.Duration) {
	ms := int(d / time.Millisecond)
	if ms < 0 {
		ms = 0
	}
	if ms > MaxAnimationMillis {
		ms = MaxAnimationMillis
	}
	s.app.Preferences().SetInt(KeyAnimationMillis, ms)
}

// GetPositionalThreshold returns the fraction of the distance between two
// anchors past which a slow release moves on
func (s *Settings) GetPositionalThreshold() float64 {
	return s.app.Preferences().FloatWithFallback(KeyPositionalThreshold, DefaultPositionalThreshold)
}

// SetPositionalThreshold sets the positional threshold fraction
func (s *Settings) SetPositionalThreshold(fraction float64) {
	s.app.Preferences().SetFloat(KeyPositionalThreshold, clamp(fraction, MinPositionalThreshold, MaxPositionalThreshold))
}

// GetDrawerMaxWidth returns the widest a side drawer may get, in dp
func (s *Settings) GetDrawerMaxWidth() float64 {
	return s.app.Preferences().FloatWithFallback(KeyDrawerMaxWidth, DefaultDrawerMaxWidth)
}

// SetDrawerMaxWidth sets the widest a side drawer may get, in dp
func (s *Settings) SetDrawerMaxWidth(width float64) {
	if width < MinDrawerMaxWidth {
		width = MinDrawerMaxWidth
	}
	s.app.Preferences().SetFloat(KeyDrawerMaxWidth, width)
}

// GetSheetHeightFraction returns the bottom sheet height relative to its host
func (s *Settings) GetSheetHeightFraction() float64 {
	return s.app.Preferences().FloatWithFallback(KeySheetHeightFraction, DefaultSheetHeightFraction)
}

// SetSheetHeightFraction sets the bottom sheet height relative to its host
func (s *Settings) SetSheetHeightFraction(fraction float64) {
	s.app.Preferences().SetFloat(KeySheetHeightFraction, clamp(fraction, MinSheetHeightFraction, 1))
}

// GetScrimAlpha returns the scrim opacity when fully open
func (s *Settings) GetScrimAlpha() float64 {
	return s.app.Preferences().FloatWithFallback(KeyScrimAlpha, DefaultScrimAlpha)
}

// SetScrimAlpha sets the scrim opacity when fully open
func (s *Settings) SetScrimAlpha(alpha float64) {
	s.app.Preferences().SetFloat(KeyScrimAlpha, clamp(alpha, 0, 1))
}

// GetDensity returns pixels per dp used to scale the fling threshold. Fyne
// positions are already device independent, so 1 fits the desktop and
// mobile drivers; other values only retune how hard a fling must be.
func (s *Settings) GetDensity() float64 {
	return s.app.Preferences().FloatWithFallback(KeyDensity, DefaultDensity)
}

// SetDensity sets pixels per dp
func (s *Settings) SetDensity(density float64) {
	s.app.Preferences().SetFloat(KeyDensity, clamp(density, MinDensity, MaxDensity))
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}

// SaveState stores the settled value of the swipe state identified by key.
// Offsets and running animations are never persisted.
func (s *Settings) SaveState(key string, label model.StateLabel) {
	s.app.Preferences().SetString(keyStatePrefix+key, label.String())
}

// RestoreState returns the saved value for key, or fallback
func (s *Settings) RestoreState(key string, fallback model.StateLabel) model.StateLabel {
	label, err := model.ParseStateLabel(s.app.Preferences().String(keyStatePrefix + key))
	if err != nil {
		return fallback
	}
	return label
}

// ForgetState removes the saved value for key
func (s *Settings) ForgetState(key string) {
	s.app.Preferences().RemoveValue(keyStatePrefix + key)
}

// SwipeOptions builds state options from the stored tuning
func (s *Settings) SwipeOptions() []swipe.Option {
	return []swipe.Option{
		swipe.WithVelocityThreshold(s.GetVelocityThreshold()),
		swipe.WithDensity(s.GetDensity()),
		swipe.WithAnimation(s.GetAnimationDuration(), swipe.FastOutSlowIn),
		swipe.WithThresholds(swipe.Fractional(s.GetPositionalThreshold())),
	}
}

// ApplyProfile stores every field the profile sets
func (s *Settings) ApplyProfile(p *Profile) {
	if p.VelocityThreshold > 0 {
		s.SetVelocityThreshold(p.VelocityThreshold)
	}
	if p.AnimationMillis != nil {
		s.SetAnimationDuration(time.Duration(*p.AnimationMillis) * time.Millisecond)
	}
	if p.Density > 0 {
		s.SetDensity(p.Density)
	}
	if p.PositionalThreshold > 0 {
		s.SetPositionalThreshold(p.PositionalThreshold)
	}
	if p.DrawerMaxWidth > 0 {
		s.SetDrawerMaxWidth(p.DrawerMaxWidth)
	}
	if p.SheetHeightFraction > 0 {
		s.SetSheetHeightFraction(p.SheetHeightFraction)
	}
	if p.ScrimAlpha > 0 {
		s.SetScrimAlpha(p.ScrimAlpha)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

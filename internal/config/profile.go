package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ytget/anchorswipe/internal/swipe"
)

// ErrInvalidProfile is returned when a tuning profile is out of range
var ErrInvalidProfile = errors.New("invalid swipe profile")

// Profile is a YAML tuning profile. Zero fields keep their defaults, except
// animation_ms where an explicit 0 turns animations off.
type Profile struct {
	VelocityThreshold   float64 `yaml:"velocity_threshold"`
	AnimationMillis     *int    `yaml:"animation_ms"`
	PositionalThreshold float64 `yaml:"positional_threshold"`
	Density             float64 `yaml:"density"`
	DrawerMaxWidth      float64 `yaml:"drawer_max_width"`
	SheetHeightFraction float64 `yaml:"sheet_height_fraction"`
	ScrimAlpha          float64 `yaml:"scrim_alpha"`
}

// LoadProfile decodes and validates a profile. Unknown keys are rejected.
func LoadProfile(r io.Reader) (*Profile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var p Profile
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadProfileFile reads a profile from path
func LoadProfileFile(path string) (*Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open profile: %w", err)
	}
	defer f.Close()

	return LoadProfile(f)
}

// Validate checks every set field against the setter limits
func (p *Profile) Validate() error {
	switch {
	case p.VelocityThreshold < 0 || (p.VelocityThreshold > 0 &&
		(p.VelocityThreshold < MinVelocityThreshold || p.VelocityThreshold > MaxVelocityThreshold)):
		return fmt.Errorf("%w: velocity_threshold %v outside [%v, %v]",
			ErrInvalidProfile, p.VelocityThreshold, MinVelocityThreshold, MaxVelocityThreshold)
	case p.AnimationMillis != nil && (*p.AnimationMillis < 0 || *p.AnimationMillis > MaxAnimationMillis):
		return fmt.Errorf("%w: animation_ms %d outside [0, %d]", ErrInvalidProfile, *p.AnimationMillis, MaxAnimationMillis)
	case p.PositionalThreshold < 0 || (p.PositionalThreshold > 0 &&
		(p.PositionalThreshold < MinPositionalThreshold || p.PositionalThreshold > MaxPositionalThreshold)):
		return fmt.Errorf("%w: positional_threshold %v outside [%v, %v]",
			ErrInvalidProfile, p.PositionalThreshold, MinPositionalThreshold, MaxPositionalThreshold)
	case p.Density < 0 || (p.Density > 0 && (p.Density < MinDensity || p.Density > MaxDensity)):
		return fmt.Errorf("%w: density %v outside [%v, %v]", ErrInvalidProfile, p.Density, MinDensity, MaxDensity)
	case p.DrawerMaxWidth < 0 || (p.DrawerMaxWidth > 0 && p.DrawerMaxWidth < MinDrawerMaxWidth):
		return fmt.Errorf("%w: drawer_max_width %v below %v", ErrInvalidProfile, p.DrawerMaxWidth, MinDrawerMaxWidth)
	case p.SheetHeightFraction < 0 || p.SheetHeightFraction > 1 ||
		(p.SheetHeightFraction > 0 && p.SheetHeightFraction < MinSheetHeightFraction):
		return fmt.Errorf("%w: sheet_height_fraction %v outside [%v, 1]",
			ErrInvalidProfile, p.SheetHeightFraction, MinSheetHeightFraction)
	case p.ScrimAlpha < 0 || p.ScrimAlpha > 1:
		return fmt.Errorf("%w: scrim_alpha %v outside [0, 1]", ErrInvalidProfile, p.ScrimAlpha)
	}
	return nil
}

// Options turns the profile into state options; unset fields are omitted
func (p *Profile) Options() []swipe.Option {
	var opts []swipe.Option
	if p.VelocityThreshold > 0 {
		opts = append(opts, swipe.WithVelocityThreshold(p.VelocityThreshold))
	}
	if p.Density > 0 {
		opts = append(opts, swipe.WithDensity(p.Density))
	}
	if p.AnimationMillis != nil {
		opts = append(opts, swipe.WithAnimation(time.Duration(*p.AnimationMillis)*time.Millisecond, nil))
	}
	if p.PositionalThreshold > 0 {
		opts = append(opts, swipe.WithThresholds(swipe.Fractional(p.PositionalThreshold)))
	}
	return opts
}

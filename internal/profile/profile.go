// Package profile holds the per-language length profiles that drive
// generation budgets, and the registry that resolves a language to its profile.
package profile

import (
	"errors"
	"fmt"

	"polysum/internal/domain/entity"
)

// ErrInvalidProfile is returned when a profile violates its range constraints.
var ErrInvalidProfile = errors.New("invalid language profile")

// RatioRange is the target summary length expressed as a fraction of the input length.
type RatioRange struct {
	Lo float64 `yaml:"lo"`
	Hi float64 `yaml:"hi"`
}

// Mid returns the midpoint of the range.
func (r RatioRange) Mid() float64 {
	return (r.Lo + r.Hi) / 2
}

// CapRange bounds the target summary length in tokens.
type CapRange struct {
	Lo int `yaml:"lo"`
	Hi int `yaml:"hi"`
}

// Clamp returns n limited to [Lo, Hi].
func (c CapRange) Clamp(n int) int {
	return max(c.Lo, min(n, c.Hi))
}

// ModeProfile is the part of a profile that varies by LengthMode.
type ModeProfile struct {
	Ratio         RatioRange `yaml:"ratio"`
	Cap           CapRange   `yaml:"cap"`
	LengthPenalty float64    `yaml:"length_penalty"`
}

// Profile is an immutable per-language length table.
type Profile struct {
	Name              string      `yaml:"-"`
	Short             ModeProfile `yaml:"short"`
	Medium            ModeProfile `yaml:"medium"`
	Long              ModeProfile `yaml:"long"`
	NoRepeatNgramSize int         `yaml:"no_repeat_ngram_size"`
}

// Mode returns the ModeProfile for m, or *entity.InvalidModeError.
func (p Profile) Mode(m entity.LengthMode) (ModeProfile, error) {
	switch m {
	case entity.ModeShort:
		return p.Short, nil
	case entity.ModeMedium:
		return p.Medium, nil
	case entity.ModeLong:
		return p.Long, nil
	}
	return ModeProfile{}, &entity.InvalidModeError{Mode: string(m)}
}

// Validate checks ratio ranges lie in (0,1), caps are positive and ordered,
// and the no-repeat n-gram size is at least 1.
func (p Profile) Validate() error {
	if p.NoRepeatNgramSize < 1 {
		return fmt.Errorf("%w: %s: no_repeat_ngram_size must be >= 1, got %d",
			ErrInvalidProfile, p.Name, p.NoRepeatNgramSize)
	}
	for _, m := range entity.Modes() {
		mp, _ := p.Mode(m)
		r, c := mp.Ratio, mp.Cap
		if r.Lo <= 0 || r.Hi >= 1 || r.Lo > r.Hi {
			return fmt.Errorf("%w: %s/%s: ratio (%.2f, %.2f) must satisfy 0 < lo <= hi < 1",
				ErrInvalidProfile, p.Name, m, r.Lo, r.Hi)
		}
		if c.Lo < 1 || c.Lo > c.Hi {
			return fmt.Errorf("%w: %s/%s: cap (%d, %d) must satisfy 1 <= lo <= hi",
				ErrInvalidProfile, p.Name, m, c.Lo, c.Hi)
		}
		if mp.LengthPenalty <= 0 {
			return fmt.Errorf("%w: %s/%s: length_penalty must be positive",
				ErrInvalidProfile, p.Name, m)
		}
	}
	return nil
}

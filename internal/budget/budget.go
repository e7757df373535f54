// Package budget derives generation token limits from input length,
// verbosity mode and a language profile.
package budget

import (
	"math"

	"polysum/internal/domain/entity"
	"polysum/internal/profile"
)

const (
	// ShrinkFactor scales the target length down to the minimum generation length.
	// It is the same for every language.
	ShrinkFactor = 0.8

	// MinNewTokensFloor is the smallest minimum generation length ever emitted.
	MinNewTokensFloor = 10

	// MinSpread is the smallest gap between the minimum and maximum generation lengths.
	MinSpread = 10
)

// TokenBudget holds the generation limits handed to a summarization backend.
type TokenBudget struct {
	MinNewTokens      int     `json:"min_new_tokens"`
	MaxNewTokens      int     `json:"max_new_tokens"`
	LengthPenalty     float64 `json:"length_penalty"`
	NoRepeatNgramSize int     `json:"no_repeat_ngram_size"`

	// Target is the clamped target length the limits were derived from.
	Target int `json:"-"`
}

// Compute returns the budget for inputTokens tokens of source text.
// A non-positive inputTokens yields the smallest budget the cap range allows.
// A mode outside short, medium and long returns *entity.InvalidModeError.
func Compute(inputTokens int, mode entity.LengthMode, p profile.Profile) (TokenBudget, error) {
	mp, err := p.Mode(mode)
	if err != nil {
		return TokenBudget{}, err
	}

	n := max(inputTokens, 0)
	target := mp.Cap.Clamp(roundInt(float64(n) * mp.Ratio.Mid()))
	minNew := max(MinNewTokensFloor, roundInt(float64(target)*ShrinkFactor))
	maxNew := max(minNew+MinSpread, target)

	return TokenBudget{
		MinNewTokens:      minNew,
		MaxNewTokens:      maxNew,
		LengthPenalty:     mp.LengthPenalty,
		NoRepeatNgramSize: p.NoRepeatNgramSize,
		Target:            target,
	}, nil
}

// roundInt rounds half away from zero.
func roundInt(f float64) int {
	return int(math.Round(f))
}

package profile

import "polysum/internal/domain/entity"

// DefaultName names the fallback profile.
const DefaultName = "default"

// Shared per-mode length penalties.
const (
	penaltyShort  = 1.0
	penaltyMedium = 1.05
	penaltyLong   = 1.2
)

func modes(ratios [3]RatioRange, caps [3]CapRange) (short, medium, long ModeProfile) {
	short = ModeProfile{Ratio: ratios[0], Cap: caps[0], LengthPenalty: penaltyShort}
	medium = ModeProfile{Ratio: ratios[1], Cap: caps[1], LengthPenalty: penaltyMedium}
	long = ModeProfile{Ratio: ratios[2], Cap: caps[2], LengthPenalty: penaltyLong}
	return short, medium, long
}

func newProfile(name string, noRepeat int, ratios [3]RatioRange, caps [3]CapRange) Profile {
	s, m, l := modes(ratios, caps)
	return Profile{Name: name, Short: s, Medium: m, Long: l, NoRepeatNgramSize: noRepeat}
}

// DefaultProfile is used by every language without a dedicated profile,
// including th, lo, km and my.
func DefaultProfile() Profile {
	return newProfile(DefaultName, 3,
		[3]RatioRange{{0.11, 0.18}, {0.18, 0.28}, {0.28, 0.43}},
		[3]CapRange{{40, 220}, {120, 380}, {190, 620}},
	)
}

// DedicatedProfiles returns the built-in language-specific profiles.
func DedicatedProfiles() map[entity.LanguageTag]Profile {
	return map[entity.LanguageTag]Profile{
		entity.LangJapanese: newProfile("ja", 3,
			[3]RatioRange{{0.12, 0.18}, {0.15, 0.25}, {0.25, 0.40}},
			[3]CapRange{{50, 150}, {100, 320}, {160, 520}},
		),
		entity.LangChinese: newProfile("zh", 4,
			[3]RatioRange{{0.08, 0.12}, {0.12, 0.20}, {0.20, 0.35}},
			[3]CapRange{{40, 130}, {85, 260}, {140, 420}},
		),
		entity.LangKorean: newProfile("ko", 3,
			[3]RatioRange{{0.10, 0.16}, {0.14, 0.23}, {0.23, 0.38}},
			[3]CapRange{{50, 145}, {95, 290}, {150, 470}},
		),
	}
}

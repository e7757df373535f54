package budget

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polysum/internal/domain/entity"
	"polysum/internal/profile"
)

func TestCompute(t *testing.T) {
	def := profile.DefaultProfile()
	ja, _ := profile.NewDefaultRegistry().Lookup(entity.LangJapanese)
	zh, _ := profile.NewDefaultRegistry().Lookup(entity.LangChinese)

	tests := []struct {
		name    string
		n       int
		mode    entity.LengthMode
		profile profile.Profile
		want    TokenBudget
	}{
		{
			// 1000 * 0.145 = 145 -> min 116
			name: "default short within caps", n: 1000, mode: entity.ModeShort, profile: def,
			want: TokenBudget{MinNewTokens: 116, MaxNewTokens: 145, LengthPenalty: 1.0, NoRepeatNgramSize: 3, Target: 145},
		},
		{
			// 100 * 0.23 = 23 -> clamped to 120
			name: "default medium clamped up", n: 100, mode: entity.ModeMedium, profile: def,
			want: TokenBudget{MinNewTokens: 96, MaxNewTokens: 120, LengthPenalty: 1.05, NoRepeatNgramSize: 3, Target: 120},
		},
		{
			// 10000 * 0.355 = 3550 -> clamped to 620
			name: "default long clamped down", n: 10000, mode: entity.ModeLong, profile: def,
			want: TokenBudget{MinNewTokens: 496, MaxNewTokens: 620, LengthPenalty: 1.2, NoRepeatNgramSize: 3, Target: 620},
		},
		{
			name: "zero input", n: 0, mode: entity.ModeShort, profile: def,
			want: TokenBudget{MinNewTokens: 32, MaxNewTokens: 42, LengthPenalty: 1.0, NoRepeatNgramSize: 3, Target: 40},
		},
		{
			// 500 * 0.20 = 100 -> min 80
			name: "japanese medium", n: 500, mode: entity.ModeMedium, profile: ja,
			want: TokenBudget{MinNewTokens: 80, MaxNewTokens: 100, LengthPenalty: 1.05, NoRepeatNgramSize: 3, Target: 100},
		},
		{
			name: "chinese no-repeat", n: 2000, mode: entity.ModeShort, profile: zh,
			want: TokenBudget{MinNewTokens: 104, MaxNewTokens: 130, LengthPenalty: 1.0, NoRepeatNgramSize: 4, Target: 130},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compute(tt.n, tt.mode, tt.profile)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
				t.Errorf("Compute() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompute_InvalidMode(t *testing.T) {
	_, err := Compute(100, "tiny", profile.DefaultProfile())

	var modeErr *entity.InvalidModeError
	require.True(t, errors.As(err, &modeErr))
	assert.Equal(t, "tiny", modeErr.Mode)
}

func TestCompute_Invariants(t *testing.T) {
	reg := profile.NewDefaultRegistry()
	profiles := []profile.Profile{reg.Default()}
	for _, tag := range []entity.LanguageTag{entity.LangJapanese, entity.LangChinese, entity.LangKorean} {
		p, ok := reg.Lookup(tag)
		require.True(t, ok)
		profiles = append(profiles, p)
	}

	inputs := []int{-3, 0, 1, 9, 10, 50, 99, 100, 333, 999, 1000, 1024, 2500, 5000, 1 << 20}

	for _, p := range profiles {
		for _, mode := range entity.Modes() {
			mp, err := p.Mode(mode)
			require.NoError(t, err)
			for _, n := range inputs {
				b, err := Compute(n, mode, p)
				require.NoError(t, err)

				assert.GreaterOrEqual(t, b.MinNewTokens, MinNewTokensFloor, "%s/%s/%d", p.Name, mode, n)
				assert.GreaterOrEqual(t, b.MaxNewTokens, b.MinNewTokens+MinSpread, "%s/%s/%d", p.Name, mode, n)
				assert.GreaterOrEqual(t, b.Target, mp.Cap.Lo, "%s/%s/%d", p.Name, mode, n)
				assert.LessOrEqual(t, b.Target, mp.Cap.Hi, "%s/%s/%d", p.Name, mode, n)
				assert.Equal(t, p.NoRepeatNgramSize, b.NoRepeatNgramSize)
			}
		}
	}
}

func TestCompute_TinyCapStillValid(t *testing.T) {
	p := profile.DefaultProfile()
	p.Short.Cap = profile.CapRange{Lo: 1, Hi: 5}

	b, err := Compute(0, entity.ModeShort, p)
	require.NoError(t, err)
	assert.Equal(t, 10, b.MinNewTokens)
	assert.Equal(t, 20, b.MaxNewTokens)
}

func TestTokenBudget_Params(t *testing.T) {
	b, err := Compute(1000, entity.ModeShort, profile.DefaultProfile())
	require.NoError(t, err)

	p := b.Params()
	if diff := cmp.Diff(b, p.TokenBudget); diff != "" {
		t.Errorf("embedded budget mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 4, p.NumBeams)
	assert.False(t, p.DoSample)
	assert.True(t, p.Truncation)
	assert.InDelta(t, 1.1, p.RepetitionPenalty, 1e-9)
}

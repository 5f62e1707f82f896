package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePolicy(t *testing.T) {
	require.NoError(t, ValidatePolicy())
}

func TestParseTier(t *testing.T) {
	tests := []struct {
		name   string
		stored string
		want   Tier
	}{
		{"канонический free", "free", TierFree},
		{"канонический elevated", "elevated", TierElevated},
		{"канонический admin", "admin", TierAdmin},
		{"устаревший pro", "pro", TierElevated},
		{"устаревший consumer", "consumer", TierElevated},
		{"устаревший business", "business", TierElevated},
		{"устаревший enterprise", "enterprise", TierElevated},
		{"устаревший user", "user", TierFree},
		{"неизвестное значение", "gold", TierAnonymous},
		{"пустая строка", "", TierAnonymous},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTier(tt.stored))
		})
	}
}

func TestHasCapability(t *testing.T) {
	assert.True(t, HasCapability(TierAnonymous, CapCurrentConditions))
	assert.False(t, HasCapability(TierAnonymous, CapForecast))
	assert.False(t, HasCapability(TierFree, CapDataExport))
	assert.True(t, HasCapability(TierFree, CapCommunityWrite))
	assert.True(t, HasCapability(TierElevated, CapForecast))
	assert.True(t, HasCapability(TierAdmin, CapExternalAPI))

	// Неизвестный тариф и ключ не дают доступа.
	assert.False(t, HasCapability(Tier("gold"), CapForecast))
	assert.False(t, HasCapability(TierAdmin, Capability("unknown")))
}

func TestLimitFor(t *testing.T) {
	l := LimitFor(TierFree, LimitDetailViewsPerDay)
	assert.False(t, l.IsUnbounded())
	assert.Equal(t, 10, l.Value())
	assert.True(t, l.Allows(9))
	assert.False(t, l.Allows(10))

	u := LimitFor(TierElevated, LimitDetailViewsPerDay)
	assert.True(t, u.IsUnbounded())
	assert.True(t, u.Allows(1_000_000))

	// Неизвестный тариф даёт нулевое ограничение.
	z := LimitFor(Tier("gold"), LimitAlerts)
	assert.False(t, z.IsUnbounded())
	assert.False(t, z.Allows(0))
}

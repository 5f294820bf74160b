package employee

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/employee"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/repository/memory"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestConfigIndex_EffectiveAt(t *testing.T) {
	idx := NewConfigIndex([]employee.Config{
		{ID: "c3", EffectiveOn: date(2025, 6, 1)},
		{ID: "c1", EffectiveOn: date(2025, 1, 1)},
		{ID: "c2", EffectiveOn: date(2025, 3, 15)},
	})
	require.Equal(t, 3, idx.Len())

	cases := []struct {
		name string
		at   time.Time
		want string
	}{
		{"before first", date(2024, 12, 31), ""},
		{"on first", date(2025, 1, 1), "c1"},
		{"between", date(2025, 3, 14), "c1"},
		{"on second", date(2025, 3, 15), "c2"},
		{"after last", date(2026, 1, 1), "c3"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := idx.EffectiveAt(c.at)
			if c.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, c.want, got.ID)
		})
	}
}

func TestConfigIndex_Empty(t *testing.T) {
	assert.Nil(t, NewConfigIndex(nil).EffectiveAt(date(2025, 1, 1)))
}

func TestConfigResolver_EffectiveConfig(t *testing.T) {
	store := memory.NewStore(nil)
	store.AddConfig(employee.Config{UserID: "u1", EffectiveOn: date(2025, 1, 1), BaseSemiMonthlySalary: decimal.NewFromInt(2000)})
	store.AddConfig(employee.Config{UserID: "u1", EffectiveOn: date(2025, 2, 1), BaseSemiMonthlySalary: decimal.NewFromInt(2500)})

	resolver := NewConfigResolver(store.Configs())

	cfg, err := resolver.EffectiveConfig(context.Background(), "u1", date(2025, 1, 20))
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.True(t, cfg.BaseSemiMonthlySalary.Equal(decimal.NewFromInt(2000)))

	cfg, err = resolver.EffectiveConfig(context.Background(), "u2", date(2025, 1, 20))
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

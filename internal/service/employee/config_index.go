package employee

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/employee"
)

// ConfigIndex holds one user's configs ordered by EffectiveOn and answers
// effective-date lookups by binary search.
type ConfigIndex struct {
	configs []employee.Config
}

func NewConfigIndex(configs []employee.Config) *ConfigIndex {
	sorted := append([]employee.Config(nil), configs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EffectiveOn.Before(sorted[j].EffectiveOn)
	})
	return &ConfigIndex{configs: sorted}
}

// EffectiveAt returns the config with the latest EffectiveOn not after t,
// or nil when every config starts after t. Among equal EffectiveOn values
// the last inserted wins.
func (idx *ConfigIndex) EffectiveAt(t time.Time) *employee.Config {
	i := sort.Search(len(idx.configs), func(i int) bool {
		return idx.configs[i].EffectiveOn.After(t)
	})
	if i == 0 {
		return nil
	}
	c := idx.configs[i-1]
	return &c
}

func (idx *ConfigIndex) Len() int {
	return len(idx.configs)
}

type ConfigResolverImpl struct {
	configRepo employee.ConfigRepository
}

func NewConfigResolver(configRepo employee.ConfigRepository) *ConfigResolverImpl {
	return &ConfigResolverImpl{configRepo: configRepo}
}

// Index loads every config of the user once.
func (r *ConfigResolverImpl) Index(ctx context.Context, userID string) (*ConfigIndex, error) {
	configs, err := r.configRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list configs for user %s: %w", userID, err)
	}
	return NewConfigIndex(configs), nil
}

func (r *ConfigResolverImpl) EffectiveConfig(ctx context.Context, userID string, t time.Time) (*employee.Config, error) {
	idx, err := r.Index(ctx, userID)
	if err != nil {
		return nil, err
	}
	return idx.EffectiveAt(t), nil
}

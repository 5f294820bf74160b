package employee

import (
	"context"
	"time"
)

// ConfigResolver answers "which config is in force for this user on this date".
type ConfigResolver interface {
	// EffectiveConfig returns nil when the user has no config effective at t.
	EffectiveConfig(ctx context.Context, userID string, t time.Time) (*Config, error)
}

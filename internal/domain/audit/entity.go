package audit

import (
	"encoding/json"
	"fmt"
	"time"
)

type EntityType string

const (
	EntityAttendanceMonthFact EntityType = "AttendanceMonthFact"
	EntityPayrollBonus        EntityType = "PayrollBonus"
	EntityPayrollPeriod       EntityType = "PayrollPeriod"
)

type Event string

const (
	EventAttendanceRecalc     Event = "ATTENDANCE_RECALC"
	EventBonusDecision        Event = "BONUS_DECISION"
	EventPayrollStatusChanged Event = "PAYROLL_STATUS_CHANGED"
)

// Entry is one append-only audit row. ActorID is nil for system jobs.
type Entry struct {
	ID         string
	ActorID    *string
	EntityType EntityType
	EntityID   string
	Event      Event
	Payload    json.RawMessage
	CreatedAt  time.Time
}

// NewEntry snapshots payload as JSON.
func NewEntry(actorID *string, entityType EntityType, entityID string, event Event, payload any) (Entry, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Entry{}, fmt.Errorf("marshal audit payload: %w", err)
	}
	return Entry{
		ActorID:    actorID,
		EntityType: entityType,
		EntityID:   entityID,
		Event:      event,
		Payload:    raw,
	}, nil
}

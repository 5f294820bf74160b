package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/leave"
)

func TestAllocateRequests_ClipsToMonthProportionally(t *testing.T) {
	jan := la.MonthFor(2025, time.January)

	buckets := AllocateRequests(la, jan, []leave.TimeOffRequest{
		{Type: leave.RequestTypePTO, StartDate: "2024-12-30", EndDate: "2025-01-02", Hours: 32},
	})

	assert.Len(t, buckets, 2)
	assert.InDelta(t, 8, buckets["2025-01-01"].PTO, 1e-9)
	assert.InDelta(t, 8, buckets["2025-01-02"].PTO, 1e-9)
	assert.Zero(t, buckets["2024-12-31"].PTO)
}

func TestAllocateRequests_UnevenSplit(t *testing.T) {
	jan := la.MonthFor(2025, time.January)

	buckets := AllocateRequests(la, jan, []leave.TimeOffRequest{
		{Type: leave.RequestTypeNonPTO, StartDate: "2025-01-13", EndDate: "2025-01-15", Hours: 10},
	})

	var total float64
	for _, b := range buckets {
		total += b.NonPTO
	}
	assert.InDelta(t, 10, total, 1e-9)
	assert.InDelta(t, 10.0/3, buckets["2025-01-14"].NonPTO, 1e-9)
}

func TestAllocateRequests_ClampsMalformedInput(t *testing.T) {
	jan := la.MonthFor(2025, time.January)

	buckets := AllocateRequests(la, jan, []leave.TimeOffRequest{
		{Type: leave.RequestTypeNonPTO, StartDate: "2025-01-10", EndDate: "2025-01-08", Hours: 6},
		{Type: leave.RequestTypePTO, StartDate: "2025-01-20", EndDate: "2025-01-20", Hours: -4},
		{Type: leave.RequestTypePTO, StartDate: "2025-02-03", EndDate: "2025-02-04", Hours: 16},
		{Type: "sabbatical", StartDate: "2025-01-21", EndDate: "2025-01-21", Hours: 8},
		{Type: leave.RequestTypePTO, StartDate: "not-a-date", EndDate: "2025-01-21", Hours: 8},
	})

	assert.InDelta(t, 6, buckets["2025-01-10"].NonPTO, 1e-9, "reversed span counts as its start day")
	assert.Zero(t, buckets["2025-01-08"].NonPTO)
	assert.Zero(t, buckets["2025-01-20"].PTO, "negative hours clamp to zero")
	assert.NotContains(t, buckets, "2025-01-21")
	assert.NotContains(t, buckets, "2025-02-03")
}

func TestAllocateRequests_MakeUpClaimWindow(t *testing.T) {
	jan := la.MonthFor(2025, time.January)

	cases := []struct {
		name       string
		approvedAt *time.Time
		want       float64
	}{
		{"no approval", nil, 0},
		{"approved 14 days later", ptr(localTime(2025, 1, 20, 10, 0)), 4},
		{"approved 20 days later", ptr(localTime(2025, 1, 26, 10, 0)), 0},
		{"approved 15 days before", ptr(localTime(2024, 12, 22, 10, 0)), 0},
		{"approved same day", ptr(localTime(2025, 1, 6, 23, 59)), 4},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			buckets := AllocateRequests(la, jan, []leave.TimeOffRequest{
				{Type: leave.RequestTypeMakeUp, StartDate: "2025-01-06", EndDate: "2025-01-06", Hours: 4, ApprovedAt: c.approvedAt},
			})
			assert.InDelta(t, c.want, buckets["2025-01-06"].MakeUp, 1e-9)
		})
	}
}

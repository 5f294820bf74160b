package memory

import (
	"context"
	"sort"
	"time"

	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/attendance"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/holiday"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/leave"
)

// =============================================================================
// TIME-OFF REQUESTS
// =============================================================================

func (s *Store) AddTimeOffRequest(r leave.TimeOffRequest) leave.TimeOffRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = newID()
	}
	if r.Status == "" {
		r.Status = leave.RequestStatusApproved
	}
	r.CreatedAt = s.now()
	r.UpdatedAt = r.CreatedAt
	s.requests = append(s.requests, r)
	return r
}

type requestSource struct {
	s *Store
}

func (s *Store) Requests() leave.RequestSource {
	return &requestSource{s: s}
}

func (r *requestSource) ApprovedRequests(_ context.Context, userID string, fromDay, toDay string) ([]leave.TimeOffRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []leave.TimeOffRequest
	for _, req := range r.s.requests {
		if req.UserID != userID || req.Status != leave.RequestStatusApproved {
			continue
		}
		end := max(req.EndDate, req.StartDate)
		if req.StartDate <= toDay && end >= fromDay {
			out = append(out, req)
		}
	}
	return out, nil
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func (s *Store) AddHoliday(h holiday.Holiday) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h.ID == "" {
		h.ID = newID()
	}
	h.CreatedAt = s.now()
	s.holidays[h.Date] = h
}

type holidayRepository struct {
	s *Store
}

func (s *Store) Holidays() holiday.HolidayRepository {
	return &holidayRepository{s: s}
}

func (r *holidayRepository) ListBetween(_ context.Context, fromDay, toDay string) ([]holiday.Holiday, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []holiday.Holiday
	for date, h := range r.s.holidays {
		if date >= fromDay && date <= toDay {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// =============================================================================
// ACTIVITY
// =============================================================================

func (s *Store) AddSamples(samples ...attendance.ActivitySample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sm := range samples {
		s.samples[sm.UserID] = append(s.samples[sm.UserID], sm)
	}
}

func (s *Store) AddSessionStart(ss attendance.SessionStart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ss.SessionID == "" {
		ss.SessionID = newID()
	}
	s.sessions[ss.UserID] = append(s.sessions[ss.UserID], ss)
}

type activitySource struct {
	s *Store
}

func (s *Store) Activity() attendance.ActivitySource {
	return &activitySource{s: s}
}

func (a *activitySource) MinuteSamples(_ context.Context, userID string, from, to time.Time) ([]attendance.ActivitySample, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	var out []attendance.ActivitySample
	for _, sm := range a.s.samples[userID] {
		if !sm.MinuteStart.Before(from) && sm.MinuteStart.Before(to) {
			out = append(out, sm)
		}
	}
	return out, nil
}

func (a *activitySource) SessionStarts(_ context.Context, userID string, from, to time.Time) ([]attendance.SessionStart, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	var out []attendance.SessionStart
	for _, ss := range a.s.sessions[userID] {
		if !ss.StartedAt.Before(from) && ss.StartedAt.Before(to) {
			out = append(out, ss)
		}
	}
	return out, nil
}

package forms

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/brainswap/internal/client/models"
)

// StagedCall is a call added to a post draft but not yet created.
type StagedCall struct {
	ScheduledTime   time.Time
	MaxParticipants int
}

// CallSchedule stages the calls of a post draft. Two calls may not share the
// same calendar day and hour in the schedule's location.
type CallSchedule struct {
	loc   *time.Location
	calls []StagedCall
}

// NewCallSchedule compares calls in loc; nil means time.Local.
func NewCallSchedule(loc *time.Location) *CallSchedule {
	if loc == nil {
		loc = time.Local
	}
	return &CallSchedule{loc: loc}
}

type slot struct {
	year  int
	month time.Month
	day   int
	hour  int
}

func slotOf(t time.Time, loc *time.Location) slot {
	t = t.In(loc)
	return slot{t.Year(), t.Month(), t.Day(), t.Hour()}
}

// Add stages a call on the calendar day of date at clock ("HH:MM").
func (s *CallSchedule) Add(date time.Time, clock string, maxParticipants int) (StagedCall, error) {
	clock = strings.TrimSpace(clock)
	if date.IsZero() || clock == "" {
		return StagedCall{}, invalid("Please select both date and time")
	}
	hm, err := time.Parse("15:04", clock)
	if err != nil {
		return StagedCall{}, invalid("Please enter the time as HH:MM")
	}
	if maxParticipants < 1 {
		return StagedCall{}, invalid("Max participants must be at least 1")
	}

	d := date.In(s.loc)
	at := time.Date(d.Year(), d.Month(), d.Day(), hm.Hour(), hm.Minute(), 0, 0, s.loc)

	key := slotOf(at, s.loc)
	for _, c := range s.calls {
		if slotOf(c.ScheduledTime, s.loc) == key {
			return StagedCall{}, invalid("A call at this time already exists for this date and time")
		}
	}

	call := StagedCall{ScheduledTime: at, MaxParticipants: maxParticipants}
	s.calls = append(s.calls, call)
	return call, nil
}

// Remove drops the call at index; out-of-range indexes are ignored.
func (s *CallSchedule) Remove(index int) bool {
	if index < 0 || index >= len(s.calls) {
		return false
	}
	s.calls = append(s.calls[:index], s.calls[index+1:]...)
	return true
}

func (s *CallSchedule) Calls() []StagedCall {
	return append([]StagedCall(nil), s.calls...)
}

func (s *CallSchedule) Len() int {
	return len(s.calls)
}

func (s *CallSchedule) Location() *time.Location {
	return s.loc
}

// hasDuplicateSlots reports whether two calls share a day and hour in loc.
func hasDuplicateSlots(calls []StagedCall, loc *time.Location) bool {
	seen := make(map[slot]struct{}, len(calls))
	for _, c := range calls {
		k := slotOf(c.ScheduledTime, loc)
		if _, ok := seen[k]; ok {
			return true
		}
		seen[k] = struct{}{}
	}
	return false
}

// CallRequests builds the creation requests for calls of post postID.
func CallRequests(calls []StagedCall, postID, ownerID int64, postType models.PostType) []models.CreateCallRequest {
	out := make([]models.CreateCallRequest, len(calls))
	for i, c := range calls {
		out[i] = models.CreateCallRequest{
			PostID:          postID,
			OwnerID:         ownerID,
			ScheduledTime:   models.NewDateTime(c.ScheduledTime),
			MaxParticipants: c.MaxParticipants,
			IsLearnTogether: postType == models.PostTypeLearnTogether,
		}
	}
	return out
}

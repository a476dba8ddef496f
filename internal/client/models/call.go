package models

type CallStatus string

const (
	CallStatusScheduled  CallStatus = "SCHEDULED"
	CallStatusInProgress CallStatus = "IN_PROGRESS"
	CallStatusCompleted  CallStatus = "COMPLETED"
	CallStatusCancelled  CallStatus = "CANCELLED"
)

type Call struct {
	ID                  int64       `json:"id"`
	ScheduledTime       DateTime    `json:"scheduledTime"`
	MaxParticipants     int         `json:"maxParticipants"`
	CurrentParticipants int         `json:"currentParticipants"`
	Owner               BasicUser   `json:"owner"`
	Participants        []BasicUser `json:"participants"`
	ParticipantPrice    int         `json:"participantPrice"`
	Status              CallStatus  `json:"status"`
	IsActive            bool        `json:"isActive"`
	ZoomJoinURL         string      `json:"zoomJoinUrl"`
	ZoomMeetingID       string      `json:"zoomMeetingId"`
	ZoomPassword        string      `json:"zoomPassword"`
	ZoomHostKey         string      `json:"zoomHostKey"`
}

func (c Call) Clone() Call {
	c.Participants = append([]BasicUser(nil), c.Participants...)
	return c
}

// AvailableSeats never goes below zero.
func (c Call) AvailableSeats() int {
	if n := c.MaxParticipants - c.CurrentParticipants; n > 0 {
		return n
	}
	return 0
}

// CanSchedule reports whether viewer may join the call of a post owned by
// postOwner: not the owner, call active, seats left.
func (c Call) CanSchedule(viewer, postOwner int64) bool {
	return viewer != postOwner && c.IsActive && c.CurrentParticipants < c.MaxParticipants
}

// HasParticipant reports whether userID already joined the call.
func (c Call) HasParticipant(userID int64) bool {
	for _, p := range c.Participants {
		if p.ID == userID {
			return true
		}
	}
	return false
}

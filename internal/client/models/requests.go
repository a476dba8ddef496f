package models

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string     `json:"username"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Skills   []SkillRef `json:"skills"`
}

// AuthResponse keeps the backend's field spelling.
type AuthResponse struct {
	AccessToken string `json:"accesToken"`
}

// UpdateUserRequest leaves the password out when empty and always sends a
// null balance; the backend keeps the stored balance in that case.
type UpdateUserRequest struct {
	Username string     `json:"username"`
	Email    string     `json:"email"`
	Password string     `json:"password,omitempty"`
	Balance  *float64   `json:"balance"`
	Skills   []SkillRef `json:"skills"`
}

type AddBalanceRequest struct {
	ID      int64 `json:"id"`
	Balance int   `json:"balance"`
}

type CreatePostRequest struct {
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	SkillID      int64        `json:"skillId"`
	OwnerID      int64        `json:"ownerId"`
	LearningType LearningType `json:"learningType"`
	Type         PostType     `json:"type"`
}

type CreateCallRequest struct {
	PostID          int64    `json:"postId"`
	OwnerID         int64    `json:"ownerId"`
	ScheduledTime   DateTime `json:"scheduledTime"`
	MaxParticipants int      `json:"maxParticipants"`
	IsLearnTogether bool     `json:"isLearnTogether"`
}

type ScheduleCallRequest struct {
	CallID int64 `json:"callId"`
	UserID int64 `json:"userId"`
}

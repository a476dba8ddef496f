package models

import "fmt"

// SkillRef is the name-only skill form used in profiles and user updates.
type SkillRef struct {
	Name string `json:"name"`
}

// BasicUser is the owner/participant summary embedded in posts and calls.
type BasicUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// User is a profile snapshot as returned by GET /users/{id}.
type User struct {
	ID             int64      `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	Balance        float64    `json:"balance"`
	Skills         []SkillRef `json:"skills"`
	ScheduledCalls []Call     `json:"scheduledCalls"`
}

// Clone returns a deep copy so callers never share slices with a cache.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Skills = append([]SkillRef(nil), u.Skills...)
	if u.ScheduledCalls != nil {
		c.ScheduledCalls = make([]Call, len(u.ScheduledCalls))
		for i, call := range u.ScheduledCalls {
			c.ScheduledCalls[i] = call.Clone()
		}
	}
	return &c
}

// HasSkill reports whether the profile lists a skill with exactly this name.
func (u *User) HasSkill(name string) bool {
	if u == nil {
		return false
	}
	for _, s := range u.Skills {
		if s.Name == name {
			return true
		}
	}
	return false
}

// FormatBalance renders the navbar balance; a missing profile shows 0.00 BS.
func FormatBalance(u *User) string {
	var b float64
	if u != nil {
		b = u.Balance
	}
	return fmt.Sprintf("%.2f BS", b)
}

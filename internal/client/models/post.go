package models

import "strings"

type PostType string

const (
	PostTypeTeaching      PostType = "TEACHING"
	PostTypeLearnTogether PostType = "LEARN_TOGETHER"
)

type LearningType string

const (
	LearningTypeNone     LearningType = ""
	LearningTypeVisual   LearningType = "VISUAL"
	LearningTypeAuditory LearningType = "AUDITORY"
	LearningTypePhysical LearningType = "PHYSICAL"
	LearningTypeSocial   LearningType = "SOCIAL"
)

var LearningTypes = []LearningType{
	LearningTypeVisual, LearningTypeAuditory, LearningTypePhysical, LearningTypeSocial,
}

// ParseLearningType maps user input (any case, blank for none) to a LearningType.
func ParseLearningType(s string) (LearningType, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" || s == "NONE" {
		return LearningTypeNone, true
	}
	for _, lt := range LearningTypes {
		if string(lt) == s {
			return lt, true
		}
	}
	return LearningTypeNone, false
}

// MarshalJSON sends "no preference" as null.
func (l LearningType) MarshalJSON() ([]byte, error) {
	if l == LearningTypeNone {
		return []byte("null"), nil
	}
	return []byte(`"` + string(l) + `"`), nil
}

// Tab is the home view selector. LEARN lists every post that is not TEACHING.
type Tab string

const (
	TabTeaching Tab = "TEACHING"
	TabLearn    Tab = "LEARN"
)

func ParseTab(s string) (Tab, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "teaching", "teach":
		return TabTeaching, true
	case "learn", "learn_together", "together":
		return TabLearn, true
	}
	return "", false
}

// PostType is the type of posts created from this tab.
func (t Tab) PostType() PostType {
	if t == TabLearn {
		return PostTypeLearnTogether
	}
	return PostTypeTeaching
}

type Post struct {
	ID           int64        `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Owner        BasicUser    `json:"owner"`
	SkillID      int64        `json:"skillId"`
	Price        int          `json:"price"`
	LearningType LearningType `json:"learningType"`
	Type         PostType     `json:"type"`
	IsActive     bool         `json:"isActive"`
	Calls        []Call       `json:"calls"`
}

// InTab reports whether the post is listed under tab.
func (p Post) InTab(tab Tab) bool {
	if tab == TabTeaching {
		return p.Type == PostTypeTeaching
	}
	return p.Type != PostTypeTeaching
}

// OwnerLabel is "User" for learn-together posts and "Teacher" otherwise.
func (p Post) OwnerLabel() string {
	if p.Type == PostTypeLearnTogether {
		return "User"
	}
	return "Teacher"
}

// FilterByTab keeps the posts listed under tab, preserving order.
func FilterByTab(posts []Post, tab Tab) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if p.InTab(tab) {
			out = append(out, p)
		}
	}
	return out
}

// FormatEnum capitalises only the first letter: "VISUAL" -> "Visual".
func FormatEnum(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

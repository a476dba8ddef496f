package models

// Skill is a catalog entry. LocalID is set only for custom skills the user
// typed in that the backend has not persisted yet.
type Skill struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Popularity  int    `json:"popularity"`
	MarketValue int    `json:"marketValue"`
	Predefined  bool   `json:"predefined"`
	LocalID     string `json:"-"`
}

// SkillName looks up a skill by id, falling back to "Skill".
func SkillName(catalog []Skill, id int64) string {
	for _, s := range catalog {
		if s.ID == id {
			return s.Name
		}
	}
	return "Skill"
}

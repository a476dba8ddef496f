package forms

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/brainswap/internal/client/models"
)

// PostDraft is the add-post form.
type PostDraft struct {
	Title        string `validate:"required"`
	Description  string `validate:"required"`
	SkillID      int64  `validate:"required"`
	LearningType models.LearningType
	Type         models.PostType
	Calls        []StagedCall

	// Location is where calls are compared by day and hour; nil means
	// time.Local.
	Location *time.Location `validate:"-"`
}

// NewPostDraft starts a draft whose type follows tab.
func NewPostDraft(tab models.Tab) *PostDraft {
	return &PostDraft{Type: tab.PostType()}
}

// Validate runs, in order: the call-count policy of the post type, required
// fields, then the duplicate day+hour check.
func (d *PostDraft) Validate() error {
	if d.Type == models.PostTypeLearnTogether {
		if len(d.Calls) != 1 {
			return invalid("Learn Together posts must have exactly one scheduled call")
		}
	} else if len(d.Calls) == 0 {
		return invalid("Please add at least one scheduled call")
	}

	if fieldErrors(d) != nil {
		return invalid("Please fill in all required fields")
	}

	loc := d.Location
	if loc == nil {
		loc = time.Local
	}
	if hasDuplicateSlots(d.Calls, loc) {
		return invalid("Please remove duplicate calls before submitting")
	}
	return nil
}

func (d *PostDraft) Request(ownerID int64) models.CreatePostRequest {
	return models.CreatePostRequest{
		Title:        d.Title,
		Description:  d.Description,
		SkillID:      d.SkillID,
		OwnerID:      ownerID,
		LearningType: d.LearningType,
		Type:         d.Type,
	}
}

// SelectableSkills filters catalog by a case-insensitive substring query.
// TEACHING posts may only use skills listed in the user's profile.
func SelectableSkills(catalog []models.Skill, user *models.User, postType models.PostType, query string) []models.Skill {
	q := strings.ToLower(query)
	out := make([]models.Skill, 0, len(catalog))
	for _, s := range catalog {
		if !strings.Contains(strings.ToLower(s.Name), q) {
			continue
		}
		if postType == models.PostTypeTeaching && !user.HasSkill(s.Name) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// ParseAmount accepts a positive whole number of BS coins.
func ParseAmount(s string) (int, error) {
	n, err := parsePositiveInt(strings.TrimSpace(s))
	if err != nil {
		return 0, invalid("Please enter a valid amount")
	}
	return n, nil
}

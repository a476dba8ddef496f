// Package skills merges the public skill catalog with skills the user types
// in, and tracks which of them are selected. Selection is keyed by name.
package skills

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/brainswap/internal/client/forms"
	"github.com/dmitrijs2005/brainswap/internal/client/models"
)

const msgSkillExists = "This skill already exists."

type Selector struct {
	catalog  []models.Skill
	custom   []models.Skill
	selected []string
}

func NewSelector(catalog []models.Skill) *Selector {
	return &Selector{catalog: append([]models.Skill(nil), catalog...)}
}

// All is the catalog followed by custom skills, in insertion order.
func (s *Selector) All() []models.Skill {
	out := make([]models.Skill, 0, len(s.catalog)+len(s.custom))
	out = append(out, s.catalog...)
	return append(out, s.custom...)
}

// Search is a case-insensitive substring match over All.
func (s *Selector) Search(query string) []models.Skill {
	q := strings.ToLower(query)
	var out []models.Skill
	for _, sk := range s.All() {
		if strings.Contains(strings.ToLower(sk.Name), q) {
			out = append(out, sk)
		}
	}
	return out
}

// Grouped splits the search result into predefined and custom skills, each
// sorted by name.
func (s *Selector) Grouped(query string) (predefined, custom []models.Skill) {
	for _, sk := range s.Search(query) {
		if sk.Predefined {
			predefined = append(predefined, sk)
		} else {
			custom = append(custom, sk)
		}
	}
	byName := func(list []models.Skill) {
		sort.SliceStable(list, func(i, j int) bool {
			return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name)
		})
	}
	byName(predefined)
	byName(custom)
	return predefined, custom
}

// Available is the search result minus the already selected names.
func (s *Selector) Available(query string) []models.Skill {
	var out []models.Skill
	for _, sk := range s.Search(query) {
		if !s.IsSelected(sk.Name) {
			out = append(out, sk)
		}
	}
	return out
}

func (s *Selector) IsSelected(name string) bool {
	for _, n := range s.selected {
		if n == name {
			return true
		}
	}
	return false
}

// Toggle selects name, or deselects it when already selected. It reports
// whether name is selected afterwards.
func (s *Selector) Toggle(name string) bool {
	if s.IsSelected(name) {
		s.Remove(name)
		return false
	}
	s.selected = append(s.selected, name)
	return true
}

// AddCustom adds a not-yet-persisted skill and selects it. Blank input is
// ignored; a name already present in any case is rejected.
func (s *Selector) AddCustom(name string) (models.Skill, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Skill{}, nil
	}
	for _, sk := range s.All() {
		if strings.EqualFold(sk.Name, name) {
			return models.Skill{}, &forms.ValidationError{Message: msgSkillExists}
		}
	}

	sk := models.Skill{Name: name, LocalID: uuid.NewString()}
	s.custom = append(s.custom, sk)
	if !s.IsSelected(name) {
		s.selected = append(s.selected, name)
	}
	return sk, nil
}

func (s *Selector) Remove(name string) {
	out := s.selected[:0]
	for _, n := range s.selected {
		if n != name {
			out = append(out, n)
		}
	}
	s.selected = out
}

// Selected returns the selection in the order it was made.
func (s *Selector) Selected() []models.SkillRef {
	out := make([]models.SkillRef, len(s.selected))
	for i, n := range s.selected {
		out[i] = models.SkillRef{Name: n}
	}
	return out
}

// Set replaces the selection, e.g. with the skills of a loaded profile.
func (s *Selector) Set(refs []models.SkillRef) {
	s.selected = s.selected[:0]
	for _, r := range refs {
		if r.Name != "" && !s.IsSelected(r.Name) {
			s.selected = append(s.selected, r.Name)
		}
	}
}

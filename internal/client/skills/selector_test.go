package skills

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/brainswap/internal/client/forms"
	"github.com/dmitrijs2005/brainswap/internal/client/models"
)

func catalog() []models.Skill {
	return []models.Skill{
		{ID: 1, Name: "Python", Predefined: true},
		{ID: 2, Name: "go", Predefined: true},
		{ID: 3, Name: "Knitting"},
		{ID: 4, Name: "Algorithms", Predefined: true},
	}
}

func names(list []models.Skill) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.Name
	}
	return out
}

func TestSearch_CaseInsensitiveSubstring(t *testing.T) {
	s := NewSelector(catalog())

	assert.Equal(t, []string{"Python", "go", "Algorithms"}, names(s.Search("O")))
	assert.Equal(t, []string{"Knitting"}, names(s.Search("knit")))
	assert.Len(t, s.Search(""), 4)
	assert.Empty(t, s.Search("zzz"))
}

func TestGrouped_SortsEachGroup(t *testing.T) {
	s := NewSelector(catalog())
	_, err := s.AddCustom("Baking")
	require.NoError(t, err)

	pre, custom := s.Grouped("")
	assert.Equal(t, []string{"Algorithms", "go", "Python"}, names(pre))
	assert.Equal(t, []string{"Baking", "Knitting"}, names(custom))
}

func TestAddCustom(t *testing.T) {
	s := NewSelector(catalog())

	sk, err := s.AddCustom("  Chess  ")
	require.NoError(t, err)
	assert.Equal(t, "Chess", sk.Name)
	assert.Zero(t, sk.ID)
	_, perr := uuid.Parse(sk.LocalID)
	assert.NoError(t, perr)
	assert.True(t, s.IsSelected("Chess"))

	_, err = s.AddCustom("PYTHON")
	require.Error(t, err)
	msg, ok := forms.Message(err)
	require.True(t, ok)
	assert.Equal(t, "This skill already exists.", msg)

	_, err = s.AddCustom("chess")
	assert.Error(t, err, "custom skills clash too")

	blank, err := s.AddCustom("   ")
	require.NoError(t, err)
	assert.Empty(t, blank.Name)
	assert.Len(t, s.All(), 5)
}

func TestToggleRemoveSelected(t *testing.T) {
	s := NewSelector(catalog())

	assert.True(t, s.Toggle("Python"))
	assert.True(t, s.Toggle("go"))
	assert.False(t, s.Toggle("Python"))
	assert.Equal(t, []models.SkillRef{{Name: "go"}}, s.Selected())

	s.Remove("go")
	s.Remove("never-selected")
	assert.Empty(t, s.Selected())
}

func TestAvailable_ExcludesSelected(t *testing.T) {
	s := NewSelector(catalog())
	s.Set([]models.SkillRef{{Name: "go"}, {Name: "go"}, {Name: ""}, {Name: "Knitting"}})

	assert.Equal(t, []models.SkillRef{{Name: "go"}, {Name: "Knitting"}}, s.Selected())
	assert.Equal(t, []string{"Python", "Algorithms"}, names(s.Available("")))
	assert.Equal(t, []string{"Python"}, names(s.Available("py")))
}

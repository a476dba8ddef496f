package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateTime_UnmarshalFormats(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{name: "local date-time", in: `"2025-06-01T14:00:00"`, want: time.Date(2025, 6, 1, 14, 0, 0, 0, time.Local)},
		{name: "local with fraction", in: `"2025-06-01T14:00:00.5"`, want: time.Date(2025, 6, 1, 14, 0, 0, 5e8, time.Local)},
		{name: "local minutes only", in: `"2025-06-01T14:30"`, want: time.Date(2025, 6, 1, 14, 30, 0, 0, time.Local)},
		{name: "rfc3339", in: `"2025-06-01T14:00:00Z"`, want: time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)},
		{name: "null", in: `null`, want: time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d DateTime
			require.NoError(t, json.Unmarshal([]byte(tt.in), &d))
			assert.True(t, tt.want.Equal(d.Time), "got %v want %v", d.Time, tt.want)
		})
	}
}

func TestDateTime_UnmarshalRejectsGarbage(t *testing.T) {
	var d DateTime
	assert.Error(t, json.Unmarshal([]byte(`"tomorrow"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`12`), &d))
}

func TestDateTime_MarshalISO(t *testing.T) {
	d := NewDateTime(time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC))
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-06-01T14:00:00.000Z"`, string(b))

	b, err = json.Marshal(DateTime{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}

func TestLearningType_Marshal(t *testing.T) {
	req := CreatePostRequest{Title: "t", Type: PostTypeTeaching}
	b, err := json.Marshal(req)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"learningType":null`)

	req.LearningType = LearningTypeVisual
	b, err = json.Marshal(req)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"learningType":"VISUAL"`)
}

func TestParseLearningType(t *testing.T) {
	lt, ok := ParseLearningType(" visual ")
	assert.True(t, ok)
	assert.Equal(t, LearningTypeVisual, lt)

	lt, ok = ParseLearningType("")
	assert.True(t, ok)
	assert.Equal(t, LearningTypeNone, lt)

	_, ok = ParseLearningType("telepathic")
	assert.False(t, ok)
}

func TestFilterByTab(t *testing.T) {
	posts := []Post{
		{ID: 1, Type: PostTypeTeaching},
		{ID: 2, Type: PostTypeLearnTogether},
		{ID: 3, Type: "SOMETHING_ELSE"},
	}

	teaching := FilterByTab(posts, TabTeaching)
	require.Len(t, teaching, 1)
	assert.Equal(t, int64(1), teaching[0].ID)

	learn := FilterByTab(posts, TabLearn)
	require.Len(t, learn, 2)
	assert.Equal(t, int64(2), learn[0].ID)
	assert.Equal(t, int64(3), learn[1].ID)
}

func TestTab_PostType(t *testing.T) {
	assert.Equal(t, PostTypeLearnTogether, TabLearn.PostType())
	assert.Equal(t, PostTypeTeaching, TabTeaching.PostType())
	assert.Equal(t, PostTypeTeaching, Tab("").PostType())
}

func TestFormatEnum(t *testing.T) {
	assert.Equal(t, "Visual", FormatEnum("VISUAL"))
	assert.Equal(t, "Learn_together", FormatEnum("LEARN_TOGETHER"))
	assert.Equal(t, "", FormatEnum(""))
}

func TestFormatBalance(t *testing.T) {
	assert.Equal(t, "0.00 BS", FormatBalance(nil))
	assert.Equal(t, "0.00 BS", FormatBalance(&User{Balance: 0}))
	assert.Equal(t, "12.50 BS", FormatBalance(&User{Balance: 12.5}))
}

func TestCall_Seats(t *testing.T) {
	c := Call{MaxParticipants: 3, CurrentParticipants: 1, IsActive: true}
	assert.Equal(t, 2, c.AvailableSeats())
	assert.True(t, c.CanSchedule(5, 9))
	assert.False(t, c.CanSchedule(9, 9), "owner cannot join own call")

	c.CurrentParticipants = 3
	assert.Equal(t, 0, c.AvailableSeats())
	assert.False(t, c.CanSchedule(5, 9))

	c = Call{MaxParticipants: 1, CurrentParticipants: 5}
	assert.Equal(t, 0, c.AvailableSeats())
}

func TestUser_CloneIsDeep(t *testing.T) {
	u := &User{ID: 1, Skills: []SkillRef{{Name: "Go"}}, ScheduledCalls: []Call{{ID: 4, Participants: []BasicUser{{ID: 2}}}}}
	c := u.Clone()
	c.Skills[0].Name = "Rust"
	c.ScheduledCalls[0].Participants[0].ID = 99

	assert.Equal(t, "Go", u.Skills[0].Name)
	assert.Equal(t, int64(2), u.ScheduledCalls[0].Participants[0].ID)
	assert.Nil(t, (*User)(nil).Clone())
	assert.True(t, u.HasSkill("Go"))
	assert.False(t, u.HasSkill("go"))
}

func TestAuthResponse_BackendSpelling(t *testing.T) {
	var r AuthResponse
	require.NoError(t, json.Unmarshal([]byte(`{"accesToken":"x.y.z"}`), &r))
	assert.Equal(t, "x.y.z", r.AccessToken)
}

func TestUpdateUserRequest_OmitsEmptyPasswordSendsNullBalance(t *testing.T) {
	b, err := json.Marshal(UpdateUserRequest{Username: "u", Email: "e@x.io", Skills: []SkillRef{{Name: "Go"}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"u","email":"e@x.io","balance":null,"skills":[{"name":"Go"}]}`, string(b))
}

func TestSkillName_Fallback(t *testing.T) {
	catalog := []Skill{{ID: 1, Name: "Go"}}
	assert.Equal(t, "Go", SkillName(catalog, 1))
	assert.Equal(t, "Skill", SkillName(catalog, 2))
}

package jsonx

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
	Note    *string `json:"note"`
}

func TestMarshalUnmarshal_RoundTripsFields(t *testing.T) {
	in := payload{ID: 7, Name: "alice", Balance: 12.5}

	b, err := Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"name":"alice","balance":12.5,"note":null}`, string(b))

	var out payload
	require.NoError(t, Unmarshal(b, &out))
	assert.Equal(t, in, out)
}

func TestNewDecoder_ReadsStream(t *testing.T) {
	var out payload
	err := NewDecoder(strings.NewReader(`{"id":3,"name":"bob"}`)).Decode(&out)
	require.NoError(t, err)
	assert.Equal(t, int64(3), out.ID)
	assert.Equal(t, "bob", out.Name)
}

func TestValid(t *testing.T) {
	assert.True(t, Valid([]byte(`{"a":1}`)))
	assert.False(t, Valid([]byte(`{"a":`)))
}

func TestIsUsingSonic_MatchesArch(t *testing.T) {
	want := runtime.GOARCH == "amd64" || runtime.GOARCH == "arm64"
	assert.Equal(t, want, IsUsingSonic())
}

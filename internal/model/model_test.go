package model

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRoster() Roster {
	return Roster{
		{Name: "Zumba", Activity: Activity{Description: "Dance", Schedule: "Mon", MaxParticipants: 5, Participants: []string{"a@x.edu"}}},
		{Name: "Archery", Activity: Activity{Description: "Bows", Schedule: "Tue", MaxParticipants: 3}},
	}
}

func TestRoster_MarshalJSONKeepsOrder(t *testing.T) {
	data, err := json.Marshal(testRoster())
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"Zumba": {"description":"Dance","schedule":"Mon","max_participants":5,"participants":["a@x.edu"]},
		"Archery": {"description":"Bows","schedule":"Tue","max_participants":3,"participants":[]}
	}`, string(data))
	assert.Less(t, strings.Index(string(data), "Zumba"), strings.Index(string(data), "Archery"))
}

func TestRoster_UnmarshalsAsMap(t *testing.T) {
	data, err := json.Marshal(testRoster())
	require.NoError(t, err)

	var decoded map[string]Activity
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded, 2)
	assert.Equal(t, []string{"a@x.edu"}, decoded["Zumba"].Participants)
}

func TestRoster_CloneIsIndependent(t *testing.T) {
	orig := testRoster()
	clone := orig.Clone()

	clone[0].Activity.Participants[0] = "changed@x.edu"
	clone[0].Activity.Participants = append(clone[0].Activity.Participants, "b@x.edu")

	assert.Equal(t, []string{"a@x.edu"}, orig[0].Activity.Participants)
}

func TestRoster_GetAndNames(t *testing.T) {
	r := testRoster()

	a, ok := r.Get("Archery")
	require.True(t, ok)
	assert.Equal(t, 3, a.MaxParticipants)

	_, ok = r.Get("Nonexistent")
	assert.False(t, ok)

	assert.Equal(t, []string{"Zumba", "Archery"}, r.Names())
}

func TestActivity_HasParticipant(t *testing.T) {
	a := Activity{Participants: []string{"a@x.edu"}}
	assert.True(t, a.HasParticipant("a@x.edu"))
	assert.False(t, a.HasParticipant("A@x.edu"))
}

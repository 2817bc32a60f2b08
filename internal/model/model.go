// Package model defines the core domain types for the activity signup service.
package model

import (
	"bytes"
	"encoding/json"
	"slices"
)

// Activity is an extracurricular offering students can sign up for.
type Activity struct {
	Description     string   `json:"description" yaml:"description"`
	Schedule        string   `json:"schedule" yaml:"schedule"`
	MaxParticipants int      `json:"max_participants" yaml:"max_participants"`
	Participants    []string `json:"participants" yaml:"participants"`
}

// HasParticipant reports whether email is enrolled.
func (a *Activity) HasParticipant(email string) bool {
	return slices.Contains(a.Participants, email)
}

// Clone returns a copy that shares no participant storage with a.
func (a Activity) Clone() Activity {
	a.Participants = append([]string{}, a.Participants...)
	return a
}

// NamedActivity pairs an activity with its unique name.
type NamedActivity struct {
	Name     string   `yaml:"name"`
	Activity Activity `yaml:",inline"`
}

// Roster is the full set of activities in display order.
// It marshals to a JSON object keyed by activity name.
type Roster []NamedActivity

// Get returns the activity called name.
func (r Roster) Get(name string) (Activity, bool) {
	for _, na := range r {
		if na.Name == name {
			return na.Activity, true
		}
	}
	return Activity{}, false
}

// Names returns activity names in roster order.
func (r Roster) Names() []string {
	names := make([]string, len(r))
	for i, na := range r {
		names[i] = na.Name
	}
	return names
}

// Clone deep-copies the roster.
func (r Roster) Clone() Roster {
	out := make(Roster, len(r))
	for i, na := range r {
		out[i] = NamedActivity{Name: na.Name, Activity: na.Activity.Clone()}
	}
	return out
}

// MarshalJSON writes the roster as an object, keeping roster order
// instead of the sorted key order encoding/json uses for maps.
func (r Roster) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, na := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(na.Name)
		if err != nil {
			return nil, err
		}
		a := na.Activity
		if a.Participants == nil {
			a.Participants = []string{}
		}
		val, err := json.Marshal(a)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MessageResponse is the success envelope for signup and unregister.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the standard JSON error envelope.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

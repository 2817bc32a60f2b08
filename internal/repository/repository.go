// Package repository holds the activity roster: the seed dataset and the
// stores that keep it (in memory, PostgreSQL or Redis).
package repository

import (
	"context"
	"errors"

	"github.com/Shivanand-hulikatti/mergington-activities/internal/model"
)

// ErrActivityNotFound is returned when no activity has the requested name.
var ErrActivityNotFound = errors.New("Activity not found")

// ErrAlreadySignedUp is returned when the email is already a participant.
var ErrAlreadySignedUp = errors.New("Student is already signed up")

// ErrNotSignedUp is returned when unregistering an email that is not a participant.
var ErrNotSignedUp = errors.New("Student is not signed up for this activity")

// RosterStore owns the roster. SignUp and Unregister must be atomic with
// respect to their membership check.
type RosterStore interface {
	// List returns a snapshot of every activity in display order.
	List(ctx context.Context) (model.Roster, error)
	// SignUp adds email to the activity's participants.
	SignUp(ctx context.Context, activity, email string) error
	// Unregister removes email from the activity's participants.
	Unregister(ctx context.Context, activity, email string) error
	// Reset restores the seed roster.
	Reset(ctx context.Context) error
}

var (
	_ RosterStore = (*MemoryStore)(nil)
	_ RosterStore = (*PostgresStore)(nil)
	_ RosterStore = (*RedisStore)(nil)
)

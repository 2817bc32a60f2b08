package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Shared store behaviour
// ==========================

// runStoreContract exercises the roster contract against any RosterStore
// built by newStore, which must return a store holding DefaultSeed.
func runStoreContract(t *testing.T, newStore func(t *testing.T) RosterStore) {
	ctx := context.Background()

	t.Run("ListReturnsSeed", func(t *testing.T) {
		store := newStore(t)

		roster, err := store.List(ctx)
		require.NoError(t, err)
		assert.Len(t, roster, 9)
		assert.Equal(t, DefaultSeed(), roster)
	})

	t.Run("SignUpAddsParticipant", func(t *testing.T) {
		store := newStore(t)

		require.NoError(t, store.SignUp(ctx, "Basketball", "newstudent@mergington.edu"))

		roster, err := store.List(ctx)
		require.NoError(t, err)
		a, _ := roster.Get("Basketball")
		assert.Equal(t, []string{"alex@mergington.edu", "newstudent@mergington.edu"}, a.Participants)
	})

	t.Run("SignUpTwiceConflicts", func(t *testing.T) {
		store := newStore(t)

		require.NoError(t, store.SignUp(ctx, "Chess Club", "student@mergington.edu"))
		err := store.SignUp(ctx, "Chess Club", "student@mergington.edu")
		assert.ErrorIs(t, err, ErrAlreadySignedUp)

		roster, err := store.List(ctx)
		require.NoError(t, err)
		a, _ := roster.Get("Chess Club")
		count := 0
		for _, p := range a.Participants {
			if p == "student@mergington.edu" {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("SignUpSeededParticipantConflicts", func(t *testing.T) {
		store := newStore(t)

		err := store.SignUp(ctx, "Basketball", "alex@mergington.edu")
		require.ErrorIs(t, err, ErrAlreadySignedUp)
		assert.Contains(t, err.Error(), "already signed up")
	})

	t.Run("SignUpUnknownActivity", func(t *testing.T) {
		store := newStore(t)

		err := store.SignUp(ctx, "Nonexistent", "student@mergington.edu")
		require.ErrorIs(t, err, ErrActivityNotFound)
		assert.Equal(t, "Activity not found", err.Error())

		roster, err := store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, DefaultSeed(), roster)
	})

	t.Run("UnregisterRemovesParticipant", func(t *testing.T) {
		store := newStore(t)

		require.NoError(t, store.Unregister(ctx, "Basketball", "alex@mergington.edu"))

		roster, err := store.List(ctx)
		require.NoError(t, err)
		a, _ := roster.Get("Basketball")
		assert.NotContains(t, a.Participants, "alex@mergington.edu")
		assert.NotNil(t, a.Participants)
	})

	t.Run("UnregisterNotEnrolled", func(t *testing.T) {
		store := newStore(t)

		err := store.Unregister(ctx, "Basketball", "nonexistent@mergington.edu")
		require.ErrorIs(t, err, ErrNotSignedUp)
		assert.Contains(t, err.Error(), "not signed up")

		roster, err := store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, DefaultSeed(), roster)
	})

	t.Run("UnregisterUnknownActivity", func(t *testing.T) {
		store := newStore(t)

		err := store.Unregister(ctx, "Nonexistent", "student@mergington.edu")
		assert.ErrorIs(t, err, ErrActivityNotFound)

		roster, err := store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, DefaultSeed(), roster)
	})

	t.Run("SignUpThenUnregisterRestores", func(t *testing.T) {
		store := newStore(t)

		before, err := store.List(ctx)
		require.NoError(t, err)

		require.NoError(t, store.SignUp(ctx, "Drama Club", "student@mergington.edu"))
		require.NoError(t, store.Unregister(ctx, "Drama Club", "student@mergington.edu"))

		after, err := store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("CapacityIsNotEnforced", func(t *testing.T) {
		store := newStore(t)

		// Tennis Club seats 10 and starts with one participant.
		for i := 0; i < 12; i++ {
			require.NoError(t, store.SignUp(ctx, "Tennis Club", fmt.Sprintf("s%d@mergington.edu", i)))
		}

		roster, err := store.List(ctx)
		require.NoError(t, err)
		a, _ := roster.Get("Tennis Club")
		assert.Equal(t, 10, a.MaxParticipants)
		assert.Len(t, a.Participants, 13)
	})

	t.Run("ResetRestoresSeed", func(t *testing.T) {
		store := newStore(t)

		require.NoError(t, store.SignUp(ctx, "Art Studio", "student1@mergington.edu"))
		require.NoError(t, store.Unregister(ctx, "Gym Class", "john@mergington.edu"))
		require.NoError(t, store.Reset(ctx))

		roster, err := store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, DefaultSeed(), roster)
	})

	t.Run("ListIsSnapshot", func(t *testing.T) {
		store := newStore(t)

		roster, err := store.List(ctx)
		require.NoError(t, err)
		roster[0].Activity.Participants[0] = "tampered@mergington.edu"

		again, err := store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, "alex@mergington.edu", again[0].Activity.Participants[0])
	})

	t.Run("ConcurrentSignUpSameEmail", func(t *testing.T) {
		store := newStore(t)

		const workers = 20
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
			conflicts int
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := store.SignUp(ctx, "Robotics Club", "racer@mergington.edu")
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					successes++
				case errors.Is(err, ErrAlreadySignedUp):
					conflicts++
				default:
					t.Errorf("unexpected signup error: %v", err)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, successes)
		assert.Equal(t, workers-1, conflicts)
	})
}

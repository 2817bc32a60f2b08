package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Shivanand-hulikatti/mergington-activities/internal/model"
	"github.com/google/uuid"
)

const schema = `
CREATE TABLE IF NOT EXISTS activities (
	name             TEXT PRIMARY KEY,
	description      TEXT NOT NULL,
	schedule         TEXT NOT NULL,
	max_participants INT  NOT NULL CHECK (max_participants > 0),
	position         INT  NOT NULL
);

CREATE TABLE IF NOT EXISTS participants (
	id            UUID PRIMARY KEY,
	activity_name TEXT NOT NULL REFERENCES activities(name) ON DELETE CASCADE,
	email         TEXT NOT NULL,
	seq           BIGSERIAL,
	created_at    TIMESTAMPTZ NOT NULL,
	UNIQUE (activity_name, email)
);`

// PostgresStore keeps the roster in PostgreSQL. It talks database/sql so it
// works with the pgx stdlib driver in production and sqlmock in tests.
type PostgresStore struct {
	db   *sql.DB
	seed model.Roster
}

// NewPostgresStore constructs a PostgresStore. Reset reloads seed.
func NewPostgresStore(db *sql.DB, seed model.Roster) *PostgresStore {
	return &PostgresStore{db: db, seed: seed.Clone()}
}

// Migrate creates the roster tables when they do not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate roster schema: %w", err)
	}
	return nil
}

// SeedIfEmpty loads the seed roster unless activities already exist.
func (s *PostgresStore) SeedIfEmpty(ctx context.Context) error {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activities`).Scan(&n); err != nil {
		return fmt.Errorf("count activities: %w", err)
	}
	if n > 0 {
		return nil
	}
	return s.Reset(ctx)
}

// List returns every activity ordered by seed position, with participants
// in signup order.
func (s *PostgresStore) List(ctx context.Context) (model.Roster, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, description, schedule, max_participants
		 FROM activities
		 ORDER BY position ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	roster := model.Roster{}
	index := make(map[string]int)
	for rows.Next() {
		var na model.NamedActivity
		if err := rows.Scan(&na.Name, &na.Activity.Description, &na.Activity.Schedule, &na.Activity.MaxParticipants); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		na.Activity.Participants = []string{}
		index[na.Name] = len(roster)
		roster = append(roster, na)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}

	prows, err := s.db.QueryContext(ctx,
		`SELECT activity_name, email
		 FROM participants
		 ORDER BY seq ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer prows.Close()

	for prows.Next() {
		var name, email string
		if err := prows.Scan(&name, &email); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		if i, ok := index[name]; ok {
			roster[i].Activity.Participants = append(roster[i].Activity.Participants, email)
		}
	}
	if err := prows.Err(); err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return roster, nil
}

// SignUp inserts a participant row under a lock on the activity row, so two
// concurrent signups for the same email cannot both pass the duplicate check.
func (s *PostgresStore) SignUp(ctx context.Context, activity, email string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := lockActivity(ctx, tx, activity); err != nil {
			return err
		}

		var dupCount int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM participants WHERE activity_name = $1 AND email = $2`,
			activity, email,
		).Scan(&dupCount)
		if err != nil {
			return fmt.Errorf("check duplicate: %w", err)
		}
		if dupCount > 0 {
			return ErrAlreadySignedUp
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO participants (id, activity_name, email, created_at)
			 VALUES ($1, $2, $3, $4)`,
			uuid.New().String(), activity, email, time.Now().UTC(),
		)
		if err != nil {
			return fmt.Errorf("insert participant: %w", err)
		}
		return nil
	})
}

// Unregister deletes the participant row under the same activity lock.
func (s *PostgresStore) Unregister(ctx context.Context, activity, email string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := lockActivity(ctx, tx, activity); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx,
			`DELETE FROM participants WHERE activity_name = $1 AND email = $2`,
			activity, email,
		)
		if err != nil {
			return fmt.Errorf("delete participant: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete participant: %w", err)
		}
		if n == 0 {
			return ErrNotSignedUp
		}
		return nil
	})
}

// Reset truncates both tables and reloads the seed in one transaction.
func (s *PostgresStore) Reset(ctx context.Context) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `TRUNCATE participants, activities`); err != nil {
			return fmt.Errorf("truncate roster: %w", err)
		}

		now := time.Now().UTC()
		for pos, na := range s.seed {
			a := na.Activity
			_, err := tx.ExecContext(ctx,
				`INSERT INTO activities (name, description, schedule, max_participants, position)
				 VALUES ($1, $2, $3, $4, $5)`,
				na.Name, a.Description, a.Schedule, a.MaxParticipants, pos,
			)
			if err != nil {
				return fmt.Errorf("insert activity %q: %w", na.Name, err)
			}
			for _, email := range a.Participants {
				_, err := tx.ExecContext(ctx,
					`INSERT INTO participants (id, activity_name, email, created_at)
					 VALUES ($1, $2, $3, $4)`,
					uuid.New().String(), na.Name, email, now,
				)
				if err != nil {
					return fmt.Errorf("insert participant %s: %w", email, err)
				}
			}
		}
		return nil
	})
}

// lockActivity takes a row-level lock on the activity (SELECT … FOR UPDATE)
// that is held until the surrounding transaction ends.
func lockActivity(ctx context.Context, tx *sql.Tx, activity string) error {
	var one int
	err := tx.QueryRowContext(ctx,
		`SELECT 1 FROM activities WHERE name = $1 FOR UPDATE`,
		activity,
	).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrActivityNotFound
		}
		return fmt.Errorf("lock activity row: %w", err)
	}
	return nil
}

func (s *PostgresStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the roster store.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Shivanand-hulikatti/mergington-activities/internal/logger"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/metrics"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/model"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/repository"
	"go.uber.org/zap"
)

// ErrEmailRequired is returned when the email is missing or blank.
var ErrEmailRequired = errors.New("email is required")

// RosterService orchestrates activity signup operations.
type RosterService struct {
	store repository.RosterStore
	log   *zap.Logger
}

// NewRosterService constructs a RosterService over store.
func NewRosterService(store repository.RosterStore, log *zap.Logger) *RosterService {
	if log == nil {
		log = zap.NewNop()
	}
	return &RosterService{store: store, log: log}
}

// ListActivities returns every activity in display order.
func (s *RosterService) ListActivities(ctx context.Context) (model.Roster, error) {
	roster, err := s.store.List(ctx)
	s.record("list", err)
	if err != nil {
		s.log.Error("list activities failed", zap.Error(err))
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return roster, nil
}

// SignUp enrolls email in activity. Capacity is informational and does not
// block the signup.
func (s *RosterService) SignUp(ctx context.Context, activity, email string) (*model.MessageResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		s.record("signup", ErrEmailRequired)
		return nil, ErrEmailRequired
	}

	err := s.store.SignUp(ctx, activity, email)
	s.record("signup", err)
	if err != nil {
		s.logFailure("signup rejected", activity, email, err)
		if isDomainError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("sign up for activity: %w", err)
	}

	s.log.Info("participant signed up",
		zap.String("activity", activity),
		zap.String("email", logger.MaskEmail(email)),
	)
	return &model.MessageResponse{
		Message: fmt.Sprintf("Signed up %s for %s", email, activity),
	}, nil
}

// Unregister removes email from activity.
func (s *RosterService) Unregister(ctx context.Context, activity, email string) (*model.MessageResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		s.record("unregister", ErrEmailRequired)
		return nil, ErrEmailRequired
	}

	err := s.store.Unregister(ctx, activity, email)
	s.record("unregister", err)
	if err != nil {
		s.logFailure("unregister rejected", activity, email, err)
		if isDomainError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("unregister from activity: %w", err)
	}

	s.log.Info("participant unregistered",
		zap.String("activity", activity),
		zap.String("email", logger.MaskEmail(email)),
	)
	return &model.MessageResponse{
		Message: fmt.Sprintf("Unregistered %s from %s", email, activity),
	}, nil
}

// Reset restores the seed roster.
func (s *RosterService) Reset(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		s.record("reset", err)
		return fmt.Errorf("reset roster: %w", err)
	}
	s.record("reset", nil)
	s.log.Info("roster reset to seed")
	return nil
}

// isDomainError reports whether err is one the caller can act on rather
// than a backend failure.
func isDomainError(err error) bool {
	return errors.Is(err, repository.ErrActivityNotFound) ||
		errors.Is(err, repository.ErrAlreadySignedUp) ||
		errors.Is(err, repository.ErrNotSignedUp)
}

func (s *RosterService) record(op string, err error) {
	metrics.RosterOperations.WithLabelValues(op, resultLabel(err)).Inc()
}

func (s *RosterService) logFailure(msg, activity, email string, err error) {
	fields := []zap.Field{
		zap.String("activity", activity),
		zap.String("email", logger.MaskEmail(email)),
		zap.Error(err),
	}
	if isDomainError(err) {
		s.log.Warn(msg, fields...)
		return
	}
	s.log.Error(msg, fields...)
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, repository.ErrActivityNotFound):
		return metrics.ResultNotFound
	case errors.Is(err, repository.ErrAlreadySignedUp), errors.Is(err, repository.ErrNotSignedUp):
		return metrics.ResultConflict
	case errors.Is(err, ErrEmailRequired):
		return metrics.ResultInvalid
	default:
		return metrics.ResultError
	}
}

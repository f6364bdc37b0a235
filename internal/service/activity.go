package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/healthtrack/backend/internal/apperror"
	"github.com/healthtrack/backend/internal/model"
	"github.com/healthtrack/backend/internal/repository"
)

// Validation limits for activities.
const (
	MaxActivityNameLength = 100
	dateLayout            = "2006-01-02"
)

// ActivityService handles business logic for logged activities. Every
// operation is scoped to the authenticated user: you can only see, delete
// and aggregate your own entries.
type ActivityService struct {
	repo   repository.ActivityRepository
	logger *slog.Logger
}

// NewActivityService creates an ActivityService.
func NewActivityService(repo repository.ActivityRepository, logger *slog.Logger) *ActivityService {
	return &ActivityService{
		repo:   repo,
		logger: logger,
	}
}

// Create validates and saves a new activity for the given user.
//
// Rules: type is "exercise" or "meal"; name and date are required; calories
// must be positive; duration defaults to 0 and can't be negative; date must
// be a real calendar day in YYYY-MM-DD form (the storage layer relies on
// that format for ordering).
func (s *ActivityService) Create(ctx context.Context, userID, activityType, name string, duration, calories int, date string) (*model.Activity, error) {
	name = strings.TrimSpace(name)
	date = strings.TrimSpace(date)

	if activityType != model.ActivityTypeExercise && activityType != model.ActivityTypeMeal {
		return nil, apperror.ValidationFailed("type", "Type must be exercise or meal")
	}
	if name == "" || date == "" || calories == 0 {
		return nil, apperror.ValidationFailed("", "Missing fields")
	}
	if len(name) > MaxActivityNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("Name must be %d characters or less", MaxActivityNameLength))
	}
	if calories < 0 {
		return nil, apperror.ValidationFailed("calories", "Calories must be positive")
	}
	if duration < 0 {
		return nil, apperror.ValidationFailed("duration", "Duration cannot be negative")
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, apperror.ValidationFailed("date", "Date must be in YYYY-MM-DD format")
	}

	activity := &model.Activity{
		UserID:   userID,
		Type:     activityType,
		Name:     name,
		Duration: duration,
		Calories: calories,
		Date:     date,
	}

	if err := s.repo.Create(ctx, activity); err != nil {
		s.logger.Error("failed to create activity",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating activity: %w", err)
	}

	s.logger.Info("activity created",
		slog.String("id", activity.ID),
		slog.String("userID", userID),
		slog.String("type", activity.Type),
	)

	return activity, nil
}

// List returns the user's activities, newest date first.
func (s *ActivityService) List(ctx context.Context, userID string) ([]model.Activity, error) {
	activities, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list activities",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	return activities, nil
}

// Delete removes one of the user's activities.
//
// Ownership is checked before deleting. An activity that doesn't exist and
// one owned by somebody else produce the same NotFound — the API doesn't
// reveal whether somebody else's ID was valid.
func (s *ActivityService) Delete(ctx context.Context, userID, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "Activity ID is required")
	}

	activity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return err
		}
		s.logger.Error("failed to load activity",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("loading activity: %w", err)
	}
	if activity.UserID != userID {
		return apperror.NotFound("Activity")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return err
		}
		s.logger.Error("failed to delete activity",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("deleting activity: %w", err)
	}

	s.logger.Info("activity deleted",
		slog.String("id", id),
		slog.String("userID", userID),
	)

	return nil
}

// Stats returns the user's aggregate summary (count and total calories).
func (s *ActivityService) Stats(ctx context.Context, userID string) (*model.ActivityStats, error) {
	stats, err := s.repo.StatsByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to compute stats",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("computing stats: %w", err)
	}
	return stats, nil
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/healthtrack/backend/internal/apperror"
	"github.com/healthtrack/backend/internal/model"
	"github.com/healthtrack/backend/internal/repository"
)

// ActivityRepo implements repository.ActivityRepository over the shared
// pool. Obtain one via DB.Activities.
type ActivityRepo struct {
	conn *sql.DB
}

// compile-time check that *ActivityRepo implements repository.ActivityRepository
var _ repository.ActivityRepository = (*ActivityRepo)(nil)

// Create inserts a new activity, assigning ID and CreatedAt on the passed
// struct. UserID, Type, Name, Calories and Date must already be validated by
// the service.
func (r *ActivityRepo) Create(ctx context.Context, activity *model.Activity) error {
	activity.ID = xid.New().String()
	activity.CreatedAt = time.Now()

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO activities (id, user_id, type, name, duration, calories, date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		activity.ID,
		activity.UserID,
		activity.Type,
		activity.Name,
		activity.Duration,
		activity.Calories,
		activity.Date,
		activity.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting activity: %w", err)
	}

	return nil
}

// GetByID retrieves a single activity regardless of owner.
// Returns apperror.ErrNotFound if it doesn't exist.
func (r *ActivityRepo) GetByID(ctx context.Context, id string) (*model.Activity, error) {
	var a model.Activity

	err := r.conn.QueryRowContext(ctx,
		`SELECT id, user_id, type, name, duration, calories, date, created_at
		 FROM activities WHERE id = ?`,
		id,
	).Scan(
		&a.ID,
		&a.UserID,
		&a.Type,
		&a.Name,
		&a.Duration,
		&a.Calories,
		&a.Date,
		&a.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("Activity")
		}
		return nil, fmt.Errorf("sqlite: getting activity %s: %w", id, err)
	}

	return &a, nil
}

// ListByUser returns all of one user's activities, newest date first.
// Dates are "YYYY-MM-DD" strings, so lexicographic DESC is date DESC.
func (r *ActivityRepo) ListByUser(ctx context.Context, userID string) ([]model.Activity, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT id, user_id, type, name, duration, calories, date, created_at
		 FROM activities WHERE user_id = ?
		 ORDER BY date DESC, created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing activities for user %s: %w", userID, err)
	}
	defer rows.Close()

	activities := []model.Activity{}
	for rows.Next() {
		var a model.Activity
		if err := rows.Scan(
			&a.ID,
			&a.UserID,
			&a.Type,
			&a.Name,
			&a.Duration,
			&a.Calories,
			&a.Date,
			&a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning activity row: %w", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating activity rows: %w", err)
	}

	return activities, nil
}

// Delete removes an activity by ID.
// Returns apperror.ErrNotFound if no row was deleted.
func (r *ActivityRepo) Delete(ctx context.Context, id string) error {
	result, err := r.conn.ExecContext(ctx,
		`DELETE FROM activities WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting activity %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking delete result: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("Activity")
	}

	return nil
}

// StatsByUser aggregates one user's activity count and total calories.
// COALESCE turns SUM's NULL (no rows) into 0.
func (r *ActivityRepo) StatsByUser(ctx context.Context, userID string) (*model.ActivityStats, error) {
	var stats model.ActivityStats

	err := r.conn.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(calories), 0)
		 FROM activities WHERE user_id = ?`,
		userID,
	).Scan(&stats.TotalActivities, &stats.TotalCalories)
	if err != nil {
		return nil, fmt.Errorf("sqlite: computing stats for user %s: %w", userID, err)
	}

	return &stats, nil
}

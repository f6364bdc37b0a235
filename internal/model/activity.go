package model

import "time"

// Activity types. An activity is either an exercise (burns calories over a
// duration) or a meal (consumes calories, duration usually 0).
const (
	ActivityTypeExercise = "exercise"
	ActivityTypeMeal     = "meal"
)

// Activity represents one logged exercise or meal, owned by exactly one user.
//
// Date is the calendar day the activity belongs to, as a "YYYY-MM-DD" string.
// The client picks the day; it is distinct from CreatedAt, which records when
// the row was inserted.
type Activity struct {
	ID        string    `json:"id"        db:"id"`
	UserID    string    `json:"userId"    db:"user_id"`
	Type      string    `json:"type"      db:"type"`
	Name      string    `json:"name"      db:"name"`
	Duration  int       `json:"duration"  db:"duration"` // minutes, 0 for meals
	Calories  int       `json:"calories"  db:"calories"`
	Date      string    `json:"date"      db:"date"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ActivityStats is the aggregate summary for one user's activity log.
type ActivityStats struct {
	TotalActivities int `json:"total_activities"`
	TotalCalories   int `json:"total_calories"`
}

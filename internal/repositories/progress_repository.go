package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type progressRepository struct {
	db *sql.DB
}

// NewProgressRepository creates a new progress repository. All tables it
// reads are owned by other services (learn, onboarding, auth); this
// repository never writes to them.
func NewProgressRepository(db *sql.DB) *progressRepository {
	return &progressRepository{
		db: db,
	}
}

// GetCompletedLessonCounts retrieves the number of distinct completed lessons
// per course slug along with the overall total
func (r *progressRepository) GetCompletedLessonCounts(ctx context.Context, userID int) (int, map[string]int, error) {
	query := `
		SELECT c.slug, COUNT(DISTINCT h.lesson_id)
		FROM lesson_user_history h
		JOIN courses c ON c.id = h.course_id
		WHERE h.user_id = ?
		GROUP BY c.slug
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to query completed lessons: %w", err)
	}
	defer rows.Close()

	total := 0
	byCourse := make(map[string]int)
	for rows.Next() {
		var slug string
		var count int
		if err := rows.Scan(&slug, &count); err != nil {
			return 0, nil, fmt.Errorf("failed to scan completed lesson count: %w", err)
		}
		byCourse[slug] = count
		total += count
	}

	if err := rows.Err(); err != nil {
		return 0, nil, fmt.Errorf("failed to iterate completed lesson counts: %w", err)
	}

	return total, byCourse, nil
}

// GetCompletedTaskCounts retrieves the number of completed task keys per
// onboarding step slug
func (r *progressRepository) GetCompletedTaskCounts(ctx context.Context, userID int) (map[string]int, error) {
	query := `
		SELECT s.slug, COUNT(DISTINCT p.task_key)
		FROM step_task_progress p
		JOIN onboarding_steps s ON s.id = p.step_id
		WHERE p.user_id = ?
		GROUP BY s.slug
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed tasks: %w", err)
	}
	defer rows.Close()

	byStep := make(map[string]int)
	for rows.Next() {
		var slug string
		var count int
		if err := rows.Scan(&slug, &count); err != nil {
			return nil, fmt.Errorf("failed to scan completed task count: %w", err)
		}
		byStep[slug] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate completed task counts: %w", err)
	}

	return byStep, nil
}

// GetProfileFlags retrieves presence flags for the profile fields required
// by profile-completeness requirements
func (r *progressRepository) GetProfileFlags(ctx context.Context, userID int) (map[string]bool, error) {
	query := `SELECT username, email, avatar FROM users WHERE id = ?`

	var username, email, avatar sql.NullString
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&username, &email, &avatar)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}

	return map[string]bool{
		"username": username.Valid && username.String != "",
		"email":    email.Valid && email.String != "",
		"avatar":   avatar.Valid && avatar.String != "",
	}, nil
}

// GetCompletedCourses retrieves the slugs of courses where the user has
// completed every lesson. Courses without lessons never count as completed.
func (r *progressRepository) GetCompletedCourses(ctx context.Context, userID int) (map[string]bool, error) {
	query := `
		SELECT c.slug
		FROM courses c
		JOIN lessons l ON l.course_id = c.id
		LEFT JOIN lesson_user_history h ON h.lesson_id = l.id AND h.user_id = ?
		GROUP BY c.slug
		HAVING COUNT(DISTINCT l.id) = COUNT(DISTINCT h.lesson_id)
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed courses: %w", err)
	}
	defer rows.Close()

	completed := make(map[string]bool)
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, fmt.Errorf("failed to scan completed course: %w", err)
		}
		completed[slug] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate completed courses: %w", err)
	}

	return completed, nil
}

// GetCompletedModules retrieves the slugs of onboarding steps where the user
// has completed every task. Steps without tasks never count as completed.
func (r *progressRepository) GetCompletedModules(ctx context.Context, userID int) (map[string]bool, error) {
	query := `
		SELECT s.slug
		FROM onboarding_steps s
		JOIN step_tasks t ON t.step_id = s.id
		LEFT JOIN step_task_progress p ON p.step_id = t.step_id AND p.task_key = t.task_key AND p.user_id = ?
		GROUP BY s.slug
		HAVING COUNT(DISTINCT t.task_key) = COUNT(DISTINCT p.task_key)
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed modules: %w", err)
	}
	defer rows.Close()

	completed := make(map[string]bool)
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, fmt.Errorf("failed to scan completed module: %w", err)
		}
		completed[slug] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate completed modules: %w", err)
	}

	return completed, nil
}

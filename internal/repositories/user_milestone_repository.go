package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/japanesestudent/achievement-service/internal/models"
)

// mysqlDuplicateEntry is the MySQL error number for a unique key violation
const mysqlDuplicateEntry = 1062

type userMilestoneRepository struct {
	db *sql.DB
}

// NewUserMilestoneRepository creates a new user milestone repository
func NewUserMilestoneRepository(db *sql.DB) *userMilestoneRepository {
	return &userMilestoneRepository{
		db: db,
	}
}

// GetEarnedIDs retrieves the set of milestone IDs the user has earned
func (r *userMilestoneRepository) GetEarnedIDs(ctx context.Context, userID int) (map[string]struct{}, error) {
	query := `SELECT milestone_id FROM user_milestones WHERE user_id = ?`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query earned milestones: %w", err)
	}
	defer rows.Close()

	earned := make(map[string]struct{})
	for rows.Next() {
		var milestoneID string
		if err := rows.Scan(&milestoneID); err != nil {
			return nil, fmt.Errorf("failed to scan earned milestone: %w", err)
		}
		earned[milestoneID] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate earned milestones: %w", err)
	}

	return earned, nil
}

// ListByUser retrieves all award records for a user
func (r *userMilestoneRepository) ListByUser(ctx context.Context, userID int) ([]models.UserMilestone, error) {
	query := `
		SELECT id, user_id, milestone_id, earned_at, reward_claimed, reward_claimed_at
		FROM user_milestones
		WHERE user_id = ?
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user milestones: %w", err)
	}
	defer rows.Close()

	var records []models.UserMilestone
	for rows.Next() {
		var record models.UserMilestone
		var claimedAt sql.NullTime
		err := rows.Scan(&record.ID, &record.UserID, &record.MilestoneID,
			&record.EarnedAt, &record.RewardClaimed, &claimedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user milestone: %w", err)
		}
		if claimedAt.Valid {
			record.RewardClaimedAt = &claimedAt.Time
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user milestones: %w", err)
	}

	return records, nil
}

// GetByUserAndMilestone retrieves one award record.
// Returns nil without an error when the milestone has not been earned.
func (r *userMilestoneRepository) GetByUserAndMilestone(ctx context.Context, userID int, milestoneID string) (*models.UserMilestone, error) {
	query := `
		SELECT id, user_id, milestone_id, earned_at, reward_claimed, reward_claimed_at
		FROM user_milestones
		WHERE user_id = ? AND milestone_id = ?
	`

	var record models.UserMilestone
	var claimedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, userID, milestoneID).Scan(
		&record.ID, &record.UserID, &record.MilestoneID,
		&record.EarnedAt, &record.RewardClaimed, &claimedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user milestone: %w", err)
	}

	if claimedAt.Valid {
		record.RewardClaimedAt = &claimedAt.Time
	}

	return &record, nil
}

// Create persists a new award record. The unique key on
// (user_id, milestone_id) is the only concurrency control for awards:
// when a concurrent pass has already inserted the row, the duplicate-key
// error is mapped to models.ErrAlreadyAwarded.
func (r *userMilestoneRepository) Create(ctx context.Context, award *models.UserMilestone) error {
	query := `
		INSERT INTO user_milestones (user_id, milestone_id, earned_at)
		VALUES (?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		award.UserID,
		award.MilestoneID,
		award.EarnedAt,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return models.ErrAlreadyAwarded
		}
		return fmt.Errorf("failed to create award record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	award.ID = int(id)
	return nil
}

// MarkClaimed sets the claim fields on an award record. The update is
// guarded on reward_claimed = FALSE so a claim that lost a race updates
// nothing; the boolean result reports whether this call performed the
// transition. The claimed fields are never unset afterwards.
func (r *userMilestoneRepository) MarkClaimed(ctx context.Context, userID int, milestoneID string, claimedAt time.Time) (bool, error) {
	query := `
		UPDATE user_milestones
		SET reward_claimed = TRUE, reward_claimed_at = ?
		WHERE user_id = ? AND milestone_id = ? AND reward_claimed = FALSE
	`

	result, err := r.db.ExecContext(ctx, query, claimedAt, userID, milestoneID)
	if err != nil {
		return false, fmt.Errorf("failed to mark reward claimed: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/japanesestudent/achievement-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupUserMilestoneTestRepository creates a user milestone repository with a mock database
func setupUserMilestoneTestRepository(t *testing.T) (*userMilestoneRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewUserMilestoneRepository(db)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func TestNewUserMilestoneRepository(t *testing.T) {
	db := &sql.DB{}

	repo := NewUserMilestoneRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestUserMilestoneRepository_GetEarnedIDs(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedIDs   []string
		expectedError bool
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"milestone_id"}).
					AddRow("first-steps").
					AddRow("hiragana-master")
				mock.ExpectQuery(`SELECT milestone_id FROM user_milestones WHERE user_id = \?`).
					WithArgs(1).
					WillReturnRows(rows)
			},
			expectedIDs: []string{"first-steps", "hiragana-master"},
		},
		{
			name: "no earned milestones",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT milestone_id FROM user_milestones WHERE user_id = \?`).
					WithArgs(1).
					WillReturnRows(sqlmock.NewRows([]string{"milestone_id"}))
			},
			expectedIDs: []string{},
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT milestone_id FROM user_milestones WHERE user_id = \?`).
					WithArgs(1).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupUserMilestoneTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			earned, err := repo.GetEarnedIDs(context.Background(), 1)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, earned)
			} else {
				assert.NoError(t, err)
				assert.Len(t, earned, len(tt.expectedIDs))
				for _, id := range tt.expectedIDs {
					assert.Contains(t, earned, id)
				}
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserMilestoneRepository_Create(t *testing.T) {
	earnedAt := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError error
		expectedWrap  string
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO user_milestones`).
					WithArgs(1, "first-steps", earnedAt).
					WillReturnResult(sqlmock.NewResult(7, 1))
			},
		},
		{
			name: "duplicate entry maps to already awarded",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO user_milestones`).
					WithArgs(1, "first-steps", earnedAt).
					WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
			},
			expectedError: models.ErrAlreadyAwarded,
		},
		{
			name: "other mysql error is wrapped",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO user_milestones`).
					WithArgs(1, "first-steps", earnedAt).
					WillReturnError(&mysql.MySQLError{Number: 1146, Message: "Table doesn't exist"})
			},
			expectedWrap: "failed to create award record",
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO user_milestones`).
					WithArgs(1, "first-steps", earnedAt).
					WillReturnError(errors.New("database error"))
			},
			expectedWrap: "failed to create award record",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupUserMilestoneTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			award := &models.UserMilestone{UserID: 1, MilestoneID: "first-steps", EarnedAt: earnedAt}
			err := repo.Create(context.Background(), award)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else if tt.expectedWrap != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedWrap)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 7, award.ID)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserMilestoneRepository_GetByUserAndMilestone(t *testing.T) {
	earnedAt := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	claimedAt := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	userMilestoneColumns := []string{"id", "user_id", "milestone_id", "earned_at", "reward_claimed", "reward_claimed_at"}

	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		verify        func(*testing.T, *models.UserMilestone)
		expectedError bool
	}{
		{
			name: "success - unclaimed",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(userMilestoneColumns).
					AddRow(7, 1, "first-steps", earnedAt, false, nil)
				mock.ExpectQuery(`SELECT.*FROM user_milestones.*WHERE user_id = \? AND milestone_id = \?`).
					WithArgs(1, "first-steps").
					WillReturnRows(rows)
			},
			verify: func(t *testing.T, record *models.UserMilestone) {
				require.NotNil(t, record)
				assert.Equal(t, 7, record.ID)
				assert.False(t, record.RewardClaimed)
				assert.Nil(t, record.RewardClaimedAt)
			},
		},
		{
			name: "success - claimed",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(userMilestoneColumns).
					AddRow(7, 1, "first-steps", earnedAt, true, claimedAt)
				mock.ExpectQuery(`SELECT.*FROM user_milestones.*WHERE user_id = \? AND milestone_id = \?`).
					WithArgs(1, "first-steps").
					WillReturnRows(rows)
			},
			verify: func(t *testing.T, record *models.UserMilestone) {
				require.NotNil(t, record)
				assert.True(t, record.RewardClaimed)
				require.NotNil(t, record.RewardClaimedAt)
				assert.Equal(t, claimedAt, *record.RewardClaimedAt)
			},
		},
		{
			name: "not earned",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT.*FROM user_milestones.*WHERE user_id = \? AND milestone_id = \?`).
					WithArgs(1, "first-steps").
					WillReturnError(sql.ErrNoRows)
			},
			verify: func(t *testing.T, record *models.UserMilestone) {
				assert.Nil(t, record)
			},
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT.*FROM user_milestones.*WHERE user_id = \? AND milestone_id = \?`).
					WithArgs(1, "first-steps").
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupUserMilestoneTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			record, err := repo.GetByUserAndMilestone(context.Background(), 1, "first-steps")

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, record)
			} else {
				assert.NoError(t, err)
				tt.verify(t, record)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserMilestoneRepository_ListByUser(t *testing.T) {
	earnedAt := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	claimedAt := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	repo, mock, cleanup := setupUserMilestoneTestRepository(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "user_id", "milestone_id", "earned_at", "reward_claimed", "reward_claimed_at"}).
		AddRow(7, 1, "first-steps", earnedAt, false, nil).
		AddRow(8, 1, "hiragana-master", earnedAt, true, claimedAt)
	mock.ExpectQuery(`SELECT.*FROM user_milestones.*WHERE user_id = \?`).
		WithArgs(1).
		WillReturnRows(rows)

	records, err := repo.ListByUser(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "first-steps", records[0].MilestoneID)
	assert.Nil(t, records[0].RewardClaimedAt)
	assert.True(t, records[1].RewardClaimed)
	require.NotNil(t, records[1].RewardClaimedAt)
	assert.Equal(t, claimedAt, *records[1].RewardClaimedAt)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserMilestoneRepository_MarkClaimed(t *testing.T) {
	claimedAt := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name            string
		setupMock       func(sqlmock.Sqlmock)
		expectedClaimed bool
		expectedError   bool
	}{
		{
			name: "claims unclaimed reward",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE user_milestones.*SET reward_claimed = TRUE.*AND reward_claimed = FALSE`).
					WithArgs(claimedAt, 1, "first-steps").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			expectedClaimed: true,
		},
		{
			name: "already claimed updates nothing",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE user_milestones.*SET reward_claimed = TRUE.*AND reward_claimed = FALSE`).
					WithArgs(claimedAt, 1, "first-steps").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			expectedClaimed: false,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE user_milestones.*SET reward_claimed = TRUE.*AND reward_claimed = FALSE`).
					WithArgs(claimedAt, 1, "first-steps").
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupUserMilestoneTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			claimed, err := repo.MarkClaimed(context.Background(), 1, "first-steps", claimedAt)

			if tt.expectedError {
				assert.Error(t, err)
				assert.False(t, claimed)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedClaimed, claimed)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/japanesestudent/achievement-service/internal/models"
	"go.uber.org/zap"
)

// MilestoneCatalogRepository defines catalog read access for award evaluation
type MilestoneCatalogRepository interface {
	// GetAll retrieves the full milestone catalog in catalog order
	//
	// "ctx" is the context for the request.
	//
	// Returns the catalog and an error if any.
	GetAll(ctx context.Context) ([]models.Milestone, error)
}

// AwardRepository defines the user milestone writes and reads needed by
// the award coordinator
type AwardRepository interface {
	// GetEarnedIDs retrieves the set of milestone IDs the user has earned
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns the set and an error if any.
	GetEarnedIDs(ctx context.Context, userID int) (map[string]struct{}, error)
	// Create persists a new award record. Returns models.ErrAlreadyAwarded
	// when the (user, milestone) row already exists.
	//
	// "ctx" is the context for the request.
	// "award" is the record to persist.
	//
	// Returns an error if any.
	Create(ctx context.Context, award *models.UserMilestone) error
}

// SnapshotBuilder defines progress snapshot construction
type SnapshotBuilder interface {
	// BuildSnapshot assembles a point-in-time snapshot of the user's progress
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns the snapshot and an error if any.
	BuildSnapshot(ctx context.Context, userID int) (*models.ProgressSnapshot, error)
}

type awardService struct {
	milestoneRepo MilestoneCatalogRepository
	awardRepo     AwardRepository
	snapshots     SnapshotBuilder
	notifier      Notifier
	logger        *zap.Logger
}

// NewAwardService creates a new award service
func NewAwardService(
	milestoneRepo MilestoneCatalogRepository,
	awardRepo AwardRepository,
	snapshots SnapshotBuilder,
	notifier Notifier,
	logger *zap.Logger,
) *awardService {
	return &awardService{
		milestoneRepo: milestoneRepo,
		awardRepo:     awardRepo,
		snapshots:     snapshots,
		notifier:      notifier,
		logger:        logger,
	}
}

// Evaluate runs one evaluation pass for a user and returns the newly awarded
// milestone, or nil when nothing new was earned.
//
// The pass reads the earned set fresh (never trusting caller state), loads
// the catalog, builds one snapshot, and walks unearned milestones in catalog
// order. At most one milestone is awarded per pass so the UI never surfaces
// a flood of achievements from a single trigger; the next pass picks up the
// next satisfied one.
//
// Concurrent passes for the same user may both find the same milestone
// satisfied; the unique key on (user_id, milestone_id) decides the winner at
// insert time. The losing pass reports no award and no error.
func (s *awardService) Evaluate(ctx context.Context, userID int) (*models.Milestone, error) {
	earned, err := s.awardRepo.GetEarnedIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load earned milestones: %w", err)
	}

	catalog, err := s.milestoneRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load milestone catalog: %w", err)
	}

	snapshot, err := s.snapshots.BuildSnapshot(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to build progress snapshot: %w", err)
	}

	for i := range catalog {
		milestone := &catalog[i]

		if _, ok := earned[milestone.ID]; ok {
			continue
		}
		if !requirementsSatisfied(milestone.Requirements, snapshot) {
			continue
		}

		award := &models.UserMilestone{
			UserID:      userID,
			MilestoneID: milestone.ID,
			EarnedAt:    time.Now().UTC(),
		}

		err := s.awardRepo.Create(ctx, award)
		if errors.Is(err, models.ErrAlreadyAwarded) {
			// A concurrent pass already persisted this award; its row stands
			// and this pass contributes nothing further.
			s.logger.Info("milestone awarded by concurrent pass",
				zap.Int("user_id", userID),
				zap.String("milestone_id", milestone.ID),
			)
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to persist award: %w", err)
		}

		s.logger.Info("milestone awarded",
			zap.Int("user_id", userID),
			zap.String("milestone_id", milestone.ID),
		)
		s.notifier.Notify(ctx, userID, "success",
			fmt.Sprintf("Achievement unlocked: %s", milestone.Title))

		return milestone, nil
	}

	return nil, nil
}

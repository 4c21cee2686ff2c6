package services

import (
	"context"
	"fmt"
	"time"

	"github.com/japanesestudent/achievement-service/internal/models"
	"go.uber.org/zap"
)

// ClaimMilestoneRepository defines catalog read access for reward claims
type ClaimMilestoneRepository interface {
	// GetByID retrieves a milestone by ID, or nil if the catalog has no such milestone
	//
	// "ctx" is the context for the request.
	// "milestoneID" is the catalog ID of the milestone.
	//
	// Returns the milestone and an error if any.
	GetByID(ctx context.Context, milestoneID string) (*models.Milestone, error)
}

// ClaimAwardRepository defines the user milestone access needed by the claim manager
type ClaimAwardRepository interface {
	// GetByUserAndMilestone retrieves one award record, or nil when not earned
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "milestoneID" is the catalog ID of the milestone.
	//
	// Returns the record and an error if any.
	GetByUserAndMilestone(ctx context.Context, userID int, milestoneID string) (*models.UserMilestone, error)
	// MarkClaimed sets the claim fields if the reward is still unclaimed
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "milestoneID" is the catalog ID of the milestone.
	// "claimedAt" is the claim timestamp.
	//
	// Returns whether this call performed the transition and an error if any.
	MarkClaimed(ctx context.Context, userID int, milestoneID string, claimedAt time.Time) (bool, error)
}

type claimService struct {
	milestoneRepo ClaimMilestoneRepository
	awardRepo     ClaimAwardRepository
	notifier      Notifier
	logger        *zap.Logger
}

// NewClaimService creates a new claim service
func NewClaimService(
	milestoneRepo ClaimMilestoneRepository,
	awardRepo ClaimAwardRepository,
	notifier Notifier,
	logger *zap.Logger,
) *claimService {
	return &claimService{
		milestoneRepo: milestoneRepo,
		awardRepo:     awardRepo,
		notifier:      notifier,
		logger:        logger,
	}
}

// Claim transitions an earned milestone's reward to claimed.
//
// Claiming is idempotent: a second claim returns an already-claimed success
// with no state change. A claim for a milestone the user never earned fails
// with models.ErrNotEarned. The claim never touches earned_at and never
// unsets reward_claimed once set.
func (s *claimService) Claim(ctx context.Context, userID int, milestoneID string) (*models.ClaimResult, error) {
	milestone, err := s.milestoneRepo.GetByID(ctx, milestoneID)
	if err != nil {
		return nil, fmt.Errorf("failed to load milestone: %w", err)
	}
	if milestone == nil {
		return nil, models.ErrMilestoneNotFound
	}

	award, err := s.awardRepo.GetByUserAndMilestone(ctx, userID, milestoneID)
	if err != nil {
		return nil, fmt.Errorf("failed to load award record: %w", err)
	}
	if award == nil {
		s.notifier.Notify(ctx, userID, "error",
			fmt.Sprintf("Reward for %q is still locked", milestone.Title))
		return nil, models.ErrNotEarned
	}

	if award.RewardClaimed {
		return &models.ClaimResult{
			MilestoneID:     milestoneID,
			AlreadyClaimed:  true,
			RewardClaimedAt: award.RewardClaimedAt,
		}, nil
	}

	claimedAt := time.Now().UTC()
	claimed, err := s.awardRepo.MarkClaimed(ctx, userID, milestoneID, claimedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to mark reward claimed: %w", err)
	}
	if !claimed {
		// A concurrent claim finished first; report the same idempotent success
		record, err := s.awardRepo.GetByUserAndMilestone(ctx, userID, milestoneID)
		if err != nil {
			return nil, fmt.Errorf("failed to reload award record: %w", err)
		}
		result := &models.ClaimResult{
			MilestoneID:    milestoneID,
			AlreadyClaimed: true,
		}
		if record != nil {
			result.RewardClaimedAt = record.RewardClaimedAt
		}
		return result, nil
	}

	s.logger.Info("reward claimed",
		zap.Int("user_id", userID),
		zap.String("milestone_id", milestoneID),
	)
	s.notifier.Notify(ctx, userID, "success",
		fmt.Sprintf("Reward claimed: %s", milestone.Title))

	return &models.ClaimResult{
		MilestoneID:     milestoneID,
		AlreadyClaimed:  false,
		RewardClaimedAt: &claimedAt,
	}, nil
}

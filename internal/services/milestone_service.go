package services

import (
	"context"
	"fmt"

	"github.com/japanesestudent/achievement-service/internal/models"
)

// ListAwardRepository defines the user milestone reads needed for the
// achievements listing
type ListAwardRepository interface {
	// ListByUser retrieves all award records for a user
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns the records and an error if any.
	ListByUser(ctx context.Context, userID int) ([]models.UserMilestone, error)
}

type milestoneService struct {
	milestoneRepo MilestoneCatalogRepository
	awardRepo     ListAwardRepository
}

// NewMilestoneService creates a new milestone listing service
func NewMilestoneService(milestoneRepo MilestoneCatalogRepository, awardRepo ListAwardRepository) *milestoneService {
	return &milestoneService{
		milestoneRepo: milestoneRepo,
		awardRepo:     awardRepo,
	}
}

// ListForUser retrieves the milestone catalog merged with the user's award
// state, in catalog order. Requirements are not exposed; the client only
// needs locked/earned/claimed state.
func (s *milestoneService) ListForUser(ctx context.Context, userID int) ([]models.MilestoneListItem, error) {
	catalog, err := s.milestoneRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load milestone catalog: %w", err)
	}

	awards, err := s.awardRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load award records: %w", err)
	}

	awardByMilestone := make(map[string]models.UserMilestone, len(awards))
	for _, award := range awards {
		awardByMilestone[award.MilestoneID] = award
	}

	items := make([]models.MilestoneListItem, 0, len(catalog))
	for _, milestone := range catalog {
		item := models.MilestoneListItem{
			ID:          milestone.ID,
			Title:       milestone.Title,
			Description: milestone.Description,
			Reward:      milestone.Reward,
		}
		if award, ok := awardByMilestone[milestone.ID]; ok {
			earnedAt := award.EarnedAt
			item.Earned = true
			item.EarnedAt = &earnedAt
			item.RewardClaimed = award.RewardClaimed
			item.RewardClaimedAt = award.RewardClaimedAt
		}
		items = append(items, item)
	}

	return items, nil
}

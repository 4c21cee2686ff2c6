package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/japanesestudent/achievement-service/internal/models"
)

type milestoneRepository struct {
	db *sql.DB
}

// NewMilestoneRepository creates a new milestone catalog repository.
// The catalog tables are authored by the content service; this repository
// only ever reads them.
func NewMilestoneRepository(db *sql.DB) *milestoneRepository {
	return &milestoneRepository{
		db: db,
	}
}

// GetAll retrieves the full milestone catalog in catalog order,
// with each milestone's requirement list and optional reward
func (r *milestoneRepository) GetAll(ctx context.Context) ([]models.Milestone, error) {
	query := `
		SELECT m.id, m.title, m.description,
		       m.reward_kind, m.reward_description, m.reward_image_ref,
		       r.kind, r.threshold, r.scope
		FROM milestones m
		LEFT JOIN milestone_requirements r ON r.milestone_id = m.id
		ORDER BY m.position, m.id, r.id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query milestone catalog: %w", err)
	}
	defer rows.Close()

	var milestones []models.Milestone
	index := make(map[string]int)

	for rows.Next() {
		var (
			id, title, description                     string
			rewardKind, rewardDescription, rewardImage sql.NullString
			reqKind, reqScope                          sql.NullString
			reqThreshold                               sql.NullInt64
		)

		err := rows.Scan(&id, &title, &description,
			&rewardKind, &rewardDescription, &rewardImage,
			&reqKind, &reqThreshold, &reqScope)
		if err != nil {
			return nil, fmt.Errorf("failed to scan milestone row: %w", err)
		}

		i, ok := index[id]
		if !ok {
			milestone := models.Milestone{
				ID:          id,
				Title:       title,
				Description: description,
			}
			if rewardKind.Valid {
				milestone.Reward = &models.Reward{
					Kind:        models.RewardKind(rewardKind.String),
					Description: rewardDescription.String,
					ImageRef:    rewardImage.String,
				}
			}
			milestones = append(milestones, milestone)
			i = len(milestones) - 1
			index[id] = i
		}

		// Milestones without requirements produce a single row with NULL requirement columns
		if reqKind.Valid {
			milestones[i].Requirements = append(milestones[i].Requirements, models.Requirement{
				Kind:      models.RequirementKind(reqKind.String),
				Threshold: int(reqThreshold.Int64),
				Scope:     reqScope.String,
			})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate milestone rows: %w", err)
	}

	return milestones, nil
}

// GetByID retrieves a single milestone with its requirements and reward.
// Returns nil without an error if the milestone does not exist in the catalog.
func (r *milestoneRepository) GetByID(ctx context.Context, milestoneID string) (*models.Milestone, error) {
	query := `
		SELECT m.id, m.title, m.description,
		       m.reward_kind, m.reward_description, m.reward_image_ref,
		       r.kind, r.threshold, r.scope
		FROM milestones m
		LEFT JOIN milestone_requirements r ON r.milestone_id = m.id
		WHERE m.id = ?
		ORDER BY r.id
	`

	rows, err := r.db.QueryContext(ctx, query, milestoneID)
	if err != nil {
		return nil, fmt.Errorf("failed to query milestone: %w", err)
	}
	defer rows.Close()

	var milestone *models.Milestone

	for rows.Next() {
		var (
			id, title, description                     string
			rewardKind, rewardDescription, rewardImage sql.NullString
			reqKind, reqScope                          sql.NullString
			reqThreshold                               sql.NullInt64
		)

		err := rows.Scan(&id, &title, &description,
			&rewardKind, &rewardDescription, &rewardImage,
			&reqKind, &reqThreshold, &reqScope)
		if err != nil {
			return nil, fmt.Errorf("failed to scan milestone row: %w", err)
		}

		if milestone == nil {
			milestone = &models.Milestone{
				ID:          id,
				Title:       title,
				Description: description,
			}
			if rewardKind.Valid {
				milestone.Reward = &models.Reward{
					Kind:        models.RewardKind(rewardKind.String),
					Description: rewardDescription.String,
					ImageRef:    rewardImage.String,
				}
			}
		}

		if reqKind.Valid {
			milestone.Requirements = append(milestone.Requirements, models.Requirement{
				Kind:      models.RequirementKind(reqKind.String),
				Threshold: int(reqThreshold.Int64),
				Scope:     reqScope.String,
			})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate milestone rows: %w", err)
	}

	return milestone, nil
}

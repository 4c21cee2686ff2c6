package services

import (
	"context"
	"fmt"

	"github.com/japanesestudent/achievement-service/internal/models"
)

// ProgressRepository defines the reads needed to assemble a progress snapshot
type ProgressRepository interface {
	// GetCompletedLessonCounts retrieves the total number of distinct completed
	// lessons and a per-course-slug breakdown
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns the total, the per-course counts, and an error if any.
	GetCompletedLessonCounts(ctx context.Context, userID int) (int, map[string]int, error)
	// GetCompletedTaskCounts retrieves the number of completed task keys per step slug
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns the per-step counts and an error if any.
	GetCompletedTaskCounts(ctx context.Context, userID int) (map[string]int, error)
	// GetProfileFlags retrieves presence flags for the required profile fields
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns the flags and an error if any.
	GetProfileFlags(ctx context.Context, userID int) (map[string]bool, error)
	// GetCompletedCourses retrieves the slugs of fully completed courses
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns the slugs and an error if any.
	GetCompletedCourses(ctx context.Context, userID int) (map[string]bool, error)
	// GetCompletedModules retrieves the slugs of fully completed onboarding steps
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns the slugs and an error if any.
	GetCompletedModules(ctx context.Context, userID int) (map[string]bool, error)
}

type snapshotService struct {
	progressRepo ProgressRepository
}

// NewSnapshotService creates a new snapshot service
func NewSnapshotService(progressRepo ProgressRepository) *snapshotService {
	return &snapshotService{
		progressRepo: progressRepo,
	}
}

// BuildSnapshot assembles an immutable point-in-time snapshot of the user's
// progress. If any underlying read fails, the whole build fails: evaluating
// requirements against a partial snapshot could award milestones from
// incomplete data. Safe to call repeatedly; no side effects.
func (s *snapshotService) BuildSnapshot(ctx context.Context, userID int) (*models.ProgressSnapshot, error) {
	totalLessons, lessonsByCourse, err := s.progressRepo.GetCompletedLessonCounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read lesson progress: %w", err)
	}

	tasksByStep, err := s.progressRepo.GetCompletedTaskCounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read task progress: %w", err)
	}

	profileFields, err := s.progressRepo.GetProfileFlags(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile flags: %w", err)
	}

	completedCourses, err := s.progressRepo.GetCompletedCourses(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read completed courses: %w", err)
	}

	completedModules, err := s.progressRepo.GetCompletedModules(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read completed modules: %w", err)
	}

	return &models.ProgressSnapshot{
		CompletedLessons: totalLessons,
		LessonsByCourse:  lessonsByCourse,
		TasksByStep:      tasksByStep,
		ProfileFields:    profileFields,
		CompletedCourses: completedCourses,
		CompletedModules: completedModules,
	}, nil
}

package services

import (
	"github.com/japanesestudent/achievement-service/internal/models"
)

// requirementsSatisfied reports whether every requirement of a milestone
// holds against the snapshot. AND semantics: one unmet requirement means
// the milestone is not satisfied. Evaluation is pure and order-independent.
func requirementsSatisfied(requirements []models.Requirement, snapshot *models.ProgressSnapshot) bool {
	if len(requirements) == 0 {
		// A milestone with no requirements can never be earned
		return false
	}

	for _, requirement := range requirements {
		if !requirementMet(requirement, snapshot) {
			return false
		}
	}

	return true
}

// requirementMet evaluates a single requirement against the snapshot.
// Unknown kinds and malformed requirements evaluate to unmet rather than
// erroring: a requirement this service cannot understand must never be
// treated as satisfied.
func requirementMet(requirement models.Requirement, snapshot *models.ProgressSnapshot) bool {
	if requirement.Threshold < 1 {
		return false
	}

	switch requirement.Kind {
	case models.RequirementLessonsCompleted:
		if requirement.Scope != "" {
			// Scopes the snapshot cannot resolve count zero lessons
			return snapshot.LessonsByCourse[requirement.Scope] >= requirement.Threshold
		}
		return snapshot.CompletedLessons >= requirement.Threshold

	case models.RequirementTasksCompletedInStep:
		if requirement.Scope != "" {
			return snapshot.TasksByStep[requirement.Scope] >= requirement.Threshold
		}
		return snapshot.TotalCompletedTasks() >= requirement.Threshold

	case models.RequirementProfileComplete:
		if len(snapshot.ProfileFields) == 0 {
			return false
		}
		for _, present := range snapshot.ProfileFields {
			if !present {
				return false
			}
		}
		return true

	case models.RequirementCourseCompleted:
		return snapshot.CompletedCourses[requirement.Scope]

	case models.RequirementModuleCompleted:
		return snapshot.CompletedModules[requirement.Scope]

	default:
		return false
	}
}

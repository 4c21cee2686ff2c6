package models

import "time"

// RequirementKind identifies the type of condition a requirement tests.
// The set of kinds is closed; a kind outside this set never satisfies anything.
type RequirementKind string

const (
	RequirementLessonsCompleted     RequirementKind = "lessons-completed"
	RequirementTasksCompletedInStep RequirementKind = "tasks-completed-in-step"
	RequirementProfileComplete      RequirementKind = "profile-complete"
	RequirementCourseCompleted      RequirementKind = "course-completed"
	RequirementModuleCompleted      RequirementKind = "module-completed"
)

// Requirement represents one testable condition of a milestone
type Requirement struct {
	Kind      RequirementKind `json:"kind"`
	Threshold int             `json:"threshold"`
	// Scope optionally narrows the requirement to one entity
	// (a course slug for lesson/course kinds, a step slug for task/module kinds)
	Scope string `json:"scope,omitempty"`
}

// RewardKind represents the type of reward attached to a milestone
type RewardKind string

const (
	RewardBadge         RewardKind = "badge"
	RewardCertificate   RewardKind = "certificate"
	RewardContentUnlock RewardKind = "content-unlock"
)

// Reward represents the reward granted when a milestone is claimed.
// Rewards are authored in the catalog and immutable from this service's side.
type Reward struct {
	Kind        RewardKind `json:"kind"`
	Description string     `json:"description,omitempty"`
	ImageRef    string     `json:"imageRef,omitempty"`
}

// Milestone represents an achievement definition from the catalog
type Milestone struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Requirements []Requirement `json:"requirements"`
	Reward       *Reward       `json:"reward,omitempty"`
}

// MilestoneListItem represents a catalog milestone merged with the user's award state
type MilestoneListItem struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Reward          *Reward    `json:"reward,omitempty"`
	Earned          bool       `json:"earned"`
	EarnedAt        *time.Time `json:"earnedAt,omitempty"`
	RewardClaimed   bool       `json:"rewardClaimed"`
	RewardClaimedAt *time.Time `json:"rewardClaimedAt,omitempty"`
}

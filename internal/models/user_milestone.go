package models

import "time"

// UserMilestone represents a persisted award of a milestone to a user.
// A row is created exactly once when the milestone is earned; the claim
// fields are set exactly once when the reward is claimed. Rows are never
// deleted and earned_at is never rewritten.
type UserMilestone struct {
	ID              int        `json:"id"`
	UserID          int        `json:"userId"`
	MilestoneID     string     `json:"milestoneId"`
	EarnedAt        time.Time  `json:"earnedAt"`
	RewardClaimed   bool       `json:"rewardClaimed"`
	RewardClaimedAt *time.Time `json:"rewardClaimedAt,omitempty"`
}

// ClaimResult represents the outcome of a reward claim.
// AlreadyClaimed is true when the reward had been claimed before this call;
// claiming twice is a success, not an error.
type ClaimResult struct {
	MilestoneID     string     `json:"milestoneId"`
	AlreadyClaimed  bool       `json:"alreadyClaimed"`
	RewardClaimedAt *time.Time `json:"rewardClaimedAt,omitempty"`
}

package models

import "errors"

var (
	// ErrAlreadyAwarded is returned when an award insert hits the unique key
	// on (user_id, milestone_id). Expected under concurrent evaluation passes
	// and treated as a benign no-op, not a failure.
	ErrAlreadyAwarded = errors.New("milestone already awarded")

	// ErrNotEarned is returned when a reward claim is attempted for a
	// milestone the user has not earned.
	ErrNotEarned = errors.New("milestone not earned")

	// ErrMilestoneNotFound is returned when a milestone ID is not present in the catalog.
	ErrMilestoneNotFound = errors.New("milestone not found")
)

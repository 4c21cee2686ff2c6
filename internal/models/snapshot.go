package models

// ProgressSnapshot is a point-in-time aggregation of a user's progress facts.
// It is built fresh for every evaluation pass, holds no references back to
// the database, and is never mutated after construction.
type ProgressSnapshot struct {
	// CompletedLessons is the number of distinct completed lessons across all courses
	CompletedLessons int
	// LessonsByCourse maps course slug to the number of distinct completed lessons in it
	LessonsByCourse map[string]int
	// TasksByStep maps onboarding step slug to the number of completed task keys in it
	TasksByStep map[string]int
	// ProfileFields maps each required profile field to whether it is filled in
	ProfileFields map[string]bool
	// CompletedCourses holds the slugs of courses with every lesson completed
	CompletedCourses map[string]bool
	// CompletedModules holds the slugs of onboarding steps with every task completed
	CompletedModules map[string]bool
}

// TotalCompletedTasks returns the number of completed tasks summed across all steps
func (s *ProgressSnapshot) TotalCompletedTasks() int {
	total := 0
	for _, n := range s.TasksByStep {
		total += n
	}
	return total
}

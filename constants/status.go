package constants

// TaskStatus is the canonical lifecycle status for a task.
type TaskStatus string

// Stable values (persisted as these exact strings).
const (
	TaskStatusPending    TaskStatus = "pending"    // created, not yet started
	TaskStatusProcessing TaskStatus = "processing" // PDF text acquisition in progress
	TaskStatusExtraction TaskStatus = "extraction" // field extraction in progress
	TaskStatusCompleted  TaskStatus = "completed"  // terminal success, results attached
	TaskStatusFailed     TaskStatus = "failed"     // terminal failure
)

// Terminal reports whether no further automatic transition is allowed.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

// CanTransition reports whether the state machine allows moving from s to next.
// Forward-only: pending -> processing -> extraction -> completed, with failed
// reachable from processing or extraction.
func (s TaskStatus) CanTransition(next TaskStatus) bool {
	switch s {
	case TaskStatusPending:
		return next == TaskStatusProcessing
	case TaskStatusProcessing:
		return next == TaskStatusExtraction || next == TaskStatusFailed
	case TaskStatusExtraction:
		return next == TaskStatusCompleted || next == TaskStatusFailed
	default:
		return false
	}
}

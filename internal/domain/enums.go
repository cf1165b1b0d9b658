package domain

type TaskStatus string

const (
	TaskTodo       TaskStatus = "TODO"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskReview     TaskStatus = "REVIEW"
	TaskDone       TaskStatus = "DONE"
)

// BoardStatuses is the canonical left-to-right column order of the board.
var BoardStatuses = []TaskStatus{TaskTodo, TaskInProgress, TaskReview, TaskDone}

// Valid reports whether s is one of the four board statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskReview, TaskDone:
		return true
	}
	return false
}

// DisplayName returns the human label used in notifications and views.
func (s TaskStatus) DisplayName() string {
	switch s {
	case TaskTodo:
		return "To Do"
	case TaskInProgress:
		return "In Progress"
	case TaskReview:
		return "Review"
	case TaskDone:
		return "Done"
	default:
		return string(s)
	}
}

type SprintStatus string

const (
	SprintNotStarted SprintStatus = "NOT_STARTED"
	SprintActive     SprintStatus = "ACTIVE"
	SprintCompleted  SprintStatus = "COMPLETED"
	SprintArchived   SprintStatus = "ARCHIVED"
)

// AcceptsTasks reports whether tasks may be migrated into a sprint in this state.
func (s SprintStatus) AcceptsTasks() bool {
	return s == SprintNotStarted || s == SprintActive
}

type TaskLevel string

const (
	LevelParent  TaskLevel = "PARENT"
	LevelSubtask TaskLevel = "SUBTASK"
)

type Priority string

const (
	PriorityLowest  Priority = "LOWEST"
	PriorityLow     Priority = "LOW"
	PriorityMedium  Priority = "MEDIUM"
	PriorityHigh    Priority = "HIGH"
	PriorityHighest Priority = "HIGHEST"
	PriorityBlocker Priority = "BLOCKER"
)

// Rank orders priorities most urgent first. Unknown values sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityBlocker:
		return 0
	case PriorityHighest:
		return 1
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 3
	case PriorityLow:
		return 4
	case PriorityLowest:
		return 5
	}
	return 6
}

// ValidPriorities is the canonical set of accepted priority strings.
var ValidPriorities = map[string]bool{
	"LOWEST": true, "LOW": true, "MEDIUM": true,
	"HIGH": true, "HIGHEST": true, "BLOCKER": true,
}

type Label string

const (
	LabelStory Label = "STORY"
	LabelBug   Label = "BUG"
	LabelTask  Label = "TASK"
	LabelEpic  Label = "EPIC"
)

// ValidLabels is the canonical set of accepted label strings.
var ValidLabels = map[string]bool{
	"STORY": true, "BUG": true, "TASK": true, "EPIC": true,
}

// RoleBucket is the normalized category a member's free-text role falls into.
type RoleBucket string

const (
	BucketProductOwner RoleBucket = "PRODUCT_OWNER"
	BucketManager      RoleBucket = "MANAGER"
	BucketFrontend     RoleBucket = "FRONTEND"
	BucketBackend      RoleBucket = "BACKEND"
	BucketFullstack    RoleBucket = "FULLSTACK"
	BucketTester       RoleBucket = "TESTER"
	BucketDesigner     RoleBucket = "DESIGNER"
	BucketDevOps       RoleBucket = "DEVOPS"
	BucketDeveloper    RoleBucket = "DEVELOPER"
)

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "ACTIVE"
	ProjectCompleted ProjectStatus = "COMPLETED"
	ProjectArchived  ProjectStatus = "ARCHIVED"
)

type NotificationType string

const (
	NotifyStatusChanged NotificationType = "TASK_STATUS_CHANGED"
	NotifyOverdue       NotificationType = "TASK_OVERDUE"
	NotifyDeleted       NotificationType = "TASK_DELETED"
	NotifyAssigned      NotificationType = "TASK_ASSIGNED"
)

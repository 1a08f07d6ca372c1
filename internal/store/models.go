package store

import "time"

type User struct {
	ID           int64
	Name         string
	DailyTarget  int
	WeeklyTarget int
	CreatedAt    time.Time
}

type Difficulty string

const (
	DifficultyHard   Difficulty = "hard"
	DifficultyMedium Difficulty = "medium"
	DifficultyEasy   Difficulty = "easy"
)

// Difficulties lists every level, easiest first.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

func (d Difficulty) Valid() bool {
	return d == DifficultyHard || d == DifficultyMedium || d == DifficultyEasy
}

// TaskStatus is derived from the stored done flag and the due date.
type TaskStatus string

const (
	TaskPending TaskStatus = "pending"
	TaskOverdue TaskStatus = "overdue"
	TaskDone    TaskStatus = "done"
)

type Task struct {
	ID          int64
	Title       string
	Description string
	DueAt       *time.Time
	Difficulty  Difficulty
	Status      TaskStatus
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OnTime reports whether a done task was finished before its due date.
// Tasks without a due date always count as on time.
func (t Task) OnTime() bool {
	if t.Status != TaskDone || t.CompletedAt == nil {
		return false
	}
	return t.DueAt == nil || !t.CompletedAt.After(*t.DueAt)
}

type TaskInput struct {
	Title       string
	Description string
	DueAt       *time.Time
	Difficulty  Difficulty
}

type TaskSort string

const (
	SortNewest       TaskSort = "newest"
	SortByDueDate    TaskSort = "due"
	SortByDifficulty TaskSort = "difficulty"
	SortByTitle      TaskSort = "title"
)

// TaskSorts lists the sort options in the order the UI cycles through them.
var TaskSorts = []TaskSort{SortNewest, SortByDueDate, SortByDifficulty, SortByTitle}

// TaskFilter narrows ListTasks. Zero values match everything.
type TaskFilter struct {
	Status TaskStatus
	Search string
	Sort   TaskSort
}

type PomodoroSession struct {
	ID              int64
	UserID          int64
	StartedAt       time.Time
	EndedAt         time.Time
	DurationSeconds int64
	Mode            string
	Status          string
}

// SessionFilter is used to filter pomodoro sessions in queries.
type SessionFilter struct {
	From  *time.Time
	To    *time.Time
	Limit int
}

// DailyCount is the number of completed sessions on one local day.
type DailyCount struct {
	Date         string // YYYY-MM-DD
	Sessions     int
	FocusSeconds int64
}

type CustomPreset struct {
	ID                int64
	Name              string
	FocusMinutes      int
	ShortBreakMinutes int
	LongBreakMinutes  int
	Rounds            int
	UpdatedAt         time.Time
}

type Setting struct {
	Key   string
	Value string
}

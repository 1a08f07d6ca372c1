package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/pomodone/internal/pomodoro"
)

const taskColumns = `id, title, description, due_at, difficulty, status, completed_at, created_at, updated_at`

func validateTask(in *TaskInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return &pomodoro.ValidationError{Field: "title", Value: in.Title, Reason: "must not be blank"}
	}
	if in.Difficulty == "" {
		in.Difficulty = DifficultyMedium
	}
	if !in.Difficulty.Valid() {
		return &pomodoro.ValidationError{Field: "difficulty", Value: in.Difficulty, Reason: "must be easy, medium or hard"}
	}
	return nil
}

func (s *Store) CreateTask(in TaskInput) (*Task, error) {
	if err := validateTask(&in); err != nil {
		return nil, err
	}
	now := formatTime(s.now())
	res, err := s.db.Exec(
		`INSERT INTO tasks (title, description, due_at, difficulty, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		in.Title, strings.TrimSpace(in.Description), nullTime(in.DueAt), string(in.Difficulty), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetTask(id)
}

func (s *Store) GetTask(id int64) (*Task, error) {
	row := s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := s.scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get task %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return t, nil
}

// ListTasks returns tasks matching f. Overdue is resolved against the store clock.
func (s *Store) ListTasks(f TaskFilter) ([]Task, error) {
	now := formatTime(s.now())
	var (
		where []string
		args  []any
	)
	switch f.Status {
	case TaskDone:
		where = append(where, `status = 'done'`)
	case TaskPending:
		where = append(where, `status = 'pending' AND (due_at IS NULL OR due_at >= ?)`)
		args = append(args, now)
	case TaskOverdue:
		where = append(where, `status = 'pending' AND due_at IS NOT NULL AND due_at < ?`)
		args = append(args, now)
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		where = append(where, `title LIKE ?`)
		args = append(args, "%"+q+"%")
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY ` + taskOrder(f.Sort)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := s.scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func taskOrder(sort TaskSort) string {
	switch sort {
	case SortByDueDate:
		return `due_at IS NULL, due_at ASC, id ASC`
	case SortByDifficulty:
		return `CASE difficulty WHEN 'easy' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END, id ASC`
	case SortByTitle:
		return `title COLLATE NOCASE DESC, id ASC`
	default:
		return `created_at DESC, id DESC`
	}
}

func (s *Store) UpdateTask(id int64, in TaskInput) error {
	if err := validateTask(&in); err != nil {
		return err
	}
	res, err := s.db.Exec(
		`UPDATE tasks SET title = ?, description = ?, due_at = ?, difficulty = ?, updated_at = ? WHERE id = ?`,
		in.Title, strings.TrimSpace(in.Description), nullTime(in.DueAt), string(in.Difficulty), formatTime(s.now()), id,
	)
	if err != nil {
		return fmt.Errorf("update task %d: %w", id, err)
	}
	return expectAffected(res, "update task", id)
}

// SetTaskStatus marks a task done (stamping completed_at) or back to pending.
func (s *Store) SetTaskStatus(id int64, done bool) error {
	now := s.now()
	var (
		status      = "pending"
		completedAt any
	)
	if done {
		status = "done"
		completedAt = formatTime(now)
	}
	res, err := s.db.Exec(
		`UPDATE tasks SET status = ?, completed_at = ?, updated_at = ? WHERE id = ?`,
		status, completedAt, formatTime(now), id,
	)
	if err != nil {
		return fmt.Errorf("set task %d status: %w", id, err)
	}
	return expectAffected(res, "set task status", id)
}

func (s *Store) DeleteTask(id int64) error {
	res, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return expectAffected(res, "delete task", id)
}

// CountActiveTasks counts tasks not yet done, overdue ones included.
func (s *Store) CountActiveTasks() (int, error) {
	return s.countTasks(`status = 'pending'`)
}

func (s *Store) CountCompletedTasks() (int, error) {
	return s.countTasks(`status = 'done'`)
}

// CountCompletedOnTimeTasks counts done tasks finished no later than their
// due date. Tasks without a due date are on time.
func (s *Store) CountCompletedOnTimeTasks() (int, error) {
	return s.countTasks(`status = 'done' AND (due_at IS NULL OR completed_at <= due_at)`)
}

func (s *Store) countTasks(where string) (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM tasks WHERE ` + where).Scan(&n); err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanTask(r rowScanner) (*Task, error) {
	t := &Task{}
	var (
		dueAt, completedAt   sql.NullString
		difficulty, status   string
		createdAt, updatedAt string
	)
	if err := r.Scan(&t.ID, &t.Title, &t.Description, &dueAt, &difficulty, &status, &completedAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	t.DueAt = parseNullTime(dueAt)
	t.CompletedAt = parseNullTime(completedAt)
	t.Difficulty = Difficulty(difficulty)
	t.CreatedAt = parseTime(createdAt)
	t.UpdatedAt = parseTime(updatedAt)

	switch {
	case status == "done":
		t.Status = TaskDone
	case t.DueAt != nil && t.DueAt.Before(s.now().Truncate(time.Second)):
		t.Status = TaskOverdue
	default:
		t.Status = TaskPending
	}
	return t, nil
}

func expectAffected(res sql.Result, op string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %d: %w", op, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", op, id, ErrNotFound)
	}
	return nil
}

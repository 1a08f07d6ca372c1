package store

import (
	"errors"
	"testing"
	"time"

	"github.com/sadopc/pomodone/internal/pomodoro"
)

var baseTime = time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	s.now = func() time.Time { return baseTime }
	return s
}

// setClock pins the store clock to base+offset.
func setClock(s *Store, offset time.Duration) {
	s.now = func() time.Time { return baseTime.Add(offset) }
}

func recordAt(t *testing.T, s *Store, start time.Time, minutes int) {
	t.Helper()
	err := s.RecordSession(pomodoro.CompletedSession{
		StartedAt:       start,
		EndedAt:         start.Add(time.Duration(minutes) * time.Minute),
		DurationSeconds: int64(minutes * 60),
		Mode:            pomodoro.ModeClassic,
		Status:          pomodoro.StatusCompleted,
	})
	if err != nil {
		t.Fatalf("record session: %v", err)
	}
}

func ptrTime(t time.Time) *time.Time { return &t }

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/pomodone.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateUserTargets(7, 30); err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen: data survives and migration does not reseed.
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	u, err := s2.GetUser()
	if err != nil {
		t.Fatal(err)
	}
	if u.DailyTarget != 7 || u.WeeklyTarget != 30 {
		t.Fatalf("targets lost on reopen: %+v", u)
	}
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

func TestPragmasConfigured(t *testing.T) {
	s := newTestStore(t)
	var fk int
	s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk)
	if fk != 1 {
		t.Fatalf("expected foreign_keys=1, got %d", fk)
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Users
// ============================================================

func TestSeededUser(t *testing.T) {
	s := newTestStore(t)
	u, err := s.GetUser()
	if err != nil {
		t.Fatal(err)
	}
	if u.ID != CurrentUserID || u.Name != "Pomodone User" || u.DailyTarget != 5 || u.WeeklyTarget != 25 {
		t.Fatalf("unexpected seeded user: %+v", u)
	}
}

func TestUpdateUserTargets(t *testing.T) {
	s := newTestStore(t)
	if err := s.UpdateUserTargets(8, 40); err != nil {
		t.Fatal(err)
	}
	daily, _ := s.DailyTarget()
	weekly, _ := s.WeeklyTarget()
	if daily != 8 || weekly != 40 {
		t.Fatalf("expected 8/40, got %d/%d", daily, weekly)
	}

	// Zero is a valid target.
	if err := s.UpdateUserTargets(0, 0); err != nil {
		t.Fatalf("zero targets rejected: %v", err)
	}
}

func TestUpdateUserTargetsRejectsNegative(t *testing.T) {
	s := newTestStore(t)
	var verr *pomodoro.ValidationError
	if err := s.UpdateUserTargets(-1, 25); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if err := s.UpdateUserTargets(5, -3); !errors.As(err, &verr) || verr.Field != "weekly target" {
		t.Fatalf("expected weekly target ValidationError, got %v", err)
	}
	daily, _ := s.DailyTarget()
	if daily != 5 {
		t.Fatalf("rejected update changed target to %d", daily)
	}
}

func TestUpdateUserName(t *testing.T) {
	s := newTestStore(t)
	if err := s.UpdateUserName("  Ada  "); err != nil {
		t.Fatal(err)
	}
	u, _ := s.GetUser()
	if u.Name != "Ada" {
		t.Fatalf("expected trimmed name, got %q", u.Name)
	}
	if err := s.UpdateUserName("   "); err == nil {
		t.Fatal("expected error for blank name")
	}
}

func TestDailyTargetMissingUser(t *testing.T) {
	s := newTestStore(t)
	s.userID = 42
	daily, err := s.DailyTarget()
	if err != nil {
		t.Fatal(err)
	}
	if daily != 0 {
		t.Fatalf("expected 0 for missing user, got %d", daily)
	}
	if _, err := s.GetUser(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// ============================================================
// Tasks
// ============================================================

func TestCreateAndGetTask(t *testing.T) {
	s := newTestStore(t)
	due := baseTime.Add(48 * time.Hour)
	task, err := s.CreateTask(TaskInput{Title: "  Write report ", Description: "Q1", DueAt: &due, Difficulty: DifficultyHard})
	if err != nil {
		t.Fatal(err)
	}
	if task.ID == 0 {
		t.Fatal("expected non-zero ID")
	}
	if task.Title != "Write report" || task.Description != "Q1" || task.Difficulty != DifficultyHard {
		t.Fatalf("unexpected task: %+v", task)
	}
	if task.Status != TaskPending {
		t.Fatalf("expected pending, got %s", task.Status)
	}
	if task.DueAt == nil || !task.DueAt.Equal(due) {
		t.Fatalf("due date not stored: %v", task.DueAt)
	}
}

func TestCreateTaskDefaults(t *testing.T) {
	s := newTestStore(t)
	task, err := s.CreateTask(TaskInput{Title: "Read"})
	if err != nil {
		t.Fatal(err)
	}
	if task.Difficulty != DifficultyMedium {
		t.Fatalf("expected default medium, got %s", task.Difficulty)
	}
	if task.DueAt != nil {
		t.Fatal("expected no due date")
	}
}

func TestCreateTaskValidation(t *testing.T) {
	s := newTestStore(t)
	var verr *pomodoro.ValidationError
	if _, err := s.CreateTask(TaskInput{Title: "  "}); !errors.As(err, &verr) || verr.Field != "title" {
		t.Fatalf("expected title ValidationError, got %v", err)
	}
	if _, err := s.CreateTask(TaskInput{Title: "x", Difficulty: "extreme"}); !errors.As(err, &verr) || verr.Field != "difficulty" {
		t.Fatalf("expected difficulty ValidationError, got %v", err)
	}
}

func TestGetTaskNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetTask(999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTaskOverdueDerived(t *testing.T) {
	s := newTestStore(t)
	due := baseTime.Add(time.Hour)
	task, _ := s.CreateTask(TaskInput{Title: "Soon", DueAt: &due})
	if task.Status != TaskPending {
		t.Fatalf("expected pending before due, got %s", task.Status)
	}

	setClock(s, 2*time.Hour)
	got, _ := s.GetTask(task.ID)
	if got.Status != TaskOverdue {
		t.Fatalf("expected overdue after due, got %s", got.Status)
	}

	if err := s.SetTaskStatus(task.ID, true); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetTask(task.ID)
	if got.Status != TaskDone {
		t.Fatalf("done task should not read overdue, got %s", got.Status)
	}
}

func TestSetTaskStatus(t *testing.T) {
	s := newTestStore(t)
	task, _ := s.CreateTask(TaskInput{Title: "Ship"})

	if err := s.SetTaskStatus(task.ID, true); err != nil {
		t.Fatal(err)
	}
	got, _ := s.GetTask(task.ID)
	if got.CompletedAt == nil || !got.CompletedAt.Equal(baseTime) {
		t.Fatalf("expected completed_at stamped, got %v", got.CompletedAt)
	}

	if err := s.SetTaskStatus(task.ID, false); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetTask(task.ID)
	if got.Status != TaskPending || got.CompletedAt != nil {
		t.Fatalf("expected pending with cleared completed_at, got %+v", got)
	}

	if err := s.SetTaskStatus(999, true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateTask(t *testing.T) {
	s := newTestStore(t)
	task, _ := s.CreateTask(TaskInput{Title: "Old"})
	setClock(s, time.Minute)
	if err := s.UpdateTask(task.ID, TaskInput{Title: "New", Difficulty: DifficultyEasy}); err != nil {
		t.Fatal(err)
	}
	got, _ := s.GetTask(task.ID)
	if got.Title != "New" || got.Difficulty != DifficultyEasy {
		t.Fatalf("update not applied: %+v", got)
	}
	if !got.UpdatedAt.After(got.CreatedAt) {
		t.Fatal("updated_at not bumped")
	}
	if err := s.UpdateTask(999, TaskInput{Title: "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteTask(t *testing.T) {
	s := newTestStore(t)
	task, _ := s.CreateTask(TaskInput{Title: "Gone"})
	if err := s.DeleteTask(task.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetTask(task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatal("task still present after delete")
	}
	if err := s.DeleteTask(task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func seedTasks(t *testing.T, s *Store) {
	t.Helper()
	in := []TaskInput{
		{Title: "alpha", Difficulty: DifficultyHard, DueAt: ptrTime(baseTime.Add(72 * time.Hour))},
		{Title: "Bravo", Difficulty: DifficultyEasy},
		{Title: "charlie", Difficulty: DifficultyMedium, DueAt: ptrTime(baseTime.Add(-24 * time.Hour))},
		{Title: "delta", Difficulty: DifficultyEasy, DueAt: ptrTime(baseTime.Add(24 * time.Hour))},
	}
	for i, ti := range in {
		setClock(s, time.Duration(i)*time.Minute-time.Hour)
		if _, err := s.CreateTask(ti); err != nil {
			t.Fatal(err)
		}
	}
	setClock(s, 0)
}

func titles(tasks []Task) []string {
	var out []string
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestListTasksSort(t *testing.T) {
	s := newTestStore(t)
	seedTasks(t, s)

	tests := []struct {
		sort TaskSort
		want []string
	}{
		{SortNewest, []string{"delta", "charlie", "Bravo", "alpha"}},
		{SortByDueDate, []string{"charlie", "delta", "alpha", "Bravo"}},
		{SortByDifficulty, []string{"Bravo", "delta", "charlie", "alpha"}},
		{SortByTitle, []string{"delta", "charlie", "Bravo", "alpha"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			tasks, err := s.ListTasks(TaskFilter{Sort: tt.sort})
			if err != nil {
				t.Fatal(err)
			}
			if got := titles(tasks); !equalStrings(got, tt.want) {
				t.Fatalf("sort %s: got %v, want %v", tt.sort, got, tt.want)
			}
		})
	}
}

func TestListTasksStatusFilter(t *testing.T) {
	s := newTestStore(t)
	seedTasks(t, s)
	tasks, _ := s.ListTasks(TaskFilter{})
	// mark "alpha" done
	for _, task := range tasks {
		if task.Title == "alpha" {
			s.SetTaskStatus(task.ID, true)
		}
	}

	overdue, _ := s.ListTasks(TaskFilter{Status: TaskOverdue})
	if got := titles(overdue); !equalStrings(got, []string{"charlie"}) {
		t.Fatalf("overdue: got %v", got)
	}
	for _, task := range overdue {
		if task.Status != TaskOverdue {
			t.Fatalf("expected overdue status, got %s", task.Status)
		}
	}

	pending, _ := s.ListTasks(TaskFilter{Status: TaskPending, Sort: SortByTitle})
	if got := titles(pending); !equalStrings(got, []string{"delta", "Bravo"}) {
		t.Fatalf("pending: got %v", got)
	}

	done, _ := s.ListTasks(TaskFilter{Status: TaskDone})
	if got := titles(done); !equalStrings(got, []string{"alpha"}) {
		t.Fatalf("done: got %v", got)
	}
}

func TestListTasksSearch(t *testing.T) {
	s := newTestStore(t)
	seedTasks(t, s)
	tasks, err := s.ListTasks(TaskFilter{Search: "ALP"})
	if err != nil {
		t.Fatal(err)
	}
	if got := titles(tasks); !equalStrings(got, []string{"alpha"}) {
		t.Fatalf("search: got %v", got)
	}
}

func TestListTasksEmpty(t *testing.T) {
	s := newTestStore(t)
	tasks, err := s.ListTasks(TaskFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected 0 tasks, got %d", len(tasks))
	}
}

func TestTaskCounts(t *testing.T) {
	s := newTestStore(t)

	onTime, _ := s.CreateTask(TaskInput{Title: "on time", DueAt: ptrTime(baseTime.Add(time.Hour))})
	late, _ := s.CreateTask(TaskInput{Title: "late", DueAt: ptrTime(baseTime.Add(-time.Hour))})
	noDue, _ := s.CreateTask(TaskInput{Title: "no due"})
	s.CreateTask(TaskInput{Title: "open"})
	s.CreateTask(TaskInput{Title: "open overdue", DueAt: ptrTime(baseTime.Add(-time.Hour))})

	for _, id := range []int64{onTime.ID, late.ID, noDue.ID} {
		if err := s.SetTaskStatus(id, true); err != nil {
			t.Fatal(err)
		}
	}

	active, _ := s.CountActiveTasks()
	completed, _ := s.CountCompletedTasks()
	ot, _ := s.CountCompletedOnTimeTasks()
	if active != 2 || completed != 3 || ot != 2 {
		t.Fatalf("expected active=2 completed=3 onTime=2, got %d/%d/%d", active, completed, ot)
	}
}

func TestTaskOnTime(t *testing.T) {
	due := baseTime
	early := baseTime.Add(-time.Minute)
	after := baseTime.Add(time.Minute)
	tests := []struct {
		name string
		task Task
		want bool
	}{
		{"pending", Task{Status: TaskPending, DueAt: &due}, false},
		{"no due", Task{Status: TaskDone, CompletedAt: &after}, true},
		{"early", Task{Status: TaskDone, DueAt: &due, CompletedAt: &early}, true},
		{"exactly due", Task{Status: TaskDone, DueAt: &due, CompletedAt: &due}, true},
		{"late", Task{Status: TaskDone, DueAt: &due, CompletedAt: &after}, false},
	}
	for _, tt := range tests {
		if got := tt.task.OnTime(); got != tt.want {
			t.Errorf("%s: OnTime() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

// ============================================================
// Pomodoro sessions
// ============================================================

func TestRecordAndCountSessions(t *testing.T) {
	s := newTestStore(t)
	recordAt(t, s, baseTime.Add(-26*time.Hour), 25)
	recordAt(t, s, baseTime.Add(-2*time.Hour), 25)
	recordAt(t, s, baseTime.Add(-time.Hour), 25)

	n, err := s.CountSessionsSince(baseTime.Add(-3 * time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("expected 2 sessions, got %d", n)
	}

	// Inclusive lower bound.
	n, _ = s.CountSessionsSince(baseTime.Add(-time.Hour))
	if n != 1 {
		t.Fatalf("expected inclusive bound to count 1, got %d", n)
	}

	n, _ = s.CountSessionsSince(time.Time{})
	if n != 3 {
		t.Fatalf("expected 3 sessions overall, got %d", n)
	}
}

func TestRecordSessionIgnoresMissingTimestamps(t *testing.T) {
	s := newTestStore(t)
	if err := s.RecordSession(pomodoro.CompletedSession{EndedAt: baseTime, Mode: pomodoro.ModeClassic}); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordSession(pomodoro.CompletedSession{StartedAt: baseTime, Mode: pomodoro.ModeClassic}); err != nil {
		t.Fatal(err)
	}
	n, _ := s.CountSessionsSince(time.Time{})
	if n != 0 {
		t.Fatalf("expected nothing recorded, got %d", n)
	}
}

func TestCancelledSessionsNotCounted(t *testing.T) {
	s := newTestStore(t)
	err := s.RecordSession(pomodoro.CompletedSession{
		StartedAt: baseTime.Add(-time.Hour),
		EndedAt:   baseTime,
		Mode:      pomodoro.ModeIntense,
		Status:    pomodoro.StatusCancelled,
	})
	if err != nil {
		t.Fatal(err)
	}
	n, _ := s.CountSessionsSince(time.Time{})
	if n != 0 {
		t.Fatalf("cancelled session counted: %d", n)
	}
	sessions, _ := s.ListSessions(SessionFilter{})
	if len(sessions) != 1 || sessions[0].Status != "cancelled" || sessions[0].Mode != "intense" {
		t.Fatalf("unexpected sessions: %+v", sessions)
	}
}

func TestListSessions(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 5; i++ {
		recordAt(t, s, baseTime.Add(time.Duration(-i)*time.Hour), 25)
	}

	all, err := s.ListSessions(SessionFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5 sessions, got %d", len(all))
	}
	if !all[0].StartedAt.Equal(baseTime) {
		t.Fatalf("expected newest first, got %v", all[0].StartedAt)
	}
	if all[0].DurationSeconds != 1500 || !all[0].EndedAt.Equal(baseTime.Add(25*time.Minute)) {
		t.Fatalf("unexpected session: %+v", all[0])
	}

	from := baseTime.Add(-2 * time.Hour)
	to := baseTime
	ranged, _ := s.ListSessions(SessionFilter{From: &from, To: &to})
	if len(ranged) != 2 {
		t.Fatalf("expected 2 in range, got %d", len(ranged))
	}

	limited, _ := s.ListSessions(SessionFilter{Limit: 3})
	if len(limited) != 3 {
		t.Fatalf("expected limit 3, got %d", len(limited))
	}
}

func TestDailySessionCounts(t *testing.T) {
	s := newTestStore(t)
	day0 := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	recordAt(t, s, day0.Add(9*time.Hour), 25)
	recordAt(t, s, day0.Add(10*time.Hour), 50)
	recordAt(t, s, day0.AddDate(0, 0, 2).Add(8*time.Hour), 25)
	recordAt(t, s, day0.AddDate(0, 0, 3).Add(8*time.Hour), 25) // outside range

	counts, err := s.DailySessionCounts(day0, day0.AddDate(0, 0, 3))
	if err != nil {
		t.Fatal(err)
	}
	if len(counts) != 3 {
		t.Fatalf("expected 3 days, got %d", len(counts))
	}
	want := []DailyCount{
		{Date: "2026-03-02", Sessions: 2, FocusSeconds: 4500},
		{Date: "2026-03-03", Sessions: 0, FocusSeconds: 0},
		{Date: "2026-03-04", Sessions: 1, FocusSeconds: 1500},
	}
	for i := range want {
		if counts[i] != want[i] {
			t.Errorf("day %d: got %+v, want %+v", i, counts[i], want[i])
		}
	}
}

func TestDailySessionCountsLocalDay(t *testing.T) {
	s := newTestStore(t)
	loc := time.FixedZone("UTC+9", 9*3600)
	// 20:00 UTC on March 1 is already March 2 in UTC+9.
	recordAt(t, s, time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC), 25)

	from := time.Date(2026, 3, 2, 0, 0, 0, 0, loc)
	counts, err := s.DailySessionCounts(from, from.AddDate(0, 0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if len(counts) != 1 || counts[0].Sessions != 1 {
		t.Fatalf("expected session bucketed on local day, got %+v", counts)
	}
}

// ============================================================
// Custom presets
// ============================================================

func TestLatestPresetNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.LatestPreset(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSavePresetUpserts(t *testing.T) {
	s := newTestStore(t)
	if err := s.SavePreset(pomodoro.CustomInput{FocusMinutes: 30, ShortBreakMinutes: 5, LongBreakMinutes: 20, Rounds: 3}); err != nil {
		t.Fatal(err)
	}
	setClock(s, time.Minute)
	if err := s.SavePreset(pomodoro.CustomInput{FocusMinutes: 45, ShortBreakMinutes: 0, LongBreakMinutes: 15, Rounds: 2}); err != nil {
		t.Fatal(err)
	}

	var n int
	s.db.QueryRow(`SELECT COUNT(*) FROM pomodoro_custom_presets`).Scan(&n)
	if n != 1 {
		t.Fatalf("expected a single preset row, got %d", n)
	}

	p, err := s.LatestPreset()
	if err != nil {
		t.Fatal(err)
	}
	want := pomodoro.CustomInput{FocusMinutes: 45, ShortBreakMinutes: 0, LongBreakMinutes: 15, Rounds: 2}
	if p.Input() != want || p.Name != CustomPresetName {
		t.Fatalf("unexpected preset: %+v", p)
	}
}

func TestSavePresetRejectsInvalid(t *testing.T) {
	s := newTestStore(t)
	err := s.SavePreset(pomodoro.CustomInput{FocusMinutes: 0, ShortBreakMinutes: 5, LongBreakMinutes: 15, Rounds: 4})
	var verr *pomodoro.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, err := s.LatestPreset(); !errors.Is(err, ErrNotFound) {
		t.Fatal("invalid preset was persisted")
	}
}

// ============================================================
// Settings
// ============================================================

func TestGetSetSetting(t *testing.T) {
	s := newTestStore(t)
	if err := s.SetSetting("theme", "dark"); err != nil {
		t.Fatal(err)
	}
	v, err := s.GetSetting("theme")
	if err != nil {
		t.Fatal(err)
	}
	if v != "dark" {
		t.Fatalf("expected dark, got %q", v)
	}
	s.SetSetting("theme", "light")
	v, _ = s.GetSetting("theme")
	if v != "light" {
		t.Fatalf("expected overwrite, got %q", v)
	}
}

func TestGetSettingNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetSetting("nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetAllSettings(t *testing.T) {
	s := newTestStore(t)
	all, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 default settings, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Key >= all[i].Key {
			t.Fatalf("settings not sorted: %s >= %s", all[i-1].Key, all[i].Key)
		}
	}
}

func TestTimerMode(t *testing.T) {
	s := newTestStore(t)
	m, err := s.TimerMode()
	if err != nil {
		t.Fatal(err)
	}
	if m != pomodoro.ModeClassic {
		t.Fatalf("expected classic default, got %s", m)
	}
	if err := s.SetTimerMode(pomodoro.ModeCustom); err != nil {
		t.Fatal(err)
	}
	m, _ = s.TimerMode()
	if m != pomodoro.ModeCustom {
		t.Fatalf("expected custom, got %s", m)
	}
	if err := s.SetTimerMode("turbo"); err == nil {
		t.Fatal("expected error for unknown mode")
	}

	// A corrupted value falls back to classic.
	s.SetSetting(settingTimerMode, "???")
	m, _ = s.TimerMode()
	if m != pomodoro.ModeClassic {
		t.Fatalf("expected classic fallback, got %s", m)
	}
}

func TestWeekStart(t *testing.T) {
	s := newTestStore(t)
	d, _ := s.WeekStart()
	if d != time.Monday {
		t.Fatalf("expected monday default, got %s", d)
	}
	if err := s.SetWeekStart(time.Sunday); err != nil {
		t.Fatal(err)
	}
	d, _ = s.WeekStart()
	if d != time.Sunday {
		t.Fatalf("expected sunday, got %s", d)
	}
	if err := s.SetWeekStart(time.Wednesday); err == nil {
		t.Fatal("expected error for wednesday")
	}
}

// ============================================================
// Close
// ============================================================

func TestCloseStore(t *testing.T) {
	s, _ := NewMemory()
	if err := s.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
}

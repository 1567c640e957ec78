package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/JonnyWalker81/habitrack/backend/internal/models"
	"github.com/JonnyWalker81/habitrack/backend/internal/notify"
	"github.com/JonnyWalker81/habitrack/backend/internal/repository"
)

// mockHabitRepository is an in-memory HabitRepository
type mockHabitRepository struct {
	mu      sync.Mutex
	habits  map[string]*models.Habit
	nextID  int
	getErr  error
	statsOf map[string]models.HabitStats
}

func newMockHabitRepository() *mockHabitRepository {
	return &mockHabitRepository{
		habits:  make(map[string]*models.Habit),
		statsOf: make(map[string]models.HabitStats),
	}
}

func (m *mockHabitRepository) Create(_ context.Context, habit *models.Habit) (*models.Habit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h := *habit
	if h.ID == "" {
		m.nextID++
		h.ID = fmt.Sprintf("habit-%d", m.nextID)
	}
	m.habits[h.ID] = &h
	out := h
	return &out, nil
}

func (m *mockHabitRepository) GetByID(_ context.Context, id string) (*models.Habit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	h, ok := m.habits[id]
	if !ok {
		return nil, fmt.Errorf("habit: %w", repository.ErrNotFound)
	}
	out := *h
	return &out, nil
}

func (m *mockHabitRepository) GetByUserID(_ context.Context, userID string, activeOnly bool) ([]models.Habit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Habit
	for _, h := range m.habits {
		if h.UserID == userID && (!activeOnly || h.IsActive) {
			out = append(out, *h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockHabitRepository) Update(_ context.Context, id string, habit *models.Habit) (*models.Habit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.habits[id]; !ok {
		return nil, fmt.Errorf("habit: %w", repository.ErrNotFound)
	}
	h := *habit
	m.habits[id] = &h
	out := h
	return &out, nil
}

func (m *mockHabitRepository) UpdateStats(_ context.Context, id string, stats models.HabitStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.habits[id]
	if !ok {
		return fmt.Errorf("habit: %w", repository.ErrNotFound)
	}
	h.CurrentStreak = stats.CurrentStreak
	h.LongestStreak = stats.LongestStreak
	h.TotalCompletions = stats.TotalCompletions
	h.RewardPoints = stats.RewardPoints
	m.statsOf[id] = stats
	return nil
}

func (m *mockHabitRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.habits[id]; !ok {
		return fmt.Errorf("habit: %w", repository.ErrNotFound)
	}
	delete(m.habits, id)
	return nil
}

// mockLogRepository is an in-memory HabitLogRepository
type mockLogRepository struct {
	mu       sync.Mutex
	logs     []models.HabitLog
	fetchErr error
	fetches  int
}

func (m *mockLogRepository) Create(_ context.Context, log *models.HabitLog) (*models.HabitLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l := *log
	if l.ID == "" {
		l.ID = fmt.Sprintf("log-%d", len(m.logs)+1)
	}
	m.logs = append(m.logs, l)
	return &l, nil
}

func (m *mockLogRepository) GetByID(_ context.Context, id string) (*models.HabitLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.logs {
		if l.ID == id {
			out := l
			return &out, nil
		}
	}
	return nil, fmt.Errorf("habit log: %w", repository.ErrNotFound)
}

func (m *mockLogRepository) filter(match func(models.HabitLog) bool, start, end time.Time) []models.HabitLog {
	var out []models.HabitLog
	for _, l := range m.logs {
		if !match(l) {
			continue
		}
		if !start.IsZero() && l.LoggedAt.Before(start) {
			continue
		}
		if !end.IsZero() && l.LoggedAt.After(end) {
			continue
		}
		out = append(out, l)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].LoggedAt.Before(out[j].LoggedAt) })
	return out
}

func (m *mockLogRepository) GetByHabitIDAndDateRange(_ context.Context, habitID string, start, end time.Time) ([]models.HabitLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter(func(l models.HabitLog) bool { return l.HabitID == habitID }, start, end), nil
}

func (m *mockLogRepository) GetByUserIDAndDateRange(_ context.Context, userID string, start, end time.Time) ([]models.HabitLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter(func(l models.HabitLog) bool { return l.UserID == userID }, start, end), nil
}

func (m *mockLogRepository) FetchEvents(_ context.Context, habitID string, start, end time.Time) ([]models.CompletionEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetches++
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return repository.Events(m.filter(func(l models.HabitLog) bool { return l.HabitID == habitID }, start, end)), nil
}

// mockEvidenceRepository is an in-memory EvidenceRepository
type mockEvidenceRepository struct {
	mu       sync.Mutex
	items    []models.Evidence
	countErr error
}

func (m *mockEvidenceRepository) Create(_ context.Context, e *models.Evidence) (*models.Evidence, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := *e
	out.ID = fmt.Sprintf("evidence-%d", len(m.items)+1)
	m.items = append(m.items, out)
	return &out, nil
}

func (m *mockEvidenceRepository) GetByLogID(_ context.Context, logID string) ([]models.Evidence, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Evidence
	for _, e := range m.items {
		if e.HabitLogID == logID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockEvidenceRepository) CountByHabitID(_ context.Context, habitID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.countErr != nil {
		return 0, m.countErr
	}
	n := 0
	for _, e := range m.items {
		if e.HabitID == habitID {
			n++
		}
	}
	return n, nil
}

// recordingSink captures enqueued notifications
type recordingSink struct {
	mu  sync.Mutex
	got []notify.Notification
}

func (s *recordingSink) Enqueue(n notify.Notification) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, n)
	return true
}

func (s *recordingSink) kinds() []notify.Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]notify.Kind, len(s.got))
	for i, n := range s.got {
		out[i] = n.Kind
	}
	return out
}

type fixture struct {
	habits   *mockHabitRepository
	logs     *mockLogRepository
	evidence *mockEvidenceRepository
	sink     *recordingSink
	settings Settings
}

var fixtureNow = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	return &fixture{
		habits:   newMockHabitRepository(),
		logs:     &mockLogRepository{},
		evidence: &mockEvidenceRepository{},
		sink:     &recordingSink{},
		settings: Settings{
			Location: time.UTC,
			Now:      func() time.Time { return fixtureNow },
		},
	}
}

func (f *fixture) stores() repository.Stores {
	return repository.Stores{Habits: f.habits, Logs: f.logs, Evidence: f.evidence}
}

func (f *fixture) addHabit(userID string, category models.HabitCategory) *models.Habit {
	h, _ := f.habits.Create(context.Background(), &models.Habit{
		UserID:           userID,
		Name:             "Habit " + string(category),
		Category:         category,
		EstimatedMinutes: 30,
		Frequency:        models.DailyFrequency(1),
		IsActive:         true,
	})
	return h
}

// addCompleted stores completed logs on each of the given days before fixtureNow
func (f *fixture) addCompleted(habit *models.Habit, daysAgo ...int) {
	for _, d := range daysAgo {
		f.logs.Create(context.Background(), &models.HabitLog{
			HabitID:      habit.ID,
			UserID:       habit.UserID,
			LoggedAt:     fixtureNow.AddDate(0, 0, -d).Add(-2 * time.Hour),
			Status:       models.StatusCompleted,
			PointsEarned: 10,
		})
	}
}

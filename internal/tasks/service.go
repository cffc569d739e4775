package tasks

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sadopc/mithaq/internal/store"
)

// Store is the slice of the persistence gateway the task service needs.
type Store interface {
	Tasks() []store.Task
	SaveTasks([]store.Task) error
}

// Service owns the in-memory task list. Every mutation is written back to
// the store afterwards; a failed write is logged and the in-memory list
// stays authoritative.
type Service struct {
	mu    sync.Mutex
	store Store
	log   *zap.SugaredLogger
	tasks []store.Task
	newID func() string
}

func NewService(s Store, log *zap.SugaredLogger) *Service {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{
		store: s,
		log:   log,
		tasks: s.Tasks(),
		newID: uuid.NewString,
	}
}

// Patch carries the fields of an edit. Nil fields are left alone.
type Patch struct {
	Title     *string
	Day       *store.Day
	Priority  *store.Priority
	Completed *bool
}

func (s *Service) Add(title string, day store.Day, priority store.Priority) (store.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return store.Task{}, ErrEmptyTitle
	}
	if !day.Valid() {
		return store.Task{}, ErrInvalidDay
	}
	if !priority.Valid() {
		return store.Task{}, ErrInvalidPriority
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t := store.Task{
		ID:       s.newID(),
		Title:    title,
		Day:      day,
		Priority: priority,
	}
	s.tasks = append(s.tasks, t)
	s.persistLocked()
	return t, nil
}

func (s *Service) Toggle(id string) (store.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return store.Task{}, ErrNotFound
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	s.persistLocked()
	return s.tasks[i], nil
}

func (s *Service) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return ErrNotFound
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.persistLocked()
	return nil
}

func (s *Service) Edit(id string, p Patch) (store.Task, error) {
	var title string
	if p.Title != nil {
		title = strings.TrimSpace(*p.Title)
		if title == "" {
			return store.Task{}, ErrEmptyTitle
		}
	}
	if p.Day != nil && !p.Day.Valid() {
		return store.Task{}, ErrInvalidDay
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return store.Task{}, ErrInvalidPriority
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return store.Task{}, ErrNotFound
	}
	t := &s.tasks[i]
	if p.Title != nil {
		t.Title = title
	}
	if p.Day != nil {
		t.Day = *p.Day
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	s.persistLocked()
	return *t, nil
}

// Copy duplicates the tasks named by ids onto target, keeping title,
// priority and completion. Unknown ids are ignored. Copies are appended in
// collection order.
func (s *Service) Copy(ids []string, target store.Day) ([]store.Task, error) {
	if !target.Valid() {
		return nil, ErrInvalidDay
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var copies []store.Task
	for _, t := range s.tasks {
		if !want[t.ID] {
			continue
		}
		t.ID = s.newID()
		t.Day = target
		copies = append(copies, t)
	}
	if len(copies) == 0 {
		return nil, nil
	}
	s.tasks = append(s.tasks, copies...)
	s.persistLocked()
	return copies, nil
}

// UncheckAll clears every completion flag.
func (s *Service) UncheckAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		s.tasks[i].Completed = false
	}
	s.persistLocked()
}

func (s *Service) Sort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	SortTasks(s.tasks)
	s.persistLocked()
}

// All returns a copy of the task list.
func (s *Service) All() []store.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *Service) Get(id string) (store.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return store.Task{}, false
	}
	return s.tasks[i], true
}

func (s *Service) ByDay(day store.Day) []store.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []store.Task
	for _, t := range s.tasks {
		if t.Day == day {
			out = append(out, t)
		}
	}
	return out
}

func (s *Service) DayProgress(day store.Day) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ProgressForDay(s.tasks, day)
}

func (s *Service) OverallProgress() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return OverallProgress(s.tasks)
}

func (s *Service) indexLocked(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) persistLocked() {
	if err := s.store.SaveTasks(s.tasks); err != nil {
		s.log.Errorw("persist tasks", "error", err)
	}
}

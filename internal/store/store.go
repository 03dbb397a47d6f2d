// Package store owns the task collection and keeps it in sync with a
// storage.Backend slot.
package store

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/tgienger/tasker/internal/models"
	"github.com/tgienger/tasker/internal/storage"
)

// DefaultKey is the slot key the collection is saved under
const DefaultKey = "taskManager_tasks"

// DefaultTimeout bounds each backend call
const DefaultTimeout = 5 * time.Second

// Option configures a Store
type Option func(*Store)

// WithKey sets the slot key
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the UUID generator
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithLogger sets the logger used for load and save failures
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithTimeout bounds each backend call
func WithTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

// Store is the authoritative in-memory task collection. Every mutation is
// written back to the backend as a full snapshot once the initial load has
// happened.
type Store struct {
	mu      sync.Mutex
	backend storage.Backend
	key     string
	now     func() time.Time
	newID   func() string
	logger  *log.Logger
	timeout time.Duration

	tasks   []models.Task
	ready   bool
	done    chan struct{}
	loadErr error
	saveErr error
}

// New creates a store over backend. Call Load before use.
func New(backend storage.Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		key:     DefaultKey,
		now:     time.Now,
		newID:   uuid.NewString,
		logger:  log.New(io.Discard),
		timeout: DefaultTimeout,
		tasks:   []models.Task{},
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the snapshot from the backend. A missing, unreadable or invalid
// snapshot leaves the collection empty; the failure is logged and kept in
// LoadError. Only the first call has any effect.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready {
		return
	}
	defer s.markReady()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	data, err := s.backend.Load(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		s.logger.Debug("no saved tasks", "key", s.key)
		return
	}
	if err != nil {
		s.loadErr = err
		s.logger.Warn("could not read tasks, starting empty", "key", s.key, "err", err)
		return
	}

	tasks, err := Decode(data)
	if err != nil {
		s.loadErr = err
		s.logger.Warn("could not load tasks, starting empty", "key", s.key, "err", err)
		return
	}

	s.tasks = tasks
	s.logger.Debug("loaded tasks", "key", s.key, "count", len(tasks))
}

func (s *Store) markReady() {
	s.ready = true
	close(s.done)
}

// Ready reports whether the initial load attempt has completed
func (s *Store) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// Done is closed once the initial load attempt has completed
func (s *Store) Done() <-chan struct{} {
	return s.done
}

// LoadError returns the failure absorbed during Load, if any
func (s *Store) LoadError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

// LastSaveError returns the error from the most recent save, or nil if it succeeded
func (s *Store) LastSaveError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveErr
}

// Create appends a new pending task built from in
func (s *Store) Create(in models.TaskInput) models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	task := models.Task{
		ID:          s.newID(),
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		Status:      models.StatusPending,
		Category:    in.Category,
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.tasks = append(s.tasks, task)
	s.logger.Debug("created task", "id", task.ID)

	s.persist()
	return task
}

// Update merges u into the task with the given id and refreshes UpdatedAt.
// Unknown ids are ignored.
func (s *Store) Update(id string, u models.TaskUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return
	}
	u.Apply(&s.tasks[i])
	s.tasks[i].UpdatedAt = s.now().UTC()
	s.logger.Debug("updated task", "id", id)

	s.persist()
}

// SetStatus changes the status of the task with the given id
func (s *Store) SetStatus(id string, status models.Status) {
	s.Update(id, models.TaskUpdate{Status: &status})
}

// Delete removes the task with the given id. Unknown ids are ignored.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return
	}
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	s.logger.Debug("deleted task", "id", id)

	s.persist()
}

// Replace swaps the whole collection, as when importing a snapshot
func (s *Store) Replace(tasks []models.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = append([]models.Task{}, tasks...)
	s.persist()
}

// Get returns the task with the given id
func (s *Store) Get(id string) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Task{}, false
	}
	return s.tasks[i], true
}

// Tasks returns the collection in insertion order
func (s *Store) Tasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Task{}, s.tasks...)
}

// Filter returns the tasks matching f, in collection order
func (s *Store) Filter(f models.Filter) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f.IsEmpty() {
		return append([]models.Task{}, s.tasks...)
	}

	out := []models.Task{}
	for _, t := range s.tasks {
		if Matches(t, f) {
			out = append(out, t)
		}
	}
	return out
}

// Matches checks t against f. Criteria are checked in the order status,
// priority, category, search; the first failing one rejects the task and the
// search result, when a search is set, decides the rest.
func Matches(t models.Task, f models.Filter) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		return strings.Contains(strings.ToLower(t.Title), q) ||
			strings.Contains(strings.ToLower(t.Description), q)
	}
	return true
}

// Stats counts tasks by status and overdue state
func (s *Store) Stats() models.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	st := models.Stats{Total: len(s.tasks)}
	for _, t := range s.tasks {
		switch t.Status {
		case models.StatusCompleted:
			st.Completed++
		case models.StatusInProgress:
			st.InProgress++
		case models.StatusPending:
			st.Pending++
		}
		if t.Overdue(now) {
			st.Overdue++
		}
	}
	return st
}

// Categories returns the distinct categories in sorted order
func (s *Store) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)
	categories := []string{}
	for _, t := range s.tasks {
		if !seen[t.Category] {
			seen[t.Category] = true
			categories = append(categories, t.Category)
		}
	}
	sort.Strings(categories)
	return categories
}

// Snapshot returns the collection serialized as it is written to the backend
func (s *Store) Snapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Encode(s.tasks)
}

func (s *Store) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// persist writes the full collection to the backend. Must hold s.mu.
// Writes before the initial load are dropped so an empty collection never
// overwrites a snapshot that has not been read yet.
func (s *Store) persist() {
	if !s.ready {
		return
	}

	data, err := Encode(s.tasks)
	if err != nil {
		s.saveErr = err
		s.logger.Error("could not encode tasks", "err", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.backend.Save(ctx, s.key, data); err != nil {
		s.saveErr = err
		s.logger.Error("could not save tasks", "key", s.key, "err", err)
		return
	}
	s.saveErr = nil
}

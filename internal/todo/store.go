package todo

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tasklist/internal/storage"
)

// DefaultKey is the storage key holding the serialized task list.
const DefaultKey = "todos"

// KV is the durable string store the task list is persisted to.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Options tunes a Store. Zero values pick the defaults.
type Options struct {
	Key    string
	Now    func() time.Time
	NewID  func() string
	Logger zerolog.Logger
}

// Store owns the ordered task collection and writes the whole collection to
// its key after every change.
type Store struct {
	kv    KV
	key   string
	now   func() time.Time
	newID func() string
	log   zerolog.Logger
	tasks []Task
}

// Open builds a Store and loads the persisted collection. When the stored
// value cannot be decoded, the returned error is a *DecodeError and the
// returned Store is still usable, starting empty.
func Open(ctx context.Context, kv KV, opts Options) (*Store, error) {
	s := &Store{
		kv:    kv,
		key:   opts.Key,
		now:   opts.Now,
		newID: opts.NewID,
		log:   opts.Logger,
	}
	if s.key == "" {
		s.key = DefaultKey
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}

	if err := s.Load(ctx); err != nil {
		var decErr *DecodeError
		if errors.As(err, &decErr) {
			return s, err
		}
		return nil, err
	}
	return s, nil
}

// Key returns the storage key the collection is persisted under.
func (s *Store) Key() string { return s.key }

// BackupKey is where an undecodable persisted value is copied on Load.
func (s *Store) BackupKey() string { return s.key + ".corrupt" }

// Load replaces the in-memory collection with the persisted one. A missing
// key yields an empty collection.
func (s *Store) Load(ctx context.Context) error {
	data, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		s.tasks = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	tasks, err := Decode(data)
	if err != nil {
		s.tasks = nil
		// keep the unreadable value around before the next Save replaces it
		if bErr := s.kv.Set(ctx, s.BackupKey(), data); bErr != nil {
			s.log.Error().Err(bErr).Str("key", s.BackupKey()).Msg("failed to back up undecodable tasks")
		}
		return err
	}
	s.tasks = tasks
	s.log.Debug().Str("key", s.key).Int("count", len(tasks)).Msg("tasks loaded")
	return nil
}

// Save writes the full collection.
func (s *Store) Save(ctx context.Context) error {
	data, err := Encode(s.tasks)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

// Add appends a new task. Whitespace-only text is ignored and reports false.
// An empty or All category becomes DefaultCategory.
func (s *Store) Add(ctx context.Context, text, category string) (Task, bool, error) {
	if strings.TrimSpace(text) == "" {
		return Task{}, false, nil
	}
	t := Task{
		ID:        s.newID(),
		Text:      text,
		Completed: false,
		Category:  CategoryForNewTask(category),
		CreatedAt: s.now(),
	}
	prev := s.tasks
	s.tasks = append(slices.Clip(s.tasks), t)
	if err := s.Save(ctx); err != nil {
		s.tasks = prev
		return Task{}, false, err
	}
	s.log.Info().Str("id", t.ID).Str("category", t.Category).Msg("task added")
	return t, true, nil
}

// Toggle flips Completed on the task with the given id. Unknown ids report false.
func (s *Store) Toggle(ctx context.Context, id string) (bool, error) {
	i := s.index(id)
	if i < 0 {
		return false, nil
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	if err := s.Save(ctx); err != nil {
		s.tasks[i].Completed = !s.tasks[i].Completed
		return false, err
	}
	s.log.Info().Str("id", id).Bool("completed", s.tasks[i].Completed).Msg("task toggled")
	return true, nil
}

// Delete removes the task with the given id. Unknown ids report false.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	i := s.index(id)
	if i < 0 {
		return false, nil
	}
	prev := s.tasks
	s.tasks = slices.Delete(slices.Clone(s.tasks), i, i+1)
	if err := s.Save(ctx); err != nil {
		s.tasks = prev
		return false, err
	}
	s.log.Info().Str("id", id).Msg("task deleted")
	return true, nil
}

// Tasks returns a copy of the collection in insertion order.
func (s *Store) Tasks() []Task {
	return slices.Clone(s.tasks)
}

func (s *Store) Get(id string) (Task, bool) {
	i := s.index(id)
	if i < 0 {
		return Task{}, false
	}
	return s.tasks[i], true
}

func (s *Store) Len() int { return len(s.tasks) }

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.tasks, func(t Task) bool { return t.ID == id })
}

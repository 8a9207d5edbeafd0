// Package bookmarks keeps the set of bookmarked employee ids and mirrors it to the
// key/value store after every change.
package bookmarks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/UnknownOlympus/glimpse/internal/lib/logger/sl"
	"github.com/UnknownOlympus/glimpse/internal/metrics"
	"github.com/UnknownOlympus/glimpse/internal/repository"
)

// StorageKey is the key the set is persisted under.
const StorageKey = "hrGlimpseBookmarks"

// Set is the bookmark set. Ids keep insertion order; membership has set semantics.
type Set struct {
	log     *slog.Logger
	kv      repository.KVRepoIface
	metrics *metrics.Metrics

	mu  sync.RWMutex
	ids []int
}

func NewSet(log *slog.Logger, kv repository.KVRepoIface, metrics *metrics.Metrics) *Set {
	return &Set{
		log: log.With(
			slog.String("division", "bookmarks"),
		),
		kv:      kv,
		metrics: metrics,
		ids:     []int{},
	}
}

// Load reads the persisted set once. A missing or unparsable value yields an empty set.
func (s *Set) Load(ctx context.Context) {
	log := s.log.With(slog.String("op", "Bookmarks.Load"))

	ids := []int{}
	raw, err := s.kv.Get(ctx, StorageKey)
	switch {
	case errors.Is(err, repository.ErrKeyNotFound):
		log.DebugContext(ctx, "No persisted bookmarks")
	case err != nil:
		log.WarnContext(ctx, "Failed to read persisted bookmarks, starting empty", sl.Err(err))
	default:
		var stored []int
		if jsonErr := json.Unmarshal([]byte(raw), &stored); jsonErr != nil {
			log.WarnContext(ctx, "Persisted bookmarks are not parsable, starting empty", sl.Err(jsonErr))
		} else {
			ids = dedupe(stored)
		}
	}

	s.mu.Lock()
	s.ids = ids
	s.mu.Unlock()

	s.metrics.Bookmarks.Set(float64(len(ids)))
	log.InfoContext(ctx, "Bookmarks loaded", "count", len(ids))
}

// Add bookmarks id. Adding an existing id leaves the set unchanged but still persists it.
func (s *Set) Add(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !slices.Contains(s.ids, id) {
		s.ids = append(s.ids, id)
	}

	return s.persistLocked(ctx)
}

// Remove drops id from the set. Removing an absent id is a no-op apart from persisting.
func (s *Set) Remove(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ids = slices.DeleteFunc(s.ids, func(v int) bool { return v == id })

	return s.persistLocked(ctx)
}

// Has reports whether id is bookmarked.
func (s *Set) Has(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Contains(s.ids, id)
}

// List returns bookmarked ids in the order they were added.
func (s *Set) List() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.ids)
}

// Len returns the number of bookmarked ids.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.ids)
}

// persistLocked writes the full set. The in-memory set stays authoritative if the write fails.
func (s *Set) persistLocked(ctx context.Context) error {
	s.metrics.Bookmarks.Set(float64(len(s.ids)))

	payload, err := json.Marshal(s.ids)
	if err != nil {
		return fmt.Errorf("failed to encode bookmarks: %w", err)
	}

	if err = s.kv.Set(ctx, StorageKey, string(payload)); err != nil {
		s.log.ErrorContext(ctx, "Failed to persist bookmarks", slog.String("op", "Bookmarks.persist"), sl.Err(err))
		return fmt.Errorf("failed to persist bookmarks: %w", err)
	}

	return nil
}

func dedupe(ids []int) []int {
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}

	return out
}

// Package directory holds the authoritative in-memory employee collection for a session.
package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/UnknownOlympus/glimpse/internal/lib/logger/sl"
	"github.com/UnknownOlympus/glimpse/internal/metrics"
	"github.com/UnknownOlympus/glimpse/internal/models"
	"github.com/UnknownOlympus/glimpse/internal/source"
	"github.com/UnknownOlympus/glimpse/internal/transform"
)

var (
	ErrNotFound  = errors.New("employee not found")
	ErrNotLoaded = errors.New("employees are not loaded yet")
)

// Store owns the employee collection and is its only writer.
type Store struct {
	log         *slog.Logger
	source      source.UserSource
	transformer *transform.Transformer
	metrics     *metrics.Metrics

	mu         sync.RWMutex
	employees  []models.Employee
	status     LoadStatus
	lastErr    error
	generation uint64
}

func NewStore(
	log *slog.Logger,
	src source.UserSource,
	transformer *transform.Transformer,
	metrics *metrics.Metrics,
) *Store {
	return &Store{
		log:         log,
		source:      src,
		transformer: transformer,
		metrics:     metrics,
		employees:   []models.Employee{},
		status:      NotLoaded,
	}
}

func (s *Store) initLogger(opn string) *slog.Logger {
	return s.log.With(
		slog.String("op", opn),
		slog.String("division", "directory"),
	)
}

// FetchAll replaces the collection with a freshly fetched and transformed page.
// Any failure empties the collection and is logged, never returned. A fetch that is
// overtaken by a newer FetchAll discards its result.
func (s *Store) FetchAll(ctx context.Context) {
	const opn = "Directory.FetchAll"
	log := s.initLogger(opn)

	s.mu.Lock()
	s.generation++
	token := s.generation
	s.status = Loading
	s.mu.Unlock()

	startTime := time.Now()
	raws, err := s.source.FetchUsers(ctx)
	s.metrics.FetchDuration.Observe(time.Since(startTime).Seconds())

	var employees []models.Employee
	var emailsFixed int
	if err == nil {
		employees, emailsFixed = s.transformer.TransformAll(raws)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.generation {
		log.InfoContext(ctx, "Fetch result superseded by a newer fetch, discarded")
		s.metrics.FetchRuns.WithLabelValues("superseded").Inc()
		return
	}

	if err != nil {
		log.ErrorContext(ctx, "Failed to fetch users", sl.Err(err))
		s.employees = []models.Employee{}
		s.status = LoadFailed
		s.lastErr = err
		s.metrics.FetchRuns.WithLabelValues("failure").Inc()
		return
	}

	if emailsFixed != 0 {
		log.WarnContext(ctx, "Number of employees with no email, generated placeholder addresses",
			"value", emailsFixed)
		s.metrics.EmailsFixed.Add(float64(emailsFixed))
	}

	s.employees = employees
	s.status = Loaded
	s.lastErr = nil
	s.metrics.ItemsTransformed.WithLabelValues("employee").Add(float64(len(employees)))
	s.metrics.FetchRuns.WithLabelValues("success").Inc()
	s.metrics.LastSuccessfulFetch.SetToCurrentTime()
	log.InfoContext(ctx, "Employees loaded", "count", len(employees))
}

// Employees returns a copy of the collection in store order.
func (s *Store) Employees() []models.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Employee, len(s.employees))
	for i, employee := range s.employees {
		out[i] = employee.Clone()
	}

	return out
}

// IsLoading reports whether a fetch is in flight.
func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.status == Loading
}

// State returns the load lifecycle position together with the failure reason, if any.
func (s *Store) State() LoadState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return LoadState{Status: s.status, Count: len(s.employees), Err: s.lastErr}
}

// FindByID returns the employee with id. It returns ErrNotLoaded while no fetch has
// completed yet and ErrNotFound once the collection is known not to contain id.
func (s *Store) FindByID(id int) (models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexLocked(id)
	if idx >= 0 {
		return s.employees[idx].Clone(), nil
	}

	if s.status == NotLoaded || s.status == Loading {
		return models.Employee{}, ErrNotLoaded
	}

	return models.Employee{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
}

// Update replaces the employee carrying the same id in place. Unknown ids are ignored.
// It reports whether a record was replaced.
func (s *Store) Update(employee models.Employee) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(employee.ID)
	if idx < 0 {
		return false
	}
	s.employees[idx] = employee.Clone()

	return true
}

// UpdateFunc applies fn to the employee with id and stores the result under one lock,
// so a concurrent FetchAll cannot interleave between the read and the write. It
// returns the updated copy, or the FindByID errors when id is absent.
func (s *Store) UpdateFunc(id int, fn func(*models.Employee)) (models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		if s.status == NotLoaded || s.status == Loading {
			return models.Employee{}, ErrNotLoaded
		}
		return models.Employee{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}

	employee := s.employees[idx].Clone()
	fn(&employee)
	employee.ID = id
	s.employees[idx] = employee.Clone()

	return employee, nil
}

// Create assigns the next id (max existing id + 1, or 1 for an empty collection) and
// prepends the employee. Id assignment and insertion happen under one lock.
func (s *Store) Create(employee models.Employee) models.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()

	nextID := 1
	if len(s.employees) > 0 {
		maxID := s.employees[0].ID
		for _, existing := range s.employees[1:] {
			maxID = max(maxID, existing.ID)
		}
		nextID = maxID + 1
	}

	created := employee.Clone()
	created.ID = nextID
	s.employees = slices.Insert(s.employees, 0, created)

	return created.Clone()
}

func (s *Store) indexLocked(id int) int {
	return slices.IndexFunc(s.employees, func(e models.Employee) bool { return e.ID == id })
}

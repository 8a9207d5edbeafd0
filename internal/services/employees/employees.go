// Package employees is the directory's application service: it drives the store refresh
// cycle and implements the employee use cases behind the HTTP API.
package employees

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/mail"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/UnknownOlympus/glimpse/internal/biography"
	"github.com/UnknownOlympus/glimpse/internal/directory"
	"github.com/UnknownOlympus/glimpse/internal/filter"
	"github.com/UnknownOlympus/glimpse/internal/lib/logger/sl"
	"github.com/UnknownOlympus/glimpse/internal/models"
	"github.com/UnknownOlympus/glimpse/internal/transform"
)

const (
	DefaultCompany = "HR Glimpse Corp"
	DefaultPhone   = "555-1234"

	minAge = 18
	maxAge = 100
)

// DefaultAddress is assigned to every employee created through the API.
var DefaultAddress = models.Address{
	Address:    "123 Main St",
	City:       "Anytown",
	State:      "CA",
	PostalCode: "90210",
	Country:    "USA",
}

// ErrInvalidEmployee is wrapped by every ValidationError.
var ErrInvalidEmployee = errors.New("invalid employee")

// ValidationError lists the rejected fields of a creation request with a message each.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+e.Fields[key])
	}

	return fmt.Sprintf("%s: %s", ErrInvalidEmployee, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidEmployee
}

// NewEmployee is the creation form.
type NewEmployee struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Age        int    `json:"age"`
	Department string `json:"department"`
	Title      string `json:"title"`
}

// Drafter drafts a biography for one employee.
type Drafter interface {
	DraftFor(ctx context.Context, employeeID int, in biography.Input) (string, bool, error)
}

type Staff struct {
	log         *slog.Logger
	store       *directory.Store
	transformer *transform.Transformer
	drafter     Drafter
}

func NewStaff(
	log *slog.Logger,
	store *directory.Store,
	transformer *transform.Transformer,
	drafter Drafter,
) *Staff {
	return &Staff{log: log, store: store, transformer: transformer, drafter: drafter}
}

func (s *Staff) initLogger(opn string) *slog.Logger {
	return s.log.With(
		slog.String("op", opn),
		slog.String("division", "employee"),
	)
}

// Start loads the directory once and then refreshes it every interval until ctx is done.
// A non-positive interval disables the periodic refresh.
func (s *Staff) Start(ctx context.Context, interval time.Duration) error {
	const opn = "Employee.Start"
	log := s.initLogger(opn)

	// 1. Catch-up mode
	log.InfoContext(ctx, "Starting catch-up mode")
	s.store.FetchAll(ctx)

	if interval <= 0 {
		log.InfoContext(ctx, "Periodic refresh disabled")
		return nil
	}

	// 2. Maintenance mode
	log.InfoContext(ctx, "Starting maintenance mode", "interval", interval.String())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			log.InfoContext(ctx, "Periodic refresh triggered.")
			s.store.FetchAll(ctx)
		case <-ctx.Done():
			log.InfoContext(ctx, "Service shutting down.")
			return nil
		}
	}
}

// Refresh reloads the directory and returns the resulting load state.
func (s *Staff) Refresh(ctx context.Context) directory.LoadState {
	s.store.FetchAll(ctx)
	return s.store.State()
}

// State reports the directory load state.
func (s *Staff) State() directory.LoadState {
	return s.store.State()
}

// Visible returns the employees matching criteria in store order.
func (s *Staff) Visible(criteria filter.Criteria) []models.Employee {
	return filter.Derive(s.store.Employees(), criteria)
}

func (s *Staff) Employee(id int) (models.Employee, error) {
	return s.store.FindByID(id)
}

// CreateEmployee validates the form, completes it with defaults and generated mock data,
// and adds it to the store. Form values always win over generated ones.
func (s *Staff) CreateEmployee(ctx context.Context, form NewEmployee) (models.Employee, error) {
	const opn = "Employee.CreateEmployee"
	log := s.initLogger(opn)

	form = normalize(form)
	if err := Validate(form); err != nil {
		log.DebugContext(ctx, "Rejected employee form", sl.Err(err))
		return models.Employee{}, err
	}

	raw := models.RawUser{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Age:       form.Age,
		Image:     placeholderImage(form.FirstName, form.LastName),
		Username:  strings.ToLower(form.FirstName) + strings.ToLower(form.LastName),
		Phone:     DefaultPhone,
		Company: &models.RawCompany{
			Department: form.Department,
			Title:      form.Title,
			Name:       DefaultCompany,
		},
		Address: &models.RawAddress{
			Address:    DefaultAddress.Address,
			City:       DefaultAddress.City,
			State:      DefaultAddress.State,
			PostalCode: DefaultAddress.PostalCode,
			Country:    DefaultAddress.Country,
		},
	}

	created := s.store.Create(s.transformer.Transform(raw))
	log.InfoContext(ctx, "Employee created", sl.EmployeeID(created.ID), "fullname", created.FullName())

	return created, nil
}

// DraftBio asks the drafting service for a biography. The store is not modified;
// callers commit an accepted draft with SaveBio.
func (s *Staff) DraftBio(ctx context.Context, id int) (string, error) {
	employee, err := s.store.FindByID(id)
	if err != nil {
		return "", err
	}

	bio, _, err := s.drafter.DraftFor(ctx, id, biography.InputFor(employee))
	if err != nil {
		return "", fmt.Errorf("failed to draft bio for employee %d: %w", id, err)
	}

	return bio, nil
}

// SaveBio replaces the biography of employee id.
func (s *Staff) SaveBio(ctx context.Context, id int, bio string) (models.Employee, error) {
	const opn = "Employee.SaveBio"
	log := s.initLogger(opn)

	employee, err := s.store.UpdateFunc(id, func(e *models.Employee) {
		e.Bio = strings.TrimSpace(bio)
	})
	if err != nil {
		return models.Employee{}, err
	}

	log.InfoContext(ctx, "Employee bio updated", sl.EmployeeID(id))

	return employee, nil
}

// Validate checks a creation form. It returns a *ValidationError listing every bad field.
func Validate(form NewEmployee) error {
	fields := make(map[string]string)

	if utf8.RuneCountInString(form.FirstName) < 2 {
		fields["firstName"] = "First name must be at least 2 characters."
	}
	if utf8.RuneCountInString(form.LastName) < 2 {
		fields["lastName"] = "Last name must be at least 2 characters."
	}
	if !isValidEmail(form.Email) {
		fields["email"] = "Invalid email address."
	}
	switch {
	case form.Age < minAge:
		fields["age"] = "Age must be at least 18."
	case form.Age > maxAge:
		fields["age"] = "Age must be at most 100."
	}
	if !models.IsDepartment(form.Department) {
		fields["department"] = "Please select a department."
	}
	if utf8.RuneCountInString(form.Title) < 2 {
		fields["title"] = "Job title must be at least 2 characters."
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	return nil
}

func normalize(form NewEmployee) NewEmployee {
	form.FirstName = strings.TrimSpace(form.FirstName)
	form.LastName = strings.TrimSpace(form.LastName)
	form.Email = strings.TrimSpace(form.Email)
	form.Department = strings.TrimSpace(form.Department)
	form.Title = strings.TrimSpace(form.Title)

	return form
}

func placeholderImage(firstName, lastName string) string {
	first, _ := utf8.DecodeRuneInString(firstName)
	last, _ := utf8.DecodeRuneInString(lastName)

	return fmt.Sprintf("https://placehold.co/128x128.png?text=%c%c", first, last)
}

// isValidEmail checks if the given email address is a bare valid address.
func isValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

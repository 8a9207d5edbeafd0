package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/UnknownOlympus/glimpse/internal/analytics"
	"github.com/UnknownOlympus/glimpse/internal/auth"
	"github.com/UnknownOlympus/glimpse/internal/biography"
	"github.com/UnknownOlympus/glimpse/internal/bookmarks"
	"github.com/UnknownOlympus/glimpse/internal/directory"
	"github.com/UnknownOlympus/glimpse/internal/filter"
	"github.com/UnknownOlympus/glimpse/internal/lib/logger/sl"
	"github.com/UnknownOlympus/glimpse/internal/models"
	"github.com/UnknownOlympus/glimpse/internal/services/employees"
	"github.com/UnknownOlympus/glimpse/internal/transform"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// API is the directory's HTTP surface.
type API struct {
	log       *slog.Logger
	staff     *employees.Staff
	bookmarks *bookmarks.Set
	gate      *auth.Gate
	gen       transform.Generator
}

func NewAPI(
	log *slog.Logger,
	staff *employees.Staff,
	bookmarks *bookmarks.Set,
	gate *auth.Gate,
	gen transform.Generator,
) *API {
	return &API{
		log: log.With(
			slog.String("division", "api"),
		),
		staff:     staff,
		bookmarks: bookmarks,
		gate:      gate,
		gen:       gen,
	}
}

// Routes builds the router. Everything except /login requires a session.
func (a *API) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(requestLogger(a.log))
	router.Use(chimw.Recoverer)

	router.Post("/login", a.handleLogin)

	router.Group(func(r chi.Router) {
		r.Use(requireSession(a.gate))

		r.Post("/logout", a.handleLogout)
		r.Get("/status", a.handleStatus)

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", a.handleListEmployees)
			r.Post("/", a.handleCreateEmployee)
			r.Post("/refresh", a.handleRefresh)
			r.Get("/{id}", a.handleGetEmployee)
			r.Put("/{id}/bio", a.handleSaveBio)
			r.Post("/{id}/bio/draft", a.handleDraftBio)
		})

		r.Route("/bookmarks", func(r chi.Router) {
			r.Get("/", a.handleListBookmarks)
			r.Get("/{id}", a.handleGetBookmark)
			r.Put("/{id}", a.handleAddBookmark)
			r.Delete("/{id}", a.handleRemoveBookmark)
		})

		r.Get("/analytics/departments", a.handleDepartmentRatings)
		r.Get("/analytics/bookmark-trends", a.handleBookmarkTrends)
	})

	return router
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type statusResponse struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
	Error  string `json:"error,omitempty"`
}

type employeeResponse struct {
	Employee    models.Employee `json:"employee"`
	Bookmarked  bool            `json:"bookmarked"`
	RatingLabel string          `json:"ratingLabel"`
}

type bookmarkResponse struct {
	ID         int  `json:"id"`
	Bookmarked bool `json:"bookmarked"`
}

type bioRequest struct {
	Bio string `json:"bio"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if !decode(w, r, &payload) {
		return
	}

	token, err := a.gate.Login(r.Context(), payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			fail(w, r, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
			return
		}
		a.internalError(w, r, "Auth.Login", err)
		return
	}

	success(w, r, map[string]string{"token": token})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := a.gate.Logout(r.Context()); err != nil {
		a.internalError(w, r, "Auth.Logout", err)
		return
	}

	success(w, r, map[string]bool{"loggedOut": true})
}

func (a *API) handleStatus(w http.ResponseWriter, r *http.Request) {
	success(w, r, toStatus(a.staff.State()))
}

func (a *API) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r)
	if err != nil {
		fail(w, r, http.StatusBadRequest, "invalid_filter", err.Error())
		return
	}

	visible := a.staff.Visible(criteria)
	state := a.staff.State()

	success(w, r, map[string]any{
		"status":    state.Status.String(),
		"total":     state.Count,
		"employees": visible,
	})
}

func (a *API) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var form employees.NewEmployee
	if !decode(w, r, &form) {
		return
	}

	employee, err := a.staff.CreateEmployee(r.Context(), form)
	if err != nil {
		var verr *employees.ValidationError
		if errors.As(err, &verr) {
			failFields(w, r, http.StatusUnprocessableEntity, "validation_failed", "employee form is invalid", verr.Fields)
			return
		}
		a.internalError(w, r, "Employee.Create", err)
		return
	}

	created(w, r, employee)
}

func (a *API) handleRefresh(w http.ResponseWriter, r *http.Request) {
	success(w, r, toStatus(a.staff.Refresh(r.Context())))
}

func (a *API) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	employee, err := a.staff.Employee(id)
	if err != nil {
		a.lookupError(w, r, err)
		return
	}

	success(w, r, employeeResponse{
		Employee:    employee,
		Bookmarked:  a.bookmarks.Has(id),
		RatingLabel: models.RatingLabel(float64(employee.PerformanceRating)),
	})
}

func (a *API) handleSaveBio(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var payload bioRequest
	if !decode(w, r, &payload) {
		return
	}

	employee, err := a.staff.SaveBio(r.Context(), id, payload.Bio)
	if err != nil {
		a.lookupError(w, r, err)
		return
	}

	success(w, r, employee)
}

func (a *API) handleDraftBio(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	bio, err := a.staff.DraftBio(r.Context(), id)
	switch {
	case errors.Is(err, biography.ErrGenerationFailed):
		fail(w, r, http.StatusBadGateway, "generation_failed", "Failed to generate bio. Please try again.")
	case err != nil:
		a.lookupError(w, r, err)
	default:
		success(w, r, bioRequest{Bio: bio})
	}
}

func (a *API) handleListBookmarks(w http.ResponseWriter, r *http.Request) {
	ids := a.bookmarks.List()

	byID := make(map[int]models.Employee)
	for _, employee := range a.staff.Visible(filter.Criteria{}) {
		byID[employee.ID] = employee
	}

	bookmarked := make([]models.Employee, 0, len(ids))
	for _, id := range ids {
		if employee, ok := byID[id]; ok {
			bookmarked = append(bookmarked, employee)
		}
	}

	success(w, r, map[string]any{"ids": ids, "employees": bookmarked})
}

func (a *API) handleGetBookmark(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	success(w, r, bookmarkResponse{ID: id, Bookmarked: a.bookmarks.Has(id)})
}

func (a *API) handleAddBookmark(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := a.bookmarks.Add(r.Context(), id); err != nil {
		a.internalError(w, r, "Bookmarks.Add", err)
		return
	}

	success(w, r, bookmarkResponse{ID: id, Bookmarked: true})
}

func (a *API) handleRemoveBookmark(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := a.bookmarks.Remove(r.Context(), id); err != nil {
		a.internalError(w, r, "Bookmarks.Remove", err)
		return
	}

	success(w, r, bookmarkResponse{ID: id, Bookmarked: false})
}

func (a *API) handleDepartmentRatings(w http.ResponseWriter, r *http.Request) {
	success(w, r, analytics.DepartmentAverages(a.staff.Visible(filter.Criteria{})))
}

func (a *API) handleBookmarkTrends(w http.ResponseWriter, r *http.Request) {
	success(w, r, analytics.BookmarkTrends(a.gen))
}

func (a *API) lookupError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, directory.ErrNotLoaded):
		fail(w, r, http.StatusServiceUnavailable, "not_loaded", "employees are still loading")
	case errors.Is(err, directory.ErrNotFound):
		fail(w, r, http.StatusNotFound, "not_found", "employee not found")
	default:
		a.internalError(w, r, "Employee.Lookup", err)
	}
}

func (a *API) internalError(w http.ResponseWriter, r *http.Request, opn string, err error) {
	a.log.ErrorContext(r.Context(), "Request failed", slog.String("op", opn), sl.Err(err))
	fail(w, r, http.StatusInternalServerError, "internal_error", "internal error")
}

func toStatus(state directory.LoadState) statusResponse {
	resp := statusResponse{Status: state.Status.String(), Count: state.Count}
	if state.Err != nil {
		resp.Error = state.Err.Error()
	}

	return resp
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		fail(w, r, http.StatusBadRequest, "invalid_payload", "invalid request payload")
		return false
	}

	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, http.StatusBadRequest, "invalid_id", "employee id must be an integer")
		return 0, false
	}

	return id, true
}

// parseCriteria reads `q`, `department` and `rating`. The list parameters accept both
// repeated keys and comma separated values.
func parseCriteria(r *http.Request) (filter.Criteria, error) {
	query := r.URL.Query()
	criteria := filter.Criteria{Search: query.Get("q")}

	for _, name := range splitList(query["department"]) {
		if !models.IsDepartment(name) {
			return filter.Criteria{}, errors.New("unknown department: " + name)
		}
		criteria.Departments = append(criteria.Departments, models.Department(name))
	}

	for _, value := range splitList(query["rating"]) {
		rating, err := strconv.Atoi(value)
		if err != nil || rating < 1 || rating > 5 {
			return filter.Criteria{}, errors.New("rating must be an integer between 1 and 5: " + value)
		}
		criteria.Ratings = append(criteria.Ratings, rating)
	}

	return criteria, nil
}

func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}

	return out
}

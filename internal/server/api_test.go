package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/UnknownOlympus/glimpse/internal/auth"
	"github.com/UnknownOlympus/glimpse/internal/biography"
	"github.com/UnknownOlympus/glimpse/internal/bookmarks"
	"github.com/UnknownOlympus/glimpse/internal/client"
	"github.com/UnknownOlympus/glimpse/internal/directory"
	"github.com/UnknownOlympus/glimpse/internal/metrics"
	"github.com/UnknownOlympus/glimpse/internal/repository"
	"github.com/UnknownOlympus/glimpse/internal/server"
	"github.com/UnknownOlympus/glimpse/internal/services/employees"
	"github.com/UnknownOlympus/glimpse/internal/source"
	"github.com/UnknownOlympus/glimpse/internal/transform"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usersPayload = `{"users":[
	{"id":1,"firstName":"Emily","lastName":"Johnson","email":"emily@x.com",
	 "company":{"department":"Engineering","title":"Engineer","name":"Acme"}},
	{"id":2,"firstName":"Michael","lastName":"Williams","email":"michael@x.com",
	 "company":{"department":"Sales","title":"Manager","name":"Acme"}},
	{"id":3,"firstName":"Sophia","lastName":"Brown","email":"sophia@x.com",
	 "company":{"department":"Engineering","title":"Architect","name":"Acme"}}
],"total":3,"skip":0,"limit":50}`

type stubDrafter struct {
	bio string
	err error
}

func (s stubDrafter) DraftFor(_ context.Context, _ int, _ biography.Input) (string, bool, error) {
	return s.bio, false, s.err
}

type testEnv struct {
	handler http.Handler
	kv      *repository.MemoryKV
	token   string
}

func newTestEnv(t *testing.T, drafter employees.Drafter) *testEnv {
	t.Helper()

	listing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, usersPayload)
	}))
	t.Cleanup(listing.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.NewMetrics(prometheus.NewRegistry())
	kv := repository.NewMemoryKV()
	gen := transform.NewRandGenerator()
	tr := transform.NewTransformer(gen)

	src := source.NewUserLister(client.CreateHTTPClient(logger, time.Second), listing.URL, 50, 0)
	store := directory.NewStore(logger, src, tr, m)
	store.FetchAll(context.Background())

	staff := employees.NewStaff(logger, store, tr, drafter)
	marks := bookmarks.NewSet(logger, kv, m)
	marks.Load(context.Background())
	gate := auth.NewGate(logger, kv, "hr@example.com", "password")

	return &testEnv{handler: server.NewAPI(logger, staff, marks, gate, gen).Routes(), kv: kv}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
	RequestID string `json:"requestId"`
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())

	return rr, env
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()

	rr, env := e.do(t, http.MethodPost, "/login", map[string]string{"username": "hr@example.com", "password": "password"})
	require.Equal(t, http.StatusOK, rr.Code)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	e.token = data.Token
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func TestAPI_RequiresSession(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, stubDrafter{})

	rr, body := env.do(t, http.MethodGet, "/employees", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "unauthorized", body.Error.Code)
	assert.NotEmpty(t, body.RequestID)

	env.token = "forged"
	rr, _ = env.do(t, http.MethodGet, "/employees", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAPI_LoginLogout(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, stubDrafter{})

	rr, body := env.do(t, http.MethodPost, "/login", map[string]string{"username": "hr@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "invalid_credentials", body.Error.Code)

	rr, body = env.do(t, http.MethodPost, "/login", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid_payload", body.Error.Code)

	env.login(t)
	assert.Equal(t, auth.Token, env.token)
	stored, err := env.kv.Get(context.Background(), auth.TokenKey)
	require.NoError(t, err)
	assert.Equal(t, auth.Token, stored)

	rr, _ = env.do(t, http.MethodPost, "/logout", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr, _ = env.do(t, http.MethodGet, "/status", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAPI_ListEmployeesWithFilters(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, stubDrafter{})
	env.login(t)

	type listing struct {
		Status    string `json:"status"`
		Total     int    `json:"total"`
		Employees []struct {
			ID int `json:"id"`
		} `json:"employees"`
	}

	rr, body := env.do(t, http.MethodGet, "/employees", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	all := decodeData[listing](t, body)
	assert.Equal(t, "loaded", all.Status)
	assert.Equal(t, 3, all.Total)
	assert.Len(t, all.Employees, 3)

	_, body = env.do(t, http.MethodGet, "/employees?department=Engineering", nil)
	engineering := decodeData[listing](t, body)
	require.Len(t, engineering.Employees, 2)
	assert.Equal(t, 1, engineering.Employees[0].ID)
	assert.Equal(t, 3, engineering.Employees[1].ID)

	_, body = env.do(t, http.MethodGet, "/employees?q=WILL&department=Sales,Engineering", nil)
	search := decodeData[listing](t, body)
	require.Len(t, search.Employees, 1)
	assert.Equal(t, 2, search.Employees[0].ID)

	rr, body = env.do(t, http.MethodGet, "/employees?rating=7", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid_filter", body.Error.Code)

	rr, _ = env.do(t, http.MethodGet, "/employees?department=Research", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAPI_ListEmployeesSearchKeepsWhitespace(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, stubDrafter{})
	env.login(t)

	type listing struct {
		Employees []struct {
			ID int `json:"id"`
		} `json:"employees"`
	}

	_, body := env.do(t, http.MethodGet, "/employees?q=%20", nil)
	assert.Empty(t, decodeData[listing](t, body).Employees, "no seeded field contains a space")

	form := employees.NewEmployee{
		FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com",
		Age: 45, Department: "Customer Service", Title: "Agent",
	}
	rr, _ := env.do(t, http.MethodPost, "/employees", form)
	require.Equal(t, http.StatusCreated, rr.Code)

	_, body = env.do(t, http.MethodGet, "/employees?q=%20", nil)
	spaced := decodeData[listing](t, body)
	require.Len(t, spaced.Employees, 1)
	assert.Equal(t, 4, spaced.Employees[0].ID)
}

func TestAPI_GetEmployee(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, stubDrafter{})
	env.login(t)

	rr, body := env.do(t, http.MethodGet, "/employees/2", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	got := decodeData[struct {
		Employee struct {
			ID        int    `json:"id"`
			FirstName string `json:"firstName"`
		} `json:"employee"`
		Bookmarked  bool   `json:"bookmarked"`
		RatingLabel string `json:"ratingLabel"`
	}](t, body)
	assert.Equal(t, "Michael", got.Employee.FirstName)
	assert.False(t, got.Bookmarked)
	assert.NotEmpty(t, got.RatingLabel)

	rr, body = env.do(t, http.MethodGet, "/employees/404", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "not_found", body.Error.Code)

	rr, body = env.do(t, http.MethodGet, "/employees/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid_id", body.Error.Code)
}

func TestAPI_CreateEmployee(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, stubDrafter{})
	env.login(t)

	form := employees.NewEmployee{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
		Age: 36, Department: "Engineering", Title: "Analyst",
	}
	rr, body := env.do(t, http.MethodPost, "/employees", form)
	require.Equal(t, http.StatusCreated, rr.Code)
	createdEmployee := decodeData[struct {
		ID       int    `json:"id"`
		Username string `json:"username"`
	}](t, body)
	assert.Equal(t, 4, createdEmployee.ID)
	assert.Equal(t, "adalovelace", createdEmployee.Username)

	form.Age = 12
	rr, body = env.do(t, http.MethodPost, "/employees", form)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "validation_failed", body.Error.Code)
	assert.Contains(t, body.Error.Fields, "age")
}

func TestAPI_DraftAndSaveBio(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, stubDrafter{bio: "Emily designs resilient systems."})
	env.login(t)

	rr, body := env.do(t, http.MethodPost, "/employees/1/bio/draft", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	draft := decodeData[struct {
		Bio string `json:"bio"`
	}](t, body)
	assert.Equal(t, "Emily designs resilient systems.", draft.Bio)

	rr, body = env.do(t, http.MethodPut, "/employees/1/bio", map[string]string{"bio": draft.Bio})
	require.Equal(t, http.StatusOK, rr.Code)
	saved := decodeData[struct {
		Bio string `json:"bio"`
	}](t, body)
	assert.Equal(t, draft.Bio, saved.Bio)

	rr, _ = env.do(t, http.MethodPut, "/employees/99/bio", map[string]string{"bio": "x"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAPI_DraftBioFailure(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, stubDrafter{err: fmt.Errorf("%w: quota", biography.ErrGenerationFailed)})
	env.login(t)

	rr, body := env.do(t, http.MethodPost, "/employees/1/bio/draft", nil)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Equal(t, "generation_failed", body.Error.Code)
}

func TestAPI_Bookmarks(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, stubDrafter{})
	env.login(t)

	for _, id := range []int{3, 1, 3, 77} {
		rr, _ := env.do(t, http.MethodPut, fmt.Sprintf("/bookmarks/%d", id), nil)
		require.Equal(t, http.StatusOK, rr.Code)
	}

	stored, err := env.kv.Get(context.Background(), bookmarks.StorageKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[3,1,77]`, stored)

	_, body := env.do(t, http.MethodGet, "/bookmarks/1", nil)
	assert.True(t, decodeData[struct {
		Bookmarked bool `json:"bookmarked"`
	}](t, body).Bookmarked)

	rr, _ := env.do(t, http.MethodDelete, "/bookmarks/1", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	_, body = env.do(t, http.MethodGet, "/bookmarks", nil)
	list := decodeData[struct {
		IDs       []int `json:"ids"`
		Employees []struct {
			ID int `json:"id"`
		} `json:"employees"`
	}](t, body)
	assert.Equal(t, []int{3, 77}, list.IDs)
	require.Len(t, list.Employees, 1, "unknown ids are listed but have no employee")
	assert.Equal(t, 3, list.Employees[0].ID)
}

func TestAPI_Analytics(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, stubDrafter{})
	env.login(t)

	rr, body := env.do(t, http.MethodGet, "/analytics/departments", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	ratings := decodeData[[]struct {
		Department string  `json:"department"`
		Average    float64 `json:"averageRating"`
		Employees  int     `json:"employees"`
	}](t, body)
	require.Len(t, ratings, 2)
	total := 0
	for i, rating := range ratings {
		total += rating.Employees
		if i > 0 {
			assert.GreaterOrEqual(t, ratings[i-1].Average, rating.Average)
		}
	}
	assert.Equal(t, 3, total)

	rr, body = env.do(t, http.MethodGet, "/analytics/bookmark-trends", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	trends := decodeData[[]struct {
		Month     string `json:"month"`
		Bookmarks int    `json:"bookmarks"`
	}](t, body)
	require.Len(t, trends, 12)
	assert.Equal(t, "Jan", trends[0].Month)
	assert.Equal(t, "Dec", trends[11].Month)
}

func TestAPI_StatusAndRefresh(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, stubDrafter{})
	env.login(t)

	_, body := env.do(t, http.MethodGet, "/status", nil)
	status := decodeData[struct {
		Status string `json:"status"`
		Count  int    `json:"count"`
	}](t, body)
	assert.Equal(t, "loaded", status.Status)
	assert.Equal(t, 3, status.Count)

	rr, body := env.do(t, http.MethodPost, "/employees/refresh", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 3, decodeData[struct {
		Count int `json:"count"`
	}](t, body).Count)
}

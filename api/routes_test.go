package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"habit-tracker/database"
	"habit-tracker/handler"
	"habit-tracker/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var now = time.Date(2026, time.October, 19, 10, 0, 0, 0, time.Local)

type envelope struct {
	Success bool               `json:"success"`
	Data    json.RawMessage    `json:"data"`
	Error   *handler.ErrorInfo `json:"error"`
	Message string             `json:"message"`
}

type testServer struct {
	mux   *http.ServeMux
	store *store.Store
	blobs *database.MemoryStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	s := store.New(store.WithClock(func() time.Time { return now }))
	blobs := database.NewMemory()
	h := handler.NewHandler(s, blobs, zap.NewNop())
	return &testServer{mux: SetupRoutes(h, zap.NewNop()), store: s, blobs: blobs}
}

func (ts *testServer) do(t *testing.T, method, path, body string) (int, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	ts.mux.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec.Code, env
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	code, env := ts.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
}

func TestCreateAndListHabits(t *testing.T) {
	ts := newTestServer(t)

	code, env := ts.do(t, http.MethodPost, "/api/v1/habits", `{"name":"Run","category":"Fitness"}`)
	require.Equal(t, http.StatusCreated, code)
	var created handler.HabitView
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, handler.HabitView{Index: 0, Name: "Run", Category: "Fitness", Completions: []string{}}, created)

	// 旧路径同样可用
	code, _ = ts.do(t, http.MethodPost, "/api/habits", `{"name":"Read","category":"Learning"}`)
	require.Equal(t, http.StatusCreated, code)

	code, env = ts.do(t, http.MethodGet, "/api/v1/habits", "")
	require.Equal(t, http.StatusOK, code)

	var list struct {
		Habits []handler.HabitView `json:"habits"`
		Date   string              `json:"date"`
		Stats  struct {
			Total          int `json:"total"`
			CompletedCount int `json:"completed_count"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Habits, 2)
	assert.Equal(t, "Run", list.Habits[0].Name)
	assert.Equal(t, 1, list.Habits[1].Index)
	assert.Equal(t, "2026-10-19", list.Date)
	assert.Equal(t, 2, list.Stats.Total)
}

func TestCreateHabitValidation(t *testing.T) {
	ts := newTestServer(t)

	for _, body := range []string{`{"name":"","category":"x"}`, `{"name":"x"}`, `{"name":"  ","category":"  "}`} {
		code, env := ts.do(t, http.MethodPost, "/api/v1/habits", body)
		assert.Equal(t, http.StatusBadRequest, code, body)
		require.NotNil(t, env.Error)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	}

	code, env := ts.do(t, http.MethodPost, "/api/v1/habits", `{not json`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_JSON", env.Error.Code)

	assert.Equal(t, 0, ts.store.Len())
}

func TestToggleHabit(t *testing.T) {
	ts := newTestServer(t)
	_, _ = ts.store.AddHabit("Run", "Fitness")

	code, env := ts.do(t, http.MethodPost, "/api/v1/habits/0/toggle", `{"date":"2026-10-18"}`)
	require.Equal(t, http.StatusOK, code)
	var res handler.ToggleResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, handler.ToggleResult{Index: 0, Date: "2026-10-18", Completed: true, Streak: 0}, res)

	// 没有请求体时切换今天
	code, env = ts.do(t, http.MethodPost, "/api/v1/habits/0/toggle", "")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, handler.ToggleResult{Index: 0, Date: "2026-10-19", Completed: true, Streak: 2}, res)

	code, env = ts.do(t, http.MethodPost, "/api/v1/habits/0/toggle", `{}`)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.False(t, res.Completed)
	assert.Equal(t, 0, res.Streak)
}

func TestToggleHabitErrors(t *testing.T) {
	ts := newTestServer(t)
	_, _ = ts.store.AddHabit("Run", "Fitness")

	tests := []struct {
		path, body string
		status     int
		code       string
	}{
		{"/api/v1/habits/5/toggle", "", http.StatusNotFound, "NOT_FOUND"},
		{"/api/v1/habits/-1/toggle", "", http.StatusNotFound, "NOT_FOUND"},
		{"/api/v1/habits/abc/toggle", "", http.StatusBadRequest, "INVALID_INDEX"},
		{"/api/v1/habits/0/toggle", `{"date":"19/10/2026"}`, http.StatusBadRequest, "INVALID_DATE"},
		{"/api/v1/habits/0/toggle", `{"date":`, http.StatusBadRequest, "INVALID_JSON"},
	}
	for _, tt := range tests {
		code, env := ts.do(t, http.MethodPost, tt.path, tt.body)
		assert.Equal(t, tt.status, code, tt.path)
		require.NotNil(t, env.Error, tt.path)
		assert.Equal(t, tt.code, env.Error.Code, tt.path)
	}
}

func TestDeleteHabit(t *testing.T) {
	ts := newTestServer(t)
	for _, n := range []string{"A", "B", "C"} {
		_, _ = ts.store.AddHabit(n, "General")
	}

	code, _ := ts.do(t, http.MethodDelete, "/api/v1/habits/1", "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 2, ts.store.Len())
	h, _ := ts.store.Habit(1)
	assert.Equal(t, "C", h.Name)

	code, env := ts.do(t, http.MethodDelete, "/api/v1/habits/2", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	code, env = ts.do(t, http.MethodDelete, "/api/v1/habits/x", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_INDEX", env.Error.Code)
}

func TestStatsAndDay(t *testing.T) {
	ts := newTestServer(t)
	for _, n := range []string{"A", "B", "C"} {
		_, _ = ts.store.AddHabit(n, "General")
	}
	today := ts.store.Today()
	_, _ = ts.store.ToggleCompletion(2, today)
	_, _ = ts.store.ToggleCompletion(0, today)
	_, _ = ts.store.ToggleCompletion(1, today.AddDays(-1))

	code, env := ts.do(t, http.MethodGet, "/api/v1/habits/stats", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"total":3,"completed_count":2}`, string(env.Data))

	code, env = ts.do(t, http.MethodGet, "/api/v1/habits/stats?date=2026-10-18", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"total":3,"completed_count":1}`, string(env.Data))

	code, _ = ts.do(t, http.MethodGet, "/api/v1/habits/stats?date=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = ts.do(t, http.MethodGet, "/api/v1/habits/days/2026-10-19", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"date":"2026-10-19","habits":[
		{"name":"A","category":"General","streak":1},
		{"name":"C","category":"General","streak":1}
	]}`, string(env.Data))

	code, env = ts.do(t, http.MethodGet, "/api/v1/habits/days/2026-10-01", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"date":"2026-10-01","habits":[]}`, string(env.Data))
}

func TestCalendar(t *testing.T) {
	ts := newTestServer(t)
	_, _ = ts.store.AddHabit("Run", "Fitness")
	_, _ = ts.store.ToggleCompletion(0, ts.store.Today())

	code, env := ts.do(t, http.MethodGet, "/api/v1/habits/calendar?selected=2026-10-03", "")
	require.Equal(t, http.StatusOK, code)

	var cal struct {
		Month   string `json:"month"`
		Title   string `json:"title"`
		Prev    string `json:"prev"`
		Next    string `json:"next"`
		Leading int    `json:"leading"`
		Days    []struct {
			Date           string `json:"date"`
			Today          bool   `json:"today"`
			Selected       bool   `json:"selected"`
			HasCompletions bool   `json:"has_completions"`
		} `json:"days"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &cal))
	assert.Equal(t, "2026-10", cal.Month)
	assert.Equal(t, "October 2026", cal.Title)
	assert.Equal(t, "2026-09", cal.Prev)
	assert.Equal(t, "2026-11", cal.Next)
	assert.Equal(t, 4, cal.Leading)
	require.Len(t, cal.Days, 31)
	assert.True(t, cal.Days[18].Today)
	assert.True(t, cal.Days[18].HasCompletions)
	assert.True(t, cal.Days[2].Selected)
	assert.False(t, cal.Days[17].HasCompletions)

	code, env = ts.do(t, http.MethodGet, "/api/v1/habits/calendar?month=2026-02", "")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &cal))
	assert.Len(t, cal.Days, 28)

	code, env = ts.do(t, http.MethodGet, "/api/v1/habits/calendar?month=2026-2", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_MONTH", env.Error.Code)
}

func TestSaveHabits(t *testing.T) {
	ts := newTestServer(t)
	_, _ = ts.store.AddHabit("Run", "Fitness")
	_, _ = ts.store.ToggleCompletion(0, ts.store.Today())

	code, env := ts.do(t, http.MethodPost, "/api/v1/habits/save", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"saved":1}`, string(env.Data))

	data, err := ts.blobs.LoadRaw(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"Run","category":"Fitness","streak":1,"completions":{"2026-10-19":true}}]`, string(data))
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/habits/0/toggle", nil)
	rec := httptest.NewRecorder()
	ts.mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	_, _ = ts.do(t, http.MethodGet, "/api/v1/habits", "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	ts.mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_request_duration_seconds")
}

func TestRecoverMiddleware(t *testing.T) {
	f := chain(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}, recoverMiddleware(zap.NewNop()))

	rec := httptest.NewRecorder()
	f(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

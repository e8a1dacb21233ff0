package router_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/loftkeeper/internal/config"
	"github.com/mamadbah2/loftkeeper/internal/repository/sqlstore"
	"github.com/mamadbah2/loftkeeper/internal/repository/sqlstore/sqlstoretest"
	"github.com/mamadbah2/loftkeeper/internal/server/handlers"
	"github.com/mamadbah2/loftkeeper/internal/server/router"
	"github.com/mamadbah2/loftkeeper/internal/service/auth"
	"github.com/mamadbah2/loftkeeper/internal/service/birds"
	"github.com/mamadbah2/loftkeeper/internal/service/breeding"
	"github.com/mamadbah2/loftkeeper/internal/service/dashboard"
	"github.com/mamadbah2/loftkeeper/internal/service/inventory"
	"github.com/mamadbah2/loftkeeper/internal/service/lofts"
	"github.com/mamadbah2/loftkeeper/internal/service/nutrition"
	"github.com/mamadbah2/loftkeeper/internal/service/tasks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(t *testing.T) *gin.Engine {
	t.Helper()
	store := sqlstoretest.New(t)
	db := store.DB()

	authCfg := config.AuthConfig{
		JWTSecret:  "0123456789abcdef0123456789abcdef",
		TokenTTL:   time.Hour,
		CookieName: "access_token",
	}

	userRepo := sqlstore.NewUserRepository(db)
	loftRepo := sqlstore.NewLoftRepository(db)
	birdRepo := sqlstore.NewBirdRepository(db)
	breedingRepo := sqlstore.NewBreedingRepository(db)

	authSvc := auth.NewService(userRepo, authCfg, nil)
	loftSvc := lofts.NewService(loftRepo, nil)
	birdSvc := birds.NewService(birdRepo, loftRepo, nil)
	taskSvc := tasks.NewService(sqlstore.NewTaskRepository(db), loftRepo, nil)
	nutritionSvc := nutrition.NewService(sqlstore.NewNutritionRepository(db), loftRepo, nil)
	breedingSvc := breeding.NewService(breedingRepo, birdRepo, nil)
	inventorySvc := inventory.NewService(sqlstore.NewInventoryRepository(db), nil)
	dashboardSvc := dashboard.NewService(dashboard.Sources{
		Lofts:     loftRepo,
		Birds:     birdSvc,
		Tasks:     taskSvc,
		Breeding:  breedingRepo,
		Inventory: inventorySvc,
	}, nil)

	return router.New(router.Handlers{
		Health:    handlers.NewHealthHandler(store, nil),
		Auth:      handlers.NewAuthHandler(authSvc, authCfg, nil),
		Lofts:     handlers.NewLoftHandler(loftSvc, nil),
		Birds:     handlers.NewBirdHandler(birdSvc, nil),
		Tasks:     handlers.NewTaskHandler(taskSvc, nil),
		Nutrition: handlers.NewNutritionHandler(nutritionSvc, nil),
		Breeding:  handlers.NewBreedingHandler(breedingSvc, nil),
		Inventory: handlers.NewInventoryHandler(inventorySvc, nil),
		Dashboard: handlers.NewDashboardHandler(dashboardSvc, nil),
	}, authSvc, authCfg.CookieName, nil)
}

type call struct {
	method string
	path   string
	body   any
	token  string
	cookie *http.Cookie
}

func do(t *testing.T, r http.Handler, c call) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if c.body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(c.body))
	}
	req := httptest.NewRequest(c.method, c.path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type session struct {
	AccessToken string `json:"accessToken"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Fields []struct {
		Field      string `json:"field"`
		Constraint string `json:"constraint"`
	} `json:"fields"`
}

func register(t *testing.T, r http.Handler, email string) (session, *http.Cookie) {
	t.Helper()
	w := do(t, r, call{method: http.MethodPost, path: "/auth/register", body: map[string]string{
		"email": email, "password": "pigeons-fly", "firstName": "Ada", "lastName": "Loft",
	}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "access_token" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	return decode[session](t, w), cookie
}

func TestHealthz(t *testing.T) {
	r := newEngine(t)
	w := do(t, r, call{method: http.MethodGet, path: "/healthz"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestAuth_RegisterLoginProfile(t *testing.T) {
	r := newEngine(t)
	s, cookie := register(t, r, "keeper@example.com")
	assert.NotEmpty(t, s.AccessToken)
	assert.Equal(t, "keeper@example.com", s.User.Email)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, 3600, cookie.MaxAge)

	w := do(t, r, call{method: http.MethodPost, path: "/auth/register", body: map[string]string{
		"email": "keeper@example.com", "password": "pigeons-fly", "firstName": "Ada", "lastName": "Loft",
	}})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, r, call{method: http.MethodPost, path: "/auth/login", body: map[string]string{
		"email": "keeper@example.com", "password": "wrong-password",
	}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, call{method: http.MethodPost, path: "/auth/login", body: map[string]string{
		"email": "keeper@example.com", "password": "pigeons-fly",
	}})
	require.Equal(t, http.StatusOK, w.Code)
	login := decode[session](t, w)

	w = do(t, r, call{method: http.MethodGet, path: "/auth/profile", token: login.AccessToken})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), s.User.ID)
	assert.NotContains(t, w.Body.String(), "pigeons-fly")
}

func TestAuth_Logout(t *testing.T) {
	r := newEngine(t)
	w := do(t, r, call{method: http.MethodPost, path: "/auth/logout"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "access_token", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestRequireAuth(t *testing.T) {
	r := newEngine(t)
	s, cookie := register(t, r, "keeper@example.com")

	w := do(t, r, call{method: http.MethodGet, path: "/lofts"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "authentication required", decode[errorResponse](t, w).Error)

	w = do(t, r, call{method: http.MethodGet, path: "/lofts", token: "not-a-jwt"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, call{method: http.MethodGet, path: "/lofts", token: s.AccessToken})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = do(t, r, call{method: http.MethodGet, path: "/lofts", cookie: &http.Cookie{Name: cookie.Name, Value: cookie.Value}})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestValidationErrors(t *testing.T) {
	r := newEngine(t)
	s, _ := register(t, r, "keeper@example.com")

	w := do(t, r, call{method: http.MethodPost, path: "/lofts", token: s.AccessToken,
		body: map[string]any{"capacity": -1}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[errorResponse](t, w)
	assert.Equal(t, "validation failed", body.Error)

	got := map[string]string{}
	for _, f := range body.Fields {
		got[f.Field] = f.Constraint
	}
	assert.Equal(t, map[string]string{"name": "required", "capacity": "gte"}, got)

	w = do(t, r, call{method: http.MethodPost, path: "/tasks", token: s.AccessToken, body: map[string]any{
		"title": "Clean loft", "category": "CLEANING", "frequency": "HOURLY", "startDate": "2024-01-01",
	}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body = decode[errorResponse](t, w)
	require.Len(t, body.Fields, 1)
	assert.Equal(t, "frequency", body.Fields[0].Field)
	assert.Equal(t, "oneof", body.Fields[0].Constraint)

	w = do(t, r, call{method: http.MethodGet, path: "/birds?status=FLYING", token: s.AccessToken})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, call{method: http.MethodGet, path: "/tasks?from=2024-02-01&to=2024-01-01", token: s.AccessToken})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoftLifecycle(t *testing.T) {
	r := newEngine(t)
	s, _ := register(t, r, "keeper@example.com")

	w := do(t, r, call{method: http.MethodGet, path: "/lofts/my-loft", token: s.AccessToken})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, call{method: http.MethodPost, path: "/lofts", token: s.AccessToken,
		body: map[string]any{"name": "North", "capacity": 40}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	loft := decode[struct {
		ID string `json:"id"`
	}](t, w)

	w = do(t, r, call{method: http.MethodPost, path: "/birds", token: s.AccessToken,
		body: map[string]any{"loftId": loft.ID, "ringNumber": "BE-2024-001", "sex": "MALE"}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, r, call{method: http.MethodPost, path: "/birds", token: s.AccessToken,
		body: map[string]any{"loftId": loft.ID, "ringNumber": "BE-2024-001", "sex": "FEMALE"}})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, r, call{method: http.MethodDelete, path: "/lofts/" + loft.ID, token: s.AccessToken})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "loft still has birds", decode[errorResponse](t, w).Error)

	w = do(t, r, call{method: http.MethodGet, path: "/lofts/my-loft", token: s.AccessToken})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"birdCount":1`)

	w = do(t, r, call{method: http.MethodGet, path: "/birds?pageSize=500", token: s.AccessToken})
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[struct {
		Total    int `json:"total"`
		PageSize int `json:"pageSize"`
	}](t, w)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, birds.MaxPageSize, page.PageSize)

	other, _ := register(t, r, "rival@example.com")
	w = do(t, r, call{method: http.MethodGet, path: "/lofts/" + loft.ID, token: other.AccessToken})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskCompletionRoutes(t *testing.T) {
	r := newEngine(t)
	s, _ := register(t, r, "keeper@example.com")

	w := do(t, r, call{method: http.MethodPost, path: "/tasks", token: s.AccessToken, body: map[string]any{
		"title": "Clean loft", "category": "CLEANING", "frequency": "DAILY", "startDate": "2024-01-01",
	}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	task := decode[struct {
		ID string `json:"id"`
	}](t, w)

	for _, notes := range []string{"first", "second"} {
		w = do(t, r, call{method: http.MethodPost, path: "/tasks/complete", token: s.AccessToken, body: map[string]any{
			"taskId": task.ID, "date": "2024-01-06", "notes": notes,
		}})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = do(t, r, call{method: http.MethodGet, path: "/tasks?from=2024-01-05&to=2024-01-07", token: s.AccessToken})
	require.Equal(t, http.StatusOK, w.Code)
	occ := decode[[]struct {
		Date      string `json:"date"`
		Completed bool   `json:"completed"`
		Notes     string `json:"notes"`
	}](t, w)
	require.Len(t, occ, 3)
	assert.Equal(t, "2024-01-06", occ[1].Date)
	assert.True(t, occ[1].Completed)
	assert.Equal(t, "second", occ[1].Notes)
	assert.False(t, occ[0].Completed)

	path := "/tasks/complete?taskId=" + task.ID + "&date=2024-01-06"
	w = do(t, r, call{method: http.MethodDelete, path: path, token: s.AccessToken})
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, r, call{method: http.MethodDelete, path: path, token: s.AccessToken})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, r, call{method: http.MethodDelete, path: "/tasks/complete?taskId=" + task.ID, token: s.AccessToken})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/pratsy91/todo-backend/config"
	"github.com/pratsy91/todo-backend/internal/infrastructure/store"
	"github.com/pratsy91/todo-backend/internal/interface/middleware"
	"github.com/pratsy91/todo-backend/internal/router"
	"github.com/pratsy91/todo-backend/internal/testutil"
	"github.com/pratsy91/todo-backend/pkg/helpers"
	"github.com/pratsy91/todo-backend/pkg/mailer"
	"github.com/pratsy91/todo-backend/pkg/metrics"
	"github.com/pratsy91/todo-backend/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

type testServer struct {
	t      *testing.T
	engine *gin.Engine
	store  *store.Store
}

func newTestServer(t *testing.T, mutate func(*router.Deps)) *testServer {
	t.Helper()
	st := testutil.NewStore(t)
	d := router.Deps{
		Config: &config.Config{
			AppName:        "todo",
			AppURL:         "http://localhost:3000",
			BcryptCost:     testutil.BcryptCost,
			MetricsEnabled: true,
		},
		Logger:  testutil.Logger(),
		Store:   st,
		JWT:     helpers.NewJWTManager(testutil.JWTSecret, 0),
		Metrics: metrics.New("todo"),
	}
	if mutate != nil {
		mutate(&d)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestIDMiddleware())
	reg := router.NewRegistry(r)
	reg.Use(middleware.Metrics(d.Metrics))
	reg.Add(router.BuildModules(d)...)
	reg.RegisterAll()
	return &testServer{t: t, engine: r, store: d.Store}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			if err := json.NewEncoder(&buf).Encode(b); err != nil {
				s.t.Fatalf("encode: %v", err)
			}
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

type userJSON struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
	Password  string `json:"password"`
}

type authJSON struct {
	User  userJSON `json:"user"`
	Token string   `json:"token"`
}

type todoJSON struct {
	ID        string `json:"_id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	User      string `json:"user"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type errorJSON struct {
	Message   string            `json:"message"`
	Error     map[string]string `json:"error"`
	RequestID string            `json:"request_id"`
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func (s *testServer) register(name, email, password string) authJSON {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/users/register", "", map[string]string{"name": name, "email": email, "password": password})
	expectStatus(s.t, rec, http.StatusCreated)
	return decode[authJSON](s.t, rec)
}

func TestTodoLifecycle(t *testing.T) {
	s := newTestServer(t, nil)
	ann := s.register("Ann", "ann@example.com", "password123")
	if ann.Token == "" || ann.User.ID == "" || ann.User.Name != "Ann" || ann.User.CreatedAt == "" {
		t.Fatalf("unexpected register response %+v", ann)
	}
	if ann.User.Password != "" {
		t.Fatal("password must never be serialised")
	}

	rec := s.do(http.MethodPost, "/api/todos", ann.Token, map[string]string{"text": "Buy milk"})
	expectStatus(t, rec, http.StatusCreated)
	created := decode[todoJSON](t, rec)
	if created.Text != "Buy milk" || created.Completed || created.User != ann.User.ID || created.ID == "" {
		t.Fatalf("unexpected todo %+v", created)
	}

	rec = s.do(http.MethodGet, "/api/todos", ann.Token, nil)
	expectStatus(t, rec, http.StatusOK)
	if list := decode[[]todoJSON](t, rec); len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("unexpected list %+v", list)
	}

	rec = s.do(http.MethodPut, "/api/todos/"+created.ID, ann.Token, map[string]bool{"completed": true})
	expectStatus(t, rec, http.StatusOK)
	updated := decode[todoJSON](t, rec)
	if !updated.Completed || updated.Text != "Buy milk" {
		t.Fatalf("unexpected update %+v", updated)
	}

	rec = s.do(http.MethodDelete, "/api/todos/"+created.ID, ann.Token, nil)
	expectStatus(t, rec, http.StatusOK)
	if body := decode[map[string]string](t, rec); body["id"] != created.ID {
		t.Fatalf("unexpected delete body %v", body)
	}

	rec = s.do(http.MethodGet, "/api/todos", ann.Token, nil)
	expectStatus(t, rec, http.StatusOK)
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}

	rec = s.do(http.MethodDelete, "/api/todos/"+created.ID, ann.Token, nil)
	expectStatus(t, rec, http.StatusNotFound)
}

func TestCrossUserAccess(t *testing.T) {
	s := newTestServer(t, nil)
	ann := s.register("Ann", "ann@example.com", "password123")
	bob := s.register("Bob", "bob@example.com", "password123")

	rec := s.do(http.MethodPost, "/api/todos", ann.Token, map[string]string{"text": "Ann's"})
	expectStatus(t, rec, http.StatusCreated)
	todo := decode[todoJSON](t, rec)

	expectStatus(t, s.do(http.MethodPut, "/api/todos/"+todo.ID, bob.Token, map[string]bool{"completed": true}), http.StatusUnauthorized)
	expectStatus(t, s.do(http.MethodDelete, "/api/todos/"+todo.ID, bob.Token, nil), http.StatusUnauthorized)
	expectStatus(t, s.do(http.MethodPut, "/api/todos/"+todo.ID, bob.Token, map[string]string{"text": " "}), http.StatusUnauthorized)
	expectStatus(t, s.do(http.MethodPut, "/api/todos/00000000-0000-4000-8000-000000000000", bob.Token, map[string]string{"text": ""}), http.StatusNotFound)

	rec = s.do(http.MethodGet, "/api/todos", bob.Token, nil)
	expectStatus(t, rec, http.StatusOK)
	if list := decode[[]todoJSON](t, rec); len(list) != 0 {
		t.Fatalf("bob must not see ann's todos: %+v", list)
	}

	rec = s.do(http.MethodGet, "/api/todos", ann.Token, nil)
	list := decode[[]todoJSON](t, rec)
	if len(list) != 1 || list[0].Completed {
		t.Fatalf("ann's todo must be untouched: %+v", list)
	}
}

func TestOwnerCannotBeSetByClient(t *testing.T) {
	s := newTestServer(t, nil)
	ann := s.register("Ann", "ann@example.com", "password123")
	bob := s.register("Bob", "bob@example.com", "password123")

	rec := s.do(http.MethodPost, "/api/todos", ann.Token, map[string]string{"text": "mine", "user": bob.User.ID})
	expectStatus(t, rec, http.StatusCreated)
	todo := decode[todoJSON](t, rec)
	if todo.User != ann.User.ID {
		t.Fatalf("expected owner %s, got %s", ann.User.ID, todo.User)
	}

	rec = s.do(http.MethodPut, "/api/todos/"+todo.ID, ann.Token, map[string]string{"user": bob.User.ID})
	expectStatus(t, rec, http.StatusOK)
	if got := decode[todoJSON](t, rec); got.User != ann.User.ID {
		t.Fatalf("owner changed to %s", got.User)
	}
}

func TestLogin(t *testing.T) {
	s := newTestServer(t, nil)
	ann := s.register("Ann", "ann@example.com", "password123")

	rec := s.do(http.MethodPost, "/api/users/login", "", map[string]string{"email": "ann@example.com", "password": "password123"})
	expectStatus(t, rec, http.StatusOK)
	if got := decode[authJSON](t, rec); got.User.ID != ann.User.ID || got.Token == "" {
		t.Fatalf("unexpected login response %+v", got)
	}

	rec = s.do(http.MethodPost, "/api/users/login", "", map[string]string{"email": "ann@example.com", "password": "wrong-password"})
	expectStatus(t, rec, http.StatusUnauthorized)
	rec = s.do(http.MethodPost, "/api/users/login", "", map[string]string{"email": "nobody@example.com", "password": "password123"})
	expectStatus(t, rec, http.StatusUnauthorized)
	rec = s.do(http.MethodPost, "/api/users/login", "", map[string]string{"email": "ann@example.com"})
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestRegister_Rejections(t *testing.T) {
	s := newTestServer(t, nil)
	s.register("Ann", "ann@example.com", "password123")

	rec := s.do(http.MethodPost, "/api/users/register", "", map[string]string{"name": "Other", "email": "ann@example.com", "password": "password123"})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = s.do(http.MethodPost, "/api/users/register", "", map[string]string{"name": "Bob", "email": "bob@example.com", "password": "123"})
	expectStatus(t, rec, http.StatusBadRequest)
	body := decode[errorJSON](t, rec)
	if body.Error["password"] == "" || body.RequestID == "" {
		t.Fatalf("expected password detail and request id, got %+v", body)
	}

	rec = s.do(http.MethodPost, "/api/users/register", "", map[string]string{"name": "Bob", "email": "bob@example.com", "password": strings.Repeat("x", 73)})
	expectStatus(t, rec, http.StatusBadRequest)
	if got := decode[errorJSON](t, rec).Error["password"]; got != "must be at most 72 characters long" {
		t.Fatalf("unexpected password detail %q", got)
	}

	rec = s.do(http.MethodPost, "/api/users/register", "", `{"name":`)
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestTodoValidation(t *testing.T) {
	s := newTestServer(t, nil)
	ann := s.register("Ann", "ann@example.com", "password123")

	expectStatus(t, s.do(http.MethodPost, "/api/todos", ann.Token, map[string]string{"text": "   "}), http.StatusBadRequest)
	expectStatus(t, s.do(http.MethodPost, "/api/todos", ann.Token, map[string]string{}), http.StatusBadRequest)

	rec := s.do(http.MethodPost, "/api/todos", ann.Token, map[string]string{"text": "ok"})
	todo := decode[todoJSON](t, rec)
	expectStatus(t, s.do(http.MethodPut, "/api/todos/"+todo.ID, ann.Token, map[string]string{"text": " "}), http.StatusBadRequest)
	expectStatus(t, s.do(http.MethodPut, "/api/todos/"+todo.ID, ann.Token, `{"completed":"yes"}`), http.StatusBadRequest)
	expectStatus(t, s.do(http.MethodPut, "/api/todos/not-a-uuid", ann.Token, map[string]bool{"completed": true}), http.StatusNotFound)
	expectStatus(t, s.do(http.MethodDelete, "/api/todos/not-a-uuid", ann.Token, nil), http.StatusNotFound)
}

func TestTodos_RequireToken(t *testing.T) {
	s := newTestServer(t, nil)
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/todos"},
		{http.MethodPost, "/api/todos"},
		{http.MethodPut, "/api/todos/x"},
		{http.MethodDelete, "/api/todos/x"},
		{http.MethodGet, "/api/users/me"},
	} {
		rec := s.do(tc.method, tc.path, "", nil)
		expectStatus(t, rec, http.StatusUnauthorized)
		if rec.Header().Get(middleware.HeaderRequestID) == "" {
			t.Fatalf("%s %s: missing request id header", tc.method, tc.path)
		}
	}
	expectStatus(t, s.do(http.MethodGet, "/api/todos", "not-a-token", nil), http.StatusUnauthorized)
}

func TestMe(t *testing.T) {
	s := newTestServer(t, nil)
	ann := s.register("Ann", "ann@example.com", "password123")

	rec := s.do(http.MethodGet, "/api/users/me", ann.Token, nil)
	expectStatus(t, rec, http.StatusOK)
	if me := decode[userJSON](t, rec); me.ID != ann.User.ID || me.Email != "ann@example.com" {
		t.Fatalf("unexpected profile %+v", me)
	}
}

func TestMe_WithRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	s := newTestServer(t, func(d *router.Deps) { d.Redis = rdb })
	ann := s.register("Ann", "ann@example.com", "password123")

	for i := 0; i < 2; i++ {
		rec := s.do(http.MethodGet, "/api/users/me", ann.Token, nil)
		expectStatus(t, rec, http.StatusOK)
	}
	if !mr.Exists("user:profile:" + ann.User.ID) {
		t.Fatal("expected profile to be cached after GET /me")
	}
}

func TestAuth_DeletedUserRejectedWithRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	path := filepath.Join(t.TempDir(), "auth.db")
	s := newTestServer(t, func(d *router.Deps) {
		d.Redis = rdb
		d.Store = testutil.OpenStore(t, path)
	})
	ann := s.register("Ann", "ann@example.com", "password123")

	expectStatus(t, s.do(http.MethodGet, "/api/users/me", ann.Token, nil), http.StatusOK)
	if !mr.Exists("user:profile:" + ann.User.ID) {
		t.Fatal("expected profile to be cached")
	}

	testutil.DeleteUser(t, path, ann.User.ID)

	for _, p := range []string{"/api/users/me", "/api/todos"} {
		rec := s.do(http.MethodGet, p, ann.Token, nil)
		expectStatus(t, rec, http.StatusUnauthorized)
		if body := decode[errorJSON](t, rec); body.Message != "not authorized, user not found" {
			t.Fatalf("%s: unexpected message %q", p, body.Message)
		}
	}
}

type recordingPublisher struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
}

func (p *recordingPublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if job, ok := body.(mailer.EmailJob); ok {
		p.jobs = append(p.jobs, job)
	}
	return nil
}

func TestRegister_PublishesWelcomeEmail(t *testing.T) {
	pub := &recordingPublisher{}
	s := newTestServer(t, func(d *router.Deps) { d.Publisher = pub })
	s.register("Ann", "ann@example.com", "password123")

	if len(pub.jobs) != 1 || pub.jobs[0].To != "ann@example.com" {
		t.Fatalf("unexpected jobs %+v", pub.jobs)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(http.MethodGet, "/api/health", "", nil)
	expectStatus(t, rec, http.StatusOK)
	if body := decode[map[string]string](t, rec); body["status"] != "ok" {
		t.Fatalf("unexpected health body %v", body)
	}

	s.store.Close()
	expectStatus(t, s.do(http.MethodGet, "/api/health", "", nil), http.StatusServiceUnavailable)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	s.register("Ann", "ann@example.com", "password123")
	expectStatus(t, s.do(http.MethodGet, "/api/nope", "", nil), http.StatusNotFound)

	rec := s.do(http.MethodGet, "/api/metrics", "", nil)
	expectStatus(t, rec, http.StatusOK)
	body := rec.Body.String()
	for _, want := range []string{
		`todo_http_requests_total{method="POST",route="/api/users/register",status="201"} 1`,
		`todo_users_registered_total 1`,
		`todo_http_requests_total{method="GET",route="unmatched",status="404"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}

func TestMetricsEndpoint_Disabled(t *testing.T) {
	s := newTestServer(t, func(d *router.Deps) { d.Config.MetricsEnabled = false })
	expectStatus(t, s.do(http.MethodGet, "/api/metrics", "", nil), http.StatusNotFound)
}

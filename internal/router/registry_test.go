package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/pratsy91/todo-backend/internal/interface/middleware"
	"github.com/pratsy91/todo-backend/internal/router"
)

type pingModule struct{}

func (pingModule) Register(rg *gin.RouterGroup) {
	rg.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
}

func TestRegistry_UseAppliesToModulesAndUnmatched(t *testing.T) {
	var seen []string
	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	r.GET("/outside", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	reg := router.NewRegistry(r)
	reg.Use(func(c *gin.Context) {
		seen = append(seen, c.Request.URL.Path)
		c.Next()
	})
	reg.Add(pingModule{})
	reg.RegisterAll()

	for _, tc := range []struct {
		path string
		want int
	}{
		{"/api/ping", http.StatusOK},
		{"/outside", http.StatusNoContent},
		{"/api/nope", http.StatusNotFound},
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if rec.Code != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.path, tc.want, rec.Code)
		}
	}

	if len(seen) != 2 || seen[0] != "/api/ping" || seen[1] != "/api/nope" {
		t.Fatalf("unexpected middleware calls %v", seen)
	}
}

func TestRegistry_NotFoundIsJSON(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	reg := router.NewRegistry(r)
	reg.RegisterAll()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	body := decode[errorJSON](t, rec)
	if body.Message != "route not found" || body.RequestID == "" {
		t.Fatalf("unexpected body %+v", body)
	}
}

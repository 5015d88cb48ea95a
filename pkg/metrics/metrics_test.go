package metrics_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/pratsy91/todo-backend/pkg/metrics"
)

func TestMetrics_Counters(t *testing.T) {
	m := metrics.New("test")

	m.UserRegistered()
	m.LoginFailed()
	m.LoginFailed()
	m.TodoOp(metrics.OpCreate)
	m.ObserveHTTP("GET", "/api/todos", 200, 5*time.Millisecond)

	if got := testutil.ToFloat64(m.UsersRegistered); got != 1 {
		t.Fatalf("expected 1 registration, got %v", got)
	}
	if got := testutil.ToFloat64(m.LoginFailures); got != 2 {
		t.Fatalf("expected 2 login failures, got %v", got)
	}
	if got := testutil.ToFloat64(m.TodoOperations.WithLabelValues(metrics.OpCreate)); got != 1 {
		t.Fatalf("expected 1 create, got %v", got)
	}
	if got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/todos", "200")); got != 1 {
		t.Fatalf("expected 1 request, got %v", got)
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *metrics.Metrics
	m.UserRegistered()
	m.LoginFailed()
	m.TodoOp(metrics.OpDelete)
	m.ObserveHTTP("GET", "/", 200, time.Millisecond)
}

func TestMetrics_Handler(t *testing.T) {
	m := metrics.New("test")
	m.TodoOp(metrics.OpUpdate)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `test_todo_operations_total{op="update"} 1`) {
		t.Fatalf("expected todo counter in output, got:\n%s", body)
	}
}

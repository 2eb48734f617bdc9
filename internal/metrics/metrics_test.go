package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"restaurant_ordering/internal/models"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareCountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewServerMetrics("test")

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/tables/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tables/7", nil))
	}

	got := testutil.ToFloat64(m.Requests.WithLabelValues("/api/tables/:id", http.MethodGet, "204"))
	if got != 3 {
		t.Fatalf("request counter = %v, want 3", got)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(w.Body.String(), "restaurant_test_http_requests_total") {
		t.Errorf("metrics output missing request counter")
	}
}

func TestSeparateInstancesDoNotCollide(t *testing.T) {
	NewServerMetrics("dup")
	NewServerMetrics("dup")
}

func TestCountingPublisher(t *testing.T) {
	m := NewServerMetrics("events")
	p := m.WrapPublisher(nil)

	for _, ev := range []string{models.EventOrderPlaced, models.EventOrderPlaced, models.EventOrderDeleted} {
		if err := p.PublishOrderEvent(context.Background(), &models.OrderEvent{Type: ev}); err != nil {
			t.Fatalf("PublishOrderEvent: %v", err)
		}
	}
	if got := testutil.ToFloat64(m.Orders.WithLabelValues(models.EventOrderPlaced)); got != 2 {
		t.Errorf("placed = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Orders.WithLabelValues(models.EventOrderDeleted)); got != 1 {
		t.Errorf("deleted = %v, want 1", got)
	}
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"restaurant_ordering/internal/logger"
	"restaurant_ordering/internal/metrics"
	"restaurant_ordering/internal/models"
	"restaurant_ordering/internal/services"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Each fake embeds its interface so only the methods under test need bodies.

type fakeUsers struct {
	services.UserService
	sessions map[string]*services.Session
}

func (f *fakeUsers) Authenticate(_ context.Context, token string) (*services.Session, error) {
	if s, ok := f.sessions[token]; ok {
		return s, nil
	}
	return nil, services.ErrInvalidCredentials
}

func (f *fakeUsers) Login(_ context.Context, username, password string) (string, *models.User, error) {
	if username == "alice" && password == "s3cretpass" {
		return "customer-token", &models.User{ID: 7, Username: "alice"}, nil
	}
	return "", nil, services.ErrInvalidCredentials
}

type fakeOrders struct {
	services.OrderService
	err    error
	orders []models.Order
	placed services.PlaceOrderInput
}

func (f *fakeOrders) PlaceOrder(_ context.Context, actor *services.Session, in services.PlaceOrderInput) (*services.PlaceOrderResult, error) {
	f.placed = in
	if f.err != nil {
		return nil, f.err
	}
	order := &models.Order{ID: 1, Code: "ABCDEFGHJK12", UserID: actor.UserID, Status: models.OrderPending, TotalAmount: decimal.RequireFromString("490")}
	return &services.PlaceOrderResult{Order: order, Notification: services.NotificationResult{Success: true, Message: "confirmation email sent"}}, nil
}

func (f *fakeOrders) ListOrders(context.Context, *services.Session, string, services.Pagination) ([]models.Order, int64, error) {
	return f.orders, int64(len(f.orders)), f.err
}

func (f *fakeOrders) Cancel(_ context.Context, _ *services.Session, id uint) (*models.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Order{ID: id, Status: models.OrderCancelled}, nil
}

func (f *fakeOrders) KitchenQueue(context.Context, *services.Session) ([]models.Order, error) {
	return f.orders, f.err
}

type fakeMenu struct {
	services.MenuService
	items []models.MenuItem
	total int64
	query string
}

func (f *fakeMenu) Search(_ context.Context, q string, _ services.Pagination) ([]models.MenuItem, int64, error) {
	f.query = q
	return f.items, f.total, nil
}

type fakeStaff struct {
	services.StaffService
	staffID uint
	date    string
	shift   services.ShiftInput
}

func (f *fakeStaff) ListShifts(_ context.Context, _ *services.Session, staffID uint, date string) ([]models.Shift, error) {
	f.staffID, f.date = staffID, date
	return []models.Shift{{ID: 1, StaffID: staffID, StartTime: "09:00", EndTime: "17:00", Role: "chef"}}, nil
}

func (f *fakeStaff) CreateShift(_ context.Context, _ *services.Session, in services.ShiftInput) (*models.Shift, error) {
	f.shift = in
	if in.EndTime <= in.StartTime {
		return nil, &services.ValidationError{Fields: map[string]string{"end_time": "shift must end after it starts"}}
	}
	return &models.Shift{ID: 2, StaffID: in.StaffID, StartTime: in.StartTime, EndTime: in.EndTime, Role: in.Role}, nil
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type testServer struct {
	router *gin.Engine
	orders *fakeOrders
	menu   *fakeMenu
	staff  *fakeStaff
}

func newTestServer(checks map[string]Pinger) *testServer {
	users := &fakeUsers{sessions: map[string]*services.Session{
		"customer-token": {UserID: 7, Username: "alice", Role: string(models.Customer)},
		"staff-token":    {UserID: 2, Username: "chef1", Role: string(models.Staff)},
	}}
	orders := &fakeOrders{}
	menu := &fakeMenu{}
	staff := &fakeStaff{}
	svc := Services{Users: users, Orders: orders, Menu: menu, Staff: staff}
	router := NewRouter(svc, checks, metrics.NewServerMetrics("test"), logger.Discard())
	return &testServer{router: router, orders: orders, menu: menu, staff: staff}
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON %q: %v", w.Body.String(), err)
	}
	return body
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(nil)

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"unknown token", "nope", http.StatusUnauthorized},
		{"valid token", "customer-token", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodGet, "/api/orders", tt.token, nil)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestStaffOnly(t *testing.T) {
	s := newTestServer(nil)

	if w := s.do(http.MethodGet, "/api/kitchen/orders", "customer-token", nil); w.Code != http.StatusForbidden {
		t.Errorf("customer status = %d, want 403", w.Code)
	}
	if w := s.do(http.MethodGet, "/api/kitchen/orders", "staff-token", nil); w.Code != http.StatusOK {
		t.Errorf("staff status = %d, want 200", w.Code)
	}
}

func TestLogin(t *testing.T) {
	s := newTestServer(nil)

	w := s.do(http.MethodPost, "/accounts/login", "", map[string]string{"username": "alice", "password": "s3cretpass"})
	if w.Code != http.StatusOK || decode(t, w)["token"] != "customer-token" {
		t.Fatalf("login = %d %s", w.Code, w.Body.String())
	}

	w = s.do(http.MethodPost, "/accounts/login", "", map[string]string{"username": "alice", "password": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad login status = %d, want 401", w.Code)
	}
}

func TestCreateOrder(t *testing.T) {
	s := newTestServer(nil)

	w := s.do(http.MethodPost, "/api/orders", "customer-token", map[string]interface{}{
		"customer_name": "Alice",
		"items":         []map[string]int{{"menu_item_id": 1, "quantity": 2}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	order := body["order"].(map[string]interface{})
	if order["order_code"] != "ABCDEFGHJK12" || order["total_amount"] != "490" {
		t.Errorf("order = %v", order)
	}
	if n := body["notification"].(map[string]interface{}); n["success"] != true {
		t.Errorf("notification = %v", n)
	}
	if len(s.orders.placed.Items) != 1 || s.orders.placed.Items[0].Quantity != 2 {
		t.Errorf("bound input = %+v", s.orders.placed)
	}
}

func TestCreateOrderMalformedBody(t *testing.T) {
	s := newTestServer(nil)

	w := s.do(http.MethodPost, "/api/orders", "customer-token", "{not json")
	if w.Code != http.StatusBadRequest || decode(t, w)["error"] != "Invalid request format" {
		t.Errorf("status = %d body = %s", w.Code, w.Body.String())
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &services.ValidationError{Fields: map[string]string{"items": "at least one item is required"}}, http.StatusBadRequest},
		{"not found", services.ErrNotFound, http.StatusNotFound},
		{"forbidden", services.ErrForbidden, http.StatusForbidden},
		{"transition", fmt.Errorf("%w: completed to cancelled", services.ErrInvalidTransition), http.StatusConflict},
		{"not editable", services.ErrOrderNotEditable, http.StatusConflict},
		{"code space", services.ErrCodeSpaceExhausted, http.StatusServiceUnavailable},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(nil)
			s.orders.err = tt.err

			w := s.do(http.MethodPost, "/api/orders/1/cancel", "customer-token", nil)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.want, w.Body.String())
			}
			body := decode(t, w)
			if tt.want == http.StatusBadRequest {
				fields, ok := body["errors"].(map[string]interface{})
				if !ok || fields["items"] == nil {
					t.Errorf("body = %v, want field errors", body)
				}
			} else if body["error"] == nil {
				t.Errorf("body = %v, want error message", body)
			}
			if tt.want == http.StatusInternalServerError && body["error"] != "internal server error" {
				t.Errorf("internal error leaked: %v", body["error"])
			}
		})
	}
}

func TestInvalidIDIsNotFound(t *testing.T) {
	s := newTestServer(nil)
	for _, path := range []string{"/api/orders/abc/cancel", "/api/orders/0/cancel"} {
		if w := s.do(http.MethodPost, path, "customer-token", nil); w.Code != http.StatusNotFound {
			t.Errorf("%s status = %d, want 404", path, w.Code)
		}
	}
}

func TestSearchPagination(t *testing.T) {
	s := newTestServer(nil)
	s.menu.items = []models.MenuItem{{ID: 2, Name: "Grilled Chicken"}}
	s.menu.total = 5

	w := s.do(http.MethodGet, "/api/menu/search?q=chicken&page=2&page_size=1", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decode(t, w)
	if body["count"] != float64(5) || body["page"] != float64(2) || body["page_size"] != float64(1) {
		t.Errorf("body = %v", body)
	}
	if results, ok := body["results"].([]interface{}); !ok || len(results) != 1 {
		t.Errorf("results = %v", body["results"])
	}
	if s.menu.query != "chicken" {
		t.Errorf("query = %q", s.menu.query)
	}
}

func TestPaginationDefaultsAndClamp(t *testing.T) {
	s := newTestServer(nil)

	body := decode(t, s.do(http.MethodGet, "/api/menu/search", "", nil))
	if body["page"] != float64(1) || body["page_size"] != float64(services.DefaultPageSize) {
		t.Errorf("defaults = %v", body)
	}
	body = decode(t, s.do(http.MethodGet, "/api/menu/search?page_size=1000", "", nil))
	if body["page_size"] != float64(services.MaxPageSize) {
		t.Errorf("clamped page_size = %v", body["page_size"])
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(map[string]Pinger{"database": pinger{}, "redis": pinger{}})
	w := s.do(http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK || decode(t, w)["status"] != "ok" {
		t.Errorf("healthy = %d %s", w.Code, w.Body.String())
	}

	s = newTestServer(map[string]Pinger{"database": pinger{}, "redis": pinger{err: errors.New("down")}})
	w = s.do(http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("degraded status = %d, want 503", w.Code)
	}
	deps := decode(t, w)["dependencies"].(map[string]interface{})
	if deps["redis"] != "down" || deps["database"] != "up" {
		t.Errorf("dependencies = %v", deps)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	s := newTestServer(nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "req-123")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeader); got != "req-123" {
		t.Errorf("request id = %q", got)
	}

	w = s.do(http.MethodGet, "/health", "", nil)
	if w.Header().Get(requestIDHeader) == "" {
		t.Error("request id not generated")
	}
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(nil)
	if w := s.do(http.MethodGet, "/nowhere", "", nil); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestShiftRoutes(t *testing.T) {
	s := newTestServer(nil)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   interface{}
		want   int
	}{
		{"customer listing", http.MethodGet, "/api/staff/shifts", "customer-token", nil, http.StatusForbidden},
		{"staff listing", http.MethodGet, "/api/staff/shifts?staff_id=3&date=2024-05-01", "staff-token", nil, http.StatusOK},
		{"non numeric staff id", http.MethodGet, "/api/staff/shifts?staff_id=chef", "staff-token", nil, http.StatusBadRequest},
		{"schedule", http.MethodPost, "/api/staff/shifts", "staff-token",
			map[string]interface{}{"staff_id": 3, "date": "2024-05-01", "start_time": "09:00", "end_time": "17:00"}, http.StatusCreated},
		{"ends before start", http.MethodPost, "/api/staff/shifts", "staff-token",
			map[string]interface{}{"staff_id": 3, "date": "2024-05-01", "start_time": "17:00", "end_time": "09:00"}, http.StatusBadRequest},
		{"malformed body", http.MethodPost, "/api/staff/shifts", "staff-token", "{", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(tt.method, tt.path, tt.token, tt.body)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.want, w.Body.String())
			}
		})
	}
	if s.staff.staffID != 3 || s.staff.date != "2024-05-01" {
		t.Errorf("list filters = %d %q", s.staff.staffID, s.staff.date)
	}
}

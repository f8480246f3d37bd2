package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/suchimauz/barber-availability-engine/internal/adapters/out/cache"
	"github.com/suchimauz/barber-availability-engine/internal/adapters/out/memory"
	"github.com/suchimauz/barber-availability-engine/internal/config"
	"github.com/suchimauz/barber-availability-engine/internal/core/ports/out"
	"github.com/suchimauz/barber-availability-engine/internal/core/services/availability_service"
	"github.com/suchimauz/barber-availability-engine/internal/core/services/booking_service"
)

type testServer struct {
	router *gin.Engine
	store  *memory.RecordStore
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.App.Version = "test"
	cfg.App.Timezone = "UTC"
	cfg.Auth.BasicClients = config.ParseBasicClients("ui:secret")
	cfg.Cache.Enabled = true
	cfg.Cache.DaysSize = 100
	cfg.Calendar.DefaultDays = 3
	cfg.Calendar.MaxDays = 31
	cfg.Booking.DebounceWindow = time.Minute
	cfg.Booking.DebounceSize = 100

	dayCache, err := cache.NewCacheAdapter(cfg, out.NopLogger{})
	if err != nil {
		t.Fatalf("cache: %v", err)
	}
	store := memory.NewRecordStore(out.NopLogger{})
	availability := availability_service.NewAvailabilityService(store, dayCache, cfg, out.NopLogger{})
	booking := booking_service.NewBookingService(store, availability, cfg, out.NopLogger{})

	controller := NewAvailabilityController(availability, booking, cfg, out.NopLogger{})
	controller.now = func() time.Time { return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC) }

	router := gin.New()
	controller.RegisterRoutes(router)
	return testServer{router: router, store: store}
}

func (s testServer) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.SetBasicAuth("ui", "secret")

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decode %s %s: %v: %s", method, path, err, w.Body.String())
		}
	}
	return w, decoded
}

func TestHealthAndAuth(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected health without auth, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/providers/7/days/2025-06-01/slots", nil)
	req.SetBasicAuth("ui", "wrong")
	s.router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestBookingFlow(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(t, http.MethodPost, "/api/v1/providers/7/days/2025-06-01/slots", `{"startTime":"09:00","durationMinutes":30}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("add slot: %d %v", w.Code, body)
	}
	if w.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected request id header")
	}
	s.do(t, http.MethodPost, "/api/v1/providers/7/days/2025-06-01/slots", `{"startTime":"09:30","durationMinutes":30}`)

	w, body = s.do(t, http.MethodPost, "/api/v1/providers/7/days/2025-06-01/appointments", `{"startTime":"09:00","clientId":"c1","serviceId":"haircut","confirm":true}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("book: %d %v", w.Code, body)
	}
	appointment := body["appointment"].(map[string]interface{})
	if appointment["status"] != "confirmed" {
		t.Fatalf("unexpected appointment %v", appointment)
	}
	day := body["day"].(map[string]interface{})
	if day["status"] != "available" {
		t.Fatalf("unexpected day %v", day)
	}

	w, body = s.do(t, http.MethodGet, "/api/v1/providers/7/days/2025-06-01/slots?debug=true", "")
	if w.Code != http.StatusOK {
		t.Fatalf("get slots: %d %v", w.Code, body)
	}
	slots := body["slots"].([]interface{})
	first := slots[0].(map[string]interface{})
	if len(slots) != 2 || first["status"] != "booked" || first["startTime"] != "09:00" || first["clientLabel"] != "c1" {
		t.Fatalf("unexpected slots %v", slots)
	}
	if _, ok := body["debug"]; !ok {
		t.Fatalf("expected debug trace in response")
	}

	w, body = s.do(t, http.MethodPost, "/api/v1/providers/7/days/2025-06-01/appointments", `{"startTime":"09:00","walkInName":"Ivan","serviceId":"haircut"}`)
	if w.Code != http.StatusConflict || body["code"] != "SLOT_NOT_AVAILABLE" {
		t.Fatalf("expected 409 SLOT_NOT_AVAILABLE, got %d %v", w.Code, body)
	}

	w, body = s.do(t, http.MethodPost, "/api/v1/appointments/"+appointment["id"].(string)+"/cancel", "")
	if w.Code != http.StatusOK {
		t.Fatalf("cancel: %d %v", w.Code, body)
	}
	w, body = s.do(t, http.MethodPost, "/api/v1/appointments/"+appointment["id"].(string)+"/complete", "")
	if w.Code != http.StatusConflict || body["code"] != "ALREADY_TERMINAL" {
		t.Fatalf("expected 409 ALREADY_TERMINAL, got %d %v", w.Code, body)
	}

	w, body = s.do(t, http.MethodPost, "/api/v1/providers/7/days/2025-06-01/blocks", `{"fullDay":true,"reason":"vacation"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("block: %d %v", w.Code, body)
	}
	w, body = s.do(t, http.MethodGet, "/api/v1/providers/7/days/2025-06-01/status", "")
	if w.Code != http.StatusOK || body["status"] != "unavailable" {
		t.Fatalf("expected unavailable day, got %d %v", w.Code, body)
	}

	w, body = s.do(t, http.MethodDelete, "/api/v1/blocks/missing", "")
	if w.Code != http.StatusNotFound || body["code"] != "NOT_FOUND" {
		t.Fatalf("expected 404, got %d %v", w.Code, body)
	}
}

func TestBadRequests(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		method string
		path   string
		body   string
		code   string
	}{
		{http.MethodGet, "/api/v1/providers/7/days/June/slots", "", "BAD_REQUEST"},
		{http.MethodPost, "/api/v1/providers/7/days/2025-06-01/slots", `{"startTime":"9am","durationMinutes":30}`, "BAD_REQUEST"},
		{http.MethodPost, "/api/v1/providers/7/days/2025-06-01/slots", `{"durationMinutes":30}`, "BAD_REQUEST"},
		{http.MethodPost, "/api/v1/providers/7/days/2025-06-01/slots", `{"startTime":"23:45","durationMinutes":30}`, "INVALID_RANGE"},
		{http.MethodPost, "/api/v1/providers/7/days/2025-06-01/appointments", `{"startTime":"09:00","serviceId":"haircut"}`, "INVALID_BOOKING"},
		{http.MethodPost, "/api/v1/providers/7/days/2025-06-01/blocks", `{"reason":"nothing"}`, "INVALID_RANGE"},
		{http.MethodGet, "/api/v1/providers/7/calendar?from=2025-06-10&to=2025-06-01", "", "INVALID_RANGE"},
	}

	for _, tt := range tests {
		w, body := s.do(t, tt.method, tt.path, tt.body)
		if w.Code != http.StatusBadRequest || body["code"] != tt.code {
			t.Errorf("%s %s: expected 400 %s, got %d %v", tt.method, tt.path, tt.code, w.Code, body)
		}
	}
}

func TestCalendar(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/v1/providers/7/days/2025-06-02/slots", `{"startTime":"09:00","durationMinutes":30}`)

	w, body := s.do(t, http.MethodGet, "/api/v1/providers/7/calendar", "")
	if w.Code != http.StatusOK {
		t.Fatalf("calendar: %d %v", w.Code, body)
	}
	if body["from"] != "2025-06-01" || body["to"] != "2025-06-03" {
		t.Fatalf("unexpected default range %v..%v", body["from"], body["to"])
	}
	days := body["days"].(map[string]interface{})
	if len(days) != 3 || days["2025-06-01"] != "unavailable" || days["2025-06-02"] != "available" {
		t.Fatalf("unexpected days %v", days)
	}

	// 2025-06-04 среда, неделя начинается с понедельника 2025-06-02
	w, body = s.do(t, http.MethodGet, "/api/v1/providers/7/calendar?week=2025-06-04", "")
	if w.Code != http.StatusOK || body["from"] != "2025-06-02" || body["to"] != "2025-06-08" {
		t.Fatalf("unexpected week range: %d %v", w.Code, body)
	}
}

func TestTransportErrorIsRetryable(t *testing.T) {
	s := newTestServer(t)
	s.store.FailNext = errors.New("connection reset")

	w, body := s.do(t, http.MethodGet, "/api/v1/providers/7/days/2025-06-01/status", "")
	if w.Code != http.StatusBadGateway || body["code"] != "TRANSPORT_ERROR" || body["retryable"] != true {
		t.Fatalf("expected retryable 502, got %d %v", w.Code, body)
	}
}

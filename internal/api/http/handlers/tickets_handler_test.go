package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/support-agent/internal/api/http"
	"github.com/spec-kit/support-agent/internal/api/http/handlers"
	"github.com/spec-kit/support-agent/internal/auth"
	"github.com/spec-kit/support-agent/internal/events"
	"github.com/spec-kit/support-agent/internal/observability"
	"github.com/spec-kit/support-agent/internal/persistence"
	"github.com/spec-kit/support-agent/internal/repository"
	"github.com/spec-kit/support-agent/internal/service"
)

type noopEnqueuer struct{}

func (noopEnqueuer) Enqueue(string) {}

func newTestApp() *fiber.App {
	logger := zap.NewNop()
	repo := repository.NewMemoryTicketRepository()

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: repo,
		Dispatcher: events.NewInMemoryDispatcher(),
		Enqueuer:   noopEnqueuer{},
		Logger:     logger,
	})

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, observability.NewMetrics(), 0)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler("support-agent", "test", &persistence.Postgres{}, &persistence.Redis{}),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		AuthMiddleware: auth.NewMiddleware(nil, false),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return resp, decoded
}

func TestCreateTicketAccepted(t *testing.T) {
	app := newTestApp()

	resp, body := doJSON(t, app, http.MethodPost, "/tickets/",
		`{"ticket_id":"TICKET-1","customer_id":"C1001","description":"my order never arrived","received_date":"2026-08-30T10:00:00Z"}`)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", resp.StatusCode)
	}

	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("body = %v, want data envelope", body)
	}
	if data["ticket_id"] != "TICKET-1" {
		t.Errorf("ticket_id = %v", data["ticket_id"])
	}
	if data["status"] != "received" {
		t.Errorf("status = %v, want received", data["status"])
	}
}

func TestCreateTicketValidationEnvelope(t *testing.T) {
	app := newTestApp()

	resp, body := doJSON(t, app, http.MethodPost, "/tickets/",
		`{"ticket_id":"","customer_id":"C1001","description":"broken","received_date":"2026-08-30T10:00:00Z"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	errBody, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("body = %v, want error envelope", body)
	}
	if errBody["code"] != "VALIDATION_FAILED" {
		t.Errorf("code = %v, want VALIDATION_FAILED", errBody["code"])
	}
}

func TestCreateTicketDuplicateConflict(t *testing.T) {
	app := newTestApp()
	payload := `{"ticket_id":"TICKET-1","customer_id":"C1001","description":"damaged item","received_date":"2026-08-30T10:00:00Z"}`

	if resp, _ := doJSON(t, app, http.MethodPost, "/tickets/", payload); resp.StatusCode != http.StatusAccepted {
		t.Fatalf("first create status = %d", resp.StatusCode)
	}
	resp, body := doJSON(t, app, http.MethodPost, "/tickets/", payload)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}
	errBody := body["error"].(map[string]any)
	if errBody["code"] != "CONFLICT" {
		t.Errorf("code = %v, want CONFLICT", errBody["code"])
	}
}

func TestGetTicketNotFound(t *testing.T) {
	app := newTestApp()

	resp, body := doJSON(t, app, http.MethodGet, "/tickets/missing", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	errBody := body["error"].(map[string]any)
	if errBody["code"] != "NOT_FOUND" {
		t.Errorf("code = %v, want NOT_FOUND", errBody["code"])
	}
}

func TestGetTicketDetail(t *testing.T) {
	app := newTestApp()

	doJSON(t, app, http.MethodPost, "/tickets/",
		`{"ticket_id":"TICKET-1","customer_id":"C1001","description":"wrong item","received_date":"2026-08-30T10:00:00Z"}`)

	resp, body := doJSON(t, app, http.MethodGet, "/tickets/TICKET-1", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	data := body["data"].(map[string]any)
	if data["id"] != "TICKET-1" {
		t.Errorf("id = %v", data["id"])
	}
	if data["response"] != nil {
		t.Errorf("response = %v, want null before resolution", data["response"])
	}
	if _, ok := data["trace"].([]any); !ok {
		t.Errorf("trace = %v, want array", data["trace"])
	}
}

func TestListTickets(t *testing.T) {
	app := newTestApp()

	doJSON(t, app, http.MethodPost, "/tickets/",
		`{"ticket_id":"TICKET-1","customer_id":"C1001","description":"late delivery","received_date":"2026-08-30T10:00:00Z"}`)
	doJSON(t, app, http.MethodPost, "/tickets/",
		`{"ticket_id":"TICKET-2","customer_id":"C1002","description":"refund request","received_date":"2026-08-30T11:00:00Z"}`)

	resp, body := doJSON(t, app, http.MethodGet, "/tickets/", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	items, ok := body["data"].([]any)
	if !ok || len(items) != 2 {
		t.Fatalf("data = %v, want two tickets", body["data"])
	}
}

func TestHealthLive(t *testing.T) {
	app := newTestApp()

	resp, body := doJSON(t, app, http.MethodGet, "/health/live", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body["status"] != "alive" {
		t.Errorf("status = %v, want alive", body["status"])
	}
}

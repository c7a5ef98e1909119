package observation

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/vetfhir/vetfhir/internal/platform/fhir"
	"github.com/vetfhir/vetfhir/internal/platform/middleware"
)

func newTestHandler() (*Handler, *echo.Echo) {
	e := echo.New()
	e.Validator = middleware.NewRequestValidator()
	return NewHandler(), e
}

func postJSON(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandler_Feedback(t *testing.T) {
	h, e := newTestHandler()
	c, rec := postJSON(e, `{"petId":"p1","doctorId":"d1","rating":4,"feedback":"Great","meetingId":"m1"}`)

	if err := h.Feedback(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var r Resource
	json.Unmarshal(rec.Body.Bytes(), &r)
	if *r.ValueInteger != 4 || r.Note[0].Text != "Great" {
		t.Errorf("unexpected observation: %+v", r)
	}
}

func TestHandler_Feedback_RatingOutOfRange(t *testing.T) {
	h, e := newTestHandler()
	c, rec := postJSON(e, `{"petId":"p1","doctorId":"d1","rating":9}`)

	if err := h.Feedback(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	var oo fhir.OperationOutcome
	json.Unmarshal(rec.Body.Bytes(), &oo)
	if len(oo.Issue) != 1 || oo.Issue[0].Expression[0] != "rating" {
		t.Errorf("unexpected outcome: %+v", oo)
	}
}

func TestHandler_Duty(t *testing.T) {
	h, e := newTestHandler()
	c, rec := postJSON(e, `{"petId":"p1","rating":2,"comment":"Stiff","isSynced":true}`)

	if err := h.Duty(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"unit":"stars"`) {
		t.Errorf("expected rating component: %s", rec.Body.String())
	}
}

func TestHandler_FromFHIR_NotFound(t *testing.T) {
	h, e := newTestHandler()
	c, rec := postJSON(e, `[]`)

	if err := h.FromFHIR(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Feedback not found") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestHandler_FromFHIR_MalformedInput(t *testing.T) {
	h, e := newTestHandler()
	for _, body := range []string{`{"resourceType":"Observation"}`, `not json`} {
		c, rec := postJSON(e, body)
		if err := h.FromFHIR(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", body, rec.Code)
		}
		if strings.TrimSpace(rec.Body.String()) != "[]" {
			t.Errorf("%s: expected an empty list, got %s", body, rec.Body.String())
		}
	}
}

func TestHandler_FromFHIR(t *testing.T) {
	h, e := newTestHandler()
	c, rec := postJSON(e, `[{"resource":{"resourceType":"Observation","id":"o1","status":"final","code":{},"valueInteger":3}}]`)

	if err := h.FromFHIR(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var items []FeedbackItem
	json.Unmarshal(rec.Body.Bytes(), &items)
	if len(items) != 1 || items[0].Rating != 3 {
		t.Errorf("unexpected items: %+v", items)
	}
}

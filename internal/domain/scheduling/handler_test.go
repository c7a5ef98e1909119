package scheduling

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vetfhir/vetfhir/internal/platform/fhir"
	"github.com/vetfhir/vetfhir/internal/platform/middleware"
)

func newTestHandler() (*Handler, *echo.Echo) {
	e := echo.New()
	e.Validator = middleware.NewRequestValidator()
	return NewHandler(NewService(seededRepo(), time.UTC), time.UTC), e
}

func postJSON(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func getSlots(e *echo.Echo, query string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/fhir/Slot?"+query, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

type bundleBody struct {
	ResourceType string `json:"resourceType"`
	Type         string `json:"type"`
	Total        int    `json:"total"`
	TotalCount   int    `json:"totalCount"`
	HasMore      bool   `json:"hasMore"`
	Link         []struct {
		Relation string `json:"relation"`
		URL      string `json:"url"`
	} `json:"link"`
	Entry []struct {
		Resource Resource `json:"resource"`
	} `json:"entry"`
}

func TestHandler_ToFHIR(t *testing.T) {
	h, e := newTestHandler()
	body := `{"doctorId":"d1","slots":[{"_id":"s1","date":"2025-04-10","time":"11:00 AM"},{"_id":"s2","date":"2025-04-10","time":"11:30 AM"}],"bookedAppointments":[{"slotsId":"s2"}]}`
	c, rec := postJSON(e, body)

	if err := h.ToFHIR(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var b bundleBody
	if err := json.Unmarshal(rec.Body.Bytes(), &b); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b.Type != fhir.BundleTypeCollection || b.Total != 2 {
		t.Errorf("unexpected bundle: type=%s total=%d", b.Type, b.Total)
	}
	if b.Entry[0].Resource.IsBooked != "false" || b.Entry[1].Resource.IsBooked != "true" {
		t.Errorf("isBooked = %q, %q", b.Entry[0].Resource.IsBooked, b.Entry[1].Resource.IsBooked)
	}
}

func TestHandler_ToFHIR_NumericSlotID(t *testing.T) {
	h, e := newTestHandler()
	body := `{"doctorId":"d1","slots":[{"_id":101,"date":"2025-04-10","time":"11:00 AM"}],"bookedAppointments":[{"slotsId":101}]}`
	c, rec := postJSON(e, body)

	if err := h.ToFHIR(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var b bundleBody
	if err := json.Unmarshal(rec.Body.Bytes(), &b); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(b.Entry) != 1 || b.Entry[0].Resource.ID != "101" || b.Entry[0].Resource.IsBooked != "true" {
		t.Errorf("unexpected slot: %+v", b.Entry)
	}
}

func TestHandler_ToFHIR_MissingDoctor(t *testing.T) {
	h, e := newTestHandler()
	c, rec := postJSON(e, `{"slots":[]}`)
	if err := h.ToFHIR(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandler_ToFHIR_InvalidSlot(t *testing.T) {
	h, e := newTestHandler()
	c, rec := postJSON(e, `{"doctorId":"d1","slots":[{"date":"2025-04-10","time":"11:00 AM"}]}`)
	if err := h.ToFHIR(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for slot without id, got %d", rec.Code)
	}
}

func TestHandler_SearchSlotsFHIR(t *testing.T) {
	h, e := newTestHandler()
	c, rec := getSlots(e, "doctorId=d1&date=2025-04-10&page=1&limit=2")

	if err := h.SearchSlotsFHIR(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var b bundleBody
	if err := json.Unmarshal(rec.Body.Bytes(), &b); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b.Type != fhir.BundleTypeSearchset {
		t.Errorf("type = %s", b.Type)
	}
	if b.Total != 2 || b.TotalCount != 3 || !b.HasMore {
		t.Errorf("total=%d totalCount=%d hasMore=%v", b.Total, b.TotalCount, b.HasMore)
	}
	if len(b.Link) != 2 {
		t.Fatalf("expected self and next links, got %+v", b.Link)
	}
	if b.Link[1].Relation != "next" || !strings.Contains(b.Link[1].URL, "page=2") {
		t.Errorf("unexpected next link: %+v", b.Link[1])
	}
	if !strings.Contains(b.Link[0].URL, "doctorId=d1") {
		t.Errorf("self link should keep the search parameters: %s", b.Link[0].URL)
	}
}

func TestHandler_SearchSlotsFHIR_BadParams(t *testing.T) {
	h, e := newTestHandler()
	for _, q := range []string{"date=2025-04-10", "doctorId=d1", "doctorId=d1&date=10-04-2025"} {
		c, rec := getSlots(e, q)
		if err := h.SearchSlotsFHIR(c); err != nil {
			t.Fatalf("%s: unexpected error: %v", q, err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", q, rec.Code)
		}
	}
}

func TestHandler_RegisterRoutes_WithoutService(t *testing.T) {
	e := echo.New()
	h := NewHandler(nil, nil)
	h.RegisterRoutes(e.Group("/api/v1/convert"), e.Group("/fhir"))

	for _, r := range e.Routes() {
		if r.Path == "/fhir/Slot" {
			t.Error("slot search should not be registered without a repository")
		}
	}
}

func TestHandler_SearchSlotsFHIR_BaseURL(t *testing.T) {
	h, e := newTestHandler()
	h.SetBaseURL("https://api.vetfhir.test/")
	c, rec := getSlots(e, "doctorId=d1&date=2025-04-10&limit=5")

	if err := h.SearchSlotsFHIR(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var b bundleBody
	if err := json.Unmarshal(rec.Body.Bytes(), &b); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(b.Link) != 1 {
		t.Fatalf("expected only a self link, got %+v", b.Link)
	}
	want := "https://api.vetfhir.test/fhir/Slot?date=2025-04-10&doctorId=d1&page=1&limit=5"
	if b.Link[0].URL != want {
		t.Errorf("self link = %s, want %s", b.Link[0].URL, want)
	}
}

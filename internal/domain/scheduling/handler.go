package scheduling

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/vetfhir/vetfhir/internal/platform/fhir"
	"github.com/vetfhir/vetfhir/pkg/pagination"
)

// SlotRequest carries a doctor's slots and the bookings that may hold them.
type SlotRequest struct {
	DoctorID           string              `json:"doctorId" validate:"required"`
	Slots              []Slot              `json:"slots" validate:"dive"`
	BookedAppointments []BookedAppointment `json:"bookedAppointments"`
}

type Handler struct {
	svc     *Service
	loc     *time.Location
	baseURL string
}

// NewHandler builds the slot handler. svc may be nil when no database is
// configured; only the conversion route is served then.
func NewHandler(svc *Service, loc *time.Location) *Handler {
	if loc == nil {
		loc = DefaultLocation()
	}
	return &Handler{svc: svc, loc: loc}
}

// SetBaseURL prefixes search bundle links, e.g. "https://api.example.org".
func (h *Handler) SetBaseURL(u string) { h.baseURL = strings.TrimRight(u, "/") }

func (h *Handler) RegisterRoutes(convert *echo.Group, fhirGroup *echo.Group) {
	convert.POST("/slots/to-fhir", h.ToFHIR)
	if h.svc != nil && fhirGroup != nil {
		fhirGroup.GET("/Slot", h.SearchSlotsFHIR)
	}
}

func (h *Handler) ToFHIR(c echo.Context) error {
	var req SlotRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, fhir.ErrorOutcome(err.Error()))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, fhir.ConversionOutcome(err))
	}
	resources := make([]interface{}, len(req.Slots))
	for i, sl := range req.Slots {
		resources[i] = CreateFHIRSlot(sl, req.DoctorID, req.BookedAppointments, h.loc)
	}
	return c.JSON(http.StatusOK, fhir.ToBundle(resources, fhir.BundleTypeCollection, nil))
}

func (h *Handler) SearchSlotsFHIR(c echo.Context) error {
	doctorID := strings.TrimSpace(c.QueryParam("doctorId"))
	if doctorID == "" {
		return c.JSON(http.StatusBadRequest, fhir.ConversionOutcome(fhir.MissingField("doctorId")))
	}
	date := strings.TrimSpace(c.QueryParam("date"))
	if date == "" {
		return c.JSON(http.StatusBadRequest, fhir.ConversionOutcome(fhir.MissingField("date")))
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return c.JSON(http.StatusBadRequest, fhir.ConversionOutcome(&fhir.ConversionError{
			Field:  "date",
			Reason: fhir.ReasonInvalid,
			Detail: "expected YYYY-MM-DD, got " + date,
		}))
	}

	pg := pagination.FromContext(c)
	ctx := c.Request().Context()
	items, total, err := h.svc.SearchSlots(ctx, doctorID, date, pg)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("doctor_id", doctorID).Msg("search slots")
		return c.JSON(http.StatusInternalServerError,
			fhir.NewOperationOutcome(fhir.IssueSeverityError, fhir.IssueTypeException, "failed to search slots"))
	}

	resources := make([]interface{}, len(items))
	for i, item := range items {
		resources[i] = item
	}
	query := url.Values{"doctorId": {doctorID}, "date": {date}}
	return c.JSON(http.StatusOK, fhir.ToBundle(resources, fhir.BundleTypeSearchset, &fhir.Pagination{
		Page:       pg.Page,
		Limit:      pg.Limit,
		TotalCount: total,
		BaseURL:    h.baseURL + c.Request().URL.Path + "?" + query.Encode(),
	}))
}

package appointment

import (
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vetfhir/vetfhir/internal/platform/fhir"
)

type Handler struct {
	displayLoc *time.Location
}

// NewHandler creates the appointment conversion handler. displayLoc controls
// the zone list rows are rendered in; nil keeps each start's own offset.
func NewHandler(displayLoc *time.Location) *Handler {
	return &Handler{displayLoc: displayLoc}
}

func (h *Handler) RegisterRoutes(convert *echo.Group) {
	convert.POST("/appointments/to-fhir", h.ToFHIR)
	convert.POST("/appointments/monthly-slot-request", h.MonthlySlotRequest)
	convert.POST("/appointments/from-fhir", h.FromFHIR)
	convert.POST("/appointments/from-fhir-resource", h.FromFHIRResource)
}

func (h *Handler) ToFHIR(c echo.Context) error {
	var a Appointment
	if err := c.Bind(&a); err != nil {
		return c.JSON(http.StatusBadRequest, fhir.ErrorOutcome(err.Error()))
	}
	if err := c.Validate(&a); err != nil {
		return c.JSON(http.StatusBadRequest, fhir.ConversionOutcome(err))
	}
	return c.JSON(http.StatusOK, a.ToFHIR())
}

func (h *Handler) MonthlySlotRequest(c echo.Context) error {
	var m MonthlySlotRequest
	if err := c.Bind(&m); err != nil {
		return c.JSON(http.StatusBadRequest, fhir.ErrorOutcome(err.Error()))
	}
	if err := c.Validate(&m); err != nil {
		return c.JSON(http.StatusBadRequest, fhir.ConversionOutcome(err))
	}
	return c.JSON(http.StatusOK, m.ToFHIR())
}

// FromFHIR accepts a JSON array of Appointment bundle entries and answers
// with list rows. Malformed input yields an empty list, not an error.
func (h *Handler) FromFHIR(c echo.Context) error {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, fhir.ErrorOutcome(err.Error()))
	}
	return c.JSON(http.StatusOK, ListFromFHIR(c.Request().Context(), raw, h.displayLoc))
}

// FromFHIRResource converts a single Appointment back into the booking record.
func (h *Handler) FromFHIRResource(c echo.Context) error {
	var r Resource
	if err := c.Bind(&r); err != nil {
		return c.JSON(http.StatusBadRequest, fhir.ErrorOutcome(err.Error()))
	}
	if r.ResourceType != "Appointment" {
		return c.JSON(http.StatusBadRequest, fhir.ConversionOutcome(fhir.UnsupportedResourceType(r.ResourceType, "Appointment")))
	}
	return c.JSON(http.StatusOK, FromFHIR(&r))
}

package observation

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vetfhir/vetfhir/internal/platform/fhir"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(convert *echo.Group) {
	convert.POST("/observations/feedback", h.Feedback)
	convert.POST("/observations/duty", h.Duty)
	convert.POST("/observations/from-fhir", h.FromFHIR)
}

func (h *Handler) Feedback(c echo.Context) error {
	var f Feedback
	if err := c.Bind(&f); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorOutcome(err.Error()))
	}
	if err := c.Validate(&f); err != nil {
		return c.JSON(http.StatusBadRequest, fhir.ConversionOutcome(err))
	}
	return c.JSON(http.StatusOK, ToObservationResource(&f))
}

func (h *Handler) Duty(c echo.Context) error {
	var d DutyObservation
	if err := c.Bind(&d); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorOutcome(err.Error()))
	}
	if err := c.Validate(&d); err != nil {
		return c.JSON(http.StatusBadRequest, fhir.ConversionOutcome(err))
	}
	return c.JSON(http.StatusOK, CreateObservation(&d))
}

// FromFHIR answers 404 with FeedbackNotFoundOutcome when a well-formed entry
// array holds no usable observation. Malformed input is recovered as an
// empty list.
func (h *Handler) FromFHIR(c echo.Context) error {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorOutcome(err.Error()))
	}
	items := TransformObservations(c.Request().Context(), raw)
	if len(items) == 0 {
		if _, err := fhir.DecodeEntries(raw); err == nil {
			return c.JSON(http.StatusNotFound, FeedbackNotFoundOutcome())
		}
	}
	return c.JSON(http.StatusOK, items)
}

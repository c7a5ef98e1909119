package documents

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vetfhir/vetfhir/internal/platform/fhir"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(convert *echo.Group) {
	convert.POST("/documents/to-fhir", h.ToFHIR)
	convert.POST("/documents/from-fhir", h.FromFHIR)
	convert.POST("/documents/medical-record", h.MedicalRecord)
}

func (h *Handler) ToFHIR(c echo.Context) error {
	var d Document
	if err := c.Bind(&d); err != nil {
		return c.JSON(http.StatusBadRequest, fhir.ErrorOutcome(err.Error()))
	}
	if err := c.Validate(&d); err != nil {
		return c.JSON(http.StatusBadRequest, fhir.ConversionOutcome(err))
	}
	return c.JSON(http.StatusOK, d.ToFHIR())
}

func (h *Handler) FromFHIR(c echo.Context) error {
	var r Resource
	if err := c.Bind(&r); err != nil {
		return c.JSON(http.StatusBadRequest, fhir.ErrorOutcome(err.Error()))
	}
	return c.JSON(http.StatusOK, FromFHIR(&r))
}

func (h *Handler) MedicalRecord(c echo.Context) error {
	var r Resource
	if err := c.Bind(&r); err != nil {
		return c.JSON(http.StatusBadRequest, fhir.ErrorOutcome(err.Error()))
	}
	rec, err := MedicalRecordFromFHIR(&r)
	if err != nil {
		return c.JSON(http.StatusBadRequest, fhir.ConversionOutcome(err))
	}
	return c.JSON(http.StatusOK, rec)
}

package immunization

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
	convert.POST("/immunizations/to-fhir", h.ToFHIR)
	convert.POST("/immunizations/from-fhir", h.FromFHIR)
	convert.POST("/immunizations/from-fhir-resource", h.FromFHIRResource)
	convert.POST("/immunizations/validate", h.Validate)
}

func (h *Handler) ToFHIR(c echo.Context) error {
	var v Vaccination
	if err := c.Bind(&v); err != nil {
		return c.JSON(http.StatusBadRequest, fhir.ErrorOutcome(err.Error()))
	}
	if err := c.Validate(&v); err != nil {
		return c.JSON(http.StatusBadRequest, fhir.ConversionOutcome(err))
	}
	return c.JSON(http.StatusOK, v.ToFHIR())
}

// FromFHIR answers with list rows keyed by the FHIR resource id.
func (h *Handler) FromFHIR(c echo.Context) error {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, fhir.ErrorOutcome(err.Error()))
	}
	items := TransformImmunizations(c.Request().Context(), raw, TransformOptions{UseFHIRID: true})
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) FromFHIRResource(c echo.Context) error {
	var r Resource
	if err := c.Bind(&r); err != nil {
		return c.JSON(http.StatusBadRequest, fhir.ErrorOutcome(err.Error()))
	}
	if r.ResourceType != "Immunization" {
		return c.JSON(http.StatusBadRequest, fhir.ConversionOutcome(fhir.UnsupportedResourceType(r.ResourceType, "Immunization")))
	}
	return c.JSON(http.StatusOK, FromFHIR(&r))
}

// Validate reports structural problems in a submitted Immunization. The
// result is the body in both cases; only the status code differs.
func (h *Handler) Validate(c echo.Context) error {
	var data map[string]interface{}
	if err := c.Bind(&data); err != nil {
		return c.JSON(http.StatusBadRequest, fhir.ErrorOutcome(err.Error()))
	}
	res := Validate(data)
	if !res.Valid {
		return c.JSON(http.StatusUnprocessableEntity, res)
	}
	return c.JSON(http.StatusOK, res)
}

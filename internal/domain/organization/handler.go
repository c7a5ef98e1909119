package organization

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
	convert.POST("/organizations/to-fhir", h.ToFHIR)
	convert.POST("/organizations/from-fhir", h.FromFHIR)
}

// ToFHIR answers with a collection Bundle holding the Organization followed
// by its HealthcareServices.
func (h *Handler) ToFHIR(c echo.Context) error {
	var b Business
	if err := c.Bind(&b); err != nil {
		return c.JSON(http.StatusBadRequest, fhir.ErrorOutcome(err.Error()))
	}
	if err := c.Validate(&b); err != nil {
		return c.JSON(http.StatusBadRequest, fhir.ConversionOutcome(err))
	}

	services := ToFHIRHealthcareServices(&b)
	resources := make([]interface{}, 0, len(services)+1)
	resources = append(resources, ToFHIROrganization(&b))
	for _, s := range services {
		resources = append(resources, s)
	}
	return c.JSON(http.StatusOK, fhir.ToBundle(resources, fhir.BundleTypeCollection, nil))
}

func (h *Handler) FromFHIR(c echo.Context) error {
	var r Resource
	if err := c.Bind(&r); err != nil {
		return c.JSON(http.StatusBadRequest, fhir.ErrorOutcome(err.Error()))
	}
	if r.ResourceType != "Organization" {
		return c.JSON(http.StatusBadRequest, fhir.ConversionOutcome(fhir.UnsupportedResourceType(r.ResourceType, "Organization")))
	}
	return c.JSON(http.StatusOK, FromFHIROrganization(&r))
}

package patient

import (
	"bytes"
	"encoding/json"
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
	convert.POST("/pets/to-fhir", h.ToFHIR)
	convert.POST("/pets/from-fhir", h.FromFHIR)
	convert.POST("/pets/list", h.List)
}

// DecodePets reads a single pet object or an array of pets. Numbers are kept
// as json.Number so integer attributes stay integers.
func DecodePets(body []byte) ([]Pet, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var pets []Pet
		if err := dec.Decode(&pets); err != nil {
			return nil, err
		}
		return pets, nil
	}
	var pet Pet
	if err := dec.Decode(&pet); err != nil {
		return nil, err
	}
	return []Pet{pet}, nil
}

// ToFHIR accepts one pet or an array of pets and answers with a collection
// Bundle of Patient resources.
func (h *Handler) ToFHIR(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, fhir.ErrorOutcome(err.Error()))
	}
	pets, err := DecodePets(body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, fhir.ErrorOutcome("invalid pet payload: "+err.Error()))
	}

	for i := range pets {
		if err := c.Validate(&pets[i]); err != nil {
			return c.JSON(http.StatusBadRequest, fhir.ConversionOutcome(err))
		}
	}
	converted := ToFHIRList(pets)
	resources := make([]interface{}, len(converted))
	for i, r := range converted {
		resources[i] = r
	}
	return c.JSON(http.StatusOK, fhir.ToBundle(resources, fhir.BundleTypeCollection, nil))
}

func (h *Handler) FromFHIR(c echo.Context) error {
	var r Resource
	if err := c.Bind(&r); err != nil {
		return c.JSON(http.StatusBadRequest, fhir.ErrorOutcome(err.Error()))
	}
	if r.ResourceType != "Patient" {
		return c.JSON(http.StatusBadRequest, fhir.ConversionOutcome(fhir.UnsupportedResourceType(r.ResourceType, "Patient")))
	}
	return c.JSON(http.StatusOK, FromFHIR(&r))
}

func (h *Handler) List(c echo.Context) error {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, fhir.ErrorOutcome(err.Error()))
	}
	return c.JSON(http.StatusOK, TransformPets(c.Request().Context(), raw))
}

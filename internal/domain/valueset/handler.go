package valueset

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/vetfhir/vetfhir/internal/platform/fhir"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(fhirGroup *echo.Group) {
	fhirGroup.GET("/ValueSet/purpose-of-visit/:hospitalId", h.GetPurposeOfVisit)
}

func (h *Handler) GetPurposeOfVisit(c echo.Context) error {
	hospitalID := strings.TrimSpace(c.Param("hospitalId"))
	if hospitalID == "" {
		return c.JSON(http.StatusBadRequest, fhir.ConversionOutcome(fhir.MissingField("hospitalId")))
	}
	ctx := c.Request().Context()
	// Cache-Control: no-cache forces a reload from the repository.
	if strings.Contains(c.Request().Header.Get(echo.HeaderCacheControl), "no-cache") {
		if err := h.svc.Invalidate(ctx, hospitalID); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("hospital_id", hospitalID).Msg("valueset cache evict failed")
		}
	}
	vs, err := h.svc.PurposeOfVisit(ctx, hospitalID)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("hospital_id", hospitalID).Msg("load purpose of visit")
		return c.JSON(http.StatusInternalServerError,
			fhir.NewOperationOutcome(fhir.IssueSeverityError, fhir.IssueTypeException, "failed to load purpose of visit"))
	}
	return c.JSON(http.StatusOK, vs)
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/dto"
	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/service"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util"
)

// ProfessionalHandler exposes the professional side of the request lifecycle.
type ProfessionalHandler struct {
	requests *service.RequestService
}

// NewProfessionalHandler constructs handler.
func NewProfessionalHandler(requests *service.RequestService) *ProfessionalHandler {
	return &ProfessionalHandler{requests: requests}
}

// List handles GET /professional/requests.
func (h *ProfessionalHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	statuses := parseStatuses(c.Query("status"))
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	requests, err := h.requests.ListForProfessional(c.Context(), principal.Professional, statuses, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewServiceRequestListResponse(requests)})
}

// Accept handles POST /professional/requests/:id/accept.
func (h *ProfessionalHandler) Accept(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	request, err := h.requests.Accept(c.Context(), principal.Professional, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewServiceRequestResponse(request)})
}

// Reject handles POST /professional/requests/:id/reject.
func (h *ProfessionalHandler) Reject(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	request, err := h.requests.Reject(c.Context(), principal.Professional, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewServiceRequestResponse(request)})
}

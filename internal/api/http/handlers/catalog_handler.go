package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/solicitud-service/internal/api/dto"
	"github.com/spec-kit/solicitud-service/internal/domain"
	"github.com/spec-kit/solicitud-service/internal/service"
	apperrors "github.com/spec-kit/solicitud-service/pkg/util/errorutil"
)

// CatalogHandler serves priorities, departments, material types and providers.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// CreatePriority POST /priorities.
func (h *CatalogHandler) CreatePriority(c *fiber.Ctx) error {
	var req dto.PriorityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	priority, err := h.catalog.CreatePriority(c.UserContext(), service.PriorityInput{
		Name:              req.Name,
		Level:             req.Level,
		Description:       req.Description,
		ResponseTimeHours: req.ResponseTimeHours,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": priorityResponse(*priority)})
}

// ListPriorities GET /priorities.
func (h *CatalogHandler) ListPriorities(c *fiber.Ctx) error {
	items, err := h.catalog.ListPriorities(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.PriorityResponse, 0, len(items))
	for _, p := range items {
		resp = append(resp, priorityResponse(p))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// CreateDepartment POST /departments.
func (h *CatalogHandler) CreateDepartment(c *fiber.Ctx) error {
	var req dto.DepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	dept, err := h.catalog.CreateDepartment(c.UserContext(), service.DepartmentInput{
		Name:          req.Name,
		ResponsibleID: req.ResponsibleID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": departmentResponse(*dept)})
}

// ListDepartments GET /departments.
func (h *CatalogHandler) ListDepartments(c *fiber.Ctx) error {
	items, err := h.catalog.ListDepartments(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.DepartmentResponse, 0, len(items))
	for _, d := range items {
		resp = append(resp, departmentResponse(d))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// CreateMaterialType POST /material-types.
func (h *CatalogHandler) CreateMaterialType(c *fiber.Ctx) error {
	var req dto.MaterialTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	mt, err := h.catalog.CreateMaterialType(c.UserContext(), service.MaterialTypeInput{
		Name:        req.Name,
		Description: req.Description,
		Stock:       req.Stock,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": materialTypeResponse(*mt)})
}

// ListMaterialTypes GET /material-types.
func (h *CatalogHandler) ListMaterialTypes(c *fiber.Ctx) error {
	items, err := h.catalog.ListMaterialTypes(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.MaterialTypeResponse, 0, len(items))
	for _, m := range items {
		resp = append(resp, materialTypeResponse(m))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// CreateProvider POST /providers.
func (h *CatalogHandler) CreateProvider(c *fiber.Ctx) error {
	var req dto.ProviderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	provider, err := h.catalog.CreateProvider(c.UserContext(), service.ProviderInput{
		Name:    req.Name,
		Contact: req.Contact,
		Phone:   req.Phone,
		Email:   req.Email,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": providerResponse(*provider)})
}

// ListProviders GET /providers.
func (h *CatalogHandler) ListProviders(c *fiber.Ctx) error {
	items, err := h.catalog.ListProviders(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.ProviderResponse, 0, len(items))
	for _, p := range items {
		resp = append(resp, providerResponse(p))
	}
	return c.JSON(fiber.Map{"data": resp})
}

func priorityResponse(p domain.Priority) dto.PriorityResponse {
	return dto.PriorityResponse{
		ID:                p.ID,
		Name:              p.Name,
		Level:             p.Level,
		Description:       p.Description,
		ResponseTimeHours: p.ResponseTimeHours,
		CreatedAt:         p.CreatedAt,
	}
}

func departmentResponse(d domain.Department) dto.DepartmentResponse {
	return dto.DepartmentResponse{
		ID:            d.ID,
		Name:          d.Name,
		ResponsibleID: d.ResponsibleID,
		IsActive:      d.IsActive,
		CreatedAt:     d.CreatedAt,
	}
}

func materialTypeResponse(m domain.MaterialType) dto.MaterialTypeResponse {
	return dto.MaterialTypeResponse{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Stock:       m.Stock,
		CreatedAt:   m.CreatedAt,
	}
}

func providerResponse(p domain.Provider) dto.ProviderResponse {
	return dto.ProviderResponse{
		ID:        p.ID,
		Name:      p.Name,
		Contact:   p.Contact,
		Phone:     p.Phone,
		Email:     p.Email,
		CreatedAt: p.CreatedAt,
	}
}

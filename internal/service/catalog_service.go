package service

import (
	"context"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/solicitud-service/internal/clock"
	"github.com/spec-kit/solicitud-service/internal/domain"
	"github.com/spec-kit/solicitud-service/internal/repository"
	apperrors "github.com/spec-kit/solicitud-service/pkg/util/errorutil"
)

// CatalogService manages the lookups tickets reference.
type CatalogService struct {
	repo   repository.CatalogRepository
	clock  clock.Clock
	logger *zap.Logger
}

// NewCatalogService constructs the service.
func NewCatalogService(repo repository.CatalogRepository, c clock.Clock, logger *zap.Logger) *CatalogService {
	if c == nil {
		c = clock.System()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{repo: repo, clock: c, logger: logger}
}

// PriorityInput describes a new priority.
type PriorityInput struct {
	Name              string
	Level             int
	Description       string
	ResponseTimeHours int
}

func (s *CatalogService) CreatePriority(ctx context.Context, in PriorityInput) (*domain.Priority, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	if !domain.ValidLevel(in.Level) {
		return nil, apperrors.NewValidationError("level must be between 1 and 5", map[string]any{"level": in.Level})
	}
	if in.ResponseTimeHours < 0 {
		return nil, apperrors.NewValidationError("response_time_hours must not be negative", nil)
	}
	priority := &domain.Priority{
		Name:              name,
		Level:             in.Level,
		Description:       strings.TrimSpace(in.Description),
		ResponseTimeHours: in.ResponseTimeHours,
		CreatedAt:         s.clock.Now(),
	}
	if err := s.repo.CreatePriority(ctx, priority); err != nil {
		return nil, apperrors.FromStore(err, "priority", nil)
	}
	s.logger.Info("priority created", zap.String("priority_id", priority.ID), zap.Int("level", priority.Level))
	return priority, nil
}

func (s *CatalogService) ListPriorities(ctx context.Context) ([]domain.Priority, error) {
	items, err := s.repo.ListPriorities(ctx)
	return items, apperrors.FromStore(err, "priority", nil)
}

// DepartmentInput describes a new department.
type DepartmentInput struct {
	Name          string
	ResponsibleID *string
}

func (s *CatalogService) CreateDepartment(ctx context.Context, in DepartmentInput) (*domain.Department, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	now := s.clock.Now()
	dept := &domain.Department{
		Name:          name,
		ResponsibleID: nonEmpty(in.ResponsibleID),
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.CreateDepartment(ctx, dept); err != nil {
		return nil, apperrors.FromStore(err, "department", nil)
	}
	s.logger.Info("department created", zap.String("department_id", dept.ID))
	return dept, nil
}

func (s *CatalogService) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	items, err := s.repo.ListActiveDepartments(ctx)
	return items, apperrors.FromStore(err, "department", nil)
}

// MaterialTypeInput describes a new material type.
type MaterialTypeInput struct {
	Name        string
	Description string
	Stock       int
}

func (s *CatalogService) CreateMaterialType(ctx context.Context, in MaterialTypeInput) (*domain.MaterialType, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	if in.Stock < 0 {
		return nil, apperrors.NewValidationError("stock must not be negative", nil)
	}
	material := &domain.MaterialType{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Stock:       in.Stock,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.repo.CreateMaterialType(ctx, material); err != nil {
		return nil, apperrors.FromStore(err, "material type", nil)
	}
	return material, nil
}

func (s *CatalogService) ListMaterialTypes(ctx context.Context) ([]domain.MaterialType, error) {
	items, err := s.repo.ListMaterialTypes(ctx)
	return items, apperrors.FromStore(err, "material type", nil)
}

// ProviderInput describes a new provider.
type ProviderInput struct {
	Name    string
	Contact string
	Phone   string
	Email   string
}

func (s *CatalogService) CreateProvider(ctx context.Context, in ProviderInput) (*domain.Provider, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	email := strings.TrimSpace(in.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, apperrors.NewValidationError("invalid email", map[string]any{"email": email})
		}
	}
	provider := &domain.Provider{
		Name:      name,
		Contact:   strings.TrimSpace(in.Contact),
		Phone:     strings.TrimSpace(in.Phone),
		Email:     email,
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.CreateProvider(ctx, provider); err != nil {
		return nil, apperrors.FromStore(err, "provider", nil)
	}
	return provider, nil
}

func (s *CatalogService) ListProviders(ctx context.Context) ([]domain.Provider, error) {
	items, err := s.repo.ListProviders(ctx)
	return items, apperrors.FromStore(err, "provider", nil)
}

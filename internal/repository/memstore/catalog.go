package memstore

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/solicitud-service/internal/domain"
)

func (s *Store) CreatePriority(ctx context.Context, priority *domain.Priority) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	priority.ID = uuid.NewString()
	priority.CreatedAt = s.now()
	s.priorities[priority.ID] = *priority
	return nil
}

func (s *Store) GetPriority(ctx context.Context, id string) (*domain.Priority, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.priorities[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &p, nil
}

func (s *Store) ListPriorities(ctx context.Context) ([]domain.Priority, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Priority, 0, len(s.priorities))
	for _, p := range s.priorities {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Level != out[j].Level {
			return out[i].Level > out[j].Level
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *Store) CreateDepartment(ctx context.Context, dept *domain.Department) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	dept.ID = uuid.NewString()
	dept.CreatedAt = s.now()
	dept.UpdatedAt = dept.CreatedAt
	s.departments[dept.ID] = *dept
	return nil
}

func (s *Store) GetDepartment(ctx context.Context, id string) (*domain.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.departments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &d, nil
}

func (s *Store) ListActiveDepartments(ctx context.Context) ([]domain.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Department, 0, len(s.departments))
	for _, d := range s.departments {
		if d.IsActive {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) CreateMaterialType(ctx context.Context, material *domain.MaterialType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	material.ID = uuid.NewString()
	material.CreatedAt = s.now()
	s.materials[material.ID] = *material
	return nil
}

func (s *Store) GetMaterialType(ctx context.Context, id string) (*domain.MaterialType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.materials[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &m, nil
}

func (s *Store) ListMaterialTypes(ctx context.Context) ([]domain.MaterialType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.MaterialType, 0, len(s.materials))
	for _, m := range s.materials {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) CreateProvider(ctx context.Context, provider *domain.Provider) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	provider.ID = uuid.NewString()
	provider.CreatedAt = s.now()
	s.providers[provider.ID] = *provider
	return nil
}

func (s *Store) GetProvider(ctx context.Context, id string) (*domain.Provider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.providers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &p, nil
}

func (s *Store) ListProviders(ctx context.Context) ([]domain.Provider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Provider, 0, len(s.providers))
	for _, p := range s.providers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/solicitud-service/internal/domain"
)

// CatalogRepository manages the lookup tables referenced by tickets.
type CatalogRepository interface {
	CreatePriority(ctx context.Context, priority *domain.Priority) error
	GetPriority(ctx context.Context, id string) (*domain.Priority, error)
	ListPriorities(ctx context.Context) ([]domain.Priority, error)

	CreateDepartment(ctx context.Context, dept *domain.Department) error
	GetDepartment(ctx context.Context, id string) (*domain.Department, error)
	ListActiveDepartments(ctx context.Context) ([]domain.Department, error)

	CreateMaterialType(ctx context.Context, material *domain.MaterialType) error
	GetMaterialType(ctx context.Context, id string) (*domain.MaterialType, error)
	ListMaterialTypes(ctx context.Context) ([]domain.MaterialType, error)

	CreateProvider(ctx context.Context, provider *domain.Provider) error
	GetProvider(ctx context.Context, id string) (*domain.Provider, error)
	ListProviders(ctx context.Context) ([]domain.Provider, error)
}

type catalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository builds the repository.
func NewCatalogRepository(pool *pgxpool.Pool) CatalogRepository {
	return &catalogRepository{pool: pool}
}

func (r *catalogRepository) CreatePriority(ctx context.Context, priority *domain.Priority) error {
	const query = `
        INSERT INTO priorities (name, level, description, response_time_hours)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		priority.Name,
		priority.Level,
		priority.Description,
		priority.ResponseTimeHours,
	).Scan(&priority.ID, &priority.CreatedAt)
}

func (r *catalogRepository) GetPriority(ctx context.Context, id string) (*domain.Priority, error) {
	const query = `
        SELECT id, name, level, description, response_time_hours, created_at
        FROM priorities WHERE id=$1`
	var p domain.Priority
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Level, &p.Description, &p.ResponseTimeHours, &p.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *catalogRepository) ListPriorities(ctx context.Context) ([]domain.Priority, error) {
	const query = `
        SELECT id, name, level, description, response_time_hours, created_at
        FROM priorities ORDER BY level DESC, name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Priority
	for rows.Next() {
		var p domain.Priority
		if err := rows.Scan(&p.ID, &p.Name, &p.Level, &p.Description, &p.ResponseTimeHours, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *catalogRepository) CreateDepartment(ctx context.Context, dept *domain.Department) error {
	const query = `
        INSERT INTO departments (name, responsible_id, is_active)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		dept.Name,
		dept.ResponsibleID,
		dept.IsActive,
	).Scan(&dept.ID, &dept.CreatedAt, &dept.UpdatedAt)
}

func (r *catalogRepository) GetDepartment(ctx context.Context, id string) (*domain.Department, error) {
	const query = `
        SELECT id, name, responsible_id, is_active, created_at, updated_at
        FROM departments WHERE id=$1`
	var dept domain.Department
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&dept.ID,
		&dept.Name,
		&dept.ResponsibleID,
		&dept.IsActive,
		&dept.CreatedAt,
		&dept.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *catalogRepository) ListActiveDepartments(ctx context.Context) ([]domain.Department, error) {
	const query = `
        SELECT id, name, responsible_id, is_active, created_at, updated_at
        FROM departments WHERE is_active = TRUE ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Department
	for rows.Next() {
		var dept domain.Department
		if err := rows.Scan(&dept.ID, &dept.Name, &dept.ResponsibleID, &dept.IsActive, &dept.CreatedAt, &dept.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, dept)
	}
	return result, rows.Err()
}

func (r *catalogRepository) CreateMaterialType(ctx context.Context, material *domain.MaterialType) error {
	const query = `
        INSERT INTO material_types (name, description, stock)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		material.Name,
		material.Description,
		material.Stock,
	).Scan(&material.ID, &material.CreatedAt)
}

func (r *catalogRepository) GetMaterialType(ctx context.Context, id string) (*domain.MaterialType, error) {
	const query = `SELECT id, name, description, stock, created_at FROM material_types WHERE id=$1`
	var m domain.MaterialType
	if err := r.pool.QueryRow(ctx, query, id).Scan(&m.ID, &m.Name, &m.Description, &m.Stock, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *catalogRepository) ListMaterialTypes(ctx context.Context) ([]domain.MaterialType, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, description, stock, created_at FROM material_types ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.MaterialType
	for rows.Next() {
		var m domain.MaterialType
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.Stock, &m.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (r *catalogRepository) CreateProvider(ctx context.Context, provider *domain.Provider) error {
	const query = `
        INSERT INTO providers (name, contact, phone, email)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		provider.Name,
		provider.Contact,
		provider.Phone,
		provider.Email,
	).Scan(&provider.ID, &provider.CreatedAt)
}

func (r *catalogRepository) GetProvider(ctx context.Context, id string) (*domain.Provider, error) {
	const query = `SELECT id, name, contact, phone, email, created_at FROM providers WHERE id=$1`
	var p domain.Provider
	if err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Contact, &p.Phone, &p.Email, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *catalogRepository) ListProviders(ctx context.Context) ([]domain.Provider, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, contact, phone, email, created_at FROM providers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Provider
	for rows.Next() {
		var p domain.Provider
		if err := rows.Scan(&p.ID, &p.Name, &p.Contact, &p.Phone, &p.Email, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

package repository

import (
	"context"
	"errors"

	"github.com/isabella232/azure-intelligent-edge-patterns/internal/db"
	"github.com/isabella232/azure-intelligent-edge-patterns/internal/domain"
	"github.com/isabella232/azure-intelligent-edge-patterns/internal/ports"
	"github.com/jackc/pgx/v5"
)

type PartRepository struct {
	DB *db.Postgres
}

const partColumns = `id, name, description, is_demo, created_at, updated_at`

func (r PartRepository) List(ctx context.Context, filter ports.PartFilter) ([]domain.Part, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+partColumns+`
		FROM parts
		WHERE ($1::boolean IS NULL OR is_demo = $1)
		ORDER BY name ASC, is_demo DESC
	`, filter.IsDemo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.Part
	for rows.Next() {
		var p domain.Part
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.IsDemo, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r PartRepository) Get(ctx context.Context, id int64) (*domain.Part, error) {
	row := r.DB.Pool.QueryRow(ctx, `SELECT `+partColumns+` FROM parts WHERE id=$1`, id)
	var p domain.Part
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.IsDemo, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Create inserts a user part. The id always comes from parts_id_seq.
func (r PartRepository) Create(ctx context.Context, name, description string) (*domain.Part, error) {
	var out domain.Part
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO parts (name, description, is_demo, created_at, updated_at)
		VALUES ($1, $2, FALSE, now(), now())
		RETURNING `+partColumns+`
	`, name, description).Scan(&out.ID, &out.Name, &out.Description, &out.IsDemo, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		if IsDuplicate(err) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return &out, nil
}

// Update rewrites an existing user part. Demo parts are never matched.
func (r PartRepository) Update(ctx context.Context, id int64, name, description string) (*domain.Part, error) {
	var out domain.Part
	err := r.DB.Pool.QueryRow(ctx, `
		UPDATE parts
		SET name = $2, description = $3, updated_at = now()
		WHERE id = $1 AND NOT is_demo
		RETURNING `+partColumns+`
	`, id, name, description).Scan(&out.ID, &out.Name, &out.Description, &out.IsDemo, &out.CreatedAt, &out.UpdatedAt)
	switch {
	case err == nil:
		return &out, nil
	case errors.Is(err, pgx.ErrNoRows):
		return nil, r.classifyMiss(ctx, id)
	case IsDuplicate(err):
		return nil, ErrDuplicateName
	default:
		return nil, err
	}
}

func (r PartRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.DB.Pool.Exec(ctx, `DELETE FROM parts WHERE id=$1 AND NOT is_demo`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return r.classifyMiss(ctx, id)
	}
	return nil
}

// classifyMiss explains why a user-part write matched no row.
func (r PartRepository) classifyMiss(ctx context.Context, id int64) error {
	p, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if p.IsDemo {
		return ErrDemoPart
	}
	// Deleted between the write and the lookup.
	return ErrNotFound
}

// UpsertDemo inserts the demo part called name, or refreshes its description if it
// already exists. Matching is on (name, is_demo=true) through the parts_demo_name_key index.
func (r PartRepository) UpsertDemo(ctx context.Context, name, description string) (*domain.Part, bool, error) {
	var out domain.Part
	var created bool
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO parts (name, description, is_demo, created_at, updated_at)
		VALUES ($1, $2, TRUE, now(), now())
		ON CONFLICT (name) WHERE is_demo DO UPDATE
			SET description = EXCLUDED.description, updated_at = now()
		RETURNING `+partColumns+`, (xmax = 0) AS inserted
	`, name, description).Scan(&out.ID, &out.Name, &out.Description, &out.IsDemo, &out.CreatedAt, &out.UpdatedAt, &created)
	if err != nil {
		return nil, false, err
	}
	return &out, created, nil
}

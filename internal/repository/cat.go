package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/catsfront/catsfront/internal/model"
)

const catColumns = "id, name, breed, age, weight"

// ListCats returns cats in id order, skipping skip rows and returning at
// most limit.
func (r *Repository) ListCats(ctx context.Context, skip, limit int) ([]model.Cat, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY id OFFSET $1 LIMIT $2`, catColumns, r.table)

	rows, err := r.pool.Query(ctx, query, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list cats: %w", err)
	}

	cats, err := pgx.CollectRows(rows, scanCat)
	if err != nil {
		return nil, fmt.Errorf("failed to scan cats: %w", err)
	}
	if cats == nil {
		cats = []model.Cat{}
	}
	return cats, nil
}

// GetCat retrieves a cat by id.
func (r *Repository) GetCat(ctx context.Context, id int64) (*model.Cat, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, catColumns, r.table)
	return r.queryOne(ctx, "get", query, id)
}

// CreateCat inserts a cat and returns it with its assigned id.
func (r *Repository) CreateCat(ctx context.Context, in model.CatInput) (*model.Cat, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, breed, age, weight)
		VALUES ($1, $2, $3, $4)
		RETURNING %s
	`, r.table, catColumns)
	return r.queryOne(ctx, "create", query, in.Name, in.Breed, in.Age, in.Weight)
}

// UpdateCat replaces the mutable fields of a cat.
func (r *Repository) UpdateCat(ctx context.Context, id int64, in model.CatInput) (*model.Cat, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $2, breed = $3, age = $4, weight = $5, updated_at = now()
		WHERE id = $1
		RETURNING %s
	`, r.table, catColumns)
	return r.queryOne(ctx, "update", query, id, in.Name, in.Breed, in.Age, in.Weight)
}

// DeleteCat removes a cat by id.
func (r *Repository) DeleteCat(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table)

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete cat: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrCatNotFound
	}
	return nil
}

func (r *Repository) queryOne(ctx context.Context, op, query string, args ...any) (*model.Cat, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to %s cat: %w", op, err)
	}

	cat, err := pgx.CollectExactlyOneRow(rows, scanCat)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCatNotFound
		}
		return nil, fmt.Errorf("failed to %s cat: %w", op, err)
	}
	return &cat, nil
}

func scanCat(row pgx.CollectableRow) (model.Cat, error) {
	var c model.Cat
	err := row.Scan(&c.ID, &c.Name, &c.Breed, &c.Age, &c.Weight)
	return c, err
}

// internal/catalog/postgres.go
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"parche-recommender/internal/models"
)

const (
	schemaSQL = `CREATE TABLE IF NOT EXISTS plans (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	category    TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	rating      DOUBLE PRECISION NOT NULL DEFAULT 0,
	tags        TEXT[] NOT NULL DEFAULT '{}',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

	selectColumns = `SELECT id, name, category, description, rating, tags, created_at, updated_at FROM plans`

	listSQL = selectColumns + ` ORDER BY id LIMIT $1`

	getSQL = selectColumns + ` WHERE id = $1`

	insertSQL = `INSERT INTO plans (id, name, category, description, rating, tags)
VALUES ($1, $2, $3, $4, $5, $6)`

	updateSQL = `UPDATE plans SET name = $2, category = $3, description = $4, rating = $5, tags = $6, updated_at = now()
WHERE id = $1`

	upsertSQL = `INSERT INTO plans (id, name, category, description, rating, tags)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, category = EXCLUDED.category,
description = EXCLUDED.description, rating = EXCLUDED.rating, tags = EXCLUDED.tags, updated_at = now()`

	uniqueViolation = "23505"
)

// PostgresRepository stores plans in the "plans" table.
type PostgresRepository struct {
	db       *sql.DB
	maxPlans int
}

func NewPostgresRepository(db *sql.DB, maxPlans int) *PostgresRepository {
	if maxPlans <= 0 {
		maxPlans = 500
	}
	return &PostgresRepository{db: db, maxPlans: maxPlans}
}

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create plans table: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Snapshot(ctx context.Context) ([]models.PlanRecord, error) {
	plans, err := r.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	return plans, nil
}

// List returns every plan ordered by id. One row past maxPlans is read so an
// oversized catalog fails instead of being cut short.
func (r *PostgresRepository) List(ctx context.Context) ([]models.PlanRecord, error) {
	rows, err := r.db.QueryContext(ctx, listSQL, r.maxPlans+1)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	plans := make([]models.PlanRecord, 0)
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plans: %w", err)
	}
	if len(plans) > r.maxPlans {
		return nil, fmt.Errorf("%w: more than %d plans", ErrCatalogTooLarge, r.maxPlans)
	}
	return plans, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (models.PlanRecord, error) {
	p, err := scanPlan(r.db.QueryRowContext(ctx, getSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.PlanRecord{}, fmt.Errorf("%w: %s", ErrPlanNotFound, id)
	}
	return p, err
}

func (r *PostgresRepository) Insert(ctx context.Context, plan models.PlanRecord) error {
	if err := Validate([]models.PlanRecord{plan}); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, insertSQL, planArgs(plan)...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", ErrDuplicatePlan, plan.ID)
		}
		return fmt.Errorf("insert plan %s: %w", plan.ID, err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, plan models.PlanRecord) error {
	if err := Validate([]models.PlanRecord{plan}); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, updateSQL, planArgs(plan)...)
	if err != nil {
		return fmt.Errorf("update plan %s: %w", plan.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update plan %s: %w", plan.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrPlanNotFound, plan.ID)
	}
	return nil
}

// Upsert writes every plan in one transaction.
func (r *PostgresRepository) Upsert(ctx context.Context, plans []models.PlanRecord) error {
	if err := Validate(plans); err != nil {
		return err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertSQL)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range plans {
		if _, err := stmt.ExecContext(ctx, planArgs(p)...); err != nil {
			return fmt.Errorf("upsert plan %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlan(row rowScanner) (models.PlanRecord, error) {
	var (
		p                    models.PlanRecord
		tags                 pq.StringArray
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Description, &p.Rating, &tags, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, err
		}
		return p, fmt.Errorf("scan plan: %w", err)
	}
	p.Tags = []string(tags)
	p.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	p.UpdatedAt = updatedAt.UTC().Format(time.RFC3339)
	return p, nil
}

func planArgs(p models.PlanRecord) []interface{} {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return []interface{}{p.ID, p.Name, p.Category, p.Description, p.Rating, pq.Array(tags)}
}

// internal/catalog/catalog.go

// Package catalog provides read access to the plan catalog and the stores
// that back it.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"parche-recommender/internal/models"
)

var (
	ErrPlanNotFound       = errors.New("PLAN_NOT_FOUND")
	ErrDuplicatePlan      = errors.New("DUPLICATE_PLAN")
	ErrInvalidCatalog     = errors.New("CATALOG_VALIDATION_FAILED")
	ErrCatalogUnavailable = errors.New("CATALOG_UNAVAILABLE")
	ErrCatalogTooLarge    = errors.New("CATALOG_TOO_LARGE")
)

// Snapshotter returns the complete, unpaginated catalog. Implementations
// never return a nil slice on success, and fail with ErrCatalogTooLarge
// rather than return a partial catalog.
type Snapshotter interface {
	Snapshot(ctx context.Context) ([]models.PlanRecord, error)
}

type Repository interface {
	Snapshotter
	Get(ctx context.Context, id string) (models.PlanRecord, error)
	Insert(ctx context.Context, plan models.PlanRecord) error
	Update(ctx context.Context, plan models.PlanRecord) error
	List(ctx context.Context) ([]models.PlanRecord, error)
}

type Logger interface {
	Warn(msg string, fields map[string]interface{})
}

type nopLogger struct{}

func (nopLogger) Warn(string, map[string]interface{}) {}

// Validate checks ids and ratings. Every problem is reported, not just the first.
func Validate(plans []models.PlanRecord) error {
	var problems []string
	seen := make(map[string]struct{}, len(plans))

	for i, p := range plans {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			problems = append(problems, fmt.Sprintf("plan %d: empty id", i))
			continue
		}
		if _, dup := seen[id]; dup {
			problems = append(problems, fmt.Sprintf("plan %d: duplicate id %q", i, id))
		}
		seen[id] = struct{}{}
		if strings.TrimSpace(p.Name) == "" {
			problems = append(problems, fmt.Sprintf("plan %q: empty name", id))
		}
		if p.Rating < 0 || p.Rating > 5 {
			problems = append(problems, fmt.Sprintf("plan %q: rating %.2f outside [0,5]", id, p.Rating))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(problems, "; "))
	}
	return nil
}

func clonePlan(p models.PlanRecord) models.PlanRecord {
	if p.Tags != nil {
		p.Tags = append([]string(nil), p.Tags...)
	}
	return p
}

func clonePlans(plans []models.PlanRecord) []models.PlanRecord {
	out := make([]models.PlanRecord, len(plans))
	for i, p := range plans {
		out[i] = clonePlan(p)
	}
	return out
}

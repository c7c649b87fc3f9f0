// internal/catalog/memory.go
package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"parche-recommender/internal/models"
)

// MemoryRepository keeps the catalog in process. Reads return copies.
type MemoryRepository struct {
	mu    sync.RWMutex
	order []string
	plans map[string]models.PlanRecord
	now   func() time.Time
}

func NewMemoryRepository(plans []models.PlanRecord) (*MemoryRepository, error) {
	if err := Validate(plans); err != nil {
		return nil, err
	}
	r := &MemoryRepository{
		plans: make(map[string]models.PlanRecord, len(plans)),
		now:   time.Now,
	}
	for _, p := range plans {
		r.order = append(r.order, p.ID)
		r.plans[p.ID] = clonePlan(p)
	}
	return r, nil
}

func (r *MemoryRepository) Snapshot(ctx context.Context) ([]models.PlanRecord, error) {
	return r.List(ctx)
}

func (r *MemoryRepository) List(ctx context.Context) ([]models.PlanRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.PlanRecord, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, clonePlan(r.plans[id]))
	}
	return out, nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (models.PlanRecord, error) {
	if err := ctx.Err(); err != nil {
		return models.PlanRecord{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.plans[id]
	if !ok {
		return models.PlanRecord{}, fmt.Errorf("%w: %s", ErrPlanNotFound, id)
	}
	return clonePlan(p), nil
}

func (r *MemoryRepository) Insert(ctx context.Context, plan models.PlanRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := Validate([]models.PlanRecord{plan}); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.plans[plan.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicatePlan, plan.ID)
	}
	stamp := r.now().UTC().Format(time.RFC3339)
	plan = clonePlan(plan)
	plan.CreatedAt, plan.UpdatedAt = stamp, stamp
	r.order = append(r.order, plan.ID)
	r.plans[plan.ID] = plan
	return nil
}

func (r *MemoryRepository) Update(ctx context.Context, plan models.PlanRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := Validate([]models.PlanRecord{plan}); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.plans[plan.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrPlanNotFound, plan.ID)
	}
	plan = clonePlan(plan)
	plan.CreatedAt = existing.CreatedAt
	plan.UpdatedAt = r.now().UTC().Format(time.RFC3339)
	r.plans[plan.ID] = plan
	return nil
}

// internal/recommendation/selector.go
package recommendation

import (
	"math/rand/v2"

	"parche-recommender/internal/models"
)

// MaxSelectedPlans bounds how many plans a single response surfaces.
const MaxSelectedPlans = 3

const romanticRatingThreshold = 4.5

type Selection struct {
	// Category is the category the plans were filtered by. For rejections it
	// is the randomly chosen replacement category.
	Category Intent
	Plans    []models.PlanRecord
}

type Selector struct {
	rng *rand.Rand
}

func NewSelector(rng *rand.Rand) *Selector {
	return &Selector{rng: rng}
}

// Select picks at most MaxSelectedPlans plans for intent. avoid is only
// consulted for IntentRejection.
func (s *Selector) Select(catalog []models.PlanRecord, intent, avoid Intent) Selection {
	switch {
	case intent == IntentGreeting, intent == IntentTooShort:
		return Selection{Category: intent}
	case intent == IntentRejection:
		intent = s.pickOtherCategory(avoid)
	case intent == IntentNone:
		return Selection{Category: IntentNone, Plans: s.sample(catalog)}
	}

	candidates := FilterByCategory(catalog, intent)
	if len(candidates) == 0 {
		candidates = catalog
	}
	return Selection{Category: intent, Plans: s.sample(candidates)}
}

func (s *Selector) pickOtherCategory(avoid Intent) Intent {
	pool := make([]Intent, 0, len(categoryRules))
	for _, rule := range categoryRules {
		if rule.Intent != avoid {
			pool = append(pool, rule.Intent)
		}
	}
	return pool[s.rng.IntN(len(pool))]
}

// sample shuffles a copy of candidates and keeps the first MaxSelectedPlans.
func (s *Selector) sample(candidates []models.PlanRecord) []models.PlanRecord {
	pool := make([]models.PlanRecord, len(candidates))
	copy(pool, candidates)
	s.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if len(pool) > MaxSelectedPlans {
		pool = pool[:MaxSelectedPlans]
	}
	return pool
}

// FilterByCategory returns the plans matching a category intent's predicate,
// preserving catalog order.
func FilterByCategory(catalog []models.PlanRecord, intent Intent) []models.PlanRecord {
	rule, ok := ruleFor(intent)
	if !ok {
		return nil
	}
	var out []models.PlanRecord
	for _, plan := range catalog {
		if rule.matchesPlan(plan) || (intent == IntentRomantic && plan.Rating >= romanticRatingThreshold) {
			out = append(out, plan)
		}
	}
	return out
}

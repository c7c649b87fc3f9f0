package recommendation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parche-recommender/internal/models"
)

func newTestSelector(seed uint64) *Selector {
	return NewSelector(SeededRandFactory(seed)())
}

// ==========================
// Filtering Tests
// ==========================

func TestFilterByCategory(t *testing.T) {
	catalog := testCatalog()

	tests := []struct {
		intent   Intent
		expected []string
	}{
		{IntentRomantic, []string{"p1", "p5"}},
		{IntentNightlife, []string{"p2", "p3"}},
		{IntentFood, []string{"p4", "p5"}},
		{IntentAdventure, []string{"p6"}},
		{IntentCulture, []string{"p7"}},
		{IntentNatureChill, []string{"p3", "p8"}},
		{IntentGreeting, nil},
	}

	for _, tt := range tests {
		t.Run(tt.intent.String(), func(t *testing.T) {
			var ids []string
			for _, p := range FilterByCategory(catalog, tt.intent) {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

// ==========================
// Selection Tests
// ==========================

func TestSelect_BoundsAndMembership(t *testing.T) {
	catalog := testCatalog()

	for _, intent := range append(Categories(), IntentNone, IntentRejection) {
		for seed := uint64(0); seed < 25; seed++ {
			sel := newTestSelector(seed).Select(catalog, intent, IntentNone)

			assert.LessOrEqual(t, len(sel.Plans), MaxSelectedPlans)
			if intent.IsCategory() {
				filtered := FilterByCategory(catalog, intent)
				assert.GreaterOrEqual(t, len(sel.Plans), min(MaxSelectedPlans, len(filtered)))
			}

			seen := map[string]bool{}
			for _, p := range sel.Plans {
				_, ok := planByID(catalog, p.ID)
				assert.True(t, ok, "plan %s not in catalog", p.ID)
				assert.False(t, seen[p.ID], "plan %s selected twice", p.ID)
				seen[p.ID] = true
			}
		}
	}
}

func TestSelect_SkipsClarificationIntents(t *testing.T) {
	s := newTestSelector(1)
	assert.Empty(t, s.Select(testCatalog(), IntentGreeting, IntentNone).Plans)
	assert.Empty(t, s.Select(testCatalog(), IntentTooShort, IntentNone).Plans)
}

func TestSelect_NoneUsesWholeCatalog(t *testing.T) {
	sel := newTestSelector(3).Select(testCatalog(), IntentNone, IntentNone)
	assert.Equal(t, IntentNone, sel.Category)
	assert.Len(t, sel.Plans, MaxSelectedPlans)
}

func TestSelect_EmptyFilterFallsBackToCatalog(t *testing.T) {
	catalog := []models.PlanRecord{
		{ID: "a", Name: "Hatoviejo", Category: "restaurante"},
		{ID: "b", Name: "Mondongos", Category: "restaurante"},
	}
	sel := newTestSelector(7).Select(catalog, IntentAdventure, IntentNone)
	assert.Equal(t, IntentAdventure, sel.Category)
	assert.Len(t, sel.Plans, 2)
}

func TestSelect_SmallCatalogReturnsAll(t *testing.T) {
	catalog := testCatalog()[:1]
	sel := newTestSelector(9).Select(catalog, IntentCulture, IntentNone)
	require.Len(t, sel.Plans, 1)
	assert.Equal(t, "p1", sel.Plans[0].ID)
}

func TestSelect_EmptyCatalog(t *testing.T) {
	sel := newTestSelector(1).Select([]models.PlanRecord{}, IntentFood, IntentNone)
	assert.Empty(t, sel.Plans)
}

func TestSelect_SeededIsReproducible(t *testing.T) {
	catalog := testCatalog()
	first := newTestSelector(42).Select(catalog, IntentNone, IntentNone)
	second := newTestSelector(42).Select(catalog, IntentNone, IntentNone)
	assert.Equal(t, first, second)
}

func TestSelect_RejectionAvoidsPreviousCategory(t *testing.T) {
	catalog := testCatalog()

	for _, avoid := range Categories() {
		picked := map[Intent]bool{}
		for seed := uint64(0); seed < 200; seed++ {
			sel := newTestSelector(seed).Select(catalog, IntentRejection, avoid)
			assert.NotEqual(t, avoid, sel.Category)
			assert.True(t, sel.Category.IsCategory())
			picked[sel.Category] = true
		}
		assert.Len(t, picked, len(Categories())-1, "avoid %s", avoid)
	}
}

func TestSelect_DoesNotMutateCatalog(t *testing.T) {
	catalog := testCatalog()
	before := testCatalog()
	for seed := uint64(0); seed < 10; seed++ {
		newTestSelector(seed).Select(catalog, IntentNone, IntentNone)
	}
	assert.Equal(t, before, catalog)
}

package recommendation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"parche-recommender/internal/models"
)

func TestFormat_Layout(t *testing.T) {
	plans := []models.PlanRecord{
		{ID: "p1", Name: "Rooftop Sunset", Category: "rooftop", Description: "Terraza con vista", Rating: 4.8, Tags: []string{"pareja"}},
		{ID: "p9", Name: "Mirador Las Palmas", Category: "", Description: "Vista nocturna de la ciudad", Rating: 0},
	}

	got := Format(plans, "Para algo romántico, estos lugares son top:", "¿Cuál te llama más?")

	expected := "Para algo romántico, estos lugares son top:\n\n" +
		"**Rooftop Sunset**\n" +
		"Rooftop – Terraza con vista\n" +
		"⭐ 4.8/5\n" +
		"Ideal para: salir en pareja\n" +
		"\n" +
		"**Mirador Las Palmas**\n" +
		"Mirador – Vista nocturna de la ciudad\n" +
		"Ideal para: desconectarse al aire libre\n" +
		"\n" +
		"¿Cuál te llama más?"
	assert.Equal(t, expected, got)
}

func TestFormat_EmptyPlans(t *testing.T) {
	got := Format(nil, "intro", "question")
	assert.Equal(t, NoPlansMessage, got)
	assert.NotContains(t, got, "intro")
}

func TestFormat_TruncatesDescription(t *testing.T) {
	long := strings.Repeat("á", 100)
	plans := []models.PlanRecord{{ID: "x", Name: "Largo", Category: "teatro", Description: long}}

	got := Format(plans, "i", "q")
	assert.Contains(t, got, "Teatro – "+strings.Repeat("á", 80)+"...\n")
	assert.NotContains(t, got, strings.Repeat("á", 81))
}

func TestFormat_OneNameLinePerPlanInOrder(t *testing.T) {
	catalog := testCatalog()
	for seed := uint64(0); seed < 20; seed++ {
		sel := newTestSelector(seed).Select(catalog, IntentNone, IntentNone)
		out := Format(sel.Plans, "i", "q")

		last := -1
		for _, p := range sel.Plans {
			line := "**" + p.Name + "**"
			assert.Equal(t, 1, strings.Count(out, line))
			idx := strings.Index(out, line)
			assert.Greater(t, idx, last)
			last = idx
		}
		assert.Equal(t, len(sel.Plans), strings.Count(out, "\n**"))
		assert.True(t, strings.HasSuffix(out, "\n\nq"))
	}
}

func TestVenueType(t *testing.T) {
	tests := []struct {
		name     string
		plan     models.PlanRecord
		expected string
	}{
		{"rooftop beats bar", models.PlanRecord{Category: "Rooftop bar"}, "Rooftop"},
		{"category keyword", models.PlanRecord{Category: "Bar de salsa"}, "Bar"},
		{"unaccented cafe", models.PlanRecord{Category: "cafeteria"}, "Café"},
		{"falls through to name", models.PlanRecord{Category: "experiencia", Name: "Museo de Antioquia"}, "Museo"},
		{"raw category", models.PlanRecord{Category: "Tour guiado", Name: "Comuna 13"}, "Tour guiado"},
		{"default", models.PlanRecord{Name: "Algo"}, "Lugar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, VenueType(tt.plan))
		})
	}
}

func TestIdealFor_UsesPlanSignals(t *testing.T) {
	catalog := testCatalog()
	expected := map[string]string{
		"p1": "salir en pareja",
		"p2": "bailar toda la noche",
		"p4": "comer rico",
		"p6": "los que buscan adrenalina",
		"p7": "conectar con el arte y la historia",
		"p8": "desconectarse al aire libre",
	}
	for id, blurb := range expected {
		plan, _ := planByID(catalog, id)
		assert.Equal(t, blurb, IdealFor(plan), id)
	}
	assert.Equal(t, defaultIdealFor, IdealFor(models.PlanRecord{Name: "Algo"}))
}

func TestIntroFor(t *testing.T) {
	intro, question := IntroFor(IntentRomantic, IntentRomantic)
	assert.Equal(t, "Para algo romántico, estos lugares son top:", intro)
	assert.Equal(t, "¿Cuál te llama más?", question)

	intro, _ = IntroFor(IntentRejection, IntentFood)
	assert.True(t, strings.HasPrefix(intro, "¡Listo, cambiemos de parche!"))
	assert.Contains(t, intro, "comida")

	intro, question = IntroFor(IntentNone, IntentNone)
	assert.Equal(t, defaultIntro.Intro, intro)
	assert.Equal(t, defaultIntro.Question, question)
}

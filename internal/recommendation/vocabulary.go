// internal/recommendation/vocabulary.go
package recommendation

import (
	"strings"

	"parche-recommender/internal/models"
)

type categoryRule struct {
	Intent Intent
	// Terms are matched as substrings of the lowercased utterance.
	Terms []string
	// PlanTerms extend Terms when matching catalog fields.
	PlanTerms []string
	IdealFor  string
}

// categoryRules is ordered by priority: the first matching rule wins.
var categoryRules = []categoryRule{
	{
		Intent: IntentRomantic,
		Terms: []string{
			"romántic", "romantic", "pareja", "novia", "novio", "cita", "aniversario",
			"enamorad", "atardecer", "velas", "íntimo", "intimo", "luna de miel",
		},
		PlanTerms: []string{"rooftop", "vino"},
		IdealFor:  "salir en pareja",
	},
	{
		Intent: IntentNightlife,
		Terms: []string{
			"rumba", "fiesta", "bailar", "baile", "discoteca", "club", "nocturn", "bares",
			"trago", "cerveza", "cóctel", "coctel", "parrand", "farra", "reggaet",
		},
		PlanTerms: []string{"bar", "salsa"},
		IdealFor:  "bailar toda la noche",
	},
	{
		Intent: IntentFood,
		Terms: []string{
			"comida", "comer", "restaurante", "almuerzo", "almorzar", "cenar", "desayuno",
			"hambre", "brunch", "café", "cafe", "postre", "pizza", "hamburguesa", "gastronom",
		},
		PlanTerms: []string{"cocina", "food"},
		IdealFor:  "comer rico",
	},
	{
		Intent: IntentAdventure,
		Terms: []string{
			"aventura", "extremo", "parapente", "deporte", "escalar", "escalada", "rafting",
			"caminata", "senderismo", "bicicleta", "adrenalina", "canopy", "kayak", "tour",
		},
		PlanTerms: []string{"outdoor"},
		IdealFor:  "los que buscan adrenalina",
	},
	{
		Intent: IntentCulture,
		Terms: []string{
			"cultura", "cultural", "museo", "teatro", "historia", "exposición", "exposicion",
			"galería", "galeria", "concierto", "biblioteca", "graffiti", "comuna 13",
			"artístic", "artistic",
		},
		PlanTerms: []string{"arte"},
		IdealFor:  "conectar con el arte y la historia",
	},
	{
		Intent: IntentNatureChill,
		Terms: []string{
			"naturaleza", "parque", "verde", "aire libre", "montaña", "montana", "cascada",
			"tranquil", "relajar", "chill", "descansar", "mirador", "jardín", "jardin",
		},
		PlanTerms: []string{"ecológic", "ecologic"},
		IdealFor:  "desconectarse al aire libre",
	},
}

const defaultIdealFor = "pasar un buen rato"

func ruleFor(intent Intent) (categoryRule, bool) {
	for _, rule := range categoryRules {
		if rule.Intent == intent {
			return rule, true
		}
	}
	return categoryRule{}, false
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// matchUtterance returns the highest priority category whose vocabulary
// appears in text, or IntentNone.
func matchUtterance(text string) Intent {
	for _, rule := range categoryRules {
		if containsAny(text, rule.Terms) {
			return rule.Intent
		}
	}
	return IntentNone
}

func planSignals(plan models.PlanRecord) string {
	parts := make([]string, 0, len(plan.Tags)+2)
	parts = append(parts, plan.Category, plan.Name)
	parts = append(parts, plan.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}

func (r categoryRule) matchesPlan(plan models.PlanRecord) bool {
	signals := planSignals(plan)
	return containsAny(signals, r.Terms) || containsAny(signals, r.PlanTerms)
}

// matchPlan derives the category of a plan from its own category, name and tags.
func matchPlan(plan models.PlanRecord) Intent {
	for _, rule := range categoryRules {
		if rule.matchesPlan(plan) {
			return rule.Intent
		}
	}
	return IntentNone
}

// IdealFor returns the audience blurb for a plan based on its own signals.
func IdealFor(plan models.PlanRecord) string {
	if rule, ok := ruleFor(matchPlan(plan)); ok {
		return rule.IdealFor
	}
	return defaultIdealFor
}

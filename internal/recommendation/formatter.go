// internal/recommendation/formatter.go
package recommendation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"parche-recommender/internal/models"
)

const descriptionPreviewRunes = 80

var venueTypes = []struct {
	keyword string
	label   string
}{
	{"rooftop", "Rooftop"},
	{"bar", "Bar"},
	{"restaurante", "Restaurante"},
	{"café", "Café"},
	{"cafe", "Café"},
	{"parque", "Parque"},
	{"mirador", "Mirador"},
	{"club", "Club"},
	{"discoteca", "Discoteca"},
	{"museo", "Museo"},
	{"teatro", "Teatro"},
}

// Format renders plans as the fixed recommendation template. An empty plan
// list yields NoPlansMessage without intro or question.
func Format(plans []models.PlanRecord, intro, closingQuestion string) string {
	if len(plans) == 0 {
		return NoPlansMessage
	}

	var b strings.Builder
	b.WriteString(intro)
	b.WriteString("\n\n")
	for _, plan := range plans {
		fmt.Fprintf(&b, "**%s**\n", plan.Name)
		fmt.Fprintf(&b, "%s – %s\n", VenueType(plan), preview(plan.Description))
		if plan.Rating > 0 {
			fmt.Fprintf(&b, "⭐ %.1f/5\n", plan.Rating)
		}
		fmt.Fprintf(&b, "Ideal para: %s\n", IdealFor(plan))
		b.WriteString("\n")
	}
	b.WriteString(closingQuestion)
	return b.String()
}

// VenueType derives a display type from the plan category, then its name.
func VenueType(plan models.PlanRecord) string {
	for _, field := range []string{plan.Category, plan.Name} {
		lower := strings.ToLower(field)
		for _, vt := range venueTypes {
			if strings.Contains(lower, vt.keyword) {
				return vt.label
			}
		}
	}
	if category := strings.TrimSpace(plan.Category); category != "" {
		return category
	}
	return "Lugar"
}

func preview(description string) string {
	description = strings.TrimSpace(description)
	if utf8.RuneCountInString(description) <= descriptionPreviewRunes {
		return description
	}
	runes := []rune(description)
	return string(runes[:descriptionPreviewRunes]) + "..."
}

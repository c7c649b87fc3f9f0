// internal/recommendation/prompt.go
package recommendation

import (
	"fmt"
	"strings"

	"parche-recommender/internal/models"
)

const maxPromptPlans = 60

// BuildSystemPrompt describes the assistant persona and the catalog the
// remote model may recommend from.
func BuildSystemPrompt(catalog []models.PlanRecord) string {
	var parts []string

	parts = append(parts, "Eres Parche AI, un compa que conoce todos los planes chéveres de Medellín.")
	parts = append(parts, "Responde en español, con tono cercano y en pocas líneas.")
	parts = append(parts, "Recomienda como máximo 3 planes y usa sus nombres exactos en negrita.")

	if len(catalog) > 0 {
		parts = append(parts, "\nPlanes disponibles:")
		for i, plan := range catalog {
			if i == maxPromptPlans {
				break
			}
			line := fmt.Sprintf("- %s (%s)", plan.Name, plan.Category)
			if plan.Rating > 0 {
				line += fmt.Sprintf(" ⭐ %.1f", plan.Rating)
			}
			if len(plan.Tags) > 0 {
				line += " [" + strings.Join(plan.Tags, ", ") + "]"
			}
			parts = append(parts, line)
		}
	}

	parts = append(parts, "\nSi el usuario rechaza una sugerencia, ofrece una categoría diferente.")
	parts = append(parts, "Si no tienes suficiente información, pide más detalles.")

	return strings.Join(parts, "\n")
}

// BuildMessages assembles the conversation sent to the completion endpoint.
func BuildMessages(message string, history []models.ConversationTurn, catalog []models.PlanRecord) []models.ConversationTurn {
	window := Window(history)
	messages := make([]models.ConversationTurn, 0, len(window)+2)
	messages = append(messages, models.ConversationTurn{Role: models.RoleSystem, Content: BuildSystemPrompt(catalog)})
	for _, turn := range window {
		if turn.Role == models.RoleSystem {
			continue
		}
		messages = append(messages, turn)
	}
	messages = append(messages, models.ConversationTurn{Role: models.RoleUser, Content: message})
	return messages
}

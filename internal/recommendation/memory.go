// internal/recommendation/memory.go
package recommendation

import (
	"strings"

	"parche-recommender/internal/models"
)

// HistoryWindow is the number of trailing turns the engine reads.
const HistoryWindow = 10

var greetingMarkers = []string{"hola", "hey", "qué tal"}

var assistantCategoryMarkers = []struct {
	intent  Intent
	markers []string
}{
	{IntentRomantic, []string{"romántic"}},
	{IntentNightlife, []string{"rumba", "nocturno"}},
	{IntentFood, []string{"comida", "restaurante"}},
	{IntentAdventure, []string{"aventura", "deporte"}},
	{IntentCulture, []string{"cultura", "museo"}},
	{IntentNatureChill, []string{"naturaleza", "parque"}},
}

// Window returns the trailing HistoryWindow turns without copying.
func Window(history []models.ConversationTurn) []models.ConversationTurn {
	if len(history) <= HistoryWindow {
		return history
	}
	return history[len(history)-HistoryWindow:]
}

// HasGreetedBefore reports whether any recent turn carries a greeting.
func HasGreetedBefore(history []models.ConversationTurn) bool {
	for _, turn := range Window(history) {
		if containsAny(strings.ToLower(turn.Content), greetingMarkers) {
			return true
		}
	}
	return false
}

// LastAssistantCategory recovers the category offered in the most recent
// assistant turn, or IntentNone.
func LastAssistantCategory(history []models.ConversationTurn) Intent {
	window := Window(history)
	for i := len(window) - 1; i >= 0; i-- {
		if window[i].Role != models.RoleAssistant {
			continue
		}
		content := strings.ToLower(window[i].Content)
		for _, entry := range assistantCategoryMarkers {
			if containsAny(content, entry.markers) {
				return entry.intent
			}
		}
		return IntentNone
	}
	return IntentNone
}

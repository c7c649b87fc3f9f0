package recommendation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"parche-recommender/internal/models"
)

func TestHasGreetedBefore(t *testing.T) {
	tests := []struct {
		name     string
		history  []models.ConversationTurn
		expected bool
	}{
		{"empty history", nil, false},
		{"user said hola", turns("user", "Hola parce"), true},
		{"assistant welcome", turns("user", "rumba", "assistant", WelcomeMessage), true},
		{"que tal accented", turns("user", "¿Qué tal?"), true},
		{"hey mid sentence", turns("user", "hey, busco algo"), true},
		{"no greeting", turns("user", "quiero algo romántico", "assistant", "Para algo romántico, estos lugares son top:"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HasGreetedBefore(tt.history))
		})
	}
}

func TestHasGreetedBefore_OnlyReadsWindow(t *testing.T) {
	history := turns("user", "hola")
	for i := 0; i < HistoryWindow; i++ {
		history = append(history, models.ConversationTurn{Role: models.RoleUser, Content: fmt.Sprintf("mensaje %d", i)})
	}
	assert.False(t, HasGreetedBefore(history))
	assert.Len(t, Window(history), HistoryWindow)
}

func TestLastAssistantCategory(t *testing.T) {
	tests := []struct {
		name     string
		history  []models.ConversationTurn
		expected Intent
	}{
		{"empty", nil, IntentNone},
		{"romantic intro", turns("user", "quiero algo romántico", "assistant", "Para algo romántico, estos lugares son top:"), IntentRomantic},
		{"nightlife intro", turns("assistant", "Para la rumba, estos lugares son lo máximo:"), IntentNightlife},
		{"food", turns("assistant", "Si tienes hambre, esta comida te va a encantar:"), IntentFood},
		{"adventure", turns("assistant", "Para los amantes de la aventura, aquí va:"), IntentAdventure},
		{"culture", turns("assistant", "Si buscas cultura, estos lugares te van a gustar:"), IntentCulture},
		{"nature", turns("assistant", "Para conectar con la naturaleza y relajarse:"), IntentNatureChill},
		{"uses most recent assistant turn", turns(
			"assistant", "Para la rumba, estos lugares son lo máximo:",
			"user", "no me gusta",
			"assistant", "¡Listo, cambiemos de parche! Si buscas cultura, estos lugares te van a gustar:",
			"user", "no",
		), IntentCulture},
		{"latest assistant without markers", turns(
			"assistant", "Para algo romántico, estos lugares son top:",
			"assistant", TooShortMessage,
		), IntentNone},
		{"only user turns", turns("user", "rumba romántica"), IntentNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LastAssistantCategory(tt.history))
		})
	}
}

func TestIntroFor_CarriesCategoryMarkers(t *testing.T) {
	for _, category := range Categories() {
		intro, _ := IntroFor(category, category)
		history := turns("assistant", intro)
		assert.Equal(t, category, LastAssistantCategory(history), "intro %q", intro)

		rejectionIntro, _ := IntroFor(IntentRejection, category)
		history = turns("assistant", rejectionIntro)
		assert.Equal(t, category, LastAssistantCategory(history), "rejection intro %q", rejectionIntro)
	}
}

// internal/recommendation/pipeline.go
package recommendation

import (
	"math/rand/v2"

	"parche-recommender/internal/models"
)

const (
	ClarificationConfidence = 0.8
	LocalConfidence         = 0.85
	RemoteConfidence        = 0.9
	NoPlansConfidence       = 0.5
	ErrorConfidence         = 0.1
)

// RunLocal answers message with the deterministic local pipeline:
// classify, select, format and extract references.
func RunLocal(message string, history []models.ConversationTurn, catalog []models.PlanRecord, rng *rand.Rand) models.EngineResponse {
	history = Window(history)
	intent := Classify(message, history)

	resp := models.EngineResponse{
		PlanReferences: []models.PlanReference{},
		Source:         models.SourceLocal,
		Intent:         intent.String(),
	}

	switch intent {
	case IntentGreeting:
		resp.Content = WelcomeMessage
		if HasGreetedBefore(history) {
			resp.Content = RepeatGreetingMessage
		}
		resp.ConfidenceScore = ClarificationConfidence
		return resp
	case IntentTooShort:
		resp.Content = TooShortMessage
		resp.ConfidenceScore = ClarificationConfidence
		return resp
	}

	avoid := IntentNone
	if intent == IntentRejection {
		avoid = LastAssistantCategory(history)
	}

	selection := NewSelector(rng).Select(catalog, intent, avoid)
	intro, question := IntroFor(intent, selection.Category)
	resp.Content = Format(selection.Plans, intro, question)

	if len(selection.Plans) == 0 {
		resp.ConfidenceScore = NoPlansConfidence
		return resp
	}
	resp.ConfidenceScore = LocalConfidence
	resp.PlanReferences = ExtractReferences(resp.Content, catalog)
	return resp
}

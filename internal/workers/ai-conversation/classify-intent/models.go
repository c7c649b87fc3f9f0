// internal/workers/ai-conversation/classify-intent/models.go
package classifyintent

import "parche-recommender/internal/models"

type Input struct {
	Question string                    `json:"question"`
	History  []models.ConversationTurn `json:"history"`
}

type Output struct {
	IntentAnalysis IntentAnalysis `json:"intentAnalysis"`
	// AvoidCategory is the category offered in the last assistant turn, if any.
	AvoidCategory string `json:"avoidCategory,omitempty"`
	GreetedBefore bool   `json:"greetedBefore"`
}

type IntentAnalysis struct {
	PrimaryIntent string  `json:"primaryIntent"`
	Confidence    float64 `json:"confidence"`
	IsCategory    bool    `json:"isCategory"`
}

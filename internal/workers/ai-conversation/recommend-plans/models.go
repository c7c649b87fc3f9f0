// internal/workers/ai-conversation/recommend-plans/models.go
package recommendplans

import "parche-recommender/internal/models"

type Input struct {
	Message string                    `json:"message"`
	History []models.ConversationTurn `json:"history"`
	// Plans overrides the configured catalog when present.
	Plans []models.PlanRecord `json:"plans,omitempty"`
}

type Output struct {
	models.EngineResponse
	CatalogSize int    `json:"catalogSize"`
	ProcessedAt string `json:"processedAt"`
}

// internal/server/plans_handler.go
package server

import (
	"github.com/gofiber/fiber/v2"

	"parche-recommender/internal/catalog"
	apperrors "parche-recommender/internal/common/errors"
	"parche-recommender/internal/models"
)

type plansHandler struct {
	catalog catalog.Snapshotter
	logger  Logger
}

type plansBody struct {
	Plans []models.PlanRecord `json:"plans"`
	Count int                 `json:"count"`
}

func (h *plansHandler) list(c *fiber.Ctx) error {
	plans, err := h.catalog.Snapshot(c.UserContext())
	if err != nil {
		h.logger.Error("catalog snapshot failed", map[string]interface{}{
			"requestId": requestIDFrom(c),
			"error":     err.Error(),
		})
		return writeError(c, apperrors.NewCatalogUnavailableError(err))
	}

	if category := c.Query("category"); category != "" {
		filtered := make([]models.PlanRecord, 0, len(plans))
		for _, p := range plans {
			if p.Category == category {
				filtered = append(filtered, p)
			}
		}
		plans = filtered
	}

	return c.JSON(plansBody{Plans: plans, Count: len(plans)})
}

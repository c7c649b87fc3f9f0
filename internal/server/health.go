// internal/server/health.go
package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"parche-recommender/internal/catalog"
)

type healthHandler struct {
	catalog catalog.Snapshotter
	checks  []Check
}

func (h *healthHandler) live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// ready reports 503 when the catalog or any dependency probe fails.
func (h *healthHandler) ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	results := fiber.Map{}
	healthy := true

	if _, err := h.catalog.Snapshot(ctx); err != nil {
		results["catalog"] = err.Error()
		healthy = false
	} else {
		results["catalog"] = "ok"
	}

	for _, check := range h.checks {
		if err := check.Probe(ctx); err != nil {
			results[check.Name] = err.Error()
			healthy = false
			continue
		}
		results[check.Name] = "ok"
	}

	status := "ready"
	code := fiber.StatusOK
	if !healthy {
		status = "not_ready"
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{"status": status, "checks": results})
}

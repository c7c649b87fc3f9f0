package seed

import "parche-recommender/internal/models"

// CatalogFile is the on-disk seed format for the plan catalog.
type CatalogFile struct {
	Version     string              `json:"version"`
	LastUpdated string              `json:"lastUpdated"`
	Plans       []models.PlanRecord `json:"plans"`
}

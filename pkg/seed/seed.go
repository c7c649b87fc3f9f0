package seed

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"parche-recommender/internal/catalog"
	"parche-recommender/internal/common/validation"
	"parche-recommender/internal/models"
)

// LoadCatalog reads and validates a seed file. A missing "plans" key yields an
// empty, non-nil catalog.
func LoadCatalog(path string) (*CatalogFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file CatalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if file.Plans == nil {
		file.Plans = []models.PlanRecord{}
	}

	var raw struct {
		Plans json.RawMessage `json:"plans"`
	}
	_ = json.Unmarshal(data, &raw)
	if len(raw.Plans) > 0 {
		if result := validation.Catalog.ValidateBytes(raw.Plans); !result.Valid {
			return nil, fmt.Errorf("%w: %s", catalog.ErrInvalidCatalog, result.Error())
		}
	}
	if err := catalog.Validate(file.Plans); err != nil {
		return nil, err
	}
	return &file, nil
}

// LoadPlans is LoadCatalog for callers that only need the records.
func LoadPlans(path string) ([]models.PlanRecord, error) {
	file, err := LoadCatalog(path)
	if err != nil {
		return nil, err
	}
	return file.Plans, nil
}

// SaveCatalog validates and writes the file, stamping LastUpdated.
func SaveCatalog(path string, file *CatalogFile) error {
	if err := catalog.Validate(file.Plans); err != nil {
		return err
	}
	file.LastUpdated = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

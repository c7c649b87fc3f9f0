// internal/models/plan.go
package models

// PlanRecord is a recommendable venue or experience owned by the catalog.
type PlanRecord struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Rating      float64  `json:"rating"`
	Tags        []string `json:"tags"`
	CreatedAt   string   `json:"createdAt,omitempty"`
	UpdatedAt   string   `json:"updatedAt,omitempty"`
}

// PlanReference points from a response back to a catalog plan.
type PlanReference struct {
	PlanID     string  `json:"planId"`
	MatchName  string  `json:"matchName"`
	Confidence float64 `json:"confidence"`
}

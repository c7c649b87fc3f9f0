// internal/catalog/elasticsearch.go
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"

	"parche-recommender/internal/models"
)

const planIndexMapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "keyword"},
      "name":        {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "category":    {"type": "keyword"},
      "description": {"type": "text"},
      "rating":      {"type": "float"},
      "tags":        {"type": "keyword"}
    }
  }
}`

// ElasticsearchSource reads the catalog from a search index.
type ElasticsearchSource struct {
	client   *elasticsearch.Client
	index    string
	maxPlans int
}

func NewElasticsearchSource(client *elasticsearch.Client, index string, maxPlans int) *ElasticsearchSource {
	if index == "" {
		index = "plans"
	}
	if maxPlans <= 0 {
		maxPlans = 500
	}
	return &ElasticsearchSource{client: client, index: index, maxPlans: maxPlans}
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value    int    `json:"value"`
			Relation string `json:"relation"`
		} `json:"total"`
		Hits []struct {
			ID     string            `json:"_id"`
			Source models.PlanRecord `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (s *ElasticsearchSource) Snapshot(ctx context.Context) ([]models.PlanRecord, error) {
	query := map[string]interface{}{
		"query":            map[string]interface{}{"match_all": map[string]interface{}{}},
		"sort":             []interface{}{map[string]interface{}{"id": "asc"}},
		"track_total_hits": true,
	}
	body, _ := json.Marshal(query)

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(body)),
		s.client.Search.WithSize(s.maxPlans),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: search %s: %v", ErrCatalogUnavailable, s.index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: search %s: %s", ErrCatalogUnavailable, s.index, readError(res.Body, res.StatusCode))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode search response: %v", ErrCatalogUnavailable, err)
	}
	if parsed.Hits.Total.Value > s.maxPlans || len(parsed.Hits.Hits) > s.maxPlans {
		return nil, fmt.Errorf("%w: %w: index %s holds %d plans, limit is %d",
			ErrCatalogUnavailable, ErrCatalogTooLarge, s.index, parsed.Hits.Total.Value, s.maxPlans)
	}

	plans := make([]models.PlanRecord, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		p := hit.Source
		if p.ID == "" {
			p.ID = hit.ID
		}
		plans = append(plans, p)
	}
	return plans, nil
}

// EnsureIndex creates the index with the plan mapping when it is missing.
func (s *ElasticsearchSource) EnsureIndex(ctx context.Context) error {
	res, err := s.client.Indices.Exists([]string{s.index}, s.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index %s: %w", s.index, err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = s.client.Indices.Create(s.index,
		s.client.Indices.Create.WithContext(ctx),
		s.client.Indices.Create.WithBody(strings.NewReader(planIndexMapping)),
	)
	if err != nil {
		return fmt.Errorf("create index %s: %w", s.index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("create index %s: %s", s.index, readError(res.Body, res.StatusCode))
	}
	return nil
}

// Index writes every plan using its id as the document id.
func (s *ElasticsearchSource) Index(ctx context.Context, plans []models.PlanRecord) error {
	if err := Validate(plans); err != nil {
		return err
	}
	for _, p := range plans {
		doc, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode plan %s: %w", p.ID, err)
		}
		res, err := s.client.Index(s.index, bytes.NewReader(doc),
			s.client.Index.WithContext(ctx),
			s.client.Index.WithDocumentID(p.ID),
		)
		if err != nil {
			return fmt.Errorf("index plan %s: %w", p.ID, err)
		}
		if res.IsError() {
			msg := readError(res.Body, res.StatusCode)
			res.Body.Close()
			return fmt.Errorf("index plan %s: %s", p.ID, msg)
		}
		res.Body.Close()
	}

	res, err := s.client.Indices.Refresh(
		s.client.Indices.Refresh.WithContext(ctx),
		s.client.Indices.Refresh.WithIndex(s.index),
	)
	if err != nil {
		return fmt.Errorf("refresh index %s: %w", s.index, err)
	}
	res.Body.Close()
	return nil
}

func readError(body io.Reader, status int) string {
	raw, _ := io.ReadAll(io.LimitReader(body, 2048))
	return fmt.Sprintf("status %d: %s", status, strings.TrimSpace(string(raw)))
}

// internal/models/query_types.go
package models

// CatalogSource names where the plan catalog snapshot is read from.
type CatalogSource string

const (
	CatalogSourceMemory        CatalogSource = "memory"
	CatalogSourceFile          CatalogSource = "file"
	CatalogSourcePostgres      CatalogSource = "postgres"
	CatalogSourceElasticsearch CatalogSource = "elasticsearch"
)

func (s CatalogSource) Valid() bool {
	switch s {
	case CatalogSourceMemory, CatalogSourceFile, CatalogSourcePostgres, CatalogSourceElasticsearch:
		return true
	}
	return false
}

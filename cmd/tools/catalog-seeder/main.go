// cmd/tools/catalog-seeder/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"parche-recommender/internal/catalog"
	"parche-recommender/internal/common/config"
	"parche-recommender/internal/common/database"
	"parche-recommender/internal/models"
	"parche-recommender/pkg/seed"
)

var catalogPath string

func main() {
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	postgresCmd := flag.NewFlagSet("postgres", flag.ExitOnError)
	elasticCmd := flag.NewFlagSet("elasticsearch", flag.ExitOnError)

	for _, fs := range []*flag.FlagSet{addCmd, validateCmd, postgresCmd, elasticCmd} {
		fs.StringVar(&catalogPath, "path", "configs/catalog.json", "Path to catalog file")
	}

	// Add command flags
	id := addCmd.String("id", "", "Plan ID (e.g., parque-arvi)")
	name := addCmd.String("name", "", "Display name (e.g., Parque Arví)")
	category := addCmd.String("category", "", "Category (e.g., aventura)")
	description := addCmd.String("description", "", "Description")
	rating := addCmd.String("rating", "0", "Rating between 0 and 5")
	tags := addCmd.String("tags", "", "Comma separated tags")

	// Store command flags
	configPath := postgresCmd.String("config", "", "Config file (defaults to configs/config.yaml)")
	esConfigPath := elasticCmd.String("config", "", "Config file (defaults to configs/config.yaml)")
	index := elasticCmd.String("index", "", "Index name (defaults to catalog.index)")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch os.Args[1] {
	case "add":
		addCmd.Parse(os.Args[2:])
		if *id == "" || *name == "" || *category == "" {
			fmt.Println("Error: id, name, and category are required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		score, err := strconv.ParseFloat(*rating, 64)
		if err != nil {
			fmt.Printf("Error: invalid rating %q\n", *rating)
			os.Exit(1)
		}
		plan := models.PlanRecord{
			ID:          *id,
			Name:        *name,
			Category:    *category,
			Description: *description,
			Rating:      score,
			Tags:        splitTags(*tags),
			CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		}
		if err := addPlan(plan); err != nil {
			fmt.Printf("Error adding plan: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added plan: %s\n", *id)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		file, err := seed.LoadCatalog(catalogPath)
		if err != nil {
			fmt.Printf("Catalog validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Catalog validation passed (%d plans).\n", len(file.Plans))

	case "postgres":
		postgresCmd.Parse(os.Args[2:])
		cfg, err := loadConfig(*configPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		n, err := seedPostgres(ctx, cfg)
		if err != nil {
			fmt.Printf("Error seeding postgres: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Upserted %d plans into postgres.\n", n)

	case "elasticsearch":
		elasticCmd.Parse(os.Args[2:])
		cfg, err := loadConfig(*esConfigPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		if *index != "" {
			cfg.Catalog.Index = *index
		}
		n, err := seedElasticsearch(ctx, cfg)
		if err != nil {
			fmt.Printf("Error seeding elasticsearch: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Indexed %d plans into %s.\n", n, cfg.Catalog.Index)

	case "help":
		fallthrough
	default:
		help()
	}
}

func addPlan(plan models.PlanRecord) error {
	file, err := seed.LoadCatalog(catalogPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
		file = &seed.CatalogFile{Version: "1.0.0", Plans: []models.PlanRecord{}}
	}

	for _, p := range file.Plans {
		if p.ID == plan.ID {
			return fmt.Errorf("%w: %s", catalog.ErrDuplicatePlan, plan.ID)
		}
	}
	file.Plans = append(file.Plans, plan)

	return seed.SaveCatalog(catalogPath, file)
}

func seedPostgres(ctx context.Context, cfg *config.Config) (int, error) {
	plans, err := seed.LoadPlans(catalogPath)
	if err != nil {
		return 0, err
	}

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return 0, err
	}
	defer pg.Close()
	if err := pg.Ping(ctx); err != nil {
		return 0, err
	}

	repo := catalog.NewPostgresRepository(pg.DB, cfg.Catalog.MaxPlans)
	if err := repo.EnsureSchema(ctx); err != nil {
		return 0, err
	}
	if err := repo.Upsert(ctx, plans); err != nil {
		return 0, err
	}
	return len(plans), nil
}

func seedElasticsearch(ctx context.Context, cfg *config.Config) (int, error) {
	plans, err := seed.LoadPlans(catalogPath)
	if err != nil {
		return 0, err
	}

	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		return 0, err
	}
	if err := es.Ping(ctx); err != nil {
		return 0, err
	}

	source := catalog.NewElasticsearchSource(es.Client, cfg.Catalog.Index, cfg.Catalog.MaxPlans)
	if err := source.EnsureIndex(ctx); err != nil {
		return 0, err
	}
	if err := source.Index(ctx, plans); err != nil {
		return 0, err
	}
	return len(plans), nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func splitTags(raw string) []string {
	tags := []string{}
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func help() {
	fmt.Println("Usage: catalog-seeder <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  add            Add a plan to the catalog file")
	fmt.Println("  validate       Validate the catalog file")
	fmt.Println("  postgres       Upsert the catalog file into PostgreSQL")
	fmt.Println("  elasticsearch  Index the catalog file into Elasticsearch")
	fmt.Println("  help           Show this help message")
}

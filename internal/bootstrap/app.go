package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"star-backend/internal/catalog"
	"star-backend/internal/evaluations"
	"star-backend/internal/generations"
	"star-backend/internal/health"
	"star-backend/internal/llm"
	"star-backend/internal/llm/gemini"
	"star-backend/internal/llm/openai"
	"star-backend/internal/shared/config"
	"star-backend/internal/shared/server"
	"star-backend/internal/shared/storage/db"
	"star-backend/internal/shared/storage/object"
	objects3 "star-backend/internal/shared/storage/object/s3"
	"star-backend/internal/shared/telemetry"
	"star-backend/internal/usage"
)

const retryBaseDelay = 500 * time.Millisecond

// App holds shared dependencies.
type App struct {
	Config             config.Config
	Router             *gin.Engine
	DB                 *sql.DB
	Catalog            *catalog.Catalog
	LLM                llm.Client
	UsageService       *usage.Service
	EvaluationsService *evaluations.Service
	GenerationsService *generations.Service
}

// Build prepares dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	ctx := context.Background()

	cat, err := LoadCatalog(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client, err := BuildLLM(cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, usageSvc, err := buildUsage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:       cfg,
		DB:           sqlDB,
		Catalog:      cat,
		LLM:          client,
		UsageService: usageSvc,
		EvaluationsService: &evaluations.Service{
			Catalog:     cat,
			LLM:         client,
			Usage:       usageSvc,
			SchemaCheck: cfg.EvaluationSchemaCheck,
			StripFences: cfg.LLMStripFences,
		},
		GenerationsService: &generations.Service{
			Catalog: cat,
			LLM:     client,
			Usage:   usageSvc,
		},
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            cfg,
		CatalogHandler:    catalog.NewHandler(cat),
		EvaluationHandler: evaluations.NewHandler(app.EvaluationsService),
		GenerationHandler: generations.NewHandler(app.GenerationsService),
		HealthHandler:     health.NewHandler(health.NewService()),
		UsageHandler:      usage.NewHandler(usageSvc),
	})

	return app, nil
}

// LoadCatalog reads the catalog from CATALOG_PATH, which may be a local file
// or an s3://bucket/key URL. Empty means the embedded catalog.
func LoadCatalog(ctx context.Context, cfg config.Config) (*catalog.Catalog, error) {
	if !object.IsS3(cfg.CatalogPath) {
		return catalog.LoadFile(cfg.CatalogPath)
	}
	loc, err := object.ParseS3(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	store, err := objects3.New(ctx, cfg.AWSRegion, loc.Bucket, "")
	if err != nil {
		return nil, err
	}
	cat, err := catalog.LoadObject(ctx, store, loc.Key)
	if err != nil {
		return nil, err
	}
	telemetry.Info("bootstrap.catalog", map[string]any{"source": "s3", "bucket": loc.Bucket, "key": loc.Key})
	return cat, nil
}

// Close releases the database handle, if any.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

// BuildLLM selects the provider client and wraps it with retry and
// concurrency limits. A missing API key yields a client that fails per call.
func BuildLLM(cfg config.Config) (llm.Client, error) {
	var client llm.Client
	httpClient := &http.Client{Timeout: cfg.LLMTimeout}

	switch {
	case strings.TrimSpace(cfg.APIKey()) == "":
		client = llm.Unconfigured{Reason: fmt.Sprintf("no API key for provider %q", cfg.LLMProvider)}
	case cfg.LLMProvider == "gemini":
		c, err := gemini.NewClient("", cfg.GeminiAPIKey, cfg.GeminiModel, httpClient)
		if err != nil {
			return nil, err
		}
		client = c
	case cfg.LLMProvider == "openai":
		c, err := openai.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.LLMModel, httpClient)
		if err != nil {
			return nil, err
		}
		client = c
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER %q", cfg.LLMProvider)
	}

	client = llm.WithRetry(client, cfg.LLMMaxRetries, retryBaseDelay)
	client = llm.WithConcurrencyLimit(client, cfg.Workers)

	telemetry.Info("bootstrap.llm", map[string]any{
		"provider":    cfg.LLMProvider,
		"model":       cfg.Model(),
		"configured":  strings.TrimSpace(cfg.APIKey()) != "",
		"max_retries": cfg.LLMMaxRetries,
		"workers":     cfg.Workers,
	})
	return client, nil
}

func buildUsage(ctx context.Context, cfg config.Config) (*sql.DB, *usage.Service, error) {
	switch {
	case cfg.DatabaseURL != "":
		sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			return nil, nil, err
		}
		if err := db.RunMigrations(ctx, sqlDB, db.DialectPostgres); err != nil {
			_ = sqlDB.Close()
			return nil, nil, err
		}
		telemetry.Info("bootstrap.usage_store", map[string]any{"store": "postgres"})
		return sqlDB, usage.NewPostgresService(sqlDB), nil
	case cfg.SQLitePath != "":
		sqlDB, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := db.RunMigrations(ctx, sqlDB, db.DialectSQLite); err != nil {
			_ = sqlDB.Close()
			return nil, nil, err
		}
		telemetry.Info("bootstrap.usage_store", map[string]any{"store": "sqlite", "path": cfg.SQLitePath})
		return sqlDB, usage.NewSQLiteService(sqlDB), nil
	default:
		telemetry.Info("bootstrap.usage_store", map[string]any{"store": "memory"})
		return nil, usage.NewService(), nil
	}
}

package server

import (
	"context"
	"database/sql"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"creditdispute-backend/internal/accounts"
	"creditdispute-backend/internal/extract"
	"creditdispute-backend/internal/llm"
	"creditdispute-backend/internal/llm/openai"
	"creditdispute-backend/internal/reports"
	"creditdispute-backend/internal/rounds"
	"creditdispute-backend/internal/scoring"
	"creditdispute-backend/internal/services/health"
	"creditdispute-backend/internal/shared/config"
	"creditdispute-backend/internal/shared/metrics"
	"creditdispute-backend/internal/shared/server/middleware"
	"creditdispute-backend/internal/shared/server/respond"
	"creditdispute-backend/internal/shared/storage/db"
	"creditdispute-backend/internal/shared/storage/object"
	localstore "creditdispute-backend/internal/shared/storage/object/local"
	s3store "creditdispute-backend/internal/shared/storage/object/s3"
	"creditdispute-backend/internal/shared/telemetry"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Auth(cfg.Env),
	)

	store := newObjectStore(cfg)
	sqlDB := connectDatabase(cfg)
	llmClient := newLLMClient(cfg)

	var reportsRepo reports.Repo
	var accountsRepo accounts.Repo
	var roundsRepo rounds.Repo
	if sqlDB != nil {
		reportsRepo = &reports.PGRepo{DB: sqlDB}
		accountsRepo = &accounts.PGRepo{DB: sqlDB}
		roundsRepo = &rounds.PGRepo{DB: sqlDB}
	} else {
		reportsRepo = reports.NewMemoryRepo()
		accountsRepo = accounts.NewMemoryRepo()
		roundsRepo = rounds.NewMemoryRepo()
	}

	extractor := extract.New(llmClient)
	reportsSvc := reports.NewService(reportsRepo, accountsRepo, store, extractor, &reports.LLMParser{Client: llmClient})
	reportsHandler := reports.NewHandler(reportsSvc)

	accountsSvc := accounts.NewService(accountsRepo, scoring.Recommender{}, cfg.MaxItemsPerRound)
	accountsHandler := accounts.NewHandler(accountsSvc)

	roundsSvc := rounds.NewService(roundsRepo)
	roundsHandler := rounds.NewHandler(roundsSvc)

	healthSvc := health.NewService()

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, healthSvc.Status())
	})
	api.GET("/metrics", metrics.Handler())
	reportsHandler.RegisterRoutes(api)
	accountsHandler.RegisterRoutes(api)
	roundsHandler.RegisterRoutes(api)

	return r
}

func newObjectStore(cfg config.Config) object.ObjectStore {
	if cfg.ObjectStoreType == "s3" && cfg.S3Bucket != "" {
		store, err := s3store.New(context.Background(), cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
		if err == nil {
			return store
		}
		telemetry.Error("storage.s3_init_failed", map[string]any{"error": err.Error()})
	}
	return localstore.New(cfg.LocalStoreDir)
}

func connectDatabase(cfg config.Config) *sql.DB {
	if cfg.DatabaseURL == "" {
		return nil
	}
	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	conn, err := db.Connect(context.Background(), cfg.DatabaseURL, opts)
	if err != nil {
		telemetry.Error("db.connect_failed", map[string]any{"error": err.Error()})
		return nil
	}
	if err := db.RunMigrations(context.Background(), conn); err != nil {
		telemetry.Error("db.migrate_failed", map[string]any{"error": err.Error()})
		return nil
	}
	return conn
}

// newLLMClient builds the configured provider, falling back to the
// placeholder when no key is present so dev runs still serve requests.
func newLLMClient(cfg config.Config) llm.Client {
	if cfg.LLMProvider == "openai" {
		if client, err := openai.NewClient(os.Getenv("OPENAI_API_KEY"), cfg.LLMModel); err == nil {
			return client
		}
	}
	telemetry.Warn("llm.placeholder_active", map[string]any{"provider": cfg.LLMProvider})
	return llm.PlaceholderClient{}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}

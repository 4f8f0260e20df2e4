package api

import (
	"github.com/Anantaverma20/NovaIQ/internal/api/handler"
	"github.com/Anantaverma20/NovaIQ/internal/api/middleware"
	"github.com/Anantaverma20/NovaIQ/internal/config"
	"github.com/Anantaverma20/NovaIQ/internal/logger"
	"github.com/Anantaverma20/NovaIQ/internal/repository"
	"github.com/Anantaverma20/NovaIQ/internal/service"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config        *config.Config
	DB            *gorm.DB
	Logger        *logger.Logger
	ArticleRepo   *repository.ArticleRepository
	RunRepo       *repository.RunRepository
	IngestService *service.IngestService
	AskService    *service.AskService
	VectorStore   service.VectorStore
}

// SetupRouter configures the Gin router with all routes
func SetupRouter(deps Deps) *gin.Engine {
	switch deps.Config.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(deps.Logger))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  deps.Config.Server.CORS.AllowedOrigins,
		AllowAllOrigins: deps.Config.Server.CORS.AllowAllOrigins,
	}))

	healthHandler := handler.NewHealthHandler(
		deps.DB,
		deps.VectorStore,
		deps.Config.VectorsEnabled(),
		deps.Config.SearchAPI.Configured(),
	)
	ingestHandler := handler.NewIngestHandler(
		deps.IngestService,
		deps.RunRepo,
		deps.Config.Ingest.DefaultQuery,
		deps.Config.Ingest.MaxResults,
	)
	askHandler := handler.NewAskHandler(deps.AskService)
	articleHandler := handler.NewArticleHandler(deps.ArticleRepo, deps.IngestService)

	// Health check
	r.GET("/health", healthHandler.Health)

	// Webhook surface, guarded by shared secret
	webhook := r.Group("/webhook")
	webhook.Use(middleware.WebhookAuth(deps.Config.Ingest.WebhookSecret))
	{
		webhook.POST("/ingest", ingestHandler.TriggerRun)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Ingestion
		v1.POST("/ingest/run", ingestHandler.TriggerRun)
		v1.POST("/reindex", ingestHandler.Reindex)
		v1.GET("/runs", ingestHandler.ListRuns)
		v1.GET("/runs/latest", ingestHandler.LatestRun)

		// Retrieval
		v1.POST("/ask", askHandler.Ask)

		// Articles
		v1.GET("/articles", articleHandler.ListArticles)
		v1.GET("/articles/:id", articleHandler.GetArticle)
		v1.POST("/articles", articleHandler.SubmitArticle)
	}

	return r
}

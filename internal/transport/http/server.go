package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"researchhub/internal/ai"
	appsvc "researchhub/internal/app"
	"researchhub/internal/bootstrap"
	"researchhub/internal/cache"
	"researchhub/internal/repository"
	"researchhub/internal/transport/http/handler"
	"researchhub/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	userRepo := repository.NewUserRepository(app.MySQL)
	workspaceRepo := repository.NewWorkspaceRepository(app.MySQL)
	paperRepo := repository.NewPaperRepository(app.MySQL)
	chatRepo := repository.NewChatRepository(app.MySQL)

	authService := appsvc.NewAuthService(
		userRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)
	workspaceService := appsvc.NewWorkspaceService(workspaceRepo)

	var archive appsvc.PDFArchive
	if app.S3 != nil {
		archive = app.S3
	}
	paperService := appsvc.NewPaperService(workspaceRepo, paperRepo, app.Arxiv, archive, app.Logger)

	var embCache appsvc.EmbeddingCache
	if app.Redis != nil {
		embCache = cache.NewEmbeddingCache(
			app.Redis,
			time.Duration(app.Config.Redis.EmbeddingTTLSeconds)*time.Second,
		)
	}
	chatService := appsvc.NewChatService(
		workspaceRepo,
		paperRepo,
		chatRepo,
		app.LLMClient,
		app.LLMClient,
		embCache,
		ai.EmbeddingConfig{
			BaseURL: app.Config.LLM.BaseURL,
			APIKey:  app.Config.LLM.APIKey,
			Model:   app.Config.LLM.EmbeddingModel,
		},
		ai.ChatConfig{
			BaseURL:     app.Config.LLM.BaseURL,
			APIKey:      app.Config.LLM.APIKey,
			Model:       app.Config.LLM.Model,
			Temperature: app.Config.LLM.Temperature,
			MaxTokens:   app.Config.LLM.MaxTokens,
		},
		app.Logger,
	)

	authHandler := handler.NewAuthHandler(authService)
	workspaceHandler := handler.NewWorkspaceHandler(workspaceService)
	paperHandler := handler.NewPaperHandler(paperService)
	chatHandler := handler.NewChatHandler(chatService)

	authRequired := middleware.AuthJWT(app.Config.Auth.JWTSecret, authService)

	v1 := router.Group("/api/v1")
	authGroup := v1.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", authRequired, authHandler.Me)

	workspaceGroup := v1.Group("/workspaces")
	workspaceGroup.Use(authRequired)
	workspaceGroup.POST("", workspaceHandler.Create)
	workspaceGroup.GET("", workspaceHandler.List)

	paperGroup := v1.Group("/papers")
	paperGroup.Use(authRequired)
	paperGroup.GET("/search", paperHandler.Search)
	paperGroup.POST("/import", paperHandler.Import)
	paperGroup.POST("/upload", paperHandler.Upload)
	paperGroup.GET("/workspace/:id", paperHandler.ListByWorkspace)
	paperGroup.DELETE("/:id", paperHandler.Delete)

	chatGroup := v1.Group("/chat")
	chatGroup.Use(authRequired)
	chatGroup.POST("", chatHandler.Ask)
	chatGroup.GET("/history/:workspace_id", chatHandler.History)
	chatGroup.DELETE("/history/:workspace_id", chatHandler.ClearHistory)

	return router
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mediaportal/portal-backend/internal/app"
	"github.com/mediaportal/portal-backend/internal/config"
	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/mediaportal/portal-backend/internal/handler"
	"github.com/mediaportal/portal-backend/internal/middleware"
	"github.com/mediaportal/portal-backend/internal/migration"
	"github.com/mediaportal/portal-backend/internal/routes"
	"github.com/mediaportal/portal-backend/internal/ws"
	pkglogger "github.com/mediaportal/portal-backend/pkg/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Media Portal API
// @version         1.0
// @description     Articles, blog, wiki, gallery and stories with comments, ratings, versions and search
//
// @license.name    MIT
//
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Example: "Bearer {token}"

func main() {
	dotenvFiles := config.LoadDotEnv()

	// 로거 초기화
	env := os.Getenv("APP_ENV")
	pkglogger.InitStructured(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)

	// 설정 로드
	configPath := config.PathForEnv(env)
	cfg, err := config.Load(configPath)
	if err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Str("path", configPath).Msg("failed to load config")
	}
	pkglogger.Init(cfg.Server.LogLevel)
	config.LogResolved(cfg)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := domain.RegisterValidators(); err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Msg("failed to register validators")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	infra, err := app.Open(ctx, cfg)
	if err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Msg("failed to open infrastructure")
	}
	defer infra.Close()

	if err := migration.Run(infra.DB); err != nil {
		pkglogger.Warn("Migration warning: %v", err)
	}

	// WebSocket Hub
	wsHub := ws.NewHub(infra.Redis)
	go wsHub.Run()
	defer wsHub.Stop()

	svcs := app.NewServices(cfg, infra, wsHub)
	if svcs.Search.Enabled() {
		if err := svcs.Search.EnsureIndex(ctx); err != nil {
			pkglogger.Warn("Search index warning: %v", err)
		}
	}

	router := newRouter(cfg, infra, svcs, wsHub)

	go reportDBStats(ctx, infra)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		pkglogger.Info("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			pkglogger.GetLogger().Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	pkglogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		pkglogger.Error("Server forced to shutdown: %v", err)
	}
}

func newRouter(cfg *config.Config, infra *app.Infra, svcs *app.Services, wsHub *ws.Hub) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// CORS 설정
	corsConfig := cors.Config{
		AllowOrigins:     splitOrigins(cfg.CORS.AllowOrigins),
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:           12 * time.Hour,
	}
	if len(corsConfig.AllowOrigins) == 1 && corsConfig.AllowOrigins[0] == "*" {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	router.Use(cors.New(corsConfig))

	// Middleware
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.InputSanitizer())
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.BodyLimit(int64(cfg.Storage.MaxUploadMB+1) << 20))
	if infra.Redis != nil && !cfg.IsDevelopment() {
		router.Use(middleware.RateLimit(infra.Redis, middleware.DefaultRateLimitConfig()))
	}

	// Prometheus metrics / Swagger / Health
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	health := handler.NewHealthHandler(infra.DB, infra.Redis)
	router.GET("/health", health.Health)
	router.GET("/ready", health.Ready)

	routes.Setup(router, &routes.Handlers{
		Auth:         handler.NewAuthHandler(svcs.Auth, !cfg.IsDevelopment(), cfg.JWT.RefreshIn),
		User:         handler.NewUserHandler(svcs.Users),
		Author:       handler.NewAuthorHandler(svcs.Authors),
		Taxonomy:     handler.NewTaxonomyHandler(svcs.Taxonomy),
		Article:      handler.NewArticleHandler(svcs.Articles),
		Blog:         handler.NewBlogHandler(svcs.Blog),
		Story:        handler.NewStoryHandler(svcs.Stories),
		Wiki:         handler.NewWikiHandler(svcs.Wiki),
		Gallery:      handler.NewGalleryHandler(svcs.Gallery),
		Comment:      handler.NewCommentHandler(svcs.Comments),
		Rating:       handler.NewRatingHandler(svcs.Ratings),
		Version:      handler.NewContentVersionHandler(svcs.Versions),
		Search:       handler.NewSearchHandler(svcs.Search),
		Notification: handler.NewNotificationHandler(svcs.Notifications),
		WS:           handler.NewWSHandler(wsHub, cfg.CORS.AllowOrigins),
	}, svcs.JWT, svcs.Blacklist, infra.Redis)

	return router
}

// reportDBStats feeds the connection pool gauges every 15s
func reportDBStats(ctx context.Context, infra *app.Infra) {
	sqlDB, err := infra.DB.DB()
	if err != nil {
		return
	}
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			middleware.ObserveDBStats(sqlDB.Stats())
		}
	}
}

func splitOrigins(s string) []string {
	var origins []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/mediaportal/portal-backend/internal/handler"
	"github.com/mediaportal/portal-backend/internal/middleware"
	"github.com/mediaportal/portal-backend/pkg/jwt"
	"github.com/redis/go-redis/v9"
)

// Handlers bundles every HTTP handler mounted under /api/v1
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Author       *handler.AuthorHandler
	Taxonomy     *handler.TaxonomyHandler
	Article      *handler.ArticleHandler
	Blog         *handler.BlogHandler
	Story        *handler.StoryHandler
	Wiki         *handler.WikiHandler
	Gallery      *handler.GalleryHandler
	Comment      *handler.CommentHandler
	Rating       *handler.RatingHandler
	Version      *handler.ContentVersionHandler
	Search       *handler.SearchHandler
	Notification *handler.NotificationHandler
	WS           *handler.WSHandler
}

// Setup configures all API routes; redisClient may be nil (rate limiting off)
func Setup(
	router *gin.Engine,
	h *Handlers,
	jwtManager *jwt.Manager,
	blacklist middleware.TokenChecker,
	redisClient *redis.Client,
) {
	requireAuth := middleware.JWTAuth(jwtManager, blacklist)
	optionalAuth := middleware.OptionalAuth(jwtManager, blacklist)

	api := router.Group("/api/v1")

	// Authentication (로그인/가입은 IP당 분당 20회)
	authLimit := middleware.DefaultRateLimitConfig()
	authLimit.RequestsPerMinute = 20
	authLimit.KeyPrefix = "ratelimit:auth:"

	auth := api.Group("/auth")
	auth.POST("/register", middleware.RateLimit(redisClient, authLimit), h.Auth.Register)
	auth.POST("/login", middleware.RateLimit(redisClient, authLimit), h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", requireAuth, h.Auth.Logout)
	auth.POST("/logout-all", requireAuth, h.Auth.LogoutAll)
	auth.GET("/me", requireAuth, h.Auth.Me)

	// 사용자 관리 (관리자)
	users := api.Group("/users", requireAuth, middleware.RequireAdmin())
	users.GET("", h.User.List)
	users.PATCH("/:id/role", h.User.UpdateRole)

	// 작가
	authors := api.Group("/authors")
	authors.GET("", h.Author.List)
	authors.GET("/id/:id", h.Author.GetByID)
	authors.GET("/:slug", h.Author.GetBySlug)
	authors.GET("/:slug/content", h.Author.ContentSummary)
	authors.POST("", requireAuth, middleware.RequireStaff(), h.Author.Create)
	authors.PUT("/:id", requireAuth, middleware.RequireStaff(), h.Author.Update)
	authors.DELETE("/:id", requireAuth, middleware.RequireStaff(), h.Author.Delete)

	// 카테고리 / 태그
	categories := api.Group("/categories")
	categories.GET("", h.Taxonomy.ListCategories)
	categories.POST("", requireAuth, middleware.RequireStaff(), h.Taxonomy.CreateCategory)
	categories.DELETE("/:id", requireAuth, middleware.RequireStaff(), h.Taxonomy.DeleteCategory)

	tags := api.Group("/tags")
	tags.GET("", h.Taxonomy.ListTags)
	tags.POST("", requireAuth, middleware.RequireStaff(), h.Taxonomy.CreateTag)
	tags.DELETE("/:id", requireAuth, middleware.RequireStaff(), h.Taxonomy.DeleteTag)

	// 아티클
	articles := api.Group("/articles")
	articles.GET("", optionalAuth, h.Article.List)
	articles.GET("/featured", optionalAuth, h.Article.Featured)
	articles.GET("/id/:id", optionalAuth, h.Article.GetByID)
	articles.GET("/:slug", optionalAuth, h.Article.GetBySlug)
	articles.POST("", requireAuth, h.Article.Create)
	articles.PUT("/:id", requireAuth, h.Article.Update)
	articles.DELETE("/:id", requireAuth, h.Article.Delete)

	// 블로그
	blog := api.Group("/blog")
	blog.GET("", optionalAuth, h.Blog.List)
	blog.GET("/id/:id", optionalAuth, h.Blog.GetByID)
	blog.GET("/:slug", optionalAuth, h.Blog.GetBySlug)
	blog.POST("", requireAuth, h.Blog.Create)
	blog.PUT("/:id", requireAuth, h.Blog.Update)
	blog.DELETE("/:id", requireAuth, h.Blog.Delete)

	// 스토리
	stories := api.Group("/stories")
	stories.GET("", optionalAuth, h.Story.List)
	stories.GET("/series/:series", optionalAuth, h.Story.Series)
	stories.GET("/id/:id", optionalAuth, h.Story.GetByID)
	stories.GET("/:slug", optionalAuth, h.Story.GetBySlug)
	stories.POST("", requireAuth, h.Story.Create)
	stories.PUT("/:id", requireAuth, h.Story.Update)
	stories.DELETE("/:id", requireAuth, h.Story.Delete)

	// 위키
	wiki := api.Group("/wiki")
	wiki.GET("", optionalAuth, h.Wiki.List)
	wiki.GET("/tree", h.Wiki.Tree)
	wiki.GET("/id/:id", optionalAuth, h.Wiki.GetByID)
	wiki.GET("/:slug", optionalAuth, h.Wiki.GetBySlug)
	wiki.GET("/:slug/breadcrumbs", optionalAuth, h.Wiki.Breadcrumbs)
	wiki.GET("/:slug/children", optionalAuth, h.Wiki.Children)
	wiki.POST("", requireAuth, h.Wiki.Create)
	wiki.PUT("/:id", requireAuth, h.Wiki.Update)
	wiki.DELETE("/:id", requireAuth, h.Wiki.Delete)

	// 갤러리
	gallery := api.Group("/gallery")
	gallery.GET("", optionalAuth, h.Gallery.List)
	gallery.GET("/id/:id", optionalAuth, h.Gallery.GetByID)
	gallery.GET("/:slug", optionalAuth, h.Gallery.GetBySlug)
	gallery.POST("", requireAuth, h.Gallery.Upload)
	gallery.PUT("/:id", requireAuth, h.Gallery.Update)
	gallery.DELETE("/:id", requireAuth, h.Gallery.Delete)

	// 댓글
	comments := api.Group("/comments")
	comments.GET("/:type/:id", optionalAuth, h.Comment.List)
	comments.POST("", requireAuth, h.Comment.Create)
	comments.PUT("/:id", requireAuth, h.Comment.Update)
	comments.DELETE("/:id", requireAuth, h.Comment.Delete)
	comments.PATCH("/:id/status", requireAuth, middleware.RequireStaff(), h.Comment.Moderate)

	// 평점
	ratings := api.Group("/ratings")
	ratings.GET("/:type/:id", h.Rating.Summary)
	ratings.GET("/:type/:id/me", requireAuth, h.Rating.Mine)
	ratings.POST("", requireAuth, h.Rating.Rate)
	ratings.DELETE("/:type/:id", requireAuth, h.Rating.Delete)

	// 콘텐츠 버전
	versions := api.Group("/content-versions", requireAuth)
	versions.POST("", h.Version.Create)
	versions.POST("/prune", middleware.RequireStaff(), h.Version.Prune)
	versions.GET("/diff/:from/:to", h.Version.Diff)
	versions.GET("/version/:versionId", h.Version.Get)
	versions.POST("/version/:versionId/restore", h.Version.Restore)
	versions.GET("/:type/:id", h.Version.List)

	// 검색
	search := api.Group("/search")
	search.GET("", h.Search.Search)
	search.GET("/suggest", h.Search.Suggest)
	search.POST("/reindex", requireAuth, middleware.RequireAdmin(), h.Search.Reindex)

	// 알림
	notifications := api.Group("/notifications", requireAuth)
	notifications.GET("", h.Notification.GetList)
	notifications.GET("/unread-count", h.Notification.GetUnreadCount)
	notifications.POST("/read-all", h.Notification.MarkAllAsRead)
	notifications.POST("/:id/read", h.Notification.MarkAsRead)
	notifications.DELETE("/:id", h.Notification.Delete)

	// WebSocket
	router.GET("/ws/notifications", requireAuth, h.WS.Connect)
}

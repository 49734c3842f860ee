// Package app opens the shared infrastructure and wires repositories and
// services for the api, worker and portalctl binaries.
package app

import (
	"context"
	"fmt"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/hibiken/asynq"
	"github.com/mediaportal/portal-backend/internal/config"
	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/mediaportal/portal-backend/internal/jobs"
	"github.com/mediaportal/portal-backend/internal/repository"
	"github.com/mediaportal/portal-backend/internal/service"
	pkgcache "github.com/mediaportal/portal-backend/pkg/cache"
	pkges "github.com/mediaportal/portal-backend/pkg/elasticsearch"
	"github.com/mediaportal/portal-backend/pkg/jwt"
	pkglogger "github.com/mediaportal/portal-backend/pkg/logger"
	pkgredis "github.com/mediaportal/portal-backend/pkg/redis"
	pkgstorage "github.com/mediaportal/portal-backend/pkg/storage"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Infra holds the external connections; optional ones are nil when disabled or unreachable
type Infra struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Search *pkges.Client
	Store  *pkgstorage.S3Client
	Jobs   *jobs.Client
}

// OpenDB MySQL 연결 초기화
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	mysqlCfg, err := mysqldriver.ParseDSN(cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("DSN 파싱 실패: %w", err)
	}
	mysqlCfg.ParseTime = true
	if mysqlCfg.Params == nil {
		mysqlCfg.Params = map[string]string{}
	}
	mysqlCfg.Params["charset"] = "utf8mb4"

	db, err := gorm.Open(mysql.Open(mysqlCfg.FormatDSN()), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormLogLevel(cfg.Database.LogLevel)),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)
	return db, nil
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

// RedisConnOpt is the asynq connection for the configured Redis
func RedisConnOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
}

// Open connects to MySQL (required) and to Redis, Elasticsearch and S3 when configured
func Open(ctx context.Context, cfg *config.Config) (*Infra, error) {
	db, err := OpenDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	infra := &Infra{DB: db}

	redisClient, err := pkgredis.NewClient(ctx, cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.PoolSize)
	if err != nil {
		pkglogger.Warn("Redis unavailable: %v (cache, blacklist and queue disabled)", err)
	} else {
		infra.Redis = redisClient
		infra.Jobs = jobs.NewClient(RedisConnOpt(cfg), cfg.Queue.Attempts)
	}

	if cfg.Elasticsearch.Enabled && len(cfg.Elasticsearch.Addresses) > 0 {
		esClient, err := pkges.NewClient(cfg.Elasticsearch.Addresses, cfg.Elasticsearch.Username, cfg.Elasticsearch.Password)
		if err != nil {
			pkglogger.Warn("Elasticsearch unavailable: %v (search disabled)", err)
		} else {
			infra.Search = esClient
		}
	}

	if cfg.Storage.Enabled && cfg.Storage.Bucket != "" {
		store, err := pkgstorage.NewS3Client(pkgstorage.S3Config{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.Bucket,
			CDNURL:          cfg.Storage.CDNURL,
			BasePath:        cfg.Storage.BasePath,
			ForcePathStyle:  cfg.Storage.ForcePathStyle,
		})
		if err != nil {
			pkglogger.Warn("S3 storage init failed: %v (uploads disabled)", err)
		} else {
			infra.Store = store
		}
	}
	return infra, nil
}

// Close releases every open connection
func (i *Infra) Close() {
	if i.Jobs != nil {
		_ = i.Jobs.Close()
	}
	if i.Redis != nil {
		_ = i.Redis.Close()
	}
	if sqlDB, err := i.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// Services is the fully wired service layer
type Services struct {
	JWT           *jwt.Manager
	Blacklist     *jwt.Blacklist
	Auth          *service.AuthService
	Users         *service.UserService
	Authors       *service.AuthorService
	Taxonomy      *service.TaxonomyService
	Articles      *service.ArticleService
	Blog          *service.BlogService
	Stories       *service.StoryService
	Wiki          *service.WikiService
	Gallery       *service.GalleryService
	Comments      *service.CommentService
	Ratings       *service.RatingService
	Versions      *service.ContentVersionService
	Search        *service.SearchService
	Notifications *service.NotificationService
	Registry      *service.ContentRegistry
}

// NewServices wires repositories and services; pusher may be nil (no real-time push)
func NewServices(cfg *config.Config, infra *Infra, pusher service.NotificationPusher) *Services {
	db := infra.DB
	cacheService := pkgcache.NewService(infra.Redis)

	var enqueuer jobs.Enqueuer = jobs.Nop{}
	if infra.Jobs != nil {
		enqueuer = infra.Jobs
	}
	var store pkgstorage.ObjectStore
	if infra.Store != nil {
		store = infra.Store
	}
	var engine service.SearchEngine
	if infra.Search != nil {
		engine = infra.Search
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	lookup := repository.NewContentLookup(db)

	s := &Services{
		JWT:       jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn, cfg.JWT.RefreshIn),
		Blacklist: jwt.NewBlacklist(infra.Redis),
	}

	s.Versions = service.NewContentVersionService(
		repository.NewContentVersionRepository(db), lookup, enqueuer, cacheService, cfg.Versioning.AutosaveKeep)

	s.Articles = service.NewArticleService(
		repository.NewContentRepository[domain.Article](db), s.Versions, enqueuer, cacheService)
	s.Blog = service.NewBlogService(
		repository.NewContentRepository[domain.BlogPost](db), s.Versions, enqueuer, cacheService)
	s.Stories = service.NewStoryService(
		repository.NewContentRepository[domain.Story](db), s.Versions, enqueuer, cacheService)
	s.Wiki = service.NewWikiService(repository.NewWikiRepository(db), s.Versions, enqueuer, cacheService)
	s.Gallery = service.NewGalleryService(
		repository.NewContentRepository[domain.GalleryItem](db), s.Versions, enqueuer, cacheService, store,
		service.GalleryConfig{
			MaxUploadBytes: int64(cfg.Storage.MaxUploadMB) << 20,
			ThumbnailWidth: cfg.Storage.ThumbnailWidth,
		})
	s.Registry = service.NewContentRegistry(s.Articles, s.Blog, s.Stories, s.Wiki, s.Gallery)
	s.Versions.UseInvalidator(s.Registry)

	s.Auth = service.NewAuthService(userRepo, sessionRepo, s.JWT, s.Blacklist, enqueuer)
	s.Users = service.NewUserService(userRepo, s.Auth)
	s.Authors = service.NewAuthorService(repository.NewAuthorRepository(db), userRepo, lookup)
	s.Taxonomy = service.NewTaxonomyService(repository.NewTaxonomyRepository(db))
	s.Notifications = service.NewNotificationService(repository.NewNotificationRepository(db), pusher)
	s.Comments = service.NewCommentService(repository.NewCommentRepository(db), lookup, s.Notifications)
	s.Ratings = service.NewRatingService(repository.NewRatingRepository(db), lookup, cacheService)
	s.Search = service.NewSearchService(engine, s.Registry, cacheService, cfg.Elasticsearch.Index)
	return s
}

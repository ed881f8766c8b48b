package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"researchhub/internal/ai"
	"researchhub/internal/arxiv"
	"researchhub/internal/config"
	"researchhub/internal/model"
	mysqlClient "researchhub/internal/platform/mysql"
	redisClient "researchhub/internal/platform/redis"
	s3Client "researchhub/internal/platform/s3"
)

type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	MySQL     *gorm.DB
	Redis     *redis.Client // nil when the embedding cache is disabled
	S3        *s3Client.Client
	Arxiv     *arxiv.Client
	LLMClient *ai.OpenAICompatibleClient

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	logger, err := newLogger(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("build logger failed: %w", err)
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(
		&model.User{},
		&model.Workspace{},
		&model.Paper{},
		&model.Chat{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	var redisCli *redis.Client
	if cfg.Redis.Addr != "" {
		redisCli, err = redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
	}

	var s3Cli *s3Client.Client
	if cfg.S3.Bucket != "" {
		s3Cli, err = s3Client.New(ctx, s3Client.Options{
			Endpoint: cfg.S3.Endpoint,
			Region:   cfg.S3.Region,
			Key:      cfg.S3.Key,
			Secret:   cfg.S3.Secret,
			Bucket:   cfg.S3.Bucket,
		})
		if err != nil {
			return nil, err
		}
	}

	return &App{
		Config:    cfg,
		Logger:    logger,
		MySQL:     mysqlDB,
		Redis:     redisCli,
		S3:        s3Cli,
		Arxiv:     arxiv.NewClient(cfg.Arxiv.BaseURL, cfg.Arxiv.MaxResults, logger),
		LLMClient: ai.NewOpenAICompatibleClient(),
		StartedAt: time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	return closeErr
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "prod" || env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

package workerapp

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/ivankudzin/estate-backoffice/internal/config"
	"github.com/ivankudzin/estate-backoffice/internal/infra/httpclient"
	s3infra "github.com/ivankudzin/estate-backoffice/internal/infra/s3"
	"github.com/ivankudzin/estate-backoffice/internal/infra/telegram"
	"github.com/ivankudzin/estate-backoffice/internal/jobs/tasks"
	"github.com/ivankudzin/estate-backoffice/internal/repo/memory"
	pgrepo "github.com/ivankudzin/estate-backoffice/internal/repo/postgres"
	"github.com/ivankudzin/estate-backoffice/internal/services/media"
	"github.com/ivankudzin/estate-backoffice/internal/services/notify"
	"github.com/ivankudzin/estate-backoffice/internal/services/slots"
)

// App runs the side effect tasks that the API enqueues after moderation commits.
type App struct {
	cfg    config.Config
	logger *zap.Logger
	server *asynq.Server
	mux    *asynq.ServeMux
	pool   *pgxpool.Pool
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	var (
		pool  *pgxpool.Pool
		chats notify.ChatDirectory
	)
	if cfg.Storage.Driver == "memory" {
		chats = memory.NewStore()
	} else {
		p, err := pgrepo.NewPool(ctx, poolConfig(cfg.Postgres))
		if err != nil {
			log.Warn("postgres init failed, owner notifications will fail", zap.Error(err))
		} else {
			pool = p
		}
		chats = pgrepo.NewStore(pool)
	}

	var sender notify.Sender
	if bot, err := telegram.NewBot(cfg.Telegram.BotToken); err != nil {
		log.Warn("telegram bot init failed, owner notifications disabled", zap.Error(err))
	} else {
		sender = bot
	}

	var remover tasks.MediaRemover
	minioClient, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		Region:    cfg.S3.Region,
		UseSSL:    cfg.S3.UseSSL,
	})
	if err != nil {
		log.Warn("s3 init failed, media purge disabled", zap.Error(err))
	} else {
		if err := s3infra.CheckBucket(ctx, minioClient, cfg.S3.Bucket); err != nil {
			log.Warn("s3 bucket check failed, purges will be retried", zap.Error(err))
		}
		remover = media.NewS3Purger(minioClient, cfg.S3.Bucket)
	}

	slotsClient := slots.NewClient(httpclient.New(cfg.Slots.Timeout), slots.Config{
		BaseURL:      cfg.Slots.BaseURL,
		Token:        cfg.Slots.Token,
		MaxAttempts:  cfg.Moderation.SideEffects.MaxAttempts,
		InitialDelay: cfg.Moderation.SideEffects.InitialDelay,
	})

	processor := tasks.NewProcessor(
		slotsClient,
		remover,
		notify.NewService(chats, sender),
		log.Named("tasks"),
	)

	mux := asynq.NewServeMux()
	processor.Register(mux)

	server := asynq.NewServer(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, asynq.Config{
		Concurrency: cfg.Worker.Concurrency,
		Queues:      tasks.Queues,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)
			log.Warn("side effect task failed",
				zap.String("type", task.Type()),
				zap.Int("retried", retried),
				zap.Int("max_retry", maxRetry),
				zap.Error(err),
			)
		}),
		Logger: newAsynqLogger(log.Named("asynq")),
	})

	return &App{
		cfg:    cfg,
		logger: log,
		server: server,
		mux:    mux,
		pool:   pool,
	}, nil
}

// Run starts the task server and blocks until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("worker started",
		zap.String("redis", a.cfg.Redis.Addr),
		zap.Int("concurrency", a.cfg.Worker.Concurrency),
	)
	if err := a.server.Start(a.mux); err != nil {
		return fmt.Errorf("start asynq server: %w", err)
	}
	<-ctx.Done()
	return nil
}

func (a *App) Shutdown() {
	a.server.Shutdown()
	if a.pool != nil {
		a.pool.Close()
	}
}

func poolConfig(cfg config.PostgresConfig) pgrepo.PoolConfig {
	return pgrepo.PoolConfig{
		DSN:             cfg.DSN,
		MaxConns:        cfg.MaxConns,
		MinConns:        cfg.MinConns,
		MaxConnIdleTime: cfg.MaxConnIdleTime,
	}
}

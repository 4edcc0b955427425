package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ivankudzin/estate-backoffice/internal/config"
	"github.com/ivankudzin/estate-backoffice/internal/domain/enums"
	redrepo "github.com/ivankudzin/estate-backoffice/internal/repo/redis"
	"github.com/ivankudzin/estate-backoffice/internal/services/access"
	auditsvc "github.com/ivankudzin/estate-backoffice/internal/services/audit"
	authsvc "github.com/ivankudzin/estate-backoffice/internal/services/auth"
	countersvc "github.com/ivankudzin/estate-backoffice/internal/services/counters"
	listingsvc "github.com/ivankudzin/estate-backoffice/internal/services/listings"
	reportsvc "github.com/ivankudzin/estate-backoffice/internal/services/reports"
	"github.com/ivankudzin/estate-backoffice/internal/services/sideeffects"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	storage    storage
	redis      *goredis.Client
	queue      *asynq.Client
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	store := openStorage(ctx, cfg, log)

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	countsCache := redrepo.NewCountsCacheRepo(redisClient)

	queue := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	dispatcher := sideeffects.NewDispatcher(queue, sideeffects.Config{
		MaxAttempts:  cfg.Moderation.SideEffects.MaxAttempts,
		InitialDelay: cfg.Moderation.SideEffects.InitialDelay,
		TaskRetries:  cfg.Moderation.SideEffects.TaskRetries,
		TaskTimeout:  cfg.Moderation.SideEffects.TaskTimeout,
	}, log.Named("sideeffects"))

	guard := access.NewGuard(elevatedRoles(cfg.Moderation.ElevatedRoles, log)...)
	tokens := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)

	listingService := listingsvc.NewService(guard, store.reader, store.listingTx, dispatcher, log.Named("listings"))
	reportService := reportsvc.NewService(guard, store.reader, store.reportTx, dispatcher, log.Named("reports"))
	countersService := countersvc.NewService(guard, store.counter, countsCache, cfg.Moderation.CountsTTL, log.Named("counters"))
	auditService := auditsvc.NewService(guard, store.reader)

	RegisterRoutes(r, Dependencies{
		Tokens:          tokens,
		ListingService:  listingService,
		ReportService:   reportService,
		CountersService: countersService,
		AuditService:    auditService,
		Logger:          log,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		storage:    store,
		redis:      redisClient,
		queue:      queue,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	a.storage.Close()
	if a.queue != nil {
		if err := a.queue.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}

func elevatedRoles(raw []string, log *zap.Logger) []enums.Role {
	out := make([]enums.Role, 0, len(raw))
	for _, value := range raw {
		role := enums.ParseRole(value)
		if role == enums.RoleNone {
			log.Warn("ignoring unknown elevated role", zap.String("role", value))
			continue
		}
		out = append(out, role)
	}
	return out
}

package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Aizen-Agency/dreamster-be/internal/config"
	s3infra "github.com/Aizen-Agency/dreamster-be/internal/infra/s3"
	"github.com/Aizen-Agency/dreamster-be/internal/payment"
	pgrepo "github.com/Aizen-Agency/dreamster-be/internal/repo/postgres"
	redrepo "github.com/Aizen-Agency/dreamster-be/internal/repo/redis"
	authsvc "github.com/Aizen-Agency/dreamster-be/internal/services/auth"
	checkoutsvc "github.com/Aizen-Agency/dreamster-be/internal/services/checkout"
	fulfillsvc "github.com/Aizen-Agency/dreamster-be/internal/services/fulfillment"
	librarysvc "github.com/Aizen-Agency/dreamster-be/internal/services/library"
	likessvc "github.com/Aizen-Agency/dreamster-be/internal/services/likes"
	perksvc "github.com/Aizen-Agency/dreamster-be/internal/services/perks"
	ratesvc "github.com/Aizen-Agency/dreamster-be/internal/services/rate"
	trackssvc "github.com/Aizen-Agency/dreamster-be/internal/services/tracks"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	s3         *minio.Client
	httpRouter http.Handler
}

// New wires the whole API. Postgres, redis and s3 failures downgrade to a
// degraded boot instead of refusing to start, so /healthz stays observable
// while infrastructure recovers.
func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	var redisClient *goredis.Client
	if c, err := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		log.Warn("redis init failed, continuing in degraded mode", zap.Error(err))
	} else {
		redisClient = c
	}

	var s3Client *minio.Client
	if c, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, continuing in degraded mode", zap.Error(err))
	} else {
		s3Client = c
	}

	userRepo := pgrepo.NewUserRepo(pool)
	trackRepo := pgrepo.NewTrackRepo(pool)
	transactionRepo := pgrepo.NewTransactionRepo(pool)
	ownershipRepo := pgrepo.NewOwnershipRepo(pool)
	perkRepo := pgrepo.NewPerkRepo(pool)
	trackLikeRepo := pgrepo.NewTrackLikeRepo(pool)
	rateRepo := redrepo.NewRateRepo(redisClient)
	cacheRepo := redrepo.NewCacheRepo(redisClient)

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	gateway := payment.NewStripeGateway(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)

	checkoutLimiter := ratesvc.NewLimiter(rateRepo, "checkout",
		cfg.Market.Limits.CheckoutPerMinute, cfg.Market.Limits.CheckoutPer10Sec)
	likesLimiter := ratesvc.NewLimiter(rateRepo, "likes",
		cfg.Market.Limits.LikesPerMinute, cfg.Market.Limits.LikesPer10Sec)

	checkoutService := checkoutsvc.NewService(checkoutsvc.Dependencies{
		Gateway:     gateway,
		Users:       userRepo,
		Tracks:      trackRepo,
		Ownerships:  ownershipRepo,
		SuccessURL:  cfg.Stripe.SuccessURL,
		CancelURL:   cfg.Stripe.CancelURL,
		Currency:    cfg.Stripe.Currency,
		MaxQuantity: cfg.Market.MaxQuantity,
	})
	fulfillmentService := fulfillsvc.NewService(fulfillsvc.Dependencies{
		Gateway:      gateway,
		Transactions: transactionRepo,
		Cache:        cacheRepo,
		Logger:       log,
	})
	libraryService := librarysvc.NewService(librarysvc.Dependencies{
		Ownerships:   ownershipRepo,
		Transactions: transactionRepo,
		Cache:        cacheRepo,
		CacheTTL:     cfg.Market.OwnsCacheTTL,
		Logger:       log,
	})
	perksService := perksvc.NewService(perkRepo)
	likesService := likessvc.NewService(likessvc.Dependencies{
		Likes: trackLikeRepo,
		NotFoundMatch: func(err error) bool {
			return errors.Is(err, pgrepo.ErrTrackNotFound)
		},
	})

	trackStorage := trackssvc.NewS3Storage(s3Client, cfg.S3.Bucket)
	tracksService := trackssvc.NewService(trackssvc.Dependencies{
		Tracks: trackRepo,
		Signer: trackStorage,
		Stats:  cacheRepo,
		URLTTL: cfg.Market.StreamURLTTL,
		Logger: log,
	})

	RegisterRoutes(r, Dependencies{
		JWTManager:         jwtManager,
		CheckoutService:    checkoutService,
		FulfillmentService: fulfillmentService,
		LibraryService:     libraryService,
		PerksService:       perksService,
		LikesService:       likesService,
		TracksService:      tracksService,
		CheckoutLimiter:    checkoutLimiter,
		LikesLimiter:       likesLimiter,
		Logger:             log,
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
		postgres:   pool,
		redis:      redisClient,
		s3:         s3Client,
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
	if a.postgres != nil {
		a.postgres.Close()
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

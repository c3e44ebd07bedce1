package router

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"cutroom/internal/api/v1/handler"
	"cutroom/internal/config"
	"cutroom/internal/middleware"
	"cutroom/internal/pubsub"
	"cutroom/internal/repository"
	"cutroom/internal/service"
	"cutroom/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// Resources are the long-lived clients main must close on shutdown.
type Resources struct {
	Pool      *pgxpool.Pool
	Publisher *pubsub.PubSubPublisher
}

func (r *Resources) Close() {
	if r.Publisher != nil {
		r.Publisher.Close()
	}
	if r.Pool != nil {
		r.Pool.Close()
	}
}

func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (http.Handler, *Resources, error) {
	logger.Info().Str("environment", cfg.Environment).Msg("App environment loaded")

	// 1. Open DB pool
	pool, err := pgxpool.New(ctx, databaseURL(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create db pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to ping db: %w", err)
	}
	logger.Info().Msg("Database connection successful")
	res := &Resources{Pool: pool}

	// 2. Initialize S3 client
	s3Client, err := storage.NewS3Client(ctx, cfg)
	if err != nil {
		res.Close()
		return nil, nil, fmt.Errorf("failed to load s3 config: %w", err)
	}
	store := storage.NewS3Store(s3Client, cfg.S3Bucket)

	// 3. Initialize Pub/Sub publisher
	publisher, err := pubsub.NewPublisher(ctx, cfg)
	if err != nil {
		res.Close()
		return nil, nil, fmt.Errorf("failed to create pubsub publisher: %w", err)
	}
	res.Publisher = publisher

	validate := validator.New(validator.WithRequiredStructEnabled())

	// 4. Repositories, services, handlers
	projectRepo := repository.NewProjectRepo(pool)
	trackRepo := repository.NewTrackRepo(pool)
	mediaRepo := repository.NewMediaRepo(pool)
	subscriptionRepo := repository.NewSubscriptionRepo(pool)
	activityRepo := repository.NewActivityRepository(pool)

	reviewSvc := service.NewReviewService(projectRepo, trackRepo, publisher, cfg.PubSubTrackTopic, logger)
	uploadSvc := service.NewUploadService(projectRepo, mediaRepo, subscriptionRepo, store, cfg.QuotaLimits(), cfg.UploadURLTTL, logger)
	activitySvc := service.NewActivityService(activityRepo, logger)

	reviewHandler := handler.NewReviewHandler(reviewSvc, validate, logger)
	uploadHandler := handler.NewUploadHandler(uploadSvc, validate, logger)
	activityHandler := handler.NewActivityHandler(activitySvc, validate, logger)

	// 5. Middleware
	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret, logger)
	pubsubAuthMiddleware := middleware.PubSubAuthMiddleware(middleware.PushAuthConfig{
		SkipVerification:    cfg.IsLocalPubSub(),
		Audience:            cfg.PubSubPushAudience,
		ServiceAccountEmail: cfg.PubSubPushServiceAccountEmail,
	}, logger)

	// 6. Routes
	apiV1Mux := http.NewServeMux()
	reviewHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	uploadHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	activityHandler.RegisterRoutes(apiV1Mux, pubsubAuthMiddleware)

	mux := http.NewServeMux()
	mux.Handle("/v1/", http.StripPrefix("/v1", apiV1Mux))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return middleware.LoggerMiddleware(logger)(c.Handler(mux)), res, nil
}

// databaseURL disables SSL for local databases and forces the simple protocol
// behind a transaction pooler, where server-side prepared statements break.
func databaseURL(cfg *config.Config) string {
	dsn := cfg.DBConnectionString
	if cfg.Environment == "development" && !strings.Contains(dsn, "sslmode") {
		dsn = appendParam(dsn, "sslmode=disable")
	}
	if cfg.Environment != "development" && !strings.Contains(dsn, "default_query_exec_mode") {
		dsn = appendParam(dsn, "default_query_exec_mode=simple_protocol")
	}
	return dsn
}

func appendParam(dsn, param string) string {
	if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		return dsn + " " + param
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&" + param
	}
	return dsn + "?" + param
}

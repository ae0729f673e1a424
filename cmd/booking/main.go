// Command booking runs the medical appointment booking API.
//
// @title                       Medical Booking API
// @version                     1.0
// @description                 Doctor consultations and diagnostic tests: catalog, appointments and payments.
// @BasePath                    /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	_ "github.com/medicarepro/booking-system/docs"
	"github.com/medicarepro/booking-system/internal/api"
	"github.com/medicarepro/booking-system/internal/core/ports"
	"github.com/medicarepro/booking-system/internal/core/service"
	"github.com/medicarepro/booking-system/internal/infrastructure/config"
	mongodb "github.com/medicarepro/booking-system/internal/infrastructure/db/mongo"
	redisdb "github.com/medicarepro/booking-system/internal/infrastructure/db/redis"
	"github.com/medicarepro/booking-system/internal/infrastructure/events"
	"github.com/medicarepro/booking-system/internal/infrastructure/gateway"
	httpserver "github.com/medicarepro/booking-system/internal/infrastructure/http"
	"github.com/medicarepro/booking-system/internal/infrastructure/http/handlers"
	"github.com/medicarepro/booking-system/internal/infrastructure/queue"
	"github.com/medicarepro/booking-system/pkg/logger"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "booking",
		Short:        "Medical appointment booking API",
		SilenceUsage: true,
	}
	var envFile string
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file loaded before the environment")

	rootCmd.AddCommand(serveCmd(&envFile))
	rootCmd.AddCommand(indexesCmd(&envFile))
	rootCmd.AddCommand(seedCmd(&envFile))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, *envFile)
		},
	}
}

func indexesCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create the MongoDB collection indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap(cmd.Context(), *envFile)
			if err != nil {
				return err
			}
			client, db, err := mongodb.Connect(cmd.Context(), mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
			if err != nil {
				return err
			}
			defer client.Disconnect(context.Background())

			if err := mongodb.NewRepositories(db).EnsureIndexes(cmd.Context()); err != nil {
				return err
			}
			log.Info().Str("database", cfg.Mongo.Database).Msg("indexes created")
			return nil
		},
	}
}

func seedCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the admin account and sample catalog when missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := bootstrap(cmd.Context(), *envFile)
			if err != nil {
				return err
			}
			client, db, err := mongodb.Connect(cmd.Context(), mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
			if err != nil {
				return err
			}
			defer client.Disconnect(context.Background())

			repos := mongodb.NewRepositories(db)
			return service.NewSeeder(repos.Users, repos.Doctors, repos.Tests, logger.For("seed")).Run(cmd.Context())
		},
	}
}

// bootstrap loads the configuration and initialises the global logger.
func bootstrap(ctx context.Context, envFile string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(ctx, envFile)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "booking-api",
	})
	return cfg, log, nil
}

func runServer(ctx context.Context, envFile string) error {
	cfg, log, err := bootstrap(ctx, envFile)
	if err != nil {
		return err
	}
	if cfg.DemoMode {
		log.Warn().Msg("DEMO_MODE is on: payments are simulated")
	}

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer mongoClient.Disconnect(context.Background())
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")

	repos := mongodb.NewRepositories(db)
	if err := repos.EnsureIndexes(ctx); err != nil {
		return err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		URL:      cfg.Redis.URL,
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	// --- Event bus ---
	publisher, err := newPublisher(cfg, log)
	if err != nil {
		return err
	}
	defer publisher.Close()

	if cfg.SeedOnStart {
		if err := service.NewSeeder(repos.Users, repos.Doctors, repos.Tests, logger.For("seed")).Run(ctx); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	// --- Services ---
	razorpay := gateway.NewRazorpay(gateway.Config{
		KeyID:                 cfg.Razorpay.KeyID,
		KeySecret:             cfg.Razorpay.KeySecret,
		WebhookSecret:         cfg.Razorpay.WebhookSecret,
		// Validate only lets the secret be empty in demo mode.
		AllowUnsignedWebhooks: cfg.IsDevelopment(),
	}, logger.For("gateway"))

	authService := service.NewAuthService(repos.Users, service.TokenConfig{
		AccessSecret:  cfg.JWT.Secret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessTTL:     cfg.JWT.ExpiresIn,
		RefreshTTL:    cfg.JWT.RefreshExpiresIn,
	})
	appointmentService := service.NewAppointmentService(repos.Appointments, repos.Doctors, repos.Tests, repos.Users, publisher, logger.For("appointments"))
	paymentService := service.NewPaymentService(repos.Payments, repos.Appointments, razorpay, publisher, service.PaymentConfig{
		Currency:    cfg.Razorpay.Currency,
		DemoMode:    cfg.DemoMode,
		Environment: cfg.Env,
	}, logger.For("payments"))
	webhookService := service.NewWebhookService(repos.Payments, repos.Appointments, razorpay, redisdb.NewDedupChecker(rdb), publisher, logger.For("webhooks"))

	// --- Webhook dispatcher ---
	dispatcher := queue.NewDispatcher(cfg.WebhookWorkers, webhookService, logger.For("dispatcher"))
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher.Start(workerCtx)
	defer func() {
		stopWorkers()
		dispatcher.Wait()
	}()

	// --- HTTP ---
	e := httpserver.NewEcho(httpserver.EdgeConfig{
		Env:             cfg.Env,
		CORSOrigin:      cfg.HTTP.CORSOrigin,
		BodyLimit:       cfg.HTTP.BodyLimit,
		RateLimitWindow: cfg.HTTP.RateLimitWindow,
		RateLimitMax:    cfg.HTTP.RateLimitMax,
	}, map[string]handlers.Check{
		"mongodb": handlers.MongoCheck(db),
		"redis":   handlers.RedisCheck(rdb),
	})
	api.NewRouter(e, api.Dependencies{
		Auth:         authService,
		Users:        service.NewUserService(repos.Users, logger.For("users")),
		Doctors:      service.NewDoctorService(repos.Doctors, logger.For("doctors")),
		Tests:        service.NewLabTestService(repos.Tests, logger.For("tests")),
		Appointments: appointmentService,
		Payments:     paymentService,
		Webhooks:     webhookService,
		WebhookQueue: dispatcher,
		Dashboard:    service.NewDashboardService(repos.Users, repos.Doctors, repos.Tests, repos.Appointments, repos.Payments),
		Support:      service.NewSupportService(publisher, logger.For("support")),
		JWTSecret:    cfg.JWT.Secret,
		Development:  cfg.IsDevelopment(),
		Log:          logger.For("http"),
	})

	return httpserver.Run(ctx, e, ":"+cfg.Port, log)
}

type closingPublisher interface {
	ports.EventPublisher
	io.Closer
}

// newPublisher returns the Kafka publisher when brokers are configured and a
// logging publisher otherwise.
func newPublisher(cfg *config.Config, log zerolog.Logger) (closingPublisher, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		log.Info().Msg("KAFKA_BROKERS not set: domain events are logged only")
		return events.NewLogPublisher(logger.For("events")), nil
	}
	p, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.TopicPrefix, logger.For("events"))
	if err != nil {
		return nil, fmt.Errorf("kafka: %w", err)
	}
	log.Info().Strs("brokers", cfg.Kafka.Brokers).Msg("publishing domain events to Kafka")
	return p, nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/commission-backend-go/internal/config"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/commission"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/sale"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/seller"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/user"
	appHTTP "github.com/cmlabs-hris/commission-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/logger"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/queue"
	"github.com/cmlabs-hris/commission-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/commission-backend-go/internal/repository/postgresql"
	serviceAuth "github.com/cmlabs-hris/commission-backend-go/internal/service/auth"
	commissionService "github.com/cmlabs-hris/commission-backend-go/internal/service/commission"
	dashboardService "github.com/cmlabs-hris/commission-backend-go/internal/service/dashboard"
	notificationService "github.com/cmlabs-hris/commission-backend-go/internal/service/notification"
	reportService "github.com/cmlabs-hris/commission-backend-go/internal/service/report"
	saleService "github.com/cmlabs-hris/commission-backend-go/internal/service/sale"
	sellerService "github.com/cmlabs-hris/commission-backend-go/internal/service/seller"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 15 * time.Second

type repositories struct {
	tx          database.Transactor
	users       user.UserRepository
	sellers     seller.SellerRepository
	sales       sale.SaleRepository
	revocations jwt.RevocationStore
	ping        appHTTP.Pinger
}

func main() {
	if err := run(); err != nil {
		slog.Error("Application stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(os.Stdout, cfg.App.Name, cfg.App.Env, cfg.App.LogLevel)
	slog.SetDefault(log)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var redisClient *redis.Client
	if cfg.Cache.Driver == "redis" || cfg.Queue.Driver != "memory" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer redisClient.Close()
	}

	// Cache
	var appCache cache.Cache
	switch cfg.Cache.Driver {
	case "redis":
		appCache = cache.NewRedisCache(redisClient, cfg.Cache.Prefix)
	default:
		appCache = cache.NewMemoryCache()
	}

	// Queue
	broker, err := newBroker(ctx, cfg, redisClient)
	if err != nil {
		return err
	}
	defer broker.Close()
	dispatcher := notificationService.NewDispatcher(queue.NewClient(broker))
	trigger := notificationService.NewSaleCreatedTrigger(dispatcher)

	// Storage
	repos, closeDB, err := newRepositories(ctx, cfg, trigger)
	if err != nil {
		return err
	}
	defer closeDB()
	if repos.revocations == nil {
		if redisClient != nil {
			repos.revocations = jwt.NewRedisRevocationStore(redisClient, cfg.Cache.Prefix)
		} else {
			repos.revocations = jwt.NewMemoryRevocationStore()
		}
	}

	if cfg.Seed.AdminPassword != "" {
		if err := serviceAuth.SeedUser(ctx, repos.users, cfg.Seed.AdminName, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword, user.RoleAdmin); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
	}

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, repos.revocations)
	if err != nil {
		return err
	}
	authorizer := user.NewRoleAuthorizer()
	calculator := commissionService.NewCalculator(commission.DefaultRate)

	authSvc := serviceAuth.NewAuthService(repos.users, JWTService, authorizer)
	saleSvc := saleService.NewSaleService(repos.tx, repos.sales, repos.sellers, calculator, appCache, dispatcher, loc)
	sellerSvc := sellerService.NewSellerService(repos.sellers, appCache, dispatcher, cfg.Mail.AdminEmail, loc)
	reportSvc := reportService.NewReportService(repos.sales, repos.sellers, calculator, loc)
	dashboardSvc := dashboardService.NewDashboardService(repos.sales, repos.sellers, loc)

	mailer, err := email.NewMailer(cfg.SMTP, cfg.App.Name, calculator.Rate(), loc)
	if err != nil {
		return fmt.Errorf("initialize mailer: %w", err)
	}

	// Queue workers
	queueServer := queue.NewServer(broker, queue.Config{WorkerCount: cfg.Queue.Workers})
	notificationService.RegisterJobs(queueServer, repos.sales, reportSvc, mailer)
	queueServer.Start()
	defer queueServer.Stop()

	// Scheduler
	if cfg.Schedule.Enabled {
		hour, minute, err := cfg.DailyMailsTime()
		if err != nil {
			return err
		}
		scheduler := cron.NewScheduler()
		cron.NewCommissionJobs(sellerSvc).RegisterJobs(scheduler, cron.DailyAt(hour, minute, loc))
		scheduler.Start()
		defer scheduler.Stop()
	}

	checks := map[string]appHTTP.Pinger{"cache": appCache, "queue": broker}
	if repos.ping != nil {
		checks["database"] = repos.ping
	}

	router := appHTTP.NewRouter(
		log,
		cfg.App.AllowedOrigins,
		JWTService,
		authorizer,
		appHTTP.NewAuthHandler(authSvc),
		appHTTP.NewDashboardHandler(dashboardSvc),
		appHTTP.NewSellerHandler(sellerSvc, saleSvc),
		appHTTP.NewSaleHandler(saleSvc, loc),
		appHTTP.NewAdminHandler(sellerSvc, saleSvc),
		appHTTP.NewHealthHandler(checks),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "db_driver", cfg.Database.Driver, "cache_driver", cfg.Cache.Driver, "queue_driver", cfg.Queue.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newBroker(ctx context.Context, cfg *config.Config, redisClient *redis.Client) (queue.Broker, error) {
	switch cfg.Queue.Driver {
	case "redis":
		broker := queue.NewRedisBroker(redisClient, cfg.Queue.Name)
		// tasks left in flight by a previous process
		requeued, err := broker.Requeue(ctx)
		if err != nil {
			return nil, fmt.Errorf("requeue in-flight tasks: %w", err)
		}
		if requeued > 0 {
			slog.Warn("Requeued in-flight tasks", "count", requeued)
		}
		return broker, nil
	case "amqp":
		broker, err := queue.NewAMQPBroker(cfg.Queue.AMQPURL, cfg.Queue.Name, cfg.Queue.Workers)
		if err != nil {
			return nil, fmt.Errorf("connect to rabbitmq: %w", err)
		}
		return queue.WithLocker(broker, queue.NewRedisLocker(redisClient, cfg.Cache.Prefix+"queue:")), nil
	default:
		return queue.NewMemoryBroker(1024), nil
	}
}

func newRepositories(ctx context.Context, cfg *config.Config, trigger sale.Observer) (repositories, func(), error) {
	if cfg.Database.Driver == "memory" {
		slog.Warn("Using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return repositories{
			tx:      memory.NewTransactor(),
			users:   memory.NewUserRepository(store),
			sellers: memory.NewSellerRepository(store),
			sales:   memory.NewSaleRepository(store, trigger),
		}, func() {}, nil
	}

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return repositories{}, nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return repositories{}, nil, fmt.Errorf("migrate database: %w", err)
	}

	return repositories{
		tx:          postgresql.NewTransactor(db),
		users:       postgresql.NewUserRepository(db),
		sellers:     postgresql.NewSellerRepository(db),
		sales:       postgresql.NewSaleRepository(db, trigger),
		revocations: postgresql.NewRevocationStore(db),
		ping:        db,
	}, db.Close, nil
}

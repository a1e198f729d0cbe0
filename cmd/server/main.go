package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/nanum-market/nanum/internal/config"
	"github.com/nanum-market/nanum/internal/es"
	"github.com/nanum-market/nanum/internal/httpserver"
	"github.com/nanum-market/nanum/internal/metrics"
	"github.com/nanum-market/nanum/internal/models"
	"github.com/nanum-market/nanum/internal/mykafka"
	"github.com/nanum-market/nanum/internal/repo"
	"github.com/nanum-market/nanum/internal/service"
	pkgconfig "github.com/nanum-market/nanum/pkg/config"
	"github.com/nanum-market/nanum/pkg/db"
	"github.com/nanum-market/nanum/pkg/logging"
	"github.com/nanum-market/nanum/pkg/middleware/csrf"
	loggingmw "github.com/nanum-market/nanum/pkg/middleware/logging"
	"github.com/nanum-market/nanum/pkg/oauth"
)

func main() {
	pkgconfig.LoadDotEnv(".env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DatabaseURL, models.All()...)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	var events service.EventPublisher = service.NopPublisher{}
	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer, err = mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka producer: %v", err)
		}
		events = producer
	} else {
		logger.Warn("kafka_disabled", "reason", "KAFKA_BROKERS empty")
	}

	var index service.ReviewIndex
	if cfg.ESURL != "" {
		esCtx, esCancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err := es.NewClient(esCtx, es.Config{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword})
		if err != nil {
			esCancel()
			log.Fatalf("elasticsearch: %v", err)
		}
		ri := es.NewReviewIndex(client, cfg.ESReviewIndex)
		if err := ri.EnsureIndex(esCtx); err != nil {
			esCancel()
			log.Fatalf("elasticsearch index: %v", err)
		}
		esCancel()
		index = ri
	} else {
		logger.Warn("search_disabled", "reason", "ES_URL empty")
	}

	r := repo.New(gdb)
	catalog := &service.CatalogService{Repo: r}
	auth := &service.AuthService{
		Repo:          r,
		OAuth:         oauth.NewClient(cfg.OAuth(), oauth.WithObserver(m.OAuthObserver())),
		AccessSecret:  cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		Metrics:       m,
	}
	users := &service.UserService{Repo: r, Events: events}
	orders := &service.OrderService{Repo: r, Catalog: catalog, Reward: cfg.Reward, Events: events, Metrics: m}
	deliveries := &service.DeliveryService{Repo: r}
	reviews := &service.ReviewService{Repo: r, Index: index, Events: events, Metrics: m}

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), loggingmw.RequestLogger(logger), m.Middleware())
	e.Use(csrf.Middleware(csrf.Config{SkipPrefixes: []string{"/health", "/metrics"}}))
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:     &httpserver.AuthHTTP{Auth: auth, Users: users},
		OrderHandler:    &httpserver.OrderHTTP{Orders: orders, Deliveries: deliveries, Reviews: reviews},
		DeliveryHandler: &httpserver.DeliveryHTTP{Deliveries: deliveries},
		ReviewHandler:   &httpserver.ReviewHTTP{Reviews: reviews},
		SellerHandler:   &httpserver.SellerHTTP{Sellers: &service.SellerService{Repo: r, Auth: auth}},
		ProductHandler:  &httpserver.ProductHTTP{Catalog: catalog},
		JWTSecret:       cfg.JWTAccessSecret,
		Refresher:       auth,
		Ready:           func(ctx context.Context) error { return db.Ping(ctx, gdb) },
	})

	go func() {
		logger.Info("server_start", "addr", cfg.Addr())
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("server_shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("echo_shutdown_error", "error", err)
	}
	closeDB(logger, gdb)
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka_close_error", "error", err)
		}
	}
}

func closeDB(l *slog.Logger, gdb *gorm.DB) {
	sqlDB, err := gdb.DB()
	if err != nil {
		l.Error("db_close_error", "error", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		l.Error("db_close_error", "error", err)
	}
}

package main

import (
	"context"
	"database/sql"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	_ "github.com/lib/pq"

	"foodaudit/internal/analytics"
	auditmetrics "foodaudit/internal/audit/metrics"
	auditservice "foodaudit/internal/audit/service"
	auditstore "foodaudit/internal/audit/store"
	auditorservice "foodaudit/internal/auditor/service"
	auditorstore "foodaudit/internal/auditor/store"
	"foodaudit/internal/auth"
	"foodaudit/internal/checklist"
	"foodaudit/internal/events"
	"foodaudit/internal/platform/config"
	"foodaudit/internal/platform/httpserver"
	"foodaudit/internal/platform/logger"
	"foodaudit/internal/platform/metrics"
	"foodaudit/internal/platform/redis"
	httptransport "foodaudit/internal/transport/http"
	"foodaudit/pkg/platform/tx"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal service
// packages. Without POSTGRES_DSN everything runs in memory, which is enough
// for local development.
func main() {
	migrate := flag.Bool("migrate", false, "apply the database schema and exit")
	flag.Parse()

	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	var (
		audits    auditstore.Store
		auditors  auditorstore.Store
		templates checklist.TemplateStore
		users     auth.UserStore
		runner    tx.Runner
		health    func() error
	)
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Error("open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Error("postgres unreachable", "error", err)
			os.Exit(1)
		}
		if *migrate {
			if err := applySchema(ctx, db); err != nil {
				log.Error("apply schema", "error", err)
				os.Exit(1)
			}
			log.Info("schema applied")
			return
		}
		audits = auditstore.NewPostgres(db)
		auditors = auditorstore.NewPostgres(db)
		templates = checklist.NewPostgresTemplates(db)
		users = auth.NewPostgresUsers(db)
		runner = tx.NewSQLRunner(db)
		health = db.Ping
	} else {
		if *migrate {
			log.Error("-migrate requires POSTGRES_DSN")
			os.Exit(1)
		}
		audits = auditstore.NewMemory()
		auditors = auditorstore.NewMemory()
		templates = checklist.NewInMemoryTemplates()
		users = auth.NewInMemoryUsers()
		runner = tx.NewMemoryRunner()
	}

	cache, err := redis.New(cfg.Redis)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	analyticsOpts := []analytics.Option{analytics.WithLogger(log)}
	if cache != nil {
		defer cache.Close()
		analyticsOpts = append(analyticsOpts, analytics.WithCache(cache.Client, cfg.AnalyticsCacheTTL))
	}

	var publisher events.Publisher = events.NewMemorySink()
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := events.NewKafkaPublisher(ctx, cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Error("connect kafka", "error", err)
			os.Exit(1)
		}
		defer kafka.Close()
		publisher = kafka
	}

	httpMetrics := metrics.New()
	domainMetrics := auditmetrics.New(prometheus.DefaultRegisterer)

	tokens := auth.NewTokenService(cfg.JWTSigningKey, cfg.TokenTTL)
	authSvc := auth.New(users, tokens, auth.WithLogger(log))
	auditSvc := auditservice.New(audits,
		auditservice.WithLogger(log),
		auditservice.WithPublisher(publisher),
		auditservice.WithMetrics(domainMetrics),
		auditservice.WithTemplates(templates),
	)
	directory := auditorservice.New(auditors, audits, runner,
		auditorservice.WithLogger(log),
		auditorservice.WithPublisher(publisher),
		auditorservice.WithMetrics(domainMetrics),
	)
	reports := analytics.New(audits, auditors, analyticsOpts...)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:    log,
		Metrics:   httpMetrics,
		Validator: tokens,
		Audits:    httptransport.NewAuditHandler(auditSvc, log),
		Auditors:  httptransport.NewAuditorHandler(directory, log),
		Reports:   httptransport.NewReportsHandler(reports, log),
		Auth:      httptransport.NewAuthHandler(authSvc, log),
		Health:    health,
	})

	srv := httpserver.New(cfg.Addr, router)
	log.Info("starting foodaudit", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studiovault/internal/audit"
	"studiovault/internal/auth"
	"studiovault/internal/booking"
	"studiovault/internal/config"
	"studiovault/internal/httpapi"
	"studiovault/internal/notify"
	"studiovault/internal/pricing"
	"studiovault/internal/profile"
	"studiovault/internal/reporting"
	"studiovault/internal/slots"
	"studiovault/internal/support"
	"studiovault/internal/sweep"
	"studiovault/internal/wallet"
	"studiovault/pkg/logger"
	"studiovault/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("postgres"); err != nil {
		log.Error("migrations init failed", "err", err)
		os.Exit(1)
	}
	if err := goose.UpContext(rootCtx, db, "migrations"); err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
	if err != nil {
		log.Error("redis init failed", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	// Services
	profileSvc := profile.NewService(db)

	var mailer notify.Mailer
	if cfg.Email.APIURL != "" {
		mailer = notify.NewHTTPMailer(cfg.Email, profileSvc)
	}

	auditSvc := audit.NewService(audit.NewPostgresRepo(db))
	quoter, err := pricing.NewService(cfg.Fees)
	if err != nil {
		log.Error("pricing init failed", "err", err)
		os.Exit(1)
	}

	slotSvc := slots.NewService(slots.NewPostgresRepo(db))
	walletSvc := wallet.NewService(db, mailer, auditSvc)
	bookingSvc := booking.NewService(db, quoter, mailer, auditSvc, cfg.Sweep.PaymentWindow)
	supportSvc := support.NewService(support.NewPostgresRepo(db))
	reportSvc := reporting.NewService(reporting.NewPostgresRepo(db))

	sweeper := sweep.NewService(bookingSvc, profileSvc, mailer, auditSvc, sweep.NewRedisLocker(rdb), log)
	runner := sweep.NewRunner(sweeper, cfg.Sweep.Interval, log)
	runner.Start()
	defer runner.Stop()

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	h := httpapi.Handlers{
		Auth:       authManager,
		Profiles:   profileSvc,
		Slots:      slotSvc,
		Bookings:   bookingSvc,
		Wallet:     walletSvc,
		Support:    supportSvc,
		Sweeper:    sweeper,
		Reports:    reportSvc,
		CronSecret: cfg.Cron.Secret,
	}
	registerRoutes(r, h, auth.RequireAccessToken(authManager), profileSvc)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}

	_ = logger.ShutdownFlush(shutdownCtx, 2*time.Second)
}

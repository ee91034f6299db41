package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"jobmate/match-service/internal/db"
	"jobmate/match-service/internal/discovery"
	"jobmate/match-service/internal/events"
	"jobmate/match-service/internal/followup"
	"jobmate/match-service/internal/grpcserver"
	"jobmate/match-service/internal/httpapi"
	"jobmate/match-service/internal/match"
	"jobmate/match-service/internal/metrics"
	"jobmate/match-service/internal/ratelimit"
	"jobmate/match-service/internal/scheduler"
	"jobmate/match-service/internal/store"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and gRPC APIs, the event subscriber and the cron jobs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		migrate, _ := cmd.Flags().GetBool("migrate")
		noCron, _ := cmd.Flags().GetBool("no-cron")
		return serve(migrate, noCron)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Bool("migrate", false, "apply database migrations before serving")
	serveCmd.Flags().Bool("no-cron", false, "do not schedule discovery scrapes and follow-up reminders")
}

func serve(migrate, noCron bool) error {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	if migrate {
		if err := db.Migrate(ctx, cfg.DatabaseURL); err != nil {
			return err
		}
		log.Info("migrations applied")
	}

	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()
	log.Info("postgres connected")

	// ── Redis ────────────────────────────────────────────────────────────────
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer rdb.Close()
	log.Info("redis connected")

	// ── Services ─────────────────────────────────────────────────────────────
	st := store.New(pool)
	m := metrics.New()
	svc := match.NewService(st, events.NewRedisPublisher(rdb), nil, log).WithRecorder(m)
	limiter := ratelimit.New(ratelimit.NewRedisStore(rdb), cfg.RateLimitPerMinute, time.Minute, time.Now, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpapi.NewHandler(svc, limiter, version, log).WithMetrics(m).Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	grpcSrv := grpcserver.New(svc, limiter)
	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		return fmt.Errorf("grpc listen :%s: %w", cfg.GRPCPort, err)
	}

	var sched *scheduler.Scheduler
	if !noCron {
		fetcher := discovery.NewAdzunaFetcher(cfg.AdzunaAppID, cfg.AdzunaAppKey, cfg.AdzunaCountry, "", log)
		worker := discovery.NewWorker(fetcher, st, svc, 4, log)
		sched = scheduler.New(worker, followup.NewReminder(st, log), cfg.ScrapeIntervalHours, cfg.FollowUpSpec, log)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		log.Info("grpc listening", zap.String("addr", lis.Addr().String()))
		if err := grpcSrv.Serve(lis); err != nil {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return events.NewSubscriber(rdb, svc, log).Run(gctx)
	})

	// ── Graceful shutdown ────────────────────────────────────────────────────
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		if sched != nil {
			sched.Stop()
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("http shutdown", zap.Error(err))
		}
		grpcSrv.GracefulStop()
		return nil
	})

	if sched != nil {
		if err := sched.Start(gctx); err != nil {
			stop()
			_ = g.Wait()
			return err
		}
	}

	err = g.Wait()
	log.Info("stopped")
	return err
}

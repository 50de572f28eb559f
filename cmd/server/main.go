package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"clinic-api/internal/auth"
	"clinic-api/internal/config"
	"clinic-api/internal/grpcweb"
	"clinic-api/internal/handler"
	"clinic-api/internal/logging"
	"clinic-api/internal/middleware"
	"clinic-api/internal/rpc"
	"clinic-api/internal/service"
	"clinic-api/internal/store"
)

func main() {
	cfgPath := flag.String("config", "", "path to config yaml (default ./config.yaml if present)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logging.New(os.Stderr, "error", false).Error(context.Background(), "config", "err", err)
		os.Exit(1)
	}

	debug := cfg.Server.Mode == gin.DebugMode
	gin.SetMode(cfg.Server.Mode)
	log := logging.New(os.Stdout, cfg.Log.Level, debug)
	ctx := context.Background()

	if err := run(ctx, cfg, log, debug); err != nil {
		log.Error(ctx, "server exited", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logging.SlogLogger, debug bool) error {
	// database
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		return err
	}
	log.Info(ctx, "connected to postgres")

	if cfg.Database.Migrate {
		if err := store.Migrate(ctx, pool); err != nil {
			return err
		}
		log.Info(ctx, "migrations applied")
	}

	tokens, err := auth.NewIssuer(cfg.JWT.Secret, cfg.JWT.TTL)
	if err != nil {
		return err
	}

	st := store.New(pool)
	accounts := service.NewAccountService(st, tokens, cfg.Security.BcryptCost, log)
	appointments := service.NewAppointmentService(st, log)

	rl := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	defer rl.Close()

	// grpc server
	grpcSrv := rpc.NewGRPCServer(rpc.NewServer(accounts, log), tokens, rl)
	lis, err := net.Listen("tcp", ":"+cfg.Server.GRPCPort)
	if err != nil {
		return err
	}
	go func() {
		log.Info(ctx, "grpc listening", "port", cfg.Server.GRPCPort)
		if err := grpcSrv.Serve(lis); err != nil {
			log.Error(ctx, "grpc", "err", err)
		}
	}()

	// grpc-web bridge -> forwards browser requests to grpc on localhost
	bridge, err := grpcweb.Dial("localhost:"+cfg.Server.GRPCPort, log)
	if err != nil {
		return err
	}
	defer bridge.Close()

	h := handler.New(accounts, appointments, tokens,
		handler.WithRateLimiter(rl),
		handler.WithDebugErrors(debug),
		handler.WithLogger(log),
	)
	router := h.Router()
	web := gin.WrapH(bridge.Handler())
	router.POST("/"+rpc.ServiceName+"/:method", web)
	router.OPTIONS("/"+rpc.ServiceName+"/:method", web)

	httpSrv := &http.Server{
		Addr:              ":" + cfg.Server.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info(ctx, "http listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "http", "err", err)
		}
	}()

	// graceful shutdown
	sig, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-sig.Done()
	log.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn(ctx, "http shutdown", "err", err)
	}
	grpcSrv.GracefulStop()
	return nil
}

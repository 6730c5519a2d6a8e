package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"liyu1981.xyz/ai-security-service/pkg/auth"
	"liyu1981.xyz/ai-security-service/pkg/common"
	"liyu1981.xyz/ai-security-service/pkg/db"
	"liyu1981.xyz/ai-security-service/pkg/detection"
	securityGrpc "liyu1981.xyz/ai-security-service/pkg/grpc"
	securityHttp "liyu1981.xyz/ai-security-service/pkg/http"
	"liyu1981.xyz/ai-security-service/pkg/identity"
	"liyu1981.xyz/ai-security-service/pkg/metrics"
	"liyu1981.xyz/ai-security-service/pkg/security"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := common.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := common.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var dbInstance *db.DB
	switch cfg.DBType {
	case "file":
		dbInstance = db.GetInstance(db.UseSqliteDialector())
	case "memory":
		dbInstance = db.GetInstance(db.UseMemorySqliteDialector())
	}

	categories, err := detection.LoadCategoryConfig(cfg.DetectionConfig)
	if err != nil {
		log.Fatal(err)
	}

	m := metrics.New()
	securityCore := security.New(dbInstance, m)

	provider := identity.NewLocalProvider(dbInstance, cfg.JwtSecret, cfg.SessionTTL)
	bridge := auth.NewBridge(provider, securityCore.Account).WithAdminEmails(cfg.AdminEmails...)

	live := security.NewLiveManager(securityCore, security.LiveManagerOpts{
		Detector: detection.NewGenerator(nil, categories.Live),
		Interval: cfg.SampleInterval,
	})
	uploads := security.NewUploadProcessor(securityCore, detection.NewAnalyzer(
		detection.NewGenerator(nil, categories.Upload), nil, nil, nil,
	))

	if cfg.SeedCameras {
		seeded, err := securityCore.Camera.SeedDefaultCameras(context.Background())
		if err != nil {
			log.Fatalf("failed to seed default cameras: %v", err)
		}
		logger.Info("Default cameras seeded", zap.Int("count", seeded))
	}

	defaultLimiter := zap.String("default_limiter",
		fmt.Sprintf("{\"default_rate\": %v, \"default_burst\": %v}", cfg.DefaultRate, cfg.DefaultBurst))

	var grpcServer *grpc.Server
	if cfg.GrpcHostPort != "" {
		grpcLimiter := security.NewRateLimiterStore(rate.Limit(cfg.DefaultRate), cfg.DefaultBurst)
		go grpcLimiter.RunEviction(ctx, security.DefaultLimiterSweep, security.DefaultLimiterIdle)

		detectionServer := &securityGrpc.DetectionServer{
			Security:         securityCore,
			Live:             live,
			RateLimiterStore: grpcLimiter,
		}
		grpcServer = grpc.NewServer(
			grpc.UnaryInterceptor(detectionServer.CreateRateLimitInterceptor([]string{
				securityGrpc.GetRecentDetectionsMethod,
				securityGrpc.GetCameraMethod,
			})),
			grpc.StreamInterceptor(detectionServer.CreateStreamRateLimitInterceptor([]string{
				securityGrpc.StreamDetectionsMethod,
			})),
		)
		securityGrpc.RegisterDetectionServiceServer(grpcServer, detectionServer)
		logger.Info("gRPC server created with:", defaultLimiter)

		listener, err := net.Listen("tcp", cfg.GrpcHostPort)
		if err != nil {
			log.Fatalf("failed to listen: %v", err)
		}

		go func() {
			logger.Info("start gRPC server on " + cfg.GrpcHostPort)
			if err := grpcServer.Serve(listener); err != nil {
				log.Fatalf("grpc server failed to serve: %v", err)
			}
		}()
	}

	if common.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	httpLimiter := security.NewRateLimiterStore(rate.Limit(cfg.DefaultRate), cfg.DefaultBurst)
	go httpLimiter.RunEviction(ctx, security.DefaultLimiterSweep, security.DefaultLimiterIdle)

	rs := &securityHttp.RestfulServer{
		Server:           gin.Default(),
		Security:         securityCore,
		Bridge:           bridge,
		Live:             live,
		Uploads:          uploads,
		Metrics:          m,
		RateLimiterStore: httpLimiter,
	}
	rs.Setup()

	logger.Info("http server created with:", defaultLimiter)

	httpServer := &http.Server{
		Addr:    cfg.HttpHostPort,
		Handler: rs.Server,
	}

	go func() {
		logger.Info("Starting HTTP server on: " + cfg.HttpHostPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server failed to serve: %v", err)
		}
	}()

	<-ctx.Done()

	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http server shutdown failed", zap.Error(err))
	}
	if grpcServer != nil {
		// open detection streams only end when their clients leave
		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-shutdownCtx.Done():
			grpcServer.Stop()
		}
	}
	live.StopAll()

	logger.Info("Stopped")
	_ = logger.Sync()
}

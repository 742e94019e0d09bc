package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/akmalqodirov005/e-commerse/handlers"
	"github.com/akmalqodirov005/e-commerse/internal/backend"
	"github.com/akmalqodirov005/e-commerse/internal/cart"
	"github.com/akmalqodirov005/e-commerse/internal/config"
	"github.com/akmalqodirov005/e-commerse/internal/sessions"
	"github.com/akmalqodirov005/e-commerse/internal/shopapi"
	"github.com/akmalqodirov005/e-commerse/internal/storage"
	"github.com/akmalqodirov005/e-commerse/pkg/logger"
	"github.com/akmalqodirov005/e-commerse/pkg/metrics"
	"github.com/akmalqodirov005/e-commerse/pkg/middleware"
)

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel)
	logger.Infof("config loaded: api=%s backend=%s minio=%v", cfg.ShopAPI.BaseURL, cfg.Storage.Backend, cfg.MinIO.Endpoint != "")
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	be, err := backend.Open(ctx, cfg)
	if err != nil {
		logger.Fatalf("storage: %v", err)
	}
	defer be.Close(context.Background())

	session := sessions.NewManager(be.Sessions, sessions.WithSingleFlight(cfg.Session.SingleFlightRefresh))
	session.Init(ctx)

	api := shopapi.New(cfg.ShopAPI.BaseURL, session, cfg.ShopAPI.Timeout, nil)
	cartSvc := cart.NewService(ctx, be.Cart)

	var uploader handlers.Uploader
	optional := map[string]handlers.Pinger{}
	if cfg.MinIO.Endpoint != "" {
		st, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
		if err != nil {
			logger.Warnf("uploads disabled: %v", err)
		} else {
			uploader = st
			optional["minio"] = st
		}
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	})

	if cfg.RateLimit.Enabled {
		r.Use(middleware.SessionSubject(session))
		if cfg.RateLimit.UseRedis && be.Redis != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(be.Redis, cfg.Storage.Prefix, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
		logger.Infof("rate limiter enabled: rps=%.1f burst=%d redis=%v", cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.UseRedis && be.Redis != nil)
	}

	handlers.RegisterHealth(r, map[string]handlers.Pinger{"sessions": be.Sessions}, optional)
	handlers.RegisterRoutes(r, handlers.Deps{Session: session, API: api, Cart: cartSvc, Uploader: uploader})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("storefront gateway listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
	if err := session.Teardown(shutdownCtx); err != nil {
		logger.Errorf("session teardown: %v", err)
	}
}

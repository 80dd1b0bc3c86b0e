package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/yukikurage/dropoff-point-api/internal/config"
	"github.com/yukikurage/dropoff-point-api/internal/database"
	"github.com/yukikurage/dropoff-point-api/internal/geocode"
	"github.com/yukikurage/dropoff-point-api/internal/metrics"
	"github.com/yukikurage/dropoff-point-api/internal/server"
)

const shutdownTimeout = 10 * time.Second

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, logger, db, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			redisClient, err := database.ConnectRedis(ctx, cfg.RedisURL)
			if err != nil {
				return err
			}
			if redisClient != nil {
				defer redisClient.Close()
			}

			sessionStore, err := newSessionStore(cfg)
			if err != nil {
				return err
			}

			geocoder, err := newGeocoder(cfg, redisClient, logger)
			if err != nil {
				return err
			}

			gin.SetMode(cfg.GinMode)
			router := server.NewRouter(server.Deps{
				Logger:     logger,
				DB:         db,
				Geocoder:   geocoder,
				Metrics:    metrics.New(prometheus.DefaultRegisterer),
				Gatherer:   prometheus.DefaultGatherer,
				Sessions:   sessionStore,
				SigningKey: []byte(cfg.JWTSigningKey),
			})

			srv := &http.Server{
				Addr:              cfg.ListenAddr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("server starting", "addr", cfg.ListenAddr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return fmt.Errorf("serve: %w", err)
			case <-ctx.Done():
			}

			logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

// newSessionStore shares sessions through Redis when configured and falls
// back to signed cookies.
func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	options := sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}

	if cfg.RedisURL == "" {
		store := cookie.NewStore([]byte(cfg.SessionSecret))
		store.Options(options)
		return store, nil
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	store, err := redisStore.NewStore(
		10, // Redis pool size
		"tcp",
		redisOpts.Addr,
		redisOpts.Username,
		redisOpts.Password,
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis session store: %w", err)
	}
	store.Options(options)
	return store, nil
}

// newGeocoder builds the address search client with a Redis cache when
// Redis is available and an in-process LRU otherwise.
func newGeocoder(cfg *config.Config, redisClient *redis.Client, logger *log.Logger) (geocode.Client, error) {
	client := geocode.NewHTTPClient(cfg.GeocoderURL, cfg.GeocoderTimeout)

	if redisClient != nil {
		cache := geocode.NewRedisCache(redisClient, cfg.GeocoderCacheTTL, logger.WithPrefix("geocode"))
		return geocode.NewCachedClient(client, cache), nil
	}

	cache, err := geocode.NewLRUCache(cfg.GeocoderCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create geocode cache: %w", err)
	}
	return geocode.NewCachedClient(client, cache), nil
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"employee/backend/foundation/logger"
	"employee/backend/foundation/web"
	"employee/backend/internal/auth"
	"employee/backend/internal/commands"
	"employee/backend/internal/pkg/config"
	"employee/backend/internal/pkg/repository/postgresql"
	"employee/backend/internal/router"
	"employee/backend/internal/service"

	"github.com/ardanlabs/conf"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalln(err)
	}
}

func run(args []string) error {
	path := os.Getenv("EMP_CONFIG_FILE")
	if path == "" {
		path = "config.yaml"
	}

	cfg, err := config.Load(path, args)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			usage, err := config.Usage()
			if err != nil {
				return errors.Wrap(err, "generating usage")
			}
			fmt.Println(usage)
			return nil
		}
		return errors.Wrap(err, "loading config")
	}

	zlog, err := logger.New("employee-api", cfg.Debug)
	if err != nil {
		return errors.Wrap(err, "creating logger")
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	postgresDB, err := postgresql.New(ctx, postgresql.Config{
		Driver:       cfg.DBDriver,
		DSN:          cfg.DatabaseURL,
		MaxOpenConns: cfg.DBMaxOpenConns,
		Debug:        cfg.Debug,
	}, zlog)
	if err != nil {
		return err
	}
	defer postgresDB.Close()

	if cfg.Migrate {
		if err = commands.MigrateUP(ctx, postgresDB, zlog); err != nil {
			return errors.Wrap(err, "migrating")
		}
	}

	var redisDB *redis.Client
	if cfg.RedisAddr != "" {
		redisDB = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer redisDB.Close()

		if err = redisDB.Ping(ctx).Err(); err != nil {
			zlog.Warn("redis unavailable, login attempts are not counted until it answers", zap.Error(err))
		}
	}

	authorizer, err := auth.New(cfg.JWTKey, cfg.JWTTTL)
	if err != nil {
		return err
	}

	uploader, err := service.NewUploader(cfg.UploadDir)
	if err != nil {
		return err
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	app := web.NewApp(zlog)

	router.NewRouter(app, postgresDB, redisDB, authorizer, uploader, zlog, router.Config{
		ProtectEmployees: cfg.ProtectEmployees,
		CleanupUploads:   cfg.CleanupUploads,
		LoginMaxAttempts: cfg.LoginMaxAttempts,
		LoginWindow:      cfg.LoginWindow,
		AllowedOrigins:   cfg.AllowedOrigins,
	}).Init()

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           app,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		zlog.Info("listening", zap.String("addr", cfg.Port))
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err = <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "serving")
		}
	case <-ctx.Done():
		zlog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err = srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutting down")
		}
	}

	return nil
}

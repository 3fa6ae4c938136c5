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

	"github.com/gatherhub/event-manager/internal/handler"
	internalLog "github.com/gatherhub/event-manager/internal/log"
	"github.com/gatherhub/event-manager/internal/middleware"
	"github.com/gatherhub/event-manager/internal/server"
	"github.com/gatherhub/event-manager/pkg/config"
	"github.com/gatherhub/event-manager/pkg/event"
	"github.com/gatherhub/event-manager/pkg/notification"
	"github.com/gatherhub/event-manager/pkg/storage"
	"github.com/gatherhub/event-manager/pkg/token"
	"github.com/gatherhub/event-manager/pkg/upload"
	"github.com/gatherhub/event-manager/pkg/user"
	"github.com/go-mail/mail"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.New()
	if err != nil {
		return err
	}

	logger := slog.New(internalLog.New(slog.NewJSONHandler(os.Stdout, nil)))
	slog.SetDefault(logger)

	shutdownTracing, err := server.InitTracing(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("Failed to shut down tracing", "error", err)
		}
	}()

	if err := handler.RegisterValidation(); err != nil {
		return err
	}

	db, err := storage.NewDatabase(logger, cfg.Postgresql)
	if err != nil {
		return err
	}

	redisClient, err := storage.NewRedis(cfg.Redis)
	if err != nil {
		return err
	}

	dialer := mail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)

	minioClient, err := minio.New(cfg.S3.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3.AccessKey, cfg.S3.SecretKey, ""),
		Secure: cfg.S3.UseSSL,
	})
	if err != nil {
		return err
	}

	userRepository := user.NewRepository(db)
	userService := user.NewService(logger, userRepository, dialer, cfg.UIURL)

	tokenRepository := token.NewRepository(redisClient)
	tokenService := token.NewService(
		logger,
		tokenRepository,
		cfg.Authentication.PrivateKey,
		cfg.Authentication.AccessTokenExpirationSeconds,
		cfg.Authentication.RefreshTokenSecretKey,
		cfg.Authentication.RefreshTokenExpirationSeconds,
	)

	hub := notification.NewHub()

	eventRepository := event.NewRepository(db)
	eventService := event.NewService(eventRepository, hub)

	uploadService := upload.NewService(logger, minioClient, cfg.S3.Endpoint, cfg.S3.Bucket, cfg.S3.UseSSL)

	authenticationMiddleware := middleware.NewAuthentication(&cfg.Authentication.PrivateKey.PublicKey, userService)
	rateLimiter := middleware.NewRateLimiter(rate.Every(time.Second), 10)

	handlers := server.Handlers{
		User:         user.NewHandler(userService, tokenService),
		Event:        event.NewHandler(eventService),
		Notification: notification.NewHandler(logger, hub),
		Upload:       upload.NewHandler(uploadService),
	}

	engine := server.GetEngine(logger, cfg.BasePath, handlers, authenticationMiddleware, rateLimiter)

	httpServer := &http.Server{
		Addr:    ":8080",
		Handler: engine,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.InfoContext(ctx, "Starting server", "address", httpServer.Addr, "basePath", cfg.BasePath)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

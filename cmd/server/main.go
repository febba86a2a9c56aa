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

	"github.com/jessevdk/go-flags"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/anonto42/campus-social/backend/internal/middleware"
	"github.com/anonto42/campus-social/backend/internal/repositories"
	"github.com/anonto42/campus-social/backend/internal/router"
	"github.com/anonto42/campus-social/backend/internal/services"
	"github.com/anonto42/campus-social/backend/pkg/config"
	"github.com/anonto42/campus-social/backend/pkg/firebase"
	"github.com/anonto42/campus-social/backend/validators"
)

var errTerminated = errors.New("terminated")

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		logrus.WithError(err).Fatal("failed to load config")
	}

	lvl, _ := logrus.ParseLevel(cfg.LogLevel)
	logrus.SetLevel(lvl)
	if cfg.IsProduction() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	ctx := context.Background()

	db, err := config.InitDB(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize database")
	}
	defer config.CloseDB(db)

	store := repositories.NewStore(db)

	var verifiers middleware.Verifiers
	if cfg.JWTSecret != "" {
		verifiers = append(verifiers, middleware.NewJWTVerifier(cfg.JWTSecret))
	}
	if cfg.FirebaseCredentialsPath != "" {
		client, err := firebase.InitAuth(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			logrus.WithError(err).Fatal("failed to initialize firebase")
		}
		verifiers = append(verifiers, middleware.NewFirebaseVerifier(client, store.Users))
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validators.NewValidator()

	config.SetupMiddleware(e)
	router.SetupRoutes(e, store, middleware.NewAuthenticator(verifiers), services.SystemClock)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	logrus.Info("service started")

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	if err := run(ctx, e, addr, cfg.ShutdownTimeout, sigs); err != nil && !errors.Is(err, errTerminated) {
		logrus.WithError(err).Fatal("service unexpectedly stopped")
	}
}

// run serves e on addr until a signal arrives on sigs or the server fails.
// A signal shuts the server down gracefully and yields errTerminated.
func run(ctx context.Context, e *echo.Echo, addr string, shutdownTimeout time.Duration, sigs <-chan os.Signal) error {
	gr, gctx := errgroup.WithContext(ctx)
	gr.Go(func() error {
		logrus.Infof("starting server on %s", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	gr.Go(func() error {
		select {
		case s := <-sigs:
			logrus.Infof("terminating by %s signal", s)
		case <-gctx.Done():
			return nil
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Error("failed to gracefully shutdown server")
		}

		return errTerminated
	})

	return gr.Wait()
}

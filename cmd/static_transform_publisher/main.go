package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/open-teleop/tfpublisher/domain/diagnostic"
	"github.com/open-teleop/tfpublisher/domain/reconfigure"
	"github.com/open-teleop/tfpublisher/domain/transform"
	"github.com/open-teleop/tfpublisher/pkg/api"
	"github.com/open-teleop/tfpublisher/pkg/config"
	customlog "github.com/open-teleop/tfpublisher/pkg/log"
	"github.com/open-teleop/tfpublisher/pkg/timeutil"
	"github.com/open-teleop/tfpublisher/pkg/zeromq"
	"github.com/open-teleop/tfpublisher/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := NewRootCommand()
	cmd.SetArgs(positionalArgs(os.Args[1:]))
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// run wires the transform state to its transports and publishes until ctx is cancelled.
func run(ctx context.Context, opts *RootOptions, params *config.StartupParams) error {
	bootstrap, err := config.LoadBootstrapConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.LogLevel != "" {
		bootstrap.Logging.Level = opts.LogLevel
	}
	if opts.LogDir != "" {
		bootstrap.Logging.LogPath = opts.LogDir
	}

	logger, err := customlog.NewLogrusLogger(bootstrap.Logging.Level, bootstrap.Logging.LogPath)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	clock := timeutil.RealClock{}
	state, err := transform.NewState(params.Transform(clock.Now()), clock)
	if err != nil {
		return fmt.Errorf("invalid initial transform: %w", err)
	}

	stats := diagnostic.NewPublishStats(clock)
	reconf, err := services.NewReconfigureService(reconfigure.NewEngine(state), stats, logger)
	if err != nil {
		return err
	}
	publisher, err := services.NewPublisherService(state, params.Period(), clock, logger)
	if err != nil {
		return err
	}
	publisher.AddSink(stats)

	if bootstrap.ZeroMQ.Enabled {
		zmqService, err := zeromq.NewZeroMQService(bootstrap.ZeroMQ, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize ZeroMQ service: %w", err)
		}
		publisher.AddSink(zeromq.RegisterReconfigureHandlers(zmqService, reconf, logger))
		if err := zmqService.Start(); err != nil {
			return fmt.Errorf("failed to start ZeroMQ service: %w", err)
		}
		defer zmqService.Stop()
	}

	// Mirror the startup transform before any client can edit it.
	reconf.Initialize()

	if bootstrap.Server.Enabled {
		app := newHTTPServer(reconf, stats, publisher, logger)
		addr := fmt.Sprintf(":%d", bootstrap.Server.HTTPPort)
		go func() {
			logger.Infof("HTTP server starting on %s", addr)
			if err := app.Listen(addr); err != nil {
				logger.Errorf("HTTP server stopped: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := app.ShutdownWithContext(shutdownCtx); err != nil {
				logger.Errorf("Server forced to shutdown: %v", err)
			}
		}()
	}

	tf := state.Snapshot()
	logger.Infof("Publishing %s -> %s every %v", tf.FrameID, tf.ChildFrameID, params.Period())

	if err := publisher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Infof("Shutting down")
	return nil
}

func newHTTPServer(reconf services.ReconfigureService, stats *diagnostic.PublishStats, publisher *services.PublisherService, logger customlog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "static_transform_publisher",
		ErrorHandler:          customErrorHandler,
		DisableStartupMessage: true,
	})
	app.Use(fiberlogger.New())
	app.Use(recover.New())

	hub := api.NewTransformHub(logger)
	publisher.AddSink(hub)

	api.RegisterReconfigureRoutes(app, reconf, stats, logger)
	api.RegisterStreamRoutes(app, hub, logger)
	return app
}

// Custom error handler
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}

package app

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/vk/genhub/internal/ctxlog"
	"github.com/vk/genhub/internal/notify"
)

// newStatusServer serves liveness and the tracker's current snapshot.
func newStatusServer(ctx context.Context, tracker *notify.Tracker) *fiber.App {
	logger := ctxlog.FromContext(ctx)
	srv := fiber.New(fiber.Config{
		AppName:               "genhub",
		DisableStartupMessage: true,
	})

	srv.Get("/health", func(c *fiber.Ctx) error {
		logger.Debug("Health check endpoint hit.", "remote_addr", c.IP(), "path", c.Path())
		return c.SendString("OK")
	})
	srv.Get("/status", func(c *fiber.Ctx) error {
		return c.JSON(tracker.Snapshot())
	})
	srv.Get("/status/:label", func(c *fiber.Ctx) error {
		label := c.Params("label")
		for _, rec := range tracker.Snapshot().Genomes {
			if rec.Label == label {
				return c.JSON(rec)
			}
		}
		return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("unknown genome %q", label))
	})
	return srv
}

// startStatusServer runs the status server in the background and returns
// a function that shuts it down.
func (a *App) startStatusServer(ctx context.Context, port int) func() {
	logger := ctxlog.FromContext(ctx)
	srv := newStatusServer(ctx, a.tracker)
	addr := fmt.Sprintf(":%d", port)

	go func() {
		logger.Info("🩺 Status server starting", "address", fmt.Sprintf("http://localhost%s/status", addr))
		if err := srv.Listen(addr); err != nil {
			logger.Error("Status server failed", "error", err)
		}
	}()

	return func() {
		logger.Debug("Shutting down status server...")
		if err := srv.Shutdown(); err != nil {
			logger.Error("Status server shutdown failed", "error", err)
		}
	}
}

// Package server exposes the scoring service over HTTP with fiber.
package server

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/linky/internal/logger"
	"github.com/spigell/linky/internal/scoring"
)

const (
	appName         = "linky"
	shutdownTimeout = 10 * time.Second
	requestIDLocal  = "requestid"
)

// Service is the part of scoring.Service the handlers need.
type Service interface {
	Score(ctx context.Context, req scoring.Request) (*scoring.Result, error)
	Bio(ctx context.Context, req scoring.Request) (string, error)
}

type Server struct {
	app    *fiber.App
	svc    Service
	logger *zap.Logger
}

func New(svc Service, log *zap.Logger) *Server {
	s := &Server{
		svc:    svc,
		logger: logger.OrNop(log),
	}

	s.app = fiber.New(fiber.Config{
		AppName:               appName,
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})

	s.app.Use(requestid.New(requestid.Config{
		Generator:  uuid.NewString,
		ContextKey: requestIDLocal,
	}))
	s.app.Use(requestLogger(s.logger))
	s.app.Use(recover.New())

	s.register()

	return s
}

func (s *Server) register() {
	s.app.Get("/", s.root)
	s.app.Post("/calculatescore", s.calculateScore)
	s.app.Post("/generate_bio", s.generateBio)
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run serves on addr until ctx is canceled, then shuts the server down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(addr)
	}()

	s.logger.Info("http server listening", zap.String("addr", addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server", zap.Duration("timeout", shutdownTimeout))
	if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return err
	}

	return <-errCh
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	if code >= fiber.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String(logger.FieldRequestID, requestID(c)),
			zap.Error(err),
		)
	}

	return c.Status(code).JSON(errorResponse{Error: err.Error()})
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDLocal).(string)
	return id
}

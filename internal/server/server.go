// Package server exposes the sweep and single-intent run over HTTP for an
// external trigger service. Every /v1 route requires the shared trigger
// secret.
package server

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/constants"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/logger"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/models"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/sweep"
)

var ErrNoSecret = errors.New("trigger secret is required to serve HTTP")

// Sweeper runs one sweep.
type Sweeper interface {
	Run(ctx context.Context) (sweep.Summary, error)
}

type Server struct {
	app     *fiber.App
	sweeper Sweeper
	runner  sweep.Runner
	secret  string
}

func New(sweeper Sweeper, runner sweep.Runner, secret string) (*Server, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}

	s := &Server{sweeper: sweeper, runner: runner, secret: secret}
	s.app = fiber.New(fiber.Config{
		AppName:               constants.AppName,
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.app.Use(recover.New())
	s.app.Use(requestLogger())

	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "version": constants.Version})
	})

	v1 := s.app.Group("/v1", s.requireSecret())
	v1.Post("/sweep", s.handleSweep)
	v1.Post("/"+constants.UserPathCollection+"/:uid/"+constants.IntentPathCollection+"/:id/run", s.handleRun)
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App { return s.app }

// Listen blocks serving addr until Shutdown.
func (s *Server) Listen(addr string) error {
	logger.Info("HTTP trigger listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) requireSecret() fiber.Handler {
	return func(c *fiber.Ctx) error {
		got := c.Get(constants.TriggerSecretHeader)
		if got == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Missing trigger secret")
		}
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.secret)) != 1 {
			return fiber.NewError(fiber.StatusForbidden, "Invalid trigger secret")
		}
		return c.Next()
	}
}

func (s *Server) handleSweep(c *fiber.Ctx) error {
	sum, err := s.sweeper.Run(c.UserContext())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(sum)
}

// OutcomeResponse is the JSON body of a single-intent run.
type OutcomeResponse struct {
	Intent          string                 `json:"intent"`
	Status          models.ExecutionStatus `json:"status"`
	Key             string                 `json:"key,omitempty"`
	ScheduledForUTC *time.Time             `json:"scheduled_for_utc,omitempty"`
	AIUsed          bool                   `json:"ai_used"`
	DraftID         string                 `json:"draft_id,omitempty"`
	Error           string                 `json:"error,omitempty"`
}

func (s *Server) handleRun(c *fiber.Ctx) error {
	ref, err := models.ParseIntentPath(constants.UserPathCollection + "/" + c.Params("uid") + "/" + constants.IntentPathCollection + "/" + c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	out := s.runner.RunOne(c.UserContext(), ref)
	resp := OutcomeResponse{
		Intent:  ref.Path(),
		Status:  out.Status,
		Key:     out.Key,
		AIUsed:  out.AIUsed,
		DraftID: out.DraftID,
	}
	if !out.ScheduledForUTC.IsZero() {
		at := out.ScheduledForUTC
		resp.ScheduledForUTC = &at
	}
	if out.Err != nil {
		resp.Error = out.Err.Error()
	}
	return c.JSON(resp)
}

func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
		logger.Debug("HTTP request",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"duration", time.Since(start),
		)
		return err
	}
}

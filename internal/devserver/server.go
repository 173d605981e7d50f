// Package devserver is an in-memory implementation of the student API used
// for local demos and integration tests.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/alexisbeaulieu97/roster/internal/gateway"
	"github.com/alexisbeaulieu97/roster/internal/logger"
	"github.com/alexisbeaulieu97/roster/internal/student"
	rostererrors "github.com/alexisbeaulieu97/roster/pkg/errors"
)

// Envelope is the body of every error response.
type Envelope struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

const statusError = "error"

// Options configures a Server.
type Options struct {
	Logger *logger.Logger
}

// Server serves the student collection over HTTP.
type Server struct {
	app   *fiber.App
	store Store
	log   *logger.Logger

	mu      sync.Mutex
	ln      net.Listener
	stopped bool
}

// New builds a server over store.
func New(store Store, opts Options) *Server {
	s := &Server{store: store, log: opts.Logger}

	s.app = fiber.New(fiber.Config{
		AppName:               "roster-devserver",
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})
	s.app.Use(recover.New())
	s.app.Use(requestid.New(requestid.Config{Header: gateway.RequestIDHeader}))
	s.app.Use(s.logRequests)

	api := s.app.Group(gateway.CollectionPath)
	api.Get("/", s.listStudents)
	api.Post("/", s.createStudent)
	api.Get("/:id", s.getStudent)
	api.Put("/:id", s.updateStudent)
	api.Delete("/:id", s.deleteStudent)

	return s
}

// App exposes the fiber application, mainly for app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

// Serve serves on ln until Shutdown. It returns nil once the server has
// been shut down, including when Shutdown ran first.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		_ = ln.Close()
		return nil
	}
	s.ln = ln
	s.mu.Unlock()

	s.log.With("addr", ln.Addr().String()).Info("dev server listening")
	err := s.app.Listener(ln)
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

// Shutdown stops the server, waiting for active requests until ctx is done.
// The listener is closed as well so a Serve call that has not reached the
// accept loop yet still returns.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.stopped = true
	ln := s.ln
	s.mu.Unlock()

	err := s.app.ShutdownWithContext(ctx)
	if ln != nil {
		_ = ln.Close()
	}
	return err
}

func (s *Server) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	status := c.Response().StatusCode()
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
	}
	requestID, _ := c.Locals("requestid").(string)
	s.log.Request(c.Method(), c.Path(), status, time.Since(start), requestID)
	return err
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		s.log.Error(err, "request failed")
	}
	return c.Status(code).JSON(Envelope{Status: statusError, Error: err.Error()})
}

func (s *Server) listStudents(c *fiber.Ctx) error {
	return c.JSON(s.store.List())
}

func (s *Server) getStudent(c *fiber.Ctx) error {
	rec, err := s.store.Get(c.Params("id"))
	if err != nil {
		return notFound(err)
	}
	return c.JSON(rec)
}

func (s *Server) createStudent(c *fiber.Ctx) error {
	draft, err := parseDraft(c)
	if err != nil {
		return err
	}
	rec := s.store.Create(draft)
	s.log.WithFields(map[string]any{"student_id": rec.ID, "name": rec.Name}).Info("student created")
	return c.Status(fiber.StatusCreated).JSON(rec)
}

func (s *Server) updateStudent(c *fiber.Ctx) error {
	draft, err := parseDraft(c)
	if err != nil {
		return err
	}
	rec, err := s.store.Update(c.Params("id"), draft)
	if err != nil {
		return notFound(err)
	}
	s.log.With("student_id", rec.ID).Info("student updated")
	return c.JSON(rec)
}

func (s *Server) deleteStudent(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := s.store.Delete(id); err != nil {
		return notFound(err)
	}
	s.log.With("student_id", id).Info("student deleted")
	return c.SendStatus(fiber.StatusNoContent)
}

// parseDraft decodes and validates a request body.
func parseDraft(c *fiber.Ctx) (student.Draft, error) {
	if len(c.Body()) == 0 {
		return student.Draft{}, fiber.NewError(fiber.StatusBadRequest, "request body is empty")
	}
	var draft student.Draft
	if err := c.BodyParser(&draft); err != nil {
		return student.Draft{}, fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	draft = draft.Normalized()
	if err := student.ValidateDraft(draft); err != nil {
		var vErr *rostererrors.ValidationError
		if errors.As(err, &vErr) {
			return student.Draft{}, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("field %s %s", vErr.Field, vErr.Message))
		}
		return student.Draft{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return draft, nil
}

func notFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return err
}

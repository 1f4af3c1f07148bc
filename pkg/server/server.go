// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package server exposes replacement sessions over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/walteh/multreplace/pkg/session"
	"gitlab.com/tozd/go/errors"
)

// DefaultMaxBodyBytes limits uploaded documents and rule payloads
const DefaultMaxBodyBytes int64 = 10 << 20

// Config holds the server settings
type Config struct {
	Addr         string
	MaxBodyBytes int64
	ContextLines int
}

// 🌐 Server is the HTTP API for multreplace sessions
type Server struct {
	router  chi.Router
	manager *session.Manager
	log     zerolog.Logger
	cfg     Config
}

// New creates and configures the HTTP server. The logger is taken from ctx.
func New(ctx context.Context, manager *session.Manager, cfg Config) *Server {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.ContextLines < 0 {
		cfg.ContextLines = 0
	}
	s := &Server{
		manager: manager,
		log:     *zerolog.Ctx(ctx),
		cfg:     cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/replace", s.handleReplace)

		r.Get("/sessions", s.handleListSessions)
		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Put("/rules", s.handleSetRules)
			r.Put("/document", s.handleSetDocument)
			r.Post("/execute", s.handleExecute)
			r.Get("/download", s.handleDownload)
		})
	})

	s.router = r
}

// 🚀 ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr).Msg("server listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Errorf("serving on %s: %w", s.cfg.Addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info().Msg("shutting down server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Errorf("shutting down server: %w", err)
		}
		return nil
	}
}

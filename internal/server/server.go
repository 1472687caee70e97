// Package server exposes the trip session over an HTTP JSON API for a
// browser frontend.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/tripcraft/tripcraft/internal/ai"
	"github.com/tripcraft/tripcraft/internal/session"
)

// DefaultShareBase is the link prefix for share URLs when none is
// configured. The payload carries the whole trip, so any host serving the
// frontend can resolve it.
const DefaultShareBase = "https://tripcraft.app/"

// Server wires the session and planner into HTTP handlers.
type Server struct {
	sess      *session.Session
	gen       ai.Generator
	shareBase string
	limiter   *visitorLimiter
}

// Option tweaks server construction.
type Option func(*Server)

// WithShareBase sets the link prefix used for share URLs and QR codes.
func WithShareBase(base string) Option {
	return func(s *Server) {
		if base != "" {
			s.shareBase = base
		}
	}
}

// New creates a server over the given session and planner.
func New(sess *session.Session, gen ai.Generator, opts ...Option) *Server {
	s := &Server{
		sess:      sess,
		gen:       gen,
		shareBase: DefaultShareBase,
		limiter:   newVisitorLimiter(rate.Limit(5), 10),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the full middleware-wrapped handler chain.
func (s *Server) Handler() http.Handler {
	router := s.router()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(router)

	return requestLogging(securityHeaders(corsHandler))
}

func (s *Server) router() *httprouter.Router {
	router := httprouter.New()

	router.GET("/api/health", s.handleHealth)

	router.POST("/api/plan", s.limiter.limit(s.handlePlan))
	router.GET("/api/trips", s.handleListTrips)
	router.GET("/api/trips/:id", s.handleGetTrip)
	router.PUT("/api/trips/current/:id", s.handleSetCurrent)
	router.DELETE("/api/trips/:id", s.handleDeleteTrip)

	router.POST("/api/trips/:id/days/:day/start-time", s.handleDayStartTime)
	router.POST("/api/trips/:id/stops/:stop/duration", s.handleStopDuration)
	router.POST("/api/trips/:id/stops/:stop/toggle", s.handleStopToggle)
	router.POST("/api/trips/:id/stops/:stop/complete", s.handleStopComplete)
	router.POST("/api/trips/:id/active", s.handleSetActive)

	router.GET("/api/trips/:id/views", s.handleViews)

	router.POST("/api/trips/:id/packing", s.limiter.limit(s.handleGeneratePacking))
	router.POST("/api/trips/:id/packing/items/:item/toggle", s.handlePackingToggle)

	router.GET("/api/trips/:id/share", s.handleShare)
	router.GET("/api/trips/:id/share/qr.png", s.handleShareQR)
	router.POST("/api/import", s.handleImport)

	router.GET("/api/suggest", s.limiter.limit(s.handleSuggest))

	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      5 * time.Minute, // planning calls can run long
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

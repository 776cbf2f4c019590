// Package devserver is an in-memory implementation of the ordering
// platform API, good enough to develop and test the client against
// without the real backend. State lives in process memory and resets on
// restart; accounts for each role are pre-seeded.
package devserver

import (
	"context"
	"net/http"
	"time"

	"github.com/tavolo/tavolo/pkg/logger"
	"github.com/tavolo/tavolo/pkg/metrics"
	"github.com/tavolo/tavolo/pkg/middleware"
	"github.com/tavolo/tavolo/pkg/reqid"
	"github.com/tavolo/tavolo/pkg/router"
)

type Server struct {
	state  *state
	router *router.Router
}

func New() *Server {
	s := &Server{state: newState(), router: router.New()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(reqid.Middleware, metrics.Middleware, middleware.Logger, middleware.Recovery, middleware.CORS(middleware.DevCORSOptions()))

	users := s.router.Group("/users")
	users.Post("/login", s.handleLogin)
	users.Post("/signup", s.handleSignup)
	users.Post("/logout", s.handleLogout)
	users.Put("/profile", s.handleProfile)

	api := s.router.Group("/api")
	api.Get("/user-orders/menu", s.handleMenu)
	api.Post("/user-orders/cart/add", s.handleCartAdd)
	api.Get("/user-orders/cart/{user_id}", s.handleCartGet)
	api.Post("/user-orders/cart/update-quantity", s.handleCartUpdateQuantity)
	api.Post("/user-orders/cart/remove", s.handleCartRemove)
	api.Post("/user-orders/checkout", s.handleCheckout)
	api.Get("/user-orders/orders/{user_id}", s.handleUserOrders)
	api.Get("/events", s.handleEvents)
	api.Post("/events/book", s.handleBookEvent)

	s.router.Handle("/metrics", metrics.Handler())
}

// Handler exposes the routed mux, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router.Handler()
}

// Start serves on addr until ctx is cancelled, then drains with a short
// shutdown grace period.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("dev server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	authorization "carparts/contexts/identity-access/authorization-service"
	authzhttp "carparts/contexts/identity-access/authorization-service/transport/http"
	profile "carparts/contexts/identity-access/profile-service"
	orders "carparts/contexts/marketplace/order-service"
	parts "carparts/contexts/marketplace/parts-service"
	_ "carparts/internal/platform/httpserver/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

const maxBodyBytes = 1 << 20

// Modules are the bounded-context surfaces served over HTTP.
type Modules struct {
	Authorization authorization.Module
	Parts         parts.Module
	Orders        orders.Module
	Profile       profile.Module
}

type Options struct {
	Addr           string
	RateLimitRPS   float64
	RateLimitBurst int
}

type Server struct {
	mux     *chi.Mux
	logger  *slog.Logger
	addr    string
	limiter *clientLimiter

	authorization authorization.Module
	parts         parts.Module
	orders        orders.Module
	profile       profile.Module
}

type healthResponse struct {
	OK      bool   `json:"ok"`
	Backend string `json:"backend"`
	Time    string `json:"time"`
}

func New(modules Modules, logger *slog.Logger, opts Options) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}

	s := &Server{
		mux:           chi.NewRouter(),
		logger:        logger,
		addr:          opts.Addr,
		limiter:       newClientLimiter(opts.RateLimitRPS, opts.RateLimitBurst),
		authorization: modules.Authorization,
		parts:         modules.Parts,
		orders:        modules.Orders,
		profile:       modules.Profile,
	}
	s.registerRoutes()
	return s
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("http server stopping",
		"event", "http_server_stopping",
		"module", "internal/platform/httpserver",
		"layer", "platform",
	)
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) registerRoutes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.trace)
	r.Use(middleware.Logger)
	r.Use(s.rateLimit)
	r.Use(limitBody)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	r.Get("/", s.handleRoot)
	r.Get("/api/health", s.handleHealth)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Get("/api/parts", s.handleListParts)
	r.Get("/api/parts/{id}", s.handleGetPart)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Get("/api/user/me", s.handleMe)
		r.Post("/api/user/save-phone-and-address", s.handleSavePhoneAndAddress)
		r.Get("/api/user/addresses", s.handleListAddresses)
		r.Delete("/api/user/addresses/{id}", s.handleDeleteAddress)

		r.Group(func(r chi.Router) {
			r.Use(s.requireRoles(buyerRoles))
			r.Post("/api/orders", s.handlePlaceOrder)
			r.Get("/api/orders", s.handleListMyOrders)
			r.Get("/api/orders/{id}", s.handleGetOrder)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireRoles(catalogRoles))
			r.Post("/api/parts", s.handleCreatePart)
			r.Put("/api/parts/{id}", s.handleUpdatePart)
			r.Delete("/api/parts/{id}", s.handleDeletePart)
			r.Get("/api/seller/parts", s.handleListSellerParts)
			r.Post("/api/seller/parts", s.handleCreatePart)
			r.Put("/api/seller/parts/{id}", s.handleUpdatePart)
		})

		r.Route("/api/admin", func(r chi.Router) {
			r.Use(s.requireRoles(adminRoles))
			r.Get("/users", s.handleListUsers)
			r.Post("/users", s.handleCreateUser)
			r.Put("/users/{id}/role", s.handleUpdateUserRole)
			r.Delete("/users/{id}", s.handleDeleteUser)
			r.Get("/orders", s.handleListAllOrders)
			r.Put("/orders/{id}/status", s.handleUpdateOrderStatus)
		})

		r.With(s.requireRoles(customerRoles)).Get("/api/protected/user", s.handleProtected)
		r.With(s.requireRoles(catalogRoles)).Get("/api/protected/seller", s.handleProtected)
		r.With(s.requireRoles(adminRoles)).Get("/api/protected/admin", s.handleProtected)
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Car Parts API is running"))
}

// handleHealth godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} httpserver.healthResponse
// @Router /api/health [get]
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		OK:      true,
		Backend: "Car Parts",
		Time:    time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleProtected(w http.ResponseWriter, r *http.Request) {
	actor, _ := identityFrom(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "access granted",
		"user":    actor,
	})
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, authzhttp.ErrorResponse{
		Error:   code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// decodeJSON reports false after writing a 400 when the body is not a JSON
// document of the expected shape.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body is too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return false
	}
	return true
}

// pathID returns 0 for anything that is not a positive integer so the use
// case reports its own invalid-id error.
func pathID(r *http.Request) int64 {
	value, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || value <= 0 {
		return 0
	}
	return value
}

func (s *Server) logUnhandled(r *http.Request, module string, err error) {
	s.logger.ErrorContext(r.Context(), "request failed",
		"event", "http_request_failed",
		"module", module,
		"layer", "transport",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
		"error", err.Error(),
	)
}

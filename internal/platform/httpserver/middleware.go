package httpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	authzerrors "carparts/contexts/identity-access/authorization-service/domain/errors"
	authzservices "carparts/contexts/identity-access/authorization-service/domain/services"
	identityv1 "carparts/contracts/identity/v1"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

var (
	buyerRoles    = authzservices.NewCapabilitySet(identityv1.RoleCustomer, identityv1.RoleSeller, identityv1.RoleAdmin)
	customerRoles = authzservices.NewCapabilitySet(identityv1.RoleCustomer)
	catalogRoles  = authzservices.NewCapabilitySet(identityv1.RoleSeller, identityv1.RoleAdmin)
	adminRoles    = authzservices.NewCapabilitySet(identityv1.RoleAdmin)
)

type identityContextKey struct{}

func withIdentity(ctx context.Context, identity identityv1.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, identity)
}

func identityFrom(ctx context.Context) (identityv1.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey{}).(identityv1.Identity)
	return identity, ok
}

// authenticate runs the token validator and identity resolver and stores the
// resolved identity on the request context.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := s.authorization.Handler.AuthenticateHandler(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			s.writeAuthDomainError(w, r, err)
			return
		}
		trace.SpanFromContext(r.Context()).SetAttributes(
			attribute.Int64("enduser.id", identity.ID),
			attribute.String("enduser.role", identity.Role),
		)
		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), identity)))
	})
}

func (s *Server) requireRoles(required authzservices.CapabilitySet) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := identityFrom(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "missing_credential", authzerrors.ErrMissingCredential.Error())
				return
			}
			if err := authzservices.Authorize(identity, required); err != nil {
				s.logger.WarnContext(r.Context(), "access denied",
					"event", "http_access_denied",
					"module", "internal/platform/httpserver",
					"layer", "transport",
					"user_id", identity.ID,
					"role", identity.Role,
					"path", r.URL.Path,
				)
				writeError(w, http.StatusForbidden, "forbidden", "Access denied: insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// trace opens a server span per request, continuing any W3C trace context
// sent by the caller.
func (s *Server) trace(next http.Handler) http.Handler {
	tracer := otel.Tracer("carparts/internal/platform/httpserver")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		ctx, span := tracer.Start(ctx, r.Method+" "+r.URL.Path, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		if routeCtx := chi.RouteContext(ctx); routeCtx != nil && routeCtx.RoutePattern() != "" {
			span.SetName(r.Method + " " + routeCtx.RoutePattern())
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		span.SetAttributes(
			attribute.String("http.request.method", r.Method),
			attribute.String("url.path", r.URL.Path),
			attribute.Int("http.response.status_code", status),
			attribute.String("request.id", middleware.GetReqID(ctx)),
		)
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, fmt.Sprintf("status %d", status))
		}
	})
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow(clientIP(r)) {
			writeError(w, http.StatusTooManyRequests, "rate_limited", "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiter keeps one token bucket per client address. A zero rate
// disables limiting.
type clientLimiter struct {
	mu      sync.Mutex
	rps     rate.Limit
	burst   int
	clients map[string]*clientEntry
	sweepAt time.Time
}

func newClientLimiter(rps float64, burst int) *clientLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &clientLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		clients: make(map[string]*clientEntry),
	}
}

func (l *clientLimiter) Allow(client string) bool {
	if l == nil || l.rps <= 0 {
		return true
	}
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.After(l.sweepAt) {
		for key, entry := range l.clients {
			if now.Sub(entry.lastSeen) > 30*time.Minute {
				delete(l.clients, key)
			}
		}
		l.sweepAt = now.Add(5 * time.Minute)
	}

	entry, ok := l.clients[client]
	if !ok {
		entry = &clientEntry{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[client] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

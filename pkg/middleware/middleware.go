package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/staffworx/recruiting/pkg/composables"
	"github.com/staffworx/recruiting/pkg/configuration"
	"github.com/staffworx/recruiting/pkg/httpapi"
)

// ProvidePool attaches the database pool so repositories can open
// transactions from any request context.
func ProvidePool(pool *pgxpool.Pool) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(composables.WithPool(r.Context(), pool)))
		})
	}
}

// ProvideTenant resolves the caller's tenant from the X-Tenant-ID header.
// Authentication happens upstream; this service trusts the gateway.
func ProvideTenant() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("X-Tenant-ID"))
			tenantID, err := uuid.Parse(raw)
			if err != nil {
				_ = httpapi.WriteError(w, http.StatusBadRequest, "", "MISSING_TENANT", "missing or invalid X-Tenant-ID header")
				return
			}
			ctx := composables.WithTenantID(r.Context(), tenantID)

			if actor := strings.TrimSpace(r.Header.Get("X-Actor-ID")); actor != "" {
				if actorID, err := uuid.Parse(actor); err == nil {
					ctx = composables.WithActorID(ctx, actorID)
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestLogger attaches a request-scoped log entry and emits one line per
// request with latency.
func RequestLogger(logger *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := strings.TrimSpace(r.Header.Get(configuration.Use().RequestIDHeader))
			if requestID == "" {
				requestID = uuid.NewString()
			}

			entry := logger.WithFields(logrus.Fields{
				"request_id": requestID,
				"method":     r.Method,
				"path":       r.URL.Path,
			})
			next.ServeHTTP(w, r.WithContext(composables.WithLogger(r.Context(), entry)))

			entry.WithField("duration", time.Since(start).String()).Info("request completed")
		})
	}
}

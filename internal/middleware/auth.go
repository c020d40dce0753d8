package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"mission-control/internal/auth"
	"mission-control/internal/shared/config"
	"mission-control/internal/shared/errors"
	"mission-control/internal/shared/response"
)

type contextKey string

const OperatorContextKey contextKey = "operator"

// TokenCookie is read when no Authorization header is present.
const TokenCookie = "auth_token"

// OperatorAuth guards mutating routes with an operator JWT. When disabled it
// passes every request through.
type OperatorAuth struct {
	enabled bool
	secret  string
}

func NewOperatorAuth(cfg config.AuthConfig) *OperatorAuth {
	slog.Info("Operator authentication configured",
		"component", "operator_auth",
		"enabled", cfg.Enabled)

	return &OperatorAuth{enabled: cfg.Enabled, secret: cfg.JWTSecret}
}

func (a *OperatorAuth) Require(next http.Handler) http.Handler {
	if !a.enabled {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := slog.With(
			"middleware", "operator_auth",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)

		token := bearerToken(r)
		if token == "" {
			response.Error(w, r, logger, errors.Unauthorized("authentication required"))
			return
		}

		claims, err := auth.ValidateToken(a.secret, token)
		if err != nil {
			response.Error(w, r, logger, errors.Unauthorized("invalid token"))
			return
		}

		if !claims.CanOperate() {
			logger.Warn("Token without operator role used on operator route",
				"subject", claims.Subject,
				"role", claims.Role)
			response.Error(w, r, logger, errors.Forbidden("operator access required"))
			return
		}

		logger.Debug("Operator authenticated", "subject", claims.Subject)

		ctx := context.WithValue(r.Context(), OperatorContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *OperatorAuth) RequireFunc(next http.HandlerFunc) http.Handler {
	return a.Require(next)
}

func bearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}

	if cookie, err := r.Cookie(TokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// GetOperatorFromContext returns the authenticated operator, if any.
func GetOperatorFromContext(r *http.Request) *auth.Claims {
	if claims, ok := r.Context().Value(OperatorContextKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}

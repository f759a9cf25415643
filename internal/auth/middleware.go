package auth

import (
	"net/http"
	"strings"

	"github.com/fdg312/nutrition-hub/internal/config"
	"github.com/fdg312/nutrition-hub/internal/respond"
	"github.com/fdg312/nutrition-hub/internal/userctx"
	"github.com/sirupsen/logrus"
)

// Middleware — middleware для проверки авторизации
type Middleware struct {
	config  *config.Config
	service *Service
	logger  logrus.FieldLogger
}

func NewMiddleware(cfg *config.Config, service *Service, logger logrus.FieldLogger) *Middleware {
	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		logger = l
	}
	return &Middleware{
		config:  cfg,
		service: service,
		logger:  logger,
	}
}

// Wrap picks the middleware for the configured mode.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	switch {
	case m.config.AuthMode == config.AuthModeNone:
		return next
	case m.config.AuthRequired:
		return m.RequireAuth(next)
	default:
		return m.OptionalAuth(next)
	}
}

// RequireAuth — middleware для защиты эндпоинтов
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.config.AuthRequired || isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		subject, err := m.authenticateHeader(r.Header.Get("Authorization"))
		if err != nil {
			writeUnauthorized(w, "Unauthorized")
			return
		}

		next.ServeHTTP(w, r.WithContext(userctx.WithSubject(r.Context(), subject)))
	})
}

// OptionalAuth validates Bearer token only when it is provided.
// Without token, requests pass through unchanged.
func (m *Middleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if strings.TrimSpace(authHeader) == "" {
			next.ServeHTTP(w, r)
			return
		}

		subject, err := m.authenticateHeader(authHeader)
		if err != nil {
			writeUnauthorized(w, "Invalid or expired token")
			return
		}

		m.logger.WithFields(logrus.Fields{
			"sub":    subject,
			"method": r.Method,
			"path":   r.URL.Path,
		}).Debug("auth token accepted")
		next.ServeHTTP(w, r.WithContext(userctx.WithSubject(r.Context(), subject)))
	})
}

func (m *Middleware) authenticateHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrInvalidToken
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", ErrInvalidToken
	}

	return m.service.VerifyJWT(parts[1])
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	respond.JSON(w, http.StatusUnauthorized, respond.ErrorResponse{
		Error: respond.ErrorDetail{Name: "Unauthorized", Message: message},
	})
}

func isPublicPath(path string) bool {
	return path == "/healthz" || strings.HasPrefix(path, "/v1/auth/")
}

package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"palanquee-backend/internal/domain"
	"palanquee-backend/internal/logger"
	"palanquee-backend/internal/security"
)

type contextKey string

const (
	contextKeyMemberID  contextKey = "member_id"
	contextKeyRole      contextKey = "role"
	contextKeyRequestID contextKey = "request_id"
)

// MemberFromContext returns the authenticated member identity placed there by
// AuthMiddleware.
func MemberFromContext(ctx context.Context) (int64, domain.MemberRole, error) {
	id, ok := ctx.Value(contextKeyMemberID).(int64)
	if !ok {
		return 0, "", domain.ErrNotAuthenticated
	}
	role, ok := ctx.Value(contextKeyRole).(domain.MemberRole)
	if !ok {
		return 0, "", domain.ErrNotAuthenticated
	}
	return id, role, nil
}

// RequestIDMiddleware tags each request with a UUID, echoed in the response
// header for log correlation.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", requestID)
		ctx := context.WithValue(r.Context(), contextKeyRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LoggingMiddleware logs one line per request with timing.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID, _ := r.Context().Value(contextKeyRequestID).(string)
		log := logger.WithRequest(requestID, r.Method, r.URL.Path)

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		log.Info("Request handled", "status", recorder.status, "duration_ms", time.Since(start).Milliseconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// AuthMiddleware validates the bearer token and injects the member identity
// into the request context. Routes behind it always see a resolved identity.
type AuthMiddleware struct {
	tokens security.TokenManager
}

func NewAuthMiddleware(tokens security.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearer(r)
		if token == "" {
			respondError(w, r, domain.ErrNotAuthenticated)
			return
		}

		claims, err := m.tokens.ValidateToken(token)
		if err != nil {
			respondError(w, r, domain.ErrNotAuthenticated)
			return
		}
		if claims.Type != security.TokenTypeAccess {
			respondError(w, r, domain.ErrNotAuthenticated)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyMemberID, claims.MemberID)
		ctx = context.WithValue(ctx, contextKeyRole, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractBearer(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	if len(header) > 7 && strings.EqualFold(header[0:7], "bearer ") {
		return header[7:]
	}
	return header
}

package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"assetdesk/internal/common"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-ID"

// RequestObserver receives one call per finished request. *metrics.Metrics
// satisfies it.
type RequestObserver interface {
	RequestObserved(method, route string, status int, elapsed time.Duration)
}

// AuditMiddleware tags every request with an id and logs its outcome.
type AuditMiddleware struct {
	log      *zap.Logger
	observer RequestObserver
	skip     []string
}

func NewAuditMiddleware(log *zap.Logger, observer RequestObserver) *AuditMiddleware {
	return &AuditMiddleware{
		log:      log,
		observer: observer,
		skip:     []string{"/health", "/metrics", "/swagger"},
	}
}

// AuditRequest must run outside the JWT middleware so that rejected
// requests are logged too. The user id is read after the chain returns.
func (m *AuditMiddleware) AuditRequest() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			requestID := req.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			c.Response().Header().Set(RequestIDHeader, requestID)
			c.SetRequest(req.WithContext(context.WithValue(req.Context(), common.RequestIDKey, requestID)))

			start := time.Now()
			err := next(c)
			if err != nil {
				// Let echo write the response so the status below is final.
				c.Error(err)
			}
			elapsed := time.Since(start)

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			status := c.Response().Status
			if m.observer != nil {
				m.observer.RequestObserved(req.Method, route, status, elapsed)
			}
			if m.skipped(req.URL.Path) {
				return nil
			}

			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("route", route),
				zap.String("path", req.URL.Path),
				zap.Int("status", status),
				zap.Duration("latency", elapsed),
				zap.String("request_id", requestID),
			}
			if userID, ok := common.GetUserIDFromContext(c.Request().Context()); ok {
				fields = append(fields, zap.String("user_id", userID))
			}
			if err != nil {
				fields = append(fields, zap.Error(err))
			}

			switch {
			case status >= http.StatusInternalServerError:
				m.log.Error("Request failed", fields...)
			case isMutation(req.Method):
				m.log.Info("Request audited", fields...)
			default:
				m.log.Debug("Request served", fields...)
			}
			return nil
		}
	}
}

func (m *AuditMiddleware) skipped(path string) bool {
	for _, prefix := range m.skip {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

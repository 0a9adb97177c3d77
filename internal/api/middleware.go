package api

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ougirez/mothertongue/internal/pkg/logger"
)

// RequestLogMiddleware puts the request id on the request context logger and
// logs one line per request once the response is written.
func (svc *APIService) RequestLogMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		start := time.Now()
		req := ctx.Request()

		reqCtx := logger.With(req.Context(), "request_id", ctx.Response().Header().Get(echo.HeaderXRequestID))
		ctx.SetRequest(req.WithContext(reqCtx))

		if err := next(ctx); err != nil {
			ctx.Error(err)
		}

		logger.Info(reqCtx, "request",
			"method", req.Method,
			"uri", req.RequestURI,
			"status", ctx.Response().Status,
			"latency", time.Since(start),
		)
		return nil
	}
}

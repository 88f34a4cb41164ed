package middleware

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"foodcart/internal/platform/logger"
)

// 1リクエスト1行
func RequestLogger(log *logger.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			kv := []interface{}{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.RequestID != "" {
				kv = append(kv, "requestId", v.RequestID)
			}
			if id, ok := UserIDFromContext(c); ok {
				kv = append(kv, "userId", id)
			}

			switch {
			case v.Error != nil:
				log.Error("request", append(kv, "err", v.Error)...)
			case v.Status >= 500:
				log.Error("request", kv...)
			case v.Status >= 400:
				log.Warn("request", kv...)
			default:
				log.Info("request", kv...)
			}
			return nil
		},
	})
}

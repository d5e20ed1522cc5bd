package observability

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequestLogger logs every request with method, path, status and duration,
// and feeds the request counters.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		duration := time.Since(start)

		metrics.RecordRequest(c.Path(), c.Method(), status, duration)

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
		}
		if err != nil {
			fields = append(fields, zap.Error(err))
			logger.Error("request completed with error", fields...)
			return err
		}

		if status >= fiber.StatusInternalServerError {
			logger.Error("request completed", fields...)
		} else {
			logger.Info("request completed", fields...)
		}
		return nil
	}
}

package middleware

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"docsign/internal/config"
	"docsign/internal/logger"
)

// Logger logs each HTTP request as one structured entry with the fields
// request_id, method, path, status and latency (milliseconds).
func Logger(log logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		rid := RequestIDFromContext(c.UserContext())
		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		entry := log.WithFields(logrus.Fields{
			"request_id": rid,
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"latency":    float64(time.Since(start).Microseconds()) / 1000,
		})
		switch {
		case status >= fiber.StatusInternalServerError:
			entry.Error("http_request")
		case status >= fiber.StatusBadRequest:
			entry.Warn("http_request")
		default:
			entry.Info("http_request")
		}
		return err
	}
}

// LoggerWithWriter is Logger backed by a fresh JSON logger writing to w,
// with timestamps in loc.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	return Logger(logger.NewWithWriter(w, config.LogConfig{Level: "info", Timezone: loc.String()}))
}

package context

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// RequestIDKey carries the request ID inside a context.Context; HeaderKey is
// the HTTP header and fiber local it originates from.
const (
	RequestIDKey = "request_id"
	HeaderKey    = "X-Request-ID"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	requestID, ok := ctx.Value(RequestIDKey).(string)
	if !ok || requestID == "" {
		return "unknown"
	}
	return requestID
}

// FromFiberCtx lifts the request ID set by the request-ID middleware into a
// plain context.Context for the service and repository layers.
func FromFiberCtx(c *fiber.Ctx) context.Context {
	requestID, ok := c.Locals(HeaderKey).(string)
	if !ok || requestID == "" {
		requestID = c.Get(HeaderKey)

		if requestID == "" {
			requestID = "unknown"
		}
	}

	return WithRequestID(context.Background(), requestID)
}

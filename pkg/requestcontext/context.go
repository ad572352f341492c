// Package requestcontext holds the request-scoped values middleware sets and
// services read: auditor identity, request ID, client metadata, and a
// per-request clock. It stays free of net/http so services and workers can
// import it without pulling transport code.
package requestcontext

import (
	"context"
	"time"
)

type (
	auditorKey     struct{}
	clientIPKey    struct{}
	userAgentKey   struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// Auditor returns the caller identity, or "" when the request carried no
// usable bearer token. The identity middleware sets it from the token
// subject; access control itself is enforced upstream.
func Auditor(ctx context.Context) string {
	v, _ := ctx.Value(auditorKey{}).(string)
	return v
}

// WithAuditor injects a caller identity.
func WithAuditor(ctx context.Context, auditor string) context.Context {
	return context.WithValue(ctx, auditorKey{}, auditor)
}

// ClientIP returns the client address recorded by the metadata middleware.
func ClientIP(ctx context.Context) string {
	v, _ := ctx.Value(clientIPKey{}).(string)
	return v
}

// UserAgent returns the raw User-Agent header value.
func UserAgent(ctx context.Context) string {
	v, _ := ctx.Value(userAgentKey{}).(string)
	return v
}

// WithClientMetadata injects client IP and User-Agent, for tests that skip
// the middleware chain as much as for the chain itself.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, clientIPKey{}, clientIP)
	return context.WithValue(ctx, userAgentKey{}, userAgent)
}

// RequestID returns the request ID assigned at the edge.
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey{}).(string)
	return v
}

// WithRequestID injects a request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Now returns the request-scoped time, falling back to time.Now for
// non-HTTP callers such as workers and tests that did not freeze the clock.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime pins the request clock. Audit events and verifiedAt stamps read
// it so one request observes one instant.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}

package testutil

import (
	"net/http"
	"time"

	"seatcheck/pkg/requestcontext"
)

// WithAuditor attaches an auditor identity to the request context, simulating
// what the identity middleware does for requests carrying a valid token.
func WithAuditor(req *http.Request, auditor string) *http.Request {
	return req.WithContext(requestcontext.WithAuditor(req.Context(), auditor))
}

// WithRequestID attaches a request id to the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}

// WithFrozenTime pins the request-scoped clock, so handlers that stamp
// verifiedAt produce deterministic values.
func WithFrozenTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}

// WithClient attaches client metadata to the request context.
func WithClient(req *http.Request, ip, userAgent string) *http.Request {
	return req.WithContext(requestcontext.WithClientMetadata(req.Context(), ip, userAgent))
}

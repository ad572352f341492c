package audit

import (
	"context"

	"github.com/google/uuid"

	"seatcheck/pkg/requestcontext"
)

// Store persists audit events. The in-memory store backs tests and the
// no-broker development setup; production fans out to Kafka via the worker.
type Store interface {
	Append(ctx context.Context, event Event) error
	List(ctx context.Context, limit int) ([]Event, error)
}

// Publisher enriches and enqueues audit events. Enqueueing never blocks the
// business operation: when the inbox is full the event is dropped and counted,
// because an audit-trail hiccup must not fail a verdict.
type Publisher struct {
	inbox   chan Event
	dropped func()
}

// NewPublisher creates a publisher with a buffered inbox consumed by Worker.
// onDrop, if non-nil, is called once per event discarded on overflow.
func NewPublisher(buffer int, onDrop func()) *Publisher {
	if buffer <= 0 {
		buffer = 256
	}
	return &Publisher{inbox: make(chan Event, buffer), dropped: onDrop}
}

// Inbox exposes the event channel for the worker.
func (p *Publisher) Inbox() <-chan Event { return p.inbox }

// Record enriches the event from request context and enqueues it.
func (p *Publisher) Record(ctx context.Context, event Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.Actor == "" {
		event.Actor = requestcontext.Auditor(ctx)
	}
	event.RequestID = requestcontext.RequestID(ctx)
	event.ClientIP = requestcontext.ClientIP(ctx)
	event.Client = ClientInfo(requestcontext.UserAgent(ctx))

	select {
	case p.inbox <- event:
	default:
		if p.dropped != nil {
			p.dropped()
		}
	}
}

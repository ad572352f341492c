package audit

import (
	"fmt"
	"time"

	"github.com/mssola/useragent"
)

// Action names the audited operation.
type Action string

const (
	ActionSampleBuilt   Action = "sample_built"
	ActionRecordVerdict Action = "record_verdict"
	ActionFileGateSet   Action = "file_gate_set"
)

// Event is emitted from domain logic to capture key audit-trail actions.
// Keep it transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Action    Action    `json:"action"`
	// Actor is the caller identity string supplied by the gateway; empty when
	// the request carried no identity.
	Actor     string `json:"actor,omitempty"`
	FileID    int64  `json:"fileId,omitempty"`
	RecordID  int64  `json:"recordId,omitempty"`
	Status    string `json:"status,omitempty"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"requestId,omitempty"`
	ClientIP  string `json:"clientIp,omitempty"`
	// Client is a short human-readable rendering of the caller's User-Agent.
	Client string `json:"client,omitempty"`
}

// ClientInfo condenses a raw User-Agent header into "Browser version (OS)".
// Raw UA strings are noisy in audit listings; the parsed form is enough to
// tell which tool an auditor used.
func ClientInfo(rawUA string) string {
	if rawUA == "" {
		return ""
	}
	ua := useragent.New(rawUA)
	name, version := ua.Browser()
	if name == "" {
		return rawUA
	}
	if os := ua.OS(); os != "" {
		return fmt.Sprintf("%s %s (%s)", name, version, os)
	}
	return fmt.Sprintf("%s %s", name, version)
}

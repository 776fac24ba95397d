package airlink

import "context"

// EventKind tags a session event surfaced to the pipeline loop.
type EventKind int

const (
	// EventConnected signals the session has been established.
	EventConnected EventKind = iota + 1
	// EventDisconnected signals the session was lost or failed. The
	// transport keeps retrying on its own; this only reports state.
	EventDisconnected
	// EventBinary carries one inbound binary frame of PCM audio.
	EventBinary
	// EventText carries one inbound text frame. Informational only.
	EventText
)

func (k EventKind) String() string {
	switch k {
	case EventConnected:
		return "connected"
	case EventDisconnected:
		return "disconnected"
	case EventBinary:
		return "binary"
	case EventText:
		return "text"
	default:
		return "unknown"
	}
}

// Event is one session lifecycle or data event. Data is only set for
// binary and text events and must not be retained past the dispatch
// call.
type Event struct {
	Kind EventKind
	Data []byte
}

// Session is the transport surface the pipeline drives: one logical
// connection to the bridge with autonomous reconnect.
type Session interface {
	// Connect starts the dial/reconnect machinery. It does not block
	// and calling it more than once is a no-op.
	Connect(ctx context.Context)

	// Poll dispatches all pending events synchronously to fn and
	// returns their count. It never blocks waiting for network data.
	Poll(fn func(Event)) int

	// SendBinary transmits one binary frame. While disconnected the
	// frame is dropped and a non-fatal error returned.
	SendBinary(p []byte) error

	// Close tears the session down for good.
	Close(ctx context.Context) error
}

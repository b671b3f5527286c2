package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventNodeEnter      EventType = "node_enter"
	EventNodeLeave      EventType = "node_leave"
	EventSlotsExtracted EventType = "slots_extracted"
	EventSlotPrompt     EventType = "slot_prompt"
	EventClassified     EventType = "classified"
	EventSessionEnd     EventType = "session_end"
	EventError          EventType = "error"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
}

// NodeEvent represents entry or exit from a node.
type NodeEvent struct {
	EventBase
	NodeID   string   `json:"node_id"`
	NodeType NodeType `json:"node_type"`
}

// SlotEvent reports extraction results or a prompt for a missing slot.
type SlotEvent struct {
	EventBase
	NodeID    string            `json:"node_id"`
	Extracted map[string]string `json:"extracted,omitempty"`
	Missing   string            `json:"missing,omitempty"`
}

// ClassificationEvent reports how the next node was picked.
type ClassificationEvent struct {
	EventBase
	From      string `json:"from"`
	To        string `json:"to"`
	Basis     string `json:"basis"`
	Defaulted bool   `json:"defaulted"`
}

// ErrorEvent reports an error signal returned to the host.
type ErrorEvent struct {
	EventBase
	NodeID string    `json:"node_id,omitempty"`
	Kind   ErrorKind `json:"kind"`
	Err    error     `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
// Nil hooks are skipped.
type LifecycleHooks struct {
	OnNodeEnter      func(context.Context, *NodeEvent)
	OnNodeLeave      func(context.Context, *NodeEvent)
	OnSlotsExtracted func(context.Context, *SlotEvent)
	OnSlotPrompt     func(context.Context, *SlotEvent)
	OnClassified     func(context.Context, *ClassificationEvent)
	OnSessionEnd     func(context.Context, *NodeEvent)
	OnError          func(context.Context, *ErrorEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnNodeEnter:      chain(h.OnNodeEnter, other.OnNodeEnter),
		OnNodeLeave:      chain(h.OnNodeLeave, other.OnNodeLeave),
		OnSlotsExtracted: chain(h.OnSlotsExtracted, other.OnSlotsExtracted),
		OnSlotPrompt:     chain(h.OnSlotPrompt, other.OnSlotPrompt),
		OnClassified:     chain(h.OnClassified, other.OnClassified),
		OnSessionEnd:     chain(h.OnSessionEnd, other.OnSessionEnd),
		OnError:          chain(h.OnError, other.OnError),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}

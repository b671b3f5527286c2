package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/switchboard/pkg/domain"
)

// LogHooks returns lifecycle hooks that write one structured record per event.
// Slot values are never logged, only slot names.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeEnter: func(ctx context.Context, e *domain.NodeEvent) {
			logger.DebugContext(ctx, "node_enter", "session_id", e.SessionID, "node_id", e.NodeID, "type", e.NodeType)
		},
		OnNodeLeave: func(ctx context.Context, e *domain.NodeEvent) {
			logger.DebugContext(ctx, "node_leave", "session_id", e.SessionID, "node_id", e.NodeID)
		},
		OnSlotsExtracted: func(ctx context.Context, e *domain.SlotEvent) {
			names := make([]string, 0, len(e.Extracted))
			for name := range e.Extracted {
				names = append(names, name)
			}
			logger.DebugContext(ctx, "slots_extracted", "session_id", e.SessionID, "node_id", e.NodeID, "slots", names)
		},
		OnSlotPrompt: func(ctx context.Context, e *domain.SlotEvent) {
			logger.InfoContext(ctx, "slot_prompt", "session_id", e.SessionID, "node_id", e.NodeID, "slot", e.Missing)
		},
		OnClassified: func(ctx context.Context, e *domain.ClassificationEvent) {
			logger.InfoContext(ctx, "classified",
				"session_id", e.SessionID,
				"from", e.From,
				"to", e.To,
				"basis", e.Basis,
				"defaulted", e.Defaulted,
			)
		},
		OnSessionEnd: func(ctx context.Context, e *domain.NodeEvent) {
			logger.InfoContext(ctx, "session_end", "session_id", e.SessionID, "node_id", e.NodeID)
		},
		OnError: func(ctx context.Context, e *domain.ErrorEvent) {
			logger.WarnContext(ctx, "session_error", "session_id", e.SessionID, "node_id", e.NodeID, "kind", e.Kind, "err", e.Err)
		},
	}
}

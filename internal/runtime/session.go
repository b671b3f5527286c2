package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/nlu"
)

// Session holds one conversation's cursor, slot values and turn history.
//
// A Session is not safe for concurrent use. The workflow it references is
// only read.
type Session struct {
	id       string
	workflow *domain.Workflow

	extractor    nlu.SlotExtractor
	classifier   nlu.IntentClassifier
	interpolator Interpolator
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	now          func() time.Time

	current string
	slots   map[string]string
	history []domain.Turn
}

// NewSession creates an idle session over w.
func NewSession(id string, w *domain.Workflow, opts ...Option) *Session {
	s := &Session{
		id:       id,
		workflow: w,
		slots:    make(map[string]string),
	}
	defaults(s)
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("session_id", id)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Workflow returns the workflow the session walks.
func (s *Session) Workflow() *domain.Workflow { return s.workflow }

// Active reports whether the session has a current node.
func (s *Session) Active() bool { return s.current != "" }

// CurrentNode returns the node the cursor rests on.
func (s *Session) CurrentNode() (domain.Node, bool) {
	if s.current == "" {
		return domain.Node{}, false
	}
	return s.workflow.FindNode(s.current)
}

// Slots returns a copy of the accumulated slot values.
func (s *Session) Slots() map[string]string { return copySlots(s.slots) }

// History returns a copy of the turn history.
func (s *Session) History() []domain.Turn { return append([]domain.Turn(nil), s.history...) }

// Start places the cursor on the unique start node and emits its content.
func (s *Session) Start(ctx context.Context) (domain.Reply, error) {
	starts := s.workflow.StartNodes()
	if len(starts) != 1 {
		err := domain.ErrNoStartNode
		if len(starts) > 1 {
			err = fmt.Errorf("%w: found %d start nodes", domain.ErrNoStartNode, len(starts))
		}
		return s.fail(ctx, "", err), err
	}

	s.clear()
	start := starts[0]
	s.current = start.ID
	s.emitNode(ctx, s.hooks.OnNodeEnter, domain.EventNodeEnter, start)

	text := s.render(ctx, start.Content)
	s.appendTurn(domain.RoleAssistant, text)
	s.logger.Debug("session started", "node_id", start.ID)

	return domain.Reply{Text: text, NodeID: start.ID}, nil
}

// Submit processes one user message.
//
// It returns domain.ErrInactiveSession when the session is idle and an
// *domain.UnknownTargetNodeError when the chosen next node does not exist.
// In both cases the Reply carries the matching ErrorKind and the cursor
// does not move.
func (s *Session) Submit(ctx context.Context, message string) (domain.Reply, error) {
	if s.current == "" {
		return s.fail(ctx, "", domain.ErrInactiveSession), domain.ErrInactiveSession
	}
	node, ok := s.workflow.FindNode(s.current)
	if !ok {
		err := &domain.UnknownTargetNodeError{NodeID: s.current}
		return s.fail(ctx, s.current, err), err
	}

	recent := domain.RecentTurns(s.history, domain.HistoryWindow)
	s.appendTurn(domain.RoleUser, message)

	if node.Type == domain.NodeTypeIntent && len(node.RequiredSlots) > 0 {
		if reply, waiting := s.fillSlots(ctx, node, message, recent); waiting {
			return reply, nil
		}
	}

	if !node.HasOutputs() {
		if node.Type == domain.NodeTypeEnd {
			text := s.render(ctx, node.Content)
			return s.finish(ctx, node, text, ""), nil
		}
		s.logger.Warn("conversation paused on dead end", "node_id", node.ID)
		return domain.Reply{NodeID: node.ID, Warning: domain.WarningDeadEnd, Slots: copySlots(s.slots)}, nil
	}

	res := nlu.Decide(ctx, s.classifier, nlu.ClassifyRequest{
		Message:    message,
		Candidates: node.Outputs,
		Workflow:   s.workflow,
		Current:    &node,
		History:    recent,
	})
	return s.transition(ctx, node, res)
}

// Reset clears the cursor, slots and history. It always succeeds.
func (s *Session) Reset() {
	s.clear()
	s.logger.Debug("session reset")
}

// Snapshot captures the session state for persistence.
func (s *Session) Snapshot() *domain.Snapshot {
	return &domain.Snapshot{
		SessionID:     s.id,
		CurrentNodeID: s.current,
		Slots:         copySlots(s.slots),
		History:       s.History(),
	}
}

// Restore replaces the session state with snap.
// The snapshot cursor must name a node of the session workflow.
func (s *Session) Restore(snap *domain.Snapshot) error {
	if snap == nil {
		s.clear()
		return nil
	}
	if snap.CurrentNodeID != "" {
		if _, ok := s.workflow.FindNode(snap.CurrentNodeID); !ok {
			return &domain.UnknownTargetNodeError{NodeID: snap.CurrentNodeID}
		}
	}
	s.current = snap.CurrentNodeID
	s.slots = make(map[string]string, len(snap.Slots))
	for k, v := range snap.Slots {
		s.slots[k] = v
	}
	s.history = append([]domain.Turn(nil), snap.History...)
	return nil
}

func (s *Session) fillSlots(ctx context.Context, node domain.Node, message string, recent []domain.Turn) (domain.Reply, bool) {
	extracted := s.extractor.Extract(ctx, nlu.ExtractRequest{
		Message:       message,
		RequiredSlots: node.RequiredSlots,
		History:       recent,
	})
	if merged := s.mergeSlots(extracted); len(merged) > 0 && s.hooks.OnSlotsExtracted != nil {
		s.hooks.OnSlotsExtracted(ctx, &domain.SlotEvent{
			EventBase: s.base(domain.EventSlotsExtracted),
			NodeID:    node.ID,
			Extracted: merged,
		})
	}

	missing := s.firstMissing(node)
	if missing == "" {
		return domain.Reply{}, false
	}

	prompt := slotPrompt(missing)
	s.appendTurn(domain.RoleAssistant, prompt)
	if s.hooks.OnSlotPrompt != nil {
		s.hooks.OnSlotPrompt(ctx, &domain.SlotEvent{
			EventBase: s.base(domain.EventSlotPrompt),
			NodeID:    node.ID,
			Missing:   missing,
		})
	}
	return domain.Reply{
		Text:         prompt,
		NodeID:       node.ID,
		AwaitingSlot: missing,
		Slots:        copySlots(s.slots),
	}, true
}

func (s *Session) clear() {
	s.current = ""
	s.slots = make(map[string]string)
	s.history = nil
}

func (s *Session) appendTurn(role domain.Role, content string) {
	s.history = append(s.history, domain.Turn{Role: role, Content: content})
}

// fail reports an error signal through hooks and builds the matching reply.
func (s *Session) fail(ctx context.Context, nodeID string, err error) domain.Reply {
	kind := domain.KindOf(err)
	s.logger.Warn("turn rejected", "node_id", nodeID, "kind", kind, "error", err)
	if s.hooks.OnError != nil {
		s.hooks.OnError(ctx, &domain.ErrorEvent{
			EventBase: s.base(domain.EventError),
			NodeID:    nodeID,
			Kind:      kind,
			Err:       err,
		})
	}
	return domain.Reply{NodeID: nodeID, Error: kind}
}

func (s *Session) base(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: s.now(), Type: t, SessionID: s.id}
}

func (s *Session) emitNode(ctx context.Context, hook func(context.Context, *domain.NodeEvent), t domain.EventType, n domain.Node) {
	if hook == nil {
		return
	}
	hook(ctx, &domain.NodeEvent{EventBase: s.base(t), NodeID: n.ID, NodeType: n.Type})
}

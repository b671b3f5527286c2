package runtime

import (
	"context"

	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/nlu"
)

// transition moves the cursor from node to the resolved target.
func (s *Session) transition(ctx context.Context, from domain.Node, res nlu.Resolution) (domain.Reply, error) {
	if s.hooks.OnClassified != nil {
		s.hooks.OnClassified(ctx, &domain.ClassificationEvent{
			EventBase: s.base(domain.EventClassified),
			From:      from.ID,
			To:        res.NodeID,
			Basis:     string(res.Basis),
			Defaulted: res.Defaulted,
		})
	}

	target, ok := s.workflow.FindNode(res.NodeID)
	if !ok {
		err := &domain.UnknownTargetNodeError{NodeID: res.NodeID, From: from.ID}
		reply := s.fail(ctx, from.ID, err)
		reply.Slots = copySlots(s.slots)
		return reply, err
	}

	label := s.edgeLabel(from, target.ID)
	if label != "" {
		s.logger.Info("transition", "from", from.ID, "to", target.ID, "label", label, "basis", res.Basis)
	}

	s.emitNode(ctx, s.hooks.OnNodeLeave, domain.EventNodeLeave, from)
	s.current = target.ID
	s.emitNode(ctx, s.hooks.OnNodeEnter, domain.EventNodeEnter, target)

	text := s.render(ctx, target.Content)
	s.appendTurn(domain.RoleAssistant, text)

	if target.Type == domain.NodeTypeEnd {
		return s.finish(ctx, target, text, label), nil
	}
	return domain.Reply{
		Text:       text,
		NodeID:     target.ID,
		Transition: label,
		Slots:      copySlots(s.slots),
	}, nil
}

// edgeLabel finds the label of the edge from -> to, preferring an edge
// tagged with the output selector matching the target.
func (s *Session) edgeLabel(from domain.Node, to string) string {
	if e, ok := s.workflow.EdgeBetween(from.ID, to, to); ok {
		return e.Label
	}
	return ""
}

// finish emits the end node reply and returns the session to idle.
func (s *Session) finish(ctx context.Context, end domain.Node, text, label string) domain.Reply {
	reply := domain.Reply{
		Text:       text,
		NodeID:     end.ID,
		Ended:      true,
		Transition: label,
		Slots:      copySlots(s.slots),
	}
	s.emitNode(ctx, s.hooks.OnSessionEnd, domain.EventSessionEnd, end)
	s.logger.Debug("session ended", "node_id", end.ID)
	s.clear()
	return reply
}

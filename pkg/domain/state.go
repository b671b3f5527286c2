package domain

// HistoryWindow is the number of recent turns handed to model-backed helpers.
const HistoryWindow = 3

// Role identifies who produced a Turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one entry of the conversation history.
type Turn struct {
	Role    Role   `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// RecentTurns returns at most the last n turns of history.
func RecentTurns(history []Turn, n int) []Turn {
	if n <= 0 || len(history) == 0 {
		return nil
	}
	if len(history) > n {
		history = history[len(history)-n:]
	}
	return append([]Turn(nil), history...)
}

// Snapshot is the persistable state of a dialogue session.
// An empty CurrentNodeID means the session is idle. Workflow names the
// library entry the session runs against, when the host keeps one.
type Snapshot struct {
	SessionID     string            `json:"session_id"`
	Workflow      string            `json:"workflow,omitempty"`
	CurrentNodeID string            `json:"current_node_id,omitempty"`
	Slots         map[string]string `json:"slots,omitempty"`
	History       []Turn            `json:"history,omitempty"`
}

// Active reports whether the snapshot has a current node.
func (s *Snapshot) Active() bool {
	return s != nil && s.CurrentNodeID != ""
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	c := &Snapshot{
		SessionID:     s.SessionID,
		Workflow:      s.Workflow,
		CurrentNodeID: s.CurrentNodeID,
		History:       append([]Turn(nil), s.History...),
	}
	if s.Slots != nil {
		c.Slots = make(map[string]string, len(s.Slots))
		for k, v := range s.Slots {
			c.Slots[k] = v
		}
	}
	return c
}

// Warning codes attached to a Reply.
const (
	WarningDeadEnd = "dead_end"
)

// Reply is returned to the host after Start or Submit.
type Reply struct {
	// Text is what the host displays or speaks. Empty when nothing is emitted.
	Text string `json:"reply_text"`

	// NodeID is the node the session rests on after the turn.
	NodeID string `json:"node_id,omitempty"`

	// AwaitingSlot names the first required slot still missing.
	AwaitingSlot string `json:"awaiting_slot,omitempty"`

	// Ended is true once an end node was reached and the session went idle.
	Ended bool `json:"ended"`

	Error   ErrorKind `json:"error,omitempty"`
	Warning string    `json:"warning,omitempty"`

	// Transition is the label of the edge traversed during the turn.
	Transition string `json:"transition,omitempty"`

	// Slots is a copy of the slot values at reply time, including the values
	// collected by a session that just ended.
	Slots map[string]string `json:"slots,omitempty"`
}

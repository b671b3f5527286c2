package domain

// SnapshotDiff represents the changes between two session snapshots.
// It is serialized to JSON so clients can apply partial updates.
type SnapshotDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	// CurrentNodeID is set when the cursor moved. An empty value means idle.
	CurrentNodeID *string `json:"current_node_id,omitempty"`

	// Slots contains only changed, added or deleted keys.
	// Deleted keys are present with a nil value.
	Slots map[string]*string `json:"slots,omitempty"`

	// Appended holds turns added since the old snapshot.
	Appended []Turn `json:"appended,omitempty"`

	// Cleared is true when the history was reset instead of appended to.
	Cleared bool `json:"cleared,omitempty"`
}

// Diff calculates the difference between old and new.
// If old is nil, the diff represents the whole new snapshot.
// It returns nil when nothing changed.
func Diff(old, new *Snapshot) *SnapshotDiff {
	if new == nil {
		return nil
	}

	diff := &SnapshotDiff{SessionID: new.SessionID}

	if old == nil || old.CurrentNodeID != new.CurrentNodeID {
		id := new.CurrentNodeID
		diff.CurrentNodeID = &id
	}
	diff.Slots = diffSlots(old, new)
	diff.Appended, diff.Cleared = diffHistory(old, new)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func diffSlots(old, new *Snapshot) map[string]*string {
	delta := make(map[string]*string)

	var before map[string]string
	if old != nil {
		before = old.Slots
	}
	for k, v := range new.Slots {
		if prev, ok := before[k]; !ok || prev != v {
			val := v
			delta[k] = &val
		}
	}
	for k := range before {
		if _, ok := new.Slots[k]; !ok {
			delta[k] = nil
		}
	}

	if len(delta) == 0 {
		return nil
	}
	return delta
}

// diffHistory assumes append-only history unless the new one is shorter.
func diffHistory(old, new *Snapshot) ([]Turn, bool) {
	if old == nil {
		if len(new.History) == 0 {
			return nil, false
		}
		return append([]Turn(nil), new.History...), false
	}

	oldLen, newLen := len(old.History), len(new.History)
	switch {
	case newLen > oldLen:
		return append([]Turn(nil), new.History[oldLen:]...), false
	case newLen < oldLen:
		return append([]Turn(nil), new.History...), true
	}
	return nil, false
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SnapshotDiff) IsEmpty() bool {
	return d.CurrentNodeID == nil &&
		len(d.Slots) == 0 &&
		len(d.Appended) == 0 &&
		!d.Cleared
}

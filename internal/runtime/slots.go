package runtime

import (
	"fmt"

	"github.com/aretw0/switchboard/pkg/domain"
)

// slotPrompt is the assistant turn asking for a missing slot.
func slotPrompt(slot string) string {
	return fmt.Sprintf("Could you please provide your %s?", slot)
}

// mergeSlots adds the non-empty extracted values. Later values win.
func (s *Session) mergeSlots(extracted map[string]string) map[string]string {
	merged := make(map[string]string)
	for k, v := range extracted {
		if v == "" {
			continue
		}
		s.slots[k] = v
		merged[k] = v
	}
	return merged
}

// firstMissing returns the first required slot without a value.
func (s *Session) firstMissing(node domain.Node) string {
	for _, slot := range node.RequiredSlots {
		if s.slots[slot] == "" {
			return slot
		}
	}
	return ""
}

func copySlots(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

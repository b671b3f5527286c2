package runtime

import (
	"context"
	"regexp"
)

// Interpolator renders a node content template with the session slots.
type Interpolator func(ctx context.Context, template string, slots map[string]string) string

var placeholder = regexp.MustCompile(`\{([^{}]+)\}`)

// SlotInterpolator replaces each {name} with the slot value.
// Unknown placeholders are left verbatim.
func SlotInterpolator(_ context.Context, template string, slots map[string]string) string {
	if len(slots) == 0 {
		return template
	}
	return placeholder.ReplaceAllStringFunc(template, func(m string) string {
		if v, ok := slots[m[1:len(m)-1]]; ok {
			return v
		}
		return m
	})
}

func (s *Session) render(ctx context.Context, content string) string {
	return s.interpolator(ctx, content, s.slots)
}

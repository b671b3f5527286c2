package middleware

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/ports"
)

// Mask replaces sensitive values in persisted snapshots.
const Mask = "***"

type piiMiddleware struct {
	next     ports.SessionStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware masks slots whose name matches one of the patterns.
// The raw value is also masked wherever it appears in the history, since
// the user typed it there first.
func NewPIIMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid pii pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return func(next ports.SessionStore) ports.SessionStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *piiMiddleware) Save(ctx context.Context, sessionID string, snap *domain.Snapshot) error {
	// The caller keeps using its snapshot; only the copy is masked.
	masked := snap.Clone()

	var secrets []string
	for name, value := range masked.Slots {
		if m.sensitive(name) {
			if value != "" {
				secrets = append(secrets, value)
			}
			masked.Slots[name] = Mask
		}
	}
	for i, turn := range masked.History {
		for _, secret := range secrets {
			turn.Content = strings.ReplaceAll(turn.Content, secret, Mask)
		}
		masked.History[i] = turn
	}

	return m.next.Save(ctx, sessionID, masked)
}

func (m *piiMiddleware) sensitive(name string) bool {
	for _, p := range m.patterns {
		if p.MatchString(name) {
			return true
		}
	}
	return false
}

// Load drops masked slots so a resumed session asks for them again
// instead of treating the mask as a value.
func (m *piiMiddleware) Load(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	snap, err := m.next.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	for name, value := range snap.Slots {
		if value == Mask && m.sensitive(name) {
			delete(snap.Slots, name)
		}
	}
	return snap, nil
}

func (m *piiMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

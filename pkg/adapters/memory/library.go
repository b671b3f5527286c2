package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/switchboard/pkg/domain"
)

// Library implements ports.WorkflowRepository in memory.
// Taken names are disambiguated with a numeric suffix: "name (1)", "name (2)".
type Library struct {
	mu        sync.RWMutex
	workflows map[string]*domain.Workflow
}

// NewLibrary creates an empty library.
func NewLibrary() *Library {
	return &Library{workflows: make(map[string]*domain.Workflow)}
}

// Get returns a copy of the named workflow.
func (l *Library) Get(ctx context.Context, name string) (*domain.Workflow, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	w, ok := l.workflows[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrWorkflowNotFound, name)
	}
	return w.Clone(), nil
}

// Put stores a copy of w and returns the name it was stored under.
func (l *Library) Put(ctx context.Context, name string, w *domain.Workflow) (string, error) {
	if name == "" {
		return "", fmt.Errorf("workflow name must not be empty")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	final := name
	for i := 1; ; i++ {
		if _, taken := l.workflows[final]; !taken {
			break
		}
		final = fmt.Sprintf("%s (%d)", name, i)
	}
	l.workflows[final] = w.Clone()
	return final, nil
}

// Replace stores w under name, overwriting any previous workflow.
func (l *Library) Replace(ctx context.Context, name string, w *domain.Workflow) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.workflows[name] = w.Clone()
}

// List returns the stored names in lexical order.
func (l *Library) List(ctx context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, 0, len(l.workflows))
	for name := range l.workflows {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

package ports

import (
	"context"

	"github.com/aretw0/switchboard/pkg/domain"
)

// WorkflowRepository stores workflows by name.
type WorkflowRepository interface {
	// Get returns the named workflow or domain.ErrWorkflowNotFound.
	Get(ctx context.Context, name string) (*domain.Workflow, error)

	// Put stores w and returns the name it was stored under, which may be
	// disambiguated when the requested name is taken.
	Put(ctx context.Context, name string, w *domain.Workflow) (string, error)

	// List returns the stored names in a stable order.
	List(ctx context.Context) ([]string, error)
}

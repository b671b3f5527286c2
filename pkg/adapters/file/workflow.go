package file

import (
	"fmt"
	"os"

	"github.com/aretw0/switchboard/pkg/document"
	"github.com/aretw0/switchboard/pkg/domain"
)

// Load reads a workflow document. The format follows the file extension.
func Load(path string) (*domain.Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow: %w", err)
	}
	w, err := document.Unmarshal(data, document.FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return w, nil
}

// Save writes w to path atomically. The format follows the file extension.
func Save(path string, w *domain.Workflow) error {
	data, err := document.Marshal(w, document.FormatFromPath(path))
	if err != nil {
		return err
	}
	return writeAtomic(path, data)
}

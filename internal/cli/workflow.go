package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/switchboard/internal/samples"
	"github.com/aretw0/switchboard/pkg/adapters/file"
	"github.com/aretw0/switchboard/pkg/adapters/memory"
	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/ports"
)

// SamplePrefix selects a built-in workflow, e.g. "sample:banking".
const SamplePrefix = "sample:"

// DefaultSample is used when no workflow source is given.
const DefaultSample = "greeting"

// OpenWorkflow resolves src to a workflow and its name. src is a document
// path, "sample:<name>" or empty for the default sample.
func OpenWorkflow(src string) (string, *domain.Workflow, error) {
	if src == "" {
		src = SamplePrefix + DefaultSample
	}
	if name, ok := strings.CutPrefix(src, SamplePrefix); ok {
		w, err := samples.Get(name)
		return name, w, err
	}
	w, err := file.Load(src)
	if err != nil {
		return "", nil, err
	}
	return workflowName(src), w, nil
}

func workflowName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OpenLibrary builds the named workflow repository for network hosts.
// A directory is served as-is and its first workflow is the default;
// anything else is opened with OpenWorkflow into a memory library.
func OpenLibrary(ctx context.Context, src string) (ports.WorkflowRepository, string, error) {
	if info, err := os.Stat(src); err == nil && info.IsDir() {
		repo := file.NewRepository(src)
		names, err := repo.List(ctx)
		if err != nil {
			return nil, "", err
		}
		if len(names) == 0 {
			return nil, "", fmt.Errorf("%w: no workflow documents in %s", domain.ErrWorkflowNotFound, src)
		}
		return repo, names[0], nil
	}

	name, w, err := OpenWorkflow(src)
	if err != nil {
		return nil, "", err
	}
	lib := memory.NewLibrary()
	name, err = lib.Put(ctx, name, w)
	if err != nil {
		return nil, "", err
	}
	return lib, name, nil
}

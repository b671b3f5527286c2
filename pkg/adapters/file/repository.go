package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/switchboard/pkg/document"
	"github.com/aretw0/switchboard/pkg/domain"
)

var extensions = []string{".yaml", ".yml", ".json"}

// Repository implements ports.WorkflowRepository over a directory of
// workflow documents. The workflow name is the file name without extension.
type Repository struct {
	Dir    string
	Format document.Format

	mu sync.Mutex
}

// NewRepository creates a repository rooted at dir. New workflows are
// written as YAML.
func NewRepository(dir string) *Repository {
	return &Repository{Dir: dir, Format: document.FormatYAML}
}

func checkName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("invalid workflow name %q", name)
	}
	return nil
}

func (r *Repository) find(name string) (string, bool) {
	for _, ext := range extensions {
		path := filepath.Join(r.Dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// Get loads the named workflow.
func (r *Repository) Get(ctx context.Context, name string) (*domain.Workflow, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	path, ok := r.find(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrWorkflowNotFound, name)
	}
	return Load(path)
}

// Put writes w under name, or under "name (i)" when name is taken.
func (r *Repository) Put(ctx context.Context, name string, w *domain.Workflow) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	final := name
	for i := 1; ; i++ {
		if _, taken := r.find(final); !taken {
			break
		}
		final = fmt.Sprintf("%s (%d)", name, i)
	}

	ext := ".yaml"
	if r.Format == document.FormatJSON {
		ext = ".json"
	}
	if err := Save(filepath.Join(r.Dir, final+ext), w); err != nil {
		return "", err
	}
	return final, nil
}

// List returns workflow names in lexical order.
func (r *Repository) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(r.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}

	seen := make(map[string]bool)
	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if !isWorkflowExt(ext) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ext)
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func isWorkflowExt(ext string) bool {
	for _, e := range extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// Package document converts workflows to and from their persisted form:
// a structured document with two top-level sequences, nodes and edges.
package document

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/switchboard/pkg/domain"
)

// Document is the persisted representation of a workflow.
type Document struct {
	Nodes []NodeRecord `json:"nodes" yaml:"nodes"`
	Edges []EdgeRecord `json:"edges" yaml:"edges"`
}

// NodeRecord is one element of the nodes sequence.
type NodeRecord struct {
	ID            string           `json:"id" yaml:"id"`
	Type          string           `json:"type" yaml:"type"`
	Title         string           `json:"title,omitempty" yaml:"title,omitempty"`
	Content       string           `json:"content,omitempty" yaml:"content,omitempty"`
	RequiredSlots []string         `json:"required_slots,omitempty" yaml:"required_slots,omitempty"`
	Outputs       []string         `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	Position      *domain.Position `json:"position,omitempty" yaml:"position,omitempty"`

	// RequiredEntities is the key written by older designer versions.
	// It is read on load and never written.
	RequiredEntities []string `json:"required_entities,omitempty" yaml:"required_entities,omitempty"`
}

// EdgeRecord is one element of the edges sequence.
type EdgeRecord struct {
	From   string `json:"from" yaml:"from"`
	To     string `json:"to" yaml:"to"`
	Label  string `json:"label,omitempty" yaml:"label,omitempty"`
	Output string `json:"output,omitempty" yaml:"output,omitempty"`
}

// Serialize converts w into a Document.
func Serialize(w *domain.Workflow) Document {
	doc := Document{
		Nodes: []NodeRecord{},
		Edges: []EdgeRecord{},
	}
	for _, n := range w.Nodes() {
		doc.Nodes = append(doc.Nodes, NodeRecord{
			ID:            n.ID,
			Type:          string(n.Type),
			Title:         n.Title,
			Content:       n.Content,
			RequiredSlots: n.RequiredSlots,
			Outputs:       n.Outputs,
			Position:      n.Position,
		})
	}
	for _, e := range w.Edges() {
		doc.Edges = append(doc.Edges, EdgeRecord(e))
	}
	return doc
}

// Deserialize builds a fresh Workflow from doc.
// Nodes are normalized on the way in, so end-node outputs are dropped.
func Deserialize(doc Document) (*domain.Workflow, error) {
	w := domain.NewWorkflow()
	for i, rec := range doc.Nodes {
		slots := rec.RequiredSlots
		if len(rec.RequiredEntities) > 0 {
			slots = append(append([]string(nil), slots...), rec.RequiredEntities...)
		}
		err := w.AddNode(domain.Node{
			ID:            rec.ID,
			Type:          domain.NodeType(rec.Type),
			Title:         rec.Title,
			Content:       rec.Content,
			RequiredSlots: slots,
			Outputs:       rec.Outputs,
			Position:      rec.Position,
		})
		if err != nil {
			return nil, fmt.Errorf("node #%d: %w", i, err)
		}
	}
	for i, rec := range doc.Edges {
		if err := w.AddEdge(rec.From, rec.To, rec.Label, rec.Output); err != nil {
			return nil, fmt.Errorf("edge #%d: %w", i, err)
		}
	}
	return w, nil
}

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension. YAML is the default.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Marshal serializes w and encodes it.
func Marshal(w *domain.Workflow, f Format) ([]byte, error) {
	doc := Serialize(w)
	switch f {
	case FormatJSON:
		return json.MarshalIndent(doc, "", "  ")
	case FormatYAML:
		return yaml.Marshal(doc)
	default:
		return nil, fmt.Errorf("unsupported document format %q", f)
	}
}

// Unmarshal decodes data and deserializes it into a new workflow.
func Unmarshal(data []byte, f Format) (*domain.Workflow, error) {
	var doc Document
	switch f {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse workflow json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse workflow yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported document format %q", f)
	}
	return Deserialize(doc)
}

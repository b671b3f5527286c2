package nlu

import (
	"context"

	"github.com/aretw0/switchboard/pkg/domain"
)

// ExtractRequest is the input of a SlotExtractor.
type ExtractRequest struct {
	Message       string
	RequiredSlots []string
	History       []domain.Turn
}

// SlotExtractor pulls slot values out of free text.
//
// The result only holds keys from RequiredSlots with non-empty values.
// Missing slots are omitted; callers compare keys against the required set.
type SlotExtractor interface {
	Extract(ctx context.Context, req ExtractRequest) map[string]string
}

// ClassifyRequest is the input of an IntentClassifier.
type ClassifyRequest struct {
	Message string
	// Candidates are the raw output ids of the current node, in order.
	Candidates []string
	Workflow   *domain.Workflow
	// Current is the node the conversation rests on, used as prompt context.
	Current *domain.Node
	History []domain.Turn
}

// Basis records how a classification was reached.
type Basis string

const (
	BasisModel           Basis = "model"
	BasisKeyword         Basis = "keyword"
	BasisNoMatch         Basis = "no_match"
	BasisDelegateFailure Basis = "delegate_failure"
	BasisUnparsable      Basis = "unparsable"
	BasisUnresolved      Basis = "unresolved"
)

// Conclusive reports whether the basis names an actual choice.
func (b Basis) Conclusive() bool {
	return b == BasisModel || b == BasisKeyword
}

// Classification is the answer of an IntentClassifier.
type Classification struct {
	// NodeID is the chosen candidate, empty when inconclusive.
	NodeID string
	// Candidates are the candidate ids that resolved to nodes, in order.
	Candidates []string
	Basis      Basis
	// Degraded is set when a model-backed classifier fell back to another strategy.
	Degraded bool
}

// IntentClassifier picks the next node among the current node's outputs.
// It never blocks past its context and never returns an error.
type IntentClassifier interface {
	Classify(ctx context.Context, req ClassifyRequest) Classification
}

// resolveCandidates returns the candidate nodes that exist in w.
func resolveCandidates(w *domain.Workflow, ids []string) []domain.Node {
	if w == nil {
		return nil
	}
	var out []domain.Node
	for _, id := range ids {
		if n, ok := w.FindNode(id); ok {
			out = append(out, n)
		}
	}
	return out
}

func nodeIDs(nodes []domain.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	return out
}

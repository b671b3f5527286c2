package nlu

import "context"

// Resolution is the outcome of the default-resolution policy.
type Resolution struct {
	NodeID string
	Basis  Basis
	// Defaulted is true when NodeID came from the policy rather than the classifier.
	Defaulted bool
}

// ResolveTarget turns a classification into the id of the next node.
//
// A conclusive classification wins. Otherwise the first resolved candidate
// is used, and when no candidate resolved, the first raw output id. The
// returned id may still be unknown to the workflow in that last case.
func ResolveTarget(outputs []string, c Classification) Resolution {
	switch {
	case c.NodeID != "":
		return Resolution{NodeID: c.NodeID, Basis: c.Basis}
	case len(c.Candidates) > 0:
		return Resolution{NodeID: c.Candidates[0], Basis: c.Basis, Defaulted: true}
	case len(outputs) > 0:
		return Resolution{NodeID: outputs[0], Basis: BasisUnresolved, Defaulted: true}
	default:
		return Resolution{Basis: BasisUnresolved, Defaulted: true}
	}
}

// Decide classifies req and applies ResolveTarget.
func Decide(ctx context.Context, c IntentClassifier, req ClassifyRequest) Resolution {
	return ResolveTarget(req.Candidates, c.Classify(ctx, req))
}

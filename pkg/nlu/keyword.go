package nlu

import (
	"context"
	"strings"
	"unicode/utf8"
)

// minKeywordLen is the rune count a word must exceed to count as a keyword.
const minKeywordLen = 3

// KeywordClassifier scores each candidate by how many words of its title
// and content (longer than three characters) occur in the message.
type KeywordClassifier struct{}

// Classify implements IntentClassifier. The strictly highest positive score
// wins, ties go to the first candidate seen.
func (KeywordClassifier) Classify(_ context.Context, req ClassifyRequest) Classification {
	candidates := resolveCandidates(req.Workflow, req.Candidates)
	result := Classification{Candidates: nodeIDs(candidates)}
	if len(candidates) == 0 {
		result.Basis = BasisUnresolved
		return result
	}

	msg := strings.ToLower(req.Message)
	best := 0
	for _, n := range candidates {
		score := 0
		for _, kw := range strings.Fields(strings.ToLower(n.Content + " " + n.Title)) {
			if utf8.RuneCountInString(kw) > minKeywordLen && strings.Contains(msg, kw) {
				score++
			}
		}
		if score > best {
			best = score
			result.NodeID = n.ID
		}
	}

	if best == 0 {
		result.Basis = BasisNoMatch
		return result
	}
	result.Basis = BasisKeyword
	return result
}

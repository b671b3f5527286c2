package nlu

import (
	"context"
	"log/slog"

	"github.com/aretw0/switchboard/pkg/ports"
)

// ModelClassifier asks a text generator to pick a numbered option.
// When the delegate fails and a fallback is configured, the fallback answers.
type ModelClassifier struct {
	gen      ports.TextGenerator
	fallback IntentClassifier
	cfg      modelConfig
}

// NewModelClassifier creates a model-backed classifier. fallback may be nil.
func NewModelClassifier(gen ports.TextGenerator, fallback IntentClassifier, opts ...ModelOption) *ModelClassifier {
	return &ModelClassifier{gen: gen, fallback: fallback, cfg: newModelConfig(opts)}
}

// Classify implements IntentClassifier.
func (c *ModelClassifier) Classify(ctx context.Context, req ClassifyRequest) Classification {
	candidates := resolveCandidates(req.Workflow, req.Candidates)
	result := Classification{Candidates: nodeIDs(candidates)}
	if len(candidates) == 0 {
		result.Basis = BasisUnresolved
		return result
	}

	var reply string
	var err error
	if c.gen != nil {
		reply, err = c.gen.Generate(ctx, ports.GenerateRequest{
			Prompt:       classificationPrompt(req, candidates),
			SystemPrompt: classificationSystemPrompt,
			Temperature:  c.cfg.temperature,
			MaxTokens:    c.cfg.maxTokens,
		})
	}
	if c.gen == nil || err != nil || reply == "" {
		c.cfg.logger.Warn("intent classification delegate failed", slog.Any("error", err))
		if c.fallback != nil {
			degraded := c.fallback.Classify(ctx, req)
			degraded.Degraded = true
			return degraded
		}
		result.Basis = BasisDelegateFailure
		return result
	}

	n, ok := parseChoice(reply)
	if !ok || n < 1 || n > len(candidates) {
		c.cfg.logger.Debug("intent classification reply out of range", slog.String("reply", reply))
		result.Basis = BasisUnparsable
		return result
	}
	result.NodeID = candidates[n-1].ID
	result.Basis = BasisModel
	return result
}

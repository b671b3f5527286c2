package nlu

import (
	"context"
	"log/slog"

	"github.com/aretw0/switchboard/pkg/ports"
)

// ModelExtractor delegates slot extraction to a text generator and decodes
// its reply permissively. Any failure yields an empty result.
type ModelExtractor struct {
	gen ports.TextGenerator
	cfg modelConfig
}

// NewModelExtractor creates a model-backed extractor.
func NewModelExtractor(gen ports.TextGenerator, opts ...ModelOption) *ModelExtractor {
	return &ModelExtractor{gen: gen, cfg: newModelConfig(opts)}
}

// Extract implements SlotExtractor.
func (e *ModelExtractor) Extract(ctx context.Context, req ExtractRequest) map[string]string {
	out := make(map[string]string)
	if len(req.RequiredSlots) == 0 || e.gen == nil {
		return out
	}

	reply, err := e.gen.Generate(ctx, ports.GenerateRequest{
		Prompt:       extractionPrompt(req),
		SystemPrompt: extractionSystemPrompt,
		Temperature:  e.cfg.temperature,
		MaxTokens:    e.cfg.maxTokens,
	})
	if err != nil || reply == "" {
		e.cfg.logger.Debug("slot extraction delegate failed", slog.Any("error", err))
		return out
	}

	obj, ok := decodeObject(reply)
	if !ok {
		e.cfg.logger.Debug("slot extraction reply is not a JSON object", slog.Int("reply_len", len(reply)))
		return out
	}
	for _, slot := range req.RequiredSlots {
		if v, ok := scalarString(obj[slot]); ok {
			out[slot] = v
		}
	}
	return out
}

// FallbackExtractor runs Primary and fills the slots it left empty with Secondary.
type FallbackExtractor struct {
	Primary   SlotExtractor
	Secondary SlotExtractor
}

// Extract implements SlotExtractor.
func (f FallbackExtractor) Extract(ctx context.Context, req ExtractRequest) map[string]string {
	out := f.Primary.Extract(ctx, req)
	if out == nil {
		out = make(map[string]string)
	}
	var missing []string
	for _, slot := range req.RequiredSlots {
		if out[slot] == "" {
			missing = append(missing, slot)
		}
	}
	if len(missing) == 0 || f.Secondary == nil {
		return out
	}
	sub := req
	sub.RequiredSlots = missing
	for k, v := range f.Secondary.Extract(ctx, sub) {
		out[k] = v
	}
	return out
}

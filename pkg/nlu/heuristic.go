package nlu

import (
	"context"
	"regexp"
	"strings"
	"sync"
)

const word = `([\p{L}\p{N}_]+)`

// slotPatterns are tried in order; the first match wins.
var slotPatterns = []string{
	`(?i)%s:\s*` + word,
	`(?i)%s is ` + word,
	`(?i)my %s is ` + word,
	`(?i)` + word + ` for %s`,
}

// HeuristicExtractor fills slots with fixed text patterns such as
// "account_type: savings" or "my account_type is savings".
type HeuristicExtractor struct{}

// Extract implements SlotExtractor.
func (HeuristicExtractor) Extract(_ context.Context, req ExtractRequest) map[string]string {
	out := make(map[string]string)
	for _, slot := range req.RequiredSlots {
		if v := matchSlot(req.Message, slot); v != "" {
			out[slot] = v
		}
	}
	return out
}

// compiledSlots caches the compiled slotPatterns per slot name.
var compiledSlots sync.Map

func slotRegexps(slot string) []*regexp.Regexp {
	if cached, ok := compiledSlots.Load(slot); ok {
		return cached.([]*regexp.Regexp)
	}
	quoted := regexp.QuoteMeta(slot)
	res := make([]*regexp.Regexp, len(slotPatterns))
	for i, p := range slotPatterns {
		res[i] = regexp.MustCompile(strings.Replace(p, "%s", quoted, 1))
	}
	actual, _ := compiledSlots.LoadOrStore(slot, res)
	return actual.([]*regexp.Regexp)
}

func matchSlot(message, slot string) string {
	if slot == "" {
		return ""
	}
	for _, re := range slotRegexps(slot) {
		if m := re.FindStringSubmatch(message); m != nil {
			return m[1]
		}
	}
	return ""
}

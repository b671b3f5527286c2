package nlu

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// decodeObject parses a JSON object out of a model reply. It tries the whole
// reply, then a fenced code block, then the fragment between the first '{'
// and the last '}'.
func decodeObject(reply string) (map[string]any, bool) {
	text := strings.TrimSpace(reply)
	if obj, ok := unmarshalObject(text); ok {
		return obj, true
	}
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		if obj, ok := unmarshalObject(strings.TrimSpace(m[1])); ok {
			return obj, true
		}
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return nil, false
	}
	return unmarshalObject(text[start : end+1])
}

func unmarshalObject(text string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// scalarString converts a decoded JSON scalar to its string form.
// Nulls, objects and arrays yield false.
func scalarString(v any) (string, bool) {
	switch val := v.(type) {
	case nil, map[string]any, []any:
		return "", false
	case string:
		s := strings.TrimSpace(val)
		return s, s != ""
	case bool:
		return strconv.FormatBool(val), true
	}
	var s string
	if err := mapstructure.WeakDecode(v, &s); err != nil {
		return "", false
	}
	return s, s != ""
}

var firstInteger = regexp.MustCompile(`\d+`)

// parseChoice returns the first integer found in reply.
func parseChoice(reply string) (int, bool) {
	m := firstInteger.FindString(reply)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

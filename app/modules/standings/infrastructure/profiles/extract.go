package profiles

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	standingsdomain "github.com/Black-And-White-Club/standings-board/app/modules/standings/domain"
)

// Key aliases scanned, in order, for flat profiles.
var (
	ModelKeys    = []string{"model", "Model", "MODEL", "llm", "LLM", "model_name", "modelName", "agent", "Agent", "name"}
	StrategyKeys = []string{"strategy", "Strategy", "approach", "description"}
	PromptKeys   = []string{"prompt", "Prompt", "system_prompt", "systemPrompt", "instruction"}
)

// agentKey is the root of the nested agent/model/prompts schema.
const agentKey = "agent0"

// Extract maps a decoded profile document onto a Profile. The nested agent
// schema is used when the document has an agent0 entry with a model;
// otherwise the flat alias scan applies.
func Extract(doc map[string]any) standingsdomain.Profile {
	if agent, ok := asMap(doc[agentKey]); ok && truthy(agent["model"]) {
		return extractAgent(doc, agent)
	}

	return standingsdomain.Profile{
		Model:    firstTruthy(doc, ModelKeys, standingsdomain.UnknownModel),
		Strategy: firstTruthy(doc, StrategyKeys, ""),
		Prompt:   firstTruthy(doc, PromptKeys, ""),
		Raw:      doc,
	}
}

func extractAgent(doc, agent map[string]any) standingsdomain.Profile {
	profile := standingsdomain.Profile{
		Model: standingsdomain.UnknownModel,
		Raw:   doc,
	}

	// Only a mapping with a name identifies the model; a bare string does not.
	if m, ok := asMap(agent["model"]); ok {
		if name, ok := scalar(m["name"]); ok {
			profile.Model = name
			if provider, ok := scalar(m["provider"]); ok {
				profile.Model = provider + " " + name
			}
		}
		if params, ok := asMap(m["params"]); ok {
			profile.ModelParams = sortedParams(params)
		}
	}

	if prompts, ok := asMap(agent["prompts"]); ok {
		if prompt, ok := scalar(prompts["system_prompt"]); ok {
			profile.Prompt = prompt
		}
	}

	return profile
}

func sortedParams(params map[string]any) []standingsdomain.Param {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]standingsdomain.Param, 0, len(keys))
	for _, k := range keys {
		out = append(out, standingsdomain.Param{Key: k, Value: formatValue(params[k])})
	}
	return out
}

func firstTruthy(doc map[string]any, keys []string, fallback string) string {
	for _, k := range keys {
		if v, ok := scalar(doc[k]); ok {
			return v
		}
	}
	return fallback
}

// asMap accepts both decoded mapping shapes.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func truthy(v any) bool {
	if _, ok := asMap(v); ok {
		return true
	}
	if _, ok := v.([]any); ok {
		return true
	}
	_, ok := scalar(v)
	return ok
}

// scalar renders a truthy scalar. Empty strings, zero numbers, false, nil
// and collections report false.
func scalar(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, val != ""
	case bool:
		return "true", val
	case int:
		return strconv.Itoa(val), val != 0
	case int64:
		return strconv.FormatInt(val, 10), val != 0
	case uint64:
		return strconv.FormatUint(val, 10), val != 0
	case float64:
		if math.IsNaN(val) {
			return "", false
		}
		return standingsdomain.FormatNumber(val), val != 0
	case map[string]any, map[any]any, []any:
		return "", false
	default:
		return fmt.Sprint(val), true
	}
}

// formatValue renders any decoded value for display, including falsy ones.
func formatValue(v any) string {
	if s, ok := scalar(v); ok {
		return s
	}
	switch val := v.(type) {
	case nil:
		return ""
	case bool:
		return "false"
	case int, int64, uint64:
		return "0"
	case float64:
		return standingsdomain.FormatNumber(val)
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = formatValue(item)
		}
		return strings.Join(parts, ",")
	}
	if m, ok := asMap(v); ok {
		params := sortedParams(m)
		parts := make([]string, len(params))
		for i, p := range params {
			parts[i] = p.Key + ": " + p.Value
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return fmt.Sprint(v)
}

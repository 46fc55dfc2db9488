package upstream

import (
	"slices"
	"strings"

	"golang.org/x/exp/maps"
)

const (
	DefaultModel         = "GLM-4.6"
	DefaultUpstreamModel = "0727-360B-API"
	OwnedBy              = "z.ai"
	deepWebSearchServer  = "deep-web-search"
)

var modelMapping = map[string]string{
	"GLM-4.5":          "0727-360B-API",
	"GLM-4.5-Thinking": "0727-360B-API",
	"GLM-4.5-Search":   "0727-360B-API",
	"GLM-4.5-Air":      "0727-106B-API",
	"GLM-4.6":          "GLM-4-6-API-V1",
	"GLM-4.6-Thinking": "GLM-4-6-API-V1",
	"GLM-4.6-Search":   "GLM-4-6-API-V1",
}

// UpstreamModelID maps a public model name to the provider model id. Unknown
// names map to DefaultUpstreamModel.
func UpstreamModelID(model string) string {
	if id, ok := modelMapping[model]; ok {
		return id
	}
	return DefaultUpstreamModel
}

// KnownModel reports whether model is a public name of the mapping table.
func KnownModel(model string) bool {
	_, ok := modelMapping[model]
	return ok
}

// ModelNames lists the public model names, sorted.
func ModelNames() []string {
	names := maps.Keys(modelMapping)
	slices.Sort(names)
	return names
}

// Variant is the feature classification of a model name. It is a set of tags,
// Standard being the empty set.
type Variant uint8

const Standard Variant = 0

const (
	// Thinking enables the reasoning phase and drops tool definitions.
	Thinking Variant = 1 << iota
	// Search enables web search.
	Search
	// SearchV45 additionally attaches the deep web search MCP server. Only
	// set together with Search.
	SearchV45
)

// Classify derives the Variant of a model name by case insensitive substring
// matching. The "4.5" check is done on the name as given.
func Classify(model string) Variant {
	lower := strings.ToLower(model)
	v := Standard
	if strings.Contains(lower, "thinking") {
		v |= Thinking
	}
	if strings.Contains(lower, "search") {
		v |= Search
		if strings.Contains(model, "4.5") {
			v |= SearchV45
		}
	}
	return v
}

func (v Variant) Has(tag Variant) bool {
	return v&tag == tag && tag != Standard
}

func (v Variant) String() string {
	if v == Standard {
		return "standard"
	}
	var tags []string
	if v.Has(Thinking) {
		tags = append(tags, "thinking")
	}
	if v.Has(Search) {
		tags = append(tags, "search")
	}
	if v.Has(SearchV45) {
		tags = append(tags, "search-v4.5")
	}
	return strings.Join(tags, "+")
}

func (v Variant) mcpServers() []string {
	if v.Has(SearchV45) {
		return []string{deepWebSearchServer}
	}
	return []string{}
}

package upstream

import (
	"testing"

	"github.com/baalimago/go_away_boilerplate/pkg/testboil"
)

func TestUpstreamModelID(t *testing.T) {
	tests := map[string]string{
		"GLM-4.5":          "0727-360B-API",
		"GLM-4.5-Thinking": "0727-360B-API",
		"GLM-4.5-Search":   "0727-360B-API",
		"GLM-4.5-Air":      "0727-106B-API",
		"GLM-4.6":          "GLM-4-6-API-V1",
		"GLM-4.6-Thinking": "GLM-4-6-API-V1",
		"GLM-4.6-Search":   "GLM-4-6-API-V1",
		"gpt-4":            DefaultUpstreamModel,
		"":                 DefaultUpstreamModel,
		"glm-4.6":          DefaultUpstreamModel,
	}
	for model, want := range tests {
		t.Run(model, func(t *testing.T) {
			testboil.FailTestIfDiff(t, UpstreamModelID(model), want)
		})
	}
}

func TestModelNames(t *testing.T) {
	got := ModelNames()
	want := []string{
		"GLM-4.5",
		"GLM-4.5-Air",
		"GLM-4.5-Search",
		"GLM-4.5-Thinking",
		"GLM-4.6",
		"GLM-4.6-Search",
		"GLM-4.6-Thinking",
	}
	testboil.FailTestIfDiff(t, len(got), len(want))
	for i := range want {
		testboil.FailTestIfDiff(t, got[i], want[i])
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		model string
		want  Variant
	}{
		{model: "GLM-4.6", want: Standard},
		{model: "GLM-4.5-Air", want: Standard},
		{model: "GLM-4.6-Thinking", want: Thinking},
		{model: "glm-4.5-THINKING", want: Thinking},
		{model: "GLM-4.6-Search", want: Search},
		{model: "GLM-4.5-Search", want: Search | SearchV45},
		{model: "custom-thinking-search-4.5", want: Thinking | Search | SearchV45},
		{model: "unknown", want: Standard},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			testboil.FailTestIfDiff(t, Classify(tt.model), tt.want)
		})
	}
}

func TestVariant_String(t *testing.T) {
	testboil.FailTestIfDiff(t, Standard.String(), "standard")
	testboil.FailTestIfDiff(t, (Thinking | Search).String(), "thinking+search")
	testboil.FailTestIfDiff(t, (Search | SearchV45).String(), "search+search-v4.5")
}

func TestVariant_HasStandard(t *testing.T) {
	if Standard.Has(Standard) {
		t.Fatal("standard is the empty set and should not report itself as a tag")
	}
}

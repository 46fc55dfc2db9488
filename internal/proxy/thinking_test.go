package proxy

import (
	"testing"

	"github.com/baalimago/go_away_boilerplate/pkg/testboil"
)

func TestCleanThinking(t *testing.T) {
	in := "<details type=\"reasoning\" done=\"true\"><summary>Thought for 2s</summary>\n> first\n> second</thinking></details>"
	tests := []struct {
		mode ThinkTagsMode
		want string
	}{
		{mode: ThinkStrip, want: "first\nsecond"},
		{mode: "", want: "first\nsecond"},
		{mode: ThinkThink, want: "<think>\nfirst\nsecond</think>"},
		{mode: ThinkRaw, want: "<details type=\"reasoning\" done=\"true\">\nfirst\nsecond</details>"},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			testboil.FailTestIfDiff(t, CleanThinking(in, tt.mode), tt.want)
		})
	}
}

func TestCleanThinking_fullTags(t *testing.T) {
	testboil.FailTestIfDiff(t, CleanThinking("<Full>  > text </Full>", ThinkStrip), "text")
}

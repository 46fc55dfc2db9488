package utils

import (
	"bytes"
	"testing"

	"github.com/baalimago/go_away_boilerplate/pkg/testboil"
)

func TestPrintSection(t *testing.T) {
	var buf bytes.Buffer
	PrintSection(&buf, "assistant", "hello", false)
	testboil.FailTestIfDiff(t, buf.String(), "assistant: hello\n")

	buf.Reset()
	PrintSection(&buf, "reasoning", "hm", true)
	testboil.AssertStringContains(t, buf.String(), "hm")
}

func TestUseColor_noColor(t *testing.T) {
	t.Setenv("NO_COLOR", "true")
	testboil.FailTestIfDiff(t, UseColor(nil), false)
}

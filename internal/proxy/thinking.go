package proxy

import (
	"regexp"
	"strings"
)

// ThinkTagsMode decides what happens to the <details> block wrapping the
// thinking phase.
type ThinkTagsMode string

const (
	// ThinkStrip removes the tags, keeping the text.
	ThinkStrip ThinkTagsMode = "strip"
	// ThinkThink rewrites them into <think></think>.
	ThinkThink ThinkTagsMode = "think"
	// ThinkRaw leaves them as is.
	ThinkRaw ThinkTagsMode = "raw"
)

var (
	summaryRe     = regexp.MustCompile(`(?s)<summary>.*?</summary>`)
	detailsOpenRe = regexp.MustCompile(`<details[^>]*>`)
)

// CleanThinking tidies one thinking delta. Summaries and leftover custom tags
// are always removed, as are the "> " quote prefixes the upstream adds to
// every line.
func CleanThinking(s string, mode ThinkTagsMode) string {
	s = summaryRe.ReplaceAllString(s, "")
	s = strings.NewReplacer("</thinking>", "", "<Full>", "", "</Full>", "").Replace(s)
	s = strings.TrimSpace(s)
	switch mode {
	case ThinkThink:
		s = detailsOpenRe.ReplaceAllString(s, "<think>")
		s = strings.ReplaceAll(s, "</details>", "</think>")
	case ThinkRaw:
	default:
		s = detailsOpenRe.ReplaceAllString(s, "")
		s = strings.ReplaceAll(s, "</details>", "")
	}
	s = strings.TrimPrefix(s, "> ")
	s = strings.ReplaceAll(s, "\n> ", "\n")
	return strings.TrimSpace(s)
}

package stream

import (
	"fmt"
	"os"
	"strings"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/tidwall/gjson"
)

const (
	// CompletionType is the only event type which carries text.
	CompletionType = "chat:completion"

	PhaseThinking = "thinking"
	PhaseAnswer   = "answer"
	PhaseDone     = "done"
)

type Kind int

const (
	// Empty is anything without a payload: non data lines, empty payloads.
	Empty Kind = iota
	// Done is the "[DONE]" sentinel.
	Done
	// Invalid is a payload which is not JSON.
	Invalid
	Payload
)

// UpstreamError is an error object embedded in an event.
type UpstreamError struct {
	Code   int64
	Detail string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error: code=%v, detail=%v", e.Code, e.Detail)
}

// Event is one classified stream line.
type Event struct {
	Kind  Kind
	Type  string
	Phase string
	Delta string
	// Finished is set when the upstream flags the end of the answer, either via
	// data.done or a "done" phase.
	Finished bool
	Error    *UpstreamError
}

// Completion reports whether the event carries chat text.
func (e Event) Completion() bool {
	return e.Kind == Payload && e.Type == CompletionType
}

// payload returns what follows the "data:" prefix, trimmed.
func payload(line string) (string, bool) {
	rest, ok := strings.CutPrefix(line, "data:")
	if !ok {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

var errorPaths = []string{"error", "data.error", "data.data.error"}

// ParseEvent classifies a single stream line. It never fails, malformed input
// yields an Empty or Invalid event.
func ParseEvent(line string) Event {
	data, ok := payload(line)
	if !ok || data == "" {
		return Event{Kind: Empty}
	}
	if data == "[DONE]" {
		return Event{Kind: Done}
	}
	if !gjson.Valid(data) {
		if misc.Truthy(os.Getenv("DEBUG")) {
			ancli.PrintWarn(fmt.Sprintf("failed to parse chunk: %q\n", data))
		}
		return Event{Kind: Invalid}
	}
	parsed := gjson.Parse(data)
	ev := Event{
		Kind:  Payload,
		Type:  parsed.Get("type").String(),
		Phase: parsed.Get("data.phase").String(),
		Delta: parsed.Get("data.delta_content").String(),
	}
	ev.Finished = parsed.Get("data.done").Bool() || ev.Phase == PhaseDone
	for _, p := range errorPaths {
		if e := parsed.Get(p); e.IsObject() {
			ev.Error = &UpstreamError{
				Code:   e.Get("code").Int(),
				Detail: e.Get("detail").String(),
			}
			break
		}
	}
	return ev
}

// ContentFromChunk extracts the text fragment of a single stream line. Lines
// which are not chat completion events yield the empty string.
func ContentFromChunk(line string) string {
	ev := ParseEvent(line)
	if !ev.Completion() {
		return ""
	}
	return ev.Delta
}

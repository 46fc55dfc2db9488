package stream

import (
	"strings"

	"github.com/baalimago/zai/internal/models"
)

// Reducer folds completion events into a Result. The zero value is ready to
// use.
type Reducer struct {
	content   strings.Builder
	reasoning strings.Builder
}

// Add folds one event. Anything that is not a thinking or answer delta is
// ignored.
func (r *Reducer) Add(ev Event) {
	if !ev.Completion() || ev.Delta == "" {
		return
	}
	switch ev.Phase {
	case PhaseThinking:
		r.reasoning.WriteString(ev.Delta)
	case PhaseAnswer:
		r.content.WriteString(ev.Delta)
	}
}

// Result returns the trimmed accumulation. Reasoning is nil when no thinking
// text was seen.
func (r *Reducer) Result() models.Result {
	res := models.Result{Content: strings.TrimSpace(r.content.String())}
	if reasoning := strings.TrimSpace(r.reasoning.String()); reasoning != "" {
		res.Reasoning = &reasoning
	}
	return res
}

// Aggregate consumes lines to the end and returns the folded result. lines is
// always closed. A transport failure mid stream is returned instead of a
// partial result.
func Aggregate(lines *Lines) (models.Result, error) {
	defer lines.Close()
	var r Reducer
	for lines.Next() {
		r.Add(ParseEvent(lines.Text()))
	}
	if err := lines.Err(); err != nil {
		return models.Result{}, err
	}
	return r.Result(), nil
}

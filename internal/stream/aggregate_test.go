package stream

import (
	"errors"
	"strings"
	"testing"

	"github.com/baalimago/go_away_boilerplate/pkg/testboil"
)

func TestAggregate(t *testing.T) {
	raw := strings.Join([]string{
		`data:{"type":"chat:completion","data":{"phase":"thinking","delta_content":"A"}}`,
		`data:{"type":"chat:completion","data":{"phase":"answer","delta_content":"Hi"}}`,
		`data:{"type":"chat:completion","data":{"phase":"answer","delta_content":" there"}}`,
		`data:[DONE]`,
	}, "\n")
	body := &trackingBody{Reader: strings.NewReader(raw)}
	got, err := Aggregate(NewLines(body, nil))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	testboil.FailTestIfDiff(t, got.Content, "Hi there")
	if got.Reasoning == nil {
		t.Fatal("expected reasoning")
	}
	testboil.FailTestIfDiff(t, *got.Reasoning, "A")
	testboil.FailTestIfDiff(t, body.closes, 1)
}

func TestAggregate_noReasoning(t *testing.T) {
	raw := "data: {\"type\":\"chat:completion\",\"data\":{\"phase\":\"answer\",\"delta_content\":\"  ok \"}}\n" +
		"data: {\"type\":\"chat:completion\",\"data\":{\"phase\":\"thinking\",\"delta_content\":\"   \"}}\n" +
		"data: {\"type\":\"chat:completion\",\"data\":{\"phase\":\"other\",\"delta_content\":\"ignored\"}}\n" +
		"garbage\n"
	got, err := Aggregate(NewLines(&trackingBody{Reader: strings.NewReader(raw)}, nil))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	testboil.FailTestIfDiff(t, got.Content, "ok")
	if got.Reasoning != nil {
		t.Fatalf("expected nil reasoning, got %q", *got.Reasoning)
	}
}

func TestAggregate_transportError(t *testing.T) {
	body := &trackingBody{Reader: &failingReader{data: `data: {"type":"chat:completion","data":{"phase":"answer","delta_content":"partial"}}` + "\n"}}
	_, err := Aggregate(NewLines(body, nil))
	var tErr *TransportError
	if !errors.As(err, &tErr) {
		t.Fatalf("expected *TransportError, got: %v", err)
	}
	testboil.FailTestIfDiff(t, body.closes, 1)
}

func TestReducer_zeroValue(t *testing.T) {
	var r Reducer
	got := r.Result()
	testboil.FailTestIfDiff(t, got.Content, "")
	if got.Reasoning != nil {
		t.Fatal("expected nil reasoning")
	}
}

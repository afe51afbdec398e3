package ai

import (
	"errors"
	"reflect"
	"testing"
)

func TestExtractJSONFencedRoundTrip(t *testing.T) {
	fenced := "```json\n{\"qualified\": true, \"branding_need\": \"HIGH\"}\n```"

	got, err := ExtractJSON(fenced)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	direct, err := ExtractJSON(`{"qualified": true, "branding_need": "HIGH"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(got, direct) {
		t.Fatalf("fenced extraction differs from direct parse: %v vs %v", got, direct)
	}
}

func TestExtractJSONSurroundingProse(t *testing.T) {
	raw := "Here is my evaluation:\n{\"qualified\": false}\nLet me know if you need more."

	got, err := ExtractJSON(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got["qualified"] != false {
		t.Fatalf("unexpected value: %v", got)
	}
}

func TestExtractJSONBareFence(t *testing.T) {
	raw := "```\n{\"score\": 10}\n```"

	got, err := ExtractJSON(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got["score"] != float64(10) {
		t.Fatalf("unexpected value: %v", got)
	}
}

func TestExtractJSONEmpty(t *testing.T) {
	for _, raw := range []string{"", "   \n\t "} {
		if _, err := ExtractJSON(raw); !errors.Is(err, ErrEmptyResponse) {
			t.Fatalf("expected ErrEmptyResponse for %q, got %v", raw, err)
		}
	}
}

func TestExtractJSONMalformed(t *testing.T) {
	_, err := ExtractJSON("not json at all")
	if err == nil {
		t.Fatal("expected parse error")
	}
	if errors.Is(err, ErrEmptyResponse) {
		t.Fatal("malformed response must not be reported as empty")
	}
}

// The span runs from the first '{' to the last '}' without balancing, so
// a stray closing brace after the object breaks the parse. Locked in on
// purpose; see ExtractJSON.
func TestExtractJSONGreedySpan(t *testing.T) {
	raw := "{\"a\": 1} trailing prose with a stray }"
	if _, err := ExtractJSON(raw); err == nil {
		t.Fatal("expected greedy span to over-extend and fail parsing")
	}
}

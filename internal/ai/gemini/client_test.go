package gemini

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type fakeResponse struct {
	resp *genai.GenerateContentResponse
	err  error
}

type fakeModels struct {
	mu      sync.Mutex
	queue   []fakeResponse
	calls   int
	configs []*genai.GenerateContentConfig
}

func (f *fakeModels) enqueue(resp *genai.GenerateContentResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, fakeResponse{resp: resp, err: err})
}

func (f *fakeModels) GenerateContent(_ context.Context, _ string, _ []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.configs = append(f.configs, config)
	if len(f.queue) == 0 {
		return nil, errors.New("unexpected call")
	}
	res := f.queue[0]
	f.queue = f.queue[1:]
	return res.resp, res.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func newTestGenerator(models modelCaller, maxRetries int) *Generator {
	return &Generator{
		models:     models,
		model:      "gemini-test",
		maxRetries: maxRetries,
		logger:     zap.NewNop(),
	}
}

func TestGeneratorRetriesOnTemporaryError(t *testing.T) {
	originalSleep := sleep
	sleep = func(time.Duration) {}
	defer func() { sleep = originalSleep }()

	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"})
	models.enqueue(textResponse("retry ok"), nil)

	g := newTestGenerator(models, 2)

	output, err := g.GenerateContent(context.Background(), "system", "prompt")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if output != "retry ok" {
		t.Fatalf("unexpected output: %q", output)
	}

	if models.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", models.calls)
	}

	for _, cfg := range models.configs {
		if cfg == nil || cfg.SystemInstruction == nil {
			t.Fatal("expected system instruction to be set")
		}
		if got := cfg.SystemInstruction.Parts[0].Text; got != "system" {
			t.Fatalf("unexpected system instruction: %q", got)
		}
		if cfg.ResponseMIMEType != jsonMIMEType {
			t.Fatalf("expected JSON response MIME type, got %q", cfg.ResponseMIMEType)
		}
		if cfg.Temperature == nil || *cfg.Temperature != temperature {
			t.Fatalf("unexpected temperature: %v", cfg.Temperature)
		}
	}
}

func TestGeneratorStopsAfterRetriesExhausted(t *testing.T) {
	originalSleep := sleep
	sleep = func(time.Duration) {}
	defer func() { sleep = originalSleep }()

	models := &fakeModels{}
	tempErr := genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}
	models.enqueue(nil, tempErr)
	models.enqueue(nil, tempErr)

	g := newTestGenerator(models, 2)

	if _, err := g.GenerateContent(context.Background(), "sys", "msg"); err == nil {
		t.Fatal("expected error after retries exhausted")
	}

	if models.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", models.calls)
	}
}

func TestGeneratorDoesNotRetryOnClientError(t *testing.T) {
	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"})

	g := newTestGenerator(models, 3)

	if _, err := g.GenerateContent(context.Background(), "sys", "msg"); err == nil {
		t.Fatal("expected error for client error")
	}

	if models.calls != 1 {
		t.Fatalf("expected single call, got %d", models.calls)
	}
}

func TestGeneratorEmptyResponse(t *testing.T) {
	models := &fakeModels{}
	models.enqueue(&genai.GenerateContentResponse{}, nil)

	g := newTestGenerator(models, 1)

	if _, err := g.GenerateContent(context.Background(), "sys", "msg"); err == nil {
		t.Fatal("expected error for empty response")
	}
}

func TestGeneratorEmptyPrompt(t *testing.T) {
	g := newTestGenerator(&fakeModels{}, 1)

	if _, err := g.GenerateContent(context.Background(), "sys", "   "); err == nil {
		t.Fatal("expected error for empty prompt")
	}
}

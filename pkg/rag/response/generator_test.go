package response

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/llm"
)

type fakeLLM struct {
	reply    string
	err      error
	messages []llm.Message
	opts     llm.Options
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.messages = history
	for _, opt := range options {
		opt(&f.opts)
	}
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeLLM) Generate(ctx context.Context, promptText string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: promptText}}, options...)
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestGenerateAssemblesMessages(t *testing.T) {
	provider := &fakeLLM{reply: "  NIB diurus melalui OSS.  "}
	g := NewGenerator(provider, testLogger())

	history := []llm.Message{
		{Role: "user", Content: "halo"},
		{Role: "assistant", Content: "Halo!"},
	}

	answer, err := g.Generate(context.Background(), "Bagaimana cara mengurus NIB?", "NIB diterbitkan melalui OSS.", history)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if answer != "NIB diurus melalui OSS." {
		t.Errorf("answer not trimmed: %q", answer)
	}

	if len(provider.messages) != 4 {
		t.Fatalf("expected system + 2 history + user = 4 messages, got %d", len(provider.messages))
	}
	if provider.messages[0].Role != "system" || !strings.Contains(provider.messages[0].Content, "DPMPTSP") {
		t.Errorf("first message should be the system instruction, got %+v", provider.messages[0])
	}
	last := provider.messages[len(provider.messages)-1]
	if last.Role != "user" {
		t.Errorf("last message should be the user prompt, got role %q", last.Role)
	}
	if !strings.Contains(last.Content, "Bagaimana cara mengurus NIB?") || !strings.Contains(last.Content, "<context>") {
		t.Errorf("user prompt missing question or context:\n%s", last.Content)
	}
}

func TestGenerateAppliesTuning(t *testing.T) {
	provider := &fakeLLM{reply: "jawaban"}
	g := NewGenerator(provider, testLogger())

	if _, err := g.Generate(context.Background(), "pertanyaan", "konteks", nil); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if provider.opts.Temperature != 0.4 {
		t.Errorf("temperature = %v, want 0.4", provider.opts.Temperature)
	}
	if provider.opts.MaxTokens != 1500 {
		t.Errorf("max tokens = %d, want 1500", provider.opts.MaxTokens)
	}
}

func TestGeneratePropagatesError(t *testing.T) {
	provider := &fakeLLM{err: errors.New("rate limited")}
	g := NewGenerator(provider, testLogger())

	_, err := g.Generate(context.Background(), "pertanyaan", "konteks", nil)
	if err == nil {
		t.Fatal("expected error from failing provider")
	}
	if !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("error should wrap the provider failure: %v", err)
	}
}

func TestGenerateFlagsTruncation(t *testing.T) {
	provider := &fakeLLM{reply: strings.Repeat("jawaban panjang ", 100)}
	g := NewGenerator(provider, testLogger())

	answer, err := g.Generate(context.Background(), "pertanyaan", "konteks", nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.HasSuffix(answer, TruncationNotice) {
		t.Error("long unterminated answer should carry the truncation notice")
	}
}

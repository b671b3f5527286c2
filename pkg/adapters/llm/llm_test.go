package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/switchboard/pkg/adapters/llm"
	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/ports"
)

func TestOpenAI_Generate(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","model":"m",
			"choices":[{"index":0,"message":{"role":"assistant","content":"2"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	gen := llm.NewOpenAI("key", "gpt-test", srv.URL+"/v1")
	text, err := gen.Generate(context.Background(), ports.GenerateRequest{
		Prompt:       "pick one",
		SystemPrompt: "you route calls",
		MaxTokens:    16,
	})
	require.NoError(t, err)
	assert.Equal(t, "2", text)

	assert.Equal(t, "gpt-test", got["model"])
	messages, ok := got["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, messages, 2, "system prompt is sent as its own message")
}

func TestOllama_AppendsV1(t *testing.T) {
	hit := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = r.URL.Path == "/v1/chat/completions"
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer srv.Close()

	text, err := llm.NewOllama("llama3", srv.URL).Generate(context.Background(), ports.GenerateRequest{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.True(t, hit)
}

func TestAnthropic_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "claude-test", body["model"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"m1","type":"message","role":"assistant","model":"claude-test",
			"content":[{"type":"text","text":"{\"account_type\":\"savings\"}"}],
			"stop_reason":"end_turn","usage":{"input_tokens":3,"output_tokens":5}}`))
	}))
	defer srv.Close()

	gen := llm.NewAnthropic("key", "claude-test", srv.URL+"/v1")
	text, err := gen.Generate(context.Background(), ports.GenerateRequest{Prompt: "extract"})
	require.NoError(t, err)
	assert.Equal(t, `{"account_type":"savings"}`, text)
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	var calls atomic.Int32
	failing := ports.GenerateFunc(func(ctx context.Context, req ports.GenerateRequest) (string, error) {
		calls.Add(1)
		return "", errors.New("boom")
	})

	b := llm.NewBreaker(failing, llm.BreakerConfig{Name: "test", MaxFailures: 2, OpenTimeout: time.Minute})
	for i := 0; i < 2; i++ {
		_, err := b.Generate(context.Background(), ports.GenerateRequest{})
		assert.ErrorIs(t, err, domain.ErrDelegateUnavailable)
	}
	assert.Equal(t, "open", b.State())

	_, err := b.Generate(context.Background(), ports.GenerateRequest{})
	assert.ErrorIs(t, err, domain.ErrDelegateUnavailable)
	assert.Equal(t, int32(2), calls.Load(), "open circuit must not reach the delegate")
}

func TestBreaker_EmptyReplyIsFailure(t *testing.T) {
	blank := ports.GenerateFunc(func(ctx context.Context, req ports.GenerateRequest) (string, error) {
		return "  \n", nil
	})
	b := llm.NewBreaker(blank, llm.BreakerConfig{Name: "blank", MaxFailures: 1, OpenTimeout: time.Minute})

	_, err := b.Generate(context.Background(), ports.GenerateRequest{})
	assert.ErrorIs(t, err, domain.ErrDelegateUnavailable)
	assert.Equal(t, "open", b.State())
}

func TestBreaker_Timeout(t *testing.T) {
	slow := ports.GenerateFunc(func(ctx context.Context, req ports.GenerateRequest) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	b := llm.NewBreaker(slow, llm.BreakerConfig{Name: "slow", Timeout: 20 * time.Millisecond})

	start := time.Now()
	_, err := b.Generate(context.Background(), ports.GenerateRequest{})
	assert.ErrorIs(t, err, domain.ErrDelegateUnavailable)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestBreaker_PassesThrough(t *testing.T) {
	ok := ports.GenerateFunc(func(ctx context.Context, req ports.GenerateRequest) (string, error) {
		return "1", nil
	})
	b := llm.NewBreaker(ok, llm.DefaultBreakerConfig("ok"))

	text, err := b.Generate(context.Background(), ports.GenerateRequest{})
	require.NoError(t, err)
	assert.Equal(t, "1", text)
	assert.Equal(t, "closed", b.State())
}

func TestNew(t *testing.T) {
	gen, err := llm.New(llm.Config{Provider: llm.ProviderNone})
	require.NoError(t, err)
	assert.Nil(t, gen)

	gen, err = llm.New(llm.Config{Provider: llm.ProviderOllama, Model: "llama3"})
	require.NoError(t, err)
	assert.IsType(t, &llm.Breaker{}, gen)

	_, err = llm.New(llm.Config{Provider: llm.ProviderOpenAI, Model: "gpt"})
	assert.Error(t, err, "missing key")

	_, err = llm.New(llm.Config{Provider: llm.ProviderAnthropic, APIKey: "k"})
	assert.Error(t, err, "missing model")

	_, err = llm.New(llm.Config{Provider: "watson"})
	assert.Error(t, err)
}

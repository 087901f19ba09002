package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Complete(t *testing.T) {
	var captured chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		resp := chatResponse{
			Choices: []choice{{Message: chatMessage{Role: "assistant", Content: "winner: alice** solid reasoning"}}},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient("test-key", "gpt-4o", WithBaseURL(server.URL))

	result, err := client.Complete(context.Background(), "judge instruction", "who won?", 512)
	require.NoError(t, err)
	assert.Equal(t, "winner: alice** solid reasoning", result)

	assert.Equal(t, "gpt-4o", captured.Model)
	assert.Equal(t, 512, captured.MaxTokens)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "judge instruction", captured.Messages[0].Content)
	assert.Equal(t, "user", captured.Messages[1].Role)
	assert.Equal(t, "who won?", captured.Messages[1].Content)
}

func TestClient_Complete_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient("test-key", "gpt-4o", WithBaseURL(server.URL))

	result, err := client.Complete(context.Background(), "sys", "user", 512)
	assert.Empty(t, result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestClient_Complete_APIErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chatResponse{Error: &apiError{Type: "invalid_request_error", Message: "bad model"}})
	}))
	defer server.Close()

	client := NewClient("test-key", "gpt-4o", WithBaseURL(server.URL))

	_, err := client.Complete(context.Background(), "sys", "user", 512)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad model")
}

func TestClient_Complete_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chatResponse{})
	}))
	defer server.Close()

	client := NewClient("test-key", "gpt-4o", WithBaseURL(server.URL))

	_, err := client.Complete(context.Background(), "sys", "user", 512)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}

func TestClient_Complete_ContextCancellation(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer server.Close()

	client := NewClient("test-key", "gpt-4o", WithBaseURL(server.URL))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := client.Complete(ctx, "sys", "user", 512)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_Complete_RespectsTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(5 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	client := NewClient("test-key", "gpt-4o", WithBaseURL(server.URL))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Complete(ctx, "sys", "user", 512)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

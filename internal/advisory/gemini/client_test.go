package gemini_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smokespecialist/smokespecialist/internal/advisory/gemini"
)

func TestGenerate_ReturnsFirstCandidateText(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"candidates": [
				{"content": {"parts": [{"text": "Limit outdoor exertion today."}]}}
			]
		}`))
	}))
	defer server.Close()

	client := gemini.NewClient(gemini.ClientConfig{
		APIKey:     "test-key",
		Model:      "gemini-1.5-pro",
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	text, err := client.Generate(context.Background(), "consultation prompt")
	require.NoError(t, err)

	assert.Equal(t, "Limit outdoor exertion today.", text)
	assert.Equal(t, "/models/gemini-1.5-pro:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)

	contents, ok := gotBody["contents"].([]any)
	require.True(t, ok)
	require.Len(t, contents, 1)
	parts := contents[0].(map[string]any)["parts"].([]any)
	require.Len(t, parts, 1)
	assert.Equal(t, "consultation prompt", parts[0].(map[string]any)["text"])
}

func TestGenerate_DefaultModel(t *testing.T) {
	var gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates": [{"content": {"parts": [{"text": "ok"}]}}]}`))
	}))
	defer server.Close()

	client := gemini.NewClient(gemini.ClientConfig{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	_, err := client.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "/models/"+gemini.DefaultModel+":generateContent", gotPath)
}

func TestGenerate_EmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates": []}`))
	}))
	defer server.Close()

	client := gemini.NewClient(gemini.ClientConfig{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	_, err := client.Generate(context.Background(), "p")
	assert.ErrorIs(t, err, gemini.ErrEmptyResponse)
}

func TestGenerate_EmptyText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates": [{"content": {"parts": [{"text": ""}]}}]}`))
	}))
	defer server.Close()

	client := gemini.NewClient(gemini.ClientConfig{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	_, err := client.Generate(context.Background(), "p")
	assert.ErrorIs(t, err, gemini.ErrEmptyResponse)
}

func TestGenerate_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := gemini.NewClient(gemini.ClientConfig{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	_, err := client.Generate(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 429")
}

package moderation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIClientClassify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/moderations", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var req moderationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "they should be eliminated", req.Input)
		assert.Equal(t, "test-model", req.Model)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "modr-1",
			"model": "test-model",
			"results": [{
				"flagged": true,
				"categories": {"hate": true, "hate/threatening": true, "sexual": false},
				"category_scores": {"hate": 0.97}
			}]
		}`))
	}))
	defer server.Close()

	c := NewOpenAIClient(OpenAIConfig{APIKey: "test-token", BaseURL: server.URL + "/", Model: "test-model"})
	res, err := c.Classify(context.Background(), "they should be eliminated")

	require.NoError(t, err)
	assert.True(t, res.Flagged)
	assert.Equal(t, map[string]bool{"hate": true, "hate/threatening": true}, res.Categories)
}

func TestOpenAIClientQuotaError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"You exceeded your current quota","type":"insufficient_quota","code":"insufficient_quota"}}`))
	}))
	defer server.Close()

	c := NewOpenAIClient(OpenAIConfig{APIKey: "k", BaseURL: server.URL})
	_, err := c.Classify(context.Background(), "hello")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Equal(t, "insufficient_quota", apiErr.Code)
	assert.Equal(t, "You exceeded your current quota", apiErr.Message)
	assert.True(t, IsQuotaError(err))
}

func TestOpenAIClientServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>upstream down</html>"))
	}))
	defer server.Close()

	c := NewOpenAIClient(OpenAIConfig{APIKey: "k", BaseURL: server.URL})
	_, err := c.Classify(context.Background(), "hello")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Bad Gateway", apiErr.Message)
	assert.False(t, IsQuotaError(err))
}

func TestOpenAIClientMalformedResponse(t *testing.T) {
	for name, body := range map[string]string{
		"no results": `{"id":"x","results":[]}`,
		"not json":   `not json`,
	} {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer server.Close()

			c := NewOpenAIClient(OpenAIConfig{APIKey: "k", BaseURL: server.URL})
			res, err := c.Classify(context.Background(), "hello")
			assert.Nil(t, res)
			assert.Error(t, err)
		})
	}
}

func TestOpenAIClientLocalRateLimit(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"results":[{"flagged":false,"categories":{}}]}`))
	}))
	defer server.Close()

	c := NewOpenAIClient(OpenAIConfig{APIKey: "k", BaseURL: server.URL, RequestsPerSecond: 0.001, Burst: 1})

	_, err := c.Classify(context.Background(), "first")
	require.NoError(t, err)

	_, err = c.Classify(context.Background(), "second")
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.True(t, IsQuotaError(err))
	assert.Equal(t, int32(1), hits.Load())
}

func TestOpenAIClientDefaults(t *testing.T) {
	c := NewOpenAIClient(OpenAIConfig{APIKey: "k"})
	assert.Equal(t, DefaultOpenAIBaseURL+"/v1/moderations", c.endpoint)
	assert.Equal(t, DefaultOpenAIModel, c.model)
	assert.Equal(t, DefaultRemoteTimeout, c.httpClient.Timeout)
	assert.Nil(t, c.limiter)
}

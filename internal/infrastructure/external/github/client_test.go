package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastConfig disables pacing so tests run instantly.
func fastConfig(baseURL string) ClientConfig {
	cfg := DefaultClientConfig("test-token")
	cfg.BaseURL = baseURL
	cfg.RateLimiterConfig.RequestsPerSecond = 1000
	cfg.RateLimiterConfig.BurstSize = 1000
	cfg.RateLimiterConfig.MinInterval = 0
	cfg.RetryConfig.MaxRetries = 1
	cfg.RetryConfig.InitialBackoff = time.Millisecond
	cfg.RetryConfig.MaxBackoff = 2 * time.Millisecond
	return cfg
}

func TestClient_FetchStats(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))

		switch {
		case strings.HasPrefix(r.URL.Path, "/users/alice/repos"):
			w.Write([]byte(`[
				{"name": "api", "fork": false, "stargazers_count": 10, "language": "Go"},
				{"name": "dotfiles", "fork": true, "stargazers_count": 2, "language": "Shell"},
				{"name": "cli", "fork": false, "stargazers_count": 5, "language": "Go"}
			]`))
		case r.URL.Path == "/search/commits":
			assert.Contains(t, r.URL.RawQuery, "author%3Aalice")
			w.Write([]byte(`{"total_count": 120}`))
		case r.URL.Path == "/search/issues":
			w.Write([]byte(`{"total_count": 30}`))
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(fastConfig(server.URL))

	stats, err := client.FetchStats(context.Background(), "alice")
	require.NoError(t, err)

	assert.Equal(t, 120, stats.TotalCommits)
	assert.Equal(t, 30, stats.TotalPullRequests)
	assert.Equal(t, 17, stats.TotalStars)
	assert.Equal(t, []string{"Go", "Shell"}, stats.Languages)
	assert.InDelta(t, 1.0/3.0, stats.ForkRatio, 0.001)
}

func TestClient_FetchStats_UserNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(fastConfig(server.URL))

	_, err := client.FetchStats(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestClient_RateLimitDetection(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Header().Set("x-ratelimit-remaining", "0")
		w.Header().Set("Retry-After", "1")
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(fastConfig(server.URL))

	_, err := client.GetUser(context.Background(), "alice")
	require.Error(t, err)

	var rateLimitErr *RateLimitError
	assert.ErrorAs(t, err, &rateLimitErr)
	// Rate limits are retryable, so the configured retry was spent.
	assert.Equal(t, 2, calls)
}

func TestClient_ServerErrorIsRetried(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message": "boom"}`))
			return
		}
		w.Write([]byte(`{"login": "alice"}`))
	}))
	defer server.Close()

	client := NewClient(fastConfig(server.URL))

	user, err := client.GetUser(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Login)
	assert.Equal(t, 2, calls)
}

func TestClient_Pagination(t *testing.T) {
	// First page full (100 entries), second page short.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		switch page {
		case "1":
			w.Write([]byte("[" + strings.Repeat(`{"name": "r", "stargazers_count": 1},`, 99) + `{"name": "r", "stargazers_count": 1}]`))
		case "2":
			w.Write([]byte(`[{"name": "last", "stargazers_count": 1}]`))
		default:
			t.Errorf("unexpected page: %s", page)
		}
	}))
	defer server.Close()

	client := NewClient(fastConfig(server.URL))

	repos, err := client.ListAllRepos(context.Background(), "alice")
	require.NoError(t, err)
	assert.Len(t, repos, 101)
}

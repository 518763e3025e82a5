package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/careerforge/careerforge-backend/internal/domain/profile"
	"github.com/careerforge/careerforge-backend/pkg/metrics"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// ClientConfig contains configuration for the GitHub API client.
type ClientConfig struct {
	// BaseURL is the GitHub API base URL.
	BaseURL string

	// Token is the personal access token used for authentication.
	// Unauthenticated requests are limited to 60/hour, so a token is
	// effectively required for the sync job.
	Token string

	// Timeout is the HTTP request timeout.
	Timeout time.Duration

	// RateLimiterConfig for API rate limiting.
	RateLimiterConfig RateLimiterConfig

	// CircuitBreakerConfig for fault tolerance.
	CircuitBreakerConfig CircuitBreakerConfig

	// RetryConfig for retry behavior.
	RetryConfig RetryConfig

	// Logger for structured logging.
	Logger *slog.Logger

	// Debug enables debug logging.
	Debug bool
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig(token string) ClientConfig {
	return ClientConfig{
		BaseURL:              "https://api.github.com",
		Token:                token,
		Timeout:              30 * time.Second,
		RateLimiterConfig:    DefaultRateLimiterConfig(),
		CircuitBreakerConfig: DefaultCircuitBreakerConfig(),
		RetryConfig:          DefaultRetryConfig(),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// ErrUserNotFound is returned when the GitHub user does not exist.
var ErrUserNotFound = errors.New("github: user not found")

// Client is the GitHub REST API client.
type Client struct {
	config         ClientConfig
	httpClient     *http.Client
	logger         *slog.Logger
	rateLimiter    *RateLimiter
	circuitBreaker *CircuitBreaker
	mapper         *Mapper
}

// NewClient creates a new GitHub API client.
func NewClient(config ClientConfig) *Client {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger:         config.Logger,
		rateLimiter:    NewRateLimiter(config.RateLimiterConfig),
		circuitBreaker: NewCircuitBreaker(config.CircuitBreakerConfig),
		mapper:         NewMapper(),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// STATS OPERATIONS
// ══════════════════════════════════════════════════════════════════════════════

// FetchStats fetches and aggregates a user's contribution stats.
// This is the single entry point used by the sync job.
func (c *Client) FetchStats(ctx context.Context, username string) (profile.GitHubStats, error) {
	repos, err := c.ListAllRepos(ctx, username)
	if err != nil {
		return profile.GitHubStats{}, fmt.Errorf("fetch stats for %s: %w", username, err)
	}

	commits, err := c.CountCommits(ctx, username)
	if err != nil {
		return profile.GitHubStats{}, fmt.Errorf("fetch stats for %s: %w", username, err)
	}

	pullRequests, err := c.CountPullRequests(ctx, username)
	if err != nil {
		return profile.GitHubStats{}, fmt.Errorf("fetch stats for %s: %w", username, err)
	}

	return c.mapper.StatsFromRepos(repos, commits, pullRequests), nil
}

// GetUser fetches a GitHub user by username.
func (c *Client) GetUser(ctx context.Context, username string) (*UserDTO, error) {
	path := "/users/" + url.PathEscape(username)

	var user UserDTO
	if err := c.doRequest(ctx, path, &user); err != nil {
		return nil, fmt.Errorf("get user %s: %w", username, err)
	}

	return &user, nil
}

// ListAllRepos fetches all public repositories of a user, handling pagination.
func (c *Client) ListAllRepos(ctx context.Context, username string) ([]RepoDTO, error) {
	var allRepos []RepoDTO
	page := 1
	perPage := 100

	for {
		path := fmt.Sprintf("/users/%s/repos?per_page=%d&page=%d&type=owner",
			url.PathEscape(username), perPage, page)

		var repos []RepoDTO
		if err := c.doRequest(ctx, path, &repos); err != nil {
			return nil, fmt.Errorf("list repos page %d: %w", page, err)
		}

		allRepos = append(allRepos, repos...)

		if len(repos) < perPage {
			break
		}
		page++
	}

	return allRepos, nil
}

// CountCommits returns the total number of commits authored by the user,
// using the commit search API's total_count.
func (c *Client) CountCommits(ctx context.Context, username string) (int, error) {
	query := url.QueryEscape("author:" + username)
	path := "/search/commits?q=" + query + "&per_page=1"

	var result SearchCountDTO
	if err := c.doRequest(ctx, path, &result); err != nil {
		return 0, fmt.Errorf("count commits: %w", err)
	}

	return result.TotalCount, nil
}

// CountPullRequests returns the total number of pull requests authored by
// the user, using the issue search API's total_count.
func (c *Client) CountPullRequests(ctx context.Context, username string) (int, error) {
	query := url.QueryEscape("type:pr author:" + username)
	path := "/search/issues?q=" + query + "&per_page=1"

	var result SearchCountDTO
	if err := c.doRequest(ctx, path, &result); err != nil {
		return 0, fmt.Errorf("count pull requests: %w", err)
	}

	return result.TotalCount, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HTTP REQUEST HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// doRequest performs a GET request with rate limiting, circuit breaking,
// and retries.
func (c *Client) doRequest(ctx context.Context, path string, result interface{}) error {
	if err := c.circuitBreaker.Allow(); err != nil {
		return fmt.Errorf("circuit breaker: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.config.RetryConfig.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.config.RetryConfig.CalculateBackoff(attempt)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		if err := c.rateLimiter.Allow(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		err := c.doSingleRequest(ctx, path, result)
		if err == nil {
			c.circuitBreaker.RecordSuccess()
			metrics.RecordGitHubRequest("ok")
			return nil
		}

		lastErr = err

		if !c.isRetryable(err) {
			c.circuitBreaker.RecordFailure()
			metrics.RecordGitHubRequest("error")
			return err
		}

		var rateLimitErr *RateLimitError
		if errors.As(err, &rateLimitErr) {
			c.rateLimiter.RecordRateLimitHit(rateLimitErr.RetryAfter)
			metrics.RecordGitHubRateLimitHit()
		}
	}

	c.circuitBreaker.RecordFailure()
	metrics.RecordGitHubRequest("error")
	return fmt.Errorf("request failed after %d retries: %w", c.config.RetryConfig.MaxRetries, lastErr)
}

// doSingleRequest performs a single HTTP GET request.
func (c *Client) doSingleRequest(ctx context.Context, path string, result interface{}) error {
	fullURL := c.config.BaseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	if c.config.Debug {
		c.logger.Debug("github api request", "path", path)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	// Secondary rate limits answer 429; primary ones answer 403 with a
	// zeroed x-ratelimit-remaining header.
	if resp.StatusCode == http.StatusTooManyRequests ||
		(resp.StatusCode == http.StatusForbidden && resp.Header.Get("x-ratelimit-remaining") == "0") {
		retryAfter := 60 * time.Second
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if seconds, err := strconv.Atoi(ra); err == nil {
				retryAfter = time.Duration(seconds) * time.Second
			}
		}
		return &RateLimitError{
			RetryAfter: retryAfter,
			Message:    "rate limit exceeded",
		}
	}

	if resp.StatusCode == http.StatusNotFound {
		return ErrUserNotFound
	}

	if resp.StatusCode >= 400 {
		var apiErr APIErrorDTO
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Message != "" {
			apiErr.StatusCode = resp.StatusCode
			return &apiErr
		}
		return fmt.Errorf("api error: status %d", resp.StatusCode)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}

// isRetryable checks if an error is retryable.
func (c *Client) isRetryable(err error) bool {
	if err == nil {
		return false
	}

	var rateLimitErr *RateLimitError
	if errors.As(err, &rateLimitErr) {
		return true
	}

	if errors.Is(err, ErrUserNotFound) {
		return false
	}

	var apiErr *APIErrorDTO
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500
	}

	// Network errors are generally retryable.
	errStr := err.Error()
	for _, sub := range []string{"timeout", "connection refused", "temporary", "reset", "EOF"} {
		if strings.Contains(errStr, sub) {
			return true
		}
	}
	return false
}

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH AND STATUS
// ══════════════════════════════════════════════════════════════════════════════

// ClientStatus contains the current status of the client.
type ClientStatus struct {
	RateLimiter    RateLimiterStatus
	CircuitBreaker CircuitBreakerStatus
}

// Status returns the current status of the client.
func (c *Client) Status() ClientStatus {
	return ClientStatus{
		RateLimiter:    c.rateLimiter.Status(),
		CircuitBreaker: c.circuitBreaker.Status(),
	}
}

// Reset resets the rate limiter and circuit breaker.
func (c *Client) Reset() {
	c.rateLimiter.Reset()
	c.circuitBreaker.Reset()
}

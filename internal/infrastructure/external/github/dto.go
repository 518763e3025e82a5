// Package github implements the GitHub REST API client.
// It fetches the public contribution data used by the scoring engine:
// repositories, commit and pull request counts, stars and languages.
package github

import (
	"fmt"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// USER DTOs
// ══════════════════════════════════════════════════════════════════════════════

// UserDTO represents a GitHub user as returned by the API.
type UserDTO struct {
	// Login is the username on GitHub.
	Login string `json:"login"`

	// ID is the numeric GitHub identifier.
	ID int64 `json:"id"`

	// Name is the display name (may be empty).
	Name string `json:"name,omitempty"`

	// PublicRepos is the number of public repositories.
	PublicRepos int `json:"public_repos"`

	// Followers is the follower count.
	Followers int `json:"followers"`

	// CreatedAt is when the account was created.
	CreatedAt time.Time `json:"created_at"`
}

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY DTOs
// ══════════════════════════════════════════════════════════════════════════════

// RepoDTO represents a repository as returned by the API.
type RepoDTO struct {
	// Name is the repository name.
	Name string `json:"name"`

	// FullName is the "owner/name" identifier.
	FullName string `json:"full_name"`

	// Fork indicates whether the repository is a fork.
	Fork bool `json:"fork"`

	// StargazersCount is the star count.
	StargazersCount int `json:"stargazers_count"`

	// Language is the dominant language (may be empty).
	Language string `json:"language,omitempty"`

	// PushedAt is the last push timestamp.
	PushedAt *time.Time `json:"pushed_at,omitempty"`
}

// ══════════════════════════════════════════════════════════════════════════════
// SEARCH DTOs
// ══════════════════════════════════════════════════════════════════════════════

// SearchCountDTO carries the total_count of a search query. The search API
// is used only for counting commits and pull requests, so the items are
// never decoded.
type SearchCountDTO struct {
	TotalCount int `json:"total_count"`
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR DTOs
// ══════════════════════════════════════════════════════════════════════════════

// APIErrorDTO represents an error response from the GitHub API.
type APIErrorDTO struct {
	// Message is the human-readable error message.
	Message string `json:"message"`

	// DocumentationURL points to the relevant API docs.
	DocumentationURL string `json:"documentation_url,omitempty"`

	// StatusCode is the HTTP status, set by the client.
	StatusCode int `json:"-"`
}

// Error implements the error interface.
func (e *APIErrorDTO) Error() string {
	return fmt.Sprintf("github api: %s (status %d)", e.Message, e.StatusCode)
}

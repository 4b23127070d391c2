package issue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cli/go-gh/v2/pkg/api"
	"github.com/google/go-github/v68/github"

	"github.com/yahsan2/gh-issue-batch/pkg/log"
)

const (
	// DefaultBaseURL is the public GitHub REST endpoint
	DefaultBaseURL = "https://api.github.com"
	// DefaultTimeout bounds each creation request
	DefaultTimeout = 30 * time.Second
)

// Creator creates a single issue in a repository
type Creator interface {
	CreateIssue(ctx context.Context, repository, assignee string, d Descriptor) (*Issue, error)
}

// ClientOptions configures a Client
type ClientOptions struct {
	Token   string
	BaseURL string
	Timeout time.Duration

	// Transport overrides the underlying round tripper (tests)
	Transport http.RoundTripper
}

// Client is a wrapper around the GitHub REST API for issue creation
type Client struct {
	gh *github.Client
}

// NewClient creates a new issue client.
// Requests carry "Authorization: token <token>" and time out after opts.Timeout.
func NewClient(opts ClientOptions) (*Client, error) {
	if opts.Token == "" {
		return nil, NewConfigurationError("a token is required to create issues", nil)
	}

	base := opts.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, NewConfigurationError(fmt.Sprintf("invalid API URL %q", base), err)
	}
	if baseURL.Host == "" {
		return nil, NewConfigurationError(fmt.Sprintf("invalid API URL %q", base), nil)
	}
	if !strings.HasSuffix(baseURL.Path, "/") {
		baseURL.Path += "/"
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	// go-gh only attaches the token to requests for the configured host
	httpClient, err := api.NewHTTPClient(api.ClientOptions{
		AuthToken:    opts.Token,
		Host:         baseURL.Hostname(),
		Timeout:      timeout,
		Transport:    opts.Transport,
		LogIgnoreEnv: true,
	})
	if err != nil {
		return nil, NewAPIError("failed to create HTTP client", err)
	}

	gh := github.NewClient(httpClient)
	gh.BaseURL = baseURL

	return &Client{gh: gh}, nil
}

// CreateIssue creates a new GitHub issue from a descriptor
func (c *Client) CreateIssue(ctx context.Context, repository, assignee string, d Descriptor) (*Issue, error) {
	owner, name := SplitRepository(repository)
	if owner == "" || name == "" {
		return nil, NewAPIError("failed to create issue", fmt.Errorf("repository '%s' must be in 'owner/repo' format", repository))
	}

	log.Debug("creating issue", "repository", repository, "title", d.Title)

	created, resp, err := c.gh.Issues.Create(ctx, owner, name, d.ToCreateRequest(assignee))
	if err != nil {
		return nil, classifyError(repository, resp, err)
	}

	if created.GetNumber() == 0 {
		apiErr := NewAPIError("failed to create issue", fmt.Errorf("response did not contain an issue number"))
		apiErr.StatusCode = resp.StatusCode
		return nil, apiErr
	}

	log.Debug("issue created", "repository", repository, "number", created.GetNumber(), "status", resp.StatusCode)

	return convertFromGitHubIssue(created, repository), nil
}

// classifyError maps a failed request to a typed API error
func classifyError(repository string, resp *github.Response, err error) *IssueError {
	if resp == nil || resp.Response == nil {
		log.Debug("request failed without response", "repository", repository, "error", err)
		return NewNetworkError("failed to create issue", err)
	}

	var issueErr *IssueError
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		issueErr = NewPermissionError("failed to create issue", err)
	case http.StatusNotFound:
		issueErr = NewNotFoundError(fmt.Sprintf("repository %s", repository), err)
	default:
		issueErr = NewAPIError("failed to create issue", err)
		if resp.StatusCode < http.StatusInternalServerError {
			issueErr.Suggestion = "Check the title, labels and assignee of this issue; the API rejected the request"
		}
	}

	issueErr.StatusCode = resp.StatusCode
	issueErr.Details, issueErr.Response = readErrorBody(resp.Response)

	log.Debug("request failed", "repository", repository, "status", resp.StatusCode)

	return issueErr
}

// readErrorBody decodes a JSON error payload, falling back to the raw text
func readErrorBody(resp *http.Response) (map[string]interface{}, string) {
	if resp.Body == nil {
		return nil, ""
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ""
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ""
	}

	var details map[string]interface{}
	if err := json.Unmarshal(data, &details); err == nil {
		return details, ""
	}

	return nil, string(data)
}

package issue

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/go-github/v68/github"
)

// BatchFile represents a parsed batch input document
type BatchFile struct {
	Repository string       `yaml:"repository" json:"repository"`
	Assignee   string       `yaml:"assignee" json:"assignee"`
	Issues     []Descriptor `yaml:"issues" json:"issues"`

	// Path is where the document was read from
	Path string `yaml:"-" json:"-"`
}

// Descriptor represents one requested issue
type Descriptor struct {
	Title  string   `yaml:"title" json:"title"`
	Body   string   `yaml:"body" json:"body"`
	Labels []string `yaml:"labels" json:"labels"`
}

// Issue represents a created GitHub issue
type Issue struct {
	ID         string    `json:"id"`
	Number     int       `json:"number"`
	Title      string    `json:"title"`
	URL        string    `json:"url"`
	State      string    `json:"state"`
	Repository string    `json:"repository"`
	Labels     []Label   `json:"labels"`
	CreatedAt  time.Time `json:"created_at"`
}

// Label represents a GitHub issue label
type Label struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Validate checks if the batch file is well formed
func (f *BatchFile) Validate() error {
	if f.Repository == "" {
		return fmt.Errorf("repository is required")
	}

	if !IsValidRepository(f.Repository) {
		return fmt.Errorf("repository '%s' must be in 'owner/repo' format", f.Repository)
	}

	if f.Issues == nil {
		return fmt.Errorf("issues list is required")
	}

	for i := range f.Issues {
		if err := f.Issues[i].Validate(); err != nil {
			return fmt.Errorf("issue %d: %w", i+1, err)
		}
	}

	return nil
}

// Validate checks if the descriptor is valid
func (d *Descriptor) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("issue title is required")
	}

	if utf8.RuneCountInString(d.Title) > 256 {
		return fmt.Errorf("issue title must be 256 characters or less")
	}

	for _, label := range d.Labels {
		if label == "" {
			return fmt.Errorf("empty label is not allowed")
		}
		if utf8.RuneCountInString(label) > 50 {
			return fmt.Errorf("label '%s' exceeds maximum length of 50 characters", label)
		}
	}

	return nil
}

// ToCreateRequest converts the descriptor to a GitHub issue request.
// Body and labels are always sent, even when empty.
func (d *Descriptor) ToCreateRequest(assignee string) *github.IssueRequest {
	labels := d.Labels
	if labels == nil {
		labels = []string{}
	}

	req := &github.IssueRequest{
		Title:  github.Ptr(d.Title),
		Body:   github.Ptr(d.Body),
		Labels: &labels,
	}

	if login := NormalizeAssignee(assignee); login != "" {
		req.Assignees = &[]string{login}
	}

	return req
}

// NormalizeAssignee strips leading '@' markers from a username
func NormalizeAssignee(assignee string) string {
	return strings.TrimLeft(strings.TrimSpace(assignee), "@")
}

// SplitRepository splits an owner/repo string into its parts
func SplitRepository(repository string) (string, string) {
	parts := strings.Split(repository, "/")
	if len(parts) != 2 {
		return "", ""
	}
	return parts[0], parts[1]
}

// IsValidRepository checks if a repository string is in the owner/repo format
func IsValidRepository(repo string) bool {
	owner, name := SplitRepository(repo)
	return owner != "" && name != ""
}

// convertFromGitHubIssue converts a github.Issue to our Issue type
func convertFromGitHubIssue(gi *github.Issue, repository string) *Issue {
	created := &Issue{
		ID:         gi.GetNodeID(),
		Number:     gi.GetNumber(),
		Title:      gi.GetTitle(),
		URL:        gi.GetHTMLURL(),
		State:      gi.GetState(),
		Repository: repository,
		CreatedAt:  gi.GetCreatedAt().Time,
	}

	created.Labels = make([]Label, 0, len(gi.Labels))
	for _, l := range gi.Labels {
		created.Labels = append(created.Labels, Label{
			Name:  l.GetName(),
			Color: l.GetColor(),
		})
	}

	return created
}

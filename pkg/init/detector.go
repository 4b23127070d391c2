package init

import (
	"fmt"

	"github.com/cli/go-gh/v2/pkg/repository"
)

// RepoDetector finds the repository a new batch file should target
type RepoDetector struct {
	current func() (repository.Repository, error)
}

// NewRepoDetector creates a detector that reads the git remotes of the
// working directory, honoring GH_REPO like the gh CLI does
func NewRepoDetector() *RepoDetector {
	return &RepoDetector{current: repository.Current}
}

// DetectCurrentRepo returns the current repository in owner/repo form
func (d *RepoDetector) DetectCurrentRepo() (string, error) {
	r, err := d.current()
	if err != nil {
		return "", fmt.Errorf("failed to detect current repository: %w", err)
	}

	return fmt.Sprintf("%s/%s", r.Owner, r.Name), nil
}

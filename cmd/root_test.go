package cmd

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yahsan2/gh-issue-batch/pkg/issue"
)

const threeIssues = `{
	"repository": "octo/hello",
	"assignee": "@alice",
	"issues": [
		{"title": "Implement look", "body": "Room descriptions", "labels": ["enhancement"]},
		{"title": "Implement @dig", "body": "Digging rooms", "labels": ["enhancement", "building"]},
		{"title": "Implement say", "body": "", "labels": []}
	]
}`

// setupWorkspace moves the test into a fresh directory with a known environment
func setupWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)

	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GITHUB_API_URL", "https://api.github.com")
	t.Setenv("ISSUE_BATCH_FILE", "github_issues.json")
	t.Setenv("ISSUE_BATCH_TIMEOUT", "5s")
	t.Setenv("ISSUE_BATCH_LOG_LEVEL", "warn")
	t.Setenv("ISSUE_BATCH_FOLLOWUP_LABEL", "enhancement")

	return dir
}

func writeBatchFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// stubCreator swaps the live client factory and records every call to it
func stubCreator(t *testing.T, creator issue.Creator) *[]issue.ClientOptions {
	t.Helper()
	var calls []issue.ClientOptions

	original := newCreator
	newCreator = func(opts issue.ClientOptions) (issue.Creator, error) {
		calls = append(calls, opts)
		return creator, nil
	}
	t.Cleanup(func() { newCreator = original })

	return &calls
}

func runRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	if args == nil {
		args = []string{}
	}

	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCmd_DryRunPreview(t *testing.T) {
	dir := setupWorkspace(t)
	writeBatchFile(t, filepath.Join(dir, "github_issues.json"), threeIssues)
	t.Setenv("GITHUB_TOKEN", "env-token")
	calls := stubCreator(t, nil)

	out, stderr, err := runRoot(t, "--dry-run")
	require.NoError(t, err)

	assert.NotContains(t, stderr, "no token found")
	assert.NotContains(t, stderr, "no assignee")
	assert.Equal(t, 3, strings.Count(out, "Would create"))
	assert.Contains(t, out, "[2/3] Would create: Implement @dig")
	assert.Contains(t, out, "  Labels: enhancement, building")
	assert.Contains(t, out, "DRY-RUN complete - 3 issues ready to create")
	assert.NotContains(t, out, "WARNING")
	assert.Empty(t, *calls)
}

func TestRootCmd_NoTokenForcesDryRun(t *testing.T) {
	dir := setupWorkspace(t)
	writeBatchFile(t, filepath.Join(dir, "github_issues.json"), threeIssues)
	calls := stubCreator(t, nil)

	out, stderr, err := runRoot(t)
	require.NoError(t, err)

	assert.Contains(t, stderr, "no token found, running in dry-run mode")
	assert.Contains(t, out, "WARNING: GITHUB_TOKEN not set")
	assert.Equal(t, 3, strings.Count(out, "Would create"))
	assert.NotContains(t, out, "Creating:")
	assert.Empty(t, *calls)
}

func TestRootCmd_ExplicitTokenWinsOverEnvironment(t *testing.T) {
	dir := setupWorkspace(t)
	writeBatchFile(t, filepath.Join(dir, "github_issues.json"), threeIssues)
	t.Setenv("GITHUB_TOKEN", "env-token")

	creator := &MockCreator{}
	creator.On("CreateIssue", mock.Anything, "octo/hello", "@alice", mock.Anything).
		Return(&issue.Issue{Number: 7}, nil).Times(3)
	calls := stubCreator(t, creator)

	out, _, err := runRoot(t, "--token", "flag-token")
	require.NoError(t, err)

	require.Len(t, *calls, 1)
	assert.Equal(t, "flag-token", (*calls)[0].Token)
	assert.Equal(t, "https://api.github.com", (*calls)[0].BaseURL)
	assert.Equal(t, 5*time.Second, (*calls)[0].Timeout)

	creator.AssertExpectations(t)
	assert.Contains(t, out, "✓ Successfully created: 3")
}

func TestRootCmd_DotEnvSuppliesToken(t *testing.T) {
	dir := setupWorkspace(t)
	writeBatchFile(t, filepath.Join(dir, "github_issues.json"), threeIssues)
	writeBatchFile(t, filepath.Join(dir, ".env"), "GITHUB_TOKEN=dotenv-token\n")
	require.NoError(t, os.Unsetenv("GITHUB_TOKEN"))

	creator := &MockCreator{}
	creator.On("CreateIssue", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&issue.Issue{Number: 1}, nil)
	calls := stubCreator(t, creator)

	_, _, err := runRoot(t)
	require.NoError(t, err)

	require.Len(t, *calls, 1)
	assert.Equal(t, "dotenv-token", (*calls)[0].Token)
}

func TestRootCmd_FindsFileUnderScripts(t *testing.T) {
	dir := setupWorkspace(t)
	writeBatchFile(t, filepath.Join(dir, "scripts", "github_issues.json"), threeIssues)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0755))
	chdir(t, filepath.Join(dir, "nested"))

	out, _, err := runRoot(t, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Repository: octo/hello")
}

func TestRootCmd_PositionalFile(t *testing.T) {
	dir := setupWorkspace(t)
	writeBatchFile(t, filepath.Join(dir, "plans", "batch.yaml"), `repository: octo/other
assignee: bob
issues:
  - title: From YAML
    labels: [docs]
`)

	out, _, err := runRoot(t, filepath.Join("plans", "batch.yaml"), "--dry-run")
	require.NoError(t, err)

	assert.Contains(t, out, "Repository: octo/other")
	assert.Contains(t, out, "[1/1] Would create: From YAML")
}

func TestRootCmd_MissingAssigneeWarns(t *testing.T) {
	dir := setupWorkspace(t)
	writeBatchFile(t, filepath.Join(dir, "github_issues.json"), `{"repository": "octo/hello", "issues": [{"title": "Unassigned"}]}`)

	out, stderr, err := runRoot(t, "--dry-run")
	require.NoError(t, err)

	assert.Contains(t, stderr, "batch file has no assignee")
	assert.Contains(t, out, "[1/1] Would create: Unassigned")
}

func TestRootCmd_MissingFile(t *testing.T) {
	setupWorkspace(t)
	t.Setenv("GITHUB_TOKEN", "env-token")
	calls := stubCreator(t, nil)

	out, _, err := runRoot(t)
	require.Error(t, err)

	assert.True(t, issue.IsConfiguration(err))
	assert.Contains(t, err.Error(), "batch file not found")
	assert.Contains(t, err.Error(), "github_issues.json")
	assert.Empty(t, out)
	assert.Empty(t, *calls)
}

func TestRootCmd_InvalidSettings(t *testing.T) {
	dir := setupWorkspace(t)
	writeBatchFile(t, filepath.Join(dir, "github_issues.json"), threeIssues)
	t.Setenv("ISSUE_BATCH_TIMEOUT", "0s")

	_, _, err := runRoot(t)
	require.Error(t, err)
	assert.True(t, issue.IsConfiguration(err))
	assert.Contains(t, err.Error(), "ISSUE_BATCH_TIMEOUT")
}

func TestRootCmd_TooManyArguments(t *testing.T) {
	setupWorkspace(t)

	_, _, err := runRoot(t, "a.json", "b.json")
	assert.Error(t, err)
}

func TestRootCmd_LiveAgainstAPI(t *testing.T) {
	dir := setupWorkspace(t)
	writeBatchFile(t, filepath.Join(dir, "github_issues.json"), `{
	"repository": "octo/hello",
	"assignee": "@alice",
	"issues": [
		{"title": "Works", "body": "", "labels": ["enhancement"]},
		{"title": "Rejected", "body": "", "labels": ["enhancement"]}
	]
}`)

	var (
		mu    sync.Mutex
		auths []string
		paths []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		auths = append(auths, r.Header.Get("Authorization"))
		paths = append(paths, r.URL.Path)
		n := len(paths)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if n == 1 {
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"number": 42, "html_url": "https://github.com/octo/hello/issues/42", "state": "open"}`)
			return
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"message": "Validation Failed", "errors": [{"resource": "Issue", "field": "assignees", "code": "invalid"}]}`)
	}))
	t.Cleanup(server.Close)

	t.Setenv("GITHUB_API_URL", server.URL)
	t.Setenv("GITHUB_TOKEN", "env-token")

	out, _, err := runRoot(t)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"/repos/octo/hello/issues", "/repos/octo/hello/issues"}, paths)
	assert.Equal(t, []string{"token env-token", "token env-token"}, auths)

	assert.Contains(t, out, "✓ Success - Issue #42")
	assert.Contains(t, out, "https://github.com/octo/hello/issues/42")

	second := out[strings.Index(out, "[2/2] Creating: Rejected"):]
	assert.Contains(t, second, "✗ Failed")
	assert.Contains(t, second, `"message":"Validation Failed"`)

	assert.Contains(t, out, "✓ Successfully created: 1")
	assert.Contains(t, out, "✗ Failed: 1")
}

func TestVersionCmd(t *testing.T) {
	out, _, err := runRoot(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "gh-issue-batch version dev\n", out)

	out, _, err = runRoot(t, "version", "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "commit: none")
	assert.Contains(t, out, "built:  unknown")
}

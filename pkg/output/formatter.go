package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yahsan2/gh-issue-batch/pkg/issue"
)

const separatorWidth = 80

// Formatter writes the batch report
type Formatter struct {
	writer  io.Writer
	success lipgloss.Style
	failure lipgloss.Style
	warning lipgloss.Style
	heading lipgloss.Style
}

// NewFormatterWithWriter creates a new formatter with custom writer.
// Styling is dropped when the writer is not a terminal.
func NewFormatterWithWriter(writer io.Writer) *Formatter {
	r := lipgloss.NewRenderer(writer)
	return &Formatter{
		writer:  writer,
		success: r.NewStyle().Foreground(lipgloss.Color("2")),
		failure: r.NewStyle().Foreground(lipgloss.Color("1")),
		warning: r.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		heading: r.NewStyle().Bold(true),
	}
}

func (f *Formatter) separator() {
	fmt.Fprintln(f.writer, strings.Repeat("=", separatorWidth))
}

// Banner prints the run header
func (f *Formatter) Banner(file *issue.BatchFile) {
	f.separator()
	fmt.Fprintln(f.writer, f.heading.Render("Issue Batch Creation"))
	f.separator()
	fmt.Fprintf(f.writer, "Repository: %s\n", file.Repository)
	fmt.Fprintf(f.writer, "Assignee: %s\n", file.Assignee)
	fmt.Fprintf(f.writer, "Issues to create: %d\n", len(file.Issues))
	f.separator()
	fmt.Fprintln(f.writer)
}

// DryRunNotice explains that nothing will be created
func (f *Formatter) DryRunNotice(hasToken bool) {
	if !hasToken {
		fmt.Fprintln(f.writer, f.warning.Render("⚠️  WARNING: GITHUB_TOKEN not set"))
	}
	fmt.Fprintln(f.writer, "Running in DRY-RUN mode - no issues will be created")
	fmt.Fprintln(f.writer)
	fmt.Fprintln(f.writer, "To create issues:")
	fmt.Fprintln(f.writer, "  1. Set GITHUB_TOKEN environment variable:")
	fmt.Fprintln(f.writer, "     export GITHUB_TOKEN='your_token_here'")
	fmt.Fprintln(f.writer, "  2. Run this command again without --dry-run")
	fmt.Fprintln(f.writer)
	fmt.Fprintln(f.writer, "Or pass the token directly:")
	fmt.Fprintln(f.writer, "  gh-issue-batch --token <token>")
	fmt.Fprintln(f.writer)
}

// Preview prints what would be created for one descriptor
func (f *Formatter) Preview(index, total int, d issue.Descriptor, assignee string) {
	fmt.Fprintf(f.writer, "[%d/%d] Would create: %s\n", index, total, d.Title)
	fmt.Fprintf(f.writer, "  Labels: %s\n", strings.Join(d.Labels, ", "))
	fmt.Fprintf(f.writer, "  Assignee: %s\n", assignee)
	fmt.Fprintln(f.writer)
}

// Creating announces a creation attempt
func (f *Formatter) Creating(index, total int, title string) {
	fmt.Fprintf(f.writer, "[%d/%d] Creating: %s\n", index, total, title)
}

// Success reports a created issue
func (f *Formatter) Success(created *issue.Issue) {
	fmt.Fprintf(f.writer, "  %s\n", f.success.Render(fmt.Sprintf("✓ Success - Issue #%d", created.Number)))
	if created.URL != "" {
		fmt.Fprintf(f.writer, "  URL: %s\n", created.URL)
	}
	fmt.Fprintln(f.writer)
}

// Failure reports a failed creation attempt with whatever detail the API returned
func (f *Formatter) Failure(err error) {
	fmt.Fprintf(f.writer, "  %s\n", f.failure.Render("✗ Failed"))

	var issueErr *issue.IssueError
	if !errors.As(err, &issueErr) {
		fmt.Fprintf(f.writer, "  Error: %v\n\n", err)
		return
	}

	fmt.Fprintf(f.writer, "  Error: %s\n", issueErr.Raw())
	switch {
	case len(issueErr.Details) > 0:
		details, marshalErr := json.Marshal(issueErr.Details)
		if marshalErr == nil {
			fmt.Fprintf(f.writer, "  Details: %s\n", details)
		}
	case issueErr.Response != "":
		fmt.Fprintf(f.writer, "  Response: %s\n", issueErr.Response)
	}
	if issueErr.Suggestion != "" {
		fmt.Fprintf(f.writer, "  💡 %s\n", issueErr.Suggestion)
	}
	fmt.Fprintln(f.writer)
}

// Summary prints aggregate counts and the follow-up hint
func (f *Formatter) Summary(result issue.BatchResult, repository, followUpLabel string) {
	f.separator()
	defer f.separator()

	if result.DryRun {
		fmt.Fprintf(f.writer, "DRY-RUN complete - %d issues ready to create\n", result.Total)
		return
	}

	fmt.Fprintln(f.writer, f.success.Render(fmt.Sprintf("✓ Successfully created: %d", result.Succeeded)))
	if result.Failed > 0 {
		fmt.Fprintln(f.writer, f.failure.Render(fmt.Sprintf("✗ Failed: %d", result.Failed)))
	}

	if result.Succeeded > 0 {
		fmt.Fprintln(f.writer)
		fmt.Fprintln(f.writer, "Verify issues created:")
		fmt.Fprintf(f.writer, "  gh issue list --repo %s --label %s\n", repository, followUpLabel)
	}
}

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yahsan2/gh-issue-batch/pkg/config"
	"github.com/yahsan2/gh-issue-batch/pkg/issue"
	"github.com/yahsan2/gh-issue-batch/pkg/log"
	"github.com/yahsan2/gh-issue-batch/pkg/output"
)

var Version = "dev"

// newCreator builds the client used in live mode; tests replace it
var newCreator = func(opts issue.ClientOptions) (issue.Creator, error) {
	client, err := issue.NewClient(opts)
	if err != nil {
		return nil, err
	}
	return client, nil
}

type rootOptions struct {
	token  string
	dryRun bool
}

// NewRootCmd creates the gh-issue-batch command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "gh-issue-batch [file]",
		Short: "Create GitHub issues in bulk from a JSON or YAML file",
		Long: `Create GitHub issues in bulk from a batch file.

The batch file names the target repository, a shared assignee and the list
of issues to open:

  {
    "repository": "owner/repo",
    "assignee": "@octocat",
    "issues": [
      {"title": "...", "body": "...", "labels": ["enhancement"]}
    ]
  }

When no file is given, github_issues.json is searched for in the current
directory and its parents (also under scripts/).

Without a token (--token or GITHUB_TOKEN) the command always runs in
dry-run mode and only prints what it would create.`,
		Example: `  # Preview the issues
  gh-issue-batch --dry-run

  # Create issues using GITHUB_TOKEN
  export GITHUB_TOKEN=ghp_xxx
  gh-issue-batch

  # Create issues from a specific file with an explicit token
  gh-issue-batch scripts/github_issues.json --token ghp_xxx`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.token, "token", "", "GitHub personal access token (or use GITHUB_TOKEN env var)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Show what would be created without actually creating issues")

	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command and returns the process exit code
func Execute() int {
	defer func() { _ = log.Sync() }()

	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var issueErr *issue.IssueError
		if errors.As(err, &issueErr) && issueErr.Suggestion != "" {
			fmt.Fprintf(os.Stderr, "💡 %s\n", issueErr.Suggestion)
		}
		return 1
	}
	return 0
}

func runBatch(cmd *cobra.Command, args []string, opts *rootOptions) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return issue.NewConfigurationError("failed to load settings", err)
	}
	if err := settings.Validate(); err != nil {
		return issue.NewConfigurationError("invalid settings", err)
	}

	log.Init(log.Config{Level: log.ParseLevel(settings.LogLevel), Output: cmd.ErrOrStderr()})

	var path string
	if len(args) > 0 {
		path = args[0]
	} else {
		path, _ = config.FindInputFile(settings.InputFile)
	}

	file, err := issue.LoadDescriptors(path)
	if err != nil {
		return err
	}
	log.Info("loaded batch file", "path", file.Path, "issues", len(file.Issues))

	if file.Assignee == "" {
		log.Warn("batch file has no assignee, issues will be created unassigned", "path", file.Path)
	}

	mode := config.ResolveMode(opts.token, settings.GitHubToken, opts.dryRun)
	if mode.DryRun && !opts.dryRun {
		log.Warn("no token found, running in dry-run mode")
	}

	command := &BatchCommand{
		formatter:     output.NewFormatterWithWriter(cmd.OutOrStdout()),
		followUpLabel: settings.FollowUpLabel,
	}

	if !mode.DryRun {
		creator, err := newCreator(issue.ClientOptions{
			Token:   mode.Token,
			BaseURL: settings.APIBaseURL,
			Timeout: settings.Timeout,
		})
		if err != nil {
			return err
		}
		command.creator = creator
	}

	command.Execute(cmd.Context(), file, mode)
	return nil
}

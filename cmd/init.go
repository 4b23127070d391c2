package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yahsan2/gh-issue-batch/pkg/config"
	initpkg "github.com/yahsan2/gh-issue-batch/pkg/init"
	"github.com/yahsan2/gh-issue-batch/pkg/issue"
	"github.com/yahsan2/gh-issue-batch/pkg/log"
)

// detectRepo reports the repository of the working directory; tests replace it
var detectRepo = func() (string, error) {
	return initpkg.NewRepoDetector().DetectCurrentRepo()
}

type initOptions struct {
	repo     string
	assignee string
	output   string
	force    bool
}

func newInitCmd() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter batch file",
		Long: `Create a starter batch file in the current directory.

The target repository is taken from --repo, or detected from the git remotes
of the current directory. Files ending in .yml or .yaml are written as YAML,
everything else as JSON.`,
		Example: `  # Detect the repository and write github_issues.json
  gh-issue-batch init

  # Write a YAML batch file for a specific repository
  gh-issue-batch init --repo owner/repo --assignee @octocat --output scripts/issues.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.repo, "repo", "", "Target repository (owner/repo format)")
	cmd.Flags().StringVar(&opts.assignee, "assignee", "", "Login assigned to every issue")
	cmd.Flags().StringVarP(&opts.output, "output", "o", config.DefaultInputFile, "Path of the batch file to write")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Overwrite an existing file without asking")

	return cmd
}

func runInit(cmd *cobra.Command, opts *initOptions) error {
	out := cmd.OutOrStdout()
	prompt := initpkg.NewInteractivePrompt(cmd.InOrStdin(), out)

	repo := opts.repo
	if repo == "" {
		detected, err := detectRepo()
		if err != nil {
			log.Debug("repository detection failed", "error", err)
		}
		repo = prompt.GetStringInput("Repository (owner/repo)", detected)
	}
	if repo == "" {
		return issue.NewConfigurationError("repository is required", fmt.Errorf("pass --repo owner/repo or run inside a git checkout"))
	}

	if _, err := os.Stat(opts.output); err == nil && !opts.force {
		if !prompt.ConfirmOverwrite(opts.output) {
			fmt.Fprintln(out, "Initialization cancelled.")
			return nil
		}
	}

	if err := initpkg.WriteBatchFile(opts.output, initpkg.NewTemplate(repo, opts.assignee)); err != nil {
		return err
	}

	fmt.Fprintf(out, "✓ Batch file created: %s\n", opts.output)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintf(out, "  1. Edit %s and describe your issues\n", opts.output)
	fmt.Fprintln(out, "  2. Run 'gh-issue-batch --dry-run' to preview them")
	fmt.Fprintln(out, "  3. Run 'gh-issue-batch' with GITHUB_TOKEN set to create them")

	return nil
}

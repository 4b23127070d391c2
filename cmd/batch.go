package cmd

import (
	"context"

	"github.com/yahsan2/gh-issue-batch/pkg/config"
	"github.com/yahsan2/gh-issue-batch/pkg/issue"
	"github.com/yahsan2/gh-issue-batch/pkg/log"
	"github.com/yahsan2/gh-issue-batch/pkg/output"
)

// BatchCommand walks a batch file and previews or creates each issue
type BatchCommand struct {
	creator       issue.Creator
	formatter     *output.Formatter
	followUpLabel string
}

// Execute processes every descriptor in input order. API failures are
// reported and counted; they never stop the batch.
func (c *BatchCommand) Execute(ctx context.Context, file *issue.BatchFile, mode config.Mode) issue.BatchResult {
	c.formatter.Banner(file)
	if mode.DryRun {
		c.formatter.DryRunNotice(mode.HasToken())
	}

	result := issue.BatchResult{
		Total:  len(file.Issues),
		DryRun: mode.DryRun,
	}

	for i, d := range file.Issues {
		index := i + 1

		if mode.DryRun {
			c.formatter.Preview(index, result.Total, d, file.Assignee)
			continue
		}

		c.formatter.Creating(index, result.Total, d.Title)

		created, err := c.creator.CreateIssue(ctx, file.Repository, file.Assignee, d)
		if err != nil {
			result.Failed++
			log.Info("issue creation failed", "index", index, "title", d.Title, "error", err)
			c.formatter.Failure(err)
			continue
		}

		result.Succeeded++
		c.formatter.Success(created)
	}

	c.formatter.Summary(result, file.Repository, c.followUpLabel)
	return result
}

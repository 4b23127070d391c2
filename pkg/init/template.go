// Package init scaffolds new batch files.
package init

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yahsan2/gh-issue-batch/pkg/issue"
)

// NewTemplate returns a starter batch file holding one example issue
func NewTemplate(repository, assignee string) *issue.BatchFile {
	return &issue.BatchFile{
		Repository: repository,
		Assignee:   assignee,
		Issues: []issue.Descriptor{
			{
				Title:  "Describe the first issue",
				Body:   "What needs to be done and how to verify it.",
				Labels: []string{"enhancement"},
			},
		},
	}
}

// Marshal encodes file as YAML for .yml/.yaml paths and as indented JSON otherwise
func Marshal(path string, file *issue.BatchFile) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(file); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		data, err := json.MarshalIndent(file, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}

// WriteBatchFile validates file and writes it to path, creating parent directories
func WriteBatchFile(path string, file *issue.BatchFile) error {
	if err := file.Validate(); err != nil {
		return issue.NewConfigurationError("refusing to write an invalid batch file", err)
	}

	data, err := Marshal(path, file)
	if err != nil {
		return fmt.Errorf("failed to encode batch file: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write batch file %s: %w", path, err)
	}

	return nil
}

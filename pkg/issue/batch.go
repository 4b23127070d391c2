package issue

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// BatchResult represents the result of batch issue creation
type BatchResult struct {
	Total     int  `json:"total"`
	Succeeded int  `json:"succeeded"`
	Failed    int  `json:"failed"`
	DryRun    bool `json:"dry_run"`
}

// Attempted returns how many descriptors were processed
func (r BatchResult) Attempted() int {
	if r.DryRun {
		return r.Total
	}
	return r.Succeeded + r.Failed
}

// LoadDescriptors reads and validates a batch file.
// .yml and .yaml files are parsed as YAML, everything else as JSON.
func LoadDescriptors(path string) (*BatchFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewConfigurationError(fmt.Sprintf("batch file not found: %s", path), nil)
		}
		return nil, NewConfigurationError(fmt.Sprintf("failed to read batch file at %s", path), err)
	}

	var file BatchFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		err = yaml.Unmarshal(data, &file)
	default:
		err = json.Unmarshal(data, &file)
	}
	if err != nil {
		return nil, NewConfigurationError(fmt.Sprintf("failed to parse batch file %s", path), err)
	}

	if err := file.Validate(); err != nil {
		return nil, NewConfigurationError(fmt.Sprintf("invalid batch file %s", path), err)
	}

	file.Path = path
	return &file, nil
}

package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"inferd/internal/common/fsutil"
)

// Load reads capability records from a file based on its extension.
// Supports: .yaml/.yml, .json. An empty path returns the built-in defaults.
func Load(path string) ([]Record, error) {
	if path == "" {
		return Defaults(), nil
	}
	expanded, err := fsutil.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(expanded)
	if err != nil {
		return nil, err
	}
	var records []Record
	switch ext := strings.ToLower(filepath.Ext(expanded)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &records); err != nil {
			return nil, err
		}
	case ".json":
		if err := json.Unmarshal(b, &records); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported catalog extension: %s", ext)
	}
	return records, nil
}

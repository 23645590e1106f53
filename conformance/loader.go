package conformance

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// TestDir is where scenario YAML files live, relative to this
// package's directory — simplified from the teacher's multi-candidate
// filepath.Abs search, which existed to locate a sibling repository's
// fixture directory; this module's fixtures live alongside the code
// that runs them.
const TestDir = "testdata"

// LoadedCase is a Case together with the suite file it came from, for
// readable subtest names.
type LoadedCase struct {
	File string
	Case Case
}

// LoadAll reads every *.yaml file under TestDir and flattens their
// cases into a single slice.
func LoadAll() ([]LoadedCase, error) {
	entries, err := os.ReadDir(TestDir)
	if err != nil {
		return nil, fmt.Errorf("conformance: reading %s: %w", TestDir, err)
	}

	var out []LoadedCase
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(TestDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("conformance: reading %s: %w", path, err)
		}
		var suite Suite
		if err := yaml.Unmarshal(data, &suite); err != nil {
			return nil, fmt.Errorf("conformance: parsing %s: %w", path, err)
		}
		for _, c := range suite.Tests {
			out = append(out, LoadedCase{File: entry.Name(), Case: c})
		}
	}
	return out, nil
}

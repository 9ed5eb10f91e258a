package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning is one snapshot of the live-editable parameters.
type Tuning struct {
	// Asset selects the character asset. Changing it loads that asset.
	Asset string `yaml:"asset"`

	// Morphs sets morph target weights, keyed by mesh name then target name.
	Morphs map[string]map[string]float32 `yaml:"morphs"`
}

// Decode parses a tuning document.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - Tuning: the decoded values
//   - error: an error if the document is malformed
func Decode(data []byte) (Tuning, error) {
	var t Tuning
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tuning{}, fmt.Errorf("tuning: unmarshal: %w", err)
	}
	return t, nil
}

// Read loads and decodes a tuning file.
func Read(path string) (Tuning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("tuning: read %s: %w", path, err)
	}
	t, err := Decode(data)
	if err != nil {
		return Tuning{}, fmt.Errorf("tuning: %s: %w", path, err)
	}
	return t, nil
}

// Encode renders a tuning document, used to seed the file with the current values.
func Encode(t Tuning) ([]byte, error) {
	data, err := yaml.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("tuning: marshal: %w", err)
	}
	return data, nil
}

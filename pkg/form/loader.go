package form

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse decodes a JSON or YAML definition and validates it. source only
// labels errors.
func Parse(data []byte, source string) (*Definition, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("form: definition %s is empty", source)
	}

	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		def = Definition{}
		if yerr := yaml.Unmarshal(data, &def); yerr != nil {
			return nil, fmt.Errorf("form: parse %s: %w", source, yerr)
		}
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("form: definition %s: %w", source, err)
	}
	return &def, nil
}

// Load reads and parses the definition at path.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("form: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFS reads and parses the definition at path inside fsys.
func LoadFS(fsys fs.FS, path string) (*Definition, error) {
	if fsys == nil {
		return nil, fmt.Errorf("form: read %s: nil filesystem", path)
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("form: read %s: %w", path, err)
	}
	return Parse(data, path)
}

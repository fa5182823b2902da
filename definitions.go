package formwizard

import (
	"embed"
	"io/fs"

	"github.com/goliatone/go-formwizard/pkg/form"
)

// DefaultDefinitionPath locates the built-in career application definition
// inside DefinitionsFS.
const DefaultDefinitionPath = "career_application.yaml"

//go:embed definitions/*.yaml
var embeddedDefinitions embed.FS

// DefinitionsFS exposes the embedded form definitions so callers can copy or
// extend them without reading the module sources.
func DefinitionsFS() fs.FS {
	sub, err := fs.Sub(embeddedDefinitions, "definitions")
	if err != nil {
		return embeddedDefinitions
	}
	return sub
}

// DefaultDefinition parses the embedded ten step career application.
func DefaultDefinition() (*form.Definition, error) {
	return form.LoadFS(DefinitionsFS(), DefaultDefinitionPath)
}

// LoadDefinition reads a JSON or YAML definition from disk. An empty path
// returns the embedded default.
func LoadDefinition(path string) (*form.Definition, error) {
	if path == "" {
		return DefaultDefinition()
	}
	return form.Load(path)
}

package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// PromptDefinition is one named system prompt in the prompts file.
type PromptDefinition struct {
	Name   string `yaml:"name"`
	System string `yaml:"system"`
}

// PromptFile is the layout of the prompts file:
//
//	prompts:
//	  - name: support
//	    system: You are a support engineer...
type PromptFile struct {
	Prompts []PromptDefinition `yaml:"prompts"`
}

// LoadPrompts loads system prompt presets from a YAML file.
func LoadPrompts(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file %s: %w", path, err)
	}

	var file PromptFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse prompts file %s: %w", path, err)
	}

	prompts := make(map[string]string, len(file.Prompts))
	for i, p := range file.Prompts {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return nil, fmt.Errorf("prompt %d in %s has no name", i, path)
		}
		if strings.TrimSpace(p.System) == "" {
			return nil, fmt.Errorf("prompt %s in %s has no system text", name, path)
		}
		if _, dup := prompts[name]; dup {
			return nil, fmt.Errorf("prompt %s is defined twice in %s", name, path)
		}
		prompts[name] = strings.TrimSpace(p.System)
	}
	return prompts, nil
}

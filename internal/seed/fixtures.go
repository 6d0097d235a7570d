package seed

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/prompts.yml
var fixtureFS embed.FS

// PromptTemplate is one entry of the prompt fixture file. Input may contain a {{topic}}
// placeholder.
type PromptTemplate struct {
	Title  string   `yaml:"title"`
	Input  string   `yaml:"input"`
	Tags   []string `yaml:"tags"`
	Output string   `yaml:"output"`
}

// Fixtures is the parsed prompt fixture file.
type Fixtures struct {
	Models  []string         `yaml:"models"`
	Prompts []PromptTemplate `yaml:"prompts"`
	Topics  []string         `yaml:"topics"`
}

// LoadFixtures parses the embedded fixture file.
func LoadFixtures() (*Fixtures, error) {
	raw, err := fixtureFS.ReadFile("fixtures/prompts.yml")
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return ParseFixtures(raw)
}

// ParseFixtures decodes fixture YAML and checks that every template is usable.
func ParseFixtures(raw []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	if len(f.Models) == 0 {
		return nil, fmt.Errorf("fixtures: no models")
	}
	if len(f.Prompts) == 0 {
		return nil, fmt.Errorf("fixtures: no prompts")
	}
	for i, p := range f.Prompts {
		if strings.TrimSpace(p.Title) == "" || strings.TrimSpace(p.Input) == "" ||
			strings.TrimSpace(p.Output) == "" || len(p.Tags) == 0 {
			return nil, fmt.Errorf("fixtures: prompt %d is incomplete", i)
		}
		if strings.Contains(p.Input, "{{topic}}") && len(f.Topics) == 0 {
			return nil, fmt.Errorf("fixtures: prompt %d needs topics", i)
		}
	}
	return &f, nil
}

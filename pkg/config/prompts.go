package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Prompts holds the templates used to talk to the model and to build image prompts.
// Placeholders {world}, {name}, {type} and {description} are substituted verbatim.
type Prompts struct {
	EntitySystem string `yaml:"entity_system"`
	EntityUser   string `yaml:"entity_user"`
	Image        string `yaml:"image"`
}

// DefaultPrompts returns the built-in prompt templates
func DefaultPrompts() Prompts {
	return Prompts{
		EntitySystem: "You are a world entity generator. Respond ONLY with valid JSON. No explanations, no extra text. JSON must have keys: name, type, description, abilities (array of strings).",
		EntityUser:   `Generate the entity for "{name}" in the world of "{world}".`,
		Image:        "{name}, {type}. {description}. Cinematic, detailed, coherent with a {world} setting.",
	}
}

// LoadPrompts reads prompt overrides from a YAML file. Keys missing from the
// file keep their built-in value. An empty path returns the defaults.
func LoadPrompts(path string) (Prompts, error) {
	prompts := DefaultPrompts()
	if strings.TrimSpace(path) == "" {
		return prompts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Prompts{}, fmt.Errorf("loading prompts: %w", err)
	}

	var override Prompts
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Prompts{}, fmt.Errorf("loading prompts: %w", err)
	}

	if strings.TrimSpace(override.EntitySystem) != "" {
		prompts.EntitySystem = override.EntitySystem
	}
	if strings.TrimSpace(override.EntityUser) != "" {
		prompts.EntityUser = override.EntityUser
	}
	if strings.TrimSpace(override.Image) != "" {
		prompts.Image = override.Image
	}

	return prompts, nil
}

// Render substitutes placeholders in a template
func Render(template string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for key, value := range vars {
		pairs = append(pairs, "{"+key+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

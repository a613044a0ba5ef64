package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/poiesic/shopsearch/core"
	"gopkg.in/yaml.v3"
)

// TypeField is the MatchField of categories that filter on result type.
const TypeField = "type"

type categoryFile struct {
	Categories []core.Category `yaml:"categories"`
}

// DefaultCategories returns the result type filter offered by the search dialog.
func DefaultCategories() []core.Category {
	return []core.Category{
		{
			Key:        "type",
			Label:      "Tipo",
			MatchField: TypeField,
			Options: []core.CategoryOption{
				{Value: core.CategoryAll, DisplayLabel: "Todos"},
				{Value: string(core.ResultTypePage), DisplayLabel: "Páginas"},
				{Value: string(core.ResultTypeStaff), DisplayLabel: "Equipe"},
				{Value: string(core.ResultTypeService), DisplayLabel: "Serviços"},
				{Value: string(core.ResultTypeUnit), DisplayLabel: "Unidades"},
			},
		},
	}
}

// LoadCategories reads category definitions from a YAML file. An empty
// path returns DefaultCategories.
func LoadCategories(path string) ([]core.Category, error) {
	if path == "" {
		return DefaultCategories(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCategories(data)
}

// ParseCategories decodes and validates a YAML category document.
func ParseCategories(data []byte) ([]core.Category, error) {
	var f categoryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := ValidateCategories(f.Categories); err != nil {
		return nil, err
	}
	return f.Categories, nil
}

// ValidateCategories checks that keys are unique and non-empty and that
// type categories only offer known result types.
func ValidateCategories(categories []core.Category) error {
	if len(categories) == 0 {
		return fmt.Errorf("%w: no categories defined", ErrInvalidConfig)
	}
	seen := make(map[string]bool, len(categories))
	for _, c := range categories {
		if strings.TrimSpace(c.Key) == "" {
			return fmt.Errorf("%w: category without key", ErrInvalidConfig)
		}
		if seen[c.Key] {
			return fmt.Errorf("%w: duplicate category %q", ErrInvalidConfig, c.Key)
		}
		seen[c.Key] = true
		if len(c.Options) == 0 {
			return fmt.Errorf("%w: category %q has no options", ErrInvalidConfig, c.Key)
		}
		if c.MatchField != TypeField {
			continue
		}
		for _, o := range c.Options {
			if o.Value == core.CategoryAll {
				continue
			}
			if _, err := core.ParseResultType(o.Value); err != nil {
				return fmt.Errorf("%w: category %q: %w", ErrInvalidConfig, c.Key, err)
			}
		}
	}
	return nil
}

// TypeOptions returns the option values of the first type category.
func TypeOptions(categories []core.Category) []string {
	for _, c := range categories {
		if c.MatchField != TypeField {
			continue
		}
		values := make([]string, len(c.Options))
		for i, o := range c.Options {
			values[i] = o.Value
		}
		return values
	}
	return nil
}

// IsTypeOption reports whether value is offered by the type category.
func IsTypeOption(categories []core.Category, value string) bool {
	return slices.Contains(TypeOptions(categories), strings.ToLower(strings.TrimSpace(value)))
}

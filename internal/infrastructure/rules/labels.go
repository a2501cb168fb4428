package rules

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LabelConfig carries the two remap tables the deterministic passes and
// the enricher boundary share: label synonyms for the line parser and
// coarse entity-tag translations for collaborator output.
type LabelConfig struct {
	// Synonyms maps a lowercased label to its canonical field name.
	Synonyms map[string]string
	// EntityTags maps an upper-cased collaborator tag (PERSON, GPE, ...)
	// to a canonical field name. Unmapped tags stay dynamic fields.
	EntityTags map[string]string
}

type labelConfigFile struct {
	Labels     map[string][]string `yaml:"labels"`
	EntityTags map[string]string   `yaml:"entity_tags"`
}

// DefaultLabelConfig is the built-in table; a YAML file can extend or
// override individual entries but never empties the defaults.
func DefaultLabelConfig() LabelConfig {
	return LabelConfig{
		Synonyms: map[string]string{
			"name":        "Name",
			"age":         "Age",
			"gender":      "Gender",
			"phone":       "Phone",
			"mobile":      "Phone",
			"contact":     "Phone",
			"email":       "Email",
			"e-mail":      "Email",
			"street":      "Street",
			"city":        "City",
			"state":       "State",
			"country":     "Country",
			"pincode":     "Pincode",
			"pin":         "Pincode",
			"postal code": "Pincode",
			"zip":         "Pincode",
			"company":     "Company",
			"organization": "Company",
			"product":     "Product",
			"service":     "Product",
			"amount":      "Amount",
			"price":       "Amount",
			"total":       "Amount",
			"quantity":    "Quantity",
			"qty":         "Quantity",
		},
		EntityTags: map[string]string{
			"PERSON":   "Name",
			"GPE":      "City",
			"LOC":      "City",
			"ORG":      "Company",
			"MONEY":    "Amount",
			"QUANTITY": "Quantity",
		},
	}
}

// LoadLabelConfig merges a YAML file into the defaults. An empty path
// returns the defaults unchanged.
func LoadLabelConfig(path string) (LabelConfig, error) {
	cfg := DefaultLabelConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return LabelConfig{}, fmt.Errorf("read label config: %w", err)
	}
	var file labelConfigFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return LabelConfig{}, fmt.Errorf("parse label config: %w", err)
	}

	for canonical, synonyms := range file.Labels {
		for _, synonym := range synonyms {
			synonym = strings.ToLower(strings.TrimSpace(synonym))
			if synonym == "" {
				continue
			}
			cfg.Synonyms[synonym] = canonical
		}
	}
	for tag, canonical := range file.EntityTags {
		tag = strings.ToUpper(strings.TrimSpace(tag))
		if tag == "" || canonical == "" {
			continue
		}
		cfg.EntityTags[tag] = canonical
	}
	return cfg, nil
}

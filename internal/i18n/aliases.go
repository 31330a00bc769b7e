package i18n

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AliasTable lists the known mismatches between the base sublimation
// names and the upstream item titles.
type AliasTable struct {
	// Names maps a base name to the upstream English title.
	Names map[string]string `yaml:"names"`
	// Overrides maps lang -> base name -> translated name.
	Overrides map[string]map[string]string `yaml:"overrides"`
	// Descriptions maps lang -> base name -> translated templated description.
	Descriptions map[string]map[string]string `yaml:"descriptions"`
}

// LoadAliases reads an alias table. A missing file yields an empty table.
func LoadAliases(path string) (*AliasTable, error) {
	t := &AliasTable{}
	if path == "" {
		return t, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return nil, fmt.Errorf("read aliases: %w", err)
	}
	if err := yaml.Unmarshal(b, t); err != nil {
		return nil, fmt.Errorf("parse aliases %s: %w", path, err)
	}
	return t, nil
}

func (t *AliasTable) upstream(name string) string {
	if t == nil {
		return name
	}
	if alias, ok := t.Names[name]; ok && alias != "" {
		return alias
	}
	return name
}

func (t *AliasTable) override(lang, name string) string {
	if t == nil {
		return ""
	}
	return t.Overrides[lang][name]
}

func (t *AliasTable) description(lang, name string) string {
	if t == nil {
		return ""
	}
	return t.Descriptions[lang][name]
}

package settings

import (
	"fmt"

	"github.com/benjaminschreck/go-folio/pkg/folio"
	"gopkg.in/yaml.v3"
)

// yamlFile mirrors the top level of a YAML settings file. Sections are kept
// as nodes so that key order survives decoding.
type yamlFile struct {
	Global      yaml.Node `yaml:"global"`
	Environment yaml.Node `yaml:"environment"`
	Settings    yaml.Node `yaml:"settings"`

	Posts     []string `yaml:"posts"`
	Pages     []string `yaml:"pages"`
	Copy      []string `yaml:"copy"`
	CopyFiles []string `yaml:"copy_files"`
	Tags      []string `yaml:"tags"`
}

func decodeYAML(src []byte, name string) (*document, error) {
	var raw yamlFile
	if err := yaml.Unmarshal(src, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML settings %s: %w", name, err)
	}

	doc := newDocument()
	sections := map[string]*yaml.Node{
		"global":      &raw.Global,
		"environment": &raw.Environment,
		"settings":    &raw.Settings,
	}
	for sectionName, node := range sections {
		if node.Kind == 0 {
			continue
		}
		vars, err := nodeVariables(node)
		if err != nil {
			return nil, fmt.Errorf("%s section: %w", sectionName, err)
		}
		doc.sections[sectionName] = vars
	}

	lists := map[string][]string{
		"posts":      raw.Posts,
		"pages":      raw.Pages,
		"copy":       raw.Copy,
		"copy_files": raw.CopyFiles,
		"tags":       raw.Tags,
	}
	for listName, list := range lists {
		if list != nil {
			doc.lists[listName] = list
		}
	}
	return doc, nil
}

func nodeVariables(node *yaml.Node) (*folio.Variables, error) {
	vars := folio.NewVariables()
	if node.Tag == "!!null" {
		return vars, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: %s must be a scalar value", value.Line, key.Value)
		}
		if value.Tag == "!!null" {
			vars.Set(key.Value, "")
			continue
		}
		vars.Set(key.Value, value.Value)
	}
	return vars, nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// linksDocument is the mapping form of a YAML links file.
type linksDocument struct {
	Links []string `yaml:"links"`
}

// SplitLinks splits newline separated links, dropping blank lines.
func SplitLinks(s string) []string {
	var links []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			links = append(links, line)
		}
	}
	return links
}

// ReadLinksFile reads links from path. YAML files hold either a list of links
// or a mapping with a "links" list; any other file is one link per line.
func ReadLinksFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read links file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return decodeYAMLLinks(data)
	default:
		return SplitLinks(string(data)), nil
	}
}

func decodeYAMLLinks(data []byte) ([]string, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parse links file: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	var links []string
	switch root := node.Content[0]; root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&links); err != nil {
			return nil, fmt.Errorf("parse links file: %w", err)
		}
	case yaml.MappingNode:
		var doc linksDocument
		if err := root.Decode(&doc); err != nil {
			return nil, fmt.Errorf("parse links file: %w", err)
		}
		links = doc.Links
	default:
		return nil, errors.New("parse links file: expected a list of links or a mapping with a links key")
	}

	out := links[:0]
	for _, link := range links {
		if link = strings.TrimSpace(link); link != "" {
			out = append(out, link)
		}
	}
	return out, nil
}

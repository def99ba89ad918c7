package github

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// GroupSpec is one normalized runner-group entry: the group name and its
// ordered match rules. A repository belongs to the group when it satisfies at
// least one rule. Built by the normalizer; immutable afterward.
type GroupSpec struct {
	Name  string      `json:"name"`
	Rules []MatchRule `json:"rules"`
}

// GroupsConfig is the normalized runner-group configuration, with groups in
// document order.
type GroupsConfig struct {
	Groups []GroupSpec `json:"groups"`
}

// LoadGroupsConfig parses a raw YAML document into a normalized GroupsConfig.
//
// The document is a mapping from group name to either a single glob pattern
// or a list of entries, where each entry is a glob pattern string or an
// any/all rule mapping:
//
//	ci-group:
//	  - "app-*"
//	  - "!app-legacy"
//	platform:
//	  - any: ["svc-*", "api-*"]
//	    all: ["!*-archived"]
//	everything: "*"
//
// Bare pattern strings in a list are combined into a single rule that every
// pattern must satisfy, so "app-*" plus "!app-legacy" reads as "named app-*
// and not app-legacy". Rule mappings each stand on their own, and a
// repository is selected when any rule matches.
func LoadGroupsConfig(data []byte) (*GroupsConfig, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &ConfigFormatError{Message: "not valid YAML", Cause: err}
	}
	return NormalizeGroups(&root)
}

// LoadGroupsConfigFromFile loads and normalizes a runner-group configuration file
func LoadGroupsConfigFromFile(filename string) (*GroupsConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return LoadGroupsConfig(data)
}

// NormalizeGroups turns a decoded YAML document into the uniform
// group -> ordered rules form. Key order is preserved and duplicate group
// names are rejected.
func NormalizeGroups(node *yaml.Node) (*GroupsConfig, error) {
	doc := node
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return &GroupsConfig{}, nil
		}
		doc = doc.Content[0]
	}
	if doc.Kind == yaml.AliasNode {
		doc = doc.Alias
	}
	if doc.Kind == yaml.ScalarNode && doc.Tag == "!!null" {
		return &GroupsConfig{}, nil
	}
	if doc.Kind != yaml.MappingNode {
		return nil, NewConfigFormatError("", fmt.Sprintf("top level must be a mapping of group name to patterns, got %s", nodeKindName(doc)))
	}

	config := &GroupsConfig{}
	seen := make(map[string]bool)
	for i := 0; i+1 < len(doc.Content); i += 2 {
		keyNode, valueNode := doc.Content[i], doc.Content[i+1]
		if keyNode.Kind != yaml.ScalarNode || keyNode.Tag != "!!str" || keyNode.Value == "" {
			return nil, NewConfigFormatError("", fmt.Sprintf("group names must be non-empty strings, got %s", nodeKindName(keyNode)))
		}

		name := keyNode.Value
		if seen[name] {
			return nil, NewConfigFormatError(name, "group is defined more than once")
		}
		seen[name] = true

		rules, err := normalizeGroupValue(name, valueNode)
		if err != nil {
			return nil, err
		}
		config.Groups = append(config.Groups, GroupSpec{Name: name, Rules: rules})
	}

	return config, nil
}

// normalizeGroupValue normalizes one group's value into its rule list
func normalizeGroupValue(group string, node *yaml.Node) ([]MatchRule, error) {
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}

	switch node.Kind {
	case yaml.ScalarNode:
		pattern, err := decodeScalarPattern(group, node, "value")
		if err != nil {
			return nil, err
		}
		return []MatchRule{{Any: []string{pattern}}}, nil

	case yaml.SequenceNode:
		var rules []MatchRule
		var combined []string
		for idx, entry := range node.Content {
			if entry.Kind == yaml.AliasNode {
				entry = entry.Alias
			}
			switch entry.Kind {
			case yaml.ScalarNode:
				pattern, err := decodeScalarPattern(group, entry, fmt.Sprintf("entry %d", idx+1))
				if err != nil {
					return nil, err
				}
				combined = append(combined, pattern)
			case yaml.MappingNode:
				rule, err := decodeRule(group, entry)
				if err != nil {
					return nil, err
				}
				rules = append(rules, rule)
			default:
				return nil, NewConfigFormatError(group, fmt.Sprintf("entry %d must be a glob pattern string or an any/all rule, got %s", idx+1, nodeKindName(entry)))
			}
		}
		if len(combined) > 0 {
			rules = append([]MatchRule{{All: combined}}, rules...)
		}
		return rules, nil

	default:
		return nil, NewConfigFormatError(group, fmt.Sprintf("value must be a pattern string or a list of patterns, got %s", nodeKindName(node)))
	}
}

// decodeRule decodes an explicit any/all rule mapping
func decodeRule(group string, node *yaml.Node) (MatchRule, error) {
	var rule MatchRule
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		key := keyNode.Value

		switch key {
		case "any":
			if rule.Any != nil {
				return MatchRule{}, NewConfigFormatError(group, "rule has more than one any list")
			}
			patterns, err := decodePatternList(group, key, valueNode)
			if err != nil {
				return MatchRule{}, err
			}
			rule.Any = patterns
		case "all":
			if rule.All != nil {
				return MatchRule{}, NewConfigFormatError(group, "rule has more than one all list")
			}
			patterns, err := decodePatternList(group, key, valueNode)
			if err != nil {
				return MatchRule{}, err
			}
			rule.All = patterns
		default:
			return MatchRule{}, NewConfigFormatError(group, fmt.Sprintf("unknown rule key %q, expected any or all", key))
		}
	}
	return rule, nil
}

// decodePatternList decodes the value of an any/all key
func decodePatternList(group, key string, node *yaml.Node) ([]string, error) {
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	if node.Kind != yaml.SequenceNode {
		return nil, NewConfigFormatError(group, fmt.Sprintf("%s must be a list of glob patterns, got %s", key, nodeKindName(node)))
	}

	patterns := make([]string, 0, len(node.Content))
	for idx, entry := range node.Content {
		if entry.Kind == yaml.AliasNode {
			entry = entry.Alias
		}
		pattern, err := decodeScalarPattern(group, entry, fmt.Sprintf("%s entry %d", key, idx+1))
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, pattern)
	}
	return patterns, nil
}

// decodeScalarPattern decodes one glob pattern scalar. An unquoted leading
// "!" parses as a YAML tag rather than part of the string, so that case gets
// its own message.
func decodeScalarPattern(group string, node *yaml.Node, context string) (string, error) {
	if node.Kind == yaml.ScalarNode && strings.HasPrefix(node.Tag, "!") && !strings.HasPrefix(node.Tag, "!!") {
		intended := node.Tag + node.Value
		return "", NewConfigFormatError(group, fmt.Sprintf("%s: negated pattern %q must be quoted", context, intended))
	}
	if node.Kind != yaml.ScalarNode || node.Tag != "!!str" {
		return "", NewConfigFormatError(group, fmt.Sprintf("%s must be a glob pattern string, got %s", context, nodeKindName(node)))
	}
	return node.Value, nil
}

// nodeKindName names a YAML node kind for error messages
func nodeKindName(node *yaml.Node) string {
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.Tag {
		case "!!int", "!!float":
			return "a number"
		case "!!bool":
			return "a boolean"
		case "!!null":
			return "null"
		default:
			return "a scalar"
		}
	case yaml.MappingNode:
		return "a mapping"
	case yaml.SequenceNode:
		return "a list"
	case yaml.DocumentNode:
		return "a document"
	default:
		return "an unknown value"
	}
}

// Validate checks the normalized configuration for problems that parsing
// cannot catch, currently glob syntax. It collects every finding instead of
// stopping at the first one, for the validate command.
func (c *GroupsConfig) Validate() error {
	var validationErrors ValidationErrors

	for _, group := range c.Groups {
		for i, rule := range group.Rules {
			if err := rule.ValidatePatterns(); err != nil {
				var globErr *GlobSyntaxError
				field := fmt.Sprintf("%s rule %d", group.Name, i+1)
				if errors.As(err, &globErr) {
					validationErrors.Add(field, globErr.Pattern, "invalid glob syntax")
				} else {
					validationErrors.Add(field, "", err.Error())
				}
			}
		}
	}

	if validationErrors.HasErrors() {
		return &GitHubError{
			Type:      ErrorTypeValidation,
			Message:   validationErrors.Error(),
			Cause:     validationErrors,
			Retryable: false,
		}
	}

	return nil
}

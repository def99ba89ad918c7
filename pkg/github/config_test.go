package github

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadGroupsConfig_BareString(t *testing.T) {
	cfg, err := LoadGroupsConfig([]byte(`ci-group: "app-*"`))
	require.NoError(t, err)

	require.Len(t, cfg.Groups, 1)
	assert.Equal(t, "ci-group", cfg.Groups[0].Name)
	assert.Equal(t, []MatchRule{{Any: []string{"app-*"}}}, cfg.Groups[0].Rules)
}

func TestLoadGroupsConfig_BareStringEqualsAnyRule(t *testing.T) {
	// A bare string value is sugar for a single any-rule
	sugar, err := LoadGroupsConfig([]byte(`g: "p"`))
	require.NoError(t, err)

	explicit, err := LoadGroupsConfig([]byte(`g:
  - any: ["p"]
`))
	require.NoError(t, err)

	assert.Equal(t, explicit.Groups, sugar.Groups)
}

func TestLoadGroupsConfig_PatternListFoldsIntoOneRule(t *testing.T) {
	cfg, err := LoadGroupsConfig([]byte(`ci-group:
  - "app-*"
  - "!app-legacy"
`))
	require.NoError(t, err)

	require.Len(t, cfg.Groups, 1)
	// Both patterns must hold, so they land in a single all-rule
	assert.Equal(t, []MatchRule{{All: []string{"app-*", "!app-legacy"}}}, cfg.Groups[0].Rules)
}

func TestLoadGroupsConfig_ExplicitRules(t *testing.T) {
	cfg, err := LoadGroupsConfig([]byte(`platform:
  - any: ["svc-*", "api-*"]
    all: ["!*-archived"]
  - any: ["gateway"]
`))
	require.NoError(t, err)

	require.Len(t, cfg.Groups, 1)
	assert.Equal(t, []MatchRule{
		{Any: []string{"svc-*", "api-*"}, All: []string{"!*-archived"}},
		{Any: []string{"gateway"}},
	}, cfg.Groups[0].Rules)
}

func TestLoadGroupsConfig_MixedListKeepsPatternRuleFirst(t *testing.T) {
	cfg, err := LoadGroupsConfig([]byte(`mixed:
  - "app-*"
  - any: ["lib-*"]
  - "!app-legacy"
`))
	require.NoError(t, err)

	require.Len(t, cfg.Groups, 1)
	require.Len(t, cfg.Groups[0].Rules, 2)
	assert.Equal(t, MatchRule{All: []string{"app-*", "!app-legacy"}}, cfg.Groups[0].Rules[0])
	assert.Equal(t, MatchRule{Any: []string{"lib-*"}}, cfg.Groups[0].Rules[1])
}

func TestLoadGroupsConfig_PreservesDocumentOrder(t *testing.T) {
	cfg, err := LoadGroupsConfig([]byte(`zeta: "z-*"
alpha: "a-*"
mid: "m-*"
`))
	require.NoError(t, err)

	names := make([]string, 0, len(cfg.Groups))
	for _, group := range cfg.Groups {
		names = append(names, group.Name)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, names)
}

func TestLoadGroupsConfig_EmptyDocument(t *testing.T) {
	cfg, err := LoadGroupsConfig([]byte(""))
	require.NoError(t, err)
	assert.Empty(t, cfg.Groups)
}

func TestLoadGroupsConfig_FormatErrors(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		contains string
	}{
		{
			name:     "number as group value",
			yaml:     "ci-group: 42",
			contains: "a number",
		},
		{
			name:     "boolean as group value",
			yaml:     "ci-group: true",
			contains: "a boolean",
		},
		{
			name:     "mapping as group value",
			yaml:     "ci-group:\n  any: [\"app-*\"]",
			contains: "a mapping",
		},
		{
			name:     "top level list",
			yaml:     "- ci-group",
			contains: "top level must be a mapping",
		},
		{
			name:     "number inside pattern list",
			yaml:     "ci-group:\n  - 42",
			contains: "entry 1",
		},
		{
			name:     "nested list entry",
			yaml:     "ci-group:\n  - [\"app-*\"]",
			contains: "entry 1",
		},
		{
			name:     "unknown rule key",
			yaml:     "ci-group:\n  - some: [\"app-*\"]",
			contains: "unknown rule key",
		},
		{
			name:     "any is not a list",
			yaml:     "ci-group:\n  - any: \"app-*\"",
			contains: "any must be a list",
		},
		{
			name:     "number inside any list",
			yaml:     "ci-group:\n  - any: [42]",
			contains: "any entry 1",
		},
		{
			name:     "duplicate group names",
			yaml:     "ci-group: \"a-*\"\nci-group: \"b-*\"",
			contains: "more than once",
		},
		{
			name:     "unquoted negation parses as a tag",
			yaml:     "ci-group:\n  - !app-legacy",
			contains: "must be quoted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadGroupsConfig([]byte(tt.yaml))
			require.Error(t, err)

			var formatErr *ConfigFormatError
			require.True(t, errors.As(err, &formatErr), "expected ConfigFormatError, got %T", err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestLoadGroupsConfig_InvalidYAML(t *testing.T) {
	_, err := LoadGroupsConfig([]byte("ci-group: [unclosed"))
	require.Error(t, err)

	var formatErr *ConfigFormatError
	assert.True(t, errors.As(err, &formatErr))
}

func TestLoadGroupsConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "groups.yaml")
	content := "ci-group:\n  - \"app-*\"\n  - \"!app-legacy\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadGroupsConfigFromFile(path)
	require.NoError(t, err)
	require.Len(t, cfg.Groups, 1)
	assert.Equal(t, "ci-group", cfg.Groups[0].Name)
}

func TestLoadGroupsConfigFromFile_Missing(t *testing.T) {
	_, err := LoadGroupsConfigFromFile("/nonexistent/groups.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestGroupsConfig_Validate(t *testing.T) {
	valid := &GroupsConfig{Groups: []GroupSpec{
		{Name: "ci-group", Rules: []MatchRule{{Any: []string{"app-*"}}}},
	}}
	assert.NoError(t, valid.Validate())

	invalid := &GroupsConfig{Groups: []GroupSpec{
		{Name: "ci-group", Rules: []MatchRule{{Any: []string{"app-["}}}},
		{Name: "other", Rules: []MatchRule{{All: []string{"lib-["}}}},
	}}
	err := invalid.Validate()
	require.Error(t, err)

	// Both findings are collected into one validation error
	var ghErr *GitHubError
	require.True(t, errors.As(err, &ghErr))
	assert.Equal(t, ErrorTypeValidation, ghErr.Type)
	assert.Contains(t, ghErr.Message, "ci-group rule 1")
	assert.Contains(t, ghErr.Message, "other rule 1")
}

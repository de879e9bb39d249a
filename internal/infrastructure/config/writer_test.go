package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteConfigOrdered(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, configFileName)

	require.NoError(t, WriteConfigOrdered(DefaultConfig(), path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "#:schema ./config.schema.json"))

	var sections []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			sections = append(sections, line)
		}
	}
	assert.Equal(t, []string{"[database]", "[highlight]", "[highlight.colors]", "[logging]", "[metrics]"}, sections)
	assert.FileExists(t, filepath.Join(dir, schemaFileName))
}

func TestSortTOMLSections(t *testing.T) {
	input := `top = 1

[zeta]
a = 1

[alpha]
b = 2
  [alpha.inner]
  c = 3
`
	expected := `top = 1

[alpha]
b = 2
  [alpha.inner]
  c = 3

[zeta]
a = 1
`
	assert.Equal(t, expected, sortTOMLSections(input))
}

func TestSchema(t *testing.T) {
	data, err := Schema()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "linkmark configuration", doc["title"])

	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "highlight")
	assert.Contains(t, props, "logging")
}

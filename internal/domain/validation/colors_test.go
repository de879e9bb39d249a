package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsHexColor(t *testing.T) {
	for _, ok := range []string{"#4CAF50", "#fff", "#abcdef"} {
		assert.True(t, IsHexColor(ok), ok)
	}
	for _, bad := range []string{"", "4CAF50", "#4CAF5", "#GGGGGG", "red", "#4CAF5000"} {
		assert.False(t, IsHexColor(bad), bad)
	}
}

func TestIsURLScheme(t *testing.T) {
	for _, ok := range []string{"http", "https", "file", "chrome-extension", "svn+ssh"} {
		assert.True(t, IsURLScheme(ok), ok)
	}
	for _, bad := range []string{"", "HTTP", "http:", "1ftp", "we b"} {
		assert.False(t, IsURLScheme(bad), bad)
	}
}

func TestValidateCategoryColors(t *testing.T) {
	errs := ValidateCategoryColors("highlight.colors",
		[]string{"today", "week", "never"},
		map[string]string{"today": "#4CAF50", "week": "orange"})

	assert.Equal(t, []string{
		`highlight.colors.week must be a hex color like #4CAF50, got "orange"`,
		`highlight.colors.never must be a hex color like #4CAF50, got ""`,
	}, errs)
}

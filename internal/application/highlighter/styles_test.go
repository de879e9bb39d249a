package highlighter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/linkmark/internal/domain/entity"
)

func TestMarkerClasses(t *testing.T) {
	assert.Equal(t, []string{
		"link-highlighter-today",
		"link-highlighter-week",
		"link-highlighter-month",
		"link-highlighter-older",
		"link-highlighter-never",
		"link-highlighter-highlighted",
	}, MarkerClasses())

	assert.True(t, IsMarkerClass("link-highlighter-today"))
	assert.False(t, IsMarkerClass("nav"))
}

func TestStylesheet(t *testing.T) {
	css := Stylesheet(entity.DefaultHighlightConfig().Colors)

	assert.Contains(t, css, ".link-highlighter-today {\n  border-left: 3px solid #4CAF50 !important;")
	assert.Contains(t, css, "background-color: rgba(76, 175, 80, 0.05) !important;")
	assert.Contains(t, css, ".link-highlighter-never {\n  border-left: 3px solid #9E9E9E !important;")
	assert.Contains(t, css, "opacity: 0.8 !important;")
	assert.Contains(t, css, ".link-highlighter-highlighted:hover")
	assert.Contains(t, css, ".link-highlighter-highlighted:focus")
}

func TestHexToRGBA(t *testing.T) {
	assert.Equal(t, "rgba(255, 165, 0, 0.05)", hexToRGBA("#FFA500", 0.05))
	assert.Equal(t, "rgba(255, 0, 170, 0.5)", hexToRGBA("#f0a", 0.5))
	assert.Equal(t, "transparent", hexToRGBA("red", 0.05))
	assert.Equal(t, "transparent", hexToRGBA("#zzzzzz", 0.05))
}

package highlighter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bnema/linkmark/internal/domain/entity"
)

const (
	// ClassPrefix starts every class this package puts on a link.
	ClassPrefix = "link-highlighter-"
	// HighlightedClass marks every link this package has classified.
	HighlightedClass = ClassPrefix + "highlighted"
	// StyleElementID is the id of the injected <style> element.
	StyleElementID = ClassPrefix + "styles"

	tintAlpha = 0.05
)

// MarkerClass returns the class for a category.
func MarkerClass(c entity.Category) string {
	return ClassPrefix + string(c)
}

// MarkerClasses lists every class owned by the highlighter.
func MarkerClasses() []string {
	cats := entity.Categories()
	out := make([]string, 0, len(cats)+1)
	for _, c := range cats {
		out = append(out, MarkerClass(c))
	}
	return append(out, HighlightedClass)
}

// IsMarkerClass reports whether class belongs to the highlighter.
func IsMarkerClass(class string) bool {
	return strings.HasPrefix(class, ClassPrefix)
}

// Stylesheet renders the CSS for the category markers.
func Stylesheet(colors entity.CategoryColors) string {
	var b strings.Builder
	for _, c := range []entity.Category{entity.CategoryToday, entity.CategoryWeek, entity.CategoryMonth, entity.CategoryOlder} {
		color := colors.For(c)
		fmt.Fprintf(&b, ".%s {\n  border-left: 3px solid %s !important;\n  padding-left: 5px !important;\n  background-color: %s !important;\n}\n",
			MarkerClass(c), color, hexToRGBA(color, tintAlpha))
	}
	fmt.Fprintf(&b, ".%s {\n  border-left: 3px solid %s !important;\n  padding-left: 5px !important;\n  opacity: 0.8 !important;\n}\n",
		MarkerClass(entity.CategoryNever), colors.Never)
	fmt.Fprintf(&b, ".%s {\n  transition: all 0.3s ease !important;\n}\n", HighlightedClass)
	fmt.Fprintf(&b, ".%s:hover {\n  background-color: rgba(0, 0, 0, 0.1) !important;\n  transform: translateX(2px) !important;\n}\n", HighlightedClass)
	fmt.Fprintf(&b, ".%s:focus {\n  outline: 2px solid #2196F3 !important;\n  outline-offset: 2px !important;\n}\n", HighlightedClass)
	return b.String()
}

// hexToRGBA converts #rrggbb or #rgb to an rgba() value.
func hexToRGBA(hex string, alpha float64) string {
	h := strings.TrimPrefix(hex, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return "transparent"
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return "transparent"
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", v>>16&0xff, v>>8&0xff, v&0xff,
		strconv.FormatFloat(alpha, 'f', -1, 64))
}

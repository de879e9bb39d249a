// Package validation holds value checks shared by configuration and the
// control surface.
package validation

import "regexp"

var (
	hexColorRE = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	schemeRE   = regexp.MustCompile(`^[a-z][a-z0-9+.-]*$`)
)

// IsHexColor accepts #RGB and #RRGGBB.
func IsHexColor(value string) bool {
	return hexColorRE.MatchString(value)
}

// IsURLScheme accepts a lowercase scheme without the trailing colon.
func IsURLScheme(value string) bool {
	return schemeRE.MatchString(value)
}

// ValidateCategoryColors checks each named color, in the given order, and
// returns one message per invalid entry.
func ValidateCategoryColors(prefix string, names []string, colors map[string]string) []string {
	var errs []string
	for _, name := range names {
		value := colors[name]
		if !IsHexColor(value) {
			errs = append(errs, prefix+"."+name+" must be a hex color like #4CAF50, got \""+value+"\"")
		}
	}
	return errs
}

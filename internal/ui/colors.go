package ui

// Accessors for the active theme's escape codes.

func ColorPrimary() string   { return GetCurrentTheme().Primary }
func ColorSecondary() string { return GetCurrentTheme().Secondary }
func ColorSuccess() string   { return GetCurrentTheme().Success }
func ColorWarning() string   { return GetCurrentTheme().Warning }
func ColorError() string     { return GetCurrentTheme().Error }
func ColorBold() string      { return GetCurrentTheme().Bold }
func ColorReset() string     { return GetCurrentTheme().Reset }

// Paint wraps s in color and a reset. With the no-color theme s is returned
// unchanged.
func Paint(color, s string) string {
	if color == "" {
		return s
	}
	return color + s + ColorReset()
}

package activity

import "strings"

const titleSeparator = " - "

// DeriveAppName extracts the application from a "<title> - <application>" window
// title: the second " - " segment, or the whole title when that segment is absent or empty.
func DeriveAppName(window string) string {
	parts := strings.Split(window, titleSeparator)
	if len(parts) > 1 && parts[1] != "" {
		return parts[1]
	}
	return window
}

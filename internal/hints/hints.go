// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"
)

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-staticpub/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Find a user config path (contains .config/go-staticpub) to suggest
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-staticpub") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForEntriesDirectory returns hints for missing or unreadable entries
// directories.
func ForEntriesDirectory(dir string) string {
	return format("create " + dir + " and add at least one note file")
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForMalformedHeader returns hints for notes whose header block cannot
// be delimited.
func ForMalformedHeader() string {
	return format("a note needs exactly two lines starting with \"---\" around its headers")
}

// ForMalformedHeaderLine returns hints for header lines that cannot be
// split into a key and a value.
func ForMalformedHeaderLine() string {
	return format("header lines use \"key: value\" with a space after the colon")
}

// ForBadTimestamp returns hints for unparseable published headers.
func ForBadTimestamp() string {
	return format("published must look like 2023-02-11T08:12:00Z")
}

// ForMediaFile returns hints for banner or icon files that cannot be read.
func ForMediaFile() string {
	return format("supported formats: PNG, JPG; use a path relative to the working directory")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

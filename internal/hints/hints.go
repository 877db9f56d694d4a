// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-doconv/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser launch errors.
// Detects CI/Docker environment and suggests the relevant config keys.
func ForBrowserConnect(noSandbox, customBin bool) string {
	var hints []string

	// Detect CI environment
	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && !noSandbox {
		hints = append(hints, "set plugins.chrome.noSandbox: true for Docker/CI")
	}

	if !customBin {
		hints = append(hints, "set plugins.chrome.bin to use a custom Chrome")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow renders.
func ForTimeout() string {
	return format("for large documents, raise plugins.chrome.timeout in the config file")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/doconv/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Find a user config path (contains .config/doconv) to suggest
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/doconv") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output write errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForUnsupportedFormat lists the formats the loaded plugins know.
func ForUnsupportedFormat(known []string) string {
	if len(known) == 0 {
		return format("no plugins are loaded; check --disable and the config file")
	}
	return format("supported formats: " + strings.Join(known, ", "))
}

// ForNoPath lists the formats reachable from the input format.
func ForNoPath(from string, reachable []string) string {
	if len(reachable) == 0 {
		return format("no conversion starts from " + from + "; run --list to see supported conversions")
	}
	return format(from + " converts to: " + strings.Join(reachable, ", "))
}

// ForDependency suggests installing the missing tool or disabling its plugin.
func ForDependency() string {
	return format("install the missing tool, or skip its plugin with --disable <name>")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}

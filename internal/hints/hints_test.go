package hints

// Notes:
// - ForBrowserConnect tests cannot use t.Parallel() because they:
//   1. Use t.Setenv() which modifies process environment
//   2. Modify the package-level IsInContainer variable
// These are acceptable gaps: we test observable behavior through environment manipulation.

import (
	"strings"
	"testing"
)

func clearCI(t *testing.T) {
	t.Helper()
	for _, k := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL"} {
		t.Setenv(k, "")
	}
}

func TestForBrowserConnect_InCI(t *testing.T) {
	// Save and restore IsInContainer (not parallel-safe, see package notes)
	orig := IsInContainer
	defer func() { IsInContainer = orig }()
	IsInContainer = func() bool { return false }

	clearCI(t)
	t.Setenv("CI", "true")

	hint := ForBrowserConnect(false, false)

	if !strings.Contains(hint, "hint:") {
		t.Error("expected hint prefix")
	}
	if !strings.Contains(hint, "noSandbox") {
		t.Error("expected noSandbox suggestion in CI")
	}
	if !strings.Contains(hint, "plugins.chrome.bin") {
		t.Error("expected chrome bin suggestion")
	}
}

func TestForBrowserConnect_InDocker(t *testing.T) {
	orig := IsInContainer
	defer func() { IsInContainer = orig }()
	IsInContainer = func() bool { return true }

	clearCI(t)

	if hint := ForBrowserConnect(false, true); !strings.Contains(hint, "noSandbox") {
		t.Errorf("expected noSandbox suggestion in Docker, got %q", hint)
	}
}

func TestForBrowserConnect_SandboxAlreadyDisabled(t *testing.T) {
	orig := IsInContainer
	defer func() { IsInContainer = orig }()
	IsInContainer = func() bool { return true }

	clearCI(t)

	if hint := ForBrowserConnect(true, false); strings.Contains(hint, "noSandbox") {
		t.Error("should not suggest noSandbox when already set")
	}
}

func TestForBrowserConnect_AllConfigured(t *testing.T) {
	orig := IsInContainer
	defer func() { IsInContainer = orig }()
	IsInContainer = func() bool { return true }

	clearCI(t)
	t.Setenv("CI", "true")

	if hint := ForBrowserConnect(true, true); hint != "" {
		t.Errorf("expected empty hint when all configured, got %q", hint)
	}
}

func TestForConfigNotFound(t *testing.T) {
	tests := []struct {
		name     string
		paths    []string
		contains string
	}{
		{
			name:     "empty paths",
			paths:    []string{},
			contains: "--config",
		},
		{
			name:     "with paths",
			paths:    []string{"./foo.yaml", "/home/me/.config/doconv/foo.yaml"},
			contains: "create /home/me/.config/doconv/foo.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hint := ForConfigNotFound(tt.paths)

			if !strings.Contains(hint, "hint:") {
				t.Error("expected hint prefix")
			}
			if !strings.Contains(hint, tt.contains) {
				t.Errorf("expected hint to contain %q, got %q", tt.contains, hint)
			}
		})
	}
}

func TestForUnsupportedFormat(t *testing.T) {
	tests := []struct {
		name     string
		known    []string
		contains string
	}{
		{name: "no plugins", known: nil, contains: "no plugins are loaded"},
		{name: "with formats", known: []string{"html", "md", "pdf"}, contains: "supported formats: html, md, pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if hint := ForUnsupportedFormat(tt.known); !strings.Contains(hint, tt.contains) {
				t.Errorf("expected hint to contain %q, got %q", tt.contains, hint)
			}
		})
	}
}

func TestForNoPath(t *testing.T) {
	tests := []struct {
		name      string
		from      string
		reachable []string
		contains  string
	}{
		{name: "dead end", from: "pdf", reachable: nil, contains: "--list"},
		{name: "reachable formats", from: "md", reachable: []string{"html", "pdf"}, contains: "md converts to: html, pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if hint := ForNoPath(tt.from, tt.reachable); !strings.Contains(hint, tt.contains) {
				t.Errorf("expected hint to contain %q, got %q", tt.contains, hint)
			}
		})
	}
}

func TestFormat_Consistency(t *testing.T) {
	// All hints should start with newline, spaces, and "hint:"
	hints := []string{
		ForTimeout(),
		ForOutputDirectory(),
		ForDependency(),
		ForUnsupportedFormat(nil),
		ForNoPath("md", []string{"html"}),
	}

	for _, h := range hints {
		if !strings.HasPrefix(h, "\n  hint: ") {
			t.Errorf("hint format inconsistent: %q", h)
		}
	}
}

func TestFormat_Empty(t *testing.T) {
	if got := format(""); got != "" {
		t.Errorf("format(\"\") = %q, want empty", got)
	}
	if got := formatHints(nil); got != "" {
		t.Errorf("formatHints(nil) = %q, want empty", got)
	}
}

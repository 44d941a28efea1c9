// Package testutil holds helpers shared by browser-backed tests.
package testutil

import (
	"os/exec"
	"testing"
)

// ChromeBinaries are the executable names looked up on PATH, in the order
// chromedp's default allocator tries them.
var ChromeBinaries = []string{
	"headless_shell",
	"headless-shell",
	"chromium",
	"chromium-browser",
	"google-chrome",
	"google-chrome-stable",
	"google-chrome-beta",
	"google-chrome-unstable",
	"chrome",
}

// FindChrome returns the first of ChromeBinaries present, or "".
func FindChrome() string {
	for _, name := range ChromeBinaries {
		if _, err := exec.LookPath(name); err == nil {
			return name
		}
	}
	return ""
}

// RequireChrome skips the test in short mode or when no Chrome binary exists.
func RequireChrome(t testing.TB) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	if FindChrome() == "" {
		t.Skip("no Chrome binary found")
	}
}

package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	defer func(c, b string) { Commit, BuildTime = c, b }(Commit, BuildTime)
	Commit = "0123456789abcdef"
	BuildTime = "2026-01-02T03:04:05Z"

	got := String()
	if !strings.Contains(got, "commit: 0123456") || !strings.Contains(got, "2026-01-02T03:04:05Z") {
		t.Errorf("unexpected version string %q", got)
	}
	if UserAgent() != "certbatch/0123456" {
		t.Errorf("unexpected user agent %q", UserAgent())
	}
}

package hints

// Notes:
// - ForBrowserConnect tests cannot use t.Parallel() because they modify the
//   package-level IsInContainer variable.

import (
	"strings"
	"testing"
)

func TestForBrowserConnect_NoBinary(t *testing.T) {
	orig := IsInContainer
	defer func() { IsInContainer = orig }()
	IsInContainer = func() bool { return false }

	hint := ForBrowserConnect("")

	if !strings.HasPrefix(hint, "\n  hint: ") {
		t.Errorf("expected hint prefix, got %q", hint)
	}
	if !strings.Contains(hint, "--browser-bin") {
		t.Error("expected --browser-bin suggestion")
	}
	if strings.Contains(hint, "container") {
		t.Error("container hint must not appear outside containers")
	}
}

func TestForBrowserConnect_WithBinary(t *testing.T) {
	orig := IsInContainer
	defer func() { IsInContainer = orig }()
	IsInContainer = func() bool { return false }

	hint := ForBrowserConnect("/usr/bin/chromium")

	if !strings.Contains(hint, "/usr/bin/chromium") {
		t.Errorf("expected binary path in hint, got %q", hint)
	}
}

func TestForBrowserConnect_InContainer(t *testing.T) {
	orig := IsInContainer
	defer func() { IsInContainer = orig }()
	IsInContainer = func() bool { return true }

	hint := ForBrowserConnect("")

	if !strings.Contains(hint, "container image") {
		t.Errorf("expected container hint, got %q", hint)
	}
	if strings.Count(hint, "hint:") != 1 {
		t.Errorf("hints must be joined on one line, got %q", hint)
	}
}

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	hint := ForConfigNotFound([]string{"cfg.yaml", "/home/u/.config/go-mdmermaid/cfg.yaml"})
	if !strings.Contains(hint, "or create /home/u/.config/go-mdmermaid/cfg.yaml") {
		t.Errorf("unexpected hint %q", hint)
	}

	if hint := ForConfigNotFound(nil); !strings.Contains(hint, "--config") {
		t.Errorf("unexpected hint %q", hint)
	}
}

func TestForStyleNotFound(t *testing.T) {
	t.Parallel()

	if got := ForStyleNotFound(nil); got != "" {
		t.Errorf("expected empty hint, got %q", got)
	}
	if got := ForStyleNotFound([]string{"default", "minimal"}); !strings.Contains(got, "default, minimal") {
		t.Errorf("unexpected hint %q", got)
	}
}

func TestStaticHints(t *testing.T) {
	t.Parallel()

	for name, got := range map[string]string{
		"timeout":   ForTimeout(),
		"engine":    ForEngineScript(),
		"outputDir": ForOutputDirectory(),
	} {
		if !strings.HasPrefix(got, "\n  hint: ") {
			t.Errorf("%s hint malformed: %q", name, got)
		}
	}
}

package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/daygrid/daygrid/pkg/pipeline"
)

func newTestCLI() *CLI {
	return New(os.Stderr, log.ErrorLevel)
}

func TestRootCommandSubcommands(t *testing.T) {
	root := newTestCLI().RootCommand()

	want := []string{"fetch", "layout", "render", "serve", "view", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"svg"}},
		{"svg", []string{"svg"}},
		{"svg,png", []string{"svg", "png"}},
		{"html,json,svg", []string{"html", "json", "svg"}},
	}

	for _, tt := range tests {
		got := parseFormats(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
			}
		}
	}
}

func TestCacheDirRespectsXDG(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", tmp)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != filepath.Join(tmp, appName) {
		t.Errorf("cacheDir() = %q, want %q", dir, filepath.Join(tmp, appName))
	}
}

func TestSourceFlagsRequireOne(t *testing.T) {
	c := newTestCLI()
	runner, err := c.newRunner(true)
	if err != nil {
		t.Fatalf("newRunner() error: %v", err)
	}

	var f sourceFlags
	if _, err := f.resolve(c, runner); err == nil {
		t.Error("resolve() with no flags should fail")
	}

	f = sourceFlags{feed: "https://example.com/cal.ics", schedule: "events.json"}
	if _, err := f.resolve(c, runner); err == nil {
		t.Error("resolve() with conflicting flags should fail")
	}
}

func TestSourceFlagsResolve(t *testing.T) {
	c := newTestCLI()
	runner, err := c.newRunner(true)
	if err != nil {
		t.Fatalf("newRunner() error: %v", err)
	}

	tests := []struct {
		name  string
		flags sourceFlags
	}{
		{"feed", sourceFlags{feed: "https://example.com/cal.ics"}},
		{"schedule", sourceFlags{schedule: "events.json"}},
		{"manifest", sourceFlags{manifest: "team.toml"}},
	}

	for _, tt := range tests {
		src, err := tt.flags.resolve(c, runner)
		if err != nil {
			t.Errorf("%s: resolve() error: %v", tt.name, err)
			continue
		}
		if src.Key() == "" {
			t.Errorf("%s: source key should not be empty", tt.name)
		}
	}
}

func TestFeedIDDeterministic(t *testing.T) {
	a := feedID("https://example.com/cal.ics")
	b := feedID("https://example.com/cal.ics")
	other := feedID("https://example.com/other.ics")

	if a != b {
		t.Errorf("feedID should be deterministic: %q != %q", a, b)
	}
	if a == other {
		t.Error("different URLs should produce different feed IDs")
	}
}

func TestColumnLabels(t *testing.T) {
	labels := columnLabels([][]string{
		{"solo"},
		{"a", "b", "c"},
	})

	if _, ok := labels["solo"]; ok {
		t.Error("single-event groups should not get column labels")
	}
	if labels["a"] != "1/3" || labels["b"] != "2/3" || labels["c"] != "3/3" {
		t.Errorf("unexpected labels: %v", labels)
	}
}

func TestNeedsCapturer(t *testing.T) {
	if needsCapturer([]string{pipeline.FormatSVG, pipeline.FormatHTML}) {
		t.Error("svg/html should not need a capturer")
	}
	if !needsCapturer([]string{pipeline.FormatSVG, pipeline.FormatPNG}) {
		t.Error("png should need a capturer")
	}
}

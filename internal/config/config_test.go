package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"
)

func TestLoadEmbeddedDefault(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, source, err := LoadWithSource("")
	if err != nil {
		t.Fatalf("LoadWithSource() failed: %v", err)
	}
	if source != "embedded" {
		t.Errorf("Expected embedded source, got %q", source)
	}
	if cfg != Default() {
		t.Errorf("Embedded config differs from Default(): %+v", cfg)
	}
}

func TestLoadUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".motion")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	data := "preview:\n  fps: 30\nengine:\n  strict_timing: true\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, source, err := LoadWithSource("")
	if err != nil {
		t.Fatalf("LoadWithSource() failed: %v", err)
	}
	if source != filepath.Join(dir, "config.yaml") {
		t.Errorf("Unexpected source %q", source)
	}
	if cfg.Preview.FPS != 30 {
		t.Errorf("Expected fps 30, got %d", cfg.Preview.FPS)
	}
	if !cfg.Engine.StrictTiming {
		t.Error("Expected strict timing")
	}
	// Unset keys keep their defaults.
	if cfg.Server.Scene != "showcase" {
		t.Errorf("Expected default scene, got %q", cfg.Server.Scene)
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("preview:\n  fps: -5\nlog:\n  level: debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Preview.FPS != 60 {
		t.Errorf("Invalid fps should normalize to 60, got %d", cfg.Preview.FPS)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected debug level, got %q", cfg.Log.Level)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Expected error for missing custom config")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("preview: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(bad)
	if err == nil || !strings.Contains(err.Error(), "failed to parse config") {
		t.Errorf("Expected parse error, got %v", err)
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if got := ExpandHome("~/x/y.db"); got != filepath.Join(home, "x", "y.db") {
		t.Errorf("ExpandHome() = %q", got)
	}
	if got := ExpandHome("/abs/y.db"); got != "/abs/y.db" {
		t.Errorf("ExpandHome() changed an absolute path: %q", got)
	}
	if got := ExpandHome("~user/y.db"); got != "~user/y.db" {
		t.Errorf("ExpandHome() expanded another user's home: %q", got)
	}
}

func TestBuiltinScenesParse(t *testing.T) {
	names := BuiltinScenes()
	want := []string{"control", "easings", "fills", "iterations", "showcase"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("BuiltinScenes() = %v, want %v", names, want)
	}

	for _, name := range names {
		data, ok := builtinScene(name)
		if !ok {
			t.Fatalf("builtin scene %q missing", name)
		}
		s, err := ParseScene(data)
		if err != nil {
			t.Errorf("scene %q: %v", name, err)
			continue
		}
		if s.Name != name {
			t.Errorf("scene %q declares name %q", name, s.Name)
		}
	}
}

func TestParseScene(t *testing.T) {
	data := `
name: demo
duration_limit: 2000
animations:
  - id: a
    target: bar
    timing: 500
  - id: b
    target: slide
    start_at: 100
    playback_rate: 2
    timing: {duration: 1000, iterations: infinite}
    actions:
      - {at: 300, op: seek, value: 50}
`
	s, err := ParseScene([]byte(data))
	if err != nil {
		t.Fatalf("ParseScene() failed: %v", err)
	}
	if len(s.Animations) != 2 {
		t.Fatalf("Expected 2 animations, got %d", len(s.Animations))
	}
	if s.Animations[0].Timing != 500 {
		t.Errorf("Expected numeric timing, got %#v", s.Animations[0].Timing)
	}
	b := s.Animations[1]
	if b.StartAt != 100 || b.PlaybackRate != 2 {
		t.Errorf("Unexpected start/rate: %+v", b)
	}
	m, ok := b.Timing.(map[string]any)
	if !ok || m["iterations"] != "infinite" {
		t.Errorf("Expected timing map, got %#v", b.Timing)
	}
	if len(b.Actions) != 1 || b.Actions[0].Op != OpSeek || b.Actions[0].Value != 50 {
		t.Errorf("Unexpected actions: %+v", b.Actions)
	}
}

func TestSceneValidate(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"empty", "name: x\n", "no animations"},
		{"no id", "animations:\n  - target: bar\n", "has no id"},
		{"duplicate", "animations:\n  - {id: a, target: bar}\n  - {id: a, target: bar}\n", "duplicate"},
		{"no target", "animations:\n  - {id: a}\n", "has no target"},
		{"bad op", "animations:\n  - {id: a, target: bar, actions: [{at: 1, op: jump}]}\n", "unknown op"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScene([]byte(tt.doc))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("ParseScene() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestLoadSceneSearchOrder(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".motion", "scenes")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	doc := "animations:\n  - {id: only, target: pulse, timing: 100}\n"
	if err := os.WriteFile(filepath.Join(dir, "mine.yaml"), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	s, path, err := LoadScene("mine")
	if err != nil {
		t.Fatalf("LoadScene() failed: %v", err)
	}
	if path != filepath.Join(dir, "mine.yaml") {
		t.Errorf("Unexpected path %q", path)
	}
	if s.Name != "mine" {
		t.Errorf("Expected name from file, got %q", s.Name)
	}

	s, path, err = LoadScene(filepath.Join(dir, "mine.yaml"))
	if err != nil || path == "" || s.Animations[0].ID != "only" {
		t.Errorf("LoadScene() by path = %v, %q, %v", s, path, err)
	}

	if _, _, err := LoadScene("fills"); err != nil {
		t.Errorf("built-in scene failed: %v", err)
	}

	_, _, err = LoadScene("does-not-exist")
	if !errors.Is(err, ErrSceneNotFound) {
		t.Errorf("Expected ErrSceneNotFound, got %v", err)
	}
}

func TestSceneNames(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".motion", "scenes")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"mine.yaml", "fills.yaml", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("animations: []\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	names := SceneNames()
	count := make(map[string]int)
	for _, n := range names {
		count[n]++
	}
	if count["mine"] != 1 {
		t.Errorf("Expected user scene in %v", names)
	}
	if count["fills"] != 1 || count["showcase"] != 1 {
		t.Errorf("Expected built-in scenes once in %v", names)
	}
	if count["notes"] != 0 {
		t.Errorf("Non-YAML file listed in %v", names)
	}
	if !sort.StringsAreSorted(names) {
		t.Errorf("SceneNames() not sorted: %v", names)
	}
}

func TestWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, []byte("a: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	changed, err := Watch(ctx, path)
	if err != nil {
		t.Fatalf("Watch() failed: %v", err)
	}

	// Other files in the directory are ignored.
	if err := os.WriteFile(filepath.Join(filepath.Dir(path), "other.yaml"), []byte("b: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("a: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-changed:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel not closed after cancel")
		}
	}
}

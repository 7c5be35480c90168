package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrSceneNotFound is returned by LoadScene when no file or built-in scene
// matches.
var ErrSceneNotFound = errors.New("scene not found")

// Scene is a scripted set of animations.
type Scene struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	// DurationLimit is the timeline time in ms after which a headless run
	// stops. Zero lets the scene run until nothing is ticking.
	DurationLimit float64         `yaml:"duration_limit"`
	Animations    []AnimationSpec `yaml:"animations"`
}

// AnimationSpec describes one animation of a scene.
type AnimationSpec struct {
	ID     string `yaml:"id"`
	Target string `yaml:"target"` // registered target name
	Label  string `yaml:"label"`
	// Timing is a raw timing input: a duration in ms or a map of fields.
	Timing       any      `yaml:"timing"`
	PlaybackRate float64  `yaml:"playback_rate"` // 0 = 1
	StartAt      float64  `yaml:"start_at"`      // timeline time of the initial play
	Actions      []Action `yaml:"actions"`
}

// Op is a scripted playback operation.
type Op string

const (
	OpPlay    Op = "play"
	OpPause   Op = "pause"
	OpReverse Op = "reverse"
	OpFinish  Op = "finish"
	OpCancel  Op = "cancel"
	OpSeek    Op = "seek"
	OpRate    Op = "rate"
	OpRemove  Op = "remove"
)

var knownOps = map[Op]bool{
	OpPlay: true, OpPause: true, OpReverse: true, OpFinish: true,
	OpCancel: true, OpSeek: true, OpRate: true, OpRemove: true,
}

// Action runs Op on its animation once the timeline reaches At.
type Action struct {
	At    float64 `yaml:"at"`
	Op    Op      `yaml:"op"`
	Value float64 `yaml:"value"` // seek target or playback rate
}

// ParseScene decodes and validates a scene document.
func ParseScene(data []byte) (Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Scene{}, fmt.Errorf("config: cannot parse scene: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Scene{}, err
	}
	return s, nil
}

// Validate checks ids, targets and ops.
func (s Scene) Validate() error {
	if len(s.Animations) == 0 {
		return fmt.Errorf("config: scene %q has no animations", s.Name)
	}
	seen := make(map[string]bool, len(s.Animations))
	for i, a := range s.Animations {
		if a.ID == "" {
			return fmt.Errorf("config: scene %q: animation %d has no id", s.Name, i)
		}
		if seen[a.ID] {
			return fmt.Errorf("config: scene %q: duplicate animation id %q", s.Name, a.ID)
		}
		seen[a.ID] = true
		if a.Target == "" {
			return fmt.Errorf("config: scene %q: animation %q has no target", s.Name, a.ID)
		}
		for _, act := range a.Actions {
			if !knownOps[act.Op] {
				return fmt.Errorf("config: scene %q: animation %q: unknown op %q", s.Name, a.ID, act.Op)
			}
		}
	}
	return nil
}

// LoadScene loads a scene by file path or name.
// Search order: ref as a path -> ~/.motion/scenes/<ref>.yaml -> ./scenes/<ref>.yaml -> built-in scene
// The returned path is empty for built-in scenes.
func LoadScene(ref string) (Scene, string, error) {
	candidates := []string{ExpandHome(ref)}
	if !strings.HasSuffix(ref, ".yaml") && !strings.HasSuffix(ref, ".yml") {
		if p := userPath("scenes", ref+".yaml"); p != "" {
			candidates = append(candidates, p)
		}
		candidates = append(candidates, filepath.Join("scenes", ref+".yaml"))
	}

	for _, path := range candidates {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return Scene{}, "", fmt.Errorf("config: cannot read scene %s: %w", path, err)
		}
		s, err := ParseScene(data)
		if err != nil {
			return Scene{}, "", fmt.Errorf("%s: %w", path, err)
		}
		if s.Name == "" {
			s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		return s, path, nil
	}

	if data, ok := builtinScene(ref); ok {
		s, err := ParseScene(data)
		if err != nil {
			return Scene{}, "", err
		}
		return s, "", nil
	}
	return Scene{}, "", fmt.Errorf("config: %w: %s", ErrSceneNotFound, ref)
}

// SceneNames lists every scene LoadScene can find by name: user scenes,
// scenes in ./scenes and the built-in ones, sorted and without duplicates.
func SceneNames() []string {
	seen := make(map[string]bool)
	for _, name := range BuiltinScenes() {
		seen[name] = true
	}
	dirs := []string{"scenes"}
	if p := userPath("scenes"); p != "" {
		dirs = append(dirs, p)
	}
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
				continue
			}
			seen[strings.TrimSuffix(e.Name(), ".yaml")] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

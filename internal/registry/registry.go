// Package registry provides a global registry for animation target factories.
// Targets register themselves in init() functions, allowing scenes to name
// a target kind without hardcoded dependencies.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/motion/internal/animation"
	"github.com/vovakirdan/motion/internal/render"
)

// ErrUnknownTarget is returned by Create for an unregistered kind.
var ErrUnknownTarget = errors.New("unknown target")

// Target is an animation target that can draw itself.
// Targets hold no timing logic: the timeline applies eased progress and
// the platform decides when to draw.
type Target interface {
	animation.Target

	// Kind returns the registered name (e.g., "bar", "pulse").
	Kind() string

	// Title returns a human-readable description for listings.
	Title() string

	// Progress returns the last applied progress, or false when the
	// target has been cleared.
	Progress() (float64, bool)

	// Draw renders the target into one canvas row of the given width.
	Draw(dst *render.Canvas, x, y, width int)
}

// TargetInfo contains metadata about a registered target.
type TargetInfo struct {
	Kind  string
	Title string
}

// Factory is a function that creates a new instance of a target.
type Factory func() Target

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a target factory to the registry.
// Typically called from a target's init() function.
// Panics if a target with the same kind is already registered.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[kind]; exists {
		panic(fmt.Sprintf("registry: target %q already registered", kind))
	}

	factories[kind] = f

	// Get title by creating a temporary instance
	titles[kind] = f().Title()
}

// List returns information about all registered targets, sorted by kind.
func List() []TargetInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]TargetInfo, 0, len(factories))
	for kind := range factories {
		result = append(result, TargetInfo{
			Kind:  kind,
			Title: titles[kind],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Kind < result[j].Kind
	})

	return result
}

// Create instantiates a new target by its kind.
func Create(kind string) (Target, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[kind]
	if !ok {
		return nil, fmt.Errorf("registry: %w %q", ErrUnknownTarget, kind)
	}

	return f(), nil
}

// Exists checks if a target with the given kind is registered.
func Exists(kind string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[kind]
	return ok
}

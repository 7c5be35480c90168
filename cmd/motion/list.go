package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/motion/internal/config"
	"github.com/vovakirdan/motion/internal/easing"
	"github.com/vovakirdan/motion/internal/registry"
	_ "github.com/vovakirdan/motion/internal/targets" // Register built-in targets
	"github.com/vovakirdan/motion/internal/timing"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List targets, scenes and easings",
	Long:  `Shows the animation targets, the scenes that can be played by name, the easing keywords and the timing fields.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	targets := registry.List()

	fmt.Println("Targets:")
	fmt.Println()

	// Calculate column widths
	maxKindLen := 4 // "Kind" header
	for _, t := range targets {
		if len(t.Kind) > maxKindLen {
			maxKindLen = len(t.Kind)
		}
	}

	fmt.Printf("  %-*s  %s\n", maxKindLen, "Kind", "Title")
	fmt.Printf("  %-*s  %s\n", maxKindLen, "----", "-----")
	for _, t := range targets {
		fmt.Printf("  %-*s  %s\n", maxKindLen, t.Kind, t.Title)
	}

	fmt.Println()
	fmt.Println("Scenes:")
	fmt.Println()
	for _, name := range config.SceneNames() {
		s, path, err := config.LoadScene(name)
		if err != nil {
			fmt.Printf("  %-12s  (invalid: %v)\n", name, err)
			continue
		}
		origin := "built-in"
		if path != "" {
			origin = path
		}
		fmt.Printf("  %-12s  %d tracks  %s\n", name, len(s.Animations), origin)
	}

	fmt.Println()
	fmt.Println("Easings:")
	fmt.Println()
	keywords, tweens := splitEasings(easing.Names())
	fmt.Println(wrap(keywords, 72, "  "))
	fmt.Println(wrap(tweens, 72, "  "))
	fmt.Println("  cubic-bezier(x1, y1, x2, y2)  steps(n[, start|middle|end])")

	fmt.Println()
	fmt.Println("Timing fields:")
	fmt.Println()
	fmt.Println(wrap(timing.FieldNames(), 72, "  "))

	fmt.Println()
	fmt.Println("Run 'motion play <scene>' to preview a scene.")
}

// splitEasings separates the CSS keyword easings from the extended tweens.
func splitEasings(names []string) (keywords, tweens []string) {
	for _, name := range names {
		if easing.IsPreset(name) {
			keywords = append(keywords, name)
		} else {
			tweens = append(tweens, name)
		}
	}
	return keywords, tweens
}

// wrap joins words into indented lines no wider than width.
func wrap(words []string, width int, indent string) string {
	var lines []string
	line := indent
	for _, w := range words {
		if len(line) > len(indent) && len(line)+len(w) > width {
			lines = append(lines, strings.TrimRight(line, " "))
			line = indent
		}
		line += w + "  "
	}
	if len(line) > len(indent) {
		lines = append(lines, strings.TrimRight(line, " "))
	}
	return strings.Join(lines, "\n")
}

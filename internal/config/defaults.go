package config

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed defaults/motion.yaml
var defaultConfigYAML []byte

//go:embed scenes/*.yaml
var embeddedScenes embed.FS

// BuiltinScenes returns the names of the scenes compiled into the binary.
func BuiltinScenes() []string {
	entries, err := fs.ReadDir(embeddedScenes, "scenes")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".yaml" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

func builtinScene(name string) ([]byte, bool) {
	data, err := embeddedScenes.ReadFile("scenes/" + name + ".yaml")
	if err != nil {
		return nil, false
	}
	return data, true
}

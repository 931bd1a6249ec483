package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SceneInfo describes a scene available to the CLI
type SceneInfo struct {
	ID          string // Value accepted by -scene
	DisplayName string // Human readable name
	Description string // Optional description
	Spheres     int    // Number of spheres
	FilePath    string // Path to the JSON file; empty for the built-in scene
}

// ListScenes returns the built-in scene followed by every valid JSON scene
// in dir, sorted by display name. Files that fail to load are reported
// through warn and skipped. A missing dir yields only the built-in scene.
func ListScenes(dir string, warn func(format string, args ...interface{})) ([]SceneInfo, error) {
	def := DefaultConfig()
	scenes := []SceneInfo{{
		ID:          def.Name,
		DisplayName: titleCase(def.Name),
		Description: def.Description,
		Spheres:     len(def.Spheres),
	}}

	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return scenes, nil
		}
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	var found []SceneInfo
	for _, path := range files {
		cfg, err := LoadConfig(path)
		if err != nil {
			if warn != nil {
				warn("Warning: skipping %s: %v\n", path, err)
			}
			continue
		}
		found = append(found, SceneInfo{
			ID:          path,
			DisplayName: titleCase(cfg.Name),
			Description: cfg.Description,
			Spheres:     len(cfg.Spheres),
			FilePath:    path,
		})
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].DisplayName < found[j].DisplayName
	})

	return append(scenes, found...), nil
}

// titleCase converts "two-spheres_large" into "Two Spheres Large"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ")
}

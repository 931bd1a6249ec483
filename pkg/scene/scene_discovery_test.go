package scene

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"default", "Default"},
		{"two-spheres", "Two Spheres"},
		{"wide_ground", "Wide Ground"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			result := titleCase(tc.input)
			if result != tc.expected {
				t.Errorf("titleCase(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestListScenes_MissingDirectory(t *testing.T) {
	scenes, err := ListScenes(filepath.Join(t.TempDir(), "nope"), nil)
	if err != nil {
		t.Fatalf("ListScenes() error: %v", err)
	}
	if len(scenes) != 1 || scenes[0].ID != "default" || scenes[0].FilePath != "" {
		t.Errorf("Expected only the built-in scene, got %+v", scenes)
	}
	if scenes[0].Spheres != 2 {
		t.Errorf("Expected built-in scene with 2 spheres, got %d", scenes[0].Spheres)
	}
}

func TestListScenes_JSONFiles(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"zebra.json":      `{"spheres": [{"center": [0, 0, -1], "radius": 0.5}]}`,
		"apple-tree.json": `{"description": "Fruit", "spheres": [{"center": [0, 0, -1], "radius": 0.5}, {"center": [1, 0, -1], "radius": 0.5}]}`,
		"broken.json":     `{"spheres": []}`,
		"not-a-scene.txt": `ignored`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	var warnings []string
	scenes, err := ListScenes(dir, func(format string, args ...interface{}) {
		warnings = append(warnings, format)
	})
	if err != nil {
		t.Fatalf("ListScenes() error: %v", err)
	}

	if len(scenes) != 3 {
		t.Fatalf("Expected built-in plus 2 files, got %d: %+v", len(scenes), scenes)
	}
	if scenes[1].DisplayName != "Apple Tree" || scenes[2].DisplayName != "Zebra" {
		t.Errorf("Expected files sorted by display name, got %q then %q", scenes[1].DisplayName, scenes[2].DisplayName)
	}
	if scenes[1].Description != "Fruit" || scenes[1].Spheres != 2 {
		t.Errorf("Unexpected metadata %+v", scenes[1])
	}
	if !strings.HasSuffix(scenes[2].FilePath, "zebra.json") || scenes[2].ID != scenes[2].FilePath {
		t.Errorf("Expected ID and FilePath to be the file path, got %+v", scenes[2])
	}
	if len(warnings) != 1 {
		t.Errorf("Expected one warning for the invalid file, got %d", len(warnings))
	}
}

package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
	"github.com/df07/go-sphere-pathtracer/pkg/scene"
)

// Request limits shared by validation and /api/scene-config
const (
	minWidth   = 16
	maxWidth   = 2000
	minSamples = 1
	maxSamples = 10000
	minDepth   = 1
	maxDepth   = 1000
)

// Server renders scenes on demand and streams progress over SSE
type Server struct {
	port      int
	scenesDir string
}

// NewServer creates a new web server serving scenes from scenesDir
func NewServer(port int, scenesDir string) *Server {
	return &Server{port: port, scenesDir: scenesDir}
}

// Handler returns the API routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// sceneSummary is the JSON form of scene.SceneInfo
type sceneSummary struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	Spheres     int    `json:"spheres"`
}

// handleScenes lists the built-in scene and the JSON scenes on disk
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := scene.ListScenes(s.scenesDir, log.Printf)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	summaries := make([]sceneSummary, 0, len(scenes))
	for _, info := range scenes {
		summaries = append(summaries, sceneSummary{
			ID:          info.ID,
			DisplayName: info.DisplayName,
			Description: info.Description,
			Spheres:     info.Spheres,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"scenes": summaries})
}

// createScene resolves a scene ID. Only IDs returned by ListScenes are
// accepted, so requests cannot name arbitrary files.
func (s *Server) createScene(sceneID string) (*scene.Scene, error) {
	scenes, err := scene.ListScenes(s.scenesDir, nil)
	if err != nil {
		return nil, err
	}
	for _, info := range scenes {
		if info.ID != sceneID {
			continue
		}
		if info.FilePath == "" {
			return scene.NewDefaultScene(), nil
		}
		cfg, err := scene.LoadConfig(info.FilePath)
		if err != nil {
			return nil, err
		}
		return scene.NewFromConfig(cfg)
	}
	return nil, fmt.Errorf("unknown scene: %s", sceneID)
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneID := r.URL.Query().Get("scene")
	if sceneID == "" {
		sceneID = "default"
	}

	sceneObj, err := s.createScene(sceneID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	config := sceneObj.SamplingConfig
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"scene": sceneID,
		"defaults": map[string]interface{}{
			"width":           sceneObj.Width,
			"height":          sceneObj.Height,
			"samplesPerPixel": config.SamplesPerPixel,
			"maxDepth":        config.MaxDepth,
			"seed":            config.Seed,
			"toneMap":         config.ToneMap.String(),
		},
		"limits": map[string]interface{}{
			"width":           map[string]int{"min": minWidth, "max": maxWidth},
			"samplesPerPixel": map[string]int{"min": minSamples, "max": maxSamples},
			"maxDepth":        map[string]int{"min": minDepth, "max": maxDepth},
		},
		"toneMaps": []string{renderer.ToneMapGamma2.String(), renderer.ToneMapLinear.String()},
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseSeedParam parses an optional int64 seed
func parseSeedParam(values url.Values, defaultValue int64) (int64, error) {
	if value := values.Get("seed"); value != "" {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid seed: %s", value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

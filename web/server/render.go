package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"sync"
	"time"

	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
	"github.com/df07/go-sphere-pathtracer/pkg/scene"
)

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene   string           // Scene ID from /api/scenes
	Width   int              // Image width; height follows the scene aspect ratio
	Samples int              // Samples per pixel
	Depth   int              // Maximum bounce depth
	Seed    int64            // Base random seed
	ToneMap renderer.ToneMap // Radiance to 8-bit conversion
}

// ProgressUpdate is sent as scanlines finish
type ProgressUpdate struct {
	Completed int   `json:"completed"`
	Total     int   `json:"total"`
	ElapsedMs int64 `json:"elapsedMs"`
}

// Stats represents render statistics
type Stats struct {
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	TotalPixels   int     `json:"totalPixels"`
	TotalSamples  int     `json:"totalSamples"`
	Workers       int     `json:"workers"`
	LuminanceMean float64 `json:"luminanceMean"`
	LuminanceStd  float64 `json:"luminanceStdDev"`
}

// CompleteUpdate carries the finished image
type CompleteUpdate struct {
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// sseStream serializes events from the handler and the progress goroutine
type sseStream struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
}

func newSSEStream(w http.ResponseWriter) (*sseStream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, errors.New("streaming not supported")
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	return &sseStream{w: w, flusher: flusher}, nil
}

// sendEvent writes one SSE event
func (s *sseStream) sendEvent(event, data string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// sendJSON writes one SSE event with a JSON payload
func (s *sseStream) sendJSON(event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.sendEvent(event, string(data))
}

// handleRender renders a scene and streams console, progress and the final
// image via SSE. A client disconnect cancels the render.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	stream, err := newSSEStream(w)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	ctx := r.Context()

	sceneID := r.URL.Query().Get("scene")
	if sceneID == "" {
		sceneID = "default"
	}
	sceneObj, err := s.createScene(sceneID)
	if err != nil {
		stream.sendEvent("error", err.Error())
		return
	}

	req, err := parseRenderRequest(r, sceneID, sceneObj)
	if err != nil {
		stream.sendEvent("error", fmt.Sprintf("Invalid request: %v", err))
		return
	}
	height := int(float64(req.Width) / sceneObj.CameraConfig.AspectRatio)
	if height < 1 {
		stream.sendEvent("error", fmt.Sprintf("Invalid request: width %d gives an empty image", req.Width))
		return
	}

	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	logger := NewWebLogger(renderID, func(msg ConsoleMessage) {
		stream.sendJSON("console", msg)
	})

	config := sceneObj.SamplingConfig
	config.SamplesPerPixel = req.Samples
	config.MaxDepth = req.Depth
	config.Seed = req.Seed
	config.ToneMap = req.ToneMap

	raytracer := renderer.NewRaytracer(sceneObj, req.Width, height)
	raytracer.SetSamplingConfig(config)
	raytracer.SetLogger(logger)

	startTime := time.Now()
	raytracer.SetProgressCallback(func(p renderer.ScanlineProgress) {
		stream.sendJSON("progress", ProgressUpdate{
			Completed: p.Completed,
			Total:     p.Total,
			ElapsedMs: time.Since(startTime).Milliseconds(),
		})
	})

	img, stats, err := raytracer.RenderContext(ctx)
	if err != nil {
		// Client disconnected, nobody is listening
		return
	}

	imageData, err := imageToBase64PNG(img)
	if err != nil {
		stream.sendEvent("error", fmt.Sprintf("failed to encode image: %v", err))
		return
	}

	stream.sendJSON("complete", CompleteUpdate{
		ImageData: imageData,
		Stats: Stats{
			Width:         stats.Width,
			Height:        stats.Height,
			TotalPixels:   stats.TotalPixels,
			TotalSamples:  stats.TotalSamples,
			Workers:       stats.NumWorkers,
			LuminanceMean: stats.Luminance.Mean,
			LuminanceStd:  stats.Luminance.StdDev,
		},
		ElapsedMs: time.Since(startTime).Milliseconds(),
	})
}

// parseRenderRequest reads query parameters, defaulting to the scene's own settings
func parseRenderRequest(r *http.Request, sceneID string, sceneObj *scene.Scene) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: sceneID}

	var err error
	if req.Width, err = parseIntParam(query, "width", sceneObj.Width, minWidth, maxWidth); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(query, "samples", sceneObj.SamplingConfig.SamplesPerPixel, minSamples, maxSamples); err != nil {
		return nil, err
	}
	if req.Depth, err = parseIntParam(query, "depth", sceneObj.SamplingConfig.MaxDepth, minDepth, maxDepth); err != nil {
		return nil, err
	}
	if req.Seed, err = parseSeedParam(query, sceneObj.SamplingConfig.Seed); err != nil {
		return nil, err
	}
	if req.ToneMap, err = renderer.ParseToneMap(query.Get("tonemap")); err != nil {
		return nil, err
	}

	return req, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

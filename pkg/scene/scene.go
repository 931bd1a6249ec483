package scene

import (
	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	Camera         *renderer.Camera
	World          *geometry.HittableList // Spheres in the scene
	CameraConfig   renderer.CameraConfig
	SamplingConfig renderer.SamplingConfig
	Width          int // Image width
	Height         int // Image height, derived from width and aspect ratio
}

// GetCamera returns the scene camera
func (s *Scene) GetCamera() *renderer.Camera {
	return s.Camera
}

// GetWorld returns everything a ray can hit
func (s *Scene) GetWorld() geometry.Hittable {
	return s.World
}

// GetPrimitiveCount returns the number of spheres in the scene
func (s *Scene) GetPrimitiveCount() int {
	return s.World.Len()
}

// NewDefaultScene creates the classic scene: one small sphere in front of
// the camera resting on a huge ground sphere
func NewDefaultScene() *Scene {
	// The default config always validates
	s, _ := build(DefaultConfig())
	return s
}

// DefaultConfig returns the config NewDefaultScene is built from
func DefaultConfig() *Config {
	cfg := &Config{
		Name:        "default",
		Description: "A small sphere resting on a large ground sphere under a sky gradient",
		Spheres: []SphereConfig{
			{Center: [3]float64{0, 0, -1}, Radius: 0.5},
			{Center: [3]float64{0, -100.5, -1}, Radius: 100},
		},
	}
	cfg.applyDefaults()
	return cfg
}

// imageHeight derives the pixel height from width and aspect ratio
func imageHeight(width int, aspectRatio float64) int {
	return int(float64(width) / aspectRatio)
}

func build(config *Config) (*Scene, error) {
	cfg := *config
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cameraConfig := renderer.MergeCameraConfig(renderer.DefaultCameraConfig(), renderer.CameraConfig{
		AspectRatio:    cfg.AspectRatio,
		ViewportHeight: cfg.ViewportHeight,
		FocalLength:    cfg.FocalLength,
		Origin:         core.NewVec3(cfg.Origin[0], cfg.Origin[1], cfg.Origin[2]),
	})

	samplingConfig := renderer.MergeSamplingConfig(renderer.DefaultSamplingConfig(), renderer.SamplingConfig{
		SamplesPerPixel: cfg.SamplesPerPixel,
		MaxDepth:        cfg.MaxDepth,
		Seed:            cfg.Seed,
	})

	world := geometry.NewHittableList()
	for _, sphere := range cfg.Spheres {
		center := core.NewVec3(sphere.Center[0], sphere.Center[1], sphere.Center[2])
		world.Add(geometry.NewSphere(center, sphere.Radius))
	}

	return &Scene{
		Name:           cfg.Name,
		Camera:         renderer.NewCamera(cameraConfig),
		World:          world,
		CameraConfig:   cameraConfig,
		SamplingConfig: samplingConfig,
		Width:          cfg.Width,
		Height:         imageHeight(cfg.Width, cameraConfig.AspectRatio),
	}, nil
}

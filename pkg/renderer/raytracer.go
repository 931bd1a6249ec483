package renderer

import (
	"context"
	"image"
	"image/color"
	"time"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/integrator"
)

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int     // Number of rays per pixel
	MaxDepth        int     // Maximum ray bounce depth
	NumWorkers      int     // Parallel workers; 0 means one per CPU
	Seed            int64   // Base seed; row y draws from Seed + y
	ToneMap         ToneMap // Radiance to 8-bit conversion
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 100,
		MaxDepth:        50,
		NumWorkers:      0,
		Seed:            42,
		ToneMap:         ToneMapGamma2,
	}
}

// MergeSamplingConfig applies the non-zero fields of override on top of base.
// ToneMapGamma2 is the zero value, so an override cannot switch a linear base
// back to gamma2; assign ToneMap on the result directly for that.
func MergeSamplingConfig(base, override SamplingConfig) SamplingConfig {
	result := base
	if override.SamplesPerPixel != 0 {
		result.SamplesPerPixel = override.SamplesPerPixel
	}
	if override.MaxDepth != 0 {
		result.MaxDepth = override.MaxDepth
	}
	if override.NumWorkers != 0 {
		result.NumWorkers = override.NumWorkers
	}
	if override.Seed != 0 {
		result.Seed = override.Seed
	}
	if override.ToneMap != ToneMapGamma2 {
		result.ToneMap = override.ToneMap
	}
	return result
}

// Scene interface to avoid circular imports
type Scene interface {
	GetCamera() *Camera
	GetWorld() geometry.Hittable
}

// Raytracer handles the rendering process
type Raytracer struct {
	scene      Scene
	width      int
	height     int
	config     SamplingConfig
	integrator integrator.Integrator
	logger     core.Logger
	onProgress func(ScanlineProgress)
}

// NewRaytracer creates a new raytracer with the default sampling
// configuration and the diffuse path tracing integrator
func NewRaytracer(scene Scene, width, height int) *Raytracer {
	return &Raytracer{
		scene:      scene,
		width:      width,
		height:     height,
		config:     DefaultSamplingConfig(),
		integrator: integrator.NewPathTracingIntegrator(integrator.DefaultPathTracingConfig()),
		logger:     core.NopLogger{},
	}
}

// SetSamplingConfig updates the sampling configuration. A non-positive
// SamplesPerPixel falls back to the default so pixels are never averaged
// over zero samples.
func (rt *Raytracer) SetSamplingConfig(config SamplingConfig) {
	if config.SamplesPerPixel <= 0 {
		config.SamplesPerPixel = DefaultSamplingConfig().SamplesPerPixel
	}
	rt.config = config
}

// GetSamplingConfig returns the active sampling configuration
func (rt *Raytracer) GetSamplingConfig() SamplingConfig {
	return rt.config
}

// SetIntegrator replaces the light transport algorithm
func (rt *Raytracer) SetIntegrator(integ integrator.Integrator) {
	rt.integrator = integ
}

// SetLogger sets where render summaries are written
func (rt *Raytracer) SetLogger(logger core.Logger) {
	if logger == nil {
		logger = core.NopLogger{}
	}
	rt.logger = logger
}

// SetProgressCallback registers a function called as scanlines finish. It
// runs on its own goroutine; updates are dropped rather than delaying workers.
func (rt *Raytracer) SetProgressCallback(callback func(ScanlineProgress)) {
	rt.onProgress = callback
}

// samplePixel averages SamplesPerPixel jittered camera rays through pixel
// (i, j), j counted from the top row
func (rt *Raytracer) samplePixel(camera *Camera, world geometry.Hittable, i, j int, sampler core.Sampler) core.Color {
	colorAccum := core.Vec3{}
	for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
		u := (float64(i) + sampler.Get1D()) / float64(rt.width)
		v := (float64(rt.height-1-j) + sampler.Get1D()) / float64(rt.height)
		ray := camera.GetRay(u, v)
		colorAccum = colorAccum.Add(rt.integrator.RayColor(ray, world, sampler, rt.config.MaxDepth))
	}
	return colorAccum.Divide(float64(rt.config.SamplesPerPixel))
}

// renderScanline fills one row. Each row owns a sampler seeded from its
// index, so the image does not depend on how rows are assigned to workers.
func (rt *Raytracer) renderScanline(camera *Camera, world geometry.Hittable, line Scanline) {
	sampler := core.NewSeededSampler(rt.config.Seed + int64(line.Y))
	for i := 0; i < line.Width(); i++ {
		line.Set(i, rt.vec3ToColor(rt.samplePixel(camera, world, i, line.Y, sampler)))
	}
}

// vec3ToColor converts a Vec3 color to RGBA using the configured tone map
func (rt *Raytracer) vec3ToColor(colorVec core.Vec3) color.RGBA {
	return rt.config.ToneMap.Encode(colorVec)
}

// Render renders the full image using the worker pool
func (rt *Raytracer) Render() (*image.RGBA, RenderStats) {
	img, stats, _ := rt.RenderContext(context.Background())
	return img, stats
}

// RenderContext renders the full image in parallel. If ctx is cancelled,
// workers stop at the next row boundary and ctx.Err() is returned with a
// nil image.
func (rt *Raytracer) RenderContext(ctx context.Context) (*image.RGBA, RenderStats, error) {
	start := time.Now()
	fb := NewFramebuffer(rt.width, rt.height)
	camera := rt.scene.GetCamera()
	world := rt.scene.GetWorld()

	pool := NewWorkerPool(rt.config.NumWorkers)
	progress := NewProgressReporter(rt.height, rt.onProgress)

	rt.logger.Printf("Rendering %dx%d at %d samples/pixel (using %d workers)...\n",
		rt.width, rt.height, rt.config.SamplesPerPixel, pool.GetNumWorkers())

	pool.Run(fb, func(line Scanline) {
		if ctx.Err() != nil {
			return
		}
		rt.renderScanline(camera, world, line)
		progress.ScanlineDone(line.Y)
	})
	progress.Close()

	stats := rt.stats(fb, pool.GetNumWorkers(), time.Since(start))
	if err := ctx.Err(); err != nil {
		rt.logger.Printf("Rendering cancelled after %v\n", stats.Elapsed)
		return nil, stats, err
	}

	rt.logger.Printf("Render completed in %v (luminance mean %.4f, std dev %.4f)\n",
		stats.Elapsed, stats.Luminance.Mean, stats.Luminance.StdDev)
	return fb.Image(), stats, nil
}

// RenderSequential renders every row on the calling goroutine. Its output
// is identical to Render for the same configuration.
func (rt *Raytracer) RenderSequential() (*image.RGBA, RenderStats) {
	img, stats, _ := rt.RenderSequentialContext(context.Background())
	return img, stats
}

// RenderSequentialContext is RenderSequential with the cancellation
// behavior of RenderContext: ctx is checked before each row.
func (rt *Raytracer) RenderSequentialContext(ctx context.Context) (*image.RGBA, RenderStats, error) {
	start := time.Now()
	fb := NewFramebuffer(rt.width, rt.height)
	camera := rt.scene.GetCamera()
	world := rt.scene.GetWorld()
	progress := NewProgressReporter(rt.height, rt.onProgress)

	rt.logger.Printf("Rendering %dx%d at %d samples/pixel (sequential)...\n",
		rt.width, rt.height, rt.config.SamplesPerPixel)

	for y := 0; y < rt.height && ctx.Err() == nil; y++ {
		rt.renderScanline(camera, world, fb.Scanline(y))
		progress.ScanlineDone(y)
	}
	progress.Close()

	stats := rt.stats(fb, 1, time.Since(start))
	if err := ctx.Err(); err != nil {
		rt.logger.Printf("Rendering cancelled after %v\n", stats.Elapsed)
		return nil, stats, err
	}

	rt.logger.Printf("Render completed in %v (luminance mean %.4f, std dev %.4f)\n",
		stats.Elapsed, stats.Luminance.Mean, stats.Luminance.StdDev)
	return fb.Image(), stats, nil
}

func (rt *Raytracer) stats(fb *Framebuffer, numWorkers int, elapsed time.Duration) RenderStats {
	totalPixels := rt.width * rt.height
	return RenderStats{
		Width:           rt.width,
		Height:          rt.height,
		TotalPixels:     totalPixels,
		TotalSamples:    totalPixels * rt.config.SamplesPerPixel,
		SamplesPerPixel: rt.config.SamplesPerPixel,
		NumWorkers:      numWorkers,
		Elapsed:         elapsed,
		Luminance:       CalculateLuminanceStats(fb.Image()),
	}
}

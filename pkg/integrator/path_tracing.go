package integrator

import (
	"math"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
)

var (
	skyBottom = core.NewVec3(1.0, 1.0, 1.0)
	skyTop    = core.NewVec3(0.5, 0.7, 1.0)
)

// PathTracingConfig holds the fixed surface response of the integrator
type PathTracingConfig struct {
	Albedo float64 // Fraction of light a diffuse bounce keeps
	TMin   float64 // Smallest accepted hit distance, avoids shadow acne
}

// DefaultPathTracingConfig returns the standard diffuse settings
func DefaultPathTracingConfig() PathTracingConfig {
	return PathTracingConfig{
		Albedo: 0.5,
		TMin:   0.001,
	}
}

// PathTracingIntegrator implements unidirectional path tracing over
// diffuse surfaces lit by the sky
type PathTracingIntegrator struct {
	config PathTracingConfig
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(config PathTracingConfig) *PathTracingIntegrator {
	return &PathTracingIntegrator{
		config: config,
	}
}

// RayColor computes the color for a single ray using unidirectional path tracing
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world geometry.Hittable, sampler core.Sampler, depth int) core.Color {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}

	hit, isHit := world.Hit(ray, pt.config.TMin, math.Inf(1))
	if !isHit {
		return SkyColor(ray)
	}

	scattered := pt.scatterDiffuse(hit, sampler)
	return pt.RayColor(scattered, world, sampler, depth-1).Multiply(pt.config.Albedo)
}

// scatterDiffuse bounces off the hit point along normal + random unit vector
func (pt *PathTracingIntegrator) scatterDiffuse(hit *geometry.HitRecord, sampler core.Sampler) core.Ray {
	direction := hit.Normal.Add(core.RandomUnitVector(sampler))
	return core.NewRay(hit.Point, direction)
}

// SkyColor returns the background gradient: white looking straight down,
// sky blue looking straight up
func SkyColor(ray core.Ray) core.Color {
	unitDirection := ray.Direction.Normalize()

	// Use the y-component to create a gradient (map from -1,1 to 0,1)
	t := 0.5 * (unitDirection.Y + 1.0)
	return skyBottom.Lerp(skyTop, t)
}

package renderer

import (
	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// CameraConfig describes the fixed pinhole viewport
type CameraConfig struct {
	AspectRatio    float64     // Viewport width / height
	ViewportHeight float64     // Height of the image plane in world units
	FocalLength    float64     // Distance from origin to the image plane along -z
	Origin         core.Point3 // Eye position
}

// DefaultCameraConfig returns a 16:9 viewport two units tall, one unit away
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		AspectRatio:    16.0 / 9.0,
		ViewportHeight: 2.0,
		FocalLength:    1.0,
		Origin:         core.NewVec3(0, 0, 0),
	}
}

// MergeCameraConfig applies every non-zero field of override on top of base
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	if override.AspectRatio != 0 {
		result.AspectRatio = override.AspectRatio
	}
	if override.ViewportHeight != 0 {
		result.ViewportHeight = override.ViewportHeight
	}
	if override.FocalLength != 0 {
		result.FocalLength = override.FocalLength
	}
	if override.Origin != (core.Vec3{}) {
		result.Origin = override.Origin
	}
	return result
}

// Camera generates rays for rendering
type Camera struct {
	origin          core.Point3
	lowerLeftCorner core.Point3
	horizontal      core.Vec3
	vertical        core.Vec3
}

// NewCamera derives the viewport vectors once from config
func NewCamera(config CameraConfig) *Camera {
	viewportWidth := config.AspectRatio * config.ViewportHeight

	origin := config.Origin
	horizontal := core.NewVec3(viewportWidth, 0, 0)
	vertical := core.NewVec3(0, config.ViewportHeight, 0)
	lowerLeftCorner := origin.Subtract(horizontal.Divide(2)).
		Subtract(vertical.Divide(2)).
		Subtract(core.NewVec3(0, 0, config.FocalLength))

	return &Camera{
		origin:          origin,
		horizontal:      horizontal,
		vertical:        vertical,
		lowerLeftCorner: lowerLeftCorner,
	}
}

// GetRay generates a ray for screen coordinates (u, v) where 0 <= u,v <= 1,
// u running left to right and v bottom to top
func (c *Camera) GetRay(u, v float64) core.Ray {
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(u)).
		Add(c.vertical.Multiply(v)).
		Subtract(c.origin)

	return core.NewRay(c.origin, direction)
}

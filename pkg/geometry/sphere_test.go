package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

func vecClose(a, b core.Vec3, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance &&
		math.Abs(a.Y-b.Y) <= tolerance &&
		math.Abs(a.Z-b.Z) <= tolerance
}

func TestSphere_Hit_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0)
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if isHit {
		t.Errorf("Expected miss, but got hit at t=%f", hit.T)
	}
}

func TestSphere_Hit_CameraFacingSphere(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, -1), 0.5)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	hit, isHit := sphere.Hit(ray, 0.001, math.Inf(1))
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}

	if math.Abs(hit.T-0.5) > 1e-12 {
		t.Errorf("Expected t=0.5, got t=%f", hit.T)
	}
	if !vecClose(hit.Point, core.NewVec3(0, 0, -0.5), 1e-12) {
		t.Errorf("Expected hit point (0,0,-0.5), got %v", hit.Point)
	}
	if !vecClose(hit.Normal, core.NewVec3(0, 0, 1), 1e-12) {
		t.Errorf("Expected normal (0,0,1), got %v", hit.Normal)
	}
	if !hit.FrontFace {
		t.Error("Expected front face hit")
	}
}

func TestSphere_Hit_FrontAndBackFace(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0)

	tests := []struct {
		name           string
		rayOrigin      core.Vec3
		rayDirection   core.Vec3
		expectedT      float64
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{
			name:           "front face hit",
			rayOrigin:      core.NewVec3(0, 0, 2),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "back face hit",
			rayOrigin:      core.NewVec3(0, 0, 0),
			rayDirection:   core.NewVec3(0, 0, 1),
			expectedT:      1.0,
			expectedFront:  false,
			expectedNormal: core.NewVec3(0, 0, -1),
		},
		{
			name:           "unnormalized direction",
			rayOrigin:      core.NewVec3(0, 0, 5),
			rayDirection:   core.NewVec3(0, 0, -2),
			expectedT:      2.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.rayOrigin, tt.rayDirection)
			hit, isHit := sphere.Hit(ray, 0.001, 1000.0)

			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}

			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.T)
			}

			if hit.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %t, got %t", tt.expectedFront, hit.FrontFace)
			}

			if !vecClose(hit.Normal, tt.expectedNormal, 1e-9) {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}

			// The recorded normal always opposes the incoming ray
			if hit.Normal.Dot(tt.rayDirection) >= 0 {
				t.Errorf("Normal %v does not face against ray direction %v", hit.Normal, tt.rayDirection)
			}
		})
	}
}

func TestSphere_Hit_GlancingHit(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0)
	ray := core.NewRay(core.NewVec3(1, 0, 2), core.NewVec3(0, 0, -1))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if !isHit {
		t.Fatal("Expected glancing hit, but got miss")
	}

	if !vecClose(hit.Point, core.NewVec3(1, 0, 0), 1e-9) {
		t.Errorf("Expected hit point (1,0,0), got %v", hit.Point)
	}
}

func TestSphere_Hit_Bounds(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	tests := []struct {
		name       string
		tMin, tMax float64
		expectHit  bool
		expectedT  float64
	}{
		{"tMax before both roots", 0.001, 0.5, false, 0},
		{"tMin past both roots", 3.5, 1000.0, false, 0},
		{"near root equal to tMin is excluded", 1.0, 1000.0, true, 3.0},
		{"near root equal to tMax is excluded", 0.001, 1.0, false, 0},
		{"far root equal to tMax is excluded", 1.5, 3.0, false, 0},
		{"between roots hits far side", 1.5, 1000.0, true, 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := sphere.Hit(ray, tt.tMin, tt.tMax)
			if isHit != tt.expectHit {
				t.Fatalf("Expected hit=%t, got %t", tt.expectHit, isHit)
			}
			if isHit {
				if math.Abs(hit.T-tt.expectedT) > 1e-9 {
					t.Errorf("Expected t=%f, got %f", tt.expectedT, hit.T)
				}
				if hit.T <= tt.tMin || hit.T >= tt.tMax {
					t.Errorf("t=%f not strictly inside (%f, %f)", hit.T, tt.tMin, tt.tMax)
				}
			}
		})
	}
}

func TestSphere_Hit_ClosestIntersection(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}

	if math.Abs(hit.T-1.0) > 1e-9 {
		t.Errorf("Expected closest intersection at t=1, got t=%f", hit.T)
	}
}

func TestHitRecord_SetFaceNormal(t *testing.T) {
	outward := core.NewVec3(0, 1, 0)

	tests := []struct {
		name          string
		direction     core.Vec3
		expectedFront bool
		expected      core.Vec3
	}{
		{"ray from outside", core.NewVec3(0, -1, 0), true, core.NewVec3(0, 1, 0)},
		{"ray from inside", core.NewVec3(0, 1, 0), false, core.NewVec3(0, -1, 0)},
		{"grazing ray", core.NewVec3(1, 0, 0), false, core.NewVec3(0, -1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec HitRecord
			rec.SetFaceNormal(core.NewRay(core.Vec3{}, tt.direction), outward)
			if rec.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %t, got %t", tt.expectedFront, rec.FrontFace)
			}
			if rec.Normal != tt.expected {
				t.Errorf("Expected normal %v, got %v", tt.expected, rec.Normal)
			}
		})
	}
}

package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestVec3_Arithmetic(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, 5, 6)

	tests := []struct {
		name     string
		result   Vec3
		expected Vec3
	}{
		{"add", a.Add(b), NewVec3(5, 7, 9)},
		{"subtract", a.Subtract(b), NewVec3(-3, -3, -3)},
		{"multiply", a.Multiply(2), NewVec3(2, 4, 6)},
		{"divide", NewVec3(2, 4, 6).Divide(2), NewVec3(1, 2, 3)},
		{"negate", NewVec3(1, -2, 3).Negate(), NewVec3(-1, 2, -3)},
		{"multiply vec", a.MultiplyVec(b), NewVec3(4, 10, 18)},
		{"cross", a.Cross(b), NewVec3(-3, 6, -3)},
		{"lerp start", a.Lerp(b, 0), a},
		{"lerp end", a.Lerp(b, 1), b},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.result != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, tt.result)
			}
		})
	}
}

func TestVec3_LengthAndDot(t *testing.T) {
	v := NewVec3(1, 2, 2)
	if v.Length() != 3.0 {
		t.Errorf("Expected length 3, got %f", v.Length())
	}
	if v.LengthSquared() != 9.0 {
		t.Errorf("Expected length squared 9, got %f", v.LengthSquared())
	}

	dot := NewVec3(1, 2, 3).Dot(NewVec3(4, -5, 6))
	if dot != 12.0 {
		t.Errorf("Expected dot 12, got %f", dot)
	}
}

func TestVec3_Normalize(t *testing.T) {
	unit := NewVec3(1, 2, 2).Normalize()
	expected := NewVec3(1.0/3.0, 2.0/3.0, 2.0/3.0)

	const tolerance = 1e-12
	if unit.Subtract(expected).Length() > tolerance {
		t.Errorf("Expected %v, got %v", expected, unit)
	}
}

func TestVec3_NormalizeZeroIsNaN(t *testing.T) {
	unit := NewVec3(0, 0, 0).Normalize()
	if !math.IsNaN(unit.X) || !math.IsNaN(unit.Y) || !math.IsNaN(unit.Z) {
		t.Errorf("Expected NaN components for zero vector, got %v", unit)
	}
}

func TestVec3_AlgebraicProperties(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	randomVec := func() Vec3 {
		return NewVec3(random.Float64()*20-10, random.Float64()*20-10, random.Float64()*20-10)
	}

	const tolerance = 1e-9
	for i := 0; i < 1000; i++ {
		a, b := randomVec(), randomVec()

		if a.Dot(b) != b.Dot(a) {
			t.Fatalf("Dot not commutative for %v, %v", a, b)
		}

		if diff := a.Cross(b).Add(b.Cross(a)); diff.Length() > tolerance {
			t.Fatalf("Cross not anti-commutative for %v, %v: residual %v", a, b, diff)
		}

		if a.Length() > 0 {
			if l := a.Normalize().Length(); math.Abs(l-1) > tolerance {
				t.Fatalf("Normalize(%v) has length %f", a, l)
			}
		}
	}
}

func TestVec3_NearZero(t *testing.T) {
	tests := []struct {
		v        Vec3
		expected bool
	}{
		{NewVec3(0, 0, 0), true},
		{NewVec3(1e-9, -1e-9, 5e-9), true},
		{NewVec3(1e-9, 0, 1e-7), false},
		{NewVec3(-0.5, 0, 0), false},
	}

	for _, tt := range tests {
		if got := tt.v.NearZero(); got != tt.expected {
			t.Errorf("NearZero(%v) = %v, want %v", tt.v, got, tt.expected)
		}
	}
}

func TestVec3_ClampAndGamma(t *testing.T) {
	clamped := NewVec3(-0.5, 0.5, 1.5).Clamp(0, 0.999)
	if clamped != NewVec3(0, 0.5, 0.999) {
		t.Errorf("Unexpected clamp result %v", clamped)
	}

	gamma := NewVec3(0.25, 0.0625, 1).GammaCorrect(2.0)
	if gamma != NewVec3(0.5, 0.25, 1) {
		t.Errorf("Unexpected gamma result %v", gamma)
	}
}

func TestRay_At(t *testing.T) {
	ray := NewRay(NewVec3(1, 1, 1), NewVec3(0, 0, -2))

	tests := []struct {
		t        float64
		expected Point3
	}{
		{0, NewVec3(1, 1, 1)},
		{0.5, NewVec3(1, 1, 0)},
		{-1, NewVec3(1, 1, 3)},
	}

	for _, tt := range tests {
		if got := ray.At(tt.t); got != tt.expected {
			t.Errorf("At(%f): expected %v, got %v", tt.t, tt.expected, got)
		}
	}
}

package geometry

import "github.com/df07/go-sphere-pathtracer/pkg/core"

// HittableList is an ordered collection of hittables that is itself hittable
type HittableList struct {
	objects []Hittable
}

// NewHittableList creates a list owning the given objects
func NewHittableList(objects ...Hittable) *HittableList {
	return &HittableList{objects: append([]Hittable(nil), objects...)}
}

// Add appends an object to the list
func (l *HittableList) Add(object Hittable) {
	l.objects = append(l.objects, object)
}

// Clear removes every object
func (l *HittableList) Clear() {
	l.objects = nil
}

// Len returns the number of objects
func (l *HittableList) Len() int {
	return len(l.objects)
}

// Objects returns the members in insertion order
func (l *HittableList) Objects() []Hittable {
	return l.objects
}

// Hit returns the closest hit among all members
func (l *HittableList) Hit(ray core.Ray, tMin, tMax float64) (*HitRecord, bool) {
	var closestHit *HitRecord
	closestSoFar := tMax

	for _, object := range l.objects {
		if hit, isHit := object.Hit(ray, tMin, closestSoFar); isHit {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}

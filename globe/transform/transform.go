// Package transform rotates point sets with homogeneous 4x4 matrices.
//
// All functions are pure: inputs are never modified.
package transform

import (
	"asciiglobe/globe/cloud"

	"github.com/go-gl/mathgl/mgl64"
)

// Centroid returns the component-wise mean of points. An empty set yields the
// origin.
func Centroid(points []cloud.Point) cloud.Point {
	if len(points) == 0 {
		return cloud.Point{}
	}
	var sum mgl64.Vec4
	for _, p := range points {
		sum = sum.Add(homog(p))
	}
	n := float64(len(points))
	return cloud.Point{X: sum[0] / n, Y: sum[1] / n, Z: sum[2] / n}
}

// RotationZ returns the homogeneous matrix rotating by theta about the axis
// parallel to Z through pivot: T(pivot) * Rz(theta) * T(-pivot).
func RotationZ(theta float64, pivot cloud.Point) mgl64.Mat4 {
	to := mgl64.Translate3D(pivot.X, pivot.Y, pivot.Z)
	back := mgl64.Translate3D(-pivot.X, -pivot.Y, -pivot.Z)
	return to.Mul4(mgl64.HomogRotate3DZ(theta)).Mul4(back)
}

// Apply multiplies every point by m and returns the results in a new slice.
func Apply(m mgl64.Mat4, points []cloud.Point) []cloud.Point {
	out := make([]cloud.Point, len(points))
	for i, p := range points {
		v := m.Mul4x1(homog(p))
		out[i] = cloud.Point{X: v[0], Y: v[1], Z: v[2]}
	}
	return out
}

// RotateAboutZ rotates points by theta about the Z-parallel axis through
// centroid.
func RotateAboutZ(points []cloud.Point, centroid cloud.Point, theta float64) []cloud.Point {
	return Apply(RotationZ(theta, centroid), points)
}

func homog(p cloud.Point) mgl64.Vec4 {
	return mgl64.Vec4{p.X, p.Y, p.Z, 1}
}

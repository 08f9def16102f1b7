// 指示: miu200521358
package mmath

import (
	"math"
	"testing"
)

func TestVec3NormalizedRejectsZeroLength(t *testing.T) {
	if _, ok := ZERO_VEC3.Normalized(); ok {
		t.Fatalf("zero vector should not be normalized")
	}
	normalized, ok := NewVec3(0, 3, 4).Normalized()
	if !ok {
		t.Fatalf("non-zero vector should be normalized")
	}
	if math.Abs(normalized.Length()-1.0) > 1e-12 {
		t.Fatalf("length mismatch: got=%f want=1", normalized.Length())
	}
}

func TestAngleBetween(t *testing.T) {
	got := AngleBetween(UNIT_Y_VEC3, UNIT_Z_VEC3)
	if math.Abs(got-math.Pi/2) > 1e-12 {
		t.Fatalf("angle mismatch: got=%f want=%f", got, math.Pi/2)
	}
	got = AngleBetween(UNIT_Y_VEC3, UNIT_Y_VEC3.Negated())
	if math.Abs(got-math.Pi) > 1e-12 {
		t.Fatalf("angle mismatch: got=%f want=%f", got, math.Pi)
	}
}

func TestNewQuaternionRotateMapsFromToTo(t *testing.T) {
	cases := []struct {
		name string
		from Vec3
		to   Vec3
	}{
		{name: "y_to_z", from: UNIT_Y_VEC3, to: UNIT_Z_VEC3},
		{name: "oblique", from: NewVec3(1, 2, 3), to: NewVec3(-2, 0.5, 1)},
		{name: "anti_parallel", from: UNIT_X_VEC3, to: UNIT_X_VEC3.Negated()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := NewQuaternionRotate(tc.from, tc.to)
			got, _ := q.Rotated(tc.from).Normalized()
			want, _ := tc.to.Normalized()
			if !got.NearEquals(want, 1e-9) {
				t.Fatalf("rotated mismatch: got=%v want=%v", got, want)
			}
		})
	}
}

func TestNewQuaternionRotateZeroLengthIsIdentity(t *testing.T) {
	q := NewQuaternionRotate(ZERO_VEC3, UNIT_X_VEC3)
	if !q.NearEquals(NewQuaternion(), 1e-12) {
		t.Fatalf("zero length should return identity: got=%v", q)
	}
}

func TestSeparateTwistByAxisRecomposes(t *testing.T) {
	twistIn := NewQuaternionFromAxisAngle(UNIT_Y_VEC3, 0.7)
	swingIn := NewQuaternionFromAxisAngle(UNIT_X_VEC3, 0.4)
	q := swingIn.Muled(twistIn)

	swing, twist, twistRad := q.SeparateTwistByAxis(UNIT_Y_VEC3)
	if math.Abs(twistRad-0.7) > 1e-9 {
		t.Fatalf("twist angle mismatch: got=%f want=0.7", twistRad)
	}
	if !swing.Muled(twist).NearEquals(q, 1e-9) {
		t.Fatalf("swing*twist should recompose: got=%v want=%v", swing.Muled(twist), q)
	}
}

func TestTransformMat4RoundTrip(t *testing.T) {
	position := NewVec3(1, 2, 3)
	rotation := NewQuaternionFromAxisAngle(UNIT_Z_VEC3, math.Pi/3)
	m := NewTransformMat4(position, rotation)
	if !Mat4Position(m).NearEquals(position, 1e-12) {
		t.Fatalf("position mismatch: got=%v want=%v", Mat4Position(m), position)
	}
	if !Mat4Rotation(m).NearEquals(rotation, 1e-9) {
		t.Fatalf("rotation mismatch: got=%v want=%v", Mat4Rotation(m), rotation)
	}
	moved := MulMat4Vec3(m, UNIT_X_VEC3)
	want := NewVec3(1+math.Cos(math.Pi/3), 2+math.Sin(math.Pi/3), 3)
	if !moved.NearEquals(want, 1e-9) {
		t.Fatalf("transformed point mismatch: got=%v want=%v", moved, want)
	}
}

func TestCameraPointerToPlaneHitsCenter(t *testing.T) {
	camera := NewCamera(NewVec3(0, 0, 10), ZERO_VEC3, 45, 1)
	hit, ok := camera.PointerToPlane(0, 0, ZERO_VEC3, UNIT_Z_VEC3)
	if !ok {
		t.Fatalf("center ray should hit the plane")
	}
	if !hit.NearEquals(ZERO_VEC3, 1e-6) {
		t.Fatalf("hit mismatch: got=%v want=%v", hit, ZERO_VEC3)
	}

	x, y, projected := camera.Project(hit)
	if !projected || math.Abs(x) > 1e-6 || math.Abs(y) > 1e-6 {
		t.Fatalf("projection mismatch: x=%f y=%f ok=%v", x, y, projected)
	}
}

func TestCameraPointerToPlaneRoundTripsProjection(t *testing.T) {
	camera := NewCamera(NewVec3(0, 1, 8), NewVec3(0, 1, 0), 60, 1.5)
	world := NewVec3(0.8, 1.6, 0)
	x, y, ok := camera.Project(world)
	if !ok {
		t.Fatalf("point should be in front of the camera")
	}
	hit, hitOk := camera.PointerToPlane(x, y, ZERO_VEC3, UNIT_Z_VEC3)
	if !hitOk {
		t.Fatalf("ray should hit the plane")
	}
	if !hit.NearEquals(world, 1e-6) {
		t.Fatalf("round trip mismatch: got=%v want=%v", hit, world)
	}
}

func TestIntersectRayPlaneParallel(t *testing.T) {
	if _, ok := IntersectRayPlane(ZERO_VEC3, UNIT_X_VEC3, NewVec3(0, 1, 0), UNIT_Y_VEC3); ok {
		t.Fatalf("parallel ray should not intersect")
	}
}

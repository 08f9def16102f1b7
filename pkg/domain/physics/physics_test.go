// 指示: miu200521358
package physics

import (
	"math"
	"testing"

	"github.com/miu200521358/mu_ikrig/pkg/domain/mmath"
	"github.com/miu200521358/mu_ikrig/pkg/domain/model"
)

type recordingBody struct {
	positions []mmath.Vec3
}

func (b *recordingBody) SetKinematicPosition(position mmath.Vec3) {
	b.positions = append(b.positions, position)
}

func TestBodyDefKindFollowsMass(t *testing.T) {
	cases := []struct {
		name string
		def  BodyDef
		want BodyKind
	}{
		{name: "dynamic", def: BodyDef{Mass: 1, Kinematic: true}, want: BODY_KIND_DYNAMIC},
		{name: "kinematic", def: BodyDef{Kinematic: true}, want: BODY_KIND_KINEMATIC},
		{name: "static", def: BodyDef{}, want: BODY_KIND_STATIC},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.def.Kind(); got != tc.want {
				t.Fatalf("kind mismatch: got=%s want=%s", got, tc.want)
			}
		})
	}
}

func TestBodyDefValidate(t *testing.T) {
	valid := BodyDef{Name: "box", Mass: 1, Shape: NewBoxShape(mmath.NewVec3(0.5, 0.5, 0.5))}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid def rejected: %v", err)
	}
	invalid := []BodyDef{
		{Name: "", Shape: NewSphereShape(1)},
		{Name: "neg", Mass: -1, Shape: NewSphereShape(1)},
		{Name: "flat", Shape: NewBoxShape(mmath.NewVec3(1, 0, 1))},
		{Name: "ball", Shape: NewSphereShape(0)},
		{Name: "floor", Mass: 1, Shape: NewPlaneShape(mmath.UNIT_Y_VEC3, 0)},
		{Name: "tilt", Shape: NewPlaneShape(mmath.ZERO_VEC3, 0)},
	}
	for _, def := range invalid {
		if err := def.Validate(); err == nil {
			t.Fatalf("invalid def accepted: %+v", def)
		}
	}
}

func TestParseShapeType(t *testing.T) {
	for _, name := range []string{"box", "sphere", "plane"} {
		shapeType, err := ParseShapeType(name)
		if err != nil || shapeType.String() != name {
			t.Fatalf("shape type mismatch: name=%s got=%s err=%v", name, shapeType, err)
		}
	}
	if _, err := ParseShapeType("capsule"); err == nil {
		t.Fatalf("unknown shape should fail")
	}
}

func TestSyncProxiesCopiesBoneWorldPosition(t *testing.T) {
	skeleton := model.NewSkeleton()
	if err := skeleton.Append(model.NewBone("root", -1, mmath.ZERO_VEC3)); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := skeleton.Append(model.NewBone("hand", 0, mmath.NewVec3(0, 1, 0))); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	skeleton.SetupBindPose()
	skeleton.SetLocalRotation(0, mmath.NewQuaternionFromAxisAngle(mmath.UNIT_Z_VEC3, -math.Pi/2))

	body := &recordingBody{}
	proxy := &PhysicsProxy{Name: "hand", BoneIndex: 1, Offset: mmath.NewVec3(0, 0.5, 0), Body: body}
	SyncProxies(skeleton, []*PhysicsProxy{proxy, {Name: "unbound", BoneIndex: 0}})

	if len(body.positions) != 1 {
		t.Fatalf("sync count mismatch: got=%d want=1", len(body.positions))
	}
	if !body.positions[0].NearEquals(mmath.NewVec3(1.5, 0, 0), 1e-9) {
		t.Fatalf("proxy position mismatch: got=%v want=[1.5,0,0]", body.positions[0])
	}
	// ボーンへは書き戻さない
	if got := skeleton.WorldPosition(1); !got.NearEquals(mmath.NewVec3(1, 0, 0), 1e-9) {
		t.Fatalf("bone should not be modified: got=%v", got)
	}
}

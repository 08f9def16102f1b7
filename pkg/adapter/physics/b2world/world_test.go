// 指示: miu200521358
package b2world

import (
	"math"
	"testing"

	"github.com/miu200521358/mu_ikrig/pkg/domain/mmath"
	"github.com/miu200521358/mu_ikrig/pkg/domain/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGroundedWorld(t *testing.T) *World {
	t.Helper()
	world := NewWorld(mmath.NewVec3(0, -10, 0), 0, 0)
	_, err := world.AddBody(physics.BodyDef{
		Name:  "ground",
		Shape: physics.NewPlaneShape(mmath.UNIT_Y_VEC3, 0),
	})
	require.NoError(t, err)
	return world
}

func TestDynamicBoxFallsAndRestsOnPlane(t *testing.T) {
	world := newGroundedWorld(t)
	box, err := world.AddBody(physics.BodyDef{
		Name:     "box",
		Mass:     1,
		Shape:    physics.NewBoxShape(mmath.NewVec3(0.5, 0.5, 0.5)),
		Position: mmath.NewVec3(0, 2, 0.25),
	})
	require.NoError(t, err)
	assert.Equal(t, physics.BODY_KIND_DYNAMIC, box.Kind())

	world.Step(1.0 / 60.0)
	assert.Less(t, box.Position().Y, 2.0)

	for i := 0; i < 180; i++ {
		world.Step(1.0 / 60.0)
	}
	assert.InDelta(t, 0.5, box.Position().Y, 0.05)
	assert.Equal(t, 0.25, box.Position().Z)
	assert.Equal(t, 1.0, box.Mass())
}

func TestKinematicPositionIsWrittenWithoutVelocity(t *testing.T) {
	world := newGroundedWorld(t)
	proxy, err := world.AddBody(physics.BodyDef{
		Name:      "hand",
		Kinematic: true,
		Shape:     physics.NewSphereShape(0.1),
		Position:  mmath.NewVec3(0, 1, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, physics.BODY_KIND_KINEMATIC, proxy.Kind())
	assert.Equal(t, 0.0, proxy.Mass())

	proxy.SetKinematicPosition(mmath.NewVec3(1.5, 2.5, -0.5))
	world.Step(1.0 / 60.0)

	got := proxy.Position()
	assert.InDelta(t, 1.5, got.X, 1e-9)
	assert.InDelta(t, 2.5, got.Y, 1e-9)
	assert.Equal(t, -0.5, got.Z)

	proxy.SetKinematicPosition(mmath.NewVec3(math.NaN(), 0, 0))
	assert.InDelta(t, 1.5, proxy.Position().X, 1e-9)
}

func TestAddBodyRejectsInvalidDefinitions(t *testing.T) {
	world := newGroundedWorld(t)

	_, err := world.AddBody(physics.BodyDef{Name: "ground", Shape: physics.NewSphereShape(1)})
	assert.Error(t, err, "duplicate name")

	_, err = world.AddBody(physics.BodyDef{Name: "wall", Shape: physics.NewPlaneShape(mmath.UNIT_Z_VEC3, 0)})
	assert.Error(t, err, "plane normal along Z cannot be represented")

	_, err = world.AddBody(physics.BodyDef{Name: "bad", Mass: 1, Shape: physics.NewSphereShape(-1)})
	assert.Error(t, err)

	assert.Len(t, world.Bodies(), 1)
	assert.NotNil(t, world.BodyByName("ground"))
	assert.Nil(t, world.BodyByName("wall"))
}

func TestOrientationComposesPlanarRotation(t *testing.T) {
	world := NewWorld(mmath.NewVec3(0, 0, 0), 0, 0)
	initial := mmath.NewQuaternionFromAxisAngle(mmath.UNIT_Z_VEC3, 0.3)
	body, err := world.AddBody(physics.BodyDef{
		Name:        "tilted",
		Shape:       physics.NewBoxShape(mmath.NewVec3(1, 1, 1)),
		Orientation: initial,
	})
	require.NoError(t, err)
	assert.True(t, body.Orientation().NearEquals(initial, 1e-9))

	unset, err := world.AddBody(physics.BodyDef{Name: "unset", Shape: physics.NewSphereShape(1)})
	require.NoError(t, err)
	assert.True(t, unset.Orientation().NearEquals(mmath.NewQuaternion(), 1e-12))
}

func TestRemoveBodyDestroysAddedBody(t *testing.T) {
	world := newGroundedWorld(t)
	box, err := world.AddBody(physics.BodyDef{Name: "box", Mass: 1, Shape: physics.NewBoxShape(mmath.NewVec3(0.5, 0.5, 0.5)), Position: mmath.NewVec3(0, 2, 0)})
	require.NoError(t, err)
	require.Len(t, world.Bodies(), 2)

	world.RemoveBody(box)
	assert.Len(t, world.Bodies(), 1)
	assert.Nil(t, world.BodyByName("box"))
	assert.Equal(t, 1, world.world.GetBodyCount())

	// 同名の剛体を再追加できる
	_, err = world.AddBody(physics.BodyDef{Name: "box", Shape: physics.NewSphereShape(0.5)})
	assert.NoError(t, err)

	world.RemoveBody(box)
	assert.Len(t, world.Bodies(), 2, "removing twice is ignored")
	world.Step(1.0 / 60.0)
}

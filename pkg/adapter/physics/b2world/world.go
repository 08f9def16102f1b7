// 指示: miu200521358
// Package b2world は box2d をXY平面の剛体ワールドとして使う物理アダプタを提供する。
// 各剛体のZ座標は生成時または位置書き込み時の値を保持する。
package b2world

import (
	"fmt"
	"math"

	"github.com/ByteArena/box2d"
	"github.com/miu200521358/mu_ikrig/pkg/domain/mmath"
	"github.com/miu200521358/mu_ikrig/pkg/domain/physics"
	"github.com/miu200521358/mu_ikrig/pkg/shared/base/logging"
	"github.com/miu200521358/mu_ikrig/pkg/usecase/port/moutput"
)

const (
	// DefaultVelocityIterations は速度反復回数の既定値。
	DefaultVelocityIterations = 8
	// DefaultPositionIterations は位置反復回数の既定値。
	DefaultPositionIterations = 3
	// planeHalfLength は平面を表す辺の半分の長さ。
	planeHalfLength = 1000.0
	defaultFriction = 0.3
)

// World は box2d ワールドのアダプタ。
type World struct {
	world              box2d.B2World
	bodies             []*Body
	velocityIterations int
	positionIterations int
	stepCount          int
}

// NewWorld はワールドを生成する。反復回数が0以下の場合は既定値を使う。
func NewWorld(gravity mmath.Vec3, velocityIterations int, positionIterations int) *World {
	if velocityIterations <= 0 {
		velocityIterations = DefaultVelocityIterations
	}
	if positionIterations <= 0 {
		positionIterations = DefaultPositionIterations
	}
	return &World{
		world:              box2d.MakeB2World(box2d.MakeB2Vec2(gravity.X, gravity.Y)),
		bodies:             make([]*Body, 0),
		velocityIterations: velocityIterations,
		positionIterations: positionIterations,
	}
}

// Step はワールドを dt 秒進める。
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	w.world.Step(dt, w.velocityIterations, w.positionIterations)
	w.stepCount++
	if logger := logging.DefaultLogger(); logger != nil && logger.IsVerboseEnabled(logging.VERBOSE_INDEX_PHYSICS) {
		logger.Verbose(logging.VERBOSE_INDEX_PHYSICS, "物理ステップ: step=%d dt=%.5f bodies=%d", w.stepCount, dt, len(w.bodies))
	}
}

// AddBody は剛体を追加する。
func (w *World) AddBody(def physics.BodyDef) (moutput.IPhysicsBody, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	if w.BodyByName(def.Name) != nil {
		return nil, fmt.Errorf("剛体名が重複しています: %s", def.Name)
	}

	// 未設定の回転は単位回転として扱う
	if !def.Orientation.IsFinite() || def.Orientation.Quat.Len() <= mmath.Epsilon {
		def.Orientation = mmath.NewQuaternion()
	}
	_, _, angle := def.Orientation.SeparateTwistByAxis(mmath.UNIT_Z_VEC3)

	bodyDef := box2d.MakeB2BodyDef()
	bodyDef.Position.Set(def.Position.X, def.Position.Y)
	bodyDef.Angle = angle
	switch def.Kind() {
	case physics.BODY_KIND_DYNAMIC:
		bodyDef.Type = box2d.B2BodyType.B2_dynamicBody
	case physics.BODY_KIND_KINEMATIC:
		bodyDef.Type = box2d.B2BodyType.B2_kinematicBody
	default:
		bodyDef.Type = box2d.B2BodyType.B2_staticBody
	}

	shape, area, err := newB2Shape(def.Shape)
	if err != nil {
		return nil, fmt.Errorf("剛体形状を生成できません: body=%s: %w", def.Name, err)
	}

	b2body := w.world.CreateBody(&bodyDef)
	if def.Kind() == physics.BODY_KIND_DYNAMIC {
		fixtureDef := box2d.MakeB2FixtureDef()
		fixtureDef.Shape = shape
		fixtureDef.Density = def.Mass / area
		fixtureDef.Friction = defaultFriction
		b2body.CreateFixtureFromDef(&fixtureDef)
	} else {
		b2body.CreateFixture(shape, 0.0)
	}
	b2body.SetUserData(def.Name)

	body := &Body{
		body:         b2body,
		def:          def,
		z:            def.Position.Z,
		initialAngle: angle,
	}
	w.bodies = append(w.bodies, body)
	return body, nil
}

// RemoveBody は剛体を box2d ワールドから破棄し、一覧から外す。
func (w *World) RemoveBody(body moutput.IPhysicsBody) {
	for i, current := range w.bodies {
		if moutput.IPhysicsBody(current) != body {
			continue
		}
		w.world.DestroyBody(current.body)
		w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
		return
	}
}

// Bodies は追加順の剛体一覧を返す。
func (w *World) Bodies() []moutput.IPhysicsBody {
	bodies := make([]moutput.IPhysicsBody, len(w.bodies))
	for i, body := range w.bodies {
		bodies[i] = body
	}
	return bodies
}

// BodyByName は名前に対応する剛体を返す。見つからない場合は nil。
func (w *World) BodyByName(name string) *Body {
	for _, body := range w.bodies {
		if body.def.Name == name {
			return body
		}
	}
	return nil
}

// newB2Shape はXY平面の box2d 形状と面積を生成する。
func newB2Shape(shape physics.Shape) (box2d.B2ShapeInterface, float64, error) {
	switch shape.Type {
	case physics.SHAPE_BOX:
		polygon := box2d.MakeB2PolygonShape()
		polygon.SetAsBox(shape.HalfExtents.X, shape.HalfExtents.Y)
		return &polygon, 4 * shape.HalfExtents.X * shape.HalfExtents.Y, nil
	case physics.SHAPE_SPHERE:
		circle := box2d.MakeB2CircleShape()
		circle.M_radius = shape.Radius
		return &circle, math.Pi * shape.Radius * shape.Radius, nil
	case physics.SHAPE_PLANE:
		planar := mmath.NewVec3(shape.Normal.X, shape.Normal.Y, 0)
		normal, ok := planar.Normalized()
		if !ok {
			return nil, 0, fmt.Errorf("平面の法線がXY平面上にありません: %v", shape.Normal)
		}
		center := normal.MuledScalar(shape.Offset)
		tangent := mmath.NewVec3(-normal.Y, normal.X, 0).MuledScalar(planeHalfLength)
		edge := box2d.MakeB2EdgeShape()
		edge.Set(
			box2d.MakeB2Vec2(center.X-tangent.X, center.Y-tangent.Y),
			box2d.MakeB2Vec2(center.X+tangent.X, center.Y+tangent.Y),
		)
		return &edge, 0, nil
	}
	return nil, 0, fmt.Errorf("剛体形状が不正です: %s", shape.Type)
}

// Body は box2d 剛体のアダプタ。
type Body struct {
	body         *box2d.B2Body
	def          physics.BodyDef
	z            float64
	initialAngle float64
}

// Name は剛体名を返す。
func (b *Body) Name() string {
	return b.def.Name
}

// Position はワールド位置を返す。
func (b *Body) Position() mmath.Vec3 {
	position := b.body.GetPosition()
	return mmath.NewVec3(position.X, position.Y, b.z)
}

// Orientation は生成時の回転にZ軸周りの回転量を合成して返す。
func (b *Body) Orientation() mmath.Quaternion {
	delta := mmath.NewQuaternionFromAxisAngle(mmath.UNIT_Z_VEC3, b.body.GetAngle()-b.initialAngle)
	return delta.Muled(b.def.Orientation).Normalized()
}

// Mass は定義上の質量を返す。
func (b *Body) Mass() float64 {
	return b.def.Mass
}

// Shape は形状を返す。
func (b *Body) Shape() physics.Shape {
	return b.def.Shape
}

// Kind は挙動種別を返す。
func (b *Body) Kind() physics.BodyKind {
	return b.def.Kind()
}

// SetKinematicPosition は位置だけを書き込み、速度を0にする。
func (b *Body) SetKinematicPosition(position mmath.Vec3) {
	if !position.IsFinite() {
		return
	}
	b.body.SetTransform(box2d.MakeB2Vec2(position.X, position.Y), b.body.GetAngle())
	b.body.SetLinearVelocity(box2d.MakeB2Vec2(0, 0))
	b.body.SetAngularVelocity(0)
	b.z = position.Z
}

// 指示: miu200521358
package minteractor

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/miu200521358/mu_ikrig/pkg/domain/animation"
	"github.com/miu200521358/mu_ikrig/pkg/domain/mmath"
	"github.com/miu200521358/mu_ikrig/pkg/domain/model"
	"github.com/miu200521358/mu_ikrig/pkg/domain/model/merrors"
	"github.com/miu200521358/mu_ikrig/pkg/domain/physics"
	"github.com/miu200521358/mu_ikrig/pkg/domain/rig"
	"github.com/miu200521358/mu_ikrig/pkg/usecase/port/moutput"
)

type fakeBodyForTest struct {
	def      physics.BodyDef
	position mmath.Vec3
	writes   int
}

func (b *fakeBodyForTest) Name() string                  { return b.def.Name }
func (b *fakeBodyForTest) Position() mmath.Vec3          { return b.position }
func (b *fakeBodyForTest) Orientation() mmath.Quaternion { return mmath.NewQuaternion() }
func (b *fakeBodyForTest) Mass() float64                 { return b.def.Mass }
func (b *fakeBodyForTest) Shape() physics.Shape          { return b.def.Shape }
func (b *fakeBodyForTest) Kind() physics.BodyKind        { return b.def.Kind() }
func (b *fakeBodyForTest) SetKinematicPosition(position mmath.Vec3) {
	b.position = position
	b.writes++
}

type fakeWorldForTest struct {
	steps      int
	dts        []float64
	bodies     []*fakeBodyForTest
	rejectName string
}

func (w *fakeWorldForTest) Step(dt float64) {
	w.steps++
	w.dts = append(w.dts, dt)
}

func (w *fakeWorldForTest) AddBody(def physics.BodyDef) (moutput.IPhysicsBody, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	if def.Name == w.rejectName {
		return nil, fmt.Errorf("rejected: %s", def.Name)
	}
	body := &fakeBodyForTest{def: def, position: def.Position}
	w.bodies = append(w.bodies, body)
	return body, nil
}

func (w *fakeWorldForTest) RemoveBody(body moutput.IPhysicsBody) {
	for i, current := range w.bodies {
		if moutput.IPhysicsBody(current) == body {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			return
		}
	}
}

func (w *fakeWorldForTest) Bodies() []moutput.IPhysicsBody {
	bodies := make([]moutput.IPhysicsBody, len(w.bodies))
	for i, body := range w.bodies {
		bodies[i] = body
	}
	return bodies
}

type fakeLoaderForTest struct {
	results chan moutput.AssetLoadResult
	paths   []string
}

func newFakeLoaderForTest() *fakeLoaderForTest {
	return &fakeLoaderForTest{results: make(chan moutput.AssetLoadResult, 1)}
}

func (l *fakeLoaderForTest) LoadAsync(path string) <-chan moutput.AssetLoadResult {
	l.paths = append(l.paths, path)
	return l.results
}

type fakeInputForTest struct {
	pointer moutput.PointerState
}

func (i *fakeInputForTest) Pointer() moutput.PointerState {
	return i.pointer
}

type fakeRendererForTest struct {
	scenes []RenderScene
	err    error
}

func (r *fakeRendererForTest) Render(scene RenderScene) error {
	r.scenes = append(r.scenes, scene)
	return r.err
}

type stageRecorderForTest struct {
	stages []FrameStage
}

func (r *stageRecorderForTest) ObserveStage(_ int, stage FrameStage) {
	r.stages = append(r.stages, stage)
}

type progressRecorderForTest struct {
	events []SetupProgressEventType
}

func (r *progressRecorderForTest) ReportSetupProgress(event SetupProgressEvent) {
	r.events = append(r.events, event.Type)
}

// newRigAssetForUsecaseTest は腕・尻尾・頭を持つリグアセットを生成する。
// 腕は shoulder(0,1,0) から hand(0,4,0) まで +Y に伸びる。
func newRigAssetForUsecaseTest(t *testing.T) *rig.RigAsset {
	t.Helper()
	skeleton := model.NewSkeleton()
	bones := []struct {
		name   string
		parent int
		offset mmath.Vec3
	}{
		{name: "hips", parent: -1, offset: mmath.ZERO_VEC3},
		{name: "shoulder", parent: 0, offset: mmath.NewVec3(0, 1, 0)},
		{name: "elbow", parent: 1, offset: mmath.NewVec3(0, 1, 0)},
		{name: "wrist", parent: 2, offset: mmath.NewVec3(0, 1, 0)},
		{name: "hand", parent: 3, offset: mmath.NewVec3(0, 1, 0)},
		{name: "head", parent: 0, offset: mmath.NewVec3(1, 0, 0)},
		{name: "tail_root", parent: 0, offset: mmath.NewVec3(0, -1, 0)},
		{name: "tail_tip", parent: 6, offset: mmath.NewVec3(0, -1, 0)},
	}
	for _, bone := range bones {
		if err := skeleton.Append(model.NewBone(bone.name, bone.parent, bone.offset)); err != nil {
			t.Fatalf("append bone failed: %s: %v", bone.name, err)
		}
	}
	skeleton.SetupBindPose()

	mesh := &model.SkinnedMesh{
		Name:    "body",
		Skinned: true,
		Vertices: []model.Vertex{
			{Position: mmath.NewVec3(0, 4, 0), BoneIndexes: []int{4}, Weights: []float64{1}},
			{Position: mmath.NewVec3(0, 0, 0), BoneIndexes: []int{0}, Weights: []float64{1}},
		},
	}

	return &rig.RigAsset{
		Model: &model.RigModel{
			Name:     "sample",
			Path:     "sample.yaml",
			Skeleton: skeleton,
			Meshes:   []*model.SkinnedMesh{mesh},
		},
		Chains: []rig.ChainSpec{
			{Name: "arm", BoneNames: []string{"hand", "wrist", "elbow", "shoulder"}},
		},
		Proxies: []physics.ProxyDef{
			{Name: "hand_proxy", BoneName: "hand", Shape: physics.NewSphereShape(0.1)},
		},
		Bodies: []physics.BodyDef{
			{Name: "floor", Shape: physics.NewBoxShape(mmath.NewVec3(5, 0.1, 5))},
		},
	}
}

// newHeadClipForTest は head を duration 秒で回すクリップを生成する。
func newHeadClipForTest(name string, duration float64) *animation.Clip {
	return animation.NewClip(name, []animation.BoneTrack{
		{
			BoneName: "head",
			Keyframes: []animation.Keyframe{
				{Time: 0, Rotation: mmath.NewQuaternion()},
				{Time: duration, Rotation: mmath.NewQuaternionFromAxisAngle(mmath.UNIT_Y_VEC3, math.Pi/6)},
			},
		},
	})
}

type usecaseFixture struct {
	usecase  *IkRigUsecase
	world    *fakeWorldForTest
	loader   *fakeLoaderForTest
	input    *fakeInputForTest
	renderer *fakeRendererForTest
	stages   *stageRecorderForTest
	progress *progressRecorderForTest
}

func newUsecaseFixture(t *testing.T, options FrameOptions) *usecaseFixture {
	t.Helper()
	fixture := &usecaseFixture{
		world:    &fakeWorldForTest{},
		loader:   newFakeLoaderForTest(),
		input:    &fakeInputForTest{pointer: moutput.PointerState{X: 0.3, Y: 0, Active: true}},
		renderer: &fakeRendererForTest{},
		stages:   &stageRecorderForTest{},
		progress: &progressRecorderForTest{},
	}
	uc, err := NewIkRigUsecase(IkRigUsecaseDeps{
		World:            fixture.world,
		Loader:           fixture.loader,
		Input:            fixture.input,
		Renderer:         fixture.renderer,
		Observer:         fixture.stages,
		ProgressReporter: fixture.progress,
	}, options)
	if err != nil {
		t.Fatalf("new usecase failed: %v", err)
	}
	fixture.usecase = uc
	return fixture
}

// alwaysActiveOptions は起動条件なしで毎フレーム解く設定を返す。
func alwaysActiveOptions() FrameOptions {
	options := DefaultFrameOptions()
	options.Activation = ""
	return options
}

func assertStages(t *testing.T, got []FrameStage, want []FrameStage) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("stage count mismatch: got=%v want=%v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("stage mismatch at %d: got=%v want=%v", i, got, want)
		}
	}
}

var allStagesForTest = []FrameStage{
	FRAME_STAGE_PHYSICS_STEP,
	FRAME_STAGE_IK_SOLVE,
	FRAME_STAGE_POSE_APPLY,
	FRAME_STAGE_PROXY_SYNC,
	FRAME_STAGE_ANIMATION_BLEND,
	FRAME_STAGE_RENDER,
}

var unreadyStagesForTest = []FrameStage{
	FRAME_STAGE_PHYSICS_STEP,
	FRAME_STAGE_ANIMATION_BLEND,
	FRAME_STAGE_RENDER,
}

func TestIkRigUsecaseFrameRunsStagesInOrder(t *testing.T) {
	fixture := newUsecaseFixture(t, alwaysActiveOptions())
	if err := fixture.usecase.Bind(newRigAssetForUsecaseTest(t)); err != nil {
		t.Fatalf("bind failed: %v", err)
	}

	report := fixture.usecase.Frame()
	assertStages(t, report.Stages, allStagesForTest)
	assertStages(t, fixture.stages.stages, allStagesForTest)
	if report.Phase != SETUP_PHASE_READY {
		t.Fatalf("phase mismatch: got=%s want=%s", report.Phase, SETUP_PHASE_READY)
	}
	if fixture.world.steps != 1 || fixture.world.dts[0] != DefaultFixedTimestep {
		t.Fatalf("physics should step once with fixed dt: steps=%d dts=%v", fixture.world.steps, fixture.world.dts)
	}
	if report.SolvedChainCount() != 1 {
		t.Fatalf("solved chain count mismatch: got=%d want=1", report.SolvedChainCount())
	}
	if fixture.usecase.FrameCount() != 1 {
		t.Fatalf("frame count mismatch: got=%d want=1", fixture.usecase.FrameCount())
	}
}

func TestIkRigUsecaseFrameBeforeSetupSkipsIkStages(t *testing.T) {
	fixture := newUsecaseFixture(t, alwaysActiveOptions())

	report := fixture.usecase.Frame()
	assertStages(t, report.Stages, unreadyStagesForTest)
	if report.Phase != SETUP_PHASE_UNLOADED {
		t.Fatalf("phase mismatch: got=%s", report.Phase)
	}
	if fixture.world.steps != 1 {
		t.Fatalf("physics should still step: got=%d", fixture.world.steps)
	}
	if len(fixture.renderer.scenes) != 1 {
		t.Fatalf("render should still run: got=%d", len(fixture.renderer.scenes))
	}
	if len(report.Chains) != 0 {
		t.Fatalf("no chain should be reported: got=%v", report.Chains)
	}
}

func TestIkRigUsecaseBindFailsWithoutSkinnedMesh(t *testing.T) {
	fixture := newUsecaseFixture(t, alwaysActiveOptions())
	asset := newRigAssetForUsecaseTest(t)
	asset.Model.Meshes[0].Skinned = false

	err := fixture.usecase.Bind(asset)
	if !merrors.IsSetupError(err) {
		t.Fatalf("missing skinned mesh should be setup error: %v", err)
	}
	var setupErr *merrors.SetupError
	if !errors.As(err, &setupErr) || setupErr.Reason != model.RigWarningSkinnedMeshMissing {
		t.Fatalf("reason mismatch: %v", err)
	}
	if fixture.usecase.Phase() != SETUP_PHASE_FAILED {
		t.Fatalf("phase mismatch: got=%s", fixture.usecase.Phase())
	}
	if len(fixture.world.bodies) != 0 {
		t.Fatalf("no body should be added after failure: got=%d", len(fixture.world.bodies))
	}

	report := fixture.usecase.Frame()
	assertStages(t, report.Stages, unreadyStagesForTest)
	last := fixture.progress.events[len(fixture.progress.events)-1]
	if last != SetupProgressEventTypeFailed {
		t.Fatalf("last progress mismatch: got=%s", last)
	}
}

func TestIkRigUsecaseAsyncSetupTransitions(t *testing.T) {
	fixture := newUsecaseFixture(t, alwaysActiveOptions())
	if err := fixture.usecase.BeginSetup("sample.yaml"); err != nil {
		t.Fatalf("begin setup failed: %v", err)
	}
	if fixture.usecase.Phase() != SETUP_PHASE_LOADING {
		t.Fatalf("phase mismatch: got=%s", fixture.usecase.Phase())
	}
	if err := fixture.usecase.BeginSetup("sample.yaml"); err == nil {
		t.Fatalf("second begin should fail")
	}

	report := fixture.usecase.Frame()
	assertStages(t, report.Stages, unreadyStagesForTest)
	if report.Phase != SETUP_PHASE_LOADING {
		t.Fatalf("frame should not wait for loading: got=%s", report.Phase)
	}

	fixture.loader.results <- moutput.AssetLoadResult{Asset: newRigAssetForUsecaseTest(t)}
	report = fixture.usecase.Frame()
	if report.Phase != SETUP_PHASE_READY {
		t.Fatalf("phase mismatch after load: got=%s", report.Phase)
	}
	assertStages(t, report.Stages, allStagesForTest)

	want := []SetupProgressEventType{
		SetupProgressEventTypeLoadStarted,
		SetupProgressEventTypeAssetLoaded,
		SetupProgressEventTypeSkinnedMeshFound,
		SetupProgressEventTypeChainsBound,
		SetupProgressEventTypeClipsAdded,
		SetupProgressEventTypeBodiesAdded,
		SetupProgressEventTypeProxiesBound,
		SetupProgressEventTypeReady,
	}
	if fmt.Sprint(fixture.progress.events) != fmt.Sprint(want) {
		t.Fatalf("progress mismatch: got=%v want=%v", fixture.progress.events, want)
	}
}

func TestIkRigUsecaseAsyncSetupLoadError(t *testing.T) {
	fixture := newUsecaseFixture(t, alwaysActiveOptions())
	if err := fixture.usecase.BeginSetup("missing.yaml"); err != nil {
		t.Fatalf("begin setup failed: %v", err)
	}
	fixture.loader.results <- moutput.AssetLoadResult{Err: merrors.NewAssetLoadError("missing.yaml", errors.New("not found"))}

	report := fixture.usecase.Frame()
	if report.Phase != SETUP_PHASE_FAILED {
		t.Fatalf("phase mismatch: got=%s", report.Phase)
	}
	if !merrors.IsAssetLoadError(fixture.usecase.SetupError()) {
		t.Fatalf("setup error should be asset load error: %v", fixture.usecase.SetupError())
	}
	assertStages(t, report.Stages, unreadyStagesForTest)
}

func TestIkRigUsecaseActivationWaitsForClipAndPointer(t *testing.T) {
	options := DefaultFrameOptions()
	options.TriggerClip = "intro"
	fixture := newUsecaseFixture(t, options)
	asset := newRigAssetForUsecaseTest(t)
	asset.Clips = []*animation.Clip{newHeadClipForTest("intro", 0.04)}
	if err := fixture.usecase.Bind(asset); err != nil {
		t.Fatalf("bind failed: %v", err)
	}

	// 1/60秒刻みで3フレーム目のアニメーション段階に完了通知が届く
	for frame := 0; frame < 3; frame++ {
		report := fixture.usecase.Frame()
		if report.SolvedChainCount() != 0 {
			t.Fatalf("chain should wait for clip at frame %d", frame)
		}
	}
	if !fixture.usecase.Context().ClipFinished() {
		t.Fatalf("trigger clip should be finished")
	}

	report := fixture.usecase.Frame()
	if report.SolvedChainCount() != 1 {
		t.Fatalf("chain should solve after clip finished: got=%d", report.SolvedChainCount())
	}

	fixture.input.pointer.Active = false
	report = fixture.usecase.Frame()
	if report.SolvedChainCount() != 0 {
		t.Fatalf("chain should not solve without pointer: got=%d", report.SolvedChainCount())
	}
	if !report.HasStage(FRAME_STAGE_IK_SOLVE) {
		t.Fatalf("ik stage should run even when no chain is active")
	}
}

func TestIkRigUsecaseTargetMovedActivation(t *testing.T) {
	options := DefaultFrameOptions()
	options.Activation = ACTIVATION_PARAM_TARGET_MOVED
	fixture := newUsecaseFixture(t, options)
	if err := fixture.usecase.Bind(newRigAssetForUsecaseTest(t)); err != nil {
		t.Fatalf("bind failed: %v", err)
	}

	fixture.input.pointer = moutput.PointerState{X: 0.1, Y: 0, Active: true}
	if got := fixture.usecase.Frame().SolvedChainCount(); got != 1 {
		t.Fatalf("moved target should activate: got=%d", got)
	}
	fixture.input.pointer.Active = false
	if got := fixture.usecase.Frame().SolvedChainCount(); got != 0 {
		t.Fatalf("still target should not activate: got=%d", got)
	}
}

func TestIkRigUsecasePoseFollowsPointerTarget(t *testing.T) {
	fixture := newUsecaseFixture(t, alwaysActiveOptions())
	if err := fixture.usecase.Bind(newRigAssetForUsecaseTest(t)); err != nil {
		t.Fatalf("bind failed: %v", err)
	}

	report := fixture.usecase.Frame()
	result := report.Chains[0].Result
	if !result.Converged {
		t.Fatalf("arm should converge: %+v", result)
	}
	context := fixture.usecase.Context()
	hand, _ := context.Skeleton.GetByName("hand")
	target := context.Chains[0].Chain.Target.Load()
	if math.Abs(target.Z) > 1e-9 || math.Abs(target.Y-1.5) > 1e-6 || target.X <= 1 {
		t.Fatalf("pointer should be projected onto target plane: got=%v", target)
	}
	if got := context.Skeleton.WorldPosition(hand.Index()); got.Distance(target) > 0.02 {
		t.Fatalf("hand should reach target: got=%v want=%v", got, target)
	}

	proxyBody := fixture.world.bodies[1]
	if proxyBody.Name() != "hand_proxy" || proxyBody.Kind() != physics.BODY_KIND_KINEMATIC {
		t.Fatalf("proxy body mismatch: name=%s kind=%v", proxyBody.Name(), proxyBody.Kind())
	}
	if !proxyBody.Position().NearEquals(context.Skeleton.WorldPosition(hand.Index()), 1e-9) {
		t.Fatalf("proxy should follow hand: got=%v want=%v", proxyBody.Position(), context.Skeleton.WorldPosition(hand.Index()))
	}

	scene := fixture.renderer.scenes[len(fixture.renderer.scenes)-1]
	if len(scene.Bones) != context.Skeleton.Len() || len(scene.Bodies) != 2 || len(scene.Targets) != 1 {
		t.Fatalf("scene mismatch: bones=%d bodies=%d targets=%d", len(scene.Bones), len(scene.Bodies), len(scene.Targets))
	}
	if !scene.Vertices[0].NearEquals(context.Skeleton.WorldPosition(hand.Index()), 1e-6) {
		t.Fatalf("skinned vertex should follow hand: got=%v", scene.Vertices[0])
	}
}

func TestIkRigUsecaseAnimationOverwritesIkOnSharedBone(t *testing.T) {
	options := alwaysActiveOptions()
	options.TriggerClip = "hold"
	fixture := newUsecaseFixture(t, options)
	asset := newRigAssetForUsecaseTest(t)
	held := mmath.NewQuaternionFromAxisAngle(mmath.UNIT_Z_VEC3, math.Pi/8)
	asset.Clips = []*animation.Clip{
		animation.NewClip("hold", []animation.BoneTrack{
			{BoneName: "elbow", Keyframes: []animation.Keyframe{{Time: 0, Rotation: held}}},
		}),
	}
	if err := fixture.usecase.Bind(asset); err != nil {
		t.Fatalf("bind failed: %v", err)
	}

	report := fixture.usecase.Frame()
	if report.SolvedChainCount() != 1 {
		t.Fatalf("chain should be solved: got=%d", report.SolvedChainCount())
	}
	elbow, _ := fixture.usecase.Context().Skeleton.GetByName("elbow")
	if !elbow.LocalRotation.NearEquals(held, 1e-9) {
		t.Fatalf("animation should overwrite ik on shared bone: got=%v want=%v", elbow.LocalRotation, held)
	}
}

func TestIkRigUsecaseParallelSolve(t *testing.T) {
	options := alwaysActiveOptions()
	options.ParallelSolve = true
	fixture := newUsecaseFixture(t, options)
	asset := newRigAssetForUsecaseTest(t)
	asset.Chains = append(asset.Chains, rig.ChainSpec{Name: "tail", BoneNames: []string{"tail_tip", "tail_root"}})
	if err := fixture.usecase.Bind(asset); err != nil {
		t.Fatalf("bind failed: %v", err)
	}

	report := fixture.usecase.Frame()
	if report.SolvedChainCount() != 2 {
		t.Fatalf("both chains should be solved: got=%d", report.SolvedChainCount())
	}
	if !report.Chains[0].Result.Converged {
		t.Fatalf("arm should converge: %+v", report.Chains[0].Result)
	}
	if report.Chains[1].Result.Reachable || !report.Chains[1].Result.Mutated {
		t.Fatalf("tail target is out of reach and should be stretched: %+v", report.Chains[1].Result)
	}
	if report.ConvergedChainCount() != 1 {
		t.Fatalf("converged chain count mismatch: got=%d want=1", report.ConvergedChainCount())
	}
}

func TestIkRigUsecaseParallelSolveRejectsSharedBones(t *testing.T) {
	options := alwaysActiveOptions()
	options.ParallelSolve = true
	fixture := newUsecaseFixture(t, options)
	asset := newRigAssetForUsecaseTest(t)
	asset.Chains = append(asset.Chains, rig.ChainSpec{Name: "forearm", BoneNames: []string{"wrist", "elbow"}})

	err := fixture.usecase.Bind(asset)
	var setupErr *merrors.SetupError
	if !errors.As(err, &setupErr) || setupErr.Reason != model.RigWarningChainBoneOverlap {
		t.Fatalf("overlapping chains should fail: %v", err)
	}
}

func TestIkRigUsecaseBindFailsWithMissingTriggerClip(t *testing.T) {
	options := DefaultFrameOptions()
	options.TriggerClip = "missing"
	fixture := newUsecaseFixture(t, options)

	err := fixture.usecase.Bind(newRigAssetForUsecaseTest(t))
	var setupErr *merrors.SetupError
	if !errors.As(err, &setupErr) || setupErr.Reason != model.RigWarningTriggerClipMissing {
		t.Fatalf("missing trigger clip should fail: %v", err)
	}
	if len(fixture.world.bodies) != 0 {
		t.Fatalf("no body should remain after failure: got=%d", len(fixture.world.bodies))
	}

	report := fixture.usecase.Frame()
	assertStages(t, report.Stages, unreadyStagesForTest)
	scene := fixture.renderer.scenes[len(fixture.renderer.scenes)-1]
	if len(scene.Bodies) != 0 {
		t.Fatalf("scene should have no body after failure: got=%d", len(scene.Bodies))
	}
}

func TestIkRigUsecaseBindRemovesBodiesWhenProxyBodyFails(t *testing.T) {
	fixture := newUsecaseFixture(t, alwaysActiveOptions())
	asset := newRigAssetForUsecaseTest(t)
	asset.Bodies = append(asset.Bodies, physics.BodyDef{Name: "wall", Shape: physics.NewBoxShape(mmath.NewVec3(0.1, 2, 2))})
	fixture.world.rejectName = "hand_proxy"

	err := fixture.usecase.Bind(asset)
	var setupErr *merrors.SetupError
	if !errors.As(err, &setupErr) || setupErr.Reason != model.RigWarningBodyInvalid {
		t.Fatalf("proxy body failure should fail setup: %v", err)
	}
	if len(fixture.world.bodies) != 0 {
		t.Fatalf("added bodies should be removed: got=%d", len(fixture.world.bodies))
	}
	if fixture.usecase.Phase() != SETUP_PHASE_FAILED || fixture.usecase.Context() != nil {
		t.Fatalf("setup should be failed without context: phase=%s", fixture.usecase.Phase())
	}
}

func TestIkRigUsecaseRenderErrorDoesNotStopFrames(t *testing.T) {
	fixture := newUsecaseFixture(t, alwaysActiveOptions())
	fixture.renderer.err = errors.New("device lost")
	if err := fixture.usecase.Bind(newRigAssetForUsecaseTest(t)); err != nil {
		t.Fatalf("bind failed: %v", err)
	}

	first := fixture.usecase.Frame()
	second := fixture.usecase.Frame()
	if first.RenderErr == nil || second.RenderErr == nil {
		t.Fatalf("render error should be reported")
	}
	if second.Frame != 1 || !second.HasStage(FRAME_STAGE_RENDER) {
		t.Fatalf("frames should continue: %+v", second)
	}
}

func TestIkRigUsecaseLoadRigWaitsForResult(t *testing.T) {
	fixture := newUsecaseFixture(t, alwaysActiveOptions())
	fixture.loader.results <- moutput.AssetLoadResult{Asset: newRigAssetForUsecaseTest(t)}

	asset, err := fixture.usecase.LoadRig(nil, "sample.yaml")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if asset == nil || asset.Model.Name != "sample" {
		t.Fatalf("asset mismatch: %+v", asset)
	}
	if len(fixture.loader.paths) != 1 || fixture.loader.paths[0] != "sample.yaml" {
		t.Fatalf("loader path mismatch: %v", fixture.loader.paths)
	}
}

func TestIkRigUsecaseLoadRigFailureMovesToFailed(t *testing.T) {
	fixture := newUsecaseFixture(t, alwaysActiveOptions())
	fixture.loader.results <- moutput.AssetLoadResult{Err: merrors.NewAssetLoadError("broken.yaml", errors.New("yaml"))}

	if _, err := fixture.usecase.LoadRig(nil, "broken.yaml"); err == nil {
		t.Fatalf("expected load error")
	}
	if fixture.usecase.Phase() != SETUP_PHASE_FAILED {
		t.Fatalf("phase mismatch: got=%s", fixture.usecase.Phase())
	}
	if !merrors.IsAssetLoadError(fixture.usecase.SetupError()) {
		t.Fatalf("setup error should be asset load error: %v", fixture.usecase.SetupError())
	}
	last := fixture.progress.events[len(fixture.progress.events)-1]
	if last != SetupProgressEventTypeFailed {
		t.Fatalf("last progress mismatch: got=%s", last)
	}

	report := fixture.usecase.Frame()
	assertStages(t, report.Stages, unreadyStagesForTest)
	if report.Frame != 0 || report.SolvedChainCount() != 0 {
		t.Fatalf("frame should run without IK: %+v", report)
	}
}

func TestParseFrameOrder(t *testing.T) {
	for _, value := range []string{"", "ik_then_animation", " IK_THEN_ANIMATION "} {
		order, err := ParseFrameOrder(value)
		if err != nil || order != FRAME_ORDER_IK_THEN_ANIMATION {
			t.Fatalf("order mismatch: value=%q got=%s err=%v", value, order, err)
		}
	}
	if _, err := ParseFrameOrder("ANIMATION_THEN_IK"); !merrors.IsConfigError(err) {
		t.Fatalf("unsupported order should be config error: %v", err)
	}
}

func TestFrameOptionsValidate(t *testing.T) {
	options := DefaultFrameOptions()
	if err := options.Validate(); err != nil {
		t.Fatalf("default options should be valid: %v", err)
	}
	options.FixedTimestep = 0
	if !merrors.IsConfigError(options.Validate()) {
		t.Fatalf("zero timestep should be config error")
	}
	options = DefaultFrameOptions()
	options.Activation = "unknown_flag"
	if !merrors.IsConfigError(options.Validate()) {
		t.Fatalf("unknown variable should be config error")
	}
}

func TestActivationGateEvaluate(t *testing.T) {
	gate, err := NewActivationGate(DefaultActivation)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	cases := []struct {
		state ActivationState
		want  bool
	}{
		{state: ActivationState{}, want: false},
		{state: ActivationState{ClipFinished: true}, want: false},
		{state: ActivationState{PointerActive: true}, want: false},
		{state: ActivationState{ClipFinished: true, PointerActive: true}, want: true},
	}
	for _, c := range cases {
		got, err := gate.Evaluate(c.state)
		if err != nil {
			t.Fatalf("evaluate failed: %v", err)
		}
		if got != c.want {
			t.Fatalf("gate mismatch: state=%+v got=%v want=%v", c.state, got, c.want)
		}
	}

	always, err := NewActivationGate("  ")
	if err != nil {
		t.Fatalf("empty expression should parse: %v", err)
	}
	if active, _ := always.Evaluate(ActivationState{}); !active {
		t.Fatalf("empty expression should always be active")
	}

	numeric, err := NewActivationGate("1 + 1")
	if err != nil {
		t.Fatalf("numeric expression should parse: %v", err)
	}
	if _, err := numeric.Evaluate(ActivationState{}); err == nil {
		t.Fatalf("non bool result should fail")
	}
}

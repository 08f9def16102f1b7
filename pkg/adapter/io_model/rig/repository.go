// 指示: miu200521358
// Package rig はYAML形式のリグアセットを読み込むリポジトリを提供する。
package rig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/miu200521358/mu_ikrig/pkg/domain/animation"
	"github.com/miu200521358/mu_ikrig/pkg/domain/mmath"
	"github.com/miu200521358/mu_ikrig/pkg/domain/model"
	"github.com/miu200521358/mu_ikrig/pkg/domain/model/merrors"
	"github.com/miu200521358/mu_ikrig/pkg/domain/physics"
	domainrig "github.com/miu200521358/mu_ikrig/pkg/domain/rig"
	"github.com/miu200521358/mu_ikrig/pkg/shared/base/logging"
	"github.com/miu200521358/mu_ikrig/pkg/usecase/port/moutput"
)

// LoadProgressEventType はリグ読込進捗イベント種別を表す。
type LoadProgressEventType string

const (
	// LoadProgressEventTypeFileReadComplete はファイル読込完了イベントを表す。
	LoadProgressEventTypeFileReadComplete LoadProgressEventType = "file_read_complete"
	// LoadProgressEventTypeYamlParsed はYAML解析完了イベントを表す。
	LoadProgressEventTypeYamlParsed LoadProgressEventType = "yaml_parsed"
	// LoadProgressEventTypeCompleted はリグ読込完了イベントを表す。
	LoadProgressEventTypeCompleted LoadProgressEventType = "completed"
)

// LoadProgressEvent はリグ読込進捗イベントを表す。
type LoadProgressEvent struct {
	Type          LoadProgressEventType
	FileSizeBytes int
	BoneCount     int
	ChainCount    int
}

// RigRepository はリグアセットYAMLの読み込みを表す。
type RigRepository struct {
	mu                   sync.RWMutex
	loadProgressReporter func(LoadProgressEvent)
}

// NewRigRepository はRigRepositoryを生成する。
func NewRigRepository() *RigRepository {
	return &RigRepository{}
}

// SetLoadProgressReporter はリグ読込進捗受信コールバックを設定する。
// LoadAsync ではコールバックは読み込み用goroutine上で呼ばれる。
// 1回の読み込みの進捗はすべて結果をチャネルへ送る前に通知し終える。
// 描画スレッドの状態に触れる場合は呼び出し側で受け渡しを同期すること。
func (r *RigRepository) SetLoadProgressReporter(reporter func(LoadProgressEvent)) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadProgressReporter = reporter
}

// CanLoad は拡張子に応じて読み込み可否を判定する。
func (r *RigRepository) CanLoad(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// LoadAsync は別goroutineで読み込みを行い、結果を1件送って閉じるチャネルを返す。
func (r *RigRepository) LoadAsync(path string) <-chan moutput.AssetLoadResult {
	results := make(chan moutput.AssetLoadResult, 1)
	go func() {
		defer close(results)
		asset, err := r.Load(path)
		results <- moutput.AssetLoadResult{Asset: asset, Err: err}
	}()
	return results
}

// Load はリグアセットを読み込む。失敗は AssetLoadError で返す。
func (r *RigRepository) Load(path string) (*domainrig.RigAsset, error) {
	if !r.CanLoad(path) {
		return nil, merrors.NewAssetLoadError(path, fmt.Errorf("拡張子が未対応です"))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, merrors.NewAssetLoadError(path, err)
	}
	r.reportLoadProgress(LoadProgressEvent{Type: LoadProgressEventTypeFileReadComplete, FileSizeBytes: len(data)})

	asset, err := r.Parse(path, data)
	if err != nil {
		return nil, err
	}
	r.reportLoadProgress(LoadProgressEvent{
		Type:       LoadProgressEventTypeCompleted,
		BoneCount:  asset.Model.Skeleton.Len(),
		ChainCount: len(asset.Chains),
	})
	if logger := logging.DefaultLogger(); logger != nil {
		logger.Info("リグアセット読み込み完了: path=%s bones=%d chains=%d", path, asset.Model.Skeleton.Len(), len(asset.Chains))
	}
	return asset, nil
}

// Parse はYAMLをリグアセットへ変換する。
func (r *RigRepository) Parse(path string, data []byte) (*domainrig.RigAsset, error) {
	var doc rigDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, merrors.NewAssetLoadError(path, fmt.Errorf("YAML解析に失敗しました: %w", err))
	}
	r.reportLoadProgress(LoadProgressEvent{
		Type:       LoadProgressEventTypeYamlParsed,
		BoneCount:  len(doc.Bones),
		ChainCount: len(doc.Chains),
	})

	asset, err := buildAsset(path, doc)
	if err != nil {
		return nil, merrors.NewAssetLoadError(path, err)
	}
	return asset, nil
}

// reportLoadProgress はリグ読込進捗を通知する。
func (r *RigRepository) reportLoadProgress(event LoadProgressEvent) {
	if r == nil {
		return
	}
	r.mu.RLock()
	reporter := r.loadProgressReporter
	r.mu.RUnlock()
	if reporter == nil {
		return
	}
	reporter(event)
}

// buildAsset は文書からリグアセットを組み立てる。
func buildAsset(path string, doc rigDocument) (*domainrig.RigAsset, error) {
	skeleton, err := buildSkeleton(doc.Bones)
	if err != nil {
		return nil, err
	}
	meshes, err := buildMeshes(skeleton, doc.Meshes)
	if err != nil {
		return nil, err
	}
	name := doc.Name
	if strings.TrimSpace(name) == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	asset := &domainrig.RigAsset{
		Model: &model.RigModel{
			Name:     name,
			Path:     path,
			Skeleton: skeleton,
			Meshes:   meshes,
		},
	}
	for _, chainDoc := range doc.Chains {
		chain, err := buildChainSpec(chainDoc)
		if err != nil {
			return nil, err
		}
		asset.Chains = append(asset.Chains, chain)
	}
	for _, proxyDoc := range doc.Proxies {
		shape, err := buildShape(proxyDoc.Shape)
		if err != nil {
			return nil, fmt.Errorf("proxy=%s: %w", proxyDoc.Name, err)
		}
		offset, err := optionalVec3(proxyDoc.Offset, mmath.ZERO_VEC3)
		if err != nil {
			return nil, fmt.Errorf("proxy=%s offset: %w", proxyDoc.Name, err)
		}
		asset.Proxies = append(asset.Proxies, physics.ProxyDef{
			Name:     proxyDoc.Name,
			BoneName: proxyDoc.Bone,
			Shape:    shape,
			Offset:   offset,
		})
	}
	for _, bodyDoc := range doc.Bodies {
		body, err := buildBodyDef(bodyDoc)
		if err != nil {
			return nil, err
		}
		asset.Bodies = append(asset.Bodies, body)
	}
	for _, clipDoc := range doc.Clips {
		clip, err := buildClip(clipDoc)
		if err != nil {
			return nil, err
		}
		asset.Clips = append(asset.Clips, clip)
	}
	return asset, nil
}

// buildSkeleton はボーン定義からバインド姿勢を確定したスケルトンを生成する。
func buildSkeleton(docs []boneDocument) (*model.Skeleton, error) {
	skeleton := model.NewSkeleton()
	for _, doc := range docs {
		parentIndex := -1
		if strings.TrimSpace(doc.Parent) != "" {
			parent, ok := skeleton.GetByName(doc.Parent)
			if !ok {
				return nil, fmt.Errorf("親ボーンが見つかりません: bone=%s parent=%s", doc.Name, doc.Parent)
			}
			parentIndex = parent.Index()
		}
		position, err := optionalVec3(doc.Position, mmath.ZERO_VEC3)
		if err != nil {
			return nil, fmt.Errorf("bone=%s position: %w", doc.Name, err)
		}
		bone := model.NewBone(doc.Name, parentIndex, position)
		rotation, err := optionalRotation(doc.Rotation)
		if err != nil {
			return nil, fmt.Errorf("bone=%s rotation: %w", doc.Name, err)
		}
		bone.LocalRotation = rotation
		if err := skeleton.Append(bone); err != nil {
			return nil, err
		}
	}
	skeleton.SetupBindPose()
	return skeleton, nil
}

// buildMeshes はメッシュ定義を生成する。ウェイト対象はボーン名で参照する。
func buildMeshes(skeleton *model.Skeleton, docs []meshDocument) ([]*model.SkinnedMesh, error) {
	meshes := make([]*model.SkinnedMesh, 0, len(docs))
	for _, doc := range docs {
		mesh := &model.SkinnedMesh{Name: doc.Name, Skinned: doc.Skinned}
		for i, vertexDoc := range doc.Vertices {
			position, err := vec3Of(vertexDoc.Position)
			if err != nil {
				return nil, fmt.Errorf("mesh=%s vertex=%d: %w", doc.Name, i, err)
			}
			if len(vertexDoc.Bones) != len(vertexDoc.Weights) {
				return nil, fmt.Errorf("ウェイト数が一致しません: mesh=%s vertex=%d", doc.Name, i)
			}
			vertex := model.Vertex{Position: position, Weights: vertexDoc.Weights}
			for _, boneName := range vertexDoc.Bones {
				bone, ok := skeleton.GetByName(boneName)
				if !ok {
					return nil, fmt.Errorf("ウェイト対象ボーンが見つかりません: mesh=%s bone=%s", doc.Name, boneName)
				}
				vertex.BoneIndexes = append(vertex.BoneIndexes, bone.Index())
			}
			mesh.Vertices = append(mesh.Vertices, vertex)
		}
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

// buildChainSpec はチェーン定義を生成する。ボーン名の解決は結合時に行う。
func buildChainSpec(doc chainDocument) (domainrig.ChainSpec, error) {
	spec := domainrig.ChainSpec{
		Name:                     doc.Name,
		BoneNames:                doc.Bones,
		IterationCount:           doc.Iterations,
		SquaredDistanceThreshold: doc.Threshold,
		Activation:               doc.Activation,
		Constraints:              map[string]model.JointConstraint{},
	}
	if len(doc.ReferenceAxis) > 0 {
		axis, err := vec3Of(doc.ReferenceAxis)
		if err != nil {
			return spec, fmt.Errorf("chain=%s referenceAxis: %w", doc.Name, err)
		}
		spec.ReferenceAxis = &axis
	}
	for boneName, constraintDoc := range doc.Constraints {
		constraint, err := buildConstraint(constraintDoc)
		if err != nil {
			return spec, fmt.Errorf("chain=%s constraint=%s: %w", doc.Name, boneName, err)
		}
		spec.Constraints[boneName] = constraint
	}
	return spec, nil
}

// buildConstraint は度指定のボールソケット制約を生成する。
func buildConstraint(doc constraintDocument) (model.JointConstraint, error) {
	polar, err := angleRangeOf(doc.Polar)
	if err != nil {
		return model.JointConstraint{}, fmt.Errorf("polar: %w", err)
	}
	var twist, azimuth *model.AngleRange
	if len(doc.Twist) > 0 {
		value, err := angleRangeOf(doc.Twist)
		if err != nil {
			return model.JointConstraint{}, fmt.Errorf("twist: %w", err)
		}
		twist = &value
	}
	if len(doc.Azimuth) > 0 {
		value, err := angleRangeOf(doc.Azimuth)
		if err != nil {
			return model.JointConstraint{}, fmt.Errorf("azimuth: %w", err)
		}
		azimuth = &value
	}
	return model.NewBallSocketConstraint(polar, twist, azimuth), nil
}

// buildShape は形状定義を生成する。
func buildShape(doc shapeDocument) (physics.Shape, error) {
	shapeType, err := physics.ParseShapeType(strings.ToLower(strings.TrimSpace(doc.Type)))
	if err != nil {
		return physics.Shape{}, err
	}
	var shape physics.Shape
	switch shapeType {
	case physics.SHAPE_BOX:
		halfExtents, err := vec3Of(doc.HalfExtents)
		if err != nil {
			return physics.Shape{}, fmt.Errorf("halfExtents: %w", err)
		}
		shape = physics.NewBoxShape(halfExtents)
	case physics.SHAPE_SPHERE:
		shape = physics.NewSphereShape(doc.Radius)
	case physics.SHAPE_PLANE:
		normal, err := optionalVec3(doc.Normal, mmath.UNIT_Y_VEC3)
		if err != nil {
			return physics.Shape{}, fmt.Errorf("normal: %w", err)
		}
		shape = physics.NewPlaneShape(normal, doc.Offset)
	}
	if err := shape.Validate(); err != nil {
		return physics.Shape{}, err
	}
	return shape, nil
}

// buildBodyDef は剛体定義を生成する。
func buildBodyDef(doc bodyDocument) (physics.BodyDef, error) {
	shape, err := buildShape(doc.Shape)
	if err != nil {
		return physics.BodyDef{}, fmt.Errorf("body=%s: %w", doc.Name, err)
	}
	position, err := optionalVec3(doc.Position, mmath.ZERO_VEC3)
	if err != nil {
		return physics.BodyDef{}, fmt.Errorf("body=%s position: %w", doc.Name, err)
	}
	orientation, err := optionalRotation(doc.Rotation)
	if err != nil {
		return physics.BodyDef{}, fmt.Errorf("body=%s rotation: %w", doc.Name, err)
	}
	def := physics.BodyDef{
		Name:        doc.Name,
		Shape:       shape,
		Mass:        doc.Mass,
		Kinematic:   doc.Kinematic,
		Position:    position,
		Orientation: orientation,
	}
	if err := def.Validate(); err != nil {
		return physics.BodyDef{}, err
	}
	return def, nil
}

// buildClip はクリップを生成する。トラック対象ボーンの解決はミキサー登録時に行う。
func buildClip(doc clipDocument) (*animation.Clip, error) {
	if strings.TrimSpace(doc.Name) == "" {
		return nil, fmt.Errorf("クリップ名が未指定です")
	}
	tracks := make([]animation.BoneTrack, 0, len(doc.Tracks))
	for _, trackDoc := range doc.Tracks {
		track := animation.BoneTrack{BoneName: trackDoc.Bone}
		for i, keyDoc := range trackDoc.Keyframes {
			rotation, err := optionalRotation(keyDoc.Rotation)
			if err != nil {
				return nil, fmt.Errorf("clip=%s bone=%s key=%d: %w", doc.Name, trackDoc.Bone, i, err)
			}
			keyframe := animation.Keyframe{Time: keyDoc.Time, Rotation: rotation}
			if len(keyDoc.Position) > 0 {
				position, err := vec3Of(keyDoc.Position)
				if err != nil {
					return nil, fmt.Errorf("clip=%s bone=%s key=%d: %w", doc.Name, trackDoc.Bone, i, err)
				}
				keyframe.Position = &position
			}
			track.Keyframes = append(track.Keyframes, keyframe)
		}
		tracks = append(tracks, track)
	}
	return animation.NewClip(doc.Name, tracks), nil
}

// vec3Of は3要素の配列をベクトルへ変換する。
func vec3Of(values []float64) (mmath.Vec3, error) {
	if len(values) != 3 {
		return mmath.ZERO_VEC3, fmt.Errorf("3要素が必要です: %v", values)
	}
	vector := mmath.NewVec3(values[0], values[1], values[2])
	if !vector.IsFinite() {
		return mmath.ZERO_VEC3, fmt.Errorf("有限値が必要です: %v", values)
	}
	return vector, nil
}

// optionalVec3 は未指定なら既定値を返す。
func optionalVec3(values []float64, fallback mmath.Vec3) (mmath.Vec3, error) {
	if len(values) == 0 {
		return fallback, nil
	}
	return vec3Of(values)
}

// optionalRotation はオイラー角(度)から回転を生成する。未指定なら単位回転。
func optionalRotation(values []float64) (mmath.Quaternion, error) {
	if len(values) == 0 {
		return mmath.NewQuaternion(), nil
	}
	degrees, err := vec3Of(values)
	if err != nil {
		return mmath.NewQuaternion(), err
	}
	return mmath.NewQuaternionFromDegrees(degrees.X, degrees.Y, degrees.Z), nil
}

// angleRangeOf は度指定の [min, max] を角度範囲へ変換する。
func angleRangeOf(values []float64) (model.AngleRange, error) {
	if len(values) != 2 {
		return model.AngleRange{}, fmt.Errorf("[min, max] の2要素が必要です: %v", values)
	}
	if values[0] > values[1] {
		return model.AngleRange{}, fmt.Errorf("最小値が最大値を超えています: %v", values)
	}
	return model.NewAngleRangeDegrees(values[0], values[1]), nil
}

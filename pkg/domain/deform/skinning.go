// 指示: miu200521358
package deform

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/miu200521358/mu_ikrig/pkg/domain/mmath"
	"github.com/miu200521358/mu_ikrig/pkg/domain/model"
)

// SkinVertices はスキニング行列の線形ブレンドで頂点のワールド位置を算出する。
// ウェイトを持たない頂点はバインド位置のまま返す。
func SkinVertices(skeleton *model.Skeleton, mesh *model.SkinnedMesh) []mmath.Vec3 {
	if mesh == nil {
		return nil
	}
	positions := make([]mmath.Vec3, len(mesh.Vertices))
	matrices := map[int]mgl64.Mat4{}
	for i, vertex := range mesh.Vertices {
		positions[i] = skinVertex(skeleton, vertex, matrices)
	}
	return positions
}

// skinVertex は1頂点を変形する。matrices はボーンごとのスキニング行列キャッシュ。
func skinVertex(skeleton *model.Skeleton, vertex model.Vertex, matrices map[int]mgl64.Mat4) mmath.Vec3 {
	totalWeight := 0.0
	for i, boneIndex := range vertex.BoneIndexes {
		if i >= len(vertex.Weights) || boneIndex < 0 || boneIndex >= skeleton.Len() {
			continue
		}
		totalWeight += vertex.Weights[i]
	}
	if totalWeight <= mmath.Epsilon {
		return vertex.Position
	}

	skinned := mmath.ZERO_VEC3
	for i, boneIndex := range vertex.BoneIndexes {
		if i >= len(vertex.Weights) || boneIndex < 0 || boneIndex >= skeleton.Len() {
			continue
		}
		matrix, ok := matrices[boneIndex]
		if !ok {
			matrix = skeleton.SkinningMatrix(boneIndex)
			matrices[boneIndex] = matrix
		}
		weight := vertex.Weights[i] / totalWeight
		skinned = skinned.Added(mmath.MulMat4Vec3(matrix, vertex.Position).MuledScalar(weight))
	}
	return skinned
}

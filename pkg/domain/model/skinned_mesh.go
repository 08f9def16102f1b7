// 指示: miu200521358
package model

import "github.com/miu200521358/mu_ikrig/pkg/domain/mmath"

// Vertex はスキンメッシュの頂点を表す。
type Vertex struct {
	Position    mmath.Vec3
	BoneIndexes []int
	Weights     []float64
}

// SkinnedMesh はボーン階層で変形するメッシュを表す。
type SkinnedMesh struct {
	Name     string
	Skinned  bool
	Vertices []Vertex
}

// RigModel は読み込んだリグアセット(シーングラフ)を表す。
type RigModel struct {
	Name     string
	Path     string
	Skeleton *Skeleton
	Meshes   []*SkinnedMesh
}

// SkinnedMesh は最初のスキンメッシュを返す。
func (m *RigModel) SkinnedMesh() (*SkinnedMesh, bool) {
	if m == nil {
		return nil, false
	}
	for _, mesh := range m.Meshes {
		if mesh != nil && mesh.Skinned {
			return mesh, true
		}
	}
	return nil, false
}

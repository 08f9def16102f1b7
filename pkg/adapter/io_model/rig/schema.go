// 指示: miu200521358
package rig

// rigDocument はリグアセットYAMLの最上位を表す。
type rigDocument struct {
	Name    string          `yaml:"name"`
	Bones   []boneDocument  `yaml:"bones"`
	Meshes  []meshDocument  `yaml:"meshes"`
	Chains  []chainDocument `yaml:"chains"`
	Proxies []proxyDocument `yaml:"proxies"`
	Bodies  []bodyDocument  `yaml:"bodies"`
	Clips   []clipDocument  `yaml:"clips"`
}

// boneDocument はボーン定義を表す。親は名前で参照し、親を先に並べる。
type boneDocument struct {
	Name     string    `yaml:"name"`
	Parent   string    `yaml:"parent"`
	Position []float64 `yaml:"position"`
	// Rotation はオイラー角(度)。
	Rotation []float64 `yaml:"rotation"`
}

type meshDocument struct {
	Name     string           `yaml:"name"`
	Skinned  bool             `yaml:"skinned"`
	Vertices []vertexDocument `yaml:"vertices"`
}

type vertexDocument struct {
	Position []float64 `yaml:"position"`
	Bones    []string  `yaml:"bones"`
	Weights  []float64 `yaml:"weights"`
}

// chainDocument はIKチェーン定義を表す。bones はエフェクタからルートへの順。
type chainDocument struct {
	Name          string                        `yaml:"name"`
	Bones         []string                      `yaml:"bones"`
	Iterations    int                           `yaml:"iterations"`
	Threshold     float64                       `yaml:"threshold"`
	ReferenceAxis []float64                     `yaml:"referenceAxis"`
	Activation    string                        `yaml:"activation"`
	Constraints   map[string]constraintDocument `yaml:"constraints"`
}

// constraintDocument はボールソケット制約を度で表す。
type constraintDocument struct {
	Polar   []float64 `yaml:"polar"`
	Twist   []float64 `yaml:"twist"`
	Azimuth []float64 `yaml:"azimuth"`
}

type shapeDocument struct {
	Type        string    `yaml:"type"`
	HalfExtents []float64 `yaml:"halfExtents"`
	Radius      float64   `yaml:"radius"`
	Normal      []float64 `yaml:"normal"`
	Offset      float64   `yaml:"offset"`
}

type proxyDocument struct {
	Name   string        `yaml:"name"`
	Bone   string        `yaml:"bone"`
	Shape  shapeDocument `yaml:"shape"`
	Offset []float64     `yaml:"offset"`
}

type bodyDocument struct {
	Name      string        `yaml:"name"`
	Shape     shapeDocument `yaml:"shape"`
	Mass      float64       `yaml:"mass"`
	Kinematic bool          `yaml:"kinematic"`
	Position  []float64     `yaml:"position"`
	Rotation  []float64     `yaml:"rotation"`
}

type clipDocument struct {
	Name   string          `yaml:"name"`
	Tracks []trackDocument `yaml:"tracks"`
}

type trackDocument struct {
	Bone      string             `yaml:"bone"`
	Keyframes []keyframeDocument `yaml:"keyframes"`
}

type keyframeDocument struct {
	Time     float64   `yaml:"time"`
	Rotation []float64 `yaml:"rotation"`
	Position []float64 `yaml:"position"`
}

// 指示: miu200521358
// Package config はYAML設定ファイルの読み込みと検証を提供する。
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/miu200521358/mu_ikrig/pkg/domain/deform"
	"github.com/miu200521358/mu_ikrig/pkg/domain/mmath"
	"github.com/miu200521358/mu_ikrig/pkg/domain/model/merrors"
	"github.com/miu200521358/mu_ikrig/pkg/shared/base/logging"
	"github.com/miu200521358/mu_ikrig/pkg/usecase/minteractor"
)

const (
	// DefaultVelocityIterations は速度ソルバー反復回数の既定値。
	DefaultVelocityIterations = 8
	// DefaultPositionIterations は位置ソルバー反復回数の既定値。
	DefaultPositionIterations = 3
	// DefaultLanguage は既定の表示言語。
	DefaultLanguage = "ja"
)

// PhysicsConfig は物理ワールドの設定を表す。
type PhysicsConfig struct {
	Gravity            []float64 `yaml:"gravity"`
	VelocityIterations int       `yaml:"velocityIterations"`
	PositionIterations int       `yaml:"positionIterations"`
}

// LogConfig はログ出力の設定を表す。
type LogConfig struct {
	Level   string   `yaml:"level"`
	Verbose []string `yaml:"verbose"`
}

// CameraConfig はポインタ投影に使うカメラの設定を表す。
type CameraConfig struct {
	Eye        []float64 `yaml:"eye"`
	Center     []float64 `yaml:"center"`
	FovDegrees float64   `yaml:"fovDegrees"`
	Aspect     float64   `yaml:"aspect"`
}

// Config はアプリケーション設定を表す。
type Config struct {
	FixedTimestep  float64       `yaml:"fixedTimestep"`
	Ordering       string        `yaml:"ordering"`
	ParallelSolve  bool          `yaml:"parallelSolve"`
	Activation     string        `yaml:"activation"`
	TriggerClip    string        `yaml:"triggerClip"`
	EffectorPolicy string        `yaml:"effectorPolicy"`
	Physics        PhysicsConfig `yaml:"physics"`
	Log            LogConfig     `yaml:"log"`
	Language       string        `yaml:"language"`
	Camera         CameraConfig  `yaml:"camera"`
	TargetPlaneZ   float64       `yaml:"targetPlaneZ"`
}

// Default は既定設定を返す。
func Default() *Config {
	return &Config{
		FixedTimestep:  minteractor.DefaultFixedTimestep,
		Ordering:       string(minteractor.FRAME_ORDER_IK_THEN_ANIMATION),
		Activation:     minteractor.DefaultActivation,
		EffectorPolicy: "keep",
		Physics: PhysicsConfig{
			Gravity:            []float64{0, -9.8, 0},
			VelocityIterations: DefaultVelocityIterations,
			PositionIterations: DefaultPositionIterations,
		},
		Log: LogConfig{
			Level:   logging.LOG_LEVEL_INFO.String(),
			Verbose: []string{},
		},
		Language: DefaultLanguage,
		Camera: CameraConfig{
			Eye:        []float64{0, 1.5, 6},
			Center:     []float64{0, 1.5, 0},
			FovDegrees: 45,
			Aspect:     16.0 / 9.0,
		},
	}
}

// Load は設定ファイルを読み込む。パスが空の場合は既定設定を返す。
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("設定ファイルが見つかりません: %s: %w", path, err)
		}
		return nil, fmt.Errorf("設定ファイルの読み込みに失敗しました: %s: %w", path, err)
	}
	return Parse(data)
}

// Parse はYAMLを既定設定へ重ねて解析し、検証する。
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("設定ファイルの解析に失敗しました: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate は設定値を検証する。
func (c *Config) Validate() error {
	if c.FixedTimestep <= 0 {
		return merrors.NewConfigError("fixedTimestep", fmt.Sprintf("正の値が必要です: %f", c.FixedTimestep))
	}
	if _, err := minteractor.ParseFrameOrder(c.Ordering); err != nil {
		return err
	}
	if _, err := minteractor.NewActivationGate(c.Activation); err != nil {
		return merrors.NewConfigError("activation", err.Error())
	}
	if _, err := deform.ParseEffectorPolicy(c.EffectorPolicy); err != nil {
		return merrors.NewConfigError("effectorPolicy", err.Error())
	}
	if _, err := vec3Of("physics.gravity", c.Physics.Gravity); err != nil {
		return err
	}
	if c.Physics.VelocityIterations <= 0 || c.Physics.PositionIterations <= 0 {
		return merrors.NewConfigError("physics", fmt.Sprintf(
			"反復回数は正の値が必要です: velocity=%d position=%d",
			c.Physics.VelocityIterations, c.Physics.PositionIterations,
		))
	}
	if _, err := logging.ParseLogLevel(c.Log.Level); err != nil {
		return merrors.NewConfigError("log.level", err.Error())
	}
	for _, name := range c.Log.Verbose {
		if _, err := logging.ParseVerboseIndex(name); err != nil {
			return merrors.NewConfigError("log.verbose", err.Error())
		}
	}
	if _, err := vec3Of("camera.eye", c.Camera.Eye); err != nil {
		return err
	}
	if _, err := vec3Of("camera.center", c.Camera.Center); err != nil {
		return err
	}
	return nil
}

// Gravity は重力ベクトルを返す。
func (c *Config) Gravity() mmath.Vec3 {
	gravity, _ := vec3Of("physics.gravity", c.Physics.Gravity)
	return gravity
}

// FrameOptions はフレーム処理の設定へ変換する。
func (c *Config) FrameOptions() (minteractor.FrameOptions, error) {
	if err := c.Validate(); err != nil {
		return minteractor.FrameOptions{}, err
	}
	order, _ := minteractor.ParseFrameOrder(c.Ordering)
	policy, _ := deform.ParseEffectorPolicy(c.EffectorPolicy)
	eye, _ := vec3Of("camera.eye", c.Camera.Eye)
	center, _ := vec3Of("camera.center", c.Camera.Center)

	options := minteractor.DefaultFrameOptions()
	options.FixedTimestep = c.FixedTimestep
	options.Order = order
	options.ParallelSolve = c.ParallelSolve
	options.Activation = c.Activation
	options.TriggerClip = strings.TrimSpace(c.TriggerClip)
	options.EffectorPolicy = policy
	options.Camera = mmath.NewCamera(eye, center, c.Camera.FovDegrees, c.Camera.Aspect)
	options.TargetPlane = minteractor.TargetPlane{
		Point:  mmath.NewVec3(0, 0, c.TargetPlaneZ),
		Normal: mmath.UNIT_Z_VEC3,
	}
	return options, nil
}

// ApplyLogging はログ設定をロガーへ反映する。
func (c *Config) ApplyLogging(logger logging.ILogger) error {
	if logger == nil {
		return nil
	}
	level, err := logging.ParseLogLevel(c.Log.Level)
	if err != nil {
		return merrors.NewConfigError("log.level", err.Error())
	}
	logger.SetLevel(level)
	for _, name := range c.Log.Verbose {
		index, err := logging.ParseVerboseIndex(name)
		if err != nil {
			return merrors.NewConfigError("log.verbose", err.Error())
		}
		logger.EnableVerbose(index, true)
	}
	return nil
}

// vec3Of は3要素の配列をベクトルへ変換する。
func vec3Of(key string, values []float64) (mmath.Vec3, error) {
	if len(values) != 3 {
		return mmath.ZERO_VEC3, merrors.NewConfigError(key, fmt.Sprintf("3要素が必要です: %v", values))
	}
	vector := mmath.NewVec3(values[0], values[1], values[2])
	if !vector.IsFinite() {
		return mmath.ZERO_VEC3, merrors.NewConfigError(key, fmt.Sprintf("有限値が必要です: %v", values))
	}
	return vector, nil
}

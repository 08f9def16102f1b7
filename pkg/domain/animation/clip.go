// 指示: miu200521358
// Package animation はキーフレームアニメーションのクリップとミキサーを提供する。
package animation

import (
	"sort"

	"github.com/miu200521358/mu_ikrig/pkg/domain/mmath"
)

// Keyframe はボーン1本分のキーフレームを表す。
type Keyframe struct {
	// Time はクリップ先頭からの秒数。
	Time     float64
	Rotation mmath.Quaternion
	// Position は未指定の場合ローカル位置を変更しない。
	Position *mmath.Vec3
}

// BoneTrack はボーン名に紐づくキーフレーム列を表す。
type BoneTrack struct {
	BoneName  string
	Keyframes []Keyframe
}

// Sample は指定時刻の回転と位置を補間して返す。
func (t BoneTrack) Sample(time float64) (mmath.Quaternion, *mmath.Vec3) {
	keys := t.Keyframes
	if len(keys) == 0 {
		return mmath.NewQuaternion(), nil
	}
	if time <= keys[0].Time {
		return keys[0].Rotation, keys[0].Position
	}
	last := keys[len(keys)-1]
	if time >= last.Time {
		return last.Rotation, last.Position
	}

	next := sort.Search(len(keys), func(i int) bool { return keys[i].Time > time })
	prev := keys[next-1]
	current := keys[next]
	span := current.Time - prev.Time
	ratio := 0.0
	if span > 0 {
		ratio = (time - prev.Time) / span
	}

	rotation := prev.Rotation.Slerp(current.Rotation, ratio)
	var position *mmath.Vec3
	switch {
	case prev.Position != nil && current.Position != nil:
		lerped := prev.Position.Lerp(*current.Position, ratio)
		position = &lerped
	case prev.Position != nil:
		position = prev.Position
	case current.Position != nil:
		position = current.Position
	}
	return rotation, position
}

// Clip はアニメーションクリップを表す。
type Clip struct {
	Name     string
	Duration float64
	Tracks   []BoneTrack
}

// NewClip はトラックをキー時刻順に整列し、最終キー時刻を長さとしてクリップを生成する。
func NewClip(name string, tracks []BoneTrack) *Clip {
	duration := 0.0
	sortedTracks := make([]BoneTrack, 0, len(tracks))
	for _, track := range tracks {
		keys := make([]Keyframe, len(track.Keyframes))
		copy(keys, track.Keyframes)
		sort.SliceStable(keys, func(i, j int) bool { return keys[i].Time < keys[j].Time })
		if len(keys) > 0 && keys[len(keys)-1].Time > duration {
			duration = keys[len(keys)-1].Time
		}
		sortedTracks = append(sortedTracks, BoneTrack{BoneName: track.BoneName, Keyframes: keys})
	}
	return &Clip{Name: name, Duration: duration, Tracks: sortedTracks}
}

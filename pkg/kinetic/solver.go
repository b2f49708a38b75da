package kinetic

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/miu200521358/pose-kinetic/pkg/mlog"
	"github.com/miu200521358/pose-kinetic/pkg/model"
)

var zeroVec = mgl64.Vec3{}

// Options はソルバの調整値
type Options struct {
	// BoneLengthWindow はボーン長推定に使う履歴サンプル数(奇数)。
	// 1 なら履歴を持たず、その場の距離をそのまま使う
	BoneLengthWindow int
}

// Converter は疎で不安定な3D関節座標と、階層的なローカル関節回転との
// 相互変換を行う。1インスタンスが1ストリームの状態キャッシュを持ち、
// 並行アクセスは想定しない(ストリームごとに専有すること)。
type Converter struct {
	opts Options

	positions  [jointCount]mgl64.Vec3
	visibility [jointCount]float64
	available  [jointCount]bool

	boneHistory  [jointCount][]float64
	boneLengths  [jointCount]float64
	boneKnown    [jointCount]bool
	baseSkeleton [jointCount]mgl64.Vec3
	baseKnown    [jointCount]bool

	rootTrajectory mgl64.Vec3
}

func NewConverter(opts Options) *Converter {
	if opts.BoneLengthWindow < 1 {
		opts.BoneLengthWindow = 1
	}
	return &Converter{opts: opts}
}

// Forward は1フレーム分の関節座標をローカル回転(四元数)へ変換する。
// ルートと四肢アンカーのいずれも揃わないフレームは空マップを返す。
// これはエラーではなく、トラッキングが一時的に途切れた正常な状態。
func (c *Converter) Forward(coordinates map[Joint]model.PositionVisibility) map[Joint]model.Quaternion {
	c.ingest(coordinates)
	c.deriveComposites()

	if !c.hasMinimumJoints() {
		mlog.W("insufficient joint data for angle calculation")
		return map[Joint]model.Quaternion{}
	}

	// ボーン長とベーススケルトンは毎フレーム再計算する。
	// トラッキングが揺れるため、変化検知による省略は数値出力を変えてしまう
	c.estimateBoneLengths()
	c.buildBaseSkeleton()

	rotations := c.solveJointAngles()

	c.rootTrajectory = c.positions[HipCentre]

	result := make(map[Joint]model.Quaternion, len(rotations))
	for j, e := range rotations {
		result[j] = e.Quaternion(c.visibility[j])
	}
	return result
}

// ingest は座標を検証して取り込む。NaN成分を含むジョイントは
// このフレームでは「利用不可」として黙って落とす
func (c *Converter) ingest(coordinates map[Joint]model.PositionVisibility) {
	for j := Joint(0); j < jointCount; j++ {
		c.available[j] = false
		c.visibility[j] = 0
	}
	for j, pos := range coordinates {
		if j >= jointCount {
			continue
		}
		if math.IsNaN(pos.X) || math.IsNaN(pos.Y) || math.IsNaN(pos.Z) {
			mlog.W("invalid coordinate data for joint %s", j)
			continue
		}
		c.positions[j] = mgl64.Vec3{pos.X, pos.Y, pos.Z}
		c.visibility[j] = pos.Visibility
		c.available[j] = true
	}
}

// deriveComposites は左右股関節の中点から hipCentre、左右肩の中点から neck を
// 合成する。構成ジョイントが揃っていれば入力値より合成値を優先する
func (c *Converter) deriveComposites() {
	if c.available[LeftHip] && c.available[RightHip] {
		c.positions[HipCentre] = c.positions[LeftHip].Add(c.positions[RightHip]).Mul(0.5)
		c.visibility[HipCentre] = (c.visibility[LeftHip] + c.visibility[RightHip]) / 2
		c.available[HipCentre] = true
	} else if !c.available[HipCentre] {
		mlog.W("cannot compute hipCentre: missing leftHip or rightHip")
	}

	if c.available[LeftShoulder] && c.available[RightShoulder] {
		c.positions[Neck] = c.positions[LeftShoulder].Add(c.positions[RightShoulder]).Mul(0.5)
		c.visibility[Neck] = (c.visibility[LeftShoulder] + c.visibility[RightShoulder]) / 2
		c.available[Neck] = true
	}
}

func (c *Converter) hasMinimumJoints() bool {
	if !c.available[HipCentre] {
		return false
	}
	return c.available[LeftHip] || c.available[RightHip] ||
		c.available[LeftShoulder] || c.available[RightShoulder]
}

// solveJointAngles は階層をルートから外側へ辿り、各関節のローカル回転を求める。
// 祖先チェーンがこのフレームで完全に観測できているジョイントだけを処理する
// (これが部分データ耐性の中核)。深さ順に処理するため、後段の深さで必要になる
// 祖先回転は必ず計算済みになっている
func (c *Converter) solveJointAngles() map[Joint]EulerAngles {
	var framePos [jointCount]mgl64.Vec3
	for j := Joint(0); j < jointCount; j++ {
		if c.available[j] {
			framePos[j] = c.positions[j]
		}
	}

	rootPosition := zeroVec
	rootRotation := EulerAngles{}
	if c.available[HipCentre] && c.available[RightHip] && c.available[Neck] {
		rootPosition, rootRotation = c.rootFrame(&framePos)
	} else {
		mlog.W("cannot determine root frame, seed identity rotation")
	}

	rotations := map[Joint]EulerAngles{HipCentre: rootRotation}

	// ルート相対へ平行移動を除去
	for j := Joint(0); j < jointCount; j++ {
		if c.available[j] {
			framePos[j] = framePos[j].Sub(rootPosition)
		}
	}

	var computable []Joint
	maxDepth := 0
	for j := Joint(0); j < jointCount; j++ {
		if !c.available[j] || !inHierarchy(j) || j == HipCentre {
			continue
		}
		chainAvailable := true
		for _, parent := range hierarchy[j] {
			if !c.available[parent] {
				chainAvailable = false
				break
			}
		}
		if chainAvailable {
			computable = append(computable, j)
			if len(hierarchy[j]) > maxDepth {
				maxDepth = len(hierarchy[j])
			}
		}
	}

	// 深さ1はルート自身(計算済み)。子の観測方向が親の回転を決めるため、
	// 深さ2以降のジョイント J の結果は J ではなく直接の親に格納する
	for depth := 2; depth <= maxDepth; depth++ {
		for _, j := range computable {
			chain := hierarchy[j]
			if len(chain) != depth {
				continue
			}
			if !c.canResolve(j, &framePos, rotations) {
				continue
			}
			rotations[chain[0]] = c.jointRotation(j, &framePos, rotations)
		}
	}

	// 割り当てが残らなかった観測済みジョイントは単位回転
	for j := Joint(0); j < jointCount; j++ {
		if !c.available[j] {
			continue
		}
		if _, ok := rotations[j]; !ok {
			rotations[j] = EulerAngles{}
		}
	}

	c.refineWrists(&framePos, rotations)

	return rotations
}

func (c *Converter) canResolve(j Joint, framePos *[jointCount]mgl64.Vec3, rotations map[Joint]EulerAngles) bool {
	chain := hierarchy[j]
	if !c.available[j] || !c.available[chain[0]] {
		return false
	}
	for i, parent := range chain {
		if i == 0 {
			continue
		}
		if _, ok := rotations[parent]; !ok {
			return false
		}
	}
	return hasOffset(j)
}

// jointRotation はジョイント J の観測方向を親のレスト座標系へ引き戻し、
// バインドポーズのオフセット方向を観測方向へ写す最小回転を求める
func (c *Converter) jointRotation(j Joint, framePos *[jointCount]mgl64.Vec3, rotations map[Joint]EulerAngles) EulerAngles {
	chain := hierarchy[j]

	invR := mgl64.Ident3()
	for i, parent := range chain {
		if i == 0 {
			// 直接の親自身の回転は、今まさに求めようとしている値
			continue
		}
		e, ok := rotations[parent]
		if !ok {
			continue
		}
		invR = invR.Mul3(e.Matrix().Transpose())
	}

	b := invR.Mul3x1(framePos[j].Sub(framePos[chain[0]]))
	if b.Len() < epsilon {
		mlog.W("degenerate bone vector for %s, keep identity", j)
		return EulerAngles{}
	}

	offset := offsetDirections[j]
	if offset.Len() < epsilon {
		mlog.W("missing offset direction for %s, keep identity", j)
		return EulerAngles{}
	}

	tz, ty, tx := decomposeZXY(alignRotation(offset, b))
	return EulerAngles{Z: tz, X: tx, Y: ty}
}

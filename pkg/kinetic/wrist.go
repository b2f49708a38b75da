package kinetic

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/miu200521358/pose-kinetic/pkg/mlog"
)

// 手の甲の「上」方向のバインドポーズ基準。手のバインド前方(±X)と直交する
var bindHandUp = mgl64.Vec3{0, 1, 0}

func (c *Converter) refineWrists(framePos *[jointCount]mgl64.Vec3, rotations map[Joint]EulerAngles) {
	c.refineWrist(LeftWrist, LeftIndex, LeftThumb, framePos, rotations)
	c.refineWrist(RightWrist, RightIndex, RightThumb, framePos, rotations)
}

// refineWrist は手首回転を人差し指(と親指)ランドマークから補正する。
//
// 人差し指のみ: バインド前方軸を観測方向へ写す2自由度推定
// (屈曲・内外転のみ。前腕軸まわりの回旋は表現できない縮退モード)。
// 親指あり: 前方・上方の2ベクトルから3軸基底を組み、バインド基底との
// 直接の基底合わせで回内・回外を含む3自由度を復元する。
//
// どちらの場合も汎用ソルバが求めた手首回転を上書きする。
// 人差し指が無ければ何もしない
func (c *Converter) refineWrist(wrist, index, thumb Joint, framePos *[jointCount]mgl64.Vec3, rotations map[Joint]EulerAngles) {
	if !c.available[wrist] || !c.available[index] {
		return
	}

	// 祖先回転の逆変換で観測ベクトルをバインドポーズ座標系へ引き戻す
	chain := hierarchy[index]
	invR := mgl64.Ident3()
	for i, parent := range chain {
		if i == 0 {
			continue
		}
		e, ok := rotations[parent]
		if !ok {
			continue
		}
		invR = invR.Mul3(e.Matrix().Transpose())
	}

	forward := invR.Mul3x1(framePos[index].Sub(framePos[wrist]))
	if forward.Len() < epsilon {
		mlog.W("degenerate index vector for %s, keep generic estimate", wrist)
		return
	}

	bindForward := offsetDirections[index]

	if !c.available[thumb] {
		tz, ty, tx := decomposeZXY(alignRotation(bindForward, forward))
		rotations[wrist] = EulerAngles{Z: tz, X: tx, Y: ty}
		return
	}

	up := invR.Mul3x1(framePos[thumb].Sub(framePos[wrist]))
	f := forward.Normalize()
	up = up.Sub(f.Mul(up.Dot(f)))
	if up.Len() < epsilon {
		// 親指が指方向と重なっている。2自由度推定へ退避
		mlog.W("thumb collinear with index for %s, keep 2-DOF estimate", wrist)
		tz, ty, tx := decomposeZXY(alignRotation(bindForward, forward))
		rotations[wrist] = EulerAngles{Z: tz, X: tx, Y: ty}
		return
	}
	u := up.Normalize()

	bf := bindForward.Normalize()
	bu := bindHandUp.Sub(bf.Mul(bindHandUp.Dot(bf))).Normalize()

	observed := mgl64.Mat3FromCols(f, u, f.Cross(u))
	bind := mgl64.Mat3FromCols(bf, bu, bf.Cross(bu))

	tz, ty, tx := decomposeZXY(observed.Mul3(bind.Transpose()))
	rotations[wrist] = EulerAngles{Z: tz, X: tx, Y: ty}
}

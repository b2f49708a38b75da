package kinetic

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/miu200521358/pose-kinetic/pkg/mlog"
)

// rootFrame はルート位置と股関節・首ランドマークから正規直交基底を組み、
// ルートのワールド回転を求める。
//   - U: ルート→右股関節 (横方向, X)
//   - V: ルート→首 を U に対して直交化 (上方向, Y)
//   - W: U×V (前方向, Z)
//
// 各ステップでノルムが epsilon を下回ったら固定軸へフォールバックする
func (c *Converter) rootFrame(framePos *[jointCount]mgl64.Vec3) (mgl64.Vec3, EulerAngles) {
	rootPosition := framePos[HipCentre]

	u := framePos[RightHip].Sub(rootPosition)
	if u.Len() < epsilon {
		mlog.W("degenerate lateral axis, fall back to +X")
		u = mgl64.Vec3{1, 0, 0}
	} else {
		u = u.Normalize()
	}

	v := framePos[Neck].Sub(rootPosition)
	if v.Len() < epsilon {
		mlog.W("degenerate vertical axis, fall back to +Y")
		v = mgl64.Vec3{0, 1, 0}
	} else {
		v = v.Normalize()
	}

	// グラム・シュミットで V を U に直交化
	v = v.Sub(u.Mul(v.Dot(u)))
	if v.Len() < epsilon {
		mlog.W("vertical axis collapsed after orthogonalization, fall back to +Y")
		v = mgl64.Vec3{0, 1, 0}
	} else {
		v = v.Normalize()
	}

	w := u.Cross(v)
	if w.Len() < epsilon {
		mlog.W("degenerate forward axis, fall back to +Z")
		w = mgl64.Vec3{0, 0, 1}
	} else {
		w = w.Normalize()
	}

	basis := mgl64.Mat3FromCols(u, v, w)
	tz, ty, tx := decomposeZXY(basis)

	return rootPosition, EulerAngles{Z: tz, X: tx, Y: ty}
}

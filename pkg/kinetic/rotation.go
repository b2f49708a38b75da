package kinetic

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/miu200521358/pose-kinetic/pkg/model"
)

// ゼロ割防止の閾値。縮退判定はすべてこの値で揃える
const epsilon = 1e-8

// EulerAngles は Z・X・Y 固定順のオイラー角 [rad]。
// 合成は R = Rz(Z)・Rx(X)・Ry(Y) で、この順序は分解式と対になっている。
type EulerAngles struct {
	Z float64
	X float64
	Y float64
}

// Matrix は R = Rz・Rx・Ry の回転行列を返す
func (e EulerAngles) Matrix() mgl64.Mat3 {
	return mgl64.Rotate3DZ(e.Z).Mul3(mgl64.Rotate3DX(e.X)).Mul3(mgl64.Rotate3DY(e.Y))
}

// decomposeZXY は回転行列を R = Rz(tz)・Rx(tx)・Ry(ty) へ分解する。
// 式は合成順と厳密に対応しており、別の分解順では往復しない。
func decomposeZXY(r mgl64.Mat3) (tz, ty, tx float64) {
	tz = math.Atan2(-r.At(0, 1), r.At(1, 1))
	ty = math.Atan2(-r.At(2, 0), r.At(2, 2))
	tx = math.Atan2(r.At(2, 1), math.Sqrt(r.At(2, 0)*r.At(2, 0)+r.At(2, 2)*r.At(2, 2)))
	return tz, ty, tx
}

// alignRotation は unit(a) を unit(b) へ写す回転行列をロドリゲスの公式で求める。
// 縮退(ゼロベクトル)は単位行列、反平行は a に垂直な軸まわりの180度回転
func alignRotation(a, b mgl64.Vec3) mgl64.Mat3 {
	normA := a.Len()
	normB := b.Len()
	if normA < epsilon || normB < epsilon {
		return mgl64.Ident3()
	}

	ua := a.Mul(1 / normA)
	ub := b.Mul(1 / normB)

	v := ua.Cross(ub)
	s := v.Len()
	c := ua.Dot(ub)

	if s < epsilon {
		if c > 0 {
			return mgl64.Ident3()
		}
		axis := mgl64.Vec3{1, 0, 0}
		if math.Abs(ua.X()) >= 0.9 {
			axis = mgl64.Vec3{0, 1, 0}
		}
		perp := ua.Cross(axis).Normalize()
		return outer(perp, perp).Mul(2).Sub(mgl64.Ident3())
	}

	vx := skew(v)
	return mgl64.Ident3().Add(vx).Add(vx.Mul3(vx).Mul((1 - c) / (s * s)))
}

func skew(v mgl64.Vec3) mgl64.Mat3 {
	return mgl64.Mat3FromRows(
		mgl64.Vec3{0, -v.Z(), v.Y()},
		mgl64.Vec3{v.Z(), 0, -v.X()},
		mgl64.Vec3{-v.Y(), v.X(), 0},
	)
}

func outer(a, b mgl64.Vec3) mgl64.Mat3 {
	return mgl64.Mat3FromRows(b.Mul(a.X()), b.Mul(a.Y()), b.Mul(a.Z()))
}

// rotationChain はチェーン上の祖先回転をルート側から合成した累積回転行列を返す。
// 回転が未計算の祖先は単位回転として扱う
func rotationChain(chain []Joint, rotations map[Joint]EulerAngles) mgl64.Mat3 {
	r := mgl64.Ident3()
	for i := len(chain) - 1; i >= 0; i-- {
		if e, ok := rotations[chain[i]]; ok {
			r = r.Mul3(e.Matrix())
		}
	}
	return r
}

// Quaternion はオイラー角を q = Rz(yaw)・Rx(pitch)・Ry(roll) に一致する
// 四元数へ変換する。半角積の項のまとめ方を変えると別の回転になるので注意
func (e EulerAngles) Quaternion(visibility float64) model.Quaternion {
	yaw, pitch, roll := e.Z, e.X, e.Y
	cy, sy := math.Cos(yaw/2), math.Sin(yaw/2)
	cp, sp := math.Cos(pitch/2), math.Sin(pitch/2)
	cr, sr := math.Cos(roll/2), math.Sin(roll/2)

	return model.Quaternion{
		X:          cy*sp*cr - sy*cp*sr,
		Y:          cy*cp*sr + sy*sp*cr,
		Z:          cy*sp*sr + sy*cp*cr,
		W:          cy*cp*cr - sy*sp*sr,
		Visibility: visibility,
	}
}

package kinetic

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/miu200521358/pose-kinetic/pkg/mlog"
)

// Inverse はローカル回転群から関節座標を再構築する(順運動学の適用)。
// 直前の Forward 呼び出しが残したベーススケルトンとルート軌跡を前提とする。
//
// ルートはゼロベクトル(相対座標)を返す。その他のジョイントは祖先回転を
// ルート側から合成してバインドオフセットへ適用し、親の解決済み位置へ足し込む。
// ベーススケルトンに祖先が欠けているチェーンはそのジョイントごとスキップする
// (順方向ソルバと同じ耐性ポリシー)
func (c *Converter) Inverse(rotations map[Joint]EulerAngles) map[Joint][]mgl64.Vec3 {
	coordinates := make(map[Joint][]mgl64.Vec3, len(rotations))

	for j := Joint(0); j < jointCount; j++ {
		if _, ok := rotations[j]; !ok {
			continue
		}
		if j == HipCentre {
			coordinates[j] = append(coordinates[j], zeroVec)
			continue
		}
		if !inHierarchy(j) || !c.baseKnown[j] {
			mlog.D("skip %s: no base skeleton entry", j)
			continue
		}

		chain := hierarchy[j]
		position := c.rootTrajectory
		resolved := true
		for _, parent := range chain {
			if parent == HipCentre {
				continue
			}
			if !inHierarchy(parent) || !c.baseKnown[parent] {
				mlog.W("broken chain at %s while reconstructing %s", parent, j)
				resolved = false
				break
			}
			r := rotationChain(hierarchy[parent], rotations)
			position = position.Add(r.Mul3x1(c.baseSkeleton[parent]))
		}
		if !resolved {
			continue
		}

		r := rotationChain(chain, rotations)
		coordinates[j] = append(coordinates[j], position.Add(r.Mul3x1(c.baseSkeleton[j])))
	}

	return coordinates
}

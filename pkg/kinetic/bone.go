package kinetic

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// estimateBoneLengths は親子間のユークリッド距離からボーン長を推定する。
// 履歴窓が設定されていれば蓄積サンプルの中央値を採用する。
// どちらかのジョイントが欠けているボーンは「未推定」のままにする
// (ゼロで埋めるとベーススケルトンを静かに壊すため)。
func (c *Converter) estimateBoneLengths() {
	for j := Joint(0); j < jointCount; j++ {
		c.boneKnown[j] = false
		if !hasOffset(j) {
			continue
		}
		parent := hierarchy[j][0]
		if !c.available[j] || !c.available[parent] {
			continue
		}

		length := c.positions[j].Sub(c.positions[parent]).Len()
		if c.opts.BoneLengthWindow > 1 {
			history := append(c.boneHistory[j], length)
			if len(history) > c.opts.BoneLengthWindow {
				history = history[len(history)-c.opts.BoneLengthWindow:]
			}
			c.boneHistory[j] = history
			length = median(history)
		}
		c.boneLengths[j] = length
		c.boneKnown[j] = true
	}
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return stat.Quantile(0.5, stat.Empirical, sorted, nil)
}

// buildBaseSkeleton はオフセット方向×推定ボーン長でレストポーズを組み立てる。
// 左右ペアは両方既知なら平均、片側だけなら反対側へミラー、両方未知なら省略。
// 首は非対称なので自身の推定値(未知なら単位長)を使う
func (c *Converter) buildBaseSkeleton() {
	for j := Joint(0); j < jointCount; j++ {
		c.baseKnown[j] = false
	}

	c.baseSkeleton[HipCentre] = zeroVec
	c.baseKnown[HipCentre] = true

	for _, pair := range bonePairs {
		left, right := pair[0], pair[1]
		switch {
		case c.boneKnown[left] && c.boneKnown[right]:
			avg := (c.boneLengths[left] + c.boneLengths[right]) / 2
			c.setBaseBone(left, avg)
			c.setBaseBone(right, avg)
		case c.boneKnown[left]:
			c.setBaseBone(left, c.boneLengths[left])
			c.setBaseBone(right, c.boneLengths[left])
		case c.boneKnown[right]:
			c.setBaseBone(left, c.boneLengths[right])
			c.setBaseBone(right, c.boneLengths[right])
		}
	}

	neckLength := 1.0
	if c.boneKnown[Neck] {
		neckLength = c.boneLengths[Neck]
	}
	c.setBaseBone(Neck, neckLength)
}

func (c *Converter) setBaseBone(j Joint, length float64) {
	c.baseSkeleton[j] = offsetDirections[j].Mul(length)
	c.baseKnown[j] = true
}

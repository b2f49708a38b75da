// Package filter はストリーミング多次元データ向けの平滑化フィルタを提供する。
// 各チャンネルは独立にフィルタされる。
package filter

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Median は移動中央値フィルタ。窓が埋まるまでは先頭値でパディングする
type Median struct {
	window  int
	history [][]float64
}

// NewMedian は窓サイズ(正の奇数)を指定してフィルタを作る
func NewMedian(window int) (*Median, error) {
	if window < 1 || window%2 == 0 {
		return nil, fmt.Errorf("window must be a positive odd integer: %d", window)
	}
	return &Median{window: window}, nil
}

// SetWindow は窓サイズを変更し、履歴をリセットする
func (m *Median) SetWindow(window int) error {
	if window < 1 || window%2 == 0 {
		return fmt.Errorf("window must be a positive odd integer: %d", window)
	}
	m.window = window
	m.Reset()
	return nil
}

func (m *Median) Reset() {
	m.history = nil
}

// Filter は新しい値を履歴へ加え、チャンネルごとの中央値を返す。
// チャンネル数が変わった場合は履歴を捨てて仕切り直す
func (m *Median) Filter(value []float64) []float64 {
	if len(m.history) > 0 && len(m.history[0]) != len(value) {
		m.Reset()
	}

	sample := make([]float64, len(value))
	copy(sample, value)
	m.history = append(m.history, sample)
	if len(m.history) > m.window {
		m.history = m.history[len(m.history)-m.window:]
	}

	filtered := make([]float64, len(value))
	channel := make([]float64, 0, m.window)
	for i := range value {
		channel = channel[:0]
		// 足りない分は最古の値で前詰めパディングして窓幅を揃える
		for n := len(m.history); n < m.window; n++ {
			channel = append(channel, m.history[0][i])
		}
		for _, row := range m.history {
			channel = append(channel, row[i])
		}
		sort.Float64s(channel)
		filtered[i] = stat.Quantile(0.5, stat.Empirical, channel, nil)
	}
	return filtered
}

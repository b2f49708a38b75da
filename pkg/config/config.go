package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config はパイプラインとソルバの調整値
type Config struct {
	// BoneLengthWindow はボーン長推定の履歴窓(奇数)。1 で履歴なし
	BoneLengthWindow int `yaml:"bone_length_window"`
	// SmoothWindow は座標の移動中央値フィルタの窓(奇数)。1 で平滑化なし
	SmoothWindow int `yaml:"smooth_window"`
	// HandMinVisibility はこの値未満の手首しか見えていないフレームで
	// 手のランドマーク(人差し指・親指・小指)を落とす閾値
	HandMinVisibility float64 `yaml:"hand_min_visibility"`
}

func Default() *Config {
	return &Config{
		BoneLengthWindow:  1,
		SmoothWindow:      1,
		HandMinVisibility: 0.85,
	}
}

// Load はYAML設定を読み込む。path が空ならデフォルト値を返す
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.BoneLengthWindow < 1 || c.BoneLengthWindow%2 == 0 {
		return fmt.Errorf("bone_length_window must be a positive odd integer: %d", c.BoneLengthWindow)
	}
	if c.SmoothWindow < 1 || c.SmoothWindow%2 == 0 {
		return fmt.Errorf("smooth_window must be a positive odd integer: %d", c.SmoothWindow)
	}
	if c.HandMinVisibility < 0 || c.HandMinVisibility > 1 {
		return fmt.Errorf("hand_min_visibility must be in [0,1]: %f", c.HandMinVisibility)
	}
	return nil
}

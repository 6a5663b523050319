package config

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/decker502/mazetd/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// DefaultTowerConfigPath 默认的塔配置文件（嵌入资源）
const DefaultTowerConfigPath = "data/towers.yaml"

// EffectConfig 塔命中时附加的状态效果
type EffectConfig struct {
	Kind     string  `yaml:"kind"`     // 效果类型，目前只支持 "slow"
	Potency  float64 `yaml:"potency"`  // 效果强度（slow: 减速百分比 0-100）
	Duration float64 `yaml:"duration"` // 持续时间（秒）
}

// TowerKind 单个塔类型的属性配置
// Range 为 0 表示纯障碍物（墙），不会攻击
type TowerKind struct {
	Name   string        `yaml:"name"`   // 显示名称
	Key    string        `yaml:"key"`    // 建造快捷键（单个字母）
	Cost   int           `yaml:"cost"`   // 建造花费的砖块
	Range  float64       `yaml:"range"`  // 射程（格子数）
	Damage int           `yaml:"damage"` // 单次伤害
	Reload float64       `yaml:"reload"` // 两次攻击的间隔（秒）
	Color  []uint8       `yaml:"color"`  // 绘制颜色 [R, G, B]
	Effect *EffectConfig `yaml:"effect"` // 命中附加效果（可选）
}

// IsWeapon 塔是否会攻击
func (k TowerKind) IsWeapon() bool {
	return k.Range > 0 && k.Damage > 0 && k.Reload > 0
}

// RGBA 返回绘制颜色
func (k TowerKind) RGBA() color.RGBA {
	if len(k.Color) < 3 {
		return color.RGBA{R: 160, G: 160, B: 160, A: 255}
	}
	return color.RGBA{R: k.Color[0], G: k.Color[1], B: k.Color[2], A: 255}
}

// TowerConfig 塔配置文件结构
type TowerConfig struct {
	Towers map[string]TowerKind `yaml:"towers"` // 塔类型ID到属性的映射
}

// LoadTowerConfig 从 YAML 文件加载塔配置
// 参数：
//
//	filepath - 配置文件路径
//
// 返回：
//
//	*TowerConfig - 解析后的配置对象
//	error - 如果文件读取、解析或校验失败，返回错误信息
func LoadTowerConfig(filepath string) (*TowerConfig, error) {
	data, err := embedded.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read tower config file %s: %w", filepath, err)
	}

	var config TowerConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse tower config YAML from %s: %w", filepath, err)
	}

	if err := validateTowerConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid tower config in %s: %w", filepath, err)
	}

	return &config, nil
}

// validateTowerConfig 验证塔配置
func validateTowerConfig(config *TowerConfig) error {
	if len(config.Towers) == 0 {
		return fmt.Errorf("at least one tower kind is required")
	}

	keys := make(map[string]string)
	for id, kind := range config.Towers {
		if kind.Cost < 0 {
			return fmt.Errorf("tower %s: cost cannot be negative, got %d", id, kind.Cost)
		}
		if kind.Range < 0 {
			return fmt.Errorf("tower %s: range cannot be negative, got %.2f", id, kind.Range)
		}
		if kind.Damage < 0 {
			return fmt.Errorf("tower %s: damage cannot be negative, got %d", id, kind.Damage)
		}
		if kind.Range > 0 && kind.Reload <= 0 {
			return fmt.Errorf("tower %s: reload must be positive for a weapon, got %.2f", id, kind.Reload)
		}
		if kind.Color != nil && len(kind.Color) != 3 {
			return fmt.Errorf("tower %s: color must have 3 components, got %d", id, len(kind.Color))
		}
		if kind.Key != "" {
			if len(kind.Key) != 1 || kind.Key[0] < 'a' || kind.Key[0] > 'z' {
				return fmt.Errorf("tower %s: key must be a single lowercase letter, got %q", id, kind.Key)
			}
			if other, dup := keys[kind.Key]; dup {
				return fmt.Errorf("tower %s: key %q already used by %s", id, kind.Key, other)
			}
			keys[kind.Key] = id
		}
		if e := kind.Effect; e != nil {
			if e.Kind != "slow" {
				return fmt.Errorf("tower %s: unknown effect kind %q", id, e.Kind)
			}
			if e.Potency < 0 || e.Potency > 100 {
				return fmt.Errorf("tower %s: effect potency must be within [0,100], got %.2f", id, e.Potency)
			}
			if e.Duration <= 0 {
				return fmt.Errorf("tower %s: effect duration must be positive, got %.2f", id, e.Duration)
			}
		}
	}

	return nil
}

// GetTower 获取塔类型属性
func (c *TowerConfig) GetTower(id string) (TowerKind, bool) {
	kind, ok := c.Towers[id]
	return kind, ok
}

// Cost 返回塔的建造花费
func (c *TowerConfig) Cost(id string) (int, error) {
	kind, ok := c.Towers[id]
	if !ok {
		return 0, fmt.Errorf("unknown tower kind %q", id)
	}
	return kind.Cost, nil
}

// IDs 返回所有塔类型ID（排序后）
func (c *TowerConfig) IDs() []string {
	ids := make([]string, 0, len(c.Towers))
	for id := range c.Towers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ByKey 按快捷键查找塔类型ID
func (c *TowerConfig) ByKey(key string) (string, bool) {
	for _, id := range c.IDs() {
		if c.Towers[id].Key == key {
			return id, true
		}
	}
	return "", false
}

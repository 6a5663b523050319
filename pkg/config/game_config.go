package config

import (
	"fmt"
	"math"
	"sort"

	"github.com/decker502/mazetd/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// DefaultGameConfigPath 默认的游戏配置文件（嵌入资源）
const DefaultGameConfigPath = "data/game.yaml"

// ArenaConfig 竞技场尺寸
type ArenaConfig struct {
	Width      float64 `yaml:"width"`      // 竞技场宽度（世界坐标）
	Height     float64 `yaml:"height"`     // 竞技场高度（世界坐标）
	Padding    float64 `yaml:"padding"`    // 高度方向的留白
	SquareSize float64 `yaml:"squareSize"` // 格子边长
}

// AgentKind 敌人类型属性
type AgentKind struct {
	Health int     `yaml:"health"` // 初始生命值
	Speed  float64 `yaml:"speed"`  // 基础移动速度（世界单位/秒）
	Bounty int     `yaml:"bounty"` // 击杀奖励的砖块数
}

// PlayerConfig 玩家初始状态
type PlayerConfig struct {
	StartHP     int `yaml:"startHp"`     // 初始生命值
	StartBricks int `yaml:"startBricks"` // 初始砖块
	LeakDamage  int `yaml:"leakDamage"`  // 每个到达终点的敌人造成的伤害
}

// LevelConfig 关卡节奏
type LevelConfig struct {
	Duration     float64 `yaml:"duration"`     // 自动升级的间隔（秒）
	MaxLevel     int     `yaml:"maxLevel"`     // 超过该等级后不再部署新刷怪器
	DeathPenalty int     `yaml:"deathPenalty"` // 玩家死亡时下降的等级数
}

// SpawnConfig 刷怪器参数
//
// 对于等级 L：
//
//	period   = max(BasePeriod / L, MinPeriod)
//	maxCount = ceil(L * CountPerLevel)
//	maxKill  = L * KillsPerLevel
type SpawnConfig struct {
	BasePeriod    float64 `yaml:"basePeriod"`
	MinPeriod     float64 `yaml:"minPeriod"`
	CountPerLevel float64 `yaml:"countPerLevel"`
	KillsPerLevel int     `yaml:"killsPerLevel"`
	AgentKind     string  `yaml:"agentKind"` // 刷出的敌人类型（Agents 中的键）
	// DespawnCrowd 场上敌人超过该数量时才清理越界的敌人
	DespawnCrowd int `yaml:"despawnCrowd"`
}

// GameConfig 游戏配置文件结构
type GameConfig struct {
	Arena  ArenaConfig          `yaml:"arena"`
	Agents map[string]AgentKind `yaml:"agents"`
	Player PlayerConfig         `yaml:"player"`
	Level  LevelConfig          `yaml:"level"`
	Spawn  SpawnConfig          `yaml:"spawn"`
}

// DefaultGameConfig 返回内置默认配置（与 data/game.yaml 一致）
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Arena: ArenaConfig{
			Width:      GameWindowWidth,
			Height:     GameWindowHeight,
			Padding:    DefaultPadding,
			SquareSize: DefaultSquareSize,
		},
		Agents: map[string]AgentKind{
			"block": {Health: 10, Speed: 60, Bounty: 1},
		},
		Player: PlayerConfig{
			StartHP:     100,
			StartBricks: 5,
			LeakDamage:  10,
		},
		Level: LevelConfig{
			Duration:     45,
			MaxLevel:     10,
			DeathPenalty: 5,
		},
		Spawn: SpawnConfig{
			BasePeriod:    5,
			MinPeriod:     0.15,
			CountPerLevel: 2,
			KillsPerLevel: 10,
			AgentKind:     "block",
			DespawnCrowd:  10,
		},
	}
}

// LoadGameConfig 从 YAML 文件加载游戏配置
// 参数：
//
//	filepath - 配置文件路径（"data/" 开头读取嵌入资源，否则读取磁盘）
//
// 返回：
//
//	*GameConfig - 解析后的配置对象（未出现的字段保留默认值）
//	error - 如果文件读取、解析或校验失败，返回错误信息
func LoadGameConfig(filepath string) (*GameConfig, error) {
	data, err := embedded.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read game config file %s: %w", filepath, err)
	}

	config := DefaultGameConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse game config YAML from %s: %w", filepath, err)
	}

	if err := validateGameConfig(config); err != nil {
		return nil, fmt.Errorf("invalid game config in %s: %w", filepath, err)
	}

	return config, nil
}

// validateGameConfig 验证游戏配置的完整性和合法性
func validateGameConfig(config *GameConfig) error {
	a := config.Arena
	if a.SquareSize <= 0 {
		return fmt.Errorf("arena.squareSize must be positive, got %.2f", a.SquareSize)
	}
	if a.Height-a.Padding < 2*a.SquareSize {
		return fmt.Errorf("arena.height %.2f minus padding %.2f leaves room for fewer than 2 squares", a.Height, a.Padding)
	}
	if a.Width <= 0 {
		return fmt.Errorf("arena.width must be positive, got %.2f", a.Width)
	}

	if len(config.Agents) == 0 {
		return fmt.Errorf("at least one agent kind is required")
	}
	for name, kind := range config.Agents {
		if kind.Health <= 0 {
			return fmt.Errorf("agent %s: health must be positive, got %d", name, kind.Health)
		}
		if kind.Speed <= 0 {
			return fmt.Errorf("agent %s: speed must be positive, got %.2f", name, kind.Speed)
		}
		if kind.Bounty < 0 {
			return fmt.Errorf("agent %s: bounty cannot be negative, got %d", name, kind.Bounty)
		}
	}

	if config.Player.StartHP <= 0 {
		return fmt.Errorf("player.startHp must be positive, got %d", config.Player.StartHP)
	}
	if config.Player.StartBricks < 0 {
		return fmt.Errorf("player.startBricks cannot be negative, got %d", config.Player.StartBricks)
	}
	if config.Player.LeakDamage < 0 {
		return fmt.Errorf("player.leakDamage cannot be negative, got %d", config.Player.LeakDamage)
	}

	if config.Level.Duration <= 0 {
		return fmt.Errorf("level.duration must be positive, got %.2f", config.Level.Duration)
	}
	if config.Level.MaxLevel < 1 {
		return fmt.Errorf("level.maxLevel must be at least 1, got %d", config.Level.MaxLevel)
	}
	if config.Level.DeathPenalty < 0 {
		return fmt.Errorf("level.deathPenalty cannot be negative, got %d", config.Level.DeathPenalty)
	}

	s := config.Spawn
	if s.BasePeriod <= 0 || s.MinPeriod <= 0 {
		return fmt.Errorf("spawn periods must be positive, got basePeriod=%.2f minPeriod=%.2f", s.BasePeriod, s.MinPeriod)
	}
	if s.CountPerLevel <= 0 {
		return fmt.Errorf("spawn.countPerLevel must be positive, got %.2f", s.CountPerLevel)
	}
	if s.KillsPerLevel < 1 {
		return fmt.Errorf("spawn.killsPerLevel must be at least 1, got %d", s.KillsPerLevel)
	}
	if _, ok := config.Agents[s.AgentKind]; !ok {
		return fmt.Errorf("spawn.agentKind %q is not a known agent (have %v)", s.AgentKind, config.AgentKindNames())
	}

	return nil
}

// AgentKindNames 返回所有敌人类型名称（排序后）
func (c *GameConfig) AgentKindNames() []string {
	names := make([]string, 0, len(c.Agents))
	for name := range c.Agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetAgentKind 获取敌人类型属性
func (c *GameConfig) GetAgentKind(name string) (AgentKind, bool) {
	kind, ok := c.Agents[name]
	return kind, ok
}

// SpawnPeriod 等级 level 下的刷怪间隔（秒）
func (s SpawnConfig) SpawnPeriod(level int) float64 {
	if level < 1 {
		level = 1
	}
	return math.Max(s.BasePeriod/float64(level), s.MinPeriod)
}

// MaxCount 等级 level 下单个刷怪器同时存活的敌人上限
func (s SpawnConfig) MaxCount(level int) int {
	if level < 1 {
		level = 1
	}
	return int(math.Ceil(float64(level) * s.CountPerLevel))
}

// MaxKill 等级 level 下单个刷怪器需要被击杀的敌人数
func (s SpawnConfig) MaxKill(level int) int {
	if level < 1 {
		level = 1
	}
	return level * s.KillsPerLevel
}

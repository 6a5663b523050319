package simulation

import (
	"errors"
	"fmt"
	"log"

	"github.com/decker502/mazetd/pkg/config"
)

// ErrInsufficientBricks 砖块不足
var ErrInsufficientBricks = errors.New("insufficient bricks")

// Player 玩家状态：生命值和砖块（建造货币）
//
// 实现 systems.Wallet 接口，由 BuildController 扣费。
type Player struct {
	HP     int
	MaxHP  int
	Bricks int

	leakDamage  int
	startBricks int
}

// NewPlayer 根据配置创建玩家
func NewPlayer(cfg config.PlayerConfig) *Player {
	return &Player{
		HP:          cfg.StartHP,
		MaxHP:       cfg.StartHP,
		Bricks:      cfg.StartBricks,
		leakDamage:  cfg.LeakDamage,
		startBricks: cfg.StartBricks,
	}
}

// CanAfford 砖块是否足够支付 amount
func (p *Player) CanAfford(amount int) bool {
	return amount <= p.Bricks
}

// Spend 扣除 amount 块砖
// 余额不足时返回包装 ErrInsufficientBricks 的错误，余额不变
func (p *Player) Spend(amount int) error {
	if amount < 0 {
		return fmt.Errorf("spend negative amount %d", amount)
	}
	if !p.CanAfford(amount) {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientBricks, amount, p.Bricks)
	}
	p.Bricks -= amount
	return nil
}

// Earn 获得击杀奖励
func (p *Player) Earn(amount int) {
	if amount <= 0 {
		return
	}
	p.Bricks += amount
}

// Leak 敌人到达终点，扣除配置的漏怪伤害
//
// 返回:
//   - bool: 玩家是否因此死亡
func (p *Player) Leak() bool {
	return p.Damage(p.leakDamage)
}

// Damage 扣除生命值（最低为 0）
//
// 返回:
//   - bool: 玩家是否死亡
func (p *Player) Damage(amount int) bool {
	if amount <= 0 {
		return p.IsDead()
	}
	p.HP -= amount
	if p.HP < 0 {
		p.HP = 0
	}
	return p.IsDead()
}

// IsDead 生命值是否耗尽
func (p *Player) IsDead() bool {
	return p.HP <= 0
}

// Respawn 死亡后恢复满血，砖块至少补足到初始数量
func (p *Player) Respawn() {
	p.HP = p.MaxHP
	if p.Bricks < p.startBricks {
		p.Bricks = p.startBricks
	}
	log.Printf("[Player] Respawned with %d HP, %d bricks", p.HP, p.Bricks)
}

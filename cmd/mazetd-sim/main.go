// mazetd-sim 无界面运行对局并打印统计
//
// 用于调整 game.yaml / towers.yaml 的数值：给定一份布局，
// 以固定步长推进若干秒，观察漏怪、击杀和等级变化。
//
//	go run ./cmd/mazetd-sim --seconds 300 --layout my_maze.yaml --verbose
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/decker502/mazetd/pkg/config"
	"github.com/decker502/mazetd/pkg/embedded"
	"github.com/decker502/mazetd/pkg/events"
	"github.com/decker502/mazetd/pkg/simulation"
)

var (
	gameConfigPath  = flag.String("config", config.DefaultGameConfigPath, "游戏配置文件")
	towerConfigPath = flag.String("towers", config.DefaultTowerConfigPath, "塔类型表")
	layoutPath      = flag.String("layout", "", "迷宫布局文件（YAML，格式同游戏内保存的布局）")
	seconds         = flag.Float64("seconds", 120, "模拟时长（秒）")
	step            = flag.Float64("step", 1.0/60.0, "每个 tick 的时长（秒）")
	bricks          = flag.Int("bricks", 0, "起始砖块，0 表示使用配置值")
	verbose         = flag.Bool("verbose", false, "显示详细日志")
)

func main() {
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "mazetd-sim: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// data/ 开头的路径从当前目录读取
	embedded.Init(os.DirFS("."))

	if *step <= 0 {
		return fmt.Errorf("step must be positive, got %v", *step)
	}

	gameCfg, err := config.LoadGameConfig(*gameConfigPath)
	if err != nil {
		return err
	}
	towerCfg, err := config.LoadTowerConfig(*towerConfigPath)
	if err != nil {
		return err
	}
	if *bricks > 0 {
		gameCfg.Player.StartBricks = *bricks
	}

	session, err := simulation.NewSession(gameCfg, towerCfg)
	if err != nil {
		return err
	}

	session.Subscribe(events.EventLevelChanged, func(ev events.GameEvent) {
		p := ev.Payload.(events.LevelChangedPayload)
		fmt.Printf("[%7.1fs] level %d -> %d\n", session.Stats().Elapsed, p.From, p.To)
	})

	if *layoutPath != "" {
		layout, err := readLayout(*layoutPath)
		if err != nil {
			return err
		}
		built, err := session.ApplyLayout(layout.Towers)
		fmt.Printf("layout %s: built %d of %d towers\n", *layoutPath, built, len(layout.Towers))
		if err != nil {
			fmt.Printf("  skipped: %v\n", err)
		}
	}

	if path, ok := session.CurrentPath(); ok {
		fmt.Printf("path length: %d cells\n", len(path))
	}

	ticks := int(*seconds / *step)
	for i := 0; i < ticks; i++ {
		session.Update(*step)
	}

	st := session.Stats()
	p := session.Player()
	fmt.Printf("session %s after %.1fs (%d ticks)\n", session.ID, st.Elapsed, st.Ticks)
	fmt.Printf("  level    %d\n", session.Level())
	fmt.Printf("  player   hp %d/%d, bricks %d\n", p.HP, p.MaxHP, p.Bricks)
	fmt.Printf("  spawned  %d\n", st.Spawned)
	fmt.Printf("  killed   %d\n", st.Killed)
	fmt.Printf("  leaked   %d\n", st.Leaked)
	fmt.Printf("  stuck    %d\n", st.Stuck)
	fmt.Printf("  deaths   %d\n", st.Deaths)
	return nil
}

// layoutFile 布局文件（与游戏内保存的布局格式相同）
type layoutFile struct {
	Towers []simulation.PlacedTower `yaml:"towers"`
}

// readLayout 读取布局文件
func readLayout(path string) (layoutFile, error) {
	var layout layoutFile
	data, err := os.ReadFile(path)
	if err != nil {
		return layout, err
	}
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return layout, fmt.Errorf("parse layout %s: %w", path, err)
	}
	return layout, nil
}

// check_config 校验 data/ 下的配置文件并打印塔类型表
//
//	go run ./cmd/check_config
//	go run ./cmd/check_config --towers my_towers.yaml
package main

import (
	"crypto/md5"
	"flag"
	"fmt"
	"os"

	"github.com/decker502/mazetd/pkg/config"
	"github.com/decker502/mazetd/pkg/embedded"
	"github.com/decker502/mazetd/pkg/simulation"
)

var (
	gameConfigPath  = flag.String("config", config.DefaultGameConfigPath, "游戏配置文件")
	towerConfigPath = flag.String("towers", config.DefaultTowerConfigPath, "塔类型表")
)

// controlKeys 被界面占用的字母键，塔快捷键与之相同时界面会优先选塔
var controlKeys = map[string]string{
	"p": "path overlay",
	"g": "grid lines",
	"v": "reachable overlay",
	"m": "sound",
	"n": "new game",
	"x": "remove (terminal)",
	"q": "quit (terminal)",
}

func main() {
	flag.Parse()
	embedded.Init(os.DirFS("."))

	ok := true
	for _, path := range []string{*gameConfigPath, *towerConfigPath} {
		data, err := embedded.ReadFile(path)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s: %d bytes, MD5 %x\n", path, len(data), md5.Sum(data))
	}

	gameCfg, err := config.LoadGameConfig(*gameConfigPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	towerCfg, err := config.LoadTowerConfig(*towerConfigPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\n%-8s %-4s %-12s %5s %6s %6s %6s\n", "id", "key", "name", "cost", "range", "damage", "reload")
	for _, id := range towerCfg.IDs() {
		kind, _ := towerCfg.GetTower(id)
		fmt.Printf("%-8s %-4s %-12s %5d %6.1f %6d %6.1f\n", id, kind.Key, kind.Name, kind.Cost, kind.Range, kind.Damage, kind.Reload)
		if action, clash := controlKeys[kind.Key]; clash {
			fmt.Printf("  Warning: key %q hides the %s control\n", kind.Key, action)
			ok = false
		}
	}

	session, err := simulation.NewSession(gameCfg, towerCfg)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	g := session.Grid()
	path, _ := session.CurrentPath()
	fmt.Printf("\narena: %dx%d cells of %.0f, start %s, goal %s, open path %d cells\n",
		g.Size(), g.Size(), g.CellSize(), g.Start(), g.Goal(), len(path))

	if !ok {
		os.Exit(2)
	}
}

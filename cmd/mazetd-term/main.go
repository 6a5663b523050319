// mazetd-term 在终端里运行对局
//
// 用法：
//
//	go run ./cmd/mazetd-term --towers data/towers.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"

	"github.com/decker502/mazetd/internal/term"
	"github.com/decker502/mazetd/pkg/config"
	"github.com/decker502/mazetd/pkg/embedded"
	"github.com/decker502/mazetd/pkg/simulation"
)

var (
	gameConfigPath  = flag.String("config", config.DefaultGameConfigPath, "游戏配置文件")
	towerConfigPath = flag.String("towers", config.DefaultTowerConfigPath, "塔类型表")
	logFile         = flag.String("log", "", "日志文件（终端被界面占用，默认不输出日志）")
)

func main() {
	flag.Parse()

	if *logFile != "" {
		f, err := os.Create(*logFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "无法创建日志文件: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "mazetd-term: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// data/ 开头的路径从当前目录读取
	embedded.Init(os.DirFS("."))

	gameCfg, err := config.LoadGameConfig(*gameConfigPath)
	if err != nil {
		return err
	}
	towerCfg, err := config.LoadTowerConfig(*towerConfigPath)
	if err != nil {
		return err
	}
	session, err := simulation.NewSession(gameCfg, towerCfg)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	selected := ""
	if ids := towerCfg.IDs(); len(ids) > 0 {
		selected = ids[0]
	}
	if _, ok := towerCfg.GetTower("wall"); ok {
		selected = "wall"
	}

	frontend := term.NewFrontend(screen, session, selected)
	if err := frontend.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

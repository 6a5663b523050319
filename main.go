package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/mazetd/pkg/app"
	"github.com/decker502/mazetd/pkg/config"
	"github.com/decker502/mazetd/pkg/embedded"
)

var (
	verbose    = flag.Bool("verbose", false, "显示详细日志")
	gameConfig = flag.String("config", config.DefaultGameConfigPath, "游戏配置文件（data/ 开头读取内置配置）")
	towers     = flag.String("towers", config.DefaultTowerConfigPath, "塔类型表")
	level      = flag.Int("level", 0, "起始等级（调试用）")
	muted      = flag.Bool("mute", false, "不初始化音频")
)

func main() {
	flag.Parse()

	// dataFS 在 embed.go 中声明
	embedded.Init(dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:         *verbose,
		GameConfigPath:  *gameConfig,
		TowerConfigPath: *towers,
		Muted:           *muted,
		StartLevel:      *level,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "游戏初始化失败: %v\n", err)
		os.Exit(1)
	}

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle("Maze TD")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	runErr := ebiten.RunGame(gameApp)

	// 窗口关闭后保存设置和当前布局
	gameApp.SaveOnExit()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "游戏异常退出: %v\n", runErr)
		os.Exit(1)
	}
}

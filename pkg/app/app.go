// Package app 提供游戏应用的核心包装器
//
// 该包将游戏初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"

	"github.com/decker502/mazetd/pkg/config"
	"github.com/decker502/mazetd/pkg/game"
	"github.com/decker502/mazetd/pkg/scenes"
	"github.com/decker502/mazetd/pkg/simulation"
)

// AppName gdata 存储使用的应用名（决定设置和布局的保存目录）
const AppName = "mazetd"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// GameConfigPath 游戏配置文件，"data/" 开头的路径从嵌入资源读取
	GameConfigPath string
	// TowerConfigPath 塔类型表
	TowerConfigPath string
	// Muted 不创建音频上下文（无声卡的环境）
	Muted bool
	// StartLevel 起始等级，0 表示从 1 级开始
	StartLevel int
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager             *game.SceneManager
	settingsManager          *game.SettingsManager
	verbose                  bool
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化游戏应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	if cfg.GameConfigPath == "" {
		cfg.GameConfigPath = config.DefaultGameConfigPath
	}
	if cfg.TowerConfigPath == "" {
		cfg.TowerConfigPath = config.DefaultTowerConfigPath
	}

	gameConfig, err := config.LoadGameConfig(cfg.GameConfigPath)
	if err != nil {
		return nil, fmt.Errorf("游戏配置加载失败: %w", err)
	}
	towerConfig, err := config.LoadTowerConfig(cfg.TowerConfigPath)
	if err != nil {
		return nil, fmt.Errorf("塔配置加载失败: %w", err)
	}
	log.Printf("[Config] Loaded %s and %s (%d tower kinds)", cfg.GameConfigPath, cfg.TowerConfigPath, len(towerConfig.Towers))

	// gdata 打开失败时降级为内存存储，游戏照常运行
	gdataManager, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		log.Printf("[App] Warning: gdata unavailable, settings and layouts will not persist: %v", err)
		gdataManager = nil
	}

	settingsManager := game.NewSettingsManager(gdataManager)
	layoutStore := game.NewLayoutStore(gdataManager)

	var audioContext *audio.Context
	if !cfg.Muted {
		audioContext = audio.NewContext(game.DefaultSampleRate)
	}
	audioManager := game.NewAudioManager(audioContext, settingsManager)
	audioManager.PreloadSounds()
	log.Printf("[App] AudioManager initialized (muted=%v)", cfg.Muted)

	// 创建场景管理器，N 键通过工厂函数重新开局
	sceneManager := game.NewSceneManager()
	sceneManager.SetSceneFactory(func() game.Scene {
		session, err := simulation.NewSession(gameConfig, towerConfig)
		if err != nil {
			log.Printf("[App] Failed to create session: %v", err)
			return nil
		}
		if cfg.StartLevel > 1 {
			session.SetLevel(cfg.StartLevel)
		}
		return scenes.NewGameScene(session, sceneManager, settingsManager, audioManager, layoutStore)
	})
	if !sceneManager.Restart() {
		return nil, fmt.Errorf("对局创建失败")
	}

	ebiten.SetFullscreen(settingsManager.GetSettings().Fullscreen)

	return &App{
		sceneManager:    sceneManager,
		settingsManager: settingsManager,
		verbose:         cfg.Verbose,
	}, nil
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", config.GameWindowWidth, config.GameWindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
			log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		} else {
			ebiten.SetFullscreen(true)
		}
		a.settingsManager.SetFullscreen(ebiten.IsFullscreen())
	}

	deltaTime := 1.0 / float64(ebiten.TPS())
	a.sceneManager.Update(deltaTime)
	return nil
}

// Draw 绘制游戏画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// SaveOnExit 退出前保存设置和当前迷宫布局
func (a *App) SaveOnExit() bool {
	return a.sceneManager.SaveOnExit()
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}

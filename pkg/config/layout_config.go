package config

// 窗口与竞技场布局常量
// 竞技场使用以中心为原点、Y 轴向上的世界坐标系；
// 屏幕坐标转换见 utils.WorldToScreen
const (
	// GameWindowWidth 逻辑屏幕宽度（像素）
	GameWindowWidth = 1280

	// GameWindowHeight 逻辑屏幕高度（像素）
	GameWindowHeight = 800

	// DefaultSquareSize 格子边长（世界坐标单位）
	DefaultSquareSize = 50.0

	// DefaultPadding 竞技场高度中不属于网格的留白
	// 网格高度 = 窗口高度 - 留白 = 550，即 11×11 个格子
	DefaultPadding = 250.0

	// HUDMarginX HUD 文本左边距
	HUDMarginX = 16

	// HUDMarginY HUD 文本上边距
	HUDMarginY = 16

	// HUDLineHeight HUD 文本行高
	HUDLineHeight = 16
)

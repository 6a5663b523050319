package scenes

import (
	"github.com/decker502/mazetd/pkg/game"
)

// Scene 是 game.Scene 的别名，场景实现只需满足 game.Scene 接口
type Scene = game.Scene

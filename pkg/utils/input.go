package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// IsJustTouchedOrClicked 检查是否刚刚发生左键点击或触摸
// 返回是否点击以及点击位置
func IsJustTouchedOrClicked() (bool, int, int) {
	touchIDs := inpututil.AppendJustPressedTouchIDs(nil)
	if len(touchIDs) > 0 {
		x, y := ebiten.TouchPosition(touchIDs[0])
		return true, x, y
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		return true, x, y
	}
	return false, 0, 0
}

// IsJustRightClicked 检查是否刚刚发生右键点击（拆除）
func IsJustRightClicked() (bool, int, int) {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		x, y := ebiten.CursorPosition()
		return true, x, y
	}
	return false, 0, 0
}

// GetPointerPosition 获取当前指针位置，优先返回触摸位置
func GetPointerPosition() (int, int) {
	touchIDs := ebiten.AppendTouchIDs(nil)
	if len(touchIDs) > 0 {
		return ebiten.TouchPosition(touchIDs[0])
	}
	return ebiten.CursorPosition()
}

// JustPressedRunes 本帧新按下的字符键（小写），用于塔类型快捷键
func JustPressedRunes() []string {
	keys := inpututil.AppendJustPressedKeys(nil)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k >= ebiten.KeyA && k <= ebiten.KeyZ {
			out = append(out, string(rune('a'+int(k-ebiten.KeyA))))
		}
	}
	return out
}

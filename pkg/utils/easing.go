package utils

// EaseOutQuad 二次方缓出
// 公式：f(t) = 1 - (1-t)²
func EaseOutQuad(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

// Lerp 线性插值，t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// FadeAlpha 剩余时间对应的不透明度（0~1），用于攻击线等短暂特效
// 剩余时间越少越透明，开始时衰减较慢
func FadeAlpha(remaining, total float64) float64 {
	if total <= 0 || remaining <= 0 {
		return 0
	}
	if remaining >= total {
		return 1
	}
	return EaseOutQuad(remaining / total)
}

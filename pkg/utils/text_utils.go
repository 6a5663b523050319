package utils

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// MeasureFunc 返回文本宽度（像素）
type MeasureFunc func(s string) float64

// FaceMeasurer 基于字体的宽度测量
func FaceMeasurer(face text.Face) MeasureFunc {
	return func(s string) float64 {
		if s == "" || face == nil {
			return 0
		}
		width, _ := text.Measure(s, face, 0)
		return width
	}
}

// WrapText 按单词把文本折成不超过 maxWidth 的多行
//
// 参数:
//   - textStr: 要换行的文本（已有的换行符保留）
//   - maxWidth: 最大宽度（像素）
//   - measure: 宽度测量函数
//
// 单个单词超宽时独占一行，不再拆分。
func WrapText(textStr string, maxWidth float64, measure MeasureFunc) []string {
	if measure == nil || maxWidth <= 0 {
		return []string{textStr}
	}

	var lines []string
	for _, paragraph := range strings.Split(textStr, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		current := words[0]
		for _, w := range words[1:] {
			candidate := current + " " + w
			if measure(candidate) > maxWidth {
				lines = append(lines, current)
				current = w
				continue
			}
			current = candidate
		}
		lines = append(lines, current)
	}
	return lines
}

package utils

import "testing"

func TestFadeAlpha(t *testing.T) {
	tests := []struct {
		name      string
		remaining float64
		total     float64
		want      float64
	}{
		{"刚开始", 1, 1, 1},
		{"超过总时长", 2, 1, 1},
		{"一半", 0.5, 1, 0.75},
		{"结束", 0, 1, 0},
		{"总时长非法", 0.5, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FadeAlpha(tt.remaining, tt.total); got != tt.want {
				t.Errorf("FadeAlpha(%v, %v) = %v, want %v", tt.remaining, tt.total, got, tt.want)
			}
		})
	}
}

func TestLerp(t *testing.T) {
	if Lerp(10, 20, 0) != 10 || Lerp(10, 20, 1) != 20 || Lerp(10, 20, 0.5) != 15 {
		t.Error("Lerp endpoints or midpoint wrong")
	}
}

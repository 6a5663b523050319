package components

import "testing"

func TestStatusEffects_ApplyReplaces(t *testing.T) {
	c := NewStatusEffectsComponent()

	if err := c.Apply(EffectSlow, 5, 20); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if err := c.Apply(EffectSlow, 1, 80); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if len(c.Effects) != 1 {
		t.Fatalf("Expected a single slow entry, got %d", len(c.Effects))
	}
	got := c.Effects[EffectSlow]
	if got.Remaining != 1 || got.Potency != 80 {
		t.Errorf("Second Apply should replace the first, got %+v", got)
	}
}

func TestStatusEffects_RejectNone(t *testing.T) {
	c := NewStatusEffectsComponent()

	if err := c.Apply(EffectNone, 2, 50); err == nil {
		t.Error("Applying EffectNone should fail")
	}
	if err := c.Apply(EffectSlow, 0, 50); err == nil {
		t.Error("Applying a zero-duration effect should fail")
	}
	if len(c.Effects) != 0 {
		t.Errorf("Rejected effects must not be stored, got %v", c.Effects)
	}
}

func TestStatusEffects_TickExpiry(t *testing.T) {
	c := &StatusEffectsComponent{} // nil map 也可以 Apply
	_ = c.Apply(EffectSlow, 2, 50)

	// 第 1、2 个 tick 都是半速
	for tick := 1; tick <= 2; tick++ {
		if m := c.SpeedMultiplier(); m != 0.5 {
			t.Errorf("Tick %d: expected multiplier 0.5, got %.2f", tick, m)
		}
		c.Tick(1)
	}

	// 第 3 个 tick 恢复原速且效果表为空
	if m := c.SpeedMultiplier(); m != 1 {
		t.Errorf("Tick 3: expected multiplier 1, got %.2f", m)
	}
	if c.Has(EffectSlow) || len(c.Effects) != 0 {
		t.Errorf("Expired effect should be removed, got %v", c.Effects)
	}
}

func TestSlowMultiplier(t *testing.T) {
	tests := []struct {
		potency  float64
		expected float64
	}{
		{0, 1},
		{25, 0.75},
		{100, 0},
		{150, 0},
		{-10, 1},
	}

	for _, tt := range tests {
		if got := SlowMultiplier(tt.potency); got != tt.expected {
			t.Errorf("SlowMultiplier(%.0f): expected %.2f, got %.2f", tt.potency, tt.expected, got)
		}
	}
}

func TestParseEffectKind(t *testing.T) {
	if k, err := ParseEffectKind("slow"); err != nil || k != EffectSlow {
		t.Errorf("Expected EffectSlow, got %v (%v)", k, err)
	}
	if k, err := ParseEffectKind(""); err != nil || k != EffectNone {
		t.Errorf("Empty name should map to EffectNone, got %v (%v)", k, err)
	}
	if _, err := ParseEffectKind("burn"); err == nil {
		t.Error("Unknown effect should fail")
	}
}

func TestStatusEffects_TickExpiryWithFrameTimes(t *testing.T) {
	tests := []struct {
		name string
		dt   float64
	}{
		{"60 帧每秒", 1.0 / 60},
		{"30 帧每秒", 1.0 / 30},
		{"0.1 秒步长", 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for n := 3; n <= 10; n++ {
				c := NewStatusEffectsComponent()
				if err := c.Apply(EffectSlow, float64(n)*tt.dt, 50); err != nil {
					t.Fatalf("Apply failed: %v", err)
				}

				for tick := 1; tick <= n; tick++ {
					if m := c.SpeedMultiplier(); m != 0.5 {
						t.Fatalf("n=%d tick %d: expected multiplier 0.5, got %.2f", n, tick, m)
					}
					c.Tick(tt.dt)
				}

				if m := c.SpeedMultiplier(); m != 1 {
					t.Errorf("n=%d tick %d: expected multiplier 1, got %.2f", n, n+1, m)
				}
				if len(c.Effects) != 0 {
					t.Errorf("n=%d: expired effect should be removed, got %v", n, c.Effects)
				}
			}
		})
	}
}

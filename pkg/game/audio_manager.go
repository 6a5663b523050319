package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/decker502/mazetd/pkg/events"
)

// DefaultSampleRate 音频上下文采样率
const DefaultSampleRate = 48000

// AudioManager 音频管理器
// 职责：
//   - 合成并缓存所有音效播放器
//   - 根据 SettingsManager 的开关和音量播放音效
//   - 把游戏事件映射成音效
//
// audio.Context 为 nil 时处于静音模式（无头运行或测试），所有播放调用返回 false。
type AudioManager struct {
	context         *audio.Context
	settingsManager *SettingsManager // 可为 nil，此时使用默认设置
	soundPlayers    map[SoundID]*audio.Player
}

// NewAudioManager 创建新的音频管理器
//
// 参数：
//   - ctx: ebiten 音频上下文，可为 nil（静音模式）
//   - sm: SettingsManager 实例，可为 nil
func NewAudioManager(ctx *audio.Context, sm *SettingsManager) *AudioManager {
	return &AudioManager{
		context:         ctx,
		settingsManager: sm,
		soundPlayers:    make(map[SoundID]*audio.Player),
	}
}

// PlaySound 播放音效
//
// 返回：
//   - bool: 是否成功播放
func (am *AudioManager) PlaySound(id SoundID) bool {
	if !am.soundEnabled() {
		return false
	}

	player := am.getSoundPlayer(id)
	if player == nil {
		return false
	}

	player.SetVolume(am.getSoundVolume())
	if err := player.Rewind(); err != nil {
		log.Printf("[AudioManager] Warning: Failed to rewind sound %s: %v", id, err)
	}
	player.Play()
	return true
}

// PlayForEvent 播放事件对应的音效（没有对应音效的事件忽略）
func (am *AudioManager) PlayForEvent(ev events.GameEvent) bool {
	id, ok := SoundForEvent(ev)
	if !ok {
		return false
	}
	return am.PlaySound(id)
}

// SetSoundVolume 设置音效音量并应用到所有缓存的播放器
func (am *AudioManager) SetSoundVolume(volume float64) {
	if am.settingsManager != nil {
		am.settingsManager.SetSoundVolume(volume)
	}
	for _, player := range am.soundPlayers {
		player.SetVolume(am.getSoundVolume())
	}
}

// GetSoundVolume 获取当前音效音量
func (am *AudioManager) GetSoundVolume() float64 {
	return am.getSoundVolume()
}

// PreloadSounds 预先合成所有音效，避免首次播放时的卡顿
func (am *AudioManager) PreloadSounds() {
	if am.context == nil {
		return
	}
	for _, id := range AllSounds {
		am.getSoundPlayer(id)
	}
	log.Printf("[AudioManager] Preloaded %d sounds", len(am.soundPlayers))
}

// getSoundPlayer 获取或合成音效播放器
func (am *AudioManager) getSoundPlayer(id SoundID) *audio.Player {
	if am.context == nil {
		return nil
	}
	if player, exists := am.soundPlayers[id]; exists {
		return player
	}

	pcm, err := SynthesizeSound(id, am.context.SampleRate())
	if err != nil {
		log.Printf("[AudioManager] Warning: Failed to synthesize sound %s: %v", id, err)
		return nil
	}
	player := am.context.NewPlayerFromBytes(pcm)
	am.soundPlayers[id] = player
	return player
}

func (am *AudioManager) soundEnabled() bool {
	if am.settingsManager == nil {
		return true
	}
	return am.settingsManager.GetSettings().SoundEnabled
}

// getSoundVolume 获取音效音量设置
func (am *AudioManager) getSoundVolume() float64 {
	if am.settingsManager != nil {
		return am.settingsManager.GetSettings().SoundVolume
	}
	return DefaultSettings().SoundVolume
}

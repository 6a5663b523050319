package game

import (
	"fmt"
	"math"
	"time"

	"github.com/decker502/mazetd/pkg/events"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// SoundID 音效标识
type SoundID string

const (
	SoundBuild     SoundID = "build"
	SoundReject    SoundID = "reject"
	SoundKill      SoundID = "kill"
	SoundLeak      SoundID = "leak"
	SoundLevelUp   SoundID = "level_up"
	SoundLevelDown SoundID = "level_down"
)

// AllSounds 所有可合成的音效（按预加载顺序）
var AllSounds = []SoundID{SoundBuild, SoundReject, SoundKill, SoundLeak, SoundLevelUp, SoundLevelDown}

// WaveType 振荡器波形
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
)

// note 音效中的一个音符
type note struct {
	freq     float64
	duration time.Duration
	wave     WaveType
}

// soundNotes 每个音效由若干音符顺序拼接
var soundNotes = map[SoundID][]note{
	SoundBuild:     {{660, 80 * time.Millisecond, WaveSine}},
	SoundReject:    {{110, 120 * time.Millisecond, WaveSaw}},
	SoundKill:      {{880, 60 * time.Millisecond, WaveSine}, {1320, 60 * time.Millisecond, WaveSine}},
	SoundLeak:      {{220, 200 * time.Millisecond, WaveSquare}},
	SoundLevelUp:   {{523, 90 * time.Millisecond, WaveSine}, {659, 90 * time.Millisecond, WaveSine}, {784, 90 * time.Millisecond, WaveSine}},
	SoundLevelDown: {{392, 120 * time.Millisecond, WaveSaw}, {294, 120 * time.Millisecond, WaveSaw}, {196, 120 * time.Millisecond, WaveSaw}},
}

const (
	noteAttack  = 5 * time.Millisecond
	noteRelease = 20 * time.Millisecond
	// soundGain 合成音效的基础增益，避免方波/锯齿波过响
	soundGain = 0.35
)

// SoundDuration 音效总时长
func SoundDuration(id SoundID) time.Duration {
	var total time.Duration
	for _, n := range soundNotes[id] {
		total += n.duration
	}
	return total
}

// SoundForEvent 游戏事件对应的音效
// 没有对应音效的事件返回 false
func SoundForEvent(ev events.GameEvent) (SoundID, bool) {
	switch ev.Type {
	case events.EventObstacleBuilt:
		return SoundBuild, true
	case events.EventBuildRejected:
		return SoundReject, true
	case events.EventAgentFinished:
		payload, ok := ev.Payload.(events.AgentFinishedPayload)
		if !ok {
			return "", false
		}
		switch payload.Reason {
		case events.ReasonKilled:
			return SoundKill, true
		case events.ReasonReachedGoal:
			return SoundLeak, true
		}
	case events.EventLevelChanged:
		payload, ok := ev.Payload.(events.LevelChangedPayload)
		if !ok {
			return "", false
		}
		if payload.To > payload.From {
			return SoundLevelUp, true
		}
		if payload.To < payload.From {
			return SoundLevelDown, true
		}
	}
	return "", false
}

// SynthesizeSound 合成音效，返回 16 位小端立体声 PCM
//
// 参数:
//   - id: 音效标识
//   - sampleRate: 采样率（必须与 audio.Context 一致）
func SynthesizeSound(id SoundID, sampleRate int) ([]byte, error) {
	notes, ok := soundNotes[id]
	if !ok {
		return nil, fmt.Errorf("unknown sound %q", id)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", sampleRate)
	}

	rate := beep.SampleRate(sampleRate)
	streamers := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		osc := newOscillator(n.freq, n.duration, n.wave, rate)
		streamers = append(streamers, newEnvelope(osc, n.duration, noteAttack, noteRelease, rate))
	}

	out := &effects.Volume{
		Streamer: beep.Seq(streamers...),
		Base:     2,
		Volume:   math.Log2(soundGain),
	}
	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	return renderPCM(out, format)
}

// renderPCM 把流完整渲染成字节
func renderPCM(s beep.Streamer, format beep.Format) ([]byte, error) {
	var out []byte
	buf := make([][2]float64, 512)
	frame := make([]byte, format.Width())
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			format.EncodeSigned(frame, buf[i])
			out = append(out, frame...)
		}
		if !ok {
			break
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("render sound: %w", err)
	}
	return out, nil
}

// oscillator 生成固定长度的周期波形
type oscillator struct {
	freq     float64
	phase    float64
	position int
	duration int
	wave     WaveType
	rate     beep.SampleRate
}

func newOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, false
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1
			} else {
				val = -1
			}
		case WaveSaw:
			val = 2 * (o.phase - 0.5)
		}
		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope 线性起音/释音包络
type envelope struct {
	streamer     beep.Streamer
	position     int
	attack       int
	release      int
	totalSamples int
}

func newEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer:     s,
		attack:       rate.N(attack),
		release:      rate.N(release),
		totalSamples: rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	releaseStart := e.totalSamples - e.release
	for i := 0; i < n; i++ {
		vol := 1.0
		if e.attack > 0 && e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		}
		if e.release > 0 && e.position >= releaseStart {
			vol = math.Max(0, float64(e.totalSamples-e.position)/float64(e.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

package game

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/quasilyte/gdata/v2"
	"golang.org/x/crypto/blake2b"
	"gopkg.in/yaml.v3"

	"github.com/decker502/mazetd/pkg/simulation"
)

// ErrLayoutNotFound 没有找到指定的迷宫布局
var ErrLayoutNotFound = errors.New("layout not found")

// Layout 玩家搭建的迷宫布局
type Layout struct {
	GridSize int                      `yaml:"gridSize"`
	Towers   []simulation.PlacedTower `yaml:"towers"`
}

// Canonical 返回按格子排序后的副本
// 同一组塔无论建造顺序如何都得到相同的摘要
func (l Layout) Canonical() Layout {
	towers := append([]simulation.PlacedTower(nil), l.Towers...)
	sort.Slice(towers, func(i, j int) bool {
		return towers[i].Cell.Less(towers[j].Cell)
	})
	return Layout{GridSize: l.GridSize, Towers: towers}
}

// Digest 布局的内容摘要（blake2b-256 前 8 字节的十六进制）
func (l Layout) Digest() (string, error) {
	data, err := yaml.Marshal(l.Canonical())
	if err != nil {
		return "", fmt.Errorf("marshal layout: %w", err)
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:8]), nil
}

// 存储路径常量
const (
	layoutObject   = "layouts"
	lastLayoutProp = "last"
)

// LayoutStore 迷宫布局存储
//
// 布局以摘要为键保存，重复保存相同的布局不会产生新条目。
// gdataManager 为 nil 时只保存在内存中。
type LayoutStore struct {
	gdataManager *gdata.Manager
	memory       map[string][]byte
}

// NewLayoutStore 创建布局存储
func NewLayoutStore(gdataManager *gdata.Manager) *LayoutStore {
	return &LayoutStore{
		gdataManager: gdataManager,
		memory:       make(map[string][]byte),
	}
}

// Save 保存布局并记为最近一次的布局
//
// 返回：
//   - string: 布局摘要，用于 Load
//   - error: 序列化或写入失败
func (s *LayoutStore) Save(l Layout) (string, error) {
	canonical := l.Canonical()
	digest, err := canonical.Digest()
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(canonical)
	if err != nil {
		return "", fmt.Errorf("marshal layout: %w", err)
	}

	if err := s.put(digest, data); err != nil {
		return "", err
	}
	if err := s.put(lastLayoutProp, []byte(digest)); err != nil {
		return "", err
	}

	log.Printf("[LayoutStore] Saved layout %s (%d towers)", digest, len(canonical.Towers))
	return digest, nil
}

// Load 按摘要加载布局
func (s *LayoutStore) Load(digest string) (Layout, error) {
	data, err := s.get(digest)
	if err != nil {
		return Layout{}, err
	}

	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout %s: %w", digest, err)
	}
	return l, nil
}

// Last 加载最近一次保存的布局
func (s *LayoutStore) Last() (Layout, error) {
	digest, err := s.get(lastLayoutProp)
	if err != nil {
		return Layout{}, err
	}
	return s.Load(string(digest))
}

func (s *LayoutStore) put(prop string, data []byte) error {
	if s.gdataManager == nil {
		s.memory[prop] = append([]byte(nil), data...)
		return nil
	}
	if err := s.gdataManager.SaveObjectProp(layoutObject, prop, data); err != nil {
		return fmt.Errorf("failed to save layout %s: %w", prop, err)
	}
	return nil
}

func (s *LayoutStore) get(prop string) ([]byte, error) {
	if s.gdataManager == nil {
		data, ok := s.memory[prop]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrLayoutNotFound, prop)
		}
		return data, nil
	}
	if !s.gdataManager.ObjectPropExists(layoutObject, prop) {
		return nil, fmt.Errorf("%w: %s", ErrLayoutNotFound, prop)
	}
	data, err := s.gdataManager.LoadObjectProp(layoutObject, prop)
	if err != nil {
		return nil, fmt.Errorf("failed to load layout %s: %w", prop, err)
	}
	return data, nil
}

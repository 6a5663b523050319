// Package embedded 提供嵌入资源的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// embed.FS 变量必须声明在项目根目录（embed.go）。
// 本包提供包装函数，让其他包可以访问嵌入的配置文件。
//
// 以 "data/" 开头的路径从嵌入文件系统读取；
// 其他路径（例如 --config 指定的绝对路径）直接从磁盘读取。
//
// 读取嵌入资源前必须调用 Init() 初始化。
package embedded

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const dataPrefix = "data/"

var (
	dataFS      fs.FS
	initialized bool
)

// Init 初始化数据文件系统
// 必须在 main() 开始时、任何配置加载之前调用
// 参数 data 通常是根目录的 embed.FS，测试中可以传入 fstest.MapFS
func Init(data fs.FS) {
	dataFS = data
	initialized = true
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	return initialized
}

// normalize 标准化路径分隔符并移除 "./" 前缀
func normalize(path string) string {
	path = filepath.ToSlash(path)
	return strings.TrimPrefix(path, "./")
}

// isEmbeddedPath 判断路径是否指向嵌入资源
func isEmbeddedPath(path string) bool {
	return strings.HasPrefix(path, dataPrefix)
}

// ReadFile 读取文件内容
// "data/" 前缀的路径读取嵌入资源，其余路径读取磁盘文件
func ReadFile(path string) ([]byte, error) {
	norm := normalize(path)
	if !isEmbeddedPath(norm) {
		return os.ReadFile(path)
	}
	if !initialized {
		return nil, fmt.Errorf("embedded package not initialized, call Init() first")
	}
	return fs.ReadFile(dataFS, norm)
}

// Exists 检查文件是否存在
func Exists(path string) bool {
	norm := normalize(path)
	if !isEmbeddedPath(norm) {
		_, err := os.Stat(path)
		return err == nil
	}
	if !initialized {
		return false
	}
	_, err := fs.Stat(dataFS, norm)
	return err == nil
}

// Glob 在嵌入文件系统中匹配文件
// 模式必须以 "data/" 开头
func Glob(pattern string) ([]string, error) {
	if !initialized {
		return nil, fmt.Errorf("embedded package not initialized, call Init() first")
	}
	pattern = normalize(pattern)
	if !isEmbeddedPath(pattern) {
		return nil, fmt.Errorf("unknown resource path prefix: %s (must start with 'data/')", pattern)
	}
	return fs.Glob(dataFS, pattern)
}

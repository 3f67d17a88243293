package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
)

const (
	// FileName 是可选配置文件名，只在 cwd 下查找。
	FileName = "panelsdl.yaml"

	DefaultPanelsDomain = "http://localhost:8080"
	DefaultDownloadDir  = "wallpapers"
	DefaultWorkers      = 10
)

// FileConfig 对应 panelsdl.yaml 的解析结构。所有字段都是可选的。
type FileConfig struct {
	PanelsDomain      string `yaml:"panels_domain"`
	DownloadDirectory string `yaml:"download_directory"`
	Workers           *int   `yaml:"workers"`
}

// EffectiveConfig 是合并并做最小规范化后的最终配置（run 层直接消费，不再做二次默认）。
type EffectiveConfig struct {
	PanelsDomain string
	DownloadDir  string // 绝对路径
	Workers      int    // 至少为 1，没有上限
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s：配置文件 %q 无效：%v", e.Code, e.Path, e.Err)
	}
	return fmt.Sprintf("%s：配置文件 %q 无效", e.Code, e.Path)
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Default 返回内置默认值（cwd 用于把相对目录变为绝对路径）。
func Default(cwd string) EffectiveConfig {
	eff, _ := merge(cwd, FileConfig{}, "")
	return eff
}

// LoadEffective 读取 <cwd>/panelsdl.yaml（可选）并与内置默认值合并。
//
// 覆盖优先级（固定）：配置文件 > 默认值。没有 CLI 参数与环境变量。
func LoadEffective(cwd string) (EffectiveConfig, error) {
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cwd, Err: err}
	}

	cfgPath := filepath.Join(cwdAbs, FileName)
	fc, _, err := readFileConfig(cfgPath)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}
	return merge(cwdAbs, fc, cfgPath)
}

func merge(cwdAbs string, fc FileConfig, cfgPath string) (EffectiveConfig, error) {
	domain := strings.TrimSpace(fc.PanelsDomain)
	if domain == "" {
		domain = DefaultPanelsDomain
	}
	u, err := url.Parse(domain)
	if err != nil || u.Host == "" {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("panels_domain 无效：%q", domain)}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("panels_domain 必须是 http/https：%q", domain)}
	}

	dir := strings.TrimSpace(fc.DownloadDirectory)
	if dir == "" {
		dir = DefaultDownloadDir
	}

	workers := DefaultWorkers
	if fc.Workers != nil {
		workers = *fc.Workers
	}
	workers = ClampWorkers(workers)

	return EffectiveConfig{
		PanelsDomain: domain,
		DownloadDir:  absCleanFrom(cwdAbs, dir),
		Workers:      workers,
	}, nil
}

// ClampWorkers 返回 max(n, 1)：lane 数至少为 1，不设上限。
func ClampWorkers(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// absCleanFrom 以 base 为基准，把 p 变为 clean + absolute。
func absCleanFrom(base, p string) string {
	p = filepath.Clean(strings.TrimSpace(p))
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}

// readFileConfig 读取并解析 YAML 配置文件。
// 返回值 exists 表示该文件是否存在（不存在不算错误）。
func readFileConfig(path string) (fc FileConfig, exists bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, err
	}
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return FileConfig{}, true, err
	}
	return fc, true, nil
}

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fmzh2021/news-collection/internal/domain"
)

const (
	// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
	ErrCodeInvalid = domain.ErrCodeConfigInvalid
	// ErrCodeUnsupportedPlatform 表示 --platforms 里出现未知平台名。
	ErrCodeUnsupportedPlatform = domain.ErrCodeUnsupportedPlatform
)

const (
	// FileName 是 cwd 下的可选配置文件名。
	FileName = "news.json"

	// DefaultDelay 是平台之间的固定间隔（顺序执行的节流）。
	DefaultDelay = 1 * time.Second
	// DefaultLimit 是单平台结果上限的默认与最大值。
	DefaultLimit = 10
	// DefaultOutDir 是报告落盘目录的默认值。
	DefaultOutDir = "results"
)

// DefaultPlatforms 是未指定 --platforms 时的平台顺序（顺序即执行顺序）。
var DefaultPlatforms = []domain.Platform{domain.PlatformToutiao, domain.PlatformGoogle, domain.PlatformBing}

// CLIArgs 只包含 CLI 暴露的入口，并保留“是否显式指定”的信息。
// 这能保证覆盖优先级可实现：例如 --save=false 必须能覆盖 config.save=true。
type CLIArgs struct {
	Keyword string

	Platforms    string
	PlatformsSet bool

	Save    bool
	SaveSet bool

	OutDir    string
	OutDirSet bool
}

// FileConfig 对应 news.json 的解析结构。
type FileConfig struct {
	Platforms []string     `json:"platforms"`
	Save      *bool        `json:"save"`
	OutDir    string       `json:"out_dir"`
	Limit     int          `json:"limit"`
	DelayMS   int          `json:"delay_ms"`
	Proxy     *ProxyConfig `json:"proxy"`
}

type ProxyConfig struct {
	URL string `json:"url"`
}

// Effective 是合并并做最小规范化后的最终配置（实现层直接消费，不再做二次默认/优先级判断）。
type Effective struct {
	Keyword   string
	Platforms []domain.Platform

	Save   bool
	OutDir string

	Limit    int
	Delay    time.Duration
	ProxyURL string
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Path != "":
		return fmt.Sprintf("%s：配置文件 %q 无效：%v", e.Code, e.Path, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s：%v", e.Code, e.Err)
	default:
		return e.Code
	}
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

// LoadEffective 读取 <cwd>/news.json（可选）并与 CLI 参数合并为最终配置。
//
// 覆盖优先级（固定）：
// - platforms：CLI --platforms > config > 默认全平台
// - save：CLI --save/--save=false > config > 默认 true
// - out_dir：CLI --out > config > 默认 results
// - limit/delay/proxy：仅由 config 控制（CLI 不暴露）
//
// 未知平台名在这里拒绝，管线不会跑起来后再失败。
func LoadEffective(cwd string, cli CLIArgs) (Effective, error) {
	keyword := strings.TrimSpace(cli.Keyword)
	if keyword == "" {
		return Effective{}, &Error{Code: ErrCodeInvalid, Err: fmt.Errorf("keyword 不能为空")}
	}

	cfgPath := filepath.Join(cwd, FileName)
	fc, err := readFileConfig(cfgPath)
	if err != nil {
		return Effective{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}

	// platforms：CLI > config > 默认
	var names []string
	switch {
	case cli.PlatformsSet:
		names = splitList(cli.Platforms)
	case len(fc.Platforms) > 0:
		names = fc.Platforms
	}
	platforms, err := parsePlatforms(names)
	if err != nil {
		return Effective{}, &Error{Code: ErrCodeUnsupportedPlatform, Err: err}
	}

	// save：CLI > config > 默认 true
	save := true
	if cli.SaveSet {
		save = cli.Save
	} else if fc.Save != nil {
		save = *fc.Save
	}

	outDir := DefaultOutDir
	if cli.OutDirSet && strings.TrimSpace(cli.OutDir) != "" {
		outDir = cli.OutDir
	} else if strings.TrimSpace(fc.OutDir) != "" {
		outDir = fc.OutDir
	}

	// limit：范围 [1, 10]；超出截断。
	limit := fc.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > DefaultLimit {
		limit = DefaultLimit
	}

	delay := DefaultDelay
	if fc.DelayMS > 0 {
		delay = time.Duration(fc.DelayMS) * time.Millisecond
	}

	proxyURL := ""
	if fc.Proxy != nil {
		proxyURL = strings.TrimSpace(fc.Proxy.URL)
	}
	if proxyURL != "" {
		if _, err := url.Parse(proxyURL); err != nil {
			return Effective{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("proxy.url 无效：%w", err)}
		}
	}

	return Effective{
		Keyword:   keyword,
		Platforms: platforms,
		Save:      save,
		OutDir:    outDir,
		Limit:     limit,
		Delay:     delay,
		ProxyURL:  proxyURL,
	}, nil
}

func readFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// 配置文件可选：不存在按全默认处理。
			return fc, nil
		}
		return fc, err
	}
	if err := json.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

func parsePlatforms(names []string) ([]domain.Platform, error) {
	if len(names) == 0 {
		return append([]domain.Platform(nil), DefaultPlatforms...), nil
	}
	var out []domain.Platform
	seen := make(map[domain.Platform]struct{})
	for _, name := range names {
		p, ok := domain.ParsePlatform(name)
		if !ok {
			return nil, fmt.Errorf("不支持的平台：%q", name)
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package domain

import (
	"fmt"
	"time"
)

const (
	ErrCodeFetchFailed         = "fetch_failed"
	ErrCodeRenderTimeout       = "render_timeout"
	ErrCodeEmpty               = "empty"
	ErrCodeConfigInvalid       = "config_invalid"
	ErrCodeUnsupportedPlatform = "unsupported_platform"
)

// AggregateReport 是对外稳定输出（stdout JSON / results_*.json）的结构。
// 字段集合与历史产物格式保持一致，消费方（Pages / Actions artifact）依赖它。
type AggregateReport struct {
	Keyword   string         `json:"keyword"`
	Total     int            `json:"total"`
	Results   []SearchResult `json:"results"`
	Platforms []Platform     `json:"platforms"`
	Timestamp time.Time      `json:"timestamp"`
	RunID     string         `json:"run_id"`
	RunNumber string         `json:"run_number"`
	Filename  string         `json:"filename"`
}

// Finalize 做三件事：
// 1) Timestamp 统一为 UTC（确保 JSON 为 RFC3339 且后缀 Z）
// 2) Total 由 Results 计算得出
// 3) Filename 由 run 标识 + 时间戳生成（唯一文件名，避免并发覆盖）
//
// Results 的顺序不在这里调整：插入顺序（平台顺序 × 平台内发现顺序）本身是契约。
func (r *AggregateReport) Finalize() {
	r.Timestamp = r.Timestamp.UTC()
	r.Total = len(r.Results)
	if r.Results == nil {
		r.Results = []SearchResult{}
	}
	if r.Platforms == nil {
		r.Platforms = []Platform{}
	}
	r.Filename = fmt.Sprintf("results_%s_%s_%s.json", r.RunID, r.RunNumber, r.Timestamp.Format("20060102_150405"))
}

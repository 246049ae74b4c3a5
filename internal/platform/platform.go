package platform

import (
	"context"
	"net/http"

	"github.com/fmzh2021/news-collection/internal/domain"
	"github.com/fmzh2021/news-collection/internal/render"
)

// Searcher 把“站点变化”限制在各平台包内部；核心流程只依赖统一接口
// 与稳定的 SearchResult。
//
// 约束：
// - Search 不做缓存、不做重试、不做限速（由上层统一控制节奏）
// - 返回的结果已经过 normalize：绝对 URL、标题合法、平台内去重、≤ limit 条
// - 平台級失败通过 error 返回，由上层降级为“该平台贡献 0 条”，绝不中止整轮
type Searcher interface {
	Name() domain.Platform
	Profile() domain.Profile
	Search(ctx context.Context, keyword string, c *http.Client, r render.Renderer, limit int) ([]domain.SearchResult, Trace, error)
}

// Attempt 记录一次策略尝试（用于解释链路为什么落到了某条策略）。
// 注意：这是内部执行轨迹，不直接写入 report（由上层决定如何呈现）。
type Attempt struct {
	Strategy domain.Strategy
	Stage    string // "extract" / "empty" / "ok"
	Err      error  // nil unless Stage=="extract"
}

// Trace 是单个平台一次搜索的链路轨迹。
type Trace struct {
	Strategy domain.Strategy // 最终获胜的策略；空表示没有策略成功
	Attempts []Attempt
}

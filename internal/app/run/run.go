// Package run 是把各平台搜索串成一轮完整执行的聚合层。
//
// 执行模型刻意保持单线程顺序：平台按配置顺序逐个跑，平台之间固定
// 间隔一拍。并发抓取对搜索引擎过于显眼，换来的时间也不值得。
package run

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fmzh2021/news-collection/internal/config"
	"github.com/fmzh2021/news-collection/internal/domain"
	"github.com/fmzh2021/news-collection/internal/platform"
	"github.com/fmzh2021/news-collection/internal/render"
)

// 可替换的时钟函数，让测试不必真的睡与等。
var (
	nowFunc   = time.Now
	sleepFunc = sleepCtx
)

// Deps 是一轮执行的外部依赖（由 cmd 层组装）。
type Deps struct {
	Registry platform.Registry
	Client   *http.Client
	Renderer render.Renderer // 可选；nil 时所有平台走纯抓取路径
}

// Execute 跑完整一轮搜索并返回定稿的聚合报告。
func Execute(ctx context.Context, eff config.Effective, deps Deps) domain.AggregateReport {
	return ExecuteWithObserver(ctx, eff, deps, nil)
}

// ExecuteWithObserver 与 Execute 相同，但允许传入 Observer 以输出进度信息（由上层决定是否启用）。
//
// 平台级失败只降级：该平台贡献 0 条，轮次继续。报告里的 Results
// 顺序即“平台顺序 × 平台内发现顺序”，不再排序。
func ExecuteWithObserver(ctx context.Context, eff config.Effective, deps Deps, obs Observer) domain.AggregateReport {
	start := nowFunc()
	runID, runNumber := RunIdentity()
	if obs != nil {
		obs.OnStart(eff, runID, runNumber)
	}

	rep := domain.AggregateReport{
		Keyword:   eff.Keyword,
		Platforms: append([]domain.Platform(nil), eff.Platforms...),
		Timestamp: start,
		RunID:     runID,
		RunNumber: runNumber,
	}

	total := len(eff.Platforms)
	for i, name := range eff.Platforms {
		if i > 0 {
			sleepFunc(ctx, eff.Delay)
		}
		if obs != nil {
			obs.OnPlatformStart(i, total, name)
		}

		t0 := nowFunc()
		res, tr, err := searchOne(ctx, deps, name, eff.Keyword, eff.Limit)
		if err != nil {
			res = nil
		}
		rep.Results = append(rep.Results, res...)

		if obs != nil {
			obs.OnPlatformDone(i, total, name, len(res), tr, err, nowFunc().Sub(t0))
		}
	}

	rep.Finalize()
	if obs != nil {
		obs.OnFinish(rep, nowFunc().Sub(start))
	}
	return rep
}

func searchOne(ctx context.Context, deps Deps, name domain.Platform, keyword string, limit int) ([]domain.SearchResult, platform.Trace, error) {
	s, ok := deps.Registry.Get(string(name))
	if !ok {
		// config 层已拒绝未知平台；这里兜底等价于“平台失败”。
		return nil, platform.Trace{}, &UnknownPlatformError{Name: name}
	}
	return s.Search(ctx, keyword, deps.Client, deps.Renderer, limit)
}

// UnknownPlatformError 表示注册表里找不到配置要求的平台。
type UnknownPlatformError struct {
	Name domain.Platform
}

func (e *UnknownPlatformError) Error() string {
	return domain.ErrCodeUnsupportedPlatform + "：" + string(e.Name)
}

// RunIdentity 返回本轮的 run 标识。
// CI 环境下沿用 Actions 注入的 run id/number，本地运行退化为短随机 ID + "0"。
func RunIdentity() (runID, runNumber string) {
	runID = strings.TrimSpace(os.Getenv("GITHUB_RUN_ID"))
	if runID == "" {
		runID = uuid.NewString()[:8]
	}
	runNumber = strings.TrimSpace(os.Getenv("GITHUB_RUN_NUMBER"))
	if runNumber == "" {
		runNumber = "0"
	}
	return runID, runNumber
}

// sleepCtx 在间隔与 ctx 取消之间先到者为准。
func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

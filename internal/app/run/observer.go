package run

import (
	"time"

	"github.com/fmzh2021/news-collection/internal/config"
	"github.com/fmzh2021/news-collection/internal/domain"
	"github.com/fmzh2021/news-collection/internal/platform"
)

// Observer 用于把“运行进度/平台结果”从核心执行流程中解耦出来。
//
// 约束：
// - run 包只负责发事件，不做任何输出（避免污染 stdout 的 JSON 契约）。
// - 执行是单线程顺序的，事件回调也按顺序到达，无并发要求。
type Observer interface {
	// OnStart 在 ExecuteWithObserver 开始时调用（应尽量早，保证用户 1 秒内看到输出）。
	OnStart(eff config.Effective, runID, runNumber string)
	// OnPlatformStart 在某个平台开始搜索前调用。
	OnPlatformStart(idx, total int, name domain.Platform)
	// OnPlatformDone 在某个平台搜索结束后调用。
	// err 非 nil 表示该平台整体失败（已降级为 0 条）；tr 解释链路落在了哪条策略。
	OnPlatformDone(idx, total int, name domain.Platform, count int, tr platform.Trace, err error, dur time.Duration)
	// OnFinish 在聚合报告定稿后调用。
	OnFinish(rep domain.AggregateReport, elapsed time.Duration)
}

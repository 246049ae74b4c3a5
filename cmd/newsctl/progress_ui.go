package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fmzh2021/news-collection/internal/app/run"
	"github.com/fmzh2021/news-collection/internal/config"
	"github.com/fmzh2021/news-collection/internal/domain"
	"github.com/fmzh2021/news-collection/internal/platform"
)

var _ run.Observer = (*progressUI)(nil)

// progressUI 是交互终端的进度输出。
//
// 设计目标：
// - 所有过程信息写到 stderr，不污染 stdout 的 JSON 输出契约
// - 事件驱动：run 层只发事件，CLI 决定如何展示
// - 失败平台的链路轨迹要可见：用户应当知道链条是在哪条策略上断的
type progressUI struct {
	w io.Writer
}

func newProgressUI(w io.Writer) *progressUI {
	return &progressUI{w: w}
}

func (p *progressUI) OnStart(eff config.Effective, runID, runNumber string) {
	fmt.Fprintf(p.w, "[%s] newsctl search %q\n", time.Now().Format("15:04:05"), eff.Keyword)
	fmt.Fprintln(p.w, "配置（生效）:")
	fmt.Fprintf(p.w, "  platforms: %s\n", joinPlatforms(eff.Platforms))
	fmt.Fprintf(p.w, "  limit: %d  delay: %s\n", eff.Limit, eff.Delay)
	fmt.Fprintf(p.w, "  proxy: %s\n", formatProxy(eff.ProxyURL))
	fmt.Fprintf(p.w, "  save: %v  out: %s\n", eff.Save, eff.OutDir)
	fmt.Fprintf(p.w, "  run: id=%s number=%s\n", runID, runNumber)
	fmt.Fprintln(p.w)
}

func (p *progressUI) OnPlatformStart(idx, total int, name domain.Platform) {
	fmt.Fprintf(p.w, "[%d/%d] %s ...\n", idx+1, total, name)
}

func (p *progressUI) OnPlatformDone(idx, total int, name domain.Platform, count int, tr platform.Trace, err error, dur time.Duration) {
	switch {
	case err != nil:
		fmt.Fprintf(p.w, "[%d/%d] %s 失败：%v (%s)\n", idx+1, total, name, err, formatShortDuration(dur))
	case count == 0:
		fmt.Fprintf(p.w, "[%d/%d] %s 无结果 %s (%s)\n", idx+1, total, name, formatAttempts(tr), formatShortDuration(dur))
	default:
		fmt.Fprintf(p.w, "[%d/%d] %s %d 条 via %s (%s)\n", idx+1, total, name, count, tr.Strategy, formatShortDuration(dur))
	}
}

func (p *progressUI) OnFinish(rep domain.AggregateReport, elapsed time.Duration) {
	fmt.Fprintf(p.w, "\n完成：total=%d platforms=%d (%s)\n", rep.Total, len(rep.Platforms), formatShortDuration(elapsed))
}

func joinPlatforms(ps []domain.Platform) string {
	names := make([]string, 0, len(ps))
	for _, p := range ps {
		names = append(names, string(p))
	}
	return strings.Join(names, ",")
}

// formatAttempts 把链路轨迹压成一行, 解释为什么落空。
func formatAttempts(tr platform.Trace) string {
	if len(tr.Attempts) == 0 {
		return "(无可用策略)"
	}
	parts := make([]string, 0, len(tr.Attempts))
	for _, at := range tr.Attempts {
		parts = append(parts, fmt.Sprintf("%s:%s", at.Strategy, at.Stage))
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func formatProxy(u string) string {
	if strings.TrimSpace(u) == "" {
		return "off"
	}
	return u
}

func formatShortDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}

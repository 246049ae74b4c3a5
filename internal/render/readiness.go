package render

import (
	"context"
	"time"
)

// Waits 是就绪协议各阶段的时间参数。
type Waits struct {
	DOMReady     time.Duration // Navigate（硬超时）
	NetworkIdle1 time.Duration // 首次网络空闲（软超时）
	NetworkIdle2 time.Duration // 滚动后的网络空闲（软超时）
	Settle       time.Duration // 网络空闲后的固定静置，等延迟脚本跑完
	ScrollPause  time.Duration // 两次滚动之间的停顿
	FinalSettle  time.Duration // 读取内容前的最终静置
}

// DefaultWaits 的取值对齐线上浏览器抓取的经验参数。
func DefaultWaits() Waits {
	return Waits{
		DOMReady:     60 * time.Second,
		NetworkIdle1: 10 * time.Second,
		NetworkIdle2: 5 * time.Second,
		Settle:       2 * time.Second,
		ScrollPause:  1 * time.Second,
		FinalSettle:  1 * time.Second,
	}
}

const (
	scrollToMiddle = "window.scrollTo(0, document.body.scrollHeight / 2)"
	scrollToBottom = "window.scrollTo(0, document.body.scrollHeight)"
)

// Prepare 执行页面就绪协议——一个线性状态机，不回跳：
//
//	Navigate → DOM-Ready → NetworkIdle#1（软）→ 静置 → 滚动触发懒加载（中点、底部）
//	→ NetworkIdle#2（软）→ 最终静置 → 读取内容
//
// 软超时从不中止流程：超时就带着当前内容进入下一状态。
// 终态总能产出一份 DOM 快照，交给与非渲染路径相同的策略链。
func Prepare(ctx context.Context, r Renderer, url string, w Waits) (string, error) {
	if err := r.Navigate(ctx, url, "domcontentloaded", w.DOMReady); err != nil {
		return "", err
	}

	// 软等待：错误与超时一律忽略，继续推进。
	_ = r.WaitForLoadState(ctx, "networkidle", w.NetworkIdle1)
	r.WaitForTimeout(ctx, w.Settle)

	_ = r.Evaluate(ctx, scrollToMiddle)
	r.WaitForTimeout(ctx, w.ScrollPause)
	_ = r.Evaluate(ctx, scrollToBottom)
	r.WaitForTimeout(ctx, w.Settle)

	_ = r.WaitForLoadState(ctx, "networkidle", w.NetworkIdle2)
	r.WaitForTimeout(ctx, w.FinalSettle)

	return r.Content(ctx)
}

// Package render 把“动态页面渲染”建模为可选协作者：
// 存在时管线先走渲染路径，缺席时管线完全退回 Fetcher 路径。
// 本包不内置任何浏览器驱动，只定义契约与就绪协议。
package render

import (
	"context"
	"time"
)

// Renderer 是渲染协作者的最小契约（由外部驱动层实现）。
//
// 约束：
// - Navigate 是硬等待：失败/超时表示本次渲染不可用
// - WaitForLoadState 是软等待：超时只代表“当前内容凑合用”
// - Content 返回当前 DOM 快照的 HTML 串
type Renderer interface {
	Navigate(ctx context.Context, url string, waitUntil string, timeout time.Duration) error
	WaitForLoadState(ctx context.Context, state string, timeout time.Duration) error
	WaitForTimeout(ctx context.Context, d time.Duration)
	Evaluate(ctx context.Context, script string) error
	QuerySelectorAll(ctx context.Context, selector string) ([]Element, error)
	Content(ctx context.Context) (string, error)
}

// Element 是渲染器返回的元素句柄（只读视角）。
type Element interface {
	QuerySelector(selector string) (Element, bool)
	Text() string
	Attr(name string) (string, bool)
}

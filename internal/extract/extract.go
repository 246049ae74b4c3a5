// Package extract 实现单个已解码文档上的各条提取策略。
//
// 每条策略都是失败隔离的：单条候选/单个 pattern 的解析错误只丢弃该候选，
// 绝不让整条策略失败，更不向链路抛异常。策略只产出原始候选，
// 清洗、去重、封顶统一交给 normalize。
package extract

import (
	"github.com/fmzh2021/news-collection/internal/domain"
	"github.com/fmzh2021/news-collection/internal/normalize"
)

// acceptable 是策略层的快速准入判断（与 normalize 的门保持一致）。
// 策略在收集阶段就过滤明显无效的链接，避免把噪声带进链路统计。
func acceptable(prof domain.Profile, raw string) bool {
	u, ok := normalize.CanonicalURL(prof, raw)
	if !ok {
		return false
	}
	return normalize.AcceptURL(prof, u)
}

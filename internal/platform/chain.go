package platform

import (
	"github.com/fmzh2021/news-collection/internal/domain"
	"github.com/fmzh2021/news-collection/internal/normalize"
)

// Step 是策略链上的一级：固定的策略标识 + 延迟执行的闭包。
type Step struct {
	Strategy domain.Strategy
	Run      func() domain.StrategyOutcome
}

// RunChain 按固定优先级执行策略链。
//
// 提交规则：第一条 Success 且清洗后仍有存活结果的策略获胜，
// 之后的策略一概跳过。Failed/Empty 以及“清洗后全灭”都只是推进到下一条。
func RunChain(prof domain.Profile, limit int, steps []Step) ([]domain.SearchResult, Trace) {
	var tr Trace
	for _, st := range steps {
		out := st.Run()
		switch {
		case out.IsFailed():
			tr.Attempts = append(tr.Attempts, Attempt{Strategy: st.Strategy, Stage: "extract", Err: out.Err})
			continue
		case out.IsEmpty():
			tr.Attempts = append(tr.Attempts, Attempt{Strategy: st.Strategy, Stage: "empty"})
			continue
		}

		res := normalize.Normalize(out.Candidates, prof, limit)
		if len(res) == 0 {
			tr.Attempts = append(tr.Attempts, Attempt{Strategy: st.Strategy, Stage: "empty"})
			continue
		}
		tr.Strategy = st.Strategy
		tr.Attempts = append(tr.Attempts, Attempt{Strategy: st.Strategy, Stage: "ok"})
		return res, tr
	}
	return nil, tr
}

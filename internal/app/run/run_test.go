package run

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/fmzh2021/news-collection/internal/config"
	"github.com/fmzh2021/news-collection/internal/domain"
	"github.com/fmzh2021/news-collection/internal/platform"
	"github.com/fmzh2021/news-collection/internal/render"
)

type stubSearcher struct {
	name    domain.Platform
	results []domain.SearchResult
	err     error
	calls   int
}

func (s *stubSearcher) Name() domain.Platform { return s.name }

func (s *stubSearcher) Profile() domain.Profile {
	return domain.Profile{Platform: s.name}
}

func (s *stubSearcher) Search(_ context.Context, _ string, _ *http.Client, _ render.Renderer, _ int) ([]domain.SearchResult, platform.Trace, error) {
	s.calls++
	return s.results, platform.Trace{Strategy: domain.StrategyDOM}, s.err
}

func mustRegistry(t *testing.T, searchers ...platform.Searcher) platform.Registry {
	t.Helper()
	reg, err := platform.NewRegistry(searchers...)
	if err != nil {
		t.Fatalf("构建注册表失败：%v", err)
	}
	return reg
}

func noSleep(t *testing.T) {
	t.Helper()
	old := sleepFunc
	sleepFunc = func(context.Context, time.Duration) {}
	t.Cleanup(func() { sleepFunc = old })
}

func TestExecute_AggregatesInPlatformOrder(t *testing.T) {
	noSleep(t)

	toutiao := &stubSearcher{name: domain.PlatformToutiao, results: []domain.SearchResult{
		{Title: "头条的第一条结果", URL: "https://toutiao.com/group/1/", Platform: domain.PlatformToutiao},
	}}
	bing := &stubSearcher{name: domain.PlatformBing, results: []domain.SearchResult{
		{Title: "必应的第一条结果", URL: "https://news.example.com/1", Platform: domain.PlatformBing},
	}}

	eff := config.Effective{
		Keyword:   "樊振东",
		Platforms: []domain.Platform{domain.PlatformToutiao, domain.PlatformBing},
		Limit:     10,
	}
	rep := Execute(context.Background(), eff, Deps{Registry: mustRegistry(t, toutiao, bing)})

	if rep.Total != 2 || len(rep.Results) != 2 {
		t.Fatalf("total 不符：%+v", rep)
	}
	if rep.Results[0].Platform != domain.PlatformToutiao || rep.Results[1].Platform != domain.PlatformBing {
		t.Errorf("结果未按平台顺序聚合：%+v", rep.Results)
	}
	if rep.Keyword != "樊振东" || rep.Filename == "" {
		t.Errorf("报告未定稿：%+v", rep)
	}
	if toutiao.calls != 1 || bing.calls != 1 {
		t.Errorf("每个平台应各被调用一次：%d/%d", toutiao.calls, bing.calls)
	}
}

// 平台失败降级为 0 条, 不中止整轮。
func TestExecute_PlatformFailureDegrades(t *testing.T) {
	noSleep(t)

	broken := &stubSearcher{name: domain.PlatformToutiao, err: errors.New("HTTP 403")}
	ok := &stubSearcher{name: domain.PlatformBing, results: []domain.SearchResult{
		{Title: "必应仍然有结果可用", URL: "https://news.example.com/1", Platform: domain.PlatformBing},
	}}

	eff := config.Effective{
		Keyword:   "x",
		Platforms: []domain.Platform{domain.PlatformToutiao, domain.PlatformBing},
		Limit:     10,
	}
	rep := Execute(context.Background(), eff, Deps{Registry: mustRegistry(t, broken, ok)})

	if rep.Total != 1 {
		t.Fatalf("期望失败平台贡献 0 条，实际 total=%d", rep.Total)
	}
	if rep.Results[0].Platform != domain.PlatformBing {
		t.Errorf("存活结果不符：%+v", rep.Results)
	}
}

// 平台之间固定间隔一拍, 首个平台之前不等。
func TestExecute_DelayBetweenPlatforms(t *testing.T) {
	var slept []time.Duration
	old := sleepFunc
	sleepFunc = func(_ context.Context, d time.Duration) { slept = append(slept, d) }
	t.Cleanup(func() { sleepFunc = old })

	a := &stubSearcher{name: domain.PlatformToutiao}
	b := &stubSearcher{name: domain.PlatformGoogle}
	c := &stubSearcher{name: domain.PlatformBing}

	eff := config.Effective{
		Keyword:   "x",
		Platforms: []domain.Platform{domain.PlatformToutiao, domain.PlatformGoogle, domain.PlatformBing},
		Delay:     1 * time.Second,
		Limit:     10,
	}
	Execute(context.Background(), eff, Deps{Registry: mustRegistry(t, a, b, c)})

	if len(slept) != 2 {
		t.Fatalf("三个平台应只间隔两次，实际 %d", len(slept))
	}
	for _, d := range slept {
		if d != 1*time.Second {
			t.Errorf("间隔不符：%v", d)
		}
	}
}

type recordObserver struct {
	starts  int
	pStarts []domain.Platform
	pDones  []domain.Platform
	counts  []int
	errs    []error
	finish  int
}

func (o *recordObserver) OnStart(config.Effective, string, string) { o.starts++ }

func (o *recordObserver) OnPlatformStart(_, _ int, name domain.Platform) {
	o.pStarts = append(o.pStarts, name)
}

func (o *recordObserver) OnPlatformDone(_, _ int, name domain.Platform, count int, _ platform.Trace, err error, _ time.Duration) {
	o.pDones = append(o.pDones, name)
	o.counts = append(o.counts, count)
	o.errs = append(o.errs, err)
}

func (o *recordObserver) OnFinish(domain.AggregateReport, time.Duration) { o.finish++ }

func TestExecuteWithObserver_EmitsEvents(t *testing.T) {
	noSleep(t)

	ok := &stubSearcher{name: domain.PlatformToutiao, results: []domain.SearchResult{
		{Title: "头条的第一条结果", URL: "https://toutiao.com/group/1/", Platform: domain.PlatformToutiao},
	}}
	broken := &stubSearcher{name: domain.PlatformBing, err: errors.New("HTTP 429")}

	eff := config.Effective{
		Keyword:   "x",
		Platforms: []domain.Platform{domain.PlatformToutiao, domain.PlatformBing},
		Limit:     10,
	}
	obs := &recordObserver{}
	ExecuteWithObserver(context.Background(), eff, Deps{Registry: mustRegistry(t, ok, broken)}, obs)

	if obs.starts != 1 || obs.finish != 1 {
		t.Errorf("start/finish 事件不符：%d/%d", obs.starts, obs.finish)
	}
	if len(obs.pStarts) != 2 || len(obs.pDones) != 2 {
		t.Fatalf("平台事件不符：%d/%d", len(obs.pStarts), len(obs.pDones))
	}
	if obs.counts[0] != 1 || obs.counts[1] != 0 {
		t.Errorf("平台条数不符：%v", obs.counts)
	}
	if obs.errs[0] != nil || obs.errs[1] == nil {
		t.Errorf("平台错误不符：%v", obs.errs)
	}
}

func TestRunIdentity(t *testing.T) {
	t.Setenv("GITHUB_RUN_ID", "9876543210")
	t.Setenv("GITHUB_RUN_NUMBER", "42")
	id, num := RunIdentity()
	if id != "9876543210" || num != "42" {
		t.Errorf("CI 标识不符：%q %q", id, num)
	}

	t.Setenv("GITHUB_RUN_ID", "")
	t.Setenv("GITHUB_RUN_NUMBER", "")
	id, num = RunIdentity()
	if len(id) != 8 || num != "0" {
		t.Errorf("本地标识不符：%q %q", id, num)
	}
}

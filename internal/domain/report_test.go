package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestFinalize_FilenameAndTotal(t *testing.T) {
	ts := time.Date(2026, 8, 31, 12, 30, 45, 0, time.FixedZone("CST", 8*3600))
	r := AggregateReport{
		Keyword: "樊振东",
		Results: []SearchResult{
			{Title: "樊振东夺冠", URL: "https://www.toutiao.com/group/123/", Platform: PlatformToutiao},
			{Title: "赛事回顾", URL: "https://example.com/news/1", Platform: PlatformGoogle},
		},
		Platforms: []Platform{PlatformToutiao, PlatformGoogle},
		Timestamp: ts,
		RunID:     "987",
		RunNumber: "42",
	}
	r.Finalize()

	if r.Total != 2 {
		t.Fatalf("期望 total=2，实际=%d", r.Total)
	}
	// 12:30:45 CST == 04:30:45 UTC
	if r.Filename != "results_987_42_20260831_043045.json" {
		t.Fatalf("filename 不符：%q", r.Filename)
	}
	if r.Timestamp.Location() != time.UTC {
		t.Fatalf("Timestamp 未转为 UTC：%v", r.Timestamp)
	}

	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("json.Marshal 失败：%v", err)
	}
	for _, key := range []string{`"keyword"`, `"total"`, `"results"`, `"platforms"`, `"timestamp"`, `"run_id"`, `"run_number"`, `"filename"`} {
		if !strings.Contains(string(b), key) {
			t.Fatalf("报告 JSON 缺少字段 %s：%s", key, b)
		}
	}
}

func TestFinalize_EmptyRun(t *testing.T) {
	r := AggregateReport{Keyword: "空", Timestamp: time.Now(), RunID: "local", RunNumber: "0"}
	r.Finalize()
	if r.Total != 0 {
		t.Fatalf("期望 total=0，实际=%d", r.Total)
	}
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("json.Marshal 失败：%v", err)
	}
	// 空结果必须序列化为 []，不能是 null（消费方按数组解析）。
	if !strings.Contains(string(b), `"results":[]`) {
		t.Fatalf("空 results 应为 []：%s", b)
	}
	if !strings.Contains(string(b), `"platforms":[]`) {
		t.Fatalf("空 platforms 应为 []：%s", b)
	}
}

func TestParsePlatform(t *testing.T) {
	cases := []struct {
		in   string
		want Platform
		ok   bool
	}{
		{"toutiao", PlatformToutiao, true},
		{" Google ", PlatformGoogle, true},
		{"BING", PlatformBing, true},
		{"baidu", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := ParsePlatform(c.in)
		if ok != c.ok || got != c.want {
			t.Fatalf("ParsePlatform(%q) = (%q, %v)，期望 (%q, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestStrategyOutcome_States(t *testing.T) {
	s := Success([]Candidate{{Title: "标题标题", URL: "https://x.com/a"}})
	if !s.IsSuccess() || s.IsEmpty() || s.IsFailed() {
		t.Fatalf("Success 状态判断错误：%+v", s)
	}
	e := Empty()
	if !e.IsEmpty() || e.IsSuccess() || e.IsFailed() {
		t.Fatalf("Empty 状态判断错误：%+v", e)
	}
	f := Failed(errors.New("测试错误"))
	if !f.IsFailed() || f.IsSuccess() || f.IsEmpty() {
		t.Fatalf("Failed 状态判断错误：%+v", f)
	}
}

package extract

import (
	"testing"

	"github.com/fmzh2021/news-collection/internal/domain"
)

var bingProf = domain.Profile{
	Platform:    domain.PlatformBing,
	Origin:      "https://www.bing.com",
	MinTitleLen: 5,
}

func TestDOMHeuristic_CardContainers(t *testing.T) {
	html := `<html><body>
<div class="news-card newsitem">
  <a href="https://example.com/news/1"><div class="title">这是一条足够长的新闻标题</div></a>
</div>
<div class="news-card newsitem">
  <h2>标题标签回退链命中</h2>
  <a href="https://example.com/news/2">阅读</a>
</div>
<div class="sidebar">
  <a href="https://example.com/ads/1">这不在新闻容器里所以不收</a>
</div>
</body></html>`
	out := DOMHeuristic(mustDoc(t, html), bingProf, []string{"news", "card", "item"}, 5)
	if !out.IsSuccess() || len(out.Candidates) != 2 {
		t.Fatalf("期望 2 条候选：%+v", out)
	}
	if out.Candidates[0].Title != "这是一条足够长的新闻标题" {
		t.Fatalf("class=title 回退链未优先命中：%+v", out.Candidates[0])
	}
	if out.Candidates[1].Title != "标题标签回退链命中" {
		t.Fatalf("标题标签回退未命中：%+v", out.Candidates[1])
	}
}

func TestDOMHeuristic_FirstPatternWins(t *testing.T) {
	// 两个 pattern 都能各自命中容器；第一个产出候选的 pattern 获胜，
	// 后面的 pattern 不再尝试。
	html := `<html><body>
<div class="result-block"><h3>第一个词表命中的标题</h3><a href="https://example.com/news/1">x</a></div>
<div class="item-block"><h3>第二个词表不该出现</h3><a href="https://example.com/news/2">x</a></div>
</body></html>`
	out := DOMHeuristic(mustDoc(t, html), bingProf, []string{"result", "item"}, 5)
	if len(out.Candidates) != 1 {
		t.Fatalf("第一个 pattern 获胜后应停止：%+v", out.Candidates)
	}
	if out.Candidates[0].URL != "https://example.com/news/1" {
		t.Fatalf("候选不符：%+v", out.Candidates[0])
	}
}

func TestDOMHeuristic_TitleTooShort(t *testing.T) {
	html := `<html><body>
<div class="news-card"><h2>短</h2><a href="https://example.com/news/1">x</a></div>
</body></html>`
	out := DOMHeuristic(mustDoc(t, html), bingProf, []string{"news"}, 5)
	if !out.IsEmpty() {
		t.Fatalf("过短标题不应产出候选：%+v", out)
	}
}

func TestLinkScan_Fallback(t *testing.T) {
	html := `<html><body>
<a href="https://example.com/news/long-article">这个链接文本长度超过十个字符没问题</a>
<a href="https://example.com/news/short">短文本</a>
<a href="https://example.com/logo.png">图片链接标题虽然足够长也必须丢弃</a>
</body></html>`
	out := LinkScan(mustDoc(t, html), bingProf, 10)
	if len(out.Candidates) != 1 {
		t.Fatalf("期望 1 条候选：%+v", out.Candidates)
	}
	if out.Candidates[0].URL != "https://example.com/news/long-article" {
		t.Fatalf("候选不符：%+v", out.Candidates[0])
	}
}

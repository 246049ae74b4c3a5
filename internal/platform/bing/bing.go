package bing

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/fmzh2021/news-collection/internal/domain"
	"github.com/fmzh2021/news-collection/internal/enc"
	"github.com/fmzh2021/news-collection/internal/extract"
	"github.com/fmzh2021/news-collection/internal/platform"
	"github.com/fmzh2021/news-collection/internal/render"
)

// Provider 实现 Bing 新闻搜索的抓取。
//
// Bing 的新闻页结构相对规整, DOM 启发式通常够用；同一搜索地址
// 追加 format=rss 还能拿到官方 RSS, 作为最后的探测手段。
type Provider struct {
	BaseURL string
}

var profile = domain.Profile{
	Platform:    domain.PlatformBing,
	Origin:      "https://www.bing.com",
	MinTitleLen: 5,
}

// containerClasses 是 Bing 结果容器的类名词表。
var containerClasses = []string{"news-card", "newsitem", "news", "card", "item"}

const linkScanMinTitle = 10

// feedMaxItems 限制 RSS 探测的原始候选量。
const feedMaxItems = 20

func (Provider) Name() domain.Platform { return domain.PlatformBing }

func (Provider) Profile() domain.Profile { return profile }

func (p Provider) baseURL() string {
	u := strings.TrimSpace(p.BaseURL)
	if u == "" {
		return "https://www.bing.com"
	}
	return strings.TrimRight(u, "/")
}

func (p Provider) searchURL(keyword string) string {
	return p.baseURL() + "/news/search?q=" + url.QueryEscape(keyword)
}

func (p Provider) feedURL(keyword string) string {
	return p.searchURL(keyword) + "&format=rss"
}

func (p Provider) Search(ctx context.Context, keyword string, c *http.Client, _ render.Renderer, limit int) ([]domain.SearchResult, platform.Trace, error) {
	raw, err := platform.FetchRaw(ctx, c, p.searchURL(keyword))
	if err != nil {
		return nil, platform.Trace{}, err
	}
	dec := enc.Resolve(raw)

	doc, derr := goquery.NewDocumentFromReader(strings.NewReader(dec.Text))

	var steps []platform.Step
	if derr == nil {
		steps = append(steps,
			platform.Step{Strategy: domain.StrategyDOM, Run: func() domain.StrategyOutcome {
				return extract.DOMHeuristic(doc, profile, containerClasses, profile.MinTitleLen)
			}},
			platform.Step{Strategy: domain.StrategyLinkScan, Run: func() domain.StrategyOutcome {
				return extract.LinkScan(doc, profile, linkScanMinTitle)
			}},
		)
	}
	steps = append(steps, platform.Step{Strategy: domain.StrategyFeed, Run: func() domain.StrategyOutcome {
		return feedProbe(ctx, c, p.feedURL(keyword))
	}})

	res, tr := platform.RunChain(profile, limit, steps)
	return res, tr, nil
}

// feedProbe 拉取同一搜索的 RSS 形态并解析条目。
// 拉取或解析失败记为策略失败, 解析成功但无条目记为空。
func feedProbe(ctx context.Context, c *http.Client, feedURL string) domain.StrategyOutcome {
	raw, err := platform.FetchRaw(ctx, c, feedURL)
	if err != nil {
		return domain.Failed(err)
	}
	feed, err := gofeed.NewParser().ParseString(enc.Resolve(raw).Text)
	if err != nil {
		return domain.Failed(err)
	}

	var cands []domain.Candidate
	for _, item := range feed.Items {
		title := strings.TrimSpace(item.Title)
		link := strings.TrimSpace(item.Link)
		if title == "" || link == "" {
			continue
		}
		cands = append(cands, domain.Candidate{Title: title, URL: link, Strategy: domain.StrategyFeed})
		if len(cands) >= feedMaxItems {
			break
		}
	}
	if len(cands) == 0 {
		return domain.Empty()
	}
	return domain.Success(cands)
}

package google

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/fmzh2021/news-collection/internal/domain"
	"github.com/fmzh2021/news-collection/internal/enc"
	"github.com/fmzh2021/news-collection/internal/extract"
	"github.com/fmzh2021/news-collection/internal/platform"
	"github.com/fmzh2021/news-collection/internal/render"
)

// Provider 实现 Google 新闻搜索（tbm=nws）的抓取。
//
// Google 对无头客户端返回的静态页常常是空壳，因此渲染器存在时
// 优先走渲染路径；渲染不可用或导航失败时退回普通抓取。
// 结果指向任意外部站点，准入门是开放口径（OpenWeb）。
type Provider struct {
	BaseURL string
	Waits   render.Waits // 零值时使用 DefaultWaits
}

var profile = domain.Profile{
	Platform:    domain.PlatformGoogle,
	Origin:      "https://www.google.com",
	MinTitleLen: 5,
}

// renderMaxHandles 限制从渲染句柄直接提取的候选量。
const renderMaxHandles = 15

// linkScanMinTitle 比平台门槛更严, 压掉 Google 页面上的导航噪声。
const linkScanMinTitle = 10

func (Provider) Name() domain.Platform { return domain.PlatformGoogle }

func (Provider) Profile() domain.Profile { return profile }

func (p Provider) baseURL() string {
	u := strings.TrimSpace(p.BaseURL)
	if u == "" {
		return "https://www.google.com"
	}
	return strings.TrimRight(u, "/")
}

func (p Provider) searchURL(keyword string) string {
	return p.baseURL() + "/search?q=" + url.QueryEscape(keyword) + "&tbm=nws"
}

func (p Provider) waits() render.Waits {
	if p.Waits == (render.Waits{}) {
		return render.DefaultWaits()
	}
	return p.Waits
}

func (p Provider) Search(ctx context.Context, keyword string, c *http.Client, r render.Renderer, limit int) ([]domain.SearchResult, platform.Trace, error) {
	target := p.searchURL(keyword)

	var html string
	var handleCands []domain.Candidate
	if r != nil {
		if snapshot, err := render.Prepare(ctx, r, target, p.waits()); err == nil {
			html = snapshot
			handleCands = handleCandidates(ctx, r)
		}
	}
	if html == "" {
		raw, err := platform.FetchRaw(ctx, c, target)
		if err != nil {
			return nil, platform.Trace{}, err
		}
		html = enc.Resolve(raw).Text
	}

	doc, derr := goquery.NewDocumentFromReader(strings.NewReader(html))

	var steps []platform.Step
	if len(handleCands) > 0 {
		cands := handleCands
		steps = append(steps, platform.Step{Strategy: domain.StrategyRender, Run: func() domain.StrategyOutcome {
			return domain.Success(cands)
		}})
	}
	if derr == nil {
		steps = append(steps,
			platform.Step{Strategy: domain.StrategyDOM, Run: func() domain.StrategyOutcome {
				return resultBlocks(doc)
			}},
			platform.Step{Strategy: domain.StrategyLinkScan, Run: func() domain.StrategyOutcome {
				return extract.LinkScan(doc, profile, linkScanMinTitle)
			}},
		)
	}

	res, tr := platform.RunChain(profile, limit, steps)
	return res, tr, nil
}

// handleCandidates 直接从渲染器的元素句柄提取候选。
// 这是渲染路径独有的捷径：句柄里的文本已经过浏览器排版,
// 比解析快照更接近用户看到的结果。清洗仍交给统一管线。
func handleCandidates(ctx context.Context, r render.Renderer) []domain.Candidate {
	handles, err := r.QuerySelectorAll(ctx, "div.g")
	if err != nil {
		return nil
	}
	var cands []domain.Candidate
	for _, h := range handles {
		title := ""
		if h3, ok := h.QuerySelector("h3"); ok {
			title = strings.TrimSpace(h3.Text())
		}
		href := ""
		if a, ok := h.QuerySelector("a"); ok {
			if v, has := a.Attr("href"); has {
				href = v
			}
		}
		if title == "" || href == "" {
			continue
		}
		cands = append(cands, domain.Candidate{Title: title, URL: href, Strategy: domain.StrategyRender})
		if len(cands) >= renderMaxHandles {
			break
		}
	}
	return cands
}

// resultBlocks 解析经典结果块 div.g（类名是精确 token, 不能走子串启发式）。
func resultBlocks(doc *goquery.Document) domain.StrategyOutcome {
	var cands []domain.Candidate
	seen := make(map[string]struct{})

	doc.Find("div.g").Each(func(_ int, s *goquery.Selection) {
		title := strings.Join(strings.Fields(s.Find("h3").First().Text()), " ")
		href, ok := s.Find("a[href]").First().Attr("href")
		if !ok || title == "" {
			return
		}
		if _, dup := seen[href]; dup {
			return
		}
		seen[href] = struct{}{}
		cands = append(cands, domain.Candidate{Title: title, URL: href, Strategy: domain.StrategyDOM})
	})

	if len(cands) == 0 {
		return domain.Empty()
	}
	return domain.Success(cands)
}

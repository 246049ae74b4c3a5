package toutiao

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/fmzh2021/news-collection/internal/domain"
	"github.com/fmzh2021/news-collection/internal/enc"
	"github.com/fmzh2021/news-collection/internal/extract"
	"github.com/fmzh2021/news-collection/internal/platform"
	"github.com/fmzh2021/news-collection/internal/render"
)

// Provider 实现头条搜索页的抓取与多策略提取。
//
// 头条的结果页形态最不稳定：结构化数据卡片、SSR script 载荷、
// 常规 DOM、甚至整页不可解析都可能出现，因此链路最长：
// structured → script → dom → rawtext → api_probe。
type Provider struct {
	// BaseURL 允许指定搜索页的可用域名（为空时使用默认 so.toutiao.com）。
	BaseURL string
}

var profile = domain.Profile{
	Platform:     domain.PlatformToutiao,
	Origin:       "https://toutiao.com",
	DomainTokens: []string{"toutiao.com"},
	PathTokens:   []string{"/article/", "/i<digits>", "/a<digits>", "/group/"},
	MinTitleLen:  5,
}

// idPrefixes/minIDLen 过滤结构化卡片标识里的模板占位符。
var idPrefixes = []string{"s_", "news_", "card_"}

const minIDLen = 8

// containerClasses 是 DOM 启发式的容器类名词表（按优先级）。
var containerClasses = []string{"result-content", "cs-card", "feed-card", "search-result", "result", "card", "item"}

// rawURLRE 兜底正则：带文章路径特征的头条域名 URL。
var rawURLRE = regexp.MustCompile(`https?://[^\s"'<>]*toutiao\.com[^\s"'<>]*(?:/article/|/i\d|/a\d|/group/)[^\s"'<>]*`)

func (Provider) Name() domain.Platform { return domain.PlatformToutiao }

func (Provider) Profile() domain.Profile { return profile }

func (p Provider) baseURL() string {
	u := strings.TrimSpace(p.BaseURL)
	if u == "" {
		return "https://so.toutiao.com"
	}
	return strings.TrimRight(u, "/")
}

func (p Provider) searchURL(keyword string) string {
	return p.baseURL() + "/search?dvpf=pc&source=input&keyword=" + url.QueryEscape(keyword)
}

// probeEndpoints 是备用 JSON 接口（顺序即优先级）。
func (p Provider) probeEndpoints(keyword string) []string {
	kw := url.QueryEscape(keyword)
	return []string{
		p.baseURL() + "/search?keyword=" + kw + "&pd=information&format=json",
		"https://www.toutiao.com/api/search/content/?offset=0&format=json&autoload=true&count=20&keyword=" + kw,
	}
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
			platform.Step{Strategy: domain.StrategyStructured, Run: func() domain.StrategyOutcome {
				return extract.StructuredData(doc, profile, idPrefixes, minIDLen)
			}},
			platform.Step{Strategy: domain.StrategyScript, Run: func() domain.StrategyOutcome {
				return extract.ScriptPayload(doc, profile)
			}},
			platform.Step{Strategy: domain.StrategyDOM, Run: func() domain.StrategyOutcome {
				return extract.DOMHeuristic(doc, profile, containerClasses, profile.MinTitleLen)
			}},
		)
	}
	steps = append(steps,
		platform.Step{Strategy: domain.StrategyRawText, Run: func() domain.StrategyOutcome {
			return extract.RawText(dec.Text, profile, rawURLRE)
		}},
		platform.Step{Strategy: domain.StrategyAPIProbe, Run: func() domain.StrategyOutcome {
			return extract.APIProbe(ctx, c, profile, p.probeEndpoints(keyword))
		}},
	)

	res, tr := platform.RunChain(profile, limit, steps)
	return res, tr, nil
}

package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/fmzh2021/news-collection/internal/domain"
)

// scriptTokens 是廉价预筛：script 正文必须至少包含其中一个词
// 才值得跑正则与 JSON 解析。
var scriptTokens = []string{"article", "news", "feed", "list", "data", "result", "item", "title"}

// scriptPatterns 按固定顺序尝试的 JSON 形态正则：
// 已知全局变量赋值 → data/list/result/items 键后的数组 → 最小 title+url 对象。
// 顺序固定，matches 按文本出现顺序处理，保证链路确定性。
var scriptPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?s)window\.__INITIAL_STATE__\s*=\s*(\{.*?\})\s*(?:;|</)`),
	regexp.MustCompile(`(?s)window\._SSR_HYDRATED_DATA\s*=\s*(\{.*?\})\s*(?:;|</)`),
	regexp.MustCompile(`(?s)"(?:data|list|result|items)"\s*:\s*(\[.*?\])`),
	regexp.MustCompile(`\{[^{}]*"title"\s*:\s*"[^"]+"[^{}]*"url"\s*:\s*"[^"]+"[^{}]*\}`),
	regexp.MustCompile(`\{[^{}]*"url"\s*:\s*"[^"]+"[^{}]*"title"\s*:\s*"[^"]+"[^{}]*\}`),
}

const scriptMaxMatchesPerPattern = 8

// ScriptPayload 遍历内嵌 script 正文，从疑似 JSON 载荷里提取候选。
//
// 每个命中的片段独立解析：坏 JSON 只作废该片段。对解析成功的树做
// 深度受限的递归收集，相对地址留给 normalize 按 origin 解析。
func ScriptPayload(doc *goquery.Document, prof domain.Profile) domain.StrategyOutcome {
	var cands []domain.Candidate
	seen := make(map[string]struct{})

	emit := func(title, url string) {
		if !acceptable(prof, url) {
			return
		}
		key := title + "\x00" + url
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		cands = append(cands, domain.Candidate{Title: title, URL: url, Strategy: domain.StrategyScript})
	}

	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		body := s.Text()
		if !scriptWorthParsing(body) {
			return
		}
		for _, re := range scriptPatterns {
			matches := re.FindAllStringSubmatch(body, scriptMaxMatchesPerPattern)
			for _, m := range matches {
				frag := m[0]
				if len(m) > 1 {
					frag = m[1]
				}
				v, err := parseJSON(frag)
				if err != nil {
					continue
				}
				collectPairs(v, 0, emit)
			}
		}
	})

	if len(cands) == 0 {
		return domain.Empty()
	}
	return domain.Success(cands)
}

func scriptWorthParsing(body string) bool {
	if strings.TrimSpace(body) == "" {
		return false
	}
	lower := strings.ToLower(body)
	for _, tok := range scriptTokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}

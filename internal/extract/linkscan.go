package extract

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/fmzh2021/news-collection/internal/domain"
)

// linkScanMaxRaw 限制兜底扫描的原始候选量。
const linkScanMaxRaw = 50

// LinkScan 是结构化手段全部落空后的兜底：遍历页面上所有带 href 的链接，
// 用较高的标题长度门槛（调用方通常传 10）压掉导航/按钮类噪声。
func LinkScan(doc *goquery.Document, prof domain.Profile, minTitle int) domain.StrategyOutcome {
	var cands []domain.Candidate
	seen := make(map[string]struct{})

	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		title := cleanText(s.Text())
		if title == "" || len([]rune(title)) <= minTitle {
			return true
		}
		if !acceptable(prof, href) {
			return true
		}
		if _, dup := seen[href]; dup {
			return true
		}
		seen[href] = struct{}{}
		cands = append(cands, domain.Candidate{Title: title, URL: href, Strategy: domain.StrategyLinkScan})
		return len(cands) < linkScanMaxRaw
	})

	if len(cands) == 0 {
		return domain.Empty()
	}
	return domain.Success(cands)
}

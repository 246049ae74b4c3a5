package extract

import (
	"regexp"

	"github.com/fmzh2021/news-collection/internal/domain"
)

// titleRE 从未解析文本里抠标题（JSON 字面量形态）。
var titleRE = regexp.MustCompile(`"title"\s*:\s*"([^"\\]{5,200})"`)

const rawTextMaxPairs = 40

// RawText 是最后手段：DOM/script 全都解析不出时，直接在文本上跑
// URL 形正则与标题形正则，把第 i 个 URL 与第 i 个标题按位置配对。
// 配对纯属启发式，产出质量交给 normalize 把关。
func RawText(text string, prof domain.Profile, urlRE *regexp.Regexp) domain.StrategyOutcome {
	urls := urlRE.FindAllString(text, rawTextMaxPairs)
	titles := titleRE.FindAllStringSubmatch(text, rawTextMaxPairs)

	n := len(urls)
	if len(titles) < n {
		n = len(titles)
	}

	var cands []domain.Candidate
	for i := 0; i < n; i++ {
		url := urls[i]
		title := titles[i][1]
		if !acceptable(prof, url) {
			continue
		}
		cands = append(cands, domain.Candidate{Title: title, URL: url, Strategy: domain.StrategyRawText})
	}
	if len(cands) == 0 {
		return domain.Empty()
	}
	return domain.Success(cands)
}

package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/fmzh2021/news-collection/internal/domain"
)

// containerSelector 限定候选容器的元素类型；类名匹配用子串（忽略大小写），
// CSS 选择器做不到，因此先取全体再自行过滤。
const containerSelector = "div[class],article[class],section[class],li[class]"

// DOMHeuristic 按固定顺序尝试一组容器类名子串。
//
// 对每个命中的容器：标题走回退链（类名含 title/head 的元素 → 任意标题标签 →
// 任意链接），链接取第一个带 href 的 a。第一个产出任何可接受候选的
// 类名 pattern 即获胜，后续 pattern 不再尝试。
func DOMHeuristic(doc *goquery.Document, prof domain.Profile, classPatterns []string, minTitle int) domain.StrategyOutcome {
	for _, pattern := range classPatterns {
		cands := collectByClassPattern(doc, prof, strings.ToLower(pattern), minTitle)
		if len(cands) > 0 {
			return domain.Success(cands)
		}
	}
	return domain.Empty()
}

func collectByClassPattern(doc *goquery.Document, prof domain.Profile, pattern string, minTitle int) []domain.Candidate {
	var cands []domain.Candidate
	seen := make(map[string]struct{})

	doc.Find(containerSelector).Each(func(_ int, s *goquery.Selection) {
		class, _ := s.Attr("class")
		if !strings.Contains(strings.ToLower(class), pattern) {
			return
		}

		title := containerTitle(s)
		href, ok := s.Find("a[href]").First().Attr("href")
		if !ok || title == "" {
			return
		}
		if len([]rune(title)) <= minTitle {
			return
		}
		if !acceptable(prof, href) {
			return
		}
		if _, dup := seen[href]; dup {
			return
		}
		seen[href] = struct{}{}
		cands = append(cands, domain.Candidate{Title: title, URL: href, Strategy: domain.StrategyDOM})
	})
	return cands
}

// containerTitle 按回退链取容器内的标题文本。
func containerTitle(s *goquery.Selection) string {
	var byClass string
	s.Find("h1,h2,h3,h4,h5,h6,a,div,span").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		class, _ := el.Attr("class")
		lower := strings.ToLower(class)
		if strings.Contains(lower, "title") || strings.Contains(lower, "head") {
			byClass = cleanText(el.Text())
			return byClass == "" // 空文本继续找下一个
		}
		return true
	})
	if byClass != "" {
		return byClass
	}
	if t := cleanText(s.Find("h1,h2,h3,h4,h5,h6").First().Text()); t != "" {
		return t
	}
	return cleanText(s.Find("a").First().Text())
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

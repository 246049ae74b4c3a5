package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/fmzh2021/news-collection/internal/domain"
)

// StructuredAttr 是结果卡片携带的稳定结构化数据属性：
// 元素的内联文本本身就是描述该条新闻的 JSON 载荷。
const StructuredAttr = "data-druid-card-data-id"

// structuredMaxRaw 限制原始候选收集量；清洗后封顶交由 normalize。
const structuredMaxRaw = 20

// highlightKeys 是标题的高亮子结构候选（data.title 缺失时回退）。
var highlightKeys = []string{"emphasized", "highlight"}

// StructuredData 扫描携带结构化数据属性的元素并解析其 JSON 载荷。
//
// 标识符先过“已知前缀或最小长度”这道筛子，去掉模板占位符；
// 之后从嵌套的 data 对象里按优先级取标题与链接，两者同时存在
// 且链接过准入门才算一条候选。
func StructuredData(doc *goquery.Document, prof domain.Profile, prefixes []string, minIDLen int) domain.StrategyOutcome {
	var cands []domain.Candidate

	doc.Find("[" + StructuredAttr + "]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		id, _ := s.Attr(StructuredAttr)
		if !recognizedID(id, prefixes, minIDLen) {
			return true
		}

		payload, err := parseJSON(strings.TrimSpace(s.Text()))
		if err != nil {
			// 单个卡片的坏 JSON 只丢弃该卡片。
			return true
		}
		obj, ok := payload.(map[string]interface{})
		if !ok {
			return true
		}
		data, ok := obj["data"].(map[string]interface{})
		if !ok {
			data = obj
		}

		title := structuredTitle(data)
		url := structuredURL(data, prof.Origin)
		if title == "" || url == "" || !acceptable(prof, url) {
			return true
		}
		cands = append(cands, domain.Candidate{Title: title, URL: url, Strategy: domain.StrategyStructured})
		return len(cands) < structuredMaxRaw
	})

	if len(cands) == 0 {
		return domain.Empty()
	}
	return domain.Success(cands)
}

func recognizedID(id string, prefixes []string, minLen int) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	for _, p := range prefixes {
		if strings.HasPrefix(id, p) {
			return true
		}
	}
	return len(id) >= minLen
}

func structuredTitle(data map[string]interface{}) string {
	if t := firstString(data, []string{"title"}); t != "" {
		return t
	}
	for _, k := range highlightKeys {
		if sub, ok := data[k].(map[string]interface{}); ok {
			if t := firstString(sub, []string{"title", "text"}); t != "" {
				return t
			}
		}
	}
	return ""
}

// structuredURL 按优先级解析链接字段：
// url → article_url → share_url → seo_url（相对地址补 origin）→ schema → 由 group_id 合成。
func structuredURL(data map[string]interface{}, origin string) string {
	if u := firstString(data, []string{"url", "article_url", "share_url"}); u != "" {
		return u
	}
	if seo := firstString(data, []string{"seo_url"}); seo != "" {
		if strings.HasPrefix(seo, "http://") || strings.HasPrefix(seo, "https://") || strings.HasPrefix(seo, "//") {
			return seo
		}
		if !strings.HasPrefix(seo, "/") {
			seo = "/" + seo
		}
		return strings.TrimRight(origin, "/") + seo
	}
	if u := firstString(data, []string{"schema", "open_url"}); u != "" {
		return u
	}
	for _, k := range []string{"group_id", "item_id"} {
		if id := numericID(data[k]); id != "" {
			return strings.TrimRight(origin, "/") + "/group/" + id + "/"
		}
	}
	return ""
}

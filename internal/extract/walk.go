package extract

import (
	stdjson "encoding/json"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// maxWalkDepth 限制递归深度：超深分支直接截断，避免恶意/异常嵌套拖垮提取。
const maxWalkDepth = 8

// 标题/链接字段的优先级表。不同来源变体使用的字段名略有差异，
// 这里固定一个顺序（先到先得），不追求“唯一正确”的优先级。
var (
	titleKeys = []string{"title", "Title", "article_title", "name", "headline"}
	urlKeys   = []string{"url", "Url", "article_url", "link", "share_url", "source_url", "web_url"}
)

// parseJSON 用 UseNumber 解析，保留大整数（如 group_id）的精度。
func parseJSON(s string) (interface{}, error) {
	dec := jsoniter.ConfigCompatibleWithStandardLibrary.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// collectPairs 对 JSON 树做深度受限的递归遍历，收集所有同时暴露
// 标题字段与链接字段的对象。
//
// 对象按键名排序后递归：map 的天然迭代顺序是随机的，排序保证
// 相同输入永远产出相同顺序（链路确定性是契约的一部分）。
func collectPairs(v interface{}, depth int, emit func(title, url string)) {
	if depth > maxWalkDepth {
		return
	}
	switch node := v.(type) {
	case map[string]interface{}:
		title := firstString(node, titleKeys)
		url := firstString(node, urlKeys)
		if title != "" && url != "" {
			emit(title, url)
		}
		keys := make([]string, 0, len(node))
		for k := range node {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			collectPairs(node[k], depth+1, emit)
		}
	case []interface{}:
		for _, elem := range node {
			collectPairs(elem, depth+1, emit)
		}
	}
}

func firstString(m map[string]interface{}, keys []string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

// numericID 把 JSON 里的数字型 ID 还原为十进制字符串（字符串形态也接受）。
func numericID(v interface{}) string {
	switch n := v.(type) {
	case stdjson.Number:
		s := n.String()
		if allDigits(s) {
			return s
		}
	case string:
		if allDigits(n) && n != "" {
			return n
		}
	}
	return ""
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fmzh2021/news-collection/internal/domain"
)

// listKeys 是接口载荷里结果列表的常见落点。
var listKeys = []string{"data", "result", "list", "items"}

// APIProbe 探测平台的备用 JSON 接口：逐个端点请求，第一个产出候选的
// 端点即获胜。非 200、坏 JSON、结构不符都只作废当前端点。
func APIProbe(ctx context.Context, c *http.Client, prof domain.Profile, endpoints []string) domain.StrategyOutcome {
	var lastErr error
	parsedAny := false

	for _, endpoint := range endpoints {
		body, err := probeFetch(ctx, c, endpoint)
		if err != nil {
			lastErr = err
			continue
		}

		payload, err := parseJSON(string(body))
		if err != nil {
			// 接口偶尔在 JSON 外包一层杂质（JSONP、调试前后缀）：
			// 退化为截取最外层括号内的子串再试一次。
			sub, ok := jsonSubstring(string(body))
			if !ok {
				lastErr = err
				continue
			}
			payload, err = parseJSON(sub)
			if err != nil {
				lastErr = err
				continue
			}
		}
		parsedAny = true

		cands := itemsFromPayload(payload, prof)
		if len(cands) > 0 {
			return domain.Success(cands)
		}
	}

	if !parsedAny && lastErr != nil {
		return domain.Failed(lastErr)
	}
	return domain.Empty()
}

func probeFetch(ctx context.Context, c *http.Client, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("探测端点返回 HTTP %d：%s", resp.StatusCode, endpoint)
	}
	return io.ReadAll(resp.Body)
}

// jsonSubstring 截取首个 '{' 或 '[' 到对应末括号之间的子串。
func jsonSubstring(s string) (string, bool) {
	for _, pair := range [...][2]byte{{'{', '}'}, {'[', ']'}} {
		start := strings.IndexByte(s, pair[0])
		end := strings.LastIndexByte(s, pair[1])
		if start >= 0 && end > start {
			return s[start : end+1], true
		}
	}
	return "", false
}

// itemsFromPayload 在 data/result/list/items 键下找结果列表（允许嵌套一层），
// 每个条目按与 script 策略相同的字段优先级取标题/链接。
func itemsFromPayload(payload interface{}, prof domain.Profile) []domain.Candidate {
	obj, ok := payload.(map[string]interface{})
	if !ok {
		if arr, ok := payload.([]interface{}); ok {
			return itemsFromList(arr, prof)
		}
		return nil
	}

	for _, k := range listKeys {
		switch v := obj[k].(type) {
		case []interface{}:
			if cands := itemsFromList(v, prof); len(cands) > 0 {
				return cands
			}
		case map[string]interface{}:
			// 一层嵌套：data.list / result.items 之类。
			for _, kk := range listKeys {
				if arr, ok := v[kk].([]interface{}); ok {
					if cands := itemsFromList(arr, prof); len(cands) > 0 {
						return cands
					}
				}
			}
		}
	}
	return nil
}

func itemsFromList(items []interface{}, prof domain.Profile) []domain.Candidate {
	var cands []domain.Candidate
	for _, it := range items {
		m, ok := it.(map[string]interface{})
		if !ok {
			continue
		}
		title := firstString(m, titleKeys)
		url := firstString(m, urlKeys)
		if title == "" || url == "" || !acceptable(prof, url) {
			continue
		}
		cands = append(cands, domain.Candidate{Title: title, URL: url, Strategy: domain.StrategyAPIProbe})
	}
	return cands
}

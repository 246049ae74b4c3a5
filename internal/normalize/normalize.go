package normalize

import (
	"net/url"
	"strings"

	"github.com/fmzh2021/news-collection/internal/domain"
)

const (
	// DefaultLimit 是单平台结果条数上限。
	DefaultLimit = 10

	minTitleLen   = 5
	maxTitleLen   = 200
	binaryMinLen  = 101 // 超过 100 字符的纯 base64 字母表标题按误提取的二进制处理
	redirectParam = "q"
)

var assetExts = []string{".jpg", ".png", ".gif", ".svg", ".webp", ".ico", ".css", ".js"}

var blockedSegments = map[string]struct{}{
	"search": {}, "login": {}, "register": {}, "user": {}, "profile": {}, "setting": {},
}

// Normalize 按发现顺序把候选项清洗为最终结果：
// 规范化 URL → 准入门 → 标题校验/截断 → 按 URL 字符串精确去重 → 截断到 limit。
//
// 去重只做字符串相等比较：尾斜杠、query 参数差异都不合并（历史行为，消费方可能依赖）。
func Normalize(cands []domain.Candidate, prof domain.Profile, limit int) []domain.SearchResult {
	if limit <= 0 || limit > DefaultLimit {
		limit = DefaultLimit
	}

	seen := make(map[string]struct{}, len(cands))
	out := make([]domain.SearchResult, 0, limit)
	for _, c := range cands {
		u, ok := CanonicalURL(prof, c.URL)
		if !ok {
			continue
		}
		if !AcceptURL(prof, u) {
			continue
		}
		title := strings.TrimSpace(c.Title)
		if !ValidTitle(title) {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, domain.SearchResult{
			Title:    Truncate(title, maxTitleLen),
			URL:      u,
			Platform: prof.Platform,
		})
		if len(out) >= limit {
			break
		}
	}
	return out
}

// CanonicalURL 把候选 URL 变为绝对地址：
// - 重定向包装（/url?q=...）先解开再判定
// - 协议相对（//host/...）补 https:
// - 根相对（/path）拼平台 Origin
// - 其余必须已是绝对 http(s)，否则丢弃
func CanonicalURL(prof domain.Profile, raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if unwrapped, ok := UnwrapRedirect(raw); ok {
		raw = unwrapped
	}
	switch {
	case strings.HasPrefix(raw, "//"):
		return "https:" + raw, true
	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
		return raw, true
	case strings.HasPrefix(raw, "/"):
		if prof.Origin == "" {
			return "", false
		}
		return strings.TrimRight(prof.Origin, "/") + raw, true
	default:
		return "", false
	}
}

// UnwrapRedirect 解开搜索引擎的跳转包装：/url?q=<真实地址>。
// 支持相对与绝对两种形态；q 参数必须解出绝对 http(s) 地址才算成功。
func UnwrapRedirect(raw string) (string, bool) {
	idx := strings.Index(raw, "/url?")
	if idx != 0 && !strings.Contains(raw, "://") {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Path != "/url" {
		return "", false
	}
	q := u.Query().Get(redirectParam)
	if !strings.HasPrefix(q, "http://") && !strings.HasPrefix(q, "https://") {
		return "", false
	}
	return q, true
}

// AcceptURL 是域名/路径准入门 + 无条件黑名单。入参必须已是绝对地址。
func AcceptURL(prof domain.Profile, abs string) bool {
	lower := strings.ToLower(abs)
	if strings.HasPrefix(lower, "javascript:") || strings.HasPrefix(lower, "data:") || strings.HasPrefix(lower, "#") {
		return false
	}

	u, err := url.Parse(abs)
	if err != nil || u.Host == "" {
		return false
	}

	path := strings.ToLower(u.Path)
	for _, ext := range assetExts {
		if strings.HasSuffix(path, ext) {
			return false
		}
	}
	for _, seg := range strings.Split(path, "/") {
		if _, blocked := blockedSegments[seg]; blocked {
			return false
		}
	}

	if prof.OpenWeb() {
		return true
	}
	for _, tok := range prof.DomainTokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	for _, tok := range prof.PathTokens {
		if MatchPathToken(path, tok) {
			return true
		}
	}
	return false
}

// MatchPathToken 匹配准入路径词。`/i<digits>` 与 `/a<digits>` 两种写法
// 表示“字母前缀 + 纯数字 ID”，其余词按子串匹配。
func MatchPathToken(path, tok string) bool {
	switch tok {
	case "/i<digits>", "/a<digits>":
		prefix := tok[:2] // "/i" 或 "/a"
		i := strings.Index(path, prefix)
		for i >= 0 {
			rest := path[i+2:]
			if n := leadingDigits(rest); n > 0 {
				return true
			}
			j := strings.Index(path[i+2:], prefix)
			if j < 0 {
				break
			}
			i += 2 + j
		}
		return false
	default:
		return strings.Contains(path, tok)
	}
}

func leadingDigits(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}

// ValidTitle 拒绝过短标题与疑似二进制误提取（超长纯 base64 字母表）。
func ValidTitle(title string) bool {
	if len([]rune(title)) < minTitleLen {
		return false
	}
	return !looksLikeBinaryBlob(title)
}

func looksLikeBinaryBlob(title string) bool {
	if len([]rune(title)) < binaryMinLen {
		return false
	}
	stripped := strings.Map(func(r rune) rune {
		switch r {
		case '=', '/', '+', '-':
			return -1
		}
		return r
	}, title)
	if stripped == "" {
		return true
	}
	for _, r := range stripped {
		isBase64 := (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isBase64 {
			return false
		}
	}
	return true
}

// Truncate 按字符（rune）截断，避免把多字节字符切成半个。
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

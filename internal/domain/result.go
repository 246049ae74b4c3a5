package domain

import "strings"

// Platform 是结果的来源标记（provenance）。
type Platform string

const (
	PlatformToutiao Platform = "toutiao"
	PlatformGoogle  Platform = "google"
	PlatformBing    Platform = "bing"
)

// ParsePlatform 把用户输入解析为合法平台名；忽略大小写与首尾空白。
func ParsePlatform(s string) (Platform, bool) {
	switch Platform(strings.ToLower(strings.TrimSpace(s))) {
	case PlatformToutiao:
		return PlatformToutiao, true
	case PlatformGoogle:
		return PlatformGoogle, true
	case PlatformBing:
		return PlatformBing, true
	default:
		return "", false
	}
}

// Strategy 标识候选项由哪条提取策略产出。
type Strategy string

const (
	StrategyStructured Strategy = "structured" // 结构化数据块（data-* 属性 + 内联 JSON）
	StrategyScript     Strategy = "script"     // 内嵌 script 的 JSON 载荷
	StrategyDOM        Strategy = "dom"        // 常规 DOM 选择器启发式
	StrategyLinkScan   Strategy = "linkscan"   // 全量链接兜底扫描
	StrategyRawText    Strategy = "rawtext"    // 纯文本正则（最后手段）
	StrategyAPIProbe   Strategy = "api_probe"  // 备用 JSON 接口探测
	StrategyFeed       Strategy = "feed"       // RSS/Atom 输出
	StrategyRender     Strategy = "render"     // 渲染器元素句柄直读
)

// RawDocument 是 Fetcher 返回的原始响应（不可变）。
type RawDocument struct {
	Body            []byte
	ContentType     string // 响应声明的 Content-Type（可能为空或说谎）
	ContentEncoding string // 响应声明的 Content-Encoding
}

// DecodedDocument 是编码解析后的文本文档。
//
// Confident=false 表示走了“UTF-8 + 替换符”的兜底路径：文本一定可用，
// 但不保证是原始编码的正确解读。
type DecodedDocument struct {
	Text      string
	Encoding  string
	Confident bool
}

// Candidate 是策略产出的临时候选（可能不合法，由 normalize 把关）。
type Candidate struct {
	Title    string
	URL      string
	Strategy Strategy
}

// SearchResult 是对外输出的最终结果。
// 约束：Title ≤ 200 字符；URL 为绝对地址；同一平台内按规范化 URL 唯一。
type SearchResult struct {
	Title    string   `json:"title"`
	URL      string   `json:"url"`
	Platform Platform `json:"platform"`
}

// StrategyOutcome 是单次策略尝试的三态结果：Success / Empty / Failed。
// 策略链据此推进：Failed 与 Empty 都只是“换下一条策略”，绝不中断整条链。
type StrategyOutcome struct {
	Candidates []Candidate
	Err        error
}

func Success(cands []Candidate) StrategyOutcome { return StrategyOutcome{Candidates: cands} }

func Empty() StrategyOutcome { return StrategyOutcome{} }

func Failed(err error) StrategyOutcome { return StrategyOutcome{Err: err} }

func (o StrategyOutcome) IsSuccess() bool { return o.Err == nil && len(o.Candidates) > 0 }

func (o StrategyOutcome) IsEmpty() bool { return o.Err == nil && len(o.Candidates) == 0 }

func (o StrategyOutcome) IsFailed() bool { return o.Err != nil }

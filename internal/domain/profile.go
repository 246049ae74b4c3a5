package domain

// Profile 把平台差异固化为配置数据（词汇表），而不是子类覆盖：
// 同一套策略/规范化代码按 Profile 产出不同平台的结果。
type Profile struct {
	Platform Platform

	// Origin 是相对地址解析的基准（scheme + host，无尾斜杠）。
	Origin string

	// DomainTokens / PathTokens 共同构成 URL 准入门：
	// URL 包含任一 DomainToken 或任一 PathToken 即通过。
	// 两者都为空表示“任何绝对 http(s) URL 都接受”（通用搜索引擎的结果指向外站）。
	DomainTokens []string
	PathTokens   []string

	// MinTitleLen 是策略层的标题最短长度（normalize 层另有固定下限 5）。
	MinTitleLen int
}

// open-web 平台（google/bing）的结果天然指向任意外站，准入门对它们退化为
// “必须是绝对 http(s) URL”。
func (p Profile) OpenWeb() bool {
	return len(p.DomainTokens) == 0 && len(p.PathTokens) == 0
}

package platform

import (
	"fmt"
)

// Registry 是平台的只读注册表（按平台名索引）。
// 用 map 做 O(1) 查找；平台数量极小，保持简单即可。
type Registry struct {
	byName map[string]Searcher
}

func NewRegistry(searchers ...Searcher) (Registry, error) {
	byName := make(map[string]Searcher, len(searchers))
	for _, s := range searchers {
		if s == nil {
			return Registry{}, fmt.Errorf("platform 不能为空")
		}
		name := string(s.Name())
		if name == "" {
			return Registry{}, fmt.Errorf("platform.Name 不能为空")
		}
		if _, ok := byName[name]; ok {
			return Registry{}, fmt.Errorf("重复的 platform：%q", name)
		}
		byName[name] = s
	}
	return Registry{byName: byName}, nil
}

func (r Registry) Get(name string) (Searcher, bool) {
	if r.byName == nil {
		return nil, false
	}
	s, ok := r.byName[name]
	return s, ok
}

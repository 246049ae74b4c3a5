// Package sink 负责聚合报告的落盘：带 run 标识的历史文件 + latest 快照。
package sink

import (
	"path/filepath"

	jsoniter "github.com/json-iterator/go"

	"github.com/fmzh2021/news-collection/internal/domain"
	"github.com/fmzh2021/news-collection/internal/infra/fsx"
)

// LatestName 是固定名的快照文件, 供 Pages 等静态消费方按固定路径读取。
const LatestName = "results_latest.json"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Store 把报告写进一个目录。
type Store struct {
	Dir string
}

// WriteReport 写两份：report.Filename（历史追溯）与 results_latest.json（覆盖）。
// 两份都走原子替换写入。返回历史文件的完整路径。
func (s Store) WriteReport(rep domain.AggregateReport) (string, error) {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", err
	}
	if err := fsx.WriteFileAtomicReplace(s.Dir, rep.Filename, data); err != nil {
		return "", err
	}
	if err := fsx.WriteFileAtomicReplace(s.Dir, LatestName, data); err != nil {
		return "", err
	}
	return filepath.Join(s.Dir, rep.Filename), nil
}

// Package artifacts 读取已发布的历史报告：
// Pages 上的 latest 快照, 以及 GitHub Actions 的 artifact 列表与下载。
package artifacts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/fmzh2021/news-collection/internal/domain"
	"github.com/fmzh2021/news-collection/internal/infra/fsx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const defaultAPIBase = "https://api.github.com"

// Client 在共享的 HTTP client 上访问两个只读数据源。
type Client struct {
	HTTP *http.Client

	// APIBase 允许测试指向本地伪装的 GitHub API；为空时用官方地址。
	APIBase string
}

// Artifact 是 Actions artifact 的清单条目（只保留展示与下载需要的字段）。
type Artifact struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	SizeBytes int64     `json:"size_in_bytes"`
	CreatedAt time.Time `json:"created_at"`
	Expired   bool      `json:"expired"`
}

func (c Client) apiBase() string {
	if strings.TrimSpace(c.APIBase) == "" {
		return defaultAPIBase
	}
	return strings.TrimRight(c.APIBase, "/")
}

// LatestFromPages 拉取 Pages 站点上的最新报告快照。
func (c Client) LatestFromPages(ctx context.Context, baseURL string) (domain.AggregateReport, error) {
	var rep domain.AggregateReport

	u := strings.TrimRight(baseURL, "/") + "/api/results_latest.json"
	body, err := c.get(ctx, u, "")
	if err != nil {
		return rep, err
	}
	if err := json.Unmarshal(body, &rep); err != nil {
		return rep, fmt.Errorf("解析 latest 快照失败: %w", err)
	}
	return rep, nil
}

// ListArtifacts 列出仓库的 Actions artifact（按 API 返回顺序）。
// token 为空时走匿名访问, 只对公开仓库有效。
func (c Client) ListArtifacts(ctx context.Context, owner, repo, token string) ([]Artifact, error) {
	u := fmt.Sprintf("%s/repos/%s/%s/actions/artifacts", c.apiBase(), owner, repo)
	body, err := c.get(ctx, u, token)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Artifacts []Artifact `json:"artifacts"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("解析 artifact 清单失败: %w", err)
	}
	return payload.Artifacts, nil
}

// DownloadArtifact 下载 artifact 的 zip 包到 destDir, 返回写出的文件路径。
// zip 下载端点要求认证, token 不能为空。
func (c Client) DownloadArtifact(ctx context.Context, owner, repo string, id int64, token, destDir string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", fmt.Errorf("下载 artifact 需要 token")
	}

	u := fmt.Sprintf("%s/repos/%s/%s/actions/artifacts/%d/zip", c.apiBase(), owner, repo, id)
	body, err := c.get(ctx, u, token)
	if err != nil {
		return "", err
	}

	name := "artifact_" + strconv.FormatInt(id, 10) + ".zip"
	if err := fsx.WriteFileAtomicReplace(destDir, name, body); err != nil {
		return "", err
	}
	return filepath.Join(destDir, name), nil
}

func (c Client) get(ctx context.Context, url, token string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json, application/json;q=0.9, */*;q=0.8")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("GET %s: 状态码 %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

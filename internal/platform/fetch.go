package platform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fmzh2021/news-collection/internal/domain"
)

// FetchRaw 抓取一个 URL 并连同解码所需的响应头一起返回。
// 非 2xx 直接算失败：核心不重试，由上层把该平台降级为空结果。
func FetchRaw(ctx context.Context, c *http.Client, url string) (domain.RawDocument, error) {
	if c == nil {
		return domain.RawDocument{}, errors.New("http client 不能为空")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.RawDocument{}, err
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8")

	resp, err := c.Do(req)
	if err != nil {
		return domain.RawDocument{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.RawDocument{}, &HTTPStatusError{URL: url, StatusCode: resp.StatusCode, Location: resp.Header.Get("Location")}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.RawDocument{}, err
	}
	return domain.RawDocument{
		Body:            body,
		ContentType:     resp.Header.Get("Content-Type"),
		ContentEncoding: resp.Header.Get("Content-Encoding"),
	}, nil
}

// HTTPStatusError 表示站点返回了非 2xx 的 HTTP 状态码。
// 上层据此生成更可操作的错误描述（例如被重定向到验证页）。
type HTTPStatusError struct {
	URL        string
	StatusCode int
	Location   string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "HTTP status error"
	}
	loc := strings.TrimSpace(e.Location)
	if loc == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d location=%s", e.StatusCode, loc)
}

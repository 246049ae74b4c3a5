package enc

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"io"
	"mime"
	"strings"
	"unicode/utf8"

	"github.com/gogs/chardet"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/fmzh2021/news-collection/internal/domain"
)

// chardet 的置信度为 0–100；低于该阈值的统计猜测不可信，直接跳过。
const minDetectConfidence = 70

// fallbackLabels 是固定兜底编码表，按顺序尝试。
// 中文门户的历史页面常见 GBK 系编码；utf-8-sig 单独处理（剥 BOM）。
var fallbackLabels = []string{"utf-8", "gbk", "gb2312", "gb18030"}

// Resolve 把任意原始字节流解析为可用文本文档。
//
// 候选编码按严格优先级尝试，命中第一个“解码无错且含 HTML 标记”的即停止：
// 1) 声明了 gzip/deflate 且字节不像文本 → 先解压
// 2) 统计字节分布猜测（置信度 > 阈值才采用）
// 3) Content-Type 头里的 charset 参数
// 4) 固定兜底表：utf-8 / gbk / gb2312 / gb18030 / 带 BOM 的 utf-8
// 全部失败则按 UTF-8 解码并以替换符兜底——该路径永不出错，也绝不向上抛异常。
func Resolve(raw domain.RawDocument) domain.DecodedDocument {
	body := raw.Body

	if declaresCompression(raw.ContentEncoding) && !looksLikeText(body) {
		if inflated, ok := decompress(body, raw.ContentEncoding); ok {
			body = inflated
		}
	}

	if label, ok := detectLabel(body); ok {
		if text, ok := decodeAndValidate(body, label); ok {
			return domain.DecodedDocument{Text: text, Encoding: label, Confident: true}
		}
	}

	if label := charsetParam(raw.ContentType); label != "" {
		if text, ok := decodeAndValidate(body, label); ok {
			return domain.DecodedDocument{Text: text, Encoding: label, Confident: true}
		}
	}

	for _, label := range fallbackLabels {
		if text, ok := decodeAndValidate(body, label); ok {
			return domain.DecodedDocument{Text: text, Encoding: label, Confident: true}
		}
	}
	if text, ok := decodeUTF8BOM(body); ok {
		return domain.DecodedDocument{Text: text, Encoding: "utf-8-sig", Confident: true}
	}

	// 保证成立的终点：UTF-8 + U+FFFD 替换，总能产出文本。
	return domain.DecodedDocument{
		Text:      strings.ToValidUTF8(string(body), string(utf8.RuneError)),
		Encoding:  "utf-8",
		Confident: false,
	}
}

func declaresCompression(contentEncoding string) bool {
	ce := strings.ToLower(contentEncoding)
	return strings.Contains(ce, "gzip") || strings.Contains(ce, "deflate")
}

// looksLikeText 粗判字节是否已经可读（transport 层多数情况已自动解压）。
func looksLikeText(b []byte) bool {
	if len(b) == 0 {
		return true
	}
	n := len(b)
	if n > 256 {
		n = 256
	}
	printable := 0
	for _, c := range b[:n] {
		if c == '\t' || c == '\n' || c == '\r' || (c >= 0x20 && c != 0x7f) {
			printable++
		}
	}
	return printable*10 >= n*9
}

func decompress(b []byte, contentEncoding string) ([]byte, bool) {
	ce := strings.ToLower(contentEncoding)
	if strings.Contains(ce, "gzip") {
		zr, err := gzip.NewReader(bytes.NewReader(b))
		if err == nil {
			if out, err := io.ReadAll(zr); err == nil {
				return out, true
			}
		}
	}
	if strings.Contains(ce, "deflate") {
		fr := flate.NewReader(bytes.NewReader(b))
		if out, err := io.ReadAll(fr); err == nil && len(out) > 0 {
			return out, true
		}
	}
	return nil, false
}

func detectLabel(b []byte) (string, bool) {
	if len(b) == 0 {
		return "", false
	}
	res, err := chardet.NewHtmlDetector().DetectBest(b)
	if err != nil || res == nil {
		return "", false
	}
	if res.Confidence <= minDetectConfidence {
		return "", false
	}
	return strings.ToLower(res.Charset), true
}

func charsetParam(contentType string) string {
	if strings.TrimSpace(contentType) == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(params["charset"]))
}

// decodeAndValidate 按编码标签解码并校验文本里出现了 HTML 标记。
// 标记校验是对“解码成功但全是乱码”的内容级把关。
func decodeAndValidate(b []byte, label string) (string, bool) {
	text, ok := decodeAs(b, label)
	if !ok {
		return "", false
	}
	if !hasHTMLMarker(text) {
		return "", false
	}
	return text, true
}

func decodeAs(b []byte, label string) (string, bool) {
	// UTF-8 走严格校验：x/text 的解码器默认做替换，无法区分“真 UTF-8”。
	if norm := strings.ToLower(label); norm == "utf-8" || norm == "utf8" {
		if !utf8.Valid(b) {
			return "", false
		}
		return string(b), true
	}
	e, _ := charset.Lookup(label)
	if e == nil {
		return "", false
	}
	out, _, err := transform.Bytes(e.NewDecoder(), b)
	if err != nil {
		return "", false
	}
	return string(out), true
}

func decodeUTF8BOM(b []byte) (string, bool) {
	if !bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}) {
		return "", false
	}
	dec := unicode.UTF8BOM.NewDecoder()
	out, _, err := transform.Bytes(dec, b)
	if err != nil || !utf8.Valid(out) {
		return "", false
	}
	text := string(out)
	if !hasHTMLMarker(text) {
		return "", false
	}
	return text, true
}

var htmlMarkers = []string{"<html", "<body", "<div"}

func hasHTMLMarker(text string) bool {
	lower := strings.ToLower(text)
	for _, m := range htmlMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

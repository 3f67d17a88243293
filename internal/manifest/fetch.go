package manifest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/John-Robertt/panelsdl/internal/domain"
)

// APIPath 是带版本号的 manifest 路径，拼接在 panels domain 之后。
const APIPath = "/panels-api/data/20240916/media-1a-i-p~s"

// URL 返回 manifest 的完整地址。
func URL(panelsDomain string) string {
	return strings.TrimRight(strings.TrimSpace(panelsDomain), "/") + APIPath
}

// wireManifest 只用于区分“字段缺失”和“零值”。
type wireManifest struct {
	Version *uint8                  `json:"version"`
	Data    map[string]domain.Entry `json:"data"`
}

// Fetch 对 manifest 地址发起一次 GET 并解析。
//
// 约束：
// - 不重试，不覆盖 client 的超时设置
// - 未建模的 JSON 字段直接忽略
// - 失败返回 *FetchError 或 *ParseError，二者都意味着本次 run 无法继续
func Fetch(ctx context.Context, c *http.Client, panelsDomain string) (domain.Manifest, error) {
	u := URL(panelsDomain)
	if c == nil {
		return domain.Manifest{}, &FetchError{URL: u, Err: errors.New("http client 为空")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.Manifest{}, &FetchError{URL: u, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		return domain.Manifest{}, &FetchError{URL: u, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.Manifest{}, &FetchError{URL: u, Err: &HTTPStatusError{URL: u, StatusCode: resp.StatusCode}}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Manifest{}, &FetchError{URL: u, Err: err}
	}
	return Parse(u, resp.Header.Get("Content-Type"), body)
}

// Parse 把 body 解析为 Manifest。source 仅用于错误信息。
func Parse(source, contentType string, body []byte) (domain.Manifest, error) {
	var w wireManifest
	if err := json.Unmarshal(body, &w); err != nil {
		return domain.Manifest{}, &ParseError{URL: source, Hint: hintFor(contentType, body), Err: err}
	}
	if w.Version == nil {
		return domain.Manifest{}, &ParseError{URL: source, Err: errors.New("缺少 version 字段")}
	}
	if w.Data == nil {
		return domain.Manifest{}, &ParseError{URL: source, Err: errors.New("缺少 data 字段")}
	}
	return domain.Manifest{Version: *w.Version, Data: w.Data}, nil
}

func hintFor(contentType string, body []byte) string {
	ct := strings.ToLower(contentType)
	trimmed := bytes.TrimSpace(body)
	if !strings.Contains(ct, "html") && !bytes.HasPrefix(trimmed, []byte("<")) {
		return ""
	}
	return htmlTitle(trimmed)
}

package manifest

import (
	"fmt"
	"strings"
)

// FetchError 表示 manifest 请求没能拿到完整响应（网络错误、非 2xx、读 body 失败）。
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("获取 manifest 失败（%s）：%v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError 表示响应 body 不是预期结构的 JSON。
// Hint 在 body 是 HTML 时携带页面标题（通常是代理/网关的错误页）。
type ParseError struct {
	URL  string
	Hint string
	Err  error
}

func (e *ParseError) Error() string {
	hint := strings.TrimSpace(e.Hint)
	if hint == "" {
		return fmt.Sprintf("解析 manifest 失败（%s）：%v", e.URL, e.Err)
	}
	return fmt.Sprintf("解析 manifest 失败（%s）：%v；服务端返回了 HTML 页面：%q", e.URL, e.Err, hint)
}

func (e *ParseError) Unwrap() error { return e.Err }

// HTTPStatusError 表示服务端返回了非 2xx 的 HTTP 状态码。
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "HTTP status error"
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

package httpx

import (
	"errors"
	"net/http"
)

// DefaultUserAgent 用于 manifest 与图片请求。
const DefaultUserAgent = "panelsdl/1.0"

// Transport 给每个请求补上 User-Agent，其余交给 Base。
//
// 不做重试、不设总超时：单个请求挂起只会阻塞它所在的 lane。
type Transport struct {
	Base      http.RoundTripper
	UserAgent string
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	if t.Base == nil {
		return nil, errors.New("nil base transport")
	}
	if req.Header.Get("User-Agent") != "" || t.UserAgent == "" {
		return t.Base.RoundTrip(req)
	}
	// Clone 会复制 Header，避免在 RoundTripper 内部“污染”调用方的 request。
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.UserAgent)
	return t.Base.RoundTrip(r)
}

// NewClient 构造 manifest 与图片下载共用的 HTTP client。
//
// 连接池按 lane 数量设置，保证每个 lane 都能复用自己的 keep-alive 连接。
func NewClient(workers int) *http.Client {
	if workers < 1 {
		workers = 1
	}
	base := http.DefaultTransport.(*http.Transport).Clone()
	base.MaxIdleConnsPerHost = workers
	if base.MaxIdleConns < workers {
		base.MaxIdleConns = workers
	}
	return &http.Client{
		Transport: &Transport{
			Base:      base,
			UserAgent: DefaultUserAgent,
		},
	}
}

package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewClient_PoolSizedToWorkers(t *testing.T) {
	c := NewClient(16)
	tr, ok := c.Transport.(*Transport)
	if !ok {
		t.Fatalf("期望 *Transport，实际 %T", c.Transport)
	}
	base, ok := tr.Base.(*http.Transport)
	if !ok {
		t.Fatalf("期望 *http.Transport，实际 %T", tr.Base)
	}
	if base.MaxIdleConnsPerHost != 16 {
		t.Fatalf("期望 MaxIdleConnsPerHost=16，实际 %d", base.MaxIdleConnsPerHost)
	}
	if c.Timeout != 0 {
		t.Fatalf("不应设置 client 总超时，实际 %s", c.Timeout)
	}
}

func TestNewClient_ClampsWorkers(t *testing.T) {
	c := NewClient(0)
	base := c.Transport.(*Transport).Base.(*http.Transport)
	if base.MaxIdleConnsPerHost != 1 {
		t.Fatalf("workers<1 应按 1 处理，实际 %d", base.MaxIdleConnsPerHost)
	}
}

func TestTransport_SetsUserAgent(t *testing.T) {
	uaCh := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uaCh <- r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	c := NewClient(1)
	resp, err := c.Get(srv.URL)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	resp.Body.Close()
	if got := <-uaCh; got != DefaultUserAgent {
		t.Fatalf("期望 UA=%q，实际 %q", DefaultUserAgent, got)
	}
}

func TestTransport_KeepsCallerUserAgent(t *testing.T) {
	uaCh := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uaCh <- r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	req.Header.Set("User-Agent", "custom")
	resp, err := NewClient(1).Do(req)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	resp.Body.Close()
	if got := <-uaCh; got != "custom" {
		t.Fatalf("调用方显式设置的 UA 不应被覆盖：%q", got)
	}
}

func TestTransport_NilBase(t *testing.T) {
	tr := &Transport{}
	req, _ := http.NewRequest(http.MethodGet, "http://127.0.0.1/", nil)
	if _, err := tr.RoundTrip(req); err == nil {
		t.Fatalf("期望错误，但得到 nil")
	}
}

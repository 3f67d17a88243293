package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/John-Robertt/panelsdl/internal/app/run"
	"github.com/John-Robertt/panelsdl/internal/config"
	"github.com/John-Robertt/panelsdl/internal/domain"
)

var _ run.Observer = (*lineUI)(nil)

// lineUI 是交互终端下的逐行事件输出。
//
// 所有内容写到 stderr，不污染 stdout 的 JSON 输出契约；
// lane goroutine 会并发回调，因此每次写入都持有 mu。
type lineUI struct {
	w io.Writer

	mu        sync.Mutex
	startedAt time.Time
	total     int
	done      int
	ok        int
	skip      int

	now func() time.Time
}

func newLineUI(w io.Writer) *lineUI {
	return &lineUI{w: w, now: time.Now}
}

func (p *lineUI) OnStart(eff config.EffectiveConfig) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if p.startedAt.IsZero() {
		p.startedAt = now
	}
	fmt.Fprintf(p.w, "[%s] panelsdl\n", now.Format("15:04:05"))
	fmt.Fprintln(p.w, "配置（生效）:")
	fmt.Fprintf(p.w, "  panels_domain: %s\n", truncate(eff.PanelsDomain, 120))
	fmt.Fprintf(p.w, "  download_directory: %s\n", eff.DownloadDir)
	fmt.Fprintf(p.w, "  workers: %d\n", eff.Workers)
	fmt.Fprintln(p.w)
}

func (p *lineUI) OnManifest(version uint8, entries, wallpapers, lanes int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = wallpapers
	fmt.Fprintf(p.w, "manifest: version=%d entries=%d wallpapers=%d\n", version, entries, wallpapers)
	if version != domain.ExpectedVersion {
		fmt.Fprintf(p.w, "  注意：未知的 manifest version=%d，按现有字段继续\n", version)
	}
	fmt.Fprintf(p.w, "执行: lanes=%d\n\n", lanes)
}

func (p *lineUI) OnItemDone(lane int, res domain.ItemResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	switch res.Status {
	case domain.StatusDownloaded:
		p.ok++
		fmt.Fprintf(p.w, "[%d/%d] lane=%d %s OK %s\n", p.done, p.total, lane, res.ID, res.File)
	default:
		p.skip++
		fmt.Fprintf(p.w, "[%d/%d] lane=%d %s SKIP %s: %s\n",
			p.done, p.total, lane, res.ID, res.ErrorCode, truncate(res.ErrorMsg, 160),
		)
	}
}

func (p *lineUI) OnLaneDone(rep domain.LaneReport) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.w, "lane %d 结束: downloaded=%d skipped=%d elapsed=%s\n",
		rep.Lane, rep.Downloaded, rep.Skipped, formatElapsed(p.now().Sub(p.startedAt)),
	)
}

// truncate 按 rune 截断，max 是字符数而不是字节数（错误信息里有中文）。
func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	sec := int(d.Seconds())
	h := sec / 3600
	m := (sec % 3600) / 60
	s := sec % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

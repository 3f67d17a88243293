package run

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/John-Robertt/panelsdl/internal/domain"
)

func strp(s string) *string { return &s }

func laneOf(items ...domain.WorkItem) <-chan domain.WorkItem {
	ch := make(chan domain.WorkItem, len(items))
	for _, it := range items {
		ch <- it
	}
	close(ch)
	return ch
}

func TestDrainLane_SeqAdvancesOnSkip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad.jpg" {
			http.Error(w, "gone", http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()
	dir := t.TempDir()

	items := laneOf(
		domain.WorkItem{Lane: 2, ID: "a", Entry: domain.Entry{DHD: strp(srv.URL + "/bad.jpg")}},
		domain.WorkItem{Lane: 2, ID: "b", Entry: domain.Entry{DSD: strp(srv.URL + "/good.jpg")}},
	)
	rep := drainLane(context.Background(), 2, items, dir, srv.Client(), nopObserver{})

	if rep.Lane != 2 || rep.Downloaded != 1 || rep.Skipped != 1 {
		t.Fatalf("lane 统计不正确：%+v", rep)
	}
	if _, err := os.Stat(filepath.Join(dir, "2_0.jpg")); !os.IsNotExist(err) {
		t.Fatalf("失败条目不应产生文件：%v", err)
	}
	// 跳过的条目也占用 seq，因此成功条目落在 2_1。
	if rep.Items[1].File != filepath.Join(dir, "2_1.jpg") {
		t.Fatalf("seq 不符合预期：%s", rep.Items[1].File)
	}
	if _, err := os.Stat(rep.Items[1].File); err != nil {
		t.Fatalf("期望写出 2_1.jpg：%v", err)
	}
	if rep.Items[0].ErrorCode != domain.ErrCodeFetchFailed || rep.Items[0].URL == "" {
		t.Fatalf("失败条目记录不正确：%+v", rep.Items[0])
	}
}

func TestDrainLane_EmptyQueueEndsImmediately(t *testing.T) {
	obs := &recordObserver{}
	rep := drainLane(context.Background(), 0, laneOf(), t.TempDir(), http.DefaultClient, obs)
	if len(rep.Items) != 0 || rep.Downloaded != 0 || rep.Skipped != 0 {
		t.Fatalf("空队列不应产生结果：%+v", rep)
	}
	if len(obs.laneDone) != 1 {
		t.Fatalf("空队列也应上报 lane 结束：%v", obs.laneDone)
	}
}

func TestDrainLane_CancelledContextSkipsRemaining(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := laneOf(
		domain.WorkItem{ID: "a", Entry: domain.Entry{DHD: strp(srv.URL + "/a.jpg")}},
		domain.WorkItem{ID: "b", Entry: domain.Entry{DHD: strp(srv.URL + "/b.jpg")}},
	)
	rep := drainLane(ctx, 0, items, t.TempDir(), srv.Client(), nopObserver{})
	if rep.Skipped != 2 || rep.Downloaded != 0 {
		t.Fatalf("取消后所有条目都应跳过：%+v", rep)
	}
}

func TestDownloadOne_MissingURL(t *testing.T) {
	res := downloadOne(context.Background(), http.DefaultClient, domain.WorkItem{ID: "x"}, filepath.Join(t.TempDir(), "0_0.jpg"))
	if res.Status != domain.StatusSkipped || res.ErrorCode != domain.ErrCodeFetchFailed {
		t.Fatalf("缺少 URL 应记为 fetch_failed：%+v", res)
	}
}

func TestDownloadOne_TargetIsDirectory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()
	dir := t.TempDir()
	target := filepath.Join(dir, "0_0.jpg")
	if err := os.Mkdir(target, 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}

	res := downloadOne(context.Background(), srv.Client(), domain.WorkItem{ID: "x", Entry: domain.Entry{DHD: strp(srv.URL + "/x.jpg")}}, target)
	if res.ErrorCode != domain.ErrCodeTargetConflict {
		t.Fatalf("目标是目录时应记为 target_conflict：%+v", res)
	}
}

func TestClassifyWriteError(t *testing.T) {
	if got := classifyWriteError(os.ErrExist); got != domain.ErrCodeTargetConflict {
		t.Fatalf("ErrExist 应映射为 target_conflict：%s", got)
	}
	if got := classifyWriteError(os.ErrPermission); got != domain.ErrCodeIOFailed {
		t.Fatalf("其它错误应映射为 io_failed：%s", got)
	}
}

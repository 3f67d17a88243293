package run

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/John-Robertt/panelsdl/internal/domain"
	"github.com/John-Robertt/panelsdl/internal/infra/fsx"
)

// drainLane 消费一个 lane 的队列，直到队列关闭且为空。
//
// 单条失败（下载/创建/写入/刷盘）只记为 skipped，lane 继续处理下一条；
// 任何条目级错误都不会离开本函数。seq 只属于当前 goroutine。
func drainLane(ctx context.Context, lane int, items <-chan domain.WorkItem, dir string, c *http.Client, obs Observer) domain.LaneReport {
	rep := domain.LaneReport{Lane: lane, Items: make([]domain.ItemResult, 0, cap(items))}
	seq := 0

	for it := range items {
		target := domain.Target{Lane: lane, Seq: seq}
		seq++

		res := downloadOne(ctx, c, it, target.Path(dir))
		rep.Add(res)
		obs.OnItemDone(lane, res)
	}

	obs.OnLaneDone(rep)
	return rep
}

func downloadOne(ctx context.Context, c *http.Client, it domain.WorkItem, path string) domain.ItemResult {
	res := domain.ItemResult{
		ID:     it.ID,
		File:   path,
		Status: domain.StatusSkipped, // 成功时覆盖
	}

	u, err := it.Entry.WallpaperURL()
	if err != nil {
		// 过滤阶段已保证存在 dhd/dsd；走到这里说明上游数据被改动过。
		res.ErrorCode = domain.ErrCodeFetchFailed
		res.ErrorMsg = err.Error()
		return res
	}
	res.URL = u

	b, err := download(ctx, c, u)
	if err != nil {
		res.ErrorCode = domain.ErrCodeFetchFailed
		res.ErrorMsg = fmt.Sprintf("下载失败：%v", err)
		return res
	}

	if err := fsx.CreateNew(path, b); err != nil {
		res.ErrorCode = classifyWriteError(err)
		res.ErrorMsg = fmt.Sprintf("写入失败：%v", err)
		return res
	}

	res.Status = domain.StatusDownloaded
	return res
}

func classifyWriteError(err error) string {
	if errors.Is(err, os.ErrExist) || fsx.IsPathTypeConflict(err) {
		return domain.ErrCodeTargetConflict
	}
	return domain.ErrCodeIOFailed
}

func download(ctx context.Context, c *http.Client, u string) ([]byte, error) {
	if c == nil {
		return nil, errors.New("http client 为空")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

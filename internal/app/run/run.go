package run

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/John-Robertt/panelsdl/internal/app"
	"github.com/John-Robertt/panelsdl/internal/config"
	"github.com/John-Robertt/panelsdl/internal/domain"
	"github.com/John-Robertt/panelsdl/internal/infra/fsx"
	"github.com/John-Robertt/panelsdl/internal/infra/httpx"
	"github.com/John-Robertt/panelsdl/internal/manifest"
)

const (
	StageMkdir      = "mkdir"
	StageFetch      = "fetch"
	StageParse      = "parse"
	StageDistribute = "distribute"
)

// Error 是 run 级别的致命错误（会中止整个 run）。
// Stage 标明失败发生在哪一步，上层据此给出提示。
type Error struct {
	Stage string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("stage=%s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Execute 执行一次完整 run：建目录 -> 拉 manifest -> 过滤 -> 分发 -> N 个 lane 并发下载 -> 等待全部完成。
//
// 返回 error 仅代表致命错误；条目级失败只体现在 report 的 skipped 中。
func Execute(ctx context.Context, eff config.EffectiveConfig) (domain.RunReport, error) {
	return ExecuteWithObserver(ctx, eff, nil)
}

// ExecuteWithObserver 与 Execute 相同，但允许传入 Observer 输出阶段/条目信息（由上层决定是否启用）。
func ExecuteWithObserver(ctx context.Context, eff config.EffectiveConfig, obs Observer) (domain.RunReport, error) {
	if obs == nil {
		obs = nopObserver{}
	}
	workers := config.ClampWorkers(eff.Workers)

	rr := domain.RunReport{
		RunID:     uuid.NewString(),
		Domain:    eff.PanelsDomain,
		Dir:       eff.DownloadDir,
		Workers:   workers,
		StartedAt: time.Now().UTC(),
	}
	obs.OnStart(eff)

	// 目录必须先于任何网络请求就绪。
	if err := fsx.EnsureDir(eff.DownloadDir); err != nil {
		return rr, &Error{Stage: StageMkdir, Err: err}
	}

	client := httpx.NewClient(workers)

	m, err := manifest.Fetch(ctx, client, eff.PanelsDomain)
	if err != nil {
		var pe *manifest.ParseError
		if errors.As(err, &pe) {
			return rr, &Error{Stage: StageParse, Err: err}
		}
		return rr, &Error{Stage: StageFetch, Err: err}
	}

	wallpapers := m.Wallpapers()
	rr.ManifestVersion = m.Version
	rr.Entries = len(m.Data)
	rr.Wallpapers = len(wallpapers)
	obs.OnManifest(m.Version, len(m.Data), len(wallpapers), workers)

	lanes, err := app.Distribute(wallpapers, workers)
	if err != nil {
		return rr, &Error{Stage: StageDistribute, Err: err}
	}

	// 每个 lane 只写自己的槽位，WaitGroup 之后才读。
	reports := make([]domain.LaneReport, len(lanes))
	var wg sync.WaitGroup
	for i, ch := range lanes {
		wg.Add(1)
		go func(lane int, items <-chan domain.WorkItem) {
			defer wg.Done()
			reports[lane] = drainLane(ctx, lane, items, eff.DownloadDir, client, obs)
		}(i, ch)
	}
	wg.Wait()

	rr.Lanes = reports
	rr.FinishedAt = time.Now().UTC()
	rr.Finalize()
	return rr, nil
}

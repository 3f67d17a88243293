package run

import (
	"github.com/John-Robertt/panelsdl/internal/config"
	"github.com/John-Robertt/panelsdl/internal/domain"
)

// Observer 用于把“阶段/条目结果”从核心执行流程中解耦出来。
//
// 约束：
// - run 包只负责发事件，不做任何输出（避免污染 stdout 的 report）。
// - Observer 的实现必须并发安全：OnItemDone/OnLaneDone 来自多个 lane goroutine。
type Observer interface {
	// OnStart 在 ExecuteWithObserver 开始时调用。
	OnStart(eff config.EffectiveConfig)
	// OnManifest 在 manifest 解析与过滤完成后调用。
	OnManifest(version uint8, entries, wallpapers, lanes int)
	// OnItemDone 在 lane 处理完一个条目后调用（成功或跳过）。
	OnItemDone(lane int, res domain.ItemResult)
	// OnLaneDone 在 lane 队列耗尽后调用。
	OnLaneDone(rep domain.LaneReport)
}

type nopObserver struct{}

func (nopObserver) OnStart(config.EffectiveConfig) {}
func (nopObserver) OnManifest(uint8, int, int, int) {}
func (nopObserver) OnItemDone(int, domain.ItemResult) {}
func (nopObserver) OnLaneDone(domain.LaneReport) {}

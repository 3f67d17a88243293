package app

import (
	"errors"
	"fmt"

	"github.com/John-Robertt/panelsdl/internal/domain"
)

// ErrLaneUnavailable 表示某个 lane 的队列无法再接收条目。
// 队列容量按分配数精确预留，正常情况下不会出现。
var ErrLaneUnavailable = errors.New("lane 队列不可用")

// HandOffError 表示把第 Index 个条目交给 Lane 失败。
type HandOffError struct {
	Lane  int
	Index int
	Err   error
}

func (e *HandOffError) Error() string {
	return fmt.Sprintf("分发第 %d 个条目到 lane %d 失败：%v", e.Index, e.Lane, e.Err)
}

func (e *HandOffError) Unwrap() error { return e.Err }

// Assign 返回 lane -> 条目下标 的静态轮询分配：第 i 个条目进入 lane i%workers。
// workers<1 按 1 处理。
func Assign(n, workers int) [][]int {
	if workers < 1 {
		workers = 1
	}
	lanes := make([][]int, workers)
	for i := 0; i < n; i++ {
		lane := i % workers
		lanes[lane] = append(lanes[lane], i)
	}
	return lanes
}

// Distribute 把条目按 Assign 的规则放进 workers 个队列，然后关闭全部队列。
//
// - 每个队列的缓冲区恰好等于分配给它的条目数，发送永不阻塞
// - 返回前一定关闭所有队列（成功或失败都一样），worker 以“队列关闭且为空”作为唯一结束信号
// - 条目以克隆值交给 lane，不与 manifest 共享内存
func Distribute(items []domain.Keyed, workers int) ([]<-chan domain.WorkItem, error) {
	plan := Assign(len(items), workers)

	chans := make([]chan domain.WorkItem, len(plan))
	for lane := range plan {
		chans[lane] = make(chan domain.WorkItem, len(plan[lane]))
	}
	defer func() {
		for _, ch := range chans {
			close(ch)
		}
	}()

	for lane, idxs := range plan {
		for _, i := range idxs {
			it := domain.WorkItem{
				Lane:  lane,
				ID:    items[i].ID,
				Entry: items[i].Entry.Clone(),
			}
			if err := handOff(chans[lane], it); err != nil {
				return nil, &HandOffError{Lane: lane, Index: i, Err: err}
			}
		}
	}

	out := make([]<-chan domain.WorkItem, len(chans))
	for i, ch := range chans {
		out[i] = ch
	}
	return out, nil
}

func handOff(ch chan<- domain.WorkItem, it domain.WorkItem) error {
	select {
	case ch <- it:
		return nil
	default:
		return ErrLaneUnavailable
	}
}

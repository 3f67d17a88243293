package domain

import (
	"errors"
	"sort"
)

// ExpectedVersion 是当前已知的 manifest version。
// 只用于提示（observer / report），不做强制校验。
const ExpectedVersion uint8 = 1

// ErrNotWallpaper 表示条目既没有 dhd 也没有 dsd。
var ErrNotWallpaper = errors.New("条目不包含壁纸地址（dhd/dsd 均为空）")

// Entry 是 manifest 中的一条记录。
//
// 所有字段都是可选的：上游会按条目省略字段，因此用 *string 区分“缺失”与“空串”。
// 未建模的字段在解码时直接丢弃（容忍上游 schema 漂移）。
type Entry struct {
	// As 对应 JSON 键 "as"（在部分语言里是保留字，这里显式映射）。
	As   *string `json:"as,omitempty"`
	AM   *string `json:"am,omitempty"`
	DHD  *string `json:"dhd,omitempty"` // 高清原图
	DSD  *string `json:"dsd,omitempty"` // 标清原图
	E    *string `json:"e,omitempty"`
	FS   *string `json:"fs,omitempty"`
	S    *string `json:"s,omitempty"`
	WCL0 *string `json:"wcl0,omitempty"`
	WCL1 *string `json:"wcl1,omitempty"`
	WCL2 *string `json:"wcl2,omitempty"`
	WCS0 *string `json:"wcs0,omitempty"`
	WCS1 *string `json:"wcs1,omitempty"`
	WCS2 *string `json:"wcs2,omitempty"`
	WFS  *string `json:"wfs,omitempty"`
	WFT  *string `json:"wft,omitempty"`
}

// IsWallpaper 当且仅当 dhd 或 dsd 至少一个存在时为 true。
func (e Entry) IsWallpaper() bool {
	return e.DHD != nil || e.DSD != nil
}

// WallpaperURL 返回下载地址：dhd 优先，其次 dsd。
func (e Entry) WallpaperURL() (string, error) {
	switch {
	case e.DHD != nil:
		return *e.DHD, nil
	case e.DSD != nil:
		return *e.DSD, nil
	default:
		return "", ErrNotWallpaper
	}
}

// Clone 深拷贝所有指针字段，保证交给 lane 的条目不与 manifest 共享内存。
func (e Entry) Clone() Entry {
	return Entry{
		As:   cloneStr(e.As),
		AM:   cloneStr(e.AM),
		DHD:  cloneStr(e.DHD),
		DSD:  cloneStr(e.DSD),
		E:    cloneStr(e.E),
		FS:   cloneStr(e.FS),
		S:    cloneStr(e.S),
		WCL0: cloneStr(e.WCL0),
		WCL1: cloneStr(e.WCL1),
		WCL2: cloneStr(e.WCL2),
		WCS0: cloneStr(e.WCS0),
		WCS1: cloneStr(e.WCS1),
		WCS2: cloneStr(e.WCS2),
		WFS:  cloneStr(e.WFS),
		WFT:  cloneStr(e.WFT),
	}
}

func cloneStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Manifest 是一次 run 内只读的目录数据。
type Manifest struct {
	Version uint8            `json:"version"`
	Data    map[string]Entry `json:"data"`
}

// Keyed 是带目录 ID 的条目（过滤结果的元素）。
type Keyed struct {
	ID    string
	Entry Entry
}

// Wallpapers 过滤出壁纸条目。
//
// 顺序本身不影响正确性；这里按 ID 字典序稳定排序，让 lane 分配可复现。
func (m Manifest) Wallpapers() []Keyed {
	out := make([]Keyed, 0, len(m.Data))
	for id, e := range m.Data {
		if !e.IsWallpaper() {
			continue
		}
		out = append(out, Keyed{ID: id, Entry: e})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

package domain

import (
	"encoding/json"
	"sort"
	"time"
)

const (
	StatusDownloaded = "downloaded"
	StatusSkipped    = "skipped"
)

const (
	ErrCodeFetchFailed    = "fetch_failed"
	ErrCodeParseFailed    = "parse_failed"
	ErrCodeTargetConflict = "target_conflict"
	ErrCodeIOFailed       = "io_failed"
	ErrCodeConfigInvalid  = "config_invalid"
)

// RunReport 是一次 run 的结果（只输出到 stdout，不落盘）。
type RunReport struct {
	RunID   string `json:"run_id"`
	Domain  string `json:"domain"`
	Dir     string `json:"dir"`
	Workers int    `json:"workers"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	ManifestVersion uint8 `json:"manifest_version"`
	Entries         int   `json:"entries"`
	Wallpapers      int   `json:"wallpapers"`

	Summary ReportSummary `json:"summary"`
	Lanes   []LaneReport  `json:"lanes"`
}

type ReportSummary struct {
	Downloaded int `json:"downloaded"`
	Skipped    int `json:"skipped"`
}

// LaneReport 由单个 lane 独占写入，lane 结束后才交给上层。
type LaneReport struct {
	Lane       int          `json:"lane"`
	Downloaded int          `json:"downloaded"`
	Skipped    int          `json:"skipped"`
	Items      []ItemResult `json:"items"`
}

type ItemResult struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	File string `json:"file"`

	Status    string `json:"status"`
	ErrorCode string `json:"error_code"`
	ErrorMsg  string `json:"error_msg"`
}

// Add 追加一条结果并更新 lane 计数。
func (l *LaneReport) Add(it ItemResult) {
	switch it.Status {
	case StatusDownloaded:
		l.Downloaded++
	case StatusSkipped:
		l.Skipped++
	}
	l.Items = append(l.Items, it)
}

// Finalize 做三件事：
// 1) 时间统一为 UTC
// 2) lanes 按 lane 序号排序（lane 内保持处理顺序）
// 3) summary 由 lanes 计算得出
func (r *RunReport) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()

	sort.SliceStable(r.Lanes, func(i, j int) bool { return r.Lanes[i].Lane < r.Lanes[j].Lane })

	var s ReportSummary
	for _, l := range r.Lanes {
		for _, it := range l.Items {
			switch it.Status {
			case StatusDownloaded:
				s.Downloaded++
			case StatusSkipped:
				s.Skipped++
			}
		}
	}
	r.Summary = s
}

// MarshalJSON 保证 nil slice 输出为 []，而不是 null。
func (r RunReport) MarshalJSON() ([]byte, error) {
	type Alias RunReport
	a := Alias(r)
	// 复制一份，避免改写调用方持有的 lanes。
	a.Lanes = make([]LaneReport, len(r.Lanes))
	copy(a.Lanes, r.Lanes)
	for i := range a.Lanes {
		if a.Lanes[i].Items == nil {
			a.Lanes[i].Items = []ItemResult{}
		}
	}
	return json.Marshal(a)
}

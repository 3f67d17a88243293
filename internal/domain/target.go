package domain

import (
	"fmt"
	"path/filepath"
)

// TargetExt 固定为 .jpg（不做内容嗅探）。
const TargetExt = ".jpg"

// Target 是某条下载在本地的落盘位置。
// (Lane, Seq) 在一次 run 内唯一，因此文件名唯一。
type Target struct {
	Lane int
	Seq  int
}

func (t Target) Name() string {
	return fmt.Sprintf("%d_%d%s", t.Lane, t.Seq, TargetExt)
}

func (t Target) Path(dir string) string {
	return filepath.Join(dir, t.Name())
}

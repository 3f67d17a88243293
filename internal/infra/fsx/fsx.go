package fsx

import (
	"errors"
	"fmt"
	"io"
	"os"
)

type writeSyncCloser interface {
	io.Writer
	Sync() error
	Close() error
}

// 通过可替换的函数指针，让测试能稳定模拟写入/刷盘失败。
var openFileFunc = func(name string, flag int, perm os.FileMode) (writeSyncCloser, error) {
	f, err := os.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// PathTypeConflictError 表示目标路径类型冲突（例如期望目录但实际是文件）。
type PathTypeConflictError struct {
	Path string
	Want string
	Got  string
}

func (e *PathTypeConflictError) Error() string {
	return fmt.Sprintf("目标路径类型冲突：%q（期望 %s，实际 %s）", e.Path, e.Want, e.Got)
}

func IsPathTypeConflict(err error) bool {
	var e *PathTypeConflictError
	return errors.As(err, &e)
}

// EnsureDir 确保 dir 是目录（不存在则递归创建）。
// 已存在的目录直接视为成功；同名的非目录返回 PathTypeConflictError。
func EnsureDir(dir string) error {
	fi, err := os.Stat(dir)
	if err == nil {
		if fi.IsDir() {
			return nil
		}
		return &PathTypeConflictError{Path: dir, Want: "dir", Got: "file"}
	}
	if !os.IsNotExist(err) {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// WriteError 表示文件已创建，但写入或刷盘失败。
// 按约定不删除残留文件（由调用方决定是否处理）。
type WriteError struct {
	Path string
	Op   string // "write" / "sync" / "close"
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s %q 失败：%v", e.Op, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// CreateNew 以“必须是新文件”的语义写入 path：
//
// - O_CREATE|O_EXCL：目标已存在时失败（errors.Is(err, os.ErrExist)），绝不覆盖
// - 写完全部字节后 Sync，保证返回 nil 时数据已落盘
// - 写入/刷盘失败不删除残留文件
func CreateNew(path string, data []byte) error {
	f, err := openFileFunc(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if err := writeAll(f, data); err != nil {
		_ = f.Close()
		return &WriteError{Path: path, Op: "write", Err: err}
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return &WriteError{Path: path, Op: "sync", Err: err}
	}
	if err := f.Close(); err != nil {
		return &WriteError{Path: path, Op: "close", Err: err}
	}
	return nil
}

func writeAll(w io.Writer, b []byte) error {
	for len(b) > 0 {
		n, err := w.Write(b)
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		b = b[n:]
	}
	return nil
}
